// Package api pkg/api/ws.go
package api

import (
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(_ *http.Request) bool { return true },
}

// changeNotice tells a client which cache key changed; the client
// re-reads the HTTP API rather than receiving the value itself.
type changeNotice struct {
	Key string `json:"key"`
}

// handleWebSocket streams cache-change notifications. Connected
// clients double as the visibility signal: the first connection
// foregrounds the synchronizer, the last disconnect backgrounds it,
// stopping the status poll while nobody is watching.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	s.clientConnected()
	defer s.clientDisconnected()

	changes, cancel := s.store.Subscribe("")
	defer cancel()

	closed := make(chan struct{})

	// Read pump: we accept no client messages, but reading is the only
	// way to notice the peer going away.
	go func() {
		defer close(closed)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case key, ok := <-changes:
			if !ok {
				return
			}

			if err := conn.WriteJSON(changeNotice{Key: string(key)}); err != nil {
				s.logger.Debug().Err(err).Msg("WebSocket write failed, dropping client")
				return
			}
		}
	}
}

func (s *Server) clientConnected() {
	s.mu.Lock()
	s.clients++
	first := s.clients == 1
	s.mu.Unlock()

	if first {
		s.logger.Info().Msg("First client connected, foregrounding")
		s.syncer.OnForeground()
	}
}

func (s *Server) clientDisconnected() {
	s.mu.Lock()
	s.clients--
	last := s.clients == 0
	s.mu.Unlock()

	if last {
		s.logger.Info().Msg("Last client disconnected, backgrounding")
		s.syncer.OnBackground()
	}
}
