// Package sync pkg/sync/events.go
package sync

import (
	"context"
	"fmt"

	"github.com/monitocorp/servicedash/pkg/cache"
	"github.com/monitocorp/servicedash/pkg/models"
)

// pageState tracks the forward-only page cursor for one service.
type pageState struct {
	next    int
	hasMore bool
}

// RequestMoreEvents fetches the next event page for a service and
// returns the concatenation of every page fetched so far, in fetch
// order, plus whether another page is available. A page shorter than
// models.EventPageSize ends the sequence; once ended, calls return the
// cached concatenation without touching the provider. Fetched pages
// are immutable and never refetched.
func (s *Synchronizer) RequestMoreEvents(ctx context.Context, id string) ([]models.ServiceEvent, bool, error) {
	s.mu.Lock()

	st, ok := s.pages[id]
	if !ok {
		st = &pageState{next: 0, hasMore: true}
		s.pages[id] = st
	}

	if !st.hasMore {
		s.mu.Unlock()
		return s.Events(id), false, nil
	}

	page := st.next
	s.mu.Unlock()

	key := cache.EventsKey(id, page)

	_, err, _ := s.flights.Do(string(key), func() (any, error) {
		events, err := s.provider.ListServiceEvents(ctx, id, page)
		if err != nil {
			return nil, err
		}

		s.store.Set(key, events)

		s.mu.Lock()
		// Advance only if no concurrent call already did.
		if st.next == page {
			st.next = page + 1
			st.hasMore = len(events) == models.EventPageSize
		}
		s.mu.Unlock()

		return events, nil
	})
	if err != nil {
		return s.Events(id), true, fmt.Errorf("list events for %q page %d: %w", id, page, err)
	}

	s.mu.Lock()
	hasMore := st.hasMore
	s.mu.Unlock()

	return s.Events(id), hasMore, nil
}

// Events returns the concatenation of the event pages fetched so far
// for a service, without contacting the provider.
func (s *Synchronizer) Events(id string) []models.ServiceEvent {
	s.mu.Lock()
	var loaded int
	if st, ok := s.pages[id]; ok {
		loaded = st.next
	}
	s.mu.Unlock()

	events := make([]models.ServiceEvent, 0, loaded*models.EventPageSize)

	for page := 0; page < loaded; page++ {
		v, _, ok := s.store.Get(cache.EventsKey(id, page))
		if !ok {
			break
		}

		pageEvents, _ := v.([]models.ServiceEvent)
		events = append(events, pageEvents...)
	}

	return events
}

// HasMoreEvents reports whether another page is available for the
// service. A service never requested before reports true.
func (s *Synchronizer) HasMoreEvents(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.pages[id]; ok {
		return st.hasMore
	}

	return true
}

// ResetEvents discards all cached pages and pagination state for a
// service; the next RequestMoreEvents starts again from page zero.
func (s *Synchronizer) ResetEvents(id string) {
	s.mu.Lock()
	delete(s.pages, id)
	s.mu.Unlock()

	s.store.DeletePrefix(cache.EventsKeyPrefix(id))
}
