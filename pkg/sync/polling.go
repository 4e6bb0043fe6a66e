// Package sync pkg/sync/polling.go
package sync

import (
	"context"
	"time"

	"github.com/monitocorp/servicedash/pkg/cache"
)

// Start runs the polling loop until ctx is canceled or Stop is called.
// The loop begins active: it refreshes both feeds immediately, then
// refetches the status feed every PollInterval, measured from the
// completion of the previous fetch so polls never overlap.
func (s *Synchronizer) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return errAlreadyStarted
	}

	s.started = true
	active := s.active
	s.mu.Unlock()

	s.logger.Info().Dur("poll_interval", s.cfg.PollInterval).Msg("Starting synchronizer")

	if active {
		s.refresh(ctx)
	}

	timer := time.NewTimer(s.cfg.PollInterval)
	defer timer.Stop()

	if !active {
		stopTimer(timer)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-s.stop:
			return nil

		case <-s.wake:
			s.mu.Lock()
			desired := s.active
			s.mu.Unlock()

			if desired == active {
				continue
			}

			active = desired

			if active {
				// Resume: force both feeds fresh before any
				// timer-driven fetch.
				s.logger.Info().Msg("Resuming polling")
				s.store.Invalidate(cache.ServicesKey())
				s.store.Invalidate(cache.StatusesKey())
				s.refresh(ctx)
				stopTimer(timer)
				timer.Reset(s.cfg.PollInterval)
			} else {
				s.logger.Info().Msg("Suspending polling")
				stopTimer(timer)
			}

		case <-timer.C:
			s.pollStatuses(ctx)
			timer.Reset(s.cfg.PollInterval)
		}
	}
}

// Stop terminates the polling loop. Safe to call more than once.
func (s *Synchronizer) Stop(_ context.Context) error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}

// OnForeground signals that the consuming surface became visible.
// The SUSPENDED -> ACTIVE transition invalidates both service keys and
// triggers immediate fetches rather than waiting for the next tick.
func (s *Synchronizer) OnForeground() {
	s.setActive(true)
}

// OnBackground signals that the consuming surface was hidden; the
// polling timer is fully stopped until the next OnForeground.
func (s *Synchronizer) OnBackground() {
	s.setActive(false)
}

func (s *Synchronizer) setActive(active bool) {
	s.mu.Lock()
	changed := s.active != active
	s.active = active
	s.mu.Unlock()

	if !changed {
		return
	}

	// Coalescing wakeup; the loop reads the desired state itself.
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// refresh fetches the full list and the status feed back to back.
func (s *Synchronizer) refresh(ctx context.Context) {
	if _, err := s.fetch(ctx, cache.ServicesKey(), func(ctx context.Context) (any, error) {
		return s.provider.ListServices(ctx)
	}); err != nil {
		s.logger.Error().Err(err).Msg("Service list refresh failed")
	}

	s.pollStatuses(ctx)
}

func (s *Synchronizer) pollStatuses(ctx context.Context) {
	if _, err := s.fetch(ctx, cache.StatusesKey(), func(ctx context.Context) (any, error) {
		return s.provider.ListServiceStatuses(ctx)
	}); err != nil {
		// Read failures degrade silently; the next tick retries.
		s.logger.Warn().Err(err).Msg("Status poll failed")
	}
}

func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}
