// Package sync pkg/sync/sync.go
//
// The synchronizer reconciles two independent provider feeds (the full
// service list and the lightweight status poll) through the entity
// cache, applies optimistic mutations with rollback, and drives the
// forward-only event page sequence per service. It is the cache's only
// writer; the presentation layer reads projections and submits intents.
package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/monitocorp/servicedash/pkg/cache"
	"github.com/monitocorp/servicedash/pkg/models"
	"github.com/monitocorp/servicedash/pkg/provider"
)

// Synchronizer orchestrates fetch, merge, optimistic mutation and
// polling across the entity cache.
type Synchronizer struct {
	provider provider.Provider
	store    *cache.Store
	cfg      Config
	logger   zerolog.Logger
	flights  singleflight.Group
	now      func() time.Time

	mu      sync.Mutex
	gen     map[cache.Key]uint64
	paused  map[cache.Key]int
	pages   map[string]*pageState
	active  bool
	started bool

	wake     chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a synchronizer over the given provider and cache.
func New(p provider.Provider, store *cache.Store, cfg Config, logger zerolog.Logger) *Synchronizer {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}

	return &Synchronizer{
		provider: p,
		store:    store,
		cfg:      cfg,
		logger:   logger.With().Str("component", "synchronizer").Logger(),
		now:      time.Now,
		gen:      make(map[cache.Key]uint64),
		paused:   make(map[cache.Key]int),
		pages:    make(map[string]*pageState),
		active:   true,
		wake:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
	}
}

// Store exposes the entity cache for read-only subscription by the
// presentation layer.
func (s *Synchronizer) Store() *cache.Store {
	return s.store
}

// RequestList returns the merged service view: the cached baseline list
// (refetched through the provider when stale) overlaid with the latest
// polled statuses. The merge is recomputed on every call.
func (s *Synchronizer) RequestList(ctx context.Context) ([]models.Service, error) {
	value, err := s.ensure(ctx, cache.ServicesKey(), func(ctx context.Context) (any, error) {
		return s.provider.ListServices(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}

	baseline, _ := value.([]models.Service)

	// The status feed is owned by the polling loop; reads take
	// whatever the last poll delivered and never trigger a fetch.
	var updates []models.StatusUpdate
	if v, _, ok := s.store.Get(cache.StatusesKey()); ok {
		updates, _ = v.([]models.StatusUpdate)
	}

	return Merge(baseline, updates), nil
}

// RequestDetail fetches one service. The detail key is always stale, so
// every request revalidates against the provider; on transient failure
// the last known record is served instead.
func (s *Synchronizer) RequestDetail(ctx context.Context, id string) (models.Service, error) {
	value, err := s.ensure(ctx, cache.ServiceKey(id), func(ctx context.Context) (any, error) {
		return s.provider.GetService(ctx, id)
	})
	if err != nil {
		return models.Service{}, fmt.Errorf("get service %q: %w", id, err)
	}

	return value.(models.Service), nil
}

// State reports the current polling lifecycle state.
func (s *Synchronizer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		return StateActive
	}

	return StateSuspended
}

// ensure returns a fresh value for key, fetching through the provider
// when the cached value is missing or stale.
func (s *Synchronizer) ensure(ctx context.Context, key cache.Key, load func(context.Context) (any, error)) (any, error) {
	if value, stale, ok := s.store.Get(key); ok && !stale {
		return value, nil
	}

	return s.fetch(ctx, key, load)
}

// fetch runs load under single-flight for key and commits the result
// to the cache unless it was superseded while in flight. Failed
// fetches degrade to the last cached value when one exists; a NotFound
// result evicts the key instead, since the entity is gone server-side.
func (s *Synchronizer) fetch(ctx context.Context, key cache.Key, load func(context.Context) (any, error)) (any, error) {
	s.mu.Lock()

	if s.paused[key] > 0 {
		s.mu.Unlock()

		if value, _, ok := s.store.Get(key); ok {
			return value, nil
		}

		return nil, errFetchSuspended
	}

	gen := s.gen[key]
	s.mu.Unlock()

	value, err, _ := s.flights.Do(string(key), func() (any, error) {
		result, err := load(ctx)
		if err != nil {
			return nil, err
		}

		s.commit(key, gen, result)

		return result, nil
	})

	if err != nil {
		if errors.Is(err, provider.ErrNotFound) {
			s.store.Delete(key)
			return nil, err
		}

		if cached, _, ok := s.store.Get(key); ok {
			s.logger.Warn().Err(err).Str("key", string(key)).
				Msg("Fetch failed, serving last known value")

			return cached, nil
		}

		return nil, err
	}

	return value, nil
}

// commit writes a settled fetch result unless the key's generation
// moved on (superseded or paused) while the fetch was in flight; the
// stale response is then discarded, never written.
func (s *Synchronizer) commit(key cache.Key, gen uint64, value any) {
	s.mu.Lock()
	discard := s.gen[key] != gen || s.paused[key] > 0
	s.mu.Unlock()

	if discard {
		s.logger.Debug().Str("key", string(key)).Msg("Discarding superseded fetch result")
		return
	}

	s.store.Set(key, value)
}

// pause blocks new fetches for key and marks any in-flight fetch as
// superseded, so a slow background refresh cannot overwrite an
// optimistic write after it settles.
func (s *Synchronizer) pause(key cache.Key) {
	s.mu.Lock()
	s.paused[key]++
	s.gen[key]++
	s.mu.Unlock()
}

func (s *Synchronizer) unpause(key cache.Key) {
	s.mu.Lock()
	if s.paused[key] > 0 {
		s.paused[key]--
	}
	s.mu.Unlock()
}
