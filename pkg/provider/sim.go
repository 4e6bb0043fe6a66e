// Package provider pkg/provider/sim.go
package provider

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/monitocorp/servicedash/pkg/models"
)

const (
	simStatusFlipResponseMin = 50
	simStatusFlipResponseMax = 550
	simEventSpacing          = 30 * time.Minute
)

// SimConfig tunes the simulated provider. The zero Seed derives one
// from the clock; tests pass a fixed seed for reproducible runs.
type SimConfig struct {
	Seed             int64         `json:"seed"`
	MinLatency       time.Duration `json:"-"`
	MaxLatency       time.Duration `json:"-"`
	FailureRate      float64       `json:"failure_rate"`
	FlipChance       float64       `json:"flip_chance"`
	EventsPerService int           `json:"events_per_service"`
}

// DefaultSimConfig mirrors the demo dashboard: noticeable latency, a
// 10% mutation failure rate and a 20% chance per poll that a service's
// status flips.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		MinLatency:       200 * time.Millisecond,
		MaxLatency:       time.Second,
		FailureRate:      0.1,
		FlipChance:       0.2,
		EventsPerService: 200,
	}
}

// Sim is an in-memory Provider that simulates transport latency,
// transient mutation failures and randomized status flips. It stands in
// for a real backend; with a fixed seed and zero latency it doubles as
// a deterministic test fixture.
type Sim struct {
	mu       sync.Mutex
	cfg      SimConfig
	rng      *rand.Rand
	services []models.Service
	nextID   int
	epoch    time.Time
	now      func() time.Time
	logger   zerolog.Logger
}

// NewSim creates a simulated provider seeded with the demo fleet.
func NewSim(cfg SimConfig, logger zerolog.Logger) *Sim {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &Sim{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(seed)), //nolint:gosec // simulation, not crypto
		nextID: 6,
		epoch:  time.Now().UTC().Truncate(time.Minute),
		now:    time.Now,
		logger: logger.With().Str("component", "sim_provider").Logger(),
	}
	s.services = seedServices(s.epoch)

	return s
}

func msPtr(v int64) *int64 { return &v }

func seedServices(now time.Time) []models.Service {
	return []models.Service{
		{
			ID:           "1",
			Name:         "User Authentication API",
			Type:         models.TypeAPI,
			Status:       models.StatusOnline,
			URL:          "https://api.monitocorp.com/auth",
			Description:  "Handles user login and authentication",
			LastChecked:  now,
			ResponseTime: msPtr(120),
		},
		{
			ID:           "2",
			Name:         "Main Database",
			Type:         models.TypeDatabase,
			Status:       models.StatusOnline,
			URL:          "postgres://db.monitocorp.com:5432",
			Description:  "Primary PostgreSQL database",
			LastChecked:  now,
			ResponseTime: msPtr(45),
		},
		{
			ID:           "3",
			Name:         "Redis Cache",
			Type:         models.TypeCache,
			Status:       models.StatusDegraded,
			URL:          "redis://cache.monitocorp.com:6379",
			Description:  "Session and data caching layer",
			LastChecked:  now,
			ResponseTime: msPtr(250),
		},
		{
			ID:          "4",
			Name:        "Email Queue",
			Type:        models.TypeQueue,
			Status:      models.StatusOffline,
			URL:         "rabbitmq://queue.monitocorp.com",
			Description: "Email processing queue",
			LastChecked: now,
		},
		{
			ID:           "5",
			Name:         "File Storage",
			Type:         models.TypeStorage,
			Status:       models.StatusOnline,
			URL:          "s3://storage.monitocorp.com",
			Description:  "Document and media storage",
			LastChecked:  now,
			ResponseTime: msPtr(180),
		},
	}
}

// delay simulates transport latency, honoring context cancellation.
func (s *Sim) delay(ctx context.Context) error {
	s.mu.Lock()
	d := s.cfg.MinLatency
	if span := s.cfg.MaxLatency - s.cfg.MinLatency; span > 0 {
		d += time.Duration(s.rng.Int63n(int64(span)))
	}
	s.mu.Unlock()

	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Sim) ListServices(ctx context.Context) ([]models.Service, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Service, len(s.services))
	copy(out, s.services)

	return out, nil
}

func (s *Sim) ListServiceStatuses(ctx context.Context) ([]models.StatusUpdate, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	updates := make([]models.StatusUpdate, 0, len(s.services))

	for i := range s.services {
		svc := &s.services[i]
		update := models.StatusUpdate{
			ID:           svc.ID,
			Status:       svc.Status,
			LastChecked:  now,
			ResponseTime: svc.ResponseTime,
		}

		if s.rng.Float64() < s.cfg.FlipChance {
			update.Status = s.randomStatus()
			update.ResponseTime = msPtr(int64(simStatusFlipResponseMin +
				s.rng.Intn(simStatusFlipResponseMax-simStatusFlipResponseMin)))
		}

		updates = append(updates, update)
	}

	return updates, nil
}

func (s *Sim) GetService(ctx context.Context, id string) (models.Service, error) {
	if err := s.delay(ctx); err != nil {
		return models.Service{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.services {
		if s.services[i].ID == id {
			return s.services[i], nil
		}
	}

	return models.Service{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// ListServiceEvents generates a deterministic page of history for the
// given id: the same id and page always produce the same records.
func (s *Sim) ListServiceEvents(ctx context.Context, id string, page int) ([]models.ServiceEvent, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	total := s.cfg.EventsPerService
	epoch := s.epoch
	s.mu.Unlock()

	start := page * models.EventPageSize

	n := models.EventPageSize
	if total >= 0 && start+n > total {
		n = total - start
	}

	if n <= 0 {
		return []models.ServiceEvent{}, nil
	}

	rng := rand.New(rand.NewSource(eventSeed(id, page))) //nolint:gosec // deterministic fixture
	events := make([]models.ServiceEvent, 0, n)

	for i := 0; i < n; i++ {
		offset := start + i
		status := statusForRoll(rng.Intn(3))

		event := models.ServiceEvent{
			ID:        fmt.Sprintf("%s-event-%d", id, offset),
			ServiceID: id,
			Status:    status,
			Timestamp: epoch.Add(-time.Duration(offset) * simEventSpacing),
			Message:   fmt.Sprintf("Service status changed to %s", status),
		}

		if status == models.StatusOffline {
			event.Duration = msPtr(int64(rng.Intn(60)+1) * 60 * 1000)
		}

		events = append(events, event)
	}

	return events, nil
}

func (s *Sim) CreateService(ctx context.Context, fields models.ServiceFields) (models.Service, error) {
	if err := fields.Validate(); err != nil {
		return models.Service{}, err
	}

	if err := s.delay(ctx); err != nil {
		return models.Service{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rng.Float64() < s.cfg.FailureRate {
		s.logger.Warn().Str("name", fields.Name).Msg("Injecting create failure")
		return models.Service{}, fmt.Errorf("%w: create service", ErrUnavailable)
	}

	svc := models.Service{
		ID:          strconv.Itoa(s.nextID),
		Name:        fields.Name,
		Type:        fields.Type,
		Status:      fields.Status,
		URL:         fields.URL,
		Description: fields.Description,
		LastChecked: s.now(),
	}
	s.nextID++
	s.services = append(s.services, svc)

	return svc, nil
}

func (s *Sim) UpdateService(ctx context.Context, id string, patch models.ServicePatch) (models.Service, error) {
	if err := patch.Validate(); err != nil {
		return models.Service{}, err
	}

	if err := s.delay(ctx); err != nil {
		return models.Service{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rng.Float64() < s.cfg.FailureRate {
		s.logger.Warn().Str("service_id", id).Msg("Injecting update failure")
		return models.Service{}, fmt.Errorf("%w: update service", ErrUnavailable)
	}

	for i := range s.services {
		if s.services[i].ID != id {
			continue
		}

		patch.Apply(&s.services[i])
		s.services[i].LastChecked = s.now()

		return s.services[i], nil
	}

	return models.Service{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (s *Sim) DeleteService(ctx context.Context, id string) error {
	if err := s.delay(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rng.Float64() < s.cfg.FailureRate {
		s.logger.Warn().Str("service_id", id).Msg("Injecting delete failure")
		return fmt.Errorf("%w: delete service", ErrUnavailable)
	}

	for i := range s.services {
		if s.services[i].ID == id {
			s.services = append(s.services[:i], s.services[i+1:]...)
			return nil
		}
	}

	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (s *Sim) randomStatus() models.ServiceStatus {
	return statusForRoll(s.rng.Intn(3))
}

func statusForRoll(roll int) models.ServiceStatus {
	switch roll {
	case 0:
		return models.StatusOnline
	case 1:
		return models.StatusOffline
	default:
		return models.StatusDegraded
	}
}

func eventSeed(id string, page int) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))

	return int64(h.Sum64()) + int64(page)
}
