// Package sync pkg/sync/mutations.go
package sync

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/monitocorp/servicedash/pkg/cache"
	"github.com/monitocorp/servicedash/pkg/models"
)

// Each mutation follows the same optimistic protocol: pause fetches
// for the services key, snapshot it, apply the speculative change
// synchronously, call the provider, then either invalidate (success)
// or restore the snapshot verbatim (failure). Concurrent mutations
// stack: every call captures its own snapshot at submit time, so a
// later mutation rolls back to the earlier one's speculative state,
// not to the pre-mutation baseline.

// SubmitCreate creates a service. The cache immediately gains a
// provisional record under a temporary id; on success the key is
// invalidated so the next read reconciles the server-assigned id.
func (s *Synchronizer) SubmitCreate(ctx context.Context, fields models.ServiceFields) (models.Service, error) {
	if err := fields.Validate(); err != nil {
		return models.Service{}, err
	}

	key := cache.ServicesKey()

	s.pause(key)
	defer s.unpause(key)

	token := s.store.Snapshot(key)

	provisional := models.Service{
		ID:          provisionalID(),
		Name:        fields.Name,
		Type:        fields.Type,
		Status:      fields.Status,
		URL:         fields.URL,
		Description: fields.Description,
		LastChecked: s.now(),
	}

	s.applyServices(func(list []models.Service) []models.Service {
		return append(list, provisional)
	})

	created, err := s.provider.CreateService(ctx, fields)
	if err != nil {
		s.store.Restore(token)
		return models.Service{}, fmt.Errorf("create service: %w", err)
	}

	s.store.Invalidate(key)

	s.logger.Info().Str("service_id", created.ID).Str("name", created.Name).Msg("Service created")

	return created, nil
}

// SubmitUpdate patches a service. An unknown id is a cache-level no-op;
// the provider's own not-found result governs the outcome.
func (s *Synchronizer) SubmitUpdate(ctx context.Context, id string, patch models.ServicePatch) (models.Service, error) {
	if err := patch.Validate(); err != nil {
		return models.Service{}, err
	}

	key := cache.ServicesKey()

	s.pause(key)
	defer s.unpause(key)

	token := s.store.Snapshot(key)

	s.applyServices(func(list []models.Service) []models.Service {
		for i := range list {
			if list[i].ID == id {
				patch.Apply(&list[i])
				break
			}
		}

		return list
	})

	updated, err := s.provider.UpdateService(ctx, id, patch)
	if err != nil {
		s.store.Restore(token)
		return models.Service{}, fmt.Errorf("update service %q: %w", id, err)
	}

	s.store.Invalidate(key)
	s.store.Invalidate(cache.ServiceKey(id))

	return updated, nil
}

// SubmitDelete removes a service, along with its cached detail and
// event pages once the provider confirms.
func (s *Synchronizer) SubmitDelete(ctx context.Context, id string) error {
	key := cache.ServicesKey()

	s.pause(key)
	defer s.unpause(key)

	token := s.store.Snapshot(key)

	s.applyServices(func(list []models.Service) []models.Service {
		for i := range list {
			if list[i].ID == id {
				return append(list[:i], list[i+1:]...)
			}
		}

		return list
	})

	if err := s.provider.DeleteService(ctx, id); err != nil {
		s.store.Restore(token)
		return fmt.Errorf("delete service %q: %w", id, err)
	}

	s.store.Invalidate(key)
	s.store.Delete(cache.ServiceKey(id))
	s.ResetEvents(id)

	s.logger.Info().Str("service_id", id).Msg("Service deleted")

	return nil
}

// applyServices replaces the services entry with a mutated copy of the
// current value. The stored slice itself is never mutated, which keeps
// held snapshots intact for rollback.
func (s *Synchronizer) applyServices(mutate func([]models.Service) []models.Service) {
	key := cache.ServicesKey()

	var current []models.Service
	if v, _, ok := s.store.Get(key); ok {
		current, _ = v.([]models.Service)
	}

	working := make([]models.Service, len(current))
	copy(working, current)

	s.store.Set(key, mutate(working))
}

func provisionalID() string {
	return "temp-" + uuid.NewString()
}
