// Package provider pkg/provider/interfaces.go
package provider

//go:generate mockgen -destination=mock_provider.go -package=provider github.com/monitocorp/servicedash/pkg/provider Provider

import (
	"context"

	"github.com/monitocorp/servicedash/pkg/models"
)

// Provider is the system of record for service data. Implementations
// must return ErrNotFound (possibly wrapped) when a referenced id does
// not exist.
type Provider interface {
	// ListServices returns the full record for every known service.
	ListServices(ctx context.Context) ([]models.Service, error)

	// ListServiceStatuses returns one lightweight status entry per
	// currently known service id.
	ListServiceStatuses(ctx context.Context) ([]models.StatusUpdate, error)

	// GetService returns the full record for one service.
	GetService(ctx context.Context, id string) (models.Service, error)

	// ListServiceEvents returns up to models.EventPageSize history
	// records, newest first, deterministic for a given id and page.
	ListServiceEvents(ctx context.Context, id string, page int) ([]models.ServiceEvent, error)

	// CreateService stores a new service; the provider assigns the id
	// and the initial LastChecked.
	CreateService(ctx context.Context, fields models.ServiceFields) (models.Service, error)

	// UpdateService merges the patch into an existing service.
	UpdateService(ctx context.Context, id string, patch models.ServicePatch) (models.Service, error)

	// DeleteService removes a service.
	DeleteService(ctx context.Context, id string) error
}
