// Package api pkg/api/interfaces.go
package api

import (
	"context"

	"github.com/monitocorp/servicedash/pkg/models"
)

// Synchronizer is the intent surface the dashboard API drives. It is
// implemented by pkg/sync.Synchronizer.
type Synchronizer interface {
	RequestList(ctx context.Context) ([]models.Service, error)
	RequestDetail(ctx context.Context, id string) (models.Service, error)
	RequestMoreEvents(ctx context.Context, id string) ([]models.ServiceEvent, bool, error)
	ResetEvents(id string)
	SubmitCreate(ctx context.Context, fields models.ServiceFields) (models.Service, error)
	SubmitUpdate(ctx context.Context, id string, patch models.ServicePatch) (models.Service, error)
	SubmitDelete(ctx context.Context, id string) error
	OnForeground()
	OnBackground()
}
