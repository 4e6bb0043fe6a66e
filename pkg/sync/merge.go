// Package sync pkg/sync/merge.go
package sync

import "github.com/monitocorp/servicedash/pkg/models"

// Merge projects the latest status feed onto the baseline service
// list. Baseline order and membership are authoritative: a status
// update for an id the baseline does not contain is ignored, and a
// baseline service with no matching update is returned unchanged.
// Merge is pure; callers recompute it on every read rather than
// storing the result.
func Merge(baseline []models.Service, updates []models.StatusUpdate) []models.Service {
	if len(baseline) == 0 {
		return []models.Service{}
	}

	byID := make(map[string]*models.StatusUpdate, len(updates))
	for i := range updates {
		byID[updates[i].ID] = &updates[i]
	}

	merged := make([]models.Service, len(baseline))

	for i := range baseline {
		svc := baseline[i]

		if update, ok := byID[svc.ID]; ok {
			svc.Status = update.Status
			svc.LastChecked = update.LastChecked
			svc.ResponseTime = update.ResponseTime
		}

		merged[i] = svc
	}

	return merged
}
