package provider

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monitocorp/servicedash/pkg/models"
)

// testSimConfig disables latency and fault injection so tests observe
// only the data semantics.
func testSimConfig() SimConfig {
	return SimConfig{
		Seed:             42,
		FailureRate:      0,
		FlipChance:       0,
		EventsPerService: 50,
	}
}

func newTestSim(t *testing.T, cfg SimConfig) *Sim {
	t.Helper()
	return NewSim(cfg, zerolog.Nop())
}

func TestSimListServices(t *testing.T) {
	sim := newTestSim(t, testSimConfig())

	services, err := sim.ListServices(context.Background())
	require.NoError(t, err)
	require.Len(t, services, 5)

	assert.Equal(t, "1", services[0].ID)
	assert.Equal(t, "User Authentication API", services[0].Name)
	assert.Equal(t, models.TypeAPI, services[0].Type)
}

func TestSimListServiceStatuses(t *testing.T) {
	sim := newTestSim(t, testSimConfig())

	services, err := sim.ListServices(context.Background())
	require.NoError(t, err)

	updates, err := sim.ListServiceStatuses(context.Background())
	require.NoError(t, err)
	require.Len(t, updates, len(services))

	// With flips disabled the feed mirrors the stored statuses.
	for i, update := range updates {
		assert.Equal(t, services[i].ID, update.ID)
		assert.Equal(t, services[i].Status, update.Status)
	}
}

func TestSimStatusFlips(t *testing.T) {
	cfg := testSimConfig()
	cfg.FlipChance = 1

	sim := newTestSim(t, cfg)

	updates, err := sim.ListServiceStatuses(context.Background())
	require.NoError(t, err)

	for _, update := range updates {
		assert.True(t, update.Status.Valid())
		require.NotNil(t, update.ResponseTime)
		assert.GreaterOrEqual(t, *update.ResponseTime, int64(simStatusFlipResponseMin))
		assert.Less(t, *update.ResponseTime, int64(simStatusFlipResponseMax))
	}
}

func TestSimCRUD(t *testing.T) {
	sim := newTestSim(t, testSimConfig())
	ctx := context.Background()

	created, err := sim.CreateService(ctx, models.ServiceFields{
		Name:   "Payments API",
		Type:   models.TypeAPI,
		Status: models.StatusOnline,
	})
	require.NoError(t, err)
	assert.Equal(t, "6", created.ID, "provider assigns sequential ids")
	assert.False(t, created.LastChecked.IsZero())

	got, err := sim.GetService(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	status := models.StatusDegraded
	updated, err := sim.UpdateService(ctx, created.ID, models.ServicePatch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.StatusDegraded, updated.Status)

	require.NoError(t, sim.DeleteService(ctx, created.ID))

	_, err = sim.GetService(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSimNotFound(t *testing.T) {
	sim := newTestSim(t, testSimConfig())
	ctx := context.Background()

	_, err := sim.GetService(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = sim.UpdateService(ctx, "missing", models.ServicePatch{})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, sim.DeleteService(ctx, "missing"), ErrNotFound)
}

func TestSimMutationFaultInjection(t *testing.T) {
	cfg := testSimConfig()
	cfg.FailureRate = 1

	sim := newTestSim(t, cfg)
	ctx := context.Background()

	_, err := sim.CreateService(ctx, models.ServiceFields{
		Name: "x", Type: models.TypeAPI, Status: models.StatusOnline,
	})
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = sim.UpdateService(ctx, "1", models.ServicePatch{})
	assert.ErrorIs(t, err, ErrUnavailable)

	assert.ErrorIs(t, sim.DeleteService(ctx, "1"), ErrUnavailable)

	// Faults only hit mutations; reads stay healthy.
	_, err = sim.ListServices(ctx)
	assert.NoError(t, err)
}

func TestSimEventPagesDeterministic(t *testing.T) {
	sim := newTestSim(t, testSimConfig())
	ctx := context.Background()

	first, err := sim.ListServiceEvents(ctx, "1", 0)
	require.NoError(t, err)

	second, err := sim.ListServiceEvents(ctx, "1", 0)
	require.NoError(t, err)

	assert.Equal(t, first, second, "same id and page must produce identical records")

	other, err := sim.ListServiceEvents(ctx, "2", 0)
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestSimEventPagination(t *testing.T) {
	// 50 events: pages 0 and 1 full, page 2 has 10, page 3 empty.
	sim := newTestSim(t, testSimConfig())
	ctx := context.Background()

	page0, err := sim.ListServiceEvents(ctx, "1", 0)
	require.NoError(t, err)
	assert.Len(t, page0, models.EventPageSize)

	page2, err := sim.ListServiceEvents(ctx, "1", 2)
	require.NoError(t, err)
	assert.Len(t, page2, 10)

	page3, err := sim.ListServiceEvents(ctx, "1", 3)
	require.NoError(t, err)
	assert.Empty(t, page3)

	// Newest-first without gaps across the page boundary.
	page1, err := sim.ListServiceEvents(ctx, "1", 1)
	require.NoError(t, err)

	all := append(append([]models.ServiceEvent{}, page0...), page1...)
	for i := 1; i < len(all); i++ {
		assert.True(t, all[i].Timestamp.Before(all[i-1].Timestamp))
	}
}

func TestSimLatencyHonorsContext(t *testing.T) {
	cfg := testSimConfig()
	cfg.MinLatency = time.Minute
	cfg.MaxLatency = time.Minute

	sim := newTestSim(t, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := sim.ListServices(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
