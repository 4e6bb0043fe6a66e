package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monitocorp/servicedash/pkg/cache"
	"github.com/monitocorp/servicedash/pkg/models"
	"github.com/monitocorp/servicedash/pkg/provider"
	syncpkg "github.com/monitocorp/servicedash/pkg/sync"
)

// newTestServer runs the real synchronizer over a deterministic
// simulated provider: no latency, no fault injection, no status flips.
func newTestServer(t *testing.T, cfg provider.SimConfig) (*httptest.Server, *syncpkg.Synchronizer) {
	t.Helper()

	sim := provider.NewSim(cfg, zerolog.Nop())
	store := cache.NewStore(cache.DefaultPolicies())
	syncer := syncpkg.New(sim, store, syncpkg.Config{PollInterval: time.Hour}, zerolog.Nop())

	server := NewServer(syncer, store, zerolog.Nop())
	ts := httptest.NewServer(server.Router())
	t.Cleanup(ts.Close)

	return ts, syncer
}

func quietSimConfig() provider.SimConfig {
	return provider.SimConfig{
		Seed:             7,
		FailureRate:      0,
		FlipChance:       0,
		EventsPerService: 30,
	}
}

func getJSON(t *testing.T, url string, dst any) *http.Response {
	t.Helper()

	resp, err := http.Get(url) //nolint:gosec // test server URL
	require.NoError(t, err)

	defer resp.Body.Close()

	if dst != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
	}

	return resp
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	return resp
}

func TestGetServices(t *testing.T) {
	ts, _ := newTestServer(t, quietSimConfig())

	var services []models.Service

	resp := getJSON(t, ts.URL+"/api/services", &services)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, services, 5)
	assert.Equal(t, "User Authentication API", services[0].Name)
}

func TestGetServiceDetail(t *testing.T) {
	ts, _ := newTestServer(t, quietSimConfig())

	var service models.Service

	resp := getJSON(t, ts.URL+"/api/services/2", &service)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Main Database", service.Name)

	resp = getJSON(t, ts.URL+"/api/services/missing", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateService(t *testing.T) {
	ts, _ := newTestServer(t, quietSimConfig())

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/services", models.ServiceFields{
		Name:   "Payments API",
		Type:   models.TypeAPI,
		Status: models.StatusOnline,
	})
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Service
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, "6", created.ID)

	// The reconciling refetch exposes the server-assigned id, never a
	// provisional one.
	var services []models.Service
	getJSON(t, ts.URL+"/api/services", &services)
	require.Len(t, services, 6)

	for _, svc := range services {
		assert.False(t, strings.HasPrefix(svc.ID, "temp-"))
	}
}

func TestCreateServiceValidation(t *testing.T) {
	ts, _ := newTestServer(t, quietSimConfig())

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/services", models.ServiceFields{
		Type: models.TypeAPI, Status: models.StatusOnline,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/services", "not an object")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateServiceProviderFailureRollsBack(t *testing.T) {
	cfg := quietSimConfig()
	cfg.FailureRate = 1

	ts, _ := newTestServer(t, cfg)

	var before []models.Service
	getJSON(t, ts.URL+"/api/services", &before)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/services", models.ServiceFields{
		Name: "Doomed", Type: models.TypeAPI, Status: models.StatusOnline,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var after []models.Service
	getJSON(t, ts.URL+"/api/services", &after)
	assert.Equal(t, before, after, "failed create must leave the list untouched")
}

func TestUpdateService(t *testing.T) {
	ts, _ := newTestServer(t, quietSimConfig())

	status := models.StatusOffline

	resp := doJSON(t, http.MethodPut, ts.URL+"/api/services/2", models.ServicePatch{Status: &status})
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.Service
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	assert.Equal(t, models.StatusOffline, updated.Status)

	resp = doJSON(t, http.MethodPut, ts.URL+"/api/services/missing", models.ServicePatch{Status: &status})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteService(t *testing.T) {
	ts, _ := newTestServer(t, quietSimConfig())

	resp := doJSON(t, http.MethodDelete, ts.URL+"/api/services/4", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	var services []models.Service
	getJSON(t, ts.URL+"/api/services", &services)
	assert.Len(t, services, 4)

	resp = doJSON(t, http.MethodDelete, ts.URL+"/api/services/4", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServiceEventsPagination(t *testing.T) {
	ts, _ := newTestServer(t, quietSimConfig())

	var page eventsResponse

	resp := getJSON(t, ts.URL+"/api/services/1/events", &page)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, page.Events, models.EventPageSize)
	assert.True(t, page.HasMore)

	resp = getJSON(t, ts.URL+"/api/services/1/events", &page)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, page.Events, 30)
	assert.False(t, page.HasMore)

	// Reset restarts the sequence from page zero.
	reset := doJSON(t, http.MethodDelete, ts.URL+"/api/services/1/events", nil)
	defer reset.Body.Close()
	assert.Equal(t, http.StatusNoContent, reset.StatusCode)

	resp = getJSON(t, ts.URL+"/api/services/1/events", &page)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, page.Events, models.EventPageSize)
	assert.True(t, page.HasMore)
}

func TestWebSocketPushAndVisibility(t *testing.T) {
	ts, syncer := newTestServer(t, quietSimConfig())

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws"

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	if resp != nil {
		defer resp.Body.Close()
	}

	require.Eventually(t, func() bool {
		return syncer.State() == syncpkg.StateActive
	}, time.Second, 10*time.Millisecond)

	// A mutation writes the cache, which must surface as at least one
	// change notice on the socket.
	mutation := doJSON(t, http.MethodPost, ts.URL+"/api/services", models.ServiceFields{
		Name: "Search Index", Type: models.TypeStorage, Status: models.StatusOnline,
	})
	defer mutation.Body.Close()
	require.Equal(t, http.StatusCreated, mutation.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var notice struct {
		Key string `json:"key"`
	}
	require.NoError(t, conn.ReadJSON(&notice))
	assert.Equal(t, string(cache.ServicesKey()), notice.Key)

	// Last client disconnecting backgrounds the synchronizer.
	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool {
		return syncer.State() == syncpkg.StateSuspended
	}, time.Second, 10*time.Millisecond)
}

func TestCORSPreflight(t *testing.T) {
	ts, _ := newTestServer(t, quietSimConfig())

	req, err := http.NewRequest(http.MethodOptions, fmt.Sprintf("%s/api/services", ts.URL), nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
