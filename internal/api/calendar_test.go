package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeCalendar is a minimal calendar backend holding connection state.
type fakeCalendar struct {
	mu        sync.Mutex
	connected bool
	enabled   bool
}

func newCalendarServer(t *testing.T) (*fakeCalendar, *httptest.Server) {
	t.Helper()

	fc := &fakeCalendar{connected: true, enabled: true}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /calendar/connect", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"authorizationUrl": "https://accounts.google.com/o/oauth2/auth?state=abc",
			"message":          "open this URL to connect",
		})
	})
	mux.HandleFunc("GET /calendar/status", func(w http.ResponseWriter, r *http.Request) {
		fc.mu.Lock()
		defer fc.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{
			"connected":   fc.connected,
			"syncEnabled": fc.enabled,
			"calendarId":  "primary",
		})
	})
	mux.HandleFunc("POST /calendar/sync", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success":     true,
			"message":     "synced 2 todos",
			"syncedCount": 2,
		})
	})
	mux.HandleFunc("PUT /calendar/sync/toggle", func(w http.ResponseWriter, r *http.Request) {
		fc.mu.Lock()
		fc.enabled = r.URL.Query().Get("enabled") == "true"
		fc.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("DELETE /calendar/disconnect", func(w http.ResponseWriter, r *http.Request) {
		fc.mu.Lock()
		fc.connected = false
		fc.enabled = false
		fc.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return fc, srv
}

func TestConnectCalendarReturnsAuthURL(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	_, srv := newCalendarServer(t)
	client := newClient(srv.URL, "secret-token")

	url, err := client.ConnectCalendar(context.Background())
	assert.Nil(err)
	assert.Contains(url.AuthorizationURL, "accounts.google.com")
}

func TestCalendarStatusRoundTrip(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	_, srv := newCalendarServer(t)
	client := newClient(srv.URL, "secret-token")

	status, err := client.CalendarStatus(context.Background())
	assert.Nil(err)
	assert.True(status.Connected)
	assert.True(status.SyncEnabled)
	assert.Equal("primary", status.CalendarID)
}

func TestToggleCalendarSync(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()

	fc, srv := newCalendarServer(t)
	client := newClient(srv.URL, "secret-token")

	assert.Nil(client.ToggleCalendarSync(ctx, false))
	assert.False(fc.enabled)

	status, err := client.CalendarStatus(ctx)
	assert.Nil(err)
	assert.True(status.Connected)
	assert.False(status.SyncEnabled)

	assert.Nil(client.ToggleCalendarSync(ctx, true))
	assert.True(fc.enabled)
}

func TestDisconnectCalendar(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()

	fc, srv := newCalendarServer(t)
	client := newClient(srv.URL, "secret-token")

	assert.Nil(client.DisconnectCalendar(ctx))
	assert.False(fc.connected)

	status, err := client.CalendarStatus(ctx)
	assert.Nil(err)
	assert.False(status.Connected)
}

func TestSyncCalendar(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	_, srv := newCalendarServer(t)
	client := newClient(srv.URL, "secret-token")

	result, err := client.SyncCalendar(context.Background())
	assert.Nil(err)
	assert.True(result.Success)
	assert.Equal(2, result.SyncedCount)
	assert.Equal("synced 2 todos", result.Message)
}
