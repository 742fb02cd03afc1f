package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdminStats(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/stats" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{
			"totalUsers": 12,
			"totalTodos": 40,
			"completedTodos": 25,
			"pendingTodos": 15,
			"completionRate": 62.5,
			"totalSubtasks": 9,
			"completedSubtasks": 4
		}`))
	}))
	defer srv.Close()

	client := newClient(srv.URL, "admin-token")
	stats, err := client.AdminStats(context.Background())
	assert.Nil(err)
	assert.Equal(12, stats.TotalUsers)
	assert.Equal(40, stats.TotalTodos)
	assert.Equal(25, stats.CompletedTodos)
	assert.Equal(15, stats.PendingTodos)
	assert.InDelta(62.5, stats.CompletionRate, 0.001)
	assert.Equal(9, stats.TotalSubtasks)
	assert.Equal(4, stats.CompletedSubtasks)
}

func TestAdminStatsForbiddenSurfacesAPIError(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "admin role required", http.StatusForbidden)
	}))
	defer srv.Close()

	client := newClient(srv.URL, "user-token")
	_, err := client.AdminStats(context.Background())
	assert.NotNil(err)
}
