package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/minhvu/todopad/internal/api"
)

func newClient(url, token string) *api.Client {
	return api.NewClient(url, func() string { return token }, 5*time.Second)
}

func TestBearerHeader(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	client := newClient(srv.URL, "secret-token")
	_, err := client.ListTodos(context.Background())
	assert.Nil(err)
	assert.Equal("Bearer secret-token", gotAuth)
}

func TestNoTokenNoHeader(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, nil, 5*time.Second)
	_, err := client.ListTodos(context.Background())
	assert.Nil(err)
	assert.Empty(gotAuth)
}

func TestUnauthorizedBecomesAuthError(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := newClient(srv.URL, "expired")
	_, err := client.ListTodos(context.Background())
	assert.NotNil(err)
	assert.True(api.IsAuthError(err))

	var authErr *api.AuthError
	assert.True(errors.As(err, &authErr))
}

func TestServerErrorBecomesAPIError(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newClient(srv.URL, "tok")
	_, err := client.ListTodos(context.Background())
	assert.NotNil(err)
	assert.False(api.IsAuthError(err))

	var apiErr *api.APIError
	assert.True(errors.As(err, &apiErr))
	assert.Equal(http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(http.MethodGet, apiErr.Method)
	assert.Equal("/todos", apiErr.Path)
	assert.Equal("boom", apiErr.Body)
}

func TestNotFound(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := newClient(srv.URL, "tok")
	_, err := client.GetTodo(context.Background(), 42)
	assert.True(api.IsNotFound(err))
}

func TestRateLimitRetries(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts <= 2 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	client := newClient(srv.URL, "tok")
	_, err := client.ListTodos(context.Background())
	assert.Nil(err)
	assert.Equal(3, attempts)
}

func TestRateLimitGivesUp(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := newClient(srv.URL, "tok")
	_, err := client.ListTodos(context.Background())
	assert.NotNil(err)
	assert.Contains(err.Error(), "max retries")
}
