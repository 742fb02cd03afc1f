package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/minhvu/todopad/internal/model"
	"github.com/minhvu/todopad/tests/testutil"
)

func TestTodoRoundTrip(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()

	srv := testutil.NewServer(t)
	client := newClient(srv.URL, "")

	created, err := client.CreateTodo(ctx, model.Todo{Title: "Buy milk", Description: "2 liters"})
	assert.Nil(err)
	assert.NotZero(created.ID)
	assert.Equal("Buy milk", created.Title)
	assert.False(created.CreatedAt.IsZero())

	got, err := client.GetTodo(ctx, created.ID)
	assert.Nil(err)
	assert.Equal(created.ID, got.ID)

	got.IsCompleted = true
	updated, err := client.UpdateTodo(ctx, got.ID, got)
	assert.Nil(err)
	assert.True(updated.IsCompleted)

	todos, err := client.ListTodos(ctx)
	assert.Nil(err)
	assert.Len(todos, 1)

	assert.Nil(client.DeleteTodo(ctx, created.ID))

	todos, err = client.ListTodos(ctx)
	assert.Nil(err)
	assert.Empty(todos)
}

func TestSearchTodos(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()

	srv := testutil.NewServer(t)
	srv.SeedTodo(model.Todo{Title: "Buy milk"})
	srv.SeedTodo(model.Todo{Title: "Call mom"})

	client := newClient(srv.URL, "")

	matches, err := client.SearchTodos(ctx, "buy")
	assert.Nil(err)
	assert.Len(matches, 1)
	assert.Equal("Buy milk", matches[0].Title)
}

func TestSearchTermEscaping(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	var gotTerm string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTerm = r.URL.Query().Get("name")
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	client := newClient(srv.URL, "")
	_, err := client.SearchTodos(context.Background(), "milk & honey")
	assert.Nil(err)
	assert.Equal("milk & honey", gotTerm)
}

func TestDueDateWireFormat(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	// The service serializes timestamps without a zone offset.
	body := `[{"id":1,"title":"Dentist","isCompleted":false,` +
		`"dueDate":"2026-03-14T09:30:00","createdAt":"2026-03-01T12:00:00.123456"}]`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	client := newClient(srv.URL, "")
	todos, err := client.ListTodos(context.Background())
	assert.Nil(err)
	assert.Len(todos, 1)
	assert.NotNil(todos[0].DueDate)
	assert.Equal("2026-03-14T09:30", todos[0].DueDate.Minute())
	assert.Equal(2026, todos[0].CreatedAt.Year())
}
