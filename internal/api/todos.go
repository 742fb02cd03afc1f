package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/minhvu/todopad/internal/model"
)

// ListTodos retrieves the caller's full todo collection.
func (c *Client) ListTodos(ctx context.Context) ([]model.Todo, error) {
	var todos []model.Todo
	if err := c.get(ctx, "/todos", &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// SearchTodos retrieves the subset of todos matching the given term via
// the server-side query.
func (c *Client) SearchTodos(ctx context.Context, term string) ([]model.Todo, error) {
	var todos []model.Todo
	path := "/todos?name=" + url.QueryEscape(term)
	if err := c.get(ctx, path, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// GetTodo retrieves a single todo by identifier.
func (c *Client) GetTodo(ctx context.Context, id int) (model.Todo, error) {
	var todo model.Todo
	if err := c.get(ctx, fmt.Sprintf("/todos/%d", id), &todo); err != nil {
		return model.Todo{}, err
	}
	return todo, nil
}

// CreateTodo submits a candidate todo. The server assigns the identifier
// and creation timestamp; the returned representation is authoritative.
func (c *Client) CreateTodo(ctx context.Context, todo model.Todo) (model.Todo, error) {
	var created model.Todo
	if err := c.post(ctx, "/todos", todo, &created); err != nil {
		return model.Todo{}, err
	}
	return created, nil
}

// UpdateTodo replaces the todo with the given identifier. The returned
// representation is authoritative.
func (c *Client) UpdateTodo(ctx context.Context, id int, todo model.Todo) (model.Todo, error) {
	var updated model.Todo
	if err := c.put(ctx, fmt.Sprintf("/todos/%d", id), todo, &updated); err != nil {
		return model.Todo{}, err
	}
	return updated, nil
}

// DeleteTodo removes the todo with the given identifier.
func (c *Client) DeleteTodo(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/todos/%d", id))
}

// Ping issues a cheap authenticated request to validate the current
// credential. Used at session restore to decide between server and guest
// mode.
func (c *Client) Ping(ctx context.Context) error {
	var todos []model.Todo
	return c.get(ctx, "/todos", &todos)
}
