package api

import (
	"context"
	"fmt"

	"github.com/minhvu/todopad/internal/model"
)

// ListSubtasks retrieves all subtasks of the given parent todo.
func (c *Client) ListSubtasks(ctx context.Context, todoID int) ([]model.Subtask, error) {
	var subtasks []model.Subtask
	path := fmt.Sprintf("/subtasks/todo/%d", todoID)
	if err := c.get(ctx, path, &subtasks); err != nil {
		return nil, err
	}
	return subtasks, nil
}

// CreateSubtask submits a new subtask. The server assigns the identifier
// and creation timestamp.
func (c *Client) CreateSubtask(ctx context.Context, subtask model.Subtask) (model.Subtask, error) {
	var created model.Subtask
	if err := c.post(ctx, "/subtasks", subtask, &created); err != nil {
		return model.Subtask{}, err
	}
	return created, nil
}

// UpdateSubtask replaces the full subtask record.
func (c *Client) UpdateSubtask(ctx context.Context, subtask model.Subtask) (model.Subtask, error) {
	var updated model.Subtask
	path := fmt.Sprintf("/subtasks/%d", subtask.ID)
	if err := c.put(ctx, path, subtask, &updated); err != nil {
		return model.Subtask{}, err
	}
	return updated, nil
}

// DeleteSubtask removes the subtask with the given identifier.
func (c *Client) DeleteSubtask(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/subtasks/%d", id))
}
