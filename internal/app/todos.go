package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/minhvu/todopad/internal/todo"
)

// todoActionResultMsg is sent after a todo mutation completes.
type todoActionResultMsg struct{ err error }

// todoEditReadyMsg carries the draft of the todo being edited.
type todoEditReadyMsg struct {
	draft todo.Draft
	err   error
}

// createTodo submits a new todo built from the form draft.
func (m *Model) createTodo(d todo.Draft) tea.Cmd {
	c := m.controller
	return func() tea.Msg {
		_, err := c.Create(context.Background(), d)
		return todoActionResultMsg{err: err}
	}
}

// updateTodo submits the edited draft for the todo whose edit session
// is open.
func (m *Model) updateTodo(d todo.Draft) tea.Cmd {
	c := m.controller
	return func() tea.Msg {
		_, err := c.Update(context.Background(), d)
		return todoActionResultMsg{err: err}
	}
}

// deleteTodo removes a todo after confirmation, dropping any cached
// nested state for it.
func (m *Model) deleteTodo(id int) tea.Cmd {
	c, cache := m.controller, m.cache
	return func() tea.Msg {
		err := c.Delete(context.Background(), id)
		if err == nil {
			cache.Invalidate(id)
		}
		return todoActionResultMsg{err: err}
	}
}

// startEdit opens an edit session and hands its draft to the form.
func (m *Model) startEdit(id int) tea.Cmd {
	c := m.controller
	return func() tea.Msg {
		draft, err := c.StartEdit(context.Background(), id)
		return todoEditReadyMsg{draft: draft, err: err}
	}
}

// toggleComplete flips a todo's completion flag through a full edit
// round trip so both modes apply their usual merge rules.
func (m *Model) toggleComplete(id int) tea.Cmd {
	c := m.controller
	return func() tea.Msg {
		ctx := context.Background()
		draft, err := c.StartEdit(ctx, id)
		if err != nil {
			return todoActionResultMsg{err: err}
		}
		draft.IsCompleted = !draft.IsCompleted
		_, err = c.Update(ctx, draft)
		return todoActionResultMsg{err: err}
	}
}
