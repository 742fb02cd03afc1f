package todolist_test

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/minhvu/todopad/internal/api"
	"github.com/minhvu/todopad/internal/ephemeral"
	"github.com/minhvu/todopad/internal/keys"
	"github.com/minhvu/todopad/internal/nested"
	"github.com/minhvu/todopad/internal/session"
	"github.com/minhvu/todopad/internal/todo"
	"github.com/minhvu/todopad/internal/ui/todolist"
	"github.com/minhvu/todopad/tests/testutil"
)

// mapCreds is an in-memory credential store for tests.
type mapCreds map[string]string

func (m mapCreds) Get(key string) (string, error) { return m[key], nil }
func (m mapCreds) Set(key, value string) error    { m[key] = value; return nil }
func (m mapCreds) Delete(key string) error        { delete(m, key); return nil }

// newList builds a list view over a guest controller.
func newList(t *testing.T) (todolist.Model, *todo.Controller) {
	t.Helper()

	store := ephemeral.NewAdapter(testutil.NewTestStorage(t), zerolog.Nop())
	sess := session.New(mapCreds{}, zerolog.Nop())
	client := api.NewClient("http://127.0.0.1:1", nil, time.Second)

	c := todo.NewController(client, store, sess, zerolog.Nop())
	c.EnterGuest()

	cache := nested.NewCache(client, sess, zerolog.Nop())
	return todolist.New(c, cache, keys.DefaultKeyMap(), 80, 24), c
}

func TestEscClearsActiveSearch(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()

	m, c := newList(t)
	_, err := c.Create(ctx, todo.Draft{Title: "Buy milk"})
	assert.Nil(err)
	_, err = c.Create(ctx, todo.Draft{Title: "Call mom"})
	assert.Nil(err)
	assert.Nil(c.Search(ctx, "milk"))

	// Esc outside the search input still clears the narrowed view.
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(m.Searching())
	assert.NotNil(cmd)

	msg, ok := cmd().(todolist.TodosLoadedMsg)
	assert.True(ok)
	assert.Nil(msg.Err)
	assert.Len(msg.Todos, 2)

	active, _ := c.SearchActive()
	assert.False(active)
}

func TestEscWithoutSearchFallsThrough(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()

	m, c := newList(t)
	_, err := c.Create(ctx, todo.Draft{Title: "Buy milk"})
	assert.Nil(err)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(m.Searching())

	active, _ := c.SearchActive()
	assert.False(active)
	assert.Len(c.Todos(), 1)
}
