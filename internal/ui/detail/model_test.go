package detail_test

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/minhvu/todopad/internal/api"
	"github.com/minhvu/todopad/internal/keys"
	"github.com/minhvu/todopad/internal/model"
	"github.com/minhvu/todopad/internal/nested"
	"github.com/minhvu/todopad/internal/session"
	"github.com/minhvu/todopad/internal/ui/detail"
	"github.com/minhvu/todopad/tests/testutil"
)

// mapCreds is an in-memory credential store for tests.
type mapCreds map[string]string

func (m mapCreds) Get(key string) (string, error) { return m[key], nil }
func (m mapCreds) Set(key, value string) error    { m[key] = value; return nil }
func (m mapCreds) Delete(key string) error        { delete(m, key); return nil }

// newDetail builds a detail view over an authenticated cache and a fake
// server, pointed at a freshly seeded todo.
func newDetail(t *testing.T) (detail.Model, *nested.Cache, *testutil.Server, model.Todo) {
	t.Helper()

	srv := testutil.NewServer(t)
	srv.Token = "test-token"

	sess := session.New(mapCreds{}, zerolog.Nop())
	sess.Login(api.Credentials{Token: "test-token", Username: "minh"})

	client := api.NewClient(srv.URL, sess.Token, time.Second)
	cache := nested.NewCache(client, sess, zerolog.Nop())

	parent := srv.SeedTodo(model.Todo{Title: "Report"})

	m := detail.New(cache, keys.DefaultKeyMap(), 80, 24)
	m.SetTodo(parent)
	return m, cache, srv, parent
}

func pressKey(t *testing.T, m detail.Model, k string) (detail.Model, tea.Cmd) {
	t.Helper()
	if k == "esc" {
		return m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	}
	return m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
}

func TestSubtaskDeleteNeedsConfirmation(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()

	m, cache, srv, parent := newDetail(t)
	srv.SeedSubtask(model.Subtask{TodoID: parent.ID, Title: "outline"})
	_, err := cache.ToggleSubtasks(ctx, parent.ID)
	assert.Nil(err)
	m.SetTodo(parent)

	// The first press only opens the prompt; nothing is deleted.
	m, cmd := pressKey(t, m, "d")
	assert.Nil(cmd)
	assert.Len(srv.SubtasksOf(parent.ID), 1)
	assert.Contains(m.View(), "y/n")

	m, cmd = pressKey(t, m, "y")
	assert.NotNil(cmd)

	msg, ok := cmd().(detail.PanelsUpdatedMsg)
	assert.True(ok)
	assert.Nil(msg.Err)
	assert.Empty(srv.SubtasksOf(parent.ID))
}

func TestSubtaskDeleteCanBeDeclined(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()

	m, cache, srv, parent := newDetail(t)
	srv.SeedSubtask(model.Subtask{TodoID: parent.ID, Title: "outline"})
	_, err := cache.ToggleSubtasks(ctx, parent.ID)
	assert.Nil(err)
	m.SetTodo(parent)

	m, cmd := pressKey(t, m, "d")
	assert.Nil(cmd)

	m, cmd = pressKey(t, m, "n")
	assert.Nil(cmd)
	assert.Len(srv.SubtasksOf(parent.ID), 1)
	assert.NotContains(m.View(), "y/n")

	// Esc declines too.
	m, _ = pressKey(t, m, "d")
	m, cmd = pressKey(t, m, "esc")
	assert.Nil(cmd)
	assert.Len(srv.SubtasksOf(parent.ID), 1)
}

func TestAttachmentDeleteNeedsConfirmation(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()

	m, cache, _, parent := newDetail(t)
	assert.Nil(cache.Upload(ctx, parent.ID, "notes.txt", strings.NewReader("remember")))
	_, err := cache.ToggleAttachments(ctx, parent.ID)
	assert.Nil(err)
	m.SetTodo(parent)

	m, cmd := pressKey(t, m, "D")
	assert.Nil(cmd)
	attachments, _ := cache.Attachments(parent.ID)
	assert.Len(attachments, 1)

	m, cmd = pressKey(t, m, "y")
	assert.NotNil(cmd)

	msg, ok := cmd().(detail.PanelsUpdatedMsg)
	assert.True(ok)
	assert.Nil(msg.Err)

	attachments, _ = cache.Attachments(parent.ID)
	assert.Empty(attachments)
}

func TestAttachmentDeleteDeclinedKeepsFile(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()

	m, cache, _, parent := newDetail(t)
	assert.Nil(cache.Upload(ctx, parent.ID, "notes.txt", strings.NewReader("remember")))
	_, err := cache.ToggleAttachments(ctx, parent.ID)
	assert.Nil(err)
	m.SetTodo(parent)

	m, _ = pressKey(t, m, "D")
	m, cmd := pressKey(t, m, "N")
	assert.Nil(cmd)

	attachments, _ := cache.Attachments(parent.ID)
	assert.Len(attachments, 1)
}
