package session_test

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/minhvu/todopad/internal/api"
	"github.com/minhvu/todopad/internal/session"
)

// memStore is an in-memory CredentialStore.
type memStore struct {
	values map[string]string
	failed bool
}

func newMemStore() *memStore {
	return &memStore{values: make(map[string]string)}
}

func (m *memStore) Get(key string) (string, error) {
	if m.failed {
		return "", errors.New("store unavailable")
	}
	return m.values[key], nil
}

func (m *memStore) Set(key, value string) error {
	if m.failed {
		return errors.New("store unavailable")
	}
	m.values[key] = value
	return nil
}

func (m *memStore) Delete(key string) error {
	if m.failed {
		return errors.New("store unavailable")
	}
	delete(m.values, key)
	return nil
}

func TestZeroSessionIsGuest(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s := session.New(newMemStore(), zerolog.Nop())
	assert.False(s.Authenticated())
	assert.Empty(s.Token())
	assert.Empty(s.Username())
}

func TestLoginPersistsCredential(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	store := newMemStore()
	s := session.New(store, zerolog.Nop())

	s.Login(api.Credentials{Token: "tok-1", Username: "minh", Role: "admin"})

	assert.True(s.Authenticated())
	assert.Equal("tok-1", s.Token())
	assert.Equal("minh", s.Username())
	assert.True(s.IsAdmin())
	assert.Equal("tok-1", store.values["token"])
	assert.Contains(store.values["user"], `"minh"`)
}

func TestRestore(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	store := newMemStore()
	first := session.New(store, zerolog.Nop())
	first.Login(api.Credentials{Token: "tok-1", Username: "minh"})

	second := session.New(store, zerolog.Nop())
	second.Restore()
	assert.True(second.Authenticated())
	assert.Equal("tok-1", second.Token())
	assert.Equal("minh", second.Username())
}

func TestRestoreWithEmptyStoreStaysGuest(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s := session.New(newMemStore(), zerolog.Nop())
	s.Restore()
	assert.False(s.Authenticated())
}

func TestLogoutClearsEverything(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	store := newMemStore()
	s := session.New(store, zerolog.Nop())
	s.Login(api.Credentials{Token: "tok-1", Username: "minh"})

	s.Logout()

	assert.False(s.Authenticated())
	assert.Empty(s.Username())
	assert.Empty(store.values["token"])
	assert.Empty(store.values["user"])
}

func TestLoginSurvivesStoreFailure(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	store := newMemStore()
	store.failed = true
	s := session.New(store, zerolog.Nop())

	// The in-memory session stays authoritative for the current run.
	s.Login(api.Credentials{Token: "tok-1", Username: "minh"})
	assert.True(s.Authenticated())
	assert.Equal("tok-1", s.Token())
}
