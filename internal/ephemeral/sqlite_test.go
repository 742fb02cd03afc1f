package ephemeral_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/minhvu/todopad/tests/testutil"
)

func TestGetMissingKey(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s := testutil.NewTestStorage(t)

	_, ok, err := s.Get("absent")
	assert.Nil(err)
	assert.False(ok)
}

func TestSetGetRoundTrip(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s := testutil.NewTestStorage(t)

	assert.Nil(s.Set("slot", "value-1"))

	got, ok, err := s.Get("slot")
	assert.Nil(err)
	assert.True(ok)
	assert.Equal("value-1", got)
}

func TestSetOverwrites(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s := testutil.NewTestStorage(t)

	assert.Nil(s.Set("slot", "old"))
	assert.Nil(s.Set("slot", "new"))

	got, ok, err := s.Get("slot")
	assert.Nil(err)
	assert.True(ok)
	assert.Equal("new", got)
}

func TestDelete(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s := testutil.NewTestStorage(t)

	assert.Nil(s.Set("slot", "value"))
	assert.Nil(s.Delete("slot"))

	_, ok, err := s.Get("slot")
	assert.Nil(err)
	assert.False(ok)

	// Deleting an absent key is not an error.
	assert.Nil(s.Delete("slot"))
}

func TestStoragesAreIsolated(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	a := testutil.NewTestStorage(t)
	b := testutil.NewTestStorage(t)

	assert.Nil(a.Set("slot", "value"))

	_, ok, err := b.Get("slot")
	assert.Nil(err)
	assert.False(ok)
}
