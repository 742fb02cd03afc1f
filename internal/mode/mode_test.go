package mode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/minhvu/todopad/internal/mode"
)

func TestAuthenticatedAlwaysRemote(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	ops := []mode.Op{
		mode.OpLoad, mode.OpCreate, mode.OpUpdate, mode.OpDelete,
		mode.OpSearch, mode.OpSubtasks, mode.OpAttachments, mode.OpCalendar,
	}
	for _, op := range ops {
		m, err := mode.Select(op, true)
		assert.Equal(mode.Remote, m)
		assert.Nil(err)
	}
}

func TestGuestItemOpsGoLocal(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	for _, op := range []mode.Op{
		mode.OpLoad, mode.OpCreate, mode.OpUpdate, mode.OpDelete, mode.OpSearch,
	} {
		m, err := mode.Select(op, false)
		assert.Equal(mode.Local, m)
		assert.Nil(err)
	}
}

func TestGuestNestedOpsRestricted(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	for _, op := range []mode.Op{
		mode.OpSubtasks, mode.OpAttachments, mode.OpCalendar,
	} {
		_, err := mode.Select(op, false)
		assert.ErrorIs(err, mode.ErrGuestRestricted)
	}
}
