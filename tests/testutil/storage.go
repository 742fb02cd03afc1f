package testutil

import (
	"testing"

	"github.com/minhvu/todopad/internal/ephemeral"
)

// NewTestStorage creates an in-memory SessionStorage with all migrations
// applied. It automatically closes the storage when the test completes.
func NewTestStorage(t *testing.T) *ephemeral.SessionStorage {
	t.Helper()

	s, err := ephemeral.NewSessionStorage()
	if err != nil {
		t.Fatalf("creating test storage: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test storage: %v", err)
		}
	})

	return s
}
