package ephemeral

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/minhvu/todopad/internal/model"
)

// guestSlotKey is the process-wide single slot holding the guest
// collection. One guest list at a time, no further namespacing.
const guestSlotKey = "guestTodos"

// Adapter persists the guest todo collection as an opaque JSON blob in
// session-scoped storage. Writes are fire-and-forget: the in-memory
// collection stays authoritative for the page lifetime regardless of
// persistence success, so failures are logged and absorbed.
type Adapter struct {
	storage Storage
	log     zerolog.Logger
}

// NewAdapter wraps the given storage.
func NewAdapter(storage Storage, log zerolog.Logger) *Adapter {
	return &Adapter{storage: storage, log: log}
}

// Load rehydrates the guest collection. Absence of a stored value yields
// an empty collection, not an error; so does a corrupt blob.
func (a *Adapter) Load() []model.Todo {
	raw, ok, err := a.storage.Get(guestSlotKey)
	if err != nil {
		a.log.Warn().Err(err).Msg("reading guest slot failed")
		return nil
	}
	if !ok {
		return nil
	}

	var todos []model.Todo
	if err := json.Unmarshal([]byte(raw), &todos); err != nil {
		a.log.Warn().Err(err).Msg("discarding unparsable guest slot")
		return nil
	}
	return todos
}

// Save serializes and stores the guest collection, best-effort.
func (a *Adapter) Save(todos []model.Todo) {
	raw, err := json.Marshal(todos)
	if err != nil {
		a.log.Warn().Err(err).Msg("serializing guest collection failed")
		return
	}
	if err := a.storage.Set(guestSlotKey, string(raw)); err != nil {
		a.log.Warn().Err(err).Msg("persisting guest collection failed")
	}
}

// Clear drops the stored guest collection. Called on logout, mirroring
// the session storage being cleared at session end.
func (a *Adapter) Clear() {
	if err := a.storage.Delete(guestSlotKey); err != nil {
		a.log.Debug().Err(err).Msg("clearing guest slot failed")
	}
}
