// Package mode holds the routing rule deciding whether an operation is
// serviced by the remote todo service or by session-scoped guest storage.
package mode

import "errors"

// ErrGuestRestricted marks operations that have no guest-mode
// equivalent. It is surfaced as a capability notice, not a failure: the
// operation is a deliberate no-op for unauthenticated users.
var ErrGuestRestricted = errors.New(
	"only available for registered users; please login or register",
)

// Op classifies an operation for routing purposes.
type Op int

const (
	OpLoad Op = iota
	OpCreate
	OpUpdate
	OpDelete
	OpSearch
	OpSubtasks
	OpAttachments
	OpCalendar
)

// Mode is the routing target for an operation.
type Mode int

const (
	// Remote routes to the todo service over HTTP.
	Remote Mode = iota
	// Local routes to the ephemeral session store.
	Local
)

// Select is the pure routing function. Authenticated sessions always go
// remote. Guest sessions go local for todo-item operations and are
// rejected outright for subtask, attachment, and calendar operations.
func Select(op Op, authenticated bool) (Mode, error) {
	if authenticated {
		return Remote, nil
	}

	switch op {
	case OpSubtasks, OpAttachments, OpCalendar:
		return Local, ErrGuestRestricted
	default:
		return Local, nil
	}
}
