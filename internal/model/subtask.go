package model

// Subtask is a sub-entry of a todo item. Subtasks exist only for
// authenticated users; guest mode has no subtask capability.
type Subtask struct {
	ID          int      `json:"id"`
	TodoID      int      `json:"todoId"`
	Title       string   `json:"title"`
	IsCompleted bool     `json:"isCompleted"`
	CreatedAt   DateTime `json:"createdAt,omitempty"`

	// Position is assigned as the length of the sibling list at creation
	// time and is never renumbered on deletion, so gaps are permitted.
	Position int `json:"position"`
}
