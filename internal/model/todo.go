package model

// Todo is a single task item. Server-mode identifiers are assigned by the
// backend; guest-mode identifiers are generated locally from the clock and
// never leave the current session.
type Todo struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	IsCompleted bool      `json:"isCompleted"`
	DueDate     *DateTime `json:"dueDate"`
	CreatedAt   DateTime  `json:"createdAt,omitempty"`

	// GoogleCalendarEventID is set once the item has been synced to the
	// user's calendar. Empty until then.
	GoogleCalendarEventID string `json:"googleCalendarEventId,omitempty"`
}
