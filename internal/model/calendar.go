package model

// CalendarAuthURL is returned when initiating a Google Calendar connection.
// The client opens the URL in a browser; the OAuth handshake itself happens
// outside this application.
type CalendarAuthURL struct {
	AuthorizationURL string `json:"authorizationUrl"`
	Message          string `json:"message,omitempty"`
}

// CalendarStatus describes the current calendar connection for the user.
type CalendarStatus struct {
	Connected   bool      `json:"connected"`
	SyncEnabled bool      `json:"syncEnabled"`
	CalendarID  string    `json:"calendarId,omitempty"`
	ConnectedAt *DateTime `json:"connectedAt,omitempty"`
	LastUpdated *DateTime `json:"lastUpdated,omitempty"`
}

// CalendarSyncResult summarizes a bulk sync of todos to the calendar.
type CalendarSyncResult struct {
	Success     bool   `json:"success"`
	Message     string `json:"message,omitempty"`
	SyncedCount int    `json:"syncedCount"`
}
