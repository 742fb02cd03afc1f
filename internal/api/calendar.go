package api

import (
	"context"
	"fmt"

	"github.com/minhvu/todopad/internal/model"
)

// ConnectCalendar starts a Google Calendar connection and returns the
// authorization URL the user must open in a browser. The OAuth handshake
// itself happens outside this client.
func (c *Client) ConnectCalendar(ctx context.Context) (model.CalendarAuthURL, error) {
	var authURL model.CalendarAuthURL
	if err := c.get(ctx, "/calendar/connect", &authURL); err != nil {
		return model.CalendarAuthURL{}, err
	}
	return authURL, nil
}

// CalendarStatus retrieves the current calendar connection state.
func (c *Client) CalendarStatus(ctx context.Context) (model.CalendarStatus, error) {
	var status model.CalendarStatus
	if err := c.get(ctx, "/calendar/status", &status); err != nil {
		return model.CalendarStatus{}, err
	}
	return status, nil
}

// SyncCalendar pushes all todos with due dates to the connected calendar
// and returns the sync summary.
func (c *Client) SyncCalendar(ctx context.Context) (model.CalendarSyncResult, error) {
	var result model.CalendarSyncResult
	if err := c.post(ctx, "/calendar/sync", nil, &result); err != nil {
		return model.CalendarSyncResult{}, err
	}
	return result, nil
}

// ToggleCalendarSync enables or disables automatic calendar sync.
func (c *Client) ToggleCalendarSync(ctx context.Context, enabled bool) error {
	path := fmt.Sprintf("/calendar/sync/toggle?enabled=%t", enabled)
	return c.put(ctx, path, nil, nil)
}

// DisconnectCalendar removes the calendar connection and its stored tokens.
func (c *Client) DisconnectCalendar(ctx context.Context) error {
	return c.delete(ctx, "/calendar/disconnect")
}
