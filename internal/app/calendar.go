package app

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/minhvu/todopad/internal/mode"
	"github.com/minhvu/todopad/internal/model"
)

// calendarStatusMsg carries the calendar connection state.
type calendarStatusMsg struct {
	status model.CalendarStatus
	err    error
}

// calendarSyncMsg carries the outcome of a manual calendar sync.
type calendarSyncMsg struct {
	result model.CalendarSyncResult
	err    error
}

// calendarConnectMsg carries the authorization URL for a new connection.
type calendarConnectMsg struct {
	url model.CalendarAuthURL
	err error
}

// fetchCalendarStatus queries the calendar connection state for the
// header indicator. Guests are rejected before any I/O.
func (m *Model) fetchCalendarStatus() tea.Cmd {
	client, sess := m.client, m.session
	return func() tea.Msg {
		if _, err := mode.Select(mode.OpCalendar, sess.Authenticated()); err != nil {
			return calendarStatusMsg{err: err}
		}
		status, err := client.CalendarStatus(context.Background())
		return calendarStatusMsg{status: status, err: err}
	}
}

// syncCalendar pushes the collection to the connected calendar and
// reloads afterwards so event identifiers written by the server appear.
func (m *Model) syncCalendar() tea.Cmd {
	client, sess := m.client, m.session
	return func() tea.Msg {
		if _, err := mode.Select(mode.OpCalendar, sess.Authenticated()); err != nil {
			return calendarSyncMsg{err: err}
		}
		result, err := client.SyncCalendar(context.Background())
		return calendarSyncMsg{result: result, err: err}
	}
}

// connectCalendar requests an authorization URL for a new calendar
// connection. The OAuth handshake happens in the user's browser.
func (m *Model) connectCalendar() tea.Cmd {
	client, sess := m.client, m.session
	return func() tea.Msg {
		if _, err := mode.Select(mode.OpCalendar, sess.Authenticated()); err != nil {
			return calendarConnectMsg{err: err}
		}
		url, err := client.ConnectCalendar(context.Background())
		return calendarConnectMsg{url: url, err: err}
	}
}

// toggleCalendarSync flips automatic sync on or off, then re-reads the
// status so the header reflects the new state.
func (m *Model) toggleCalendarSync() tea.Cmd {
	client, sess := m.client, m.session
	return func() tea.Msg {
		if _, err := mode.Select(mode.OpCalendar, sess.Authenticated()); err != nil {
			return calendarStatusMsg{err: err}
		}
		status, err := client.CalendarStatus(context.Background())
		if err != nil {
			return calendarStatusMsg{err: err}
		}
		if err := client.ToggleCalendarSync(context.Background(), !status.SyncEnabled); err != nil {
			return calendarStatusMsg{err: err}
		}
		status, err = client.CalendarStatus(context.Background())
		return calendarStatusMsg{status: status, err: err}
	}
}

// disconnectCalendar removes the calendar connection.
func (m *Model) disconnectCalendar() tea.Cmd {
	client, sess := m.client, m.session
	return func() tea.Msg {
		if _, err := mode.Select(mode.OpCalendar, sess.Authenticated()); err != nil {
			return calendarStatusMsg{err: err}
		}
		if err := client.DisconnectCalendar(context.Background()); err != nil {
			return calendarStatusMsg{err: err}
		}
		status, err := client.CalendarStatus(context.Background())
		return calendarStatusMsg{status: status, err: err}
	}
}

// describeCalendar renders the connection state for the header.
func describeCalendar(s model.CalendarStatus) string {
	if !s.Connected {
		return "calendar off"
	}
	if s.SyncEnabled {
		return fmt.Sprintf("calendar %s", s.CalendarID)
	}
	return "calendar paused"
}
