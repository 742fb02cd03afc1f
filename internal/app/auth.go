package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// authResultMsg is sent after a login or register attempt.
type authResultMsg struct{ err error }

// loggedOutMsg is sent after the session has been torn down.
type loggedOutMsg struct{}

// login exchanges the entered credentials for a token and installs it
// in the session. The guest collection is left in the ephemeral store
// untouched; the server's collection replaces it on the next load.
func (m *Model) login(username, password string) tea.Cmd {
	client, sess := m.client, m.session
	return func() tea.Msg {
		creds, err := client.Login(context.Background(), username, password)
		if err != nil {
			return authResultMsg{err: err}
		}
		sess.Login(creds)
		return authResultMsg{}
	}
}

// register creates an account and signs straight into it.
func (m *Model) register(username, email, password string) tea.Cmd {
	client, sess := m.client, m.session
	return func() tea.Msg {
		creds, err := client.Register(context.Background(), username, email, password)
		if err != nil {
			return authResultMsg{err: err}
		}
		sess.Login(creds)
		return authResultMsg{}
	}
}

// logout clears the credential, the ephemeral guest slot, and every
// cached remote resource, then re-enters guest mode with an empty
// collection.
func (m *Model) logout() tea.Cmd {
	sess, store, controller, cache := m.session, m.store, m.controller, m.cache
	return func() tea.Msg {
		sess.Logout()
		store.Clear()
		cache.Reset()
		controller.EnterGuest()
		return loggedOutMsg{}
	}
}
