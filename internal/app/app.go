// Package app is the root Bubble Tea model: view routing, layout, and
// the glue between the terminal UI and the todo state layer.
package app

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/minhvu/todopad/internal/api"
	"github.com/minhvu/todopad/internal/ephemeral"
	"github.com/minhvu/todopad/internal/keys"
	"github.com/minhvu/todopad/internal/mode"
	"github.com/minhvu/todopad/internal/nested"
	"github.com/minhvu/todopad/internal/session"
	"github.com/minhvu/todopad/internal/todo"
	"github.com/minhvu/todopad/internal/ui"
	"github.com/minhvu/todopad/internal/ui/authform"
	"github.com/minhvu/todopad/internal/ui/detail"
	helpview "github.com/minhvu/todopad/internal/ui/help"
	"github.com/minhvu/todopad/internal/ui/todoform"
	"github.com/minhvu/todopad/internal/ui/todolist"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewDetail
	ViewTodoCreate
	ViewTodoEdit
	ViewLogin
	ViewRegister
	ViewHelp
)

// Model is the root Bubble Tea model that manages view routing, layout,
// and access to the state layer.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout

	client     *api.Client
	session    *session.Session
	controller *todo.Controller
	cache      *nested.Cache
	store      *ephemeral.Adapter
	keys       *keys.KeyMap
	log        zerolog.Logger

	todoList todolist.Model
	detail   detail.Model
	todoForm todoform.Model
	authForm authform.Model
	helpView helpview.Model

	// confirmDelete holds the todo pending deletion while the y/n
	// prompt is shown.
	confirmDelete  *int
	confirmTitle   string
	statusMessage  string
	errorMessage   string
	calendarStatus string

	ready bool
}

// New creates the root application model.
func New(
	client *api.Client,
	sess *session.Session,
	controller *todo.Controller,
	cache *nested.Cache,
	store *ephemeral.Adapter,
	log zerolog.Logger,
) Model {
	k := keys.DefaultKeyMap()

	return Model{
		currentView: ViewList,
		client:      client,
		session:     sess,
		controller:  controller,
		cache:       cache,
		store:       store,
		keys:        k,
		log:         log,
		todoList:    todolist.New(controller, cache, k, 80, 24),
		detail:      detail.New(cache, k, 80, 24),
		todoForm:    todoform.New(80, 24),
		authForm:    authform.New(80, 24),
		helpView:    helpview.New(k, 80, 24),
	}
}

// Init returns the initial command to load todos.
func (m Model) Init() tea.Cmd {
	return m.todoList.Init()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.todoList.SetSize(contentWidth, contentHeight)
		m.detail.SetSize(contentWidth, contentHeight)
		m.todoForm.SetSize(contentWidth, contentHeight)
		m.authForm.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case todolist.TodosLoadedMsg:
		m.setError(msg.Err)
		var cmd tea.Cmd
		m.todoList, cmd = m.todoList.Update(msg)
		return m, cmd

	case todolist.SelectedTodoMsg:
		t, ok := m.todoList.SelectedTodo()
		if !ok {
			return m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewDetail
		m.detail.SetTodo(t)
		return m, nil

	case detail.BackMsg:
		m.currentView = ViewList
		return m, m.todoList.Reload()

	case detail.PanelsUpdatedMsg:
		m.setError(msg.Err)
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		// Progress shown in the list may have changed too.
		return m, tea.Batch(cmd, m.todoList.Reload())

	case todoform.TodoCreatedMsg:
		m.currentView = ViewList
		return m, m.createTodo(msg.Draft)

	case todoform.TodoUpdatedMsg:
		m.currentView = ViewList
		return m, m.updateTodo(msg.Draft)

	case todoform.TodoFormCancelMsg:
		m.currentView = ViewList
		m.controller.CancelEdit()
		return m, nil

	case todoActionResultMsg:
		m.setError(msg.err)
		return m, m.todoList.Reload()

	case todoEditReadyMsg:
		if msg.err != nil {
			m.setError(msg.err)
			m.currentView = ViewList
			return m, nil
		}
		return m, m.todoForm.StartEdit(msg.draft)

	case authform.LoginSubmittedMsg:
		return m, m.login(msg.Username, msg.Password)

	case authform.RegisterSubmittedMsg:
		return m, m.register(msg.Username, msg.Email, msg.Password)

	case authform.AuthFormCancelMsg:
		m.currentView = ViewList
		return m, nil

	case authResultMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.currentView = ViewList
		m.statusMessage = "signed in as " + m.session.Username()
		return m, m.todoList.LoadTodos()

	case loggedOutMsg:
		m.currentView = ViewList
		m.statusMessage = "signed out"
		m.calendarStatus = ""
		return m, m.todoList.Reload()

	case calendarStatusMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.calendarStatus = describeCalendar(msg.status)
		return m, nil

	case calendarSyncMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.statusMessage = msg.result.Message
		return m, m.todoList.LoadTodos()

	case calendarConnectMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.statusMessage = "open in browser: " + msg.url.AuthorizationURL
		return m, nil

	case adminStatsMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.statusMessage = describeAdminStats(msg.stats)
		return m, nil

	case tea.KeyMsg:
		if m.confirmDelete != nil {
			return m.handleConfirmKeys(msg)
		}
		if handled, model, cmd := m.handleGlobalKeys(msg); handled {
			return model, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleConfirmKeys resolves the pending delete confirmation.
func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		id := *m.confirmDelete
		m.confirmDelete = nil
		m.confirmTitle = ""
		return m, m.deleteTodo(id)
	case "n", "N", "esc":
		m.confirmDelete = nil
		m.confirmTitle = ""
		return m, nil
	}
	return m, nil
}

// handleGlobalKeys processes keys that are independent of the focused
// sub-view. Returns handled=false to fall through to the active view.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	m.statusMessage = ""

	switch msg.String() {
	case "ctrl+c":
		return true, m, tea.Quit

	case "q":
		if m.currentView == ViewList && !m.todoList.Searching() {
			return true, m, tea.Quit
		}

	case "?":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return true, m, nil
		}
		if m.currentView == ViewList {
			m.previousView = m.currentView
			m.currentView = ViewHelp
			return true, m, nil
		}

	case "n":
		if m.currentView == ViewList && !m.todoList.Searching() {
			m.previousView = m.currentView
			m.currentView = ViewTodoCreate
			return true, m, m.todoForm.StartCreate()
		}

	case "e":
		if m.currentView == ViewList && !m.todoList.Searching() {
			if t, ok := m.todoList.SelectedTodo(); ok {
				m.previousView = m.currentView
				m.currentView = ViewTodoEdit
				return true, m, m.startEdit(t.ID)
			}
		}

	case "x":
		if m.currentView == ViewList && !m.todoList.Searching() {
			if t, ok := m.todoList.SelectedTodo(); ok {
				return true, m, m.toggleComplete(t.ID)
			}
		}

	case "d":
		if m.currentView == ViewList && !m.todoList.Searching() {
			if t, ok := m.todoList.SelectedTodo(); ok {
				id := t.ID
				m.confirmDelete = &id
				m.confirmTitle = t.Title
				return true, m, nil
			}
		}

	case "l":
		if m.currentView == ViewList && !m.todoList.Searching() && !m.session.Authenticated() {
			m.previousView = m.currentView
			m.currentView = ViewLogin
			return true, m, m.authForm.StartLogin()
		}

	case "R":
		if m.currentView == ViewList && !m.todoList.Searching() && !m.session.Authenticated() {
			m.previousView = m.currentView
			m.currentView = ViewRegister
			return true, m, m.authForm.StartRegister()
		}

	case "L":
		if m.currentView == ViewList && m.session.Authenticated() {
			return true, m, m.logout()
		}

	case "g":
		if m.currentView == ViewList && !m.todoList.Searching() {
			return true, m, m.fetchCalendarStatus()
		}

	case "G":
		if m.currentView == ViewList && !m.todoList.Searching() {
			return true, m, m.syncCalendar()
		}

	case "C":
		if m.currentView == ViewList && !m.todoList.Searching() {
			return true, m, m.connectCalendar()
		}

	case "T":
		if m.currentView == ViewList && !m.todoList.Searching() {
			return true, m, m.toggleCalendarSync()
		}

	case "X":
		if m.currentView == ViewList && !m.todoList.Searching() {
			return true, m, m.disconnectCalendar()
		}

	case "A":
		if m.currentView == ViewList && !m.todoList.Searching() && m.session.IsAdmin() {
			return true, m, m.fetchAdminStats()
		}
	}

	return false, m, nil
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.todoList, cmd = m.todoList.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewTodoCreate, ViewTodoEdit:
		m.todoForm, cmd = m.todoForm.Update(msg)
	case ViewLogin, ViewRegister:
		m.authForm, cmd = m.authForm.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("Todopad", m.sessionStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.statusLine())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.todoList.View()
	case ViewDetail:
		return m.detail.View()
	case ViewTodoCreate, ViewTodoEdit:
		return m.todoForm.View()
	case ViewLogin, ViewRegister:
		return m.authForm.View()
	case ViewHelp:
		return m.helpView.View()
	default:
		return ""
	}
}

// sessionStatus describes who is signed in for the header.
func (m Model) sessionStatus() string {
	if m.session.Authenticated() {
		s := m.session.Username()
		if m.calendarStatus != "" {
			s += " | " + m.calendarStatus
		}
		return s
	}
	return "guest"
}

// statusLine returns the status bar content: a pending confirmation, an
// error, a transient status, or key hints.
func (m Model) statusLine() string {
	if m.confirmDelete != nil {
		return fmt.Sprintf("delete %q? y/n", m.confirmTitle)
	}
	if m.errorMessage != "" {
		return m.errorMessage
	}
	if m.statusMessage != "" {
		return m.statusMessage
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewDetail:
		return "s subtasks | a attachments | n add | tab next | x toggle | d delete | u upload | o download | D delete file | esc back"
	case ViewTodoCreate, ViewTodoEdit:
		return "enter submit | esc cancel"
	case ViewLogin, ViewRegister:
		return "enter submit | esc cancel"
	default:
		if summary := m.todoList.SearchSummary(); summary != "" {
			return summary + " | esc clear"
		}
		if !m.session.Authenticated() {
			return "guest mode, todos vanish on exit | l login | R register | ? help"
		}
		return "q quit | ? help | n new | / search | enter open"
	}
}

// setError records an error for the status bar, translating guest
// restrictions into a friendly hint.
func (m *Model) setError(err error) {
	if err == nil {
		m.errorMessage = ""
		return
	}
	if errors.Is(err, mode.ErrGuestRestricted) {
		m.errorMessage = mode.ErrGuestRestricted.Error()
		return
	}
	m.log.Error().Err(err).Msg("operation failed")
	m.errorMessage = err.Error()
}
