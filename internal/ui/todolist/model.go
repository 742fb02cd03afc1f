// Package todolist renders the main todo list with inline search.
package todolist

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/minhvu/todopad/internal/keys"
	"github.com/minhvu/todopad/internal/model"
	"github.com/minhvu/todopad/internal/nested"
	"github.com/minhvu/todopad/internal/theme"
	"github.com/minhvu/todopad/internal/todo"
)

// TodosLoadedMsg is sent when the displayed todo set has changed.
type TodosLoadedMsg struct {
	Todos []model.Todo
	Err   error
}

// SelectedTodoMsg is sent when a user selects a todo to view details.
type SelectedTodoMsg struct {
	TodoID int
}

// Model is the main todo list view component.
type Model struct {
	list        list.Model
	controller  *todo.Controller
	cache       *nested.Cache
	keys        *keys.KeyMap
	searchMode  bool
	searchInput textinput.Model
	width       int
	height      int
}

// New creates a new todo list model.
func New(c *todo.Controller, cache *nested.Cache, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Todos"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search todos..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		controller:  c,
		cache:       cache,
		keys:        k,
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// Init returns a command that loads the initial set of todos.
func (m Model) Init() tea.Cmd {
	return m.LoadTodos()
}

// Update handles messages for the todo list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TodosLoadedMsg:
		items := make([]list.Item, len(msg.Todos))
		for i, t := range msg.Todos {
			items[i] = TodoItem{Todo: t, Progress: m.cache.Progress(t.ID)}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		term := m.searchInput.Value()
		if term == "" {
			return m, m.ClearSearch()
		}
		return m, m.search(term)

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		return m, m.ClearSearch()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		item, ok := m.list.SelectedItem().(TodoItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedTodoMsg{TodoID: item.Todo.ID}
		}

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.Back):
		if active, _ := m.controller.SearchActive(); active {
			return m, m.ClearSearch()
		}

	case key.Matches(msg, m.keys.Refresh):
		return m, m.LoadTodos()
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the todo list view.
func (m Model) View() string {
	if m.searchMode {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, searchBar, m.list.View())
	}

	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}

	return m.list.View()
}

// renderEmptyState shows guidance text when no todos are available.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if active, term := m.controller.SearchActive(); active {
		return style.Render("No todos match \"" + term + "\".\nPress esc to clear the search.")
	}

	return style.Render("No todos yet.\n\nPress n to create one.")
}

// SelectedTodo returns the currently highlighted todo, if any.
func (m Model) SelectedTodo() (model.Todo, bool) {
	item, ok := m.list.SelectedItem().(TodoItem)
	if !ok {
		return model.Todo{}, false
	}
	return item.Todo, true
}

// Searching reports whether the inline search input has focus.
func (m Model) Searching() bool {
	return m.searchMode
}

// SearchSummary describes the active search for the status bar, or ""
// when browsing the full list.
func (m Model) SearchSummary() string {
	if active, term := m.controller.SearchActive(); active {
		return "search: " + term
	}
	return ""
}

// LoadTodos returns a tea.Cmd that refreshes the displayed todo set.
func (m Model) LoadTodos() tea.Cmd {
	c := m.controller
	return func() tea.Msg {
		err := c.LoadAll(context.Background())
		return TodosLoadedMsg{Todos: c.Todos(), Err: err}
	}
}

// Reload returns a tea.Cmd that re-reads the displayed set without
// touching the server. Used after local state changes.
func (m Model) Reload() tea.Cmd {
	c := m.controller
	return func() tea.Msg {
		return TodosLoadedMsg{Todos: c.Todos()}
	}
}

// search returns a tea.Cmd that applies a search term.
func (m Model) search(term string) tea.Cmd {
	c := m.controller
	return func() tea.Msg {
		err := c.Search(context.Background(), term)
		return TodosLoadedMsg{Todos: c.Todos(), Err: err}
	}
}

// ClearSearch returns a tea.Cmd that restores the unfiltered list.
func (m Model) ClearSearch() tea.Cmd {
	c := m.controller
	return func() tea.Msg {
		err := c.ResetSearch(context.Background())
		return TodosLoadedMsg{Todos: c.Todos(), Err: err}
	}
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}
