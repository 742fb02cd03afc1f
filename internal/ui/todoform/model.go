package todoform

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/minhvu/todopad/internal/model"
	"github.com/minhvu/todopad/internal/theme"
	"github.com/minhvu/todopad/internal/todo"
)

// TodoCreatedMsg is dispatched when a new todo is submitted via the form.
type TodoCreatedMsg struct {
	Draft todo.Draft
}

// TodoUpdatedMsg is dispatched when an edited todo is submitted via the form.
type TodoUpdatedMsg struct {
	Draft todo.Draft
}

// TodoFormCancelMsg is dispatched when the user cancels the form.
type TodoFormCancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title       string
	description string
	completed   bool
	dueDate     string
}

// Model is the Bubble Tea model for the todo create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	editMode bool
	width    int
	height   int
}

// New creates a new todo form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// StartCreate initializes the form for creating a new todo.
func (m *Model) StartCreate() tea.Cmd {
	m.editMode = false
	m.fb.title = ""
	m.fb.description = ""
	m.fb.completed = false
	m.fb.dueDate = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form from an edit draft.
func (m *Model) StartEdit(d todo.Draft) tea.Cmd {
	m.editMode = true
	m.fb.title = d.Title
	m.fb.description = d.Description
	m.fb.completed = d.IsCompleted
	m.fb.dueDate = d.DueDate
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the todo form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return TodoFormCancelMsg{} }
	}

	return m, cmd
}

// View renders the todo form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Todo"
	if m.editMode {
		titleText = "Edit Todo"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Title").
			Placeholder("What needs to be done?").
			Value(&m.fb.title).
			Validate(validateRequired("Title")),
		huh.NewText().
			Title("Description").
			Placeholder("Optional details...").
			Value(&m.fb.description),
		huh.NewInput().
			Title("Due Date").
			Placeholder(model.DateTimeMinute + " (optional)").
			Value(&m.fb.dueDate).
			Validate(validateOptionalDateTime),
	}
	if m.editMode {
		fields = append(fields,
			huh.NewConfirm().
				Title("Completed").
				Value(&m.fb.completed),
		)
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	d := todo.Draft{
		Title:       m.fb.title,
		Description: m.fb.description,
		IsCompleted: m.fb.completed,
		DueDate:     strings.TrimSpace(m.fb.dueDate),
	}

	if m.editMode {
		return func() tea.Msg { return TodoUpdatedMsg{Draft: d} }
	}
	return func() tea.Msg { return TodoCreatedMsg{Draft: d} }
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateOptionalDateTime(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{model.DateTimeMinute, "2006-01-02 15:04", "2006-01-02"} {
		if _, err := time.Parse(layout, s); err == nil {
			return nil
		}
	}
	return fmt.Errorf("invalid date, use %s", model.DateTimeMinute)
}
