// Package authform renders the login and registration forms.
package authform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/minhvu/todopad/internal/api"
	"github.com/minhvu/todopad/internal/theme"
)

// LoginSubmittedMsg carries the credentials entered in the login form.
type LoginSubmittedMsg struct {
	Username string
	Password string
}

// RegisterSubmittedMsg carries the fields entered in the register form.
type RegisterSubmittedMsg struct {
	Username string
	Email    string
	Password string
}

// AuthFormCancelMsg is dispatched when the user cancels the form.
type AuthFormCancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	username string
	email    string
	password string
	confirm  string
}

// Model is the Bubble Tea model for the login/register form.
type Model struct {
	form         *huh.Form
	fb           *formBindings
	registerMode bool
	width        int
	height       int
}

// New creates a new auth form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// StartLogin initializes the form for signing in.
func (m *Model) StartLogin() tea.Cmd {
	m.registerMode = false
	m.reset()
	m.form = m.buildLoginForm()
	return m.form.Init()
}

// StartRegister initializes the form for creating an account.
func (m *Model) StartRegister() tea.Cmd {
	m.registerMode = true
	m.reset()
	m.form = m.buildRegisterForm()
	return m.form.Init()
}

func (m *Model) reset() {
	m.fb.username = ""
	m.fb.email = ""
	m.fb.password = ""
	m.fb.confirm = ""
}

// Update handles messages for the auth form.
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
		return m, func() tea.Msg { return AuthFormCancelMsg{} }
	}

	return m, cmd
}

// View renders the auth form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "Sign In"
	if m.registerMode {
		titleText = "Create Account"
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

func (m *Model) buildLoginForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&m.fb.username).
				Validate(validateRequired("Username")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(validateRequired("Password")),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) buildRegisterForm() *huh.Form {
	fb := m.fb
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&m.fb.username).
				Validate(validateRequired("Username")),
			huh.NewInput().
				Title("Email").
				Value(&m.fb.email).
				Validate(validateRequired("Email")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(validatePassword),
			huh.NewInput().
				Title("Confirm Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.confirm).
				Validate(func(s string) error {
					if s != fb.password {
						return fmt.Errorf("passwords do not match")
					}
					return nil
				}),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	if m.registerMode {
		msg := RegisterSubmittedMsg{
			Username: m.fb.username,
			Email:    m.fb.email,
			Password: m.fb.password,
		}
		return func() tea.Msg { return msg }
	}

	msg := LoginSubmittedMsg{
		Username: m.fb.username,
		Password: m.fb.password,
	}
	return func() tea.Msg { return msg }
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
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

func validatePassword(s string) error {
	if len(s) < api.MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", api.MinPasswordLength)
	}
	return nil
}
