// Package detail renders a single todo with its expandable subtask and
// attachment panels.
package detail

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/minhvu/todopad/internal/keys"
	"github.com/minhvu/todopad/internal/model"
	"github.com/minhvu/todopad/internal/nested"
	"github.com/minhvu/todopad/internal/theme"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// PanelsUpdatedMsg is sent after any subtask or attachment operation so
// the parent can refresh list progress and surface errors.
type PanelsUpdatedMsg struct {
	TodoID int
	Err    error
}

// promptKind selects what the inline text input is collecting.
type promptKind int

const (
	promptNone promptKind = iota
	promptAddSubtask
	promptUploadPath
	promptDownloadPath
)

// confirmKind selects what the pending y/n prompt would delete.
type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmSubtask
	confirmAttachment
)

// Model is the todo detail view component.
type Model struct {
	todo     model.Todo
	cache    *nested.Cache
	keys     *keys.KeyMap
	viewport viewport.Model

	// cursor selects a subtask for toggle and delete; attachCursor
	// selects an attachment for download and delete.
	cursor       int
	attachCursor int

	prompt      promptKind
	promptInput textinput.Model

	confirm     confirmKind
	confirmID   int
	confirmName string

	width  int
	height int
}

// New creates a new detail view model.
func New(cache *nested.Cache, k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	pi := textinput.New()
	pi.Width = width - 8

	return Model{
		cache:       cache,
		keys:        k,
		viewport:    vp,
		promptInput: pi,
		width:       width,
		height:      height,
	}
}

// SetTodo points the view at a todo. Panels keep whatever expansion
// state the cache already holds for it.
func (m *Model) SetTodo(t model.Todo) {
	m.todo = t
	m.cursor = 0
	m.attachCursor = 0
	m.prompt = promptNone
	m.confirm = confirmNone
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// Todo returns the todo currently shown.
func (m Model) Todo() model.Todo { return m.todo }

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case PanelsUpdatedMsg:
		m.clampCursor()
		m.viewport.SetContent(m.renderContent())
		return m, nil

	case tea.KeyMsg:
		if m.confirm != confirmNone {
			return m.handleConfirmKeys(msg)
		}
		if m.prompt != promptNone {
			return m.handlePromptKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// handleConfirmKeys resolves the pending delete confirmation.
func (m Model) handleConfirmKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		kind, id := m.confirm, m.confirmID
		m.confirm = confirmNone
		m.confirmName = ""
		switch kind {
		case confirmSubtask:
			return m, m.deleteSubtask(id)
		case confirmAttachment:
			return m, m.deleteAttachment(id)
		}
		return m, nil
	case "n", "N", "esc":
		m.confirm = confirmNone
		m.confirmName = ""
		return m, nil
	}
	return m, nil
}

// handlePromptKeys processes key input while the inline prompt is open.
func (m Model) handlePromptKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		kind := m.prompt
		value := strings.TrimSpace(m.promptInput.Value())
		m.prompt = promptNone
		m.promptInput.Reset()
		if value == "" {
			return m, nil
		}
		switch kind {
		case promptAddSubtask:
			return m, m.addSubtask(value)
		case promptUploadPath:
			return m, m.upload(value)
		case promptDownloadPath:
			return m, m.download(value)
		}
		return m, nil

	case "esc":
		m.prompt = promptNone
		m.promptInput.Reset()
		return m, nil
	}

	var cmd tea.Cmd
	m.promptInput, cmd = m.promptInput.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input outside the prompt.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return BackMsg{} }

	case key.Matches(msg, m.keys.Subtasks):
		return m, m.toggleSubtasks()

	case key.Matches(msg, m.keys.Attachments):
		return m, m.toggleAttachments()

	case key.Matches(msg, m.keys.New):
		if m.cache.SubtasksExpanded(m.todo.ID) {
			m.prompt = promptAddSubtask
			m.promptInput.Placeholder = "subtask text..."
			return m, m.promptInput.Focus()
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleComplete):
		if st, ok := m.selectedSubtask(); ok {
			return m, m.toggleSubtask(st)
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if st, ok := m.selectedSubtask(); ok {
			m.confirm = confirmSubtask
			m.confirmID = st.ID
			m.confirmName = st.Title
		}
		return m, nil
	}

	switch msg.String() {
	case "tab":
		if subtasks, ok := m.cache.Subtasks(m.todo.ID); ok && len(subtasks) > 0 {
			m.cursor = (m.cursor + 1) % len(subtasks)
			m.viewport.SetContent(m.renderContent())
		}
		return m, nil

	case "shift+tab":
		if attachments, ok := m.cache.Attachments(m.todo.ID); ok && len(attachments) > 0 {
			m.attachCursor = (m.attachCursor + 1) % len(attachments)
			m.viewport.SetContent(m.renderContent())
		}
		return m, nil

	case "D":
		if a, ok := m.selectedAttachment(); ok {
			m.confirm = confirmAttachment
			m.confirmID = a.ID
			m.confirmName = a.FileName
		}
		return m, nil

	case "u":
		if m.cache.AttachmentsExpanded(m.todo.ID) {
			m.prompt = promptUploadPath
			m.promptInput.Placeholder = "path of file to upload..."
			return m, m.promptInput.Focus()
		}
		return m, nil

	case "o":
		if m.cache.AttachmentsExpanded(m.todo.ID) {
			m.prompt = promptDownloadPath
			m.promptInput.Placeholder = "save attachment to..."
			return m, m.promptInput.Focus()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	if m.confirm != confirmNone {
		confirmBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(fmt.Sprintf("delete %q? y/n", m.confirmName))
		return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), confirmBar)
	}
	if m.prompt != promptNone {
		promptBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render("> " + m.promptInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), promptBar)
	}
	return m.viewport.View()
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	m.promptInput.Width = width - 8
}

// renderContent builds the full detail text for the viewport.
func (m Model) renderContent() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	b.WriteString(titleStyle.Render(m.todo.Title))
	b.WriteString("\n")

	if m.todo.IsCompleted {
		b.WriteString(theme.CompletedStyle.Render("completed"))
		b.WriteString("\n")
	}
	if dd := m.todo.DueDate; dd != nil {
		b.WriteString("due " + dd.Minute())
		b.WriteString("\n")
	}
	if m.todo.Description != "" {
		b.WriteString("\n" + m.todo.Description + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderSubtaskPanel())
	b.WriteString("\n")
	b.WriteString(m.renderAttachmentPanel())

	return b.String()
}

// renderSubtaskPanel renders the subtask section with a cursor marker
// and a completion summary.
func (m Model) renderSubtaskPanel() string {
	if !m.cache.SubtasksExpanded(m.todo.ID) {
		return theme.HelpStyle.Render("s subtasks")
	}

	subtasks, fetched := m.cache.Subtasks(m.todo.ID)
	if !fetched {
		return theme.PanelStyle.Render("loading subtasks...")
	}

	var lines []string
	header := "Subtasks"
	if p := nested.Summarize(true, subtasks); p != nil {
		header += theme.ProgressStyle.Render(
			fmt.Sprintf("  %d/%d (%d%%)", p.Completed, p.Total, p.Percentage),
		)
	}
	lines = append(lines, header)

	if len(subtasks) == 0 {
		lines = append(lines, theme.HelpStyle.Render("none yet, press n to add"))
	}
	for i, st := range subtasks {
		check := "○"
		if st.IsCompleted {
			check = "✓"
		}
		title := st.Title
		if st.IsCompleted {
			title = theme.CompletedStyle.Render(title)
		}
		line := fmt.Sprintf("%s %s", check, title)
		if i == m.cursor {
			line = theme.SelectedItemStyle.Render(line)
		}
		lines = append(lines, line)
	}

	return theme.PanelStyle.Render(strings.Join(lines, "\n"))
}

// renderAttachmentPanel renders the attachment section, including any
// in-flight upload progress.
func (m Model) renderAttachmentPanel() string {
	if !m.cache.AttachmentsExpanded(m.todo.ID) {
		return theme.HelpStyle.Render("a attachments")
	}

	attachments, fetched := m.cache.Attachments(m.todo.ID)
	if !fetched {
		return theme.PanelStyle.Render("loading attachments...")
	}

	lines := []string{"Attachments"}
	if len(attachments) == 0 {
		lines = append(lines, theme.HelpStyle.Render("none yet, press u to upload"))
	}
	for i, a := range attachments {
		line := fmt.Sprintf("%s (%s)", a.FileName, formatSize(a.FileSize))
		if i == m.attachCursor {
			line = theme.SelectedItemStyle.Render(line)
		}
		lines = append(lines, line)
	}

	if fraction, uploading := m.cache.Uploading(m.todo.ID); uploading {
		lines = append(lines, theme.ProgressStyle.Render(
			fmt.Sprintf("uploading... %d%%", int(fraction*100)),
		))
	}

	return theme.PanelStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) selectedSubtask() (model.Subtask, bool) {
	subtasks, ok := m.cache.Subtasks(m.todo.ID)
	if !ok || m.cursor >= len(subtasks) {
		return model.Subtask{}, false
	}
	return subtasks[m.cursor], true
}

func (m Model) selectedAttachment() (model.Attachment, bool) {
	attachments, ok := m.cache.Attachments(m.todo.ID)
	if !ok || m.attachCursor >= len(attachments) {
		return model.Attachment{}, false
	}
	return attachments[m.attachCursor], true
}

func (m *Model) clampCursor() {
	subtasks, _ := m.cache.Subtasks(m.todo.ID)
	if m.cursor >= len(subtasks) {
		m.cursor = 0
	}
	attachments, _ := m.cache.Attachments(m.todo.ID)
	if m.attachCursor >= len(attachments) {
		m.attachCursor = 0
	}
}

func (m Model) toggleSubtasks() tea.Cmd {
	cache, id := m.cache, m.todo.ID
	return func() tea.Msg {
		_, err := cache.ToggleSubtasks(context.Background(), id)
		return PanelsUpdatedMsg{TodoID: id, Err: err}
	}
}

func (m Model) toggleAttachments() tea.Cmd {
	cache, id := m.cache, m.todo.ID
	return func() tea.Msg {
		_, err := cache.ToggleAttachments(context.Background(), id)
		return PanelsUpdatedMsg{TodoID: id, Err: err}
	}
}

func (m Model) addSubtask(title string) tea.Cmd {
	cache, id := m.cache, m.todo.ID
	return func() tea.Msg {
		err := cache.AddSubtask(context.Background(), id, title)
		return PanelsUpdatedMsg{TodoID: id, Err: err}
	}
}

func (m Model) toggleSubtask(st model.Subtask) tea.Cmd {
	cache, id := m.cache, m.todo.ID
	return func() tea.Msg {
		err := cache.ToggleSubtask(context.Background(), st)
		return PanelsUpdatedMsg{TodoID: id, Err: err}
	}
}

func (m Model) deleteSubtask(subtaskID int) tea.Cmd {
	cache, id := m.cache, m.todo.ID
	return func() tea.Msg {
		err := cache.DeleteSubtask(context.Background(), id, subtaskID)
		return PanelsUpdatedMsg{TodoID: id, Err: err}
	}
}

func (m Model) upload(path string) tea.Cmd {
	cache, id := m.cache, m.todo.ID
	return func() tea.Msg {
		err := cache.UploadFile(context.Background(), id, path)
		return PanelsUpdatedMsg{TodoID: id, Err: err}
	}
}

func (m Model) deleteAttachment(attachmentID int) tea.Cmd {
	cache, id := m.cache, m.todo.ID
	return func() tea.Msg {
		err := cache.DeleteAttachment(context.Background(), id, attachmentID)
		return PanelsUpdatedMsg{TodoID: id, Err: err}
	}
}

func (m Model) download(destPath string) tea.Cmd {
	a, ok := m.selectedAttachment()
	if !ok {
		return func() tea.Msg {
			return PanelsUpdatedMsg{TodoID: m.todo.ID, Err: fmt.Errorf("no attachment to download")}
		}
	}
	cache, id := m.cache, m.todo.ID
	return func() tea.Msg {
		err := cache.Download(context.Background(), a.ID, destPath)
		return PanelsUpdatedMsg{TodoID: id, Err: err}
	}
}

// formatSize renders a byte count in a compact human-readable form.
func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
