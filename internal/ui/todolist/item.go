package todolist

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/minhvu/todopad/internal/model"
	"github.com/minhvu/todopad/internal/nested"
	"github.com/minhvu/todopad/internal/theme"
)

// DueSoonThreshold defines how close a due date must be before the list
// highlights it. Defaults to 24 hours.
var DueSoonThreshold = 24 * time.Hour

// TodoItem wraps a model.Todo so it can be used in a bubbles/list.
// Progress is nil when no subtask summary is available.
type TodoItem struct {
	Todo     model.Todo
	Progress *nested.Progress
}

// FilterValue returns the string used for fuzzy filtering.
func (i TodoItem) FilterValue() string { return i.Todo.Title }

// Title returns the todo title for the list.
func (i TodoItem) Title() string { return i.Todo.Title }

// Description returns a short summary line for the list.
func (i TodoItem) Description() string { return i.Todo.Description }

// ItemDelegate implements list.ItemDelegate for rendering list items.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused for now).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single list item line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TodoItem)
	if !ok {
		return
	}

	var prefix string
	if ti.Todo.IsCompleted {
		prefix = "✓"
	} else {
		prefix = "○"
	}

	title := ti.Todo.Title
	if ti.Todo.IsCompleted {
		title = theme.CompletedStyle.Render(title)
	}

	progressStr := ""
	if p := ti.Progress; p != nil {
		progressStr = theme.ProgressStyle.Render(
			fmt.Sprintf(" [%d/%d %d%%]", p.Completed, p.Total, p.Percentage),
		)
	}

	dueStr := ""
	if dd := ti.Todo.DueDate; dd != nil {
		due := dd.Time
		overdue := due.Before(time.Now()) && !ti.Todo.IsCompleted
		dueSoon := !overdue && time.Until(due) < DueSoonThreshold
		dueStr = theme.DueDateStyle(overdue, dueSoon).
			Render(" " + due.Format("Jan 02 15:04"))
	}

	line := fmt.Sprintf("%s %s%s%s", prefix, title, progressStr, dueStr)

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}
