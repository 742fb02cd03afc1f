package app

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/minhvu/todopad/internal/model"
)

// adminStatsMsg carries the application-wide usage summary.
type adminStatsMsg struct {
	stats model.AdminStats
	err   error
}

// fetchAdminStats queries the admin stats endpoint. The key binding is
// gated on the session's admin role; the server enforces it too.
func (m *Model) fetchAdminStats() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		stats, err := client.AdminStats(context.Background())
		return adminStatsMsg{stats: stats, err: err}
	}
}

// describeAdminStats renders the summary for the status bar.
func describeAdminStats(s model.AdminStats) string {
	return fmt.Sprintf(
		"%d users | %d todos (%d done, %d pending, %.0f%%) | %d/%d subtasks done",
		s.TotalUsers, s.TotalTodos, s.CompletedTodos, s.PendingTodos,
		s.CompletionRate, s.CompletedSubtasks, s.TotalSubtasks,
	)
}
