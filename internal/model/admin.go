package model

// AdminStats is the application-wide summary served to admin users.
type AdminStats struct {
	TotalUsers        int     `json:"totalUsers"`
	TotalTodos        int     `json:"totalTodos"`
	CompletedTodos    int     `json:"completedTodos"`
	PendingTodos      int     `json:"pendingTodos"`
	CompletionRate    float64 `json:"completionRate"`
	TotalSubtasks     int     `json:"totalSubtasks"`
	CompletedSubtasks int     `json:"completedSubtasks"`
}
