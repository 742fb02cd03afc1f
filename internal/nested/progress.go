package nested

import (
	"math"

	"github.com/minhvu/todopad/internal/model"
)

// Progress is the completion summary of a todo's subtasks.
type Progress struct {
	Completed  int
	Total      int
	Percentage int
}

// Summarize derives a Progress from a subtask list. It returns nil when
// the caller is unauthenticated or the list is empty, which renderers
// treat as "show no progress bar". Percentages round half up, so one of
// three done reads 33 and two of three reads 67.
func Summarize(authenticated bool, subtasks []model.Subtask) *Progress {
	if !authenticated || len(subtasks) == 0 {
		return nil
	}

	completed := 0
	for _, s := range subtasks {
		if s.IsCompleted {
			completed++
		}
	}

	fraction := float64(completed) / float64(len(subtasks))
	return &Progress{
		Completed:  completed,
		Total:      len(subtasks),
		Percentage: int(math.Floor(fraction*100 + 0.5)),
	}
}
