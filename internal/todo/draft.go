package todo

import (
	"strings"
	"time"

	"github.com/minhvu/todopad/internal/model"
)

// draftLayouts are the due-date inputs the edit buffer accepts.
var draftLayouts = []string{
	model.DateTimeMinute,
	"2006-01-02 15:04",
	"2006-01-02",
}

// Draft is the edit buffer: the form-editable fields of a todo. Due
// timestamps are held at minute precision for editable display.
type Draft struct {
	Title       string
	Description string
	IsCompleted bool
	DueDate     string
}

// draftFrom populates a Draft from an existing item, truncating the due
// timestamp to minute precision.
func draftFrom(t model.Todo) Draft {
	d := Draft{
		Title:       t.Title,
		Description: t.Description,
		IsCompleted: t.IsCompleted,
	}
	if t.DueDate != nil {
		d.DueDate = t.DueDate.Minute()
	}
	return d
}

// todo converts the draft into a candidate item. The identifier,
// creation timestamp, and calendar reference are not form fields and are
// left unset.
func (d Draft) todo() (model.Todo, error) {
	t := model.Todo{
		Title:       d.Title,
		Description: d.Description,
		IsCompleted: d.IsCompleted,
	}

	due := strings.TrimSpace(d.DueDate)
	if due == "" {
		return t, nil
	}

	for _, layout := range draftLayouts {
		parsed, err := time.Parse(layout, due)
		if err == nil {
			dt := model.NewDateTime(parsed)
			t.DueDate = &dt
			return t, nil
		}
	}

	return model.Todo{}, validationErr("due date must look like 2006-01-02T15:04")
}
