package todo_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/minhvu/todopad/internal/model"
	"github.com/minhvu/todopad/internal/todo"
)

func TestReplaceMerge(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	existing := model.Todo{ID: 1, Title: "old", GoogleCalendarEventID: "evt-1"}
	incoming := model.Todo{ID: 1, Title: "new"}

	merged := todo.ReplaceMerge(existing, incoming)
	assert.Equal("new", merged.Title)

	// The server's representation wins outright, dropped fields included.
	assert.Empty(merged.GoogleCalendarEventID)
}

func TestShallowMerge(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	created := model.NewDateTime(time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC))
	due := model.NewDateTime(time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC))

	existing := model.Todo{
		ID:                    42,
		Title:                 "old title",
		Description:           "old description",
		CreatedAt:             created,
		GoogleCalendarEventID: "evt-1",
	}
	incoming := model.Todo{
		Title:       "new title",
		Description: "new description",
		IsCompleted: true,
		DueDate:     &due,
	}

	merged := todo.ShallowMerge(existing, incoming)

	// Form fields come from the incoming value.
	assert.Equal("new title", merged.Title)
	assert.Equal("new description", merged.Description)
	assert.True(merged.IsCompleted)
	assert.Equal(&due, merged.DueDate)

	// Fields the form never carries survive from the existing entry.
	assert.Equal(42, merged.ID)
	assert.Equal(created, merged.CreatedAt)
	assert.Equal("evt-1", merged.GoogleCalendarEventID)
}
