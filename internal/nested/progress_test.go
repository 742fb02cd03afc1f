package nested_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/minhvu/todopad/internal/model"
	"github.com/minhvu/todopad/internal/nested"
)

func subtasks(completed, total int) []model.Subtask {
	out := make([]model.Subtask, total)
	for i := range out {
		out[i] = model.Subtask{ID: i + 1, IsCompleted: i < completed}
	}
	return out
}

func TestSummarizeGuestGetsNothing(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	assert.Nil(nested.Summarize(false, subtasks(2, 4)))
}

func TestSummarizeEmptyListGetsNothing(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	assert.Nil(nested.Summarize(true, nil))
	assert.Nil(nested.Summarize(true, []model.Subtask{}))
}

func TestSummarizeCounts(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	p := nested.Summarize(true, subtasks(2, 4))
	assert.NotNil(p)
	assert.Equal(2, p.Completed)
	assert.Equal(4, p.Total)
	assert.Equal(50, p.Percentage)
}

func TestSummarizeRoundsHalfUp(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	cases := []struct {
		completed, total, want int
	}{
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13}, // 12.5 rounds up
		{0, 5, 0},
		{5, 5, 100},
	}
	for _, tc := range cases {
		p := nested.Summarize(true, subtasks(tc.completed, tc.total))
		assert.Equal(tc.want, p.Percentage, "%d of %d", tc.completed, tc.total)
	}
}
