package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/minhvu/todopad/internal/model"
)

func TestUnmarshalAcceptedLayouts(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	for _, raw := range []string{
		`"2026-03-14T09:30:00.123456789"`,
		`"2026-03-14T09:30:00"`,
		`"2026-03-14T09:30"`,
	} {
		var d model.DateTime
		assert.Nil(json.Unmarshal([]byte(raw), &d), raw)
		assert.Equal(2026, d.Year(), raw)
		assert.Equal(9, d.Hour(), raw)
		assert.Equal(30, d.Time.Minute(), raw)
	}
}

func TestUnmarshalNull(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	var d model.DateTime
	assert.Nil(json.Unmarshal([]byte("null"), &d))
	assert.True(d.IsZero())
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	var d model.DateTime
	assert.NotNil(json.Unmarshal([]byte(`"next tuesday"`), &d))
}

func TestMarshalWireLayout(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	d := model.NewDateTime(time.Date(2026, 3, 14, 9, 30, 45, 999, time.UTC))
	out, err := json.Marshal(d)
	assert.Nil(err)
	assert.Equal(`"2026-03-14T09:30:45"`, string(out))
}

func TestMarshalZeroIsNull(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	out, err := json.Marshal(model.DateTime{})
	assert.Nil(err)
	assert.Equal("null", string(out))
}

func TestMinuteTruncation(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	d := model.NewDateTime(time.Date(2026, 3, 14, 9, 30, 59, 0, time.UTC))
	assert.Equal("2026-03-14T09:30", d.Minute())
	assert.Equal("", model.DateTime{}.Minute())
}
