package taskform

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avolkov/calendar-assistant/internal/dates"
	"github.com/avolkov/calendar-assistant/internal/model"
)

func TestValidateDate(t *testing.T) {
	assert.Error(t, validateDate(""))
	assert.Error(t, validateDate("garbage"))
	assert.Error(t, validateDate("05.03.2024"))
	assert.NoError(t, validateDate("2024-03-05"))
	assert.NoError(t, validateDate("  2024-03-05  "))
}

func TestValidateOptionalTime(t *testing.T) {
	assert.NoError(t, validateOptionalTime(""))
	assert.NoError(t, validateOptionalTime("09:30"))
	assert.NoError(t, validateOptionalTime("09:30:15"))
	assert.Error(t, validateOptionalTime("25:00"))
	assert.Error(t, validateOptionalTime("soonish"))
}

func TestValidateRequired(t *testing.T) {
	v := validateRequired("Title")
	assert.Error(t, v("   "))
	assert.NoError(t, v("buy milk"))
}

func TestStartCreatePrefillsDay(t *testing.T) {
	m := New(80, 24)
	m.StartCreate(dates.Key("2024-03-05"))

	assert.Equal(t, "2024-03-05", m.fb.date)
	assert.Equal(t, model.PriorityLow, m.fb.priority)
	assert.False(t, m.Editing())
}

func TestStartEditLoadsSnapshot(t *testing.T) {
	m := New(80, 24)
	task := model.Task{
		ID:       9,
		Title:    "dentist",
		Priority: model.PriorityHigh,
		Day:      dates.Key("2024-03-05"),
		DueTime:  dates.Clock(9, 30, 0),
		Done:     true,
	}
	m.StartEdit(task)

	assert.True(t, m.Editing())
	assert.Equal(t, "dentist", m.fb.title)
	assert.Equal(t, "2024-03-05", m.fb.date)
	assert.Equal(t, "09:30", m.fb.dueTime)
	assert.True(t, m.fb.done)
}

func TestHandleSubmitNormalizesFields(t *testing.T) {
	m := New(80, 24)
	m.StartCreate(dates.Key("2024-03-05"))
	m.fb.title = "  buy milk  "
	m.fb.dueTime = "09:30"

	msg := m.handleSubmit()().(SubmitMsg)

	assert.False(t, msg.Edit)
	assert.Equal(t, "buy milk", msg.Fields.Title)
	assert.Equal(t, dates.Key("2024-03-05"), msg.Fields.Day)
	assert.Equal(t, "09:30:00", msg.Fields.DueTime.Wire())
}
