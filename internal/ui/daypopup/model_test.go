package daypopup

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/calendar-assistant/internal/dates"
	"github.com/avolkov/calendar-assistant/internal/keys"
	"github.com/avolkov/calendar-assistant/internal/model"
)

func newPopup(t *testing.T, tasks []model.Task) Model {
	t.Helper()
	return New(dates.Key("2024-03-05"), tasks, keys.DefaultKeyMap(), 80, 24)
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func sampleTasks() []model.Task {
	return []model.Task{
		{ID: 1, Title: "low", Priority: model.PriorityLow},
		{ID: 2, Title: "high", Priority: model.PriorityHigh},
		{ID: 3, Title: "medium", Priority: model.PriorityMedium},
	}
}

func TestTasksOrderedByPriority(t *testing.T) {
	m := newPopup(t, sampleTasks())

	got := m.Tasks()
	require.Len(t, got, 3)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)
	assert.Equal(t, int64(1), got[2].ID)
}

func TestEscapeCloses(t *testing.T) {
	m := newPopup(t, sampleTasks())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, CloseMsg{}, cmd())
}

func TestEnterOpensDetailAndEscapeReturnsToList(t *testing.T) {
	m := newPopup(t, sampleTasks())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, TaskOpen, m.Phase())

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, Viewing, m.Phase())
	assert.Nil(t, cmd)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	m := newPopup(t, sampleTasks())

	m, cmd := m.Update(keyRune('d'))
	require.Nil(t, cmd)
	assert.Equal(t, ConfirmDelete, m.Phase())

	// Anything but "y" aborts and nothing is deleted.
	m, cmd = m.Update(keyRune('n'))
	assert.Equal(t, Viewing, m.Phase())
	assert.Nil(t, cmd)
}

func TestDeleteConfirmedEmitsSelectedID(t *testing.T) {
	m := newPopup(t, sampleTasks())

	// Move to the second entry (medium, ID 3).
	m, _ = m.Update(keyRune('j'))
	m, _ = m.Update(keyRune('d'))
	require.Equal(t, ConfirmDelete, m.Phase())

	m, cmd := m.Update(keyRune('y'))
	require.NotNil(t, cmd)
	msg, ok := cmd().(DeleteTaskMsg)
	require.True(t, ok)
	assert.Equal(t, int64(3), msg.ID)
	assert.Equal(t, Viewing, m.Phase())
}

func TestNewTaskCarriesDay(t *testing.T) {
	m := newPopup(t, nil)

	_, cmd := m.Update(keyRune('n'))
	require.NotNil(t, cmd)
	msg, ok := cmd().(AddTaskMsg)
	require.True(t, ok)
	assert.Equal(t, dates.Key("2024-03-05"), msg.Day)
}

func TestEditEmitsSelectedTask(t *testing.T) {
	m := newPopup(t, sampleTasks())

	_, cmd := m.Update(keyRune('e'))
	require.NotNil(t, cmd)
	msg, ok := cmd().(EditTaskMsg)
	require.True(t, ok)
	assert.Equal(t, int64(2), msg.Task.ID)
}

func TestEditAndDeleteNoopOnEmptyDay(t *testing.T) {
	m := newPopup(t, nil)

	m, cmd := m.Update(keyRune('e'))
	assert.Nil(t, cmd)

	m, cmd = m.Update(keyRune('d'))
	assert.Nil(t, cmd)
	assert.Equal(t, Viewing, m.Phase())
}

func TestListViewShowsDayAndPriorityLabels(t *testing.T) {
	m := newPopup(t, sampleTasks())

	out := m.View()
	assert.Contains(t, out, "March 5, 2024")
	assert.Contains(t, out, "High")
	assert.Contains(t, out, "Medium")
	assert.Contains(t, out, "high")
}

func TestDetailViewShowsDateAndPriority(t *testing.T) {
	m := newPopup(t, sampleTasks())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, TaskOpen, m.Phase())

	out := m.View()
	assert.Contains(t, out, "2024-03-05")
	assert.Contains(t, out, "High")
	assert.Contains(t, out, "No description")
}

func TestSetTasksClampsSelection(t *testing.T) {
	m := newPopup(t, sampleTasks())
	m, _ = m.Update(keyRune('j'))
	m, _ = m.Update(keyRune('j'))

	m.SetTasks(sampleTasks()[:1])

	_, cmd := m.Update(keyRune('e'))
	require.NotNil(t, cmd)
	msg := cmd().(EditTaskMsg)
	assert.Equal(t, int64(1), msg.Task.ID)
}
