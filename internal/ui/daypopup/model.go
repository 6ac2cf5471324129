// Package daypopup shows the tasks of a single day: a priority-ordered
// list, a read-only task detail, and a delete confirmation step.
package daypopup

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/avolkov/calendar-assistant/internal/calendar"
	"github.com/avolkov/calendar-assistant/internal/dates"
	"github.com/avolkov/calendar-assistant/internal/keys"
	"github.com/avolkov/calendar-assistant/internal/model"
	"github.com/avolkov/calendar-assistant/internal/theme"
)

// Phase identifies the popup's interaction state.
type Phase int

const (
	// Viewing lists the day's tasks.
	Viewing Phase = iota
	// TaskOpen shows one task's full detail.
	TaskOpen
	// ConfirmDelete awaits a yes/no answer before deletion.
	ConfirmDelete
)

// CloseMsg signals the parent to dismiss the popup.
type CloseMsg struct{}

// AddTaskMsg signals the parent to open the create form for a day.
type AddTaskMsg struct {
	Day dates.Key
}

// EditTaskMsg signals the parent to open the edit form for a task.
type EditTaskMsg struct {
	Task model.Task
}

// DeleteTaskMsg signals the parent to delete a task after the user
// confirmed.
type DeleteTaskMsg struct {
	ID int64
}

// Model is the day popup component.
type Model struct {
	day      dates.Key
	tasks    []model.Task
	phase    Phase
	selected int
	viewport viewport.Model
	keys     *keys.KeyMap
	width    int
	height   int
}

// New creates a popup for the given day's tasks. Tasks are re-sorted
// by priority then scheduled time regardless of input order.
func New(day dates.Key, tasks []model.Task, k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		day:      day,
		tasks:    calendar.ByPriority(tasks),
		keys:     k,
		viewport: vp,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the popup.
func (m Model) Init() tea.Cmd {
	return nil
}

// Day returns the day this popup shows.
func (m Model) Day() dates.Key {
	return m.day
}

// Phase returns the current interaction phase.
func (m Model) Phase() Phase {
	return m.phase
}

// Tasks returns the currently displayed tasks.
func (m Model) Tasks() []model.Task {
	return m.tasks
}

// SetTasks replaces the displayed tasks after an external refresh.
func (m *Model) SetTasks(tasks []model.Task) {
	m.tasks = calendar.ByPriority(tasks)
	if m.selected >= len(m.tasks) {
		m.selected = len(m.tasks) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	if m.phase == TaskOpen {
		m.viewport.SetContent(m.renderDetail())
	}
}

// SetSize updates the popup dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
}

// Update handles messages for the popup.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.phase == TaskOpen {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch m.phase {
	case ConfirmDelete:
		return m.updateConfirm(keyMsg)
	case TaskOpen:
		return m.updateDetail(keyMsg)
	default:
		return m.updateList(keyMsg)
	}
}

func (m Model) updateList(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, closePopup

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.tasks)-1 {
			m.selected++
		}

	case key.Matches(msg, m.keys.NewTask):
		day := m.day
		return m, func() tea.Msg { return AddTaskMsg{Day: day} }

	case key.Matches(msg, m.keys.Edit):
		if task, ok := m.current(); ok {
			return m, func() tea.Msg { return EditTaskMsg{Task: task} }
		}

	case key.Matches(msg, m.keys.Delete):
		if _, ok := m.current(); ok {
			m.phase = ConfirmDelete
		}

	case key.Matches(msg, m.keys.Select):
		if _, ok := m.current(); ok {
			m.phase = TaskOpen
			m.viewport.SetContent(m.renderDetail())
			m.viewport.GotoTop()
		}
	}

	return m, nil
}

func (m Model) updateDetail(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.phase = Viewing
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		if task, ok := m.current(); ok {
			return m, func() tea.Msg { return EditTaskMsg{Task: task} }
		}

	case key.Matches(msg, m.keys.Delete):
		if _, ok := m.current(); ok {
			m.phase = ConfirmDelete
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// updateConfirm handles the delete confirmation. Any answer other
// than "y" aborts without touching the task.
func (m Model) updateConfirm(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		task, ok := m.current()
		m.phase = Viewing
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg { return DeleteTaskMsg{ID: task.ID} }
	default:
		m.phase = Viewing
		return m, nil
	}
}

func closePopup() tea.Msg {
	return CloseMsg{}
}

func (m Model) current() (model.Task, bool) {
	if m.selected < 0 || m.selected >= len(m.tasks) {
		return model.Task{}, false
	}
	return m.tasks[m.selected], true
}

// View renders the popup for its current phase.
func (m Model) View() string {
	switch m.phase {
	case ConfirmDelete:
		return m.renderConfirm()
	case TaskOpen:
		return m.viewport.View()
	default:
		return m.renderList()
	}
}

func (m Model) renderList() string {
	var sections []string

	title := string(m.day)
	if t := m.day.Time(); !t.IsZero() {
		title = t.Format("Monday, January 2, 2006")
	}
	sections = append(sections, lipgloss.NewStyle().Bold(true).Render(title))
	sections = append(sections, "")

	if len(m.tasks) == 0 {
		sections = append(sections, theme.HelpStyle.Render("No tasks for this day"))
	}

	for i, task := range m.tasks {
		line := m.renderItem(task)
		if i == m.selected {
			line = theme.SelectedItemStyle.Render(line)
		} else {
			line = theme.ListItemStyle.Render(line)
		}
		sections = append(sections, line)
	}

	sections = append(sections, "")
	sections = append(sections, theme.HelpStyle.Render(
		"enter open • n new • e edit • d delete • esc close",
	))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderItem(task model.Task) string {
	parts := []string{
		theme.PriorityStyle(task.DisplayPriority()).Render(model.PriorityLabel(task.DisplayPriority())),
	}
	if !task.DueTime.IsMissing() {
		parts = append(parts, theme.HelpStyle.Render(task.DueTime.Display()))
	}
	parts = append(parts, theme.DoneStyle(task.Done).Render(task.Title))

	return strings.Join(parts, " ")
}

func (m Model) renderConfirm() string {
	task, ok := m.current()
	if !ok {
		return ""
	}

	prompt := fmt.Sprintf("Delete %q? (y/n)", task.Title)
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderList(),
		"",
		theme.ErrorStyle.Render(prompt),
	)
}

// renderDetail builds the full detail content for the viewport.
func (m Model) renderDetail() string {
	task, ok := m.current()
	if !ok {
		return ""
	}

	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true)
	sections = append(sections, titleStyle.Render(task.Title))

	priBadge := theme.PriorityStyle(task.DisplayPriority()).Render(model.PriorityLabel(task.DisplayPriority()))
	status := "open"
	if task.Done {
		status = "done"
	}
	statusBadge := theme.DoneStyle(task.Done).Render(status)
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, priBadge, "  ", statusBadge))
	sections = append(sections, "")

	metaStyle := theme.HelpStyle
	if m.day.IsDay() {
		sections = append(sections, fmt.Sprintf("%s  %s",
			metaStyle.Render("Date:"), string(m.day)))
	}
	if !task.DueTime.IsMissing() {
		sections = append(sections, fmt.Sprintf("%s  %s",
			metaStyle.Render("Due:"), task.DueTime.Display()))
	}
	if !task.CreatedAt.IsZero() {
		sections = append(sections, fmt.Sprintf("%s  %s",
			metaStyle.Render("Created:"), task.CreatedAt.Format("2006-01-02 15:04")))
	}

	sections = append(sections, "")
	sections = append(sections, strings.Repeat("─", min(m.width-4, 60)))
	sections = append(sections, "")

	body := task.Description
	if body == "" {
		body = theme.HelpStyle.Italic(true).Render("No description")
	}
	sections = append(sections, body)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
