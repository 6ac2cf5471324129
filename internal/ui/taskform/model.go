// Package taskform is the create/edit form for calendar tasks.
package taskform

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/avolkov/calendar-assistant/internal/dates"
	"github.com/avolkov/calendar-assistant/internal/model"
	"github.com/avolkov/calendar-assistant/internal/tasks"
	"github.com/avolkov/calendar-assistant/internal/theme"
)

// SubmitMsg is dispatched when the form is submitted. Edit tells the
// parent whether to update ID or create a new task.
type SubmitMsg struct {
	Edit   bool
	ID     int64
	Fields tasks.Fields
}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's
// Value() pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title       string
	description string
	date        string
	dueTime     string
	priority    int
	done        bool
}

// Model is the Bubble Tea model for the task create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	editMode bool
	editID   int64
	errText  string
	width    int
	height   int
}

// New creates an empty task form.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{priority: model.PriorityLow},
		width:  width,
		height: height,
	}
}

// StartCreate initializes the form for a new task on the given day.
func (m *Model) StartCreate(day dates.Key) tea.Cmd {
	m.editMode = false
	m.editID = 0
	m.errText = ""
	m.fb.title = ""
	m.fb.description = ""
	m.fb.priority = model.PriorityLow
	m.fb.dueTime = ""
	m.fb.done = false
	if day.IsDay() {
		m.fb.date = string(day)
	} else {
		m.fb.date = ""
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form with an existing task's values.
func (m *Model) StartEdit(task model.Task) tea.Cmd {
	m.editMode = true
	m.editID = task.ID
	m.errText = ""
	m.fb.title = task.Title
	m.fb.description = task.Description
	m.fb.priority = task.DisplayPriority()
	m.fb.done = task.Done
	if task.Day.IsDay() {
		m.fb.date = string(task.Day)
	} else {
		m.fb.date = ""
	}
	if task.DueTime.IsMissing() {
		m.fb.dueTime = ""
	} else {
		m.fb.dueTime = task.DueTime.Display()
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// FailWithError rebuilds the form from the current bindings so a
// rejected save keeps the user's edits, and shows the server error.
func (m *Model) FailWithError(err error) tea.Cmd {
	m.errText = err.Error()
	m.form = m.buildForm()
	return m.form.Init()
}

// Editing reports whether the form currently targets an existing task.
func (m Model) Editing() bool {
	return m.editMode
}

// Update handles messages for the task form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the task form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Task"
	if m.editMode {
		titleText = "Edit Task"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		MarginBottom(1)

	content := titleStyle.Render(titleText)
	if m.errText != "" {
		content += "\n" + theme.ErrorStyle.Render(m.errText)
	}
	content += "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Title").
			Placeholder("What needs to be done?").
			Value(&m.fb.title).
			Validate(validateRequired("Title")),
		huh.NewText().
			Title("Description").
			Placeholder("Optional details...").
			Value(&m.fb.description),
		huh.NewInput().
			Title("Date").
			Placeholder("YYYY-MM-DD").
			Value(&m.fb.date).
			Validate(validateDate),
		huh.NewInput().
			Title("Due Time").
			Placeholder("HH:MM (optional)").
			Value(&m.fb.dueTime).
			Validate(validateOptionalTime),
		huh.NewSelect[int]().
			Title("Priority").
			Options(
				huh.NewOption("High", model.PriorityHigh),
				huh.NewOption("Medium", model.PriorityMedium),
				huh.NewOption("Low", model.PriorityLow),
			).
			Value(&m.fb.priority),
	}

	if m.editMode {
		fields = append(fields,
			huh.NewConfirm().
				Title("Done").
				Affirmative("Yes").
				Negative("No").
				Value(&m.fb.done),
		)
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	fields := tasks.Fields{
		Title:       strings.TrimSpace(m.fb.title),
		Description: m.fb.description,
		Done:        m.fb.done,
		Priority:    m.fb.priority,
		Day:         dates.Normalize(strings.TrimSpace(m.fb.date)),
		DueTime:     dates.ParseClock(strings.TrimSpace(m.fb.dueTime)),
	}

	edit := m.editMode
	id := m.editID
	return func() tea.Msg {
		return SubmitMsg{Edit: edit, ID: id, Fields: fields}
	}
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("date is required")
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}

func validateOptionalTime(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	tv := dates.ParseClock(s)
	if tv.IsMissing() {
		return nil
	}
	if _, _, _, ok := tv.ClockParts(); !ok {
		return fmt.Errorf("invalid time, use HH:MM")
	}
	return nil
}
