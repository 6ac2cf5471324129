// Package monthview renders the month-grid calendar with per-day
// priority badges and handles day/month/year navigation.
package monthview

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/avolkov/calendar-assistant/internal/calendar"
	"github.com/avolkov/calendar-assistant/internal/dates"
	"github.com/avolkov/calendar-assistant/internal/keys"
	"github.com/avolkov/calendar-assistant/internal/theme"
)

// weekdayNames is the Sunday-first weekday header row.
var weekdayNames = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// MonthChangedMsg signals the parent that the displayed range changed
// and the month's tasks must be refetched.
type MonthChangedMsg struct{}

// DayOpenedMsg signals the parent to open the day popup for a day.
type DayOpenedMsg struct {
	Day dates.Key
}

// Model is the month grid component.
type Model struct {
	cursor  calendar.Cursor
	buckets calendar.Buckets
	keys    *keys.KeyMap
	width   int
	height  int
	loading bool

	// now is injectable for deterministic rendering in tests.
	now func() time.Time
}

// New creates a month view showing the current month.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{
		cursor: calendar.NewCursor(time.Now()),
		keys:   k,
		width:  width,
		height: height,
		now:    time.Now,
	}
}

// Init returns the initial command for the month view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Cursor returns the current month/selection cursor.
func (m Model) Cursor() calendar.Cursor {
	return m.cursor
}

// SetBuckets replaces the displayed bucket mapping wholesale.
func (m *Model) SetBuckets(b calendar.Buckets) {
	m.buckets = b
	m.loading = false
}

// SetLoading marks the view as waiting for a fetch. The grid stays
// interactive; only the header shows the pending state.
func (m *Model) SetLoading(v bool) {
	m.loading = v
}

// SetSize updates the component dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetNow overrides the clock used for the today marker (tests).
func (m *Model) SetNow(now func() time.Time) {
	m.now = now
}

// Update handles navigation keys. Month and year movement emit
// MonthChangedMsg so the parent refetches; day movement is local.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Left):
		return m.moveSelection(-1)
	case key.Matches(keyMsg, m.keys.Right):
		return m.moveSelection(1)
	case key.Matches(keyMsg, m.keys.Up):
		return m.moveSelection(-7)
	case key.Matches(keyMsg, m.keys.Down):
		return m.moveSelection(7)

	case key.Matches(keyMsg, m.keys.PrevMonth):
		m.cursor.ShiftMonth(-1)
		return m, monthChanged
	case key.Matches(keyMsg, m.keys.NextMonth):
		m.cursor.ShiftMonth(1)
		return m, monthChanged
	case key.Matches(keyMsg, m.keys.PrevYear):
		m.cursor.SetYear(m.cursor.Year - 1)
		return m, monthChanged
	case key.Matches(keyMsg, m.keys.NextYear):
		m.cursor.SetYear(m.cursor.Year + 1)
		return m, monthChanged

	case key.Matches(keyMsg, m.keys.Today):
		m.cursor = calendar.NewCursor(m.now())
		return m, monthChanged

	case key.Matches(keyMsg, m.keys.Select):
		day := m.selectedOrFirst()
		m.cursor.SelectKey(day)
		return m, func() tea.Msg { return DayOpenedMsg{Day: day} }
	}

	return m, nil
}

func monthChanged() tea.Msg {
	return MonthChangedMsg{}
}

// moveSelection shifts the selected day by delta days. Crossing a
// month boundary moves the display along and triggers a refetch.
func (m Model) moveSelection(delta int) (Model, tea.Cmd) {
	year, month := m.cursor.Year, m.cursor.Month
	current := m.selectedOrFirst()
	next := dates.DayKey(current.Time().AddDate(0, 0, delta))
	m.cursor.SelectKey(next)

	if m.cursor.Year != year || m.cursor.Month != month {
		return m, monthChanged
	}
	return m, nil
}

// selectedOrFirst returns the selected day when it falls inside the
// displayed month, or the month's first day otherwise.
func (m Model) selectedOrFirst() dates.Key {
	if m.cursor.Selected.IsDay() {
		t := m.cursor.Selected.Time()
		if t.Year() == m.cursor.Year && t.Month() == m.cursor.Month {
			return m.cursor.Selected
		}
	}
	return dates.NewKey(m.cursor.Year, m.cursor.Month, 1)
}

// View renders the month header, weekday row, and the cell grid.
func (m Model) View() string {
	var b strings.Builder

	title := fmt.Sprintf("%s %d", m.cursor.Month.String(), m.cursor.Year)
	if m.loading {
		title += " (loading…)"
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(title))
	b.WriteString("\n")

	cellWidth := m.cellWidth()
	for _, name := range weekdayNames {
		b.WriteString(theme.WeekdayStyle.Width(cellWidth).Render(name))
	}
	b.WriteString("\n")

	cells := calendar.BuildMonth(m.cursor.Year, m.cursor.Month, m.buckets, calendar.BuildOptions{
		Today:    dates.DayKey(m.now()),
		Selected: m.cursor.Selected,
	})

	for row := 0; row < len(cells); row += 7 {
		end := row + 7
		if end > len(cells) {
			end = len(cells)
		}
		rendered := make([]string, 0, 7)
		for _, cell := range cells[row:end] {
			rendered = append(rendered, m.renderCell(cell, cellWidth))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
		b.WriteString("\n")
	}

	return b.String()
}

// renderCell draws one grid cell: the day number and zero-suppressed
// priority badges.
func (m Model) renderCell(cell calendar.Cell, width int) string {
	if cell.Blank() {
		return lipgloss.NewStyle().Width(width).Render(" ")
	}

	style := theme.CellStyle
	switch {
	case cell.IsSelected:
		style = theme.SelectedCellStyle
	case cell.IsToday:
		style = theme.TodayCellStyle
	}

	line := fmt.Sprintf("%2d", cell.Day)
	badges := renderBadges(cell.Counts)
	if badges != "" {
		line += " " + badges
	}

	// The border adds two columns; keep every cell the same width.
	return style.Width(width - 2).Render(line)
}

// renderBadges shows per-priority dot counts; empty buckets render
// nothing.
func renderBadges(c calendar.Counts) string {
	var parts []string
	if c.High > 0 {
		parts = append(parts, theme.PriorityStyle(1).Render(fmt.Sprintf("●%d", c.High)))
	}
	if c.Medium > 0 {
		parts = append(parts, theme.PriorityStyle(2).Render(fmt.Sprintf("●%d", c.Medium)))
	}
	if c.Low > 0 {
		parts = append(parts, theme.PriorityStyle(3).Render(fmt.Sprintf("●%d", c.Low)))
	}
	return strings.Join(parts, " ")
}

// cellWidth divides the available width across the seven columns.
func (m Model) cellWidth() int {
	w := m.width / 7
	if w < 8 {
		w = 8
	}
	return w
}
