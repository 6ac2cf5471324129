package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for the application title bar.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// CellStyle is the base style for a calendar day cell.
var CellStyle = lipgloss.NewStyle().
	Border(lipgloss.NormalBorder()).
	BorderForeground(ColorBorder).
	Padding(0, 1)

// TodayCellStyle highlights the current day.
var TodayCellStyle = CellStyle.
	BorderForeground(ColorGreen).
	Bold(true)

// SelectedCellStyle highlights the selected day.
var SelectedCellStyle = CellStyle.
	BorderForeground(ColorBlue).
	Bold(true)

// WeekdayStyle renders the Sunday-first weekday header row.
var WeekdayStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorGray).
	Align(lipgloss.Center)

// PanelStyle wraps popup and form content.
var PanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle is the base style for task rows in the day popup.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the focused task row.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// ErrorStyle renders failure messages.
var ErrorStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed)

// PriorityStyle returns a color-coded style for the given priority
// after display clamping (1=high, 2=medium, anything else low).
func PriorityStyle(priority int) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch priority {
	case 1:
		return base.Foreground(ColorRed)
	case 2:
		return base.Foreground(ColorYellow)
	default:
		return base.Foreground(ColorBlue)
	}
}

// DoneStyle returns the style for a task's completion marker.
func DoneStyle(done bool) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	if done {
		return base.Foreground(ColorGreen)
	}
	return base.Foreground(ColorGray)
}
