package model

import (
	"time"

	"github.com/avolkov/calendar-assistant/internal/dates"
)

// Priority levels. Lower number = higher priority. Anything outside
// this range is displayed as low.
const (
	PriorityHigh   = 1
	PriorityMedium = 2
	PriorityLow    = 3
)

// Task is a single calendar entry owned by the remote service and
// cached client-side for one fetch cycle. All date and time fields are
// canonical: the repository normalizes them at the wire boundary.
type Task struct {
	// ID is the server-assigned identifier; zero for tasks that have
	// not been created yet.
	ID int64

	// Title is the required short summary.
	Title string

	// Description is optional free text.
	Description string

	// Done is the completion flag.
	Done bool

	// Priority is one of the Priority* constants (see DisplayPriority).
	Priority int

	// Day is the canonical calendar-day key derived from task_date.
	Day dates.Key

	// Scheduled is the effective timestamp of the task within its day
	// (task_date including any time component), used for intra-day
	// ordering. Zero when the date carried no usable instant.
	Scheduled time.Time

	// DueTime is the optional time-of-day after which the task is no
	// longer actionable. It carries no date.
	DueTime dates.TimeValue

	// CreatedAt is the server-assigned creation timestamp, used only
	// as a secondary sort key.
	CreatedAt time.Time

	// UserID is the owner; zero when the server did not report one.
	UserID int64
}

// DisplayPriority clamps the priority into the {high, medium, low}
// range for rendering; missing or out-of-range values count as low.
func (t Task) DisplayPriority() int {
	if t.Priority == PriorityHigh || t.Priority == PriorityMedium {
		return t.Priority
	}
	return PriorityLow
}

// PriorityLabel returns the human-readable priority name.
func PriorityLabel(priority int) string {
	switch priority {
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	default:
		return "Low"
	}
}
