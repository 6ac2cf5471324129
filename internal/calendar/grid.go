package calendar

import (
	"time"

	"github.com/avolkov/calendar-assistant/internal/dates"
)

// Cell is one slot of the month grid. Leading placeholder cells have
// Day == 0; real cells carry the day number and badge counts. The grid
// is not padded with trailing cells.
type Cell struct {
	Day        int
	Key        dates.Key
	IsToday    bool
	IsSelected bool
	Total      int
	Counts     Counts
}

// Blank reports whether the cell is a leading placeholder.
func (c Cell) Blank() bool {
	return c.Day == 0
}

// BuildOptions carries the grid markers. Today is injectable so grid
// construction stays deterministic under test.
type BuildOptions struct {
	Today    dates.Key
	Selected dates.Key
}

// BuildMonth produces the renderable grid for one month: leading blanks
// for a Sunday-first week followed by one cell per day. Badge counts
// come from the bucket mapping; days absent from it render zero tasks.
func BuildMonth(year int, month time.Month, buckets Buckets, opts BuildOptions) []Cell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	leading := int(first.Weekday()) // Sunday == 0
	numDays := daysIn(year, month)

	cells := make([]Cell, 0, leading+numDays)
	for i := 0; i < leading; i++ {
		cells = append(cells, Cell{})
	}

	for day := 1; day <= numDays; day++ {
		key := dates.NewKey(year, month, day)
		dayTasks := buckets.Day(key)
		counts := PriorityCounts(dayTasks)
		cells = append(cells, Cell{
			Day:        day,
			Key:        key,
			IsToday:    key == opts.Today,
			IsSelected: key == opts.Selected,
			Total:      len(dayTasks),
			Counts:     counts,
		})
	}

	return cells
}

// daysIn returns the number of days in the month.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.Local).Day()
}

// Cursor tracks which month is displayed and which day is selected.
// Month and year navigation move only the displayed month; selecting a
// day moves both.
type Cursor struct {
	Year     int
	Month    time.Month
	Selected dates.Key
}

// NewCursor returns a cursor showing now's month with today selected.
func NewCursor(now time.Time) Cursor {
	return Cursor{
		Year:     now.Year(),
		Month:    now.Month(),
		Selected: dates.DayKey(now),
	}
}

// ShiftMonth moves the displayed month by delta months, carrying years.
func (c *Cursor) ShiftMonth(delta int) {
	t := time.Date(c.Year, c.Month, 1, 0, 0, 0, 0, time.Local).AddDate(0, delta, 0)
	c.Year, c.Month = t.Year(), t.Month()
}

// SetMonth jumps the displayed month within the current year.
func (c *Cursor) SetMonth(month time.Month) {
	c.Month = month
}

// SetYear jumps the displayed year, keeping the month.
func (c *Cursor) SetYear(year int) {
	c.Year = year
}

// SelectDay selects a day of the displayed month, moving the selection
// cursor along with it.
func (c *Cursor) SelectDay(day int) {
	c.Selected = dates.NewKey(c.Year, c.Month, day)
}

// SelectKey moves the selection to an explicit day key and displays
// that day's month.
func (c *Cursor) SelectKey(key dates.Key) {
	if !key.IsDay() {
		return
	}
	t := key.Time()
	c.Year, c.Month = t.Year(), t.Month()
	c.Selected = key
}

// MonthRange returns the closed [first, last] day-key range of the
// displayed month, used as the fetch window.
func (c Cursor) MonthRange() (from, to dates.Key) {
	from = dates.NewKey(c.Year, c.Month, 1)
	to = dates.NewKey(c.Year, c.Month, daysIn(c.Year, c.Month))
	return from, to
}

// DaysInMonth returns the day count of the displayed month.
func (c Cursor) DaysInMonth() int {
	return daysIn(c.Year, c.Month)
}
