package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/calendar-assistant/internal/dates"
	"github.com/avolkov/calendar-assistant/internal/model"
)

func TestBuildMonthShape(t *testing.T) {
	// March 2024 starts on a Friday (weekday 5) and has 31 days.
	cells := BuildMonth(2024, time.March, Buckets{}, BuildOptions{})
	require.Len(t, cells, 5+31)

	for i := 0; i < 5; i++ {
		assert.True(t, cells[i].Blank())
	}
	assert.Equal(t, 1, cells[5].Day)
	assert.Equal(t, 31, cells[len(cells)-1].Day)
	assert.Equal(t, dates.Key("2024-03-01"), cells[5].Key)
}

func TestBuildMonthNoLeadingBlanksWhenMonthStartsSunday(t *testing.T) {
	// September 2024 starts on a Sunday.
	cells := BuildMonth(2024, time.September, Buckets{}, BuildOptions{})
	require.NotEmpty(t, cells)
	assert.Equal(t, 1, cells[0].Day)
	assert.Len(t, cells, 30)
}

func TestBuildMonthBadgeCounts(t *testing.T) {
	day := dates.Key("2024-03-05")
	buckets := Buckets{
		day: {
			{ID: 1, Title: "A", Priority: model.PriorityHigh, Day: day},
			{ID: 2, Title: "B", Priority: model.PriorityMedium, Day: day},
		},
	}

	cells := BuildMonth(2024, time.March, buckets, BuildOptions{})

	var cell Cell
	for _, c := range cells {
		if c.Day == 5 {
			cell = c
		}
	}
	require.Equal(t, 5, cell.Day)
	assert.Equal(t, 2, cell.Total)
	assert.Equal(t, Counts{High: 1, Medium: 1, Low: 0}, cell.Counts)
}

func TestBuildMonthMarkers(t *testing.T) {
	opts := BuildOptions{
		Today:    dates.Key("2024-03-07"),
		Selected: dates.Key("2024-03-09"),
	}
	cells := BuildMonth(2024, time.March, Buckets{}, opts)

	for _, c := range cells {
		switch c.Day {
		case 7:
			assert.True(t, c.IsToday)
			assert.False(t, c.IsSelected)
		case 9:
			assert.True(t, c.IsSelected)
			assert.False(t, c.IsToday)
		default:
			assert.False(t, c.IsToday || c.IsSelected)
		}
	}
}

func TestBuildMonthIdempotent(t *testing.T) {
	day := dates.Key("2024-03-05")
	buckets := Buckets{day: {{ID: 1, Day: day, Priority: 1}}}
	opts := BuildOptions{Today: day}

	first := BuildMonth(2024, time.March, buckets, opts)
	second := BuildMonth(2024, time.March, buckets, opts)
	assert.Equal(t, first, second)
}

func TestCursorNavigation(t *testing.T) {
	c := NewCursor(time.Date(2024, time.March, 5, 12, 0, 0, 0, time.Local))
	assert.Equal(t, dates.Key("2024-03-05"), c.Selected)

	// Month navigation moves only the displayed month.
	c.ShiftMonth(1)
	assert.Equal(t, time.April, c.Month)
	assert.Equal(t, dates.Key("2024-03-05"), c.Selected)

	c.ShiftMonth(-4)
	assert.Equal(t, 2023, c.Year)
	assert.Equal(t, time.December, c.Month)

	c.SetYear(2025)
	c.SetMonth(time.January)
	assert.Equal(t, 2025, c.Year)
	assert.Equal(t, time.January, c.Month)
	assert.Equal(t, dates.Key("2024-03-05"), c.Selected)

	// Selecting a day moves both cursors.
	c.SelectDay(10)
	assert.Equal(t, dates.Key("2025-01-10"), c.Selected)

	c.SelectKey(dates.Key("2024-07-04"))
	assert.Equal(t, time.July, c.Month)
	assert.Equal(t, 2024, c.Year)
}

func TestCursorMonthRange(t *testing.T) {
	c := Cursor{Year: 2024, Month: time.February}
	from, to := c.MonthRange()
	assert.Equal(t, dates.Key("2024-02-01"), from)
	assert.Equal(t, dates.Key("2024-02-29"), to)
}
