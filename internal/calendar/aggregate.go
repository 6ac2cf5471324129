// Package calendar contains the pure calendar logic: grouping tasks
// into per-day buckets, counting priority badges, and building the
// renderable month grid. Nothing here performs I/O.
package calendar

import (
	"sort"

	"github.com/avolkov/calendar-assistant/internal/dates"
	"github.com/avolkov/calendar-assistant/internal/model"
)

// Buckets maps a canonical date key to that day's ordered task list.
// A fresh mapping is produced on every fetch; it is never patched in
// place.
type Buckets map[dates.Key][]model.Task

// Day returns the bucket for a key. A day with no tasks yields an
// empty list, never an error: sentinel and absent keys are legal.
func (b Buckets) Day(key dates.Key) []model.Task {
	return b[key]
}

// Counts holds the per-day priority partition used for cell badges.
type Counts struct {
	High   int
	Medium int
	Low    int
}

// Total is the number of tasks counted.
func (c Counts) Total() int {
	return c.High + c.Medium + c.Low
}

// Aggregate groups a flat task list into day buckets. Within each
// bucket tasks are ordered by their effective timestamp, then by
// created_at as a stable tie-break. The input slice is not modified.
func Aggregate(tasks []model.Task) Buckets {
	buckets := make(Buckets)
	for _, t := range tasks {
		buckets[t.Day] = append(buckets[t.Day], t)
	}

	for key := range buckets {
		day := buckets[key]
		sort.SliceStable(day, func(i, j int) bool {
			if !day[i].Scheduled.Equal(day[j].Scheduled) {
				return day[i].Scheduled.Before(day[j].Scheduled)
			}
			return day[i].CreatedAt.Before(day[j].CreatedAt)
		})
	}

	return buckets
}

// PriorityCounts partitions a day's tasks into the three priority
// buckets. The task list is not reordered or modified.
func PriorityCounts(dayTasks []model.Task) Counts {
	var c Counts
	for _, t := range dayTasks {
		switch t.DisplayPriority() {
		case model.PriorityHigh:
			c.High++
		case model.PriorityMedium:
			c.Medium++
		default:
			c.Low++
		}
	}
	return c
}

// ByPriority returns a copy of dayTasks ordered high to low priority,
// as shown in the day popup. The source order inside the bucket is
// left untouched.
func ByPriority(dayTasks []model.Task) []model.Task {
	out := make([]model.Task, len(dayTasks))
	copy(out, dayTasks)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DisplayPriority() < out[j].DisplayPriority()
	})
	return out
}
