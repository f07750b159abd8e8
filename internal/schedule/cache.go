// Package schedule derives the day-by-day allocation forecast from the
// domain model. The cache is a pure function of the model: it is thrown
// away and rebuilt from scratch after every committed mutation, so
// there is no invalidation logic to get wrong.
package schedule

import (
	"sort"

	"github.com/nhle/planboard/internal/model"
)

// windowMarginDays pads the visible window on both sides of the
// earliest and latest known plan dates.
const windowMarginDays = 30

// Cache is the fully derived allocation view handed to the rendering
// collaborator. All maps are read-only after Build returns; fractions
// are hundredths of a day (1..100).
type Cache struct {
	Start model.Date
	End   model.Date

	// Unassigned lists tasks without an assignee, in id order.
	Unassigned []model.TaskID

	// Alloc holds the simulated future allocation of assigned tasks:
	// task -> date -> fraction. The resource is the task's assignee.
	Alloc map[model.TaskID]map[model.Date]int

	// UnassignedAlloc is the same simulation for unassigned tasks,
	// ignoring absences and worklogs since no resource owns the work.
	UnassignedAlloc map[model.TaskID]map[model.Date]int

	// Absences expands each resource's absence intervals into per-
	// weekday occupancy: resource -> date -> fraction.
	Absences map[model.ResourceID]map[model.Date]int

	// ForeignWork sums work a resource logged on tasks currently
	// assigned to somebody else (or to nobody): resource -> date ->
	// fraction. Shown as a conflict signal.
	ForeignWork map[model.ResourceID]map[model.Date]int

	// Milestones groups milestone titles by date.
	Milestones map[model.Date][]string
}

// NumDays returns the width of the visible window in days.
func (c *Cache) NumDays() int {
	if c.End < c.Start {
		return 0
	}
	return int(c.End-c.Start) + 1
}

// Day maps a window index to its calendar date.
func (c *Cache) Day(index int) model.Date {
	return c.Start.AddDays(index)
}

// Build recomputes the full forecast. The allocation walk starts at
// today shifted by offset days, moved to Monday when it lands on a
// weekend.
func Build(m *model.Model, today model.Date, offset int) *Cache {
	c := &Cache{
		Alloc:           make(map[model.TaskID]map[model.Date]int),
		UnassignedAlloc: make(map[model.TaskID]map[model.Date]int),
		Absences:        make(map[model.ResourceID]map[model.Date]int),
		ForeignWork:     make(map[model.ResourceID]map[model.Date]int),
		Milestones:      make(map[model.Date][]string),
	}

	buildAbsenceCalendar(m, c)
	remaining := remainingWork(m)
	start := today.AddDays(offset).SkipWeekend()
	furthest := allocateAssigned(m, c, remaining, start)
	if d := allocateUnassigned(m, c, remaining, start); d > furthest {
		furthest = d
	}
	buildForeignWork(m, c)
	for _, ms := range m.Milestones {
		c.Milestones[ms.Date] = append(c.Milestones[ms.Date], ms.Title)
	}
	computeWindow(m, c, today, furthest)
	return c
}

// buildAbsenceCalendar expands every absence into per-weekday occupancy.
// Whole days mark full weekdays; a trailing fraction marks the next
// weekday, without overwriting a day already marked.
func buildAbsenceCalendar(m *model.Model, c *Cache) {
	for _, res := range m.Resources {
		if len(res.Absences) == 0 {
			continue
		}
		days := make(map[model.Date]int)
		for _, a := range res.Absences {
			d := a.Start
			for i := uint64(0); i < a.Duration.Days; i++ {
				d = d.SkipWeekend()
				if _, ok := days[d]; !ok {
					days[d] = model.FractionsPerDay
				}
				d++
			}
			if a.Duration.Fraction > 0 {
				d = d.SkipWeekend()
				if _, ok := days[d]; !ok {
					days[d] = a.Duration.Fraction
				}
			}
		}
		c.Absences[res.ID] = days
	}
}

// remainingWork computes, per task, the planned duration minus all work
// logged against it, saturating at zero.
func remainingWork(m *model.Model) map[model.TaskID]model.Duration {
	remaining := make(map[model.TaskID]model.Duration, len(m.Tasks))
	for id, task := range m.Tasks {
		remaining[id] = task.Duration.Sub(m.TaskLoggedTotal(id))
	}
	return remaining
}

// take returns how much of remaining fits into available hundredths.
func take(remaining model.Duration, available int) int {
	if remaining.Days > 0 || remaining.Fraction >= available {
		return available
	}
	return remaining.Fraction
}

// allocateAssigned walks each resource's priority list, spreading every
// task's remaining work across future weekdays around absences and
// already-logged work. Returns the furthest date any allocation reached.
func allocateAssigned(m *model.Model, c *Cache, remaining map[model.TaskID]model.Duration, start model.Date) model.Date {
	furthest := start
	for _, res := range m.Resources {
		date := start
		alloced := 0
		for _, taskID := range res.AssignedTasks {
			rem := remaining[taskID]
			for !rem.IsZero() {
				consumed := alloced + m.ResourceLoggedOn(res.ID, date) + c.Absences[res.ID][date]
				available := model.FractionsPerDay - consumed
				if available < 0 {
					available = 0
				}
				got := take(rem, available)
				if got > 0 {
					days := c.Alloc[taskID]
					if days == nil {
						days = make(map[model.Date]int)
						c.Alloc[taskID] = days
					}
					days[date] = got
					rem = rem.Sub(model.DurationFromHundredths(uint64(got)))
				}
				if date > furthest {
					furthest = date
				}
				if rem.IsZero() {
					alloced += got
					if alloced >= model.FractionsPerDay {
						alloced -= model.FractionsPerDay
						date = date.NextWeekday()
					}
					break
				}
				date = date.NextWeekday()
				alloced = 0
			}
		}
	}
	return furthest
}

// allocateUnassigned simulates unowned tasks one by one from the start
// date, a full day at a time. Absences and worklogs are ignored since
// no resource owns the work yet.
func allocateUnassigned(m *model.Model, c *Cache, remaining map[model.TaskID]model.Duration, start model.Date) model.Date {
	furthest := start
	for id, task := range m.Tasks {
		if task.Assignee != nil {
			continue
		}
		c.Unassigned = append(c.Unassigned, id)
		rem := remaining[id]
		date := start
		for !rem.IsZero() {
			got := take(rem, model.FractionsPerDay)
			days := c.UnassignedAlloc[id]
			if days == nil {
				days = make(map[model.Date]int)
				c.UnassignedAlloc[id] = days
			}
			days[date] = got
			rem = rem.Sub(model.DurationFromHundredths(uint64(got)))
			if date > furthest {
				furthest = date
			}
			date = date.NextWeekday()
		}
	}
	sort.Slice(c.Unassigned, func(i, j int) bool { return c.Unassigned[i] < c.Unassigned[j] })
	return furthest
}

// buildForeignWork collects worklogs whose task is no longer assigned
// to the resource that logged them.
func buildForeignWork(m *model.Model, c *Cache) {
	for taskID, byRes := range m.Worklogs {
		task, ok := m.Tasks[taskID]
		if !ok {
			continue
		}
		for resID, byDate := range byRes {
			if task.Assignee != nil && *task.Assignee == resID {
				continue
			}
			days := c.ForeignWork[resID]
			if days == nil {
				days = make(map[model.Date]int)
				c.ForeignWork[resID] = days
			}
			for date, frac := range byDate {
				days[date] += frac
			}
		}
	}
}

// computeWindow derives the visible [Start, End] span: every known
// milestone, worklog, and absence date plus today, padded by the margin,
// with the end stretched to the furthest simulated allocation.
func computeWindow(m *model.Model, c *Cache, today, furthest model.Date) {
	minDate, maxDate := today, today
	observe := func(d model.Date) {
		if d < minDate {
			minDate = d
		}
		if d > maxDate {
			maxDate = d
		}
	}
	for _, ms := range m.Milestones {
		observe(ms.Date)
	}
	for _, byRes := range m.Worklogs {
		for _, byDate := range byRes {
			for date := range byDate {
				observe(date)
			}
		}
	}
	for _, res := range m.Resources {
		for _, a := range res.Absences {
			observe(a.Start)
		}
	}
	if furthest > maxDate {
		maxDate = furthest
	}
	c.Start = minDate.AddDays(-windowMarginDays)
	c.End = maxDate.AddDays(windowMarginDays)
}
