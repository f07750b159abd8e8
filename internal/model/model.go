package model

import "time"

// Model holds every entity table of one project plan. It is owned by a
// single orchestrator; all mutation goes through the command interpreter.
// Relationships are stored as id sets and lists, never as direct links,
// so the graph stays acyclic from the runtime's point of view.
type Model struct {
	Teams     map[TeamID]*Team
	Resources map[ResourceID]*Resource
	Tasks     map[TaskID]*Task
	Labels    map[LabelID]*Label
	Filters   map[FilterID]*Filter

	// Worklogs maps task -> resource -> date -> logged hundredths of a
	// day (1..100). Zero entries and empty inner maps are never kept, so
	// a missing key always means "no work logged".
	Worklogs map[TaskID]map[ResourceID]map[Date]int

	Milestones []Milestone

	nextTeamID     TeamID
	nextResourceID ResourceID
	nextLabelID    LabelID
	nextFilterID   FilterID

	nowFn func() time.Time
}

// New returns an empty model with all counters at 1.
func New() *Model {
	return &Model{
		Teams:          make(map[TeamID]*Team),
		Resources:      make(map[ResourceID]*Resource),
		Tasks:          make(map[TaskID]*Task),
		Labels:         make(map[LabelID]*Label),
		Filters:        make(map[FilterID]*Filter),
		Worklogs:       make(map[TaskID]map[ResourceID]map[Date]int),
		nextTeamID:     1,
		nextResourceID: 1,
		nextLabelID:    1,
		nextFilterID:   1,
		nowFn:          func() time.Time { return time.Now().UTC() },
	}
}

// Now returns the model's notion of the current time, used to stamp
// entity creation. Tests may override it via SetNowFunc.
func (m *Model) Now() time.Time {
	return m.nowFn()
}

// SetNowFunc overrides the clock used for creation timestamps.
func (m *Model) SetNowFunc(fn func() time.Time) {
	m.nowFn = fn
}

// AllocTeamID hands out the next team id. Counters never go backwards,
// even when the entity that consumed an id is later deleted or undone.
func (m *Model) AllocTeamID() TeamID {
	id := m.nextTeamID
	m.nextTeamID++
	return id
}

// AllocResourceID hands out the next resource id.
func (m *Model) AllocResourceID() ResourceID {
	id := m.nextResourceID
	m.nextResourceID++
	return id
}

// AllocLabelID hands out the next label id.
func (m *Model) AllocLabelID() LabelID {
	id := m.nextLabelID
	m.nextLabelID++
	return id
}

// AllocFilterID hands out the next filter id.
func (m *Model) AllocFilterID() FilterID {
	id := m.nextFilterID
	m.nextFilterID++
	return id
}

// ResetCounters moves every id counter to max(existing id)+1. Called
// after replaying a persisted command log, where entities carry ids from
// an earlier session that the fresh counters must not collide with.
func (m *Model) ResetCounters() {
	m.nextTeamID, m.nextResourceID, m.nextLabelID, m.nextFilterID = 1, 1, 1, 1
	for id := range m.Teams {
		if id >= m.nextTeamID {
			m.nextTeamID = id + 1
		}
	}
	for id := range m.Resources {
		if id >= m.nextResourceID {
			m.nextResourceID = id + 1
		}
	}
	for id := range m.Labels {
		if id >= m.nextLabelID {
			m.nextLabelID = id + 1
		}
	}
	for id := range m.Filters {
		if id >= m.nextFilterID {
			m.nextFilterID = id + 1
		}
	}
}

// TeamByName finds a team by its unique name.
func (m *Model) TeamByName(name string) (*Team, bool) {
	for _, t := range m.Teams {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// ResourceByName finds a resource by its unique name.
func (m *Model) ResourceByName(name string) (*Resource, bool) {
	for _, r := range m.Resources {
		if r.Name == name {
			return r, true
		}
	}
	return nil, false
}

// LabelByName finds a label by its unique name.
func (m *Model) LabelByName(name string) (*Label, bool) {
	for _, l := range m.Labels {
		if l.Name == name {
			return l, true
		}
	}
	return nil, false
}

// FilterByName finds a filter by its unique name.
func (m *Model) FilterByName(name string) (*Filter, bool) {
	for _, f := range m.Filters {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// WorklogFraction returns the hundredths logged for (task, resource, date),
// or zero when no entry exists.
func (m *Model) WorklogFraction(task TaskID, res ResourceID, date Date) int {
	return m.Worklogs[task][res][date]
}

// SetWorklogFraction upserts a worklog entry. A zero fraction deletes the
// entry, and emptied inner maps are pruned so absence of a key always
// means "no log".
func (m *Model) SetWorklogFraction(task TaskID, res ResourceID, date Date, fraction int) {
	if fraction == 0 {
		byRes, ok := m.Worklogs[task]
		if !ok {
			return
		}
		byDate, ok := byRes[res]
		if !ok {
			return
		}
		delete(byDate, date)
		if len(byDate) == 0 {
			delete(byRes, res)
		}
		if len(byRes) == 0 {
			delete(m.Worklogs, task)
		}
		return
	}
	byRes, ok := m.Worklogs[task]
	if !ok {
		byRes = make(map[ResourceID]map[Date]int)
		m.Worklogs[task] = byRes
	}
	byDate, ok := byRes[res]
	if !ok {
		byDate = make(map[Date]int)
		byRes[res] = byDate
	}
	byDate[date] = fraction
}

// TaskLoggedTotal sums all work logged against a task, across every
// resource and date.
func (m *Model) TaskLoggedTotal(task TaskID) Duration {
	var total uint64
	for _, byDate := range m.Worklogs[task] {
		for _, frac := range byDate {
			total += uint64(frac)
		}
	}
	return DurationFromHundredths(total)
}

// ResourceLoggedOn sums the hundredths a resource logged on one date
// across all tasks.
func (m *Model) ResourceLoggedOn(res ResourceID, date Date) int {
	total := 0
	for _, byRes := range m.Worklogs {
		total += byRes[res][date]
	}
	return total
}

// ResourceHasWorklogs reports whether any worklog references the resource.
func (m *Model) ResourceHasWorklogs(res ResourceID) bool {
	for _, byRes := range m.Worklogs {
		if len(byRes[res]) > 0 {
			return true
		}
	}
	return false
}

// TaskHasWorklogs reports whether any worklog references the task.
func (m *Model) TaskHasWorklogs(task TaskID) bool {
	return len(m.Worklogs[task]) > 0
}

// Clone returns a deep copy sharing no mutable state with m. Compound
// commands run against a clone and swap it in only on full success.
func (m *Model) Clone() *Model {
	cp := &Model{
		Teams:          make(map[TeamID]*Team, len(m.Teams)),
		Resources:      make(map[ResourceID]*Resource, len(m.Resources)),
		Tasks:          make(map[TaskID]*Task, len(m.Tasks)),
		Labels:         make(map[LabelID]*Label, len(m.Labels)),
		Filters:        make(map[FilterID]*Filter, len(m.Filters)),
		Worklogs:       make(map[TaskID]map[ResourceID]map[Date]int, len(m.Worklogs)),
		Milestones:     append([]Milestone(nil), m.Milestones...),
		nextTeamID:     m.nextTeamID,
		nextResourceID: m.nextResourceID,
		nextLabelID:    m.nextLabelID,
		nextFilterID:   m.nextFilterID,
		nowFn:          m.nowFn,
	}
	for id, t := range m.Teams {
		cp.Teams[id] = cloneTeam(t)
	}
	for id, r := range m.Resources {
		cp.Resources[id] = cloneResource(r)
	}
	for id, t := range m.Tasks {
		cp.Tasks[id] = cloneTask(t)
	}
	for id, l := range m.Labels {
		lc := *l
		cp.Labels[id] = &lc
	}
	for id, f := range m.Filters {
		cp.Filters[id] = cloneFilter(f)
	}
	for task, byRes := range m.Worklogs {
		byResCopy := make(map[ResourceID]map[Date]int, len(byRes))
		for res, byDate := range byRes {
			byDateCopy := make(map[Date]int, len(byDate))
			for date, frac := range byDate {
				byDateCopy[date] = frac
			}
			byResCopy[res] = byDateCopy
		}
		cp.Worklogs[task] = byResCopy
	}
	return cp
}

// ReplaceWith overwrites m's contents with those of other. Used to commit
// a compound command's clone back into the live model.
func (m *Model) ReplaceWith(other *Model) {
	nowFn := m.nowFn
	*m = *other
	m.nowFn = nowFn
}

func cloneTeam(t *Team) *Team {
	cp := *t
	cp.Resources = cloneIDSet(t.Resources)
	return &cp
}

func cloneResource(r *Resource) *Resource {
	cp := *r
	cp.AssignedTasks = append([]TaskID(nil), r.AssignedTasks...)
	cp.WatchedTasks = cloneIDSet(r.WatchedTasks)
	cp.Absences = append([]Absence(nil), r.Absences...)
	return &cp
}

func cloneTask(t *Task) *Task {
	cp := *t
	cp.Labels = cloneIDSet(t.Labels)
	cp.Watchers = cloneIDSet(t.Watchers)
	if t.Assignee != nil {
		a := *t.Assignee
		cp.Assignee = &a
	}
	return &cp
}

func cloneFilter(f *Filter) *Filter {
	cp := *f
	cp.Labels = cloneIDSet(f.Labels)
	return &cp
}

func cloneIDSet[K comparable](set map[K]struct{}) map[K]struct{} {
	if set == nil {
		return nil
	}
	cp := make(map[K]struct{}, len(set))
	for k := range set {
		cp[k] = struct{}{}
	}
	return cp
}
