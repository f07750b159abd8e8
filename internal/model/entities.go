package model

import "time"

// Entity identifiers. Each kind has its own monotonically increasing
// counter starting at 1; ids are never reused within a session.
type (
	TeamID     uint64
	ResourceID uint64
	TaskID     uint64
	LabelID    uint64
	FilterID   uint64
)

// Team groups resources under a unique name.
type Team struct {
	ID        TeamID
	Name      string
	Resources map[ResourceID]struct{}
	CreatedAt time.Time
}

// Absence is an interval of unavailability for a resource, starting on
// a calendar day and covering a fixed-point Duration of working days.
type Absence struct {
	Start    Date     `json:"start"`
	Duration Duration `json:"duration"`
}

// Resource is a person work can be assigned to. AssignedTasks is ordered:
// index 0 is the highest-priority task. Absences never overlap each other.
type Resource struct {
	ID            ResourceID
	Name          string
	TeamID        TeamID
	AssignedTasks []TaskID
	WatchedTasks  map[TaskID]struct{}
	Absences      []Absence
	CreatedAt     time.Time
}

// Task is a unit of plannable work. Its id is assigned by the caller at
// creation time and stays stable across reloads, unlike the other kinds.
type Task struct {
	ID        TaskID
	Ticket    string
	Title     string
	Duration  Duration
	Labels    map[LabelID]struct{}
	Assignee  *ResourceID
	Watchers  map[ResourceID]struct{}
	CreatedAt time.Time
}

// Label is a named tag referenced by tasks and filters.
type Label struct {
	ID        LabelID
	Name      string
	CreatedAt time.Time
}

// Filter is a saved view over labels. Creating a filter under an existing
// name updates that filter in place instead of failing.
type Filter struct {
	ID        FilterID
	Name      string
	Labels    map[LabelID]struct{}
	Favorite  bool
	CreatedAt time.Time
}

// Milestone marks a date on the plan. Titles are not unique; removal
// matches the first milestone with the given title.
type Milestone struct {
	Date  Date   `json:"date"`
	Title string `json:"title"`
}
