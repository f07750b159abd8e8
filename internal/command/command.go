package command

import (
	"time"

	"github.com/nhle/planboard/internal/model"
)

// Details is the closed set of project mutations. Every variant is a
// self-contained description of one state change; applying it through
// the interpreter yields the exact inverse variant. Entities are
// addressed by name (stable across reloads), except tasks, whose ids
// are assigned by the caller and never reassigned.
type Details interface {
	isCommand()
}

// Command pairs mutation details with the wall-clock time the user
// issued them. The timestamp is informational only; applying a command
// never depends on it.
type Command struct {
	At      time.Time
	Details Details
}

// New wraps details with the current time.
func New(at time.Time, details Details) Command {
	return Command{At: at, Details: details}
}

// --- Teams ---

// CreateTeam inserts a new team under a free name.
type CreateTeam struct {
	Name string `json:"name"`
}

// RenameTeam renames a team in place.
type RenameTeam struct {
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
}

// DeleteTeam removes a team entry. It does not verify that the team
// owns no resources.
type DeleteTeam struct {
	Name string `json:"name"`
}

// --- Resources ---

// CreateResource inserts a new resource and attaches it to a team.
type CreateResource struct {
	Name string `json:"name"`
	Team string `json:"team"`
}

// RenameResource renames a resource in place.
type RenameResource struct {
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
}

// DeleteResource removes a resource. Blocked while the resource has
// assigned tasks, watched tasks, or worklogs.
type DeleteResource struct {
	Name string `json:"name"`
}

// SwitchTeam moves a resource to a different team.
type SwitchTeam struct {
	Resource string `json:"resource"`
	Team     string `json:"team"`
}

// --- Tasks ---

// CreateTask inserts a task at a caller-assigned id, overwriting any
// task already stored there.
type CreateTask struct {
	ID       model.TaskID   `json:"id"`
	Ticket   string         `json:"ticket"`
	Title    string         `json:"title"`
	Duration model.Duration `json:"duration"`
}

// UpdateTask replaces a task's ticket, title, and duration.
type UpdateTask struct {
	ID       model.TaskID   `json:"id"`
	Ticket   string         `json:"ticket"`
	Title    string         `json:"title"`
	Duration model.Duration `json:"duration"`
}

// DeleteTask removes a task. Blocked while the task is assigned,
// watched, or has worklogs.
type DeleteTask struct {
	ID model.TaskID `json:"id"`
}

// AssignTask gives a task to a resource, prepending it to the top of
// the resource's priority list. A previously assigned task is detached
// from its old resource first.
type AssignTask struct {
	ID       model.TaskID `json:"id"`
	Resource string       `json:"resource"`
}

// UnassignTask clears a task's assignee.
type UnassignTask struct {
	ID model.TaskID `json:"id"`
}

// ChangeTaskPriority moves an assigned task by delta within its
// resource's priority list. The target position must stay in bounds.
type ChangeTaskPriority struct {
	ID    model.TaskID `json:"id"`
	Delta int          `json:"delta"`
}

// PrioritizeTask moves an assigned task one step up, or to the top of
// the list when ToTop is set.
type PrioritizeTask struct {
	ID    model.TaskID `json:"id"`
	ToTop bool         `json:"to_top"`
}

// DeprioritizeTask moves an assigned task one step down, or to the
// bottom of the list when ToBottom is set.
type DeprioritizeTask struct {
	ID       model.TaskID `json:"id"`
	ToBottom bool         `json:"to_bottom"`
}

// AddWatcher subscribes a resource to a task.
type AddWatcher struct {
	ID       model.TaskID `json:"id"`
	Resource string       `json:"resource"`
}

// RemoveWatcher unsubscribes a resource from a task.
type RemoveWatcher struct {
	ID       model.TaskID `json:"id"`
	Resource string       `json:"resource"`
}

// --- Labels ---

// CreateLabel inserts a new label under a free name.
type CreateLabel struct {
	Name string `json:"name"`
}

// RenameLabel renames a label. Unlike the other renames it does not
// check for a collision with an existing label name.
type RenameLabel struct {
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
}

// DeleteLabel removes a label entry. References from tasks and filters
// are not checked or cleaned up.
type DeleteLabel struct {
	Name string `json:"name"`
}

// AddLabelToTask tags a task with a label.
type AddLabelToTask struct {
	ID    model.TaskID `json:"id"`
	Label string       `json:"label"`
}

// RemoveLabelFromTask removes a label from a task.
type RemoveLabelFromTask struct {
	ID    model.TaskID `json:"id"`
	Label string       `json:"label"`
}

// --- Filters ---

// CreateModifyFilter upserts a filter by name: an existing filter is
// overwritten in place (same id), otherwise a new one is created.
type CreateModifyFilter struct {
	Name     string   `json:"name"`
	Labels   []string `json:"labels"`
	Favorite bool     `json:"favorite"`
}

// RenameFilter renames a filter in place.
type RenameFilter struct {
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
}

// DeleteFilter removes a filter.
type DeleteFilter struct {
	Name string `json:"name"`
}

// --- Worklogs, absences, milestones ---

// SetWorklog upserts the work logged by a resource on a task for one
// date, in hundredths of a day. A zero fraction clears the entry and
// requires a prior nonzero entry.
type SetWorklog struct {
	ID       model.TaskID `json:"id"`
	Date     model.Date   `json:"date"`
	Resource string       `json:"resource"`
	Fraction int          `json:"fraction"`
}

// SetAbsence replaces any absence intervals intersecting the given one,
// then inserts it if the duration is nonzero. A zero duration removes
// the absence covering the start date.
type SetAbsence struct {
	Resource string         `json:"resource"`
	Start    model.Date     `json:"start"`
	Duration model.Duration `json:"duration"`
}

// AddMilestone appends a milestone to the plan.
type AddMilestone struct {
	Date  model.Date `json:"date"`
	Title string     `json:"title"`
}

// RemoveMilestone removes the first milestone with the given title.
type RemoveMilestone struct {
	Title string `json:"title"`
}

// --- Structural ---

// Compound applies a list of commands atomically: either every
// sub-command succeeds, or the model is left untouched.
type Compound struct {
	Commands []Command `json:"commands"`
}

// NoOp changes nothing. It is its own inverse.
type NoOp struct{}

func (CreateTeam) isCommand()          {}
func (RenameTeam) isCommand()          {}
func (DeleteTeam) isCommand()          {}
func (CreateResource) isCommand()      {}
func (RenameResource) isCommand()      {}
func (DeleteResource) isCommand()      {}
func (SwitchTeam) isCommand()          {}
func (CreateTask) isCommand()          {}
func (UpdateTask) isCommand()          {}
func (DeleteTask) isCommand()          {}
func (AssignTask) isCommand()          {}
func (UnassignTask) isCommand()        {}
func (ChangeTaskPriority) isCommand()  {}
func (PrioritizeTask) isCommand()      {}
func (DeprioritizeTask) isCommand()    {}
func (AddWatcher) isCommand()          {}
func (RemoveWatcher) isCommand()       {}
func (CreateLabel) isCommand()         {}
func (RenameLabel) isCommand()         {}
func (DeleteLabel) isCommand()         {}
func (AddLabelToTask) isCommand()      {}
func (RemoveLabelFromTask) isCommand() {}
func (CreateModifyFilter) isCommand()  {}
func (RenameFilter) isCommand()        {}
func (DeleteFilter) isCommand()        {}
func (SetWorklog) isCommand()          {}
func (SetAbsence) isCommand()          {}
func (AddMilestone) isCommand()        {}
func (RemoveMilestone) isCommand()     {}
func (Compound) isCommand()            {}
func (NoOp) isCommand()                {}
