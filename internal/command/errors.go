package command

import "fmt"

// Entity kind names used in error messages.
const (
	KindTeam      = "team"
	KindResource  = "resource"
	KindTask      = "task"
	KindLabel     = "label"
	KindFilter    = "filter"
	KindMilestone = "milestone"
	KindWorklog   = "worklog"
)

// NotFoundError is returned when a command references an entity that
// does not exist.
type NotFoundError struct {
	Kind string
	Name string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// AlreadyExistsError is returned on a name collision during create or
// rename.
type AlreadyExistsError struct {
	Kind string
	Name string
}

func (e AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Kind, e.Name)
}

// InvalidStateError is returned when a command is well-formed but the
// current state forbids it: deleting a referenced entity, moving a task
// out of its priority list bounds, clearing a worklog that does not
// exist, or undo/redo against an exhausted history.
type InvalidStateError struct {
	Reason string
}

func (e InvalidStateError) Error() string {
	return e.Reason
}

// CompoundError wraps the first failing sub-command of a compound
// command. The model is left exactly as it was before the compound.
type CompoundError struct {
	Index int
	Err   error
}

func (e CompoundError) Error() string {
	return fmt.Sprintf("compound command failed at step %d: %v", e.Index, e.Err)
}

func (e CompoundError) Unwrap() error {
	return e.Err
}
