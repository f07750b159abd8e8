package command

import (
	"encoding/json"
	"fmt"
	"time"
)

// envelope is the persisted wire shape of a command: a type tag, the
// issue timestamp, and the variant's own fields.
type envelope struct {
	Type    string          `json:"type"`
	At      time.Time       `json:"at"`
	Details json.RawMessage `json:"details"`
}

func typeName(d Details) (string, error) {
	switch d.(type) {
	case CreateTeam:
		return "create_team", nil
	case RenameTeam:
		return "rename_team", nil
	case DeleteTeam:
		return "delete_team", nil
	case CreateResource:
		return "create_resource", nil
	case RenameResource:
		return "rename_resource", nil
	case DeleteResource:
		return "delete_resource", nil
	case SwitchTeam:
		return "switch_team", nil
	case CreateTask:
		return "create_task", nil
	case UpdateTask:
		return "update_task", nil
	case DeleteTask:
		return "delete_task", nil
	case AssignTask:
		return "assign_task", nil
	case UnassignTask:
		return "unassign_task", nil
	case ChangeTaskPriority:
		return "change_task_priority", nil
	case PrioritizeTask:
		return "prioritize_task", nil
	case DeprioritizeTask:
		return "deprioritize_task", nil
	case AddWatcher:
		return "add_watcher", nil
	case RemoveWatcher:
		return "remove_watcher", nil
	case CreateLabel:
		return "create_label", nil
	case RenameLabel:
		return "rename_label", nil
	case DeleteLabel:
		return "delete_label", nil
	case AddLabelToTask:
		return "add_label_to_task", nil
	case RemoveLabelFromTask:
		return "remove_label_from_task", nil
	case CreateModifyFilter:
		return "create_modify_filter", nil
	case RenameFilter:
		return "rename_filter", nil
	case DeleteFilter:
		return "delete_filter", nil
	case SetWorklog:
		return "set_worklog", nil
	case SetAbsence:
		return "set_absence", nil
	case AddMilestone:
		return "add_milestone", nil
	case RemoveMilestone:
		return "remove_milestone", nil
	case Compound:
		return "compound", nil
	case NoOp:
		return "noop", nil
	default:
		return "", fmt.Errorf("unknown command type %T", d)
	}
}

// decoders maps a persisted type tag to a function that unmarshals the
// variant's fields.
var decoders = map[string]func(json.RawMessage) (Details, error){
	"create_team":            decodeInto[CreateTeam],
	"rename_team":            decodeInto[RenameTeam],
	"delete_team":            decodeInto[DeleteTeam],
	"create_resource":        decodeInto[CreateResource],
	"rename_resource":        decodeInto[RenameResource],
	"delete_resource":        decodeInto[DeleteResource],
	"switch_team":            decodeInto[SwitchTeam],
	"create_task":            decodeInto[CreateTask],
	"update_task":            decodeInto[UpdateTask],
	"delete_task":            decodeInto[DeleteTask],
	"assign_task":            decodeInto[AssignTask],
	"unassign_task":          decodeInto[UnassignTask],
	"change_task_priority":   decodeInto[ChangeTaskPriority],
	"prioritize_task":        decodeInto[PrioritizeTask],
	"deprioritize_task":      decodeInto[DeprioritizeTask],
	"add_watcher":            decodeInto[AddWatcher],
	"remove_watcher":         decodeInto[RemoveWatcher],
	"create_label":           decodeInto[CreateLabel],
	"rename_label":           decodeInto[RenameLabel],
	"delete_label":           decodeInto[DeleteLabel],
	"add_label_to_task":      decodeInto[AddLabelToTask],
	"remove_label_from_task": decodeInto[RemoveLabelFromTask],
	"create_modify_filter":   decodeInto[CreateModifyFilter],
	"rename_filter":          decodeInto[RenameFilter],
	"delete_filter":          decodeInto[DeleteFilter],
	"set_worklog":            decodeInto[SetWorklog],
	"set_absence":            decodeInto[SetAbsence],
	"add_milestone":          decodeInto[AddMilestone],
	"remove_milestone":       decodeInto[RemoveMilestone],
	"compound":               decodeInto[Compound],
	"noop":                   decodeInto[NoOp],
}

func decodeInto[T Details](raw json.RawMessage) (Details, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// MarshalJSON encodes the command as a tagged envelope suitable for the
// persisted log.
func (c Command) MarshalJSON() ([]byte, error) {
	name, err := typeName(c.Details)
	if err != nil {
		return nil, err
	}
	details, err := json.Marshal(c.Details)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s details: %w", name, err)
	}
	return json.Marshal(envelope{Type: name, At: c.At, Details: details})
}

// UnmarshalJSON decodes a tagged envelope back into a command.
func (c *Command) UnmarshalJSON(data []byte) error {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	decode, ok := decoders[env.Type]
	if !ok {
		return fmt.Errorf("unknown command type %q", env.Type)
	}
	details, err := decode(env.Details)
	if err != nil {
		return fmt.Errorf("unmarshaling %s details: %w", env.Type, err)
	}
	c.At = env.At
	c.Details = details
	return nil
}
