package command

import (
	"fmt"
	"sort"

	"github.com/nhle/planboard/internal/model"
)

// Apply runs one command against the model and returns its exact
// inverse. The same function serves do, undo, and redo: undoing means
// applying the stored inverse, which in turn yields the original
// command back.
func Apply(m *model.Model, d Details) (Details, error) {
	switch c := d.(type) {
	case CreateTeam:
		return applyCreateTeam(m, c)
	case RenameTeam:
		return applyRenameTeam(m, c)
	case DeleteTeam:
		return applyDeleteTeam(m, c)
	case CreateResource:
		return applyCreateResource(m, c)
	case RenameResource:
		return applyRenameResource(m, c)
	case DeleteResource:
		return applyDeleteResource(m, c)
	case SwitchTeam:
		return applySwitchTeam(m, c)
	case CreateTask:
		return applyCreateTask(m, c)
	case UpdateTask:
		return applyUpdateTask(m, c)
	case DeleteTask:
		return applyDeleteTask(m, c)
	case AssignTask:
		return applyAssignTask(m, c)
	case UnassignTask:
		return applyUnassignTask(m, c)
	case ChangeTaskPriority:
		return applyChangeTaskPriority(m, c.ID, c.Delta)
	case PrioritizeTask:
		return applyPrioritizeTask(m, c)
	case DeprioritizeTask:
		return applyDeprioritizeTask(m, c)
	case AddWatcher:
		return applyAddWatcher(m, c)
	case RemoveWatcher:
		return applyRemoveWatcher(m, c)
	case CreateLabel:
		return applyCreateLabel(m, c)
	case RenameLabel:
		return applyRenameLabel(m, c)
	case DeleteLabel:
		return applyDeleteLabel(m, c)
	case AddLabelToTask:
		return applyAddLabelToTask(m, c)
	case RemoveLabelFromTask:
		return applyRemoveLabelFromTask(m, c)
	case CreateModifyFilter:
		return applyCreateModifyFilter(m, c)
	case RenameFilter:
		return applyRenameFilter(m, c)
	case DeleteFilter:
		return applyDeleteFilter(m, c)
	case SetWorklog:
		return applySetWorklog(m, c)
	case SetAbsence:
		return applySetAbsence(m, c)
	case AddMilestone:
		return applyAddMilestone(m, c)
	case RemoveMilestone:
		return applyRemoveMilestone(m, c)
	case Compound:
		return applyCompound(m, c)
	case NoOp:
		return NoOp{}, nil
	default:
		return nil, fmt.Errorf("unknown command type %T", d)
	}
}

func applyCreateTeam(m *model.Model, c CreateTeam) (Details, error) {
	if _, ok := m.TeamByName(c.Name); ok {
		return nil, AlreadyExistsError{Kind: KindTeam, Name: c.Name}
	}
	id := m.AllocTeamID()
	m.Teams[id] = &model.Team{
		ID:        id,
		Name:      c.Name,
		Resources: make(map[model.ResourceID]struct{}),
		CreatedAt: m.Now(),
	}
	return DeleteTeam{Name: c.Name}, nil
}

func applyRenameTeam(m *model.Model, c RenameTeam) (Details, error) {
	team, ok := m.TeamByName(c.OldName)
	if !ok {
		return nil, NotFoundError{Kind: KindTeam, Name: c.OldName}
	}
	if _, ok := m.TeamByName(c.NewName); ok {
		return nil, AlreadyExistsError{Kind: KindTeam, Name: c.NewName}
	}
	team.Name = c.NewName
	return RenameTeam{OldName: c.NewName, NewName: c.OldName}, nil
}

// applyDeleteTeam removes the team entry only. Resources still pointing
// at the team keep their (now dangling) team id.
func applyDeleteTeam(m *model.Model, c DeleteTeam) (Details, error) {
	team, ok := m.TeamByName(c.Name)
	if !ok {
		return nil, NotFoundError{Kind: KindTeam, Name: c.Name}
	}
	delete(m.Teams, team.ID)
	return CreateTeam{Name: c.Name}, nil
}

func applyCreateResource(m *model.Model, c CreateResource) (Details, error) {
	if _, ok := m.ResourceByName(c.Name); ok {
		return nil, AlreadyExistsError{Kind: KindResource, Name: c.Name}
	}
	team, ok := m.TeamByName(c.Team)
	if !ok {
		return nil, NotFoundError{Kind: KindTeam, Name: c.Team}
	}
	id := m.AllocResourceID()
	m.Resources[id] = &model.Resource{
		ID:           id,
		Name:         c.Name,
		TeamID:       team.ID,
		WatchedTasks: make(map[model.TaskID]struct{}),
		CreatedAt:    m.Now(),
	}
	team.Resources[id] = struct{}{}
	return DeleteResource{Name: c.Name}, nil
}

func applyRenameResource(m *model.Model, c RenameResource) (Details, error) {
	res, ok := m.ResourceByName(c.OldName)
	if !ok {
		return nil, NotFoundError{Kind: KindResource, Name: c.OldName}
	}
	if _, ok := m.ResourceByName(c.NewName); ok {
		return nil, AlreadyExistsError{Kind: KindResource, Name: c.NewName}
	}
	res.Name = c.NewName
	return RenameResource{OldName: c.NewName, NewName: c.OldName}, nil
}

func applyDeleteResource(m *model.Model, c DeleteResource) (Details, error) {
	res, ok := m.ResourceByName(c.Name)
	if !ok {
		return nil, NotFoundError{Kind: KindResource, Name: c.Name}
	}
	if len(res.AssignedTasks) > 0 {
		return nil, InvalidStateError{Reason: fmt.Sprintf("resource %q still has assigned tasks", c.Name)}
	}
	if len(res.WatchedTasks) > 0 {
		return nil, InvalidStateError{Reason: fmt.Sprintf("resource %q still watches tasks", c.Name)}
	}
	if m.ResourceHasWorklogs(res.ID) {
		return nil, InvalidStateError{Reason: fmt.Sprintf("resource %q still has worklogs", c.Name)}
	}
	teamName := ""
	if team, ok := m.Teams[res.TeamID]; ok {
		teamName = team.Name
		delete(team.Resources, res.ID)
	}
	delete(m.Resources, res.ID)
	return CreateResource{Name: c.Name, Team: teamName}, nil
}

func applySwitchTeam(m *model.Model, c SwitchTeam) (Details, error) {
	res, ok := m.ResourceByName(c.Resource)
	if !ok {
		return nil, NotFoundError{Kind: KindResource, Name: c.Resource}
	}
	newTeam, ok := m.TeamByName(c.Team)
	if !ok {
		return nil, NotFoundError{Kind: KindTeam, Name: c.Team}
	}
	oldName := ""
	if oldTeam, ok := m.Teams[res.TeamID]; ok {
		oldName = oldTeam.Name
		delete(oldTeam.Resources, res.ID)
	}
	res.TeamID = newTeam.ID
	newTeam.Resources[res.ID] = struct{}{}
	return SwitchTeam{Resource: c.Resource, Team: oldName}, nil
}

// applyCreateTask inserts the task at the caller-assigned id. An
// existing task under the same id is overwritten; callers are expected
// to hand out fresh ids.
func applyCreateTask(m *model.Model, c CreateTask) (Details, error) {
	m.Tasks[c.ID] = &model.Task{
		ID:        c.ID,
		Ticket:    c.Ticket,
		Title:     c.Title,
		Duration:  c.Duration,
		Labels:    make(map[model.LabelID]struct{}),
		Watchers:  make(map[model.ResourceID]struct{}),
		CreatedAt: m.Now(),
	}
	return DeleteTask{ID: c.ID}, nil
}

func applyUpdateTask(m *model.Model, c UpdateTask) (Details, error) {
	task, ok := m.Tasks[c.ID]
	if !ok {
		return nil, NotFoundError{Kind: KindTask, Name: fmt.Sprint(c.ID)}
	}
	inverse := UpdateTask{ID: c.ID, Ticket: task.Ticket, Title: task.Title, Duration: task.Duration}
	task.Ticket = c.Ticket
	task.Title = c.Title
	task.Duration = c.Duration
	return inverse, nil
}

func applyDeleteTask(m *model.Model, c DeleteTask) (Details, error) {
	task, ok := m.Tasks[c.ID]
	if !ok {
		return nil, NotFoundError{Kind: KindTask, Name: fmt.Sprint(c.ID)}
	}
	if task.Assignee != nil {
		return nil, InvalidStateError{Reason: fmt.Sprintf("task %d is still assigned", c.ID)}
	}
	if len(task.Watchers) > 0 {
		return nil, InvalidStateError{Reason: fmt.Sprintf("task %d still has watchers", c.ID)}
	}
	if m.TaskHasWorklogs(c.ID) {
		return nil, InvalidStateError{Reason: fmt.Sprintf("task %d still has worklogs", c.ID)}
	}
	delete(m.Tasks, c.ID)
	return CreateTask{ID: c.ID, Ticket: task.Ticket, Title: task.Title, Duration: task.Duration}, nil
}

// detachTask removes the task from its current assignee's priority list
// and clears the assignee. Returns the old resource and list position.
func detachTask(m *model.Model, task *model.Task) (*model.Resource, int) {
	if task.Assignee == nil {
		return nil, 0
	}
	res := m.Resources[*task.Assignee]
	pos := taskIndex(res.AssignedTasks, task.ID)
	res.AssignedTasks = append(res.AssignedTasks[:pos], res.AssignedTasks[pos+1:]...)
	task.Assignee = nil
	return res, pos
}

func taskIndex(list []model.TaskID, id model.TaskID) int {
	for i, t := range list {
		if t == id {
			return i
		}
	}
	return -1
}

// reassignInverse builds the command that puts a task back onto its
// previous assignee at its previous position. Assigning always prepends
// at the top, so a nonzero position needs a follow-up priority move.
func reassignInverse(m *model.Model, id model.TaskID, oldRes *model.Resource, oldPos int) Details {
	if oldRes == nil {
		return UnassignTask{ID: id}
	}
	assign := AssignTask{ID: id, Resource: oldRes.Name}
	if oldPos == 0 {
		return assign
	}
	now := m.Now()
	return Compound{Commands: []Command{
		{At: now, Details: assign},
		{At: now, Details: ChangeTaskPriority{ID: id, Delta: oldPos}},
	}}
}

func applyAssignTask(m *model.Model, c AssignTask) (Details, error) {
	task, ok := m.Tasks[c.ID]
	if !ok {
		return nil, NotFoundError{Kind: KindTask, Name: fmt.Sprint(c.ID)}
	}
	res, ok := m.ResourceByName(c.Resource)
	if !ok {
		return nil, NotFoundError{Kind: KindResource, Name: c.Resource}
	}
	oldRes, oldPos := detachTask(m, task)
	id := res.ID
	task.Assignee = &id
	res.AssignedTasks = append([]model.TaskID{c.ID}, res.AssignedTasks...)
	return reassignInverse(m, c.ID, oldRes, oldPos), nil
}

func applyUnassignTask(m *model.Model, c UnassignTask) (Details, error) {
	task, ok := m.Tasks[c.ID]
	if !ok {
		return nil, NotFoundError{Kind: KindTask, Name: fmt.Sprint(c.ID)}
	}
	if task.Assignee == nil {
		return nil, InvalidStateError{Reason: fmt.Sprintf("task %d is not assigned", c.ID)}
	}
	oldRes, oldPos := detachTask(m, task)
	return reassignInverse(m, c.ID, oldRes, oldPos), nil
}

func applyChangeTaskPriority(m *model.Model, id model.TaskID, delta int) (Details, error) {
	task, ok := m.Tasks[id]
	if !ok {
		return nil, NotFoundError{Kind: KindTask, Name: fmt.Sprint(id)}
	}
	if task.Assignee == nil {
		return nil, InvalidStateError{Reason: fmt.Sprintf("task %d is not assigned", id)}
	}
	res := m.Resources[*task.Assignee]
	pos := taskIndex(res.AssignedTasks, id)
	newPos := pos + delta
	if newPos < 0 || newPos >= len(res.AssignedTasks) {
		return nil, InvalidStateError{
			Reason: fmt.Sprintf("priority move of task %d to position %d is out of bounds", id, newPos),
		}
	}
	list := append(res.AssignedTasks[:pos], res.AssignedTasks[pos+1:]...)
	list = append(list[:newPos], append([]model.TaskID{id}, list[newPos:]...)...)
	res.AssignedTasks = list
	return ChangeTaskPriority{ID: id, Delta: -delta}, nil
}

func applyPrioritizeTask(m *model.Model, c PrioritizeTask) (Details, error) {
	pos, _, err := assignedPosition(m, c.ID)
	if err != nil {
		return nil, err
	}
	delta := -1
	if c.ToTop {
		delta = -pos
	}
	if pos == 0 {
		delta = 0
	}
	return applyChangeTaskPriority(m, c.ID, delta)
}

func applyDeprioritizeTask(m *model.Model, c DeprioritizeTask) (Details, error) {
	pos, listLen, err := assignedPosition(m, c.ID)
	if err != nil {
		return nil, err
	}
	delta := 1
	if c.ToBottom {
		delta = listLen - 1 - pos
	}
	if pos == listLen-1 {
		delta = 0
	}
	return applyChangeTaskPriority(m, c.ID, delta)
}

func assignedPosition(m *model.Model, id model.TaskID) (pos, listLen int, err error) {
	task, ok := m.Tasks[id]
	if !ok {
		return 0, 0, NotFoundError{Kind: KindTask, Name: fmt.Sprint(id)}
	}
	if task.Assignee == nil {
		return 0, 0, InvalidStateError{Reason: fmt.Sprintf("task %d is not assigned", id)}
	}
	res := m.Resources[*task.Assignee]
	return taskIndex(res.AssignedTasks, id), len(res.AssignedTasks), nil
}

func applyAddWatcher(m *model.Model, c AddWatcher) (Details, error) {
	task, ok := m.Tasks[c.ID]
	if !ok {
		return nil, NotFoundError{Kind: KindTask, Name: fmt.Sprint(c.ID)}
	}
	res, ok := m.ResourceByName(c.Resource)
	if !ok {
		return nil, NotFoundError{Kind: KindResource, Name: c.Resource}
	}
	if _, ok := task.Watchers[res.ID]; ok {
		return nil, InvalidStateError{Reason: fmt.Sprintf("%q already watches task %d", c.Resource, c.ID)}
	}
	task.Watchers[res.ID] = struct{}{}
	res.WatchedTasks[c.ID] = struct{}{}
	return RemoveWatcher{ID: c.ID, Resource: c.Resource}, nil
}

func applyRemoveWatcher(m *model.Model, c RemoveWatcher) (Details, error) {
	task, ok := m.Tasks[c.ID]
	if !ok {
		return nil, NotFoundError{Kind: KindTask, Name: fmt.Sprint(c.ID)}
	}
	res, ok := m.ResourceByName(c.Resource)
	if !ok {
		return nil, NotFoundError{Kind: KindResource, Name: c.Resource}
	}
	if _, ok := task.Watchers[res.ID]; !ok {
		return nil, InvalidStateError{Reason: fmt.Sprintf("%q does not watch task %d", c.Resource, c.ID)}
	}
	delete(task.Watchers, res.ID)
	delete(res.WatchedTasks, c.ID)
	return AddWatcher{ID: c.ID, Resource: c.Resource}, nil
}

func applyCreateLabel(m *model.Model, c CreateLabel) (Details, error) {
	if _, ok := m.LabelByName(c.Name); ok {
		return nil, AlreadyExistsError{Kind: KindLabel, Name: c.Name}
	}
	id := m.AllocLabelID()
	m.Labels[id] = &model.Label{ID: id, Name: c.Name, CreatedAt: m.Now()}
	return DeleteLabel{Name: c.Name}, nil
}

// applyRenameLabel renames without a collision check, unlike the other
// rename commands.
func applyRenameLabel(m *model.Model, c RenameLabel) (Details, error) {
	label, ok := m.LabelByName(c.OldName)
	if !ok {
		return nil, NotFoundError{Kind: KindLabel, Name: c.OldName}
	}
	label.Name = c.NewName
	return RenameLabel{OldName: c.NewName, NewName: c.OldName}, nil
}

// applyDeleteLabel removes the label entry only; tasks and filters keep
// any (now dangling) references to its id.
func applyDeleteLabel(m *model.Model, c DeleteLabel) (Details, error) {
	label, ok := m.LabelByName(c.Name)
	if !ok {
		return nil, NotFoundError{Kind: KindLabel, Name: c.Name}
	}
	delete(m.Labels, label.ID)
	return CreateLabel{Name: c.Name}, nil
}

func applyAddLabelToTask(m *model.Model, c AddLabelToTask) (Details, error) {
	task, ok := m.Tasks[c.ID]
	if !ok {
		return nil, NotFoundError{Kind: KindTask, Name: fmt.Sprint(c.ID)}
	}
	label, ok := m.LabelByName(c.Label)
	if !ok {
		return nil, NotFoundError{Kind: KindLabel, Name: c.Label}
	}
	if _, ok := task.Labels[label.ID]; ok {
		return nil, InvalidStateError{Reason: fmt.Sprintf("task %d already has label %q", c.ID, c.Label)}
	}
	task.Labels[label.ID] = struct{}{}
	return RemoveLabelFromTask{ID: c.ID, Label: c.Label}, nil
}

func applyRemoveLabelFromTask(m *model.Model, c RemoveLabelFromTask) (Details, error) {
	task, ok := m.Tasks[c.ID]
	if !ok {
		return nil, NotFoundError{Kind: KindTask, Name: fmt.Sprint(c.ID)}
	}
	label, ok := m.LabelByName(c.Label)
	if !ok {
		return nil, NotFoundError{Kind: KindLabel, Name: c.Label}
	}
	if _, ok := task.Labels[label.ID]; !ok {
		return nil, InvalidStateError{Reason: fmt.Sprintf("task %d does not have label %q", c.ID, c.Label)}
	}
	delete(task.Labels, label.ID)
	return AddLabelToTask{ID: c.ID, Label: c.Label}, nil
}

// labelNames maps a label id set back to sorted names, skipping ids
// whose label no longer exists.
func labelNames(m *model.Model, ids map[model.LabelID]struct{}) []string {
	names := make([]string, 0, len(ids))
	for id := range ids {
		if label, ok := m.Labels[id]; ok {
			names = append(names, label.Name)
		}
	}
	sort.Strings(names)
	return names
}

func applyCreateModifyFilter(m *model.Model, c CreateModifyFilter) (Details, error) {
	labelIDs := make(map[model.LabelID]struct{}, len(c.Labels))
	for _, name := range c.Labels {
		label, ok := m.LabelByName(name)
		if !ok {
			return nil, NotFoundError{Kind: KindLabel, Name: name}
		}
		labelIDs[label.ID] = struct{}{}
	}
	if filter, ok := m.FilterByName(c.Name); ok {
		inverse := CreateModifyFilter{
			Name:     c.Name,
			Labels:   labelNames(m, filter.Labels),
			Favorite: filter.Favorite,
		}
		filter.Labels = labelIDs
		filter.Favorite = c.Favorite
		return inverse, nil
	}
	id := m.AllocFilterID()
	m.Filters[id] = &model.Filter{
		ID:        id,
		Name:      c.Name,
		Labels:    labelIDs,
		Favorite:  c.Favorite,
		CreatedAt: m.Now(),
	}
	return DeleteFilter{Name: c.Name}, nil
}

func applyRenameFilter(m *model.Model, c RenameFilter) (Details, error) {
	filter, ok := m.FilterByName(c.OldName)
	if !ok {
		return nil, NotFoundError{Kind: KindFilter, Name: c.OldName}
	}
	if _, ok := m.FilterByName(c.NewName); ok {
		return nil, AlreadyExistsError{Kind: KindFilter, Name: c.NewName}
	}
	filter.Name = c.NewName
	return RenameFilter{OldName: c.NewName, NewName: c.OldName}, nil
}

func applyDeleteFilter(m *model.Model, c DeleteFilter) (Details, error) {
	filter, ok := m.FilterByName(c.Name)
	if !ok {
		return nil, NotFoundError{Kind: KindFilter, Name: c.Name}
	}
	inverse := CreateModifyFilter{
		Name:     c.Name,
		Labels:   labelNames(m, filter.Labels),
		Favorite: filter.Favorite,
	}
	delete(m.Filters, filter.ID)
	return inverse, nil
}

func applySetWorklog(m *model.Model, c SetWorklog) (Details, error) {
	if _, ok := m.Tasks[c.ID]; !ok {
		return nil, NotFoundError{Kind: KindTask, Name: fmt.Sprint(c.ID)}
	}
	res, ok := m.ResourceByName(c.Resource)
	if !ok {
		return nil, NotFoundError{Kind: KindResource, Name: c.Resource}
	}
	if c.Fraction < 0 || c.Fraction > model.FractionsPerDay {
		return nil, InvalidStateError{Reason: fmt.Sprintf("worklog fraction %d out of range", c.Fraction)}
	}
	prev := m.WorklogFraction(c.ID, res.ID, c.Date)
	if c.Fraction == 0 && prev == 0 {
		return nil, InvalidStateError{
			Reason: fmt.Sprintf("no worklog for task %d by %q on %s", c.ID, c.Resource, c.Date),
		}
	}
	m.SetWorklogFraction(c.ID, res.ID, c.Date, c.Fraction)
	return SetWorklog{ID: c.ID, Date: c.Date, Resource: c.Resource, Fraction: prev}, nil
}

// absenceSpan is the interval width of an absence in calendar days: the
// whole days plus one more day for a trailing fraction. Zero only for a
// zero duration.
func absenceSpan(d model.Duration) int64 {
	span := int64(d.Days)
	if d.Fraction > 0 {
		span++
	}
	return span
}

func applySetAbsence(m *model.Model, c SetAbsence) (Details, error) {
	res, ok := m.ResourceByName(c.Resource)
	if !ok {
		return nil, NotFoundError{Kind: KindResource, Name: c.Resource}
	}

	span := absenceSpan(c.Duration)
	var kept, removed []model.Absence
	for _, a := range res.Absences {
		aEnd := int64(a.Start) + absenceSpan(a.Duration)
		var hit bool
		if span == 0 {
			// A zero duration targets the absence covering the start day.
			hit = int64(a.Start) <= int64(c.Start) && int64(c.Start) < aEnd
		} else {
			hit = int64(a.Start) < int64(c.Start)+span && int64(c.Start) < aEnd
		}
		if hit {
			removed = append(removed, a)
		} else {
			kept = append(kept, a)
		}
	}
	if !c.Duration.IsZero() {
		kept = append(kept, model.Absence{Start: c.Start, Duration: c.Duration})
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].Start < kept[j].Start })
	res.Absences = kept

	var inverses []Command
	now := m.Now()
	if !c.Duration.IsZero() {
		inverses = append(inverses, Command{
			At:      now,
			Details: SetAbsence{Resource: c.Resource, Start: c.Start, Duration: model.Duration{}},
		})
	}
	for _, a := range removed {
		inverses = append(inverses, Command{
			At:      now,
			Details: SetAbsence{Resource: c.Resource, Start: a.Start, Duration: a.Duration},
		})
	}
	switch len(inverses) {
	case 0:
		return NoOp{}, nil
	case 1:
		return inverses[0].Details, nil
	default:
		return Compound{Commands: inverses}, nil
	}
}

func applyAddMilestone(m *model.Model, c AddMilestone) (Details, error) {
	m.Milestones = append(m.Milestones, model.Milestone{Date: c.Date, Title: c.Title})
	return RemoveMilestone{Title: c.Title}, nil
}

// applyRemoveMilestone removes the first milestone matching the title;
// titles are the lookup key even though they are not unique.
func applyRemoveMilestone(m *model.Model, c RemoveMilestone) (Details, error) {
	for i, ms := range m.Milestones {
		if ms.Title == c.Title {
			m.Milestones = append(m.Milestones[:i], m.Milestones[i+1:]...)
			return AddMilestone{Date: ms.Date, Title: ms.Title}, nil
		}
	}
	return nil, NotFoundError{Kind: KindMilestone, Name: c.Title}
}

// applyCompound runs every sub-command against a deep clone of the
// model and swaps the clone in only when all of them succeed. The first
// failure aborts with the live model untouched.
func applyCompound(m *model.Model, c Compound) (Details, error) {
	clone := m.Clone()
	inverses := make([]Command, 0, len(c.Commands))
	for i, sub := range c.Commands {
		inv, err := Apply(clone, sub.Details)
		if err != nil {
			return nil, CompoundError{Index: i, Err: err}
		}
		inverses = append(inverses, Command{At: sub.At, Details: inv})
	}
	for i, j := 0, len(inverses)-1; i < j; i, j = i+1, j-1 {
		inverses[i], inverses[j] = inverses[j], inverses[i]
	}
	m.ReplaceWith(clone)
	return Compound{Commands: inverses}, nil
}
