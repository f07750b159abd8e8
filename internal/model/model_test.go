package model

import (
	"testing"
	"time"
)

func newPopulatedModel() *Model {
	m := New()
	m.SetNowFunc(func() time.Time { return time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC) })

	teamID := m.AllocTeamID()
	m.Teams[teamID] = &Team{ID: teamID, Name: "Dev", Resources: map[ResourceID]struct{}{}}

	resID := m.AllocResourceID()
	m.Resources[resID] = &Resource{
		ID:           resID,
		Name:         "Alice",
		TeamID:       teamID,
		WatchedTasks: map[TaskID]struct{}{},
		Absences:     []Absence{{Start: MakeDate(2026, time.August, 10), Duration: Duration{Days: 2}}},
	}
	m.Teams[teamID].Resources[resID] = struct{}{}

	m.Tasks[1] = &Task{
		ID: 1, Ticket: "PB-1", Title: "Build", Duration: Duration{Days: 3},
		Labels: map[LabelID]struct{}{}, Watchers: map[ResourceID]struct{}{},
	}
	m.SetWorklogFraction(1, resID, MakeDate(2026, time.August, 3), 50)
	return m
}

func TestCloneIsIndependent(t *testing.T) {
	m := newPopulatedModel()
	cp := m.Clone()

	res, _ := cp.ResourceByName("Alice")
	res.Name = "Bob"
	res.AssignedTasks = append(res.AssignedTasks, 1)
	res.Absences[0].Duration = Duration{Days: 9}
	cp.SetWorklogFraction(1, res.ID, MakeDate(2026, time.August, 4), 75)
	cp.Tasks[1].Labels[42] = struct{}{}

	orig, ok := m.ResourceByName("Alice")
	if !ok {
		t.Fatalf("clone mutation renamed the original resource")
	}
	if len(orig.AssignedTasks) != 0 {
		t.Errorf("clone mutation leaked into original assigned list")
	}
	if orig.Absences[0].Duration != (Duration{Days: 2}) {
		t.Errorf("clone mutation leaked into original absences")
	}
	if m.WorklogFraction(1, orig.ID, MakeDate(2026, time.August, 4)) != 0 {
		t.Errorf("clone mutation leaked into original worklogs")
	}
	if len(m.Tasks[1].Labels) != 0 {
		t.Errorf("clone mutation leaked into original task labels")
	}
}

func TestCloneKeepsCounters(t *testing.T) {
	m := newPopulatedModel()
	cp := m.Clone()
	if got, want := cp.AllocTeamID(), m.AllocTeamID(); got != want {
		t.Errorf("clone counter diverged: %d != %d", got, want)
	}
}

func TestWorklogPruning(t *testing.T) {
	m := New()
	date := MakeDate(2026, time.August, 3)
	m.SetWorklogFraction(1, 2, date, 40)
	if m.WorklogFraction(1, 2, date) != 40 {
		t.Fatalf("worklog not stored")
	}
	m.SetWorklogFraction(1, 2, date, 0)
	if _, ok := m.Worklogs[1]; ok {
		t.Errorf("empty worklog maps not pruned")
	}
	if m.TaskHasWorklogs(1) {
		t.Errorf("TaskHasWorklogs true after prune")
	}
}

func TestResourceLoggedOnSumsAcrossTasks(t *testing.T) {
	m := New()
	date := MakeDate(2026, time.August, 3)
	m.SetWorklogFraction(1, 7, date, 30)
	m.SetWorklogFraction(2, 7, date, 20)
	m.SetWorklogFraction(3, 8, date, 50)
	if got := m.ResourceLoggedOn(7, date); got != 50 {
		t.Errorf("ResourceLoggedOn = %d, want 50", got)
	}
}

func TestTaskLoggedTotal(t *testing.T) {
	m := New()
	m.SetWorklogFraction(1, 7, MakeDate(2026, time.August, 3), 80)
	m.SetWorklogFraction(1, 8, MakeDate(2026, time.August, 4), 70)
	if got := m.TaskLoggedTotal(1); got != (Duration{Days: 1, Fraction: 50}) {
		t.Errorf("TaskLoggedTotal = %v, want 1.50d", got)
	}
}

func TestResetCounters(t *testing.T) {
	m := New()
	m.Teams[5] = &Team{ID: 5, Name: "Ops"}
	m.Resources[9] = &Resource{ID: 9, Name: "Eve"}
	m.ResetCounters()
	if got := m.AllocTeamID(); got != 6 {
		t.Errorf("team counter = %d, want 6", got)
	}
	if got := m.AllocResourceID(); got != 10 {
		t.Errorf("resource counter = %d, want 10", got)
	}
	if got := m.AllocLabelID(); got != 1 {
		t.Errorf("label counter = %d, want 1", got)
	}
}
