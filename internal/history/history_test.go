package history

import (
	"errors"
	"reflect"
	"sort"
	"testing"
	"time"

	"github.com/nhle/planboard/internal/command"
	"github.com/nhle/planboard/internal/model"
)

func invoke(t *testing.T, h *History, m *model.Model, d command.Details) {
	t.Helper()
	if err := h.Invoke(m, command.New(time.Now(), d)); err != nil {
		t.Fatalf("invoking %T: %v", d, err)
	}
}

func teamNames(m *model.Model) []string {
	names := []string{}
	for _, team := range m.Teams {
		names = append(names, team.Name)
	}
	return names
}

func TestUndoRedoRoundTrip(t *testing.T) {
	m := model.New()
	h := New()

	cmds := []command.Details{
		command.CreateTeam{Name: "Dev"},
		command.CreateResource{Name: "Alice", Team: "Dev"},
		command.CreateTask{ID: 1, Ticket: "PB-1", Title: "Engine", Duration: model.Duration{Days: 1}},
		command.AssignTask{ID: 1, Resource: "Alice"},
	}
	for _, d := range cmds {
		invoke(t, h, m, d)
	}
	if h.Applied() != len(cmds) {
		t.Fatalf("applied = %d, want %d", h.Applied(), len(cmds))
	}

	for i := 0; i < len(cmds); i++ {
		if err := h.Undo(m); err != nil {
			t.Fatalf("undo %d: %v", i, err)
		}
	}
	if len(m.Teams) != 0 || len(m.Resources) != 0 || len(m.Tasks) != 0 {
		t.Fatalf("state not empty after undoing everything: %d teams, %d resources, %d tasks",
			len(m.Teams), len(m.Resources), len(m.Tasks))
	}
	if h.CanUndo() {
		t.Errorf("CanUndo true at the bottom of the stack")
	}

	// Redo a prefix only.
	for i := 0; i < 2; i++ {
		if err := h.Redo(m); err != nil {
			t.Fatalf("redo %d: %v", i, err)
		}
	}
	if _, ok := m.ResourceByName("Alice"); !ok {
		t.Errorf("redo did not restore the resource")
	}
	if len(m.Tasks) != 0 {
		t.Errorf("redo went further than requested")
	}
}

func TestUndoEmptyHistory(t *testing.T) {
	m := model.New()
	h := New()
	var invalid command.InvalidStateError
	if err := h.Undo(m); !errors.As(err, &invalid) {
		t.Errorf("undo on empty history: got %v", err)
	}
	if err := h.Redo(m); !errors.As(err, &invalid) {
		t.Errorf("redo on empty history: got %v", err)
	}
}

func TestBranchDiscard(t *testing.T) {
	m := model.New()
	h := New()

	invoke(t, h, m, command.CreateTeam{Name: "Dev"})
	invoke(t, h, m, command.CreateTeam{Name: "Ops"})
	if err := h.Undo(m); err != nil {
		t.Fatalf("undo: %v", err)
	}

	// A new command while undone discards the redo tail.
	invoke(t, h, m, command.CreateTeam{Name: "QA"})
	if h.Len() != 2 {
		t.Fatalf("log length = %d, want 2 after branch discard", h.Len())
	}
	var invalid command.InvalidStateError
	if err := h.Redo(m); !errors.As(err, &invalid) {
		t.Errorf("redo after branch discard: got %v", err)
	}
	if !reflect.DeepEqual(sorted(teamNames(m)), []string{"Dev", "QA"}) {
		t.Errorf("teams = %v, want [Dev QA]", teamNames(m))
	}
}

func TestFailedCommandLeavesHistoryUntouched(t *testing.T) {
	m := model.New()
	h := New()
	invoke(t, h, m, command.CreateTeam{Name: "Dev"})

	err := h.Invoke(m, command.New(time.Now(), command.CreateTeam{Name: "Dev"}))
	if err == nil {
		t.Fatalf("duplicate create succeeded")
	}
	if h.Len() != 1 || h.Applied() != 1 {
		t.Errorf("failed command recorded: len=%d applied=%d", h.Len(), h.Applied())
	}
}

func TestRestoreReplaysAppliedPrefix(t *testing.T) {
	// Build a history, persist its entries, then restore into a fresh
	// model and compare.
	m := model.New()
	h := New()
	invoke(t, h, m, command.CreateTeam{Name: "Dev"})
	invoke(t, h, m, command.CreateResource{Name: "Alice", Team: "Dev"})
	invoke(t, h, m, command.CreateTeam{Name: "Ops"})
	if err := h.Undo(m); err != nil {
		t.Fatalf("undo: %v", err)
	}

	entries := h.Entries()
	applied := h.Applied()

	m2 := model.New()
	h2 := New()
	if err := h2.Restore(m2, entries, applied); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !reflect.DeepEqual(sorted(teamNames(m2)), sorted(teamNames(m))) {
		t.Errorf("restored teams %v != %v", teamNames(m2), teamNames(m))
	}
	if !h2.CanRedo() {
		t.Errorf("entries beyond the cursor were not retained for redo")
	}
	if err := h2.Redo(m2); err != nil {
		t.Fatalf("redo after restore: %v", err)
	}
	if _, ok := m2.TeamByName("Ops"); !ok {
		t.Errorf("redo after restore did not recreate the undone team")
	}
}

func TestRestoreRejectsBadCursor(t *testing.T) {
	h := New()
	if err := h.Restore(model.New(), nil, 1); err == nil {
		t.Errorf("cursor beyond entries accepted")
	}
}

func sorted(s []string) []string {
	out := append([]string(nil), s...)
	sort.Strings(out)
	return out
}
