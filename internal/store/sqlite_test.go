package store_test

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/nhle/planboard/internal/command"
	"github.com/nhle/planboard/internal/history"
	"github.com/nhle/planboard/internal/model"
	"github.com/nhle/planboard/tests/testutil"
)

func sampleEntries() []history.Entry {
	at := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	return []history.Entry{
		{
			Undo: command.New(at, command.DeleteTeam{Name: "Dev"}),
			Redo: command.New(at, command.CreateTeam{Name: "Dev"}),
		},
		{
			Undo: command.New(at, command.UnassignTask{ID: 1}),
			Redo: command.New(at, command.AssignTask{ID: 1, Resource: "Alice"}),
		},
		{
			Undo: command.New(at, command.SetWorklog{ID: 1, Date: model.MakeDate(2026, time.August, 24), Resource: "Alice", Fraction: 0}),
			Redo: command.New(at, command.SetWorklog{ID: 1, Date: model.MakeDate(2026, time.August, 24), Resource: "Alice", Fraction: 50}),
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	entries := sampleEntries()

	if err := s.SaveLog(ctx, 2, entries); err != nil {
		t.Fatalf("save: %v", err)
	}
	applied, got, err := s.LoadLog(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if applied != 2 {
		t.Errorf("applied = %d, want 2", applied)
	}
	if !reflect.DeepEqual(got, entries) {
		t.Errorf("entries changed in round trip:\n%+v\n%+v", got, entries)
	}
}

func TestSaveReplacesPreviousLog(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	entries := sampleEntries()

	if err := s.SaveLog(ctx, 3, entries); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.SaveLog(ctx, 1, entries[:1]); err != nil {
		t.Fatalf("second save: %v", err)
	}
	applied, got, err := s.LoadLog(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if applied != 1 || len(got) != 1 {
		t.Errorf("applied=%d len=%d after rewrite, want 1/1", applied, len(got))
	}
}

func TestLoadEmptyDatabase(t *testing.T) {
	s := testutil.NewTestStore(t)
	applied, entries, err := s.LoadLog(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if applied != 0 || len(entries) != 0 {
		t.Errorf("fresh database returned applied=%d entries=%d", applied, len(entries))
	}
}

func TestSaveRejectsBadAppliedCount(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	if err := s.SaveLog(ctx, 2, sampleEntries()[:1]); err == nil {
		t.Errorf("applied beyond entries accepted")
	}
	if err := s.SaveLog(ctx, -1, nil); err == nil {
		t.Errorf("negative applied accepted")
	}
}

func TestWriteLogAdapter(t *testing.T) {
	s := testutil.NewTestStore(t)
	entries := sampleEntries()
	if err := s.WriteLog(len(entries), entries); err != nil {
		t.Fatalf("write: %v", err)
	}
	applied, got, err := s.LoadLog(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if applied != len(entries) || len(got) != len(entries) {
		t.Errorf("adapter round trip: applied=%d len=%d", applied, len(got))
	}
}
