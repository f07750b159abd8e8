// Package history keeps the ordered undo/redo log of committed
// commands. Every entry pairs the command that was applied with the
// inverse the interpreter generated for it; a cursor marks how many
// entries are currently applied.
package history

import (
	"fmt"

	"github.com/nhle/planboard/internal/command"
	"github.com/nhle/planboard/internal/model"
)

// Entry is one committed mutation: Redo re-applies it, Undo reverts it.
type Entry struct {
	Undo command.Command `json:"undo"`
	Redo command.Command `json:"redo"`
}

// History is a linear undo/redo stack. Invoking a new command while
// some entries are undone discards the redo tail (branch loss).
type History struct {
	entries []Entry
	applied int
}

// New returns an empty history.
func New() *History {
	return &History{}
}

// Applied returns the number of entries currently applied.
func (h *History) Applied() int {
	return h.applied
}

// Len returns the total number of entries, applied or not.
func (h *History) Len() int {
	return len(h.entries)
}

// Entries returns a copy of the log for persistence.
func (h *History) Entries() []Entry {
	return append([]Entry(nil), h.entries...)
}

// CanUndo reports whether at least one entry is applied.
func (h *History) CanUndo() bool {
	return h.applied > 0
}

// CanRedo reports whether undone entries remain re-appliable.
func (h *History) CanRedo() bool {
	return h.applied < len(h.entries)
}

// Invoke applies a new command to the model and records it. Any entries
// beyond the cursor are discarded first, so doing something new after
// an undo loses the old redo branch.
func (h *History) Invoke(m *model.Model, cmd command.Command) error {
	inverse, err := command.Apply(m, cmd.Details)
	if err != nil {
		return err
	}
	h.entries = h.entries[:h.applied]
	h.entries = append(h.entries, Entry{
		Undo: command.Command{At: cmd.At, Details: inverse},
		Redo: cmd,
	})
	h.applied++
	return nil
}

// Undo reverts the most recently applied entry. The inverse freshly
// generated by the interpreter is discarded; the stored redo command
// already describes the forward direction.
func (h *History) Undo(m *model.Model) error {
	if h.applied == 0 {
		return command.InvalidStateError{Reason: "nothing to undo"}
	}
	if _, err := command.Apply(m, h.entries[h.applied-1].Undo.Details); err != nil {
		return fmt.Errorf("undoing command: %w", err)
	}
	h.applied--
	return nil
}

// Redo re-applies the first undone entry.
func (h *History) Redo(m *model.Model) error {
	if h.applied == len(h.entries) {
		return command.InvalidStateError{Reason: "nothing to redo"}
	}
	if _, err := command.Apply(m, h.entries[h.applied].Redo.Details); err != nil {
		return fmt.Errorf("redoing command: %w", err)
	}
	h.applied++
	return nil
}

// Restore rebuilds live state from a persisted log: the first applied
// redo commands are replayed through the interpreter in order, and the
// remaining entries are retained for redo without being replayed.
func (h *History) Restore(m *model.Model, entries []Entry, applied int) error {
	if applied < 0 || applied > len(entries) {
		return fmt.Errorf("applied count %d out of range for %d entries", applied, len(entries))
	}
	for i := 0; i < applied; i++ {
		if _, err := command.Apply(m, entries[i].Redo.Details); err != nil {
			return fmt.Errorf("replaying command %d: %w", i, err)
		}
	}
	h.entries = append([]Entry(nil), entries...)
	h.applied = applied
	return nil
}
