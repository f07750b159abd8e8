package store

import (
	"context"

	"github.com/nhle/planboard/internal/history"
)

// LogStore defines the persistence interface for the project command
// log: the number of applied entries plus the ordered (undo, redo)
// pairs. Reconstructing live state means replaying the first applied
// redo commands through the interpreter.
type LogStore interface {
	SaveLog(ctx context.Context, applied int, entries []history.Entry) error
	LoadLog(ctx context.Context) (applied int, entries []history.Entry, err error)
}
