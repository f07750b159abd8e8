package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/planboard/internal/history"
)

// SQLiteStore implements the LogStore interface using a local SQLite
// database. It also satisfies project.LogWriter, so it can be handed
// straight to the orchestrator.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// SaveLog replaces the persisted command log with the given snapshot.
// The log is small relative to the model it reproduces, so a full
// rewrite per commit keeps the on-disk state trivially consistent.
func (s *SQLiteStore) SaveLog(ctx context.Context, applied int, entries []history.Entry) error {
	if applied < 0 || applied > len(entries) {
		return fmt.Errorf("applied count %d out of range for %d entries", applied, len(entries))
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM command_log"); err != nil {
		return fmt.Errorf("clearing command log: %w", err)
	}

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO command_log (id, position, undo, redo)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert statement: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		undo, err := json.Marshal(e.Undo)
		if err != nil {
			return fmt.Errorf("marshaling undo command %d: %w", i, err)
		}
		redo, err := json.Marshal(e.Redo)
		if err != nil {
			return fmt.Errorf("marshaling redo command %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, uuid.New().String(), i, string(undo), string(redo)); err != nil {
			return fmt.Errorf("inserting log entry %d: %w", i, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT OR REPLACE INTO log_state (id, applied) VALUES (1, ?)", applied,
	); err != nil {
		return fmt.Errorf("updating applied count: %w", err)
	}

	return tx.Commit()
}

// LoadLog reads the persisted command log in position order.
func (s *SQLiteStore) LoadLog(ctx context.Context) (int, []history.Entry, error) {
	var applied int
	err := s.db.GetContext(ctx, &applied, "SELECT applied FROM log_state WHERE id = 1")
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, nil, fmt.Errorf("reading applied count: %w", err)
	}

	rows, err := s.db.QueryxContext(ctx,
		"SELECT undo, redo FROM command_log ORDER BY position",
	)
	if err != nil {
		return 0, nil, fmt.Errorf("querying command log: %w", err)
	}
	defer rows.Close()

	var entries []history.Entry
	for rows.Next() {
		var undoJSON, redoJSON string
		if err := rows.Scan(&undoJSON, &redoJSON); err != nil {
			return 0, nil, fmt.Errorf("scanning log entry: %w", err)
		}
		var e history.Entry
		if err := json.Unmarshal([]byte(undoJSON), &e.Undo); err != nil {
			return 0, nil, fmt.Errorf("unmarshaling undo command: %w", err)
		}
		if err := json.Unmarshal([]byte(redoJSON), &e.Redo); err != nil {
			return 0, nil, fmt.Errorf("unmarshaling redo command: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return 0, nil, err
	}

	if applied > len(entries) {
		return 0, nil, fmt.Errorf("applied count %d exceeds %d stored entries", applied, len(entries))
	}

	return applied, entries, nil
}

// WriteLog satisfies the orchestrator's persistence collaborator
// interface. Commands are applied synchronously, so the background
// context carries no cancellation.
func (s *SQLiteStore) WriteLog(applied int, entries []history.Entry) error {
	return s.SaveLog(context.Background(), applied, entries)
}
