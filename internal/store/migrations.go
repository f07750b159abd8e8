package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS command_log (
	id         TEXT PRIMARY KEY,
	position   INTEGER NOT NULL UNIQUE,
	undo       TEXT NOT NULL,
	redo       TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_command_log_position ON command_log(position);

CREATE TABLE IF NOT EXISTS log_state (
	id      INTEGER PRIMARY KEY CHECK(id = 1),
	applied INTEGER NOT NULL DEFAULT 0
);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
