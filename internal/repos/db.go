package repos

import (
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// OpenDB opens the console's local SQLite database and ensures its schema.
// The database only holds console-side state (preferences, tokens, upload
// history); entity data lives in the backend.
func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases coherent and serializes writers.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
-- Browser-scoped key/value preferences (sidebar, filters, token)
CREATE TABLE IF NOT EXISTS kv(
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at TEXT DEFAULT CURRENT_TIMESTAMP
);

-- Files proxied to object storage
CREATE TABLE IF NOT EXISTS uploads(
  id TEXT PRIMARY KEY,
  browser_id TEXT NOT NULL,
  resource TEXT NOT NULL,
  object_key TEXT NOT NULL,
  url TEXT NOT NULL,
  content_type TEXT,
  size INTEGER NOT NULL DEFAULT 0 CHECK (size >= 0),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_uploads_created_at ON uploads(created_at);
`
	_, err := db.Exec(schema)
	return err
}
