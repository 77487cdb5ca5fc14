package store

import (
	"database/sql"
	"errors"

	_ "modernc.org/sqlite"
)

type sqliteDialect struct{}

func (sqliteDialect) Name() string       { return "sqlite" }
func (sqliteDialect) DriverName() string { return "sqlite" }

func (sqliteDialect) DSN(cfg Config) (string, error) {
	if cfg.Path == "" {
		return "", errors.New("sqlite: database path is required")
	}
	// Pragmas in the DSN apply to every connection the pool opens.
	return cfg.Path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", nil
}

func (sqliteDialect) Rebind(query string) string { return query }

func (sqliteDialect) Configure(db *sql.DB) error {
	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)
	return nil
}

func (sqliteDialect) Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at DATETIME NOT NULL,
			ended_at DATETIME
		)`,

		`CREATE TABLE IF NOT EXISTS learning_progress (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			module TEXT NOT NULL,
			activity TEXT NOT NULL,
			success INTEGER NOT NULL,
			attempts INTEGER NOT NULL,
			created_at DATETIME NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_learning_progress_session ON learning_progress(session_id, created_at)`,

		`CREATE TABLE IF NOT EXISTS feedback (
			id TEXT PRIMARY KEY,
			session_id TEXT REFERENCES sessions(id) ON DELETE SET NULL,
			user_name TEXT NOT NULL,
			email TEXT NOT NULL,
			rating INTEGER NOT NULL,
			body TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			would_recommend INTEGER NOT NULL,
			created_at DATETIME NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS settings (
			name TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}
}

func (sqliteDialect) UpsertSetting() string {
	return `INSERT INTO settings (name, value) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value`
}
