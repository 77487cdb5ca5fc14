package store

import (
	"database/sql"
	"errors"
	"time"

	_ "github.com/lib/pq"
)

type postgresDialect struct{}

func (postgresDialect) Name() string       { return "postgres" }
func (postgresDialect) DriverName() string { return "postgres" }

func (postgresDialect) DSN(cfg Config) (string, error) {
	if cfg.URL == "" {
		return "", errors.New("postgres: database URL is required")
	}
	return cfg.URL, nil
}

func (postgresDialect) Rebind(query string) string { return numberedPlaceholders(query) }

func (postgresDialect) Configure(db *sql.DB) error {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(time.Minute)
	return nil
}

func (postgresDialect) Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at TIMESTAMPTZ NOT NULL,
			ended_at TIMESTAMPTZ
		)`,

		`CREATE TABLE IF NOT EXISTS learning_progress (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			module TEXT NOT NULL,
			activity TEXT NOT NULL,
			success BOOLEAN NOT NULL,
			attempts INTEGER NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
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
			would_recommend BOOLEAN NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS settings (
			name TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}
}

func (postgresDialect) UpsertSetting() string {
	return `INSERT INTO settings (name, value) VALUES (?, ?)
		ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value`
}
