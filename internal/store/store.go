// Package store persists play sessions, the learning progress log, feedback
// and settings in SQLite, PostgreSQL or MySQL.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// Config selects and locates the database.
type Config struct {
	// Type is sqlite (default), postgres or mysql.
	Type string
	// Path is the SQLite database file.
	Path string
	// URL is the PostgreSQL or MySQL connection string.
	URL string
}

// Store is a migrated database connection.
type Store struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time

	mu   sync.Mutex
	last time.Time
}

// New opens a SQLite store at dbPath.
func New(dbPath string) (*Store, error) {
	return Open(Config{Type: "sqlite", Path: dbPath})
}

// Open connects to the configured database and runs migrations.
func Open(cfg Config) (*Store, error) {
	dialect, err := DialectFor(cfg.Type)
	if err != nil {
		return nil, err
	}

	dsn, err := dialect.DSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := dialect.Configure(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure connection: %w", err)
	}

	s := &Store{db: db, dialect: dialect, now: time.Now}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Dialect returns the SQL dialect in use.
func (s *Store) Dialect() Dialect {
	return s.dialect
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, s.dialect.Rebind(query), args...)
}

func (s *Store) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, s.dialect.Rebind(query), args...)
}

func (s *Store) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, s.dialect.Rebind(query), args...)
}

// timestamp returns the current time in UTC at microsecond precision, which
// every supported database round-trips. Successive calls strictly increase
// so that log order survives ORDER BY created_at.
func (s *Store) timestamp() time.Time {
	t := s.now().UTC().Truncate(time.Microsecond)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}
