package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

type mysqlDialect struct{}

func (mysqlDialect) Name() string       { return "mysql" }
func (mysqlDialect) DriverName() string { return "mysql" }

// DSN parses the configured DSN and forces parseTime so that DATETIME
// columns scan into time.Time.
func (mysqlDialect) DSN(cfg Config) (string, error) {
	if cfg.URL == "" {
		return "", errors.New("mysql: database URL is required")
	}

	parsed, err := mysql.ParseDSN(cfg.URL)
	if err != nil {
		return "", fmt.Errorf("mysql: parse DSN: %w", err)
	}
	parsed.ParseTime = true
	parsed.Loc = time.UTC
	return parsed.FormatDSN(), nil
}

func (mysqlDialect) Rebind(query string) string { return query }

func (mysqlDialect) Configure(db *sql.DB) error {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(time.Minute)

	if _, err := db.Exec("SET FOREIGN_KEY_CHECKS = 1"); err != nil {
		return err
	}
	return nil
}

func (mysqlDialect) Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id VARCHAR(36) PRIMARY KEY,
			started_at DATETIME(6) NOT NULL,
			ended_at DATETIME(6) NULL
		)`,

		`CREATE TABLE IF NOT EXISTS learning_progress (
			id VARCHAR(36) PRIMARY KEY,
			session_id VARCHAR(36) NOT NULL,
			module VARCHAR(64) NOT NULL,
			activity VARCHAR(64) NOT NULL,
			success BOOLEAN NOT NULL,
			attempts INT NOT NULL,
			created_at DATETIME(6) NOT NULL,
			INDEX idx_learning_progress_session (session_id, created_at),
			FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
		)`,

		`CREATE TABLE IF NOT EXISTS feedback (
			id VARCHAR(36) PRIMARY KEY,
			session_id VARCHAR(36) NULL,
			user_name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL,
			rating INT NOT NULL,
			body TEXT NOT NULL,
			difficulty VARCHAR(16) NOT NULL,
			would_recommend BOOLEAN NOT NULL,
			created_at DATETIME(6) NOT NULL,
			FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE SET NULL
		)`,

		`CREATE TABLE IF NOT EXISTS settings (
			name VARCHAR(128) PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}
}

func (mysqlDialect) UpsertSetting() string {
	return "INSERT INTO settings (name, value) VALUES (?, ?) ON DUPLICATE KEY UPDATE value = VALUES(value)"
}
