package store

import (
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Dialect hides the differences between the supported SQL databases.
type Dialect interface {
	// Name identifies the dialect in config and logs.
	Name() string
	// DriverName is the database/sql driver name.
	DriverName() string
	// DSN builds the data source name from the config.
	DSN(cfg Config) (string, error)
	// Rebind rewrites ? placeholders into the dialect's syntax.
	Rebind(query string) string
	// Configure applies connection settings after opening.
	Configure(db *sql.DB) error
	// Migrations returns the schema, one statement per step, in order.
	Migrations() []string
	// UpsertSetting returns the statement that inserts or replaces a setting.
	UpsertSetting() string
}

// DialectFor returns the dialect for a database type name.
func DialectFor(dbType string) (Dialect, error) {
	switch strings.ToLower(dbType) {
	case "sqlite", "sqlite3", "":
		return sqliteDialect{}, nil
	case "postgres", "postgresql":
		return postgresDialect{}, nil
	case "mysql":
		return mysqlDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", dbType)
	}
}

var placeholder = regexp.MustCompile(`\?`)

// numberedPlaceholders converts ? placeholders to $1, $2, ...
func numberedPlaceholders(query string) string {
	n := 0
	return placeholder.ReplaceAllStringFunc(query, func(string) string {
		n++
		return "$" + strconv.Itoa(n)
	})
}
