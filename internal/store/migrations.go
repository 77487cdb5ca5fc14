package store

import "fmt"

const createMigrationsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY
)`

// runMigrations applies every dialect migration that has not run yet.
// Versions are 1-based positions in Dialect.Migrations.
func (s *Store) runMigrations() error {
	if _, err := s.db.Exec(createMigrationsTable); err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	applied := map[int]bool{}
	rows, err := s.db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			rows.Close()
			return err
		}
		applied[v] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for i, stmt := range s.dialect.Migrations() {
		version := i + 1
		if applied[version] {
			continue
		}

		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", version, err)
		}
		if _, err := s.db.Exec(s.dialect.Rebind("INSERT INTO schema_migrations (version) VALUES (?)"), version); err != nil {
			return fmt.Errorf("record migration %d: %w", version, err)
		}
	}

	return nil
}
