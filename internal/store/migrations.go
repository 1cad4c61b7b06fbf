package store

import "fmt"

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Dictionary entries: one row per candidate, ordered by rank within a spelling
		`CREATE TABLE IF NOT EXISTS dictionary_entries (
			id TEXT PRIMARY KEY,
			spelling TEXT NOT NULL,
			candidate TEXT NOT NULL,
			rank INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(spelling, candidate)
		)`,

		// Settings table - tuning overrides as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_dictionary_entries_spelling ON dictionary_entries(spelling, rank)`,
	}

	for i, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}

	return nil
}
