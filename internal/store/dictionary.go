package store

import (
	"database/sql"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entry is one candidate for a spelling.
type Entry struct {
	ID        string
	Spelling  string
	Candidate string
	Rank      int
	CreatedAt time.Time
}

// DictionaryRepository stores the spelling dictionary.
type DictionaryRepository struct {
	db *sql.DB
}

// Dictionary returns the dictionary repository for this store.
func (s *Store) Dictionary() *DictionaryRepository {
	return &DictionaryRepository{db: s.db}
}

// Create inserts an entry after the existing candidates of its spelling.
// An empty ID is filled with a new UUID.
func (r *DictionaryRepository) Create(e *Entry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	e.CreatedAt = time.Now()

	err := r.db.QueryRow(
		`SELECT COALESCE(MAX(rank) + 1, 0) FROM dictionary_entries WHERE spelling = ?`,
		e.Spelling,
	).Scan(&e.Rank)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(
		`INSERT INTO dictionary_entries (id, spelling, candidate, rank, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Spelling, e.Candidate, e.Rank, e.CreatedAt,
	)
	return translateError(err)
}

// GetByID retrieves an entry by its ID.
func (r *DictionaryRepository) GetByID(id string) (*Entry, error) {
	e := &Entry{}
	err := r.db.QueryRow(
		`SELECT id, spelling, candidate, rank, created_at
		 FROM dictionary_entries WHERE id = ?`,
		id,
	).Scan(&e.ID, &e.Spelling, &e.Candidate, &e.Rank, &e.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// List retrieves all entries ordered by spelling and rank.
func (r *DictionaryRepository) List() ([]*Entry, error) {
	return r.query(
		`SELECT id, spelling, candidate, rank, created_at
		 FROM dictionary_entries ORDER BY spelling, rank`,
	)
}

// ListBySpelling retrieves the candidates of one spelling in rank order.
func (r *DictionaryRepository) ListBySpelling(spelling string) ([]*Entry, error) {
	return r.query(
		`SELECT id, spelling, candidate, rank, created_at
		 FROM dictionary_entries WHERE spelling = ? ORDER BY rank`,
		spelling,
	)
}

func (r *DictionaryRepository) query(q string, args ...any) ([]*Entry, error) {
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e := &Entry{}
		if err := rows.Scan(&e.ID, &e.Spelling, &e.Candidate, &e.Rank, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// Delete removes an entry by its ID.
func (r *DictionaryRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM dictionary_entries WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Count returns the number of entries.
func (r *DictionaryRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM dictionary_entries`).Scan(&n)
	return n, err
}

// Seed fills an empty dictionary with entries, keeping the order of each
// candidate list as its rank. A dictionary that already has rows is left
// alone. It returns the number of rows inserted.
func (r *DictionaryRepository) Seed(entries map[string][]string) (int, error) {
	n, err := r.Count()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	spellings := make([]string, 0, len(entries))
	for spelling := range entries {
		spellings = append(spellings, spelling)
	}
	sort.Strings(spellings)

	tx, err := r.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	now := time.Now()
	inserted := 0
	for _, spelling := range spellings {
		for rank, candidate := range entries[spelling] {
			_, err := tx.Exec(
				`INSERT INTO dictionary_entries (id, spelling, candidate, rank, created_at)
				 VALUES (?, ?, ?, ?, ?)`,
				uuid.New().String(), spelling, candidate, rank, now,
			)
			if err != nil {
				return 0, translateError(err)
			}
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

// Load returns the whole dictionary as spelling → candidates in rank order.
func (r *DictionaryRepository) Load() (map[string][]string, error) {
	entries, err := r.List()
	if err != nil {
		return nil, err
	}

	dict := make(map[string][]string)
	for _, e := range entries {
		dict[e.Spelling] = append(dict[e.Spelling], e.Candidate)
	}
	return dict, nil
}

// translateError maps SQLite constraint failures to ErrDuplicate.
func translateError(err error) error {
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrDuplicate
	}
	return err
}
