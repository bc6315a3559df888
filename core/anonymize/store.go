package anonymize

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store persists anonymization mappings in a SQLite database so repeated
// runs substitute consistently, including across different input files.
type Store struct {
	db *sql.DB
}

const storeSchema = `
CREATE TABLE IF NOT EXISTS mappings (
	category    TEXT NOT NULL,
	original    TEXT NOT NULL,
	replacement TEXT NOT NULL,
	PRIMARY KEY (category, original)
);
CREATE TABLE IF NOT EXISTS runs (
	id      TEXT PRIMARY KEY,
	started TEXT NOT NULL,
	input   TEXT NOT NULL
);`

// OpenStore opens (creating if necessary) the mapping store at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open mapping store: %w", err)
	}
	if _, err := db.Exec(storeSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init mapping store: %w", err)
	}
	return &Store{db: db}, nil
}

// Load returns every persisted mapping, keyed by category then original.
func (s *Store) Load() (map[string]map[string]string, error) {
	rows, err := s.db.Query(`SELECT category, original, replacement FROM mappings`)
	if err != nil {
		return nil, fmt.Errorf("load mappings: %w", err)
	}
	defer rows.Close()

	out := make(map[string]map[string]string)
	for rows.Next() {
		var cat, orig, repl string
		if err := rows.Scan(&cat, &orig, &repl); err != nil {
			return nil, fmt.Errorf("scan mapping: %w", err)
		}
		if out[cat] == nil {
			out[cat] = make(map[string]string)
		}
		out[cat][orig] = repl
	}
	return out, rows.Err()
}

// Put persists one mapping. An existing mapping for the same original is
// left untouched.
func (s *Store) Put(category, original, replacement string) error {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO mappings (category, original, replacement) VALUES (?, ?, ?)`,
		category, original, replacement)
	if err != nil {
		return fmt.Errorf("store mapping: %w", err)
	}
	return nil
}

// RecordRun registers one anonymization run and returns its id.
func (s *Store) RecordRun(input string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO runs (id, started, input) VALUES (?, ?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339), input)
	if err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}
	return id, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
