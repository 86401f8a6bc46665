// Package store handles the SQLite sentence library.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/taja/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for the sentence library.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sentences (
			id INTEGER PRIMARY KEY,
			text TEXT NOT NULL UNIQUE,
			author TEXT NOT NULL,
			profile TEXT NOT NULL,
			added_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sentences_added_at ON sentences(added_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSentences adds sentences to the library, skipping texts that are
// already present. It returns the number of rows inserted.
func (s *Store) InsertSentences(ctx context.Context, sentences []model.Sentence) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO sentences (text, author, profile, added_at)
		 VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()

	now := time.Now().Format(time.RFC3339Nano)
	var inserted int64
	for _, sentence := range sentences {
		var res sql.Result
		res, err = stmt.ExecContext(ctx, sentence.Text, sentence.Author, sentence.Profile, now)
		if err != nil {
			return 0, err
		}
		var n int64
		n, err = res.RowsAffected()
		if err != nil {
			return 0, err
		}
		inserted += n
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

// ListSentences returns library sentences in insertion order. A limit of
// zero or less returns every row.
func (s *Store) ListSentences(ctx context.Context, limit int) ([]model.Sentence, error) {
	query := `SELECT text, author, profile FROM sentences ORDER BY id ASC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.Sentence
	for rows.Next() {
		var sentence model.Sentence
		if err := rows.Scan(&sentence.Text, &sentence.Author, &sentence.Profile); err != nil {
			return nil, err
		}
		result = append(result, sentence)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// CountSentences returns the number of sentences in the library.
func (s *Store) CountSentences(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sentences`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
