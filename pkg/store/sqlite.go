/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: sqlite.go
Description: Persistent membership answers. Answers are keyed by target name and word
and are never overwritten, matching the append-only session cache, so a later session
on the same target can start with everything an earlier one was told.
*/

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kleascm/automator/pkg/lstar"
	_ "modernc.org/sqlite"
)

// AnswerStore keeps membership answers in a SQLite database
type AnswerStore struct {
	db *sql.DB
}

// Open opens (or creates) the database at path with WAL mode enabled
func Open(ctx context.Context, path string) (*AnswerStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open answer store: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &AnswerStore{db: db}, nil
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS answers (
	target TEXT NOT NULL,
	word TEXT NOT NULL,
	member INTEGER NOT NULL,
	answered_at TEXT NOT NULL,
	seq INTEGER NOT NULL,
	PRIMARY KEY(target, word)
);
CREATE INDEX IF NOT EXISTS idx_answers_seq ON answers(target, seq);
`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init answer schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *AnswerStore) Close() error {
	return s.db.Close()
}

// Save records an answer. An existing answer for the same word is kept.
func (s *AnswerStore) Save(ctx context.Context, target string, word lstar.Word, member bool) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
INSERT OR IGNORE INTO answers(target, word, member, answered_at, seq)
VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM answers WHERE target = ?))`,
		target, string(word), member, time.Now().UTC().Format(time.RFC3339Nano), target)
	if err != nil {
		return false, fmt.Errorf("save answer %s: %w", word, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Lookup returns the stored answer for a word
func (s *AnswerStore) Lookup(ctx context.Context, target string, word lstar.Word) (member bool, ok bool, err error) {
	err = s.db.QueryRowContext(ctx,
		`SELECT member FROM answers WHERE target = ? AND word = ?`, target, string(word)).Scan(&member)
	if err == sql.ErrNoRows {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("lookup answer %s: %w", word, err)
	}
	return member, true, nil
}

// Entries returns every answer for a target in the order it was given
func (s *AnswerStore) Entries(ctx context.Context, target string) ([]lstar.CacheEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT word, member FROM answers WHERE target = ? ORDER BY seq`, target)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	defer rows.Close()

	var entries []lstar.CacheEntry
	for rows.Next() {
		var word string
		var member bool
		if err := rows.Scan(&word, &member); err != nil {
			return nil, err
		}
		entries = append(entries, lstar.CacheEntry{Word: lstar.Word(word), Member: member})
	}
	return entries, rows.Err()
}

// Targets lists target names with the number of stored answers
func (s *AnswerStore) Targets(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT target, COUNT(*) FROM answers GROUP BY target`)
	if err != nil {
		return nil, fmt.Errorf("list targets: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, err
		}
		counts[name] = n
	}
	return counts, rows.Err()
}

// Preload fills a session cache with the stored answers of a target and
// returns how many were added
func (s *AnswerStore) Preload(ctx context.Context, target string, cache *lstar.MembershipCache) (int, error) {
	entries, err := s.Entries(ctx, target)
	if err != nil {
		return 0, err
	}
	added := 0
	for _, e := range entries {
		if cache.Store(e.Word, e.Member) {
			added++
		}
	}
	return added, nil
}

// Recording wraps a membership oracle so every answer it gives is persisted
func (s *AnswerStore) Recording(target string, inner lstar.MembershipOracle) lstar.MembershipOracle {
	return lstar.MembershipFunc(func(ctx context.Context, word lstar.Word) (bool, error) {
		member, err := inner.Ask(ctx, word)
		if err != nil {
			return false, err
		}
		if _, err := s.Save(ctx, target, word, member); err != nil {
			return false, err
		}
		return member, nil
	})
}
