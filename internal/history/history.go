// Package history keeps the lookup log in a local SQLite database.
// Only room metadata is recorded; stream URLs expire and are never stored.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"seam/internal/media"
)

// DefaultLimit is the number of lookups returned when no limit is given.
const DefaultLimit = 20

// Store is a handle on the lookup log.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the lookup log at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("creating history dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history schema: %w", err)
	}
	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS lookups (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		platform    TEXT NOT NULL,
		input_id    TEXT NOT NULL,
		room_id     TEXT NOT NULL DEFAULT '',
		title       TEXT NOT NULL DEFAULT '',
		anchor      TEXT NOT NULL DEFAULT '',
		live        INTEGER NOT NULL,
		resolved_at TEXT NOT NULL
	)`)
	return err
}

// Record appends a lookup. A zero ResolvedAt is stamped with the current time.
func (s *Store) Record(ctx context.Context, l media.Lookup) error {
	if l.ResolvedAt.IsZero() {
		l.ResolvedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO lookups (platform, input_id, room_id, title, anchor, live, resolved_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		l.Platform, l.InputID, l.RoomID, l.Title, l.Anchor, l.Live,
		l.ResolvedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording lookup: %w", err)
	}
	return nil
}

// Recent returns up to limit lookups, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]media.Lookup, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, platform, input_id, room_id, title, anchor, live, resolved_at
		 FROM lookups ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var out []media.Lookup
	for rows.Next() {
		var (
			l  media.Lookup
			at string
		)
		if err := rows.Scan(&l.ID, &l.Platform, &l.InputID, &l.RoomID, &l.Title, &l.Anchor, &l.Live, &at); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		l.ResolvedAt, _ = time.Parse(time.RFC3339Nano, at)
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	return out, nil
}

// Clear removes every lookup.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM lookups`); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// FormatForDisplay creates one display line per lookup for the picker.
func FormatForDisplay(entries []media.Lookup) []string {
	items := make([]string, 0, len(entries))
	for _, e := range entries {
		display := fmt.Sprintf("[%s] %s", e.Platform, e.InputID)
		if e.Title != "" {
			display += " " + e.Title
		}
		if e.Anchor != "" {
			display += " (" + e.Anchor + ")"
		}
		if !e.Live {
			display += " [offline]"
		}
		items = append(items, display)
	}
	return items
}
