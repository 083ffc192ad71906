// Package db provides the persistence layer used by the application. It
// wraps a SQLite database and exposes helper methods for storing per-user
// liked-song lists and the most recent suggestion results. Callers are
// expected to open a single Store with New and reuse it for all operations.
// Liked-song writes are expressed as a deterministic set diff so unchanged
// rows keep their identity across requests.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store wraps a sql.DB connection and exposes helper methods for the
// application's persistence layer.
type Store struct {
	*sql.DB
}

// New opens the SQLite database located at path. If the file does not exist
// it is created along with the required schema.
func New(path string) (*Store, error) {
	d, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS liked_songs (id INTEGER PRIMARY KEY AUTOINCREMENT, user_id TEXT NOT NULL, song_name TEXT NOT NULL)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_liked_user_song ON liked_songs(user_id, song_name)`,
		`CREATE TABLE IF NOT EXISTS suggestions (id INTEGER PRIMARY KEY AUTOINCREMENT, user_id TEXT NOT NULL, external_id TEXT NOT NULL, title TEXT NOT NULL, artist_name TEXT NOT NULL, score REAL NOT NULL, created_at TIMESTAMP)`,
		`CREATE INDEX IF NOT EXISTS idx_suggestions_user ON suggestions(user_id)`,
	}
	// Execute the schema creation statements. Errors here likely mean the
	// database file is not writable.
	for _, s := range stmts {
		if _, err := d.Exec(s); err != nil {
			d.Close()
			return nil, fmt.Errorf("init db: %w", err)
		}
	}
	return &Store{d}, nil
}

// LikedSongs returns the stored liked-song names for userID in insertion
// order.
func (s *Store) LikedSongs(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.QueryContext(ctx, `SELECT song_name FROM liked_songs WHERE user_id=? ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var songs []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		songs = append(songs, name)
	}
	return songs, rows.Err()
}

// SaveLikedSongs reconciles the stored list for userID with songs. Songs
// present in the new set but absent from storage are inserted, stored songs
// missing from the new set are deleted, and unchanged songs are left
// untouched so their row identity survives. The whole diff is applied in a
// single transaction.
func (s *Store) SaveLikedSongs(ctx context.Context, userID string, songs []string) error {
	incoming := make(map[string]struct{}, len(songs))
	for _, name := range songs {
		incoming[name] = struct{}{}
	}

	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `SELECT song_name FROM liked_songs WHERE user_id=?`, userID)
	if err != nil {
		return err
	}
	existing := make(map[string]struct{})
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return err
		}
		existing[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	for _, name := range songs {
		if _, ok := existing[name]; !ok {
			if _, err := tx.ExecContext(ctx, `INSERT INTO liked_songs(user_id, song_name) VALUES(?, ?)`, userID, name); err != nil {
				return err
			}
			// Guard against duplicates in the input list.
			existing[name] = struct{}{}
		}
	}
	for name := range existing {
		if _, ok := incoming[name]; !ok {
			if _, err := tx.ExecContext(ctx, `DELETE FROM liked_songs WHERE user_id=? AND song_name=?`, userID, name); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// Suggestion is one stored ranked result row for the polling endpoint.
type Suggestion struct {
	ExternalID string
	Title      string
	Artist     string
	Score      float64
}

// ReplaceSuggestions overwrites the stored suggestion list for userID with
// results. Old rows are cleared first so the table always reflects the most
// recent pipeline run.
func (s *Store) ReplaceSuggestions(ctx context.Context, userID string, results []Suggestion) error {
	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM suggestions WHERE user_id=?`, userID); err != nil {
		return err
	}
	now := time.Now()
	for _, r := range results {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO suggestions(user_id, external_id, title, artist_name, score, created_at) VALUES(?,?,?,?,?,?)`,
			userID, r.ExternalID, r.Title, r.Artist, r.Score, now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Suggestions returns the stored results for userID ordered by score
// descending, best match first.
func (s *Store) Suggestions(ctx context.Context, userID string) ([]Suggestion, error) {
	rows, err := s.QueryContext(ctx,
		`SELECT external_id, title, artist_name, score FROM suggestions WHERE user_id=? ORDER BY score DESC, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Suggestion
	for rows.Next() {
		var sg Suggestion
		if err := rows.Scan(&sg.ExternalID, &sg.Title, &sg.Artist, &sg.Score); err != nil {
			return nil, err
		}
		res = append(res, sg)
	}
	return res, rows.Err()
}
