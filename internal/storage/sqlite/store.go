// Package sqlite provides a SQLite-backed song library implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/2nist/dawsheet/internal/platform/storage/sqlitemigrate"
	"github.com/2nist/dawsheet/internal/song"
	"github.com/2nist/dawsheet/internal/storage"
	"github.com/2nist/dawsheet/internal/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists song documents in SQLite. The full document is stored as
// JSON alongside a few indexed columns for listing.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite song store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// PutSong inserts or replaces the stored document for its songId.
func (s *Store) PutSong(ctx context.Context, doc song.Song) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	songID := strings.TrimSpace(doc.SongID)
	if songID == "" {
		return fmt.Errorf("song id is required")
	}
	data, err := song.EncodeJSON(doc)
	if err != nil {
		return fmt.Errorf("encode song %s: %w", songID, err)
	}
	now := toMillis(time.Now())
	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO songs (song_id, title, artist, song_key, bpm, doc, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(song_id) DO UPDATE SET
		   title = excluded.title,
		   artist = excluded.artist,
		   song_key = excluded.song_key,
		   bpm = excluded.bpm,
		   doc = excluded.doc,
		   updated_at = excluded.updated_at`,
		songID,
		doc.Meta.Title,
		doc.Meta.Artist,
		doc.Meta.Key,
		doc.Meta.BPM,
		string(data),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("put song %s: %w", songID, err)
	}
	return nil
}

// GetSong returns the stored document or storage.ErrNotFound.
func (s *Store) GetSong(ctx context.Context, songID string) (song.Song, error) {
	if err := ctx.Err(); err != nil {
		return song.Song{}, err
	}
	if s == nil || s.sqlDB == nil {
		return song.Song{}, fmt.Errorf("storage is not configured")
	}
	var data string
	row := s.sqlDB.QueryRowContext(ctx, `SELECT doc FROM songs WHERE song_id = ?`, songID)
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return song.Song{}, storage.ErrNotFound
		}
		return song.Song{}, fmt.Errorf("get song %s: %w", songID, err)
	}
	doc, err := song.DecodeJSON([]byte(data))
	if err != nil {
		return song.Song{}, fmt.Errorf("get song %s: %w", songID, err)
	}
	return doc, nil
}

// ListSongs returns summaries for every stored song, ordered by songId.
func (s *Store) ListSongs(ctx context.Context) ([]storage.SongSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT song_id, title, artist, song_key, bpm, updated_at
		 FROM songs ORDER BY song_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	defer rows.Close()

	var summaries []storage.SongSummary
	for rows.Next() {
		var summary storage.SongSummary
		var updatedAt int64
		if err := rows.Scan(
			&summary.SongID,
			&summary.Title,
			&summary.Artist,
			&summary.Key,
			&summary.BPM,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan song summary: %w", err)
		}
		summary.UpdatedAt = fromMillis(updatedAt)
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	return summaries, nil
}

// DeleteSong removes a stored document or returns storage.ErrNotFound.
func (s *Store) DeleteSong(ctx context.Context, songID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM songs WHERE song_id = ?`, songID)
	if err != nil {
		return fmt.Errorf("delete song %s: %w", songID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete song %s: %w", songID, err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
