// Package storage defines persistence contracts for the song library.
//
// Songs are stored as whole documents: the library never mutates a song in
// place, it replaces the document on save. Implementations live in
// subpackages (sqlite).
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/2nist/dawsheet/internal/song"
)

var (
	// ErrNotFound indicates a requested song record is missing.
	ErrNotFound = errors.New("record not found")
)

// SongSummary is the listing projection of a stored song.
type SongSummary struct {
	SongID    string
	Title     string
	Artist    string
	Key       string
	BPM       float64
	UpdatedAt time.Time
}

// SongStore persists song documents keyed by songId.
type SongStore interface {
	// PutSong inserts or replaces the document for its songId.
	PutSong(ctx context.Context, s song.Song) error
	// GetSong returns the stored document or ErrNotFound.
	GetSong(ctx context.Context, songID string) (song.Song, error)
	// ListSongs returns summaries ordered by songId.
	ListSongs(ctx context.Context) ([]SongSummary, error)
	// DeleteSong removes a document. Deleting a missing song returns
	// ErrNotFound.
	DeleteSong(ctx context.Context, songID string) error
}
