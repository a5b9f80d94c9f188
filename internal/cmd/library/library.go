// Package library parses library command flags and runs song library
// operations against the SQLite store.
package library

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/2nist/dawsheet/internal/ingest"
	entrypoint "github.com/2nist/dawsheet/internal/platform/cmd"
	"github.com/2nist/dawsheet/internal/song"
	"github.com/2nist/dawsheet/internal/storage"
	"github.com/2nist/dawsheet/internal/storage/sqlite"
)

// Config holds library command configuration. Exactly one operation field
// should be set per invocation; List wins only when nothing else is.
type Config struct {
	DBPath string `env:"DAWSHEET_LIBRARY_DB_PATH" envDefault:"data/library.db"`

	PutPath    string
	GetID      string
	DeleteID   string
	ImportPath string
	ImportID   string
	List       bool
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "The library SQLite database path")
	fs.StringVar(&cfg.PutPath, "put", cfg.PutPath, "Store a song document from this path")
	fs.StringVar(&cfg.GetID, "get", cfg.GetID, "Print the stored song with this id")
	fs.StringVar(&cfg.DeleteID, "delete", cfg.DeleteID, "Delete the stored song with this id")
	fs.StringVar(&cfg.ImportPath, "import-midi", cfg.ImportPath, "Import a Standard MIDI File as a song document")
	fs.StringVar(&cfg.ImportID, "import-id", cfg.ImportID, "The song id assigned to an imported MIDI file")
	fs.BoolVar(&cfg.List, "list", cfg.List, "List stored songs")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run opens the store and executes the configured operation.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceLibrary, func(ctx context.Context) error {
		store, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()
		return Execute(ctx, store, cfg, os.Stdout)
	})
}

// Execute runs one library operation against the store, writing results to w.
func Execute(ctx context.Context, store storage.SongStore, cfg Config, w io.Writer) error {
	switch {
	case cfg.PutPath != "":
		return putSong(ctx, store, cfg.PutPath)
	case cfg.ImportPath != "":
		return importMIDI(ctx, store, cfg.ImportPath, cfg.ImportID)
	case cfg.GetID != "":
		return getSong(ctx, store, cfg.GetID, w)
	case cfg.DeleteID != "":
		return store.DeleteSong(ctx, cfg.DeleteID)
	case cfg.List:
		return listSongs(ctx, store, w)
	default:
		return fmt.Errorf("no operation requested")
	}
}

func putSong(ctx context.Context, store storage.SongStore, path string) error {
	doc, err := song.LoadFile(path)
	if err != nil {
		return err
	}
	if res := song.ValidateSong(doc); !res.Valid {
		return fmt.Errorf("song %s is invalid: %s", doc.SongID, strings.Join(res.Errors, "; "))
	}
	for _, warning := range song.Lint(doc) {
		slog.Warn("song lint", "songId", doc.SongID, "warning", warning)
	}
	return store.PutSong(ctx, doc)
}

func importMIDI(ctx context.Context, store storage.SongStore, path, songID string) error {
	if strings.TrimSpace(songID) == "" {
		return fmt.Errorf("import-id is required with import-midi")
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open midi file: %w", err)
	}
	defer f.Close()
	doc, err := ingest.ReadSMF(f, songID, nil)
	if err != nil {
		return err
	}
	return store.PutSong(ctx, doc)
}

func getSong(ctx context.Context, store storage.SongStore, songID string, w io.Writer) error {
	doc, err := store.GetSong(ctx, songID)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode song: %w", err)
	}
	return nil
}

func listSongs(ctx context.Context, store storage.SongStore, w io.Writer) error {
	summaries, err := store.ListSongs(ctx)
	if err != nil {
		return err
	}
	for _, summary := range summaries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0f\n", summary.SongID, summary.Title, summary.Key, summary.BPM)
	}
	return nil
}
