// Package compile parses compile command flags and runs one song-to-commands
// compilation pass.
package compile

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/2nist/dawsheet/internal/command"
	"github.com/2nist/dawsheet/internal/compiler"
	"github.com/2nist/dawsheet/internal/export"
	entrypoint "github.com/2nist/dawsheet/internal/platform/cmd"
	"github.com/2nist/dawsheet/internal/song"
	"github.com/2nist/dawsheet/internal/storage/sqlite"
	"github.com/2nist/dawsheet/internal/theory"
	"github.com/2nist/dawsheet/internal/transport"
)

// Config holds compile command configuration. The song comes from either a
// document path or a library id, not both.
type Config struct {
	SongPath      string `env:"DAWSHEET_COMPILE_SONG"`
	SongID        string `env:"DAWSHEET_COMPILE_SONG_ID"`
	DBPath        string `env:"DAWSHEET_LIBRARY_DB_PATH" envDefault:"data/library.db"`
	Channel       int    `env:"DAWSHEET_COMPILE_CHANNEL" envDefault:"1"`
	Quantize      string `env:"DAWSHEET_COMPILE_QUANTIZE" envDefault:"1/8"`
	Target        string `env:"DAWSHEET_COMPILE_TARGET" envDefault:"default-midi-out"`
	OutPath       string `env:"DAWSHEET_COMPILE_OUT" envDefault:"-"`
	MIDIPath      string `env:"DAWSHEET_COMPILE_MIDI_OUT"`
	Publish       bool   `env:"DAWSHEET_COMPILE_PUBLISH"`
	PubSubURL     string `env:"DAWSHEET_COMPILE_PUBSUB_URL"`
	PubSubProject string `env:"DAWSHEET_COMPILE_PUBSUB_PROJECT"`
	PubSubTopic   string `env:"DAWSHEET_COMPILE_PUBSUB_TOPIC" envDefault:"dawsheet-commands"`
	PubSubToken   string `env:"DAWSHEET_COMPILE_PUBSUB_TOKEN"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.SongPath, "song", cfg.SongPath, "The song document path (.json or .yaml)")
	fs.StringVar(&cfg.SongID, "song-id", cfg.SongID, "Compile a song stored in the library instead of a file")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "The library SQLite database path used with -song-id")
	fs.IntVar(&cfg.Channel, "channel", cfg.Channel, "The MIDI channel stamped on chord commands")
	fs.StringVar(&cfg.Quantize, "quantize", cfg.Quantize, "The quantize grid stamped on commands")
	fs.StringVar(&cfg.Target, "target", cfg.Target, "The routing target stamped on commands")
	fs.StringVar(&cfg.OutPath, "out", cfg.OutPath, "The command stream output path, - for stdout")
	fs.StringVar(&cfg.MIDIPath, "midi-out", cfg.MIDIPath, "Optional Standard MIDI File output path")
	fs.BoolVar(&cfg.Publish, "publish", cfg.Publish, "Publish the command stream to Pub/Sub")
	fs.StringVar(&cfg.PubSubURL, "pubsub-url", cfg.PubSubURL, "Pub/Sub endpoint override")
	fs.StringVar(&cfg.PubSubProject, "pubsub-project", cfg.PubSubProject, "Pub/Sub project id")
	fs.StringVar(&cfg.PubSubTopic, "pubsub-topic", cfg.PubSubTopic, "Pub/Sub topic id")
	fs.StringVar(&cfg.PubSubToken, "pubsub-token", cfg.PubSubToken, "Pub/Sub bearer token")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run loads the song, compiles it, and delivers the command stream to the
// configured destinations.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceCompile, func(ctx context.Context) error {
		doc, err := loadSong(ctx, cfg)
		if err != nil {
			return err
		}
		envelopes, err := CompileSong(doc, cfg)
		if err != nil {
			return err
		}

		if err := writeStream(cfg.OutPath, envelopes); err != nil {
			return err
		}
		if cfg.MIDIPath != "" {
			if err := writeMIDI(cfg.MIDIPath, doc, envelopes); err != nil {
				return err
			}
		}
		if cfg.Publish {
			pub, err := transport.NewPubSubPublisher(
				cfg.PubSubURL,
				cfg.PubSubProject,
				cfg.PubSubTopic,
				staticToken(cfg.PubSubToken),
				nil,
			)
			if err != nil {
				return err
			}
			if err := pub.Publish(ctx, envelopes); err != nil {
				return err
			}
		}
		return nil
	})
}

func loadSong(ctx context.Context, cfg Config) (song.Song, error) {
	switch {
	case cfg.SongPath != "" && cfg.SongID != "":
		return song.Song{}, fmt.Errorf("song path and song id are mutually exclusive")
	case cfg.SongPath != "":
		return song.LoadFile(cfg.SongPath)
	case cfg.SongID != "":
		store, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return song.Song{}, err
		}
		defer store.Close()
		return store.GetSong(ctx, cfg.SongID)
	default:
		return song.Song{}, fmt.Errorf("a song path or song id is required")
	}
}

// CompileSong validates, lints, and compiles one song document.
func CompileSong(doc song.Song, cfg Config) ([]command.Envelope, error) {
	if res := song.ValidateSong(doc); !res.Valid {
		return nil, fmt.Errorf("song %s is invalid: %s", doc.SongID, strings.Join(res.Errors, "; "))
	}
	for _, warning := range song.Lint(doc) {
		slog.Warn("song lint", "songId", doc.SongID, "warning", warning)
	}
	c := compiler.New(theory.NewService(), compiler.Options{
		Quantize: command.Grid(cfg.Quantize),
		Target:   cfg.Target,
	})
	return c.Compile(doc, cfg.Channel)
}

func staticToken(token string) transport.TokenSource {
	return func(context.Context) (string, error) {
		if strings.TrimSpace(token) == "" {
			return "", fmt.Errorf("pubsub token is required")
		}
		return token, nil
	}
}

func writeStream(path string, envelopes []command.Envelope) error {
	var w io.Writer = os.Stdout
	if path != "" && path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(envelopes); err != nil {
		return fmt.Errorf("encode command stream: %w", err)
	}
	return nil
}

func writeMIDI(path string, doc song.Song, envelopes []command.Envelope) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create midi file: %w", err)
	}
	defer f.Close()
	return export.WriteSMF(f, doc, envelopes, export.Options{})
}
