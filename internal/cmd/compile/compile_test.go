package compile

import (
	"context"
	"flag"
	"testing"

	"github.com/2nist/dawsheet/internal/song"
)

func TestParseConfig_ParsesDefaultsAndFlags(t *testing.T) {
	fs := flag.NewFlagSet("compile", flag.ContinueOnError)
	t.Setenv("DAWSHEET_COMPILE_CHANNEL", "5")
	t.Setenv("DAWSHEET_COMPILE_PUBSUB_PROJECT", "dawsheet-dev")

	cfg, err := ParseConfig(fs, []string{"-song", "songs/demo.yaml", "-quantize", "bar"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.SongPath != "songs/demo.yaml" {
		t.Fatalf("song path = %q, want %q", cfg.SongPath, "songs/demo.yaml")
	}
	if cfg.Channel != 5 {
		t.Fatalf("channel = %d, want 5", cfg.Channel)
	}
	if cfg.Quantize != "bar" {
		t.Fatalf("quantize = %q, want %q", cfg.Quantize, "bar")
	}
	if cfg.PubSubProject != "dawsheet-dev" {
		t.Fatalf("pubsub project = %q, want %q", cfg.PubSubProject, "dawsheet-dev")
	}
	if cfg.PubSubTopic != "dawsheet-commands" {
		t.Fatalf("pubsub topic = %q, want default", cfg.PubSubTopic)
	}
	if cfg.OutPath != "-" {
		t.Fatalf("out path = %q, want -", cfg.OutPath)
	}
}

func TestLoadSongSourceSelection(t *testing.T) {
	ctx := context.Background()
	if _, err := loadSong(ctx, Config{}); err == nil {
		t.Fatal("expected missing-source error")
	}
	if _, err := loadSong(ctx, Config{SongPath: "a.json", SongID: "b"}); err == nil {
		t.Fatal("expected mutually-exclusive error")
	}
}

func TestCompileSongRejectsInvalidDocument(t *testing.T) {
	doc := song.Song{V: song.Version, SongID: ""}
	if _, err := CompileSong(doc, Config{Channel: 1}); err == nil {
		t.Fatal("expected invalid song error")
	}
}

func TestCompileSongProducesStream(t *testing.T) {
	doc := song.Song{
		V:      song.Version,
		SongID: "demo",
		Meta:   song.Meta{Title: "Demo", BPM: 120, Key: "C", TimeSignature: "4/4"},
		Sections: []song.Section{
			{SectionID: "a", SectionName: "A", LengthBars: 1,
				Chords: []song.Chord{{Symbol: "C", Beats: 4}}},
		},
		Arrangement: []song.ArrangementItem{
			{ArrangementIndex: 1, SectionID: "a", StartBar: 1},
		},
	}
	envelopes, err := CompileSong(doc, Config{Channel: 1, Quantize: "1/8", Target: "default-midi-out"})
	if err != nil {
		t.Fatalf("compile song: %v", err)
	}
	if len(envelopes) != 1 {
		t.Fatalf("len(envelopes) = %d, want 1", len(envelopes))
	}
	if envelopes[0].At != "1:1" {
		t.Fatalf("at = %q, want 1:1", envelopes[0].At)
	}
}
