package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/2nist/dawsheet/internal/song"
	"github.com/2nist/dawsheet/internal/storage"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "library.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return store
}

func testSong(id string) song.Song {
	return song.Song{
		V:      song.Version,
		SongID: id,
		Meta: song.Meta{
			Title:         "Test Song",
			Artist:        "Nobody",
			BPM:           120,
			Key:           "C",
			TimeSignature: "4/4",
		},
		Sections: []song.Section{
			{SectionID: "a", SectionName: "A", LengthBars: 4,
				Chords: []song.Chord{{Symbol: "C", Beats: 4}}},
		},
		Arrangement: []song.ArrangementItem{
			{ArrangementIndex: 1, SectionID: "a", StartBar: 1},
		},
	}
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(""); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestPutGetSongRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	input := testSong("song-1")
	if err := store.PutSong(context.Background(), input); err != nil {
		t.Fatalf("put song: %v", err)
	}

	got, err := store.GetSong(context.Background(), "song-1")
	if err != nil {
		t.Fatalf("get song: %v", err)
	}
	if got.SongID != input.SongID {
		t.Fatalf("song_id = %q, want %q", got.SongID, input.SongID)
	}
	if got.Meta.Title != input.Meta.Title {
		t.Fatalf("title = %q, want %q", got.Meta.Title, input.Meta.Title)
	}
	if len(got.Sections) != 1 || got.Sections[0].Chords[0].Symbol != "C" {
		t.Fatalf("sections = %+v, want one section with C", got.Sections)
	}
}

func TestPutSongReplacesDocument(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	input := testSong("song-2")
	if err := store.PutSong(context.Background(), input); err != nil {
		t.Fatalf("put song: %v", err)
	}
	input.Meta.Title = "Renamed"
	if err := store.PutSong(context.Background(), input); err != nil {
		t.Fatalf("put song again: %v", err)
	}

	got, err := store.GetSong(context.Background(), "song-2")
	if err != nil {
		t.Fatalf("get song: %v", err)
	}
	if got.Meta.Title != "Renamed" {
		t.Fatalf("title = %q, want Renamed", got.Meta.Title)
	}

	summaries, err := store.ListSongs(context.Background())
	if err != nil {
		t.Fatalf("list songs: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("len(summaries) = %d, want 1", len(summaries))
	}
}

func TestPutSongRequiresSongID(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	if err := store.PutSong(context.Background(), testSong("  ")); err == nil {
		t.Fatal("expected missing song id error")
	}
}

func TestGetSongMissingReturnsNotFound(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	if _, err := store.GetSong(context.Background(), "nope"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListSongsOrderedBySongID(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	for _, id := range []string{"song-b", "song-a", "song-c"} {
		if err := store.PutSong(context.Background(), testSong(id)); err != nil {
			t.Fatalf("put song %s: %v", id, err)
		}
	}

	summaries, err := store.ListSongs(context.Background())
	if err != nil {
		t.Fatalf("list songs: %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("len(summaries) = %d, want 3", len(summaries))
	}
	for i, want := range []string{"song-a", "song-b", "song-c"} {
		if summaries[i].SongID != want {
			t.Fatalf("summaries[%d].SongID = %q, want %q", i, summaries[i].SongID, want)
		}
	}
	if summaries[0].BPM != 120 || summaries[0].Key != "C" {
		t.Fatalf("summary = %+v, want bpm 120 key C", summaries[0])
	}
}

func TestDeleteSong(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	if err := store.PutSong(context.Background(), testSong("song-del")); err != nil {
		t.Fatalf("put song: %v", err)
	}
	if err := store.DeleteSong(context.Background(), "song-del"); err != nil {
		t.Fatalf("delete song: %v", err)
	}
	if err := store.DeleteSong(context.Background(), "song-del"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}
}
