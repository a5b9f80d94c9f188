// Package ingest builds a song document from a Standard MIDI File. Note-ons
// sharing an onset are grouped into one chord and named through detection, so
// a chord chart can be recovered from a keyboard take or an exported stream.
package ingest

import (
	"fmt"
	"io"
	"math"
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/2nist/dawsheet/internal/song"
	"github.com/2nist/dawsheet/internal/theory"
	"github.com/2nist/dawsheet/internal/timing"
)

// SectionID names the single section an imported song carries.
const SectionID = "imported"

const defaultTicksPerQuarter = 480

// ReadSMF reads an SMF stream into a song document. A nil service gets the
// default detection backend.
func ReadSMF(r io.Reader, songID string, svc *theory.Service) (song.Song, error) {
	if svc == nil {
		svc = theory.NewService()
	}
	doc, err := smf.ReadFrom(r)
	if err != nil {
		return song.Song{}, fmt.Errorf("read smf: %w", err)
	}

	ticksPerQuarter := defaultTicksPerQuarter
	if tf, ok := doc.TimeFormat.(smf.MetricTicks); ok {
		ticksPerQuarter = int(tf)
	}

	bpm := 120.0
	beatsPerBar := timing.DefaultBeatsPerBar
	onsets := map[uint32][]uint8{}
	for _, track := range doc.Tracks {
		tick := uint32(0)
		for _, event := range track {
			tick += event.Delta
			msg := event.Message
			var metaBPM float64
			if msg.GetMetaTempo(&metaBPM) {
				bpm = metaBPM
				continue
			}
			var num, denom uint8
			if msg.GetMetaMeter(&num, &denom) {
				if num > 0 {
					beatsPerBar = int(num)
				}
				continue
			}
			var ch, key, vel uint8
			if msg.GetNoteOn(&ch, &key, &vel) && vel > 0 {
				onsets[tick] = append(onsets[tick], key)
			}
		}
	}
	if len(onsets) == 0 {
		return song.Song{}, fmt.Errorf("read smf: no note events")
	}

	ticks := make([]uint32, 0, len(onsets))
	for tick := range onsets {
		ticks = append(ticks, tick)
	}
	sort.Slice(ticks, func(i, j int) bool { return ticks[i] < ticks[j] })

	chords := make([]song.Chord, 0, len(ticks))
	totalBeats := 0.0
	for i, tick := range ticks {
		keys := onsets[tick]
		sort.Slice(keys, func(a, b int) bool { return keys[a] < keys[b] })
		notes := make([]string, 0, len(keys))
		for _, key := range keys {
			notes = append(notes, theory.MIDIName(key))
		}
		ch, err := svc.DetectChord(notes)
		if err != nil {
			return song.Song{}, fmt.Errorf("detect chord at tick %d: %w", tick, err)
		}
		if i+1 < len(ticks) {
			ch.Beats = float64(ticks[i+1]-tick) / float64(ticksPerQuarter)
		} else {
			ch.Beats = float64(beatsPerBar)
		}
		// Onsets closer than the minimum chord duration still count as
		// distinct chords; their length is clamped so the song validates.
		if ch.Beats < song.MinChordBeats {
			ch.Beats = song.MinChordBeats
		}
		totalBeats += ch.Beats
		chords = append(chords, ch)
	}

	lengthBars := math.Ceil(totalBeats / float64(beatsPerBar))
	return song.Song{
		V:      song.Version,
		SongID: songID,
		Meta: song.Meta{
			Title:         songID,
			BPM:           bpm,
			Key:           guessKey(chords),
			TimeSignature: fmt.Sprintf("%d/4", beatsPerBar),
		},
		Sections: []song.Section{{
			SectionID:   SectionID,
			SectionName: "Imported",
			LengthBars:  lengthBars,
			Chords:      chords,
		}},
		Arrangement: []song.ArrangementItem{{
			ArrangementIndex: 1,
			SectionID:        SectionID,
			StartBar:         1,
		}},
	}, nil
}

// guessKey names a tonal center for the imported song: the root of the first
// chord the detector could place, falling back to C when every onset came
// back as N.C. A guess is enough; the song document requires a key but the
// compiler never interprets it.
func guessKey(chords []song.Chord) string {
	for _, ch := range chords {
		if info, ok := theory.ParseSymbol(ch.Symbol); ok {
			if info.Quality == theory.QualityMinor {
				return info.Root + "m"
			}
			return info.Root
		}
	}
	return "C"
}
