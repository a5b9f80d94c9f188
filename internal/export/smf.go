// Package export renders a compiled command stream as a Standard MIDI File.
// Only CHORD.PLAY envelopes become notes; everything else is passed over, so
// a stream mixing chord and control commands still exports cleanly.
package export

import (
	"fmt"
	"io"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/2nist/dawsheet/internal/command"
	"github.com/2nist/dawsheet/internal/song"
	"github.com/2nist/dawsheet/internal/theory"
	"github.com/2nist/dawsheet/internal/timing"
)

// Defaults applied when Options fields are left zero.
const (
	DefaultTicksPerQuarter = 960
	DefaultVelocity        = 96
	DefaultOctave          = 3
	DefaultBPM             = 120
)

// Options control note rendering.
type Options struct {
	// Velocity for every note-on. Zero means DefaultVelocity.
	Velocity uint8
	// Octave places the chord root, C4 = octave 4. Zero means DefaultOctave.
	Octave int
}

type noteEvent struct {
	tick uint32
	on   bool
	key  uint8
	ch   uint8
}

// WriteSMF renders the envelopes compiled from s as a single-track SMF.
// Chord durations run to the next envelope's position; the final chord gets
// one bar.
func WriteSMF(w io.Writer, s song.Song, envelopes []command.Envelope, opts Options) error {
	if opts.Velocity == 0 {
		opts.Velocity = DefaultVelocity
	}
	if opts.Octave == 0 {
		opts.Octave = DefaultOctave
	}
	beatsPerBar := timing.BeatsPerBar(s.Meta.TimeSignature)
	bpm := s.Meta.BPM
	if bpm <= 0 {
		bpm = DefaultBPM
	}

	events, err := chordEvents(envelopes, beatsPerBar, opts)
	if err != nil {
		return err
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		// Note-offs precede note-ons at the same tick.
		return !events[i].on && events[j].on
	})

	doc := smf.New()
	doc.TimeFormat = smf.MetricTicks(DefaultTicksPerQuarter)

	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName(s.Meta.Title))
	tr.Add(0, smf.MetaTempo(bpm))
	tr.Add(0, smf.MetaMeter(uint8(beatsPerBar), 4))

	cursor := uint32(0)
	for _, ev := range events {
		delta := ev.tick - cursor
		cursor = ev.tick
		if ev.on {
			tr.Add(delta, midi.NoteOn(ev.ch, ev.key, opts.Velocity))
		} else {
			tr.Add(delta, midi.NoteOff(ev.ch, ev.key))
		}
	}
	tr.Close(0)

	if err := doc.Add(tr); err != nil {
		return fmt.Errorf("add smf track: %w", err)
	}
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("write smf: %w", err)
	}
	return nil
}

func chordEvents(envelopes []command.Envelope, beatsPerBar int, opts Options) ([]noteEvent, error) {
	type chord struct {
		startBeat float64
		keys      []uint8
		ch        uint8
	}

	var chords []chord
	for _, env := range envelopes {
		if env.Type != command.TypeChordPlay {
			continue
		}
		payload, ok := env.Payload.(command.ChordPlay)
		if !ok {
			return nil, fmt.Errorf("envelope %s: payload is not CHORD.PLAY", env.ID)
		}
		if payload.Root == theory.NoChord {
			continue
		}
		pos, err := timing.Parse(env.At)
		if err != nil {
			return nil, fmt.Errorf("envelope %s: %w", env.ID, err)
		}
		rootKey, ok := theory.MIDIKey(payload.Root, opts.Octave)
		if !ok {
			return nil, fmt.Errorf("envelope %s: unplayable root %q", env.ID, payload.Root)
		}
		ch := uint8(payload.Channel - 1)
		keys := []uint8{}
		for _, iv := range theory.QualityIntervals(payload.Quality) {
			key := int(rootKey) + iv
			if key > 127 {
				continue
			}
			keys = append(keys, uint8(key))
		}
		chords = append(chords, chord{
			startBeat: pos.TotalBeats(beatsPerBar),
			keys:      keys,
			ch:        ch,
		})
	}

	ticksPerBeat := float64(DefaultTicksPerQuarter)
	var events []noteEvent
	for i, c := range chords {
		endBeat := c.startBeat + float64(beatsPerBar)
		if i+1 < len(chords) && chords[i+1].startBeat > c.startBeat {
			endBeat = chords[i+1].startBeat
		}
		onTick := uint32(c.startBeat * ticksPerBeat)
		offTick := uint32(endBeat * ticksPerBeat)
		for _, key := range c.keys {
			events = append(events, noteEvent{tick: onTick, on: true, key: key, ch: c.ch})
			events = append(events, noteEvent{tick: offTick, on: false, key: key, ch: c.ch})
		}
	}
	return events, nil
}
