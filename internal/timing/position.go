// Package timing provides bar:beat position arithmetic for the compiler and
// the MIDI exporter. Bars and beats are 1-based; beat offsets are 0-based
// beat counts from the start of the song.
package timing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultBeatsPerBar is used when a song carries no parseable time signature.
// This is an implementation-defined default, not a claim about the data.
const DefaultBeatsPerBar = 4

// BeatsPerBar returns the numerator of an "N/D" time signature, falling back
// to DefaultBeatsPerBar when the field is absent or malformed.
func BeatsPerBar(timeSignature string) int {
	num, _, ok := strings.Cut(timeSignature, "/")
	if !ok {
		return DefaultBeatsPerBar
	}
	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil || n < 1 {
		return DefaultBeatsPerBar
	}
	return n
}

// Position is a musical timeline position. Beat may be fractional when chord
// durations are not whole beats; Ticks is optional sub-beat resolution.
type Position struct {
	Bar   int
	Beat  float64
	Ticks int
}

// FromBeats converts an absolute 0-based beat count into a 1-based position.
func FromBeats(totalBeats float64, beatsPerBar int) Position {
	if beatsPerBar < 1 {
		beatsPerBar = DefaultBeatsPerBar
	}
	bpb := float64(beatsPerBar)
	return Position{
		Bar:  int(math.Floor(totalBeats/bpb)) + 1,
		Beat: math.Mod(totalBeats, bpb) + 1,
	}
}

// TotalBeats converts a position back to an absolute 0-based beat count.
func (p Position) TotalBeats(beatsPerBar int) float64 {
	if beatsPerBar < 1 {
		beatsPerBar = DefaultBeatsPerBar
	}
	return float64(p.Bar-1)*float64(beatsPerBar) + (p.Beat - 1)
}

// String renders the wire position. Whole beats print without a fraction so
// "bar:beat" output matches the commands schema pattern.
func (p Position) String() string {
	beat := strconv.FormatFloat(p.Beat, 'f', -1, 64)
	if p.Ticks > 0 {
		return fmt.Sprintf("%d:%s:%d", p.Bar, beat, p.Ticks)
	}
	return fmt.Sprintf("%d:%s", p.Bar, beat)
}

// Parse reads a "bar:beat[:ticks]" position string.
func Parse(s string) (Position, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Position{}, fmt.Errorf("position %q: want bar:beat[:ticks]", s)
	}
	bar, err := strconv.Atoi(parts[0])
	if err != nil || bar < 1 {
		return Position{}, fmt.Errorf("position %q: bad bar", s)
	}
	beat, err := strconv.ParseFloat(parts[1], 64)
	if err != nil || beat < 1 {
		return Position{}, fmt.Errorf("position %q: bad beat", s)
	}
	pos := Position{Bar: bar, Beat: beat}
	if len(parts) == 3 {
		ticks, err := strconv.Atoi(parts[2])
		if err != nil || ticks < 0 {
			return Position{}, fmt.Errorf("position %q: bad ticks", s)
		}
		pos.Ticks = ticks
	}
	return pos, nil
}
