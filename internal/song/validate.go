package song

import (
	"github.com/2nist/dawsheet/internal/schema"
)

// MinChordBeats is the shortest representable chord duration.
const MinChordBeats = 0.25

// ValidateSong checks a song object against the structural contract of the
// song wire shape: required fields, numeric ranges, and pattern-matched
// strings. It never panics; callers decide whether failures are fatal.
func ValidateSong(s Song) schema.Result {
	res := schema.OK()
	if s.V != Version {
		res.Addf("v = %d, want %d", s.V, Version)
	}
	if s.SongID == "" {
		res.Addf("songId is required")
	}
	if s.Meta.Title == "" {
		res.Addf("meta.title is required")
	}
	if s.Meta.BPM < 1 {
		res.Addf("meta.bpm = %v, must be >= 1", s.Meta.BPM)
	}
	if s.Meta.Key == "" {
		res.Addf("meta.key is required")
	}
	if s.Meta.TimeSignature != "" && !schema.ValidTimeSignature(s.Meta.TimeSignature) {
		res.Addf("meta.timeSignature %q does not match N/D", s.Meta.TimeSignature)
	}
	for i, sec := range s.Sections {
		r := validateSection(sec)
		for _, msg := range r.Errors {
			res.Addf("sections[%d]: %s", i, msg)
		}
	}
	for i, item := range s.Arrangement {
		r := validateArrangementItem(item)
		for _, msg := range r.Errors {
			res.Addf("arrangement[%d]: %s", i, msg)
		}
	}
	return res
}

func validateSection(sec Section) schema.Result {
	res := schema.OK()
	if sec.SectionID == "" {
		res.Addf("sectionId is required")
	}
	if sec.SectionName == "" {
		res.Addf("sectionName is required")
	}
	if sec.LengthBars < 0 {
		res.Addf("lengthBars = %v, must be >= 0", sec.LengthBars)
	}
	for i, ch := range sec.Chords {
		r := ValidateChord(ch)
		for _, msg := range r.Errors {
			res.Addf("chords[%d]: %s", i, msg)
		}
	}
	return res
}

// ValidateChord checks a single chord object. The theory service validates
// every chord it returns through this before handing it to callers.
func ValidateChord(ch Chord) schema.Result {
	res := schema.OK()
	if ch.Symbol == "" {
		res.Addf("symbol is required")
	}
	if ch.Beats < MinChordBeats {
		res.Addf("beats = %v, must be >= %v", ch.Beats, MinChordBeats)
	}
	return res
}

func validateArrangementItem(item ArrangementItem) schema.Result {
	res := schema.OK()
	if item.ArrangementIndex < 1 {
		res.Addf("arrangementIndex = %d, must be >= 1", item.ArrangementIndex)
	}
	if item.SectionID == "" {
		res.Addf("sectionId is required")
	}
	if item.StartBar < 1 {
		res.Addf("startBar = %d, must be >= 1", item.StartBar)
	}
	if item.Repeat < 0 {
		res.Addf("repeat = %d, must be >= 1 when set", item.Repeat)
	}
	return res
}
