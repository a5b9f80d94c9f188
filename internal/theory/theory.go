// Package theory resolves chord symbols and pitch sets to structured root and
// quality information and generates diatonic chord sets for a key. It is
// pure: no state, no I/O, safe for concurrent use.
package theory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/2nist/dawsheet/internal/song"
)

var (
	// ErrInvalidKey marks a malformed scale-lookup key string.
	ErrInvalidKey = errors.New("invalid key")
	// ErrScaleNotFound marks a tonic+scale pair with no table entry.
	ErrScaleNotFound = errors.New("scale not found")
	// ErrInvalidChordShape marks a lookup result that failed its own schema;
	// it indicates a defect in the theory tables, not bad user input.
	ErrInvalidChordShape = errors.New("invalid chord shape")
)

// DefaultChordBeats is the duration assigned to chords produced by lookups.
const DefaultChordBeats = 4

// NoChord is the sentinel symbol for a pitch set with no tonal match.
// "No chord" is a representable result, not an error.
const (
	NoChord        = "N.C."
	NoChordQuality = "none"
)

// Service answers chord and scale queries through a pluggable detection
// backend. The zero value is not usable; construct with NewService.
type Service struct {
	detector Detector
}

// NewService returns a Service backed by the template detector.
func NewService() *Service {
	return &Service{detector: TemplateDetector{}}
}

// NewServiceWith returns a Service using a custom detection backend.
func NewServiceWith(d Detector) *Service {
	return &Service{detector: d}
}

// DetectChord reduces each note to its pitch class and attempts chord
// detection over the set. The first ranked candidate wins; when nothing
// matches, the N.C. sentinel chord is returned. The result is always
// validated against the chord schema before being handed back.
func (s *Service) DetectChord(notes []string) (song.Chord, error) {
	pcs := make([]string, 0, len(notes))
	for _, n := range notes {
		pcs = append(pcs, PitchClass(n))
	}

	ch := song.Chord{
		Symbol:  NoChord,
		Beats:   DefaultChordBeats,
		Notes:   notes,
		Quality: NoChordQuality,
	}
	if detected := s.detector.Detect(pcs); len(detected) > 0 {
		ch.Symbol = detected[0]
		ch.Quality = QualityUnknown
		if info, ok := ParseSymbol(ch.Symbol); ok && info.Quality != "" {
			ch.Quality = info.Quality
		}
	}

	if res := song.ValidateChord(ch); !res.Valid {
		return song.Chord{}, fmt.Errorf("%w: detected %q: %s", ErrInvalidChordShape, ch.Symbol, strings.Join(res.Errors, "; "))
	}
	return ch, nil
}

// DiatonicChords generates one chord per scale degree for a key given as
// "<tonic> <scaleName>", e.g. "C Major" or "A harmonic minor".
func (s *Service) DiatonicChords(key string) ([]song.Chord, error) {
	fields := strings.Fields(key)
	if len(fields) < 2 {
		return nil, fmt.Errorf("%w: %q (want \"<tonic> <scale>\")", ErrInvalidKey, key)
	}
	tonic := fields[0]
	tonicIdx, ok := pitchIndex(tonic)
	if !ok {
		return nil, fmt.Errorf("%w: %q (bad tonic %q)", ErrInvalidKey, key, tonic)
	}
	offsets, ok := lookupScale(strings.Join(fields[1:], " "))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrScaleNotFound, key)
	}

	table := noteTable(tonic)
	chords := make([]song.Chord, 0, len(offsets))
	for degree := range offsets {
		suffix, quality := degreeTriad(offsets, degree)
		root := table[(tonicIdx+offsets[degree])%12]
		symbol := root + suffix

		ch := song.Chord{
			Symbol:  symbol,
			Beats:   DefaultChordBeats,
			Quality: quality,
		}
		if info, ok := ParseSymbol(symbol); ok {
			ch.Notes = info.PitchClasses()
		}
		if res := song.ValidateChord(ch); !res.Valid {
			return nil, fmt.Errorf("%w: diatonic %q: %s", ErrInvalidChordShape, symbol, strings.Join(res.Errors, "; "))
		}
		chords = append(chords, ch)
	}
	return chords, nil
}
