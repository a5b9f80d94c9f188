// Package compiler turns a declarative song document into an ordered list of
// schema-valid command envelopes. Compilation is deterministic: the same song
// and options always produce byte-identical output, and a single invalid
// envelope aborts the whole run rather than emitting a partial stream.
package compiler

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/2nist/dawsheet/internal/command"
	"github.com/2nist/dawsheet/internal/song"
	"github.com/2nist/dawsheet/internal/theory"
	"github.com/2nist/dawsheet/internal/timing"
)

// ErrInvalidEnvelope marks a compiled envelope that failed structural
// validation. Nothing is emitted when this happens.
var ErrInvalidEnvelope = errors.New("invalid envelope")

// Defaults applied when Options fields are left zero.
const (
	DefaultTarget   = "default-midi-out"
	DefaultQuantize = command.GridEighth
)

// Options control the envelope fields that are not derived from the song.
type Options struct {
	// Quantize is stamped on every envelope. Empty means DefaultQuantize.
	Quantize command.Grid
	// Target is the routing destination. Empty means DefaultTarget.
	Target string
}

// Compiler compiles songs into command envelopes. Safe for concurrent use.
type Compiler struct {
	theory *theory.Service
	opts   Options
}

// New returns a Compiler. A nil service gets the default template-detection
// backend, used to name chords that carry notes but no symbol.
func New(svc *theory.Service, opts Options) *Compiler {
	if svc == nil {
		svc = theory.NewService()
	}
	if opts.Quantize == "" {
		opts.Quantize = DefaultQuantize
	}
	if opts.Target == "" {
		opts.Target = DefaultTarget
	}
	return &Compiler{theory: svc, opts: opts}
}

// Compile walks the arrangement in array order and emits one CHORD.PLAY
// envelope per chord per repetition. Arrangement items whose sectionId has no
// matching section are skipped; startBar only ever moves the cursor forward.
// Channel values below 1 are normalized to channel 1.
func (c *Compiler) Compile(s song.Song, channel int) ([]command.Envelope, error) {
	if channel < 1 {
		channel = 1
	}
	beatsPerBar := timing.BeatsPerBar(s.Meta.TimeSignature)

	tags := s.Meta.Tags
	if tags == nil {
		tags = []string{}
	}

	cmds := []command.Envelope{}
	currentGlobalBar := 1.0
	for _, item := range s.Arrangement {
		sec, ok := s.SectionByID(item.SectionID)
		if !ok {
			continue
		}
		if item.StartBar > 0 && float64(item.StartBar) > currentGlobalBar {
			currentGlobalBar = float64(item.StartBar)
		}
		for r := 0; r < item.Repetitions(); r++ {
			beatOffset := 0.0
			for idx, ch := range sec.Chords {
				root, quality, err := c.resolveChord(ch)
				if err != nil {
					return nil, fmt.Errorf("section %s chord %d: %w", sec.SectionID, idx, err)
				}
				totalBeats := (currentGlobalBar-1)*float64(beatsPerBar) + beatOffset
				at := timing.FromBeats(totalBeats, beatsPerBar).String()

				env := command.Envelope{
					V:        command.Version,
					Type:     command.TypeChordPlay,
					ID:       fmt.Sprintf("song-%s-sec-%s-rep-%d-chord-%d", s.SongID, sec.SectionID, r+1, idx),
					Origin:   fmt.Sprintf("song://%s/section/%s/arrangement/%d/repeat/%d", s.SongID, sec.SectionID, item.ArrangementIndex, r+1),
					At:       at,
					Quantize: command.GridPtr(c.opts.Quantize),
					Target:   c.opts.Target,
					Payload: command.ChordPlay{
						Root:    root,
						Quality: quality,
						Channel: channel,
					},
					Transform: []command.Transform{},
					Meta:      &command.Meta{SongID: s.SongID, Tags: tags},
				}
				if res := command.ValidateEnvelope(env); !res.Valid {
					return nil, fmt.Errorf("%w: invalid command for %q at %s: %s",
						ErrInvalidEnvelope, ch.Symbol, at, strings.Join(res.Errors, "; "))
				}
				cmds = append(cmds, env)

				beats := ch.Beats
				if beats <= 0 {
					beats = theory.DefaultChordBeats
				}
				beatOffset += beats
			}
		}
		currentGlobalBar += sec.LengthBars
	}
	return cmds, nil
}

// qualityMarker catches the first quality or extension token in a chord
// symbol; stripping it leaves the root for symbols the parser cannot place.
var qualityMarker = regexp.MustCompile(`m|maj|dim|aug|sus|7|9|11|13|add|M|o|/.*`)

func stripQualityMarker(symbol string) string {
	loc := qualityMarker.FindStringIndex(symbol)
	if loc == nil {
		return symbol
	}
	return symbol[:loc[0]] + symbol[loc[1]:]
}

// resolveChord produces the root and quality for a chord's payload. A chord
// with notes but no symbol goes through detection first; a symbol the parser
// rejects falls back to marker stripping so odd spellings still compile.
func (c *Compiler) resolveChord(ch song.Chord) (root, quality string, err error) {
	symbol := ch.Symbol
	quality = ch.Quality
	if symbol == "" && len(ch.Notes) > 0 {
		detected, err := c.theory.DetectChord(ch.Notes)
		if err != nil {
			return "", "", fmt.Errorf("detect chord: %w", err)
		}
		symbol = detected.Symbol
		if quality == "" {
			quality = detected.Quality
		}
	}
	if info, ok := theory.ParseSymbol(symbol); ok {
		root = info.Root
		if quality == "" {
			quality = info.Quality
		}
	} else {
		root = stripQualityMarker(symbol)
	}
	if quality == "" {
		quality = theory.QualityUnknown
	}
	return root, quality, nil
}
