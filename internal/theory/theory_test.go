package theory

import (
	"errors"
	"reflect"
	"testing"

	"github.com/2nist/dawsheet/internal/song"
)

func TestDetectChordMajorTriad(t *testing.T) {
	svc := NewService()

	ch, err := svc.DetectChord([]string{"C4", "E4", "G4"})
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if ch.Symbol != "C" {
		t.Fatalf("symbol = %q, want C", ch.Symbol)
	}
	if ch.Quality != QualityMajor {
		t.Fatalf("quality = %q, want %q", ch.Quality, QualityMajor)
	}
	if ch.Beats != DefaultChordBeats {
		t.Fatalf("beats = %v, want %v", ch.Beats, float64(DefaultChordBeats))
	}
	if !reflect.DeepEqual(ch.Notes, []string{"C4", "E4", "G4"}) {
		t.Fatalf("notes = %v, want input preserved", ch.Notes)
	}
}

func TestDetectChordSeventh(t *testing.T) {
	svc := NewService()

	ch, err := svc.DetectChord([]string{"G3", "B3", "D4", "F4"})
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if ch.Symbol != "G7" {
		t.Fatalf("symbol = %q, want G7", ch.Symbol)
	}
}

func TestDetectChordNoMatchIsSentinel(t *testing.T) {
	svc := NewService()

	ch, err := svc.DetectChord([]string{"C4", "C#4", "D4"})
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if ch.Symbol != NoChord {
		t.Fatalf("symbol = %q, want %q", ch.Symbol, NoChord)
	}
	if ch.Quality != NoChordQuality {
		t.Fatalf("quality = %q, want %q", ch.Quality, NoChordQuality)
	}
}

func TestDetectChordEmptyInput(t *testing.T) {
	svc := NewService()

	ch, err := svc.DetectChord(nil)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if ch.Symbol != NoChord || ch.Quality != NoChordQuality {
		t.Fatalf("chord = %+v, want N.C. sentinel", ch)
	}
}

func TestDetectChordDeterministic(t *testing.T) {
	svc := NewService()

	first, err := svc.DetectChord([]string{"A3", "C4", "E4", "G4"})
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := svc.DetectChord([]string{"A3", "C4", "E4", "G4"})
		if err != nil {
			t.Fatalf("detect: %v", err)
		}
		if again.Symbol != first.Symbol {
			t.Fatalf("symbol changed between calls: %q then %q", first.Symbol, again.Symbol)
		}
	}
}

func TestDiatonicChordsCMajor(t *testing.T) {
	svc := NewService()

	chords, err := svc.DiatonicChords("C Major")
	if err != nil {
		t.Fatalf("diatonic: %v", err)
	}
	if len(chords) != 7 {
		t.Fatalf("len = %d, want 7", len(chords))
	}
	wantSymbols := []string{"C", "Dm", "Em", "F", "G", "Am", "Bdim"}
	for i, ch := range chords {
		if ch.Symbol != wantSymbols[i] {
			t.Fatalf("chords[%d].Symbol = %q, want %q", i, ch.Symbol, wantSymbols[i])
		}
		if res := song.ValidateChord(ch); !res.Valid {
			t.Fatalf("chords[%d] fails schema: %v", i, res.Errors)
		}
	}
	if chords[0].Quality != QualityMajor || chords[1].Quality != QualityMinor || chords[6].Quality != QualityDiminished {
		t.Fatalf("unexpected qualities: %q %q %q", chords[0].Quality, chords[1].Quality, chords[6].Quality)
	}
}

func TestDiatonicChordsFlatSpelling(t *testing.T) {
	svc := NewService()

	chords, err := svc.DiatonicChords("F major")
	if err != nil {
		t.Fatalf("diatonic: %v", err)
	}
	if chords[3].Symbol != "Bb" {
		t.Fatalf("degree IV = %q, want Bb", chords[3].Symbol)
	}
}

func TestDiatonicChordsInvalidKey(t *testing.T) {
	svc := NewService()

	if _, err := svc.DiatonicChords("InvalidKeyOnly"); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("err = %v, want ErrInvalidKey", err)
	}
	if _, err := svc.DiatonicChords("H major"); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("err = %v, want ErrInvalidKey for bad tonic", err)
	}
}

func TestDiatonicChordsScaleNotFound(t *testing.T) {
	svc := NewService()

	if _, err := svc.DiatonicChords("C superphrygian"); !errors.Is(err, ErrScaleNotFound) {
		t.Fatalf("err = %v, want ErrScaleNotFound", err)
	}
}

func TestParseSymbol(t *testing.T) {
	cases := []struct {
		symbol  string
		root    string
		quality string
	}{
		{"Cmaj7", "C", QualityMajor},
		{"G7", "G", QualityMajor},
		{"Dm", "D", QualityMinor},
		{"F#m7", "F#", QualityMinor},
		{"Bbmaj7", "Bb", QualityMajor},
		{"Bdim", "B", QualityDiminished},
		{"Eaug", "E", QualityAugmented},
		{"Am7/G", "A", QualityMinor},
	}
	for _, tc := range cases {
		info, ok := ParseSymbol(tc.symbol)
		if !ok {
			t.Fatalf("ParseSymbol(%q) failed", tc.symbol)
		}
		if info.Root != tc.root || info.Quality != tc.quality {
			t.Fatalf("ParseSymbol(%q) = root %q quality %q, want %q/%q", tc.symbol, info.Root, info.Quality, tc.root, tc.quality)
		}
	}

	for _, bad := range []string{"", "N.C.", "Hm", "Cwat"} {
		if _, ok := ParseSymbol(bad); ok {
			t.Fatalf("ParseSymbol(%q) succeeded, want failure", bad)
		}
	}
}

func TestPitchClass(t *testing.T) {
	cases := map[string]string{
		"C4":   "C",
		"Bb3":  "Bb",
		"F#-1": "F#",
		"G":    "G",
	}
	for in, want := range cases {
		if got := PitchClass(in); got != want {
			t.Fatalf("PitchClass(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMIDIRoundTrip(t *testing.T) {
	key, ok := MIDIKey("C", 4)
	if !ok || key != 60 {
		t.Fatalf("MIDIKey(C,4) = %d,%v, want 60", key, ok)
	}
	if got := MIDIName(60); got != "C4" {
		t.Fatalf("MIDIName(60) = %q, want C4", got)
	}
	if _, ok := MIDIKey("C", 12); ok {
		t.Fatal("expected out-of-range octave to fail")
	}
}
