package theory

import (
	"strconv"
	"strings"
)

var sharpNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
var flatNames = [12]string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}

var naturalIndex = map[byte]int{'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11}

// PitchClass strips octave information from a note name: "C4" -> "C",
// "Bb3" -> "Bb", "F#-1" -> "F#". Already-bare pitch classes pass through.
func PitchClass(note string) string {
	return strings.TrimRight(strings.TrimSpace(note), "-0123456789")
}

// pitchIndex resolves a pitch-class name to its semitone index (C = 0).
// Accidentals stack, so "Cbb" and "F##" resolve too.
func pitchIndex(pc string) (int, bool) {
	pc = strings.TrimSpace(pc)
	if pc == "" {
		return 0, false
	}
	base, ok := naturalIndex[pc[0]&^0x20] // uppercase the letter
	if !ok {
		return 0, false
	}
	for _, r := range pc[1:] {
		switch r {
		case '#':
			base++
		case 'b':
			base--
		default:
			return 0, false
		}
	}
	return ((base % 12) + 12) % 12, true
}

// noteTable picks a spelling table: flat names when the reference pitch is
// itself flat-spelled (or F, whose key signature is flat-side), sharps
// otherwise.
func noteTable(reference string) [12]string {
	if strings.Contains(reference, "b") || strings.TrimSpace(reference) == "F" {
		return flatNames
	}
	return sharpNames
}

// MIDIName renders a MIDI key number as a note-with-octave string, C4 = 60.
func MIDIName(key uint8) string {
	return sharpNames[key%12] + strconv.Itoa(int(key)/12-1)
}

// MIDIKey resolves a pitch class and octave to a MIDI key number, C4 = 60.
func MIDIKey(pc string, octave int) (uint8, bool) {
	idx, ok := pitchIndex(pc)
	if !ok {
		return 0, false
	}
	key := (octave+1)*12 + idx
	if key < 0 || key > 127 {
		return 0, false
	}
	return uint8(key), true
}
