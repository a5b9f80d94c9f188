package theory

import "strings"

// Seven-note scales by lowercase name. Offsets are semitones from the tonic.
var scaleOffsets = map[string][]int{
	"major":          {0, 2, 4, 5, 7, 9, 11},
	"ionian":         {0, 2, 4, 5, 7, 9, 11},
	"minor":          {0, 2, 3, 5, 7, 8, 10},
	"natural minor":  {0, 2, 3, 5, 7, 8, 10},
	"aeolian":        {0, 2, 3, 5, 7, 8, 10},
	"dorian":         {0, 2, 3, 5, 7, 9, 10},
	"phrygian":       {0, 1, 3, 5, 7, 8, 10},
	"lydian":         {0, 2, 4, 6, 7, 9, 11},
	"mixolydian":     {0, 2, 4, 5, 7, 9, 10},
	"locrian":        {0, 1, 3, 5, 6, 8, 10},
	"harmonic minor": {0, 2, 3, 5, 7, 8, 11},
	"melodic minor":  {0, 2, 3, 5, 7, 9, 11},
}

func lookupScale(name string) ([]int, bool) {
	offsets, ok := scaleOffsets[strings.ToLower(strings.TrimSpace(name))]
	return offsets, ok
}

// degreeTriad stacks scale thirds on degree i and matches the resulting
// interval shape against the triad tables. The empty suffix is the major
// triad, matching conventional symbol spelling ("C", not "Cmaj").
func degreeTriad(offsets []int, degree int) (suffix, quality string) {
	root := offsets[degree]
	third := offsets[(degree+2)%len(offsets)]
	fifth := offsets[(degree+4)%len(offsets)]
	rel3 := ((third-root)%12 + 12) % 12
	rel5 := ((fifth-root)%12 + 12) % 12

	switch {
	case rel3 == 4 && rel5 == 7:
		return "", QualityMajor
	case rel3 == 3 && rel5 == 7:
		return "m", QualityMinor
	case rel3 == 3 && rel5 == 6:
		return "dim", QualityDiminished
	case rel3 == 4 && rel5 == 8:
		return "aug", QualityAugmented
	}
	return "", QualityUnknown
}
