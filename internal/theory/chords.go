package theory

import "strings"

// Chord qualities as reported by symbol and detection lookups. "none" is
// reserved for the no-chord sentinel and never produced by the tables here.
const (
	QualityMajor      = "major"
	QualityMinor      = "minor"
	QualityDiminished = "diminished"
	QualityAugmented  = "augmented"
	QualityUnknown    = "unknown"
)

type chordType struct {
	suffix    string
	aliases   []string
	quality   string
	intervals []int
}

// chordTypes is the symbol table: the canonical suffix is what diatonic
// generation emits, aliases are accepted when parsing authored symbols.
// Interval sets double as the detection templates.
var chordTypes = []chordType{
	{suffix: "maj7", aliases: []string{"M7", "Maj7"}, quality: QualityMajor, intervals: []int{0, 4, 7, 11}},
	{suffix: "7", quality: QualityMajor, intervals: []int{0, 4, 7, 10}},
	{suffix: "m7", aliases: []string{"min7", "-7"}, quality: QualityMinor, intervals: []int{0, 3, 7, 10}},
	{suffix: "m7b5", aliases: []string{"min7b5", "ø"}, quality: QualityDiminished, intervals: []int{0, 3, 6, 10}},
	{suffix: "dim7", aliases: []string{"o7"}, quality: QualityDiminished, intervals: []int{0, 3, 6, 9}},
	{suffix: "", aliases: []string{"maj", "M"}, quality: QualityMajor, intervals: []int{0, 4, 7}},
	{suffix: "m", aliases: []string{"min", "-"}, quality: QualityMinor, intervals: []int{0, 3, 7}},
	{suffix: "dim", aliases: []string{"o"}, quality: QualityDiminished, intervals: []int{0, 3, 6}},
	{suffix: "aug", aliases: []string{"+"}, quality: QualityAugmented, intervals: []int{0, 4, 8}},
	{suffix: "sus2", quality: QualityUnknown, intervals: []int{0, 2, 7}},
	{suffix: "sus4", aliases: []string{"sus"}, quality: QualityUnknown, intervals: []int{0, 5, 7}},
	{suffix: "5", quality: QualityUnknown, intervals: []int{0, 7}},
	{suffix: "6", quality: QualityMajor, intervals: []int{0, 4, 7, 9}},
	{suffix: "m6", aliases: []string{"min6"}, quality: QualityMinor, intervals: []int{0, 3, 7, 9}},
	{suffix: "9", quality: QualityMajor, intervals: []int{0, 2, 4, 7, 10}},
	{suffix: "maj9", aliases: []string{"M9"}, quality: QualityMajor, intervals: []int{0, 2, 4, 7, 11}},
	{suffix: "m9", aliases: []string{"min9"}, quality: QualityMinor, intervals: []int{0, 2, 3, 7, 10}},
	{suffix: "add9", quality: QualityMajor, intervals: []int{0, 2, 4, 7}},
	{suffix: "7sus4", quality: QualityUnknown, intervals: []int{0, 5, 7, 10}},
}

func chordTypeBySuffix(suffix string) (chordType, bool) {
	for _, ct := range chordTypes {
		if ct.suffix == suffix {
			return ct, true
		}
		for _, alias := range ct.aliases {
			if alias == suffix {
				return ct, true
			}
		}
	}
	return chordType{}, false
}

// SymbolInfo is the structured form of a chord symbol.
type SymbolInfo struct {
	Root      string
	Suffix    string
	Bass      string
	Quality   string
	Intervals []int
}

// ParseSymbol resolves a chord symbol like "Cmaj7", "Dm", or "Am7/G" into
// root, quality, and interval structure. The second return is false when the
// root or the suffix is not recognized; "no chord" markers like "N.C." land
// there and callers fall back to their own handling.
func ParseSymbol(symbol string) (SymbolInfo, bool) {
	symbol = strings.TrimSpace(symbol)
	body, bass, _ := strings.Cut(symbol, "/")
	if body == "" {
		return SymbolInfo{}, false
	}

	rootLen := 1
	if _, ok := naturalIndex[body[0]&^0x20]; !ok {
		return SymbolInfo{}, false
	}
	for rootLen < len(body) && (body[rootLen] == '#' || body[rootLen] == 'b') {
		rootLen++
	}
	root := body[:rootLen]
	if _, ok := pitchIndex(root); !ok {
		return SymbolInfo{}, false
	}

	ct, ok := chordTypeBySuffix(body[rootLen:])
	if !ok {
		return SymbolInfo{}, false
	}
	return SymbolInfo{
		Root:      root,
		Suffix:    ct.suffix,
		Bass:      bass,
		Quality:   ct.quality,
		Intervals: ct.intervals,
	}, true
}

// PitchClasses returns the pitch-class names of the chord tones, spelled
// relative to the root.
func (i SymbolInfo) PitchClasses() []string {
	rootIdx, ok := pitchIndex(i.Root)
	if !ok {
		return nil
	}
	table := noteTable(i.Root)
	notes := make([]string, 0, len(i.Intervals))
	for _, iv := range i.Intervals {
		notes = append(notes, table[(rootIdx+iv)%12])
	}
	return notes
}

// QualityIntervals maps a bare quality string to triad intervals. It covers
// the payload of CHORD.PLAY commands, which carries quality but no symbol;
// unrecognized qualities get a major triad.
func QualityIntervals(quality string) []int {
	switch quality {
	case QualityMinor:
		return []int{0, 3, 7}
	case QualityDiminished:
		return []int{0, 3, 6}
	case QualityAugmented:
		return []int{0, 4, 8}
	default:
		return []int{0, 4, 7}
	}
}
