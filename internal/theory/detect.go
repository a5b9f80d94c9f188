package theory

import "sort"

// Detector ranks candidate chord symbols for a pitch-class set. The ranking
// is stable for a given input but otherwise a backend detail; callers take
// the first candidate and must not re-derive the ordering.
type Detector interface {
	Detect(pitchClasses []string) []string
}

// TemplateDetector matches pitch-class sets against the chord interval
// tables, trying every root. Larger templates win, then fewer color-tone
// extras, then suffix and root order.
type TemplateDetector struct{}

// Color tones (9th/11th/13th) that may ride along without changing the match.
var allowedExtensions = map[int]bool{2: true, 5: true, 9: true}

type detectCandidate struct {
	size   int
	extras int
	suffix string
	root   int
}

func (c detectCandidate) less(o detectCandidate) bool {
	if c.size != o.size {
		return c.size > o.size
	}
	if c.extras != o.extras {
		return c.extras < o.extras
	}
	if c.suffix != o.suffix {
		return c.suffix < o.suffix
	}
	return c.root < o.root
}

// Detect implements Detector.
func (TemplateDetector) Detect(pitchClasses []string) []string {
	pcs := map[int]bool{}
	for _, pc := range pitchClasses {
		if idx, ok := pitchIndex(pc); ok {
			pcs[idx] = true
		}
	}
	if len(pcs) < 2 {
		return nil
	}

	var candidates []detectCandidate
	for root := 0; root < 12; root++ {
		rel := map[int]bool{}
		for pc := range pcs {
			rel[((pc-root)%12+12)%12] = true
		}
		for _, ct := range chordTypes {
			if !containsAll(rel, ct.intervals) {
				continue
			}
			extras := 0
			for iv := range rel {
				if !containsInterval(ct.intervals, iv) && allowedExtensions[iv] {
					extras++
				}
			}
			candidates = append(candidates, detectCandidate{
				size:   len(ct.intervals),
				extras: extras,
				suffix: ct.suffix,
				root:   root,
			})
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].less(candidates[j]) })

	symbols := make([]string, 0, len(candidates))
	for _, c := range candidates {
		symbols = append(symbols, sharpNames[c.root]+c.suffix)
	}
	return symbols
}

func containsAll(set map[int]bool, intervals []int) bool {
	for _, iv := range intervals {
		if !set[iv] {
			return false
		}
	}
	return true
}

func containsInterval(intervals []int, iv int) bool {
	for _, v := range intervals {
		if v == iv {
			return true
		}
	}
	return false
}
