package song

import (
	"fmt"
	"sort"
)

// Lint reports data-quality warnings that are deliberately non-fatal for
// compilation: dangling arrangement references (the compiler skips them),
// arrangement indices that disagree with array order (the compiler walks the
// array as given), duplicate section ids, and zero-length sections that carry
// chords. Callers surface these upstream; nothing here aborts a compile.
func Lint(s Song) []string {
	var warnings []string

	seen := map[string]bool{}
	for _, sec := range s.Sections {
		if seen[sec.SectionID] {
			warnings = append(warnings, fmt.Sprintf("duplicate sectionId %q", sec.SectionID))
		}
		seen[sec.SectionID] = true
		if sec.LengthBars == 0 && len(sec.Chords) > 0 {
			warnings = append(warnings, fmt.Sprintf("section %q has chords but lengthBars 0", sec.SectionID))
		}
	}

	for i, item := range s.Arrangement {
		if _, ok := s.SectionByID(item.SectionID); !ok {
			warnings = append(warnings, fmt.Sprintf("arrangement[%d] references missing section %q; it will be skipped", i, item.SectionID))
		}
	}

	if !indicesFollowArrayOrder(s.Arrangement) {
		warnings = append(warnings, "arrangementIndex order differs from array order; the compiler follows array order")
	}

	return warnings
}

func indicesFollowArrayOrder(items []ArrangementItem) bool {
	return sort.SliceIsSorted(items, func(i, j int) bool {
		return items[i].ArrangementIndex < items[j].ArrangementIndex
	})
}
