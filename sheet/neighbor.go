package sheet

import (
	"sort"

	"github.com/sheetcore/engine/a1"
)

// NeighborText returns the deduplicated, sorted text values found in the
// same column as p, walking outward from p in both directions and
// stopping at the first cell in each direction that is not text (spec
// §4.3). The result is capped at MaxNeighborText entries, used to drive
// autocomplete suggestions while typing into a cell.
func (s *Sheet) NeighborText(p a1.Pos) []string {
	seen := map[string]bool{}
	var out []string

	add := func(text string) bool {
		if seen[text] {
			return true
		}
		seen[text] = true
		out = append(out, text)
		return len(out) < MaxNeighborText
	}

	for y := p.Y + 1; ; y++ {
		text, ok := s.textAt(a1.Pos{X: p.X, Y: y})
		if !ok {
			break
		}
		if !add(text) {
			break
		}
	}
	if len(out) < MaxNeighborText {
		for y := p.Y - 1; y >= 1; y-- {
			text, ok := s.textAt(a1.Pos{X: p.X, Y: y})
			if !ok {
				break
			}
			if !add(text) {
				break
			}
		}
	}

	sort.Strings(out)
	return out
}

func (s *Sheet) textAt(p a1.Pos) (string, bool) {
	return s.Cell(p).AsText()
}
