package sheet

import "github.com/sheetcore/engine/a1"

// GetMergeCellRect returns the full merge rectangle covering p, recovering
// it without storing it explicitly: look up the anchor at p, then find the
// column's Y-run containing the anchor's row, then walk columns rightward
// while that run's value at the anchor's row still equals the anchor
// (spec §4.3).
func (s *Sheet) GetMergeCellRect(p a1.Pos) (a1.Rect, bool) {
	anchorPtr, ok := s.mergeCells.Get(toGridPos(p))
	if !ok || anchorPtr == nil {
		return a1.Rect{}, false
	}
	anchor := *anchorPtr

	maxX := anchor.X
	for {
		next := maxX + 1
		v, ok := s.mergeCells.Get(toGridPos(a1.Pos{X: next, Y: anchor.Y}))
		if !ok || v == nil || *v != anchor {
			break
		}
		maxX = next
	}

	maxY := anchor.Y
	for {
		next := maxY + 1
		v, ok := s.mergeCells.Get(toGridPos(a1.Pos{X: anchor.X, Y: next}))
		if !ok || v == nil || *v != anchor {
			break
		}
		maxY = next
	}

	return a1.Rect{Min: anchor, Max: a1.Pos{X: maxX, Y: maxY}}, true
}

// AddMerge registers rect as a merge region, anchored at rect.Min.
func (s *Sheet) AddMerge(rect a1.Rect) {
	anchor := rect.Min
	x2, y2 := rect.Max.X, rect.Max.Y
	s.mergeCells.SetRect(rect.Min.X, rect.Min.Y, &x2, &y2, &anchor)
}

// RemoveMerge clears the merge region anchored at anchor, if any.
func (s *Sheet) RemoveMerge(anchor a1.Pos) {
	rect, ok := s.GetMergeCellRect(anchor)
	if !ok || rect.Min != anchor {
		return
	}
	x2, y2 := rect.Max.X, rect.Max.Y
	s.mergeCells.ClearRect(rect.Min.X, rect.Min.Y, &x2, &y2)
}

// mergeEdgeAction mirrors a1's classifyEdit for the merge structural-edit
// table in spec §4.3, which differs subtly at the edit boundary (merges
// shift on insert when c <= r.min.x, not just c < r.min.x).
type mergeEdgeAction int

const (
	mergeUnchanged mergeEdgeAction = iota
	mergeShiftPlus
	mergeShiftMinus
	mergeGrow
	mergeShrink
	mergeDrop
)

func classifyMergeEdit(minX, maxX, c int64, insert bool) mergeEdgeAction {
	if insert {
		switch {
		case maxX < c:
			return mergeUnchanged
		case c <= minX:
			return mergeShiftPlus
		default:
			return mergeGrow
		}
	}
	switch {
	case maxX < c:
		return mergeUnchanged
	case minX > c:
		return mergeShiftMinus
	case minX == maxX && minX == c:
		return mergeDrop
	case minX == c:
		return mergeShrink
	default:
		return mergeShrink
	}
}

// EditColumns applies a column insert (insert=true) or remove (insert=false)
// at c to every merge region, returning the union of affected rectangles
// (pre- and post-edit) for dirty tracking (spec §4.3).
func (s *Sheet) EditColumns(c int64, insert bool) []a1.Rect {
	return s.editMergesAxis(c, insert, true)
}

// EditRows is the row-axis counterpart of EditColumns.
func (s *Sheet) EditRows(c int64, insert bool) []a1.Rect {
	return s.editMergesAxis(c, insert, false)
}

func (s *Sheet) editMergesAxis(c int64, insert, columns bool) []a1.Rect {
	type region struct {
		anchor a1.Pos
		rect   a1.Rect
	}
	seen := map[a1.Pos]bool{}
	var regions []region
	for _, rv := range s.mergeCells.ToRectsWithValues() {
		if rv.Value == nil {
			continue
		}
		anchor := *rv.Value
		if seen[anchor] {
			continue
		}
		rect, ok := s.GetMergeCellRect(anchor)
		if !ok {
			continue
		}
		seen[anchor] = true
		regions = append(regions, region{anchor: anchor, rect: rect})
	}

	var dirty []a1.Rect
	for _, reg := range regions {
		var lo, hi int64
		if columns {
			lo, hi = reg.rect.Min.X, reg.rect.Max.X
		} else {
			lo, hi = reg.rect.Min.Y, reg.rect.Max.Y
		}
		action := classifyMergeEdit(lo, hi, c, insert)
		if action == mergeUnchanged {
			continue
		}
		dirty = append(dirty, reg.rect)
		s.RemoveMerge(reg.anchor)
		if action == mergeDrop {
			continue
		}
		newLo, newHi := lo, hi
		switch action {
		case mergeShiftPlus:
			newLo, newHi = lo+1, hi+1
		case mergeShiftMinus:
			newLo, newHi = lo-1, hi-1
		case mergeGrow:
			newHi = hi + 1
		case mergeShrink:
			newHi = hi - 1
			if newHi < newLo {
				continue
			}
		}
		newRect := reg.rect
		if columns {
			newRect.Min.X, newRect.Max.X = newLo, newHi
		} else {
			newRect.Min.Y, newRect.Max.Y = newLo, newHi
		}
		s.AddMerge(newRect)
		dirty = append(dirty, newRect)
	}
	return dirty
}
