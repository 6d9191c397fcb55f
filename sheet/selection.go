package sheet

import (
	"github.com/sheetcore/engine/a1"
	"github.com/sheetcore/engine/grid"
	"github.com/sheetcore/engine/value"
)

// SelectionToRects resolves every range in sel to a concrete Rect, using
// this sheet's bounds to finitize unbounded sheet ranges and tables to
// resolve table ranges against their current extent (spec §4.3).
func (s *Sheet) SelectionToRects(sel *a1.A1Selection, tables func(name string) (a1.TableExtent, bool)) []a1.Rect {
	bounds := s.combinedBounds()
	out := make([]a1.Rect, 0, len(sel.Ranges))
	for _, r := range sel.Ranges {
		if r.IsTable() {
			t := r.Table()
			if tables == nil {
				continue
			}
			ext, ok := tables(t.Name)
			if !ok {
				continue
			}
			out = append(out, t.Resolve(ext))
			continue
		}
		out = append(out, r.Sheet().Finitize(bounds))
	}
	return out
}

func (s *Sheet) combinedBounds() a1.Rect {
	d, hasD := s.DataBounds()
	f, hasF := s.FormatBounds()
	switch {
	case hasD && hasF:
		return d.Union(f)
	case hasD:
		return d
	case hasF:
		return f
	default:
		return a1.Rect{}
	}
}

// selCategory orders selection ranges by enumeration precedence (spec
// §4.3): a whole-sheet range outranks columns, which outrank rows, which
// outrank plain rectangles. Table ranges always enumerate as rectangles.
type selCategory int

const (
	catWholeSheet selCategory = iota
	catColumns
	catRows
	catRects
)

func rangeCategory(r a1.CellRefRange) selCategory {
	if r.IsTable() {
		return catRects
	}
	bounds := r.Sheet()
	switch {
	case bounds.IsWholeSheet():
		return catWholeSheet
	case bounds.RowsUnconstrained():
		// rows unbounded, columns fixed: a whole-column selection like "B:D".
		return catColumns
	case bounds.ColsUnconstrained():
		// columns unbounded, rows fixed: a whole-row selection like "2:5".
		return catRows
	default:
		return catRects
	}
}

// SelectionValues enumerates the non-blank cells covered by sel. Ranges are
// grouped by their category (whole-sheet, columns, rows, rectangles); only
// the highest-precedence category present in sel is enumerated, the rest
// are ignored, per spec §4.3. CellValue::Blank entries are skipped unless
// includeBlanks is set; cells anchoring a code run are skipped when
// skipCodeRuns is set. Returns (nil, false) if the result would exceed
// maxCount entries (0 means unlimited).
func (s *Sheet) SelectionValues(sel *a1.A1Selection, tables func(name string) (a1.TableExtent, bool), maxCount int, skipCodeRuns, includeBlanks bool) (map[a1.Pos]value.CellValue, bool) {
	best := catRects
	for _, r := range sel.Ranges {
		if c := rangeCategory(r); c < best {
			best = c
		}
	}

	bounds := s.combinedBounds()
	var rects []a1.Rect
	for _, r := range sel.Ranges {
		if rangeCategory(r) != best {
			continue
		}
		if r.IsTable() {
			if tables == nil {
				continue
			}
			ext, ok := tables(r.Table().Name)
			if !ok {
				continue
			}
			rects = append(rects, r.Table().Resolve(ext))
			continue
		}
		rects = append(rects, r.Sheet().Finitize(bounds))
	}

	result := map[a1.Pos]value.CellValue{}
	for _, rect := range rects {
		for _, rv := range s.columns.ToRectsWithValues() {
			ir, ok := intersectRectSpec(rv.RectSpec, rect)
			if !ok {
				continue
			}
			if rv.Value.IsBlank() && !includeBlanks {
				continue
			}
			for x := ir.Min.X; x <= ir.Max.X; x++ {
				for y := ir.Min.Y; y <= ir.Max.Y; y++ {
					p := a1.Pos{X: x, Y: y}
					if _, already := result[p]; already {
						continue
					}
					if skipCodeRuns && s.IsCodeRunAnchor(p) {
						continue
					}
					result[p] = rv.Value
					if maxCount > 0 && len(result) > maxCount {
						return nil, false
					}
				}
			}
		}
	}
	return result, true
}

// intersectRectSpec clips a grid run (whose tail may be unbounded) against
// a finite a1.Rect, collapsing an unbounded end to rect's matching edge.
func intersectRectSpec(spec grid.RectSpec, rect a1.Rect) (a1.Rect, bool) {
	x2 := rect.Max.X
	if spec.X2 != nil {
		x2 = *spec.X2
	}
	y2 := rect.Max.Y
	if spec.Y2 != nil {
		y2 = *spec.Y2
	}
	run := a1.Rect{Min: a1.Pos{X: spec.X1, Y: spec.Y1}, Max: a1.Pos{X: x2, Y: y2}}
	return run.Intersection(rect)
}
