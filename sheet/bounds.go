package sheet

import (
	"github.com/sheetcore/engine/a1"
	"github.com/sheetcore/engine/format"
	"github.com/sheetcore/engine/grid"
)

// RecalculateBounds rebuilds data_bounds and format_bounds from scratch by
// scanning every stored cell/format run and every code-run output and
// validation marker, then unioning their bounding rectangles (spec §4.3).
// It returns true iff either bound changed.
func (s *Sheet) RecalculateBounds() bool {
	oldData, hadData := s.dataBounds, s.hasData
	oldFormat, hadFormat := s.formatBounds, s.hasFormat

	s.hasData = false
	s.hasFormat = false

	for _, rv := range s.columns.ToRectsWithValues() {
		if rv.Value.IsBlank() {
			continue
		}
		s.unionData(rectFromSpec(rv.RectSpec))
	}
	for _, rv := range s.codeRuns.ToRectsWithValues() {
		if rv.Value.IsBlank() {
			continue
		}
		s.unionData(rectFromSpec(rv.RectSpec))
	}
	for _, rv := range s.formats.ToRectsWithValues() {
		if rv.Value == (format.CellFormat{}) {
			continue
		}
		s.unionFormat(rectFromSpec(rv.RectSpec))
	}
	for _, v := range s.validations {
		if !v.RendersMark {
			continue
		}
		bounds := a1.Rect{Min: a1.Pos{X: 1, Y: 1}, Max: a1.Pos{X: 1, Y: 1}}
		if s.hasData {
			bounds = s.dataBounds
		}
		s.unionFormat(v.Range.Finitize(bounds))
	}

	changed := s.hasData != hadData || (s.hasData && s.dataBounds != oldData)
	changed = changed || s.hasFormat != hadFormat || (s.hasFormat && s.formatBounds != oldFormat)
	return changed
}

func (s *Sheet) unionData(r a1.Rect) {
	if !s.hasData {
		s.dataBounds = r
		s.hasData = true
		return
	}
	s.dataBounds = s.dataBounds.Union(r)
}

func (s *Sheet) unionFormat(r a1.Rect) {
	if !s.hasFormat {
		s.formatBounds = r
		s.hasFormat = true
		return
	}
	s.formatBounds = s.formatBounds.Union(r)
}

// rectFromSpec converts a grid.RectSpec to an a1.Rect. An unbounded tail
// (nil X2/Y2) collapses to the start coordinate: sheets never actually
// extend cell data to infinity, so an unbounded run only arises from
// whole-row/column formatting, which should not blow up the data/format
// bounding box.
func rectFromSpec(spec grid.RectSpec) a1.Rect {
	x2 := spec.X1
	if spec.X2 != nil {
		x2 = *spec.X2
	}
	y2 := spec.Y1
	if spec.Y2 != nil {
		y2 = *spec.Y2
	}
	return a1.Rect{Min: a1.Pos{X: spec.X1, Y: spec.Y1}, Max: a1.Pos{X: x2, Y: y2}}
}
