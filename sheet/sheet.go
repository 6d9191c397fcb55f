// Package sheet implements the spreadsheet spatial model: per-sheet cell
// storage, merge-cell tracking, bounds aggregation, and selection
// resolution (spec §4.3).
package sheet

import (
	"github.com/sheetcore/engine/a1"
	"github.com/sheetcore/engine/format"
	"github.com/sheetcore/engine/grid"
	"github.com/sheetcore/engine/value"
)

// MaxNeighborText bounds the result of NeighborText (spec §4.3).
const MaxNeighborText = 25

// Validation is a minimal data-validation rule: a range plus a predicate
// that renders a marker in the UI when it fails. Full validation-rule
// grammar (list/decimal/custom formula) is out of this engine's scope; the
// Sheet only needs enough of the shape to participate in RecalculateBounds.
type Validation struct {
	Range       a1.RefRangeBounds
	RendersMark bool
}

// Sheet owns one worksheet's cell data, formatting, merges, and bounds
// (spec §3's Sheet data model).
type Sheet struct {
	// ID is this sheet's workbook-scoped identifier.
	ID a1.SheetID
	// Name is the display name shown on the sheet tab.
	Name string

	// columns holds the sparse cell-value grid.
	columns *grid.Contiguous2D[value.CellValue]
	// codeRuns maps a spill anchor to the formula Code value stored there;
	// the spilled output cells themselves live in columns as ordinary
	// values, addressed relative to the anchor.
	codeRuns *grid.Contiguous2D[value.CellValue]
	// formats holds per-cell resolved formatting attributes.
	formats *grid.Contiguous2D[format.CellFormat]
	// mergeCells maps every covered cell to its merge's anchor (top-left).
	mergeCells *grid.Contiguous2D[*a1.Pos]

	validations []Validation

	dataBounds   a1.Rect
	formatBounds a1.Rect
	hasData      bool
	hasFormat    bool
}

func cellValueEqual(a, b value.CellValue) bool { return a.Equal(b) }

func formatEqual(a, b format.CellFormat) bool { return a == b }

func posEqual(a, b *a1.Pos) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// New creates an empty sheet with the given id and name.
func New(id a1.SheetID, name string) *Sheet {
	return &Sheet{
		ID:         id,
		Name:       name,
		columns:    grid.New[value.CellValue](cellValueEqual),
		codeRuns:   grid.New[value.CellValue](cellValueEqual),
		formats:    grid.New[format.CellFormat](formatEqual),
		mergeCells: grid.New[*a1.Pos](posEqual),
	}
}

func toGridPos(p a1.Pos) grid.Pos { return grid.Pos{X: p.X, Y: p.Y} }

// SetCell writes v at p.
func (s *Sheet) SetCell(p a1.Pos, v value.CellValue) {
	s.columns.Set(toGridPos(p), v)
}

// Cell reads the value at p, or a blank CellValue if nothing is stored.
func (s *Sheet) Cell(p a1.Pos) value.CellValue {
	v, ok := s.columns.Get(toGridPos(p))
	if !ok {
		return value.NewBlank()
	}
	return v
}

// SetFormat writes f at p.
func (s *Sheet) SetFormat(p a1.Pos, f format.CellFormat) {
	s.formats.Set(toGridPos(p), f)
}

// Format reads the format at p, or the zero CellFormat (General, no style).
func (s *Sheet) Format(p a1.Pos) format.CellFormat {
	f, ok := s.formats.Get(toGridPos(p))
	if !ok {
		return format.CellFormat{}
	}
	return f
}

// SetCodeRun anchors a formula's Code value at p.
func (s *Sheet) SetCodeRun(p a1.Pos, v value.CellValue) {
	s.codeRuns.Set(toGridPos(p), v)
}

// IsCodeRunAnchor reports whether p holds a formula anchor.
func (s *Sheet) IsCodeRunAnchor(p a1.Pos) bool {
	_, ok := s.codeRuns.Get(toGridPos(p))
	return ok
}

// DataBounds returns the monotone rectangle bounding all non-blank cells.
func (s *Sheet) DataBounds() (a1.Rect, bool) { return s.dataBounds, s.hasData }

// FormatBounds returns the monotone rectangle bounding all formatted cells.
func (s *Sheet) FormatBounds() (a1.Rect, bool) { return s.formatBounds, s.hasFormat }

// AddValidation registers a validation rule.
func (s *Sheet) AddValidation(v Validation) {
	s.validations = append(s.validations, v)
}
