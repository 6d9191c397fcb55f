package a1

// CellRefRange is a sum type of a plain sheet range and a named-table
// reference (spec §3). Exactly one of Sheet/Table is populated; IsTable
// reports which.
type CellRefRange struct {
	isTable bool
	sheet   RefRangeBounds
	table   TableRef
}

// NewSheetRange wraps a RefRangeBounds as a CellRefRange.
func NewSheetRange(r RefRangeBounds) CellRefRange {
	return CellRefRange{sheet: r}
}

// NewTableRange wraps a TableRef as a CellRefRange.
func NewTableRange(t TableRef) CellRefRange {
	return CellRefRange{isTable: true, table: t}
}

// IsTable reports whether this reference is a table reference.
func (c CellRefRange) IsTable() bool { return c.isTable }

// Sheet returns the underlying RefRangeBounds; only valid when !IsTable().
func (c CellRefRange) Sheet() RefRangeBounds { return c.sheet }

// Table returns the underlying TableRef; only valid when IsTable().
func (c CellRefRange) Table() TableRef { return c.table }

// ContainsPos tests containment for sheet ranges; table ranges always
// report false here since their geometry depends on the table's live
// extent, resolved externally via TableRef.Resolve.
func (c CellRefRange) ContainsPos(p Pos) bool {
	if c.isTable {
		return false
	}
	return c.sheet.ContainsPos(p)
}

// Translate shifts a sheet range; table references are untouched (they
// track their table, not absolute coordinates).
func (c CellRefRange) Translate(dx, dy int64) CellRefRange {
	if c.isTable {
		return c
	}
	return NewSheetRange(c.sheet.Translate(dx, dy))
}
