package a1

// TableExtent is the geometry a NamingContext reports for a named table, so
// that TableRef can resolve itself to a concrete Rect without a1 needing to
// know anything about how tables are stored (spec §4.3's "table's current
// extent").
type TableExtent struct {
	SheetID    SheetID
	Rect       Rect
	HeaderRows int64 // number of header rows at the top of Rect, 0 if none
	TotalRows  int64 // number of total/summary rows at the bottom of Rect, 0 if none
	ColNames   []string
}

// TableRef is an opaque named-table reference with an optional column
// subset and header/total flags (spec §4.2). Column selection is expressed
// as a half-open [ColStart, ColEnd) index range into the table's ColNames;
// both -1 means "all columns".
type TableRef struct {
	Name           string
	ColStart       int
	ColEnd         int
	IncludeHeaders bool
	IncludeTotals  bool
	DataOnly       bool

	// colNames holds column names parsed positionally out of bracket syntax
	// (e.g. "Table[[colA]:[colB]]") before they can be resolved against a
	// table's live ColNames list. Resolved lazily in Resolve/CursorPos since
	// the parser has no TableExtent on hand.
	colNames []string
}

// AllColumns reports whether the reference spans every column of the table.
func (t TableRef) AllColumns() bool {
	return t.ColStart < 0 && t.ColEnd < 0 && len(t.colNames) == 0
}

// resolveColBounds turns named column references into a [start, end)
// index range against ext.ColNames, falling back to explicit ColStart/ColEnd.
func (t TableRef) resolveColBounds(ext TableExtent) (start, end int, ok bool) {
	if len(t.colNames) > 0 {
		lo, hi := -1, -1
		for i, want := range t.colNames {
			for j, have := range ext.ColNames {
				if have == want {
					if i == 0 {
						lo = j
					}
					hi = j
				}
			}
		}
		if lo >= 0 && hi >= 0 {
			return lo, hi + 1, true
		}
		return 0, 0, false
	}
	if t.ColStart >= 0 || t.ColEnd >= 0 {
		return t.ColStart, t.ColEnd, true
	}
	return 0, 0, false
}

// Resolve turns t into a concrete Rect given the table's current extent,
// honoring the header/total/column-subset flags.
func (t TableRef) Resolve(ext TableExtent) Rect {
	r := ext.Rect
	top := r.Min.Y
	bottom := r.Max.Y
	if t.DataOnly || !t.IncludeHeaders {
		top += ext.HeaderRows
	}
	if !t.IncludeTotals {
		bottom -= ext.TotalRows
	}
	if bottom < top {
		bottom = top
	}
	left, right := r.Min.X, r.Max.X
	if start, end, ok := t.resolveColBounds(ext); ok {
		if start >= 0 {
			left = r.Min.X + int64(start)
		}
		if end >= 0 {
			right = r.Min.X + int64(end) - 1
		}
	}
	return Rect{Min: Pos{X: left, Y: top}, Max: Pos{X: right, Y: bottom}}
}

// CursorPos returns the first data cell after the header offset, per spec
// §4.2's "first data cell after header offset" cursor rule.
func (t TableRef) CursorPos(ext TableExtent) Pos {
	rect := t.Resolve(ext)
	return rect.Min
}
