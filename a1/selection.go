package a1

import "strings"

// A1Selection is a parsed, sheet-bound selection: a cursor cell plus an
// ordered list of ranges, possibly mixing plain ranges and table references
// (spec §3, §4.2).
type A1Selection struct {
	SheetID SheetID
	Cursor  Pos
	Ranges  []CellRefRange
}

// ParseSelection is the package-level entry point mirroring Parse, kept as a
// method-style constructor for callers that prefer A1Selection.Parse(...).
func ParseSelection(s string, defaultSheet SheetID, naming NamingContext) (*A1Selection, error) {
	return Parse(s, defaultSheet, naming)
}

// String prints the selection in canonical form: comma-separated ranges, each
// optionally prefixed with the sheet name when it differs from
// defaultSheetName, quoting the name when it contains characters that would
// otherwise be ambiguous.
func (s *A1Selection) String(defaultSheetName, ownSheetName string) string {
	prefix := ""
	if ownSheetName != defaultSheetName {
		prefix = quoteSheetName(ownSheetName) + "!"
	}
	parts := make([]string, len(s.Ranges))
	for i, r := range s.Ranges {
		if r.IsTable() {
			parts[i] = printTableRef(r.Table())
		} else {
			parts[i] = prefix + r.Sheet().String()
		}
	}
	return strings.Join(parts, ",")
}

func quoteSheetName(name string) string {
	needsQuote := name == "" || strings.ContainsAny(name, " !'()[]{}:,+-*/<>=&%^")
	for _, r := range name {
		if r >= '0' && r <= '9' {
			needsQuote = true
		}
	}
	if !needsQuote {
		return name
	}
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func printTableRef(t TableRef) string {
	var b strings.Builder
	b.WriteString(t.Name)
	b.WriteByte('[')
	first := true
	writeSep := func() {
		if !first {
			b.WriteByte(',')
		}
		first = false
	}
	if t.IncludeHeaders && t.IncludeTotals {
		writeSep()
		b.WriteString("#All")
	} else {
		if t.IncludeHeaders {
			writeSep()
			b.WriteString("#Headers")
		}
		if t.IncludeTotals {
			writeSep()
			b.WriteString("#Totals")
		}
		if t.DataOnly {
			writeSep()
			b.WriteString("#Data")
		}
	}
	for _, name := range t.colNames {
		writeSep()
		b.WriteByte('[')
		b.WriteString(name)
		b.WriteByte(']')
	}
	b.WriteByte(']')
	return b.String()
}

// ContainsPos reports whether any range in the selection contains p.
func (s *A1Selection) ContainsPos(p Pos) bool {
	for _, r := range s.Ranges {
		if r.ContainsPos(p) {
			return true
		}
	}
	return false
}

// Intersection computes the intersection of two selections on the same
// sheet: the set of pairwise range intersections, plus a cursor chosen per
// spec §4.2's cursor-preference rule — prefer this selection's cursor if it
// still falls within the intersection, else the other selection's cursor,
// else the last intersecting range's end corner. Table ranges never
// intersect anything (including other table ranges): they "fall through",
// per the Open Question resolution recorded in SPEC_FULL.md.
func (s *A1Selection) Intersection(o *A1Selection) (*A1Selection, bool) {
	if s.SheetID != o.SheetID {
		return nil, false
	}
	var out []CellRefRange
	for _, a := range s.Ranges {
		if a.IsTable() {
			continue
		}
		for _, b := range o.Ranges {
			if b.IsTable() {
				continue
			}
			if ir, ok := a.Sheet().Intersect(b.Sheet()); ok {
				out = append(out, NewSheetRange(ir))
			}
		}
	}
	if len(out) == 0 {
		return nil, false
	}

	result := &A1Selection{SheetID: s.SheetID, Ranges: out}
	switch {
	case result.ContainsPos(s.Cursor):
		result.Cursor = s.Cursor
	case result.ContainsPos(o.Cursor):
		result.Cursor = o.Cursor
	default:
		last := out[len(out)-1].Sheet()
		result.Cursor = last.endOrStart().mustPos()
	}
	return result, true
}

// mustPos returns the endpoint's concrete position, defaulting missing axes
// to 1 — used only when every caller has already ensured both axes exist or
// accepts the default (cursor fallback after intersection, which is always
// finite since it comes from a bounded, non-table range pair).
func (e CellRefRangeEnd) mustPos() Pos {
	if p, ok := e.pos(); ok {
		return p
	}
	x, y := int64(1), int64(1)
	if e.Col != nil {
		x = e.Col.Value
	}
	if e.Row != nil {
		y = e.Row.Value
	}
	return Pos{X: x, Y: y}
}
