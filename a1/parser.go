package a1

import (
	"strconv"
	"strings"
)

// NamingContext resolves sheet and table names encountered while parsing a
// selection string (spec §4.2's "naming context").
type NamingContext interface {
	ResolveSheet(name string) (SheetID, bool)
	ResolveTable(name string) (TableExtent, bool)
}

// Parse parses s against defaultSheet and naming, returning a populated
// A1Selection or an error (spec §4.2 parser contract).
func Parse(s string, defaultSheet SheetID, naming NamingContext) (*A1Selection, error) {
	segments := splitUnquoted(s, ',')
	var ranges []CellRefRange
	var sheetID SheetID
	sheetSet := false

	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		id, rng, err := parseSegment(seg, defaultSheet, naming)
		if err != nil {
			return nil, err
		}
		if !sheetSet {
			sheetID = id
			sheetSet = true
		} else if sheetID != id {
			return nil, &TooManySheetsError{Input: s}
		}
		ranges = append(ranges, rng)
	}

	if len(ranges) == 0 {
		return nil, &InvalidRangeError{Input: s}
	}

	sel := &A1Selection{SheetID: sheetID, Ranges: ranges}
	sel.Cursor = cursorFromLastRange(ranges[len(ranges)-1], naming)
	return sel, nil
}

// cursorFromLastRange implements spec §4.2's cursor_pos_from_last_range:
// the start of the bounding cell for ordinary ranges, or the table's first
// data cell for table references.
func cursorFromLastRange(r CellRefRange, naming NamingContext) Pos {
	if r.IsTable() {
		t := r.Table()
		if naming != nil {
			if ext, ok := naming.ResolveTable(t.Name); ok {
				return t.CursorPos(ext)
			}
		}
		return Pos{X: 1, Y: 1}
	}
	bounds := r.Sheet()
	if p, ok := bounds.Start.pos(); ok {
		return p
	}
	cl, _, colOK := bounds.colBounds()
	rl, _, rowOK := bounds.rowBounds()
	x, y := int64(1), int64(1)
	if colOK {
		x = cl
	}
	if rowOK {
		y = rl
	}
	return Pos{X: x, Y: y}
}

// parseSegment parses one comma-delimited segment, including an optional
// sheet-qualifying prefix.
func parseSegment(seg string, defaultSheet SheetID, naming NamingContext) (SheetID, CellRefRange, error) {
	sheetID := defaultSheet
	rest := seg

	if name, tail, ok := splitSheetPrefix(seg); ok {
		rest = tail
		if naming != nil {
			if id, ok := naming.ResolveSheet(name); ok {
				sheetID = id
			} else {
				return SheetID{}, CellRefRange{}, &InvalidRangeError{Input: seg}
			}
		}
	}

	if name, inner, ok := splitTableRef(rest); ok {
		tref, err := parseTableRef(name, inner)
		if err != nil {
			return SheetID{}, CellRefRange{}, err
		}
		return sheetID, NewTableRange(tref), nil
	}

	rng, err := parsePlainRange(rest)
	if err != nil {
		return SheetID{}, CellRefRange{}, &InvalidRangeError{Input: seg}
	}
	return sheetID, NewSheetRange(rng), nil
}

// splitSheetPrefix detects a "Name!" or "'quoted name'!" prefix and returns
// the unescaped sheet name plus the remainder after "!".
func splitSheetPrefix(s string) (name, rest string, ok bool) {
	if strings.HasPrefix(s, "'") {
		i := 1
		var b strings.Builder
		for i < len(s) {
			if s[i] == '\'' {
				if i+1 < len(s) && s[i+1] == '\'' { // escaped quote
					b.WriteByte('\'')
					i += 2
					continue
				}
				i++
				break
			}
			b.WriteByte(s[i])
			i++
		}
		if i < len(s) && s[i] == '!' {
			return b.String(), s[i+1:], true
		}
		return "", s, false
	}
	if idx := strings.IndexByte(s, '!'); idx >= 0 {
		return s[:idx], s[idx+1:], true
	}
	return "", s, false
}

// splitTableRef detects "Name[...]" syntax.
func splitTableRef(s string) (name, inner string, ok bool) {
	open := strings.IndexByte(s, '[')
	if open < 0 || !strings.HasSuffix(s, "]") {
		return "", "", false
	}
	name = s[:open]
	if name == "" {
		return "", "", false
	}
	return name, s[open+1 : len(s)-1], true
}

// parseTableRef handles the table-ref grammar described in spec §4.2:
// "Table[col1:col2]", "Table[[#Headers],[colA]]", etc. Column names are
// recorded positionally; callers resolve indices against the table's
// current column list via NamingContext when evaluating.
func parseTableRef(name, inner string) (TableRef, error) {
	t := TableRef{Name: name, ColStart: -1, ColEnd: -1}
	parts := splitUnquoted(inner, ',')
	var cols []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		p = strings.TrimPrefix(p, "[")
		p = strings.TrimSuffix(p, "]")
		switch strings.ToLower(p) {
		case "#headers":
			t.IncludeHeaders = true
		case "#totals":
			t.IncludeTotals = true
		case "#data":
			t.DataOnly = true
		case "#all":
			t.IncludeHeaders = true
			t.IncludeTotals = true
		case "":
			// skip
		default:
			if strings.Contains(p, ":") {
				bounds := strings.SplitN(p, ":", 2)
				cols = append(cols, strings.Trim(strings.TrimSpace(bounds[0]), "[]"), strings.Trim(strings.TrimSpace(bounds[1]), "[]"))
			} else {
				cols = append(cols, p)
			}
		}
	}
	t.colNames = cols
	return t, nil
}

// parsePlainRange parses "end" or "end:end" or "*".
func parsePlainRange(s string) (RefRangeBounds, error) {
	if s == "*" {
		return All(), nil
	}
	if idx := strings.IndexByte(s, ':'); idx >= 0 {
		leftStr, rightStr := s[:idx], s[idx+1:]
		left, err := parseEnd(leftStr)
		if err != nil {
			return RefRangeBounds{}, err
		}
		right, err := parseEnd(rightStr)
		if err != nil {
			return RefRangeBounds{}, err
		}
		if leftStr == "" && rightStr == "" {
			return All(), nil
		}
		return NewRange(left, right), nil
	}
	end, err := parseEnd(s)
	if err != nil {
		return RefRangeBounds{}, err
	}
	if end.Col == nil && end.Row == nil {
		return RefRangeBounds{}, &InvalidRangeError{Input: s}
	}
	return RefRangeBounds{Start: end}, nil
}

// parseEnd parses one endpoint: a cell, a column-only, a row-only, or an
// empty string denoting a wildcard.
func parseEnd(s string) (CellRefRangeEnd, error) {
	if s == "" {
		return wildcard(), nil
	}
	i := 0
	colAbs := false
	if i < len(s) && s[i] == '$' {
		colAbs = true
		i++
	}
	letterStart := i
	for i < len(s) && isAlpha(s[i]) {
		i++
	}
	letters := s[letterStart:i]

	rowAbs := false
	if i < len(s) && s[i] == '$' {
		rowAbs = true
		i++
	}
	digitStart := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	digits := s[digitStart:i]

	if i != len(s) {
		return CellRefRangeEnd{}, &InvalidRangeError{Input: s}
	}

	switch {
	case letters != "" && digits != "":
		col, ok := ColIndex(letters)
		if !ok {
			return CellRefRangeEnd{}, &InvalidRangeError{Input: s}
		}
		row, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			return CellRefRangeEnd{}, &InvalidRangeError{Input: s}
		}
		return cell(Coord{Value: col, IsAbsolute: colAbs}, Coord{Value: row, IsAbsolute: rowAbs}), nil
	case letters != "":
		col, ok := ColIndex(letters)
		if !ok {
			return CellRefRangeEnd{}, &InvalidRangeError{Input: s}
		}
		return colOnly(Coord{Value: col, IsAbsolute: colAbs}), nil
	case digits != "":
		row, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			return CellRefRangeEnd{}, &InvalidRangeError{Input: s}
		}
		return rowOnly(Coord{Value: row, IsAbsolute: rowAbs}), nil
	default:
		return CellRefRangeEnd{}, &InvalidRangeError{Input: s}
	}
}

func isAlpha(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// splitUnquoted splits s on sep, ignoring occurrences of sep inside
// single-quoted sections (spec §4.2: "commas inside single-quoted names are
// not separators").
func splitUnquoted(s string, sep byte) []string {
	var out []string
	inQuote := false
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\'':
			inQuote = !inQuote
		case sep:
			if !inQuote {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, s[start:])
	return out
}
