package formula

import (
	"regexp"
	"strings"
	"unicode/utf16"

	"github.com/dlclark/regexp2"
	"github.com/shopspring/decimal"

	"github.com/sheetcore/engine/format"
	"github.com/sheetcore/engine/internal/errutil"
	"github.com/sheetcore/engine/value"
)

func intDecimal(n int) decimal.Decimal { return decimal.NewFromInt(int64(n)) }

// FIND returns the 1-based position of needle within haystack starting at
// (1-based) start, case-sensitive; a miss is reported as the NoMatch error
// kind (spec §4.5).
func FIND(needle, haystack string, start int) (value.CellValue, error) {
	if start < 1 {
		start = 1
	}
	if start > len(haystack)+1 {
		return value.CellValue{}, errutil.New(errutil.ValueInvalid, "formula: FIND", "start position out of range")
	}
	idx := strings.Index(haystack[start-1:], needle)
	if idx < 0 {
		return value.CellValue{}, errutil.New(errutil.NoMatch, "formula: FIND", "text not found")
	}
	return value.NewNumber(intDecimal(idx + start)), nil
}

// wildcardToRegex translates an Excel wildcard pattern into an unanchored
// regex: "?" matches any single character, "*" matches any run, and "~"
// escapes the character that follows it so a literal "?"/"*"/"~" can be
// matched, mirroring the original's wildcard_pattern_to_regex.
func wildcardToRegex(pattern string) string {
	var b strings.Builder
	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		switch r := runes[i]; r {
		case '~':
			if i+1 < len(runes) {
				i++
				b.WriteString(regexp.QuoteMeta(string(runes[i])))
			} else {
				b.WriteString(regexp.QuoteMeta("~"))
			}
		case '?':
			b.WriteString(".")
		case '*':
			b.WriteString(".*")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	return b.String()
}

// SEARCH is FIND's case-insensitive counterpart, additionally supporting
// Excel's "?" and "*" wildcards by compiling needle to a regexp2 pattern
// (spec §4.5).
func SEARCH(needle, haystack string, start int) (value.CellValue, error) {
	if start < 1 {
		start = 1
	}
	hayRunes := []rune(haystack)
	if start > len(hayRunes)+1 {
		return value.CellValue{}, errutil.New(errutil.ValueInvalid, "formula: SEARCH", "start position out of range")
	}
	re, err := regexp2.Compile(wildcardToRegex(needle), regexp2.IgnoreCase)
	if err != nil {
		return value.CellValue{}, errutil.Wrap(errutil.ValueInvalid, "formula: SEARCH", err)
	}
	m, err := re.FindStringMatch(string(hayRunes[start-1:]))
	if err != nil {
		return value.CellValue{}, errutil.Wrap(errutil.ValueInvalid, "formula: SEARCH", err)
	}
	if m == nil {
		return value.CellValue{}, errutil.New(errutil.NoMatch, "formula: SEARCH", "text not found")
	}
	return value.NewNumber(intDecimal(m.Index + start)), nil
}

// FINDB is FIND measured in UTF-16 code units, matching Excel's DBCS byte
// counting for East Asian locales.
func FINDB(needle, haystack string, start int) (value.CellValue, error) {
	nu, hu := utf16.Encode([]rune(needle)), utf16.Encode([]rune(haystack))
	if start < 1 {
		start = 1
	}
	for i := start - 1; i+len(nu) <= len(hu); i++ {
		if utf16Equal(hu[i:i+len(nu)], nu) {
			return value.NewNumber(intDecimal(i + 1)), nil
		}
	}
	return value.CellValue{}, errutil.New(errutil.NoMatch, "formula: FINDB", "text not found")
}

// SEARCHB is SEARCH measured in UTF-16 code units: it runs the same
// wildcard-aware match and then converts the match's rune offset to a
// UTF-16 code-unit offset.
func SEARCHB(needle, haystack string, start int) (value.CellValue, error) {
	if start < 1 {
		start = 1
	}
	hayRunes := []rune(haystack)
	if start > len(hayRunes)+1 {
		return value.CellValue{}, errutil.New(errutil.ValueInvalid, "formula: SEARCHB", "start position out of range")
	}
	re, err := regexp2.Compile(wildcardToRegex(needle), regexp2.IgnoreCase)
	if err != nil {
		return value.CellValue{}, errutil.Wrap(errutil.ValueInvalid, "formula: SEARCHB", err)
	}
	m, err := re.FindStringMatch(string(hayRunes[start-1:]))
	if err != nil {
		return value.CellValue{}, errutil.Wrap(errutil.ValueInvalid, "formula: SEARCHB", err)
	}
	if m == nil {
		return value.CellValue{}, errutil.New(errutil.NoMatch, "formula: SEARCHB", "text not found")
	}
	matchRune := start - 1 + m.Index
	prefixUnits := len(utf16.Encode(hayRunes[:matchRune]))
	return value.NewNumber(intDecimal(prefixUnits + 1)), nil
}

func utf16Equal(a, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TEXT renders v using the given number-format code string, delegating to
// the format package's rendering engine.
func TEXT(c *Ctx, v value.CellValue, fmtCode string) (value.CellValue, error) {
	return value.NewText(format.FormatCellValue(v, format.CellFormat{FmtStr: fmtCode}, c.Date1904)), nil
}

// splitFold splits s on sep case-insensitively, preserving s's original
// casing in the returned segments.
func splitFold(s, sep string) []string {
	lowerS, lowerSep := strings.ToLower(s), strings.ToLower(sep)
	var parts []string
	start := 0
	for {
		idx := strings.Index(lowerS[start:], lowerSep)
		if idx < 0 {
			parts = append(parts, s[start:])
			return parts
		}
		parts = append(parts, s[start:start+idx])
		start += idx + len(sep)
	}
}

// TEXTSPLIT splits s into a 2-D array of text values: rowDelim (if
// non-empty) cuts s into rows first, then colDelim (if non-empty) cuts each
// row into columns (spec §4.5). ignoreEmpty drops empty segments before
// rows/columns are assembled; matchCase selects case-sensitive splitting.
// Rows shorter than the widest row are padded out with pad.
func TEXTSPLIT(s, colDelim, rowDelim string, ignoreEmpty, matchCase bool, pad value.CellValue) (*value.Array, error) {
	if colDelim == "" && rowDelim == "" {
		return nil, errutil.New(errutil.InvalidArgument, "formula: TEXTSPLIT", "at least one delimiter is required")
	}
	splitOn := func(s, sep string) []string {
		if sep == "" {
			return []string{s}
		}
		if matchCase {
			return strings.Split(s, sep)
		}
		return splitFold(s, sep)
	}
	filterEmpty := func(parts []string) []string {
		if !ignoreEmpty {
			return parts
		}
		out := parts[:0]
		for _, p := range parts {
			if p != "" {
				out = append(out, p)
			}
		}
		if len(out) == 0 {
			return []string{""}
		}
		return out
	}

	rowParts := filterEmpty(splitOn(s, rowDelim))
	rows := make([][]string, len(rowParts))
	width := 0
	for i, r := range rowParts {
		cols := filterEmpty(splitOn(r, colDelim))
		rows[i] = cols
		if len(cols) > width {
			width = len(cols)
		}
	}

	data := make([]value.CellValue, len(rows)*width)
	for r, cols := range rows {
		for c := 0; c < width; c++ {
			if c < len(cols) {
				data[r*width+c] = value.NewText(cols[c])
			} else {
				data[r*width+c] = pad
			}
		}
	}
	return value.NewArray(int64(width), int64(len(rows)), data)
}

func compileRegex(pattern string) (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, errutil.Wrap(errutil.ValueInvalid, "formula: regex compile", err)
	}
	return re, nil
}

// REGEXTEST reports whether pattern matches anywhere in s.
func REGEXTEST(s, pattern string) (value.CellValue, error) {
	re, err := compileRegex(pattern)
	if err != nil {
		return value.CellValue{}, err
	}
	m, err := re.FindStringMatch(s)
	if err != nil {
		return value.CellValue{}, errutil.Wrap(errutil.ValueInvalid, "formula: REGEXTEST", err)
	}
	return value.NewLogical(m != nil), nil
}

// REGEXEXTRACT returns the first match of pattern in s, or that match's
// capture group number group when group > 0.
func REGEXEXTRACT(s, pattern string, group int) (value.CellValue, error) {
	re, err := compileRegex(pattern)
	if err != nil {
		return value.CellValue{}, err
	}
	m, err := re.FindStringMatch(s)
	if err != nil {
		return value.CellValue{}, errutil.Wrap(errutil.ValueInvalid, "formula: REGEXEXTRACT", err)
	}
	if m == nil {
		return value.CellValue{}, errutil.New(errutil.NoMatch, "formula: REGEXEXTRACT", "no match")
	}
	if group <= 0 {
		return value.NewText(m.String()), nil
	}
	g := m.GroupByNumber(group)
	if g == nil {
		return value.CellValue{}, errutil.New(errutil.NotAvailable, "formula: REGEXEXTRACT", "no such group")
	}
	return value.NewText(g.String()), nil
}

// REGEXREPLACE replaces every match of pattern in s with replacement.
func REGEXREPLACE(s, pattern, replacement string) (value.CellValue, error) {
	re, err := compileRegex(pattern)
	if err != nil {
		return value.CellValue{}, err
	}
	out, err := re.Replace(s, replacement, -1, -1)
	if err != nil {
		return value.CellValue{}, errutil.Wrap(errutil.ValueInvalid, "formula: REGEXREPLACE", err)
	}
	return value.NewText(out), nil
}
