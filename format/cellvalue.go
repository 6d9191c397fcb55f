package format

import (
	"github.com/sheetcore/engine/value"
)

// FormatCellValue renders v for display using f, implementing the general
// cell-to-display rendering path and the body of the TEXT() formula
// function (spec §4.5).
func FormatCellValue(v value.CellValue, f CellFormat, date1904 bool) string {
	switch v.Kind() {
	case value.Blank:
		return ""
	case value.Text, value.Code:
		s, _ := v.AsText()
		if s == "" {
			s, _ = v.AsCode()
		}
		return FormatValue(s, f, date1904)
	case value.Number:
		n, _ := v.AsNumber()
		fv, _ := n.Float64()
		return FormatValue(fv, f, date1904)
	case value.Logical:
		b, _ := v.AsLogical()
		return FormatValue(b, f, date1904)
	case value.Date, value.Time, value.DateTime:
		return v.ToDisplay()
	case value.Error:
		return v.ToDisplay()
	default:
		return ""
	}
}
