// Package value implements the CellValue tagged union and the array/shape
// algebra used by the formula evaluator (spec §3, §4.4).
package value

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sheetcore/engine/internal/errutil"
)

// Kind tags which variant a CellValue holds.
type Kind int

const (
	Blank Kind = iota
	Text
	Number
	Logical
	Date
	Time
	DateTime
	Code
	Error
)

// CellValue is the tagged union spec §3 describes: exactly one payload field
// is meaningful, selected by Kind.
type CellValue struct {
	kind   Kind
	text   string
	number decimal.Decimal
	logic  bool
	when   time.Time
	code   string
	err    errutil.Kind
}

func NewBlank() CellValue              { return CellValue{kind: Blank} }
func NewText(s string) CellValue       { return CellValue{kind: Text, text: s} }
func NewNumber(d decimal.Decimal) CellValue { return CellValue{kind: Number, number: d} }
func NewLogical(b bool) CellValue      { return CellValue{kind: Logical, logic: b} }
func NewDate(t time.Time) CellValue    { return CellValue{kind: Date, when: t} }
func NewTime(t time.Time) CellValue    { return CellValue{kind: Time, when: t} }
func NewDateTime(t time.Time) CellValue { return CellValue{kind: DateTime, when: t} }
func NewCode(s string) CellValue       { return CellValue{kind: Code, code: s} }
func NewError(k errutil.Kind) CellValue { return CellValue{kind: Error, err: k} }

func (v CellValue) Kind() Kind               { return v.kind }
func (v CellValue) IsBlank() bool            { return v.kind == Blank }
func (v CellValue) IsError() bool            { return v.kind == Error }
func (v CellValue) AsText() (string, bool)   { return v.text, v.kind == Text }
func (v CellValue) AsNumber() (decimal.Decimal, bool) { return v.number, v.kind == Number }
func (v CellValue) AsLogical() (bool, bool)  { return v.logic, v.kind == Logical }
func (v CellValue) AsTime() (time.Time, bool) {
	return v.when, v.kind == Date || v.kind == Time || v.kind == DateTime
}
func (v CellValue) AsCode() (string, bool)   { return v.code, v.kind == Code }
func (v CellValue) AsError() (errutil.Kind, bool) { return v.err, v.kind == Error }

// TypeName returns the spec §4.4-style lowercase type name used in error
// messages such as Expected{expected, got}.
func (v CellValue) TypeName() string {
	switch v.kind {
	case Blank:
		return "blank"
	case Text:
		return "text"
	case Number:
		return "number"
	case Logical:
		return "logical"
	case Date:
		return "date"
	case Time:
		return "time"
	case DateTime:
		return "datetime"
	case Code:
		return "code"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// CoerceNonBlank returns v, substituting a Number(0) for Blank — the
// implicit coercion formula arithmetic applies to empty cells.
func (v CellValue) CoerceNonBlank() CellValue {
	if v.kind == Blank {
		return NewNumber(decimal.Zero)
	}
	return v
}

// ToDisplay renders v the way it would appear unformatted in a cell.
func (v CellValue) ToDisplay() string {
	switch v.kind {
	case Blank:
		return ""
	case Text:
		return v.text
	case Number:
		return v.number.String()
	case Logical:
		if v.logic {
			return "TRUE"
		}
		return "FALSE"
	case Date:
		return v.when.Format("2006-01-02")
	case Time:
		return v.when.Format("15:04:05")
	case DateTime:
		return v.when.Format("2006-01-02 15:04:05")
	case Code:
		return v.code
	case Error:
		return v.err.String()
	default:
		return ""
	}
}

// Repr renders a debug-oriented representation including the kind tag.
func (v CellValue) Repr() string {
	return fmt.Sprintf("%s(%s)", v.TypeName(), v.ToDisplay())
}

// rank orders variants for TotalCmp's cross-kind tiebreak, mirroring
// Excel's blank < number < text < logical < error sort order.
func (k Kind) rank() int {
	switch k {
	case Blank:
		return 0
	case Number, Date, Time, DateTime:
		return 1
	case Text, Code:
		return 2
	case Logical:
		return 3
	case Error:
		return 4
	default:
		return 5
	}
}

// TotalCmp defines a total order over CellValue for SORT/UNIQUE/rank
// functions: blanks first, then numeric-like values by value, then text
// lexicographically (case-insensitive), then logical false < true, then
// errors by Kind.
func (v CellValue) TotalCmp(o CellValue) int {
	if rv, ro := v.kind.rank(), o.kind.rank(); rv != ro {
		if rv < ro {
			return -1
		}
		return 1
	}
	switch v.kind {
	case Blank:
		return 0
	case Number:
		return v.number.Cmp(o.number)
	case Date, Time, DateTime:
		if v.when.Before(o.when) {
			return -1
		}
		if v.when.After(o.when) {
			return 1
		}
		return 0
	case Text, Code:
		a, b := strings.ToLower(v.ToDisplay()), strings.ToLower(o.ToDisplay())
		return strings.Compare(a, b)
	case Logical:
		if v.logic == o.logic {
			return 0
		}
		if !v.logic {
			return -1
		}
		return 1
	case Error:
		if v.err == o.err {
			return 0
		}
		if v.err < o.err {
			return -1
		}
		return 1
	default:
		return 0
	}
}

func (v CellValue) Equal(o CellValue) bool { return v.TotalCmp(o) == 0 }
