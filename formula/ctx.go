// Package formula implements the spreadsheet formula function library:
// calendar arithmetic, text/regex functions, descriptive statistics, and
// the array-producing lambda wrappers (MAP/REDUCE/SCAN/MAKEARRAY/BYROW/
// BYCOL) that bind parameters through a Ctx (spec §4.5, §9).
package formula

import (
	"fmt"

	"github.com/sheetcore/engine/a1"
	"github.com/sheetcore/engine/internal/errutil"
	"github.com/sheetcore/engine/sheet"
	"github.com/sheetcore/engine/value"
)

// Ctx is the evaluation context threaded through a formula: the sheet the
// formula lives on, the anchor cell it is evaluating for, and a stack of
// lambda binding frames (spec §9's Open Question resolution: lambdas bind
// parameters via an explicit push/pop frame stack rather than Go closures,
// so a Lambda value can be passed around and invoked from native Go code
// without capturing a live evaluator).
type Ctx struct {
	Sheet    *sheet.Sheet
	Pos      a1.Pos
	Date1904 bool

	frames      []frame
	arrayFrames []arrayFrame
}

type frame struct {
	names  []string
	values []value.CellValue
}

type arrayFrame struct {
	name  string
	array *value.Array
}

// Push binds names to values in a new frame, which Lookup searches before
// any outer frame (lexical shadowing).
func (c *Ctx) Push(names []string, values []value.CellValue) {
	c.frames = append(c.frames, frame{names: names, values: values})
}

// Pop discards the innermost binding frame. Callers must pair every Push
// with a Pop, typically via defer.
func (c *Ctx) Pop() {
	c.frames = c.frames[:len(c.frames)-1]
}

// Lookup resolves a bound parameter name against the frame stack,
// innermost first.
func (c *Ctx) Lookup(name string) (value.CellValue, bool) {
	for i := len(c.frames) - 1; i >= 0; i-- {
		f := c.frames[i]
		for j, n := range f.names {
			if n == name {
				return f.values[j], true
			}
		}
	}
	return value.CellValue{}, false
}

// PushArray binds name to an array value in a new array-valued frame. Used
// by BYROW/BYCOL to pass a whole row or column to a single-parameter
// lambda: CellValue is a scalar tagged union and cannot itself carry an
// array payload, so array-valued bindings live on a separate stack that
// LookupArray searches.
func (c *Ctx) PushArray(name string, array *value.Array) {
	c.arrayFrames = append(c.arrayFrames, arrayFrame{name: name, array: array})
}

// PopArray discards the innermost array-valued binding frame.
func (c *Ctx) PopArray() {
	c.arrayFrames = c.arrayFrames[:len(c.arrayFrames)-1]
}

// LookupArray resolves a bound array parameter against the array-frame
// stack, innermost first.
func (c *Ctx) LookupArray(name string) (*value.Array, bool) {
	for i := len(c.arrayFrames) - 1; i >= 0; i-- {
		if c.arrayFrames[i].name == name {
			return c.arrayFrames[i].array, true
		}
	}
	return nil, false
}

// Lambda is a named-parameter formula body that Invoke evaluates against a
// fresh binding frame pushed onto Ctx. Eval is supplied by the formula
// evaluator that owns the parsed expression tree; formula itself only
// defines the binding-frame contract lambdas are invoked through.
type Lambda struct {
	Params []string
	Eval   func(c *Ctx) (value.CellValue, error)
}

// Invoke binds args positionally to l.Params, evaluates the body, and pops
// the frame before returning, even on error.
func (l Lambda) Invoke(c *Ctx, args ...value.CellValue) (value.CellValue, error) {
	if len(args) != len(l.Params) {
		return value.CellValue{}, errutil.New(errutil.InvalidArgument, "formula: Lambda.Invoke",
			fmt.Sprintf("expected %d argument(s), got %d", len(l.Params), len(args)))
	}
	c.Push(l.Params, args)
	defer c.Pop()
	return l.Eval(c)
}

// Invoke1Array binds array as l's single parameter, representing one whole
// row or column (BYROW/BYCOL's calling convention, spec §4.5), evaluates
// the body, and pops the array frame before returning, even on error.
func (l Lambda) Invoke1Array(c *Ctx, array *value.Array) (value.CellValue, error) {
	if len(l.Params) != 1 {
		return value.CellValue{}, errutil.New(errutil.InvalidArgument, "formula: Lambda.Invoke1Array",
			fmt.Sprintf("expected a single-parameter lambda, got %d parameter(s)", len(l.Params)))
	}
	c.PushArray(l.Params[0], array)
	defer c.PopArray()
	return l.Eval(c)
}

// LambdaFunc adapts l to the value.LambdaFunc signature value's shape
// functions (MAP, REDUCE, SCAN, MAKEARRAY) expect, closing over c.
func (l Lambda) LambdaFunc(c *Ctx) value.LambdaFunc {
	return func(args ...value.CellValue) (value.CellValue, error) {
		return l.Invoke(c, args...)
	}
}
