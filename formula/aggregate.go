package formula

import (
	"github.com/sheetcore/engine/internal/errutil"
	"github.com/sheetcore/engine/value"
)

// ignoresErrors reports whether the AGGREGATE options code filters out
// error values before computing function_num (codes 2, 3, 6, 7 per spec
// §4.5; hidden-row filtering, codes 1/3/5/7, has no counterpart in this
// engine since rows are never "hidden" here).
func ignoresErrors(options int) bool {
	switch options {
	case 2, 3, 6, 7:
		return true
	default:
		return false
	}
}

func filterErrorsIf(vs []value.CellValue, options int) []value.CellValue {
	if !ignoresErrors(options) {
		return vs
	}
	out := make([]value.CellValue, 0, len(vs))
	for _, v := range vs {
		if !v.IsError() {
			out = append(out, v)
		}
	}
	return out
}

func maxOf(vs []value.CellValue) value.CellValue {
	nums := numbers(vs)
	if len(nums) == 0 {
		return numResult(0)
	}
	m := nums[0]
	for _, f := range nums[1:] {
		if f > m {
			m = f
		}
	}
	return numResult(m)
}

func minOf(vs []value.CellValue) value.CellValue {
	nums := numbers(vs)
	if len(nums) == 0 {
		return numResult(0)
	}
	m := nums[0]
	for _, f := range nums[1:] {
		if f < m {
			m = f
		}
	}
	return numResult(m)
}

func productOf(vs []value.CellValue) value.CellValue {
	p := 1.0
	for _, f := range numbers(vs) {
		p *= f
	}
	return numResult(p)
}

// AggregateArgs carries the extra positional argument AGGREGATE's k-taking
// function numbers (LARGE, SMALL, PERCENTILE.*, QUARTILE.*) need, ignored
// by every other function_num.
type AggregateArgs struct {
	K float64
}

// AGGREGATE dispatches to one of function numbers 1-19 (spec §4.5's
// AGGREGATE table), applying the options-driven error filter first.
func AGGREGATE(functionNum, options int, vs []value.CellValue, extra AggregateArgs) (value.CellValue, error) {
	vs = filterErrorsIf(vs, options)
	switch functionNum {
	case 1:
		return AVERAGE(vs)
	case 2:
		return COUNT(vs), nil
	case 3:
		return COUNTA(vs), nil
	case 4:
		return maxOf(vs), nil
	case 5:
		return minOf(vs), nil
	case 6:
		return productOf(vs), nil
	case 7:
		return STDEV(vs)
	case 8:
		return STDEVP(vs)
	case 9:
		return SUM(vs), nil
	case 10:
		return VAR(vs)
	case 11:
		return VARP(vs)
	case 12:
		return MEDIAN(vs)
	case 13:
		return MODESNGL(vs)
	case 14:
		return LARGE(vs, int(extra.K))
	case 15:
		return SMALL(vs, int(extra.K))
	case 16:
		return PERCENTILEINC(vs, extra.K)
	case 17:
		return QUARTILEINC(vs, int(extra.K))
	case 18:
		return PERCENTILEEXC(vs, extra.K)
	case 19:
		if extra.K < 0 || extra.K > 4 {
			return value.CellValue{}, errutil.New(errutil.NumInvalid, "formula: AGGREGATE", "quart out of range")
		}
		return PERCENTILEEXC(vs, extra.K/4)
	default:
		return value.CellValue{}, errutil.New(errutil.InvalidArgument, "formula: AGGREGATE", "unsupported function_num")
	}
}
