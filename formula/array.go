package formula

import (
	"github.com/sheetcore/engine/value"
)

// MAP applies lambda element-wise across arrays, broadcasting any array
// whose width or height is 1 across that axis, and binding c so the lambda
// body can reference the sheet/position in scope.
func MAP(c *Ctx, lambda Lambda, arrays ...*value.Array) (*value.Array, error) {
	return value.Map(lambda.LambdaFunc(c), arrays...)
}

// REDUCE folds lambda(acc, element) over array in row-major order starting
// from init.
func REDUCE(c *Ctx, init value.CellValue, array *value.Array, lambda Lambda) (value.CellValue, error) {
	return value.Reduce(init, array, lambda.LambdaFunc(c))
}

// SCAN is REDUCE's array-producing counterpart, returning every
// intermediate accumulator.
func SCAN(c *Ctx, init value.CellValue, array *value.Array, lambda Lambda) (*value.Array, error) {
	return value.Scan(init, array, lambda.LambdaFunc(c))
}

// MAKEARRAY builds a rows x cols array by calling lambda(row, col) for
// every 1-indexed cell.
func MAKEARRAY(c *Ctx, rows, cols int64, lambda Lambda) (*value.Array, error) {
	return value.MakeArray(rows, cols, lambda.LambdaFunc(c))
}

// BYROW reduces each row of array to a scalar via lambda, returning a
// column vector (one row per input row). lambda receives the whole row as
// its single array-valued parameter, matching Excel's BYROW calling
// convention (spec §4.5).
func BYROW(c *Ctx, array *value.Array, lambda Lambda) (*value.Array, error) {
	return byAxis(c, array, lambda, value.AxisY)
}

// BYCOL reduces each column of array to a scalar via lambda, returning a
// row vector (one column per input column), passing each column as a
// single array-valued parameter.
func BYCOL(c *Ctx, array *value.Array, lambda Lambda) (*value.Array, error) {
	return byAxis(c, array, lambda, value.AxisX)
}

func byAxis(c *Ctx, array *value.Array, lambda Lambda, axis value.Axis) (*value.Array, error) {
	lines := array.Slices(axis)
	out := make([]value.CellValue, len(lines))
	for i, line := range lines {
		lineArray, err := value.NewArray(int64(len(line)), 1, line)
		if err != nil {
			return nil, err
		}
		v, err := lambda.Invoke1Array(c, lineArray)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	if axis == value.AxisY {
		return value.NewArray(1, int64(len(out)), out)
	}
	return value.NewArray(int64(len(out)), 1, out)
}
