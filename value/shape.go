package value

import (
	"sort"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/mat"

	"github.com/sheetcore/engine/internal/errutil"
)

const opShape = "value: shape"

// Transpose swaps width and height, mapping (i,j) to (j,i) (spec §4.4).
func Transpose(a *Array) *Array {
	out := &Array{size: ArraySize{W: a.size.H, H: a.size.W}, data: make([]CellValue, len(a.data))}
	for c := int64(0); c < a.size.W; c++ {
		for r := int64(0); r < a.size.H; r++ {
			out.Set(r, c, a.Get(c, r))
		}
	}
	return out
}

// Sequence produces a row-major start+step*k array (spec §4.4).
func Sequence(rows, cols int64, start, step decimal.Decimal) (*Array, error) {
	if rows <= 0 || cols <= 0 {
		return nil, errutil.New(errutil.InvalidArgument, opShape, "SEQUENCE requires positive rows and cols")
	}
	data := make([]CellValue, rows*cols)
	cur := start
	for i := range data {
		data[i] = NewNumber(cur)
		cur = cur.Add(step)
	}
	return &Array{size: ArraySize{W: cols, H: rows}, data: data}, nil
}

// Filter drops slices along axis where the corresponding include value is
// false (spec §4.4). include must be linear and equal in length to that axis.
func Filter(a *Array, axis Axis, include []bool, ifEmpty *CellValue) (*Array, error) {
	slices := a.Slices(axis)
	if len(include) != len(slices) {
		return nil, errutil.New(errutil.ArrayAxisMismatch, opShape, "FILTER include length mismatch")
	}
	var kept [][]CellValue
	for i, s := range slices {
		if include[i] {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		if ifEmpty != nil {
			return Scalar(*ifEmpty), nil
		}
		return nil, errutil.New(errutil.EmptyArray, opShape, "FILTER: no rows/columns matched")
	}
	return FromSlices(axis, kept), nil
}

// Sort stably reorders slices along axis by the value at the 1-indexed
// position index within each slice, honoring order (+1 ascending, -1
// descending).
func Sort(a *Array, axis Axis, index int, order int) (*Array, error) {
	if index < 1 || (order != 1 && order != -1) {
		return nil, errutil.New(errutil.InvalidArgument, opShape, "SORT requires a valid index and order of +-1")
	}
	slices := a.Slices(axis)
	if len(slices) > 0 && index > len(slices[0]) {
		return nil, errutil.New(errutil.InvalidArgument, opShape, "SORT index out of range")
	}
	out := make([][]CellValue, len(slices))
	copy(out, slices)
	sort.SliceStable(out, func(i, j int) bool {
		c := out[i][index-1].TotalCmp(out[j][index-1])
		if order < 0 {
			return c > 0
		}
		return c < 0
	})
	return FromSlices(axis, out), nil
}

// Unique deduplicates slices along axis by TotalCmp equality, preserving
// first-seen order; exactlyOnce keeps only slices that appeared exactly once.
func Unique(a *Array, axis Axis, exactlyOnce bool) *Array {
	slices := a.Slices(axis)
	counts := make([]int, len(slices))
	firstIdx := make([]int, len(slices))
	for i := range firstIdx {
		firstIdx[i] = -1
	}
	for i, s := range slices {
		found := -1
		for j := 0; j < i; j++ {
			if sliceEqual(s, slices[j]) {
				found = j
				break
			}
		}
		if found < 0 {
			firstIdx[i] = i
		}
		counts[i]++
		if found >= 0 {
			counts[found]++
			counts[i] = 0
		}
	}
	var kept [][]CellValue
	for i, s := range slices {
		if firstIdx[i] != i {
			continue
		}
		if exactlyOnce && counts[i] != 1 {
			continue
		}
		kept = append(kept, s)
	}
	if len(kept) == 0 {
		return EmptyArray()
	}
	return FromSlices(axis, kept)
}

func sliceEqual(a, b []CellValue) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// SortKey is one (array, order) pair for SortBy's multi-key sort.
type SortKey struct {
	By    *Array
	Order int
}

// SortBy performs a stable multi-key sort of a's rows using the given keys,
// each of which must have the same height as a.
func SortBy(a *Array, keys []SortKey) (*Array, error) {
	for _, k := range keys {
		if k.By.Size().H != a.size.H {
			return nil, errutil.New(errutil.ArrayAxisMismatch, opShape, "SORTBY key height mismatch")
		}
		if k.Order != 1 && k.Order != -1 {
			return nil, errutil.New(errutil.InvalidArgument, opShape, "SORTBY order must be +-1")
		}
	}
	idx := make([]int, a.size.H)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		for _, k := range keys {
			c := k.By.Get(0, int64(idx[i])).TotalCmp(k.By.Get(0, int64(idx[j])))
			if c == 0 {
				continue
			}
			if k.Order < 0 {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	rows := a.Slices(AxisY)
	out := make([][]CellValue, len(idx))
	for i, j := range idx {
		out[i] = rows[j]
	}
	return FromSlices(AxisY, out), nil
}

// SumProduct multiplies arrays element-wise then reduces to a single sum.
// All arrays must have identical size; empty input returns 0.
func SumProduct(arrays ...*Array) (decimal.Decimal, error) {
	if len(arrays) == 0 {
		return decimal.Zero, nil
	}
	size := arrays[0].Size()
	for _, a := range arrays[1:] {
		if a.Size() != size {
			return decimal.Zero, errutil.New(errutil.ArrayAxisMismatch, opShape, "SUMPRODUCT requires identical array sizes")
		}
	}
	total := decimal.Zero
	n := int(size.W * size.H)
	for i := 0; i < n; i++ {
		prod := decimal.NewFromInt(1)
		for _, a := range arrays {
			num, ok := a.data[i].AsNumber()
			if !ok {
				return decimal.Zero, errutil.New(errutil.InvalidArgument, opShape, "SUMPRODUCT requires numeric arrays")
			}
			prod = prod.Mul(num)
		}
		total = total.Add(prod)
	}
	return total, nil
}

func toMatrix(a *Array) (*mat.Dense, error) {
	w, h := a.size.W, a.size.H
	data := make([]float64, w*h)
	for i, v := range a.data {
		num, ok := v.AsNumber()
		if !ok {
			return nil, errutil.New(errutil.InvalidArgument, opShape, "matrix functions require numeric arrays")
		}
		f, _ := num.Float64()
		data[i] = f
	}
	return mat.NewDense(int(h), int(w), data), nil
}

// MDeterm computes the determinant of a square numeric array.
func MDeterm(a *Array) (decimal.Decimal, error) {
	if a.size.W != a.size.H {
		return decimal.Zero, errutil.New(errutil.InvalidArgument, opShape, "MDETERM requires a square array")
	}
	m, err := toMatrix(a)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromFloat(mat.Det(m)), nil
}

// MInverse computes the matrix inverse of a square numeric array; a
// singular matrix reports DivideByZero (spec §4.4).
func MInverse(a *Array) (*Array, error) {
	if a.size.W != a.size.H {
		return nil, errutil.New(errutil.InvalidArgument, opShape, "MINVERSE requires a square array")
	}
	m, err := toMatrix(a)
	if err != nil {
		return nil, err
	}
	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		return nil, errutil.New(errutil.DivideByZero, opShape, "MINVERSE: matrix is singular")
	}
	return matrixToArray(&inv), nil
}

// MMult multiplies two numeric matrices; inner dimensions must agree.
func MMult(a, b *Array) (*Array, error) {
	if a.size.W != b.size.H {
		return nil, errutil.New(errutil.ArrayAxisMismatch, opShape, "MMULT requires compatible matrix dimensions")
	}
	ma, err := toMatrix(a)
	if err != nil {
		return nil, err
	}
	mb, err := toMatrix(b)
	if err != nil {
		return nil, err
	}
	var out mat.Dense
	out.Mul(ma, mb)
	return matrixToArray(&out), nil
}

func matrixToArray(m *mat.Dense) *Array {
	r, c := m.Dims()
	data := make([]CellValue, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			data[i*c+j] = NewNumber(decimal.NewFromFloat(m.At(i, j)))
		}
	}
	return &Array{size: ArraySize{W: int64(c), H: int64(r)}, data: data}
}

// LambdaFunc is the evaluator-provided bridge from value's shape functions
// into the formula package's Ctx-based lambda evaluation (spec §4.4/§4.5);
// it must return a scalar CellValue unless explicitly told to preserve
// arrays by the caller, which value's shape functions never request.
type LambdaFunc func(args ...CellValue) (CellValue, error)

// MakeArray builds an r x c array by calling fn(rowIdx, colIdx) with
// 1-indexed indices for every cell.
func MakeArray(rows, cols int64, fn LambdaFunc) (*Array, error) {
	if rows <= 0 || cols <= 0 {
		return nil, errutil.New(errutil.InvalidArgument, opShape, "MAKEARRAY requires positive rows and cols")
	}
	data := make([]CellValue, rows*cols)
	for r := int64(0); r < rows; r++ {
		for c := int64(0); c < cols; c++ {
			v, err := fn(NewNumber(decimal.NewFromInt(r+1)), NewNumber(decimal.NewFromInt(c+1)))
			if err != nil {
				return nil, err
			}
			data[r*cols+c] = v
		}
	}
	return &Array{size: ArraySize{W: cols, H: rows}, data: data}, nil
}

// BroadcastSize computes the zip-map result size for arrays whose per-axis
// extent must each equal the largest extent on that axis or be exactly 1
// (spec §4.4's zip-map rule: "equal size or size 1 in any axis").
func BroadcastSize(sizes ...ArraySize) (ArraySize, error) {
	var w, h int64 = 1, 1
	for _, s := range sizes {
		if s.W > w {
			w = s.W
		}
		if s.H > h {
			h = s.H
		}
	}
	for _, s := range sizes {
		if (s.W != w && s.W != 1) || (s.H != h && s.H != 1) {
			return ArraySize{}, errutil.New(errutil.ArrayAxisMismatch, opShape,
				"arrays must have equal size or size 1 in each axis")
		}
	}
	return ArraySize{W: w, H: h}, nil
}

// broadcastGet reads (col, row) from a, collapsing any axis where a has
// size 1 so that axis repeats across the broadcast result.
func broadcastGet(a *Array, col, row int64) CellValue {
	if a.size.W == 1 {
		col = 0
	}
	if a.size.H == 1 {
		row = 0
	}
	return a.Get(col, row)
}

// Map zip-maps fn element-wise across arrays, broadcasting any array whose
// width or height is 1 across that axis (spec §4.4's MAP).
func Map(fn LambdaFunc, arrays ...*Array) (*Array, error) {
	if len(arrays) == 0 {
		return nil, errutil.New(errutil.InvalidArgument, opShape, "MAP requires at least one array")
	}
	sizes := make([]ArraySize, len(arrays))
	for i, a := range arrays {
		sizes[i] = a.Size()
	}
	size, err := BroadcastSize(sizes...)
	if err != nil {
		return nil, err
	}
	data := make([]CellValue, size.W*size.H)
	for row := int64(0); row < size.H; row++ {
		for col := int64(0); col < size.W; col++ {
			args := make([]CellValue, len(arrays))
			for k, a := range arrays {
				args[k] = broadcastGet(a, col, row)
			}
			v, err := fn(args...)
			if err != nil {
				return nil, err
			}
			data[row*size.W+col] = v
		}
	}
	return &Array{size: size, data: data}, nil
}

// Reduce folds fn(acc, element) over every element of array in row-major
// order, starting from init, returning the final accumulator.
func Reduce(init CellValue, array *Array, fn LambdaFunc) (CellValue, error) {
	acc := init
	for _, v := range array.data {
		next, err := fn(acc, v)
		if err != nil {
			return CellValue{}, err
		}
		acc = next
	}
	return acc, nil
}

// Scan is Reduce's array-producing counterpart: it returns every
// intermediate accumulator, shaped like the input array.
func Scan(init CellValue, array *Array, fn LambdaFunc) (*Array, error) {
	out := make([]CellValue, len(array.data))
	acc := init
	for i, v := range array.data {
		next, err := fn(acc, v)
		if err != nil {
			return nil, err
		}
		acc = next
		out[i] = acc
	}
	return &Array{size: array.size, data: out}, nil
}
