package value

import "github.com/sheetcore/engine/internal/errutil"

// Axis selects which dimension a shape operation walks.
type Axis int

const (
	AxisX Axis = iota // columns
	AxisY             // rows
)

// ArraySize is a non-zero width/height pair.
type ArraySize struct {
	W, H int64
}

// Array is the row-major 2-D value grid spec §4.4 operates on.
type Array struct {
	size ArraySize
	data []CellValue
}

// NewArray builds an Array from row-major data; w*h must equal len(data).
func NewArray(w, h int64, data []CellValue) (*Array, error) {
	if w <= 0 || h <= 0 {
		return nil, errutil.New(errutil.InvalidArgument, "value: NewArray", "width and height must be positive")
	}
	if int64(len(data)) != w*h {
		return nil, errutil.New(errutil.InvalidArgument, "value: NewArray", "data length does not match size")
	}
	return &Array{size: ArraySize{W: w, H: h}, data: data}, nil
}

// Scalar wraps a single CellValue as a 1x1 Array.
func Scalar(v CellValue) *Array {
	return &Array{size: ArraySize{W: 1, H: 1}, data: []CellValue{v}}
}

func (a *Array) Size() ArraySize { return a.size }

func (a *Array) Get(col, row int64) CellValue {
	return a.data[row*a.size.W+col]
}

func (a *Array) Set(col, row int64, v CellValue) {
	a.data[row*a.size.W+col] = v
}

// IsScalar reports whether a is a 1x1 array, the value functions treat as an
// implicit scalar in zip-map broadcasting.
func (a *Array) IsScalar() bool { return a.size.W == 1 && a.size.H == 1 }

// AsScalar returns the sole value of a 1x1 array.
func (a *Array) AsScalar() (CellValue, bool) {
	if !a.IsScalar() {
		return CellValue{}, false
	}
	return a.data[0], true
}

// Clone returns a deep copy of a.
func (a *Array) Clone() *Array {
	data := make([]CellValue, len(a.data))
	copy(data, a.data)
	return &Array{size: a.size, data: data}
}

// Slices yields width-many (AxisX) or height-many (AxisY) row/column vectors.
func (a *Array) Slices(axis Axis) [][]CellValue {
	if axis == AxisX {
		out := make([][]CellValue, a.size.W)
		for c := int64(0); c < a.size.W; c++ {
			col := make([]CellValue, a.size.H)
			for r := int64(0); r < a.size.H; r++ {
				col[r] = a.Get(c, r)
			}
			out[c] = col
		}
		return out
	}
	out := make([][]CellValue, a.size.H)
	for r := int64(0); r < a.size.H; r++ {
		row := make([]CellValue, a.size.W)
		for c := int64(0); c < a.size.W; c++ {
			row[c] = a.Get(c, r)
		}
		out[r] = row
	}
	return out
}

// FromSlices rebuilds an Array from a slice-of-slices produced by Slices,
// taking the axis the slices were cut along.
func FromSlices(axis Axis, slices [][]CellValue) *Array {
	if len(slices) == 0 {
		return &Array{size: ArraySize{W: 1, H: 1}, data: []CellValue{NewBlank()}}
	}
	if axis == AxisX {
		w := int64(len(slices))
		h := int64(len(slices[0]))
		data := make([]CellValue, w*h)
		for c, col := range slices {
			for r, v := range col {
				data[int64(r)*w+int64(c)] = v
			}
		}
		return &Array{size: ArraySize{W: w, H: h}, data: data}
	}
	h := int64(len(slices))
	w := int64(len(slices[0]))
	data := make([]CellValue, w*h)
	for r, row := range slices {
		for c, v := range row {
			data[int64(r)*w+int64(c)] = v
		}
	}
	return &Array{size: ArraySize{W: w, H: h}, data: data}
}

// EmptyArray is the canonical 1x1 blank array that Unique returns when no
// slice survives. Filter does not return it: an empty FILTER result with no
// if_empty value is reported as the EmptyArray error kind instead.
func EmptyArray() *Array { return Scalar(NewBlank()) }
