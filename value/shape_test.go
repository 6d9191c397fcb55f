package value

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/sheetcore/engine/internal/errutil"
)

func num(n int64) CellValue { return NewNumber(decimal.NewFromInt(n)) }

func arrFromInts(w, h int64, vals ...int64) *Array {
	data := make([]CellValue, len(vals))
	for i, v := range vals {
		data[i] = num(v)
	}
	a, err := NewArray(w, h, data)
	if err != nil {
		panic(err)
	}
	return a
}

func TestTranspose(t *testing.T) {
	a := arrFromInts(2, 1, 1, 2)
	got := Transpose(a)
	if got.Size() != (ArraySize{W: 1, H: 2}) {
		t.Fatalf("size = %+v", got.Size())
	}
	if !got.Get(0, 0).Equal(num(1)) || !got.Get(0, 1).Equal(num(2)) {
		t.Errorf("transpose contents wrong")
	}
}

func TestSequence(t *testing.T) {
	a, err := Sequence(2, 2, decimal.NewFromInt(1), decimal.NewFromInt(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int64{1, 2, 3, 4}
	for i, w := range want {
		if !a.data[i].Equal(num(w)) {
			t.Errorf("data[%d] = %v, want %d", i, a.data[i], w)
		}
	}
}

func TestSequenceInvalid(t *testing.T) {
	if _, err := Sequence(0, 2, decimal.Zero, decimal.NewFromInt(1)); err == nil {
		t.Error("expected error for rows <= 0")
	}
}

func TestFilterDropsFalseRows(t *testing.T) {
	a := arrFromInts(1, 3, 1, 2, 3)
	got, err := Filter(a, AxisY, []bool{true, false, true}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Size().H != 2 {
		t.Fatalf("height = %d, want 2", got.Size().H)
	}
	if !got.Get(0, 0).Equal(num(1)) || !got.Get(0, 1).Equal(num(3)) {
		t.Errorf("filtered contents wrong: %v", got.data)
	}
}

func TestFilterEmptyUsesIfEmpty(t *testing.T) {
	a := arrFromInts(1, 2, 1, 2)
	fallback := NewText("none")
	got, err := Filter(a, AxisY, []bool{false, false}, &fallback)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := got.AsScalar(); !v.Equal(fallback) {
		t.Errorf("got %v, want fallback", v)
	}
}

func TestFilterEmptyWithoutIfEmptyReturnsEmptyArrayError(t *testing.T) {
	a := arrFromInts(1, 2, 1, 2)
	_, err := Filter(a, AxisY, []bool{false, false}, nil)
	if errutil.KindOf(err) != errutil.EmptyArray {
		t.Fatalf("err kind = %v, want EmptyArray", errutil.KindOf(err))
	}
}

func TestSortAscendingAndDescending(t *testing.T) {
	a := arrFromInts(1, 3, 3, 1, 2)
	asc, err := Sort(a, AxisY, 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int64{1, 2, 3}
	for i, w := range want {
		if !asc.Get(0, int64(i)).Equal(num(w)) {
			t.Errorf("asc[%d] = %v, want %d", i, asc.Get(0, int64(i)), w)
		}
	}
	desc, err := Sort(a, AxisY, 1, -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !desc.Get(0, 0).Equal(num(3)) {
		t.Errorf("desc[0] = %v, want 3", desc.Get(0, 0))
	}
}

func TestUniquePreservesFirstSeenOrder(t *testing.T) {
	a := arrFromInts(1, 4, 1, 2, 1, 3)
	got := Unique(a, AxisY, false)
	want := []int64{1, 2, 3}
	if got.Size().H != int64(len(want)) {
		t.Fatalf("height = %d, want %d", got.Size().H, len(want))
	}
	for i, w := range want {
		if !got.Get(0, int64(i)).Equal(num(w)) {
			t.Errorf("got[%d] = %v, want %d", i, got.Get(0, int64(i)), w)
		}
	}
}

func TestUniqueExactlyOnce(t *testing.T) {
	a := arrFromInts(1, 4, 1, 2, 1, 3)
	got := Unique(a, AxisY, true)
	if got.Size().H != 2 {
		t.Fatalf("height = %d, want 2 (2 and 3 appear exactly once)", got.Size().H)
	}
}

func TestSumProductMismatchedSizes(t *testing.T) {
	a := arrFromInts(1, 2, 1, 2)
	b := arrFromInts(1, 3, 1, 2, 3)
	if _, err := SumProduct(a, b); err == nil {
		t.Error("expected ArrayAxisMismatch error")
	}
}

func TestSumProductComputesDotProduct(t *testing.T) {
	a := arrFromInts(1, 3, 1, 2, 3)
	b := arrFromInts(1, 3, 4, 5, 6)
	got, err := SumProduct(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(decimal.NewFromInt(32)) {
		t.Errorf("got %v, want 32", got)
	}
}

func TestMDetermIdentity(t *testing.T) {
	a := arrFromInts(2, 2, 1, 0, 0, 1)
	got, err := MDeterm(a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(decimal.NewFromInt(1)) {
		t.Errorf("got %v, want 1", got)
	}
}

func TestMInverseSingularFails(t *testing.T) {
	a := arrFromInts(2, 2, 1, 2, 2, 4)
	if _, err := MInverse(a); err == nil {
		t.Error("expected DivideByZero for singular matrix")
	}
}

func TestMMultDimensionMismatch(t *testing.T) {
	a := arrFromInts(2, 1, 1, 2)
	b := arrFromInts(3, 3, 1, 2, 3, 4, 5, 6, 7, 8, 9)
	if _, err := MMult(a, b); err == nil {
		t.Error("expected ArrayAxisMismatch error")
	}
}

func TestReduceSum(t *testing.T) {
	a := arrFromInts(1, 3, 1, 2, 3)
	got, err := Reduce(num(0), a, func(args ...CellValue) (CellValue, error) {
		an, _ := args[0].AsNumber()
		bn, _ := args[1].AsNumber()
		return NewNumber(an.Add(bn)), nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(num(6)) {
		t.Errorf("got %v, want 6", got)
	}
}

func TestScanProducesIntermediates(t *testing.T) {
	a := arrFromInts(1, 3, 1, 2, 3)
	got, err := Scan(num(0), a, func(args ...CellValue) (CellValue, error) {
		an, _ := args[0].AsNumber()
		bn, _ := args[1].AsNumber()
		return NewNumber(an.Add(bn)), nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int64{1, 3, 6}
	for i, w := range want {
		if !got.data[i].Equal(num(w)) {
			t.Errorf("data[%d] = %v, want %d", i, got.data[i], w)
		}
	}
}

func TestMapZipsArraysElementwise(t *testing.T) {
	a := arrFromInts(1, 2, 1, 2)
	b := arrFromInts(1, 2, 10, 20)
	got, err := Map(func(args ...CellValue) (CellValue, error) {
		an, _ := args[0].AsNumber()
		bn, _ := args[1].AsNumber()
		return NewNumber(an.Add(bn)), nil
	}, a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.data[0].Equal(num(11)) || !got.data[1].Equal(num(22)) {
		t.Errorf("got %v", got.data)
	}
}

func TestMapBroadcastsSizeOneArray(t *testing.T) {
	a := arrFromInts(1, 3, 1, 2, 3)
	scalar := arrFromInts(1, 1, 10)
	got, err := Map(func(args ...CellValue) (CellValue, error) {
		an, _ := args[0].AsNumber()
		bn, _ := args[1].AsNumber()
		return NewNumber(an.Add(bn)), nil
	}, a, scalar)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int64{11, 12, 13}
	for i, w := range want {
		if !got.data[i].Equal(num(w)) {
			t.Errorf("data[%d] = %v, want %d", i, got.data[i], w)
		}
	}
}

func TestMakeArrayUsesOneIndexedCoords(t *testing.T) {
	got, err := MakeArray(2, 2, func(args ...CellValue) (CellValue, error) {
		r, _ := args[0].AsNumber()
		c, _ := args[1].AsNumber()
		return NewNumber(r.Mul(decimal.NewFromInt(10)).Add(c)), nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Get(0, 0).Equal(num(11)) || !got.Get(1, 1).Equal(num(22)) {
		t.Errorf("got %v", got.data)
	}
}
