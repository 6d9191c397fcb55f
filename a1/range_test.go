package a1

import "testing"

func c(col, row int64) Pos { return Pos{X: col, Y: row} }

func TestRefRangeBoundsContainsPos(t *testing.T) {
	r := NewRange(cell(Coord{Value: 2}, Coord{Value: 2}), cell(Coord{Value: 4}, Coord{Value: 4}))
	if !r.ContainsPos(c(3, 3)) {
		t.Error("expected (3,3) contained")
	}
	if r.ContainsPos(c(5, 3)) {
		t.Error("expected (5,3) not contained")
	}
}

func TestIntersectDisjoint(t *testing.T) {
	a := NewRange(cell(Coord{Value: 1}, Coord{Value: 1}), cell(Coord{Value: 2}, Coord{Value: 2}))
	b := NewRange(cell(Coord{Value: 10}, Coord{Value: 10}), cell(Coord{Value: 12}, Coord{Value: 12}))
	if _, ok := a.Intersect(b); ok {
		t.Error("expected no intersection")
	}
}

func TestIntersectOverlapping(t *testing.T) {
	a := NewRange(cell(Coord{Value: 1}, Coord{Value: 1}), cell(Coord{Value: 5}, Coord{Value: 5}))
	b := NewRange(cell(Coord{Value: 3}, Coord{Value: 3}), cell(Coord{Value: 8}, Coord{Value: 8}))
	got, ok := a.Intersect(b)
	if !ok {
		t.Fatal("expected intersection")
	}
	want := NewRange(cell(Coord{Value: 3}, Coord{Value: 3}), cell(Coord{Value: 5}, Coord{Value: 5}))
	if got.String() != want.String() {
		t.Errorf("got %v, want %v", got.String(), want.String())
	}
}

func TestIntersectWholeColumnWithRect(t *testing.T) {
	wholeCol := RefRangeBounds{Start: colOnly(Coord{Value: 3})}
	rect := NewRange(cell(Coord{Value: 1}, Coord{Value: 1}), cell(Coord{Value: 5}, Coord{Value: 5}))
	got, ok := wholeCol.Intersect(rect)
	if !ok {
		t.Fatal("expected intersection")
	}
	if lo, hi, ok := got.colBounds(); !ok || lo != 3 || hi != 3 {
		t.Errorf("col bounds = (%d,%d,%v), want (3,3,true)", lo, hi, ok)
	}
	if lo, hi, ok := got.rowBounds(); !ok || lo != 1 || hi != 5 {
		t.Errorf("row bounds = (%d,%d,%v), want (1,5,true)", lo, hi, ok)
	}
}

func TestInsertColumnBefore(t *testing.T) {
	r := NewRange(cell(Coord{Value: 5}, Coord{Value: 1}), cell(Coord{Value: 8}, Coord{Value: 1}))
	got, ok := r.InsertColumn(2)
	if !ok {
		t.Fatal("expected ok")
	}
	lo, hi, _ := got.colBounds()
	if lo != 6 || hi != 9 {
		t.Errorf("got (%d,%d), want (6,9)", lo, hi)
	}
}

func TestInsertColumnInsideGrows(t *testing.T) {
	r := NewRange(cell(Coord{Value: 5}, Coord{Value: 1}), cell(Coord{Value: 8}, Coord{Value: 1}))
	got, ok := r.InsertColumn(6)
	if !ok {
		t.Fatal("expected ok")
	}
	lo, hi, _ := got.colBounds()
	if lo != 5 || hi != 9 {
		t.Errorf("got (%d,%d), want (5,9)", lo, hi)
	}
}

func TestRemoveColumnShrinks(t *testing.T) {
	r := NewRange(cell(Coord{Value: 5}, Coord{Value: 1}), cell(Coord{Value: 8}, Coord{Value: 1}))
	got, ok := r.RemoveColumn(6)
	if !ok {
		t.Fatal("expected ok")
	}
	lo, hi, _ := got.colBounds()
	if lo != 5 || hi != 7 {
		t.Errorf("got (%d,%d), want (5,7)", lo, hi)
	}
}

func TestRemoveColumnDeletesSingleCellRange(t *testing.T) {
	r := RefRangeBounds{Start: cell(Coord{Value: 5}, Coord{Value: 1})}
	_, ok := r.RemoveColumn(5)
	if ok {
		t.Error("expected range to be deleted")
	}
}

func TestRemoveColumnAfterShiftsWhole(t *testing.T) {
	r := NewRange(cell(Coord{Value: 5}, Coord{Value: 1}), cell(Coord{Value: 8}, Coord{Value: 1}))
	got, ok := r.RemoveColumn(2)
	if !ok {
		t.Fatal("expected ok")
	}
	lo, hi, _ := got.colBounds()
	if lo != 4 || hi != 7 {
		t.Errorf("got (%d,%d), want (4,7)", lo, hi)
	}
}

func TestFinitizeUnboundedColumn(t *testing.T) {
	r := RefRangeBounds{Start: rowOnly(Coord{Value: 3})}
	bounds := Rect{Min: Pos{X: 1, Y: 1}, Max: Pos{X: 10, Y: 20}}
	rect := r.Finitize(bounds)
	if rect.Min.X != 1 || rect.Max.X != 10 || rect.Min.Y != 3 || rect.Max.Y != 3 {
		t.Errorf("finitize = %+v", rect)
	}
}

func TestTranslate(t *testing.T) {
	r := NewRange(cell(Coord{Value: 2}, Coord{Value: 2}), cell(Coord{Value: 4}, Coord{Value: 4}))
	got := r.Translate(1, 1)
	if got.String() != "C3:E5" {
		t.Errorf("got %q, want C3:E5", got.String())
	}
}
