package grid

import "testing"

func intEq(a, b int) bool { return a == b }

func TestSetGet(t *testing.T) {
	c := New[int](intEq)
	c.Set(Pos{X: 3, Y: 4}, 42)
	got, ok := c.Get(Pos{X: 3, Y: 4})
	if !ok || got != 42 {
		t.Fatalf("Get = (%v, %v), want (42, true)", got, ok)
	}
	if _, ok := c.Get(Pos{X: 3, Y: 5}); ok {
		t.Fatalf("expected no value at an untouched position")
	}
}

func TestSetRectUnboundedTail(t *testing.T) {
	c := New[int](intEq)
	c.SetRect(2, 2, nil, nil, 9)
	tests := []Pos{{X: 2, Y: 2}, {X: 100, Y: 100}, {X: 2, Y: 1000000}}
	for _, p := range tests {
		v, ok := c.Get(p)
		if !ok || v != 9 {
			t.Errorf("Get(%v) = (%v, %v), want (9, true)", p, v, ok)
		}
	}
	if v, ok := c.Get(Pos{X: 1, Y: 2}); ok {
		t.Errorf("Get(1,2) = (%v, true), want not found", v)
	}
}

func TestSetRectThenRevertIsStructurallyEqual(t *testing.T) {
	c := New[int](intEq)
	end2, end3 := int64(2), int64(3)
	c.SetRect(0, 0, &end2, &end3, 7)
	before := c.ToRects()

	c.SetRect(0, 0, &end2, &end3, 1)
	c.SetRect(0, 0, &end2, &end3, 7)
	after := c.ToRects()

	if len(before) != len(after) {
		t.Fatalf("rect count changed: before=%d after=%d", len(before), len(after))
	}
	optEq := func(p, q *int64) bool { return (p == nil && q == nil) || (p != nil && q != nil && *p == *q) }
	for i := range before {
		b, a := before[i], after[i]
		if b.X1 != a.X1 || b.Y1 != a.Y1 || !optEq(b.X2, a.X2) || !optEq(b.Y2, a.Y2) {
			t.Errorf("rect %d differs: before=%+v after=%+v", i, before[i], after[i])
		}
	}
}

func TestAdjacentEqualRunsMerge(t *testing.T) {
	c := New[int](intEq)
	e0 := int64(0)
	c.SetRect(0, 0, &e0, &e0, 5)
	e1 := int64(1)
	c.SetRect(1, 0, &e1, &e0, 5)
	rects := c.ToRects()
	if len(rects) != 1 {
		t.Fatalf("expected runs to merge into 1 rect, got %d: %+v", len(rects), rects)
	}
}

func TestShiftInsertThenShiftRemoveRoundTrips(t *testing.T) {
	blocks := NewContiguousBlocks[int](intEq)
	v := 3
	blocks.ShiftInsert(5, &v)
	got, had := blocks.ShiftRemove(5)
	if !had || got != 3 {
		t.Fatalf("ShiftRemove after ShiftInsert = (%v, %v), want (3, true)", got, had)
	}
}

func TestRemoveColumnRestoreColumn(t *testing.T) {
	c := New[int](intEq)
	c.Set(Pos{X: 4, Y: 1}, 11)
	c.Set(Pos{X: 4, Y: 2}, 12)
	saved := c.RemoveColumn(4)
	if _, ok := c.Get(Pos{X: 4, Y: 1}); ok {
		t.Fatalf("expected column 4 cleared after RemoveColumn")
	}
	c.RestoreColumn(4, saved)
	if v, ok := c.Get(Pos{X: 4, Y: 1}); !ok || v != 11 {
		t.Fatalf("RestoreColumn did not restore data: got (%v, %v)", v, ok)
	}
}

func TestCheckInvariantsAfterRandomWrites(t *testing.T) {
	c := New[int](intEq)
	writes := []struct {
		x1, y1, x2, y2 int64
		v              int
	}{
		{0, 0, 5, 5, 1},
		{2, 2, 3, 3, 2},
		{4, 4, 10, 10, 1},
		{0, 0, 20, 20, 3},
	}
	for _, w := range writes {
		c.SetRect(w.x1, w.y1, &w.x2, &w.y2, w.v)
		if err := c.CheckInvariants(); err != nil {
			t.Fatalf("invariant violated after write %+v: %v", w, err)
		}
	}
}
