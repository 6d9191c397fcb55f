package grid

// Pos is a 2-D integer cell coordinate. Coordinates are logically i64 per
// spec §3; Contiguous2D itself only ever stores non-negative run boundaries
// (uint64), so callers translate into that space (§6: 1-indexed sheets).
type Pos struct {
	X, Y int64
}

// Rect is an axis-aligned rectangle with Min.X <= Max.X and Min.Y <= Max.Y.
type Rect struct {
	Min, Max Pos
}

// Contiguous2D is an infinite 2-D map from Pos to T, compressed by
// run-merging on both axes (spec §4.1). The outer ContiguousBlocks keys on
// column x; each value is an inner ContiguousBlocks[T] keyed on row y.
type Contiguous2D[T any] struct {
	cols     *ContiguousBlocks[*ContiguousBlocks[T]]
	valueEq  EqualFunc[T]
	columnEq EqualFunc[*ContiguousBlocks[T]]
}

// New creates an empty Contiguous2D. eq compares two values of T for the
// purposes of run-merging (spec §4.1 merge rule).
func New[T any](eq EqualFunc[T]) *Contiguous2D[T] {
	c := &Contiguous2D[T]{valueEq: eq}
	c.columnEq = func(a, b *ContiguousBlocks[T]) bool { return blocksEqual(a, b, eq) }
	c.cols = NewContiguousBlocks[*ContiguousBlocks[T]](c.columnEq)
	return c
}

// blocksEqual reports structural equality of two inner row-maps — the
// "nested ContiguousBlocks" equality the spec calls for when merging outer
// column runs.
func blocksEqual[T any](a, b *ContiguousBlocks[T], eq EqualFunc[T]) bool {
	if a == nil || b == nil {
		return a == b
	}
	ar, br := a.Runs(), b.Runs()
	if len(ar) != len(br) {
		return false
	}
	for i := range ar {
		if ar[i].Start != br[i].Start || ar[i].End != br[i].End || !eq(ar[i].Value, br[i].Value) {
			return false
		}
	}
	return true
}

func toKey(v int64) uint64 {
	if v < 0 {
		return 0
	}
	return uint64(v)
}

// Get returns the value stored at pos, if any.
func (c *Contiguous2D[T]) Get(pos Pos) (T, bool) {
	col, ok := c.cols.Get(toKey(pos.X))
	if !ok {
		var zero T
		return zero, false
	}
	return col.Get(toKey(pos.Y))
}

// Set performs a point write, returning the value previously at pos (the
// inverse needed by a caller maintaining an undo delta).
func (c *Contiguous2D[T]) Set(pos Pos, value T) (T, bool) {
	old, had := c.Get(pos)
	c.SetRect(pos.X, pos.Y, &pos.X, &pos.Y, value)
	return old, had
}

// SetRect writes value across the rectangle [x1,y1]..[x2,y2] (inclusive).
// nil x2/y2 means "extend to infinity" in that axis, matching spec §4.1's
// "unspecified end means extend to infinity".
func (c *Contiguous2D[T]) SetRect(x1, y1 int64, x2, y2 *int64, value T) {
	xStart, xEnd := toKey(x1), rangeEnd(x2)
	yStart, yEnd := toKey(y1), rangeEnd(y2)
	if xStart == xEnd || yStart == yEnd {
		return
	}

	c.splitColumnsAt(xStart)
	if xEnd != Unbounded {
		c.splitColumnsAt(xEnd)
	}

	// Ensure every affected column block exists, then write the row range
	// into each. We enumerate by re-deriving the touched column keys after
	// splitting so newly split boundaries are included.
	touched := c.columnKeysInRange(xStart, xEnd)
	for _, cx := range touched {
		col, ok := c.cols.Get(cx)
		if !ok {
			col = NewContiguousBlocks[T](c.valueEq)
		}
		col.SetRange(yStart, yEnd, value)
		c.cols.SetRange(cx, cx+1, col)
	}
	c.compactColumns()
}

// columnKeysInRange returns the distinct outer run-start keys that fall in
// [start,end) after the caller has already split at both boundaries — i.e.
// exactly the keys of runs now fully inside the range (or the single key
// "start" if the range was previously unpopulated there).
func (c *Contiguous2D[T]) columnKeysInRange(start, end uint64) []uint64 {
	runs := c.cols.Runs()
	var keys []uint64
	found := false
	for _, r := range runs {
		if r.Start >= start && (end == Unbounded || r.Start < end) {
			keys = append(keys, r.Start)
			found = true
		}
	}
	if !found {
		keys = append(keys, start)
	}
	return keys
}

func (c *Contiguous2D[T]) splitColumnsAt(key uint64) {
	c.cols.splitAt(key)
}

// compactColumns merges adjacent outer column runs whose inner row-maps are
// now structurally equal (spec §4.1 merge rule).
func (c *Contiguous2D[T]) compactColumns() {
	runs := c.cols.Runs()
	for i := 0; i < len(runs); i++ {
		c.cols.mergeAround(i)
	}
}

func rangeEnd(v *int64) uint64 {
	if v == nil {
		return Unbounded
	}
	return toKey(*v) + 1
}

// SetFrom applies an arbitrary overlay (a sparse Contiguous2D of optional
// values) on top of c and returns the inverse overlay sufficient to undo
// the change. A nil *T in the overlay clears the corresponding cells.
//
// The inverse is built by first splitting c's own runs at every boundary
// the overlay introduces (so the pre-image of each overlay rectangle is
// itself a union of whole c-runs), recording each such run's prior value,
// and only then writing the overlay on top.
func SetFrom[T any](c *Contiguous2D[T], delta *Contiguous2D[*T]) *Contiguous2D[*T] {
	inverse := New[*T](optionalEqual[T])
	for _, rect := range delta.ToRects() {
		v, _ := delta.Get(Pos{X: rect.X1, Y: rect.Y1})

		// Force c to have run boundaries exactly at this rect's edges so
		// the pre-image capture below lines up with whole runs.
		c.splitColumnsAt(toKey(rect.X1))
		if rect.X2 != nil {
			c.splitColumnsAt(toKey(*rect.X2) + 1)
		}
		for _, cx := range c.columnKeysInRange(toKey(rect.X1), rangeEnd(rect.X2)) {
			col, ok := c.cols.Get(cx)
			if !ok {
				continue
			}
			col.splitAt(toKey(rect.Y1))
			if rect.Y2 != nil {
				col.splitAt(toKey(*rect.Y2) + 1)
			}
		}

		for _, cx := range c.columnKeysInRange(toKey(rect.X1), rangeEnd(rect.X2)) {
			col, ok := c.cols.Get(cx)
			if !ok {
				var x1, x2 = int64(cx), int64(cx)
				inverse.SetRect(x1, rect.Y1, &x2, rect.Y2, nil)
				continue
			}
			for _, rowRun := range col.Runs() {
				if rowRun.Start < toKey(rect.Y1) || (rect.Y2 != nil && rowRun.Start >= toKey(*rect.Y2)+1) {
					continue
				}
				oldVal := rowRun.Value
				x1, x2 := int64(cx), int64(cx)
				y1 := int64(rowRun.Start)
				var y2 *int64
				if rowRun.End != Unbounded {
					ve := int64(rowRun.End) - 1
					y2 = &ve
				}
				ov := oldVal
				inverse.SetRect(x1, y1, &x2, y2, &ov)
			}
		}

		if v == nil {
			c.ClearRect(rect.X1, rect.Y1, rect.X2, rect.Y2)
		} else {
			c.SetRect(rect.X1, rect.Y1, rect.X2, rect.Y2, *v)
		}
	}
	return inverse
}

func optionalEqual[T any](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return false // conservative: optional overlays never auto-merge distinct pointers
}

// ClearRect removes all values in the given rectangle.
func (c *Contiguous2D[T]) ClearRect(x1, y1 int64, x2, y2 *int64) {
	xStart, xEnd := toKey(x1), rangeEnd(x2)
	yStart, yEnd := toKey(y1), rangeEnd(y2)
	if xStart == xEnd || yStart == yEnd {
		return
	}
	c.splitColumnsAt(xStart)
	if xEnd != Unbounded {
		c.splitColumnsAt(xEnd)
	}
	touched := c.columnKeysInRange(xStart, xEnd)
	for _, cx := range touched {
		col, ok := c.cols.Get(cx)
		if !ok {
			continue
		}
		col.Remove(yStart, yEnd)
	}
	c.compactColumns()
}

// RectSpec is the rectangle shape yielded by ToRects: X2/Y2 nil means
// "extends to infinity" in that axis (spec §4.1 to_rects contract).
type RectSpec struct {
	X1, Y1 int64
	X2, Y2 *int64
}

// ToRects iterates all present rectangles in canonical order: ascending by
// column run start, then by row run start within each column.
func (c *Contiguous2D[T]) ToRects() []RectSpec {
	var out []RectSpec
	for _, colRun := range c.cols.Runs() {
		for _, rowRun := range colRun.Value.Runs() {
			x1 := int64(colRun.Start)
			var x2 *int64
			if colRun.End != Unbounded {
				v := int64(colRun.End) - 1
				x2 = &v
			}
			y1 := int64(rowRun.Start)
			var y2 *int64
			if rowRun.End != Unbounded {
				v := int64(rowRun.End) - 1
				y2 = &v
			}
			out = append(out, RectSpec{X1: x1, Y1: y1, X2: x2, Y2: y2})
		}
	}
	return out
}

// RectValue pairs a RectSpec with the value stored across it, as returned
// by ToRectsWithValues.
type RectValue[T any] struct {
	RectSpec
	Value T
}

// ToRectsWithValues is ToRects plus each rectangle's stored value, used by
// callers that need to distinguish which runs hold a meaningful value
// (e.g. sheet bounds recalculation, selection enumeration).
func (c *Contiguous2D[T]) ToRectsWithValues() []RectValue[T] {
	var out []RectValue[T]
	for _, colRun := range c.cols.Runs() {
		for _, rowRun := range colRun.Value.Runs() {
			x1 := int64(colRun.Start)
			var x2 *int64
			if colRun.End != Unbounded {
				v := int64(colRun.End) - 1
				x2 = &v
			}
			y1 := int64(rowRun.Start)
			var y2 *int64
			if rowRun.End != Unbounded {
				v := int64(rowRun.End) - 1
				y2 = &v
			}
			out = append(out, RectValue[T]{RectSpec: RectSpec{X1: x1, Y1: y1, X2: x2, Y2: y2}, Value: rowRun.Value})
		}
	}
	return out
}

// RemoveColumn deletes column c's data and returns it (for RestoreColumn),
// then the caller is expected to ShiftInsert/ShiftRemove separately per
// spec §4.1 (RemoveColumn itself does not shift).
func (c *Contiguous2D[T]) RemoveColumn(x int64) *ContiguousBlocks[T] {
	key := toKey(x)
	col, ok := c.cols.Get(key)
	if !ok {
		return NewContiguousBlocks[T](c.valueEq)
	}
	saved := NewContiguousBlocks[T](c.valueEq)
	for _, r := range col.Runs() {
		var end uint64
		if r.End == Unbounded {
			end = Unbounded
		} else {
			end = r.End
		}
		saved.SetRange(r.Start, end, r.Value)
	}
	c.cols.Remove(key, key+1)
	return saved
}

// RestoreColumn writes data back as column x's content.
func (c *Contiguous2D[T]) RestoreColumn(x int64, data *ContiguousBlocks[T]) {
	key := toKey(x)
	c.cols.SetRange(key, key+1, data)
	c.compactColumns()
}

// CopyFormats controls how InsertColumn/InsertRow seed the newly opened
// slot's formatting, mirroring spreadsheet "insert and copy formatting from
// left/right/above/below" semantics referenced by the spec's insert_column
// signature.
type CopyFormats int

const (
	// CopyFormatsNone leaves the newly inserted column/row empty.
	CopyFormatsNone CopyFormats = iota
	// CopyFormatsBefore copies from the column/row immediately before the
	// insertion point.
	CopyFormatsBefore
	// CopyFormatsAfter copies from the column/row immediately after the
	// insertion point (i.e. what is about to be shifted right/down).
	CopyFormatsAfter
)

// InsertColumn shifts every column at or after x one step to the right and
// optionally seeds the new column x from its neighbor per copyFormats.
func (c *Contiguous2D[T]) InsertColumn(x int64, copyFormats CopyFormats) {
	key := toKey(x)
	var seed *ContiguousBlocks[T]
	switch copyFormats {
	case CopyFormatsBefore:
		if key > 0 {
			if v, ok := c.cols.Get(key - 1); ok {
				seed = v
			}
		}
	case CopyFormatsAfter:
		if v, ok := c.cols.Get(key); ok {
			seed = v
		}
	}
	c.cols.ShiftInsert(key, &seed)
	c.compactColumns()
}

// RemoveColumnShift deletes column x's data entirely and pulls everything
// after it one column to the left (the shifting counterpart to
// RemoveColumn, used when the caller does not need the removed data back).
func (c *Contiguous2D[T]) RemoveColumnShift(x int64) {
	c.cols.ShiftRemove(toKey(x))
	c.compactColumns()
}

// InsertRow is the row-axis symmetric counterpart of InsertColumn: every row
// of every column run at or after y shifts down by one.
func (c *Contiguous2D[T]) InsertRow(y int64, copyFormats CopyFormats) {
	key := toKey(y)
	for _, colRun := range c.cols.Runs() {
		var seed *T
		switch copyFormats {
		case CopyFormatsBefore:
			if key > 0 {
				if v, ok := colRun.Value.Get(key - 1); ok {
					seed = &v
				}
			}
		case CopyFormatsAfter:
			if v, ok := colRun.Value.Get(key); ok {
				seed = &v
			}
		}
		colRun.Value.ShiftInsert(key, seed)
	}
	c.compactColumns()
}

// RemoveRowShift deletes row y's data from every column and pulls rows
// after it up by one.
func (c *Contiguous2D[T]) RemoveRowShift(y int64) {
	key := toKey(y)
	for _, colRun := range c.cols.Runs() {
		colRun.Value.ShiftRemove(key)
	}
	c.compactColumns()
}

// CheckInvariants recursively validates both levels of the structure.
func (c *Contiguous2D[T]) CheckInvariants() error {
	if err := c.cols.CheckInvariants(); err != nil {
		return err
	}
	for _, colRun := range c.cols.Runs() {
		if err := colRun.Value.CheckInvariants(); err != nil {
			return err
		}
	}
	return nil
}
