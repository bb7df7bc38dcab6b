package iter

import "github.com/sentra-lang/heapvar/internal/heap"

// ObjectCursor walks a container's named child list (spec.md §4.2), the Go
// port of JsvObjectIterator.
type ObjectCursor struct {
	cur *heap.Cell // current child, nil past the end
}

// NewObjectCursor starts at container's first child.
func NewObjectCursor(container *heap.Cell) ObjectCursor {
	return ObjectCursor{cur: heap.LockSafe(container.FirstChild())}
}

// HasValue reports whether the cursor is over a child.
func (it *ObjectCursor) HasValue() bool { return it.cur != nil }

// Cur exposes the current child cell directly, nil past the end. (The
// FULL-ARRAY overlay compares keys through CurrentIntName instead.)
func (it *ObjectCursor) Cur() *heap.Cell { return it.cur }

// CurrentIntName reports the current child's integer name, if it has one.
func (it *ObjectCursor) CurrentIntName() (int, bool) {
	if it.cur == nil {
		return 0, false
	}
	return it.cur.IntName()
}

// GetKey returns the current child's name, boxed as a value from its own
// pool: an integer cell for array-style integer names, a string cell
// otherwise.
func (it *ObjectCursor) GetKey() *heap.Cell {
	if it.cur == nil {
		return nil
	}
	if n, ok := it.cur.IntName(); ok {
		return it.cur.Pool().NewInt(int64(n))
	}
	return it.cur.Pool().NewStringFromBytes([]byte(it.cur.Name()))
}

// GetValue returns the current child cell itself: in this port a named
// child *is* its value (SPEC_FULL.md §3 supplemental note).
func (it *ObjectCursor) GetValue() *heap.Cell { return it.cur }

// SetValue overwrites the current child's value in place.
func (it *ObjectCursor) SetValue(value *heap.Cell) {
	if it.cur == nil {
		return
	}
	it.cur.SetValueOfName(value)
}

// Next releases the current child and advances to its next sibling.
func (it *ObjectCursor) Next() {
	if it.cur != nil {
		next := heap.LockSafe(it.cur.NextSibling())
		it.cur.Unlock()
		it.cur = next
	}
}

// RemoveAndNext unlinks the current child from parent, preserving the
// saved next-sibling so the cursor remains valid and now points at the
// successor.
func (it *ObjectCursor) RemoveAndNext(parent *heap.Cell) {
	if it.cur == nil {
		return
	}
	next := heap.LockSafe(it.cur.NextSibling())
	it.cur.RemoveChild(parent)
	it.cur.Unlock()
	it.cur = next
}

// Clone acquires its own reference to the current child.
func (it ObjectCursor) Clone() ObjectCursor {
	return ObjectCursor{cur: heap.LockSafe(it.cur)}
}

// Free releases the cursor's reference, idempotently.
func (it *ObjectCursor) Free() {
	if it.cur != nil {
		it.cur.Unlock()
		it.cur = nil
	}
}
