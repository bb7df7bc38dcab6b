package iter

import (
	"math"

	"github.com/sentra-lang/heapvar/internal/heap"
)

// shape tags which of the four concrete walks a Cursor is currently
// multiplexing, the Go port of Espruino's JSV_ITERATOR_* enum.
type shape int

const (
	shapeObject shape = iota
	shapeFullArray
	shapeString
	shapeTyped
)

// Cursor is the tagged union spec.md §4.4 describes: one walk type that
// dispatches to whichever of ObjectCursor, StringCursor or TypedCursor fits
// the value it was built over, plus a fourth FULL-ARRAY mode that overlays
// an ObjectCursor's sparse child list with a dense external index so a
// caller sees every slot of a jsvIsArray's length, holes included.
type Cursor struct {
	shape shape
	pool  *heap.Pool

	obj   ObjectCursor
	str   *StringCursor
	typed *TypedCursor

	// FULL-ARRAY overlay state
	arrayIndex     int
	arrayContainer *heap.Cell // retained reference, unlocked by Free
}

// NewCursor builds a cursor over value. fullArray selects the FULL-ARRAY
// overlay for array values (spec.md §4.4); passing false over an array
// yields a plain sparse walk instead, visiting only the children that
// actually exist.
//
// value must be one of: an object-like cell (object, function, getter-
// setter, array), a string-chain cell, or an array-buffer view. Anything
// else is an internal invariant violation — the same contract
// jsvIteratorNew's closing assert(0) enforces — and NewCursor panics rather
// than returning a zero-value cursor a caller could silently misuse.
func NewCursor(value *heap.Cell, fullArray bool) *Cursor {
	c := &Cursor{pool: value.Pool()}
	switch {
	case value.IsArray() && fullArray:
		c.shape = shapeFullArray
		c.arrayContainer = value.Lock()
		c.obj = NewObjectCursor(value)
	case value.IsObject() || value.IsArray():
		c.shape = shapeObject
		c.obj = NewObjectCursor(value)
	case value.IsArrayBuffer():
		c.shape = shapeTyped
		c.typed = NewTypedCursor(value, 0)
	case value.HasCharacterData():
		c.shape = shapeString
		c.str = NewStringCursor(value, 0)
	default:
		panic("iter: NewCursor called on a value with no iterable shape")
	}
	return c
}

// aligned reports whether the FULL-ARRAY overlay's backing object cursor is
// currently sitting on the child named by the external arrayIndex, the Go
// port of the "jsvIsIntegerish(var) && jsvGetInteger(var) == index" checks
// scattered through jsvArrayBufferIteratorGetValue's array-index-matching
// peers. When it isn't aligned, the overlay's current slot is a hole: no
// child was ever stored at that index.
func (c *Cursor) aligned() bool {
	n, ok := c.obj.CurrentIntName()
	return ok && n == c.arrayIndex
}

// GetKey returns the current position's key, boxed as a value from the
// cursor's own pool.
func (c *Cursor) GetKey() *heap.Cell {
	switch c.shape {
	case shapeFullArray:
		return c.pool.NewInt(int64(c.arrayIndex))
	case shapeObject:
		return c.obj.GetKey()
	case shapeString:
		return c.pool.NewInt(int64(c.str.Index()))
	case shapeTyped:
		return c.pool.NewInt(int64(c.typed.Index()))
	}
	return nil
}

// GetValue returns the current position's value, boxed as a heap cell. A
// FULL-ARRAY hole (an index with no stored child) returns nil, the
// "undefined" sentinel a caller must check for explicitly.
func (c *Cursor) GetValue() *heap.Cell {
	switch c.shape {
	case shapeFullArray:
		if c.aligned() {
			return c.obj.GetValue()
		}
		return nil
	case shapeObject:
		return c.obj.GetValue()
	case shapeString:
		if !c.str.HasChar() {
			return nil
		}
		return c.pool.NewStringFromBytes([]byte{c.str.GetChar()})
	case shapeTyped:
		return c.typed.GetAndRewind(c.pool)
	}
	return nil
}

// GetIntegerValue reads the current position directly as an integer,
// without boxing, for callers that only need the numeric value.
func (c *Cursor) GetIntegerValue() int64 {
	switch c.shape {
	case shapeFullArray:
		if c.aligned() {
			return c.obj.GetValue().GetInteger()
		}
		return 0
	case shapeObject:
		return c.obj.GetValue().GetInteger()
	case shapeString:
		return int64(c.str.GetChar())
	case shapeTyped:
		return c.typed.GetInteger()
	}
	return 0
}

// GetFloatValue is GetIntegerValue's float64 counterpart. A FULL-ARRAY hole
// reads as NaN, mirroring jsvArrayBufferIteratorGetFloatValue's treatment
// of a missing array element as undefined-to-number.
func (c *Cursor) GetFloatValue() float64 {
	switch c.shape {
	case shapeFullArray:
		if c.aligned() {
			return c.obj.GetValue().GetFloat()
		}
		return math.NaN()
	case shapeObject:
		return c.obj.GetValue().GetFloat()
	case shapeString:
		return float64(c.str.GetChar())
	case shapeTyped:
		return c.typed.GetFloat()
	}
	return math.NaN()
}

// SetValue writes value at the current position. For FULL-ARRAY, this
// resolves spec.md §9's flagged open question in favor of the original's
// literal dual-write: when the overlay is aligned, the backing child is
// updated in place; the containing array's sparse storage is also written
// through SetArrayItem, so a later fresh walk over the same array (sparse
// or full) observes the same value even if the overlay's cached object
// cursor is discarded.
func (c *Cursor) SetValue(value *heap.Cell) {
	switch c.shape {
	case shapeFullArray:
		if c.aligned() {
			c.obj.SetValue(value)
		}
		c.arrayContainer.SetArrayItem(c.arrayIndex, value)
	case shapeObject:
		c.obj.SetValue(value)
	case shapeString:
		if !c.str.HasChar() {
			return
		}
		if value.IsString() {
			sc := NewStringCursor(value, 0)
			if sc.HasChar() {
				c.str.SetChar(sc.GetChar())
			}
			sc.Free()
		} else {
			c.str.SetChar(byte(value.GetInteger()))
		}
	case shapeTyped:
		c.typed.SetAndRewind(value)
	}
}

// HasElement reports whether the cursor is over a valid position. For
// FULL-ARRAY this is a dense bound check against the array's logical
// length, true even over holes — the overlay's whole point is that every
// slot up to length is visited.
func (c *Cursor) HasElement() bool {
	switch c.shape {
	case shapeFullArray:
		return c.arrayIndex < c.arrayContainer.ArrayLength()
	case shapeObject:
		return c.obj.HasValue()
	case shapeString:
		return c.str.HasChar()
	case shapeTyped:
		return c.typed.HasElement()
	}
	return false
}

// Next advances to the next position. For FULL-ARRAY the external index
// always advances by one; the backing sparse cursor only advances when it
// was aligned with the index just left behind, so it doesn't run ahead of
// a run of holes.
func (c *Cursor) Next() {
	switch c.shape {
	case shapeFullArray:
		c.arrayIndex++
		if n, ok := c.obj.CurrentIntName(); ok && n < c.arrayIndex {
			c.obj.Next()
		}
	case shapeObject:
		c.obj.Next()
	case shapeString:
		c.str.Next()
	case shapeTyped:
		c.typed.Next()
	}
}

// Clone deep-copies the cursor, acquiring its own references so the clone
// and the original can be freed independently.
func (c *Cursor) Clone() *Cursor {
	clone := &Cursor{shape: c.shape, pool: c.pool, arrayIndex: c.arrayIndex}
	switch c.shape {
	case shapeFullArray:
		clone.arrayContainer = c.arrayContainer.Lock()
		clone.obj = c.obj.Clone()
	case shapeObject:
		clone.obj = c.obj.Clone()
	case shapeString:
		clone.str = c.str.Clone()
	case shapeTyped:
		clone.typed = c.typed.Clone()
	}
	return clone
}

// Free releases whatever references the cursor holds. Idempotent.
func (c *Cursor) Free() {
	switch c.shape {
	case shapeFullArray:
		if c.arrayContainer != nil {
			c.arrayContainer.Unlock()
			c.arrayContainer = nil
		}
		c.obj.Free()
	case shapeObject:
		c.obj.Free()
	case shapeString:
		if c.str != nil {
			c.str.Free()
		}
	case shapeTyped:
		if c.typed != nil {
			c.typed.Free()
		}
	}
}
