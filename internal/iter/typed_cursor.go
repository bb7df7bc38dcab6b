package iter

import (
	"encoding/binary"
	"math"

	"github.com/sentra-lang/heapvar/internal/heap"
)

// TypedCursor decodes and encodes typed-array elements by multiplexing a
// StringCursor over the view's backing bytes (spec.md §4.3), the Go port
// of JsvArrayBufferIterator.
type TypedCursor struct {
	tag                heap.TypeTag
	index              int
	byteOffset         int
	byteEnd            int
	hasAccessedElement bool
	inner              *StringCursor
	undefined          bool
}

// NewTypedCursor positions a cursor at element index of view. If index is
// past the end, the cursor enters the undefined state spec.md §4.3
// describes: subsequent operations are no-ops and HasElement is false.
func NewTypedCursor(view *heap.Cell, index int) *TypedCursor {
	tag := view.TypeTag()
	width := tag.Width
	byteEnd := view.ByteOffset() + view.ViewLength()*width
	start := view.ByteOffset() + index*width
	t := &TypedCursor{tag: tag, index: index, byteOffset: start, byteEnd: byteEnd}
	if start+width > byteEnd {
		t.undefined = true
		return t
	}
	t.inner = NewStringCursor(view.ArrayBufferBackingString(), start)
	return t
}

// HasElement reports whether another full element can be read at the
// current position, or the cursor is mid-element (guarding access
// mid-element, spec.md §4.3).
func (it *TypedCursor) HasElement() bool {
	if it.undefined {
		return false
	}
	if it.hasAccessedElement {
		return true
	}
	return it.byteOffset+it.tag.Width <= it.byteEnd
}

// readBytes gathers the element's width bytes into a little-endian-ordered
// buffer (data[0] is the least-significant byte regardless of the view's
// endianness), stepping the inner cursor between bytes but not past the
// last one: for width>1 it is left parked on the element's last byte
// (spec.md §4.3), so a following Next() need only cross the single-byte
// boundary into the next element.
func (it *TypedCursor) readBytes() []byte {
	width := it.tag.Width
	data := make([]byte, width)
	for k := 0; k < width; k++ {
		i := k
		if it.tag.BigEndian {
			i = width - 1 - k
		}
		data[i] = it.inner.GetChar()
		if k < width-1 {
			it.inner.Next()
		}
	}
	if width != 1 {
		it.hasAccessedElement = true
	}
	return data
}

func (it *TypedCursor) writeBytes(data []byte) {
	width := it.tag.Width
	for k := 0; k < width; k++ {
		i := k
		if it.tag.BigEndian {
			i = width - 1 - k
		}
		it.inner.SetChar(data[i])
		if k < width-1 {
			it.inner.Next()
		}
	}
	if width != 1 {
		it.hasAccessedElement = true
	}
}

func dataToInt(data []byte, tag heap.TypeTag) int64 {
	bits := uint(8 * tag.Width)
	var v uint64
	for i := tag.Width - 1; i >= 0; i-- {
		v = v<<8 | uint64(data[i])
	}
	mask := uint64(1)<<bits - 1
	v &= mask
	if tag.Signed && v&(uint64(1)<<(bits-1)) != 0 {
		return int64(v | ^mask)
	}
	return int64(v)
}

func intToData(v int64, tag heap.TypeTag) []byte {
	data := make([]byte, tag.Width)
	if tag.Clamped {
		if v < 0 {
			v = 0
		}
		if v > 255 {
			v = 255
		}
	}
	for i := 0; i < tag.Width; i++ {
		data[i] = byte(v)
		v >>= 8
	}
	return data
}

func dataToFloat(data []byte, tag heap.TypeTag) float64 {
	switch tag.Width {
	case 4:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(data)))
	case 8:
		return math.Float64frombits(binary.LittleEndian.Uint64(data))
	default:
		return 0
	}
}

func floatToData(v float64, tag heap.TypeTag) []byte {
	data := make([]byte, tag.Width)
	switch tag.Width {
	case 4:
		binary.LittleEndian.PutUint32(data, math.Float32bits(float32(v)))
	case 8:
		binary.LittleEndian.PutUint64(data, math.Float64bits(v))
	}
	return data
}

// GetInteger reads the current element as an integer, sign-extending per
// the tag's signedness, truncating a float tag's value toward zero.
func (it *TypedCursor) GetInteger() int64 {
	if it.undefined {
		return 0
	}
	data := it.readBytes()
	if it.tag.Float {
		return int64(dataToFloat(data, it.tag))
	}
	return dataToInt(data, it.tag)
}

// GetFloat reads the current element as a float64.
func (it *TypedCursor) GetFloat() float64 {
	if it.undefined {
		return 0
	}
	data := it.readBytes()
	if it.tag.Float {
		return dataToFloat(data, it.tag)
	}
	return float64(dataToInt(data, it.tag))
}

// GetValue reads the current element and boxes it as a heap value: a float
// cell for float tags, an int cell for integer tags, except that a tag equal
// to heap.Uint32 (little-endian only, since the comparison is exact) always
// yields a float cell of the unsigned value, after
// jsvArrayBufferIteratorGetValue's uint32 special case.
func (it *TypedCursor) GetValue(pool *heap.Pool) *heap.Cell {
	if it.undefined {
		return nil
	}
	if it.tag.Float {
		return pool.NewFloat(it.GetFloat())
	}
	v := it.GetInteger()
	if it.tag == heap.Uint32 {
		return pool.NewFloat(float64(uint32(v)))
	}
	return pool.NewInt(v)
}

// GetAndRewind reads the current element, then restores the inner cursor
// to the element's first byte, for callers that will continue scanning
// without consuming this element (spec.md §4.3, §9 open question — resolved
// here via withRewind, a defer-scoped clone/restore).
func (it *TypedCursor) GetAndRewind(pool *heap.Pool) *heap.Cell {
	var v *heap.Cell
	it.withRewind(func() { v = it.GetValue(pool) })
	return v
}

func (it *TypedCursor) withRewind(fn func()) {
	if it.undefined {
		fn()
		return
	}
	old := it.inner.Clone()
	defer func() {
		it.inner.Free()
		it.inner = old
		it.hasAccessedElement = false
	}()
	fn()
}

// SetInteger writes v as the current element.
func (it *TypedCursor) SetInteger(v int64) {
	if it.undefined {
		return
	}
	if it.tag.Float {
		it.writeBytes(floatToData(float64(v), it.tag))
		return
	}
	it.writeBytes(intToData(v, it.tag))
}

// SetValue writes value (read as integer or float per the tag) as the
// current element.
func (it *TypedCursor) SetValue(value *heap.Cell) {
	if it.undefined {
		return
	}
	if it.tag.Float {
		it.writeBytes(floatToData(value.GetFloat(), it.tag))
	} else {
		it.writeBytes(intToData(value.GetInteger(), it.tag))
	}
}

// SetByte writes a single raw byte; defined only when the tag's width is 1.
func (it *TypedCursor) SetByte(b byte) {
	if it.undefined || it.tag.Width != 1 {
		return
	}
	it.inner.SetChar(b)
}

// SetAndRewind is SetValue, restoring the inner cursor's position
// afterwards, symmetric to GetAndRewind.
func (it *TypedCursor) SetAndRewind(value *heap.Cell) {
	it.withRewind(func() { it.SetValue(value) })
}

// Next advances to the next element.
func (it *TypedCursor) Next() {
	if it.undefined {
		return
	}
	it.index++
	it.byteOffset += it.tag.Width
	if !it.hasAccessedElement {
		for i := 0; i < it.tag.Width; i++ {
			it.inner.Next()
		}
	} else {
		it.inner.Next()
		it.hasAccessedElement = false
	}
}

// Index returns the current element's logical index.
func (it *TypedCursor) Index() int { return it.index }

// Clone deep-copies the cursor, acquiring its own reference on the backing
// chain.
func (it *TypedCursor) Clone() *TypedCursor {
	clone := *it
	if it.inner != nil {
		clone.inner = it.inner.Clone()
	}
	return &clone
}

// Free releases the inner cursor's reference.
func (it *TypedCursor) Free() {
	if it.inner != nil {
		it.inner.Free()
		it.inner = nil
	}
}
