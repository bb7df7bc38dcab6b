package iter

import (
	"math"
	"testing"

	"github.com/sentra-lang/heapvar/internal/heap"
)

// Scenario 3: backing bytes FF FF FF FE, view tag = (width 4, signed,
// big-endian). Element 0 reads as -2; writing -2 reproduces those bytes.
func TestTypedCursorBigEndianInt32RoundTrip(t *testing.T) {
	p := heap.NewPool()
	backing := p.NewStringFromBytes([]byte{0xFF, 0xFF, 0xFF, 0xFE})
	view := p.NewArrayBufferView(heap.Int32.BE(), backing, 0, 1)

	tc := NewTypedCursor(view, 0)
	if got := tc.GetInteger(); got != -2 {
		t.Fatalf("GetInteger() = %d, want -2", got)
	}
	tc.Free()

	tc2 := NewTypedCursor(view, 0)
	tc2.SetInteger(-2)
	tc2.Free()

	bc := NewStringCursor(backing, 0)
	var got []byte
	for bc.HasChar() {
		got = append(got, bc.GetChar())
		bc.Next()
	}
	bc.Free()
	want := []byte{0xFF, 0xFF, 0xFF, 0xFE}
	if len(got) != len(want) {
		t.Fatalf("backing bytes = % X, want % X", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("backing bytes = % X, want % X", got, want)
		}
	}
}

func TestTypedCursorReadWriteUnchangedRoundTrip(t *testing.T) {
	p := heap.NewPool()
	backing := p.NewStringFromBytes([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06})
	view := p.NewArrayBufferView(heap.Uint16, backing, 0, 3)

	for i := 0; i < 3; i++ {
		tc := NewTypedCursor(view, i)
		v := tc.GetInteger()
		tc.Free()

		tc2 := NewTypedCursor(view, i)
		tc2.SetInteger(v)
		tc2.Free()
	}

	bc := NewStringCursor(backing, 0)
	var got []byte
	for bc.HasChar() {
		got = append(got, bc.GetChar())
		bc.Next()
	}
	bc.Free()
	want := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d = %#x, want %#x (read-then-write changed backing bytes)", i, got[i], want[i])
		}
	}
}

func TestTypedCursorSequentialElementsAndNext(t *testing.T) {
	p := heap.NewPool()
	backing := p.NewStringFromBytes(make([]byte, 8))
	view := p.NewArrayBufferView(heap.Uint16, backing, 0, 4)

	tc := NewTypedCursor(view, 0)
	values := []int64{10, 20, 30, 40}
	for _, v := range values {
		tc.SetInteger(v)
		tc.Next()
	}
	tc.Free()

	tc2 := NewTypedCursor(view, 0)
	for i, want := range values {
		if !tc2.HasElement() {
			t.Fatalf("element %d: HasElement() false, expected true", i)
		}
		if got := tc2.GetInteger(); got != want {
			t.Fatalf("element %d = %d, want %d", i, got, want)
		}
		tc2.Next()
	}
	if tc2.HasElement() {
		t.Fatalf("expected HasElement() false past the last element")
	}
	tc2.Free()
}

func TestTypedCursorUndefinedPastEnd(t *testing.T) {
	p := heap.NewPool()
	backing := p.NewStringFromBytes([]byte{1, 2, 3, 4})
	view := p.NewArrayBufferView(heap.Uint8, backing, 0, 4)

	tc := NewTypedCursor(view, 10)
	if tc.HasElement() {
		t.Fatalf("HasElement() true past the end")
	}
	if got := tc.GetInteger(); got != 0 {
		t.Fatalf("GetInteger() past end = %d, want 0 (no-op)", got)
	}
	tc.Free()
}

func TestTypedCursorFloat64RoundTrip(t *testing.T) {
	p := heap.NewPool()
	backing := p.NewStringFromBytes(make([]byte, 8))
	view := p.NewArrayBufferView(heap.Float64, backing, 0, 1)

	tc := NewTypedCursor(view, 0)
	tc.SetValue(p.NewFloat(math.Pi))
	tc.Free()

	tc2 := NewTypedCursor(view, 0)
	got := tc2.GetFloat()
	tc2.Free()
	if got != math.Pi {
		t.Fatalf("GetFloat() = %v, want %v", got, math.Pi)
	}
}

func TestTypedCursorClampedWrite(t *testing.T) {
	p := heap.NewPool()
	backing := p.NewStringFromBytes([]byte{0})
	view := p.NewArrayBufferView(heap.Uint8Clamped, backing, 0, 1)

	tc := NewTypedCursor(view, 0)
	tc.SetInteger(300)
	tc.Free()
	tc2 := NewTypedCursor(view, 0)
	if got := tc2.GetInteger(); got != 255 {
		t.Fatalf("clamped write of 300 read back as %d, want 255", got)
	}
	tc2.Free()

	tc3 := NewTypedCursor(view, 0)
	tc3.SetInteger(-10)
	tc3.Free()
	tc4 := NewTypedCursor(view, 0)
	if got := tc4.GetInteger(); got != 0 {
		t.Fatalf("clamped write of -10 read back as %d, want 0", got)
	}
	tc4.Free()
}

func TestTypedCursorGetAndRewindLeavesPositionUnchanged(t *testing.T) {
	p := heap.NewPool()
	backing := p.NewStringFromBytes([]byte{0xAA, 0xBB, 0xCC, 0xDD})
	view := p.NewArrayBufferView(heap.Int32, backing, 0, 1)

	tc := NewTypedCursor(view, 0)
	first := tc.GetAndRewind(p)
	second := tc.GetAndRewind(p)
	tc.Free()

	if first.GetInteger() != second.GetInteger() {
		t.Fatalf("GetAndRewind did not leave a repeatable read: %d vs %d", first.GetInteger(), second.GetInteger())
	}
}

func TestTypedCursorCloneAdvancesIndependently(t *testing.T) {
	p := heap.NewPool()
	backing := p.NewStringFromBytes([]byte{1, 2, 3, 4})
	view := p.NewArrayBufferView(heap.Uint8, backing, 0, 4)

	tc := NewTypedCursor(view, 0)
	clone := tc.Clone()
	clone.Next()
	clone.Next()

	if got := tc.GetInteger(); got != 1 {
		t.Fatalf("original cursor moved after cloning: GetInteger() = %d, want 1", got)
	}
	if got := clone.GetInteger(); got != 3 {
		t.Fatalf("clone landed at %d, want 3", got)
	}
	tc.Free()
	clone.Free()
}
