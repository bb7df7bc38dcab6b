package iter

import (
	"math"
	"testing"

	"github.com/sentra-lang/heapvar/internal/heap"
)

// Scenario 6: array of length 5 with children at indices {0:10, 3:30}; a
// unified cursor with FULL-ARRAY overlay yields integer-values
// 10, 0, 0, 30, 0.
func TestCursorFullArrayOverlayYieldsHolesAsZero(t *testing.T) {
	p := heap.NewPool()
	arr := p.NewArray()
	arr.SetArrayItem(0, p.NewInt(10))
	arr.SetArrayItem(3, p.NewInt(30))
	// SetArrayItem only grows arrayLength to index+1 (here, 4); plant and
	// remove a temporary child at index 4 to reach the scenario's stated
	// logical length of 5 without leaving a real child there.
	sentinel := p.NewInt(0)
	arr.SetArrayItem(4, sentinel)
	sentinel.RemoveChild(arr)

	cur := NewCursor(arr, true)
	var got []int64
	for cur.HasElement() {
		got = append(got, cur.GetIntegerValue())
		cur.Next()
	}
	cur.Free()

	want := []int64{10, 0, 0, 30, 0}
	if len(got) != len(want) {
		t.Fatalf("full-array walk = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("full-array walk = %v, want %v", got, want)
		}
	}
}

func TestCursorFullArrayGetFloatAtHoleIsNaN(t *testing.T) {
	p := heap.NewPool()
	arr := p.NewArray()
	arr.SetArrayItem(1, p.NewInt(99))

	cur := NewCursor(arr, true)
	// index 0 is a hole.
	if got := cur.GetFloatValue(); !math.IsNaN(got) {
		t.Fatalf("GetFloatValue() at hole = %v, want NaN", got)
	}
	if v := cur.GetValue(); v != nil {
		t.Fatalf("GetValue() at hole = %v, want nil", v)
	}
	cur.Free()
}

func TestCursorFullArraySetValueInsertsAtHole(t *testing.T) {
	p := heap.NewPool()
	arr := p.NewArray()
	arr.SetArrayItem(0, p.NewInt(10))
	arr.SetArrayItem(2, p.NewInt(20))

	cur := NewCursor(arr, true)
	cur.Next() // now at index 1, a hole
	cur.SetValue(p.NewInt(15))
	cur.Free()

	var got []int64
	for c := arr.FirstChild(); c != nil; c = c.NextSibling() {
		got = append(got, c.GetInteger())
	}
	want := []int64{10, 15, 20}
	if len(got) != len(want) {
		t.Fatalf("array children after hole-fill = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("array children after hole-fill = %v, want %v", got, want)
		}
	}
}

func TestCursorObjectShapeOverArrayWithoutFullArray(t *testing.T) {
	p := heap.NewPool()
	arr := p.NewArray()
	arr.SetArrayItem(0, p.NewInt(10))
	arr.SetArrayItem(3, p.NewInt(30))

	cur := NewCursor(arr, false) // sparse walk: only real children
	var got []int64
	for cur.HasElement() {
		got = append(got, cur.GetIntegerValue())
		cur.Next()
	}
	cur.Free()

	want := []int64{10, 30}
	if len(got) != len(want) {
		t.Fatalf("sparse walk = %v, want %v", got, want)
	}
}

func TestCursorStringShape(t *testing.T) {
	p := heap.NewPool()
	s := p.NewStringFromBytes([]byte("hi"))
	cur := NewCursor(s, false)
	if got := cur.GetIntegerValue(); got != int64('h') {
		t.Fatalf("first GetIntegerValue() = %d, want %d", got, 'h')
	}
	cur.Next()
	if got := cur.GetIntegerValue(); got != int64('i') {
		t.Fatalf("second GetIntegerValue() = %d, want %d", got, 'i')
	}
	cur.Next()
	if cur.HasElement() {
		t.Fatalf("HasElement() true past the end of a 2-byte string")
	}
	cur.Free()
}

func TestCursorFullArrayCloneAdvancesIndependently(t *testing.T) {
	p := heap.NewPool()
	arr := p.NewArray()
	arr.SetArrayItem(0, p.NewInt(10))
	arr.SetArrayItem(1, p.NewInt(20))
	arr.SetArrayItem(2, p.NewInt(30))

	cur := NewCursor(arr, true)
	clone := cur.Clone()
	clone.Next()
	clone.Next()

	if got := cur.GetIntegerValue(); got != 10 {
		t.Fatalf("original cursor moved after cloning: GetIntegerValue() = %d, want 10", got)
	}
	if got := clone.GetIntegerValue(); got != 30 {
		t.Fatalf("clone landed at %d, want 30", got)
	}
	cur.Free()
	clone.Free()
}

func TestCursorPanicsOnNonIterableValue(t *testing.T) {
	p := heap.NewPool()
	v := p.NewInt(1)
	defer func() {
		if recover() == nil {
			t.Fatal("NewCursor on a numeric value did not panic")
		}
	}()
	NewCursor(v, false)
}
