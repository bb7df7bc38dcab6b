package iter

import (
	"testing"

	"github.com/sentra-lang/heapvar/internal/heap"
)

func TestObjectCursorWalksChildrenInOrder(t *testing.T) {
	p := heap.NewPool()
	obj := p.NewObject()
	obj.AddNamedChild("a", p.NewInt(1))
	obj.AddNamedChild("b", p.NewInt(2))
	obj.AddNamedChild("c", p.NewInt(3))

	it := NewObjectCursor(obj)
	var names []string
	var values []int64
	for it.HasValue() {
		key := it.GetKey()
		names = append(names, readCellString(key))
		values = append(values, it.GetValue().GetInteger())
		it.Next()
	}
	it.Free()

	if len(names) != 3 || names[0] != "a" || names[1] != "b" || names[2] != "c" {
		t.Fatalf("names = %v, want [a b c]", names)
	}
	if values[0] != 1 || values[1] != 2 || values[2] != 3 {
		t.Fatalf("values = %v, want [1 2 3]", values)
	}
}

// readCellString drains a boxed string cell's bytes, for tests that need to
// assert on a GetKey()/GetValue() result's actual content rather than a
// child cell's bookkeeping name.
func readCellString(s *heap.Cell) string {
	sc := NewStringCursor(s, 0)
	var out []byte
	for sc.HasChar() {
		out = append(out, sc.GetChar())
		sc.Next()
	}
	sc.Free()
	return string(out)
}

func TestObjectCursorSetValueOverwritesInPlace(t *testing.T) {
	p := heap.NewPool()
	obj := p.NewObject()
	obj.AddNamedChild("x", p.NewInt(1))

	it := NewObjectCursor(obj)
	it.SetValue(p.NewInt(42))
	if it.GetValue().GetInteger() != 42 {
		t.Fatalf("SetValue did not overwrite, got %d", it.GetValue().GetInteger())
	}
	if it.Cur().Name() != "x" {
		t.Fatalf("SetValue changed the child's name")
	}
	it.Free()
}

func TestObjectCursorRemoveAndNext(t *testing.T) {
	p := heap.NewPool()
	obj := p.NewObject()
	obj.AddNamedChild("a", p.NewInt(1))
	obj.AddNamedChild("b", p.NewInt(2))
	obj.AddNamedChild("c", p.NewInt(3))

	it := NewObjectCursor(obj)
	it.RemoveAndNext(obj) // removes "a", advances to "b"
	if !it.HasValue() || it.Cur().Name() != "b" {
		t.Fatalf("RemoveAndNext did not land on successor")
	}
	it.Free()

	var remaining []string
	for c := obj.FirstChild(); c != nil; c = c.NextSibling() {
		remaining = append(remaining, c.Name())
	}
	if len(remaining) != 2 || remaining[0] != "b" || remaining[1] != "c" {
		t.Fatalf("remaining children = %v, want [b c]", remaining)
	}
}

func TestObjectCursorCloneIndependentRefs(t *testing.T) {
	p := heap.NewPool()
	obj := p.NewObject()
	child := p.NewInt(1)
	obj.AddNamedChild("a", child)

	it := NewObjectCursor(obj)
	before := child.Ref()
	clone := it.Clone()
	if child.Ref() != before+1 {
		t.Fatalf("Clone did not acquire its own reference")
	}
	clone.Free()
	if child.Ref() != before {
		t.Fatalf("freeing clone left refcount at %d, want %d", child.Ref(), before)
	}
	it.Free()
}
