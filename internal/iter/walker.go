package iter

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sentra-lang/heapvar/internal/heap"
	"github.com/sentra-lang/heapvar/internal/heap/herr"
	"github.com/sentra-lang/heapvar/internal/interp"
)

// MaxCallbackDepth bounds the callback walker's recursion, the concrete cap
// spec.md §9's design notes call for but leave as an open implementation
// concern ("Implementations should document and enforce a depth cap to
// avoid stack exhaustion when re-entered from user script"). A {callback}
// thunk that returns a structure nesting another {callback}/{data,count}
// more than this deep is almost certainly a runaway rather than legitimate
// user data.
var MaxCallbackDepth = 512

// Sink is the callback walker's consumer: something that accepts one
// produced integer at a time. CountSink and ToBytesSink are the two
// pre-packaged sinks spec.md §4.5 names.
type Sink interface {
	Emit(value int64)
}

// CountSink counts how many integers the walker produced.
type CountSink struct {
	count int
}

func (s *CountSink) Emit(int64) { s.count++ }

// Count returns the number of integers seen so far.
func (s *CountSink) Count() int { return s.count }

// ToBytesSink writes each produced integer's low byte into buf, while
// continuing to count past len(buf) so the caller learns the full required
// length (spec.md §4.5 "to-bytes(buf, size)").
type ToBytesSink struct {
	buf   []byte
	count int
}

// NewToBytesSink wraps buf, a fixed destination the sink writes into
// starting at index 0.
func NewToBytesSink(buf []byte) *ToBytesSink { return &ToBytesSink{buf: buf} }

func (s *ToBytesSink) Emit(value int64) {
	if s.count < len(s.buf) {
		s.buf[s.count] = byte(value)
	}
	s.count++
}

// Count returns the total number of integers the walker produced, which may
// exceed len(buf).
func (s *ToBytesSink) Count() int { return s.count }

// IterateCallback is the recursive callback walker (spec.md §4.5): it
// dispatches on value's kind, flattening it into a stream of integers
// delivered one at a time to sink. It returns false the moment any branch
// raises a type error (fail-fast, spec.md §7); no partial-success outcome
// is offered.
//
// Each top-level call generates a fresh walk ID that is passed down the
// recursion (a {callback} result is walked under the same ID). Nothing in
// the walker reads or prints it, and it is not part of the return value.
func IterateCallback(value *heap.Cell, sink Sink, reporter herr.Reporter) bool {
	walkID := uuid.New()
	return iterateCallback(value, sink, reporter, 0, "", walkID)
}

func iterateCallback(value *heap.Cell, sink Sink, reporter herr.Reporter, depth int, property string, walkID uuid.UUID) bool {
	if depth > MaxCallbackDepth {
		reporter.RaiseTypeError(herr.NewTypeError(
			fmt.Sprintf("callback recursion exceeded depth %d", MaxCallbackDepth), depth, property))
		return false
	}
	switch {
	case value.IsNumeric():
		sink.Emit(value.GetInteger())
		return true
	case value.IsString():
		return iterateString(value, sink)
	case value.IsArrayBuffer():
		return iterateTypedView(value, sink)
	case value.IsObject():
		return iterateObject(value, sink, reporter, depth, walkID)
	case value.IsIterable():
		return iterateArray(value, sink, reporter, depth, walkID)
	default:
		reporter.RaiseTypeError(herr.NewTypeError(
			fmt.Sprintf("cannot iterate value of kind %s", value.Kind()), depth, property).WithOffending(value))
		return false
	}
}

func iterateString(value *heap.Cell, sink Sink) bool {
	sc := NewStringCursor(value, 0)
	for sc.HasChar() {
		sink.Emit(int64(sc.GetChar()))
		sc.Next()
	}
	sc.Free()
	return true
}

// iterateTypedView emits one integer per element. A Uint8 view takes the
// fast path spec.md §4.5 calls out explicitly ("reads bytes directly
// through the inner string cursor"), bypassing TypedCursor's per-element
// decode entirely, the Go port of jsvIterateCallback's array-buffer branch
// special-casing ARRAYBUFFERVIEW_UINT8.
func iterateTypedView(value *heap.Cell, sink Sink) bool {
	if value.TypeTag() == heap.Uint8 {
		sc := NewStringCursor(value.ArrayBufferBackingString(), value.ByteOffset())
		for i := 0; i < value.ViewLength() && sc.HasChar(); i++ {
			sink.Emit(int64(sc.GetChar()))
			sc.Next()
		}
		sc.Free()
		return true
	}
	tc := NewTypedCursor(value, 0)
	for tc.HasElement() {
		sink.Emit(tc.GetInteger())
		tc.Next()
	}
	tc.Free()
	return true
}

// findNamedChild looks up a non-integer-named child by name, the walker's
// way of checking for the well-known "callback", "data", "count"
// properties without pulling in a full property-lookup collaborator.
func findNamedChild(container *heap.Cell, name string) *heap.Cell {
	for c := container.FirstChild(); c != nil; c = c.NextSibling() {
		if !c.IsIntegerish() && c.Name() == name {
			return c
		}
	}
	return nil
}

func iterateObject(value *heap.Cell, sink Sink, reporter herr.Reporter, depth int, walkID uuid.UUID) bool {
	if cb := findNamedChild(value, "callback"); cb != nil && cb.IsFunction() {
		result, err := interp.ExecuteFunction(cb, value, nil)
		if err != nil {
			reporter.RaiseTypeError(herr.NewTypeError(err.Error(), depth, "callback"))
			return false
		}
		// A callback that returns nothing is success with no further
		// recursion (SPEC_FULL.md §9, from jsvIterateCallback: "if (result)
		// { recurse } return true").
		if result == nil {
			return true
		}
		return iterateCallback(result, sink, reporter, depth+1, "callback", walkID)
	}
	data := findNamedChild(value, "data")
	count := findNamedChild(value, "count")
	if data != nil && count != nil && count.IsNumeric() {
		n := count.GetInteger()
		for i := int64(0); i < n; i++ {
			if !iterateCallback(data, sink, reporter, depth+1, "data", walkID) {
				return false
			}
		}
		return true
	}
	reporter.RaiseTypeError(herr.NewTypeError("expected {data,count} or {callback}", depth, ""))
	return false
}

// iterateArray walks value with the FULL-ARRAY overlay (spec.md §4.5
// "Other iterable"), recursing into every element including holes. A
// hole's value is nil (spec.md §4.4's "null value" sentinel); it is passed
// into iterateCallback exactly like any other element rather than
// special-cased, so it falls through every kind predicate (all nil-safe)
// to the "anything else" branch and fails the whole walk with a type
// error. This matches jsvIterateCallback's own array branch
// (jsvariterator.c:96-109): jsvIteratorGetValue returns NULL at a
// FULL-ARRAY hole and that NULL is recursed into unconditionally, not
// special-cased into a bare zero.
//
// Cursor.GetValue sometimes returns a freshly boxed cell (the STRING and
// TYPED-VIEW shapes) and sometimes the array's own child cell (OBJECT,
// FULL-ARRAY when aligned). This walker never unlocks what it reads: a
// boxed value with no further references is simply left for the garbage
// collector, and unlocking a borrowed child would corrupt its owner's
// count. Refcounting here is an invariant-checking layer over Go's own
// memory management, not the mechanism that reclaims memory.
func iterateArray(value *heap.Cell, sink Sink, reporter herr.Reporter, depth int, walkID uuid.UUID) bool {
	cur := NewCursor(value, true)
	defer cur.Free()
	for cur.HasElement() {
		if !iterateCallback(cur.GetValue(), sink, reporter, depth+1, "", walkID) {
			return false
		}
		cur.Next()
	}
	return true
}
