// Package interp is the interpreter collaborator named in spec.md §6: "To
// the interpreter collaborator: execute-function(f, thisArg, argc, argv)
// used exclusively by the walker's {callback} handler." The parser and
// evaluator that would normally drive this call are explicitly out of
// scope for the iteration layer (spec.md §1); this package is the narrowest
// possible stand-in that lets the walker's {callback} branch be exercised
// end-to-end without building a bytecode VM.
//
// Functions are modeled as heap cells whose payload is a native Go closure,
// the same shape the teacher repo's register VM uses for a host function
// with no bytecode body (NativeFnObj.Function func([]Value) (Value,
// error)) — adapted here to the cell-and-refcount world instead of
// NaN-boxed registers.
package interp

import (
	"fmt"

	"github.com/sentra-lang/heapvar/internal/heap"
)

// ExecuteFunction invokes f with the given this-binding and arguments. It
// is the sole entry point the iteration layer's callback walker re-enters
// the interpreter through (spec.md §5: "The only re-entrancy point is the
// walker's invocation of a user callback function").
func ExecuteFunction(f *heap.Cell, thisArg *heap.Cell, args []*heap.Cell) (*heap.Cell, error) {
	if !f.IsFunction() {
		return nil, fmt.Errorf("interp: ExecuteFunction called on a non-function cell (%s)", f.Kind())
	}
	fn := f.NativeFunc()
	if fn == nil {
		return nil, fmt.Errorf("interp: function cell has no native implementation")
	}
	return fn(thisArg, args)
}
