package interp

import (
	"testing"

	"github.com/sentra-lang/heapvar/internal/heap"
)

func TestExecuteFunctionInvokesNativeClosure(t *testing.T) {
	p := heap.NewPool()
	var sawThis *heap.Cell
	var sawArgs []*heap.Cell
	fn := p.NewNativeFunction("double", func(this *heap.Cell, args []*heap.Cell) (*heap.Cell, error) {
		sawThis = this
		sawArgs = args
		return p.NewInt(args[0].GetInteger() * 2), nil
	})

	thisArg := p.NewObject()
	result, err := ExecuteFunction(fn, thisArg, []*heap.Cell{p.NewInt(21)})
	if err != nil {
		t.Fatalf("ExecuteFunction returned error: %v", err)
	}
	if result.GetInteger() != 42 {
		t.Fatalf("result = %d, want 42", result.GetInteger())
	}
	if sawThis != thisArg {
		t.Fatalf("this-binding not passed through")
	}
	if len(sawArgs) != 1 {
		t.Fatalf("args not passed through, got %v", sawArgs)
	}
}

func TestExecuteFunctionRejectsNonFunction(t *testing.T) {
	p := heap.NewPool()
	_, err := ExecuteFunction(p.NewInt(1), nil, nil)
	if err == nil {
		t.Fatal("expected an error calling ExecuteFunction on a non-function cell")
	}
}
