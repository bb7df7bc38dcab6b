// Package herr is the error-reporting collaborator the iteration layer's
// design calls out as external (spec.md §6, "To the error collaborator:
// raise-type-error(message, offending-value)"). It is adapted from the
// teacher repo's internal/errors.SentraError, trimmed to the one error kind
// this layer ever raises: a type error, when a value doesn't fit an
// operation's kind contract (walker on a non-iterable; a structured object
// missing {data,count} or {callback}). SyntaxError/CompileError/
// ImportError/ReferenceError belong to the parser/evaluator collaborator
// this layer never touches and are dropped rather than carried in unused.
package herr

import (
	"fmt"
	"strings"
)

// CallSite is where in the recursive walk a type error occurred: which
// nesting of {data,count} / {callback} structures the walker was unwinding
// through. It plays the role the teacher's SourceLocation/StackFrame pair
// play for a parse error, scaled down to what a value walk actually has a
// notion of "where" for.
type CallSite struct {
	Depth    int    // recursion depth at the point of failure
	Property string // "data" or "callback" when the failing value came from that property, else ""
}

// TypeError is the one error kind this layer raises.
type TypeError struct {
	Message   string
	Site      CallSite
	Offending interface{} // *heap.Cell in practice; typed interface{} so herr does not import package heap
}

func (e *TypeError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("TypeError: %s", e.Message))
	if e.Site.Property != "" || e.Site.Depth > 0 {
		sb.WriteString(fmt.Sprintf(" (depth %d", e.Site.Depth))
		if e.Site.Property != "" {
			sb.WriteString(fmt.Sprintf(", in %q", e.Site.Property))
		}
		sb.WriteString(")")
	}
	return sb.String()
}

// WithOffending attaches the value that failed the kind contract.
func (e *TypeError) WithOffending(v interface{}) *TypeError {
	e.Offending = v
	return e
}

// NewTypeError builds a TypeError at the given recursion depth, mirroring
// the teacher's NewSyntaxError/NewRuntimeError constructor pattern.
func NewTypeError(message string, depth int, property string) *TypeError {
	return &TypeError{
		Message: message,
		Site:    CallSite{Depth: depth, Property: property},
	}
}

// Reporter is the error collaborator's interface: something that can be
// told about a type error during iteration. Production code reports
// through the interpreter's own exception channel; tests typically use
// CollectingReporter.
type Reporter interface {
	RaiseTypeError(err *TypeError)
}

// CollectingReporter is a Reporter that only records what it was told,
// useful in tests that assert on the exact message raised without needing
// a live interpreter.
type CollectingReporter struct {
	Errors []*TypeError
}

func (r *CollectingReporter) RaiseTypeError(err *TypeError) {
	r.Errors = append(r.Errors, err)
}

// Last returns the most recently raised error, or nil if none was raised.
func (r *CollectingReporter) Last() *TypeError {
	if len(r.Errors) == 0 {
		return nil
	}
	return r.Errors[len(r.Errors)-1]
}
