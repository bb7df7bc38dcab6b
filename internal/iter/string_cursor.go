// Package iter is the iteration layer: cursors and the callback walker
// that together let any heap value (numeric, string chain, object/array
// child list, typed-array view) be walked, read, mutated, and extended
// uniformly. This file implements the String-chain cursor, spec.md §4.1.
package iter

import "github.com/sentra-lang/heapvar/internal/heap"

// StringCursor walks the byte sequence of a string chain: a root cell
// followed by zero or more extension cells linked by LastChild. It is the
// Go port of Espruino's JsvStringIterator.
type StringCursor struct {
	cell       *heap.Cell // current cell, nil at logical end
	varIndex   int        // logical start offset of cell within the chain
	charIdx    int        // byte offset within cell
	charsInVar int        // cached CharactersInVar() of cell
	ptr        []byte     // cached byte backing of cell
}

// NewStringCursor positions a cursor at startIdx bytes into str's logical
// sequence. If the chain ends before startIdx is consumed, the cursor is
// left at logical end (spec.md §4.1 "new").
func NewStringCursor(str *heap.Cell, startIdx int) *StringCursor {
	it := &StringCursor{}
	it.cell = str.Lock()
	it.varIndex = 0
	it.charsInVar = it.cell.CharactersInVar()
	it.charIdx = startIdx
	it.ptr = it.cell.Bytes()
	for it.charIdx > 0 && it.charIdx >= it.charsInVar {
		it.charIdx -= it.charsInVar
		it.varIndex += it.charsInVar
		if it.cell.LastChild() != nil {
			next := it.cell.LastChild().Lock()
			it.cell.Unlock()
			it.cell = next
			it.ptr = next.Bytes()
			it.charsInVar = next.CharactersInVar()
		} else {
			it.cell.Unlock()
			it.cell = nil
			it.ptr = nil
			it.charsInVar = 0
			it.varIndex = startIdx - it.charIdx
			return it
		}
	}
	return it
}

// HasChar reports whether the cursor is over a readable byte (invariant I3:
// a nil cell means logical end).
func (it *StringCursor) HasChar() bool {
	return it.cell != nil && it.charIdx < it.charsInVar
}

// GetChar reads the current byte. Callers must check HasChar first; at
// logical end it returns 0.
func (it *StringCursor) GetChar() byte {
	if !it.HasChar() {
		return 0
	}
	return it.ptr[it.charIdx]
}

// GetCharOrMinusOne is GetChar but returns -1 at logical end instead of
// asserting (spec.md §4.1, §7: "not errors but sentinel results").
func (it *StringCursor) GetCharOrMinusOne() int {
	if it.cell == nil || it.charIdx >= it.charsInVar {
		return -1
	}
	return int(it.ptr[it.charIdx])
}

// SetChar writes the current byte; a silent no-op at logical end.
func (it *StringCursor) SetChar(ch byte) {
	if it.HasChar() {
		it.ptr[it.charIdx] = ch
	}
}

// Next advances one byte, crossing into the next chain cell when the
// current one is exhausted.
func (it *StringCursor) Next() {
	it.charIdx++
	if it.charIdx >= it.charsInVar {
		it.charIdx -= it.charsInVar
		if it.cell != nil && it.cell.LastChild() != nil {
			next := it.cell.LastChild().Lock()
			it.cell.Unlock()
			it.cell = next
			it.varIndex += it.charsInVar
			it.charsInVar = next.CharactersInVar()
			it.ptr = next.Bytes()
		} else {
			if it.cell != nil {
				it.cell.Unlock()
			}
			it.cell = nil
			it.ptr = nil
			it.charsInVar = 0
		}
	}
}

// GotoEnd follows LastChild to the tail cell and positions at its last
// byte, or at position 0 if the chain is empty.
func (it *StringCursor) GotoEnd() {
	if it.cell == nil {
		return
	}
	for it.cell.LastChild() != nil {
		next := it.cell.LastChild().Lock()
		it.cell.Unlock()
		it.cell = next
		it.varIndex += it.charsInVar
		it.charsInVar = next.CharactersInVar()
	}
	it.ptr = it.cell.Bytes()
	if it.charsInVar > 0 {
		it.charIdx = it.charsInVar - 1
	} else {
		it.charIdx = 0
	}
}

// Append writes ch at the cursor, which must be at the tail, growing the
// chain with a new extension cell when the tail is full. Go's allocator
// does not fail the way a microcontroller heap can, so the out-of-memory
// path spec.md §4.6 describes has no analogue here: Append always
// succeeds once it.cell is non-nil.
func (it *StringCursor) Append(ch byte) {
	if it.cell == nil {
		return
	}
	if it.charsInVar > 0 {
		it.charIdx++
	}
	if it.charIdx >= it.cell.MaxCharactersInVar() {
		next := it.cell.Pool().NewStringExtCell()
		it.cell.SetLastChild(next)
		it.cell.Unlock()
		it.cell = next
		it.ptr = next.Bytes()
		it.varIndex += it.charIdx
		it.charIdx = 0
	}
	it.ptr[it.charIdx] = ch
	it.charsInVar = it.charIdx + 1
	it.cell.SetCharactersInVar(it.charsInVar)
}

// AppendString appends src's bytes, from startIdx onward, one at a time.
func (it *StringCursor) AppendString(src *heap.Cell, startIdx int) {
	sit := NewStringCursor(src, startIdx)
	for sit.HasChar() {
		it.Append(sit.GetChar())
		sit.Next()
	}
	sit.Free()
}

// Clone value-copies the cursor state and acquires its own reference to the
// current cell, so the clone and the original can be freed independently.
func (it *StringCursor) Clone() *StringCursor {
	clone := *it
	if clone.cell != nil {
		clone.cell.Lock()
	}
	return &clone
}

// Free releases the cursor's reference. Idempotent: freeing twice is a
// no-op rather than a double-decrement (see SPEC_FULL.md §4 hardening
// note).
func (it *StringCursor) Free() {
	if it.cell != nil {
		it.cell.Unlock()
		it.cell = nil
	}
}

// Index returns the cursor's absolute byte position, varIndex+charIdx
// (invariant I3).
func (it *StringCursor) Index() int { return it.varIndex + it.charIdx }

// Cell exposes the cursor's current chain cell, nil at logical end. It is
// used by TypedCursor, which multiplexes a StringCursor at the byte level.
func (it *StringCursor) Cell() *heap.Cell { return it.cell }
