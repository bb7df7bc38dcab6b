package heap

// Pool is the heap cell allocator. spec.md §1 names the heap cell allocator
// and the reference-count discipline as collaborators external to the
// iteration layer; Pool is the minimal stand-in needed to make the
// iteration layer independently constructible and testable. It is
// deliberately not a bump/slab allocator or a fixed-size arena the way a
// microcontroller build of Espruino needs — Go's runtime already owns
// memory management for the *Cell graph, so Pool only hands out
// correctly-shaped, correctly-refcounted cells and tracks the two
// chain-cell capacities invariant I1 talks about.
type Pool struct {
	// RootCap and ExtCap are the character capacities new root and
	// extension string cells get. Espruino's extension cells are larger
	// than root cells because a root cell's header competes for space
	// with other JsVar fields the root kind needs; this port keeps the
	// same asymmetry for fidelity even though Go cells don't share a
	// union, since StringCursor/Append's "extension cells may hold more"
	// behavior (spec.md §3) is part of what's under test.
	RootCap int
	ExtCap  int
}

// NewPool creates a pool with Espruino-like default capacities.
func NewPool() *Pool {
	return &Pool{RootCap: 8, ExtCap: 16}
}

func (p *Pool) newCell(kind Kind) *Cell {
	return &Cell{pool: p, kind: kind, refs: 1}
}

// NewCell allocates a bare cell of the given kind with one outstanding
// reference (the one returned to the caller), matching jsvNewWithFlags.
func (p *Pool) NewCell(kind Kind) *Cell { return p.newCell(kind) }

func (p *Pool) NewInt(v int64) *Cell {
	c := p.newCell(KindInt)
	c.ival = v
	return c
}

func (p *Pool) NewFloat(v float64) *Cell {
	c := p.newCell(KindFloat)
	c.fval = v
	return c
}

// newStringExt allocates a fresh continuation cell. Extension cells are
// never independently reference-counted beyond their creation ref (spec.md
// §3: "not reference-counted independently") because they have exactly one
// owner, the preceding cell's lastChild link.
func (p *Pool) newStringExt(extCap int) *Cell {
	c := p.newCell(KindStringExt)
	c.buf = make([]byte, extCap)
	c.cap = extCap
	return c
}

// NewStringExtCell allocates a single extension cell at the pool's default
// extension capacity. StringCursor.Append uses this to grow a chain past
// its current tail, the Go port of jsvNewWithFlags(JSV_STRING_EXT_0).
func (p *Pool) NewStringExtCell() *Cell { return p.newStringExt(p.ExtCap) }

// NewStringFromBytes builds a string chain holding data, split across
// root/extension cells at the pool's configured capacities (invariant I1:
// every non-tail cell is exactly full).
func (p *Pool) NewStringFromBytes(data []byte) *Cell {
	return p.newStringFromBytes(data, p.RootCap, p.ExtCap)
}

// NewStringFromBytesWithCapacity is NewStringFromBytes with explicit
// per-chain capacities, used by tests that need a deterministic cell
// layout (e.g. the capacity-4 cells the string-cursor tests build).
func (p *Pool) NewStringFromBytesWithCapacity(data []byte, rootCap, extCap int) *Cell {
	return p.newStringFromBytes(data, rootCap, extCap)
}

func (p *Pool) newStringFromBytes(data []byte, rootCap, extCap int) *Cell {
	root := p.newCell(KindString)
	root.buf = make([]byte, rootCap)
	root.cap = rootCap
	cur := root
	for len(data) > 0 {
		n := copy(cur.buf, data)
		cur.n = n
		data = data[n:]
		if len(data) == 0 {
			break
		}
		next := p.newStringExt(extCap)
		cur.lastChild = next
		cur = next
	}
	return root
}

// NewFlatString wraps an existing contiguous byte slice as a flat string
// cell; the bytes are shared, not copied, matching jsvNewFlatStringOfLength
// semantics of owning a single contiguous allocation.
func (p *Pool) NewFlatString(data []byte) *Cell {
	c := p.newCell(KindFlatString)
	c.flat = data
	return c
}

// NewNativeString wraps externally-owned bytes as a read-only string cell.
func (p *Pool) NewNativeString(data []byte) *Cell {
	c := p.newCell(KindNativeString)
	c.native = data
	return c
}

func (p *Pool) NewObject() *Cell { return p.newCell(KindObject) }

func (p *Pool) NewFunction(name string) *Cell {
	c := p.newCell(KindFunction)
	c.fnName = name
	return c
}

// NewNativeFunction wraps a Go closure as a callable function cell. This is
// the adapted analogue of the teacher register VM's NativeFnObj, whose
// payload is likewise a plain `func([]Value) (Value, error)` — the teacher
// repo's pattern for a host function that has no bytecode body.
func (p *Pool) NewNativeFunction(name string, fn func(this *Cell, args []*Cell) (*Cell, error)) *Cell {
	c := p.NewFunction(name)
	c.native_fn = fn
	return c
}

func (p *Pool) NewGetterSetter() *Cell { return p.newCell(KindGetterSetter) }

func (p *Pool) NewArray() *Cell { return p.newCell(KindArray) }

// NewArrayBufferView creates a typed-array view of tag over backing,
// starting byteOffset bytes in and spanning length elements.
func (p *Pool) NewArrayBufferView(tag TypeTag, backing *Cell, byteOffset, length int) *Cell {
	c := p.newCell(KindArrayBuffer)
	c.typeTag = tag
	c.backing = backing.Lock()
	c.byteOffset = byteOffset
	c.viewLength = length
	return c
}
