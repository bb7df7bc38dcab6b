package heap

// Cell is one heap cell. It plays the role of Espruino's single JsVar union:
// a small fixed-shape header (Kind + refcount) plus payload fields that only
// make sense for some kinds, the same "tagged header, kind-specific payload"
// shape the teacher repo's register VM uses for its heap-allocated Object
// types (Type + Marked + Next, followed by kind-specific structs). Unlike
// that NaN-boxed register machine, cells here are reference-counted graph
// nodes, so the header carries a refcount instead of a GC mark bit.
type Cell struct {
	pool *Pool
	kind Kind
	refs int32

	// numeric payload (KindInt, KindFloat)
	ival int64
	fval float64

	// string-chain payload (KindString, KindStringExt, KindFlatString, KindNativeString)
	buf        []byte // cell-owned storage for KindString/KindStringExt
	n          int    // CharactersInVar: used length of buf/flat/native
	cap        int    // MaxCharactersInVar; meaningless for flat/native, see MaxCharactersInVar note
	flat       []byte // KindFlatString backing, read/write, contiguous
	native     []byte // KindNativeString backing, conceptually read-only
	lastChild  *Cell  // next cell in the chain; owned, single owner, not independently reffed

	// object/array/function/getter-setter payload
	name        string // this cell's key when it is a named child
	intName     int    // integer form of name, valid when hasIntName
	hasIntName  bool
	firstChild  *Cell // owned
	nextSibling *Cell // owned, next child under the same parent
	arrayLength int    // logical length for KindArray

	// typed-array view payload (KindArrayBuffer)
	typeTag    TypeTag
	backing    *Cell
	byteOffset int
	viewLength int // element count

	// function payload
	native_fn func(this *Cell, args []*Cell) (*Cell, error)
	fnName    string
}

// Pool returns the allocator this cell was created from, used by cursors
// and the walker when they need to synthesize a fresh value (e.g. boxing a
// key or a single-character string) without threading a Pool through every
// call.
func (c *Cell) Pool() *Pool { return c.pool }

// --- kind predicates (spec.md §6 "kind predicates") ---

// Kind reports a nil cell as KindInvalid, the same "undefined" reading
// every other kind predicate gives a nil receiver (spec.md §4.4's "null
// value" sentinel for a FULL-ARRAY hole).
func (c *Cell) Kind() Kind {
	if c == nil {
		return KindInvalid
	}
	return c.kind
}

func (c *Cell) IsNumeric() bool { return c != nil && (c.kind == KindInt || c.kind == KindFloat) }

func (c *Cell) IsString() bool {
	return c != nil && (c.kind == KindString || c.kind == KindStringExt ||
		c.kind == KindFlatString || c.kind == KindNativeString)
}

func (c *Cell) IsFlatString() bool { return c != nil && c.kind == KindFlatString }

func (c *Cell) IsNativeString() bool { return c != nil && c.kind == KindNativeString }

func (c *Cell) IsArrayBuffer() bool { return c != nil && c.kind == KindArrayBuffer }

func (c *Cell) IsObject() bool {
	return c != nil && (c.kind == KindObject || c.kind == KindFunction || c.kind == KindGetterSetter)
}

func (c *Cell) IsFunction() bool { return c != nil && c.kind == KindFunction }

func (c *Cell) IsGetterOrSetter() bool { return c != nil && c.kind == KindGetterSetter }

func (c *Cell) IsArray() bool { return c != nil && c.kind == KindArray }

// IsIterable reports whether the callback walker's "other iterable" branch
// (spec.md §4.5) applies: anything with a child list that isn't handled by
// the numeric/object/string/array-buffer branches first. In this port that
// is exactly KindArray.
func (c *Cell) IsIterable() bool { return c.IsArray() }

// HasCharacterData mirrors jsvHasCharacterData: true for anything a
// StringCursor can be built over.
func (c *Cell) HasCharacterData() bool { return c.IsString() }

// IsIntegerish mirrors jsvIsIntegerish: true for a child carrying an
// integer (array-style) name. The callback walker's property lookup uses it
// to skip integer-named children.
func (c *Cell) IsIntegerish() bool { return c != nil && c.hasIntName }

// --- accessors ---

func (c *Cell) GetInteger() int64 {
	if c == nil {
		return 0
	}
	switch c.kind {
	case KindInt:
		return c.ival
	case KindFloat:
		return int64(c.fval)
	default:
		return 0
	}
}

func (c *Cell) GetFloat() float64 {
	if c == nil {
		return 0
	}
	switch c.kind {
	case KindFloat:
		return c.fval
	case KindInt:
		return float64(c.ival)
	default:
		return 0
	}
}

func (c *Cell) ArrayLength() int {
	if c == nil || c.kind != KindArray {
		return 0
	}
	return c.arrayLength
}

func (c *Cell) FirstChild() *Cell { return c.firstChild }

func (c *Cell) NextSibling() *Cell { return c.nextSibling }

func (c *Cell) LastChild() *Cell { return c.lastChild }

// CharactersInVar is the used length of this cell's own character data
// (invariant I2 sums this across a chain).
func (c *Cell) CharactersInVar() int {
	switch c.kind {
	case KindFlatString:
		return len(c.flat)
	case KindNativeString:
		return len(c.native)
	default:
		return c.n
	}
}

// MaxCharactersInVar is this cell's character capacity. For flat and native
// strings this deliberately mirrors Espruino's own documented wart: it
// returns the current used length, smaller than any append target, which
// forces StringCursor.Append to allocate a real extension cell the first
// time a flat or native string chain is appended to.
func (c *Cell) MaxCharactersInVar() int {
	switch c.kind {
	case KindFlatString:
		return len(c.flat)
	case KindNativeString:
		return len(c.native)
	default:
		return c.cap
	}
}

func (c *Cell) ArrayBufferBackingString() *Cell {
	if c.kind != KindArrayBuffer {
		return nil
	}
	return c.backing
}

// FlatStringBytes returns the contiguous backing for a flat or native
// string; other string kinds return nil since their bytes live in per-cell
// buf slices instead.
func (c *Cell) FlatStringBytes() []byte {
	switch c.kind {
	case KindFlatString:
		return c.flat
	case KindNativeString:
		return c.native
	default:
		return nil
	}
}

// Bytes returns the byte slice iteration and mutation reads through for
// this specific cell, matching the three cases jsvStringIteratorNew
// distinguishes (flat, native, ordinary).
func (c *Cell) Bytes() []byte {
	switch c.kind {
	case KindFlatString:
		return c.flat
	case KindNativeString:
		return c.native
	default:
		return c.buf
	}
}

func (c *Cell) Name() string { return c.name }

func (c *Cell) IntName() (int, bool) { return c.intName, c.hasIntName }

func (c *Cell) TypeTag() TypeTag { return c.typeTag }

func (c *Cell) ByteOffset() int { return c.byteOffset }

func (c *Cell) ViewLength() int { return c.viewLength }

func (c *Cell) NativeFunc() func(this *Cell, args []*Cell) (*Cell, error) { return c.native_fn }

// --- mutators ---

func (c *Cell) SetLastChild(child *Cell) { c.lastChild = child }

func (c *Cell) SetCharactersInVar(n int) { c.n = n }

// SetArrayItem writes (or inserts) the sparse child at the given logical
// index, keeping children in ascending key order the way Espruino's object
// children list does (jsvArrayBufferIteratorNew and friends rely on that
// ordering to walk sparse arrays in a single forward pass).
func (c *Cell) SetArrayItem(index int, value *Cell) {
	if c.kind != KindArray {
		return
	}
	value.hasIntName = true
	value.intName = index
	if index >= c.arrayLength {
		c.arrayLength = index + 1
	}
	if c.firstChild == nil {
		c.firstChild = value
		value.nextSibling = nil
		return
	}
	if index < c.firstChild.intName {
		value.nextSibling = c.firstChild
		c.firstChild = value
		return
	}
	if index == c.firstChild.intName {
		value.nextSibling = c.firstChild.nextSibling
		c.firstChild = value
		return
	}
	prev := c.firstChild
	for prev.nextSibling != nil && prev.nextSibling.intName <= index {
		if prev.nextSibling.intName == index {
			value.nextSibling = prev.nextSibling.nextSibling
			prev.nextSibling = value
			return
		}
		prev = prev.nextSibling
	}
	value.nextSibling = prev.nextSibling
	prev.nextSibling = value
}

// AddNamedChild appends value as a named child of c (an object, function, or
// getter-setter cell), linking it at the tail of the existing sibling chain.
// This is construction-time heap-allocator plumbing (building the child list
// in the first place), not one of the iteration-layer mutators spec.md §6
// names (set-last-child, set-characters-in-var, set-array-item,
// set-value-of-name, remove-child all operate on an *existing* structure);
// it lives here because Pool already stands in for the allocator
// collaborator and test fixtures and cmd/heapwalk need some way to build an
// object with properties in the first place.
func (c *Cell) AddNamedChild(name string, value *Cell) {
	value.name = name
	if c.firstChild == nil {
		c.firstChild = value
		return
	}
	last := c.firstChild
	for last.nextSibling != nil {
		last = last.nextSibling
	}
	last.nextSibling = value
}

// SetValueOfName overwrites the value carried by a name cell returned from
// an object cursor. Since this port folds "name" and "value" into the same
// Cell (§3 supplemental note), this copies the scalar/string payload of
// value into the receiver in place, preserving the receiver's name and
// sibling links.
func (c *Cell) SetValueOfName(value *Cell) {
	pool, refs := c.pool, c.refs
	name, intName, hasIntName, sib := c.name, c.intName, c.hasIntName, c.nextSibling
	*c = *value
	c.pool, c.refs = pool, refs
	c.name, c.intName, c.hasIntName, c.nextSibling = name, intName, hasIntName, sib
}

// RemoveChild unlinks c from parent's child list.
func (c *Cell) RemoveChild(parent *Cell) {
	if parent.firstChild == c {
		parent.firstChild = c.nextSibling
		return
	}
	prev := parent.firstChild
	for prev != nil && prev.nextSibling != c {
		prev = prev.nextSibling
	}
	if prev != nil {
		prev.nextSibling = c.nextSibling
	}
}

// --- reference counting (spec.md §3 I5, §9) ---

// Lock acquires another counted reference to c and returns c, the Go
// analogue of jsvLockAgain.
func (c *Cell) Lock() *Cell {
	if c == nil {
		return nil
	}
	c.refs++
	return c
}

// LockSafe is Lock tolerant of a nil cell, the analogue of jsvLockSafe.
func LockSafe(c *Cell) *Cell {
	if c == nil {
		return nil
	}
	return c.Lock()
}

// Unlock releases a counted reference. Unlocking a cell with no
// outstanding references is an internal invariant violation (spec.md §7)
// rather than a runtime condition callers are expected to handle.
func (c *Cell) Unlock() {
	if c == nil {
		return
	}
	if c.refs <= 0 {
		panic("heap: Unlock of cell with no outstanding references")
	}
	c.refs--
}

// Ref reports the current reference count, exposed for tests asserting I5.
func (c *Cell) Ref() int { return int(c.refs) }
