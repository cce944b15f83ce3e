package value

// Array is an ordered sequence of values. It is a pointer-identity type
// (like Map and Set) rather than a bare []any so that the encoder's sharing
// table can key off a value's identity:
// two Arrays are the same shareable object only if they are the same *Array.
type Array struct {
	Items  []any
	frozen bool
}

// NewArray returns an Array wrapping items directly (no copy).
func NewArray(items []any) *Array {
	return &Array{Items: items}
}

// NewArrayCap returns an empty Array with capacity for n items.
func NewArrayCap(n int) *Array {
	return &Array{Items: make([]any, 0, n)}
}

// Append appends v. It panics if the Array is frozen.
func (a *Array) Append(v any) {
	if a.frozen {
		panic("value: Append on a frozen Array")
	}
	a.Items = append(a.Items, v)
}

// Len returns the number of items.
func (a *Array) Len() int { return len(a.Items) }

// Freeze marks the Array immutable, as the decoder does for sequences
// decoded with immutable=true.
func (a *Array) Freeze() { a.frozen = true }

// Frozen reports whether Freeze has been called.
func (a *Array) Frozen() bool { return a.frozen }
