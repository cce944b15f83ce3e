package value

// Map is an ordered key/value mapping: insertion order is preserved on
// decode, and the encoder's canonical mode re-sorts a copy
// for output without disturbing the original. Keys are compared with ==, so
// only comparable CBOR values (integers, strings, bools, floats, Simple,
// Tag of comparable inner values) may be used as keys - the same
// restriction Go itself places on map keys.
type Map struct {
	keys   []any
	values map[any]any
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{values: make(map[any]any)}
}

// NewMapCap returns an empty Map pre-sized for n entries.
func NewMapCap(n int) *Map {
	return &Map{keys: make([]any, 0, n), values: make(map[any]any, n)}
}

// Set inserts or updates the value for key, preserving the key's original
// position if it already existed.
func (m *Map) Set(key, val any) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = val
}

// Get returns the value for key and whether it was present.
func (m *Map) Get(key any) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.keys) }

// Keys returns the keys in insertion order. The returned slice must not be modified.
func (m *Map) Keys() []any { return m.keys }

// Range calls fn for each entry in insertion order, stopping early if fn
// returns false.
func (m *Map) Range(fn func(key, val any) bool) {
	for _, k := range m.keys {
		if !fn(k, m.values[k]) {
			return
		}
	}
}
