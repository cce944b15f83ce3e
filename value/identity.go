package value

// Identity returns a stable, comparable token for v's object identity, or
// ok=false if v is not a container type the encoder can share. Only the
// pointer container types - *Array, *Map, *Set - participate in sharing; value
// types (integers, strings, bools) are never shared because re-encoding
// them is cheaper than a reference.
func Identity(v any) (token any, ok bool) {
	switch t := v.(type) {
	case *Array:
		return t, true
	case *Map:
		return t, true
	case *Set:
		return t, true
	default:
		return nil, false
	}
}
