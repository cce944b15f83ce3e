package value

// Tag is the fallback wrapper a decoder produces for a semantic tag number
// it has no typed handler for.
// Encoding a Tag re-emits it verbatim as the given tag number around the
// encoded inner value.
type Tag struct {
	Number uint64
	Value  any
}

// Simple is a CBOR simple value outside the handful with dedicated Go
// types (bool, nil, Undefined, float16/32/64). The well-formed range is
// 0..19 and 32..255; 20-23 and 24-31 are reserved for the dedicated types
// and the one-byte extension marker respectively. wire.AppendSimple does
// not validate the value; the cbor encoder refuses 24..31 with
// ErrMalformed and emits 20..23 as the corresponding simple value.
type Simple uint8
