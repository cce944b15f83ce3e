// Package value defines the in-memory value domain the codec core is
// polymorphic over: the fixed sum of CBOR-native kinds
// (integers via Go's own int64/uint64/*big.Int, byte/text strings, arrays,
// the ordered Map and Set types below, booleans, nil, Undefined, floats,
// Simple values, and Tag wrappers) plus the capability types layered on top
// by the well-known semantic tags (time.Time, Date, *big.Rat, *apd.Decimal,
// BigFloat, *regexp.Regexp, MIMEMessage, uuid.UUID, net.IP, *net.IPNet).
//
// Host values travel through the encoder and decoder as `any`; package cbor
// dispatches on the concrete type the same way encoding/json dispatches on
// reflect.Kind, but keyed directly off type identity per its handler
// registry.
package value

// Undefined is the CBOR "undefined" value (simple value 23), distinct from
// nil (which represents CBOR null). It is a comparable zero-size type so it
// can be used as a map value and compared with ==.
type Undefined struct{}

// IsUndefined reports whether v is the Undefined sentinel.
func IsUndefined(v any) bool {
	_, ok := v.(Undefined)
	return ok
}
