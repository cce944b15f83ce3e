package wire

import (
	"encoding/binary"
	"math"
)

// ensure grows b so that sz more bytes can be written starting at len(b),
// and returns the grown slice along with the offset to write at.
func ensure(b []byte, sz int) ([]byte, int) {
	l := len(b)
	c := cap(b)
	if c-l < sz {
		o := make([]byte, l, (2*c)+sz)
		copy(o, b)
		b = o
	}
	return b[:l+sz], l
}

// AppendHead appends the shortest encoding of (major, arg): an immediate
// value for arg <= 23, otherwise a 1/2/4/8-byte big-endian form. This is
// the "write_head" primitive every other Append function in this package
// builds on.
func AppendHead(b []byte, major Major, arg uint64) []byte {
	switch {
	case arg <= ArgDirectMax:
		return append(b, MakeHead(major, uint8(arg)))
	case arg <= math.MaxUint8:
		o, n := ensure(b, 2)
		o[n] = MakeHead(major, ArgUint8)
		o[n+1] = uint8(arg)
		return o
	case arg <= math.MaxUint16:
		o, n := ensure(b, 3)
		o[n] = MakeHead(major, ArgUint16)
		binary.BigEndian.PutUint16(o[n+1:], uint16(arg))
		return o
	case arg <= math.MaxUint32:
		o, n := ensure(b, 5)
		o[n] = MakeHead(major, ArgUint32)
		binary.BigEndian.PutUint32(o[n+1:], uint32(arg))
		return o
	default:
		o, n := ensure(b, 9)
		o[n] = MakeHead(major, ArgUint64)
		binary.BigEndian.PutUint64(o[n+1:], arg)
		return o
	}
}

// AppendIndefiniteHead appends the indefinite-length head for major types
// that support it (bytes, text, array, map).
func AppendIndefiniteHead(b []byte, major Major) []byte {
	return append(b, MakeHead(major, ArgIndefinite))
}

// AppendBreak appends the break sentinel that closes an indefinite-length item.
func AppendBreak(b []byte) []byte { return append(b, Break) }

// AppendUint appends a non-negative integer as major type 0.
func AppendUint(b []byte, v uint64) []byte { return AppendHead(b, MajorUint, v) }

// AppendNegInt appends a negative integer (v must be < 0) as major type 1,
// per RFC 8949's "-1 - argument" convention.
func AppendNegInt(b []byte, v int64) []byte {
	return AppendHead(b, MajorNegInt, uint64(-1-v))
}

// AppendNegIntArg appends a major type 1 head directly from its already-
// computed argument (i.e. -1-v), for negative values outside int64's range
// that are still natively representable in a single 8-byte head: the full
// major-1 argument space covers v in [-2^64, -1].
func AppendNegIntArg(b []byte, arg uint64) []byte {
	return AppendHead(b, MajorNegInt, arg)
}

// AppendInt appends a signed integer, choosing major 0 or 1 as needed.
func AppendInt(b []byte, v int64) []byte {
	if v >= 0 {
		return AppendUint(b, uint64(v))
	}
	return AppendNegInt(b, v)
}

// AppendBytesHead appends a byte-string head of the given length.
func AppendBytesHead(b []byte, n int) []byte { return AppendHead(b, MajorBytes, uint64(n)) }

// AppendBytes appends a complete definite-length byte string.
func AppendBytes(b []byte, data []byte) []byte {
	b = AppendBytesHead(b, len(data))
	return append(b, data...)
}

// AppendTextHead appends a text-string head of the given UTF-8 byte length.
func AppendTextHead(b []byte, n int) []byte { return AppendHead(b, MajorText, uint64(n)) }

// AppendText appends a complete definite-length text string.
func AppendText(b []byte, s string) []byte {
	b = AppendTextHead(b, len(s))
	return append(b, s...)
}

// AppendArrayHead appends an array head with the given element count.
func AppendArrayHead(b []byte, n int) []byte { return AppendHead(b, MajorArray, uint64(n)) }

// AppendMapHead appends a map head with the given pair count.
func AppendMapHead(b []byte, n int) []byte { return AppendHead(b, MajorMap, uint64(n)) }

// AppendTagHead appends a semantic-tag head.
func AppendTagHead(b []byte, tag uint64) []byte { return AppendHead(b, MajorTag, tag) }

// AppendSimple appends a simple value in 0..255. Values 0..23 are encoded
// directly; values 24..255 use the one-byte-argument form. Callers are
// responsible for refusing the reserved range 24..31.
func AppendSimple(b []byte, v uint8) []byte {
	if v <= ArgDirectMax {
		return append(b, MakeHead(MajorSimple, v))
	}
	return append(b, MakeHead(MajorSimple, ArgUint8), v)
}

// AppendBool appends the false/true simple values.
func AppendBool(b []byte, v bool) []byte {
	if v {
		return append(b, MakeHead(MajorSimple, SimpleTrue))
	}
	return append(b, MakeHead(MajorSimple, SimpleFalse))
}

// AppendNull appends the null simple value.
func AppendNull(b []byte) []byte { return append(b, MakeHead(MajorSimple, SimpleNull)) }

// AppendUndefined appends the undefined simple value.
func AppendUndefined(b []byte) []byte { return append(b, MakeHead(MajorSimple, SimpleUndefined)) }

// AppendFloat16 appends bits, an IEEE 754 binary16 bit pattern, as a
// half-precision float.
func AppendFloat16(b []byte, bits uint16) []byte {
	o, n := ensure(b, 3)
	o[n] = MakeHead(MajorSimple, SimpleFloat16)
	binary.BigEndian.PutUint16(o[n+1:], bits)
	return o
}

// AppendFloat32 appends f as an IEEE 754 binary32 value.
func AppendFloat32(b []byte, f float32) []byte {
	o, n := ensure(b, 5)
	o[n] = MakeHead(MajorSimple, SimpleFloat32)
	binary.BigEndian.PutUint32(o[n+1:], math.Float32bits(f))
	return o
}

// AppendFloat64 appends f as an IEEE 754 binary64 value.
func AppendFloat64(b []byte, f float64) []byte {
	o, n := ensure(b, 9)
	o[n] = MakeHead(MajorSimple, SimpleFloat64)
	binary.BigEndian.PutUint64(o[n+1:], math.Float64bits(f))
	return o
}

// AppendFloatMinimal appends f using the narrowest of float16/32/64 that
// preserves its value exactly, per the canonical-encoding float rule.
// NaN is always normalized to the canonical half-precision payload 0x7e00,
// and +/-Inf to 0x7c00/0xfc00.
func AppendFloatMinimal(b []byte, f float64) []byte {
	if math.IsNaN(f) {
		return AppendFloat16(b, 0x7e00)
	}
	if math.IsInf(f, 1) {
		return AppendFloat16(b, 0x7c00)
	}
	if math.IsInf(f, -1) {
		return AppendFloat16(b, 0xfc00)
	}
	f32 := float32(f)
	if float64(f32) == f {
		if bits16 := Float32ToFloat16Bits(f32); Float16BitsToFloat32(bits16) == f32 {
			return AppendFloat16(b, bits16)
		}
		return AppendFloat32(b, f32)
	}
	return AppendFloat64(b, f)
}
