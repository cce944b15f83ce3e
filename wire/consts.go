// Package wire implements the low-level CBOR (RFC 7049 / RFC 8949) framing
// layer: decomposing and assembling the "initial byte + argument" head that
// precedes every CBOR data item, and the byte-level primitives the encoder
// and decoder build on. It knows nothing about semantic tags or the
// in-memory value domain - that lives in package value and package cbor.
package wire

import "math"

const (
	float16ExpBits  = 5
	float16MantBits = 10

	float32ExpBits  = 8
	float32MantBits = 23

	float16SignShift        = float16ExpBits + float16MantBits
	float16ExpShift         = float16MantBits
	float16ExpMask   uint16 = math.MaxUint16 >> (16 - float16ExpBits)
	float16MantMask  uint16 = math.MaxUint16 >> (16 - float16MantBits)
	float16ExpBias          = int(float16ExpMask >> 1)

	float32SignShift        = float32ExpBits + float32MantBits
	float32ExpShift         = float32MantBits
	float32ExpMask   uint32 = math.MaxUint8
	float32MantMask  uint32 = math.MaxUint32 >> (32 - float32MantBits)
	float32ExpBias          = int(float32ExpMask >> 1)
	float32HiddenBit uint32 = float32MantMask + 1

	float32ToFloat16MantShift  = float32MantBits - float16MantBits
	float32ToFloat16RoundShift = float32ToFloat16MantShift - 1
)

// Major is a CBOR major type (the top 3 bits of the initial byte).
type Major uint8

// CBOR major types, per RFC 8949 section 3.
const (
	MajorUint   Major = 0 // unsigned integer
	MajorNegInt Major = 1 // negative integer
	MajorBytes  Major = 2 // byte string
	MajorText   Major = 3 // text string (UTF-8)
	MajorArray  Major = 4 // array
	MajorMap    Major = 5 // map
	MajorTag    Major = 6 // semantic tag
	MajorSimple Major = 7 // floats, simple values, break
)

// Additional-info values (the low 5 bits of the initial byte).
const (
	ArgDirectMax  = 23 // 0..23 encode the argument immediately
	ArgUint8      = 24 // 1-byte argument follows
	ArgUint16     = 25 // 2-byte argument follows
	ArgUint32     = 26 // 4-byte argument follows
	ArgUint64     = 27 // 8-byte argument follows
	ArgIndefinite = 31 // indefinite-length (bytes/text/array/map only)
)

// Simple values under major type 7.
const (
	SimpleFalse     = 20
	SimpleTrue      = 21
	SimpleNull      = 22
	SimpleUndefined = 23
	SimpleFloat16   = 25
	SimpleFloat32   = 26
	SimpleFloat64   = 27
	SimpleBreak     = 31
)

// Break is the one-byte sentinel (major 7, subtype 31) that terminates an
// indefinite-length byte string, text string, array, or map.
const Break byte = 0xFF

// MakeHead assembles a CBOR initial byte from a major type and additional info.
func MakeHead(major Major, addInfo uint8) byte {
	return byte(uint8(major)<<5 | (addInfo & 0x1F))
}

// SplitHead decomposes a CBOR initial byte into its major type and additional info.
func SplitHead(b byte) (Major, uint8) {
	return Major(b >> 5), b & 0x1F
}
