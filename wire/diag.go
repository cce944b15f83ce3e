package wire

import (
	"encoding/hex"
	"fmt"
	"math"
	"math/big"
	"strconv"
)

// Diagnose renders the next CBOR item in b using RFC 8949 Appendix G
// diagnostic notation and returns the remaining bytes. It does not know
// about semantic tags beyond printing "<tag>(<item>)" - tag-specific
// rendering belongs to package cbor.
func Diagnose(b []byte) (string, []byte, error) {
	bb := GetByteBuffer()
	defer PutByteBuffer(bb)
	rest, err := diagOne(bb, b, 0)
	if err != nil {
		return "", b, err
	}
	out := make([]byte, bb.Len())
	copy(out, bb.Bytes())
	return string(out), rest, nil
}

func diagOne(buf *ByteBuffer, b []byte, depth int) ([]byte, error) {
	if depth > MaxDepth {
		return b, ErrMaxDepthExceeded
	}
	major, addInfo, rest, err := ReadHeadBytes(b)
	if err != nil {
		return b, err
	}

	switch major {
	case MajorUint:
		arg, indefinite, rest, err := ReadArgBytes(rest, addInfo)
		if err != nil {
			return b, err
		}
		if indefinite {
			return b, ErrIndefiniteNotAllowed
		}
		buf.WriteString(strconv.FormatUint(arg, 10))
		return rest, nil

	case MajorNegInt:
		arg, indefinite, rest, err := ReadArgBytes(rest, addInfo)
		if err != nil {
			return b, err
		}
		if indefinite {
			return b, ErrIndefiniteNotAllowed
		}
		if arg > math.MaxInt64 {
			n := new(big.Int).SetUint64(arg)
			buf.WriteString(n.Add(n, big.NewInt(1)).Neg(n).String())
			return rest, nil
		}
		buf.WriteString(strconv.FormatInt(-1-int64(arg), 10))
		return rest, nil

	case MajorBytes:
		return diagByteString(buf, b, rest, addInfo)

	case MajorText:
		return diagTextString(buf, b, rest, addInfo)

	case MajorArray:
		return diagArray(buf, b, rest, addInfo, depth)

	case MajorMap:
		return diagMap(buf, b, rest, addInfo, depth)

	case MajorTag:
		tag, indefinite, rest, err := ReadArgBytes(rest, addInfo)
		if err != nil {
			return b, err
		}
		if indefinite {
			return b, ErrIndefiniteNotAllowed
		}
		buf.WriteString(strconv.FormatUint(tag, 10))
		buf.WriteByte('(')
		rest, err = diagOne(buf, rest, depth+1)
		if err != nil {
			return b, err
		}
		buf.WriteByte(')')
		return rest, nil

	case MajorSimple:
		return diagSimple(buf, b, rest, addInfo)
	}
	return b, Malformed("unreachable major type")
}

func diagByteString(buf *ByteBuffer, orig, rest []byte, addInfo uint8) ([]byte, error) {
	arg, indef, p, err := ReadArgBytes(rest, addInfo)
	if err != nil {
		return orig, err
	}
	if !indef {
		data, p, err := ReadRaw(p, arg)
		if err != nil {
			return orig, err
		}
		buf.WriteString("h'")
		buf.WriteString(hex.EncodeToString(data))
		buf.WriteByte('\'')
		return p, nil
	}
	buf.WriteString("(_ ")
	first := true
	for {
		if len(p) < 1 {
			return orig, ErrShortInput
		}
		if p[0] == Break {
			buf.WriteByte(')')
			return p[1:], nil
		}
		if !first {
			buf.WriteString(", ")
		}
		first = false
		chunkArg, _, chunkRest, err := ReadItemHeadBytes(p, MajorBytes)
		if err != nil {
			return orig, err
		}
		var data []byte
		data, p, err = ReadRaw(chunkRest, chunkArg)
		if err != nil {
			return orig, err
		}
		buf.WriteString("h'")
		buf.WriteString(hex.EncodeToString(data))
		buf.WriteByte('\'')
	}
}

func diagTextString(buf *ByteBuffer, orig, rest []byte, addInfo uint8) ([]byte, error) {
	arg, indef, p, err := ReadArgBytes(rest, addInfo)
	if err != nil {
		return orig, err
	}
	if !indef {
		data, p, err := ReadRaw(p, arg)
		if err != nil {
			return orig, err
		}
		buf.WriteString(strconv.Quote(string(data)))
		return p, nil
	}
	buf.WriteString("(_ ")
	first := true
	for {
		if len(p) < 1 {
			return orig, ErrShortInput
		}
		if p[0] == Break {
			buf.WriteByte(')')
			return p[1:], nil
		}
		if !first {
			buf.WriteString(", ")
		}
		first = false
		chunkArg, _, chunkRest, err := ReadItemHeadBytes(p, MajorText)
		if err != nil {
			return orig, err
		}
		var data []byte
		data, p, err = ReadRaw(chunkRest, chunkArg)
		if err != nil {
			return orig, err
		}
		buf.WriteString(strconv.Quote(string(data)))
	}
}

func diagArray(buf *ByteBuffer, orig, rest []byte, addInfo uint8, depth int) ([]byte, error) {
	arg, indef, p, err := ReadArgBytes(rest, addInfo)
	if err != nil {
		return orig, err
	}
	if indef {
		buf.WriteString("[_ ")
		first := true
		for {
			if len(p) < 1 {
				return orig, ErrShortInput
			}
			if p[0] == Break {
				buf.WriteByte(']')
				return p[1:], nil
			}
			if !first {
				buf.WriteString(", ")
			}
			first = false
			if p, err = diagOne(buf, p, depth+1); err != nil {
				return orig, err
			}
		}
	}
	buf.WriteByte('[')
	for i := uint64(0); i < arg; i++ {
		if i > 0 {
			buf.WriteString(", ")
		}
		if p, err = diagOne(buf, p, depth+1); err != nil {
			return orig, err
		}
	}
	buf.WriteByte(']')
	return p, nil
}

func diagMap(buf *ByteBuffer, orig, rest []byte, addInfo uint8, depth int) ([]byte, error) {
	arg, indef, p, err := ReadArgBytes(rest, addInfo)
	if err != nil {
		return orig, err
	}
	if indef {
		buf.WriteString("{_ ")
		first := true
		for {
			if len(p) < 1 {
				return orig, ErrShortInput
			}
			if p[0] == Break {
				buf.WriteByte('}')
				return p[1:], nil
			}
			if !first {
				buf.WriteString(", ")
			}
			first = false
			if p, err = diagOne(buf, p, depth+1); err != nil {
				return orig, err
			}
			buf.WriteString(": ")
			if p, err = diagOne(buf, p, depth+1); err != nil {
				return orig, err
			}
		}
	}
	buf.WriteByte('{')
	for i := uint64(0); i < arg; i++ {
		if i > 0 {
			buf.WriteString(", ")
		}
		if p, err = diagOne(buf, p, depth+1); err != nil {
			return orig, err
		}
		buf.WriteString(": ")
		if p, err = diagOne(buf, p, depth+1); err != nil {
			return orig, err
		}
	}
	buf.WriteByte('}')
	return p, nil
}

func diagSimple(buf *ByteBuffer, orig, rest []byte, addInfo uint8) ([]byte, error) {
	switch addInfo {
	case SimpleFalse:
		buf.WriteString("false")
		return rest, nil
	case SimpleTrue:
		buf.WriteString("true")
		return rest, nil
	case SimpleNull:
		buf.WriteString("null")
		return rest, nil
	case SimpleUndefined:
		buf.WriteString("undefined")
		return rest, nil
	case SimpleFloat16:
		data, rest, err := ReadRaw(rest, 2)
		if err != nil {
			return orig, err
		}
		f := Float16BitsToFloat32(be.Uint16(data))
		buf.WriteString(formatFloatDiag(float64(f)))
		return rest, nil
	case SimpleFloat32:
		data, rest, err := ReadRaw(rest, 4)
		if err != nil {
			return orig, err
		}
		f := math.Float32frombits(be.Uint32(data))
		buf.WriteString(formatFloatDiag(float64(f)))
		return rest, nil
	case SimpleFloat64:
		data, rest, err := ReadRaw(rest, 8)
		if err != nil {
			return orig, err
		}
		f := math.Float64frombits(be.Uint64(data))
		buf.WriteString(formatFloatDiag(f))
		return rest, nil
	case ArgUint8:
		if len(rest) < 1 {
			return orig, ErrShortInput
		}
		buf.WriteString(fmt.Sprintf("simple(%d)", rest[0]))
		return rest[1:], nil
	default:
		if addInfo < 20 {
			buf.WriteString(fmt.Sprintf("simple(%d)", addInfo))
			return rest, nil
		}
		return orig, Malformed("reserved simple-value additional info")
	}
}

func formatFloatDiag(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if math.Abs(f) >= 1e15 {
		s = strconv.FormatFloat(f, 'g', -1, 64)
	}
	return s
}
