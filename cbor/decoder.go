package cbor

import (
	"encoding/binary"
	"io"
	"math"
	"math/big"
	"strings"
	"unicode/utf8"

	"github.com/ionbridge/cborcore/value"
	"github.com/ionbridge/cborcore/wire"
)

var bigOne = big.NewInt(1)

// noShareSlot marks a decode call whose result is not being installed into
// any shareables slot.
const noShareSlot = -1

// sharePlaceholder occupies a shareables slot between its allocation on tag
// 28 and the moment the value it stands for is fully constructed.
type sharePlaceholder struct{}

// Decoder reconstructs values from a CBOR byte stream. It is not safe for
// concurrent use.
type Decoder struct {
	r   *wire.Reader
	buf []byte
	pos bool // true once buf has been read from the stream at least once

	opts DecOptions

	shareables []any
	depth      int
}

// NewDecoder returns a Decoder that reads from r.
func NewDecoder(r io.Reader, opts DecOptions) *Decoder {
	return &Decoder{r: wire.NewReader(r), opts: opts}
}

// Unmarshal decodes a single top-level value from b. It fails if b has
// trailing bytes after that value.
func Unmarshal(b []byte, opts DecOptions) (any, error) {
	d := &Decoder{opts: opts}
	v, rest, err := d.decode(b, false, noShareSlot)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, malformed("trailing bytes after top-level value")
	}
	return v, nil
}

// Decode reads and reconstructs the next top-level value. Each call leaves
// the decoder's sharing state reset, matching the encoder's IDLE discipline.
func (d *Decoder) Decode() (any, error) {
	if !d.pos {
		data, err := d.r.ReadAll()
		if err != nil {
			return nil, err
		}
		d.buf = data
		d.pos = true
	}
	d.shareables = nil
	d.depth = 0
	v, rest, err := d.decode(d.buf, false, noShareSlot)
	if err != nil {
		return nil, err
	}
	d.buf = rest
	return v, nil
}

func (d *Decoder) installShared(slot int, v any) {
	if slot == noShareSlot {
		return
	}
	d.shareables[slot] = v
}

// decode reads one CBOR item from b. immutable forces sequences to decode
// as frozen and sets to decode as frozen.
// sharedSlot, when not noShareSlot, names the shareables index that a
// container decoder should install itself into before populating its body.
func (d *Decoder) decode(b []byte, immutable bool, sharedSlot int) (any, []byte, error) {
	d.depth++
	if d.depth > d.opts.recursionLimit() {
		d.depth--
		return nil, b, ErrRecursionLimit{}
	}
	defer func() { d.depth-- }()

	major, addInfo, rest, err := wire.ReadHeadBytes(b)
	if err != nil {
		return nil, b, wrapWireErr(err)
	}

	switch major {
	case wire.MajorUint:
		arg, indefinite, rest2, err := wire.ReadArgBytes(rest, addInfo)
		if err != nil {
			return nil, b, wrapWireErr(err)
		}
		if indefinite {
			return nil, b, malformed("additional-info 31 is not valid for major type 0")
		}
		if arg <= math.MaxInt64 {
			return int64(arg), rest2, nil
		}
		return arg, rest2, nil

	case wire.MajorNegInt:
		arg, indefinite, rest2, err := wire.ReadArgBytes(rest, addInfo)
		if err != nil {
			return nil, b, wrapWireErr(err)
		}
		if indefinite {
			return nil, b, malformed("additional-info 31 is not valid for major type 1")
		}
		if arg <= math.MaxInt64 {
			return -1 - int64(arg), rest2, nil
		}
		mag := new(big.Int).SetUint64(arg)
		mag.Add(mag, bigOne)
		mag.Neg(mag)
		return mag, rest2, nil

	case wire.MajorBytes:
		return d.decodeByteString(addInfo, rest, b)

	case wire.MajorText:
		return d.decodeTextString(addInfo, rest, b)

	case wire.MajorArray:
		return d.decodeArrayMajor(addInfo, rest, b, immutable, sharedSlot)

	case wire.MajorMap:
		return d.decodeMapMajor(addInfo, rest, b, sharedSlot)

	case wire.MajorTag:
		return d.decodeTag(addInfo, rest, b, immutable, sharedSlot)

	case wire.MajorSimple:
		return d.decodeSimple(addInfo, rest, b)
	}

	return nil, b, malformed("unreachable major type")
}

func (d *Decoder) decodeByteString(addInfo uint8, rest, orig []byte) (any, []byte, error) {
	arg, indefinite, rest2, err := wire.ReadArgBytes(rest, addInfo)
	if err != nil {
		return nil, orig, wrapWireErr(err)
	}
	if !indefinite {
		data, rest3, err := wire.ReadRaw(rest2, arg)
		if err != nil {
			return nil, orig, ErrUnexpectedEOF{}
		}
		out := make([]byte, len(data))
		copy(out, data)
		return out, rest3, nil
	}
	var buf []byte
	b := rest2
	for {
		if len(b) < 1 {
			return nil, orig, ErrUnexpectedEOF{}
		}
		if b[0] == wire.Break {
			return buf, b[1:], nil
		}
		chunkMajor, chunkAdd, chunkRest, err := wire.ReadHeadBytes(b)
		if err != nil {
			return nil, orig, wrapWireErr(err)
		}
		if chunkMajor != wire.MajorBytes || chunkAdd == wire.ArgIndefinite {
			return nil, orig, malformed("indefinite byte string chunk must be a definite-length byte string")
		}
		n, _, chunkRest2, err := wire.ReadArgBytes(chunkRest, chunkAdd)
		if err != nil {
			return nil, orig, wrapWireErr(err)
		}
		data, rest3, err := wire.ReadRaw(chunkRest2, n)
		if err != nil {
			return nil, orig, ErrUnexpectedEOF{}
		}
		buf = append(buf, data...)
		b = rest3
	}
}

func (d *Decoder) decodeTextString(addInfo uint8, rest, orig []byte) (any, []byte, error) {
	arg, indefinite, rest2, err := wire.ReadArgBytes(rest, addInfo)
	if err != nil {
		return nil, orig, wrapWireErr(err)
	}
	if !indefinite {
		data, rest3, err := wire.ReadRaw(rest2, arg)
		if err != nil {
			return nil, orig, ErrUnexpectedEOF{}
		}
		s, err := d.decodeUTF8(data)
		if err != nil {
			return nil, orig, err
		}
		return s, rest3, nil
	}
	var buf []byte
	b := rest2
	for {
		if len(b) < 1 {
			return nil, orig, ErrUnexpectedEOF{}
		}
		if b[0] == wire.Break {
			s, err := d.decodeUTF8(buf)
			if err != nil {
				return nil, orig, err
			}
			return s, b[1:], nil
		}
		chunkMajor, chunkAdd, chunkRest, err := wire.ReadHeadBytes(b)
		if err != nil {
			return nil, orig, wrapWireErr(err)
		}
		if chunkMajor != wire.MajorText || chunkAdd == wire.ArgIndefinite {
			return nil, orig, malformed("indefinite text string chunk must be a definite-length text string")
		}
		n, _, chunkRest2, err := wire.ReadArgBytes(chunkRest, chunkAdd)
		if err != nil {
			return nil, orig, wrapWireErr(err)
		}
		data, rest3, err := wire.ReadRaw(chunkRest2, n)
		if err != nil {
			return nil, orig, ErrUnexpectedEOF{}
		}
		s, err := d.decodeUTF8(data)
		if err != nil {
			return nil, orig, err
		}
		buf = append(buf, s...)
		b = rest3
	}
}

// decodeUTF8 applies the configured str_errors policy to data.
func (d *Decoder) decodeUTF8(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	if d.opts.StrErrors == StrErrorsReplace {
		return strings.ToValidUTF8(string(data), "�"), nil
	}
	return "", malformed("invalid UTF-8 in text string")
}

func (d *Decoder) decodeArrayMajor(addInfo uint8, rest, orig []byte, immutable bool, sharedSlot int) (any, []byte, error) {
	arg, indefinite, rest2, err := wire.ReadArgBytes(rest, addInfo)
	if err != nil {
		return nil, orig, wrapWireErr(err)
	}
	if immutable {
		items, restOut, err := d.decodeArrayItems(arg, indefinite, rest2)
		if err != nil {
			return nil, orig, err
		}
		arr := value.NewArray(items)
		arr.Freeze()
		d.installShared(sharedSlot, arr)
		return arr, restOut, nil
	}
	arr := value.NewArray(nil)
	d.installShared(sharedSlot, arr)
	restOut, err := d.fillArray(arr, arg, indefinite, rest2)
	if err != nil {
		return nil, orig, err
	}
	return arr, restOut, nil
}

func (d *Decoder) fillArray(arr *value.Array, arg uint64, indefinite bool, b []byte) ([]byte, error) {
	if indefinite {
		for {
			if len(b) < 1 {
				return b, ErrUnexpectedEOF{}
			}
			if b[0] == wire.Break {
				return b[1:], nil
			}
			v, rest, err := d.decode(b, false, noShareSlot)
			if err != nil {
				return b, err
			}
			arr.Append(v)
			b = rest
		}
	}
	for i := uint64(0); i < arg; i++ {
		v, rest, err := d.decode(b, false, noShareSlot)
		if err != nil {
			return b, err
		}
		arr.Append(v)
		b = rest
	}
	return b, nil
}

func (d *Decoder) decodeArrayItems(arg uint64, indefinite bool, b []byte) ([]any, []byte, error) {
	var items []any
	if !indefinite {
		items = make([]any, 0, arg)
		for i := uint64(0); i < arg; i++ {
			v, rest, err := d.decode(b, false, noShareSlot)
			if err != nil {
				return nil, b, err
			}
			items = append(items, v)
			b = rest
		}
		return items, b, nil
	}
	for {
		if len(b) < 1 {
			return nil, b, ErrUnexpectedEOF{}
		}
		if b[0] == wire.Break {
			return items, b[1:], nil
		}
		v, rest, err := d.decode(b, false, noShareSlot)
		if err != nil {
			return nil, b, err
		}
		items = append(items, v)
		b = rest
	}
}

func (d *Decoder) decodeMapMajor(addInfo uint8, rest, orig []byte, sharedSlot int) (any, []byte, error) {
	arg, indefinite, rest2, err := wire.ReadArgBytes(rest, addInfo)
	if err != nil {
		return nil, orig, wrapWireErr(err)
	}
	m := value.NewMap()
	d.installShared(sharedSlot, m)
	restOut, err := d.fillMap(m, arg, indefinite, rest2)
	if err != nil {
		return nil, orig, err
	}
	if d.opts.ObjectHook != nil {
		v, herr := d.opts.ObjectHook(d, m)
		if herr != nil {
			return nil, orig, herr
		}
		return v, restOut, nil
	}
	return m, restOut, nil
}

func (d *Decoder) fillMap(m *value.Map, arg uint64, indefinite bool, b []byte) ([]byte, error) {
	if indefinite {
		for {
			if len(b) < 1 {
				return b, ErrUnexpectedEOF{}
			}
			if b[0] == wire.Break {
				return b[1:], nil
			}
			k, rest, err := d.decode(b, true, noShareSlot)
			if err != nil {
				return b, err
			}
			if !isHashableKey(k) {
				return b, malformed("map key type is not hashable")
			}
			v, rest2, err := d.decode(rest, false, noShareSlot)
			if err != nil {
				return b, err
			}
			m.Set(k, v)
			b = rest2
		}
	}
	for i := uint64(0); i < arg; i++ {
		k, rest, err := d.decode(b, true, noShareSlot)
		if err != nil {
			return b, err
		}
		if !isHashableKey(k) {
			return b, malformed("map key type is not hashable")
		}
		v, rest2, err := d.decode(rest, false, noShareSlot)
		if err != nil {
			return b, err
		}
		m.Set(k, v)
		b = rest2
	}
	return b, nil
}

// isHashableKey reports whether v can safely be used as a value.Map key or
// value.Set member without the runtime panicking on an uncomparable dynamic
// type - chiefly CBOR byte strings, which decode to []byte.
func isHashableKey(v any) bool {
	switch t := v.(type) {
	case []byte:
		return false
	case value.Tag:
		return isHashableKey(t.Value)
	default:
		return true
	}
}

func (d *Decoder) decodeSimple(addInfo uint8, rest, orig []byte) (any, []byte, error) {
	switch addInfo {
	case wire.SimpleFalse:
		return false, rest, nil
	case wire.SimpleTrue:
		return true, rest, nil
	case wire.SimpleNull:
		return nil, rest, nil
	case wire.SimpleUndefined:
		return value.Undefined{}, rest, nil
	case wire.ArgUint8:
		if len(rest) < 1 {
			return nil, orig, ErrUnexpectedEOF{}
		}
		v := rest[0]
		if v < 32 {
			return nil, orig, malformed("one-byte simple value extension must encode a value >= 32")
		}
		return value.Simple(v), rest[1:], nil
	case wire.SimpleFloat16:
		if len(rest) < 2 {
			return nil, orig, ErrUnexpectedEOF{}
		}
		bits := binary.BigEndian.Uint16(rest)
		return float64(wire.Float16BitsToFloat32(bits)), rest[2:], nil
	case wire.SimpleFloat32:
		if len(rest) < 4 {
			return nil, orig, ErrUnexpectedEOF{}
		}
		bits := binary.BigEndian.Uint32(rest)
		return float64(math.Float32frombits(bits)), rest[4:], nil
	case wire.SimpleFloat64:
		if len(rest) < 8 {
			return nil, orig, ErrUnexpectedEOF{}
		}
		bits := binary.BigEndian.Uint64(rest)
		return math.Float64frombits(bits), rest[8:], nil
	case wire.ArgIndefinite:
		return nil, orig, malformed("break encountered outside an open indefinite-length frame")
	default:
		if addInfo <= 19 {
			return value.Simple(addInfo), rest, nil
		}
		return nil, orig, malformed("reserved additional-info value under major type 7")
	}
}

func wrapWireErr(err error) error {
	switch err {
	case wire.ErrShortInput:
		return ErrUnexpectedEOF{}
	case wire.ErrReservedAddInfo:
		return malformed("reserved additional-info value")
	}
	return err
}
