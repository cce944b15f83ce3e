package cbor

import (
	"io"
	"math"
	"math/big"
	"net"
	"reflect"
	"regexp"
	"sort"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/google/uuid"

	"github.com/ionbridge/cborcore/value"
	"github.com/ionbridge/cborcore/wire"
)

const (
	tagDateTimeText = 0
	tagDateTimeNum  = 1
	tagPosBignum    = 2
	tagNegBignum    = 3
	tagDecimalFrac  = 4
	tagBigfloat     = 5
	tagShareable    = 28
	tagSharedRef    = 29
	tagRational     = 30
	tagRegexp       = 35
	tagMIME         = 36
	tagUUID         = 37
	tagSet          = 258
	tagIPAddress    = 260
	tagIPNetwork    = 261
)

// inProgress marks a shareTable entry for a value currently being encoded
// with sharing disabled: present means "re-entrant", absent means "not yet
// seen". It is distinct from any real shared index (which is >= 0).
const inProgress = -1

// Encoder traverses a value graph and writes its CBOR encoding. It is not
// safe for concurrent use; each top-level Encode call leaves the encoder in
// the same IDLE state it started in.
type Encoder struct {
	w    *wire.Writer
	buf  []byte
	opts EncOptions

	registry *Registry

	shareTable map[any]int
	shareNext  int

	depth int
}

// NewEncoder returns an Encoder that writes to w.
func NewEncoder(w io.Writer, opts EncOptions) *Encoder {
	return &Encoder{
		w:          wire.NewWriter(w),
		opts:       opts,
		registry:   NewRegistry(),
		shareTable: make(map[any]int),
	}
}

// Registry exposes the encoder's handler registry so callers can register
// exact or deferred handlers before encoding.
func (e *Encoder) Registry() *Registry { return e.registry }

// Marshal encodes v and returns the bytes directly, without requiring an
// io.Writer.
func Marshal(v any, opts EncOptions) ([]byte, error) {
	e := &Encoder{opts: opts, registry: NewRegistry(), shareTable: make(map[any]int)}
	if err := e.encodeTop(v); err != nil {
		return nil, err
	}
	out := make([]byte, len(e.buf))
	copy(out, e.buf)
	return out, nil
}

// Encode writes v's CBOR encoding to the underlying writer.
func (e *Encoder) Encode(v any) error {
	if err := e.encodeTop(v); err != nil {
		return err
	}
	if e.w != nil {
		return e.w.WriteBytes(e.buf)
	}
	return nil
}

func (e *Encoder) encodeTop(v any) error {
	e.buf = e.buf[:0]
	e.shareTable = make(map[any]int)
	e.shareNext = 0
	e.depth = 0
	err := e.encodeValue(v)
	// IDLE regardless of outcome: a failed top-level encode leaves no
	// residual sharing state behind.
	e.shareTable = make(map[any]int)
	e.shareNext = 0
	return err
}

// EncodeValue appends v's encoding to the in-progress buffer. Handlers
// registered in the Registry, and the default handler, call back into this
// method for nested values so recursion and sharing bookkeeping stays
// correct.
func (e *Encoder) EncodeValue(v any) error { return e.encodeValue(v) }

func (e *Encoder) encodeValue(v any) error {
	e.depth++
	if e.depth > e.opts.recursionLimit() {
		e.depth--
		return ErrRecursionLimit{}
	}
	defer func() { e.depth-- }()

	switch t := v.(type) {
	case nil:
		e.buf = wire.AppendNull(e.buf)
		return nil
	case value.Undefined:
		e.buf = wire.AppendUndefined(e.buf)
		return nil
	case bool:
		e.buf = wire.AppendBool(e.buf, t)
		return nil
	case string:
		e.buf = wire.AppendText(e.buf, t)
		return nil
	case []byte:
		e.buf = wire.AppendBytes(e.buf, t)
		return nil
	case int:
		e.buf = wire.AppendInt(e.buf, int64(t))
		return nil
	case int8:
		e.buf = wire.AppendInt(e.buf, int64(t))
		return nil
	case int16:
		e.buf = wire.AppendInt(e.buf, int64(t))
		return nil
	case int32:
		e.buf = wire.AppendInt(e.buf, int64(t))
		return nil
	case int64:
		e.buf = wire.AppendInt(e.buf, t)
		return nil
	case uint:
		e.buf = wire.AppendUint(e.buf, uint64(t))
		return nil
	case uint8:
		e.buf = wire.AppendUint(e.buf, uint64(t))
		return nil
	case uint16:
		e.buf = wire.AppendUint(e.buf, uint64(t))
		return nil
	case uint32:
		e.buf = wire.AppendUint(e.buf, uint64(t))
		return nil
	case uint64:
		e.buf = wire.AppendUint(e.buf, t)
		return nil
	case *big.Int:
		return e.encodeBigInt(t)
	case float32:
		return e.encodeFloat32(t)
	case float64:
		return e.encodeFloat64(t)
	case value.Simple:
		return e.encodeSimple(t)
	case value.Tag:
		return e.encodeTag(t)
	case *value.Array:
		return e.encodeArray(t)
	case []any:
		e.buf = wire.AppendArrayHead(e.buf, len(t))
		for _, item := range t {
			if err := e.encodeValue(item); err != nil {
				return err
			}
		}
		return nil
	case *value.Map:
		return e.encodeMap(t)
	case *value.Set:
		return e.encodeSet(t)
	case time.Time:
		return e.encodeDatetime(t)
	case value.Date:
		return e.encodeDate(t)
	case *apd.Decimal:
		return e.encodeDecimal(t)
	case value.BigFloat:
		return e.encodeBigFloat(t)
	case *big.Rat:
		return e.encodeRational(t)
	case *regexp.Regexp:
		e.buf = wire.AppendTagHead(e.buf, tagRegexp)
		e.buf = wire.AppendText(e.buf, t.String())
		return nil
	case value.MIMEMessage:
		e.buf = wire.AppendTagHead(e.buf, tagMIME)
		e.buf = wire.AppendText(e.buf, t.Serialize())
		return nil
	case uuid.UUID:
		e.buf = wire.AppendTagHead(e.buf, tagUUID)
		e.buf = wire.AppendBytes(e.buf, t[:])
		return nil
	case net.IP:
		return e.encodeIPAddress(t)
	case *net.IPNet:
		return e.encodeIPNetwork(t)
	}

	return e.encodeViaRegistry(v)
}

func (e *Encoder) encodeViaRegistry(v any) error {
	rt := reflect.TypeOf(v)
	if handler, ok := e.registry.Lookup(rt); ok {
		return handler(e, v)
	}
	if e.opts.DefaultHandler != nil {
		return e.opts.DefaultHandler(e, v)
	}
	return ErrUnencodableType{Type: rt}
}

// encodeShareable implements the sharing discipline shared by every
// container value: arrays, maps, and sets.
func (e *Encoder) encodeShareable(v any, emitBody func() error) error {
	tok, ok := value.Identity(v)
	if !ok {
		return emitBody()
	}
	if idx, present := e.shareTable[tok]; present {
		if !e.opts.ValueSharing {
			return ErrCycleDetected{}
		}
		e.buf = wire.AppendTagHead(e.buf, tagSharedRef)
		e.buf = wire.AppendUint(e.buf, uint64(idx))
		return nil
	}
	if e.opts.ValueSharing {
		idx := e.shareNext
		e.shareNext++
		e.shareTable[tok] = idx
		e.buf = wire.AppendTagHead(e.buf, tagShareable)
		return emitBody()
	}
	e.shareTable[tok] = inProgress
	err := emitBody()
	delete(e.shareTable, tok)
	return err
}

func (e *Encoder) encodeArray(a *value.Array) error {
	return e.encodeShareable(a, func() error {
		e.buf = wire.AppendArrayHead(e.buf, len(a.Items))
		for _, item := range a.Items {
			if err := e.encodeValue(item); err != nil {
				return err
			}
		}
		return nil
	})
}

func (e *Encoder) encodeMap(m *value.Map) error {
	return e.encodeShareable(m, func() error {
		if e.opts.Style == StyleCanonical {
			return e.encodeMapCanonical(m)
		}
		e.buf = wire.AppendMapHead(e.buf, m.Len())
		var err error
		m.Range(func(k, val any) bool {
			if err = e.encodeValue(k); err != nil {
				return false
			}
			if err = e.encodeValue(val); err != nil {
				return false
			}
			return true
		})
		return err
	})
}

type sortedEntry struct {
	keyBytes []byte
	key, val any
}

// encodeMapCanonical implements the canonical map rule: each key is
// encoded into a scratch buffer, the (keyBytes, key, value)
// triples are sorted by keyBytes ascending, and the map is re-emitted in
// that order - so two maps that are equal as key/value sets always produce
// byte-identical canonical output regardless of original iteration order.
func (e *Encoder) encodeMapCanonical(m *value.Map) error {
	entries := make([]sortedEntry, 0, m.Len())
	var err error
	m.Range(func(k, val any) bool {
		var kb []byte
		kb, err = e.renderToBytes(k)
		if err != nil {
			return false
		}
		entries = append(entries, sortedEntry{keyBytes: kb, key: k, val: val})
		return true
	})
	if err != nil {
		return err
	}
	sort.Slice(entries, func(i, j int) bool {
		return lessBytes(entries[i].keyBytes, entries[j].keyBytes)
	})
	e.buf = wire.AppendMapHead(e.buf, len(entries))
	for _, ent := range entries {
		e.buf = append(e.buf, ent.keyBytes...)
		if err := e.encodeValue(ent.val); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeSet(s *value.Set) error {
	return e.encodeShareable(s, func() error {
		e.buf = wire.AppendTagHead(e.buf, tagSet)
		if e.opts.Style == StyleCanonical {
			return e.encodeSetCanonical(s)
		}
		e.buf = wire.AppendArrayHead(e.buf, s.Len())
		for _, m := range s.Members() {
			if err := e.encodeValue(m); err != nil {
				return err
			}
		}
		return nil
	})
}

func (e *Encoder) encodeSetCanonical(s *value.Set) error {
	type ranked struct {
		b []byte
		v any
	}
	members := s.Members()
	entries := make([]ranked, 0, len(members))
	for _, m := range members {
		b, err := e.renderToBytes(m)
		if err != nil {
			return err
		}
		entries = append(entries, ranked{b: b, v: m})
	}
	sort.Slice(entries, func(i, j int) bool { return lessBytes(entries[i].b, entries[j].b) })
	e.buf = wire.AppendArrayHead(e.buf, len(entries))
	for _, ent := range entries {
		e.buf = append(e.buf, ent.b...)
	}
	return nil
}

// renderToBytes encodes v in isolation and returns its bytes, used to rank
// canonical map keys and set members by their encoded byte representation.
// It reuses e's buffer field rather than a second Encoder so sharing state
// and the registry stay shared.
func (e *Encoder) renderToBytes(v any) ([]byte, error) {
	bb := wire.GetByteBuffer()
	defer wire.PutByteBuffer(bb)

	saved := e.buf
	e.buf = bb.Bytes()
	err := e.encodeValue(v)
	rendered := e.buf
	bb.SetBytes(rendered)
	e.buf = saved
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(rendered))
	copy(out, rendered)
	return out, nil
}

func lessBytes(a, b []byte) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func (e *Encoder) encodeSimple(s value.Simple) error {
	v := uint8(s)
	if v >= 24 && v <= 31 {
		return ErrMalformed{Msg: "simple value 24..31 is reserved and cannot be encoded"}
	}
	e.buf = wire.AppendSimple(e.buf, v)
	return nil
}

func (e *Encoder) encodeTag(t value.Tag) error {
	e.buf = wire.AppendTagHead(e.buf, t.Number)
	return e.encodeValue(t.Value)
}

// maxNegIntMagnitude is 2^64, the magnitude of the most negative value a
// single major-1 head can represent (v = -1-arg with arg up to 2^64-1, so
// v reaches down to -2^64).
var maxNegIntMagnitude = new(big.Int).Lsh(big.NewInt(1), 64)

func (e *Encoder) encodeBigInt(v *big.Int) error {
	if v.IsUint64() {
		e.buf = wire.AppendUint(e.buf, v.Uint64())
		return nil
	}
	if v.IsInt64() {
		e.buf = wire.AppendInt(e.buf, v.Int64())
		return nil
	}
	neg := v.Sign() < 0
	mag := new(big.Int).Abs(v)
	if neg && mag.Cmp(maxNegIntMagnitude) <= 0 {
		// still natively representable as major 1: arg = |v|-1 fits in a uint64.
		arg := new(big.Int).Sub(mag, big.NewInt(1))
		e.buf = wire.AppendNegIntArg(e.buf, arg.Uint64())
		return nil
	}
	if neg {
		// tag 3 carries |v|-1 per RFC 8949's negative-bignum convention.
		mag.Sub(mag, big.NewInt(1))
		e.buf = wire.AppendTagHead(e.buf, tagNegBignum)
	} else {
		e.buf = wire.AppendTagHead(e.buf, tagPosBignum)
	}
	e.buf = wire.AppendBytes(e.buf, mag.Bytes())
	return nil
}

func (e *Encoder) encodeFloat64(f float64) error {
	if e.opts.Style == StyleCanonical {
		e.buf = wire.AppendFloatMinimal(e.buf, f)
		return nil
	}
	e.buf = appendFloat64Regular(e.buf, f)
	return nil
}

func (e *Encoder) encodeFloat32(f float32) error {
	if e.opts.Style == StyleCanonical {
		e.buf = wire.AppendFloatMinimal(e.buf, float64(f))
		return nil
	}
	e.buf = appendFloat32Regular(e.buf, f)
	return nil
}

func appendFloat64Regular(b []byte, f float64) []byte {
	switch {
	case math.IsNaN(f):
		return wire.AppendFloat16(b, 0x7e00)
	case math.IsInf(f, 1):
		return wire.AppendFloat16(b, 0x7c00)
	case math.IsInf(f, -1):
		return wire.AppendFloat16(b, 0xfc00)
	default:
		return wire.AppendFloat64(b, f)
	}
}

func appendFloat32Regular(b []byte, f float32) []byte {
	f64 := float64(f)
	switch {
	case math.IsNaN(f64):
		return wire.AppendFloat16(b, 0x7e00)
	case math.IsInf(f64, 1):
		return wire.AppendFloat16(b, 0x7c00)
	case math.IsInf(f64, -1):
		return wire.AppendFloat16(b, 0xfc00)
	default:
		return wire.AppendFloat32(b, f)
	}
}
