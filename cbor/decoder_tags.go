package cbor

import (
	"math"
	"math/big"
	"net"
	"regexp"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/google/uuid"

	"github.com/ionbridge/cborcore/value"
	"github.com/ionbridge/cborcore/wire"
)

func (d *Decoder) decodeTag(addInfo uint8, rest, orig []byte, immutable bool, sharedSlot int) (any, []byte, error) {
	num, indefinite, rest2, err := wire.ReadArgBytes(rest, addInfo)
	if err != nil {
		return nil, orig, wrapWireErr(err)
	}
	if indefinite {
		return nil, orig, malformed("additional-info 31 is not valid for major type 6")
	}

	switch num {
	case tagShareable:
		return d.decodeShareable(rest2, orig, immutable)
	case tagSharedRef:
		return d.decodeSharedRef(rest2, orig)
	case tagDateTimeText:
		return d.decodeDatetimeText(rest2, orig)
	case tagDateTimeNum:
		return d.decodeDatetimeNum(rest2, orig)
	case tagPosBignum:
		return d.decodeBignum(rest2, orig, false)
	case tagNegBignum:
		return d.decodeBignum(rest2, orig, true)
	case tagDecimalFrac:
		return d.decodeDecimalFraction(rest2, orig)
	case tagBigfloat:
		return d.decodeBigFloatTag(rest2, orig)
	case tagRational:
		return d.decodeRationalTag(rest2, orig)
	case tagRegexp:
		return d.decodeRegexpTag(rest2, orig)
	case tagMIME:
		return d.decodeMIMETag(rest2, orig)
	case tagUUID:
		return d.decodeUUIDTag(rest2, orig)
	case tagSet:
		return d.decodeSetTag(rest2, orig, immutable, sharedSlot)
	case tagIPAddress:
		return d.decodeIPAddressTag(rest2, orig)
	case tagIPNetwork:
		return d.decodeIPNetworkTag(rest2, orig)
	}

	v, rest3, err := d.decode(rest2, false, noShareSlot)
	if err != nil {
		return nil, orig, err
	}
	tag := value.Tag{Number: num, Value: v}
	if d.opts.TagHook != nil {
		out, herr := d.opts.TagHook(d, tag)
		if herr != nil {
			return nil, orig, herr
		}
		return out, rest3, nil
	}
	return tag, rest3, nil
}

// decodeShareable implements tag 28: a placeholder is reserved before the inner value is decoded
// so that, for containers, self-references resolve to the right object.
func (d *Decoder) decodeShareable(b, orig []byte, immutable bool) (any, []byte, error) {
	idx := len(d.shareables)
	d.shareables = append(d.shareables, sharePlaceholder{})
	v, rest, err := d.decode(b, immutable, idx)
	if err != nil {
		return nil, orig, err
	}
	if _, stillPlaceholder := d.shareables[idx].(sharePlaceholder); stillPlaceholder {
		d.shareables[idx] = v
	}
	return v, rest, nil
}

// decodeSharedRef implements tag 29.
func (d *Decoder) decodeSharedRef(b, orig []byte) (any, []byte, error) {
	v, rest, err := d.decode(b, true, noShareSlot)
	if err != nil {
		return nil, orig, err
	}
	idx, ok := asIndex(v)
	if !ok || idx < 0 || idx >= len(d.shareables) {
		return nil, orig, malformed("shared reference index out of range")
	}
	ref := d.shareables[idx]
	if _, stillPlaceholder := ref.(sharePlaceholder); stillPlaceholder {
		return nil, orig, malformed("shared reference to a not-yet-initialized value")
	}
	return ref, rest, nil
}

func (d *Decoder) decodeDatetimeText(b, orig []byte) (any, []byte, error) {
	v, rest, err := d.decode(b, false, noShareSlot)
	if err != nil {
		return nil, orig, err
	}
	s, ok := v.(string)
	if !ok {
		return nil, orig, malformed("tag 0 inner value must be a text string")
	}
	t, perr := time.Parse(isoLayout, s)
	if perr != nil {
		return nil, orig, malformed("invalid ISO-8601 date-time string: " + perr.Error())
	}
	return t, rest, nil
}

func (d *Decoder) decodeDatetimeNum(b, orig []byte) (any, []byte, error) {
	v, rest, err := d.decode(b, false, noShareSlot)
	if err != nil {
		return nil, orig, err
	}
	switch n := v.(type) {
	case int64:
		return time.Unix(n, 0).UTC(), rest, nil
	case uint64:
		if n > math.MaxInt64 {
			return nil, orig, malformed("tag 1 timestamp out of range")
		}
		return time.Unix(int64(n), 0).UTC(), rest, nil
	case float64:
		sec := math.Floor(n)
		frac := n - sec
		return time.Unix(int64(sec), int64(frac*1e9)).UTC(), rest, nil
	}
	return nil, orig, malformed("tag 1 inner value must be a number")
}

func (d *Decoder) decodeBignum(b, orig []byte, negative bool) (any, []byte, error) {
	v, rest, err := d.decode(b, false, noShareSlot)
	if err != nil {
		return nil, orig, err
	}
	data, ok := v.([]byte)
	if !ok {
		return nil, orig, malformed("bignum tag inner value must be a byte string")
	}
	mag := new(big.Int).SetBytes(data)
	if negative {
		mag.Add(mag, bigOne)
		mag.Neg(mag)
	}
	return mag, rest, nil
}

// decodeTagArrayOfTwo decodes the shared shape behind tags 4, 5, and 30: a
// two-element array.
func (d *Decoder) decodeTagArrayOfTwo(b, orig []byte) (a, bb any, rest []byte, err error) {
	v, rest, err := d.decode(b, false, noShareSlot)
	if err != nil {
		return nil, nil, orig, err
	}
	arr, ok := v.(*value.Array)
	if !ok || arr.Len() != 2 {
		return nil, nil, orig, malformed("tag inner value must be a two-element array")
	}
	return arr.Items[0], arr.Items[1], rest, nil
}

func (d *Decoder) decodeDecimalFraction(b, orig []byte) (any, []byte, error) {
	expV, mantV, rest, err := d.decodeTagArrayOfTwo(b, orig)
	if err != nil {
		return nil, orig, err
	}
	exp, ok := asInt64(expV)
	if !ok {
		return nil, orig, malformed("decimal fraction exponent must be an integer")
	}
	mant, ok := asBigInt(mantV)
	if !ok {
		return nil, orig, malformed("decimal fraction mantissa must be an integer")
	}
	dec := new(apd.Decimal)
	dec.Coeff.SetMathBigInt(new(big.Int).Abs(mant))
	dec.Negative = mant.Sign() < 0
	dec.Exponent = int32(exp)
	return dec, rest, nil
}

func (d *Decoder) decodeBigFloatTag(b, orig []byte) (any, []byte, error) {
	expV, mantV, rest, err := d.decodeTagArrayOfTwo(b, orig)
	if err != nil {
		return nil, orig, err
	}
	exp, ok := asInt64(expV)
	if !ok {
		return nil, orig, malformed("bigfloat exponent must be an integer")
	}
	mant, ok := asBigInt(mantV)
	if !ok {
		return nil, orig, malformed("bigfloat mantissa must be an integer")
	}
	return value.BigFloat{Mantissa: mant, Exponent: exp}, rest, nil
}

func (d *Decoder) decodeRationalTag(b, orig []byte) (any, []byte, error) {
	numV, denV, rest, err := d.decodeTagArrayOfTwo(b, orig)
	if err != nil {
		return nil, orig, err
	}
	num, ok := asBigInt(numV)
	if !ok {
		return nil, orig, malformed("rational numerator must be an integer")
	}
	den, ok := asBigInt(denV)
	if !ok {
		return nil, orig, malformed("rational denominator must be an integer")
	}
	if den.Sign() == 0 {
		return nil, orig, malformed("rational denominator must not be zero")
	}
	return new(big.Rat).SetFrac(num, den), rest, nil
}

func (d *Decoder) decodeRegexpTag(b, orig []byte) (any, []byte, error) {
	v, rest, err := d.decode(b, false, noShareSlot)
	if err != nil {
		return nil, orig, err
	}
	s, ok := v.(string)
	if !ok {
		return nil, orig, malformed("tag 35 inner value must be a text string")
	}
	re, cerr := regexp.Compile(s)
	if cerr != nil {
		return nil, orig, malformed("invalid regexp pattern: " + cerr.Error())
	}
	return re, rest, nil
}

func (d *Decoder) decodeMIMETag(b, orig []byte) (any, []byte, error) {
	v, rest, err := d.decode(b, false, noShareSlot)
	if err != nil {
		return nil, orig, err
	}
	s, ok := v.(string)
	if !ok {
		return nil, orig, malformed("tag 36 inner value must be a text string")
	}
	return value.MIMEMessage(s), rest, nil
}

func (d *Decoder) decodeUUIDTag(b, orig []byte) (any, []byte, error) {
	v, rest, err := d.decode(b, false, noShareSlot)
	if err != nil {
		return nil, orig, err
	}
	data, ok := v.([]byte)
	if !ok || len(data) != 16 {
		return nil, orig, malformed("tag 37 inner value must be a 16-byte string")
	}
	id, uerr := uuid.FromBytes(data)
	if uerr != nil {
		return nil, orig, malformed("invalid UUID bytes: " + uerr.Error())
	}
	return id, rest, nil
}

// decodeSetTag implements tag 258. Sets, like immutable sequences, are
// installed into their shareables slot only after full construction:
// hashing requires the set to already be complete.
func (d *Decoder) decodeSetTag(b, orig []byte, immutable bool, sharedSlot int) (any, []byte, error) {
	major, addInfo, rest, err := wire.ReadHeadBytes(b)
	if err != nil {
		return nil, orig, wrapWireErr(err)
	}
	if major != wire.MajorArray {
		return nil, orig, malformed("set tag inner value must be an array")
	}
	arg, indefinite, rest2, err := wire.ReadArgBytes(rest, addInfo)
	if err != nil {
		return nil, orig, wrapWireErr(err)
	}
	items, restOut, err := d.decodeArrayItems(arg, indefinite, rest2)
	if err != nil {
		return nil, orig, err
	}
	for _, it := range items {
		if !isHashableKey(it) {
			return nil, orig, malformed("set member type is not hashable")
		}
		switch m := it.(type) {
		case *value.Array:
			m.Freeze()
		case *value.Set:
			m.Freeze()
		}
	}
	s := value.NewSetFrom(items)
	if immutable {
		s.Freeze()
	}
	d.installShared(sharedSlot, s)
	return s, restOut, nil
}

func (d *Decoder) decodeIPAddressTag(b, orig []byte) (any, []byte, error) {
	v, rest, err := d.decode(b, false, noShareSlot)
	if err != nil {
		return nil, orig, err
	}
	data, ok := v.([]byte)
	if !ok || (len(data) != 4 && len(data) != 16) {
		return nil, orig, malformed("tag 260 inner value must be a 4- or 16-byte string")
	}
	return net.IP(data), rest, nil
}

func (d *Decoder) decodeIPNetworkTag(b, orig []byte) (any, []byte, error) {
	major, addInfo, rest, err := wire.ReadHeadBytes(b)
	if err != nil {
		return nil, orig, wrapWireErr(err)
	}
	n, indefinite, rest, err := wire.ReadArgBytes(rest, addInfo)
	if err != nil {
		return nil, orig, wrapWireErr(err)
	}
	if major != wire.MajorMap || indefinite || n != 1 {
		return nil, orig, malformed("tag 261 inner value must be a one-entry map")
	}
	k, rest, err := d.decode(rest, true, noShareSlot)
	if err != nil {
		return nil, orig, err
	}
	val, rest, err := d.decode(rest, false, noShareSlot)
	if err != nil {
		return nil, orig, err
	}
	ipBytes, _ := k.([]byte)
	prefix, prefixOK := asInt64(val)
	if ipBytes == nil || (len(ipBytes) != 4 && len(ipBytes) != 16) {
		return nil, orig, malformed("tag 261 network address must be a 4- or 16-byte string")
	}
	bits := len(ipBytes) * 8
	if !prefixOK || prefix < 0 || int(prefix) > bits {
		return nil, orig, malformed("tag 261 prefix length out of range")
	}
	return &net.IPNet{IP: net.IP(ipBytes), Mask: net.CIDRMask(int(prefix), bits)}, rest, nil
}

func asIndex(v any) (int, bool) {
	switch t := v.(type) {
	case int64:
		if t < 0 {
			return 0, false
		}
		return int(t), true
	case uint64:
		if t > math.MaxInt {
			return 0, false
		}
		return int(t), true
	}
	return 0, false
}

func asInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case uint64:
		if t > math.MaxInt64 {
			return 0, false
		}
		return int64(t), true
	case *big.Int:
		if t.IsInt64() {
			return t.Int64(), true
		}
	}
	return 0, false
}

func asBigInt(v any) (*big.Int, bool) {
	switch t := v.(type) {
	case int64:
		return big.NewInt(t), true
	case uint64:
		return new(big.Int).SetUint64(t), true
	case *big.Int:
		return t, true
	}
	return nil, false
}
