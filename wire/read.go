package wire

import "encoding/binary"

var be = binary.BigEndian

// ReadHeadBytes splits the lead byte off b and returns the major type,
// additional info, and the remaining bytes.
func ReadHeadBytes(b []byte) (major Major, addInfo uint8, rest []byte, err error) {
	if len(b) < 1 {
		return 0, 0, b, ErrShortInput
	}
	major, addInfo = SplitHead(b[0])
	return major, addInfo, b[1:], nil
}

// ReadArgBytes decodes the argument that follows a lead byte with the given
// additional info. For addInfo 0..23 the argument is addInfo itself and no
// bytes are consumed. For 24/25/26/27 it reads a 1/2/4/8-byte big-endian
// argument. For 31 it reports indefinite=true with no argument. 28..30 are
// reserved and are reported as a malformed-input error.
func ReadArgBytes(b []byte, addInfo uint8) (arg uint64, indefinite bool, rest []byte, err error) {
	switch {
	case addInfo <= ArgDirectMax:
		return uint64(addInfo), false, b, nil
	case addInfo == ArgUint8:
		if len(b) < 1 {
			return 0, false, b, ErrShortInput
		}
		return uint64(b[0]), false, b[1:], nil
	case addInfo == ArgUint16:
		if len(b) < 2 {
			return 0, false, b, ErrShortInput
		}
		return uint64(be.Uint16(b)), false, b[2:], nil
	case addInfo == ArgUint32:
		if len(b) < 4 {
			return 0, false, b, ErrShortInput
		}
		return uint64(be.Uint32(b)), false, b[4:], nil
	case addInfo == ArgUint64:
		if len(b) < 8 {
			return 0, false, b, ErrShortInput
		}
		return be.Uint64(b), false, b[8:], nil
	case addInfo == ArgIndefinite:
		return 0, true, b, nil
	default: // 28, 29, 30
		return 0, false, b, ErrReservedAddInfo
	}
}

// ReadItemHeadBytes reads a full item head (lead byte plus argument) in one
// call, checking that the major type matches want.
func ReadItemHeadBytes(b []byte, want Major) (arg uint64, indefinite bool, rest []byte, err error) {
	major, addInfo, rest, err := ReadHeadBytes(b)
	if err != nil {
		return 0, false, b, err
	}
	if major != want {
		return 0, false, b, BadPrefixError{Want: want, Got: major}
	}
	arg, indefinite, rest, err = ReadArgBytes(rest, addInfo)
	if err != nil {
		return 0, false, b, err
	}
	return arg, indefinite, rest, nil
}

// ReadRaw reads n raw bytes from b and returns them along with the remainder.
func ReadRaw(b []byte, n uint64) (data, rest []byte, err error) {
	if uint64(len(b)) < n {
		return nil, b, ErrShortInput
	}
	return b[:n], b[n:], nil
}
