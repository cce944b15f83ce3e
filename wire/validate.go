package wire

import "unicode/utf8"

// MaxDepth bounds the recursion of ValidateWellFormed and Skip. It exists
// purely to give adversarial, deeply-nested input a deterministic failure
// instead of exhausting the Go stack.
const MaxDepth = 100000

// ErrMaxDepthExceeded is returned by ValidateWellFormed and Skip when
// nesting exceeds MaxDepth.
var ErrMaxDepthExceeded error = Malformed("maximum nesting depth exceeded")

// ValidateWellFormed checks that the next CBOR item in b is structurally
// well-formed per RFC 8949 Appendix C - balanced containers, no reserved
// additional-info values, UTF-8-valid text strings, chunk types matching
// their indefinite-length parent - and returns the bytes after that item.
// It does not interpret semantic tags.
func ValidateWellFormed(b []byte) (rest []byte, err error) {
	return skipOrValidate(b, 0, true)
}

// Skip advances past the next CBOR item in b without fully validating text
// string UTF-8 content, returning the remaining bytes.
func Skip(b []byte) (rest []byte, err error) {
	return skipOrValidate(b, 0, false)
}

func skipOrValidate(b []byte, depth int, checkUTF8 bool) ([]byte, error) {
	if depth > MaxDepth {
		return b, ErrMaxDepthExceeded
	}
	major, addInfo, rest, err := ReadHeadBytes(b)
	if err != nil {
		return b, err
	}

	switch major {
	case MajorUint, MajorNegInt:
		_, indefinite, rest, err := ReadArgBytes(rest, addInfo)
		if err != nil {
			return b, err
		}
		if indefinite {
			return b, ErrIndefiniteNotAllowed
		}
		return rest, nil

	case MajorTag:
		_, indefinite, rest, err := ReadArgBytes(rest, addInfo)
		if err != nil {
			return b, err
		}
		if indefinite {
			return b, ErrIndefiniteNotAllowed
		}
		return skipOrValidate(rest, depth+1, checkUTF8)

	case MajorBytes:
		return skipByteOrTextString(b, rest, addInfo, major, false)

	case MajorText:
		return skipByteOrTextString(b, rest, addInfo, major, checkUTF8)

	case MajorArray:
		arg, indef, p, err := ReadArgBytes(rest, addInfo)
		if err != nil {
			return b, err
		}
		if indef {
			for {
				if len(p) < 1 {
					return b, ErrShortInput
				}
				if p[0] == Break {
					return p[1:], nil
				}
				p, err = skipOrValidate(p, depth+1, checkUTF8)
				if err != nil {
					return b, err
				}
			}
		}
		for i := uint64(0); i < arg; i++ {
			p, err = skipOrValidate(p, depth+1, checkUTF8)
			if err != nil {
				return b, err
			}
		}
		return p, nil

	case MajorMap:
		arg, indef, p, err := ReadArgBytes(rest, addInfo)
		if err != nil {
			return b, err
		}
		if indef {
			for {
				if len(p) < 1 {
					return b, ErrShortInput
				}
				if p[0] == Break {
					return p[1:], nil
				}
				if p, err = skipOrValidate(p, depth+1, checkUTF8); err != nil {
					return b, err
				}
				if p, err = skipOrValidate(p, depth+1, checkUTF8); err != nil {
					return b, err
				}
			}
		}
		for i := uint64(0); i < arg; i++ {
			if p, err = skipOrValidate(p, depth+1, checkUTF8); err != nil {
				return b, err
			}
			if p, err = skipOrValidate(p, depth+1, checkUTF8); err != nil {
				return b, err
			}
		}
		return p, nil

	case MajorSimple:
		switch addInfo {
		case ArgIndefinite:
			return b, ErrBreakOutsideIndefinite
		case 28, 29, 30:
			return b, ErrReservedAddInfo
		case ArgUint8:
			if len(rest) < 1 {
				return b, ErrShortInput
			}
			return rest[1:], nil
		case SimpleFloat16:
			_, out, err := ReadRaw(rest, 2)
			if err != nil {
				return b, err
			}
			return out, nil
		case SimpleFloat32:
			_, out, err := ReadRaw(rest, 4)
			if err != nil {
				return b, err
			}
			return out, nil
		case SimpleFloat64:
			_, out, err := ReadRaw(rest, 8)
			if err != nil {
				return b, err
			}
			return out, nil
		default:
			return rest, nil
		}
	}
	return b, Malformed("unreachable major type")
}

// skipByteOrTextString handles both major 2 and major 3, definite and
// indefinite. For text strings (checkUTF8=true) each chunk is validated as
// UTF-8; chunk boundaries may not split a code point, which byte-at-a-time
// per-chunk validation guarantees for free.
func skipByteOrTextString(orig, rest []byte, addInfo uint8, major Major, checkUTF8 bool) ([]byte, error) {
	arg, indef, p, err := ReadArgBytes(rest, addInfo)
	if err != nil {
		return orig, err
	}
	if !indef {
		data, p, err := ReadRaw(p, arg)
		if err != nil {
			return orig, err
		}
		if checkUTF8 && !utf8.Valid(data) {
			return orig, Malformed("invalid UTF-8 in text string")
		}
		return p, nil
	}
	for {
		if len(p) < 1 {
			return orig, ErrShortInput
		}
		if p[0] == Break {
			return p[1:], nil
		}
		chunkMajor, chunkAdd, chunkRest, err := ReadHeadBytes(p)
		if err != nil {
			return orig, err
		}
		if chunkMajor != major || chunkAdd == ArgIndefinite {
			return orig, ErrIndefiniteChunkType
		}
		arg, _, chunkRest, err := ReadArgBytes(chunkRest, chunkAdd)
		if err != nil {
			return orig, err
		}
		var data []byte
		data, p, err = ReadRaw(chunkRest, arg)
		if err != nil {
			return orig, err
		}
		if checkUTF8 && !utf8.Valid(data) {
			return orig, Malformed("invalid UTF-8 in text string chunk")
		}
	}
}
