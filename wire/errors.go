package wire

import (
	"errors"
	"strconv"
)

// Error is the interface satisfied by this package's struct error types
// (ErrShortInput, ErrRecursionLimit, BadPrefixError, MalformedError) and by
// package cbor's error types; the errors.New sentinels below do not
// implement it. Resumable distinguishes errors where the stream position is
// still meaningful (e.g. an overflow on one field) from ones where the
// stream must be discarded outright.
type Error interface {
	error
	Resumable() bool
}

var (
	// ErrShortInput is returned when the input does not contain enough
	// bytes to satisfy the item being read.
	ErrShortInput error = errShort{}

	// ErrRecursionLimit reports recursion past a configured ceiling. No
	// function in this package returns it: the nesting checks here return
	// ErrMaxDepthExceeded, and package cbor reports its own
	// cbor.ErrRecursionLimit.
	ErrRecursionLimit error = errRecursion{}

	// ErrContainerTooLarge reports a declared array/map/string length over
	// a limit. No function in this module returns it; no such limit is
	// configured or checked.
	ErrContainerTooLarge error = errors.New("cbor: container length exceeds configured limit")

	// ErrReservedAddInfo is returned when additional info 28, 29, or 30
	// appears on the wire outside of a context that assigns it meaning
	// (only majors 2-5 define 31; 28-30 are always reserved).
	ErrReservedAddInfo error = errors.New("cbor: reserved additional-info value")

	// ErrBreakOutsideIndefinite is returned when the break byte (0xFF)
	// appears somewhere other than the head of an open indefinite-length
	// collection.
	ErrBreakOutsideIndefinite error = errors.New("cbor: break byte outside an open indefinite-length item")

	// ErrIndefiniteChunkType is returned when a chunk inside an
	// indefinite-length byte or text string is not itself a definite
	// byte/text string of the same major type.
	ErrIndefiniteChunkType error = errors.New("cbor: indefinite-length string chunk has the wrong major type or is itself indefinite")

	// ErrIndefiniteNotAllowed is returned when additional info 31
	// (indefinite-length) appears on a major type that does not support it:
	// only majors 2-5 (byte string, text string, array, map) do.
	ErrIndefiniteNotAllowed error = errors.New("cbor: additional-info 31 (indefinite-length) is not valid for this major type")
)

type errShort struct{}

func (errShort) Error() string   { return "cbor: unexpected end of input" }
func (errShort) Resumable() bool { return false }

type errRecursion struct{}

func (errRecursion) Error() string   { return "cbor: recursion limit exceeded" }
func (errRecursion) Resumable() bool { return false }

// BadPrefixError is returned when the decoder expected one major type and
// found another.
type BadPrefixError struct {
	Want, Got Major
}

func (e BadPrefixError) Error() string {
	return "cbor: expected major type " + strconv.Itoa(int(e.Want)) + " but found " + strconv.Itoa(int(e.Got))
}
func (e BadPrefixError) Resumable() bool { return true }

// MalformedError reports a structurally invalid encoding: wrong chunk type,
// reserved additional info, a break where none is expected, or similar.
type MalformedError struct {
	Msg string
}

func (e MalformedError) Error() string   { return "cbor: malformed input: " + e.Msg }
func (e MalformedError) Resumable() bool { return false }

// Malformed constructs a MalformedError with the given message.
func Malformed(msg string) error { return MalformedError{Msg: msg} }
