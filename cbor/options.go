package cbor

import (
	"time"

	"github.com/ionbridge/cborcore/value"
)

// TimestampFormat selects how Encoder renders time.Time and value.Date
// values.
type TimestampFormat int

const (
	// TimestampISO renders timestamps as an RFC 3339 text string under tag 0.
	TimestampISO TimestampFormat = iota
	// TimestampEpoch renders timestamps as a numeric offset from the Unix
	// epoch (integer if exact, float otherwise) under tag 1.
	TimestampEpoch
)

// EncStyle selects the overall encoding discipline.
type EncStyle int

const (
	// StyleRegular preserves map iteration order and emits floats at their
	// natural width.
	StyleRegular EncStyle = iota
	// StyleCanonical sorts map keys and set members by their encoded bytes
	// and emits the narrowest lossless float width.
	StyleCanonical
)

// StrErrors selects the UTF-8 error policy used when decoding text strings.
type StrErrors int

const (
	// StrErrorsStrict fails the decode on any invalid UTF-8.
	StrErrorsStrict StrErrors = iota
	// StrErrorsError is a synonym for StrErrorsStrict, kept distinct because
	// the host ecosystem this was distilled from exposes both spellings.
	StrErrorsError
	// StrErrorsReplace substitutes U+FFFD for invalid sequences instead of failing.
	StrErrorsReplace
)

// DefaultHandlerFunc is invoked when the encoder finds no registered
// handler for a value. It should
// encode v onto e itself (e.g. via e.EncodeValue on a substitute) and
// return an error if it cannot.
type DefaultHandlerFunc func(e *Encoder, v any) error

// TagHookFunc post-processes a decoded value.Tag whose tag number has no
// built-in handler. It may return a
// replacement value or pass the tag through unchanged.
type TagHookFunc func(d *Decoder, tag value.Tag) (any, error)

// ObjectHookFunc post-processes every decoded map, e.g. to rehydrate a custom type from its key set.
type ObjectHookFunc func(d *Decoder, m *value.Map) (any, error)

// EncOptions configures an Encoder. The zero value is the documented default.
type EncOptions struct {
	TimestampFormat TimestampFormat
	Timezone        *time.Location
	ValueSharing    bool
	DefaultHandler  DefaultHandlerFunc
	Style           EncStyle
	RecursionLimit  int
}

func (o EncOptions) recursionLimit() int {
	if o.RecursionLimit > 0 {
		return o.RecursionLimit
	}
	return defaultRecursionLimit
}

// DecOptions configures a Decoder.
type DecOptions struct {
	TagHook        TagHookFunc
	ObjectHook     ObjectHookFunc
	StrErrors      StrErrors
	RecursionLimit int
}

func (o DecOptions) recursionLimit() int {
	if o.RecursionLimit > 0 {
		return o.RecursionLimit
	}
	return defaultRecursionLimit
}

// defaultRecursionLimit: generous enough for any realistic document, tight
// enough to fail adversarial input deterministically rather than blow the
// Go stack.
const defaultRecursionLimit = 1000
