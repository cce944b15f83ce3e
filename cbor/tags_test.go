package cbor

import (
	"encoding/hex"
	"math/big"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ionbridge/cborcore/value"
)

func TestTagDatetimeRoundTrip(t *testing.T) {
	want := time.Date(2013, 3, 21, 20, 4, 0, 0, time.UTC)

	isoBytes, err := Marshal(want, EncOptions{TimestampFormat: TimestampISO})
	if err != nil {
		t.Fatalf("Marshal ISO: %v", err)
	}
	gotISO, err := Unmarshal(isoBytes, DecOptions{})
	if err != nil {
		t.Fatalf("Unmarshal ISO: %v", err)
	}
	gt, ok := gotISO.(time.Time)
	if !ok || !gt.Equal(want) {
		t.Fatalf("ISO round trip: got %v, want %v", gotISO, want)
	}

	epochBytes, err := Marshal(want, EncOptions{TimestampFormat: TimestampEpoch})
	if err != nil {
		t.Fatalf("Marshal epoch: %v", err)
	}
	if hex.EncodeToString(epochBytes) != "c11a514b67b0" {
		t.Fatalf("epoch encoding mismatch: %x", epochBytes)
	}
	gotEpoch, err := Unmarshal(epochBytes, DecOptions{})
	if err != nil {
		t.Fatalf("Unmarshal epoch: %v", err)
	}
	ge, ok := gotEpoch.(time.Time)
	if !ok || !ge.Equal(want) {
		t.Fatalf("epoch round trip: got %v, want %v", gotEpoch, want)
	}
}

func TestTagRegexpRoundTrip(t *testing.T) {
	want := regexp.MustCompile(`^[a-z]+\d*$`)
	b, err := Marshal(want, EncOptions{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal(b, DecOptions{})
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	re, ok := got.(*regexp.Regexp)
	if !ok || re.String() != want.String() {
		t.Fatalf("regexp round trip: got %v, want %v", got, want)
	}
}

func TestTagMIMERoundTrip(t *testing.T) {
	want := value.MIMEMessage("From: a@example.com\r\nTo: b@example.com\r\n\r\nhello\r\n")
	b, err := Marshal(want, EncOptions{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal(b, DecOptions{})
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	msg, ok := got.(value.MIMEMessage)
	if !ok || msg.Serialize() != want.Serialize() {
		t.Fatalf("MIME round trip: got %v, want %v", got, want)
	}
}

func TestTagUUIDRoundTrip(t *testing.T) {
	want := uuid.MustParse("f47ac10b-58cc-4372-a567-0e02b2c3d479")
	b, err := Marshal(want, EncOptions{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal(b, DecOptions{})
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	id, ok := got.(uuid.UUID)
	if !ok || id != want {
		t.Fatalf("UUID round trip: got %v, want %v", got, want)
	}
}

func TestTagUnknownPassesThrough(t *testing.T) {
	want := value.Tag{Number: 9999, Value: "unrecognized"}
	b, err := Marshal(want, EncOptions{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal(b, DecOptions{})
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	tag, ok := got.(value.Tag)
	if !ok || tag.Number != want.Number || tag.Value != want.Value {
		t.Fatalf("unknown tag round trip: got %#v, want %#v", got, want)
	}
}

func TestTagHookOverridesUnknownTag(t *testing.T) {
	b, err := Marshal(value.Tag{Number: 9999, Value: "unrecognized"}, EncOptions{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal(b, DecOptions{
		TagHook: func(d *Decoder, tag value.Tag) (any, error) {
			if tag.Number == 9999 {
				return "hooked:" + tag.Value.(string), nil
			}
			return tag, nil
		},
	})
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != "hooked:unrecognized" {
		t.Fatalf("TagHook did not run: got %v", got)
	}
}

func TestTagNegativeCases(t *testing.T) {
	cases := []struct {
		name string
		hex  string
	}{
		// tag 37 (UUID) with a text-string payload instead of a byte string.
		{name: "wrong-type-for-uuid-payload", hex: "d8256568656c6c6f"},
		// tag 37 (UUID) with a 4-byte payload instead of the required 16.
		{name: "short-uuid-payload", hex: "d825" + "44" + "00010203"},
		// tag 4 (decimal fraction) with a one-element array instead of two.
		{name: "decimal-fraction-wrong-array-length", hex: "c48103"},
		// tag 5 (bigfloat) whose mantissa is a text string, not an integer.
		{name: "bigfloat-non-integer-mantissa", hex: "c5820063666f6f"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			b, err := hex.DecodeString(tc.hex)
			if err != nil {
				t.Fatalf("bad hex: %v", err)
			}
			if _, err := Unmarshal(b, DecOptions{}); err == nil {
				t.Fatalf("expected decode error for %s", tc.name)
			}
		})
	}
}

func TestTagBignumRoundTrip(t *testing.T) {
	pos := new(big.Int)
	pos.SetString("18446744073709551616", 10)
	b, err := Marshal(pos, EncOptions{})
	if err != nil {
		t.Fatalf("Marshal positive: %v", err)
	}
	got, err := Unmarshal(b, DecOptions{})
	if err != nil {
		t.Fatalf("Unmarshal positive: %v", err)
	}
	gi, ok := got.(*big.Int)
	if !ok || gi.Cmp(pos) != 0 {
		t.Fatalf("positive bignum round trip: got %v, want %v", got, pos)
	}

	neg := new(big.Int)
	neg.SetString("-18446744073709551617", 10)
	b2, err := Marshal(neg, EncOptions{})
	if err != nil {
		t.Fatalf("Marshal negative: %v", err)
	}
	got2, err := Unmarshal(b2, DecOptions{})
	if err != nil {
		t.Fatalf("Unmarshal negative: %v", err)
	}
	gi2, ok := got2.(*big.Int)
	if !ok || gi2.Cmp(neg) != 0 {
		t.Fatalf("negative bignum round trip: got %v, want %v", got2, neg)
	}
}
