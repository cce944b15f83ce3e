package cbor

import (
	"encoding/hex"
	"testing"
)

func TestDecodeMapWithByteStringKeyIsMalformed(t *testing.T) {
	// a1 42 0102 00: a one-entry map keyed by the 2-byte string h'0102'.
	raw, err := hex.DecodeString("a142010200")
	if err != nil {
		t.Fatalf("bad hex: %v", err)
	}
	if _, err := Unmarshal(raw, DecOptions{}); err == nil {
		t.Fatalf("expected a malformed-input error for a raw byte-string map key")
	}
}

func TestDecodeSetWithByteStringMemberIsMalformed(t *testing.T) {
	// d9 01 02 81 42 01 02: tag 258 (set) wrapping a one-element array
	// whose element is the 2-byte string h'0102'.
	raw, err := hex.DecodeString("d9010281420102")
	if err != nil {
		t.Fatalf("bad hex: %v", err)
	}
	if _, err := Unmarshal(raw, DecOptions{}); err == nil {
		t.Fatalf("expected a malformed-input error for a raw byte-string set member")
	}
}

func TestBreakOutsideIndefiniteIsMalformed(t *testing.T) {
	if _, err := Unmarshal([]byte{0xff}, DecOptions{}); err == nil {
		t.Fatalf("expected a malformed-input error for a top-level break byte")
	}
}

func TestBreakInsideDefiniteLengthArrayIsMalformed(t *testing.T) {
	// 81 ff: a definite 1-element array whose sole element is a break.
	if _, err := Unmarshal([]byte{0x81, 0xff}, DecOptions{}); err == nil {
		t.Fatalf("expected a malformed-input error for a break inside a definite-length array")
	}
}

func TestIndefiniteAddInfoRejectedOnUintNegIntAndTag(t *testing.T) {
	cases := []struct {
		name string
		raw  []byte
	}{
		{name: "major-0-uint", raw: []byte{0x1f}},
		{name: "major-1-negint", raw: []byte{0x3f}},
		{name: "major-6-tag", raw: []byte{0xdf, 0x00}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Unmarshal(tc.raw, DecOptions{}); err == nil {
				t.Fatalf("expected a malformed-input error for additional-info 31 on %s", tc.name)
			}
		})
	}
}
