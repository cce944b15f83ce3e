package cbor

import (
	"bytes"
	"testing"
)

// A CBOR sequence is just concatenated top-level items with no enclosing
// array; Decoder.Decode already supports it by leaving the unread remainder
// of its buffer in place between calls.
func TestDecoderReadsSequenceOfValues(t *testing.T) {
	var buf bytes.Buffer
	want := []any{uint64(1), "two", true}
	for _, v := range want {
		b, err := Marshal(v, EncOptions{})
		if err != nil {
			t.Fatalf("Marshal(%v): %v", v, err)
		}
		buf.Write(b)
	}

	dec := NewDecoder(&buf, DecOptions{})
	for i, w := range want {
		got, err := dec.Decode()
		if err != nil {
			t.Fatalf("Decode item %d: %v", i, err)
		}
		if got != w {
			t.Fatalf("item %d: got %v, want %v", i, got, w)
		}
	}
	if _, err := dec.Decode(); err == nil {
		t.Fatalf("expected an error once the sequence is exhausted")
	}
}

func TestDecoderSequencePreservesShareScopePerItem(t *testing.T) {
	var buf bytes.Buffer
	for i := 0; i < 2; i++ {
		b, err := Marshal([]any{"a", "a"}, EncOptions{ValueSharing: true})
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		buf.Write(b)
	}

	dec := NewDecoder(&buf, DecOptions{})
	for i := 0; i < 2; i++ {
		if _, err := dec.Decode(); err != nil {
			t.Fatalf("Decode item %d: %v", i, err)
		}
	}
}
