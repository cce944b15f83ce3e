package value

import "testing"

func TestTagWrapsNumberAndValue(t *testing.T) {
	tag := Tag{Number: 100, Value: "hello"}
	if tag.Number != 100 || tag.Value != "hello" {
		t.Fatalf("got %+v, want Number=100 Value=hello", tag)
	}
}

func TestSimpleIsAPlainByte(t *testing.T) {
	s := Simple(16)
	if uint8(s) != 16 {
		t.Fatalf("got %d, want 16", uint8(s))
	}
}
