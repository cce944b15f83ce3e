package value

import "testing"

func TestMapPreservesInsertionOrder(t *testing.T) {
	m := NewMap()
	m.Set("b", 2)
	m.Set("a", 1)
	m.Set("c", 3)

	want := []any{"b", "a", "c"}
	got := m.Keys()
	if len(got) != len(want) {
		t.Fatalf("got %d keys, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("key %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMapSetExistingKeyKeepsPosition(t *testing.T) {
	m := NewMap()
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("a", 99)

	if len(m.Keys()) != 2 {
		t.Fatalf("re-setting an existing key should not grow the key list")
	}
	v, ok := m.Get("a")
	if !ok || v != 99 {
		t.Fatalf("got %v, %v; want 99, true", v, ok)
	}
}

func TestMapRangeStopsEarly(t *testing.T) {
	m := NewMap()
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("c", 3)

	var seen []any
	m.Range(func(k, v any) bool {
		seen = append(seen, k)
		return k != "b"
	})
	if len(seen) != 2 {
		t.Fatalf("Range should have stopped after the second entry, saw %v", seen)
	}
}
