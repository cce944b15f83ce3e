package value

import "testing"

func TestIdentityDistinguishesContainerInstances(t *testing.T) {
	a1 := NewArray(nil)
	a2 := NewArray(nil)

	t1, ok1 := Identity(a1)
	t2, ok2 := Identity(a2)
	if !ok1 || !ok2 {
		t.Fatalf("Identity should succeed for *Array values")
	}
	if t1 == t2 {
		t.Fatalf("two distinct Arrays must not share an identity token")
	}

	t1Again, ok := Identity(a1)
	if !ok || t1Again != t1 {
		t.Fatalf("Identity must be stable across calls for the same value")
	}
}

func TestIdentityRejectsValueTypes(t *testing.T) {
	for _, v := range []any{42, "x", true, 1.5, []byte{1}} {
		if _, ok := Identity(v); ok {
			t.Fatalf("Identity(%#v) should report ok=false for non-container types", v)
		}
	}
}
