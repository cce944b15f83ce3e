package cbor

import (
	"encoding/hex"
	"math/big"
	"net"
	"testing"

	"github.com/cockroachdb/apd/v3"

	"github.com/ionbridge/cborcore/value"
)

func TestDecimalFractionRoundTrip(t *testing.T) {
	d, _, err := apd.NewFromString("273.15")
	if err != nil {
		t.Fatalf("apd.NewFromString: %v", err)
	}

	b, err := Marshal(d, EncOptions{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	got, err := Unmarshal(b, DecOptions{})
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	gotDec, ok := got.(*apd.Decimal)
	if !ok {
		t.Fatalf("got %#v, want *apd.Decimal", got)
	}
	if gotDec.Cmp(d) != 0 {
		t.Fatalf("got %s, want %s", gotDec, d)
	}
}

func TestDecimalFractionNegativeExponentAndSign(t *testing.T) {
	d, _, err := apd.NewFromString("-0.0042")
	if err != nil {
		t.Fatalf("apd.NewFromString: %v", err)
	}
	b, err := Marshal(d, EncOptions{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal(b, DecOptions{})
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	gotDec := got.(*apd.Decimal)
	if !gotDec.Negative {
		t.Fatalf("got %s, want a negative decimal", gotDec)
	}
	if gotDec.Cmp(d) != 0 {
		t.Fatalf("got %s, want %s", gotDec, d)
	}
}

func TestBigIntNegativeNativeRangeBoundary(t *testing.T) {
	// -2^64 is the most negative value a single major-1 head can carry
	// (v = -1-arg, arg up to 2^64-1), so it must NOT go through tag 3.
	atBoundary := new(big.Int)
	atBoundary.SetString("-18446744073709551616", 10)

	b, err := Marshal(atBoundary, EncOptions{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	// 3b ffffffffffffffff: major 1, 8-byte argument, arg = 2^64-1.
	if got, want := hex.EncodeToString(b), "3bffffffffffffffff"; got != want {
		t.Fatalf("got %s, want %s (should use a native major-1 head, not tag 3)", got, want)
	}
	got, err := Unmarshal(b, DecOptions{})
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	gi, ok := got.(*big.Int)
	if !ok || gi.Cmp(atBoundary) != 0 {
		t.Fatalf("got %v, want %v", got, atBoundary)
	}

	// One past the boundary must still fall back to tag 3 (0xc3 lead byte).
	pastBoundary := new(big.Int)
	pastBoundary.SetString("-18446744073709551617", 10)
	b2, err := Marshal(pastBoundary, EncOptions{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if len(b2) == 0 || b2[0] != 0xc3 {
		t.Fatalf("got lead byte %x, want tag 3 (0xc3) for a value outside the native range", b2)
	}
}

func TestBigFloatRoundTrip(t *testing.T) {
	bf := value.BigFloat{Mantissa: big.NewInt(3), Exponent: -1}

	b, err := Marshal(bf, EncOptions{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal(b, DecOptions{})
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	gotBF, ok := got.(value.BigFloat)
	if !ok {
		t.Fatalf("got %#v, want value.BigFloat", got)
	}
	if gotBF.Exponent != bf.Exponent || gotBF.Mantissa.Cmp(bf.Mantissa) != 0 {
		t.Fatalf("got %+v, want %+v", gotBF, bf)
	}
}

func TestRationalRoundTrip(t *testing.T) {
	r := big.NewRat(1, 3)

	b, err := Marshal(r, EncOptions{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal(b, DecOptions{})
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	gotR, ok := got.(*big.Rat)
	if !ok {
		t.Fatalf("got %#v, want *big.Rat", got)
	}
	if gotR.Cmp(r) != 0 {
		t.Fatalf("got %s, want %s", gotR, r)
	}
}

func TestRationalWithZeroDenominatorIsMalformed(t *testing.T) {
	// tag 30 wrapping [1, 0]: a zero denominator.
	raw := []byte{0xd8, 0x1e, 0x82, 0x01, 0x00}
	if _, err := Unmarshal(raw, DecOptions{}); err == nil {
		t.Fatalf("expected a malformed-input error for a zero rational denominator")
	}
}

func TestIPAddressRoundTripPrefersIPv4Packing(t *testing.T) {
	ip := net.ParseIP("192.0.2.1")

	b, err := Marshal(ip, EncOptions{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	// d9 0104 (tag 260, two-byte argument) + 44 (4-byte string head) + 4 bytes.
	if len(b) != 3+1+4 {
		t.Fatalf("expected a 4-byte packed address, got %d encoded bytes: %x", len(b), b)
	}
	got, err := Unmarshal(b, DecOptions{})
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	gotIP, ok := got.(net.IP)
	if !ok || !gotIP.Equal(ip) {
		t.Fatalf("got %#v, want %v", got, ip)
	}
}

func TestIPAddressRoundTripIPv6(t *testing.T) {
	ip := net.ParseIP("2001:db8::1")

	b, err := Marshal(ip, EncOptions{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal(b, DecOptions{})
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	gotIP, ok := got.(net.IP)
	if !ok || !gotIP.Equal(ip) {
		t.Fatalf("got %#v, want %v", got, ip)
	}
}

func TestIPNetworkRoundTrip(t *testing.T) {
	_, network, err := net.ParseCIDR("10.0.0.0/24")
	if err != nil {
		t.Fatalf("ParseCIDR: %v", err)
	}

	b, err := Marshal(network, EncOptions{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal(b, DecOptions{})
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	gotNet, ok := got.(*net.IPNet)
	if !ok {
		t.Fatalf("got %#v, want *net.IPNet", got)
	}
	if gotNet.String() != network.String() {
		t.Fatalf("got %s, want %s", gotNet, network)
	}
}
