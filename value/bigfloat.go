package value

import "math/big"

// BigFloat is the in-memory form of CBOR tag 5 (bigfloat): a value of
// Mantissa * 2^Exponent, decomposed the same way *apd.Decimal decomposes a
// decimal fraction for tag 4, but with a base-2 exponent.
type BigFloat struct {
	Mantissa *big.Int
	Exponent int64
}

// Float64 converts the BigFloat to the nearest float64.
func (b BigFloat) Float64() float64 {
	f := new(big.Float).SetInt(b.Mantissa)
	f.SetMantExp(f, int(b.Exponent))
	v, _ := f.Float64()
	return v
}
