package cbor

import (
	"math"
	"math/big"

	"github.com/cockroachdb/apd/v3"

	"github.com/ionbridge/cborcore/value"
	"github.com/ionbridge/cborcore/wire"
)

// encodeDecimal implements the decimal-fraction rule (tag 4):
// an arbitrary-precision decimal is carried as a two-element array of
// (exponent, mantissa), mantissa signed, exponent base 10. NaN and Infinite
// forms have no exact CBOR decimal-fraction representation, so they fall
// back to the nearest float64 the way the source ecosystem does.
func (e *Encoder) encodeDecimal(d *apd.Decimal) error {
	switch d.Form {
	case apd.NaN, apd.NaNSignaling:
		f, _ := d.Float64()
		return e.encodeFloat64(f)
	case apd.Infinite:
		if d.Negative {
			return e.encodeFloat64(math.Inf(-1))
		}
		return e.encodeFloat64(math.Inf(1))
	}

	mantissa := d.Coeff.MathBigInt()
	if d.Negative {
		mantissa.Neg(mantissa)
	}
	e.buf = wire.AppendTagHead(e.buf, tagDecimalFrac)
	e.buf = wire.AppendArrayHead(e.buf, 2)
	e.buf = wire.AppendInt(e.buf, int64(d.Exponent))
	return e.encodeBigInt(mantissa)
}

// encodeBigFloat implements tag 5 the same way as tag 4, but the exponent is
// base 2.
func (e *Encoder) encodeBigFloat(b value.BigFloat) error {
	e.buf = wire.AppendTagHead(e.buf, tagBigfloat)
	e.buf = wire.AppendArrayHead(e.buf, 2)
	e.buf = wire.AppendInt(e.buf, b.Exponent)
	return e.encodeBigInt(b.Mantissa)
}

// encodeRational implements tag 30: numerator and
// denominator as a two-element array, in the source ecosystem's preferred
// form. big.Rat always stores its fraction in lowest terms with a positive
// denominator, so no extra normalization is needed here.
func (e *Encoder) encodeRational(r *big.Rat) error {
	e.buf = wire.AppendTagHead(e.buf, tagRational)
	e.buf = wire.AppendArrayHead(e.buf, 2)
	if err := e.encodeBigInt(r.Num()); err != nil {
		return err
	}
	return e.encodeBigInt(r.Denom())
}
