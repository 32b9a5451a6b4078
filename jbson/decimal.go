/*
 * Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License").
 * You may not use this file except in compliance with the License.
 * A copy of the License is located at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * or in the "license" file accompanying this file. This file is distributed
 * on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either
 * express or implied. See the License for the specific language governing
 * permissions and limitations under the License.
 */

package jbson

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// A ParseError is returned if ParseDecimal is called with a parameter that
// cannot be parsed as a Decimal.
type ParseError struct {
	Num string
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("jbson: ParseDecimal(%v): %v", e.Num, e.Msg)
}

// Decimal is an arbitrary-precision decimal value.
type Decimal struct {
	n         *big.Int
	scale     int32
	isNegZero bool
}

// NewDecimal creates a new decimal whose value is equal to n * 10^exp. The
// exponent must be greater than math.MinInt32.
func NewDecimal(n *big.Int, exp int32, negZero bool) *Decimal {
	if exp == math.MinInt32 {
		panic(fmt.Sprintf("jbson: NewDecimal exponent %v out of range", exp))
	}
	return &Decimal{
		n:         n,
		scale:     -exp,
		isNegZero: negZero && n.Sign() == 0,
	}
}

// NewDecimalInt creates a new decimal whose value is equal to n.
func NewDecimalInt(n int64) *Decimal {
	return NewDecimal(big.NewInt(n), 0, false)
}

// MustParseDecimal parses the given string into a decimal object,
// panicking on error.
func MustParseDecimal(in string) *Decimal {
	d, err := ParseDecimal(in)
	if err != nil {
		panic(err)
	}
	return d
}

// ParseDecimal parses a JSON number (or the scientific notation produced by
// decimal128 formatting, such as 1.5E+3) into a decimal object.
func ParseDecimal(in string) (*Decimal, error) {
	if len(in) == 0 {
		return nil, &ParseError{in, "empty string"}
	}
	orig := in

	exponent := int64(0)

	e := strings.IndexAny(in, "Ee")
	if e != -1 {
		// There's an explicit exponent.
		exp := in[e+1:]
		if len(exp) == 0 {
			return nil, &ParseError{orig, "unexpected end of input after e"}
		}

		tmp, err := strconv.ParseInt(exp, 10, 32)
		if err != nil {
			return nil, &ParseError{orig, err.Error()}
		}

		exponent = tmp
		in = in[:e]
	}

	d := strings.Index(in, ".")
	if d != -1 {
		// There's zero or more decimal places.
		ipart := in[:d]
		fpart := in[d+1:]

		exponent -= int64(len(fpart))
		in = ipart + fpart
	}

	if exponent <= math.MinInt32 || exponent > math.MaxInt32 {
		return nil, &ParseError{orig, "exponent out of range"}
	}

	n, ok := new(big.Int).SetString(in, 10)
	if !ok {
		return nil, &ParseError{orig, "cannot parse coefficient"}
	}

	isNegZero := n.Sign() == 0 && in[0] == '-'

	return NewDecimal(n, int32(exponent), isNegZero), nil
}

// CoEx returns this decimal's coefficient and exponent.
func (d *Decimal) CoEx() (*big.Int, int32) {
	return d.n, -d.scale
}

// Sign returns -1 if the value is less than 0, 0 if it is equal to zero,
// and +1 if it is greater than zero.
func (d *Decimal) Sign() int {
	return d.n.Sign()
}

// Cmp compares two decimals, returning -1 if d is smaller, +1 if d is
// larger, and 0 if they are equal (ignoring precision).
func (d *Decimal) Cmp(o *Decimal) int {
	dsign, osign := d.n.Sign(), o.n.Sign()
	switch {
	case dsign < osign:
		return -1
	case dsign > osign:
		return 1
	case dsign == 0:
		return 0
	}

	// Leading digits at different exponents settle it without rescaling.
	if da, oa := d.adjusted(), o.adjusted(); da != oa {
		if da < oa {
			return -dsign
		}
		return dsign
	}

	dd, oo := rescale(d, o)
	return dd.n.Cmp(oo.n)
}

// Equal determines if two decimals are equal, ignoring precision.
func (d *Decimal) Equal(o *Decimal) bool {
	return d.Cmp(o) == 0
}

// BigInt returns the value as an integer if it has no fractional part.
func (d *Decimal) BigInt() (*big.Int, bool) {
	if d.scale <= 0 {
		return d.upscale(0).n, true
	}
	if d.n.Sign() == 0 {
		return new(big.Int), true
	}
	if d.adjusted() < 0 {
		// Non-zero and smaller than one.
		return nil, false
	}
	pow := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(d.scale)), nil)
	q, r := new(big.Int).QuoRem(d.n, pow, new(big.Int))
	if r.Sign() != 0 {
		return nil, false
	}
	return q, true
}

// Float64 returns the nearest float64. Values beyond the float64 range become
// infinities.
func (d *Decimal) Float64() float64 {
	f, _ := parseFloat(d.String())
	return f
}

// adjusted returns the exponent of the leading digit, as in 1.5e-9.
func (d *Decimal) adjusted() int64 {
	return int64(len(new(big.Int).Abs(d.n).String())-1) - int64(d.scale)
}

func rescale(a, b *Decimal) (*Decimal, *Decimal) {
	if a.scale < b.scale {
		return a.upscale(b.scale), b
	} else if a.scale > b.scale {
		return a, b.upscale(a.scale)
	} else {
		return a, b
	}
}

// Make 'n' bigger by making 'scale' smaller, since we know we can
// do that. (1e2 -> 10e1). Makes comparisons easier, at the expense
// of more storage space.
func (d *Decimal) upscale(scale int32) *Decimal {
	diff := int64(scale) - int64(d.scale)
	if diff < 0 {
		panic("can't upscale to a smaller scale")
	}

	pow := new(big.Int).Exp(big.NewInt(10), big.NewInt(diff), nil)
	n := new(big.Int).Mul(d.n, pow)

	return &Decimal{
		n:     n,
		scale: scale,
	}
}

// String formats the decimal as a JSON number. Values with a small enough
// exponent are written in plain notation; others use a single leading digit
// and an exponent, as in 1.5e-9.
func (d *Decimal) String() string {
	digits := new(big.Int).Abs(d.n).String()
	adjusted := d.adjusted()

	b := strings.Builder{}
	if d.n.Sign() < 0 || d.isNegZero {
		b.WriteByte('-')
	}

	switch {
	case d.scale == 0:
		b.WriteString(digits)

	case d.scale > 0 && adjusted >= -6:
		idx := len(digits) - int(d.scale)
		if idx > 0 {
			b.WriteString(digits[:idx])
			b.WriteByte('.')
			b.WriteString(digits[idx:])
		} else {
			b.WriteString("0.")
			b.WriteString(strings.Repeat("0", -idx))
			b.WriteString(digits)
		}

	default:
		b.WriteByte(digits[0])
		if len(digits) > 1 {
			b.WriteByte('.')
			b.WriteString(digits[1:])
		}
		b.WriteByte('e')
		b.WriteString(strconv.FormatInt(adjusted, 10))
	}

	return b.String()
}
