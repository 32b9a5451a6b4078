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

// NumberKind is the representation a Number carries.
type NumberKind uint8

const (
	// NoNumber is the kind of the zero Number.
	NoNumber NumberKind = iota
	// Int32Kind is an integer that fits in 32 bits.
	Int32Kind
	// Int64Kind is an integer that fits in 64 bits but not 32.
	Int64Kind
	// BigKind is an integer too wide for 64 bits.
	BigKind
	// DecimalKind is an exact decimal, such as a JSON literal with a fraction
	// or an exponent, or a BSON decimal128.
	DecimalKind
	// FloatKind is a binary64 floating point value.
	FloatKind
)

// String implements fmt.Stringer for NumberKind.
func (k NumberKind) String() string {
	switch k {
	case NoNumber:
		return "none"
	case Int32Kind:
		return "int32"
	case Int64Kind:
		return "int64"
	case BigKind:
		return "big integer"
	case DecimalKind:
		return "decimal"
	case FloatKind:
		return "float64"
	default:
		return fmt.Sprintf("<unknown number kind %v>", uint8(k))
	}
}

// Number is a numeric value together with the narrowest representation that
// holds it. Integers are always stored at their narrowest width.
type Number struct {
	kind NumberKind
	i    int64
	f    float64
	b    *big.Int
	d    *Decimal
	text string
}

// NumberFromInt64 returns an integral Number of the narrowest kind.
func NumberFromInt64(v int64) Number {
	if v >= math.MinInt32 && v <= math.MaxInt32 {
		return Number{kind: Int32Kind, i: v}
	}
	return Number{kind: Int64Kind, i: v}
}

// NumberFromBigInt returns an integral Number of the narrowest kind.
func NumberFromBigInt(v *big.Int) Number {
	if v.IsInt64() {
		return NumberFromInt64(v.Int64())
	}
	return Number{kind: BigKind, b: new(big.Int).Set(v)}
}

// NumberFromFloat returns a FloatKind Number.
func NumberFromFloat(v float64) Number {
	return Number{kind: FloatKind, f: v}
}

// NumberFromDecimal returns a DecimalKind Number.
func NumberFromDecimal(d *Decimal) Number {
	return Number{kind: DecimalKind, d: d}
}

// ParseNumber parses a JSON number literal. Literals without a fraction or an
// exponent are integral and take the narrowest integer kind; all others are
// exact decimals that remember their original text.
func ParseNumber(text string) (Number, error) {
	if strings.ContainsAny(text, ".eE") {
		d, err := ParseDecimal(text)
		if err != nil {
			return Number{}, err
		}
		return Number{kind: DecimalKind, d: d, text: text}, nil
	}

	v, err := parseInt(text)
	if err != nil {
		return Number{}, err
	}
	switch v := v.(type) {
	case int64:
		return NumberFromInt64(v), nil
	default:
		return NumberFromBigInt(v.(*big.Int)), nil
	}
}

// Kind returns the representation of the number.
func (n Number) Kind() NumberKind {
	return n.kind
}

// IsIntegral reports whether the number was produced as an integer, as opposed
// to a decimal or floating point value that happens to have no fraction.
func (n Number) IsIntegral() bool {
	switch n.kind {
	case Int32Kind, Int64Kind, BigKind:
		return true
	}
	return false
}

// Int32 returns the value as an int32, or a NumericOverflowError if it is not
// an integer in range.
func (n Number) Int32() (int32, error) {
	v, err := n.Int64()
	if err != nil || v < math.MinInt32 || v > math.MaxInt32 {
		return 0, &NumericOverflowError{n.String(), "int32"}
	}
	return int32(v), nil
}

// Int64 returns the value as an int64, or a NumericOverflowError if it is not
// an integer in range.
func (n Number) Int64() (int64, error) {
	switch n.kind {
	case Int32Kind, Int64Kind:
		return n.i, nil
	case DecimalKind:
		// An int64 has at most 19 digits.
		if n.decimal().adjusted() > 18 {
			return 0, &NumericOverflowError{n.String(), "int64"}
		}
	}
	b, ok := n.exactInt()
	if !ok || !b.IsInt64() {
		return 0, &NumericOverflowError{n.String(), "int64"}
	}
	return b.Int64(), nil
}

// BigInt returns the value as an arbitrary-precision integer, or a
// NumericOverflowError if it has a fractional part.
func (n Number) BigInt() (*big.Int, error) {
	b, ok := n.exactInt()
	if !ok {
		return nil, &NumericOverflowError{n.String(), "integer"}
	}
	return b, nil
}

func (n Number) exactInt() (*big.Int, bool) {
	switch n.kind {
	case Int32Kind, Int64Kind:
		return big.NewInt(n.i), true
	case BigKind:
		return new(big.Int).Set(n.b), true
	case DecimalKind:
		return n.decimal().BigInt()
	case FloatKind:
		if math.IsNaN(n.f) || math.IsInf(n.f, 0) || n.f != math.Trunc(n.f) {
			return nil, false
		}
		b, _ := new(big.Float).SetFloat64(n.f).Int(nil)
		return b, true
	}
	return nil, false
}

// Decimal returns the exact decimal value. NaN and the infinities have no
// decimal form.
func (n Number) Decimal() (*Decimal, error) {
	switch n.kind {
	case Int32Kind, Int64Kind:
		return NewDecimalInt(n.i), nil
	case BigKind:
		return NewDecimal(new(big.Int).Set(n.b), 0, false), nil
	case DecimalKind:
		return n.decimal(), nil
	case FloatKind:
		if math.IsNaN(n.f) || math.IsInf(n.f, 0) {
			return nil, &NumericOverflowError{n.String(), "decimal"}
		}
		return ParseDecimal(formatFloat(n.f))
	}
	return nil, &NumericOverflowError{n.String(), "decimal"}
}

func (n Number) decimal() *Decimal {
	if n.d == nil {
		return MustParseDecimal(n.text)
	}
	return n.d
}

// Float64 returns the nearest float64. Out-of-range values become infinities.
func (n Number) Float64() float64 {
	switch n.kind {
	case Int32Kind, Int64Kind:
		return float64(n.i)
	case BigKind:
		f, _ := new(big.Float).SetInt(n.b).Float64()
		return f
	case DecimalKind:
		f, _ := parseFloat(n.String())
		return f
	case FloatKind:
		return n.f
	}
	return 0
}

// String returns the canonical text of the number. Decimals parsed from JSON
// keep their original literal.
func (n Number) String() string {
	switch n.kind {
	case Int32Kind, Int64Kind:
		return strconv.FormatInt(n.i, 10)
	case BigKind:
		return n.b.String()
	case DecimalKind:
		if n.text != "" {
			return n.text
		}
		return n.d.String()
	case FloatKind:
		return formatFloat(n.f)
	}
	return "<no number>"
}

// Cmp compares two numbers by value, regardless of kind. NaN compares equal to
// everything; use Equal to tell it apart.
func (n Number) Cmp(o Number) int {
	if !n.isFinite() || !o.isFinite() {
		a, b := n.Float64(), o.Float64()
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	}
	a, _ := n.Decimal()
	b, _ := o.Decimal()
	return a.Cmp(b)
}

// Equal reports whether two numbers have the same value, regardless of kind.
// NaN equals NaN.
func (n Number) Equal(o Number) bool {
	an, bn := n.isNaN(), o.isNaN()
	if an || bn {
		return an && bn
	}
	return n.Cmp(o) == 0
}

func (n Number) isFinite() bool {
	return n.kind != FloatKind || !(math.IsNaN(n.f) || math.IsInf(n.f, 0))
}

func (n Number) isNaN() bool {
	return n.kind == FloatKind && math.IsNaN(n.f)
}

// exactFloat returns the float64 that holds this number with no loss, if there is one.
func (n Number) exactFloat() (float64, bool) {
	if n.kind == FloatKind {
		return n.f, true
	}
	d, err := n.Decimal()
	if err != nil {
		return 0, false
	}
	if d.Sign() == 0 {
		return n.Float64(), true
	}
	// Finite non-zero doubles lie between 4.9e-324 and 1.8e308.
	if adj := d.adjusted(); adj < -325 || adj > 308 {
		return 0, false
	}
	f := n.Float64()
	if f == 0 || math.IsInf(f, 0) {
		return 0, false
	}
	back, err := ParseDecimal(formatFloat(f))
	if err != nil {
		return 0, false
	}
	return f, back.Cmp(d) == 0
}
