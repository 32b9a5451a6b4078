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
	"encoding/base64"
	"encoding/hex"
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Doubles whose leading digit has a decimal exponent in [plainMinExp, plainMaxExp)
// are written without an exponent.
const (
	plainMinExp = -3
	plainMaxExp = 7
)

// Is this a digit?
func isDigit(c int) bool {
	return c >= '0' && c <= '9'
}

// Is this character whitespace?
func isWhitespace(c int) bool {
	switch c {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

// Formats a float64 as the shortest JSON number that reads back as the same
// bits. NaN and the infinities have no JSON form and are written as bare words.
func formatFloat(val float64) string {
	switch {
	case math.IsNaN(val):
		return "NaN"
	case math.IsInf(val, 1):
		return "Infinity"
	case math.IsInf(val, -1):
		return "-Infinity"
	case val == 0:
		if math.Signbit(val) {
			// A bare -0 would read back as the integer zero.
			return "-0.0"
		}
		return "0"
	}

	str := strconv.FormatFloat(val, 'e', -1, 64)

	b := strings.Builder{}
	if str[0] == '-' {
		b.WriteByte('-')
		str = str[1:]
	}

	idx := strings.IndexByte(str, 'e')
	exp, _ := strconv.Atoi(str[idx+1:])
	digits := strings.Replace(str[:idx], ".", "", 1)

	switch {
	case exp < plainMinExp || exp >= plainMaxExp:
		b.WriteByte(digits[0])
		if len(digits) > 1 {
			b.WriteByte('.')
			b.WriteString(digits[1:])
		}
		b.WriteByte('e')
		b.WriteString(strconv.Itoa(exp))

	case exp < 0:
		b.WriteString("0.")
		b.WriteString(strings.Repeat("0", -exp-1))
		b.WriteString(digits)

	case len(digits) <= exp+1:
		b.WriteString(digits)
		b.WriteString(strings.Repeat("0", exp+1-len(digits)))

	default:
		b.WriteString(digits[:exp+1])
		b.WriteByte('.')
		b.WriteString(digits[exp+1:])
	}

	return b.String()
}

// Write the given string out, escaping any characters that need escaping.
func writeEscapedString(str string, out io.Writer) error {
	start := 0
	for i := 0; i < len(str); i++ {
		c := str[i]
		if c < 32 || c == '\\' || c == '"' {
			if err := writeRawString(str[start:i], out); err != nil {
				return err
			}
			if err := writeEscapedChar(c, out); err != nil {
				return err
			}
			start = i + 1
		}
	}
	return writeRawString(str[start:], out)
}

// Write out the given character in escaped form.
func writeEscapedChar(c byte, out io.Writer) error {
	switch c {
	case '\b':
		return writeRawString("\\b", out)
	case '\t':
		return writeRawString("\\t", out)
	case '\n':
		return writeRawString("\\n", out)
	case '\f':
		return writeRawString("\\f", out)
	case '\r':
		return writeRawString("\\r", out)
	case '"':
		return writeRawString("\\\"", out)
	case '\\':
		return writeRawString("\\\\", out)
	default:
		buf := []byte{'\\', 'u', '0', '0', hexChars[(c>>4)&0xF], hexChars[c&0xF]}
		return writeRawChars(buf, out)
	}
}

// Write out the given raw string.
func writeRawString(s string, out io.Writer) error {
	if len(s) == 0 {
		return nil
	}
	_, err := io.WriteString(out, s)
	return err
}

// Write out the given raw character sequence.
func writeRawChars(cs []byte, out io.Writer) error {
	_, err := out.Write(cs)
	return err
}

// Write out the given raw character.
func writeRawChar(c byte, out io.Writer) error {
	_, err := out.Write([]byte{c})
	return err
}

func parseFloat(str string) (float64, error) {
	val, err := strconv.ParseFloat(str, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok {
			if ne.Err == strconv.ErrRange {
				// Ignore me, val will be +-inf which is fine.
				return val, nil
			}
		}
	}
	return val, err
}

// parseInt parses a string of decimal digits into an int64, or a *big.Int if it
// does not fit.
func parseInt(str string) (interface{}, error) {
	i, err := strconv.ParseInt(str, 10, 64)
	if err == nil {
		return i, nil
	}
	if err.(*strconv.NumError).Err != strconv.ErrRange {
		return nil, err
	}

	bi, ok := (&big.Int{}).SetString(str, 10)
	if !ok {
		return nil, &strconv.NumError{
			Func: "ParseInt",
			Num:  str,
			Err:  strconv.ErrSyntax,
		}
	}

	return bi, nil
}

// encodeBinary renders a binary payload as text.
func encodeBinary(enc BinaryEncoding, b []byte) string {
	if enc == Hex {
		return hex.EncodeToString(b)
	}
	return base64.StdEncoding.EncodeToString(b)
}

// decodeBinary reverses encodeBinary.
func decodeBinary(enc BinaryEncoding, s string) ([]byte, error) {
	if enc == Hex {
		return hex.DecodeString(s)
	}
	return base64.StdEncoding.DecodeString(s)
}
