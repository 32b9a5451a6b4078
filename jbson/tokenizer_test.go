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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenizeString(in string) *tokenizer {
	return newTokenizer(strings.NewReader(in), false)
}

func tokenizeComments(in string) *tokenizer {
	return newTokenizer(strings.NewReader(in), true)
}

func TestSkipWhitespace(t *testing.T) {
	test := func(str string, ec int) {
		t.Run(str, func(t *testing.T) {
			tok := tokenizeComments(str)
			c, err := tok.SkipWhitespace()
			require.NoError(t, err)
			assert.Equal(t, ec, c)
		})
	}

	test("xyz_", 'x')
	test(" xyz_", 'x')
	test(" \t\r\n [", '[')
	test("\t\t  // comment\t\r\n\t\t  x", 'x')
	test(" \r\n /* comment *//* \r\n comment */x", 'x')
	test("/* a ** b */1", '1')
	test("// only a comment", -1)
	test("", -1)
}

func TestSkipWhitespaceCommentsDisabled(t *testing.T) {
	tok := tokenizeString("  // comment\n1")
	_, err := tok.SkipWhitespace()
	require.Error(t, err)

	var se *SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, Location{Line: 1, Column: 3, Offset: 2}, se.Loc)
}

func TestSkipInvalidComments(t *testing.T) {
	tok := tokenizeComments("/* this is a comment that never ends")
	_, err := tok.SkipWhitespace()
	var eof *UnexpectedEOFError
	require.ErrorAs(t, err, &eof)

	tok = tokenizeComments("/x")
	_, err = tok.SkipWhitespace()
	var se *SyntaxError
	require.ErrorAs(t, err, &se)
}

func TestReadNumber(t *testing.T) {
	test := func(str string, eval string, next int) {
		t.Run(str, func(t *testing.T) {
			tok := tokenizeString(str)
			c, err := tok.read()
			require.NoError(t, err)

			val, err := tok.ReadNumber(c)
			require.NoError(t, err)
			assert.Equal(t, eval, val)

			read(t, tok, next)
		})
	}

	test("0", "0", -1)
	test("-0", "-0", -1)
	test("123,", "123", ',')
	test("-1234}", "-1234", '}')
	test("0.5]", "0.5", ']')
	test("1e10 ", "1e10", ' ')
	test("1E+10", "1E+10", -1)
	test("-2.5e-3\n", "-2.5e-3", '\n')
	test("12345678901234567890123", "12345678901234567890123", -1)
}

func TestReadBadNumber(t *testing.T) {
	test := func(str string, eoff uint64) {
		t.Run(str, func(t *testing.T) {
			tok := tokenizeString(str)
			c, err := tok.read()
			require.NoError(t, err)

			_, err = tok.ReadNumber(c)
			require.Error(t, err)

			var se *SyntaxError
			if assert.ErrorAs(t, err, &se) {
				assert.Equal(t, eoff, se.Loc.Offset)
			}
		})
	}

	test("01", 1)
	test("-x", 1)
	test("1.x", 2)
	test("1.]", 2)
	test("1e]", 2)
	test("1e+]", 3)
	test("-.5", 1)
}

func TestReadTruncatedNumber(t *testing.T) {
	for _, str := range []string{"-", "1.", "1e", "1e+"} {
		tok := tokenizeString(str)
		c, err := tok.read()
		require.NoError(t, err)

		_, err = tok.ReadNumber(c)
		var eof *UnexpectedEOFError
		assert.ErrorAs(t, err, &eof, str)
	}
}

func TestReadString(t *testing.T) {
	test := func(str string, eval string) {
		t.Run(str, func(t *testing.T) {
			tok := tokenizeString(str)
			val, err := tok.ReadString()
			require.NoError(t, err)
			assert.Equal(t, eval, val)
		})
	}

	test(`"`, "")
	test(`abc"`, "abc")
	test(`a\"b\\c\/d"`, `a"b\c/d`)
	test(`\b\f\n\r\t"`, "\b\f\n\r\t")
	test(`Aé中"`, "Aé中")
	test(`😀"`, "\U0001F600")
	test(`\uD83Dx"`, "�x")
	test(`\uDE00"`, "�")
	test(`héllo"`, "héllo")
	test("a\xffb\"", "a\uFFFDb")
	test("\xc3\"", "\uFFFD")
	test("\xff\xfe\xfdz\"", "\uFFFDz")
	test("\xed\xa0\x80\"", "\uFFFD")
}

func TestReadBadString(t *testing.T) {
	test := func(str string) {
		t.Run(str, func(t *testing.T) {
			tok := tokenizeString(str)
			_, err := tok.ReadString()
			require.Error(t, err)
		})
	}

	test(`abc`)
	test(`\x"`)
	test(`\u12G4"`)
	test("a\nb\"")
	test(`\uD83D\n"`)
}

func TestReadLiteral(t *testing.T) {
	tok := tokenizeString("true")
	read(t, tok, 't')
	require.NoError(t, tok.ReadLiteral("true"))
	read(t, tok, -1)

	tok = tokenizeString("nul")
	read(t, tok, 'n')
	var eof *UnexpectedEOFError
	require.ErrorAs(t, tok.ReadLiteral("null"), &eof)

	tok = tokenizeString("fals3")
	read(t, tok, 'f')
	var se *SyntaxError
	require.ErrorAs(t, tok.ReadLiteral("false"), &se)
	assert.Equal(t, uint64(4), se.Loc.Offset)
}

func TestLocation(t *testing.T) {
	tok := tokenizeString("a\nbé\ncd")

	expect := func(ec int, eloc Location) {
		c, err := tok.read()
		require.NoError(t, err)
		assert.Equal(t, ec, c)
		assert.Equal(t, eloc, tok.Last())
	}

	expect('a', Location{1, 1, 0})
	expect('\n', Location{1, 2, 1})
	expect('b', Location{2, 1, 2})
	expect(0xC3, Location{2, 2, 3})
	expect(0xA9, Location{2, 3, 4})
	expect('\n', Location{2, 3, 5})
	expect('c', Location{3, 1, 6})

	c, err := tok.read()
	require.NoError(t, err)
	tok.unread(c)
	expect('d', Location{3, 2, 7})
	expect(-1, Location{3, 3, 8})
}

func TestReadAcrossBlocks(t *testing.T) {
	str := strings.Repeat(" ", blockSize+10) + `"` + strings.Repeat("x", blockSize) + `"`
	tok := tokenizeString(str)

	c, err := tok.SkipWhitespace()
	require.NoError(t, err)
	assert.Equal(t, int('"'), c)
	assert.Equal(t, Location{1, blockSize + 11, blockSize + 10}, tok.Last())

	val, err := tok.ReadString()
	require.NoError(t, err)
	assert.Equal(t, blockSize, len(val))
}

func TestUnread(t *testing.T) {
	tok := tokenizeString("ab")

	read(t, tok, 'a')
	tok.unread('a')
	read(t, tok, 'a')
	read(t, tok, 'b')
	read(t, tok, -1)
	tok.unread(-1)
	read(t, tok, -1)

	assert.Panics(t, func() {
		tok.unread('x')
		tok.unread('y')
	})
}

func read(t *testing.T, tok *tokenizer, ec int) {
	c, err := tok.read()
	require.NoError(t, err)
	assert.Equal(t, ec, c)
}
