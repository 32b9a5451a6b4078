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
	"io"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// blockSize is the number of bytes the tokenizer pulls from its source at once.
const blockSize = 4096

// A tokenizer reads the lexical elements of JSON text (strings, numbers,
// literals, punctuation, whitespace and comments) from UTF-8 input, tracking
// the location of every character it consumes.
type tokenizer struct {
	in    io.Reader
	block []byte
	next  int
	end   int
	eof   bool

	comments bool

	// Location of the next character to be read, and of the last one read.
	here Location
	last Location

	pushed  bool
	pushedC int

	sbuf []byte
}

func newTokenizer(in io.Reader, comments bool) *tokenizer {
	return &tokenizer{
		in:       in,
		block:    make([]byte, blockSize),
		comments: comments,
		here:     Location{Line: 1, Column: 1},
	}
}

// Pos returns the byte offset of the next character.
func (t *tokenizer) Pos() uint64 {
	return t.here.Offset
}

// Last returns the location of the last character read.
func (t *tokenizer) Last() Location {
	return t.last
}

// SkipWhitespace skips whitespace (and comments, if enabled) and returns the
// first significant character, or -1 at the end of input. Last reports its
// location.
func (t *tokenizer) SkipWhitespace() (int, error) {
	for {
		c, err := t.read()
		if err != nil {
			return 0, err
		}

		switch {
		case isWhitespace(c):
			// Skip it.

		case c == '/':
			if !t.comments {
				return 0, t.syntaxError("comments are not enabled")
			}
			if err := t.skipComment(); err != nil {
				return 0, err
			}

		default:
			return c, nil
		}
	}
}

// skipComment skips the body of a comment whose leading '/' has been read.
func (t *tokenizer) skipComment() error {
	c, err := t.read()
	if err != nil {
		return err
	}

	switch c {
	case '/':
		for c != '\n' && c != -1 {
			if c, err = t.read(); err != nil {
				return err
			}
		}
		return nil

	case '*':
		star := false
		for {
			c, err := t.read()
			if err != nil {
				return err
			}
			switch {
			case c == -1:
				return &UnexpectedEOFError{t.here.Offset}
			case c == '/' && star:
				return nil
			}
			star = c == '*'
		}

	default:
		return t.invalidChar(c, "expected '/' or '*' after '/'")
	}
}

// ReadLiteral reads the rest of one of the words true, false or null, whose
// first character has been read.
func (t *tokenizer) ReadLiteral(word string) error {
	for i := 1; i < len(word); i++ {
		c, err := t.read()
		if err != nil {
			return err
		}
		if c != int(word[i]) {
			return t.invalidChar(c, fmt.Sprintf("invalid literal, expected %q", word))
		}
	}
	return nil
}

// ReadNumber reads a number whose first character ('-' or a digit) has been read.
//
//	number = [ "-" ] int [ frac ] [ exp ]
//	int    = "0" / ( digit1-9 *digit )
//	frac   = "." 1*digit
//	exp    = ( "e" / "E" ) [ "-" / "+" ] 1*digit
func (t *tokenizer) ReadNumber(c int) (string, error) {
	w := t.sbuf[:0]

	if c == '-' {
		w = append(w, '-')

		var err error
		if c, err = t.read(); err != nil {
			return "", err
		}
	}

	switch {
	case c == '0':
		w = append(w, '0')

		var err error
		if c, err = t.read(); err != nil {
			return "", err
		}
		if isDigit(c) {
			return "", t.invalidChar(c, "invalid leading zero in number")
		}

	case isDigit(c):
		var err error
		if w, c, err = t.readDigits(c, w); err != nil {
			return "", err
		}

	default:
		return "", t.invalidChar(c, "expected a digit")
	}

	if c == '.' {
		w = append(w, '.')

		var err error
		if c, err = t.read(); err != nil {
			return "", err
		}
		if !isDigit(c) {
			return "", t.invalidChar(c, "expected a digit after '.'")
		}
		if w, c, err = t.readDigits(c, w); err != nil {
			return "", err
		}
	}

	if c == 'e' || c == 'E' {
		w = append(w, byte(c))

		var err error
		if c, err = t.read(); err != nil {
			return "", err
		}
		if c == '+' || c == '-' {
			w = append(w, byte(c))
			if c, err = t.read(); err != nil {
				return "", err
			}
		}
		if !isDigit(c) {
			return "", t.invalidChar(c, "expected a digit in exponent")
		}
		if w, c, err = t.readDigits(c, w); err != nil {
			return "", err
		}
	}

	t.unread(c)
	t.sbuf = w
	return string(w), nil
}

// readDigits appends c and the digits that follow it, returning the first
// non-digit character.
func (t *tokenizer) readDigits(c int, w []byte) ([]byte, int, error) {
	for isDigit(c) {
		w = append(w, byte(c))

		var err error
		if c, err = t.read(); err != nil {
			return w, 0, err
		}
	}
	return w, c, nil
}

// ReadString reads a string whose opening quote has been read, decoding escapes.
// Each run of bytes that is not valid UTF-8 becomes a single U+FFFD.
func (t *tokenizer) ReadString() (string, error) {
	w := t.sbuf[:0]

	for {
		c, err := t.read()
		if err != nil {
			return "", err
		}

		switch {
		case c == -1:
			return "", &UnexpectedEOFError{t.here.Offset}

		case c == '"':
			t.sbuf = w
			if !utf8.Valid(w) {
				return strings.ToValidUTF8(string(w), "\uFFFD"), nil
			}
			return string(w), nil

		case c == '\\':
			r, err := t.readEscapedChar()
			if err != nil {
				return "", err
			}
			if utf16.IsSurrogate(r) {
				if r, err = t.readSurrogatePair(r); err != nil {
					return "", err
				}
			}
			w = utf8.AppendRune(w, r)

		case c < 0x20:
			return "", t.invalidChar(c, "unescaped control character in string")

		default:
			w = append(w, byte(c))
		}
	}
}

// readSurrogatePair combines the surrogate r with a following \uXXXX low
// surrogate. Unpaired surrogates decode to U+FFFD.
func (t *tokenizer) readSurrogatePair(r rune) (rune, error) {
	if r >= 0xDC00 {
		return utf8.RuneError, nil
	}

	c, err := t.read()
	if err != nil {
		return 0, err
	}
	if c != '\\' {
		t.unread(c)
		return utf8.RuneError, nil
	}

	c, err = t.read()
	if err != nil {
		return 0, err
	}
	if c != 'u' {
		return 0, t.invalidChar(c, "expected a \\u escape after a high surrogate")
	}

	r2, err := t.readHexEscapeSeq(4)
	if err != nil {
		return 0, err
	}

	return utf16.DecodeRune(r, r2), nil
}

// readEscapedChar reads the character following a backslash.
func (t *tokenizer) readEscapedChar() (rune, error) {
	c, err := t.read()
	if err != nil {
		return 0, err
	}

	switch c {
	case '"', '\\', '/':
		return rune(c), nil
	case 'b':
		return '\b', nil
	case 'f':
		return '\f', nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case 'u':
		return t.readHexEscapeSeq(4)
	}

	return 0, t.invalidChar(c, "invalid escape sequence")
}

// readHexEscapeSeq reads a hex escape of the given length.
func (t *tokenizer) readHexEscapeSeq(length int) (rune, error) {
	val := rune(0)

	for length > 0 {
		c, err := t.read()
		if err != nil {
			return 0, err
		}

		d, err := t.fromHex(c)
		if err != nil {
			return 0, err
		}

		val = (val << 4) | rune(d)
		length--
	}

	return val, nil
}

// fromHex converts a hex digit to its value.
func (t *tokenizer) fromHex(c int) (int, error) {
	switch {
	case isDigit(c):
		return c - '0', nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, nil
	}
	return 0, t.invalidChar(c, "invalid hex digit in \\u escape")
}

// invalidChar returns an error describing the unexpected character c, which
// must be the last one read.
func (t *tokenizer) invalidChar(c int, msg string) error {
	if c == -1 {
		return &UnexpectedEOFError{t.last.Offset}
	}
	return &SyntaxError{fmt.Sprintf("%v: unexpected %q", msg, rune(c)), t.last}
}

func (t *tokenizer) syntaxError(msg string) error {
	return &SyntaxError{msg, t.last}
}

// read reads the next byte, returning -1 at the end of input.
func (t *tokenizer) read() (int, error) {
	t.last = t.here

	var c int
	if t.pushed {
		t.pushed = false
		c = t.pushedC
	} else {
		if t.next == t.end {
			if err := t.fill(); err != nil {
				return 0, err
			}
			if t.next == t.end {
				return -1, nil
			}
		}
		c = int(t.block[t.next])
		t.next++
	}

	t.here.Offset++
	switch {
	case c == '\n':
		t.here.Line++
		t.here.Column = 1
	case c&0xC0 != 0x80:
		// UTF-8 continuation bytes belong to the preceding character.
		t.here.Column++
	}
	return c, nil
}

// unread pushes back the last character read. Only one character may be
// pushed back at a time.
func (t *tokenizer) unread(c int) {
	if t.pushed {
		panic("unread called twice")
	}
	t.here = t.last
	if c == -1 {
		return
	}
	t.pushed = true
	t.pushedC = c
}

// fill reads the next block of input.
func (t *tokenizer) fill() error {
	t.next, t.end = 0, 0
	for !t.eof && t.end == 0 {
		n, err := t.in.Read(t.block)
		t.end = n
		if err == io.EOF {
			t.eof = true
		} else if err != nil {
			return &IOError{err, t.here.Offset}
		}
	}
	return nil
}
