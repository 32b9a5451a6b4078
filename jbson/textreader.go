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
	"strconv"
	"strings"
)

// DefaultMaxDepth is the nesting limit used when Options.MaxDepth is zero.
const DefaultMaxDepth = 1000

// trs is the state of the text reader.
type trs uint8

const (
	trsInitial trs = iota
	trsInArray
	trsInObject
	trsEnd
)

func (s trs) String() string {
	switch s {
	case trsInitial:
		return "<initial>"
	case trsInArray:
		return "<inArray>"
	case trsInObject:
		return "<inObject>"
	case trsEnd:
		return "<end>"
	default:
		return strconv.Itoa(int(s))
	}
}

// mark is the last significant token seen inside a container.
type mark uint8

const (
	markStart mark = iota
	markKey
	markValue
	markComma
	markColon
)

// A textReader is a Reader that reads JSON text.
type textReader struct {
	reader

	tok      *tokenizer
	state    trs
	last     mark
	maxDepth int
}

// NewTextReader creates a Reader for JSON text. The input may start with a
// UTF-8, UTF-16 or UTF-32 byte-order mark; UTF-16 and UTF-32 input is
// transcoded to UTF-8, and locations then count bytes of the transcoded text.
func NewTextReader(in io.Reader, opts Options) (Reader, error) {
	utf8In, err := decodeText(in)
	if err != nil {
		return nil, err
	}

	return &textReader{
		reader:   reader{enc: opts.BinaryEncoding},
		tok:      newTokenizer(utf8In, opts.AllowComments),
		maxDepth: opts.maxDepth(),
	}, nil
}

// NewTextReaderStr creates a Reader for the given JSON text.
func NewTextReaderStr(str string, opts Options) Reader {
	r, err := NewTextReader(strings.NewReader(str), opts)
	if err != nil {
		// A strings.Reader never fails.
		panic(err)
	}
	return r
}

// HasNext reports whether another event (or an error) is available. Once the
// root value has been read, it looks for trailing content, which Next then
// reports as a SyntaxError.
func (t *textReader) HasNext() bool {
	if t.err != nil {
		return false
	}
	if t.state != trsEnd {
		return true
	}

	c, err := t.tok.SkipWhitespace()
	if err != nil {
		t.err = err
		return true
	}
	if c == -1 {
		return false
	}

	t.err = t.tok.invalidChar(c, "unexpected content after the end of the document")
	return true
}

// Next advances to the next event.
func (t *textReader) Next() (Event, error) {
	if t.err != nil {
		return t.fail(t.err)
	}
	if t.state == trsEnd {
		if !t.HasNext() {
			return t.noMoreEvents()
		}
		return t.fail(t.err)
	}

	t.clear()

	for {
		c, err := t.tok.SkipWhitespace()
		if err != nil {
			return t.fail(err)
		}
		loc := t.tok.Last()

		switch c {
		case -1:
			return t.fail(&UnexpectedEOFError{loc.Offset})

		case ',':
			if t.state == trsInitial || t.last != markValue {
				return t.fail(t.tok.syntaxError("unexpected ','"))
			}
			t.last = markComma

		case ':':
			if t.state != trsInObject || t.last != markKey {
				return t.fail(t.tok.syntaxError("unexpected ':'"))
			}
			t.last = markColon

		case '{':
			return t.begin(ctxInObject, StartObject, loc)

		case '[':
			return t.begin(ctxInArray, StartArray, loc)

		case '}':
			return t.end(ctxInObject, loc)

		case ']':
			return t.end(ctxInArray, loc)

		case '"':
			if t.state == trsInObject && (t.last == markStart || t.last == markComma) {
				str, err := t.tok.ReadString()
				if err != nil {
					return t.fail(err)
				}
				t.str = str
				t.last = markKey
				return t.emit(KeyName, loc)
			}

			if err := t.beginValue(); err != nil {
				return t.fail(err)
			}
			str, err := t.tok.ReadString()
			if err != nil {
				return t.fail(err)
			}
			t.str = str
			return t.value(ValueString, loc)

		case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			if err := t.beginValue(); err != nil {
				return t.fail(err)
			}
			text, err := t.tok.ReadNumber(c)
			if err != nil {
				return t.fail(err)
			}
			num, err := ParseNumber(text)
			if err != nil {
				return t.fail(&SyntaxError{err.Error(), loc})
			}
			t.num = num
			return t.value(ValueNumber, loc)

		default:
			lit, ok := literals[c]
			if !ok {
				return t.fail(t.tok.invalidChar(c, "unexpected character"))
			}
			if err := t.beginValue(); err != nil {
				return t.fail(err)
			}
			if err := t.tok.ReadLiteral(lit.word); err != nil {
				return t.fail(err)
			}
			return t.value(lit.event, loc)
		}
	}
}

// beginValue verifies that a value may start here.
func (t *textReader) beginValue() error {
	switch t.state {
	case trsInArray:
		if t.last != markStart && t.last != markComma {
			return t.tok.syntaxError("expected ',' or ']'")
		}
	case trsInObject:
		switch t.last {
		case markStart, markComma:
			return t.tok.syntaxError("expected a string key")
		case markKey:
			return t.tok.syntaxError("expected ':'")
		case markValue:
			return t.tok.syntaxError("expected ',' or '}'")
		}
	}
	return nil
}

// value finishes a scalar value event.
func (t *textReader) value(ev Event, loc Location) (Event, error) {
	t.afterValue()
	return t.emit(ev, loc)
}

// afterValue moves to the state that follows a complete value.
func (t *textReader) afterValue() {
	if t.ctx.len() == 0 {
		t.state = trsEnd
		return
	}
	t.last = markValue
}

// begin opens a container.
func (t *textReader) begin(c ctx, ev Event, loc Location) (Event, error) {
	if err := t.beginValue(); err != nil {
		return t.fail(err)
	}
	if t.ctx.len() >= t.maxDepth {
		return t.fail(&StructuralError{fmt.Sprintf("nesting exceeds the maximum depth of %v", t.maxDepth), loc})
	}

	t.ctx.push(c)
	t.state = stateFor(c)
	t.last = markStart
	return t.emit(ev, loc)
}

// end closes the innermost container, which must be of kind c.
func (t *textReader) end(c ctx, loc Location) (Event, error) {
	closer := "}"
	if c == ctxInArray {
		closer = "]"
	}

	if t.ctx.peek() != c {
		return t.fail(&StructuralError{fmt.Sprintf("unexpected '%v' in %v", closer, t.ctx.peek()), loc})
	}
	switch t.last {
	case markComma:
		return t.fail(t.tok.syntaxError(fmt.Sprintf("expected a value before '%v'", closer)))
	case markKey, markColon:
		return t.fail(t.tok.syntaxError(fmt.Sprintf("expected a member value before '%v'", closer)))
	}

	t.ctx.pop()
	t.state = stateFor(t.ctx.peek())
	t.afterValue()
	return t.emit(c.endEvent(), loc)
}

// stateFor returns the reader state inside the given context.
func stateFor(c ctx) trs {
	switch c {
	case ctxInObject:
		return trsInObject
	case ctxInArray:
		return trsInArray
	default:
		return trsEnd
	}
}
