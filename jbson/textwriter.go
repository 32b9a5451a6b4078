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
	"bufio"
	"io"
	"math/big"
	"strconv"
)

// DefaultIndent is the indent unit used by pretty writers when Options.Indent is empty.
const DefaultIndent = "  "

// textWriter is a writer that writes JSON text.
type textWriter struct {
	writer
	out            *bufio.Writer
	pretty         bool
	indentUnit     string
	rawKeys        bool
	enc            BinaryEncoding
	needsSeparator bool
	emptyContainer bool
	emptyStream    bool
	indent         int
}

// NewTextWriter returns a new writer for JSON text. Output is buffered; call
// Flush or Finish to push it to out.
func NewTextWriter(out io.Writer, opts Options) Writer {
	indent := opts.Indent
	if indent == "" {
		indent = DefaultIndent
	}

	return &textWriter{
		out:         bufio.NewWriter(&offsetWriter{out: out}),
		pretty:      opts.Pretty,
		indentUnit:  indent,
		rawKeys:     opts.RawKeys,
		enc:         opts.BinaryEncoding,
		emptyStream: true,
	}
}

// WriteNull writes a null.
func (w *textWriter) WriteNull() error {
	return w.writeValue("Writer.WriteNull", "null")
}

// WriteBool writes a boolean value.
func (w *textWriter) WriteBool(val bool) error {
	str := "false"
	if val {
		str = "true"
	}
	return w.writeValue("Writer.WriteBool", str)
}

// WriteInt writes an integer value.
func (w *textWriter) WriteInt(val int64) error {
	return w.writeValue("Writer.WriteInt", strconv.FormatInt(val, 10))
}

// WriteBigInt writes a (big) integer value.
func (w *textWriter) WriteBigInt(val *big.Int) error {
	return w.writeValue("Writer.WriteBigInt", val.String())
}

// WriteFloat writes a floating-point value.
func (w *textWriter) WriteFloat(val float64) error {
	return w.writeValue("Writer.WriteFloat", formatFloat(val))
}

// WriteDecimal writes an arbitrary-precision decimal value.
func (w *textWriter) WriteDecimal(val *Decimal) error {
	return w.writeValue("Writer.WriteDecimal", val.String())
}

// WriteNumber writes a number. Integers are written as plain digits, floats in
// their shortest round-trip form and decimals exactly.
func (w *textWriter) WriteNumber(val Number) error {
	if val.Kind() == NoNumber {
		if w.err == nil {
			w.err = &UsageError{"Writer.WriteNumber", "number has no value"}
		}
		return w.err
	}
	return w.writeValue("Writer.WriteNumber", val.String())
}

// WriteString writes a string.
func (w *textWriter) WriteString(val string) error {
	return w.writeQuoted("Writer.WriteString", val)
}

// WriteBytes writes a binary payload as an encoded string.
func (w *textWriter) WriteBytes(val []byte) error {
	return w.writeQuoted("Writer.WriteBytes", encodeBinary(w.enc, val))
}

// BeginArray begins writing an array.
func (w *textWriter) BeginArray() error {
	if w.err == nil {
		w.err = w.begin("Writer.BeginArray", ctxInArray, '[')
	}
	return w.err
}

// EndArray finishes writing an array.
func (w *textWriter) EndArray() error {
	if w.err == nil {
		w.err = w.end("Writer.EndArray", ctxInArray, ']')
	}
	return w.err
}

// BeginObject begins writing an object.
func (w *textWriter) BeginObject() error {
	if w.err == nil {
		w.err = w.begin("Writer.BeginObject", ctxInObject, '{')
	}
	return w.err
}

// EndObject finishes writing an object.
func (w *textWriter) EndObject() error {
	if w.err == nil {
		w.err = w.end("Writer.EndObject", ctxInObject, '}')
	}
	return w.err
}

// Flush writes any buffered text to the underlying writer.
func (w *textWriter) Flush() error {
	if w.err != nil {
		return w.err
	}
	w.err = w.out.Flush()
	return w.err
}

// Finish finishes writing the current document. Pretty output ends with a newline.
func (w *textWriter) Finish() error {
	if w.err != nil {
		return w.err
	}
	if w.err = w.checkFinish(); w.err != nil {
		return w.err
	}

	if !w.emptyStream && w.pretty {
		if w.err = writeRawChar('\n', w.out); w.err != nil {
			return w.err
		}
		w.needsSeparator = false
	}
	w.emptyStream = true

	return w.Flush()
}

// writeValue writes a pre-rendered value to the output stream.
func (w *textWriter) writeValue(api string, val string) error {
	if w.err != nil {
		return w.err
	}
	if w.err = w.beginValue(api); w.err != nil {
		return w.err
	}

	if w.err = writeRawString(val, w.out); w.err != nil {
		return w.err
	}

	w.endValue()
	return nil
}

// writeQuoted writes an escaped, quoted string value.
func (w *textWriter) writeQuoted(api string, val string) error {
	if w.err != nil {
		return w.err
	}
	if w.err = w.beginValue(api); w.err != nil {
		return w.err
	}

	if w.err = writeRawChar('"', w.out); w.err != nil {
		return w.err
	}
	if w.err = writeEscapedString(val, w.out); w.err != nil {
		return w.err
	}
	if w.err = writeRawChar('"', w.out); w.err != nil {
		return w.err
	}

	w.endValue()
	return nil
}

// beginValue begins the process of writing a value, by writing out
// a separator (if needed) and key (if in an object).
func (w *textWriter) beginValue(api string) error {
	if w.IsInObject() && w.fieldName == nil {
		return &UsageError{api, "field name not set"}
	}
	if !w.IsInObject() && w.fieldName != nil {
		return &UsageError{api, "field name set outside of an object"}
	}

	if w.needsSeparator {
		if err := w.writeSeparator(); err != nil {
			return err
		}
	}

	if w.emptyContainer && w.pretty {
		if err := writeRawChar('\n', w.out); err != nil {
			return err
		}
	}

	if w.pretty {
		if err := w.writeIndent(); err != nil {
			return err
		}
	}

	if w.IsInObject() {
		if err := w.writeFieldName(api); err != nil {
			return err
		}
	}

	return nil
}

// writeSeparator writes out the character or characters that separate values.
func (w *textWriter) writeSeparator() error {
	var sep string

	switch w.ctx.peek() {
	case ctxInObject, ctxInArray:
		// In an object or an array, values are separated by commas.
		if w.pretty {
			sep = ",\n"
		} else {
			sep = ","
		}

	default:
		// At the top level, values are separated by newlines.
		sep = "\n"
	}

	return writeRawString(sep, w.out)
}

// writeFieldName writes a key inside an object.
func (w *textWriter) writeFieldName(api string) error {
	name, err := w.takeFieldName(api)
	if err != nil {
		return err
	}

	if err := writeRawChar('"', w.out); err != nil {
		return err
	}
	if w.rawKeys {
		err = writeRawString(name, w.out)
	} else {
		err = writeEscapedString(name, w.out)
	}
	if err != nil {
		return err
	}

	sep := "\":"
	if w.pretty {
		sep = "\": "
	}

	return writeRawString(sep, w.out)
}

// endValue finishes the process of writing a value.
func (w *textWriter) endValue() {
	w.needsSeparator = true
	w.emptyContainer = false
	w.emptyStream = false
}

// begin starts writing a container of the given type.
func (w *textWriter) begin(api string, t ctx, c byte) error {
	if err := w.beginValue(api); err != nil {
		return err
	}

	w.ctx.push(t)
	w.indent++
	w.needsSeparator = false
	w.emptyContainer = true

	return writeRawChar(c, w.out)
}

// end finishes writing a container of the given type
func (w *textWriter) end(api string, t ctx, c byte) error {
	if err := w.checkEnd(api, t); err != nil {
		return err
	}

	w.indent--

	if !w.emptyContainer && w.pretty {
		if err := writeRawChar('\n', w.out); err != nil {
			return err
		}
		if err := w.writeIndent(); err != nil {
			return err
		}
	}

	if err := writeRawChar(c, w.out); err != nil {
		return err
	}

	w.ctx.pop()
	w.endValue()

	return nil
}

// writeIndent writes out indent units to indent a pretty-printed value.
func (w *textWriter) writeIndent() error {
	for i := 0; i < w.indent; i++ {
		if err := writeRawString(w.indentUnit, w.out); err != nil {
			return err
		}
	}
	return nil
}
