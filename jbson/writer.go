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
	"io"
	"math/big"
)

// A Writer writes a stream of JSON or BSON values.
//
// The various Write methods write atomic values to the current output stream. The
// Begin methods begin writing an object or array respectively. Subsequent calls
// to Write will write values inside of the container until a matching End method
// is called.
//
//	var w Writer
//	w.BeginArray()
//	{
//		w.WriteInt(1)
//		w.WriteString("two")
//	}
//	w.EndArray()
//
// When writing values inside an object, the FieldName method must be called
// before each value to set the value's key.
//
//	var w Writer
//	w.BeginObject()
//	{
//		w.FieldName("id")
//		w.WriteString("foo")
//		w.FieldName("name")
//		w.WriteString("bar")
//	}
//	w.EndObject()
//
// When you're done writing values, you should call Finish to ensure everything has
// been flushed from in-memory buffers. While individual methods all return an error
// on failure, implementations will remember any errors, no-op subsequent calls, and
// return the previous error. This lets you keep code a bit cleaner by only checking
// the return value of the final method call (generally Finish).
//
//	var w Writer
//	writeSomeStuff(w)
//	if err := w.Finish(); err != nil {
//		return err
//	}
type Writer interface {
	// FieldName sets the key for the next value written.
	FieldName(val string) error

	// WriteNull writes a null value.
	WriteNull() error

	// WriteBool writes a boolean value.
	WriteBool(val bool) error

	// WriteInt writes an integer value.
	WriteInt(val int64) error

	// WriteBigInt writes a big integer value.
	WriteBigInt(val *big.Int) error

	// WriteFloat writes a floating-point value.
	WriteFloat(val float64) error

	// WriteDecimal writes an arbitrary-precision decimal value.
	WriteDecimal(val *Decimal) error

	// WriteNumber writes a number in the representation its kind calls for.
	WriteNumber(val Number) error

	// WriteString writes a string value.
	WriteString(val string) error

	// WriteBytes writes a binary payload.
	WriteBytes(val []byte) error

	// BeginObject begins writing an object value.
	BeginObject() error

	// EndObject finishes writing an object value.
	EndObject() error

	// BeginArray begins writing an array value.
	BeginArray() error

	// EndArray finishes writing an array value.
	EndArray() error

	// Flush writes any buffered output that can be written.
	Flush() error

	// Finish finishes writing values and flushes any buffered data.
	Finish() error

	// IsInObject indicates if we are currently writing an object or not.
	IsInObject() bool
}

// A writer holds shared stuff for all writers.
type writer struct {
	ctx ctxstack
	err error

	fieldName *string
}

// FieldName sets the key for the next value written.
// It may only be called while writing an object.
func (w *writer) FieldName(val string) error {
	if w.err != nil {
		return w.err
	}
	if !w.IsInObject() {
		w.err = &UsageError{"Writer.FieldName", "called when not writing an object"}
		return w.err
	}
	if w.fieldName != nil {
		w.err = &UsageError{"Writer.FieldName", "field name already set"}
		return w.err
	}

	w.fieldName = &val
	return nil
}

// IsInObject returns true if we're currently writing an object.
func (w *writer) IsInObject() bool {
	return w.ctx.peek() == ctxInObject
}

// checkEnd verifies that the innermost container is of kind t and has no
// dangling field name.
func (w *writer) checkEnd(api string, t ctx) error {
	if w.ctx.peek() != t {
		return &UsageError{api, "not in that kind of container"}
	}
	if w.fieldName != nil {
		return &UsageError{api, "field name set without a value"}
	}
	return nil
}

// checkFinish verifies that every container has been closed.
func (w *writer) checkFinish() error {
	if w.ctx.peek() != ctxAtTopLevel {
		return &UsageError{"Writer.Finish", "not at top level"}
	}
	return nil
}

// takeFieldName returns and clears the pending field name.
func (w *writer) takeFieldName(api string) (string, error) {
	if w.fieldName == nil {
		return "", &UsageError{api, "field name not set"}
	}
	name := *w.fieldName
	w.fieldName = nil
	return name, nil
}

// offsetWriter counts the bytes written to out and reports failures as IOErrors.
type offsetWriter struct {
	out io.Writer
	n   uint64
}

func (o *offsetWriter) Write(p []byte) (int, error) {
	n, err := o.out.Write(p)
	o.n += uint64(n)
	if err != nil {
		return n, &IOError{err, o.n}
	}
	return n, nil
}
