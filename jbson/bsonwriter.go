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
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// streamFlushSize is the amount of output a streaming BSONWriter buffers
// before writing it out.
const streamFlushSize = 32 * 1024

// A BSONWriter writes BSON documents.
//
// In the default mode each root document is held in memory until it is
// closed, its length fields are filled in, and then it is written out. In
// streaming mode output is written as it is produced: every length field is
// left as zero and recorded as a Patch, to be applied afterwards with
// ApplyPatches or Backpatch.
type BSONWriter struct {
	writer
	out io.Writer

	streaming  bool
	useDouble  bool
	decimal128 bool

	buf     []byte
	base    int64
	slots   []int64
	indexes []int
	patches []Patch
}

// NewBSONWriter creates a new BSON writer.
func NewBSONWriter(out io.Writer, opts Options) *BSONWriter {
	return &BSONWriter{
		out:        out,
		streaming:  opts.Streaming,
		useDouble:  opts.UseDouble,
		decimal128: opts.Decimal128,
	}
}

// Patches returns the length fields left for backpatching by a streaming writer.
func (w *BSONWriter) Patches() []Patch {
	return w.patches
}

// WriteNull writes a null.
func (w *BSONWriter) WriteNull() error {
	return w.writeValue("Writer.WriteNull", bsonNull, nil)
}

// WriteBool writes a bool.
func (w *BSONWriter) WriteBool(val bool) error {
	b := byte(0)
	if val {
		b = 1
	}
	return w.writeValue("Writer.WriteBool", bsonBoolean, []byte{b})
}

// WriteInt writes an integer as an int32 if it fits, and an int64 otherwise.
func (w *BSONWriter) WriteInt(val int64) error {
	return w.writeInt("Writer.WriteInt", val)
}

func (w *BSONWriter) writeInt(api string, val int64) error {
	if val >= math.MinInt32 && val <= math.MaxInt32 {
		var bs [4]byte
		binary.LittleEndian.PutUint32(bs[:], uint32(int32(val)))
		return w.writeValue(api, bsonInt32, bs[:])
	}

	var bs [8]byte
	binary.LittleEndian.PutUint64(bs[:], uint64(val))
	return w.writeValue(api, bsonInt64, bs[:])
}

// WriteBigInt writes a (big) integer. Values too wide for an int64 have no
// BSON integer type and fall back to a decimal128, double or string.
func (w *BSONWriter) WriteBigInt(val *big.Int) error {
	if val.IsInt64() {
		return w.writeInt("Writer.WriteBigInt", val.Int64())
	}
	return w.writeFallback("Writer.WriteBigInt", NumberFromBigInt(val))
}

// WriteFloat writes a double.
func (w *BSONWriter) WriteFloat(val float64) error {
	return w.writeDouble("Writer.WriteFloat", val)
}

func (w *BSONWriter) writeDouble(api string, val float64) error {
	var bs [8]byte
	binary.LittleEndian.PutUint64(bs[:], math.Float64bits(val))
	return w.writeValue(api, bsonDouble, bs[:])
}

// WriteDecimal writes a decimal: as a double if a double holds it exactly, and
// through the fallback chain otherwise.
func (w *BSONWriter) WriteDecimal(val *Decimal) error {
	return w.writeNumber("Writer.WriteDecimal", NumberFromDecimal(val))
}

// WriteNumber writes a number. Integers take the narrowest BSON integer type,
// doubles stay doubles, and decimals become doubles when that is exact.
func (w *BSONWriter) WriteNumber(val Number) error {
	return w.writeNumber("Writer.WriteNumber", val)
}

func (w *BSONWriter) writeNumber(api string, val Number) error {
	switch val.Kind() {
	case Int32Kind, Int64Kind:
		i, _ := val.Int64()
		return w.writeInt(api, i)
	case BigKind:
		return w.writeFallback(api, val)
	case FloatKind:
		return w.writeDouble(api, val.Float64())
	case DecimalKind:
		if f, ok := val.exactFloat(); ok {
			return w.writeDouble(api, f)
		}
		return w.writeFallback(api, val)
	}

	if w.err == nil {
		w.err = &UsageError{api, "number has no value"}
	}
	return w.err
}

// writeFallback writes a number that no BSON integer or double holds exactly:
// as a double when UseDouble is set, as a decimal128 when Decimal128 is set and
// the value fits, and as its decimal text otherwise.
func (w *BSONWriter) writeFallback(api string, val Number) error {
	if w.useDouble {
		return w.writeDouble(api, val.Float64())
	}

	if w.decimal128 {
		if d, err := primitive.ParseDecimal128(val.String()); err == nil {
			high, low := d.GetBytes()
			var bs [bsonDecimal128Size]byte
			binary.LittleEndian.PutUint64(bs[:8], low)
			binary.LittleEndian.PutUint64(bs[8:], high)
			return w.writeValue(api, bsonDecimal128, bs[:])
		}
	}

	return w.WriteString(val.String())
}

// WriteString writes a string.
func (w *BSONWriter) WriteString(val string) error {
	bs := make([]byte, 4, len(val)+5)
	binary.LittleEndian.PutUint32(bs, uint32(len(val)+1))
	bs = append(bs, val...)
	bs = append(bs, 0)
	return w.writeValue("Writer.WriteString", bsonString, bs)
}

// WriteBytes writes a generic binary payload.
func (w *BSONWriter) WriteBytes(val []byte) error {
	bs := make([]byte, 5, len(val)+5)
	binary.LittleEndian.PutUint32(bs, uint32(len(val)))
	bs[4] = bsonSubtypeGeneric
	bs = append(bs, val...)
	return w.writeValue("Writer.WriteBytes", bsonBinary, bs)
}

// BeginArray begins writing an array. At the root, the array is written as a
// document keyed by index.
func (w *BSONWriter) BeginArray() error {
	if w.err == nil {
		w.err = w.begin("Writer.BeginArray", ctxInArray, bsonArray)
	}
	return w.err
}

// EndArray finishes writing an array.
func (w *BSONWriter) EndArray() error {
	if w.err == nil {
		w.err = w.end("Writer.EndArray", ctxInArray)
	}
	return w.err
}

// BeginObject begins writing an object.
func (w *BSONWriter) BeginObject() error {
	if w.err == nil {
		w.err = w.begin("Writer.BeginObject", ctxInObject, bsonDocument)
	}
	return w.err
}

// EndObject finishes writing an object.
func (w *BSONWriter) EndObject() error {
	if w.err == nil {
		w.err = w.end("Writer.EndObject", ctxInObject)
	}
	return w.err
}

// Flush writes out buffered output. Only a streaming writer has output to
// flush before its root document is closed.
func (w *BSONWriter) Flush() error {
	if w.err == nil && w.streaming {
		w.err = w.flush()
	}
	return w.err
}

// Finish verifies that every document has been closed and flushes output.
func (w *BSONWriter) Finish() error {
	if w.err != nil {
		return w.err
	}
	if w.err = w.checkFinish(); w.err != nil {
		return w.err
	}
	w.err = w.flush()
	return w.err
}

// writeValue writes an element holding a scalar payload.
func (w *BSONWriter) writeValue(api string, tag byte, val []byte) error {
	if w.err != nil {
		return w.err
	}
	if w.ctx.peek() == ctxAtTopLevel {
		w.err = &UsageError{api, "a BSON root must be a document"}
		return w.err
	}
	if w.err = w.beginValue(api, tag); w.err != nil {
		return w.err
	}

	w.buf = append(w.buf, val...)

	w.err = w.endValue()
	return w.err
}

// beginValue writes the element header: its tag and its key, or its index
// inside an array. Root documents have no header.
func (w *BSONWriter) beginValue(api string, tag byte) error {
	switch w.ctx.peek() {
	case ctxInObject:
		name, err := w.takeFieldName(api)
		if err != nil {
			return err
		}
		if strings.IndexByte(name, 0) >= 0 {
			return &UsageError{api, fmt.Sprintf("key %q contains a zero byte", name)}
		}
		w.buf = append(w.buf, tag)
		w.buf = append(w.buf, name...)
		w.buf = append(w.buf, 0)

	case ctxInArray:
		idx := &w.indexes[len(w.indexes)-1]
		w.buf = append(w.buf, tag)
		w.buf = strconv.AppendInt(w.buf, int64(*idx), 10)
		w.buf = append(w.buf, 0)
		*idx++

	default:
		if w.fieldName != nil {
			return &UsageError{api, "field name set outside of an object"}
		}
	}

	return nil
}

// endValue flushes a streaming writer once enough output has built up.
func (w *BSONWriter) endValue() error {
	if w.streaming && len(w.buf) >= streamFlushSize {
		return w.flush()
	}
	return nil
}

// offset returns the stream offset of the next byte written.
func (w *BSONWriter) offset() int64 {
	return w.base + int64(len(w.buf))
}

// begin starts a document with a placeholder length.
func (w *BSONWriter) begin(api string, t ctx, tag byte) error {
	if err := w.beginValue(api, tag); err != nil {
		return err
	}

	w.ctx.push(t)
	w.slots = append(w.slots, w.offset())
	w.indexes = append(w.indexes, 0)
	w.buf = append(w.buf, 0, 0, 0, 0)

	return nil
}

// end terminates the innermost document and settles its length.
func (w *BSONWriter) end(api string, t ctx) error {
	if err := w.checkEnd(api, t); err != nil {
		return err
	}

	w.buf = append(w.buf, bsonEnd)

	slot := w.slots[len(w.slots)-1]
	w.slots = w.slots[:len(w.slots)-1]
	w.indexes = w.indexes[:len(w.indexes)-1]
	w.ctx.pop()

	size := w.offset() - slot
	if size > math.MaxInt32 {
		return &UsageError{api, fmt.Sprintf("document of %v bytes is too large", size)}
	}

	if w.streaming {
		w.patches = append(w.patches, Patch{Offset: slot, Size: int32(size)})
		return w.endValue()
	}

	binary.LittleEndian.PutUint32(w.buf[slot-w.base:], uint32(size))
	if w.ctx.peek() == ctxAtTopLevel {
		return w.flush()
	}
	return nil
}

// flush writes the buffer out.
func (w *BSONWriter) flush() error {
	if len(w.buf) == 0 {
		return nil
	}

	n, err := w.out.Write(w.buf)
	w.base += int64(n)
	w.buf = w.buf[:0]
	if err != nil {
		return &IOError{err, uint64(w.base)}
	}
	return nil
}
