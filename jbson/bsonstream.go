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
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// bss is the state of a bsonstream.
type bss uint8

const (
	bssBeforeDocument bss = iota
	bssBeforeElement
	bssOnValue
)

// A bsonnode is an open document: the wire tag that opened it (zero for a
// root document) and the offset of its length field.
type bsonnode struct {
	tag       byte
	lengthPos uint64
}

// A bsonstream is a low-level scanner for BSON documents. It reports every
// document as StartObject/EndObject and every element name as KeyName, with no
// array detection; bsonReader layers that on top.
type bsonstream struct {
	in    *bufio.Reader
	pos   uint64
	state bss
	stack bsonstack

	evpos  uint64
	tag    byte
	name   []byte
	str    string
	num    Number
	bin    []byte
	closed bsonnode

	scratch [bsonDecimal128Size]byte
}

// Init initializes this stream with the given bufio.Reader.
func (b *bsonstream) Init(in *bufio.Reader) {
	b.in = in
}

// InitBytes initializes this stream with the given bytes.
func (b *bsonstream) InitBytes(in []byte) {
	b.in = bufio.NewReader(bytes.NewReader(in))
}

// Pos returns the number of bytes consumed.
func (b *bsonstream) Pos() uint64 {
	return b.pos
}

// EventPos returns the offset at which the current event began: the length
// field of a document, the tag byte of an element, the payload of a value or
// the terminating zero of a document.
func (b *bsonstream) EventPos() uint64 {
	return b.evpos
}

// Tag returns the wire tag of the current element. For StartObject it is the
// tag of the document's element, or zero for a root document.
func (b *bsonstream) Tag() byte {
	return b.tag
}

// Name returns the current element name.
func (b *bsonstream) Name() string {
	return string(b.name)
}

// Closed returns the document closed by the last EndObject.
func (b *bsonstream) Closed() bsonnode {
	return b.closed
}

// Depth returns the number of open documents.
func (b *bsonstream) Depth() int {
	return len(b.stack.arr)
}

// AtEOF reports whether the input ends cleanly between documents.
func (b *bsonstream) AtEOF() (bool, error) {
	if b.state != bssBeforeDocument {
		return false, nil
	}
	_, err := b.in.Peek(1)
	if err == io.EOF {
		return true, nil
	}
	if err != nil {
		return false, &IOError{err, b.pos}
	}
	return false, nil
}

// Next scans the next event. Between documents at the end of input it returns io.EOF.
func (b *bsonstream) Next() (Event, error) {
	b.clear()

	for {
		switch b.state {
		case bssBeforeDocument:
			eof, err := b.AtEOF()
			if err != nil {
				return NoEvent, err
			}
			if eof {
				return NoEvent, io.EOF
			}
			return b.openDocument(0)

		case bssBeforeElement:
			ev, err := b.nextElement()
			if err != nil || ev != NoEvent {
				return ev, err
			}
			// A min or max key; keep going.

		case bssOnValue:
			return b.nextValue()

		default:
			panic(fmt.Sprintf("unexpected state: %v", b.state))
		}
	}
}

// openDocument reads the length field of a document opened by the given tag.
func (b *bsonstream) openDocument(tag byte) (Event, error) {
	lengthPos := b.pos
	if _, err := b.readFixed(bsonLengthSize); err != nil {
		return NoEvent, err
	}

	b.stack.push(tag, lengthPos)
	b.tag = tag
	b.evpos = lengthPos
	b.state = bssBeforeElement
	return StartObject, nil
}

// nextElement reads an element tag and name, or the end of a document. It
// returns NoEvent for elements that carry no value.
func (b *bsonstream) nextElement() (Event, error) {
	tagPos := b.pos
	c, err := b.read1()
	if err != nil {
		return NoEvent, err
	}
	tag := byte(c)

	if tag == bsonEnd {
		b.closed = b.stack.peek()
		b.stack.pop()
		b.evpos = tagPos
		if b.stack.empty() {
			b.state = bssBeforeDocument
		}
		return EndObject, nil
	}

	if err := checkTag(tag, tagPos); err != nil {
		return NoEvent, err
	}

	if err := b.readCString(); err != nil {
		return NoEvent, err
	}

	if tag == bsonMinKey || tag == bsonMaxKey {
		return NoEvent, nil
	}

	b.tag = tag
	b.evpos = tagPos
	b.state = bssOnValue
	return KeyName, nil
}

// checkTag rejects element types this scanner does not decode.
func checkTag(tag byte, pos uint64) error {
	switch tag {
	case bsonUndefined, bsonRegex, bsonDBPointer:
		return &DecodeError{fmt.Sprintf("unsupported element type %v", bsonTypeNames[tag]), pos}
	case bsonMinKey, bsonMaxKey:
		return nil
	}
	if tag >= 0x80 {
		return &DecodeError{fmt.Sprintf("invalid element type 0x%02X", tag), pos}
	}
	if _, ok := bsonTypeNames[tag]; !ok {
		return &DecodeError{fmt.Sprintf("unknown element type 0x%02X", tag), pos}
	}
	return nil
}

// nextValue reads the payload of the current element.
func (b *bsonstream) nextValue() (Event, error) {
	b.evpos = b.pos
	b.state = bssBeforeElement

	switch b.tag {
	case bsonDouble:
		bs, err := b.readFixed(8)
		if err != nil {
			return NoEvent, err
		}
		b.num = NumberFromFloat(math.Float64frombits(binary.LittleEndian.Uint64(bs)))
		return ValueNumber, nil

	case bsonString, bsonCode, bsonSymbol:
		str, err := b.readString()
		if err != nil {
			return NoEvent, err
		}
		b.str = str
		return ValueString, nil

	case bsonDocument, bsonArray:
		return b.openDocument(b.tag)

	case bsonBinary:
		return b.readBinary()

	case bsonObjectID:
		bs, err := b.readN(bsonObjectIDSize)
		if err != nil {
			return NoEvent, err
		}
		b.bin = bs
		return ValueString, nil

	case bsonBoolean:
		c, err := b.read1()
		if err != nil {
			return NoEvent, err
		}
		switch c {
		case 0:
			return ValueFalse, nil
		case 1:
			return ValueTrue, nil
		}
		return NoEvent, &DecodeError{fmt.Sprintf("invalid boolean value 0x%02X", c), b.pos - 1}

	case bsonDateTime, bsonTimestamp, bsonInt64:
		bs, err := b.readFixed(8)
		if err != nil {
			return NoEvent, err
		}
		b.num = NumberFromInt64(int64(binary.LittleEndian.Uint64(bs)))
		return ValueNumber, nil

	case bsonNull:
		return ValueNull, nil

	case bsonInt32:
		i, err := b.readInt32()
		if err != nil {
			return NoEvent, err
		}
		b.num = NumberFromInt64(int64(i))
		return ValueNumber, nil

	case bsonDecimal128:
		return b.readDecimal128()

	case bsonCodeWithScope:
		// The total length and the code are dropped; the scope document
		// stands in for the value.
		if _, err := b.readInt32(); err != nil {
			return NoEvent, err
		}
		if _, err := b.readString(); err != nil {
			return NoEvent, err
		}
		return b.openDocument(bsonDocument)

	default:
		panic(fmt.Sprintf("unexpected tag: 0x%02X", b.tag))
	}
}

// readBinary reads a binary payload.
func (b *bsonstream) readBinary() (Event, error) {
	start := b.pos
	n, err := b.readInt32()
	if err != nil {
		return NoEvent, err
	}
	if n < 0 {
		return NoEvent, &DecodeError{fmt.Sprintf("invalid binary length %v", n), start}
	}

	subtype, err := b.read1()
	if err != nil {
		return NoEvent, err
	}
	if byte(subtype) >= bsonSubtypeUserDefined {
		return NoEvent, &DecodeError{fmt.Sprintf("unsupported user-defined binary subtype 0x%02X", subtype), b.pos - 1}
	}

	bs, err := b.readN(int(n))
	if err != nil {
		return NoEvent, err
	}
	b.bin = bs
	return ValueString, nil
}

// readDecimal128 reads a decimal128 payload.
func (b *bsonstream) readDecimal128() (Event, error) {
	start := b.pos
	bs, err := b.readFixed(bsonDecimal128Size)
	if err != nil {
		return NoEvent, err
	}

	low := binary.LittleEndian.Uint64(bs[:8])
	high := binary.LittleEndian.Uint64(bs[8:])
	str := primitive.NewDecimal128(high, low).String()
	if str == "NaN" || strings.HasSuffix(str, "Infinity") {
		return NoEvent, &DecodeError{fmt.Sprintf("decimal128 %v has no JSON form", str), start}
	}

	d, err := ParseDecimal(str)
	if err != nil {
		return NoEvent, &DecodeError{err.Error(), start}
	}
	b.num = NumberFromDecimal(d)
	return ValueNumber, nil
}

// Bytes returns the raw payload of the current binary or object-id value.
func (b *bsonstream) Bytes() []byte {
	return b.bin
}

// String returns the current string value.
func (b *bsonstream) String() string {
	return b.str
}

// Number returns the current numeric value.
func (b *bsonstream) Number() Number {
	return b.num
}

// clear clears the current value.
func (b *bsonstream) clear() {
	b.str = ""
	b.num = Number{}
	b.bin = nil
}

// readString reads an int32 length, the bytes and a terminating zero.
func (b *bsonstream) readString() (string, error) {
	start := b.pos
	n, err := b.readInt32()
	if err != nil {
		return "", err
	}
	if n < 1 {
		return "", &DecodeError{fmt.Sprintf("invalid string length %v", n), start}
	}

	bs, err := b.readN(int(n))
	if err != nil {
		return "", err
	}
	if bs[n-1] != 0 {
		return "", &DecodeError{"string is not zero-terminated", b.pos - 1}
	}
	return string(bs[:n-1]), nil
}

// readCString reads a zero-terminated element name into the name buffer.
func (b *bsonstream) readCString() error {
	b.name = b.name[:0]
	for {
		c, err := b.read1()
		if err != nil {
			return err
		}
		if c == 0 {
			return nil
		}
		b.name = append(b.name, byte(c))
	}
}

// readInt32 reads a little-endian int32.
func (b *bsonstream) readInt32() (int32, error) {
	bs, err := b.readFixed(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(bs)), nil
}

// readFixed reads n bytes into the scratch buffer.
func (b *bsonstream) readFixed(n int) ([]byte, error) {
	bs := b.scratch[:n]
	actual, err := io.ReadFull(b.in, bs)
	b.pos += uint64(actual)
	if err != nil {
		return nil, b.readError(err)
	}
	return bs, nil
}

// readN reads a payload of n bytes. The buffer grows with the data actually
// present, so a corrupt length cannot force a huge allocation.
func (b *bsonstream) readN(n int) ([]byte, error) {
	if n == 0 {
		return []byte{}, nil
	}

	var buf bytes.Buffer
	actual, err := io.CopyN(&buf, b.in, int64(n))
	b.pos += uint64(actual)
	if err != nil {
		return nil, b.readError(err)
	}
	return buf.Bytes(), nil
}

// read1 reads a single byte.
func (b *bsonstream) read1() (int, error) {
	c, err := b.in.ReadByte()
	if err != nil {
		return 0, b.readError(err)
	}
	b.pos++
	return int(c), nil
}

func (b *bsonstream) readError(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return &UnexpectedEOFError{b.pos}
	}
	return &IOError{err, b.pos}
}

// bsonstack is a stack of open documents.
type bsonstack struct {
	arr []bsonnode
}

// empty returns true if this bsonstack is empty.
func (b *bsonstack) empty() bool {
	return len(b.arr) == 0
}

// peek peeks at the top bsonnode on the stack.
func (b *bsonstack) peek() bsonnode {
	if len(b.arr) == 0 {
		return bsonnode{}
	}
	return b.arr[len(b.arr)-1]
}

// push pushes a bsonnode onto the stack.
func (b *bsonstack) push(tag byte, lengthPos uint64) {
	b.arr = append(b.arr, bsonnode{tag, lengthPos})
}

// pop pops a bsonnode from the stack.
func (b *bsonstack) pop() {
	if len(b.arr) == 0 {
		panic("pop called on empty bsonstack")
	}
	b.arr = b.arr[:len(b.arr)-1]
}
