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
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// lookaheadKind says what the bsonReader consumed early while deciding
// whether a document is an object or an array.
type lookaheadKind uint8

const (
	laNone lookaheadKind = iota
	laPendingKey
	laPendingClose
)

type lookahead struct {
	kind lookaheadKind
	key  string
	loc  Location
}

// A bsonReader is a Reader that reads BSON. BSON stores arrays as documents
// keyed "0", "1", ...; a document whose first key is "0" is reported as an
// array and its keys are suppressed. Empty documents fall back to their wire
// type, and root documents to Options.RootAsArray. A real object whose first
// key happens to be "0" is therefore reported as an array.
type bsonReader struct {
	reader

	bs          bsonstream
	la          lookahead
	rootAsArray bool
	maxDepth    int
}

// NewBSONReader creates a Reader for a stream of one or more BSON documents.
func NewBSONReader(in io.Reader, opts Options) Reader {
	r := &bsonReader{
		reader:      reader{enc: opts.BinaryEncoding},
		rootAsArray: opts.RootAsArray,
		maxDepth:    opts.maxDepth(),
	}
	r.bs.Init(bufio.NewReader(in))
	return r
}

// NewBSONReaderBytes creates a Reader for the given BSON bytes.
func NewBSONReaderBytes(in []byte, opts Options) Reader {
	return NewBSONReader(bytes.NewReader(in), opts)
}

// HasNext reports whether another event (or an error) is available. Between
// documents it checks whether more input follows.
func (r *bsonReader) HasNext() bool {
	if r.err != nil {
		return false
	}
	if r.ctx.len() > 0 || r.la.kind != laNone {
		return true
	}

	eof, err := r.bs.AtEOF()
	if err != nil {
		r.err = err
		return true
	}
	return !eof
}

// Next advances to the next event.
func (r *bsonReader) Next() (Event, error) {
	if r.err != nil {
		return r.fail(r.err)
	}
	if r.ctx.len() == 0 && r.la.kind == laNone {
		if !r.HasNext() {
			return r.noMoreEvents()
		}
		if r.err != nil {
			return r.fail(r.err)
		}
	}

	r.clear()

	switch r.la.kind {
	case laPendingKey:
		r.str = r.la.key
		loc := r.la.loc
		r.la = lookahead{}
		return r.emit(KeyName, loc)

	case laPendingClose:
		loc := r.la.loc
		r.la = lookahead{}
		return r.closeContainer(loc)
	}

	for {
		ev, err := r.bs.Next()
		if err == io.EOF {
			return r.noMoreEvents()
		}
		if err != nil {
			return r.fail(err)
		}
		loc := Location{Offset: r.bs.EventPos()}

		switch ev {
		case StartObject:
			return r.openContainer(loc)

		case EndObject:
			return r.closeContainer(loc)

		case KeyName:
			if r.ctx.peek() == ctxInArray {
				continue
			}
			r.str = r.bs.Name()
			return r.emit(KeyName, loc)

		default:
			r.loadValue()
			return r.emit(ev, loc)
		}
	}
}

// openContainer decides whether the document just opened is an object or an
// array by looking at its first element.
func (r *bsonReader) openContainer(loc Location) (Event, error) {
	tag := r.bs.Tag()
	root := r.ctx.len() == 0
	if r.ctx.len() >= r.maxDepth {
		return r.fail(&DecodeError{fmt.Sprintf("nesting exceeds the maximum depth of %v", r.maxDepth), loc.Offset})
	}

	ev, err := r.bs.Next()
	if err != nil {
		if err == io.EOF {
			err = &UnexpectedEOFError{r.bs.Pos()}
		}
		return r.fail(err)
	}
	next := Location{Offset: r.bs.EventPos()}

	switch ev {
	case KeyName:
		if (root && r.rootAsArray) || r.bs.Name() == "0" {
			r.ctx.push(ctxInArray)
			return r.emit(StartArray, loc)
		}
		r.ctx.push(ctxInObject)
		r.la = lookahead{kind: laPendingKey, key: r.bs.Name(), loc: next}
		return r.emit(StartObject, loc)

	case EndObject:
		c := ctxInObject
		if tag == bsonArray || (root && r.rootAsArray) {
			c = ctxInArray
		}
		r.ctx.push(c)
		r.la = lookahead{kind: laPendingClose, loc: next}
		if c == ctxInArray {
			return r.emit(StartArray, loc)
		}
		return r.emit(StartObject, loc)
	}

	panic(fmt.Sprintf("unexpected event after document start: %v", ev))
}

// closeContainer closes the innermost container.
func (r *bsonReader) closeContainer(loc Location) (Event, error) {
	c := r.ctx.peek()
	r.ctx.pop()
	return r.emit(c.endEvent(), loc)
}

// loadValue copies the current scalar from the stream.
func (r *bsonReader) loadValue() {
	switch r.bs.Tag() {
	case bsonBinary:
		r.bin = r.bs.Bytes()
		r.str = encodeBinary(r.enc, r.bin)

	case bsonObjectID:
		var id primitive.ObjectID
		copy(id[:], r.bs.Bytes())
		r.bin = r.bs.Bytes()
		r.str = id.Hex()

	default:
		r.str = r.bs.String()
		r.num = r.bs.Number()
	}
}
