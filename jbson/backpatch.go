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
	"encoding/binary"
	"io"
)

// A Patch is a document length field left as zero by a streaming BSONWriter:
// the offset of the field and the length it should hold.
type Patch struct {
	Offset int64
	Size   int32
}

// A ReaderWriterAt can be both read and written at arbitrary offsets, as an
// *os.File can.
type ReaderWriterAt interface {
	io.ReaderAt
	io.WriterAt
}

// ComputePatches scans a stream of BSON documents whose length fields may be
// wrong (typically zero) and returns the correct length for every document,
// nested or root, in the order the documents close.
func ComputePatches(in io.Reader) ([]Patch, error) {
	var bs bsonstream
	bs.Init(bufio.NewReader(in))

	var patches []Patch

	for {
		ev, err := bs.Next()
		if err == io.EOF {
			return patches, nil
		}
		if err != nil {
			return nil, err
		}

		if ev == EndObject {
			start := bs.Closed().lengthPos
			patches = append(patches, Patch{
				Offset: int64(start),
				Size:   int32(bs.EventPos() + 1 - start),
			})
		}
	}
}

// ApplyPatches writes each patch's size at its offset.
func ApplyPatches(out io.WriterAt, patches []Patch) error {
	var bs [bsonLengthSize]byte
	for _, p := range patches {
		binary.LittleEndian.PutUint32(bs[:], uint32(p.Size))
		if _, err := out.WriteAt(bs[:], p.Offset); err != nil {
			return &IOError{err, uint64(p.Offset)}
		}
	}
	return nil
}

// Backpatch fixes the length fields of the first size bytes of f in place. The
// whole input is scanned before anything is written.
func Backpatch(f ReaderWriterAt, size int64) ([]Patch, error) {
	patches, err := ComputePatches(io.NewSectionReader(f, 0, size))
	if err != nil {
		return nil, err
	}
	return patches, ApplyPatches(f, patches)
}
