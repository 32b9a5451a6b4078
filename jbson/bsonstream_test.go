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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBsonstream(t *testing.T) {
	bson := []byte{
		0x20, 0x00, 0x00, 0x00, // {
		0x03, 'a', 0x00, // a:
		0x0C, 0x00, 0x00, 0x00, // {
		0x10, 'b', 0x00, 0x01, 0x00, 0x00, 0x00, // b: 1
		0x00,            // }
		0xFF, 'c', 0x00, // c: $minKey
		0x02, 'd', 0x00, 0x02, 0x00, 0x00, 0x00, 'x', 0x00, // d: "x"
		0x00, // }
	}

	b := bsonstream{}
	b.InitBytes(bson)

	next := func(eev Event, epos uint64, edepth int) {
		ev, err := b.Next()
		require.NoError(t, err)
		assert.Equal(t, eev, ev)
		assert.Equal(t, epos, b.EventPos(), "position of %v", eev)
		assert.Equal(t, edepth, b.Depth(), "depth after %v", eev)
	}

	next(StartObject, 0, 1)
	assert.Equal(t, byte(0), b.Tag())

	next(KeyName, 4, 1)
	assert.Equal(t, "a", b.Name())
	assert.Equal(t, byte(bsonDocument), b.Tag())

	next(StartObject, 7, 2)
	{
		next(KeyName, 11, 2)
		assert.Equal(t, "b", b.Name())

		next(ValueNumber, 14, 2)
		i, err := b.Number().Int64()
		require.NoError(t, err)
		assert.Equal(t, int64(1), i)
	}
	next(EndObject, 18, 1)
	assert.Equal(t, bsonnode{tag: bsonDocument, lengthPos: 7}, b.Closed())

	// The min key is dropped along with its name.
	next(KeyName, 22, 1)
	assert.Equal(t, "d", b.Name())

	next(ValueString, 25, 1)
	assert.Equal(t, "x", b.String())

	next(EndObject, 31, 0)
	assert.Equal(t, bsonnode{}, b.Closed())
	assert.Equal(t, uint64(len(bson)), b.Pos())

	eof, err := b.AtEOF()
	require.NoError(t, err)
	assert.True(t, eof)

	_, err = b.Next()
	assert.Equal(t, io.EOF, err)
}

func TestBsonstreamAtEOFMidDocument(t *testing.T) {
	b := bsonstream{}
	b.InitBytes([]byte{0x05, 0x00, 0x00, 0x00, 0x00})

	ev, err := b.Next()
	require.NoError(t, err)
	assert.Equal(t, StartObject, ev)

	eof, err := b.AtEOF()
	require.NoError(t, err)
	assert.False(t, eof)

	ev, err = b.Next()
	require.NoError(t, err)
	assert.Equal(t, EndObject, ev)

	eof, err = b.AtEOF()
	require.NoError(t, err)
	assert.True(t, eof)
}

func TestBsonstreamBadBoolean(t *testing.T) {
	b := bsonstream{}
	b.InitBytes([]byte{0x09, 0x00, 0x00, 0x00, 0x08, 'a', 0x00, 0x02, 0x00})

	_, err := b.Next()
	require.NoError(t, err)
	_, err = b.Next()
	require.NoError(t, err)

	_, err = b.Next()
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, uint64(7), de.Offset)
}
