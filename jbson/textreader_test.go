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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextReaderEvents(t *testing.T) {
	test := func(str string, eevents ...string) {
		t.Run(str, func(t *testing.T) {
			r := NewTextReaderStr(str, Options{})
			assert.Equal(t, eevents, readAll(t, r))
		})
	}

	test(`{}`, "{", "}")
	test(`[]`, "[", "]")
	test(` { "a" : [ 1, "two", true, false, null ], "b": {} } `,
		"{", "k:a", "[", "n:1", "s:two", "true", "false", "null", "]", "k:b", "{", "}", "}")
	test(`[[], {"": ""}]`, "[", "[", "]", "{", "k:", "s:", "}", "]")
	test(`"root"`, "s:root")
	test(`-12.5e3`, "n:-12.5e3")
	test("\r\n\tnull\n", "null")
	test(`{"\u00e9\n": "\ud83d\ude00"}`, "{", "k:é\n", "s:\U0001F600", "}")
	test("{\"k\xff\": \"v\xc3\"}", "{", "k:k\uFFFD", "s:v\uFFFD", "}")
}

func TestTextReaderLocation(t *testing.T) {
	r := NewTextReaderStr(`{"abc" : -1234}`, Options{})

	next(t, r, StartObject)
	assert.Equal(t, Location{Line: 1, Column: 1, Offset: 0}, r.Location())

	next(t, r, KeyName)
	assert.Equal(t, Location{Line: 1, Column: 2, Offset: 1}, r.Location())

	next(t, r, ValueNumber)
	assert.Equal(t, Location{Line: 1, Column: 10, Offset: 9}, r.Location())

	next(t, r, EndObject)
	assert.Equal(t, Location{Line: 1, Column: 15, Offset: 14}, r.Location())
}

func TestTextReaderMultilineLocation(t *testing.T) {
	r := NewTextReaderStr("[\n  \"é\",\n  true\n]", Options{})

	next(t, r, StartArray)
	next(t, r, ValueString)
	assert.Equal(t, Location{Line: 2, Column: 3, Offset: 4}, r.Location())

	next(t, r, ValueTrue)
	assert.Equal(t, Location{Line: 3, Column: 3, Offset: 12}, r.Location())

	next(t, r, EndArray)
	assert.Equal(t, Location{Line: 4, Column: 1, Offset: 17}, r.Location())
}

func TestTextReaderSyntaxErrors(t *testing.T) {
	test := func(str string) {
		t.Run(str, func(t *testing.T) {
			err := drain(NewTextReaderStr(str, Options{}))
			var se *SyntaxError
			assert.ErrorAs(t, err, &se)
		})
	}

	test(`[1 2]`)
	test(`[1,]`)
	test(`[,1]`)
	test(`{"a" 1}`)
	test(`{"a":}`)
	test(`{"a"}`)
	test(`{1:2}`)
	test(`{"a":1,}`)
	test(`{"a":1 "b":2}`)
	test(`{"a"::1}`)
	test(`[01]`)
	test(`[+1]`)
	test(`[.5]`)
	test(`[tru]`)
	test(`[True]`)
	test(`["\q"]`)
	test(`@`)
	test(`"a":1`)
	test(`{} x`)
	test(`[1]]`)
	test("// comment\n1")
	test("/* comment */ 1")
	test(`[1e-2147483648]`)
	test(`[1.5e-2147483648]`)
	test(`[1e99999999999]`)
}

func TestTextReaderStructuralErrors(t *testing.T) {
	test := func(str string, eloc Location) {
		t.Run(str, func(t *testing.T) {
			err := drain(NewTextReaderStr(str, Options{}))
			var se *StructuralError
			if assert.ErrorAs(t, err, &se) {
				assert.Equal(t, eloc, se.Loc)
			}
		})
	}

	test(`}`, Location{1, 1, 0})
	test(`]`, Location{1, 1, 0})
	test(`[1}`, Location{1, 3, 2})
	test(`{"a":[}`, Location{1, 7, 6})
	test(`{"a":1]`, Location{1, 7, 6})
}

func TestTextReaderUnexpectedEOF(t *testing.T) {
	test := func(str string) {
		t.Run(str, func(t *testing.T) {
			err := drain(NewTextReaderStr(str, Options{}))
			var eof *UnexpectedEOFError
			assert.ErrorAs(t, err, &eof)
		})
	}

	test(``)
	test(`   `)
	test(`[`)
	test(`{"a":`)
	test(`["abc`)
	test(`[1,`)
	test(`nul`)
}

func TestTextReaderComments(t *testing.T) {
	str := "/* leading */ [1, // one\n 2 /* two */] // trailing"
	r := NewTextReaderStr(str, Options{AllowComments: true})
	assert.Equal(t, []string{"[", "n:1", "n:2", "]"}, readAll(t, r))
}

func TestTextReaderTrailingContent(t *testing.T) {
	r := NewTextReaderStr(`{}  x`, Options{})

	next(t, r, StartObject)
	next(t, r, EndObject)

	require.True(t, r.HasNext())
	_, err := r.Next()
	var se *SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, Location{1, 5, 4}, se.Loc)

	assert.False(t, r.HasNext())
	_, err2 := r.Next()
	assert.Equal(t, err, err2)
}

func TestTextReaderNoMoreEvents(t *testing.T) {
	r := NewTextReaderStr(`[] `, Options{})

	next(t, r, StartArray)
	next(t, r, EndArray)
	assert.False(t, r.HasNext())

	_, err := r.Next()
	var ue *UsageError
	assert.ErrorAs(t, err, &ue)
}

func TestTextReaderNumbers(t *testing.T) {
	r := NewTextReaderStr(`[1, 2147483648, 9223372036854775808, 1.5, 1e2, -0.0, -2147483648]`, Options{})
	next(t, r, StartArray)

	next(t, r, ValueNumber)
	i, err := r.Int()
	require.NoError(t, err)
	assert.Equal(t, int32(1), i)

	next(t, r, ValueNumber)
	_, err = r.Int()
	var oe *NumericOverflowError
	require.ErrorAs(t, err, &oe)
	i64, err := r.Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(2147483648), i64)
	num, _ := r.Number()
	assert.Equal(t, Int64Kind, num.Kind())

	next(t, r, ValueNumber)
	_, err = r.Int64()
	require.ErrorAs(t, err, &oe)
	num, _ = r.Number()
	assert.Equal(t, BigKind, num.Kind())
	assert.Equal(t, "9223372036854775808", num.String())

	next(t, r, ValueNumber)
	num, _ = r.Number()
	assert.Equal(t, DecimalKind, num.Kind())
	assert.False(t, num.IsIntegral())
	assert.Equal(t, 1.5, num.Float64())
	_, err = r.Int()
	require.ErrorAs(t, err, &oe)

	next(t, r, ValueNumber)
	i, err = r.Int()
	require.NoError(t, err)
	assert.Equal(t, int32(100), i)
	d, err := r.Decimal()
	require.NoError(t, err)
	assert.Equal(t, "1e2", d.String())

	next(t, r, ValueNumber)
	num, _ = r.Number()
	assert.Equal(t, "-0.0", num.String())

	next(t, r, ValueNumber)
	i, err = r.Int()
	require.NoError(t, err)
	assert.Equal(t, int32(-2147483648), i)

	next(t, r, EndArray)
}

func TestTextReaderAccessorMisuse(t *testing.T) {
	r := NewTextReaderStr(`{"a": 1}`, Options{})
	next(t, r, StartObject)

	_, err := r.String()
	var ue *UsageError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "Reader.String", ue.API)

	_, err = r.Next()
	assert.Equal(t, ue, err)
}

func TestTextReaderBool(t *testing.T) {
	r := NewTextReaderStr(`[true, false]`, Options{})
	next(t, r, StartArray)

	next(t, r, ValueTrue)
	b, err := r.Bool()
	require.NoError(t, err)
	assert.True(t, b)

	next(t, r, ValueFalse)
	b, err = r.Bool()
	require.NoError(t, err)
	assert.False(t, b)
}

func TestTextReaderDepth(t *testing.T) {
	r := NewTextReaderStr(`[{"a": [1]}]`, Options{})

	test := func(eev Event, edepth int) {
		next(t, r, eev)
		assert.Equal(t, edepth, r.Depth(), "at %v", eev)
	}

	test(StartArray, 1)
	test(StartObject, 2)
	test(KeyName, 2)
	test(StartArray, 3)
	test(ValueNumber, 3)
	test(EndArray, 2)
	test(EndObject, 1)
	test(EndArray, 0)
}

func TestTextReaderMaxDepth(t *testing.T) {
	err := drain(NewTextReaderStr(`[[[1]]]`, Options{MaxDepth: 2}))
	var se *StructuralError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, uint64(2), se.Loc.Offset)

	require.NoError(t, drain(NewTextReaderStr(`[[1]]`, Options{MaxDepth: 2})))
}

func TestTextReaderBytes(t *testing.T) {
	r := NewTextReaderStr(`"AQID"`, Options{})
	next(t, r, ValueString)
	bs, err := r.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, bs)

	r = NewTextReaderStr(`"0102fF"`, Options{BinaryEncoding: Hex})
	next(t, r, ValueString)
	bs, err = r.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 0xFF}, bs)

	r = NewTextReaderStr(`"not base64!"`, Options{})
	next(t, r, ValueString)
	_, err = r.Bytes()
	assert.Error(t, err)
}

func next(t *testing.T, r Reader, eev Event) {
	require.True(t, r.HasNext())
	ev, err := r.Next()
	require.NoError(t, err)
	require.Equal(t, eev, ev)
	require.Equal(t, eev, r.Event())
}

// drain reads events until the input ends, returning the first error.
func drain(r Reader) error {
	for r.HasNext() {
		if _, err := r.Next(); err != nil {
			return err
		}
	}
	return nil
}

// readAll reads every event, rendering each as a short string.
func readAll(t *testing.T, r Reader) []string {
	var out []string
	for r.HasNext() {
		ev, err := r.Next()
		require.NoError(t, err)
		out = append(out, eventString(t, r, ev))
	}
	return out
}

func eventString(t *testing.T, r Reader, ev Event) string {
	switch ev {
	case StartObject:
		return "{"
	case EndObject:
		return "}"
	case StartArray:
		return "["
	case EndArray:
		return "]"

	case KeyName:
		str, err := r.String()
		require.NoError(t, err)
		return "k:" + str

	case ValueString:
		str, err := r.String()
		require.NoError(t, err)
		return "s:" + str

	case ValueNumber:
		num, err := r.Number()
		require.NoError(t, err)
		return "n:" + num.String()
	}
	return ev.String()
}
