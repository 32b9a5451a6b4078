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

import "fmt"

// A Reader reads a stream of JSON or BSON tokens as a flat sequence of events.
//
// Call HasNext to learn whether another event is available, and Next to advance
// to it. The accessor methods then describe the current event; calling one that
// does not apply to the current event returns a UsageError. Errors other than
// NumericOverflowError are sticky: once Next has failed, the Reader stays failed.
//
//	for r.HasNext() {
//		ev, err := r.Next()
//		if err != nil {
//			return err
//		}
//		if ev == KeyName {
//			name, _ := r.String()
//			fmt.Println(name)
//		}
//	}
type Reader interface {
	// HasNext reports whether Next will produce another event or an error.
	HasNext() bool

	// Next advances to the next event and returns it.
	Next() (Event, error)

	// Event returns the current event.
	Event() Event

	// Location returns the position of the token that produced the current event.
	Location() Location

	// Depth returns the number of containers open at the current event.
	Depth() int

	// String returns the current key name or string value.
	String() (string, error)

	// Number returns the current numeric value.
	Number() (Number, error)

	// Int returns the current numeric value as an int32.
	Int() (int32, error)

	// Int64 returns the current numeric value as an int64.
	Int64() (int64, error)

	// Decimal returns the current numeric value as an exact decimal.
	Decimal() (*Decimal, error)

	// Bool returns the current boolean value.
	Bool() (bool, error)

	// Bytes returns the current string value decoded as a binary payload. For
	// BSON binary and object-id elements it returns the raw bytes.
	Bytes() ([]byte, error)
}

// reader holds the commonalities between the text and BSON readers.
type reader struct {
	ctx ctxstack
	err error
	enc BinaryEncoding

	event Event
	loc   Location

	str string
	num Number
	bin []byte
}

// Event returns the current event.
func (r *reader) Event() Event {
	return r.event
}

// Location returns the location of the current event.
func (r *reader) Location() Location {
	return r.loc
}

// Depth returns the current nesting depth.
func (r *reader) Depth() int {
	return r.ctx.len()
}

// String returns the current key name or string value.
func (r *reader) String() (string, error) {
	if r.event != KeyName && r.event != ValueString {
		return "", r.invalidEvent("Reader.String")
	}
	return r.str, nil
}

// Number returns the current numeric value.
func (r *reader) Number() (Number, error) {
	if r.event != ValueNumber {
		return Number{}, r.invalidEvent("Reader.Number")
	}
	return r.num, nil
}

// Int returns the current numeric value as an int32.
func (r *reader) Int() (int32, error) {
	if r.event != ValueNumber {
		return 0, r.invalidEvent("Reader.Int")
	}
	return r.num.Int32()
}

// Int64 returns the current numeric value as an int64.
func (r *reader) Int64() (int64, error) {
	if r.event != ValueNumber {
		return 0, r.invalidEvent("Reader.Int64")
	}
	return r.num.Int64()
}

// Decimal returns the current numeric value as a decimal.
func (r *reader) Decimal() (*Decimal, error) {
	if r.event != ValueNumber {
		return nil, r.invalidEvent("Reader.Decimal")
	}
	return r.num.Decimal()
}

// Bool returns the current boolean value.
func (r *reader) Bool() (bool, error) {
	switch r.event {
	case ValueTrue:
		return true, nil
	case ValueFalse:
		return false, nil
	}
	return false, r.invalidEvent("Reader.Bool")
}

// Bytes returns the current binary value.
func (r *reader) Bytes() ([]byte, error) {
	if r.event != ValueString {
		return nil, r.invalidEvent("Reader.Bytes")
	}
	if r.bin != nil {
		return r.bin, nil
	}
	b, err := decodeBinary(r.enc, r.str)
	if err != nil {
		return nil, &UsageError{"Reader.Bytes", fmt.Sprintf("string is not valid %v: %v", r.enc, err)}
	}
	return b, nil
}

// invalidEvent records and returns a UsageError for an accessor that does not
// apply to the current event.
func (r *reader) invalidEvent(api string) error {
	err := &UsageError{api, fmt.Sprintf("not valid on event %v", r.event)}
	if r.err == nil {
		r.err = err
	}
	return err
}

// clear clears the current value.
func (r *reader) clear() {
	r.event = NoEvent
	r.str = ""
	r.num = Number{}
	r.bin = nil
}

// fail records a sticky error.
func (r *reader) fail(err error) (Event, error) {
	r.clear()
	r.err = err
	return NoEvent, err
}

// emit makes ev the current event.
func (r *reader) emit(ev Event, loc Location) (Event, error) {
	r.event = ev
	r.loc = loc
	return ev, nil
}

// noMoreEvents is returned by Next once the input is exhausted.
func (r *reader) noMoreEvents() (Event, error) {
	return r.fail(&UsageError{"Reader.Next", "no more events"})
}
