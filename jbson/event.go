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

// Event is the kind of token a Reader has just parsed.
type Event uint8

const (
	// NoEvent is returned before the first call to Next and after a failure.
	NoEvent Event = iota
	// StartObject marks the start of an object.
	StartObject
	// EndObject marks the end of an object.
	EndObject
	// StartArray marks the start of an array.
	StartArray
	// EndArray marks the end of an array.
	EndArray
	// KeyName is an object member name; String returns it.
	KeyName
	// ValueString is a string value; String returns it, and Bytes decodes it
	// as a binary payload.
	ValueString
	// ValueNumber is a number value; Number, Int, Int64 and Decimal return it.
	ValueNumber
	// ValueTrue is the literal true.
	ValueTrue
	// ValueFalse is the literal false.
	ValueFalse
	// ValueNull is the literal null.
	ValueNull
)

func (e Event) String() string {
	switch e {
	case NoEvent:
		return "none"
	case StartObject:
		return "start object"
	case EndObject:
		return "end object"
	case StartArray:
		return "start array"
	case EndArray:
		return "end array"
	case KeyName:
		return "key name"
	case ValueString:
		return "string"
	case ValueNumber:
		return "number"
	case ValueTrue:
		return "true"
	case ValueFalse:
		return "false"
	case ValueNull:
		return "null"
	default:
		return fmt.Sprintf("<unknown event %v>", uint8(e))
	}
}

// Location is the position of the token that produced the current event. Line
// and Column are 1-based and count characters; Offset is a 0-based byte offset.
// BSON readers report Line and Column as 0.
type Location struct {
	Line   int
	Column int
	Offset uint64
}

func (l Location) String() string {
	if l.Line == 0 {
		return fmt.Sprintf("offset %v", l.Offset)
	}
	return fmt.Sprintf("line %v, column %v, offset %v", l.Line, l.Column, l.Offset)
}
