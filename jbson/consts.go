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

// BSON element type tags.
const (
	bsonEnd           byte = 0x00
	bsonDouble        byte = 0x01
	bsonString        byte = 0x02
	bsonDocument      byte = 0x03
	bsonArray         byte = 0x04
	bsonBinary        byte = 0x05
	bsonUndefined     byte = 0x06
	bsonObjectID      byte = 0x07
	bsonBoolean       byte = 0x08
	bsonDateTime      byte = 0x09
	bsonNull          byte = 0x0A
	bsonRegex         byte = 0x0B
	bsonDBPointer     byte = 0x0C
	bsonCode          byte = 0x0D
	bsonSymbol        byte = 0x0E
	bsonCodeWithScope byte = 0x0F
	bsonInt32         byte = 0x10
	bsonTimestamp     byte = 0x11
	bsonInt64         byte = 0x12
	bsonDecimal128    byte = 0x13
	bsonMaxKey        byte = 0x7F
	bsonMinKey        byte = 0xFF
)

// BSON binary subtypes. Subtypes from 0x80 up are user defined.
const (
	bsonSubtypeGeneric     byte = 0x00
	bsonSubtypeUserDefined byte = 0x80
)

// Sizes of the fixed-width BSON payloads.
const (
	bsonLengthSize     = 4
	bsonObjectIDSize   = 12
	bsonDecimal128Size = 16
)

var bsonTypeNames = map[byte]string{
	bsonDouble:        "double",
	bsonString:        "string",
	bsonDocument:      "document",
	bsonArray:         "array",
	bsonBinary:        "binary",
	bsonUndefined:     "undefined",
	bsonObjectID:      "objectid",
	bsonBoolean:       "boolean",
	bsonDateTime:      "datetime",
	bsonNull:          "null",
	bsonRegex:         "regex",
	bsonDBPointer:     "dbpointer",
	bsonCode:          "javascript code",
	bsonSymbol:        "symbol",
	bsonCodeWithScope: "code with scope",
	bsonInt32:         "int32",
	bsonTimestamp:     "timestamp",
	bsonInt64:         "int64",
	bsonDecimal128:    "decimal128",
	bsonMaxKey:        "maxkey",
	bsonMinKey:        "minkey",
}

var hexChars = []byte{
	'0', '1', '2', '3', '4', '5', '6', '7',
	'8', '9', 'a', 'b', 'c', 'd', 'e', 'f',
}

// The JSON literals and their events.
var literals = map[int]struct {
	word  string
	event Event
}{
	't': {"true", ValueTrue},
	'f': {"false", ValueFalse},
	'n': {"null", ValueNull},
}
