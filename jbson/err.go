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

// A UsageError is returned when you use a Reader or Writer in an inappropriate way:
// closing a container that was never opened, writing a value without a field name,
// reading past the end of the document, or asking for a value of the wrong kind.
type UsageError struct {
	API string
	Msg string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("jbson: usage error in %v: %v", e.API, e.Msg)
}

// An IOError is returned when there is an error reading from or writing to an
// underlying io.Reader or io.Writer.
type IOError struct {
	Err    error
	Offset uint64
}

func (e *IOError) Error() string {
	return fmt.Sprintf("jbson: i/o error: %v (offset %v)", e.Err, e.Offset)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// An UnexpectedEOFError is returned when a Reader runs out of input in the
// middle of a document.
type UnexpectedEOFError struct {
	Offset uint64
}

func (e *UnexpectedEOFError) Error() string {
	return fmt.Sprintf("jbson: unexpected end of input (offset %v)", e.Offset)
}

// A SyntaxError is returned when a text Reader encounters malformed JSON: a bad
// literal, number, string escape or comment, or a missing separator.
type SyntaxError struct {
	Msg string
	Loc Location
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("jbson: syntax error: %v (%v)", e.Msg, e.Loc)
}

// A StructuralError is returned when a text Reader finds a closing bracket that
// does not match the innermost open container, or nesting beyond the configured depth.
type StructuralError struct {
	Msg string
	Loc Location
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("jbson: structural error: %v (%v)", e.Msg, e.Loc)
}

// A DecodeError is returned when a BSON Reader encounters an unknown or
// unsupported element type, an invalid binary subtype, or a malformed payload.
type DecodeError struct {
	Msg    string
	Offset uint64
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("jbson: decode error: %v (offset %v)", e.Msg, e.Offset)
}

// A NumericOverflowError is returned when a number cannot be represented exactly
// at the requested width. It does not poison the Reader; callers may fall back
// to a wider accessor.
type NumericOverflowError struct {
	Num   string
	Width string
}

func (e *NumericOverflowError) Error() string {
	return fmt.Sprintf("jbson: %v cannot be represented exactly as %v", e.Num, e.Width)
}
