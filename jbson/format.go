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
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// BinaryEncoding is the text form of binary payloads.
type BinaryEncoding uint8

const (
	// Base64 is standard padded base64.
	Base64 BinaryEncoding = iota
	// Hex is lowercase hexadecimal. Either case is accepted when reading.
	Hex
)

func (e BinaryEncoding) String() string {
	switch e {
	case Base64:
		return "base64"
	case Hex:
		return "hex"
	default:
		return fmt.Sprintf("<unknown encoding %v>", uint8(e))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (e BinaryEncoding) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *BinaryEncoding) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "base64", "":
		*e = Base64
	case "hex":
		*e = Hex
	default:
		return fmt.Errorf("jbson: unknown binary encoding %q", text)
	}
	return nil
}

// Options configures readers and writers. The zero value reads strict JSON and
// writes compact JSON and in-memory BSON.
type Options struct {
	// AllowComments lets text readers skip // and /* */ comments.
	AllowComments bool `yaml:"allow_comments"`
	// BinaryEncoding is the text form of binary payloads.
	BinaryEncoding BinaryEncoding `yaml:"binary_encoding"`
	// Pretty makes text writers indent their output.
	Pretty bool `yaml:"pretty"`
	// Indent is the indent unit for pretty output; DefaultIndent if empty.
	Indent string `yaml:"indent"`
	// UseDouble makes BSON writers store numbers that no integer type holds
	// as doubles rather than strings.
	UseDouble bool `yaml:"use_double"`
	// Decimal128 makes BSON writers store such numbers as decimal128 when they fit.
	Decimal128 bool `yaml:"decimal128"`
	// RootAsArray makes BSON readers report root documents as arrays.
	RootAsArray bool `yaml:"root_as_array"`
	// RawKeys makes text writers emit keys without escaping.
	RawKeys bool `yaml:"raw_keys"`
	// Streaming makes BSON writers leave length fields for backpatching.
	Streaming bool `yaml:"streaming"`
	// MaxDepth limits nesting when reading; DefaultMaxDepth if zero.
	MaxDepth int `yaml:"max_depth"`
}

func (o Options) maxDepth() int {
	if o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

// A Format creates readers and writers for one wire format.
type Format interface {
	// Name returns the format's name, "json" or "bson".
	Name() string

	// NewReader creates a Reader for the format.
	NewReader(in io.Reader, opts Options) (Reader, error)

	// NewWriter creates a Writer for the format.
	NewWriter(out io.Writer, opts Options) (Writer, error)
}

type jsonFormat struct{}

func (jsonFormat) Name() string {
	return "json"
}

func (jsonFormat) NewReader(in io.Reader, opts Options) (Reader, error) {
	return NewTextReader(in, opts)
}

func (jsonFormat) NewWriter(out io.Writer, opts Options) (Writer, error) {
	return NewTextWriter(out, opts), nil
}

type bsonFormat struct{}

func (bsonFormat) Name() string {
	return "bson"
}

func (bsonFormat) NewReader(in io.Reader, opts Options) (Reader, error) {
	return NewBSONReader(in, opts), nil
}

func (bsonFormat) NewWriter(out io.Writer, opts Options) (Writer, error) {
	return NewBSONWriter(out, opts), nil
}

// The supported formats.
var (
	JSON Format = jsonFormat{}
	BSON Format = bsonFormat{}
)

// FormatByName returns the format with the given name.
func FormatByName(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "json":
		return JSON, nil
	case "bson":
		return BSON, nil
	}
	return nil, fmt.Errorf("jbson: unknown format %q", name)
}

// FormatForPath picks a format from a file name: BSON for a .bson extension,
// JSON for anything else.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".bson") {
		return BSON
	}
	return JSON
}
