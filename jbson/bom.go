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
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

var (
	utf8BOM    = []byte{0xEF, 0xBB, 0xBF}
	utf16BEBOM = []byte{0xFE, 0xFF}
	utf16LEBOM = []byte{0xFF, 0xFE}
	utf32BEBOM = []byte{0x00, 0x00, 0xFE, 0xFF}
	utf32LEBOM = []byte{0xFF, 0xFE, 0x00, 0x00}
)

// boms maps each byte-order mark to the decoder for the text that follows it.
// The UTF-32LE mark starts with the UTF-16LE one, so it must be tried first.
var boms = []struct {
	mark []byte
	enc  encoding.Encoding
}{
	{utf32LEBOM, utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM)},
	{utf32BEBOM, utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM)},
	{utf8BOM, nil},
	{utf16LEBOM, unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)},
	{utf16BEBOM, unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)},
}

// decodeText detects and discards a byte-order mark, returning a reader that
// yields UTF-8. Input without a mark is assumed to be UTF-8.
func decodeText(in io.Reader) (io.Reader, error) {
	r := bufio.NewReader(in)

	preamble, err := r.Peek(4)
	if err != nil && err != io.EOF {
		return nil, &IOError{err, 0}
	}

	for _, bom := range boms {
		if !bytes.HasPrefix(preamble, bom.mark) {
			continue
		}
		_, _ = r.Discard(len(bom.mark))
		if bom.enc == nil {
			return r, nil
		}
		return bom.enc.NewDecoder().Reader(r), nil
	}

	return r, nil
}
