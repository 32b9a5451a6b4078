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

package main

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"gotest.tools/v3/fs"
)

// doc is the JSON used across these tests, and docBSON its BSON encoding.
const doc = `{"a":[1,true],"b":{"c":"d"}}`

var docBSON = mustMarshal(bson.D{
	{Key: "a", Value: bson.A{int32(1), true}},
	{Key: "b", Value: bson.D{{Key: "c", Value: "d"}}},
})

func TestConvertJSONToBSON(t *testing.T) {
	dir := fs.NewDir(t, "jbson", fs.WithFile("in.json", doc))
	defer dir.Remove()

	s, _, stderr := testStreams("")
	code := run([]string{"convert", "--from", dir.Join("in.json"), "--to", dir.Join("out.bson")}, s)
	require.Equal(t, 0, code, stderr.String())

	out, err := os.ReadFile(dir.Join("out.bson"))
	require.NoError(t, err)
	assert.Equal(t, docBSON, out)
}

func TestConvertBSONToJSON(t *testing.T) {
	dir := fs.NewDir(t, "jbson", fs.WithFile("in.bson", "", fs.WithBytes(docBSON)))
	defer dir.Remove()

	s, stdout, stderr := testStreams("")
	code := run([]string{"convert", "--from", dir.Join("in.bson")}, s)
	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, doc, stdout.String())
}

func TestConvertPretty(t *testing.T) {
	dir := fs.NewDir(t, "jbson", fs.WithFile("in.bson", "", fs.WithBytes(docBSON)))
	defer dir.Remove()

	s, stdout, _ := testStreams("")
	require.Equal(t, 0, run([]string{"convert", "--from", dir.Join("in.bson"), "--pretty"}, s))

	expected := `{
  "a": [
    1,
    true
  ],
  "b": {
    "c": "d"
  }
}
`
	assert.Equal(t, expected, stdout.String())

	s, stdout, _ = testStreams("")
	s.outTTY = true
	require.Equal(t, 0, run([]string{"convert", "--from", dir.Join("in.bson"), "--indent", "\t"}, s))
	assert.Equal(t, strings.ReplaceAll(expected, "  ", "\t"), stdout.String())
}

func TestConvertStdin(t *testing.T) {
	s, stdout, stderr := testStreams(doc)
	code := run([]string{"convert", "--to-format", "bson"}, s)
	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, docBSON, stdout.Bytes())
}

func TestConvertStreaming(t *testing.T) {
	dir := fs.NewDir(t, "jbson", fs.WithFile("in.json", doc))
	defer dir.Remove()

	s, _, stderr := testStreams("")
	code := run([]string{
		"--debug",
		"convert", "--streaming",
		"--from", dir.Join("in.json"),
		"--to", dir.Join("out.bson"),
	}, s)
	require.Equal(t, 0, code, stderr.String())

	out, err := os.ReadFile(dir.Join("out.bson"))
	require.NoError(t, err)
	assert.Equal(t, docBSON, out)
	assert.Contains(t, stderr.String(), "patches=3")
}

func TestConvertConfig(t *testing.T) {
	dir := fs.NewDir(t, "jbson",
		fs.WithFile("in.json", `{"x":[]}`),
		fs.WithFile("jbson.yaml", "pretty: true\nindent: \"    \"\n"))
	defer dir.Remove()

	s, stdout, stderr := testStreams("")
	code := run([]string{"--config", dir.Join("jbson.yaml"), "convert", "--from", dir.Join("in.json")}, s)
	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, "{\n    \"x\": []\n}\n", stdout.String())
}

func TestConvertBadConfig(t *testing.T) {
	dir := fs.NewDir(t, "jbson", fs.WithFile("jbson.yaml", "binary_encoding: base32\n"))
	defer dir.Remove()

	s, _, stderr := testStreams(doc)
	code := run([]string{"--config", dir.Join("jbson.yaml"), "convert"}, s)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "parsing config")
}

func TestConvertSyntaxError(t *testing.T) {
	dir := fs.NewDir(t, "jbson", fs.WithFile("in.json", `{"a":[1,}`))
	defer dir.Remove()

	s, _, stderr := testStreams("")
	code := run([]string{"convert", "--from", dir.Join("in.json"), "--to", dir.Join("out.bson")}, s)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "error: converting "+dir.Join("in.json"))
	assert.Contains(t, stderr.String(), "line 1, column 9, offset 8")

	// Nothing is written when the conversion fails.
	_, err := os.Stat(dir.Join("out.bson"))
	assert.True(t, os.IsNotExist(err))
}

func TestConvertMissingInput(t *testing.T) {
	s, _, stderr := testStreams("")
	code := run([]string{"convert", "--from", "/does/not/exist.json"}, s)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "opening /does/not/exist.json")
}

func TestBadArguments(t *testing.T) {
	s, _, _ := testStreams("")
	assert.Equal(t, 2, run([]string{"convert", "--to-format", "xml"}, s))
}

func TestBackpatch(t *testing.T) {
	zeroed := append([]byte(nil), docBSON...)
	// Length fields of the root, "a" and "b".
	for _, off := range []int{0, 7, 26} {
		copy(zeroed[off:off+4], []byte{0, 0, 0, 0})
	}
	require.NotEqual(t, docBSON, zeroed)

	dir := fs.NewDir(t, "jbson", fs.WithFile("out.bson", "", fs.WithBytes(zeroed)))
	defer dir.Remove()

	s, _, stderr := testStreams("")
	code := run([]string{"--debug", "backpatch", dir.Join("out.bson")}, s)
	require.Equal(t, 0, code, stderr.String())

	out, err := os.ReadFile(dir.Join("out.bson"))
	require.NoError(t, err)
	assert.Equal(t, docBSON, out)
	assert.Equal(t, 3, strings.Count(stderr.String(), "patched document length"))
}

func TestBackpatchTruncated(t *testing.T) {
	dir := fs.NewDir(t, "jbson", fs.WithFile("out.bson", "", fs.WithBytes(docBSON[:10])))
	defer dir.Remove()

	s, _, stderr := testStreams("")
	assert.Equal(t, 1, run([]string{"backpatch", dir.Join("out.bson")}, s))
	assert.Contains(t, stderr.String(), "unexpected end of input")
}

func TestVersion(t *testing.T) {
	s, stdout, _ := testStreams("")
	require.Equal(t, 0, run([]string{"version"}, s))
	assert.Equal(t, "{\n  \"version\": \"unknown-commit\",\n  \"build_time\": \"unknown-buildtime\"\n}\n", stdout.String())
}

func testStreams(stdin string) (*streams, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &streams{
		in:  strings.NewReader(stdin),
		out: stdout,
		err: stderr,
	}, stdout, stderr
}

func mustMarshal(v interface{}) []byte {
	bs, err := bson.Marshal(v)
	if err != nil {
		panic(err)
	}
	return bs
}
