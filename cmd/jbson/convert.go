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
	"io"
	"os"

	"github.com/jbson-go/jbson/jbson"
	"github.com/moby/sys/atomicwriter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const stdio = "-"

type convertCmd struct {
	From       string `help:"Input file, or - for stdin." default:"-" placeholder:"PATH"`
	To         string `help:"Output file, or - for stdout." default:"-" placeholder:"PATH"`
	FromFormat string `help:"Input format (${enum})." enum:"auto,json,bson" default:"auto"`
	ToFormat   string `help:"Output format (${enum})." enum:"auto,json,bson" default:"auto"`
	Pretty     bool   `help:"Indent JSON output. On by default when writing to a terminal."`
	Indent     string `help:"Indent unit for pretty JSON output." placeholder:"STRING"`
	Streaming  bool   `help:"Write BSON without holding documents in memory, then backpatch the output file."`
}

// Run converts the input to the output format.
func (c *convertCmd) Run(g *Globals, s *streams) error {
	opts, err := loadOptions(g.Config)
	if err != nil {
		return err
	}
	opts = c.overlay(opts, s.outTTY)

	from, err := pickFormat(c.FromFormat, c.From)
	if err != nil {
		return err
	}
	to, err := pickFormat(c.ToFormat, c.To)
	if err != nil {
		return err
	}

	in := s.in
	if c.From != stdio {
		f, err := os.Open(c.From)
		if err != nil {
			return errors.Wrapf(err, "opening %v", c.From)
		}
		defer f.Close()
		in = f
	}

	r, err := from.NewReader(in, opts)
	if err != nil {
		return errors.Wrapf(err, "reading %v", c.From)
	}

	log := logrus.WithFields(logrus.Fields{
		"from": from.Name(),
		"to":   to.Name(),
	})

	if to == jbson.BSON && opts.Streaming && c.To != stdio {
		return c.convertStreaming(r, opts, log)
	}

	var buf bytes.Buffer
	out := io.Writer(&buf)
	if c.To == stdio {
		out = s.out
	}

	cw := &countingWriter{w: out}
	w, err := to.NewWriter(cw, opts)
	if err != nil {
		return err
	}
	if err := jbson.Copy(w, r); err != nil {
		return errors.Wrapf(err, "converting %v", c.From)
	}

	if c.To != stdio {
		if err := atomicwriter.WriteFile(c.To, buf.Bytes(), 0o644); err != nil {
			return errors.Wrapf(err, "writing %v", c.To)
		}
	}

	log.WithField("bytes", cw.n).Debug("converted")
	return nil
}

// convertStreaming writes BSON straight to the output file, then fixes its
// length fields in place.
func (c *convertCmd) convertStreaming(r jbson.Reader, opts jbson.Options, log *logrus.Entry) error {
	f, err := os.Create(c.To)
	if err != nil {
		return errors.Wrapf(err, "creating %v", c.To)
	}
	defer f.Close()

	cw := &countingWriter{w: f}
	if err := jbson.Copy(jbson.NewBSONWriter(cw, opts), r); err != nil {
		return errors.Wrapf(err, "converting %v", c.From)
	}

	patches, err := jbson.Backpatch(f, cw.n)
	if err != nil {
		return errors.Wrapf(err, "backpatching %v", c.To)
	}

	log.WithFields(logrus.Fields{
		"bytes":   cw.n,
		"patches": len(patches),
	}).Debug("converted")

	return f.Close()
}

// overlay applies the command's flags on top of options from a config file.
func (c *convertCmd) overlay(opts jbson.Options, outTTY bool) jbson.Options {
	if c.Pretty || (outTTY && c.To == stdio) {
		opts.Pretty = true
	}
	if c.Indent != "" {
		opts.Indent = c.Indent
	}
	if c.Streaming {
		opts.Streaming = true
	}
	return opts
}

// pickFormat resolves a format flag, inferring it from path when it is "auto".
func pickFormat(name, path string) (jbson.Format, error) {
	if name == "auto" {
		return jbson.FormatForPath(path), nil
	}
	return jbson.FormatByName(name)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
