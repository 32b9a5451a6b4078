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
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// Globals are the flags shared by every command.
type Globals struct {
	Debug  bool   `help:"Enable debug logging."`
	Config string `help:"YAML file of codec options." type:"path" placeholder:"FILE"`
}

type cli struct {
	Globals `embed:""`

	Convert   convertCmd   `cmd:"" help:"Convert between JSON and BSON."`
	Backpatch backpatchCmd `cmd:"" help:"Fix the document lengths of a streamed BSON file in place."`
	Version   versionCmd   `cmd:"" help:"Print version information."`
}

// streams are the standard streams a command runs against.
type streams struct {
	in     io.Reader
	out    io.Writer
	err    io.Writer
	outTTY bool
	errTTY bool
}

// main is the main entry point for jbson.
func main() {
	s := &streams{
		in:     os.Stdin,
		out:    os.Stdout,
		err:    os.Stderr,
		outTTY: isatty.IsTerminal(os.Stdout.Fd()),
		errTTY: isatty.IsTerminal(os.Stderr.Fd()),
	}
	os.Exit(run(os.Args[1:], s))
}

// run parses args and runs the selected command, returning the exit code.
func run(args []string, s *streams) int {
	var c cli
	parser, err := kong.New(&c,
		kong.Name("jbson"),
		kong.Description("Converts between JSON text and BSON."),
		kong.UsageOnError(),
		kong.Writers(s.out, s.err),
	)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		printError(s, err)
		return 2
	}

	logrus.SetOutput(s.err)
	logrus.SetLevel(logrus.InfoLevel)
	if c.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if err := ctx.Run(&c.Globals, s); err != nil {
		printError(s, err)
		return 1
	}
	return 0
}

// printError reports err on stderr, in red when stderr is a terminal.
func printError(s *streams, err error) {
	c := color.New(color.FgRed, color.Bold)
	if s.errTTY {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	_, _ = c.Fprint(s.err, "error:")
	_, _ = fmt.Fprintf(s.err, " %v\n", err)
}
