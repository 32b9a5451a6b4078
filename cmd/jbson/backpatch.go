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
	"os"

	"github.com/jbson-go/jbson/jbson"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type backpatchCmd struct {
	File string `arg:"" help:"BSON file written in streaming mode." type:"path"`
}

// Run recomputes every document length in the file and writes it in place.
func (c *backpatchCmd) Run() error {
	f, err := os.OpenFile(c.File, os.O_RDWR, 0)
	if err != nil {
		return errors.Wrapf(err, "opening %v", c.File)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return errors.Wrapf(err, "opening %v", c.File)
	}

	patches, err := jbson.Backpatch(f, info.Size())
	if err != nil {
		return errors.Wrapf(err, "backpatching %v", c.File)
	}

	for _, p := range patches {
		logrus.WithFields(logrus.Fields{
			"offset": p.Offset,
			"size":   p.Size,
		}).Debug("patched document length")
	}

	return f.Close()
}
