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
	"github.com/jbson-go/jbson/internal"
	"github.com/jbson-go/jbson/jbson"
)

type versionCmd struct{}

// Run prints (in JSON) the version info for this tool.
func (versionCmd) Run(s *streams) error {
	w := jbson.NewTextWriter(s.out, jbson.Options{Pretty: true})

	if err := w.BeginObject(); err != nil {
		return err
	}
	{
		if err := w.FieldName("version"); err != nil {
			return err
		}
		if err := w.WriteString(internal.GitCommit); err != nil {
			return err
		}

		if err := w.FieldName("build_time"); err != nil {
			return err
		}
		if err := w.WriteString(internal.BuildTime); err != nil {
			return err
		}
	}
	if err := w.EndObject(); err != nil {
		return err
	}

	return w.Finish()
}
