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

// Copy reads every remaining event from r, writes it to w, and finishes w.
func Copy(w Writer, r Reader) error {
	for r.HasNext() {
		ev, err := r.Next()
		if err != nil {
			return err
		}
		if err := copyEvent(w, r, ev); err != nil {
			return err
		}
	}
	return w.Finish()
}

// copyEvent writes the single event ev.
func copyEvent(w Writer, r Reader, ev Event) error {
	switch ev {
	case StartObject:
		return w.BeginObject()
	case EndObject:
		return w.EndObject()
	case StartArray:
		return w.BeginArray()
	case EndArray:
		return w.EndArray()

	case KeyName:
		name, err := r.String()
		if err != nil {
			return err
		}
		return w.FieldName(name)

	case ValueString:
		str, err := r.String()
		if err != nil {
			return err
		}
		return w.WriteString(str)

	case ValueNumber:
		num, err := r.Number()
		if err != nil {
			return err
		}
		return w.WriteNumber(num)

	case ValueTrue, ValueFalse:
		return w.WriteBool(ev == ValueTrue)

	case ValueNull:
		return w.WriteNull()
	}

	return &UsageError{"Copy", fmt.Sprintf("unexpected event %v", ev)}
}
