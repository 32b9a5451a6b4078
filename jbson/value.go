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
)

// A Value is a fully realized JSON value: Null, Bool, Number, String, Array
// or Object.
type Value interface {
	isValue()
}

// Null is the JSON null.
type Null struct{}

// Bool is a JSON boolean.
type Bool bool

// String is a JSON string.
type String string

// Array is a JSON array.
type Array []Value

// A Member is one key/value pair of an Object.
type Member struct {
	Key   string
	Value Value
}

// Object is a JSON object. Members keep the order they were read or built in.
type Object []Member

func (Null) isValue()   {}
func (Bool) isValue()   {}
func (Number) isValue() {}
func (String) isValue() {}
func (Array) isValue()  {}
func (Object) isValue() {}

// Get returns the value of the first member with the given key.
func (o Object) Get(key string) (Value, bool) {
	for _, m := range o {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// ReadValue reads the next complete value from r.
func ReadValue(r Reader) (Value, error) {
	ev, err := r.Next()
	if err != nil {
		return nil, err
	}
	return readValue(r, ev)
}

func readValue(r Reader, ev Event) (Value, error) {
	switch ev {
	case ValueNull:
		return Null{}, nil

	case ValueTrue, ValueFalse:
		return Bool(ev == ValueTrue), nil

	case ValueString:
		str, err := r.String()
		return String(str), err

	case ValueNumber:
		return r.Number()

	case StartArray:
		arr := Array{}
		for {
			ev, err := r.Next()
			if err != nil {
				return nil, err
			}
			if ev == EndArray {
				return arr, nil
			}
			v, err := readValue(r, ev)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}

	case StartObject:
		obj := Object{}
		for {
			ev, err := r.Next()
			if err != nil {
				return nil, err
			}
			if ev == EndObject {
				return obj, nil
			}
			key, err := r.String()
			if err != nil {
				return nil, err
			}
			v, err := ReadValue(r)
			if err != nil {
				return nil, err
			}
			obj = append(obj, Member{key, v})
		}
	}

	return nil, &UsageError{"ReadValue", fmt.Sprintf("unexpected event %v", ev)}
}

// WriteValue writes v to w.
func WriteValue(w Writer, v Value) error {
	switch v := v.(type) {
	case Null:
		return w.WriteNull()

	case Bool:
		return w.WriteBool(bool(v))

	case String:
		return w.WriteString(string(v))

	case Number:
		return w.WriteNumber(v)

	case Array:
		if err := w.BeginArray(); err != nil {
			return err
		}
		for _, e := range v {
			if err := WriteValue(w, e); err != nil {
				return err
			}
		}
		return w.EndArray()

	case Object:
		if err := w.BeginObject(); err != nil {
			return err
		}
		for _, m := range v {
			if err := w.FieldName(m.Key); err != nil {
				return err
			}
			if err := WriteValue(w, m.Value); err != nil {
				return err
			}
		}
		return w.EndObject()
	}

	return &UsageError{"WriteValue", fmt.Sprintf("unsupported value %T", v)}
}

// Equal reports whether two values are equal. Numbers compare by value
// regardless of kind, and objects compare as sets of members.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok

	case Bool:
		bb, ok := b.(Bool)
		return ok && a == bb

	case String:
		bs, ok := b.(String)
		return ok && a == bs

	case Number:
		bn, ok := b.(Number)
		return ok && a.Equal(bn)

	case Array:
		ba, ok := b.(Array)
		if !ok || len(a) != len(ba) {
			return false
		}
		for i := range a {
			if !Equal(a[i], ba[i]) {
				return false
			}
		}
		return true

	case Object:
		bo, ok := b.(Object)
		if !ok || len(a) != len(bo) {
			return false
		}
		for _, m := range a {
			v, ok := bo.Get(m.Key)
			if !ok || !Equal(m.Value, v) {
				return false
			}
		}
		return true
	}

	return false
}
