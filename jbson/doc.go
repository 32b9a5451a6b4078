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

// Package jbson reads and writes JSON text and BSON as a flat stream of
// events, and converts between the two.
//
// A Reader turns its input into events (StartObject, KeyName, ValueNumber and
// so on) one at a time; a Writer accepts the same vocabulary as method calls.
// Because both formats share the vocabulary, Copy converts any input to any
// output without building a tree in memory:
//
//	r, err := jbson.JSON.NewReader(os.Stdin, jbson.Options{})
//	if err != nil {
//		return err
//	}
//	w, err := jbson.BSON.NewWriter(os.Stdout, jbson.Options{})
//	if err != nil {
//		return err
//	}
//	return jbson.Copy(w, r)
//
// BSON has no array type at the root and stores arrays as documents keyed by
// index, so BSON readers report a document as an array when its first key is
// "0". Options.RootAsArray forces that reading for root documents.
//
// A streaming BSONWriter never seeks: it leaves every document length as zero
// and records where each belongs. Backpatch fixes such a file in place once it
// has been written.
package jbson
