// Copyright © 2023 Socking, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package hydrator

import (
	"testing"

	"github.com/matryer/is"
)

func TestStructuredRecord_FieldOrder(t *testing.T) {
	is := is.New(t)

	r := NewStructuredRecord()
	r.Set("id", int64(1))
	r.Set("name", "alice")
	r.Set("age", int64(30))

	is.Equal(r.Fields(), []string{"id", "name", "age"})
	is.Equal(r.Len(), 3)

	// overwriting keeps the position
	r.Set("name", "bob")
	is.Equal(r.Fields(), []string{"id", "name", "age"})

	v, ok := r.Get("name")
	is.True(ok)
	is.Equal(v, "bob")
}

func TestStructuredRecord_GetUnknownField(t *testing.T) {
	is := is.New(t)

	r := NewStructuredRecord()
	_, ok := r.Get("missing")
	is.True(!ok)
}

func TestStructuredRecord_MarshalJSON(t *testing.T) {
	is := is.New(t)

	r := NewStructuredRecord()
	r.Set("b", int64(2))
	r.Set("a", int64(1))
	r.Set("c", nil)

	// fields are encoded in record order, not sorted
	is.Equal(string(r.Bytes()), `{"b":2,"a":1,"c":null}`)
}

func TestStructuredRecord_Equal(t *testing.T) {
	is := is.New(t)

	r1 := NewStructuredRecord()
	r1.Set("id", int64(1))
	r1.Set("name", "alice")

	r2 := NewStructuredRecord()
	r2.Set("id", int64(1))
	r2.Set("name", "alice")

	is.True(r1.Equal(r2))
	is.True(!r1.Equal(nil))

	// same fields in a different order are not equal
	r3 := NewStructuredRecord()
	r3.Set("name", "alice")
	r3.Set("id", int64(1))
	is.True(!r1.Equal(r3))

	r2.Set("name", "bob")
	is.True(!r1.Equal(r2))
}
