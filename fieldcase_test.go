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

func TestToFieldCase(t *testing.T) {
	testCases := []struct {
		in   string
		want FieldCase
	}{
		{in: "upper", want: FieldCaseUpper},
		{in: "UPPER", want: FieldCaseUpper},
		{in: "lower", want: FieldCaseLower},
		{in: "Lower", want: FieldCaseLower},
		{in: "", want: FieldCaseNone},
		{in: "as-is", want: FieldCaseNone},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			is := is.New(t)
			is.Equal(ToFieldCase(tc.in), tc.want)
		})
	}
}

func TestConvertCase(t *testing.T) {
	is := is.New(t)

	r := NewStructuredRecord()
	r.Set("Id", int64(1))
	r.Set("UserName", "alice")

	upper, err := ConvertCase(r, FieldCaseUpper)
	is.NoErr(err)
	is.Equal(upper.Fields(), []string{"ID", "USERNAME"})

	v, ok := upper.Get("ID")
	is.True(ok)
	is.Equal(v, int64(1))

	lower, err := ConvertCase(r, FieldCaseLower)
	is.NoErr(err)
	is.Equal(lower.Fields(), []string{"id", "username"})
}

func TestConvertCase_Idempotent(t *testing.T) {
	is := is.New(t)

	r := NewStructuredRecord()
	r.Set("Id", int64(1))
	r.Set("UserName", "alice")

	once, err := ConvertCase(r, FieldCaseUpper)
	is.NoErr(err)
	twice, err := ConvertCase(once, FieldCaseUpper)
	is.NoErr(err)

	is.True(once.Equal(twice))
}

func TestConvertCase_None(t *testing.T) {
	is := is.New(t)

	r := NewStructuredRecord()
	r.Set("Id", int64(1))

	out, err := ConvertCase(r, FieldCaseNone)
	is.NoErr(err)
	is.Equal(out, r) // no conversion returns the input record
}

func TestConvertCase_Conflict(t *testing.T) {
	is := is.New(t)

	r := NewStructuredRecord()
	r.Set("id", int64(1))
	r.Set("ID", int64(2))

	_, err := ConvertCase(r, FieldCaseLower)
	is.True(err != nil)

	// without folding the names don't collide
	out, err := ConvertCase(r, FieldCaseNone)
	is.NoErr(err)
	is.Equal(out.Len(), 2)
}
