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

package hive

import (
	"testing"
	"time"

	"github.com/matryer/is"

	hydrator "github.com/socking/hydrator-plugins"
)

func TestRecordTransformer(t *testing.T) {
	is := is.New(t)
	transformer := NewRecordTransformer(testSchema(t))

	record := hydrator.NewStructuredRecord()
	record.Set("id", int64(7))
	record.Set("name", "widget")
	record.Set("price", "19.99")

	got, err := transformer.Transform(record)
	is.NoErr(err)
	is.Equal(got.Values(), []any{int64(7), "widget", "19.99"})
}

func TestRecordTransformer_UnsetColumnsStayNull(t *testing.T) {
	is := is.New(t)
	transformer := NewRecordTransformer(testSchema(t))

	record := hydrator.NewStructuredRecord()
	record.Set("id", int64(7))

	got, err := transformer.Transform(record)
	is.NoErr(err)
	is.Equal(got.Values(), []any{int64(7), nil, nil})
}

func TestRecordTransformer_UnknownField(t *testing.T) {
	is := is.New(t)
	transformer := NewRecordTransformer(testSchema(t))

	record := hydrator.NewStructuredRecord()
	record.Set("id", int64(7))
	record.Set("color", "red")

	_, err := transformer.Transform(record)
	is.True(err != nil) // every record field must map onto a column
}

func TestRecordTransformer_IncompatibleValue(t *testing.T) {
	is := is.New(t)
	transformer := NewRecordTransformer(testSchema(t))

	record := hydrator.NewStructuredRecord()
	record.Set("id", "not a number")

	_, err := transformer.Transform(record)
	is.True(err != nil)
}

func TestCoerceValue(t *testing.T) {
	now := time.Now()

	testCases := []struct {
		name       string
		columnType string
		in         any
		want       any
		wantErr    bool
	}{
		{name: "bool", columnType: TypeBoolean, in: true, want: true},
		{name: "int widened", columnType: TypeInt, in: int32(3), want: int64(3)},
		{name: "uint widened", columnType: TypeBigint, in: uint32(3), want: int64(3)},
		{name: "float widened", columnType: TypeDouble, in: float32(1.5), want: float64(1.5)},
		{name: "int to double", columnType: TypeDouble, in: int64(2), want: float64(2)},
		{name: "bytes to string", columnType: TypeString, in: []byte("x"), want: "x"},
		{name: "decimal as string", columnType: "decimal(10,2)", in: "19.99", want: "19.99"},
		{name: "string to binary", columnType: TypeBinary, in: "x", want: []byte("x")},
		{name: "binary passthrough", columnType: TypeBinary, in: []byte{0xff, 0x00}, want: []byte{0xff, 0x00}},
		{name: "bytes from binary column to string", columnType: TypeVarchar, in: []byte("alice"), want: "alice"},
		{name: "timestamp", columnType: TypeTimestamp, in: now, want: now},
		{name: "date as string", columnType: TypeDate, in: "2023-05-01", want: "2023-05-01"},
		{name: "null", columnType: TypeString, in: nil, want: nil},
		{name: "bool mismatch", columnType: TypeBoolean, in: "yes", wantErr: true},
		{name: "int mismatch", columnType: TypeInt, in: 1.5, wantErr: true},
		{name: "unsupported type", columnType: "map<string,string>", in: "x", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			is := is.New(t)
			got, err := coerceValue(tc.columnType, tc.in)
			if tc.wantErr {
				is.True(err != nil)
				return
			}
			is.NoErr(err)
			is.Equal(got, tc.want)
		})
	}
}
