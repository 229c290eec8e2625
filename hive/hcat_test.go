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

	"github.com/matryer/is"
)

func testSchema(t *testing.T) *TableSchema {
	is := is.New(t)
	schema, err := NewTableSchema([]FieldSchema{
		{Name: "id", Type: TypeBigint},
		{Name: "name", Type: TypeString},
		{Name: "price", Type: "decimal(10,2)"},
	})
	is.NoErr(err)
	return schema
}

func TestNewTableSchema_DuplicateColumn(t *testing.T) {
	is := is.New(t)

	_, err := NewTableSchema([]FieldSchema{
		{Name: "id", Type: TypeBigint},
		{Name: "ID", Type: TypeInt},
	})
	is.True(err != nil) // names equal when case is ignored
}

func TestTableSchema_Position(t *testing.T) {
	is := is.New(t)
	schema := testSchema(t)

	i, ok := schema.Position("name")
	is.True(ok)
	is.Equal(i, 1)

	// lookups are case-insensitive
	i, ok = schema.Position("NAME")
	is.True(ok)
	is.Equal(i, 1)

	_, ok = schema.Position("missing")
	is.True(!ok)
}

func TestTableSchema_Equal(t *testing.T) {
	is := is.New(t)

	s1 := testSchema(t)
	s2 := testSchema(t)
	is.True(s1.Equal(s2))
	is.True(!s1.Equal(nil))

	s3, err := NewTableSchema([]FieldSchema{{Name: "id", Type: TypeBigint}})
	is.NoErr(err)
	is.True(!s1.Equal(s3))
}

func TestBaseType(t *testing.T) {
	is := is.New(t)

	is.Equal(baseType("decimal(10,2)"), TypeDecimal)
	is.Equal(baseType("varchar(255)"), TypeVarchar)
	is.Equal(baseType("BIGINT"), TypeBigint)
	is.Equal(baseType(" string "), TypeString)
}

func TestHCatRecord(t *testing.T) {
	is := is.New(t)
	schema := testSchema(t)

	r := NewHCatRecord(schema)
	is.NoErr(r.Set("id", int64(1)))
	is.NoErr(r.Set("NAME", "widget"))

	v, err := r.Get("name")
	is.NoErr(err)
	is.Equal(v, "widget")

	// unset columns are NULL
	is.Equal(r.Values(), []any{int64(1), "widget", nil})

	is.True(r.Set("missing", 1) != nil)
	_, err = r.Get("missing")
	is.True(err != nil)
}
