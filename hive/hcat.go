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

// Package hive implements a batch sink that writes structured records
// into a Hive table through its HCatalog layer.
package hive

import (
	"fmt"
	"strings"
)

// Hive column types understood by the sink. Parameterized types such as
// decimal(10,2) and varchar(255) are reduced to their base type.
const (
	TypeBoolean   = "boolean"
	TypeTinyint   = "tinyint"
	TypeSmallint  = "smallint"
	TypeInt       = "int"
	TypeBigint    = "bigint"
	TypeFloat     = "float"
	TypeDouble    = "double"
	TypeDecimal   = "decimal"
	TypeString    = "string"
	TypeVarchar   = "varchar"
	TypeChar      = "char"
	TypeBinary    = "binary"
	TypeDate      = "date"
	TypeTimestamp = "timestamp"
)

// FieldSchema describes one column of a Hive table.
type FieldSchema struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Comment string `json:"comment,omitempty"`
}

// baseType returns the column type without type parameters, e.g.
// "decimal" for "decimal(10,2)".
func baseType(t string) string {
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = t[:i]
	}
	return strings.ToLower(strings.TrimSpace(t))
}

// TableSchema is the ordered column schema of a Hive table. Column name
// lookups are case-insensitive, like in Hive itself.
type TableSchema struct {
	fields    []FieldSchema
	positions map[string]int
}

// NewTableSchema builds a table schema from an ordered field list. Field
// names that are equal when case is ignored are rejected.
func NewTableSchema(fields []FieldSchema) (*TableSchema, error) {
	positions := make(map[string]int, len(fields))
	for i, f := range fields {
		name := strings.ToLower(f.Name)
		if _, ok := positions[name]; ok {
			return nil, fmt.Errorf("duplicate column %q in table schema", name)
		}
		positions[name] = i
	}
	out := make([]FieldSchema, len(fields))
	copy(out, fields)
	return &TableSchema{fields: out, positions: positions}, nil
}

// Fields returns the columns in table order.
func (s *TableSchema) Fields() []FieldSchema {
	out := make([]FieldSchema, len(s.fields))
	copy(out, s.fields)
	return out
}

// Position returns the position of the named column.
func (s *TableSchema) Position(name string) (int, bool) {
	i, ok := s.positions[strings.ToLower(name)]
	return i, ok
}

// Len returns the number of columns.
func (s *TableSchema) Len() int {
	return len(s.fields)
}

// Equal reports whether both schemas have the same columns in the same
// order.
func (s *TableSchema) Equal(other *TableSchema) bool {
	if other == nil || len(s.fields) != len(other.fields) {
		return false
	}
	for i, f := range s.fields {
		if other.fields[i] != f {
			return false
		}
	}
	return true
}

// HCatRecord is a positional record laid out according to a table
// schema. Columns that are never set stay nil, which Hive treats as NULL.
type HCatRecord struct {
	schema *TableSchema
	values []any
}

// NewHCatRecord returns an empty record for the schema.
func NewHCatRecord(schema *TableSchema) *HCatRecord {
	return &HCatRecord{
		schema: schema,
		values: make([]any, schema.Len()),
	}
}

// Schema returns the record's table schema.
func (r *HCatRecord) Schema() *TableSchema {
	return r.schema
}

// Set stores the value under the named column.
func (r *HCatRecord) Set(name string, value any) error {
	i, ok := r.schema.Position(name)
	if !ok {
		return fmt.Errorf("column %q is not part of the table schema", name)
	}
	r.values[i] = value
	return nil
}

// Get returns the value of the named column.
func (r *HCatRecord) Get(name string) (any, error) {
	i, ok := r.schema.Position(name)
	if !ok {
		return nil, fmt.Errorf("column %q is not part of the table schema", name)
	}
	return r.values[i], nil
}

// Values returns the column values in table order. The slice is shared
// with the record.
func (r *HCatRecord) Values() []any {
	return r.values
}
