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
	"fmt"
	"time"

	hydrator "github.com/socking/hydrator-plugins"
)

// RecordTransformer converts structured records into HCatalog records
// according to a resolved table schema.
type RecordTransformer struct {
	schema *TableSchema
}

// NewRecordTransformer returns a transformer for the table schema.
func NewRecordTransformer(schema *TableSchema) *RecordTransformer {
	return &RecordTransformer{schema: schema}
}

// Schema returns the table schema the transformer converts into.
func (t *RecordTransformer) Schema() *TableSchema {
	return t.schema
}

// Transform converts the record. Every record field must map onto a
// table column and be convertible into the column type; a violation is
// an error which fails the task attempt. Columns without a corresponding
// record field are left NULL.
func (t *RecordTransformer) Transform(record *hydrator.StructuredRecord) (*HCatRecord, error) {
	out := NewHCatRecord(t.schema)
	for _, name := range record.Fields() {
		i, ok := t.schema.Position(name)
		if !ok {
			return nil, fmt.Errorf("record field %q is not part of table schema", name)
		}
		raw, _ := record.Get(name)
		value, err := coerceValue(t.schema.fields[i].Type, raw)
		if err != nil {
			return nil, fmt.Errorf("record field %q: %w", name, err)
		}
		out.values[i] = value
	}
	return out, nil
}

// coerceValue converts a record value into the Go representation of the
// Hive column type.
func coerceValue(columnType string, value any) (any, error) {
	if value == nil {
		return nil, nil
	}

	switch baseType(columnType) {
	case TypeBoolean:
		if b, ok := value.(bool); ok {
			return b, nil
		}
	case TypeTinyint, TypeSmallint, TypeInt, TypeBigint:
		switch v := value.(type) {
		case int:
			return int64(v), nil
		case int8:
			return int64(v), nil
		case int16:
			return int64(v), nil
		case int32:
			return int64(v), nil
		case int64:
			return v, nil
		case uint8:
			return int64(v), nil
		case uint16:
			return int64(v), nil
		case uint32:
			return int64(v), nil
		}
	case TypeFloat, TypeDouble:
		switch v := value.(type) {
		case float32:
			return float64(v), nil
		case float64:
			return v, nil
		case int64:
			return float64(v), nil
		}
	case TypeDecimal, TypeString, TypeVarchar, TypeChar:
		switch v := value.(type) {
		case string:
			return v, nil
		case []byte:
			return string(v), nil
		}
	case TypeBinary:
		switch v := value.(type) {
		case []byte:
			return v, nil
		case string:
			return []byte(v), nil
		}
	case TypeDate, TypeTimestamp:
		switch v := value.(type) {
		case time.Time:
			return v, nil
		case string:
			return v, nil
		}
	default:
		return nil, fmt.Errorf("unsupported column type %q", columnType)
	}
	return nil, fmt.Errorf("cannot convert value of type %T into column type %q", value, columnType)
}
