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
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// KeyValue is a raw key/value pair flowing between an input format, the
// plugins and an output format. The concrete types of Key and Value depend
// on the formats involved (e.g. a row offset and a database record).
type KeyValue struct {
	Key   any
	Value any
}

// StructuredRecord is an ordered mapping from field name to typed value.
// It is produced by a source and consumed by a sink. The zero value is not
// usable, use NewStructuredRecord.
type StructuredRecord struct {
	fields []string
	values map[string]any
}

// NewStructuredRecord returns an empty record.
func NewStructuredRecord() *StructuredRecord {
	return &StructuredRecord{values: make(map[string]any)}
}

// Set stores the value under the field name. A new field name is appended
// at the end of the field order, setting an existing field keeps its
// position.
func (r *StructuredRecord) Set(name string, value any) {
	if _, ok := r.values[name]; !ok {
		r.fields = append(r.fields, name)
	}
	r.values[name] = value
}

// Get returns the value of the named field and whether the field exists.
func (r *StructuredRecord) Get(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Fields returns the field names in record order.
func (r *StructuredRecord) Fields() []string {
	out := make([]string, len(r.fields))
	copy(out, r.fields)
	return out
}

// Len returns the number of fields.
func (r *StructuredRecord) Len() int {
	return len(r.fields)
}

// Equal reports whether both records have the same fields in the same
// order with equal values. Values are compared with their JSON encoding.
func (r *StructuredRecord) Equal(other *StructuredRecord) bool {
	if other == nil || len(r.fields) != len(other.fields) {
		return false
	}
	for i, name := range r.fields {
		if other.fields[i] != name {
			return false
		}
	}
	return bytes.Equal(r.Bytes(), other.Bytes())
}

// MarshalJSON encodes the record as a JSON object with fields in record
// order.
func (r *StructuredRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(r.values[name])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Bytes returns the JSON encoding of the record.
func (r *StructuredRecord) Bytes() []byte {
	b, err := r.MarshalJSON()
	if err != nil {
		// Unlikely to happen, values originate from database drivers and
		// are plain scalars.
		panic(fmt.Errorf("error while marshaling StructuredRecord as JSON: %w", err))
	}
	return b
}
