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
	"fmt"
	"strings"
)

const (
	// FieldCaseNone keeps field names as returned by the database.
	FieldCaseNone FieldCase = iota
	// FieldCaseUpper folds field names to upper case.
	FieldCaseUpper
	// FieldCaseLower folds field names to lower case.
	FieldCaseLower
)

// FieldCase controls how field names are normalized when records are
// emitted by a source. Normalizing provides predictable field names across
// databases but can cause conflicts if two names are equal when case is
// ignored.
type FieldCase int

// ToFieldCase parses a configuration string into a FieldCase. "upper" and
// "lower" (in any case) select the respective folding, any other value
// keeps names as-is.
func ToFieldCase(s string) FieldCase {
	switch strings.ToLower(s) {
	case "upper":
		return FieldCaseUpper
	case "lower":
		return FieldCaseLower
	default:
		return FieldCaseNone
	}
}

// ConvertCase returns a record with all field names folded according to
// fieldCase. Values and field order are preserved. Converting is
// idempotent. If two field names fold to the same name an error is
// returned.
func ConvertCase(record *StructuredRecord, fieldCase FieldCase) (*StructuredRecord, error) {
	if fieldCase == FieldCaseNone {
		return record, nil
	}

	out := NewStructuredRecord()
	for _, name := range record.Fields() {
		converted := name
		switch fieldCase {
		case FieldCaseUpper:
			converted = strings.ToUpper(name)
		case FieldCaseLower:
			converted = strings.ToLower(name)
		}
		if _, ok := out.Get(converted); ok {
			return nil, fmt.Errorf("field %q conflicts with another field after case conversion", converted)
		}
		v, _ := record.Get(name)
		out.Set(converted, v)
	}
	return out, nil
}
