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

	"github.com/mitchellh/mapstructure"
	"go.uber.org/multierr"
)

// Parameter describes a single plugin configuration parameter.
type Parameter struct {
	// Default is the default value of the parameter, if any.
	Default string
	// Required controls if the parameter must be provided.
	Required bool
	// Description holds a description of the parameter and how to
	// configure it.
	Description string
	// Inclusion restricts the parameter to one of the listed values. An
	// empty list allows any value.
	Inclusion []string
}

// ParseConfig decodes a raw configuration map into a struct. Under the
// hood this uses mitchellh/mapstructure with the "mapstructure" tag
// renamed to "json" and weakly typed input, so string values are converted
// into the target field types.
func ParseConfig(config map[string]string, target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		TagName:          "json",
	})
	if err != nil {
		return fmt.Errorf("failed to create config decoder: %w", err)
	}
	if err := dec.Decode(config); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	return nil
}

// ApplyDefaults returns a copy of config with the parameter defaults
// filled in for keys that are unset.
func ApplyDefaults(params map[string]Parameter, config map[string]string) map[string]string {
	out := make(map[string]string, len(config))
	for k, v := range config {
		out[k] = v
	}
	for name, p := range params {
		if p.Default == "" {
			continue
		}
		if _, ok := out[name]; !ok {
			out[name] = p.Default
		}
	}
	return out
}

// ValidateParameters checks the raw configuration map against the
// parameter definitions and returns all violations combined into one
// error.
func ValidateParameters(params map[string]Parameter, config map[string]string) error {
	var errs error
	for name, p := range params {
		v, ok := config[name]
		if (!ok || v == "") && p.Required {
			errs = multierr.Append(errs, fmt.Errorf("required parameter %q is not set", name))
			continue
		}
		if v != "" && len(p.Inclusion) > 0 && !contains(p.Inclusion, v) {
			errs = multierr.Append(errs, fmt.Errorf("parameter %q must be one of %v, got %q", name, p.Inclusion, v))
		}
	}
	return errs
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
