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
	"go.uber.org/multierr"
)

func TestParseConfig(t *testing.T) {
	is := is.New(t)

	type target struct {
		Query     string `json:"importQuery"`
		NumSplits int    `json:"numSplits"`
		Verbose   bool   `json:"verbose"`
	}

	var got target
	err := ParseConfig(map[string]string{
		"importQuery": "SELECT 1",
		"numSplits":   "4",
		"verbose":     "true",
	}, &got)
	is.NoErr(err)
	is.Equal(got, target{Query: "SELECT 1", NumSplits: 4, Verbose: true})
}

func TestParseConfig_InvalidNumber(t *testing.T) {
	is := is.New(t)

	var got struct {
		NumSplits int `json:"numSplits"`
	}
	err := ParseConfig(map[string]string{"numSplits": "four"}, &got)
	is.True(err != nil)
}

func TestApplyDefaults(t *testing.T) {
	is := is.New(t)

	params := map[string]Parameter{
		"numSplits": {Default: "1"},
		"dbName":    {Default: "default"},
		"query":     {Required: true},
	}

	got := ApplyDefaults(params, map[string]string{
		"dbName": "sales",
		"query":  "SELECT 1",
	})
	is.Equal(got, map[string]string{
		"numSplits": "1",
		"dbName":    "sales",
		"query":     "SELECT 1",
	})
}

func TestApplyDefaults_DoesNotMutateInput(t *testing.T) {
	is := is.New(t)

	config := map[string]string{}
	_ = ApplyDefaults(map[string]Parameter{"a": {Default: "x"}}, config)
	is.Equal(len(config), 0)
}

func TestValidateParameters(t *testing.T) {
	is := is.New(t)

	params := map[string]Parameter{
		"query": {Required: true},
		"mode":  {Inclusion: []string{"append", "overwrite"}},
	}

	err := ValidateParameters(params, map[string]string{
		"query": "SELECT 1",
		"mode":  "append",
	})
	is.NoErr(err)

	err = ValidateParameters(params, map[string]string{
		"mode": "truncate",
	})
	is.True(err != nil)
	is.Equal(len(multierr.Errors(err)), 2) // missing query and invalid mode

	// an empty value does not count as set
	err = ValidateParameters(params, map[string]string{"query": ""})
	is.True(err != nil)
}
