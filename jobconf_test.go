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

func TestJobConf(t *testing.T) {
	is := is.New(t)

	conf := NewJobConf()
	is.Equal(conf.Get("missing"), "")
	is.Equal(conf.GetDefault("missing", "fallback"), "fallback")

	conf.Set("db.input.driver", "sqlserver")
	is.Equal(conf.Get("db.input.driver"), "sqlserver")
	is.Equal(conf.GetDefault("db.input.driver", "fallback"), "sqlserver")
}

func TestJobConf_Int(t *testing.T) {
	is := is.New(t)

	conf := NewJobConf()
	is.Equal(conf.GetInt("db.input.splits", 1), 1)

	conf.SetInt("db.input.splits", 4)
	is.Equal(conf.GetInt("db.input.splits", 1), 4)

	conf.Set("db.input.splits", "not a number")
	is.Equal(conf.GetInt("db.input.splits", 1), 1)
}
