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
	"context"
	"errors"
	"testing"

	"github.com/matryer/is"
)

func TestStaticMetastore(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	metastore := NewStaticMetastore()

	_, err := metastore.TableSchema(ctx, "sales", "products")
	is.True(errors.Is(err, ErrTableNotFound))

	schema := testSchema(t)
	metastore.AddTable("sales", "products", schema)

	got, err := metastore.TableSchema(ctx, "sales", "products")
	is.NoErr(err)
	is.True(got.Equal(schema))
}
