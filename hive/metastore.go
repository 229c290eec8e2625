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

//go:generate mockgen -destination=mock_metastore_test.go -package=hive -write_package_comment=false . MetastoreClient

package hive

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrTableNotFound is returned when the metastore does not know the
// requested table.
var ErrTableNotFound = errors.New("table not found")

// MetastoreClient resolves table schemas from the Hive metastore. The
// metastore protocol itself is provided by the host environment.
type MetastoreClient interface {
	// TableSchema returns the column schema of the table.
	TableSchema(ctx context.Context, dbName, tableName string) (*TableSchema, error)
}

// StaticMetastore is a MetastoreClient backed by a fixed set of table
// schemas. The local runner uses it in place of a live metastore.
type StaticMetastore struct {
	tables map[string]*TableSchema
	m      sync.Mutex
}

// NewStaticMetastore returns an empty static metastore.
func NewStaticMetastore() *StaticMetastore {
	return &StaticMetastore{tables: make(map[string]*TableSchema)}
}

// AddTable registers the table schema, replacing any previous one.
func (s *StaticMetastore) AddTable(dbName, tableName string, schema *TableSchema) {
	s.m.Lock()
	defer s.m.Unlock()
	s.tables[dbName+"."+tableName] = schema
}

// TableSchema returns the registered schema of the table.
func (s *StaticMetastore) TableSchema(_ context.Context, dbName, tableName string) (*TableSchema, error) {
	s.m.Lock()
	defer s.m.Unlock()
	schema, ok := s.tables[dbName+"."+tableName]
	if !ok {
		return nil, fmt.Errorf("%s.%s: %w", dbName, tableName, ErrTableNotFound)
	}
	return schema, nil
}
