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

package dataset

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrKeyNotFound is returned by KeyValueTable.Read for unknown keys.
var ErrKeyNotFound = errors.New("key not found")

// ErrDatasetNotFound is returned by Store.Dataset for datasets that were
// never created.
var ErrDatasetNotFound = errors.New("dataset not found")

// InMemoryTable is a KeyValueTable backed by a map. It is safe for
// concurrent use and is the dataset implementation used by the local
// runner and tests.
type InMemoryTable struct {
	// values holds a copy of every written value.
	values map[string][]byte
	// m guards access to values.
	m sync.Mutex
}

// NewInMemoryTable returns an empty table.
func NewInMemoryTable() *InMemoryTable {
	return &InMemoryTable{values: make(map[string][]byte)}
}

// Read returns the value stored under the key.
func (t *InMemoryTable) Read(_ context.Context, key string) ([]byte, error) {
	t.m.Lock()
	defer t.m.Unlock()

	v, ok := t.values[key]
	if !ok {
		return nil, fmt.Errorf("key %q: %w", key, ErrKeyNotFound)
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Write stores a copy of the value under the key.
func (t *InMemoryTable) Write(_ context.Context, key string, value []byte) error {
	t.m.Lock()
	defer t.m.Unlock()

	v := make([]byte, len(value))
	copy(v, value)
	t.values[key] = v
	return nil
}

// Store holds named datasets for one host instance.
type Store struct {
	tables map[string]*InMemoryTable
	m      sync.Mutex
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{tables: make(map[string]*InMemoryTable)}
}

// Create creates the named dataset if it does not exist yet. Creating an
// existing dataset is a no-op, matching deployment semantics.
func (s *Store) Create(name string) {
	s.m.Lock()
	defer s.m.Unlock()

	if _, ok := s.tables[name]; !ok {
		s.tables[name] = NewInMemoryTable()
	}
}

// Dataset returns the named dataset.
func (s *Store) Dataset(name string) (KeyValueTable, error) {
	s.m.Lock()
	defer s.m.Unlock()

	t, ok := s.tables[name]
	if !ok {
		return nil, fmt.Errorf("dataset %q: %w", name, ErrDatasetNotFound)
	}
	return t, nil
}
