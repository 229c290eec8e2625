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

package internal

import "sync"

// BatchFn is called with a full batch. The batch slice is reused between
// flushes and must not be retained.
type BatchFn[T any] func(batch []T) error

// Batcher groups items into batches of up to sizeThreshold items and
// hands them to fn. It is safe for concurrent use.
type Batcher[T any] struct {
	sizeThreshold int
	fn            BatchFn[T]

	batch []T
	m     sync.Mutex
}

// NewBatcher returns a batcher that flushes whenever sizeThreshold items
// have been enqueued. A threshold below 1 flushes on every item.
func NewBatcher[T any](sizeThreshold int, fn BatchFn[T]) *Batcher[T] {
	if sizeThreshold < 1 {
		sizeThreshold = 1
	}
	return &Batcher[T]{
		sizeThreshold: sizeThreshold,
		fn:            fn,
		batch:         make([]T, 0, sizeThreshold),
	}
}

// Enqueue adds the item to the current batch and flushes synchronously if
// the batch is full.
func (b *Batcher[T]) Enqueue(item T) error {
	b.m.Lock()
	defer b.m.Unlock()

	b.batch = append(b.batch, item)
	if len(b.batch) >= b.sizeThreshold {
		return b.flushNow()
	}
	return nil
}

// Flush hands any buffered items to fn.
func (b *Batcher[T]) Flush() error {
	b.m.Lock()
	defer b.m.Unlock()
	return b.flushNow()
}

// Len returns the number of buffered items.
func (b *Batcher[T]) Len() int {
	b.m.Lock()
	defer b.m.Unlock()
	return len(b.batch)
}

func (b *Batcher[T]) flushNow() error {
	if len(b.batch) == 0 {
		// nothing to flush
		return nil
	}
	err := b.fn(b.batch)
	b.batch = b.batch[:0]
	return err
}
