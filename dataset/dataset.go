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

// Package dataset defines the host-provided datasets available to plugins.
package dataset

import "context"

// KeyValueTable is a byte-oriented key/value dataset shared between the
// stages of a job run. Consistency between a write in one stage and reads
// in later stages is guaranteed by the host's transaction system.
type KeyValueTable interface {
	// Read returns the value stored under the key. It returns
	// ErrKeyNotFound if the key has never been written.
	Read(ctx context.Context, key string) ([]byte, error)

	// Write stores the value under the key, overwriting any previous
	// value.
	Write(ctx context.Context, key string, value []byte) error
}
