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

import "errors"

var (
	// ErrUnimplemented is returned by lifecycle methods that are not
	// overridden in a plugin implementation.
	ErrUnimplemented = errors.New("method not implemented")

	// ErrNoMoreRecords is returned by RecordReader.Next once the split is
	// exhausted.
	ErrNoMoreRecords = errors.New("no more records")

	// ErrBackoffRetry can be returned by RecordReader.Next to signal to the
	// runner that it should call Next again with a backoff.
	ErrBackoffRetry = errors.New("backoff retry")

	// ErrPluginNotFound is returned when a plugin, driver or format is not
	// registered under the requested name.
	ErrPluginNotFound = errors.New("plugin not found")
)
