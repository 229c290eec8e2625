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

import "context"

// Split is a partition of a source's input, used to parallelize reads.
// Concrete split types are defined by input formats.
type Split interface {
	// String describes the split for logging purposes.
	String() string
}

// RecordReader reads raw key/value pairs from a single split.
type RecordReader interface {
	// Next returns the next pair. It returns ErrNoMoreRecords once the
	// split is exhausted and may return ErrBackoffRetry to ask the runner
	// to retry with a backoff.
	Next(ctx context.Context) (KeyValue, error)

	// Close releases the reader's resources.
	Close() error
}

// RecordWriter writes raw key/value pairs produced by a sink.
type RecordWriter interface {
	Write(ctx context.Context, kv KeyValue) error

	// Close flushes buffered output and releases the writer's resources.
	Close(ctx context.Context) error
}

// InputFormat produces splits from the job configuration and reads records
// from them.
type InputFormat interface {
	// Splits computes the partitions of the input.
	Splits(ctx context.Context, conf *JobConf) ([]Split, error)

	// NewRecordReader opens a reader over the given split.
	NewRecordReader(ctx context.Context, split Split, conf *JobConf) (RecordReader, error)
}

// OutputFormat writes the raw pairs emitted by a sink.
type OutputFormat interface {
	// Prepare validates the output specification once per run, before any
	// task attempt starts. Returning an error fails the run.
	Prepare(ctx context.Context, conf *JobConf) error

	// NewRecordWriter opens a writer for one task attempt.
	NewRecordWriter(ctx context.Context, conf *JobConf) (RecordWriter, error)
}
