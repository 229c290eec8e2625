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
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-json"

	hydrator "github.com/socking/hydrator-plugins"
)

// OutputFormatName is the name the HCatalog output format is registered
// under.
const OutputFormatName = "hive.hcatalog"

// TableWriter writes HCatalog records into the target table.
type TableWriter interface {
	Write(ctx context.Context, record *HCatRecord) error

	// Close flushes buffered output and releases the writer's resources.
	Close(ctx context.Context) error
}

// TableWriterFactory creates a table writer for one task attempt. The
// job configuration carries the metastore URI and the target
// database/table.
type TableWriterFactory func(ctx context.Context, conf *hydrator.JobConf) (TableWriter, error)

// HCatOutputFormat is the output format backing the Hive sink. It
// forwards the HCatalog records emitted by the sink to a table writer.
type HCatOutputFormat struct {
	writers TableWriterFactory
}

var _ hydrator.OutputFormat = (*HCatOutputFormat)(nil)

// NewOutputFormat returns an output format creating its writers with the
// factory.
func NewOutputFormat(writers TableWriterFactory) *HCatOutputFormat {
	return &HCatOutputFormat{writers: writers}
}

// Prepare verifies that the sink configured a target table.
func (f *HCatOutputFormat) Prepare(_ context.Context, conf *hydrator.JobConf) error {
	if conf.Get(KeyTable) == "" {
		return fmt.Errorf("output table is not configured")
	}
	return nil
}

// NewRecordWriter opens a table writer for one task attempt.
func (f *HCatOutputFormat) NewRecordWriter(ctx context.Context, conf *hydrator.JobConf) (hydrator.RecordWriter, error) {
	w, err := f.writers(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to create table writer: %w", err)
	}
	return &recordWriter{table: w}, nil
}

type recordWriter struct {
	table TableWriter
}

// Write forwards the record to the table writer. The pair's key is
// ignored, the sink emits null keys.
func (w *recordWriter) Write(ctx context.Context, kv hydrator.KeyValue) error {
	record, ok := kv.Value.(*HCatRecord)
	if !ok {
		return fmt.Errorf("unexpected output value type %T", kv.Value)
	}
	return w.table.Write(ctx, record)
}

func (w *recordWriter) Close(ctx context.Context) error {
	return w.table.Close(ctx)
}

// JSONLinesWriter is a TableWriter that renders each record as one JSON
// object per line. The local runner uses it in place of a warehouse
// writer.
type JSONLinesWriter struct {
	buf *bufio.Writer
}

// NewJSONLinesWriter returns a writer emitting to w.
func NewJSONLinesWriter(w io.Writer) *JSONLinesWriter {
	return &JSONLinesWriter{buf: bufio.NewWriter(w)}
}

// Write renders the record as a JSON object keyed by column name.
func (w *JSONLinesWriter) Write(_ context.Context, record *HCatRecord) error {
	obj := make(map[string]any, record.Schema().Len())
	for _, f := range record.Schema().Fields() {
		v, err := record.Get(f.Name)
		if err != nil {
			return err
		}
		obj[f.Name] = v
	}
	b, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	if _, err := w.buf.Write(b); err != nil {
		return err
	}
	return w.buf.WriteByte('\n')
}

// Close flushes buffered lines.
func (w *JSONLinesWriter) Close(context.Context) error {
	return w.buf.Flush()
}
