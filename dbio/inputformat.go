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

package dbio

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jpillora/backoff"
	"go.uber.org/multierr"

	hydrator "github.com/socking/hydrator-plugins"
)

// maxPingAttempts bounds the connection retries when opening a database
// handle.
const maxPingAttempts = 4

// DataDrivenInputFormat reads rows from a relational table via a bounded
// SQL query. The query range is partitioned over the order-by column so
// splits can be read in parallel.
type DataDrivenInputFormat struct{}

var _ hydrator.InputFormat = DataDrivenInputFormat{}

// Splits computes the split conditions of the job's input query. With one
// requested split (or no bounding query) a single unbounded split is
// returned, otherwise the bounding query supplies the min and max of the
// order-by column and the range is divided into contiguous sub-ranges.
func (f DataDrivenInputFormat) Splits(ctx context.Context, conf *hydrator.JobConf) ([]hydrator.Split, error) {
	if conf.Get(KeyInputQuery) == "" {
		return nil, errors.New("input query is not configured")
	}

	numSplits := conf.GetInt(KeyNumSplits, 1)
	boundingQuery := conf.Get(KeyBoundingQuery)
	orderBy := conf.Get(KeyOrderBy)

	if numSplits <= 1 || boundingQuery == "" {
		// a single split reads the whole query
		return []hydrator.Split{&rangeSplit{condition: "1=1"}}, nil
	}
	if orderBy == "" {
		return nil, errors.New("order-by column is required to generate more than one split")
	}

	db, err := openDB(ctx, conf)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var lo, hi sql.NullInt64
	if err := db.QueryRowContext(ctx, boundingQuery).Scan(&lo, &hi); err != nil {
		return nil, fmt.Errorf("bounding query failed: %w", err)
	}
	if !lo.Valid || !hi.Valid {
		// empty table, one split that reads nothing beats zero splits
		return []hydrator.Split{&rangeSplit{condition: "1=0"}}, nil
	}

	ranges, err := splitRanges(lo.Int64, hi.Int64, numSplits)
	if err != nil {
		return nil, fmt.Errorf("bounding query returned an invalid range: %w", err)
	}
	splits := make([]hydrator.Split, len(ranges))
	for i, r := range ranges {
		last := i == len(ranges)-1
		splits[i] = &rangeSplit{
			lo:        r[0],
			hi:        r[1],
			condition: splitCondition(orderBy, r[0], r[1], last),
		}
	}
	return splits, nil
}

// NewRecordReader opens a reader that executes the input query with the
// split's condition substituted for $CONDITIONS.
func (f DataDrivenInputFormat) NewRecordReader(ctx context.Context, split hydrator.Split, conf *hydrator.JobConf) (hydrator.RecordReader, error) {
	rs, ok := split.(*rangeSplit)
	if !ok {
		return nil, fmt.Errorf("unexpected split type %T", split)
	}

	db, err := openDB(ctx, conf)
	if err != nil {
		return nil, err
	}

	query := SubstituteConditions(conf.Get(KeyInputQuery), rs.condition)
	hydrator.Logger(ctx).Debug().Str("query", query).Msg("executing split query")

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("split query failed: %w", err), db.Close())
	}
	cols, err := rows.Columns()
	if err != nil {
		return nil, multierr.Combine(fmt.Errorf("failed to read result columns: %w", err), rows.Close(), db.Close())
	}

	return &recordReader{db: db, rows: rows, columns: cols}, nil
}

// openDB opens a database handle for the job's connection parameters and
// verifies it with a bounded number of pings.
func openDB(ctx context.Context, conf *hydrator.JobConf) (*sql.DB, error) {
	driver := conf.Get(KeyDriver)
	if driver == "" {
		return nil, errors.New("database driver is not configured")
	}
	connStr := dsn(conf.Get(KeyConnectionString), conf.Get(KeyUser), conf.Get(KeyPassword))

	db, err := sql.Open(driver, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database handle: %w", err)
	}

	b := &backoff.Backoff{
		Factor: 2,
		Min:    time.Millisecond * 100,
		Max:    time.Second * 2,
	}
	for attempt := 1; ; attempt++ {
		err = db.PingContext(ctx)
		if err == nil {
			return db, nil
		}
		if attempt >= maxPingAttempts {
			return nil, multierr.Append(fmt.Errorf("database unreachable after %d attempts: %w", attempt, err), db.Close())
		}
		select {
		case <-ctx.Done():
			return nil, multierr.Append(ctx.Err(), db.Close())
		case <-time.After(b.Duration()):
		}
	}
}

// splitRanges divides [min,max] into at most n contiguous ranges. Each
// range is [lo,hi) except the last one, which includes max. A reversed
// range is an error, typically a bounding query with MIN and MAX swapped.
func splitRanges(min, max int64, n int) ([][2]int64, error) {
	if min > max {
		return nil, fmt.Errorf("min %d is greater than max %d", min, max)
	}
	if n < 1 {
		n = 1
	}
	size := max - min + 1
	if int64(n) > size {
		n = int(size)
	}

	out := make([][2]int64, 0, n)
	step := size / int64(n)
	rem := size % int64(n)
	lo := min
	for i := 0; i < n; i++ {
		hi := lo + step
		if int64(i) < rem {
			hi++
		}
		out = append(out, [2]int64{lo, hi})
		lo = hi
	}
	// the last range is addressed inclusively
	out[len(out)-1][1] = max
	return out, nil
}

// splitCondition renders the range condition substituted into the input
// query. The last split uses an inclusive upper bound so max is covered.
func splitCondition(column string, lo, hi int64, last bool) string {
	if last {
		return fmt.Sprintf("%s >= %d AND %s <= %d", column, lo, column, hi)
	}
	return fmt.Sprintf("%s >= %d AND %s < %d", column, lo, column, hi)
}

// rangeSplit is one partition of the input query's value range.
type rangeSplit struct {
	lo, hi    int64
	condition string
}

func (s *rangeSplit) String() string {
	return s.condition
}

type recordReader struct {
	db      *sql.DB
	rows    *sql.Rows
	columns []string
	offset  int64
}

// Next scans the next row into a DBRecord. The key is the row offset
// within the split.
func (r *recordReader) Next(_ context.Context) (hydrator.KeyValue, error) {
	if !r.rows.Next() {
		if err := r.rows.Err(); err != nil {
			return hydrator.KeyValue{}, fmt.Errorf("row iteration failed: %w", err)
		}
		return hydrator.KeyValue{}, hydrator.ErrNoMoreRecords
	}

	values := make([]any, len(r.columns))
	ptrs := make([]any, len(r.columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := r.rows.Scan(ptrs...); err != nil {
		return hydrator.KeyValue{}, fmt.Errorf("row scan failed: %w", err)
	}

	// []byte values are passed through untouched so binary columns stay
	// lossless; sinks convert them per column type
	kv := hydrator.KeyValue{
		Key:   r.offset,
		Value: &DBRecord{Columns: r.columns, Values: values},
	}
	r.offset++
	return kv, nil
}

func (r *recordReader) Close() error {
	return multierr.Combine(r.rows.Close(), r.db.Close())
}
