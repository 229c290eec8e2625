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
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jpillora/backoff"
	"github.com/rs/zerolog"
	"go.uber.org/multierr"
	"gopkg.in/tomb.v2"

	"github.com/socking/hydrator-plugins/dataset"
	"github.com/socking/hydrator-plugins/internal"
)

// Job drives a source/sink pair through the batch lifecycle the way the
// host platform would: ConfigurePipeline once at deployment time,
// PrepareRun once per run, then one task attempt per split. Each task
// attempt gets fresh plugin instances, mirroring attempts running in
// separate processes.
type Job struct {
	// Registry resolves driver plugins and input/output formats.
	Registry *Registry
	// NewSource returns a configured source. It is called once for the
	// deployment stages and once per task attempt.
	NewSource func() (BatchSource, error)
	// NewSink returns a configured sink. It is called once for the
	// deployment stages and once per task attempt.
	NewSink func() (BatchSink, error)
	// Datasets backs the datasets handed to plugins. If nil an empty
	// in-memory store is used.
	Datasets *dataset.Store
	// Conf is the job configuration mutated by the plugins during
	// PrepareRun. If nil an empty configuration is used.
	Conf *JobConf
	// WriteBatchSize groups output pairs before they are handed to the
	// record writer. Values below 1 disable batching.
	WriteBatchSize int
	// Logger is the job's base logger.
	Logger zerolog.Logger
}

// NewJob returns a runner for a source and sink connector pair using the
// registry's driver plugins and formats.
func NewJob(registry *Registry, source, sink Connector) *Job {
	return &Job{
		Registry:  registry,
		NewSource: source.NewSource,
		NewSink:   sink.NewSink,
	}
}

// Run executes the job and blocks until all task attempts finished or one
// of them failed. A failed attempt fails the whole run, there is no local
// recovery.
func (j *Job) Run(ctx context.Context) error {
	if j.Conf == nil {
		j.Conf = NewJobConf()
	}
	if j.Datasets == nil {
		j.Datasets = dataset.NewStore()
	}

	runID := uuid.NewString()
	logger := j.Logger.With().Str("run_id", runID).Logger()
	ctx = WithLogger(ctx, logger)

	plugins := &pluginTable{plugins: make(map[string]any)}

	source, err := j.NewSource()
	if err != nil {
		return fmt.Errorf("failed to create source: %w", err)
	}
	sink, err := j.NewSink()
	if err != nil {
		return fmt.Errorf("failed to create sink: %w", err)
	}

	// deployment stage
	configurer := &pipelineConfigurer{registry: j.Registry, datasets: j.Datasets, plugins: plugins}
	if err := source.ConfigurePipeline(configurer); err != nil {
		return fmt.Errorf("source rejected pipeline configuration: %w", err)
	}
	if err := sink.ConfigurePipeline(configurer); err != nil {
		return fmt.Errorf("sink rejected pipeline configuration: %w", err)
	}

	// prepare stage
	bctx := &batchContext{conf: j.Conf, plugins: plugins, datasets: j.Datasets, runID: runID}
	if err := source.PrepareRun(ctx, bctx); err != nil {
		return fmt.Errorf("source prepare run: %w", err)
	}
	if err := sink.PrepareRun(ctx, bctx); err != nil {
		return fmt.Errorf("sink prepare run: %w", err)
	}

	inputFormat, err := j.Registry.NewInputFormat(j.Conf.Get(KeyInputFormat))
	if err != nil {
		return fmt.Errorf("failed to resolve input format: %w", err)
	}
	outputFormat, err := j.Registry.NewOutputFormat(j.Conf.Get(KeyOutputFormat))
	if err != nil {
		return fmt.Errorf("failed to resolve output format: %w", err)
	}

	if err := outputFormat.Prepare(ctx, j.Conf); err != nil {
		return fmt.Errorf("output format rejected the job configuration: %w", err)
	}

	splits, err := inputFormat.Splits(ctx, j.Conf)
	if err != nil {
		return fmt.Errorf("failed to compute splits: %w", err)
	}

	logger.Info().Int("splits", len(splits)).Msg("starting task attempts")
	for i, split := range splits {
		if err := j.runAttempt(ctx, inputFormat, outputFormat, split, plugins); err != nil {
			return fmt.Errorf("task attempt %d/%d: %w", i+1, len(splits), err)
		}
	}
	return nil
}

func (j *Job) runAttempt(ctx context.Context, inputFormat InputFormat, outputFormat OutputFormat, split Split, plugins *pluginTable) (err error) {
	attemptID := uuid.NewString()
	logger := Logger(ctx).With().Str("attempt_id", attemptID).Str("split", split.String()).Logger()
	ctx = WithLogger(ctx, logger)

	source, err := j.NewSource()
	if err != nil {
		return fmt.Errorf("failed to create source: %w", err)
	}
	sink, err := j.NewSink()
	if err != nil {
		return fmt.Errorf("failed to create sink: %w", err)
	}

	rctx := &runtimeContext{plugins: plugins, datasets: j.Datasets, attemptID: attemptID}
	if err := source.Initialize(ctx, rctx); err != nil {
		return fmt.Errorf("source initialize: %w", err)
	}
	defer source.Destroy()
	if err := sink.Initialize(ctx, rctx); err != nil {
		return fmt.Errorf("sink initialize: %w", err)
	}
	defer sink.Destroy()

	reader, err := inputFormat.NewRecordReader(ctx, split, j.Conf)
	if err != nil {
		return fmt.Errorf("failed to open record reader: %w", err)
	}
	defer func() {
		err = multierr.Append(err, reader.Close())
	}()

	writer, err := outputFormat.NewRecordWriter(ctx, j.Conf)
	if err != nil {
		return fmt.Errorf("failed to open record writer: %w", err)
	}
	defer func() {
		// close on a detached context so buffered output is flushed even
		// when the attempt context is already cancelled
		err = multierr.Append(err, writer.Close(internal.DetachContext(ctx)))
	}()

	batcher := internal.NewBatcher(j.WriteBatchSize, func(batch []KeyValue) error {
		for _, kv := range batch {
			if werr := writer.Write(ctx, kv); werr != nil {
				return werr
			}
		}
		return nil
	})

	t, tctx := tomb.WithContext(ctx)
	records := make(chan *StructuredRecord)

	t.Go(func() error {
		defer close(records)
		return j.runRead(tctx, reader, source, records)
	})
	t.Go(func() error {
		return j.runWrite(tctx, sink, records, batcher)
	})

	if werr := t.Wait(); werr != nil {
		return werr
	}
	logger.Debug().Msg("task attempt finished")
	return nil
}

func (j *Job) runRead(ctx context.Context, reader RecordReader, source BatchSource, records chan<- *StructuredRecord) error {
	b := &backoff.Backoff{
		Factor: 2,
		Min:    time.Millisecond * 100,
		Max:    time.Second * 5,
	}

	emitter := EmitterFunc[*StructuredRecord](func(ctx context.Context, r *StructuredRecord) error {
		select {
		case records <- r:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	for {
		kv, err := reader.Next(ctx)
		if err != nil {
			if errors.Is(err, ErrNoMoreRecords) || errors.Is(err, context.Canceled) {
				return nil
			}
			if errors.Is(err, ErrBackoffRetry) {
				// the reader wants us to retry later
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(b.Duration()):
					continue
				}
			}
			return fmt.Errorf("read error: %w", err)
		}

		if err := source.Transform(ctx, kv, emitter); err != nil {
			return fmt.Errorf("source transform error: %w", err)
		}

		// reset backoff retry
		b.Reset()
	}
}

func (j *Job) runWrite(ctx context.Context, sink BatchSink, records <-chan *StructuredRecord, batcher *internal.Batcher[KeyValue]) error {
	emitter := EmitterFunc[KeyValue](func(_ context.Context, kv KeyValue) error {
		return batcher.Enqueue(kv)
	})

	for record := range records {
		if err := sink.Transform(ctx, record, emitter); err != nil {
			return fmt.Errorf("sink transform error: %w", err)
		}
	}
	return batcher.Flush()
}

// pluginTable holds the plugins resolved with UsePlugin, keyed by plugin
// ID. It is shared between the deployment stage and the task attempts.
type pluginTable struct {
	plugins map[string]any
	m       sync.Mutex
}

func (t *pluginTable) put(id string, p any) {
	t.m.Lock()
	defer t.m.Unlock()
	t.plugins[id] = p
}

func (t *pluginTable) get(id string) (any, error) {
	t.m.Lock()
	defer t.m.Unlock()
	p, ok := t.plugins[id]
	if !ok {
		return nil, fmt.Errorf("plugin ID %q: %w", id, ErrPluginNotFound)
	}
	return p, nil
}

type pipelineConfigurer struct {
	registry *Registry
	datasets *dataset.Store
	plugins  *pluginTable
}

func (c *pipelineConfigurer) UsePlugin(pluginType, pluginName, pluginID string) error {
	d, err := c.registry.Driver(pluginType, pluginName)
	if err != nil {
		return err
	}
	c.plugins.put(pluginID, d)
	return nil
}

func (c *pipelineConfigurer) CreateDataset(name string) error {
	c.datasets.Create(name)
	return nil
}

type batchContext struct {
	conf     *JobConf
	plugins  *pluginTable
	datasets *dataset.Store
	runID    string
}

func (c *batchContext) JobConf() *JobConf { return c.conf }

func (c *batchContext) LoadPlugin(pluginID string) (any, error) {
	return c.plugins.get(pluginID)
}

func (c *batchContext) Dataset(name string) (dataset.KeyValueTable, error) {
	return c.datasets.Dataset(name)
}

func (c *batchContext) RunID() string { return c.runID }

type runtimeContext struct {
	plugins   *pluginTable
	datasets  *dataset.Store
	attemptID string
}

func (c *runtimeContext) LoadPlugin(pluginID string) (any, error) {
	return c.plugins.get(pluginID)
}

func (c *runtimeContext) Dataset(name string) (dataset.KeyValueTable, error) {
	return c.datasets.Dataset(name)
}

func (c *runtimeContext) AttemptID() string { return c.attemptID }
