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

	"github.com/socking/hydrator-plugins/dataset"
)

// Emitter receives the values emitted by a Transform call.
type Emitter[T any] interface {
	Emit(ctx context.Context, value T) error
}

// EmitterFunc adapts a function into an Emitter.
type EmitterFunc[T any] func(ctx context.Context, value T) error

// Emit calls f.
func (f EmitterFunc[T]) Emit(ctx context.Context, value T) error {
	return f(ctx, value)
}

// PipelineConfigurer provides the deployment-time services available to
// ConfigurePipeline.
type PipelineConfigurer interface {
	// UsePlugin resolves the named plugin and registers it under pluginID
	// so it can later be retrieved with LoadPlugin. It returns an error if
	// no such plugin is installed, which halts deployment.
	UsePlugin(pluginType, pluginName, pluginID string) error

	// CreateDataset declares a dataset the plugin depends on. The dataset
	// is created at deployment time if it does not exist.
	CreateDataset(name string) error
}

// BatchContext provides the per-run services available to PrepareRun.
type BatchContext interface {
	// JobConf returns the configuration of the underlying job.
	JobConf() *JobConf

	// LoadPlugin returns the plugin previously registered under pluginID
	// with PipelineConfigurer.UsePlugin.
	LoadPlugin(pluginID string) (any, error)

	// Dataset returns the named dataset.
	Dataset(name string) (dataset.KeyValueTable, error)

	// RunID identifies the current job run.
	RunID() string
}

// SourceContext is the BatchContext passed to a source's PrepareRun.
type SourceContext interface {
	BatchContext
}

// SinkContext is the BatchContext passed to a sink's PrepareRun.
type SinkContext interface {
	BatchContext
}

// RuntimeContext provides the services available to a single task attempt.
// Task attempts may run in different processes, so anything resolved here
// must not be carried over from PrepareRun.
type RuntimeContext interface {
	// LoadPlugin returns the plugin previously registered under pluginID
	// with PipelineConfigurer.UsePlugin.
	LoadPlugin(pluginID string) (any, error)

	// Dataset returns the named dataset.
	Dataset(name string) (dataset.KeyValueTable, error)

	// AttemptID identifies the current task attempt.
	AttemptID() string
}

// BatchSource reads raw key/value pairs produced by an input format and
// emits structured records. All implementations must embed
// UnimplementedBatchSource for forward compatibility.
type BatchSource interface {
	// Parameters is a map of named Parameters that describe how to
	// configure the source.
	Parameters() map[string]Parameter

	// ConfigurePipeline validates the plugin configuration at deployment
	// time. Returning an error halts deployment.
	ConfigurePipeline(configurer PipelineConfigurer) error

	// PrepareRun is called once per job run and configures the job's input
	// format and connection parameters.
	PrepareRun(ctx context.Context, sctx SourceContext) error

	// Initialize is called once per task attempt and resolves per-attempt
	// resources.
	Initialize(ctx context.Context, rctx RuntimeContext) error

	// Transform is called once per raw input pair and emits zero or more
	// structured records. A returned error fails the task attempt.
	Transform(ctx context.Context, input KeyValue, emitter Emitter[*StructuredRecord]) error

	// Destroy is called at the end of a task attempt and releases the
	// resources resolved in Initialize.
	Destroy()

	mustEmbedUnimplementedBatchSource()
}

// BatchSink receives structured records and emits raw key/value pairs
// consumed by an output format. All implementations must embed
// UnimplementedBatchSink for forward compatibility.
type BatchSink interface {
	// Parameters is a map of named Parameters that describe how to
	// configure the sink.
	Parameters() map[string]Parameter

	// ConfigurePipeline validates the plugin configuration and declares
	// dataset dependencies at deployment time. Returning an error halts
	// deployment.
	ConfigurePipeline(configurer PipelineConfigurer) error

	// PrepareRun is called once per job run and configures the job's
	// output format.
	PrepareRun(ctx context.Context, sctx SinkContext) error

	// Initialize is called once per task attempt and resolves per-attempt
	// resources.
	Initialize(ctx context.Context, rctx RuntimeContext) error

	// Transform is called once per structured record and emits zero or
	// more raw output pairs. A returned error fails the task attempt.
	Transform(ctx context.Context, record *StructuredRecord, emitter Emitter[KeyValue]) error

	// Destroy is called at the end of a task attempt and releases the
	// resources resolved in Initialize.
	Destroy()

	mustEmbedUnimplementedBatchSink()
}

// Specification contains general information regarding a plugin like its
// name and what it does.
type Specification struct {
	// Name is the name of the plugin.
	Name string
	// Summary is a brief description of the plugin and what it does.
	Summary string
	// Description is a longer form text explaining the behavior of the
	// plugin or specific parameters.
	Description string
	// Version string. Should be prepended with `v` like Go, e.g. `v1.2.3`.
	Version string
	// Author declares the entity that created or maintains this plugin.
	Author string
}

// Connector combines the constructors of a pipeline's plugins into one
// struct. The runner constructs a fresh source and sink per task attempt.
type Connector struct {
	// NewSpecification should create a new Specification that describes
	// the connector. This field is mandatory.
	NewSpecification func() Specification
	// NewSource should create a configured source. If the connector
	// doesn't implement a source this field can be nil.
	NewSource func() (BatchSource, error)
	// NewSink should create a configured sink. If the connector doesn't
	// implement a sink this field can be nil.
	NewSink func() (BatchSink, error)
}
