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

// UnimplementedBatchSource should be embedded to have forward compatible
// implementations.
type UnimplementedBatchSource struct{}

// Parameters needs to be overridden in the actual implementation.
func (UnimplementedBatchSource) Parameters() map[string]Parameter {
	return nil
}

// ConfigurePipeline needs to be overridden in the actual implementation.
func (UnimplementedBatchSource) ConfigurePipeline(PipelineConfigurer) error {
	return ErrUnimplemented
}

// PrepareRun needs to be overridden in the actual implementation.
func (UnimplementedBatchSource) PrepareRun(context.Context, SourceContext) error {
	return ErrUnimplemented
}

// Initialize should be overridden if the source resolves per-attempt
// resources, otherwise it is optional.
func (UnimplementedBatchSource) Initialize(context.Context, RuntimeContext) error {
	return nil
}

// Transform needs to be overridden in the actual implementation.
func (UnimplementedBatchSource) Transform(context.Context, KeyValue, Emitter[*StructuredRecord]) error {
	return ErrUnimplemented
}

// Destroy should be overridden if the source holds per-attempt resources,
// otherwise it is optional.
func (UnimplementedBatchSource) Destroy() {}

func (UnimplementedBatchSource) mustEmbedUnimplementedBatchSource() {}

// UnimplementedBatchSink should be embedded to have forward compatible
// implementations.
type UnimplementedBatchSink struct{}

// Parameters needs to be overridden in the actual implementation.
func (UnimplementedBatchSink) Parameters() map[string]Parameter {
	return nil
}

// ConfigurePipeline needs to be overridden in the actual implementation.
func (UnimplementedBatchSink) ConfigurePipeline(PipelineConfigurer) error {
	return ErrUnimplemented
}

// PrepareRun needs to be overridden in the actual implementation.
func (UnimplementedBatchSink) PrepareRun(context.Context, SinkContext) error {
	return ErrUnimplemented
}

// Initialize should be overridden if the sink resolves per-attempt
// resources, otherwise it is optional.
func (UnimplementedBatchSink) Initialize(context.Context, RuntimeContext) error {
	return nil
}

// Transform needs to be overridden in the actual implementation.
func (UnimplementedBatchSink) Transform(context.Context, *StructuredRecord, Emitter[KeyValue]) error {
	return ErrUnimplemented
}

// Destroy should be overridden if the sink holds per-attempt resources,
// otherwise it is optional.
func (UnimplementedBatchSink) Destroy() {}

func (UnimplementedBatchSink) mustEmbedUnimplementedBatchSink() {}
