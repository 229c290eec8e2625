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

/*
Package hydrator implements the plugin API for batch ETL pipelines and a
local job runner that drives plugins through their lifecycle.

# Plugins

A batch pipeline is made of a [BatchSource] that produces structured
records and a [BatchSink] that consumes them. Both are driven entirely by
the host through well-defined lifecycle stages:

  - ConfigurePipeline is called once at deployment time and validates the
    plugin configuration. Returning an error halts deployment.
  - PrepareRun is called once per job and configures the underlying
    [JobConf] (input/output formats, connection parameters).
  - Initialize is called once per task attempt and resolves per-attempt
    resources such as driver plugins or schemas.
  - Transform is called once per record.
  - Destroy is called at the end of a task attempt and releases resources.

Every [BatchSource] implementation needs to embed [UnimplementedBatchSource]
and every [BatchSink] needs to embed [UnimplementedBatchSink] to satisfy the
interface. This allows the interfaces to grow while remaining backwards
compatible with existing implementations.

Plugins are discovered through a [Registry]. Driver plugins (database/sql
driver bindings) are registered the same way and resolved at configure time
through [PipelineConfigurer.UsePlugin].

# Records

A [StructuredRecord] is an ordered mapping from field name to typed value.
Raw values flow between input formats, plugins and output formats as
[KeyValue] pairs.

# Logging

The package provides a structured logger that can be retrieved with
[Logger]. Logging in the hot path (code executed for every record) should
use the trace level, otherwise it can greatly impact the throughput of a
job.
*/
package hydrator
