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
	"context"
	"fmt"

	"github.com/goccy/go-json"

	hydrator "github.com/socking/hydrator-plugins"
)

// PluginName is the name the sink is registered under.
const PluginName = "hive"

// SchemaStoreDataset is the key-value dataset the sink uses to share the
// resolved table schema between PrepareRun and the task attempts of the
// same run. The snapshot is stored under the key "dbName:tableName".
const SchemaStoreDataset = "hiveTableSchemaStore"

// Job configuration keys set by the sink.
const (
	// KeyMetastoreURI is the Hive metastore URI.
	KeyMetastoreURI = "hive.metastore.uris"
	// KeyDatabase is the target database name.
	KeyDatabase = "hive.output.database"
	// KeyTable is the target table name.
	KeyTable = "hive.output.table"
)

// Register installs the sink plugin and the HCatalog output format in
// the registry. The metastore client resolves table schemas, the writer
// factory creates the per-attempt table writers.
func Register(r *hydrator.Registry, client MetastoreClient, writers TableWriterFactory) error {
	err := r.RegisterSink(PluginName, func(config map[string]string) (hydrator.BatchSink, error) {
		return New(client, config)
	})
	if err != nil {
		return err
	}
	return r.RegisterOutputFormat(OutputFormatName, func() hydrator.OutputFormat {
		return NewOutputFormat(writers)
	})
}

// Connector bundles the sink's constructors for hosts that assemble
// plugins directly instead of resolving them by name.
func Connector(client MetastoreClient, config map[string]string) hydrator.Connector {
	return hydrator.Connector{
		NewSpecification: Specification,
		NewSink: func() (hydrator.BatchSink, error) {
			return New(client, config)
		},
	}
}

// Specification returns the sink's specification.
func Specification() hydrator.Specification {
	return hydrator.Specification{
		Name:        PluginName,
		Summary:     "Writes records into a Hive table through HCatalog",
		Description: "Writes structured records into a Hive table through its HCatalog layer.",
		Version:     "v0.3.0",
		Author:      "Socking, Inc.",
	}
}

// Config holds the configuration of the Hive sink.
type Config struct {
	// MetastoreURI is the URI of the Hive metastore, e.g.
	// thrift://metastore:9083.
	MetastoreURI string `json:"metaStoreURI"`
	// DBName is the database of the target table, defaults to "default".
	DBName string `json:"dbName"`
	// TableName is the target table.
	TableName string `json:"tableName"`
}

// Sink is the Hive batch sink.
type Sink struct {
	hydrator.UnimplementedBatchSink

	config      Config
	client      MetastoreClient
	transformer *RecordTransformer
}

// New creates the sink from a raw configuration map.
func New(client MetastoreClient, config map[string]string) (*Sink, error) {
	params := parameters()
	config = hydrator.ApplyDefaults(params, config)
	if err := hydrator.ValidateParameters(params, config); err != nil {
		return nil, err
	}

	var cfg Config
	if err := hydrator.ParseConfig(config, &cfg); err != nil {
		return nil, err
	}
	return NewWithConfig(client, cfg), nil
}

// NewWithConfig creates the sink from a parsed configuration.
func NewWithConfig(client MetastoreClient, cfg Config) *Sink {
	if cfg.DBName == "" {
		cfg.DBName = "default"
	}
	return &Sink{config: cfg, client: client}
}

// Parameters describes the sink configuration.
func (s *Sink) Parameters() map[string]hydrator.Parameter {
	return parameters()
}

func parameters() map[string]hydrator.Parameter {
	return map[string]hydrator.Parameter{
		"metaStoreURI": {
			Required:    true,
			Description: "URI of the Hive metastore, e.g. thrift://metastore:9083.",
		},
		"dbName": {
			Default:     "default",
			Description: "Database of the table to write to.",
		},
		"tableName": {
			Required:    true,
			Description: "Table to write to.",
		},
	}
}

// ConfigurePipeline declares the schema-store dataset as a deployment
// time dependency.
func (s *Sink) ConfigurePipeline(configurer hydrator.PipelineConfigurer) error {
	return configurer.CreateDataset(SchemaStoreDataset)
}

// PrepareRun points the job's output format at HCatalog, resolves the
// table schema from the metastore and persists a snapshot of it for the
// task attempts of this run.
func (s *Sink) PrepareRun(ctx context.Context, sctx hydrator.SinkContext) error {
	conf := sctx.JobConf()
	conf.Set(hydrator.KeyOutputFormat, OutputFormatName)
	conf.Set(KeyMetastoreURI, s.config.MetastoreURI)
	conf.Set(KeyDatabase, s.config.DBName)
	conf.Set(KeyTable, s.config.TableName)

	schema, err := s.client.TableSchema(ctx, s.config.DBName, s.config.TableName)
	if err != nil {
		return fmt.Errorf("failed to resolve schema of %s.%s: %w", s.config.DBName, s.config.TableName, err)
	}

	snapshot, err := json.Marshal(schema.Fields())
	if err != nil {
		return fmt.Errorf("failed to encode schema snapshot: %w", err)
	}
	store, err := sctx.Dataset(SchemaStoreDataset)
	if err != nil {
		return err
	}
	if err := store.Write(ctx, s.schemaKey(), snapshot); err != nil {
		return fmt.Errorf("failed to persist schema snapshot: %w", err)
	}

	hydrator.Logger(ctx).Debug().
		Str("table", s.config.DBName+"."+s.config.TableName).
		Int("columns", schema.Len()).
		Msg("persisted table schema snapshot")
	return nil
}

// Initialize reads back the schema snapshot persisted by PrepareRun and
// builds the record transformer for this task attempt.
func (s *Sink) Initialize(ctx context.Context, rctx hydrator.RuntimeContext) error {
	store, err := rctx.Dataset(SchemaStoreDataset)
	if err != nil {
		return err
	}
	snapshot, err := store.Read(ctx, s.schemaKey())
	if err != nil {
		return fmt.Errorf("failed to read schema snapshot: %w", err)
	}

	var fields []FieldSchema
	if err := json.Unmarshal(snapshot, &fields); err != nil {
		return fmt.Errorf("failed to decode schema snapshot: %w", err)
	}
	schema, err := NewTableSchema(fields)
	if err != nil {
		return err
	}
	s.transformer = NewRecordTransformer(schema)
	return nil
}

// Transform converts the record into an HCatalog record and emits it as
// a null-keyed pair; the output key is ignored by HCatalog.
func (s *Sink) Transform(ctx context.Context, record *hydrator.StructuredRecord, emitter hydrator.Emitter[hydrator.KeyValue]) error {
	hcatRecord, err := s.transformer.Transform(record)
	if err != nil {
		return err
	}
	return emitter.Emit(ctx, hydrator.KeyValue{Key: nil, Value: hcatRecord})
}

// Destroy releases the transformer built in Initialize.
func (s *Sink) Destroy() {
	s.transformer = nil
}

func (s *Sink) schemaKey() string {
	return s.config.DBName + ":" + s.config.TableName
}
