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

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	hydrator "github.com/socking/hydrator-plugins"
	"github.com/socking/hydrator-plugins/hive"
)

// Pipeline is the YAML description of a pipeline run.
type Pipeline struct {
	Source Stage       `yaml:"source"`
	Sink   Stage       `yaml:"sink"`
	JobSettings JobSettings `yaml:"job"`
	// Tables are the Hive table schemas known to the local metastore.
	Tables []Table `yaml:"tables"`
}

// Stage names a plugin and its configuration. Values in the
// configuration may reference environment variables with ${VAR}.
type Stage struct {
	Plugin string            `yaml:"plugin"`
	Config map[string]string `yaml:"config"`
}

// JobSettings holds runner knobs.
type JobSettings struct {
	WriteBatchSize int `yaml:"writeBatchSize"`
}

// Table is an inline Hive table schema.
type Table struct {
	Database string   `yaml:"database"`
	Table    string   `yaml:"table"`
	Columns  []Column `yaml:"columns"`
}

// Column is one column of an inline table schema.
type Column struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Comment string `yaml:"comment"`
}

// loadPipeline reads and validates the pipeline file.
func loadPipeline(path string) (*Pipeline, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pipeline file: %w", err)
	}

	var p Pipeline
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("failed to parse pipeline file: %w", err)
	}

	if p.Source.Plugin == "" {
		return nil, fmt.Errorf("pipeline file: source plugin is not set")
	}
	if p.Sink.Plugin == "" {
		return nil, fmt.Errorf("pipeline file: sink plugin is not set")
	}

	p.Source.Config = expandEnv(p.Source.Config)
	p.Sink.Config = expandEnv(p.Sink.Config)
	return &p, nil
}

// expandEnv expands ${VAR} references in configuration values so that
// credentials can be kept out of the pipeline file.
func expandEnv(config map[string]string) map[string]string {
	expanded := make(map[string]string, len(config))
	for k, v := range config {
		expanded[k] = os.ExpandEnv(v)
	}
	return expanded
}

// Job assembles a runnable job from the pipeline description. Sink
// output is written to out as JSON lines.
func (p *Pipeline) Job(out io.Writer, logger zerolog.Logger) (*hydrator.Job, error) {
	metastore := hive.NewStaticMetastore()
	for _, t := range p.Tables {
		fields := make([]hive.FieldSchema, len(t.Columns))
		for i, c := range t.Columns {
			fields[i] = hive.FieldSchema{Name: c.Name, Type: c.Type, Comment: c.Comment}
		}
		schema, err := hive.NewTableSchema(fields)
		if err != nil {
			return nil, fmt.Errorf("table %s.%s: %w", t.Database, t.Table, err)
		}
		metastore.AddTable(t.Database, t.Table, schema)
	}

	writers := func(context.Context, *hydrator.JobConf) (hive.TableWriter, error) {
		return hive.NewJSONLinesWriter(out), nil
	}

	registry, err := newRegistry(metastore, writers)
	if err != nil {
		return nil, err
	}

	return &hydrator.Job{
		Registry: registry,
		NewSource: func() (hydrator.BatchSource, error) {
			return registry.NewSource(p.Source.Plugin, p.Source.Config)
		},
		NewSink: func() (hydrator.BatchSink, error) {
			return registry.NewSink(p.Sink.Plugin, p.Sink.Config)
		},
		WriteBatchSize: p.JobSettings.WriteBatchSize,
		Logger:         logger,
	}, nil
}
