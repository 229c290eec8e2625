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
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
)

const testPipeline = `
source:
  plugin: sqlserver
  config:
    connectionString: sqlserver://localhost:1433?database=sales
    importQuery: SELECT * FROM products WHERE $CONDITIONS
    boundingQuery: SELECT MIN(id), MAX(id) FROM products
    splitBy: id
    user: sa
    password: ${TEST_DB_PASSWORD}
sink:
  plugin: hive
  config:
    metaStoreURI: thrift://metastore:9083
    dbName: sales
    tableName: products
job:
  writeBatchSize: 100
tables:
  - database: sales
    table: products
    columns:
      - name: id
        type: bigint
      - name: name
        type: string
`

func writePipeline(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadPipeline(t *testing.T) {
	is := is.New(t)

	t.Setenv("TEST_DB_PASSWORD", "secret")
	pipeline, err := loadPipeline(writePipeline(t, testPipeline))
	is.NoErr(err)

	is.Equal(pipeline.Source.Plugin, "sqlserver")
	is.Equal(pipeline.Sink.Plugin, "hive")
	is.Equal(pipeline.JobSettings.WriteBatchSize, 100)
	is.Equal(len(pipeline.Tables), 1)

	// environment references are expanded
	is.Equal(pipeline.Source.Config["password"], "secret")
}

func TestLoadPipeline_MissingStage(t *testing.T) {
	is := is.New(t)

	_, err := loadPipeline(writePipeline(t, "source:\n  plugin: sqlserver\n"))
	is.True(err != nil) // sink plugin is not set

	_, err = loadPipeline(writePipeline(t, "sink:\n  plugin: hive\n"))
	is.True(err != nil) // source plugin is not set
}

func TestLoadPipeline_UnreadableFile(t *testing.T) {
	is := is.New(t)

	_, err := loadPipeline(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	is.True(err != nil)
}

func TestPipeline_Job(t *testing.T) {
	is := is.New(t)

	t.Setenv("TEST_DB_PASSWORD", "secret")
	pipeline, err := loadPipeline(writePipeline(t, testPipeline))
	is.NoErr(err)

	job, err := pipeline.Job(os.Stdout, zerolog.Nop())
	is.NoErr(err)

	source, err := job.NewSource()
	is.NoErr(err)
	is.True(source != nil)

	sink, err := job.NewSink()
	is.NoErr(err)
	is.True(sink != nil)
}

func TestPipeline_Job_InvalidTableSchema(t *testing.T) {
	is := is.New(t)

	pipeline := &Pipeline{
		Source: Stage{Plugin: "sqlserver"},
		Sink:   Stage{Plugin: "hive"},
		Tables: []Table{{
			Database: "sales",
			Table:    "products",
			Columns: []Column{
				{Name: "id", Type: "bigint"},
				{Name: "ID", Type: "int"},
			},
		}},
	}

	_, err := pipeline.Job(os.Stdout, zerolog.Nop())
	is.True(err != nil) // duplicate column in inline schema
}
