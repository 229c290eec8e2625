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

// Package sqlserver implements a batch source that reads from a SQL
// Server table using a configurable bounded SQL query and outputs one
// record for each row returned by the query.
package sqlserver

import (
	"context"
	"fmt"
	"strings"

	// register the sqlserver driver with database/sql
	_ "github.com/microsoft/go-mssqldb"

	hydrator "github.com/socking/hydrator-plugins"
	"github.com/socking/hydrator-plugins/dbio"
)

// PluginName is the name the source is registered under.
const PluginName = "sqlserver"

// DriverPluginName is the name of the driver plugin the source resolves
// at configure time.
const DriverPluginName = "sqlserver"

// Register installs the source plugin and its driver plugin in the
// registry.
func Register(r *hydrator.Registry) error {
	err := r.RegisterDriver(hydrator.DriverPlugin{
		Type:       hydrator.DriverPluginType,
		Name:       DriverPluginName,
		DriverName: "sqlserver",
	})
	if err != nil {
		return err
	}
	return r.RegisterSource(PluginName, func(config map[string]string) (hydrator.BatchSource, error) {
		return New(config)
	})
}

// Connector bundles the source's constructors for hosts that assemble
// plugins directly instead of resolving them by name.
func Connector(config map[string]string) hydrator.Connector {
	return hydrator.Connector{
		NewSpecification: Specification,
		NewSource: func() (hydrator.BatchSource, error) {
			return New(config)
		},
	}
}

// Specification returns the source's specification.
func Specification() hydrator.Specification {
	return hydrator.Specification{
		Name:    PluginName,
		Summary: "Reads from a SQL Server table using a configurable SQL query",
		Description: "Reads from a SQL Server table using a configurable SQL query. " +
			"Outputs one record for each row returned by the query.",
		Version: "v0.3.0",
		Author:  "Socking, Inc.",
	}
}

// Config holds the configuration of the SQL Server source.
type Config struct {
	// ConnectionString is the connection string used to reach the
	// database.
	ConnectionString string `json:"connectionString"`
	// User is the database user. Required if the database requires
	// authentication, must be accompanied by Password.
	User string `json:"user"`
	// Password is the database password. Required if the database
	// requires authentication, must be accompanied by User.
	Password string `json:"password"`
	// JDBCPluginType is the type of the driver plugin, defaults to "jdbc".
	JDBCPluginType string `json:"jdbcPluginType"`
	// JDBCPluginName is the name of the driver plugin containing the
	// database driver.
	JDBCPluginName string `json:"jdbcPluginName"`
	// ImportQuery is the SELECT query used to import data. It must
	// contain the string $CONDITIONS, which is replaced by the limits of
	// the SplitBy column computed by the bounding query.
	ImportQuery string `json:"importQuery"`
	// BoundingQuery should return the min and max of the SplitBy column,
	// e.g. "SELECT MIN(id), MAX(id) FROM table".
	BoundingQuery string `json:"boundingQuery"`
	// SplitBy is the column used to generate splits.
	SplitBy string `json:"splitBy"`
	// ColumnNameCase sets the case of the column names of emitted
	// records. Possible options are upper or lower, any other value
	// keeps the names returned by the database as-is.
	ColumnNameCase string `json:"columnNameCase"`
	// NumSplits is the requested number of splits, defaults to 1.
	NumSplits int `json:"numSplits"`
}

// Source is the SQL Server batch source.
type Source struct {
	hydrator.UnimplementedBatchSource

	config Config
	driver *hydrator.DriverPlugin
}

// New creates the source from a raw configuration map.
func New(config map[string]string) (*Source, error) {
	params := parameters()
	config = hydrator.ApplyDefaults(params, config)
	if err := hydrator.ValidateParameters(params, config); err != nil {
		return nil, err
	}

	var cfg Config
	if err := hydrator.ParseConfig(config, &cfg); err != nil {
		return nil, err
	}
	return NewWithConfig(cfg), nil
}

// NewWithConfig creates the source from a parsed configuration.
func NewWithConfig(cfg Config) *Source {
	if cfg.JDBCPluginType == "" {
		cfg.JDBCPluginType = hydrator.DriverPluginType
	}
	if cfg.JDBCPluginName == "" {
		cfg.JDBCPluginName = DriverPluginName
	}
	return &Source{config: cfg}
}

// Parameters describes the source configuration.
func (s *Source) Parameters() map[string]hydrator.Parameter {
	return parameters()
}

func parameters() map[string]hydrator.Parameter {
	return map[string]hydrator.Parameter{
		"connectionString": {
			Required:    true,
			Description: "JDBC connection string including the database name.",
		},
		"user": {
			Description: "User to use to connect to the database. Required for databases that need authentication, optional otherwise.",
		},
		"password": {
			Description: "Password to use to connect to the database. Required for databases that need authentication, optional otherwise.",
		},
		"jdbcPluginType": {
			Default:     hydrator.DriverPluginType,
			Description: "Type of the driver plugin to use.",
		},
		"jdbcPluginName": {
			Default:     DriverPluginName,
			Description: "Name of the driver plugin containing the database driver.",
		},
		"importQuery": {
			Required: true,
			Description: "The SELECT query to use to import data. You can specify an arbitrary number of " +
				"columns to import, or import all columns using *. The query should contain the '$CONDITIONS' " +
				"string, for example 'SELECT * FROM table WHERE $CONDITIONS'. The '$CONDITIONS' string is " +
				"replaced by limits on the splitBy column computed by the bounding query.",
		},
		"boundingQuery": {
			Description: "Bounding query returning the min and max of the values of the splitBy column, " +
				"for example 'SELECT MIN(id), MAX(id) FROM table'.",
		},
		"splitBy": {
			Description: "Column name used to generate splits.",
		},
		"columnNameCase": {
			Description: "Sets the case of the column names of emitted records. Possible options are " +
				"upper or lower. By default or for any other input the column names are not modified and " +
				"the names returned by the database are used as-is. Note that setting this provides " +
				"predictable column names across databases but can result in name conflicts if multiple " +
				"column names are the same when case is ignored.",
		},
		"numSplits": {
			Default:     "1",
			Description: "Number of splits to generate, defaults to 1.",
		},
	}
}

// ConfigurePipeline validates the credentials, resolves the driver plugin
// and checks the import query. Any violation halts deployment.
func (s *Source) ConfigurePipeline(configurer hydrator.PipelineConfigurer) error {
	if s.config.User == "" && s.config.Password != "" {
		return fmt.Errorf("user is not set; provide both user and password if the database requires " +
			"authentication, otherwise remove password and retry")
	}
	if s.config.User != "" && s.config.Password == "" {
		return fmt.Errorf("password is not set; provide both user and password if the database requires " +
			"authentication, otherwise remove user and retry")
	}
	err := configurer.UsePlugin(s.config.JDBCPluginType, s.config.JDBCPluginName, s.driverPluginID())
	if err != nil {
		return fmt.Errorf("unable to load driver plugin %q of type %q, make sure the plugin containing "+
			"the driver is installed correctly: %w", s.config.JDBCPluginName, s.config.JDBCPluginType, err)
	}
	if !strings.Contains(s.config.ImportQuery, dbio.ConditionsPlaceholder) {
		return fmt.Errorf("import query %q must contain the string '%s'", s.config.ImportQuery, dbio.ConditionsPlaceholder)
	}
	return nil
}

// PrepareRun configures the job's database connection and registers the
// bounded query pair for split generation.
func (s *Source) PrepareRun(ctx context.Context, sctx hydrator.SourceContext) error {
	hydrator.Logger(ctx).Debug().
		Str("plugin_type", s.config.JDBCPluginType).
		Str("plugin_name", s.config.JDBCPluginName).
		Str("connection_string", s.config.ConnectionString).
		Str("import_query", s.config.ImportQuery).
		Str("bounding_query", s.config.BoundingQuery).
		Msg("preparing run")

	driver, err := loadDriverPlugin(sctx, s.driverPluginID())
	if err != nil {
		return err
	}

	conf := sctx.JobConf()
	if s.config.User == "" && s.config.Password == "" {
		dbio.ConfigureDB(conf, driver.DriverName, s.config.ConnectionString)
	} else {
		dbio.ConfigureDBWithCredentials(conf, driver.DriverName, s.config.ConnectionString,
			s.config.User, s.config.Password)
	}
	dbio.SetInput(conf, s.config.ImportQuery, s.config.BoundingQuery)
	conf.Set(dbio.KeyOrderBy, s.config.SplitBy)
	conf.SetInt(dbio.KeyNumSplits, s.config.NumSplits)
	return nil
}

// Initialize resolves the driver plugin for the current task attempt.
// Resolution is per-attempt because attempts may run in different
// processes.
func (s *Source) Initialize(_ context.Context, rctx hydrator.RuntimeContext) error {
	driver, err := loadDriverPlugin(rctx, s.driverPluginID())
	if err != nil {
		return err
	}
	s.driver = &driver
	return nil
}

// Transform converts the incoming database row into a structured record,
// normalizes the column name case and emits it.
func (s *Source) Transform(ctx context.Context, input hydrator.KeyValue, emitter hydrator.Emitter[*hydrator.StructuredRecord]) error {
	row, ok := input.Value.(*dbio.DBRecord)
	if !ok {
		return fmt.Errorf("unexpected input value type %T", input.Value)
	}
	record, err := hydrator.ConvertCase(row.StructuredRecord(), hydrator.ToFieldCase(s.config.ColumnNameCase))
	if err != nil {
		return err
	}
	return emitter.Emit(ctx, record)
}

// Destroy releases the driver handle resolved in Initialize.
func (s *Source) Destroy() {
	s.driver = nil
}

func (s *Source) driverPluginID() string {
	return fmt.Sprintf("source.%s.%s", s.config.JDBCPluginType, s.config.JDBCPluginName)
}

type pluginLoader interface {
	LoadPlugin(pluginID string) (any, error)
}

func loadDriverPlugin(loader pluginLoader, pluginID string) (hydrator.DriverPlugin, error) {
	p, err := loader.LoadPlugin(pluginID)
	if err != nil {
		return hydrator.DriverPlugin{}, err
	}
	driver, ok := p.(hydrator.DriverPlugin)
	if !ok {
		return hydrator.DriverPlugin{}, fmt.Errorf("plugin %q is not a driver plugin", pluginID)
	}
	return driver, nil
}
