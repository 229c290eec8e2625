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

// Package dbio implements a data-driven database input format. The input
// is a bounded SQL query containing a $CONDITIONS placeholder; the format
// computes the bounds of a split column, partitions the value range and
// substitutes a range condition per split.
package dbio

import (
	"net/url"
	"strings"

	hydrator "github.com/socking/hydrator-plugins"
)

// InputFormatName is the name the data-driven input format is registered
// under.
const InputFormatName = "dbio.datadriven"

// ConditionsPlaceholder is the substring of the input query that is
// replaced with the split condition.
const ConditionsPlaceholder = "$CONDITIONS"

// Job configuration keys consumed by the data-driven input format.
const (
	// KeyDriver is the database/sql driver name.
	KeyDriver = "db.input.driver"
	// KeyConnectionString is the connection string passed to the driver.
	KeyConnectionString = "db.input.connection.string"
	// KeyUser is the optional database user.
	KeyUser = "db.input.username"
	// KeyPassword is the optional database password.
	KeyPassword = "db.input.password"
	// KeyInputQuery is the import query, it must contain
	// ConditionsPlaceholder.
	KeyInputQuery = "db.input.query"
	// KeyBoundingQuery returns the min and max of the order-by column.
	KeyBoundingQuery = "db.input.bounding.query"
	// KeyOrderBy is the column used to generate splits.
	KeyOrderBy = "db.input.orderby"
	// KeyNumSplits is the requested number of splits, defaults to 1.
	KeyNumSplits = "db.input.num.splits"
)

// Register installs the data-driven input format in the registry.
func Register(r *hydrator.Registry) error {
	return r.RegisterInputFormat(InputFormatName, func() hydrator.InputFormat {
		return DataDrivenInputFormat{}
	})
}

// ConfigureDB stores the database connection parameters of a job that
// does not require authentication.
func ConfigureDB(conf *hydrator.JobConf, driverName, connectionString string) {
	conf.Set(KeyDriver, driverName)
	conf.Set(KeyConnectionString, connectionString)
}

// ConfigureDBWithCredentials stores the database connection parameters of
// a job including credentials.
func ConfigureDBWithCredentials(conf *hydrator.JobConf, driverName, connectionString, user, password string) {
	ConfigureDB(conf, driverName, connectionString)
	conf.Set(KeyUser, user)
	conf.Set(KeyPassword, password)
}

// SetInput registers the import/bounding query pair and selects the
// data-driven input format for the job.
func SetInput(conf *hydrator.JobConf, inputQuery, boundingQuery string) {
	conf.Set(KeyInputQuery, inputQuery)
	conf.Set(KeyBoundingQuery, boundingQuery)
	conf.Set(hydrator.KeyInputFormat, InputFormatName)
}

// SubstituteConditions replaces every occurrence of the $CONDITIONS
// placeholder in the query with the given condition.
func SubstituteConditions(query, condition string) string {
	return strings.ReplaceAll(query, ConditionsPlaceholder, condition)
}

// DBRecord is one database row in result-set order, the raw value a
// source's Transform receives from this input format.
type DBRecord struct {
	Columns []string
	Values  []any
}

// StructuredRecord converts the row into a structured record, keeping the
// result-set column order.
func (r *DBRecord) StructuredRecord() *hydrator.StructuredRecord {
	out := hydrator.NewStructuredRecord()
	for i, col := range r.Columns {
		out.Set(col, r.Values[i])
	}
	return out
}

// dsn returns the connection string with the credentials applied. For
// URL-style connection strings the user info is replaced, otherwise the
// connection string is returned unchanged and the driver is expected to
// pick credentials up from it.
func dsn(connectionString, user, password string) string {
	if user == "" {
		return connectionString
	}
	u, err := url.Parse(connectionString)
	if err != nil || u.Scheme == "" {
		return connectionString
	}
	u.User = url.UserPassword(user, password)
	return u.String()
}
