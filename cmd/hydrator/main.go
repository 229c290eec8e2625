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

// Tool hydrator runs a source/sink plugin pair locally, playing the role
// of the batch host. The pipeline is described in a YAML file, secrets
// can be injected through the environment (a .env file is honored).
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	hydrator "github.com/socking/hydrator-plugins"
	"github.com/socking/hydrator-plugins/dbio"
	"github.com/socking/hydrator-plugins/hive"
	"github.com/socking/hydrator-plugins/sqlserver"
)

// version is overridden at build time.
var version = "(devel)"

func main() {
	// load environment variables from .env if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "hydrator",
		Short:         "Run batch data pipelines locally",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newRunCmd() *cobra.Command {
	var (
		pipelinePath string
		outputPath   string
		verbose      bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline described in a pipeline file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pipeline, err := loadPipeline(pipelinePath)
			if err != nil {
				return err
			}

			out := os.Stdout
			if outputPath != "" {
				f, err := os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).
				With().Timestamp().Logger()

			job, err := pipeline.Job(out, logger)
			if err != nil {
				return err
			}
			return job.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&pipelinePath, "pipeline", "p", "", "path to the pipeline file")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write sink output to this file instead of stdout")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	_ = cmd.MarkFlagRequired("pipeline")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the hydrator version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

// newRegistry installs the built-in plugins. The Hive sink writes through
// the local JSON lines writer, table schemas come from the pipeline file
// instead of a live metastore.
func newRegistry(metastore *hive.StaticMetastore, writers hive.TableWriterFactory) (*hydrator.Registry, error) {
	registry := hydrator.NewRegistry()
	if err := dbio.Register(registry); err != nil {
		return nil, err
	}
	if err := sqlserver.Register(registry); err != nil {
		return nil, err
	}
	if err := hive.Register(registry, metastore, writers); err != nil {
		return nil, err
	}
	return registry, nil
}
