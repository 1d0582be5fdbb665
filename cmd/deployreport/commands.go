// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/deployreport/cmd/deployreport/config"
	"github.com/AleutianAI/deployreport/pkg/logging"
	"github.com/AleutianAI/deployreport/pkg/ux"
	"github.com/AleutianAI/deployreport/services/report"
	"github.com/AleutianAI/deployreport/services/report/aggregate"
	"github.com/AleutianAI/deployreport/services/report/deployment"
	"github.com/AleutianAI/deployreport/services/report/source"
)

var (
	// ErrNoInput is returned when neither --input nor source.path names a
	// JSON export.
	ErrNoInput = errors.New("no record input: pass --input or set source.path")

	// ErrNoDSN is returned for the postgres source without a DSN.
	ErrNoDSN = errors.New("postgres source needs source.postgres.dsn or " + config.DatabaseURLEnv)

	// ErrBadCustomTable is returned for a malformed --table flag.
	ErrBadCustomTable = errors.New(`custom table must look like "Title=Name A,Name B"`)
)

// app carries the state shared by every subcommand.
type app struct {
	configPath string
	logLevel   string

	cfg    config.DeployReportConfig
	logger *logging.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "deployreport",
		Short: "Render deployment reports",
		Long: `deployreport aggregates operational deployment records by unit,
neighborhood, sector or custom selection and renders them as a paginated PDF
report, an XLSX workbook or a terminal summary.`,
		SilenceUsage:       true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (default ~/.deployreport/deployreport.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")

	root.AddCommand(
		newGenerateCmd(a),
		newSummaryCmd(a),
		newStatsCmd(a),
		newConfigCmd(a),
	)
	return root
}

// setup loads the config and builds the logger. A missing default config
// file falls back to DefaultConfig; a missing explicit one is an error.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	path := a.configPath
	explicit := path != ""
	if !explicit {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	cfg, err := config.Load(path)
	if errors.Is(err, config.ErrNotFound) && !explicit {
		cfg = config.DefaultConfig()
		config.ApplyEnv(&cfg)
		err = nil
	}
	if err != nil {
		return err
	}

	if a.logLevel != "" {
		level, err := logging.ParseLevel(a.logLevel)
		if err != nil {
			return err
		}
		cfg.Logging.Level = level
	}
	cfg.Logging.Console = cmd.ErrOrStderr()

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) teardown(_ *cobra.Command, _ []string) error {
	if a.logger == nil {
		return nil
	}
	return a.logger.Close()
}

func (a *app) slog() *slog.Logger {
	if a.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.logger.Slog()
}

// engine builds a report engine from the loaded config.
func (a *app) engine(opts ...report.Option) *report.Engine {
	base := []report.Option{
		report.WithConfig(a.cfg.EngineConfig()),
		report.WithResolver(a.cfg.Resolver()),
		report.WithLogger(a.slog()),
	}
	return report.NewEngine(append(base, opts...)...)
}

// records reads the record snapshot. input, when set, overrides the
// configured source with a JSON export.
func (a *app) records(ctx context.Context, input string) ([]deployment.Record, error) {
	loader := source.Loader{SkipInvalid: a.cfg.Source.SkipInvalid, Logger: a.slog()}

	var (
		src    source.Source
		closer func()
	)
	switch {
	case input != "":
		src = source.FileSource{Path: input, Loader: loader}
	case a.cfg.Source.Kind == config.SourcePostgres:
		pg := a.cfg.Source.Postgres
		if pg.DSN == "" {
			return nil, ErrNoDSN
		}
		ps, err := source.NewPostgresSource(ctx, pg.DSN, source.PostgresOptions{
			Table:       pg.Table,
			Filter:      pg.Filter,
			SkipInvalid: a.cfg.Source.SkipInvalid,
			Logger:      a.slog(),
		})
		if err != nil {
			return nil, err
		}
		src, closer = ps, ps.Close
	case a.cfg.Source.Path != "":
		src = source.FileSource{Path: a.cfg.Source.Path, Loader: loader}
	default:
		return nil, ErrNoInput
	}
	if closer != nil {
		defer closer()
	}

	records, err := src.Records(ctx)
	if err != nil {
		return nil, err
	}
	a.slog().Debug("records loaded", "count", len(records))
	return records, nil
}

// mode resolves a mode name, appending tables given on the command line to
// the configured ones.
func (a *app) mode(name string, tables []string) (aggregate.Mode, error) {
	custom := append([]aggregate.CustomTable(nil), a.cfg.CustomTables...)
	for _, def := range tables {
		t, err := parseCustomTable(def)
		if err != nil {
			return nil, err
		}
		custom = append(custom, t)
	}
	return aggregate.ParseMode(name, custom)
}

// parseCustomTable parses "Title=Name A,Name B". An empty name list is
// allowed; the engine omits such tables.
func parseCustomTable(def string) (aggregate.CustomTable, error) {
	title, names, ok := strings.Cut(def, "=")
	title = strings.TrimSpace(title)
	if !ok || title == "" {
		return aggregate.CustomTable{}, fmt.Errorf("%w: %q", ErrBadCustomTable, def)
	}
	t := aggregate.CustomTable{Title: title}
	for _, name := range strings.Split(names, ",") {
		if name = strings.TrimSpace(name); name != "" {
			t.OperativeNames = append(t.OperativeNames, name)
		}
	}
	return t, nil
}

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the deployreport config file",
		// Skips the root config loading so a broken file can be replaced.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.configPath
			if path == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				path = p
			}
			if err := config.WriteDefault(path, force); err != nil {
				return err
			}
			ux.NewPrinter(cmd.OutOrStdout()).Success("wrote %s", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd.AddCommand(initCmd)
	return cmd
}
