// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads the deployreport YAML configuration.
package config

import (
	"github.com/AleutianAI/deployreport/pkg/logging"
	"github.com/AleutianAI/deployreport/services/report"
	"github.com/AleutianAI/deployreport/services/report/aggregate"
	"github.com/AleutianAI/deployreport/services/report/layout"
	"github.com/AleutianAI/deployreport/services/report/render"
	"github.com/AleutianAI/deployreport/services/report/source"
)

// Source kinds.
const (
	SourceJSON     = "json"
	SourcePostgres = "postgres"
)

// DeployReportConfig is the on-disk configuration.
type DeployReportConfig struct {
	// Institution and SystemName appear in page headers and filenames.
	Institution string `yaml:"institution" validate:"required"`
	SystemName  string `yaml:"system_name" validate:"required"`

	// Logo is the header image path. Empty draws none.
	Logo string `yaml:"logo"`

	// OutputDir receives generated documents.
	OutputDir string `yaml:"output_dir" validate:"required"`

	// ChartSize is the number of bars on the neighborhood chart.
	ChartSize int `yaml:"chart_size" validate:"gte=0"`

	Metrics layout.Metrics   `yaml:"metrics"`
	Icons   render.Icons     `yaml:"icons"`
	Labels  render.Labels    `yaml:"labels"`
	Titles  aggregate.Titles `yaml:"titles"`
	Logging logging.Config   `yaml:"logging"`
	Source  SourceConfig     `yaml:"source"`

	// CustomTables back the "custom" report mode.
	CustomTables []aggregate.CustomTable `yaml:"custom_tables" validate:"dive"`
}

// SourceConfig selects where records are read from.
type SourceConfig struct {
	// Kind is "json" or "postgres".
	Kind string `yaml:"kind" validate:"oneof=json postgres"`

	// Path is the JSON export read by the json source.
	Path string `yaml:"path,omitempty"`

	// SkipInvalid drops invalid records with a warning instead of failing.
	SkipInvalid bool `yaml:"skip_invalid"`

	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig configures the postgres source. DSN may also be supplied
// through DEPLOYREPORT_DATABASE_URL.
type PostgresConfig struct {
	DSN    string        `yaml:"dsn,omitempty"`
	Table  string        `yaml:"table"`
	Filter source.Filter `yaml:"filter"`
}

// DefaultConfig returns a JSON-source configuration with A4 metrics and
// English labels.
func DefaultConfig() DeployReportConfig {
	engine := report.DefaultConfig()
	return DeployReportConfig{
		Institution: engine.Institution,
		SystemName:  engine.SystemName,
		OutputDir:   ".",
		ChartSize:   engine.ChartSize,
		Metrics:     engine.Metrics,
		Labels:      engine.Labels,
		Titles: aggregate.Titles{
			Units:         map[string]string{},
			Neighborhoods: map[string]string{},
			Sectors:       map[string]string{},
		},
		Logging: logging.Config{
			Level:   logging.LevelInfo,
			Service: "deployreport",
		},
		Source: SourceConfig{
			Kind:     SourceJSON,
			Postgres: PostgresConfig{Table: source.DefaultTable},
		},
		CustomTables: []aggregate.CustomTable{},
	}
}

// EngineConfig maps the file settings onto the report engine.
func (c DeployReportConfig) EngineConfig() report.Config {
	return report.Config{
		Institution: c.Institution,
		SystemName:  c.SystemName,
		Logo:        c.Logo,
		Metrics:     c.Metrics,
		Labels:      c.Labels.WithDefaults(),
		Icons:       c.Icons,
		ChartSize:   c.ChartSize,
	}
}

// Resolver returns the title lookup built from Titles.
func (c DeployReportConfig) Resolver() *aggregate.MapResolver {
	return aggregate.NewMapResolver(c.Titles)
}

// Mode resolves a mode name against the configured custom tables.
func (c DeployReportConfig) Mode(name string) (aggregate.Mode, error) {
	return aggregate.ParseMode(name, c.CustomTables)
}
