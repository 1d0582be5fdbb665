// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DatabaseURLEnv overrides Source.Postgres.DSN when set.
const DatabaseURLEnv = "DEPLOYREPORT_DATABASE_URL"

var (
	// ErrNotFound is returned by Load when the file does not exist.
	ErrNotFound = errors.New("config file not found")

	// ErrExists is returned by WriteDefault when the file already exists.
	ErrExists = errors.New("config file already exists")

	// ErrInvalid is returned when a loaded config fails validation.
	ErrInvalid = errors.New("invalid config")
)

var configValidate *validator.Validate

func init() {
	configValidate = validator.New()
}

// DefaultPath returns ~/.deployreport/deployreport.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find the user's home directory: %w", err)
	}
	return filepath.Join(home, ".deployreport", "deployreport.yaml"), nil
}

// Load reads path on top of DefaultConfig, so a file only needs the keys it
// changes. The result is validated.
func Load(path string) (DeployReportConfig, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read the config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	ApplyEnv(&cfg)
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv applies environment overrides to cfg.
func ApplyEnv(cfg *DeployReportConfig) {
	if dsn := os.Getenv(DatabaseURLEnv); dsn != "" {
		cfg.Source.Postgres.DSN = dsn
	}
}

// Validate checks field constraints.
func Validate(cfg DeployReportConfig) error {
	if err := configValidate.Struct(cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// WriteDefault writes DefaultConfig to path, creating parent directories.
// An existing file is left untouched unless force is set.
func WriteDefault(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%w: %s", ErrExists, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create the config directory: %w", err)
	}
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
