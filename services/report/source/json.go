// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/AleutianAI/deployreport/services/report/deployment"
)

// Loader decodes JSON record exports.
//
// The input is a JSON array of records with snake_case field names as
// produced by the record API. Missing counts decode to zero.
type Loader struct {
	// SkipInvalid drops records that fail validation instead of failing
	// the load.
	SkipInvalid bool

	// Logger receives a warning per skipped record. Nil discards.
	Logger *slog.Logger
}

// Load decodes and validates records from r.
func (l Loader) Load(r io.Reader) ([]deployment.Record, error) {
	var records []deployment.Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return filterValid(records, l.SkipInvalid, orDiscard(l.Logger))
}

// LoadFile decodes and validates records from the file at path.
func (l Loader) LoadFile(path string) ([]deployment.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open records: %w", err)
	}
	defer f.Close()

	records, err := l.Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// LoadJSON decodes records from r with a strict Loader.
func LoadJSON(r io.Reader) ([]deployment.Record, error) {
	return Loader{}.Load(r)
}

// LoadJSONFile decodes records from path with a strict Loader.
func LoadJSONFile(path string) ([]deployment.Record, error) {
	return Loader{}.LoadFile(path)
}

// FileSource reads records from a JSON file on every call.
type FileSource struct {
	Path   string
	Loader Loader
}

// Records implements Source.
func (s FileSource) Records(ctx context.Context) ([]deployment.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Loader.LoadFile(s.Path)
}
