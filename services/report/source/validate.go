// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package source loads deployment records for report generation.
//
// Records come either from a JSON export of the record API (FileSource) or
// straight from the collaborator's Postgres database (PostgresSource). Both
// validate every record before handing it to the engine; the engine itself
// never rejects input.
package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/AleutianAI/deployreport/services/report/deployment"
)

var (
	// ErrInvalidRecord is returned when a record fails validation.
	ErrInvalidRecord = errors.New("invalid deployment record")

	// ErrDecode is returned when the input is not a JSON array of records.
	ErrDecode = errors.New("decode deployment records")

	// ErrInvalidTable is returned for table names that are not plain
	// (optionally schema-qualified) identifiers.
	ErrInvalidTable = errors.New("invalid table name")
)

// Source yields a snapshot of deployment records.
type Source interface {
	Records(ctx context.Context) ([]deployment.Record, error)
}

// recordValidate is shared by every loader. Initialized in init() with the
// window rule.
var recordValidate *validator.Validate

func init() {
	recordValidate = validator.New()
	recordValidate.RegisterStructValidation(validateWindow, deployment.Record{})
}

// validateWindow rejects records whose end precedes their start.
func validateWindow(sl validator.StructLevel) {
	r := sl.Current().Interface().(deployment.Record)
	if !r.Start.IsZero() && !r.End.IsZero() && r.End.Before(r.Start) {
		sl.ReportError(r.End, "End", "end", "after_start", "")
	}
}

// ValidateRecord checks counts, the ID and the deployment window.
func ValidateRecord(r deployment.Record) error {
	if err := recordValidate.Struct(r); err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidRecord, r.ID, err)
	}
	return nil
}

// filterValid validates records. With skip set, invalid records are logged
// and dropped; otherwise the first invalid record fails the whole batch.
func filterValid(records []deployment.Record, skip bool, logger *slog.Logger) ([]deployment.Record, error) {
	out := records[:0:0]
	for i, r := range records {
		if err := ValidateRecord(r); err != nil {
			if !skip {
				return nil, fmt.Errorf("record %d: %w", i, err)
			}
			logger.Warn("skipping invalid record", "index", i, "id", r.ID, "error", err)
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
