// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name    string
		table   string
		wantErr bool
	}{
		// Valid names
		{"simple", "deployments", false},
		{"underscore start", "_staging", false},
		{"with digits", "deployments_2024", false},
		{"schema qualified", "ops.deployments", false},
		{"max length", strings.Repeat("a", 63), false},

		// Invalid names - injection attempts
		{"empty", "", true},
		{"sql injection", "deployments; DROP TABLE x", true},
		{"comment", "deployments--", true},
		{"quoted", `"deployments"`, true},
		{"starts with digit", "1abc", true},
		{"two qualifiers", "db.ops.deployments", true},
		{"empty schema", ".deployments", true},
		{"trailing dot", "ops.", true},
		{"spaces", "ops deployments", true},
		{"unicode", "despliegues_año", true},
		{"too long", strings.Repeat("a", 64), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTableName(tt.table)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTableName(%q) error = %v, wantErr %v", tt.table, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidIdentifier) {
				t.Errorf("ValidateTableName(%q) error = %v, want ErrInvalidIdentifier", tt.table, err)
			}
		})
	}
}
