// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFilename(t *testing.T) {
	at := time.Date(2024, 1, 7, 8, 5, 0, 0, time.UTC)

	tests := []struct {
		name        string
		institution string
		system      string
		want        string
	}{
		{"plain", "Jefatura", "SGO", "Deployment Jefatura 07-01-2024_0805_SGO.pdf"},
		{"trimmed", "  Jefatura ", " SGO", "Deployment Jefatura 07-01-2024_0805_SGO.pdf"},
		{"separators", "Zona 1/Norte", `A\B`, "Deployment Zona 1-Norte 07-01-2024_0805_A-B.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Filename(tt.institution, tt.system, at))
		})
	}
}
