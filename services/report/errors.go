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

import "errors"

var (
	// ErrNilSurface is returned when Generate is called without a surface.
	ErrNilSurface = errors.New("report: surface is nil")

	// ErrSurface wraps an unrecoverable error reported by the surface after
	// assembly.
	ErrSurface = errors.New("report: surface failed")
)
