// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package aggregate

import "errors"

// Sentinel errors for the aggregate package.
var (
	// ErrUnknownMode indicates a grouping mode name that is not recognized.
	ErrUnknownMode = errors.New("unknown grouping mode")

	// ErrUnsupportedDimension indicates a dimension that cannot be split
	// fractionally (only multi-valued dimensions can).
	ErrUnsupportedDimension = errors.New("unsupported dimension")
)
