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
	"fmt"
	"strings"
	"time"
)

// Filename returns the output file name for a report generated at t:
//
//	Deployment <institution> <DD-MM-YYYY>_<HHMM>_<system>.pdf
//
// Path separators in institution or system are replaced with "-".
func Filename(institution, system string, t time.Time) string {
	clean := strings.NewReplacer("/", "-", "\\", "-")
	return fmt.Sprintf("Deployment %s %s_%s_%s.pdf",
		clean.Replace(strings.TrimSpace(institution)),
		t.Format("02-01-2006"),
		t.Format("1504"),
		clean.Replace(strings.TrimSpace(system)),
	)
}
