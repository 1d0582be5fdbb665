// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation checks user-provided names before they are spliced into
// SQL text.
//
// Values always travel as query arguments. Identifiers cannot, so table
// names from config files are restricted to plain identifiers here.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// maxIdentifierLen is the Postgres NAMEDATALEN limit minus the terminator.
const maxIdentifierLen = 63

// ErrInvalidIdentifier is returned for names that are not plain identifiers.
var ErrInvalidIdentifier = errors.New("invalid identifier")

// identifierPattern matches one unquoted SQL identifier.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateIdentifier checks a single unquoted identifier: a letter or
// underscore followed by letters, digits or underscores, at most 63 bytes.
func ValidateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidIdentifier)
	}
	if len(name) > maxIdentifierLen {
		return fmt.Errorf("%w: %q exceeds %d bytes", ErrInvalidIdentifier, name, maxIdentifierLen)
	}
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	return nil
}

// ValidateTableName checks a table name with an optional schema qualifier,
// such as "deployments" or "ops.deployments".
//
// Example:
//
//	if err := validation.ValidateTableName(table); err != nil {
//	    return fmt.Errorf("records table: %w", err)
//	}
//	// Safe to splice into FROM
func ValidateTableName(name string) error {
	parts := strings.Split(name, ".")
	if len(parts) > 2 {
		return fmt.Errorf("%w: %q has more than one qualifier", ErrInvalidIdentifier, name)
	}
	for _, part := range parts {
		if err := ValidateIdentifier(part); err != nil {
			return err
		}
	}
	return nil
}
