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

import (
	"fmt"
	"strings"
)

// Mode selects how records are grouped into sections.
//
// Mode is a closed set: ByUnit, ByNeighborhood, BySector and
// ByCustomSelection are the only implementations. Consumers switch over the
// concrete type.
type Mode interface {
	// Name returns the stable identifier used in flags, logs and metrics.
	Name() string

	sealed()
}

// ByUnit groups records by organizational unit.
type ByUnit struct{}

// ByNeighborhood groups records by each neighborhood they cover.
type ByNeighborhood struct{}

// BySector groups records by each police sector they cover.
type BySector struct{}

// ByCustomSelection renders one section per custom table, each restricted to
// a set of operative names and subdivided by unit.
type ByCustomSelection struct {
	Tables []CustomTable
}

// CustomTable is a user-defined table: a title plus the operatives it shows.
type CustomTable struct {
	Title          string   `yaml:"title" json:"title" validate:"required"`
	OperativeNames []string `yaml:"operative_names" json:"operative_names"`
}

func (ByUnit) Name() string            { return "unit" }
func (ByNeighborhood) Name() string    { return "neighborhood" }
func (BySector) Name() string          { return "sector" }
func (ByCustomSelection) Name() string { return "custom" }

func (ByUnit) sealed()            {}
func (ByNeighborhood) sealed()    {}
func (BySector) sealed()          {}
func (ByCustomSelection) sealed() {}

// Selectable splits the tables into those that can be rendered and those
// without any operative name, which are left out of the report.
func (m ByCustomSelection) Selectable() (kept, omitted []CustomTable) {
	for _, table := range m.Tables {
		if len(table.OperativeNames) == 0 {
			omitted = append(omitted, table)
			continue
		}
		kept = append(kept, table)
	}
	return kept, omitted
}

// ParseMode resolves a mode name. Custom tables are attached to the
// returned ByCustomSelection.
func ParseMode(name string, tables []CustomTable) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "unit", "units":
		return ByUnit{}, nil
	case "neighborhood", "neighborhoods":
		return ByNeighborhood{}, nil
	case "sector", "sectors":
		return BySector{}, nil
	case "custom":
		return ByCustomSelection{Tables: tables}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
}

// Dimension names the record field a section key was taken from.
type Dimension int

const (
	// DimensionUnit is the organizational unit.
	DimensionUnit Dimension = iota

	// DimensionNeighborhood is the neighborhood list.
	DimensionNeighborhood

	// DimensionSector is the police-sector list.
	DimensionSector
)

// String returns the dimension name.
func (d Dimension) String() string {
	switch d {
	case DimensionUnit:
		return "unit"
	case DimensionNeighborhood:
		return "neighborhood"
	case DimensionSector:
		return "sector"
	default:
		return "unknown"
	}
}
