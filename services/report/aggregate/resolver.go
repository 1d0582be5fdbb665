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
	"strings"

	"golang.org/x/text/unicode/norm"
)

// TitleResolver maps raw group keys to printable section titles.
type TitleResolver interface {
	// Title returns the display title for key, or key itself when unknown.
	Title(dim Dimension, key string) string

	// Unassigned returns the title of the bucket holding records without
	// any value for dim.
	Unassigned(dim Dimension) string
}

// Titles is the lookup table behind MapResolver.
type Titles struct {
	Units         map[string]string `yaml:"units"`
	Neighborhoods map[string]string `yaml:"neighborhoods"`
	Sectors       map[string]string `yaml:"sectors"`

	UnassignedUnit         string `yaml:"unassigned_unit"`
	UnassignedNeighborhood string `yaml:"unassigned_neighborhood"`
	UnassignedSector       string `yaml:"unassigned_sector"`
}

// MapResolver resolves titles from static lookup tables.
//
// Keys are normalized with NormalizeKey before lookup, so "Cordón" written
// with a combining accent still finds its title. The zero value resolves every
// key to itself.
type MapResolver struct {
	tables     map[Dimension]map[string]string
	unassigned map[Dimension]string
}

// NewMapResolver builds a resolver from t. Empty unassigned titles fall back
// to defaults.
func NewMapResolver(t Titles) *MapResolver {
	r := &MapResolver{
		tables: map[Dimension]map[string]string{
			DimensionUnit:         normalizeTable(t.Units),
			DimensionNeighborhood: normalizeTable(t.Neighborhoods),
			DimensionSector:       normalizeTable(t.Sectors),
		},
		unassigned: map[Dimension]string{
			DimensionUnit:         t.UnassignedUnit,
			DimensionNeighborhood: t.UnassignedNeighborhood,
			DimensionSector:       t.UnassignedSector,
		},
	}
	return r
}

// Title implements TitleResolver.
func (r *MapResolver) Title(dim Dimension, key string) string {
	if r != nil {
		if title, ok := r.tables[dim][NormalizeKey(key)]; ok && title != "" {
			return title
		}
	}
	return key
}

// Unassigned implements TitleResolver.
func (r *MapResolver) Unassigned(dim Dimension) string {
	if r != nil {
		if title := r.unassigned[dim]; title != "" {
			return title
		}
	}
	switch dim {
	case DimensionNeighborhood:
		return "No neighborhood assigned"
	case DimensionSector:
		return "No sector assigned"
	default:
		return "No unit assigned"
	}
}

// NormalizeKey canonicalizes a grouping value: surrounding whitespace is
// removed and the text is put in Unicode NFC form.
func NormalizeKey(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func normalizeTable(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[NormalizeKey(k)] = v
	}
	return out
}
