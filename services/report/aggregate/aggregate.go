// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package aggregate groups deployment records into report sections.
//
// # Assignment Policy
//
// Neighborhoods and sectors are multi-valued. When grouping by one of them a
// record is added whole to every bucket it names: a record covering three
// neighborhoods contributes its full personnel to each of the three
// sections. Section totals therefore add up to more than the unique record
// total whenever records span several buckets. FractionalShares implements
// the alternative 1/n split used by list views; reports never use it.
//
// # Ordering
//
//   - ByUnit: first-seen unit order.
//   - ByNeighborhood, BySector: total personnel descending, first-seen order
//     among equal totals, unassigned bucket last.
//   - ByCustomSelection: table order; unit groups in first-seen order.
package aggregate

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/AleutianAI/deployreport/services/report/deployment"
)

// Section is one titled, totaled group of records.
type Section struct {
	// Key is the raw grouping value (unit, neighborhood, sector code or
	// custom table title). Empty for unassigned buckets.
	Key string

	// Title is the printable heading.
	Title string

	// Records are the rows of the section in bucket order. For custom
	// selections this is the concatenation of all group records.
	Records []deployment.Record

	// Groups subdivides a custom-selection section by unit. Nil otherwise.
	Groups []Group

	// Totals sums Records (or, equivalently, all group totals).
	Totals deployment.Totals

	// Unassigned marks the bucket of records without a grouping value.
	Unassigned bool
}

// Group is a unit-level subdivision of a custom-selection section.
type Group struct {
	Unit    string
	Title   string
	Records []deployment.Record
	Totals  deployment.Totals
}

// Aggregate groups records into sections according to mode.
//
// A nil mode or an empty record list yields no sections. A nil resolver
// prints raw keys.
func Aggregate(records []deployment.Record, mode Mode, resolver TitleResolver) []Section {
	if resolver == nil {
		resolver = (*MapResolver)(nil)
	}
	if len(records) == 0 {
		return nil
	}

	switch m := mode.(type) {
	case nil:
		return nil
	case ByUnit:
		return byUnit(records, resolver)
	case ByNeighborhood:
		return byMultiValue(records, DimensionNeighborhood, neighborhoodKeys, resolver)
	case BySector:
		return byMultiValue(records, DimensionSector, sectorKeys, resolver)
	case ByCustomSelection:
		return byCustomSelection(records, m, resolver)
	default:
		panic(fmt.Sprintf("aggregate: unhandled mode %T", mode))
	}
}

// GrandTotals returns the pointwise sum of all section totals.
func GrandTotals(sections []Section) deployment.Totals {
	totals := make([]deployment.Totals, len(sections))
	for i, s := range sections {
		totals[i] = s.Totals
	}
	return deployment.CombineTotals(totals...)
}

// =============================================================================
// Buckets
// =============================================================================

// buckets collects records per key while remembering first-seen key order.
type buckets struct {
	index   map[string]int
	keys    []string
	records [][]deployment.Record
}

func newBuckets() *buckets {
	return &buckets{index: make(map[string]int)}
}

func (b *buckets) add(key string, r deployment.Record) {
	i, ok := b.index[key]
	if !ok {
		i = len(b.keys)
		b.index[key] = i
		b.keys = append(b.keys, key)
		b.records = append(b.records, nil)
	}
	b.records[i] = append(b.records[i], r)
}

func (b *buckets) sections(dim Dimension, resolver TitleResolver) []Section {
	out := make([]Section, len(b.keys))
	for i, key := range b.keys {
		out[i] = Section{
			Key:     key,
			Title:   resolver.Title(dim, key),
			Records: b.records[i],
			Totals:  deployment.ComputeTotals(b.records[i]),
		}
	}
	return out
}

// =============================================================================
// Modes
// =============================================================================

func byUnit(records []deployment.Record, resolver TitleResolver) []Section {
	b := newBuckets()
	for _, r := range records {
		unit := NormalizeKey(r.Unit)
		if unit == "" {
			continue
		}
		b.add(unit, r)
	}
	return b.sections(DimensionUnit, resolver)
}

// keyFunc extracts the distinct, valid grouping values of a record.
type keyFunc func(deployment.Record) []string

func byMultiValue(records []deployment.Record, dim Dimension, keys keyFunc, resolver TitleResolver) []Section {
	b := newBuckets()
	var unassigned []deployment.Record
	for _, r := range records {
		values := keys(r)
		if len(values) == 0 {
			unassigned = append(unassigned, r)
			continue
		}
		for _, v := range values {
			b.add(v, r)
		}
	}

	sections := b.sections(dim, resolver)
	slices.SortStableFunc(sections, func(a, b Section) int {
		return b.Totals.TotalPersonnel - a.Totals.TotalPersonnel
	})
	if len(unassigned) > 0 {
		sections = append(sections, Section{
			Title:      resolver.Unassigned(dim),
			Records:    unassigned,
			Totals:     deployment.ComputeTotals(unassigned),
			Unassigned: true,
		})
	}
	return sections
}

func neighborhoodKeys(r deployment.Record) []string {
	var out []string
	seen := make(map[string]bool, len(r.Neighborhoods))
	for _, n := range r.Neighborhoods {
		key := NormalizeKey(n)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	return out
}

func sectorKeys(r deployment.Record) []string {
	var out []string
	seen := make(map[int]bool, len(r.Sectors))
	for _, s := range r.Sectors {
		if s <= 0 || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, strconv.Itoa(s))
	}
	return out
}

func byCustomSelection(records []deployment.Record, m ByCustomSelection, resolver TitleResolver) []Section {
	kept, _ := m.Selectable()
	var sections []Section
	for _, table := range kept {
		wanted := make(map[string]bool, len(table.OperativeNames))
		for _, name := range table.OperativeNames {
			wanted[NormalizeKey(name)] = true
		}

		units := newBuckets()
		var noUnit []deployment.Record
		for _, r := range records {
			if !wanted[NormalizeKey(r.OperativeName)] {
				continue
			}
			unit := NormalizeKey(r.Unit)
			if unit == "" {
				noUnit = append(noUnit, r)
				continue
			}
			units.add(unit, r)
		}
		if len(units.keys) == 0 && len(noUnit) == 0 {
			continue
		}

		var groups []Group
		for _, s := range units.sections(DimensionUnit, resolver) {
			groups = append(groups, Group{Unit: s.Key, Title: s.Title, Records: s.Records, Totals: s.Totals})
		}
		if len(noUnit) > 0 {
			groups = append(groups, Group{
				Title:   resolver.Unassigned(DimensionUnit),
				Records: noUnit,
				Totals:  deployment.ComputeTotals(noUnit),
			})
		}

		section := Section{Key: table.Title, Title: table.Title, Groups: groups}
		groupTotals := make([]deployment.Totals, len(groups))
		for i, g := range groups {
			section.Records = append(section.Records, g.Records...)
			groupTotals[i] = g.Totals
		}
		section.Totals = deployment.CombineTotals(groupTotals...)
		sections = append(sections, section)
	}
	return sections
}
