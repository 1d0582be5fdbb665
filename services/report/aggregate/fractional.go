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
	"slices"

	"github.com/shopspring/decimal"

	"github.com/AleutianAI/deployreport/services/report/deployment"
)

// Share is the fractional contribution of all records to one bucket.
type Share struct {
	Key        string
	Title      string
	Records    int
	Totals     DecimalTotals
	Unassigned bool
}

// DecimalTotals mirrors deployment.Totals with exact decimal fields.
type DecimalTotals struct {
	Vehicles       decimal.Decimal
	Supervisors    decimal.Decimal
	Motorcycles    decimal.Decimal
	MountedUnits   decimal.Decimal
	FootPatrol     decimal.Decimal
	TotalPersonnel decimal.Decimal
}

func (d DecimalTotals) add(other DecimalTotals) DecimalTotals {
	return DecimalTotals{
		Vehicles:       d.Vehicles.Add(other.Vehicles),
		Supervisors:    d.Supervisors.Add(other.Supervisors),
		Motorcycles:    d.Motorcycles.Add(other.Motorcycles),
		MountedUnits:   d.MountedUnits.Add(other.MountedUnits),
		FootPatrol:     d.FootPatrol.Add(other.FootPatrol),
		TotalPersonnel: d.TotalPersonnel.Add(other.TotalPersonnel),
	}
}

// Values returns the totals in report column order.
func (d DecimalTotals) Values() []decimal.Decimal {
	return []decimal.Decimal{d.Vehicles, d.Supervisors, d.Motorcycles, d.MountedUnits, d.FootPatrol, d.TotalPersonnel}
}

// splitTotals divides a record's totals evenly across n buckets.
func splitTotals(t deployment.Totals, n int) DecimalTotals {
	div := decimal.NewFromInt(int64(n))
	part := func(v int) decimal.Decimal {
		return decimal.NewFromInt(int64(v)).Div(div)
	}
	return DecimalTotals{
		Vehicles:       part(t.Vehicles),
		Supervisors:    part(t.Supervisors),
		Motorcycles:    part(t.Motorcycles),
		MountedUnits:   part(t.MountedUnits),
		FootPatrol:     part(t.FootPatrol),
		TotalPersonnel: part(t.TotalPersonnel),
	}
}

// FractionalShares distributes each record across the buckets it names with
// factor 1/n, where n is the number of distinct valid values on the record.
//
// This is the list-view policy, kept apart from Aggregate so that reports
// keep presence semantics. Only DimensionNeighborhood and DimensionSector are
// supported. Shares are sorted by total personnel descending, unassigned last.
func FractionalShares(records []deployment.Record, dim Dimension, resolver TitleResolver) ([]Share, error) {
	var keys keyFunc
	switch dim {
	case DimensionNeighborhood:
		keys = neighborhoodKeys
	case DimensionSector:
		keys = sectorKeys
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDimension, dim)
	}
	if resolver == nil {
		resolver = (*MapResolver)(nil)
	}

	index := make(map[string]int)
	var shares []Share
	var unassigned *Share
	for _, r := range records {
		values := keys(r)
		totals := deployment.TotalsOf(r)
		if len(values) == 0 {
			if unassigned == nil {
				unassigned = &Share{Title: resolver.Unassigned(dim), Unassigned: true}
			}
			unassigned.Records++
			unassigned.Totals = unassigned.Totals.add(splitTotals(totals, 1))
			continue
		}
		part := splitTotals(totals, len(values))
		for _, v := range values {
			i, ok := index[v]
			if !ok {
				i = len(shares)
				index[v] = i
				shares = append(shares, Share{Key: v, Title: resolver.Title(dim, v)})
			}
			shares[i].Records++
			shares[i].Totals = shares[i].Totals.add(part)
		}
	}

	slices.SortStableFunc(shares, func(a, b Share) int {
		return b.Totals.TotalPersonnel.Cmp(a.Totals.TotalPersonnel)
	})
	if unassigned != nil {
		shares = append(shares, *unassigned)
	}
	return shares, nil
}
