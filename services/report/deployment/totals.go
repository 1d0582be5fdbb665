// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package deployment

// Totals is the fixed-shape resource summary printed in totals rows.
type Totals struct {
	Vehicles       int `json:"vehicles"`
	Supervisors    int `json:"supervisors"`
	Motorcycles    int `json:"motorcycles"`
	MountedUnits   int `json:"mounted_units"`
	FootPatrol     int `json:"foot_patrol"`
	TotalPersonnel int `json:"total_personnel"`
}

// Add returns the pointwise sum of t and other.
func (t Totals) Add(other Totals) Totals {
	return Totals{
		Vehicles:       t.Vehicles + other.Vehicles,
		Supervisors:    t.Supervisors + other.Supervisors,
		Motorcycles:    t.Motorcycles + other.Motorcycles,
		MountedUnits:   t.MountedUnits + other.MountedUnits,
		FootPatrol:     t.FootPatrol + other.FootPatrol,
		TotalPersonnel: t.TotalPersonnel + other.TotalPersonnel,
	}
}

// Values returns the totals in report column order.
func (t Totals) Values() []int {
	return []int{t.Vehicles, t.Supervisors, t.Motorcycles, t.MountedUnits, t.FootPatrol, t.TotalPersonnel}
}

// TotalsOf returns the contribution of a single record.
func TotalsOf(r Record) Totals {
	return Totals{
		Vehicles:       r.Resources.Vehicles,
		Supervisors:    r.Resources.Supervisors,
		Motorcycles:    r.Resources.Motorcycles,
		MountedUnits:   r.Resources.MountedUnits,
		FootPatrol:     r.Resources.FootPatrol,
		TotalPersonnel: r.TotalPersonnel(),
	}
}

// ComputeTotals folds records into a single Totals value.
//
// An empty or nil slice yields the zero Totals.
func ComputeTotals(records []Record) Totals {
	var sum Totals
	for _, r := range records {
		sum = sum.Add(TotalsOf(r))
	}
	return sum
}

// CombineTotals returns the pointwise sum of all totals.
//
// The result does not depend on argument order, so grand totals are stable
// regardless of how groups were iterated.
func CombineTotals(totals ...Totals) Totals {
	var sum Totals
	for _, t := range totals {
		sum = sum.Add(t)
	}
	return sum
}
