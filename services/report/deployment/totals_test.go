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

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sampleRecords() []Record {
	return []Record{
		{ID: "r1", Resources: Resources{Vehicles: 2, OfficersInVehicle: 4, Supervisors: 1}},
		{ID: "r2", Resources: Resources{Motorcycles: 3, TwoRiderMotorcycles: 2, FootPatrol: 5}},
		{ID: "r3", Resources: Resources{MountedUnits: 6, Vehicles: 1, CanineUnits: 2, Drones: 1}},
		{ID: "r4"},
		{ID: "r5", Resources: Resources{OfficersInVehicle: 2, Supervisors: 2, FootPatrol: 1}},
	}
}

func TestTotalPersonnel(t *testing.T) {
	tests := []struct {
		name string
		res  Resources
		want int
	}{
		{"zero", Resources{}, 0},
		{"officers only", Resources{OfficersInVehicle: 4}, 4},
		{"two rider counts twice", Resources{TwoRiderMotorcycles: 3}, 6},
		{"mixed", Resources{OfficersInVehicle: 1, Motorcycles: 2, MountedUnits: 3, FootPatrol: 4, TwoRiderMotorcycles: 1}, 12},
		{"supervisors excluded", Resources{Supervisors: 9, CanineUnits: 2, Drones: 1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Record{Resources: tt.res}.TotalPersonnel())
		})
	}
}

func TestComputeTotals(t *testing.T) {
	got := ComputeTotals(sampleRecords())
	assert.Equal(t, Totals{
		Vehicles:       3,
		Supervisors:    3,
		Motorcycles:    3,
		MountedUnits:   6,
		FootPatrol:     6,
		TotalPersonnel: 4 + (3 + 4 + 5) + 6 + 0 + 3,
	}, got)
}

func TestComputeTotals_Empty(t *testing.T) {
	assert.Equal(t, Totals{}, ComputeTotals(nil))
	assert.Equal(t, Totals{}, ComputeTotals([]Record{}))
	assert.Equal(t, Totals{}, CombineTotals())
}

// Any split of the input into two parts must combine back to the same totals.
func TestCombineTotals_PartitionInvariant(t *testing.T) {
	records := sampleRecords()
	whole := ComputeTotals(records)
	for split := 0; split <= len(records); split++ {
		a := ComputeTotals(records[:split])
		b := ComputeTotals(records[split:])
		assert.Equal(t, whole, CombineTotals(a, b), "split=%d", split)
		assert.Equal(t, whole, CombineTotals(b, a), "split=%d reversed", split)
	}
}

func TestCombineTotals_Associative(t *testing.T) {
	records := sampleRecords()
	a, b, c := TotalsOf(records[0]), TotalsOf(records[1]), TotalsOf(records[2])
	assert.Equal(t, CombineTotals(CombineTotals(a, b), c), CombineTotals(a, CombineTotals(b, c)))
}

func TestTotalsValues_ColumnOrder(t *testing.T) {
	tot := Totals{Vehicles: 1, Supervisors: 2, Motorcycles: 3, MountedUnits: 4, FootPatrol: 5, TotalPersonnel: 6}
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, tot.Values())
}

func TestOrder(t *testing.T) {
	key, ok := Record{OrderType: "OS", OrderNumber: "12"}.Order()
	assert.True(t, ok)
	assert.Equal(t, "OS 12", key.String())

	key, ok = Record{OrderType: "OS"}.Order()
	assert.False(t, ok)
	assert.Equal(t, "OS", key.String())

	_, ok = Record{OrderNumber: "7"}.Order()
	assert.False(t, ok)
}

func TestPeriod(t *testing.T) {
	t1 := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	t3 := time.Date(2024, 3, 2, 6, 0, 0, 0, time.UTC)

	from, to := Period([]Record{{Start: t2, End: t3}, {Start: t1}, {}})
	assert.Equal(t, t1, from)
	assert.Equal(t, t3, to)

	from, to = Period(nil)
	assert.True(t, from.IsZero())
	assert.True(t, to.IsZero())
}
