// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package deployment defines the deployment record snapshot consumed by the
// report engine and the totals arithmetic folded over it.
//
// # Ownership Model
//
// Records are value types handed over by the record-management collaborator.
// Nothing in the report engine mutates a Record or the slices it carries;
// functions that reorder records always return a new slice.
package deployment

import "time"

// Record is one scheduled or executed operational deployment.
type Record struct {
	// ID is the collaborator's identifier for the record.
	ID string `json:"id" validate:"required"`

	// Unit is the organizational unit. Empty means absent.
	Unit string `json:"unit"`

	// OperativeType is the operative's kind code.
	OperativeType string `json:"operative_type"`

	// OperativeName is the human name printed in report rows.
	OperativeName string `json:"operative_name"`

	// TimeCategory is the operative time bucket (e.g. "day", "night").
	TimeCategory string `json:"time_category"`

	// Start and End bound the deployment window. Either may be zero.
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	// OrderType and OrderNumber identify the service order. Either may be empty.
	OrderType   string `json:"order_type"`
	OrderNumber string `json:"order_number"`

	// Sectors holds the police-sector codes the deployment covers.
	Sectors []int `json:"sectors"`

	// Neighborhoods holds the neighborhood names the deployment covers.
	Neighborhoods []string `json:"neighborhoods"`

	// Resources holds the deployed resource counts.
	Resources Resources `json:"resources"`
}

// Resources holds the resource counts of a deployment.
//
// Absent counts decode to zero, which is also how they aggregate.
type Resources struct {
	Vehicles            int `json:"vehicles" validate:"gte=0"`
	OfficersInVehicle   int `json:"officers_in_vehicle" validate:"gte=0"`
	Supervisors         int `json:"supervisors" validate:"gte=0"`
	Motorcycles         int `json:"motorcycles" validate:"gte=0"`
	TwoRiderMotorcycles int `json:"two_rider_motorcycles" validate:"gte=0"`
	MountedUnits        int `json:"mounted_units" validate:"gte=0"`
	CanineUnits         int `json:"canine_units" validate:"gte=0"`
	FootPatrol          int `json:"foot_patrol" validate:"gte=0"`
	Drones              int `json:"drones" validate:"gte=0"`
	RiotSquadPosted     int `json:"riot_squad_posted" validate:"gte=0"`
	RiotSquadAlert      int `json:"riot_squad_alert" validate:"gte=0"`
	SpecialOpsPosted    int `json:"special_ops_posted" validate:"gte=0"`
	SpecialOpsAlert     int `json:"special_ops_alert" validate:"gte=0"`
}

// TotalPersonnel returns the personnel deployed by the record.
//
// Two-rider motorcycles count twice; supervisors and specialist units are
// reported separately and do not contribute.
func (r Record) TotalPersonnel() int {
	res := r.Resources
	return res.OfficersInVehicle + res.Motorcycles + res.MountedUnits + res.FootPatrol + 2*res.TwoRiderMotorcycles
}

// OrderKey identifies the service order a record belongs to.
type OrderKey struct {
	Type   string
	Number string
}

// String renders the key the way it is printed in report rows.
func (k OrderKey) String() string {
	if k.Type == "" {
		return k.Number
	}
	if k.Number == "" {
		return k.Type
	}
	return k.Type + " " + k.Number
}

// Order returns the record's order key and whether both parts are present.
func (r Record) Order() (OrderKey, bool) {
	key := OrderKey{Type: r.OrderType, Number: r.OrderNumber}
	return key, r.OrderType != "" && r.OrderNumber != ""
}

// Period returns the earliest start and latest end across records.
//
// Zero timestamps are ignored. Both results are zero when no record carries
// the corresponding timestamp.
func Period(records []Record) (from, to time.Time) {
	for _, r := range records {
		if !r.Start.IsZero() && (from.IsZero() || r.Start.Before(from)) {
			from = r.Start
		}
		if !r.End.IsZero() && (to.IsZero() || r.End.After(to)) {
			to = r.End
		}
	}
	return from, to
}
