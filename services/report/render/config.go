// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package render

import (
	"time"

	"github.com/AleutianAI/deployreport/services/report/layout"
)

// Config describes the fixed content and geometry of a document.
type Config struct {
	// Metrics are the layout heights and margins.
	Metrics layout.Metrics

	// Labels are the printed captions.
	Labels Labels

	// Icons are the glyphs stamped into resource column headers.
	Icons Icons

	// Logo is drawn in the page header. Empty draws no logo.
	Logo string

	// Institution and SystemName are printed in the page header.
	Institution string
	SystemName  string

	// GeneratedAt is the timestamp printed in the page header.
	GeneratedAt time.Time
}

// Labels are the captions printed by the renderer.
type Labels struct {
	ReportTitle    string `yaml:"report_title"`
	Name           string `yaml:"name"`
	Order          string `yaml:"order"`
	Vehicles       string `yaml:"vehicles"`
	Supervisors    string `yaml:"supervisors"`
	Motorcycles    string `yaml:"motorcycles"`
	MountedUnits   string `yaml:"mounted_units"`
	FootPatrol     string `yaml:"foot_patrol"`
	TotalPersonnel string `yaml:"total_personnel"`
	Totals         string `yaml:"totals"`
	GrandTotal     string `yaml:"grand_total"`
	Summary        string `yaml:"summary"`
	Group          string `yaml:"group"`
	Chart          string `yaml:"chart"`
	Page           string `yaml:"page"`
	Mode           string `yaml:"mode"`
	Period         string `yaml:"period"`
	Records        string `yaml:"records"`
}

// DefaultLabels returns English captions.
func DefaultLabels() Labels {
	return Labels{
		ReportTitle:    "Deployment Report",
		Name:           "Operative",
		Order:          "Order",
		Vehicles:       "Vehicles",
		Supervisors:    "Supervisors",
		Motorcycles:    "Motorcycles",
		MountedUnits:   "Mounted",
		FootPatrol:     "Foot patrol",
		TotalPersonnel: "Personnel",
		Totals:         "Totals",
		GrandTotal:     "Grand total",
		Summary:        "Summary",
		Group:          "Group",
		Chart:          "Personnel by neighborhood",
		Page:           "Page",
		Mode:           "Mode",
		Period:         "Period",
		Records:        "Records",
	}
}

// WithDefaults returns l with empty captions taken from DefaultLabels.
func (l Labels) WithDefaults() Labels {
	d := DefaultLabels()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&l.ReportTitle, d.ReportTitle)
	fill(&l.Name, d.Name)
	fill(&l.Order, d.Order)
	fill(&l.Vehicles, d.Vehicles)
	fill(&l.Supervisors, d.Supervisors)
	fill(&l.Motorcycles, d.Motorcycles)
	fill(&l.MountedUnits, d.MountedUnits)
	fill(&l.FootPatrol, d.FootPatrol)
	fill(&l.TotalPersonnel, d.TotalPersonnel)
	fill(&l.Totals, d.Totals)
	fill(&l.GrandTotal, d.GrandTotal)
	fill(&l.Summary, d.Summary)
	fill(&l.Group, d.Group)
	fill(&l.Chart, d.Chart)
	fill(&l.Page, d.Page)
	fill(&l.Mode, d.Mode)
	fill(&l.Period, d.Period)
	fill(&l.Records, d.Records)
	return l
}

// ResourceHeaders returns the six resource captions in totals column order.
func (l Labels) ResourceHeaders() []string {
	return []string{l.Vehicles, l.Supervisors, l.Motorcycles, l.MountedUnits, l.FootPatrol, l.TotalPersonnel}
}

// Icons are image paths for the six resource columns. Empty paths are
// skipped.
type Icons struct {
	Vehicles       string `yaml:"vehicles"`
	Supervisors    string `yaml:"supervisors"`
	Motorcycles    string `yaml:"motorcycles"`
	MountedUnits   string `yaml:"mounted_units"`
	FootPatrol     string `yaml:"foot_patrol"`
	TotalPersonnel string `yaml:"total_personnel"`
}

// Paths returns the icon paths in totals column order.
func (i Icons) Paths() []string {
	return []string{i.Vehicles, i.Supervisors, i.Motorcycles, i.MountedUnits, i.FootPatrol, i.TotalPersonnel}
}
