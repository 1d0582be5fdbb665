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
	"slices"
	"strconv"

	"github.com/AleutianAI/deployreport/services/report/aggregate"
	"github.com/AleutianAI/deployreport/services/report/deployment"
	"github.com/AleutianAI/deployreport/services/report/layout"
)

// DefaultChartSize is the number of bars drawn when no size is given.
const DefaultChartSize = 10

// Summary starts a new portrait page with one row per section and a
// grand-total row.
func (r *Renderer) Summary(c layout.PageCursor, sections []aggregate.Section, grand deployment.Totals) layout.PageCursor {
	l := r.cfg.Labels
	c = r.pager.NewPage(c, layout.Portrait)

	width := r.contentWidth()
	resource := width * (1 - summaryGroupWeight) / resourceColumns
	columns := []layout.Column{{Header: l.Group, Width: width * summaryGroupWeight, Align: layout.AlignLeft}}
	for _, h := range l.ResourceHeaders() {
		columns = append(columns, layout.Column{Header: h, Width: resource, Align: layout.AlignCenter})
	}
	nameWidth := columns[0].Width - 2*cellPadding

	rows := make([]layout.Row, 0, len(sections)+1)
	for _, s := range sections {
		rows = append(rows, layout.Row{Kind: layout.RowBody, Cells: summaryCells(r.truncate(s.Title, nameWidth, sizeTable), s.Totals)})
	}
	rows = append(rows, layout.Row{Kind: layout.RowTotals, Cells: summaryCells(l.GrandTotal, grand)})

	return r.drawTitledTable(c, titledTable{
		title:    l.Summary,
		columns:  columns,
		rows:     rows,
		icons:    r.cfg.Icons.Paths(),
		iconFrom: 1,
	})
}

func summaryCells(name string, t deployment.Totals) []string {
	cells := make([]string, 0, 1+resourceColumns)
	cells = append(cells, name)
	for _, v := range t.Values() {
		cells = append(cells, strconv.Itoa(v))
	}
	return cells
}

// =============================================================================
// Chart
// =============================================================================

// ChartEntry is one bar of the personnel chart.
type ChartEntry struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// TopSections returns up to n chart entries for the sections with the most
// personnel, excluding the unassigned bucket. Equal totals keep section
// order. A non-positive n uses DefaultChartSize.
func TopSections(sections []aggregate.Section, n int) []ChartEntry {
	if n <= 0 {
		n = DefaultChartSize
	}
	var entries []ChartEntry
	for _, s := range sections {
		if s.Unassigned {
			continue
		}
		entries = append(entries, ChartEntry{Label: s.Title, Value: s.Totals.TotalPersonnel})
	}
	slices.SortStableFunc(entries, func(a, b ChartEntry) int {
		return b.Value - a.Value
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// Chart starts a new landscape page with a horizontal bar per entry, in
// entry order. No entries draw nothing and leave the cursor unchanged.
func (r *Renderer) Chart(c layout.PageCursor, entries []ChartEntry) layout.PageCursor {
	if len(entries) == 0 {
		return c
	}
	m := r.cfg.Metrics
	c = r.pager.NewPage(c, layout.Landscape)

	left := m.SideMargin
	width := r.contentWidth()
	r.surface.DrawText(left, c.Y, r.cfg.Labels.Chart, layout.TextStyle{
		Size: sizeSection, Bold: true, Color: layout.ColorNavy, Align: layout.AlignCenter,
		Width: width, Height: m.TitleHeight,
	})
	c = c.Advance(m.TitleHeight)

	labelWidth := width * 0.30
	valueWidth := 15.0
	barArea := width - labelWidth - valueWidth
	barHeight := min(10.0, c.Remaining()/float64(len(entries)))
	gap := barHeight * 0.2

	maxValue := 0
	for _, e := range entries {
		maxValue = max(maxValue, e.Value)
	}

	for _, e := range entries {
		barY := c.Y + gap/2
		r.surface.DrawText(left, c.Y, r.truncate(e.Label, labelWidth-2*cellPadding, sizeTable), layout.TextStyle{
			Size: sizeTable, Color: layout.ColorBlack, Height: barHeight, Width: labelWidth - cellPadding, Align: layout.AlignRight,
		})
		barWidth := 0.0
		if maxValue > 0 {
			barWidth = barArea * float64(e.Value) / float64(maxValue)
		}
		if barWidth > 0 {
			r.surface.DrawRect(left+labelWidth, barY, barWidth, barHeight-gap, layout.FillStyle{Color: layout.ColorSteel})
		}
		r.surface.DrawText(left+labelWidth+barWidth+cellPadding, c.Y, strconv.Itoa(e.Value), layout.TextStyle{
			Size: sizeTable, Bold: true, Color: layout.ColorNavy, Height: barHeight,
		})
		c = c.Advance(barHeight)
	}
	return c.Advance(m.SectionSpacing)
}
