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
	"strconv"

	"github.com/AleutianAI/deployreport/services/report/aggregate"
	"github.com/AleutianAI/deployreport/services/report/deployment"
	"github.com/AleutianAI/deployreport/services/report/layout"
)

// Column width weights. The six resource columns share the remainder.
const (
	sectionNameWeight  = 0.30
	sectionOrderWeight = 0.12
	summaryGroupWeight = 0.40
	resourceColumns    = 6
)

// tableStyles is the style map shared by every report table.
var tableStyles = map[layout.RowKind]layout.CellStyle{
	layout.RowHeader: {
		Size: sizeTable, Bold: true, Text: layout.ColorWhite, Fill: layout.ColorNavy, Filled: true,
	},
	layout.RowBody: {
		Size: sizeTable, Text: layout.ColorBlack,
	},
	layout.RowSubheading: {
		Size: sizeTable, Bold: true, Text: layout.ColorNavy, Fill: layout.ColorLightGray, Filled: true,
	},
	layout.RowTotals: {
		Size: sizeTable, Bold: true, Text: layout.ColorWhite, Fill: layout.ColorSteel, Filled: true,
	},
}

// titledTable is a block made of a centered title followed by a table that
// may span several pages.
type titledTable struct {
	title   string
	columns []layout.Column
	rows    []layout.Row

	// icons, when set, are stamped into header cells starting at iconFrom.
	icons    []string
	iconFrom int
}

// Section draws one aggregated section: its title, its rows and a totals
// row, splitting the table over as many pages as needed.
//
// The title is never left alone at the bottom of a page: when the title,
// the column header and the first rows do not fit, the section starts on a
// new page.
func (r *Renderer) Section(c layout.PageCursor, s aggregate.Section) layout.PageCursor {
	l := r.cfg.Labels
	columns := r.sectionColumns()
	nameWidth := columns[0].Width - 2*cellPadding

	var rows []layout.Row
	if len(s.Groups) > 0 {
		for _, g := range s.Groups {
			rows = append(rows, layout.Row{
				Kind:  layout.RowSubheading,
				Cells: totalsCells(r.truncate(g.Title, nameWidth, sizeTable), "", g.Totals),
			})
			rows = r.appendRecordRows(rows, g.Records, nameWidth)
		}
	} else {
		rows = r.appendRecordRows(rows, s.Records, nameWidth)
	}
	rows = append(rows, layout.Row{Kind: layout.RowTotals, Cells: totalsCells(l.Totals, "", s.Totals)})

	return r.drawTitledTable(c, titledTable{
		title:    s.Title,
		columns:  columns,
		rows:     rows,
		icons:    r.cfg.Icons.Paths(),
		iconFrom: 2,
	})
}

func (r *Renderer) appendRecordRows(rows []layout.Row, records []deployment.Record, nameWidth float64) []layout.Row {
	for _, rec := range records {
		order := ""
		if key, ok := rec.Order(); ok {
			order = key.String()
		}
		rows = append(rows, layout.Row{
			Kind:  layout.RowBody,
			Cells: totalsCells(r.truncate(rec.OperativeName, nameWidth, sizeTable), order, deployment.TotalsOf(rec)),
		})
	}
	return rows
}

// totalsCells builds the cells of a section row.
func totalsCells(name, order string, t deployment.Totals) []string {
	cells := make([]string, 0, 2+resourceColumns)
	cells = append(cells, name, order)
	for _, v := range t.Values() {
		cells = append(cells, strconv.Itoa(v))
	}
	return cells
}

func (r *Renderer) sectionColumns() []layout.Column {
	l := r.cfg.Labels
	width := r.contentWidth()
	resource := width * (1 - sectionNameWeight - sectionOrderWeight) / resourceColumns
	columns := []layout.Column{
		{Header: l.Name, Width: width * sectionNameWeight, Align: layout.AlignLeft},
		{Header: l.Order, Width: width * sectionOrderWeight, Align: layout.AlignCenter},
	}
	for _, h := range l.ResourceHeaders() {
		columns = append(columns, layout.Column{Header: h, Width: resource, Align: layout.AlignCenter})
	}
	return columns
}

// drawTitledTable lays out a titled table and returns the cursor below it
// plus section spacing.
func (r *Renderer) drawTitledTable(c layout.PageCursor, t titledTable) layout.PageCursor {
	m := r.cfg.Metrics
	left := m.SideMargin

	c = r.pager.EnsureSpace(c, m.LeadHeight(len(t.rows)))
	r.surface.DrawText(left, c.Y, t.title, layout.TextStyle{
		Size: sizeSection, Bold: true, Color: layout.ColorNavy, Align: layout.AlignCenter,
		Width: r.contentWidth(), Height: m.TitleHeight,
	})
	c = c.Advance(m.TitleHeight)

	for _, ch := range layout.SplitRows(c, len(t.rows), m) {
		if ch.NewPage {
			c = r.pager.NewPage(c, r.pager.Orientation())
		}
		table := layout.Table{
			X:            left,
			Y:            c.Y,
			Columns:      t.columns,
			Rows:         t.rows[ch.Start:ch.End],
			HeaderHeight: m.TableHeaderHeight,
			RowHeight:    m.RowHeight,
			Styles:       tableStyles,
		}
		if len(t.icons) > 0 {
			table.OnHeaderCell = r.stampIcon(t.icons, t.iconFrom)
		}
		r.surface.DrawTable(table)
		c = c.Advance(table.Height())
	}
	return c.Advance(m.SectionSpacing)
}

// stampIcon returns a header callback drawing icons[i] in header cell
// from+i, left of the caption.
func (r *Renderer) stampIcon(icons []string, from int) func(layout.HeaderCell) {
	return func(cell layout.HeaderCell) {
		i := cell.Column - from
		if i < 0 || i >= len(icons) || icons[i] == "" {
			return
		}
		size := min(iconMaxSize, cell.H-2)
		if size < iconMinSize {
			return
		}
		r.drawImage(icons[i], cell.X+0.5, cell.Y+(cell.H-size)/2, size, size)
	}
}
