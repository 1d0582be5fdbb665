// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package layout

import "math"

// Metrics holds the fixed heights the layout works with.
type Metrics struct {
	TopMargin    float64 `yaml:"top_margin" validate:"gte=0"`
	BottomMargin float64 `yaml:"bottom_margin" validate:"gte=0"`
	SideMargin   float64 `yaml:"side_margin" validate:"gte=0"`

	// HeaderHeight and FooterHeight are reserved on every page for furniture.
	HeaderHeight float64 `yaml:"header_height" validate:"gte=0"`
	FooterHeight float64 `yaml:"footer_height" validate:"gte=0"`

	// TitleHeight is the height of a section title line.
	TitleHeight float64 `yaml:"title_height" validate:"gt=0"`

	// TableHeaderHeight is the height of a column header row.
	TableHeaderHeight float64 `yaml:"table_header_height" validate:"gt=0"`

	// RowHeight is the height of one body row.
	RowHeight float64 `yaml:"row_height" validate:"gt=0"`

	// MinRows is the number of body rows that must fit under a new title.
	MinRows int `yaml:"min_rows" validate:"gte=1"`

	// SectionSpacing is the gap left after each block.
	SectionSpacing float64 `yaml:"section_spacing" validate:"gte=0"`
}

// DefaultMetrics returns metrics sized for A4 in millimetres.
func DefaultMetrics() Metrics {
	return Metrics{
		TopMargin:         10,
		BottomMargin:      10,
		SideMargin:        10,
		HeaderHeight:      20,
		FooterHeight:      10,
		TitleHeight:       9,
		TableHeaderHeight: 8,
		RowHeight:         6,
		MinRows:           2,
		SectionSpacing:    6,
	}
}

// Cursor returns a cursor at the top of page 1 for a page of height h.
func (m Metrics) Cursor(h float64) PageCursor {
	c := PageCursor{
		Page:         1,
		PageHeight:   h,
		TopMargin:    m.TopMargin,
		BottomMargin: m.BottomMargin,
		HeaderHeight: m.HeaderHeight,
		FooterHeight: m.FooterHeight,
	}
	c.Y = c.ContentTop()
	return c
}

// TableHeight estimates a table of rows body rows plus its header.
func (m Metrics) TableHeight(rows int) float64 {
	return float64(rows)*m.RowHeight + m.TableHeaderHeight
}

// LeadHeight is the space a titled table needs before it may start on the
// current page: the title, the column header and the first MinRows rows (or
// every row of a shorter table).
func (m Metrics) LeadHeight(rows int) float64 {
	return m.TitleHeight + m.TableHeight(min(m.minRows(), rows))
}

func (m Metrics) minRows() int {
	if m.MinRows < 1 {
		return 2
	}
	return m.MinRows
}

// Chunk is a run of table rows drawn on one page.
type Chunk struct {
	// Start and End delimit the rows [Start, End).
	Start, End int

	// NewPage reports whether a page break precedes the chunk.
	NewPage bool

	// Y is where the chunk's header row starts.
	Y float64
}

// Len returns the number of rows in the chunk.
func (ch Chunk) Len() int {
	return ch.End - ch.Start
}

// SplitRows distributes rows table rows over pages starting at c.
//
// Every chunk repeats the column header. Each chunk carries at least one row:
// a row that does not fit even on an empty page is still placed there.
func SplitRows(c PageCursor, rows int, m Metrics) []Chunk {
	var chunks []Chunk
	newPage := false
	for start := 0; start < rows; {
		capacity := int(math.Floor((c.Remaining()-m.TableHeaderHeight)/m.RowHeight + epsilon))
		if capacity < 1 {
			if !c.AtTop() {
				c = c.NextPage()
				newPage = true
				continue
			}
			capacity = 1
		}
		end := min(rows, start+capacity)
		chunks = append(chunks, Chunk{Start: start, End: end, NewPage: newPage, Y: c.Y})
		c = c.Advance(m.TableHeight(end - start))
		start = end
		if start < rows {
			c = c.NextPage()
			newPage = true
		}
	}
	return chunks
}
