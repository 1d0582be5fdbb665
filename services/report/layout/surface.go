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

// =============================================================================
// Drawing Surface
// =============================================================================

// Surface is the page and graphics API the report engine draws on.
//
// Coordinates are in the surface's user unit (millimetres for the PDF
// surface) with the origin at the top-left corner of the current page.
// Layout decisions are taken by the engine; a Surface only executes them.
//
// # Thread Safety
//
// A Surface belongs to a single report generation and is not safe for
// concurrent use.
type Surface interface {
	// AddPage starts a new page with the given orientation.
	AddPage(o Orientation)

	// PageWidth and PageHeight return the size of the current page.
	PageWidth() float64
	PageHeight() float64

	// DrawText draws text inside the box at (x, y) described by style.
	DrawText(x, y float64, text string, style TextStyle)

	// DrawLine draws a straight line.
	DrawLine(x1, y1, x2, y2 float64, style LineStyle)

	// DrawRect draws a filled rectangle.
	DrawRect(x, y, w, h float64, style FillStyle)

	// DrawImage places the image at path in the given box. An error means
	// nothing was drawn and the surface remains usable.
	DrawImage(path string, x, y, w, h float64) error

	// DrawTable draws a header row followed by body rows.
	DrawTable(t Table)

	// MeasureTextWidth returns the rendered width of text at fontSize.
	MeasureTextWidth(text string, fontSize float64) float64

	// Save finalizes the document and writes it to filename.
	Save(filename string) error

	// Err returns the first unrecoverable drawing error, if any.
	Err() error
}

// Orientation is the page orientation.
type Orientation int

const (
	// Portrait is the default, taller than wide.
	Portrait Orientation = iota

	// Landscape is wider than tall.
	Landscape
)

// String returns "portrait" or "landscape".
func (o Orientation) String() string {
	if o == Landscape {
		return "landscape"
	}
	return "portrait"
}

// Align is horizontal text alignment inside a box.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Color is an RGB color with 0-255 channels.
type Color struct {
	R, G, B int
}

// Common colors used by report styles.
var (
	ColorBlack     = Color{0, 0, 0}
	ColorWhite     = Color{255, 255, 255}
	ColorNavy      = Color{30, 58, 95}
	ColorSteel     = Color{52, 101, 164}
	ColorLightGray = Color{235, 238, 242}
	ColorMidGray   = Color{160, 166, 175}
	ColorMuted     = Color{90, 98, 110}
)

// TextStyle describes the box and font of a DrawText call.
type TextStyle struct {
	// Size is the font size in points.
	Size float64

	// Bold selects the bold face.
	Bold bool

	// Color is the text color.
	Color Color

	// Align positions the text inside Width. Ignored when Width is zero.
	Align Align

	// Width and Height are the box dimensions. A zero Width uses the text's
	// natural width.
	Width  float64
	Height float64
}

// LineStyle describes a stroke.
type LineStyle struct {
	Width float64
	Color Color
}

// FillStyle describes a rectangle fill.
type FillStyle struct {
	Color Color
}

// =============================================================================
// Tables
// =============================================================================

// RowKind classifies table rows for styling.
type RowKind int

const (
	// RowHeader is the column header row.
	RowHeader RowKind = iota

	// RowBody is an ordinary data row.
	RowBody

	// RowSubheading introduces a group inside a table.
	RowSubheading

	// RowTotals is the highlighted totals row.
	RowTotals
)

// Column is a table column.
type Column struct {
	Header string
	Width  float64
	Align  Align
}

// Row is a table row. Cells align with Table.Columns.
type Row struct {
	Kind  RowKind
	Cells []string
}

// CellStyle is the style applied to every cell of a row kind.
type CellStyle struct {
	Size   float64
	Bold   bool
	Text   Color
	Fill   Color
	Filled bool
}

// HeaderCell locates a header cell that has just been drawn.
type HeaderCell struct {
	Column     int
	X, Y, W, H float64
}

// Table is a batched table drawing request.
type Table struct {
	// X, Y is the top-left corner of the header row.
	X, Y float64

	Columns []Column
	Rows    []Row

	HeaderHeight float64
	RowHeight    float64

	// Styles maps row kinds to cell styles.
	Styles map[RowKind]CellStyle

	// OnHeaderCell, when set, is called after each header cell is drawn.
	OnHeaderCell func(HeaderCell) `json:"-"`
}

// Height returns the vertical extent of the table.
func (t Table) Height() float64 {
	return t.HeaderHeight + float64(len(t.Rows))*t.RowHeight
}
