// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package pdfsurface implements layout.Surface on top of go-pdf/fpdf.
//
// Pages are A4 in millimetres and text uses the Helvetica core font with a
// cp1252 translator, so accented Spanish names print without embedding
// fonts. Automatic page breaks are disabled: the report engine decides every
// break itself.
//
// # Error Model
//
// fpdf keeps a sticky error. Image failures are isolated: DrawImage reports
// the error, clears it and leaves the document usable. Any other error is
// surfaced through Err and Save.
package pdfsurface

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/AleutianAI/deployreport/services/report/layout"
)

const (
	fontFamily = "Helvetica"
	pageSize   = "A4"

	// ptToMM converts a font size in points to millimetres.
	ptToMM = 25.4 / 72
)

// Options are document-level metadata.
type Options struct {
	Title   string
	Author  string
	Creator string

	// CreatedAt pins the creation and modification dates so identical
	// inputs produce identical bytes. Zero uses the time of output.
	CreatedAt time.Time
}

// Surface draws on an in-memory fpdf document.
//
// # Thread Safety
//
// Not safe for concurrent use.
type Surface struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

var _ layout.Surface = (*Surface)(nil)

// New creates an empty A4 document.
func New(opts Options) *Surface {
	pdf := fpdf.New("P", "mm", pageSize, "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCatalogSort(true)
	if !opts.CreatedAt.IsZero() {
		pdf.SetCreationDate(opts.CreatedAt)
		pdf.SetModificationDate(opts.CreatedAt)
	}
	if opts.Title != "" {
		pdf.SetTitle(opts.Title, true)
	}
	if opts.Author != "" {
		pdf.SetAuthor(opts.Author, true)
	}
	if opts.Creator != "" {
		pdf.SetCreator(opts.Creator, true)
	}
	return &Surface{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

// AddPage implements layout.Surface.
func (s *Surface) AddPage(o layout.Orientation) {
	orientation := "P"
	if o == layout.Landscape {
		orientation = "L"
	}
	s.pdf.AddPageFormat(orientation, s.pdf.GetPageSizeStr(pageSize))
}

// PageWidth implements layout.Surface.
func (s *Surface) PageWidth() float64 {
	w, _ := s.pdf.GetPageSize()
	return w
}

// PageHeight implements layout.Surface.
func (s *Surface) PageHeight() float64 {
	_, h := s.pdf.GetPageSize()
	return h
}

// DrawText implements layout.Surface.
func (s *Surface) DrawText(x, y float64, text string, style layout.TextStyle) {
	s.setFont(style.Size, style.Bold)
	s.setTextColor(style.Color)

	txt := s.tr(text)
	w := style.Width
	if w <= 0 {
		w = s.pdf.GetStringWidth(txt) + 1
	}
	h := style.Height
	if h <= 0 {
		h = style.Size * ptToMM * 1.2
	}
	s.pdf.SetXY(x, y)
	s.pdf.CellFormat(w, h, txt, "", 0, alignStr(style.Align)+"M", false, 0, "")
}

// DrawLine implements layout.Surface.
func (s *Surface) DrawLine(x1, y1, x2, y2 float64, style layout.LineStyle) {
	s.pdf.SetDrawColor(style.Color.R, style.Color.G, style.Color.B)
	s.pdf.SetLineWidth(style.Width)
	s.pdf.Line(x1, y1, x2, y2)
}

// DrawRect implements layout.Surface.
func (s *Surface) DrawRect(x, y, w, h float64, style layout.FillStyle) {
	s.pdf.SetFillColor(style.Color.R, style.Color.G, style.Color.B)
	s.pdf.Rect(x, y, w, h, "F")
}

// DrawImage implements layout.Surface. The image type is taken from the
// file extension.
func (s *Surface) DrawImage(path string, x, y, w, h float64) error {
	if s.pdf.Err() {
		return s.pdf.Error()
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("open image: %w", err)
	}

	opts := fpdf.ImageOptions{ReadDpi: true}
	s.pdf.RegisterImageOptions(path, opts)
	if s.pdf.Err() {
		err := s.pdf.Error()
		s.pdf.ClearError()
		return fmt.Errorf("register image %s: %w", path, err)
	}
	s.pdf.ImageOptions(path, x, y, w, h, false, opts, 0, "")
	return nil
}

// DrawTable implements layout.Surface.
func (s *Surface) DrawTable(t layout.Table) {
	header := t.Styles[layout.RowHeader]
	s.pdf.SetDrawColor(layout.ColorMidGray.R, layout.ColorMidGray.G, layout.ColorMidGray.B)
	s.pdf.SetLineWidth(0.1)

	x := t.X
	for i, col := range t.Columns {
		s.applyCell(header)
		s.pdf.SetXY(x, t.Y)
		s.pdf.CellFormat(col.Width, t.HeaderHeight, s.tr(col.Header), "1", 0, "CM", header.Filled, 0, "")
		if t.OnHeaderCell != nil {
			t.OnHeaderCell(layout.HeaderCell{Column: i, X: x, Y: t.Y, W: col.Width, H: t.HeaderHeight})
		}
		x += col.Width
	}

	y := t.Y + t.HeaderHeight
	for _, row := range t.Rows {
		style := t.Styles[row.Kind]
		x = t.X
		for i, col := range t.Columns {
			cell := ""
			if i < len(row.Cells) {
				cell = row.Cells[i]
			}
			s.applyCell(style)
			s.pdf.SetXY(x, y)
			s.pdf.CellFormat(col.Width, t.RowHeight, s.tr(cell), "1", 0, alignStr(col.Align)+"M", style.Filled, 0, "")
			x += col.Width
		}
		y += t.RowHeight
	}
}

// MeasureTextWidth implements layout.Surface using the regular face.
func (s *Surface) MeasureTextWidth(text string, fontSize float64) float64 {
	s.setFont(fontSize, false)
	return s.pdf.GetStringWidth(s.tr(text))
}

// Save implements layout.Surface. The document is closed afterwards.
func (s *Surface) Save(filename string) error {
	if err := s.Err(); err != nil {
		return err
	}
	if err := s.pdf.OutputFileAndClose(filename); err != nil {
		return fmt.Errorf("write pdf %s: %w", filename, err)
	}
	return nil
}

// Output writes the document to w and closes it.
func (s *Surface) Output(w io.Writer) error {
	if err := s.pdf.Output(w); err != nil {
		return fmt.Errorf("PDF output error: %w", err)
	}
	return nil
}

// PageCount returns the number of pages in the document.
func (s *Surface) PageCount() int {
	return s.pdf.PageCount()
}

// Err implements layout.Surface.
func (s *Surface) Err() error {
	if s.pdf.Err() {
		return s.pdf.Error()
	}
	return nil
}

func (s *Surface) setFont(size float64, bold bool) {
	styleStr := ""
	if bold {
		styleStr = "B"
	}
	if size <= 0 {
		size = 10
	}
	s.pdf.SetFont(fontFamily, styleStr, size)
}

func (s *Surface) setTextColor(c layout.Color) {
	s.pdf.SetTextColor(c.R, c.G, c.B)
}

func (s *Surface) applyCell(c layout.CellStyle) {
	s.setFont(c.Size, c.Bold)
	s.setTextColor(c.Text)
	if c.Filled {
		s.pdf.SetFillColor(c.Fill.R, c.Fill.G, c.Fill.B)
	}
}

func alignStr(a layout.Align) string {
	switch a {
	case layout.AlignCenter:
		return "C"
	case layout.AlignRight:
		return "R"
	default:
		return "L"
	}
}
