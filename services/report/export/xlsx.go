// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package export writes aggregated report sections as spreadsheets.
//
// The workbook mirrors the PDF report: a "Sections" sheet with one block per
// section (title, column header, rows, totals) and a "Summary" sheet with one
// row per section and a grand-total row. Values are written as numbers so
// the workbook can be re-aggregated.
package export

import (
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/AleutianAI/deployreport/services/report/aggregate"
	"github.com/AleutianAI/deployreport/services/report/deployment"
	"github.com/AleutianAI/deployreport/services/report/render"
)

// Sheet names.
const (
	SheetSections = "Sections"
	SheetSummary  = "Summary"
)

// Workbook is the content of an exported report.
type Workbook struct {
	Sections    []aggregate.Section
	GrandTotals deployment.Totals
	Labels      render.Labels
}

// styles holds the excelize style IDs used by a workbook.
type styles struct {
	title   int
	header  int
	subhead int
	totals  int
}

// WriteTo writes the workbook as XLSX to w.
func (wb Workbook) WriteTo(w io.Writer) (int64, error) {
	f, err := wb.build()
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n, err := f.WriteTo(w)
	if err != nil {
		return n, fmt.Errorf("write xlsx: %w", err)
	}
	return n, nil
}

// WriteFile writes the workbook to path.
func (wb Workbook) WriteFile(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := wb.WriteTo(out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func (wb Workbook) build() (*excelize.File, error) {
	l := wb.Labels.WithDefaults()
	f := excelize.NewFile()

	st, err := newStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := f.SetSheetName("Sheet1", SheetSections); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeSections(f, st, l, wb.Sections); err != nil {
		f.Close()
		return nil, err
	}

	if _, err := f.NewSheet(SheetSummary); err != nil {
		f.Close()
		return nil, fmt.Errorf("create summary sheet: %w", err)
	}
	if err := writeSummary(f, st, l, wb.Sections, wb.GrandTotals); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func newStyles(f *excelize.File) (styles, error) {
	var st styles
	var err error
	if st.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 13, Color: "1E3A5F"},
	}); err != nil {
		return st, fmt.Errorf("title style: %w", err)
	}
	if st.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"1E3A5F"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err != nil {
		return st, fmt.Errorf("header style: %w", err)
	}
	if st.subhead, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "1E3A5F"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"EBEEF2"}, Pattern: 1},
	}); err != nil {
		return st, fmt.Errorf("subheading style: %w", err)
	}
	if st.totals, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"3465A4"}, Pattern: 1},
	}); err != nil {
		return st, fmt.Errorf("totals style: %w", err)
	}
	return st, nil
}

// sheetWriter appends rows to one sheet.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
	cols  int
}

func (w *sheetWriter) write(style int, values ...any) error {
	w.row++
	start, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return err
	}
	if err := w.f.SetSheetRow(w.sheet, start, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", w.sheet, w.row, err)
	}
	if style == 0 {
		return nil
	}
	end, err := excelize.CoordinatesToCellName(w.cols, w.row)
	if err != nil {
		return err
	}
	return w.f.SetCellStyle(w.sheet, start, end, style)
}

func (w *sheetWriter) skip() {
	w.row++
}

func resourceValues(prefix []any, t deployment.Totals) []any {
	out := append([]any(nil), prefix...)
	for _, v := range t.Values() {
		out = append(out, v)
	}
	return out
}

func headerValues(prefix ...string) []any {
	out := make([]any, 0, len(prefix))
	for _, p := range prefix {
		out = append(out, p)
	}
	return out
}

func writeSections(f *excelize.File, st styles, l render.Labels, sections []aggregate.Section) error {
	w := &sheetWriter{f: f, sheet: SheetSections, cols: 2 + 6}
	header := headerValues(append([]string{l.Name, l.Order}, l.ResourceHeaders()...)...)

	writeRecords := func(records []deployment.Record) error {
		for _, r := range records {
			order := ""
			if key, ok := r.Order(); ok {
				order = key.String()
			}
			if err := w.write(0, resourceValues([]any{r.OperativeName, order}, deployment.TotalsOf(r))...); err != nil {
				return err
			}
		}
		return nil
	}

	for i, s := range sections {
		if i > 0 {
			w.skip()
		}
		if err := w.write(st.title, s.Title); err != nil {
			return err
		}
		if err := w.write(st.header, header...); err != nil {
			return err
		}
		if len(s.Groups) == 0 {
			if err := writeRecords(s.Records); err != nil {
				return err
			}
		}
		for _, g := range s.Groups {
			if err := w.write(st.subhead, resourceValues([]any{g.Title, ""}, g.Totals)...); err != nil {
				return err
			}
			if err := writeRecords(g.Records); err != nil {
				return err
			}
		}
		if err := w.write(st.totals, resourceValues([]any{l.Totals, ""}, s.Totals)...); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(SheetSections, "A", "A", 40); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	return f.SetColWidth(SheetSections, "B", "H", 14)
}

func writeSummary(f *excelize.File, st styles, l render.Labels, sections []aggregate.Section, grand deployment.Totals) error {
	w := &sheetWriter{f: f, sheet: SheetSummary, cols: 1 + 6}
	if err := w.write(st.header, headerValues(append([]string{l.Group}, l.ResourceHeaders()...)...)...); err != nil {
		return err
	}
	for _, s := range sections {
		if err := w.write(0, resourceValues([]any{s.Title}, s.Totals)...); err != nil {
			return err
		}
	}
	if err := w.write(st.totals, resourceValues([]any{l.GrandTotal}, grand)...); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetSummary, "A", "A", 40); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	return f.SetColWidth(SheetSummary, "B", "G", 14)
}
