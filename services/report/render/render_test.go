// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package render_test

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/deployreport/services/report/aggregate"
	"github.com/AleutianAI/deployreport/services/report/deployment"
	"github.com/AleutianAI/deployreport/services/report/layout"
	"github.com/AleutianAI/deployreport/services/report/render"
	"github.com/AleutianAI/deployreport/services/report/surface/recorder"
)

func testConfig() render.Config {
	return render.Config{
		Metrics:     layout.DefaultMetrics(),
		Institution: "Jefatura Central",
		SystemName:  "Deployments",
		GeneratedAt: time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC),
	}
}

func section(title string, n int) aggregate.Section {
	records := make([]deployment.Record, n)
	for i := range records {
		records[i] = deployment.Record{
			ID:            fmt.Sprint(i),
			OperativeName: fmt.Sprintf("Operative %d", i),
			Resources:     deployment.Resources{FootPatrol: 1},
		}
	}
	return aggregate.Section{Key: title, Title: title, Records: records, Totals: deployment.ComputeTotals(records)}
}

// textPage returns the page of the first DrawText with the given text.
func textPage(rec *recorder.Surface, text string) int {
	for _, op := range rec.Ops() {
		if op.Kind == recorder.KindText && op.Text == text {
			return op.Page
		}
	}
	return 0
}

func TestFurnitureOnEveryPage(t *testing.T) {
	rec := recorder.New()
	r := render.New(rec, testConfig(), nil)

	c := r.Start()
	r.Summary(c, nil, deployment.Totals{})

	require.Equal(t, 2, rec.Pages())
	texts := rec.Texts()
	assert.Contains(t, texts, "Page 1")
	assert.Contains(t, texts, "Page 2")
	assert.Contains(t, texts, "Jefatura Central")
	assert.Contains(t, texts, "09/03/2024 14:05")
	assert.Equal(t, 2, r.Pages())
}

func TestSection_TitleNeverOrphaned(t *testing.T) {
	rec := recorder.New()
	r := render.New(rec, testConfig(), nil)
	c := r.Start()

	// Leave 20mm: the title (9) fits but title + header (8) + two rows (12) does not.
	c = c.Advance(c.Remaining() - 20)
	r.Section(c, section("Centro", 3))

	assert.Equal(t, 2, textPage(rec, "Centro"))
	tables := rec.Tables()
	require.Len(t, tables, 1)
	assert.Equal(t, 2, tables[0].Page)
}

func TestSection_SplitsAndTotalsOnLastChunkOnly(t *testing.T) {
	rec := recorder.New()
	r := render.New(rec, testConfig(), nil)

	r.Section(r.Start(), section("Centro", 60))

	tables := rec.Tables()
	require.Len(t, tables, 2)
	assert.Equal(t, 1, tables[0].Page)
	assert.Equal(t, 2, tables[1].Page)

	first, last := tables[0].Table, tables[1].Table
	assert.Equal(t, 61, len(first.Rows)+len(last.Rows))
	for _, row := range first.Rows {
		assert.NotEqual(t, layout.RowTotals, row.Kind)
	}
	totals := last.Rows[len(last.Rows)-1]
	assert.Equal(t, layout.RowTotals, totals.Kind)
	assert.Equal(t, "Totals", totals.Cells[0])
	assert.Equal(t, "60", totals.Cells[7], "personnel total")

	// Both chunks repeat the column header.
	assert.Equal(t, "Operative", first.Columns[0].Header)
	assert.Equal(t, first.Columns, last.Columns)
}

func TestSection_RowCells(t *testing.T) {
	rec := recorder.New()
	r := render.New(rec, testConfig(), nil)
	s := aggregate.Section{Title: "U1", Records: []deployment.Record{{
		ID:            "1",
		OperativeName: strings.Repeat("very long operative name ", 5),
		OrderType:     "OS",
		OrderNumber:   "12",
		Resources:     deployment.Resources{Vehicles: 2, OfficersInVehicle: 4, Supervisors: 1, TwoRiderMotorcycles: 1},
	}}}
	s.Totals = deployment.ComputeTotals(s.Records)

	r.Section(r.Start(), s)

	table := rec.Tables()[0].Table
	row := table.Rows[0]
	assert.Equal(t, layout.RowBody, row.Kind)
	assert.True(t, strings.HasSuffix(row.Cells[0], "..."), "long names are truncated")
	assert.LessOrEqual(t, rec.MeasureTextWidth(row.Cells[0], 8), table.Columns[0].Width)
	assert.Equal(t, []string{"OS 12", "2", "1", "0", "0", "0", "6"}, row.Cells[1:])
	assert.Equal(t, layout.AlignLeft, table.Columns[0].Align)
	assert.Equal(t, layout.AlignCenter, table.Columns[3].Align)
	assert.Equal(t, layout.RowTotals, table.Rows[1].Kind)
}

func TestSection_CustomGroupsGetSubheadings(t *testing.T) {
	rec := recorder.New()
	r := render.New(rec, testConfig(), nil)
	g1 := section("U1", 2)
	g2 := section("U2", 1)
	s := aggregate.Section{
		Title: "Selection",
		Groups: []aggregate.Group{
			{Unit: "U1", Title: "Unit One", Records: g1.Records, Totals: g1.Totals},
			{Unit: "U2", Title: "Unit Two", Records: g2.Records, Totals: g2.Totals},
		},
	}
	s.Records = append(append(s.Records, g1.Records...), g2.Records...)
	s.Totals = deployment.CombineTotals(g1.Totals, g2.Totals)

	r.Section(r.Start(), s)

	rows := rec.Tables()[0].Table.Rows
	kinds := make([]layout.RowKind, len(rows))
	for i, row := range rows {
		kinds[i] = row.Kind
	}
	assert.Equal(t, []layout.RowKind{
		layout.RowSubheading, layout.RowBody, layout.RowBody,
		layout.RowSubheading, layout.RowBody,
		layout.RowTotals,
	}, kinds)
	assert.Equal(t, "Unit One", rows[0].Cells[0])
	assert.Equal(t, "2", rows[0].Cells[7])
	assert.Equal(t, "3", rows[5].Cells[7])
}

func TestMissingAssetsWarnOnceAndAreSkipped(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	cfg := testConfig()
	cfg.Logo = "assets/logo.png"
	cfg.Icons = render.Icons{
		Vehicles:       "icons/vehicles.png",
		Supervisors:    "icons/missing.png",
		Motorcycles:    "icons/moto.png",
		MountedUnits:   "icons/horse.png",
		FootPatrol:     "icons/foot.png",
		TotalPersonnel: "icons/people.png",
	}
	rec := recorder.New(recorder.WithMissingAssets("assets/logo.png", "icons/missing.png"))
	r := render.New(rec, cfg, logger)

	r.Section(r.Start(), section("Centro", 60))

	require.Equal(t, 2, rec.Pages())
	images := 0
	for _, op := range rec.Ops() {
		if op.Kind == recorder.KindImage {
			images++
			assert.NotEqual(t, "icons/missing.png", op.Path)
		}
	}
	assert.Equal(t, 10, images, "five icons on each of the two table chunks")
	assert.Equal(t, 2, strings.Count(buf.String(), "report asset unavailable"), "one warning per failing path")
	tables := rec.Tables()
	require.NotEmpty(t, tables)
	last := tables[len(tables)-1].Table
	totals := last.Rows[len(last.Rows)-1]
	assert.Equal(t, layout.RowTotals, totals.Kind, "section still rendered")
	assert.Equal(t, "Totals", totals.Cells[0])
}

func TestSummary(t *testing.T) {
	rec := recorder.New()
	r := render.New(rec, testConfig(), nil)
	sections := []aggregate.Section{section("A", 3), section("B", 2)}

	r.Summary(r.Start(), sections, aggregate.GrandTotals(sections))

	tables := rec.Tables()
	require.Len(t, tables, 1)
	assert.Equal(t, 2, tables[0].Page)
	assert.Equal(t, 2, textPage(rec, "Summary"))
	rows := tables[0].Table.Rows
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"A", "0", "0", "0", "0", "3", "3"}, rows[0].Cells)
	assert.Equal(t, layout.RowTotals, rows[2].Kind)
	assert.Equal(t, []string{"Grand total", "0", "0", "0", "0", "5", "5"}, rows[2].Cells)
}

func TestTopSections(t *testing.T) {
	var sections []aggregate.Section
	for i := 1; i <= 12; i++ {
		sections = append(sections, section(fmt.Sprintf("N%d", i), i))
	}
	unassigned := section("none", 100)
	unassigned.Unassigned = true
	sections = append(sections, unassigned)

	entries := render.TopSections(sections, 0)

	require.Len(t, entries, render.DefaultChartSize)
	assert.Equal(t, render.ChartEntry{Label: "N12", Value: 12}, entries[0])
	assert.Equal(t, render.ChartEntry{Label: "N3", Value: 3}, entries[9])
	for _, e := range entries {
		assert.NotEqual(t, "none", e.Label)
	}

	assert.Len(t, render.TopSections(sections, 3), 3)
	assert.Empty(t, render.TopSections([]aggregate.Section{unassigned}, 5))
}

func TestChart(t *testing.T) {
	rec := recorder.New()
	r := render.New(rec, testConfig(), nil)
	entries := []render.ChartEntry{{Label: "Centro", Value: 10}, {Label: "Cordón", Value: 6}, {Label: "Sur", Value: 0}}

	r.Chart(r.Start(), entries)

	require.Equal(t, 2, rec.Pages())
	var pages []recorder.Op
	for _, op := range rec.Ops() {
		if op.Kind == recorder.KindAddPage {
			pages = append(pages, op)
		}
	}
	assert.Equal(t, layout.Landscape, pages[1].Orientation)

	var rects []recorder.Op
	for _, op := range rec.OpsOnPage(2) {
		if op.Kind == recorder.KindRect {
			rects = append(rects, op)
		}
	}
	require.Len(t, rects, 2, "zero-valued bars are not drawn")
	assert.Greater(t, rects[0].W, rects[1].W)
	assert.InDelta(t, rects[0].W*0.6, rects[1].W, 1e-9)
	assert.Equal(t, 2, textPage(rec, "Personnel by neighborhood"))
}

func TestChart_NoEntries(t *testing.T) {
	rec := recorder.New()
	r := render.New(rec, testConfig(), nil)
	c := r.Start()

	assert.Equal(t, c, r.Chart(c, nil))
	assert.Equal(t, 1, rec.Pages())
}

func TestDocumentHeaderAndParagraph(t *testing.T) {
	rec := recorder.New()
	r := render.New(rec, testConfig(), nil)
	c := r.Start()

	c = r.DocumentHeader(c, render.HeaderInfo{
		Mode:    "neighborhood",
		From:    time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
		To:      time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC),
		Records: 4,
	})
	r.Paragraph(c, strings.Repeat("deployment ", 40))

	texts := rec.Texts()
	assert.Contains(t, texts, "Deployment Report")
	assert.Contains(t, texts, "Mode: neighborhood")
	assert.Contains(t, texts, "Period: 01/03/2024 - 02/03/2024")
	assert.Contains(t, texts, "Records: 4")

	var lines []string
	for _, text := range texts {
		if strings.HasPrefix(text, "deployment") {
			lines = append(lines, text)
		}
	}
	require.Greater(t, len(lines), 1, "long paragraphs wrap")
	words := 0
	for _, line := range lines {
		assert.LessOrEqual(t, float64(utf8.RuneCountInString(line))*10*0.18, 190.0)
		words += len(strings.Fields(line))
	}
	assert.Equal(t, 40, words)
}

func TestParagraph_BlankIsNoop(t *testing.T) {
	rec := recorder.New()
	r := render.New(rec, testConfig(), nil)
	c := r.Start()
	before := len(rec.Ops())

	assert.Equal(t, c, r.Paragraph(c, "  \n "))
	assert.Len(t, rec.Ops(), before)
}
