// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package pdfsurface_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/deployreport/services/report"
	"github.com/AleutianAI/deployreport/services/report/aggregate"
	"github.com/AleutianAI/deployreport/services/report/deployment"
	"github.com/AleutianAI/deployreport/services/report/layout"
	"github.com/AleutianAI/deployreport/services/report/surface/pdfsurface"
)

var created = time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)

func writePNG(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 30, G: 58, B: 95, A: 255})
		}
	}
	path := filepath.Join(dir, "icon.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestSurface_PageGeometry(t *testing.T) {
	s := pdfsurface.New(pdfsurface.Options{CreatedAt: created})

	s.AddPage(layout.Portrait)
	assert.InDelta(t, 210.0, s.PageWidth(), 0.01)
	assert.InDelta(t, 297.0, s.PageHeight(), 0.01)

	s.AddPage(layout.Landscape)
	assert.InDelta(t, 297.0, s.PageWidth(), 0.01)
	assert.InDelta(t, 210.0, s.PageHeight(), 0.01)
	assert.Equal(t, 2, s.PageCount())
}

func TestSurface_DrawsAndOutputsPDF(t *testing.T) {
	dir := t.TempDir()
	icon := writePNG(t, dir)
	s := pdfsurface.New(pdfsurface.Options{Title: "Deployment Report", CreatedAt: created})
	s.AddPage(layout.Portrait)

	s.DrawText(10, 10, "Cordón", layout.TextStyle{Size: 12, Bold: true, Color: layout.ColorNavy})
	s.DrawLine(10, 20, 200, 20, layout.LineStyle{Width: 0.3, Color: layout.ColorNavy})
	s.DrawRect(10, 30, 50, 5, layout.FillStyle{Color: layout.ColorSteel})
	require.NoError(t, s.DrawImage(icon, 10, 40, 5, 5))

	var headers []int
	s.DrawTable(layout.Table{
		X: 10, Y: 50,
		Columns:      []layout.Column{{Header: "Operative", Width: 60}, {Header: "Vehicles", Width: 30, Align: layout.AlignCenter}},
		Rows:         []layout.Row{{Kind: layout.RowBody, Cells: []string{"Peña", "2"}}, {Kind: layout.RowTotals, Cells: []string{"Totals"}}},
		HeaderHeight: 8,
		RowHeight:    6,
		Styles: map[layout.RowKind]layout.CellStyle{
			layout.RowHeader: {Size: 8, Bold: true, Text: layout.ColorWhite, Fill: layout.ColorNavy, Filled: true},
			layout.RowTotals: {Size: 8, Bold: true, Text: layout.ColorWhite, Fill: layout.ColorSteel, Filled: true},
		},
		OnHeaderCell: func(c layout.HeaderCell) { headers = append(headers, c.Column) },
	})
	assert.Equal(t, []int{0, 1}, headers)

	require.NoError(t, s.Err())
	var buf bytes.Buffer
	require.NoError(t, s.Output(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestSurface_MissingImageIsIsolated(t *testing.T) {
	s := pdfsurface.New(pdfsurface.Options{CreatedAt: created})
	s.AddPage(layout.Portrait)

	err := s.DrawImage(filepath.Join(t.TempDir(), "missing.png"), 0, 0, 5, 5)

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NoError(t, s.Err(), "document stays usable")
}

func TestSurface_UnreadableImageIsIsolated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.png")
	require.NoError(t, os.WriteFile(path, []byte("not a png"), 0o600))
	s := pdfsurface.New(pdfsurface.Options{CreatedAt: created})
	s.AddPage(layout.Portrait)

	require.Error(t, s.DrawImage(path, 0, 0, 5, 5))
	assert.NoError(t, s.Err())
}

func TestSurface_MeasureTextWidth(t *testing.T) {
	s := pdfsurface.New(pdfsurface.Options{})
	s.AddPage(layout.Portrait)

	short := s.MeasureTextWidth("abc", 10)
	long := s.MeasureTextWidth("abcabc", 10)

	assert.Greater(t, short, 0.0)
	assert.InDelta(t, 2*short, long, 1e-9)
	assert.Greater(t, s.MeasureTextWidth("abc", 20), short)
}

func TestEngineRendersRealPDF(t *testing.T) {
	records := []deployment.Record{
		{ID: "1", Unit: "U1", OperativeName: "Alfa", Neighborhoods: []string{"Centro"}, Resources: deployment.Resources{FootPatrol: 4}},
		{ID: "2", Unit: "U2", OperativeName: "Bravo", Neighborhoods: []string{"Centro", "Cordón"}, Resources: deployment.Resources{OfficersInVehicle: 6}},
	}
	engine := report.NewEngine(
		report.WithClock(func() time.Time { return created }),
		report.WithIDGenerator(func() string { return "fixed" }),
	)
	s := pdfsurface.New(pdfsurface.Options{CreatedAt: created})

	doc, err := engine.Generate(context.Background(), records, report.Request{Mode: aggregate.ByNeighborhood{}}, s)
	require.NoError(t, err)
	assert.Equal(t, s.PageCount(), doc.Pages)

	path := filepath.Join(t.TempDir(), doc.Filename)
	require.NoError(t, s.Save(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}
