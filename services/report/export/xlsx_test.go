// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package export_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/AleutianAI/deployreport/services/report/aggregate"
	"github.com/AleutianAI/deployreport/services/report/deployment"
	"github.com/AleutianAI/deployreport/services/report/export"
)

func workbook() export.Workbook {
	records := []deployment.Record{
		{ID: "1", Unit: "U1", OperativeName: "Alfa", OrderType: "OS", OrderNumber: "7", Neighborhoods: []string{"Centro"}, Resources: deployment.Resources{FootPatrol: 4, Vehicles: 1}},
		{ID: "2", Unit: "U1", OperativeName: "Bravo", Neighborhoods: []string{"Centro", "Cordón"}, Resources: deployment.Resources{FootPatrol: 6}},
	}
	sections := aggregate.Aggregate(records, aggregate.ByNeighborhood{}, nil)
	return export.Workbook{Sections: sections, GrandTotals: aggregate.GrandTotals(sections)}
}

func readRows(t *testing.T, data []byte, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return trimRows(rows)
}

// trimRows drops trailing empty cells, which styled but empty cells produce.
func trimRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		n := len(row)
		for n > 0 && row[n-1] == "" {
			n--
		}
		out[i] = row[:n]
	}
	return out
}

func TestWorkbook_Sheets(t *testing.T) {
	var buf bytes.Buffer
	_, err := workbook().WriteTo(&buf)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{export.SheetSections, export.SheetSummary}, f.GetSheetList())
}

func TestWorkbook_SectionsSheet(t *testing.T) {
	var buf bytes.Buffer
	_, err := workbook().WriteTo(&buf)
	require.NoError(t, err)

	rows := readRows(t, buf.Bytes(), export.SheetSections)

	require.GreaterOrEqual(t, len(rows), 10)
	assert.Equal(t, []string{"Centro"}, rows[0])
	assert.Equal(t, []string{"Operative", "Order", "Vehicles", "Supervisors", "Motorcycles", "Mounted", "Foot patrol", "Personnel"}, rows[1])
	assert.Equal(t, []string{"Alfa", "OS 7", "1", "0", "0", "0", "4", "4"}, rows[2])
	assert.Equal(t, []string{"Bravo", "", "0", "0", "0", "0", "6", "6"}, rows[3])
	assert.Equal(t, []string{"Totals", "", "1", "0", "0", "0", "10", "10"}, rows[4])
	assert.Empty(t, rows[5])
	assert.Equal(t, []string{"Cordón"}, rows[6])
	assert.Equal(t, []string{"Totals", "", "0", "0", "0", "0", "6", "6"}, rows[9])
}

func TestWorkbook_SummarySheet(t *testing.T) {
	var buf bytes.Buffer
	_, err := workbook().WriteTo(&buf)
	require.NoError(t, err)

	rows := readRows(t, buf.Bytes(), export.SheetSummary)

	require.Len(t, rows, 4)
	assert.Equal(t, "Group", rows[0][0])
	assert.Equal(t, []string{"Centro", "1", "0", "0", "0", "10", "10"}, rows[1])
	assert.Equal(t, []string{"Cordón", "0", "0", "0", "0", "6", "6"}, rows[2])
	assert.Equal(t, []string{"Grand total", "1", "0", "0", "0", "16", "16"}, rows[3])
}

func TestWorkbook_CustomGroups(t *testing.T) {
	records := []deployment.Record{
		{ID: "1", Unit: "U1", OperativeName: "Alfa", Resources: deployment.Resources{FootPatrol: 2}},
		{ID: "2", Unit: "U2", OperativeName: "Alfa", Resources: deployment.Resources{FootPatrol: 3}},
	}
	mode := aggregate.ByCustomSelection{Tables: []aggregate.CustomTable{{Title: "Selection", OperativeNames: []string{"Alfa"}}}}
	sections := aggregate.Aggregate(records, mode, nil)
	path := filepath.Join(t.TempDir(), "report.xlsx")

	require.NoError(t, export.Workbook{Sections: sections, GrandTotals: aggregate.GrandTotals(sections)}.WriteFile(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(export.SheetSections)
	require.NoError(t, err)
	rows = trimRows(rows)
	require.Len(t, rows, 7)
	assert.Equal(t, []string{"U1", "", "0", "0", "0", "0", "2", "2"}, rows[2])
	assert.Equal(t, []string{"U2", "", "0", "0", "0", "0", "3", "3"}, rows[4])
	assert.Equal(t, []string{"Totals", "", "0", "0", "0", "0", "5", "5"}, rows[6])
}
