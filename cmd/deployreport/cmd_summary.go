// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/deployreport/pkg/ux"
	"github.com/AleutianAI/deployreport/services/report/aggregate"
	"github.com/AleutianAI/deployreport/services/report/deployment"
	"github.com/AleutianAI/deployreport/services/report/render"
)

type summaryOptions struct {
	input  string
	mode   string
	tables []string
	plain  bool
}

func newSummaryCmd(a *app) *cobra.Command {
	var opts summaryOptions

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print per-section totals without rendering a document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := a.records(cmd.Context(), opts.input)
			if err != nil {
				return err
			}
			mode, err := a.mode(opts.mode, opts.tables)
			if err != nil {
				return err
			}

			printer := ux.NewPrinter(cmd.OutOrStdout())
			if opts.plain {
				printer = ux.NewPlainPrinter(cmd.OutOrStdout())
			}

			labels := a.cfg.Labels.WithDefaults()
			sections := a.engine().Sections(records, mode)
			printer.Title(labels.ReportTitle + " (" + mode.Name() + ")")
			printer.Muted("%d records, %d sections", len(records), len(sections))
			return printer.Table(summaryTable(labels, sections))
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.input, "input", "i", "", "JSON record export (overrides the configured source)")
	f.StringVarP(&opts.mode, "mode", "m", "neighborhood", "grouping mode: unit, neighborhood, sector or custom")
	f.StringArrayVar(&opts.tables, "table", nil, `custom table "Title=Name A,Name B" (repeatable)`)
	f.BoolVar(&opts.plain, "plain", false, "disable colors and borders")
	return cmd
}

// summaryTable lays out one row per section, unit group rows under custom
// sections, and a grand-total row.
func summaryTable(labels render.Labels, sections []aggregate.Section) ux.Table {
	t := ux.Table{Headers: append([]string{labels.Group}, labels.ResourceHeaders()...)}
	add := func(name string, totals deployment.Totals, kind ux.RowKind) {
		row := []string{name}
		for _, v := range totals.Values() {
			row = append(row, strconv.Itoa(v))
		}
		t.Rows = append(t.Rows, row)
		t.Kinds = append(t.Kinds, kind)
	}

	for _, s := range sections {
		if len(s.Groups) == 0 {
			add(s.Title, s.Totals, ux.RowBody)
			continue
		}
		add(s.Title, s.Totals, ux.RowSubtotal)
		for _, g := range s.Groups {
			add("  "+g.Title, g.Totals, ux.RowBody)
		}
	}
	add(labels.GrandTotal, aggregate.GrandTotals(sections), ux.RowTotal)
	return t
}
