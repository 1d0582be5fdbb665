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
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/deployreport/pkg/ux"
	"github.com/AleutianAI/deployreport/services/report/aggregate"
)

// ErrUnknownDimension is returned for a --dimension other than
// neighborhood or sector.
var ErrUnknownDimension = errors.New("dimension must be neighborhood or sector")

type statsOptions struct {
	input     string
	dimension string
	asJSON    bool
	plain     bool
}

// shareJSON is the machine-readable form of one fractional share. Decimals
// are encoded as strings.
type shareJSON struct {
	Key            string          `json:"key"`
	Title          string          `json:"title"`
	Records        int             `json:"records"`
	Unassigned     bool            `json:"unassigned,omitempty"`
	Vehicles       decimal.Decimal `json:"vehicles"`
	Supervisors    decimal.Decimal `json:"supervisors"`
	Motorcycles    decimal.Decimal `json:"motorcycles"`
	MountedUnits   decimal.Decimal `json:"mounted_units"`
	FootPatrol     decimal.Decimal `json:"foot_patrol"`
	TotalPersonnel decimal.Decimal `json:"total_personnel"`
}

func newStatsCmd(a *app) *cobra.Command {
	var opts statsOptions

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the fractional distribution of records across neighborhoods or sectors",
		Long: `Print the fractional distribution used by dashboards: a record that
names n neighborhoods (or sectors) contributes 1/n of its resources to each.

Reports never use this distribution; each report section counts a record in
full for every value it names.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dim, err := parseDimension(opts.dimension)
			if err != nil {
				return err
			}
			records, err := a.records(cmd.Context(), opts.input)
			if err != nil {
				return err
			}
			shares, err := aggregate.FractionalShares(records, dim, a.cfg.Resolver())
			if err != nil {
				return err
			}

			if opts.asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(sharesJSON(shares))
			}

			printer := ux.NewPrinter(cmd.OutOrStdout())
			if opts.plain {
				printer = ux.NewPlainPrinter(cmd.OutOrStdout())
			}
			labels := a.cfg.Labels.WithDefaults()
			printer.Title(fmt.Sprintf("Fractional distribution by %s", dim))
			printer.Muted("%d records", len(records))
			return printer.Table(statsTable(labels.Group, labels.Records, labels.ResourceHeaders(), shares))
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.input, "input", "i", "", "JSON record export (overrides the configured source)")
	f.StringVar(&opts.dimension, "dimension", "neighborhood", "neighborhood or sector")
	f.BoolVar(&opts.asJSON, "json", false, "print JSON instead of a table")
	f.BoolVar(&opts.plain, "plain", false, "disable colors and borders")
	return cmd
}

func parseDimension(name string) (aggregate.Dimension, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "neighborhood", "neighborhoods":
		return aggregate.DimensionNeighborhood, nil
	case "sector", "sectors":
		return aggregate.DimensionSector, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownDimension, name)
	}
}

func statsTable(group, records string, resources []string, shares []aggregate.Share) ux.Table {
	headers := append([]string{group, records}, resources...)
	t := ux.Table{Headers: headers}
	for _, s := range shares {
		row := []string{s.Title, strconv.Itoa(s.Records)}
		for _, v := range s.Totals.Values() {
			row = append(row, v.StringFixed(2))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func sharesJSON(shares []aggregate.Share) []shareJSON {
	out := make([]shareJSON, 0, len(shares))
	for _, s := range shares {
		out = append(out, shareJSON{
			Key:            s.Key,
			Title:          s.Title,
			Records:        s.Records,
			Unassigned:     s.Unassigned,
			Vehicles:       s.Totals.Vehicles,
			Supervisors:    s.Totals.Supervisors,
			Motorcycles:    s.Totals.Motorcycles,
			MountedUnits:   s.Totals.MountedUnits,
			FootPatrol:     s.Totals.FootPatrol,
			TotalPersonnel: s.Totals.TotalPersonnel,
		})
	}
	return out
}
