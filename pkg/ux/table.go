// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ux

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// RowKind selects the style of a table row.
type RowKind int

const (
	RowBody RowKind = iota
	RowSubtotal
	RowTotal
)

// Table is a header plus rows. Kinds is parallel to Rows; missing entries
// are RowBody.
type Table struct {
	Headers []string
	Rows    [][]string
	Kinds   []RowKind
}

func (t Table) kind(row int) RowKind {
	if row < 0 || row >= len(t.Kinds) {
		return RowBody
	}
	return t.Kinds[row]
}

// Table prints t with a border and row highlighting, or as aligned plain
// columns when the printer is unstyled.
func (p *Printer) Table(t Table) error {
	if !p.styled {
		return p.plainTable(t)
	}

	lt := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(Styles.Border).
		Headers(t.Headers...).
		Rows(t.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return Styles.Header
			}
			style := Styles.Cell
			switch t.kind(row) {
			case RowSubtotal:
				style = Styles.Subtotal
			case RowTotal:
				style = Styles.Total
			}
			if col > 0 {
				style = style.Align(lipgloss.Right)
			}
			return style
		})
	_, err := fmt.Fprintln(p.w, lt.Render())
	return err
}

func (p *Printer) plainTable(t Table) error {
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	line := func(cells []string) {
		fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t")
	}
	if len(t.Headers) > 0 {
		line(t.Headers)
	}
	for _, row := range t.Rows {
		line(row)
	}
	return tw.Flush()
}
