// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package ux styles deployreport's terminal output.
//
// A Printer renders with colors and borders when its writer is a terminal
// and falls back to plain, pipe-friendly text otherwise.
package ux

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Report palette, matching the PDF table colors.
var (
	ColorNavy    = lipgloss.Color("#1E3A5F")
	ColorSteel   = lipgloss.Color("#3465A4")
	ColorMist    = lipgloss.Color("#EBEEF2")
	ColorSlate   = lipgloss.Color("#2C4A54")
	ColorSuccess = lipgloss.Color("#2CD7C7")
	ColorWarning = lipgloss.Color("#F4D03F")
	ColorError   = lipgloss.Color("#E74C3C")
)

// Styles are the shared lipgloss styles.
var Styles = struct {
	Title   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	Header   lipgloss.Style
	Cell     lipgloss.Style
	Subtotal lipgloss.Style
	Total    lipgloss.Style
	Border   lipgloss.Style
}{
	Title:   lipgloss.NewStyle().Bold(true).Foreground(ColorSteel),
	Muted:   lipgloss.NewStyle().Foreground(ColorSlate),
	Success: lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning: lipgloss.NewStyle().Foreground(ColorWarning),
	Error:   lipgloss.NewStyle().Foreground(ColorError),

	Header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(ColorNavy).Padding(0, 1),
	Cell:     lipgloss.NewStyle().Padding(0, 1),
	Subtotal: lipgloss.NewStyle().Bold(true).Foreground(ColorNavy).Background(ColorMist).Padding(0, 1),
	Total:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(ColorSteel).Padding(0, 1),
	Border:   lipgloss.NewStyle().Foreground(ColorSlate),
}

// Icon is a status glyph.
type Icon string

const (
	IconSuccess Icon = "✓"
	IconWarning Icon = "⚠"
	IconError   Icon = "✗"
	IconArrow   Icon = "→"
)

// Printer writes styled or plain output.
type Printer struct {
	w      io.Writer
	styled bool
}

// NewPrinter styles output only when w is a terminal file.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, styled: IsTerminal(w)}
}

// NewPlainPrinter never styles output.
func NewPlainPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// IsTerminal reports whether w is a terminal, including Cygwin ptys.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Styled reports whether the printer emits ANSI styling.
func (p *Printer) Styled() bool {
	return p.styled
}

// Title prints a heading line.
func (p *Printer) Title(text string) {
	fmt.Fprintln(p.w, p.render(Styles.Title, text))
}

// Success prints a line prefixed with a check mark.
func (p *Printer) Success(format string, args ...any) {
	p.status(IconSuccess, Styles.Success, format, args...)
}

// Warning prints a line prefixed with a warning sign.
func (p *Printer) Warning(format string, args ...any) {
	p.status(IconWarning, Styles.Warning, format, args...)
}

// Error prints a line prefixed with a cross.
func (p *Printer) Error(format string, args ...any) {
	p.status(IconError, Styles.Error, format, args...)
}

// Muted prints a de-emphasized line.
func (p *Printer) Muted(format string, args ...any) {
	fmt.Fprintln(p.w, p.render(Styles.Muted, fmt.Sprintf(format, args...)))
}

func (p *Printer) status(icon Icon, style lipgloss.Style, format string, args ...any) {
	fmt.Fprintf(p.w, "%s %s\n", p.render(style, string(icon)), fmt.Sprintf(format, args...))
}

func (p *Printer) render(style lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return style.Render(text)
}
