// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package render draws report blocks on a layout.Surface.
//
// A Renderer owns one document: it creates the Paginator, draws the page
// furniture after every page break and turns aggregated sections into
// tables. Every method takes the current cursor and returns the next one.
//
//	r := render.New(surface, cfg, logger)
//	c := r.Start()
//	c = r.DocumentHeader(c, info)
//	for _, s := range sections {
//	    c = r.Section(c, s)
//	}
//
// # Assets
//
// Logo and icon images are optional. A failed image is logged once per path
// at warn level and skipped; the rest of the page is drawn normally.
package render

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/AleutianAI/deployreport/services/report/layout"
)

// Font sizes are in points, everything else in surface units.
const (
	sizeTitle    = 16.0
	sizeSection  = 12.0
	sizeHeader   = 9.0
	sizeBody     = 10.0
	sizeTable    = 8.0
	sizeFurnish  = 8.0
	lineHeight   = 5.0
	cellPadding  = 1.5
	ellipsis     = "..."
	dateLayout   = "02/01/2006"
	stampLayout  = "02/01/2006 15:04"
	headerRuleW  = 0.4
	iconMaxSize  = 5.0
	iconMinSize  = 3.0
)

// Renderer draws one report document.
//
// # Thread Safety
//
// Not safe for concurrent use. Create one Renderer per document.
type Renderer struct {
	surface layout.Surface
	cfg     Config
	logger  *slog.Logger
	pager   *layout.Paginator

	// failed remembers asset paths that already produced a warning.
	failed map[string]bool
}

// New creates a renderer drawing on s. A nil logger discards output.
func New(s layout.Surface, cfg Config, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	cfg.Labels = cfg.Labels.WithDefaults()
	r := &Renderer{
		surface: s,
		cfg:     cfg,
		logger:  logger,
		failed:  make(map[string]bool),
	}
	r.pager = layout.NewPaginator(s, cfg.Metrics, r.furniture)
	return r
}

// Start adds the first portrait page and returns its cursor.
func (r *Renderer) Start() layout.PageCursor {
	return r.pager.Start(layout.Portrait)
}

// Pages returns the number of pages drawn so far.
func (r *Renderer) Pages() int {
	return r.pager.Pages()
}

// contentWidth is the usable width between side margins.
func (r *Renderer) contentWidth() float64 {
	return r.surface.PageWidth() - 2*r.cfg.Metrics.SideMargin
}

// =============================================================================
// Page Furniture
// =============================================================================

// furniture draws the page header (logo, institution, system name, timestamp
// and a rule) and the page footer (rule and page number).
func (r *Renderer) furniture(s layout.Surface, c layout.PageCursor) {
	m := r.cfg.Metrics
	left := m.SideMargin
	width := s.PageWidth() - 2*m.SideMargin
	top := m.TopMargin

	textX := left
	if m.HeaderHeight > 0 {
		logo := m.HeaderHeight - 4
		if r.cfg.Logo != "" && logo > 0 {
			if r.drawImage(r.cfg.Logo, left, top, logo, logo) {
				textX = left + logo + 3
			}
		}

		s.DrawText(textX, top, r.cfg.Institution, layout.TextStyle{
			Size: sizeHeader + 1, Bold: true, Color: layout.ColorNavy, Height: lineHeight,
		})
		s.DrawText(textX, top+lineHeight, r.cfg.SystemName, layout.TextStyle{
			Size: sizeFurnish, Color: layout.ColorMuted, Height: lineHeight,
		})
		if !r.cfg.GeneratedAt.IsZero() {
			s.DrawText(left, top, r.cfg.GeneratedAt.Format(stampLayout), layout.TextStyle{
				Size: sizeFurnish, Color: layout.ColorMuted, Align: layout.AlignRight, Width: width, Height: lineHeight,
			})
		}
		rule := top + m.HeaderHeight - 2
		s.DrawLine(left, rule, left+width, rule, layout.LineStyle{Width: headerRuleW, Color: layout.ColorNavy})
	}

	footer := c.ContentBottom()
	s.DrawLine(left, footer+1, left+width, footer+1, layout.LineStyle{Width: 0.2, Color: layout.ColorMidGray})
	s.DrawText(left, footer+2, fmt.Sprintf("%s %d", r.cfg.Labels.Page, c.Page), layout.TextStyle{
		Size: sizeFurnish, Color: layout.ColorMuted, Align: layout.AlignCenter, Width: width, Height: lineHeight,
	})
}

// drawImage draws an optional asset and reports whether it was drawn.
func (r *Renderer) drawImage(path string, x, y, w, h float64) bool {
	if err := r.surface.DrawImage(path, x, y, w, h); err != nil {
		if !r.failed[path] {
			r.failed[path] = true
			r.logger.Warn("report asset unavailable, skipping", "path", path, "error", err)
		}
		return false
	}
	return true
}

// =============================================================================
// Document Header
// =============================================================================

// HeaderInfo is the content of the first-page document header.
type HeaderInfo struct {
	// Mode is the printable grouping mode.
	Mode string

	// From and To bound the covered period. Zero values print "-".
	From, To time.Time

	// Records is the number of input records.
	Records int
}

// DocumentHeader draws the report title and its metadata lines.
func (r *Renderer) DocumentHeader(c layout.PageCursor, info HeaderInfo) layout.PageCursor {
	l := r.cfg.Labels
	left := r.cfg.Metrics.SideMargin
	width := r.contentWidth()

	c = r.pager.EnsureSpace(c, r.cfg.Metrics.TitleHeight+3*lineHeight)
	r.surface.DrawText(left, c.Y, l.ReportTitle, layout.TextStyle{
		Size: sizeTitle, Bold: true, Color: layout.ColorNavy, Align: layout.AlignCenter,
		Width: width, Height: r.cfg.Metrics.TitleHeight,
	})
	c = c.Advance(r.cfg.Metrics.TitleHeight)

	lines := []string{
		fmt.Sprintf("%s: %s", l.Mode, info.Mode),
		fmt.Sprintf("%s: %s", l.Period, formatPeriod(info.From, info.To)),
		fmt.Sprintf("%s: %d", l.Records, info.Records),
	}
	for _, line := range lines {
		r.surface.DrawText(left, c.Y, line, layout.TextStyle{Size: sizeBody, Color: layout.ColorBlack, Height: lineHeight})
		c = c.Advance(lineHeight)
	}
	return c.Advance(r.cfg.Metrics.SectionSpacing)
}

func formatPeriod(from, to time.Time) string {
	f, t := "-", "-"
	if !from.IsZero() {
		f = from.Format(dateLayout)
	}
	if !to.IsZero() {
		t = to.Format(dateLayout)
	}
	return f + " - " + t
}

// Paragraph draws text word-wrapped to the content width. Blank text draws
// nothing. Explicit newlines start new lines.
func (r *Renderer) Paragraph(c layout.PageCursor, text string) layout.PageCursor {
	if strings.TrimSpace(text) == "" {
		return c
	}
	left := r.cfg.Metrics.SideMargin
	for _, line := range r.wrap(text, r.contentWidth(), sizeBody) {
		c = r.pager.EnsureSpace(c, lineHeight)
		r.surface.DrawText(left, c.Y, line, layout.TextStyle{Size: sizeBody, Color: layout.ColorBlack, Height: lineHeight})
		c = c.Advance(lineHeight)
	}
	return c.Advance(r.cfg.Metrics.SectionSpacing)
}

// wrap greedily breaks text into lines no wider than width. A single word
// wider than width gets a line of its own.
func (r *Renderer) wrap(text string, width, size float64) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			candidate := line + " " + w
			if r.surface.MeasureTextWidth(candidate, size) > width {
				lines = append(lines, line)
				line = w
				continue
			}
			line = candidate
		}
		lines = append(lines, line)
	}
	return lines
}

// truncate shortens text with an ellipsis until it fits width.
func (r *Renderer) truncate(text string, width, size float64) string {
	if r.surface.MeasureTextWidth(text, size) <= width {
		return text
	}
	runes := []rune(text)
	for n := len(runes) - 1; n > 0; n-- {
		candidate := strings.TrimRight(string(runes[:n]), " ") + ellipsis
		if r.surface.MeasureTextWidth(candidate, size) <= width {
			return candidate
		}
	}
	return ellipsis
}
