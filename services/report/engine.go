// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package report assembles deployment reports.
//
// The Engine takes a filtered snapshot of deployment records and a grouping
// mode, and lays out a complete document on an injected layout.Surface:
//
//  1. Page 1 carries the document header and the optional description.
//  2. One block per aggregated section follows on a shared cursor.
//  3. A summary page lists every section with a grand-total row.
//  4. Neighborhood reports end with a landscape bar chart page.
//
// # Determinism
//
// Given the same records, request, clock and ID generator, Generate issues
// the same sequence of drawing calls. Use WithClock and WithIDGenerator to
// pin them in tests.
//
// # Thread Safety
//
// An Engine is read-only after construction and may be shared. Each call to
// Generate needs its own Surface.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/AleutianAI/deployreport/services/report/aggregate"
	"github.com/AleutianAI/deployreport/services/report/deployment"
	"github.com/AleutianAI/deployreport/services/report/layout"
	"github.com/AleutianAI/deployreport/services/report/ordering"
	"github.com/AleutianAI/deployreport/services/report/render"
)

// =============================================================================
// Configuration
// =============================================================================

// Config holds the document-level settings of an Engine.
type Config struct {
	// Institution and SystemName are printed in the page header and used
	// in the output filename.
	Institution string
	SystemName  string

	// Logo is the page header image. Empty draws none.
	Logo string

	// Metrics are the layout geometry.
	Metrics layout.Metrics

	// Labels and Icons customize table captions and header glyphs.
	Labels render.Labels
	Icons  render.Icons

	// ChartSize is the number of bars on the neighborhood chart.
	ChartSize int
}

// DefaultConfig returns an A4 configuration with English labels.
func DefaultConfig() Config {
	return Config{
		Institution: "Police Headquarters",
		SystemName:  "Deployment Tracking",
		Metrics:     layout.DefaultMetrics(),
		Labels:      render.DefaultLabels(),
		ChartSize:   render.DefaultChartSize,
	}
}

// Option configures an Engine.
type Option func(*Engine)

// WithConfig replaces the document configuration.
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock sets the source of the generation timestamp.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithIDGenerator sets the source of document IDs.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) {
		if newID != nil {
			e.newID = newID
		}
	}
}

// WithResolver sets the lookup for section titles.
func WithResolver(r aggregate.TitleResolver) Option {
	return func(e *Engine) {
		e.resolver = r
	}
}

// =============================================================================
// Engine
// =============================================================================

// Engine generates deployment reports.
type Engine struct {
	cfg      Config
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
	resolver aggregate.TitleResolver
}

// NewEngine creates an engine with DefaultConfig, the wall clock and random
// UUIDs unless overridden.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		cfg:    DefaultConfig(),
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cfg.ChartSize <= 0 {
		e.cfg.ChartSize = render.DefaultChartSize
	}
	return e
}

// Request selects what a report contains.
type Request struct {
	// Mode is the grouping dimension. Nil yields a report without sections.
	Mode aggregate.Mode

	// Description is printed below the document header. Optional.
	Description string
}

// Document describes a generated report.
type Document struct {
	ID          string              `json:"id"`
	GeneratedAt time.Time           `json:"generated_at"`
	Filename    string              `json:"filename"`
	Pages       int                 `json:"pages"`
	Sections    []aggregate.Section `json:"-"`
	GrandTotals deployment.Totals   `json:"grand_totals"`
	Chart       []render.ChartEntry `json:"chart,omitempty"`
}

// Sections aggregates records by mode and orders the rows of every section
// (and of every unit group in custom selections) by order frequency.
//
// The input slice is never modified.
func (e *Engine) Sections(records []deployment.Record, mode aggregate.Mode) []aggregate.Section {
	sections := aggregate.Aggregate(records, mode, e.resolver)
	for i := range sections {
		s := &sections[i]
		if len(s.Groups) == 0 {
			s.Records = ordering.SortRecords(s.Records)
			continue
		}
		groups := make([]aggregate.Group, len(s.Groups))
		var rows []deployment.Record
		for j, g := range s.Groups {
			g.Records = ordering.SortRecords(g.Records)
			groups[j] = g
			rows = append(rows, g.Records...)
		}
		s.Groups = groups
		s.Records = rows
	}
	return sections
}

// Generate lays out a report for records on surface.
//
// Layout never fails on its own; an error is returned only when surface is
// nil or reports an unrecoverable error through Err, in which case no
// Document is returned. The caller saves the surface.
func (e *Engine) Generate(ctx context.Context, records []deployment.Record, req Request, surface layout.Surface) (*Document, error) {
	if surface == nil {
		return nil, ErrNilSurface
	}

	mode := modeName(req.Mode)
	ctx, span := startGenerateSpan(ctx, mode, len(records))
	defer span.End()
	began := time.Now()

	doc, err := e.generate(records, req, surface)

	pages, count := 0, 0
	if doc != nil {
		pages, count = doc.Pages, len(doc.Sections)
	}
	setGenerateSpanResult(span, count, pages, err == nil)
	recordGenerateMetrics(ctx, mode, time.Since(began), pages, err == nil)
	if err != nil {
		span.RecordError(err)
		e.logger.Error("report generation failed", "mode", mode, "error", err)
		return nil, err
	}

	e.logger.Info("report generated",
		"id", doc.ID,
		"mode", mode,
		"records", len(records),
		"sections", len(doc.Sections),
		"pages", doc.Pages,
	)
	return doc, nil
}

func (e *Engine) generate(records []deployment.Record, req Request, surface layout.Surface) (*Document, error) {
	generatedAt := e.now()
	if custom, ok := req.Mode.(aggregate.ByCustomSelection); ok {
		_, omitted := custom.Selectable()
		for _, t := range omitted {
			e.logger.Warn("custom table has no operatives, omitting", "title", t.Title)
		}
	}
	sections := e.Sections(records, req.Mode)

	r := render.New(surface, render.Config{
		Metrics:     e.cfg.Metrics,
		Labels:      e.cfg.Labels,
		Icons:       e.cfg.Icons,
		Logo:        e.cfg.Logo,
		Institution: e.cfg.Institution,
		SystemName:  e.cfg.SystemName,
		GeneratedAt: generatedAt,
	}, e.logger)

	from, to := deployment.Period(records)
	c := r.Start()
	c = r.DocumentHeader(c, render.HeaderInfo{Mode: modeName(req.Mode), From: from, To: to, Records: len(records)})
	c = r.Paragraph(c, req.Description)

	for _, s := range sections {
		c = r.Section(c, s)
	}

	grand := aggregate.GrandTotals(sections)
	var chart []render.ChartEntry
	if len(sections) > 0 {
		c = r.Summary(c, sections, grand)
		if _, ok := req.Mode.(aggregate.ByNeighborhood); ok {
			chart = render.TopSections(sections, e.cfg.ChartSize)
			r.Chart(c, chart)
		}
	}

	if err := surface.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSurface, err)
	}

	return &Document{
		ID:          e.newID(),
		GeneratedAt: generatedAt,
		Filename:    Filename(e.cfg.Institution, e.cfg.SystemName, generatedAt),
		Pages:       r.Pages(),
		Sections:    sections,
		GrandTotals: grand,
		Chart:       chart,
	}, nil
}

func modeName(m aggregate.Mode) string {
	if m == nil {
		return "none"
	}
	return m.Name()
}
