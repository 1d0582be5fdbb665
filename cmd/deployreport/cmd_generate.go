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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/deployreport/cmd/deployreport/config"
	"github.com/AleutianAI/deployreport/pkg/ux"
	"github.com/AleutianAI/deployreport/services/report"
	"github.com/AleutianAI/deployreport/services/report/aggregate"
	"github.com/AleutianAI/deployreport/services/report/export"
	"github.com/AleutianAI/deployreport/services/report/surface/pdfsurface"
	"github.com/AleutianAI/deployreport/services/report/surface/recorder"
)

// watchDebounce coalesces the burst of events editors emit for one save.
const watchDebounce = 300 * time.Millisecond

// ErrWatchNeedsInput is returned for --watch without a JSON input to watch.
var ErrWatchNeedsInput = errors.New("--watch needs a JSON input file")

type generateOptions struct {
	input       string
	mode        string
	description string
	outputDir   string
	tables      []string
	xlsx        bool
	dump        string
	watch       bool
	trace       bool
	metricsFile string
}

// generateResult lists what one generation wrote.
type generateResult struct {
	Document *report.Document
	PDF      string
	XLSX     string
	Dump     string
}

func newGenerateCmd(a *app) *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render a PDF deployment report",
		Long: `Render a PDF deployment report from a JSON record export or the
configured database.

Modes: unit, neighborhood, sector, custom. The neighborhood mode adds a chart
page. Custom tables come from custom_tables in the config and from --table.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runGenerate(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.input, "input", "i", "", "JSON record export (overrides the configured source)")
	f.StringVarP(&opts.mode, "mode", "m", "neighborhood", "grouping mode: unit, neighborhood, sector or custom")
	f.StringVarP(&opts.description, "description", "d", "", "paragraph printed under the document header")
	f.StringVarP(&opts.outputDir, "output", "o", "", "output directory (overrides output_dir)")
	f.StringArrayVar(&opts.tables, "table", nil, `custom table "Title=Name A,Name B" (repeatable)`)
	f.BoolVar(&opts.xlsx, "xlsx", false, "also write an XLSX workbook")
	f.StringVar(&opts.dump, "dump", "", "write the recorded drawing operations as JSON to this file")
	f.BoolVarP(&opts.watch, "watch", "w", false, "regenerate whenever the input file changes")
	f.BoolVar(&opts.trace, "trace", false, "print OpenTelemetry spans and metrics to stderr")
	f.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics in textfile format")
	return cmd
}

func (a *app) runGenerate(cmd *cobra.Command, opts generateOptions) error {
	ctx := cmd.Context()
	if opts.watch && opts.input == "" && a.cfg.Source.Kind == config.SourceJSON {
		opts.input = a.cfg.Source.Path
	}
	if opts.watch && opts.input == "" {
		return ErrWatchNeedsInput
	}

	tel, err := initTelemetry(ctx, telemetryOptions{
		Trace:       opts.trace,
		MetricsFile: opts.metricsFile,
		Out:         cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := tel.Shutdown(context.WithoutCancel(ctx)); err != nil {
			a.slog().Warn("telemetry shutdown failed", "error", err)
		}
	}()

	printer := ux.NewPrinter(cmd.OutOrStdout())
	run := func() error {
		res, err := a.generateOnce(ctx, opts, tel)
		if err != nil {
			return err
		}
		printResult(printer, res)
		return nil
	}

	if !opts.watch {
		return run()
	}
	return a.watch(ctx, opts.input, printer, run)
}

// generateOnce renders the PDF and, when requested, the workbook and the
// operation dump. Each output runs in its own goroutine with its own
// surface; the engine is shared read-only.
func (a *app) generateOnce(ctx context.Context, opts generateOptions, tel *telemetry) (generateResult, error) {
	records, err := a.records(ctx, opts.input)
	if err != nil {
		return generateResult{}, err
	}
	mode, err := a.mode(opts.mode, opts.tables)
	if err != nil {
		return generateResult{}, err
	}

	outDir := a.cfg.OutputDir
	if opts.outputDir != "" {
		outDir = opts.outputDir
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return generateResult{}, fmt.Errorf("create output dir: %w", err)
	}

	now := time.Now()
	engine := a.engine(report.WithClock(func() time.Time { return now }))
	req := report.Request{Mode: mode, Description: opts.description}
	labels := a.cfg.Labels.WithDefaults()

	var res generateResult
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		surface := pdfsurface.New(pdfsurface.Options{
			Title:     labels.ReportTitle,
			Author:    a.cfg.Institution,
			Creator:   "deployreport",
			CreatedAt: now,
		})
		doc, err := engine.Generate(gctx, records, req, surface)
		tel.observe(mode.Name(), doc, err)
		if err != nil {
			return err
		}
		path := filepath.Join(outDir, doc.Filename)
		if err := surface.Save(path); err != nil {
			return fmt.Errorf("save pdf: %w", err)
		}
		res.Document, res.PDF = doc, path
		return nil
	})

	if opts.xlsx {
		g.Go(func() error {
			sections := engine.Sections(records, mode)
			wb := export.Workbook{
				Sections:    sections,
				GrandTotals: aggregate.GrandTotals(sections),
				Labels:      labels,
			}
			name := strings.TrimSuffix(report.Filename(a.cfg.Institution, a.cfg.SystemName, now), ".pdf") + ".xlsx"
			path := filepath.Join(outDir, name)
			if err := wb.WriteFile(path); err != nil {
				return err
			}
			res.XLSX = path
			return nil
		})
	}

	if opts.dump != "" {
		// Same layout as the PDF; its warnings were already logged there.
		quiet := a.engine(report.WithClock(func() time.Time { return now }), report.WithLogger(slog.New(slog.DiscardHandler)))
		g.Go(func() error {
			rec := recorder.New()
			if _, err := quiet.Generate(gctx, records, req, rec); err != nil {
				return err
			}
			data, err := json.MarshalIndent(rec, "", "  ")
			if err != nil {
				return fmt.Errorf("encode dump: %w", err)
			}
			if err := os.WriteFile(opts.dump, data, 0o644); err != nil {
				return fmt.Errorf("write dump: %w", err)
			}
			res.Dump = opts.dump
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return generateResult{}, err
	}
	if err := tel.flush(); err != nil {
		return generateResult{}, err
	}
	return res, nil
}

func printResult(p *ux.Printer, res generateResult) {
	doc := res.Document
	p.Success("wrote %s", res.PDF)
	p.Muted("  %d pages, %d sections, %d personnel", doc.Pages, len(doc.Sections), doc.GrandTotals.TotalPersonnel)
	if res.XLSX != "" {
		p.Success("wrote %s", res.XLSX)
	}
	if res.Dump != "" {
		p.Success("wrote %s", res.Dump)
	}
}

// watch calls run once, then again after every write to path until ctx is
// done. Generation errors are reported and watching continues.
//
// The parent directory is watched rather than the file so editors that
// replace the file on save keep triggering.
func (a *app) watch(ctx context.Context, path string, p *ux.Printer, run func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	regenerate := func() {
		if err := run(); err != nil {
			p.Error("%v", err)
			a.slog().Error("regeneration failed", "input", path, "error", err)
		}
	}
	regenerate()
	p.Muted("watching %s", path)

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				debounce = time.After(watchDebounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.slog().Warn("watch error", "error", err)
		case <-debounce:
			debounce = nil
			regenerate()
		}
	}
}
