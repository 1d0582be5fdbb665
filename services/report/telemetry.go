// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package report

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for report generation.
var (
	tracer = otel.Tracer("deployreport.report")
	meter  = otel.Meter("deployreport.report")
)

var (
	generateLatency metric.Float64Histogram
	generateTotal   metric.Int64Counter
	pagesTotal      metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		generateLatency, err = meter.Float64Histogram(
			"report_generate_duration_seconds",
			metric.WithDescription("Duration of report generation"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		generateTotal, err = meter.Int64Counter(
			"report_generate_total",
			metric.WithDescription("Total number of report generations"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		pagesTotal, err = meter.Int64Counter(
			"report_pages_total",
			metric.WithDescription("Total number of pages laid out"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

func startGenerateSpan(ctx context.Context, mode string, records int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Engine.Generate",
		trace.WithAttributes(
			attribute.String("report.mode", mode),
			attribute.Int("report.records", records),
		),
	)
}

func setGenerateSpanResult(span trace.Span, sections, pages int, success bool) {
	span.SetAttributes(
		attribute.Int("report.sections", sections),
		attribute.Int("report.pages", pages),
		attribute.Bool("report.success", success),
	)
}

func recordGenerateMetrics(ctx context.Context, mode string, duration time.Duration, pages int, success bool) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("mode", mode),
		attribute.Bool("success", success),
	)

	generateLatency.Record(ctx, duration.Seconds(), attrs)
	generateTotal.Add(ctx, 1, attrs)
	if success {
		pagesTotal.Add(ctx, int64(pages), metric.WithAttributes(attribute.String("mode", mode)))
	}
}
