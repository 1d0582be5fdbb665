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
	"errors"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/AleutianAI/deployreport/services/report"
)

// telemetryOptions selects the exporters for one CLI run.
type telemetryOptions struct {
	// Trace pretty-prints spans and metrics to Out on shutdown.
	Trace bool

	// MetricsFile receives the Prometheus registry in textfile format
	// after every generation.
	MetricsFile string

	Out io.Writer
}

// telemetry owns the otel providers and the Prometheus registry of a run.
type telemetry struct {
	registry    *prometheus.Registry
	reports     *prometheus.CounterVec
	pages       prometheus.Counter
	sections    prometheus.Counter
	metricsFile string

	shutdownFuncs []func(context.Context) error
}

// initTelemetry installs global otel providers for the enabled exporters.
// Engine spans and metrics reach them through the otel globals.
func initTelemetry(ctx context.Context, opts telemetryOptions) (*telemetry, error) {
	t := &telemetry{
		registry:    prometheus.NewRegistry(),
		metricsFile: opts.MetricsFile,
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "deployreport_reports_total",
			Help: "Reports generated by the CLI, by mode and status.",
		}, []string{"mode", "status"}),
		pages: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "deployreport_pages_total",
			Help: "Pages written to generated PDFs.",
		}),
		sections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "deployreport_sections_total",
			Help: "Sections rendered into generated reports.",
		}),
	}
	t.registry.MustRegister(t.reports, t.pages, t.sections)

	if !opts.Trace && opts.MetricsFile == "" {
		return t, nil
	}

	res := resource.NewWithAttributes(
		"",
		attribute.String("service.name", "deployreport"),
	)

	if opts.Trace {
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(opts.Out), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("create stdout trace exporter: %w", err)
		}
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sdktrace.AlwaysSample()),
		)
		otel.SetTracerProvider(tp)
		t.shutdownFuncs = append(t.shutdownFuncs, tp.Shutdown)
	}

	meterOpts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	if opts.MetricsFile != "" {
		reader, err := promexporter.New(promexporter.WithRegisterer(t.registry))
		if err != nil {
			return nil, fmt.Errorf("create prometheus exporter: %w", err)
		}
		meterOpts = append(meterOpts, sdkmetric.WithReader(reader))
	}
	if opts.Trace {
		exporter, err := stdoutmetric.New(stdoutmetric.WithWriter(opts.Out), stdoutmetric.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("create stdout metric exporter: %w", err)
		}
		meterOpts = append(meterOpts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)))
	}
	mp := sdkmetric.NewMeterProvider(meterOpts...)
	otel.SetMeterProvider(mp)
	t.shutdownFuncs = append(t.shutdownFuncs, mp.Shutdown)

	return t, nil
}

// observe counts one generation. doc is nil on failure.
func (t *telemetry) observe(mode string, doc *report.Document, err error) {
	if err != nil {
		t.reports.WithLabelValues(mode, "error").Inc()
		return
	}
	t.reports.WithLabelValues(mode, "ok").Inc()
	t.pages.Add(float64(doc.Pages))
	t.sections.Add(float64(len(doc.Sections)))
}

// flush writes the metrics textfile when one is configured.
func (t *telemetry) flush() error {
	if t.metricsFile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(t.metricsFile, t.registry); err != nil {
		return fmt.Errorf("write metrics file: %w", err)
	}
	return nil
}

// Shutdown flushes and stops the otel providers.
func (t *telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	for _, fn := range t.shutdownFuncs {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	t.shutdownFuncs = nil
	return errors.Join(errs...)
}
