// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// =============================================================================
// Level Tests
// =============================================================================

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"", LevelInfo},
		{"info", LevelInfo},
		{" warn ", LevelWarn},
		{"warning", LevelWarn},
		{"Error", LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if err != nil {
				t.Fatalf("ParseLevel(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	if _, err := ParseLevel("verbose"); !errors.Is(err, ErrUnknownLevel) {
		t.Errorf("ParseLevel(verbose) error = %v, want ErrUnknownLevel", err)
	}
}

func TestLevel_TextRoundTrip(t *testing.T) {
	for _, level := range []Level{LevelDebug, LevelInfo, LevelWarn, LevelError} {
		text, err := level.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var got Level
		if err := got.UnmarshalText(text); err != nil {
			t.Fatal(err)
		}
		if got != level {
			t.Errorf("round trip of %v gave %v", level, got)
		}
	}
	if Level(42).String() != "unknown" {
		t.Errorf("Level(42).String() = %q", Level(42).String())
	}
}

// =============================================================================
// Logger Tests
// =============================================================================

func TestNew_ConsoleFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: LevelWarn, Service: "deployreport", Console: &buf})
	if err != nil {
		t.Fatal(err)
	}
	defer logger.Close()

	logger.Slog().Info("hidden")
	logger.Slog().Warn("report asset unavailable, skipping", "path", "logo.png")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info entry logged at warn level: %s", out)
	}
	for _, want := range []string{"level=WARN", "service=deployreport", "path=logo.png"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}
}

func TestNew_JSONConsole(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{JSON: true, Console: &buf})
	if err != nil {
		t.Fatal(err)
	}
	logger.Slog().Info("report generated", "pages", 3)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("console output is not JSON: %v: %s", err, buf.String())
	}
	if entry["msg"] != "report generated" || entry["pages"] != float64(3) {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestNew_FileAndConsole(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	var buf bytes.Buffer
	logger, err := New(Config{LogDir: dir, Service: "svc", Console: &buf})
	if err != nil {
		t.Fatal(err)
	}

	logger.Slog().With("doc", "doc-1").Info("report generated")
	if err := logger.Close(); err != nil {
		t.Fatal(err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("second Close() error: %v", err)
	}

	path := filepath.Join(dir, "svc_"+time.Now().Format("2006-01-02")+".log")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), `"doc":"doc-1"`) {
		t.Errorf("file entry missing attribute: %s", data)
	}
	if !strings.Contains(buf.String(), "doc=doc-1") {
		t.Errorf("console entry missing attribute: %s", buf.String())
	}
}

func TestNew_QuietWithoutFileDiscards(t *testing.T) {
	logger, err := New(Config{Quiet: true})
	if err != nil {
		t.Fatal(err)
	}
	if logger.Slog().Enabled(context.Background(), slog.LevelError) {
		t.Error("quiet logger without a file should discard")
	}
}

func TestNew_UnwritableLogDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(file, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := New(Config{LogDir: filepath.Join(file, "logs"), Quiet: true}); err == nil {
		t.Error("expected error for a log dir below a regular file")
	}
}

func TestMultiHandler_WithGroup(t *testing.T) {
	var a, b bytes.Buffer
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&a, nil),
		slog.NewTextHandler(&b, nil),
	}}
	slog.New(h).WithGroup("report").Info("done", "pages", 2)

	for _, out := range []string{a.String(), b.String()} {
		if !strings.Contains(out, "report.pages=2") {
			t.Errorf("grouped attribute missing: %s", out)
		}
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandPath("~/logs"); got != filepath.Join(home, "logs") {
		t.Errorf("expandPath(~/logs) = %q", got)
	}
	if got := expandPath("/var/log"); got != "/var/log" {
		t.Errorf("expandPath(/var/log) = %q", got)
	}
	if got := expandPath("~user/logs"); got != "~user/logs" {
		t.Errorf("expandPath(~user/logs) = %q", got)
	}
}
