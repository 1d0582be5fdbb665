// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package recorder provides an in-memory layout.Surface that records every
// drawing call instead of producing a document.
//
// It is used by tests to assert on page breaks and drawing order, and by the
// CLI's --dump flag to inspect a layout as JSON.
//
//	rec := recorder.New()
//	doc, err := engine.Generate(ctx, records, req, rec)
//	for _, op := range rec.OpsOnPage(2) { ... }
package recorder

import (
	"encoding/json"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/AleutianAI/deployreport/services/report/layout"
)

// A4 dimensions in millimetres.
const (
	A4Width  = 210.0
	A4Height = 297.0
)

// Kind identifies a recorded call.
type Kind string

const (
	KindAddPage Kind = "add_page"
	KindText    Kind = "text"
	KindLine    Kind = "line"
	KindRect    Kind = "rect"
	KindImage   Kind = "image"
	KindTable   Kind = "table"
)

// Op is one recorded drawing call.
type Op struct {
	Kind Kind `json:"kind"`
	Page int  `json:"page"`

	X  float64 `json:"x,omitempty"`
	Y  float64 `json:"y,omitempty"`
	X2 float64 `json:"x2,omitempty"`
	Y2 float64 `json:"y2,omitempty"`
	W  float64 `json:"w,omitempty"`
	H  float64 `json:"h,omitempty"`

	Text        string             `json:"text,omitempty"`
	Orientation layout.Orientation `json:"orientation,omitempty"`
	TextStyle   layout.TextStyle   `json:"text_style,omitempty"`
	Path        string             `json:"path,omitempty"`

	// Table is set for KindTable. OnHeaderCell is not retained.
	Table *layout.Table `json:"table,omitempty"`
}

// Surface records drawing calls. The zero value is not usable; call New.
type Surface struct {
	width, height float64
	orientation   layout.Orientation
	page          int
	ops           []Op
	missing       map[string]bool
	saved         []string
	err           error
}

// Option configures a Surface.
type Option func(*Surface)

// WithPageSize sets the portrait page size.
func WithPageSize(w, h float64) Option {
	return func(s *Surface) {
		s.width, s.height = w, h
	}
}

// WithMissingAssets makes DrawImage fail for the given paths.
func WithMissingAssets(paths ...string) Option {
	return func(s *Surface) {
		for _, p := range paths {
			s.missing[p] = true
		}
	}
}

// WithError makes Err report err, simulating a broken backend.
func WithError(err error) Option {
	return func(s *Surface) {
		s.err = err
	}
}

// New creates a recorder with A4 portrait pages.
func New(opts ...Option) *Surface {
	s := &Surface{width: A4Width, height: A4Height, missing: make(map[string]bool)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ layout.Surface = (*Surface)(nil)

// AddPage implements layout.Surface.
func (s *Surface) AddPage(o layout.Orientation) {
	s.page++
	s.orientation = o
	s.record(Op{Kind: KindAddPage, Orientation: o})
}

// PageWidth implements layout.Surface.
func (s *Surface) PageWidth() float64 {
	if s.orientation == layout.Landscape {
		return s.height
	}
	return s.width
}

// PageHeight implements layout.Surface.
func (s *Surface) PageHeight() float64 {
	if s.orientation == layout.Landscape {
		return s.width
	}
	return s.height
}

// DrawText implements layout.Surface.
func (s *Surface) DrawText(x, y float64, text string, style layout.TextStyle) {
	s.record(Op{Kind: KindText, X: x, Y: y, Text: text, TextStyle: style})
}

// DrawLine implements layout.Surface.
func (s *Surface) DrawLine(x1, y1, x2, y2 float64, style layout.LineStyle) {
	s.record(Op{Kind: KindLine, X: x1, Y: y1, X2: x2, Y2: y2, W: style.Width})
}

// DrawRect implements layout.Surface.
func (s *Surface) DrawRect(x, y, w, h float64, style layout.FillStyle) {
	s.record(Op{Kind: KindRect, X: x, Y: y, W: w, H: h})
}

// DrawImage implements layout.Surface.
func (s *Surface) DrawImage(path string, x, y, w, h float64) error {
	if s.missing[path] {
		return fmt.Errorf("open image %s: %w", path, os.ErrNotExist)
	}
	s.record(Op{Kind: KindImage, X: x, Y: y, W: w, H: h, Path: path})
	return nil
}

// DrawTable implements layout.Surface. OnHeaderCell is invoked for every
// header cell, left to right, like a real surface would.
func (s *Surface) DrawTable(t layout.Table) {
	callback := t.OnHeaderCell
	t.OnHeaderCell = nil
	s.record(Op{Kind: KindTable, X: t.X, Y: t.Y, H: t.Height(), Table: &t})
	if callback == nil {
		return
	}
	x := t.X
	for i, col := range t.Columns {
		callback(layout.HeaderCell{Column: i, X: x, Y: t.Y, W: col.Width, H: t.HeaderHeight})
		x += col.Width
	}
}

// MeasureTextWidth implements layout.Surface with a fixed per-rune advance
// so layouts are reproducible across machines.
func (s *Surface) MeasureTextWidth(text string, fontSize float64) float64 {
	return float64(utf8.RuneCountInString(text)) * fontSize * 0.18
}

// Save implements layout.Surface by remembering the filename.
func (s *Surface) Save(filename string) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, filename)
	return nil
}

// Err implements layout.Surface.
func (s *Surface) Err() error {
	return s.err
}

func (s *Surface) record(op Op) {
	op.Page = s.page
	s.ops = append(s.ops, op)
}

// Ops returns every recorded call in order.
func (s *Surface) Ops() []Op {
	out := make([]Op, len(s.ops))
	copy(out, s.ops)
	return out
}

// OpsOnPage returns the calls recorded on page (1-based).
func (s *Surface) OpsOnPage(page int) []Op {
	var out []Op
	for _, op := range s.ops {
		if op.Page == page && op.Kind != KindAddPage {
			out = append(out, op)
		}
	}
	return out
}

// Pages returns the number of pages added.
func (s *Surface) Pages() int {
	return s.page
}

// Texts returns the text of every DrawText call in order.
func (s *Surface) Texts() []string {
	var out []string
	for _, op := range s.ops {
		if op.Kind == KindText {
			out = append(out, op.Text)
		}
	}
	return out
}

// Tables returns the recorded tables in order.
func (s *Surface) Tables() []Op {
	var out []Op
	for _, op := range s.ops {
		if op.Kind == KindTable {
			out = append(out, op)
		}
	}
	return out
}

// Saved returns the filenames passed to Save.
func (s *Surface) Saved() []string {
	return s.saved
}

// MarshalJSON dumps the recorded calls.
func (s *Surface) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Pages int  `json:"pages"`
		Ops   []Op `json:"ops"`
	}{s.page, s.ops})
}
