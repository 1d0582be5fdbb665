// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package layout

// Furniture draws the repeated header and footer of a page.
//
// It is called right after every AddPage with the cursor of the new page.
type Furniture func(s Surface, c PageCursor)

// Paginator applies page-break decisions to a Surface.
//
// The Paginator owns the page count of one document; cursors stay values
// that callers thread through it.
type Paginator struct {
	surface     Surface
	metrics     Metrics
	furniture   Furniture
	orientation Orientation
	pages       int
}

// NewPaginator creates a paginator drawing furniture on every new page.
// A nil furniture draws nothing.
func NewPaginator(s Surface, m Metrics, f Furniture) *Paginator {
	if f == nil {
		f = func(Surface, PageCursor) {}
	}
	return &Paginator{surface: s, metrics: m, furniture: f}
}

// Start adds the first page and returns its cursor.
func (p *Paginator) Start(o Orientation) PageCursor {
	p.orientation = o
	p.surface.AddPage(o)
	p.pages = 1
	c := p.metrics.Cursor(p.surface.PageHeight())
	p.furniture(p.surface, c)
	return c
}

// EnsureSpace returns a cursor with room for a block of height h, breaking
// to a new page in the current orientation when the block does not fit.
func (p *Paginator) EnsureSpace(c PageCursor, h float64) PageCursor {
	next, brk := Plan(c, h)
	if !brk {
		return next
	}
	return p.NewPage(c, p.orientation)
}

// NewPage unconditionally adds a page with orientation o.
func (p *Paginator) NewPage(c PageCursor, o Orientation) PageCursor {
	p.orientation = o
	p.surface.AddPage(o)
	p.pages++
	next := c.NextPage().WithPageHeight(p.surface.PageHeight())
	p.furniture(p.surface, next)
	return next
}

// Orientation returns the orientation of the current page.
func (p *Paginator) Orientation() Orientation {
	return p.orientation
}

// Pages returns the number of pages added so far.
func (p *Paginator) Pages() int {
	return p.pages
}

// Metrics returns the metrics the paginator was built with.
func (p *Paginator) Metrics() Metrics {
	return p.metrics
}
