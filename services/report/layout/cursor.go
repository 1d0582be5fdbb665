// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package layout decides where report content goes on fixed-size pages.
//
// The package is split in two layers:
//
//   - Pure planning: PageCursor, Metrics, Plan and SplitRows compute page
//     breaks without touching a surface and are trivially unit-testable.
//   - Execution: Paginator applies those decisions to a Surface, adding
//     pages and redrawing page furniture.
//
// # Cursor Threading
//
// A PageCursor is an immutable value. Every layout operation takes a cursor
// and returns the next one; nothing stores "the current Y" globally.
//
//	c := pager.Start(layout.Portrait)
//	c = pager.EnsureSpace(c, 20)
//	surface.DrawText(x, c.Y, "title", style)
//	c = c.Advance(20)
//
// # Best Effort
//
// Layout never fails. A block taller than a whole page is placed at the top
// of a fresh page and allowed to overflow rather than looping forever.
package layout

// epsilon absorbs floating point noise in fit comparisons.
const epsilon = 1e-6

// PageCursor is the drawing position during layout.
type PageCursor struct {
	// Y is the vertical offset of the next block on the current page.
	Y float64

	// Page is the 1-based index of the current page.
	Page int

	// PageHeight is the height of the current page.
	PageHeight float64

	// TopMargin and BottomMargin are the page margins.
	TopMargin    float64
	BottomMargin float64

	// HeaderHeight and FooterHeight are reserved for page furniture.
	HeaderHeight float64
	FooterHeight float64
}

// ContentTop is the first usable Y below the header furniture.
func (c PageCursor) ContentTop() float64 {
	return c.TopMargin + c.HeaderHeight
}

// ContentBottom is the last usable Y above the footer furniture.
func (c PageCursor) ContentBottom() float64 {
	return c.PageHeight - c.BottomMargin - c.FooterHeight
}

// Capacity is the content height of a whole page.
func (c PageCursor) Capacity() float64 {
	return c.ContentBottom() - c.ContentTop()
}

// Remaining is the space left below Y on the current page.
func (c PageCursor) Remaining() float64 {
	return c.ContentBottom() - c.Y
}

// Fits reports whether a block of height h fits below Y.
func (c PageCursor) Fits(h float64) bool {
	return c.Y+h <= c.ContentBottom()+epsilon
}

// AtTop reports whether nothing has been placed on the current page yet.
func (c PageCursor) AtTop() bool {
	return c.Y <= c.ContentTop()+epsilon
}

// Advance returns the cursor moved down by h.
func (c PageCursor) Advance(h float64) PageCursor {
	c.Y += h
	return c
}

// NextPage returns the cursor at the top of the following page.
func (c PageCursor) NextPage() PageCursor {
	c.Page++
	c.Y = c.ContentTop()
	return c
}

// WithPageHeight returns the cursor for a page of a different height, such
// as a landscape page, keeping Y at the content top.
func (c PageCursor) WithPageHeight(h float64) PageCursor {
	c.PageHeight = h
	c.Y = c.ContentTop()
	return c
}

// Plan decides where a block of height h goes.
//
// It returns the cursor at which the block starts and whether a page break
// is needed first. A cursor already at the top of a page never breaks, so an
// oversized block is placed there and overflows.
func Plan(c PageCursor, h float64) (PageCursor, bool) {
	if c.Fits(h) || c.AtTop() {
		return c, false
	}
	return c.NextPage(), true
}
