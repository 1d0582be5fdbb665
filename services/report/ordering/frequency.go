// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package ordering sorts report rows so operatives sharing a service order
// are printed next to each other.
package ordering

import (
	"slices"

	"github.com/AleutianAI/deployreport/services/report/deployment"
)

// KeyFunc extracts the order key of a row. The boolean reports whether the
// row carries both the order type and the order number.
type KeyFunc[T any] func(T) (deployment.OrderKey, bool)

// SortByOrderFrequency orders rows by how often their order key recurs.
//
// Keys are ranked by descending frequency; keys seen equally often keep the
// order in which they were first encountered. Rows are then stably sorted by
// the rank of their key, and rows without a complete key sink below every
// ranked row while keeping their relative order.
//
// When no row carries a complete key the input slice is returned as is.
// Otherwise the result is a new slice and rows is left untouched.
func SortByOrderFrequency[T any](rows []T, key KeyFunc[T]) []T {
	counts := make(map[deployment.OrderKey]int)
	var discovered []deployment.OrderKey
	for _, row := range rows {
		k, ok := key(row)
		if !ok {
			continue
		}
		if counts[k] == 0 {
			discovered = append(discovered, k)
		}
		counts[k]++
	}
	if len(discovered) == 0 {
		return rows
	}

	slices.SortStableFunc(discovered, func(a, b deployment.OrderKey) int {
		return counts[b] - counts[a]
	})
	rank := make(map[deployment.OrderKey]int, len(discovered))
	for i, k := range discovered {
		rank[k] = i
	}

	unranked := len(discovered)
	rankOf := func(row T) int {
		k, ok := key(row)
		if !ok {
			return unranked
		}
		return rank[k]
	}

	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b T) int {
		return rankOf(a) - rankOf(b)
	})
	return sorted
}

// SortRecords applies SortByOrderFrequency to deployment records.
func SortRecords(records []deployment.Record) []deployment.Record {
	return SortByOrderFrequency[deployment.Record](records, deployment.Record.Order)
}
