// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ordering

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AleutianAI/deployreport/services/report/deployment"
)

func rec(id, orderType, orderNumber string) deployment.Record {
	return deployment.Record{ID: id, OrderType: orderType, OrderNumber: orderNumber}
}

func ids(records []deployment.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestSortRecords_FrequencyThenDiscovery(t *testing.T) {
	in := []deployment.Record{
		rec("a", "o1", "1"),
		rec("b", "o2", "5"),
		rec("c", "o1", "1"),
		rec("d", "o2", "5"),
		rec("e", "o3", ""),
	}

	got := SortRecords(in)

	// o1 and o2 both occur twice. Equal counts keep discovery order, so o1
	// stays ahead of o2 even though (o2,5) is sometimes listed first for this
	// input; TestSortRecords_HigherFrequencyFirst covers a strict majority.
	assert.Equal(t, []string{"a", "c", "b", "d", "e"}, ids(got))
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids(in), "input must not be reordered")
}

func TestSortRecords_HigherFrequencyFirst(t *testing.T) {
	in := []deployment.Record{
		rec("a", "o1", "1"),
		rec("b", "o2", "5"),
		rec("c", "o1", "1"),
		rec("d", "o2", "5"),
		rec("e", "o3", ""),
		rec("f", "o2", "5"),
	}

	got := SortRecords(in)

	assert.Equal(t, []string{"b", "d", "f", "a", "c", "e"}, ids(got))
}

func TestSortRecords_KeylessRowsKeepRelativeOrder(t *testing.T) {
	in := []deployment.Record{
		rec("x", "", ""),
		rec("a", "o1", "1"),
		rec("y", "o9", ""),
		rec("z", "", "4"),
		rec("b", "o1", "1"),
	}

	got := SortRecords(in)

	assert.Equal(t, []string{"a", "b", "x", "y", "z"}, ids(got))
}

func TestSortRecords_NoKeysIsNoop(t *testing.T) {
	in := []deployment.Record{rec("c", "", "1"), rec("a", "o", ""), rec("b", "", "")}

	got := SortRecords(in)

	assert.Equal(t, ids(in), ids(got))
	assert.Empty(t, SortRecords(nil))
}

func TestSortByOrderFrequency_CustomRows(t *testing.T) {
	type row struct {
		name  string
		order string
	}
	key := func(r row) (deployment.OrderKey, bool) {
		return deployment.OrderKey{Type: "OS", Number: r.order}, r.order != ""
	}
	in := []row{{"p", "3"}, {"q", "7"}, {"r", "7"}, {"s", ""}}

	got := SortByOrderFrequency(in, key)

	assert.Equal(t, []row{{"q", "7"}, {"r", "7"}, {"p", "3"}, {"s", ""}}, got)
}
