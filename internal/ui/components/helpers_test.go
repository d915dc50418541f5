// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestToStr(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{7, "7"},
		{42, "42"},
		{-15, "-15"},
		{1000000, "1000000"},
		{-9223372036854775808, "-9223372036854775808"},
	}
	for _, tc := range tests {
		if got := toStr(tc.n); got != tc.want {
			t.Errorf("toStr(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}

func TestPlural(t *testing.T) {
	if got := plural(1, "message"); got != "1 message" {
		t.Errorf("plural(1) = %q", got)
	}
	if got := plural(0, "message"); got != "0 messages" {
		t.Errorf("plural(0) = %q", got)
	}
	if got := plural(12, "message"); got != "12 messages" {
		t.Errorf("plural(12) = %q", got)
	}
}

func TestTruncateWithEllipsis(t *testing.T) {
	if got := truncateWithEllipsis("short", 10); got != "short" {
		t.Errorf("truncateWithEllipsis short = %q", got)
	}
	got := truncateWithEllipsis("What should I eat before a run?", 12)
	if w := runewidth.StringWidth(got); w > 12 {
		t.Errorf("width = %d, want <= 12 (%q)", w, got)
	}
	if got := truncateWithEllipsis("anything", 0); got != "" {
		t.Errorf("zero width = %q, want empty", got)
	}
	// Wide runes count double.
	got = truncateWithEllipsis("🏃🏃🏃🏃🏃🏃", 5)
	if w := runewidth.StringWidth(got); w > 5 {
		t.Errorf("emoji width = %d, want <= 5 (%q)", w, got)
	}
}
