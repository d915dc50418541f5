// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jeranaias/healthmate-tui/internal/prefs"
)

func newTestTheme(dark bool, size prefs.FontSize) *Theme {
	return NewTheme(&bytes.Buffer{}, dark, size)
}

func countFontMarkers(markers []string) int {
	n := 0
	for _, m := range markers {
		if strings.HasPrefix(m, FontMarkerPrefix) {
			n++
		}
	}
	return n
}

func TestNewTheme_AppliesPreferences(t *testing.T) {
	theme := newTestTheme(true, prefs.FontLarge)

	if !theme.DarkMode || !theme.Renderer().HasDarkBackground() {
		t.Error("dark mode not applied to renderer")
	}
	if theme.FontSize != prefs.FontLarge {
		t.Errorf("FontSize = %q", theme.FontSize)
	}
	if !theme.Profile.Bold {
		t.Error("large profile should be bold")
	}
	if theme.GlamourStyle() != "dark" {
		t.Errorf("GlamourStyle = %q", theme.GlamourStyle())
	}
}

func TestApplyDarkMode_Toggles(t *testing.T) {
	theme := newTestTheme(false, prefs.FontMedium)

	theme.ApplyDarkMode(true)
	if theme.Renderer().HasDarkBackground() != true {
		t.Error("renderer should report dark background")
	}
	if theme.Markers()[0] != MarkerDarkMode {
		t.Errorf("Markers = %v", theme.Markers())
	}

	theme.ApplyDarkMode(false)
	for _, m := range theme.Markers() {
		if m == MarkerDarkMode {
			t.Error("dark marker still present")
		}
	}
	if theme.GlamourStyle() != "light" {
		t.Errorf("GlamourStyle = %q", theme.GlamourStyle())
	}
}

func TestApplyFontSize_ExactlyOneMarker(t *testing.T) {
	theme := newTestTheme(true, prefs.FontSmall)

	for _, size := range []prefs.FontSize{prefs.FontLarge, prefs.FontXLarge, prefs.FontSmall, prefs.FontMedium} {
		theme.ApplyFontSize(size)
		markers := theme.Markers()
		if countFontMarkers(markers) != 1 {
			t.Fatalf("after %s: %d font markers in %v", size, countFontMarkers(markers), markers)
		}
		if markers[len(markers)-1] != FontMarkerPrefix+string(size) {
			t.Errorf("after %s: markers = %v", size, markers)
		}
	}
}

func TestApplyFontSize_UnknownFallsBack(t *testing.T) {
	theme := newTestTheme(false, "huge")
	if theme.FontSize != prefs.FontMedium {
		t.Errorf("FontSize = %q, want medium", theme.FontSize)
	}
}

func TestFontProfiles_CoverEverySize(t *testing.T) {
	for _, size := range prefs.FontSizes {
		if _, ok := FontProfiles[size]; !ok {
			t.Errorf("no profile for %s", size)
		}
	}
	if FontProfiles[prefs.FontSmall].Spacing >= FontProfiles[prefs.FontXLarge].Spacing {
		t.Error("xlarge should space messages more than small")
	}
}

func TestApply(t *testing.T) {
	theme := newTestTheme(false, prefs.FontMedium)
	theme.Apply(prefs.Preferences{DarkMode: true, FontSize: prefs.FontXLarge})
	if !theme.DarkMode || theme.FontSize != prefs.FontXLarge {
		t.Errorf("Apply did not replay: dark=%v size=%s", theme.DarkMode, theme.FontSize)
	}
}

func TestGetLayoutMode(t *testing.T) {
	theme := newTestTheme(false, prefs.FontMedium)
	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{80, LayoutMedium},
		{120, LayoutWide},
	}
	for _, tt := range tests {
		theme.SetSize(tt.width, 30)
		if got := theme.GetLayoutMode(); got != tt.want {
			t.Errorf("width %d: got %v, want %v", tt.width, got, tt.want)
		}
	}
}
