// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/healthmate-tui/internal/prefs"
	"github.com/jeranaias/healthmate-tui/internal/ui/styles"
)

// =============================================================================
// SETTINGS PANEL
// =============================================================================

// SettingRow identifies a control in the settings panel.
type SettingRow int

const (
	RowSound SettingRow = iota
	RowDarkMode
	RowAutoSuggestions
	RowFontSize
)

// settingRows is the display order.
var settingRows = []SettingRow{RowSound, RowDarkMode, RowAutoSuggestions, RowFontSize}

// Label returns the row's caption.
func (r SettingRow) Label() string {
	switch r {
	case RowSound:
		return "Sound"
	case RowDarkMode:
		return "Dark mode"
	case RowAutoSuggestions:
		return "Auto suggestions"
	case RowFontSize:
		return "Font size"
	default:
		return "Unknown"
	}
}

// Key returns the preference key the row edits.
func (r SettingRow) Key() string {
	switch r {
	case RowSound:
		return "soundEnabled"
	case RowDarkMode:
		return "darkMode"
	case RowAutoSuggestions:
		return "autoSuggestions"
	case RowFontSize:
		return "fontSize"
	default:
		return ""
	}
}

// SettingsPanel shows the current preferences and a cursor. It holds no
// preference state; the caller applies changes and passes the result to View.
type SettingsPanel struct {
	cursor  int
	visible bool
	theme   *styles.Theme
}

// NewSettingsPanel creates a hidden panel.
func NewSettingsPanel(theme *styles.Theme) *SettingsPanel {
	return &SettingsPanel{theme: theme}
}

// Toggle opens or closes the panel.
func (s *SettingsPanel) Toggle() {
	s.visible = !s.visible
}

// Hide closes the panel.
func (s *SettingsPanel) Hide() {
	s.visible = false
}

// Visible reports whether the panel is open.
func (s *SettingsPanel) Visible() bool {
	return s.visible
}

// Up moves the cursor up one row.
func (s *SettingsPanel) Up() {
	if s.cursor > 0 {
		s.cursor--
	}
}

// Down moves the cursor down one row.
func (s *SettingsPanel) Down() {
	if s.cursor < len(settingRows)-1 {
		s.cursor++
	}
}

// Current returns the row under the cursor.
func (s *SettingsPanel) Current() SettingRow {
	return settingRows[s.cursor]
}

func (s *SettingsPanel) toggle(on bool) string {
	if on {
		return s.theme.ToggleOn.Render("[on] ")
	}
	return s.theme.ToggleOff.Render("[off]")
}

func (s *SettingsPanel) fontSelector(current prefs.FontSize) string {
	parts := make([]string, 0, len(prefs.FontSizes))
	for _, size := range prefs.FontSizes {
		if size == current {
			parts = append(parts, s.theme.ChipSelected.Render(string(size)))
		} else {
			parts = append(parts, s.theme.ToggleOff.Render(string(size)))
		}
	}
	return strings.Join(parts, " ")
}

// View renders the panel for p.
func (s *SettingsPanel) View(p prefs.Preferences) string {
	if !s.visible {
		return ""
	}

	lines := []string{s.theme.PanelTitle.Render("Settings")}
	for i, row := range settingRows {
		var value string
		switch row {
		case RowSound:
			value = s.toggle(p.SoundEnabled)
		case RowDarkMode:
			value = s.toggle(p.DarkMode)
		case RowAutoSuggestions:
			value = s.toggle(p.AutoSuggestions)
		case RowFontSize:
			value = s.fontSelector(p.FontSize)
		}

		label := row.Label()
		label += strings.Repeat(" ", 18-lipgloss.Width(label))
		style := s.theme.Row
		if i == s.cursor {
			style = s.theme.RowSelected
			label = "› " + label
		} else {
			label = "  " + label
		}
		lines = append(lines, style.Render(label)+value)
	}
	lines = append(lines, s.theme.Hint.Render("↑/↓ move · space toggle · ←/→ change · esc close"))
	return s.theme.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
