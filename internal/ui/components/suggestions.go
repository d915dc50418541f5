// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/healthmate-tui/internal/ui/styles"
)

// =============================================================================
// SUGGESTION CHIPS
// =============================================================================

// maxChipWidth bounds a single chip so one long suggestion cannot take the row.
const maxChipWidth = 40

// SuggestionPanel holds the follow-up chips from the last reply. Hiding keeps
// the chips; the next Show replaces them.
type SuggestionPanel struct {
	items    []string
	visible  bool
	selected int // -1 when no chip is highlighted
	Width    int
	theme    *styles.Theme
}

// NewSuggestionPanel creates a hidden, empty panel.
func NewSuggestionPanel(theme *styles.Theme) *SuggestionPanel {
	return &SuggestionPanel{selected: -1, Width: 80, theme: theme}
}

// Show replaces the chips with items and shows the panel. It does nothing
// when enabled is false or items is empty.
func (p *SuggestionPanel) Show(items []string, enabled bool) {
	if !enabled || len(items) == 0 {
		return
	}
	p.items = append(p.items[:0:0], items...)
	p.selected = -1
	p.visible = true
}

// Hide hides the panel without discarding the chips.
func (p *SuggestionPanel) Hide() {
	p.visible = false
	p.selected = -1
}

// Visible reports whether the panel is shown.
func (p *SuggestionPanel) Visible() bool {
	return p.visible
}

// Items returns a copy of the stored chips.
func (p *SuggestionPanel) Items() []string {
	return append([]string(nil), p.items...)
}

// Next highlights the following chip, wrapping around.
func (p *SuggestionPanel) Next() {
	if !p.visible || len(p.items) == 0 {
		return
	}
	p.selected = (p.selected + 1) % len(p.items)
}

// Prev highlights the preceding chip, wrapping around.
func (p *SuggestionPanel) Prev() {
	if !p.visible || len(p.items) == 0 {
		return
	}
	if p.selected <= 0 {
		p.selected = len(p.items) - 1
		return
	}
	p.selected--
}

// Selected returns the highlighted chip, if any.
func (p *SuggestionPanel) Selected() (string, bool) {
	if !p.visible || p.selected < 0 || p.selected >= len(p.items) {
		return "", false
	}
	return p.items[p.selected], true
}

// Selecting reports whether a chip is highlighted.
func (p *SuggestionPanel) Selecting() bool {
	_, ok := p.Selected()
	return ok
}

// ClearSelection removes the highlight.
func (p *SuggestionPanel) ClearSelection() {
	p.selected = -1
}

// View renders the chips, wrapping onto further rows as needed.
func (p *SuggestionPanel) View() string {
	if !p.visible || len(p.items) == 0 {
		return ""
	}

	width := p.Width
	if width < 20 {
		width = 20
	}

	var rows []string
	var row []string
	rowWidth := 0
	for i, item := range p.items {
		style := p.theme.Chip
		if i == p.selected {
			style = p.theme.ChipSelected
		}
		chip := style.Render(truncateWithEllipsis(item, maxChipWidth))
		w := lipgloss.Width(chip) + 1
		if rowWidth > 0 && rowWidth+w > width {
			rows = append(rows, strings.Join(row, " "))
			row, rowWidth = nil, 0
		}
		row = append(row, chip)
		rowWidth += w
	}
	if len(row) > 0 {
		rows = append(rows, strings.Join(row, " "))
	}

	hint := p.theme.Hint.Render("tab to pick a suggestion")
	if p.selected >= 0 {
		hint = p.theme.Hint.Render("enter to use · esc to cancel")
	}
	return lipgloss.JoinVertical(lipgloss.Left, append(rows, hint)...)
}
