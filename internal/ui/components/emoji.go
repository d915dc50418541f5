// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/healthmate-tui/internal/ui/styles"
)

// DefaultEmojis is the picker's grid, row by row.
var DefaultEmojis = []string{
	"😊", "😢", "😷", "🤒", "🤕", "🤧",
	"💊", "💉", "🩺", "💖", "💪", "🏃",
	"🥗", "💧", "😴", "🧘", "👍", "🙏",
}

// emojiColumns is the picker's row length.
const emojiColumns = 6

// EmojiPicker is a toggleable grid of emoji navigated with the arrow keys.
type EmojiPicker struct {
	Emojis  []string
	cursor  int
	visible bool
	theme   *styles.Theme
}

// NewEmojiPicker creates a hidden picker over DefaultEmojis.
func NewEmojiPicker(theme *styles.Theme) *EmojiPicker {
	return &EmojiPicker{Emojis: DefaultEmojis, theme: theme}
}

// Toggle flips visibility. Opening resets the cursor.
func (p *EmojiPicker) Toggle() {
	p.visible = !p.visible
	if p.visible {
		p.cursor = 0
	}
}

// Hide closes the picker.
func (p *EmojiPicker) Hide() {
	p.visible = false
}

// Visible reports whether the picker is open.
func (p *EmojiPicker) Visible() bool {
	return p.visible
}

// Move shifts the cursor by dx columns and dy rows, clamped to the grid.
func (p *EmojiPicker) Move(dx, dy int) {
	if len(p.Emojis) == 0 {
		return
	}
	next := p.cursor + dx + dy*emojiColumns
	if next < 0 || next >= len(p.Emojis) {
		return
	}
	if dx != 0 && next/emojiColumns != p.cursor/emojiColumns {
		return
	}
	p.cursor = next
}

// Selected returns the emoji under the cursor.
func (p *EmojiPicker) Selected() string {
	if p.cursor < 0 || p.cursor >= len(p.Emojis) {
		return ""
	}
	return p.Emojis[p.cursor]
}

// View renders the grid.
func (p *EmojiPicker) View() string {
	if !p.visible {
		return ""
	}
	var b strings.Builder
	for i, e := range p.Emojis {
		if i > 0 && i%emojiColumns == 0 {
			b.WriteString("\n")
		}
		if i == p.cursor {
			b.WriteString(p.theme.ChipSelected.Render(e))
		} else {
			b.WriteString(p.theme.Chip.Render(e))
		}
		if i%emojiColumns != emojiColumns-1 {
			b.WriteString(" ")
		}
	}
	title := p.theme.PanelTitle.Render("Emoji")
	hint := p.theme.Hint.Render("arrows move · enter inserts · esc closes")
	return p.theme.Panel.Render(title + "\n" + b.String() + "\n" + hint)
}
