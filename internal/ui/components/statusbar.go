// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/healthmate-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// StatusBar shows the send affordance and the shortcut hints.
type StatusBar struct {
	Width       int
	SendEnabled bool
	Recording   bool
	Bindings    []key.Binding
	theme       *styles.Theme
}

// NewStatusBar creates a new StatusBar component.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// renderSend renders the send hint, dimmed when sending is not possible.
func (s *StatusBar) renderSend() string {
	if s.SendEnabled {
		return s.theme.SendEnabled.Render("⏎ Send")
	}
	return s.theme.SendDisabled.Render("⏎ Send")
}

func (s *StatusBar) renderShortcuts(limit int) string {
	parts := make([]string, 0, len(s.Bindings))
	used := 0
	sep := s.theme.ShortcutDesc.Render("  ")
	for _, b := range s.Bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		part := s.theme.ShortcutKey.Render(h.Key) + " " + s.theme.ShortcutDesc.Render(h.Desc)
		w := lipgloss.Width(part) + lipgloss.Width(sep)
		if used+w > limit {
			break
		}
		parts = append(parts, part)
		used += w
	}
	return strings.Join(parts, sep)
}

// View renders the status bar.
func (s *StatusBar) View() string {
	width := s.Width
	if width < 20 {
		width = 20
	}
	inner := width - s.theme.StatusBar.GetHorizontalFrameSize()

	left := s.renderSend()
	if s.Recording {
		left += " " + s.theme.Recording.Render("● REC")
	}

	right := s.renderShortcuts(inner - lipgloss.Width(left) - 2)
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return s.theme.StatusBar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
