// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/healthmate-tui/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Status is the assistant's presence shown next to the title.
type Status int

const (
	StatusOnline Status = iota
	StatusTyping
	StatusRecording
)

// String returns the display string for the status.
func (s Status) String() string {
	switch s {
	case StatusOnline:
		return "Online"
	case StatusTyping:
		return "Typing"
	case StatusRecording:
		return "Listening"
	default:
		return "Unknown"
	}
}

// Header is the title bar.
type Header struct {
	Title        string
	Subtitle     string
	Status       Status
	MessageCount int
	SoundOn      bool
	Width        int
	theme        *styles.Theme
}

// NewHeader creates a new Header component with default values.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title:    "Dr. HealthMate",
		Subtitle: "Your personal health assistant",
		Status:   StatusOnline,
		SoundOn:  true,
		Width:    80,
		theme:    theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

func (h *Header) statusStyle() lipgloss.Style {
	r := h.theme.Renderer()
	switch h.Status {
	case StatusTyping:
		return r.NewStyle().Foreground(styles.Amber)
	case StatusRecording:
		return r.NewStyle().Foreground(styles.Rose).Bold(true)
	default:
		return r.NewStyle().Foreground(styles.Emerald)
	}
}

func (h *Header) badges() string {
	parts := []string{h.statusStyle().Render("● " + h.Status.String())}
	if h.MessageCount > 0 {
		parts = append(parts, h.theme.ShortcutDesc.Render(plural(h.MessageCount, "message")))
	}
	if !h.SoundOn {
		parts = append(parts, h.theme.ShortcutDesc.Render("muted"))
	}
	return strings.Join(parts, h.theme.ShortcutDesc.Render(" · "))
}

// View renders the header. Narrow terminals get a single line.
func (h *Header) View() string {
	width := h.Width
	if width < 20 {
		width = 20
	}
	inner := width - h.theme.Header.GetHorizontalFrameSize()

	title := h.theme.HeaderTitle.Render(h.Title)
	badges := h.badges()

	if width < 60 {
		line := title + " " + badges
		return h.theme.Header.Width(width).Render(truncateLine(line, inner))
	}

	gap := inner - lipgloss.Width(title) - lipgloss.Width(badges)
	if gap < 1 {
		gap = 1
	}
	top := title + strings.Repeat(" ", gap) + badges
	sub := h.theme.HeaderSubtitle.Render(truncateWithEllipsis(h.Subtitle, inner))
	return h.theme.Header.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, top, sub))
}

// truncateLine trims a styled line to width cells.
func truncateLine(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(s)
}
