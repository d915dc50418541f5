// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Shared styling for the one-shot commands and the plain REPL.
//
// Colors follow GetColorProfile, so piped output and NO_COLOR stay plain.

package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/healthmate-tui/internal/model"
	"github.com/jeranaias/healthmate-tui/internal/notify"
)

func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

// =============================================================================
// SHARED STYLES
// =============================================================================

var (
	// TitleStyle is used for banners and section titles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")) // Cyan

	// LabelStyle is used for field labels in settings listings
	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(18)

	// ValueStyle is used for regular values and text
	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	// SuccessStyle is used for success notices
	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	// ErrorStyle is used for error notices
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	// WarningStyle is used for warnings
	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	// DimStyle is used for hints and timestamps
	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242"))

	// InfoStyle is used for informational notices
	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("75"))

	// SelfStyle labels the user's own messages
	SelfStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("141")).
			Bold(true)

	// BotStyle labels the assistant's messages
	BotStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("43")).
			Bold(true)
)

// =============================================================================
// RENDER HELPERS
// =============================================================================

// RenderLabel renders a fixed-width settings label.
func RenderLabel(label string) string {
	return LabelStyle.Render(label)
}

// RenderNotice renders a bus notice as one tagged line.
func RenderNotice(n notify.Notice) string {
	switch n.Kind {
	case notify.KindSuccess:
		return SuccessStyle.Render("[OK]") + " " + n.Text
	case notify.KindWarning:
		return WarningStyle.Render("[WARN]") + " " + n.Text
	case notify.KindError:
		return ErrorStyle.Render("[ERROR]") + " " + n.Text
	default:
		return InfoStyle.Render("[INFO]") + " " + n.Text
	}
}

// RenderMessageHeader renders the sender line above a message body.
func RenderMessageHeader(msg model.Message) string {
	label := BotStyle.Render(msg.Sender)
	if msg.IsSelf() {
		label = SelfStyle.Render(msg.Sender)
	}
	if msg.Timestamp == "" {
		return label
	}
	return fmt.Sprintf("%s %s", label, DimStyle.Render(msg.Timestamp))
}

// RenderSuggestions renders numbered follow-up suggestions.
func RenderSuggestions(items []string) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(DimStyle.Render("Suggestions:"))
	for i, s := range items {
		fmt.Fprintf(&b, "\n  %s %s", InfoStyle.Render(fmt.Sprintf("[%d]", i+1)), s)
	}
	return b.String()
}
