// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/healthmate-tui/internal/ui/components"
)

// welcomeText is shown while the transcript is empty.
const welcomeText = "Hi, I'm Dr. HealthMate.\nAsk me about symptoms, medication, nutrition or exercise.\nPress alt+1..9 for a quick question."

// =============================================================================
// LAYOUT
// =============================================================================

// contentWidth is the usable width, with a default before the first resize.
func (m Model) contentWidth() int {
	if m.width <= 0 {
		return 80
	}
	return m.width
}

// relayout sizes the viewport and input to whatever the chrome around them
// currently measures.
func (m *Model) relayout() {
	width := m.contentWidth()
	m.header.SetWidth(width)
	m.statusBar.SetWidth(width)
	m.suggestions.Width = width
	m.input.SetWidth(width - m.theme.InputContainer.GetHorizontalFrameSize())

	if m.height <= 0 {
		return
	}
	chrome := lipgloss.Height(m.header.View()) +
		lipgloss.Height(m.renderInput()) +
		lipgloss.Height(m.renderStatusBar())
	if extra := m.renderBelowTranscript(); extra != "" {
		chrome += lipgloss.Height(extra)
	}

	h := m.height - chrome
	if h < 1 {
		h = 1
	}
	atBottom := m.viewport.AtBottom()
	m.viewport.Width = width
	m.viewport.Height = h
	if atBottom {
		m.viewport.GotoBottom()
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the chat screen.
func (m Model) View() string {
	if m.showHelp {
		return m.renderHelp()
	}

	parts := []string{m.header.View(), m.viewport.View()}
	if extra := m.renderBelowTranscript(); extra != "" {
		parts = append(parts, extra)
	}
	parts = append(parts, m.renderInput(), m.renderStatusBar())
	screen := lipgloss.JoinVertical(lipgloss.Left, parts...)

	if toasts := components.RenderToastStack(m.theme, m.toasts.GetToasts(), m.contentWidth()); toasts != "" {
		screen = overlayTop(screen, toasts)
	}
	return screen
}

// renderTranscript renders every message, or the welcome text when empty.
func (m Model) renderTranscript() string {
	width := m.contentWidth()
	if m.transcript.IsEmpty() {
		return m.theme.EmptyState.Width(width).Render("\n" + welcomeText)
	}
	return components.RenderTranscript(m.transcript.Messages(), m.theme, width-1, m.markdown)
}

// renderBelowTranscript renders whatever sits between the transcript and the
// input: the typing indicator and at most one panel.
func (m Model) renderBelowTranscript() string {
	var parts []string
	if m.isTyping {
		parts = append(parts, m.spinner.View()+" "+m.theme.Typing.Render("Dr. HealthMate is typing"))
	}

	width := m.contentWidth()
	switch {
	case m.confirm.Visible():
		parts = append(parts, m.confirm.View(width))
	case m.settings.Visible():
		parts = append(parts, m.settings.View(m.prefs.Current()))
	case m.emoji.Visible():
		parts = append(parts, m.emoji.View())
	case m.suggestions.Visible():
		parts = append(parts, m.suggestions.View())
	}
	return strings.Join(parts, "\n")
}

func (m Model) renderInput() string {
	return m.theme.InputContainer.Width(m.contentWidth()).Render(m.input.View())
}

func (m Model) renderStatusBar() string {
	m.statusBar.SendEnabled = m.SendEnabled()
	m.statusBar.Recording = m.isRecording
	return m.statusBar.View()
}

func (m Model) renderHelp() string {
	h := m.help
	h.ShowAll = true
	h.Width = m.contentWidth()
	title := m.theme.PanelTitle.Render("Keyboard shortcuts")
	hint := m.theme.Hint.Render("F1 or esc to close · /quick /attach /export /clear /settings")
	return m.theme.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", h.View(m.keyMap), "", hint))
}

// overlayTop replaces the first lines of screen with overlay's lines.
func overlayTop(screen, overlay string) string {
	lines := strings.Split(screen, "\n")
	over := strings.Split(overlay, "\n")
	// Start below the header so the title stays readable.
	start := 2
	for i, l := range over {
		if start+i >= len(lines) {
			break
		}
		lines[start+i] = l
	}
	return strings.Join(lines, "\n")
}
