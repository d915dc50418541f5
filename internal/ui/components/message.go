// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/healthmate-tui/internal/model"
	"github.com/jeranaias/healthmate-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders one transcript entry: a header line with the sender
// label and timestamp, then the body in a role-tagged bubble.
type MessageBubble struct {
	Message  model.Message
	Width    int
	Markdown *MarkdownRenderer // nil renders bot markup as plain text
	theme    *styles.Theme
}

// NewMessageBubble creates a bubble for msg.
func NewMessageBubble(msg model.Message, theme *styles.Theme) *MessageBubble {
	return &MessageBubble{Message: msg, Width: 80, theme: theme}
}

// maxBubbleWidth leaves a gutter on the opposite side of each bubble.
func (b *MessageBubble) maxBubbleWidth() int {
	w := b.Width * 4 / 5
	if w < 20 {
		w = 20
	}
	return w
}

// View renders the message bubble.
func (b *MessageBubble) View() string {
	if b.Message.IsSelf() {
		return b.renderUser()
	}
	return b.renderBot()
}

func (b *MessageBubble) header(label lipgloss.Style) string {
	head := label.Render(b.Message.Sender)
	if b.Message.Timestamp != "" {
		head += " " + b.theme.Timestamp.Render(b.Message.Timestamp)
	}
	return head
}

func (b *MessageBubble) bubbleContentWidth(style lipgloss.Style) int {
	w := b.maxBubbleWidth() - style.GetHorizontalFrameSize() - style.GetHorizontalMargins()
	if w < 10 {
		w = 10
	}
	return w
}

func (b *MessageBubble) renderUser() string {
	style := b.theme.UserBubble
	width := b.bubbleContentWidth(style)
	body := b.theme.MessageBody.Width(width).Render(b.Message.Text)

	block := lipgloss.JoinVertical(lipgloss.Right,
		b.header(b.theme.UserLabel),
		style.Render(body),
	)
	return lipgloss.PlaceHorizontal(b.Width, lipgloss.Right, block)
}

func (b *MessageBubble) renderBot() string {
	style := b.theme.BotBubble
	width := b.bubbleContentWidth(style)

	var body string
	if b.Markdown != nil {
		body = b.Markdown.Render(b.Message.Text, b.theme.GlamourStyle(), width)
	} else {
		body = b.theme.MessageBody.Width(width).Render(StripTags(b.Message.Text))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		b.header(b.theme.BotLabel),
		style.Render(body),
	)
}

// RenderTranscript renders every message in order, separated by the blank
// lines the active font profile asks for.
func RenderTranscript(msgs []model.Message, theme *styles.Theme, width int, md *MarkdownRenderer) string {
	gap := strings.Repeat("\n", theme.Profile.Spacing+1)
	parts := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		bubble := NewMessageBubble(msg, theme)
		bubble.Width = width
		bubble.Markdown = md
		parts = append(parts, bubble.View())
	}
	return strings.Join(parts, gap)
}
