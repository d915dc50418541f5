// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/healthmate-tui/internal/ui/styles"
)

// ConfirmDialog is a yes/no prompt. The caller owns the action; the dialog
// only remembers what is being confirmed.
type ConfirmDialog struct {
	Title   string
	Prompt  string
	Action  string
	visible bool
	theme   *styles.Theme
}

// NewConfirmDialog creates a hidden dialog.
func NewConfirmDialog(theme *styles.Theme) *ConfirmDialog {
	return &ConfirmDialog{theme: theme}
}

// Open shows the dialog for action.
func (d *ConfirmDialog) Open(action, title, prompt string) {
	d.Action = action
	d.Title = title
	d.Prompt = prompt
	d.visible = true
}

// Close hides the dialog and returns the action it was showing.
func (d *ConfirmDialog) Close() string {
	action := d.Action
	d.visible = false
	d.Action = ""
	return action
}

// Visible reports whether the dialog is open.
func (d *ConfirmDialog) Visible() bool {
	return d.visible
}

// View renders the dialog centred in width.
func (d *ConfirmDialog) View(width int) string {
	if !d.visible {
		return ""
	}
	body := lipgloss.JoinVertical(lipgloss.Center,
		d.theme.PanelTitle.Render(d.Title),
		"",
		d.Prompt,
		"",
		d.theme.ShortcutKey.Render("y")+d.theme.ShortcutDesc.Render(" yes   ")+
			d.theme.ShortcutKey.Render("n")+d.theme.ShortcutDesc.Render(" no"),
	)
	box := d.theme.ConfirmBox.Render(body)
	if width <= 0 {
		return box
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, box)
}
