// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the reusable pieces of the HealthMate chat screen.

Every component takes a *styles.Theme so that dark mode and font size changes
reach all of them at once.

# Display Components

Header (header.go) - Title bar with presence status and message count.
StatusBar (statusbar.go) - Send affordance and shortcut hints.
MessageBubble (message.go) - Role-tagged transcript entries.
MarkdownRenderer (markup.go) - Glamour rendering of the backend's light HTML.

# Interactive Components

SuggestionPanel (suggestions.go) - Follow-up chips from the last reply.
EmojiPicker (emoji.go) - Grid of emoji inserted at the cursor.
SettingsPanel (settings.go) - Sound, dark mode, suggestions and font size.
ConfirmDialog (confirm.go) - Yes/no prompt guarding destructive actions.

# Feedback

ToastManager (toast.go) - Transient notices fed from the notify bus:

	toasts := components.NewToastManager()
	toasts.AddNotice(notice)
	view := components.RenderToastStack(theme, toasts.GetToasts(), width)
*/
package components
