// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the HealthMate chat screen as a Bubble Tea model.

The model combines the input controller and the conversation renderer. It
owns the transcript, the in-flight flag and the dictation flag, and drives
the backend through an Exchanger.

# Sending

Enter sends the trimmed input; alt+enter or ctrl+j inserts a newline. A send
is refused while another is in flight. On the result the typing indicator
and in-flight flag are always cleared. A success appends the user's message
and then the reply, shows the suggestion chips and plays the tone.

# Notices

Failures and confirmations are published on a notify.Bus. The model listens
with WaitForNotice and renders what arrives as toasts, so other parts of the
program can raise the same notices.

# Usage

	m := chat.New(theme, chat.Options{
		Client: exchange.NewClient(),
		Prefs:  prefsManager,
		Bus:    bus,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())
*/
package chat
