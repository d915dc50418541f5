// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/healthmate-tui/internal/dictation"
	"github.com/jeranaias/healthmate-tui/internal/exchange"
	"github.com/jeranaias/healthmate-tui/internal/notify"
)

// =============================================================================
// EXCHANGE MESSAGES
// =============================================================================

// SendResultMsg carries the outcome of one send. Exactly one of Result and
// Err is set.
type SendResultMsg struct {
	Result *exchange.SendResult
	Err    error
}

// ExportResultMsg carries the outcome of an export: the saved path or the
// error from fetching or saving.
type ExportResultMsg struct {
	Path string
	Err  error
}

// ClearResultMsg carries the outcome of a clear request.
type ClearResultMsg struct {
	Err error
}

// QuickActionsMsg delivers the backend's quick actions at startup.
type QuickActionsMsg struct {
	Actions []exchange.QuickAction
	Err     error
}

// =============================================================================
// NOTIFICATION MESSAGES
// =============================================================================

// NoticeMsg delivers one notice from the notification bus.
type NoticeMsg struct {
	Notice notify.Notice
}

// noticesClosedMsg is sent once the bus has been closed.
type noticesClosedMsg struct{}

// =============================================================================
// DICTATION MESSAGES
// =============================================================================

// DictationStartedMsg reports whether the engine started.
type DictationStartedMsg struct {
	Err error
}

// DictationStoppedMsg reports the result of asking the engine to stop.
type DictationStoppedMsg struct {
	Err error
}

// DictationEventMsg wraps one engine callback.
type DictationEventMsg struct {
	Event dictation.Event
}

// =============================================================================
// CLIPBOARD MESSAGES
// =============================================================================

// CopyResultMsg reports a clipboard write.
type CopyResultMsg struct {
	Err error
}
