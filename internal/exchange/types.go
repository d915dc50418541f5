// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package exchange

import "github.com/jeranaias/healthmate-tui/internal/model"

// =============================================================================
// REQUEST TYPES
// =============================================================================

// AskRequest is the body of POST /ask.
type AskRequest struct {
	Message string `json:"message"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// AskResponse is the body returned by POST /ask. The backend may fill the
// message fields even when Success is false; they are ignored in that case.
type AskResponse struct {
	Success     bool           `json:"success"`
	UserMessage *model.Message `json:"user_message,omitempty"`
	BotMessage  *model.Message `json:"bot_message,omitempty"`
	Suggestions []string       `json:"suggestions"`
	Error       string         `json:"error,omitempty"`
}

// SendResult is a successful exchange: the user's message, the reply, and the
// follow-up suggestions, in the order they are rendered.
type SendResult struct {
	UserMessage model.Message
	BotMessage  model.Message
	Suggestions []string
}

// ExportResult is the body returned by GET /export_chat.
type ExportResult struct {
	ExportText string `json:"export_text"`
	Filename   string `json:"filename"`
}

// ClearResponse is the body returned by POST /clear_chat.
type ClearResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// QuickAction is one entry of GET /quick_actions.
type QuickAction struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
}
