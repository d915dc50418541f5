// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role tags a transcript entry for rendering.
type Role int

const (
	// RoleCounterpart is anything the backend speaks as (the bot).
	RoleCounterpart Role = iota
	// RoleSelf is the local user.
	RoleSelf
)

// SelfSender is the sender label the backend gives the user's own messages.
const SelfSender = "You"

// String returns the string representation of the role.
func (r Role) String() string {
	if r == RoleSelf {
		return "user"
	}
	return "bot"
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is one transcript entry. All three fields are display strings and
// are rendered verbatim; the timestamp is never re-parsed.
type Message struct {
	Sender    string `json:"sender"`
	Text      string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Role returns RoleSelf for the "You" sender and RoleCounterpart otherwise.
func (m Message) Role() Role {
	if m.Sender == SelfSender {
		return RoleSelf
	}
	return RoleCounterpart
}

// IsSelf reports whether the local user sent the message.
func (m Message) IsSelf() bool {
	return m.Role() == RoleSelf
}
