// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// Transcript is the ordered, append-only list of messages shown to the user.
// The zero value is an empty transcript ready for use. It is owned by a single
// goroutine (the UI update loop) and is not safe for concurrent use.
type Transcript struct {
	messages []Message
}

// NewTranscript returns an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append adds msgs to the end in the order given.
func (t *Transcript) Append(msgs ...Message) {
	t.messages = append(t.messages, msgs...)
}

// Messages returns a copy of the entries in append order.
func (t *Transcript) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of entries.
func (t *Transcript) Len() int {
	return len(t.messages)
}

// IsEmpty reports whether the transcript has no entries.
func (t *Transcript) IsEmpty() bool {
	return len(t.messages) == 0
}

// Clear drops every entry. There is no undo.
func (t *Transcript) Clear() {
	t.messages = nil
}

// LastFrom returns the most recent message with the given role.
func (t *Transcript) LastFrom(role Role) (Message, bool) {
	for i := len(t.messages) - 1; i >= 0; i-- {
		if t.messages[i].Role() == role {
			return t.messages[i], true
		}
	}
	return Message{}, false
}
