// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the HealthMate conversation.
//
// # Key Types
//
//   - Message: one transcript entry exactly as the backend produced it
//   - Role: self or counterpart, derived from the sender label
//   - Transcript: the append-only ordered list of rendered messages
//
// Messages are immutable once appended. The transcript has no identity or
// ordering key beyond append order; it never reorders or deduplicates.
package model
