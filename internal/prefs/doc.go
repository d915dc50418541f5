// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package prefs loads, saves and mutates the user's display and audio
// preferences.
//
// The preferences are one JSON blob stored under a fixed key in a
// storage.Store. Loading never fails the whole record because of one bad
// field: each field falls back to its default independently. Every setter
// persists immediately; there is no batching.
package prefs
