// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the healthmate TUI.
//
// All colors are Lip Gloss AdaptiveColors. A Theme owns its own renderer, and
// the renderer's dark-background flag is the dark mode switch: flipping it
// re-resolves every color without touching the styles themselves.
//
// Font size has no literal meaning in a terminal, so each size maps to a
// density profile (bubble padding, spacing between messages, emphasis).
// Exactly one profile is active at a time.
package styles
