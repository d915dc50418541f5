// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the healthmate packages.
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync, used for the
//     local store, config saves and chat exports
//
// String Utilities:
//   - TruncateWidth: display-width aware truncation for chips and toasts
//   - SanitizeFilename: strips path components from server-supplied names
package util
