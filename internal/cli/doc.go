// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the healthmate command line on cobra.
//
// Running healthmate without a command opens the full-screen chat. The
// one-shot commands (ask, export, clear, settings) use the same exchange
// client, preferences store and configuration.
//
// # Usage
//
//	os.Exit(cli.Execute())
//
// # Commands Overview
//
//   - chat: full-screen chat, or line-based with --plain
//   - ask: send one message and print the reply and suggestions
//   - export: save the transcript to the download directory
//   - clear: clear the server-side history after confirmation
//   - settings: get, set or reset the saved preferences
//   - version: print build information
//
// # Exit Codes
//
// Usage errors exit 2, configuration errors 3 and unreachable backends 5;
// every other failure exits 1.
package cli
