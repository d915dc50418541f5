// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export saves a transcript export produced by the backend to disk.
//
// The backend formats the text and suggests a filename. This package plays the
// part of a browser download: it reduces the name to a safe single path
// element, never overwrites an existing file (it appends " (1)", " (2)", ...
// like a browser does), and optionally opens the result.
//
// # Usage
//
//	path, err := export.Save(res.ExportText, res.Filename, &export.Options{Dir: dir})
package export
