// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the local key/value store for healthmate.
//
// It plays the part browser local storage plays for a web widget: a flat map
// of string keys to string blobs, persisted as one JSON object on disk.
//
// # Key Types
//
//   - Store: the key/value interface consumers depend on
//   - FileStore: JSON file at ~/.healthmate/localstorage.json
//   - MemoryStore: in-process store, used by tests
//
// # Usage
//
//	store, err := storage.NewFileStore(path)
//	err = store.Set("healthmate_settings", blob)
//	blob, ok, err := store.Get("healthmate_settings")
package storage
