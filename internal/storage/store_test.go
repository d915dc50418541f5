// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"os"
	"path/filepath"
	"testing"
)

// =============================================================================
// FILE STORE TESTS
// =============================================================================

func TestFileStore_SetGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "localstorage.json")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	if _, ok, err := store.Get("missing"); err != nil || ok {
		t.Fatalf("Get(missing) = ok=%v err=%v, want absent", ok, err)
	}

	if err := store.Set("healthmate_settings", `{"darkMode":true}`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, ok, err := store.Get("healthmate_settings")
	if err != nil || !ok {
		t.Fatalf("Get = ok=%v err=%v", ok, err)
	}
	if got != `{"darkMode":true}` {
		t.Errorf("Get = %q", got)
	}
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "localstorage.json")

	first, _ := NewFileStore(path)
	if err := first.Set("k", "v1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	second, _ := NewFileStore(path)
	got, ok, err := second.Get("k")
	if err != nil || !ok || got != "v1" {
		t.Errorf("fresh store Get = %q ok=%v err=%v", got, ok, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("store mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestFileStore_Remove(t *testing.T) {
	store, _ := NewFileStore(filepath.Join(t.TempDir(), "ls.json"))
	if err := store.Remove("never-set"); err != nil {
		t.Errorf("Remove of absent key returned %v", err)
	}
	_ = store.Set("k", "v")
	if err := store.Remove("k"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, ok, _ := store.Get("k"); ok {
		t.Error("key still present after Remove")
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ls.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	store, _ := NewFileStore(path)
	if _, _, err := store.Get("k"); err == nil {
		t.Error("expected decode error for corrupt store")
	}
}

func TestNewFileStore_EmptyPath(t *testing.T) {
	if _, err := NewFileStore(""); err == nil {
		t.Error("expected error for empty path")
	}
}

// =============================================================================
// MEMORY STORE TESTS
// =============================================================================

func TestMemoryStore(t *testing.T) {
	var store Store = NewMemoryStore()

	_ = store.Set("a", "1")
	if v, ok, _ := store.Get("a"); !ok || v != "1" {
		t.Errorf("Get(a) = %q, %v", v, ok)
	}
	_ = store.Remove("a")
	if _, ok, _ := store.Get("a"); ok {
		t.Error("a still present")
	}
}
