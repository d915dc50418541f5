// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jeranaias/healthmate-tui/internal/util"
)

// DefaultFilename is used when the backend suggests no usable name.
const DefaultFilename = "healthmate_chat.txt"

// maxDuplicates bounds the " (n)" search.
const maxDuplicates = 999

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures where and how an export is saved.
type Options struct {
	// Dir is the directory the file is saved in.
	// Default: current working directory
	Dir string

	// OpenAfterExport opens the file in the default application.
	OpenAfterExport bool
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{Dir: "."}
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// Save writes text to a new file in opts.Dir named after filename and returns
// the path written. An existing file is never replaced.
func Save(text, filename string, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create download directory: %w", err)
	}

	name := util.SanitizeFilename(filename, DefaultFilename)
	path, err := uniquePath(dir, name)
	if err != nil {
		return "", err
	}

	if err := util.AtomicWriteFile(path, []byte(text), 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	log.Info().Str("path", path).Int("bytes", len(text)).Msg("chat exported")

	if opts.OpenAfterExport {
		if err := openFile(path); err != nil {
			// Non-fatal - file was still created successfully
			log.Warn().Err(err).Str("path", path).Msg("could not open export")
		}
	}
	return path, nil
}

// uniquePath returns dir/name, or dir/"base (n).ext" for the smallest n that
// does not exist yet.
func uniquePath(dir, name string) (string, error) {
	candidate := filepath.Join(dir, name)
	if !exists(candidate) {
		return candidate, nil
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for n := 1; n <= maxDuplicates; n++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", base, n, ext))
		if !exists(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("too many existing copies of %s in %s", name, dir)
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return !errors.Is(err, os.ErrNotExist)
}

// openFile opens a file in the default application for the OS.
func openFile(path string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", `""`, path)
	case "darwin":
		cmd = exec.Command("open", path)
	case "linux", "freebsd", "openbsd":
		cmd = exec.Command("xdg-open", path)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
