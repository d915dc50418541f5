// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dictation

import (
	"context"
	"errors"
	"os/exec"

	"github.com/rs/zerolog/log"

	"github.com/jeranaias/healthmate-tui/internal/config"
)

// UnsupportedText is shown when no engine is available.
const UnsupportedText = "Voice recognition is not supported on this system."

var (
	// ErrBusy is returned by Start while a session is running.
	ErrBusy = errors.New("dictation already running")
	// ErrNotRunning is returned by Stop when there is nothing to stop.
	ErrNotRunning = errors.New("dictation not running")
	// ErrNoSpeech is reported when the recording held nothing to transcribe.
	ErrNoSpeech = errors.New("no speech detected")
)

// EventType distinguishes engine callbacks.
type EventType int

const (
	EventResult EventType = iota
	EventError
	EventEnd
)

// Event is one engine callback.
type Event struct {
	Type EventType
	Text string // EventResult
	Err  error  // EventError
}

// Engine is a dictation service. Start begins a session; Stop ends it early.
// Every session, however it finishes, delivers exactly one EventEnd last.
type Engine interface {
	Start(ctx context.Context) error
	Stop() error
	Events() <-chan Event
}

// Recorders lists the supported capture programs in preference order.
var Recorders = []string{"arecord", "rec", "ffmpeg"}

// LookPathFunc resolves a program name to a path.
type LookPathFunc func(file string) (string, error)

// Detect returns an engine for cfg, or nil when dictation cannot work here:
// disabled, no transcription endpoint, or no recorder on PATH.
func Detect(cfg config.DictationConfig, lookPath LookPathFunc) Engine {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	if !cfg.Enabled {
		return nil
	}
	if cfg.TranscribeURL == "" {
		log.Debug().Msg("dictation unavailable: no transcribe_url configured")
		return nil
	}

	candidates := Recorders
	if cfg.Recorder != "" {
		candidates = []string{cfg.Recorder}
	}
	for _, name := range candidates {
		path, err := lookPath(name)
		if err != nil {
			continue
		}
		log.Debug().Str("recorder", path).Msg("dictation available")
		return NewRecorderEngine(name, path, NewTranscriber(cfg))
	}

	log.Debug().Strs("tried", candidates).Msg("dictation unavailable: no recorder found")
	return nil
}
