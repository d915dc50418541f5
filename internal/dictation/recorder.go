// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dictation

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/rs/zerolog/log"
)

// SpeechToText is the transcription half of a RecorderEngine.
type SpeechToText interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

// CommandFunc builds the recorder process. It matches exec.CommandContext.
type CommandFunc func(ctx context.Context, name string, args ...string) *exec.Cmd

// RecorderEngine records with an external program until stopped, then
// transcribes the recording.
type RecorderEngine struct {
	name   string
	path   string
	stt    SpeechToText
	events chan Event

	// Command is swapped out by tests.
	Command CommandFunc

	mu      sync.Mutex
	running bool
	cmd     *exec.Cmd
	stopped bool
}

// NewRecorderEngine returns an engine using the recorder called name found at
// path.
func NewRecorderEngine(name, path string, stt SpeechToText) *RecorderEngine {
	return &RecorderEngine{
		name:    name,
		path:    path,
		stt:     stt,
		events:  make(chan Event, 8),
		Command: exec.CommandContext,
	}
}

// Events implements Engine.
func (e *RecorderEngine) Events() <-chan Event {
	return e.events
}

// recorderArgs returns the command line that writes 16 kHz mono WAV to out.
func recorderArgs(name, out string) []string {
	switch name {
	case "arecord":
		return []string{"-q", "-f", "S16_LE", "-r", "16000", "-c", "1", "-t", "wav", out}
	case "rec":
		return []string{"-q", "-c", "1", "-r", "16000", "-b", "16", out}
	case "ffmpeg":
		input := []string{"-f", "alsa", "-i", "default"}
		switch runtime.GOOS {
		case "darwin":
			input = []string{"-f", "avfoundation", "-i", ":0"}
		case "windows":
			input = []string{"-f", "dshow", "-i", "audio=default"}
		}
		args := append([]string{"-hide_banner", "-loglevel", "error", "-y"}, input...)
		return append(args, "-ac", "1", "-ar", "16000", out)
	default:
		return []string{out}
	}
}

// Start implements Engine. The recorder runs until Stop is called, ctx is
// cancelled, or the program exits on its own.
func (e *RecorderEngine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return ErrBusy
	}

	dir, err := os.MkdirTemp("", "healthmate-dictation-")
	if err != nil {
		return fmt.Errorf("create recording dir: %w", err)
	}
	out := filepath.Join(dir, "speech.wav")

	cmd := e.Command(ctx, e.path, recorderArgs(e.name, out)...)
	if err := cmd.Start(); err != nil {
		os.RemoveAll(dir)
		return fmt.Errorf("start %s: %w", e.name, err)
	}

	e.running = true
	e.stopped = false
	e.cmd = cmd
	log.Debug().Str("recorder", e.name).Int("pid", cmd.Process.Pid).Msg("dictation started")

	go e.finish(ctx, cmd, dir, out)
	return nil
}

// Stop implements Engine. The recording made so far is still transcribed.
func (e *RecorderEngine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running || e.cmd == nil || e.cmd.Process == nil {
		return ErrNotRunning
	}
	e.stopped = true

	// Recorders finalise the WAV header on SIGINT. Windows has no SIGINT for
	// child processes, so the file may be truncated there.
	if runtime.GOOS == "windows" {
		return e.cmd.Process.Kill()
	}
	return e.cmd.Process.Signal(os.Interrupt)
}

// finish waits for the recorder, transcribes what it wrote and emits the
// session's events.
func (e *RecorderEngine) finish(ctx context.Context, cmd *exec.Cmd, dir, out string) {
	defer os.RemoveAll(dir)

	waitErr := cmd.Wait()

	e.mu.Lock()
	stopped := e.stopped
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.running = false
		e.cmd = nil
		e.mu.Unlock()
		e.emit(ctx, Event{Type: EventEnd})
	}()

	// An interrupted recorder exits non-zero; that is the normal stop path.
	if waitErr != nil && !stopped {
		if info, err := os.Stat(out); err != nil || info.Size() == 0 {
			e.emit(ctx, Event{Type: EventError, Err: fmt.Errorf("%s failed: %w", e.name, waitErr)})
			return
		}
	}

	audio, err := os.ReadFile(out)
	if err != nil || len(audio) == 0 {
		e.emit(ctx, Event{Type: EventError, Err: ErrNoSpeech})
		return
	}

	text, err := e.stt.Transcribe(ctx, audio, filepath.Base(out))
	if err != nil {
		log.Warn().Err(err).Msg("transcription failed")
		e.emit(ctx, Event{Type: EventError, Err: err})
		return
	}
	e.emit(ctx, Event{Type: EventResult, Text: text})
}

func (e *RecorderEngine) emit(ctx context.Context, ev Event) {
	select {
	case e.events <- ev:
	case <-ctx.Done():
		// Nobody is listening any more; keep End deliverable if there is room.
		select {
		case e.events <- ev:
		default:
		}
	}
}
