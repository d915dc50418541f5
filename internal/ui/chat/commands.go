// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/jeranaias/healthmate-tui/internal/dictation"
	"github.com/jeranaias/healthmate-tui/internal/exchange"
	"github.com/jeranaias/healthmate-tui/internal/export"
	"github.com/jeranaias/healthmate-tui/internal/notify"
)

// =============================================================================
// EXCHANGE INTERFACE
// =============================================================================

// Exchanger is the backend the chat talks to. *exchange.Client implements it.
type Exchanger interface {
	Send(ctx context.Context, text string) (*exchange.SendResult, error)
	Export(ctx context.Context) (*exchange.ExportResult, error)
	Clear(ctx context.Context) error
	QuickActions(ctx context.Context) ([]exchange.QuickAction, error)
}

// withTimeout bounds ctx by d when d is positive.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// SendCmd posts text and reports the outcome as a SendResultMsg.
func SendCmd(ctx context.Context, client Exchanger, text string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout(ctx, timeout)
		defer cancel()

		res, err := client.Send(ctx, text)
		if err != nil {
			return SendResultMsg{Err: err}
		}
		return SendResultMsg{Result: res}
	}
}

// ExportCmd fetches the transcript export and saves it with opts.
func ExportCmd(ctx context.Context, client Exchanger, opts *export.Options, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout(ctx, timeout)
		defer cancel()

		res, err := client.Export(ctx)
		if err != nil {
			return ExportResultMsg{Err: err}
		}
		path, err := export.Save(res.ExportText, res.Filename, opts)
		if err != nil {
			return ExportResultMsg{Err: fmt.Errorf("save export: %w", err)}
		}
		return ExportResultMsg{Path: path}
	}
}

// ClearCmd asks the backend to clear the transcript.
func ClearCmd(ctx context.Context, client Exchanger, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout(ctx, timeout)
		defer cancel()
		return ClearResultMsg{Err: client.Clear(ctx)}
	}
}

// QuickActionsCmd fetches the backend's quick actions.
func QuickActionsCmd(ctx context.Context, client Exchanger, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout(ctx, timeout)
		defer cancel()

		actions, err := client.QuickActions(ctx)
		return QuickActionsMsg{Actions: actions, Err: err}
	}
}

// WaitForNotice blocks until the next notice on ch. Re-issue it after every
// NoticeMsg to keep listening.
func WaitForNotice(ch <-chan notify.Notice) tea.Cmd {
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return noticesClosedMsg{}
		}
		return NoticeMsg{Notice: n}
	}
}

// =============================================================================
// DICTATION COMMANDS
// =============================================================================

// startDictationCmd starts a dictation session bound to ctx.
func startDictationCmd(ctx context.Context, engine dictation.Engine) tea.Cmd {
	return func() tea.Msg {
		return DictationStartedMsg{Err: engine.Start(ctx)}
	}
}

// stopDictationCmd ends the current session early.
func stopDictationCmd(engine dictation.Engine) tea.Cmd {
	return func() tea.Msg {
		return DictationStoppedMsg{Err: engine.Stop()}
	}
}

// waitForDictation delivers the engine's next event.
func waitForDictation(ctx context.Context, engine dictation.Engine) tea.Cmd {
	return func() tea.Msg {
		select {
		case ev := <-engine.Events():
			return DictationEventMsg{Event: ev}
		case <-ctx.Done():
			return DictationEventMsg{Event: dictation.Event{Type: dictation.EventEnd}}
		}
	}
}

// =============================================================================
// CLIPBOARD COMMANDS
// =============================================================================

// copyCmd writes text with fn.
func copyCmd(fn func(string) error, text string) tea.Cmd {
	return func() tea.Msg {
		err := fn(text)
		if err != nil {
			log.Debug().Err(err).Msg("clipboard write failed")
		}
		return CopyResultMsg{Err: err}
	}
}
