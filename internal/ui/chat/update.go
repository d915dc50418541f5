// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/jeranaias/healthmate-tui/internal/dictation"
	"github.com/jeranaias/healthmate-tui/internal/exchange"
	"github.com/jeranaias/healthmate-tui/internal/model"
	"github.com/jeranaias/healthmate-tui/internal/prefs"
	"github.com/jeranaias/healthmate-tui/internal/ui/components"
)

// User-visible notice texts.
const (
	MsgExported       = "Chat exported successfully!"
	MsgCleared        = "Chat cleared successfully!"
	MsgCopied         = "Copied the last reply to the clipboard."
	MsgCopyFailed     = "Failed to copy to clipboard."
	MsgNothingToCopy  = "No reply to copy yet."
	MsgSettingsFailed = "Failed to save settings."
	MsgAttachHint     = "Type a file path after /attach and press enter."
	MsgNoQuickActions = "No quick actions available."
	MsgClearPrompt    = "Are you sure you want to clear the chat history?"
)

// actionClear tags the confirm dialog opened by the clear shortcut.
const actionClear = "clear"

// =============================================================================
// UPDATE
// =============================================================================

// Update handles incoming messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)
	m.relayout()
	return m, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.refreshTranscript()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case SendResultMsg:
		return m.handleSendResult(msg)

	case ExportResultMsg:
		return m.handleExportResult(msg)

	case ClearResultMsg:
		return m.handleClearResult(msg)

	case QuickActionsMsg:
		if msg.Err != nil {
			log.Debug().Err(msg.Err).Msg("quick actions unavailable, using configured list")
			return m, nil
		}
		if len(msg.Actions) > 0 {
			m.quickActions = msg.Actions
		}
		return m, nil

	case NoticeMsg:
		m.toasts.AddNotice(msg.Notice)
		cmds := []tea.Cmd{WaitForNotice(m.notices)}
		if !m.toastTicking {
			m.toastTicking = true
			cmds = append(cmds, components.ToastTickCmd())
		}
		return m, tea.Batch(cmds...)

	case noticesClosedMsg:
		return m, nil

	case components.ToastTickMsg:
		m.toasts.TickToasts(msg.Time)
		if m.toasts.HasToasts() {
			return m, components.ToastTickCmd()
		}
		m.toastTicking = false
		return m, nil

	case DictationStartedMsg:
		return m.handleDictationStarted(msg)

	case DictationStoppedMsg:
		if msg.Err != nil && !errors.Is(msg.Err, dictation.ErrNotRunning) {
			log.Warn().Err(msg.Err).Msg("failed to stop dictation")
		}
		return m, nil

	case DictationEventMsg:
		return m.handleDictationEvent(msg)

	case CopyResultMsg:
		if msg.Err != nil {
			m.bus.Error(MsgCopyFailed)
		} else {
			m.bus.Info(MsgCopied)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.isTyping {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keyMap.Quit) {
		m.session.stop()
		return m, tea.Quit
	}

	// Modal surfaces take the keyboard first.
	switch {
	case m.confirm.Visible():
		return m.handleConfirmKey(msg)
	case m.settings.Visible():
		return m.handleSettingsKey(msg)
	case m.emoji.Visible():
		if next, cmd, handled := m.handleEmojiKey(msg); handled {
			return next, cmd
		}
		// Anything else moves focus back to the input.
		m.emoji.Hide()
	case m.showHelp:
		if key.Matches(msg, m.keyMap.Help, m.keyMap.Cancel) {
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keyMap.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keyMap.Dictate):
		return m.toggleDictation()

	case key.Matches(msg, m.keyMap.Emoji):
		m.emoji.Toggle()
		return m, nil

	case key.Matches(msg, m.keyMap.Attach):
		m.input.SetValue("/attach ")
		m.input.CursorEnd()
		m.bus.Info(MsgAttachHint)
		return m, nil

	case key.Matches(msg, m.keyMap.Settings):
		m.settings.Toggle()
		return m, nil

	case key.Matches(msg, m.keyMap.Clear):
		m.confirm.Open(actionClear, "Clear chat", MsgClearPrompt)
		return m, nil

	case key.Matches(msg, m.keyMap.Export):
		return m.exportTranscript()

	case key.Matches(msg, m.keyMap.Copy):
		return m.copyLastReply()

	case key.Matches(msg, m.keyMap.QuickAction):
		idx, _ := quickActionIndex(msg.String())
		return m.triggerQuickAction(idx)

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	// Suggestion chips.
	if m.suggestions.Visible() {
		switch {
		case key.Matches(msg, m.keyMap.NextChip):
			m.suggestions.Next()
			return m, nil
		case key.Matches(msg, m.keyMap.PrevChip):
			m.suggestions.Prev()
			return m, nil
		case key.Matches(msg, m.keyMap.Cancel) && m.suggestions.Selecting():
			m.suggestions.ClearSelection()
			return m, nil
		case key.Matches(msg, m.keyMap.Send) && m.suggestions.Selecting():
			text, _ := m.suggestions.Selected()
			return m.selectSuggestion(text), nil
		}
	}

	if key.Matches(msg, m.keyMap.Send) {
		return m.submit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch strings.ToLower(msg.String()) {
	case "y":
		if m.confirm.Close() == actionClear {
			return m.clearTranscript()
		}
		return m, nil
	case "n", "esc":
		m.confirm.Close()
	}
	return m, nil
}

func (m Model) handleSettingsKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+s":
		m.settings.Hide()
	case "up", "k":
		m.settings.Up()
	case "down", "j":
		m.settings.Down()
	case " ", "space", "enter", "right", "l":
		return m.changeSetting(m.settings.Current(), 1), nil
	case "left", "h":
		return m.changeSetting(m.settings.Current(), -1), nil
	}
	return m, nil
}

func (m Model) handleEmojiKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch msg.String() {
	case "esc", "ctrl+e":
		m.emoji.Hide()
	case "left":
		m.emoji.Move(-1, 0)
	case "right":
		m.emoji.Move(1, 0)
	case "up":
		m.emoji.Move(0, -1)
	case "down":
		m.emoji.Move(0, 1)
	case "enter":
		m.insertEmoji(m.emoji.Selected())
	default:
		return m, nil, false
	}
	return m, nil, true
}

// =============================================================================
// INPUT CONTROLLER
// =============================================================================

// submit handles the send key: slash commands run locally, anything else is
// sent.
func (m Model) submit() (Model, tea.Cmd) {
	if name, args, ok := parseCommand(m.input.Value()); ok {
		if next, cmd, handled := m.runCommand(name, args); handled {
			return next, cmd
		}
	}
	return m.send(m.input.Value())
}

// send posts text. It does nothing when text is blank or a send is already
// in flight.
func (m Model) send(text string) (Model, tea.Cmd) {
	text = strings.TrimSpace(text)
	if text == "" || m.isTyping || m.client == nil {
		return m, nil
	}

	m.input.Reset()
	m.suggestions.Hide()
	m.isTyping = true
	m.header.Status = components.StatusTyping

	log.Debug().Int("length", len(text)).Msg("sending message")
	return m, tea.Batch(
		m.spinner.Tick,
		SendCmd(m.session.context(), m.client, text, m.timeout),
	)
}

func (m Model) handleSendResult(msg SendResultMsg) (Model, tea.Cmd) {
	m.isTyping = false
	m.header.Status = m.idleStatus()
	cmd := m.input.Focus()

	if msg.Err != nil {
		log.Warn().Err(msg.Err).Str("type", exchange.TypeOf(msg.Err).String()).Msg("send failed")
		m.bus.Error(exchange.SendFailureText(msg.Err))
		return m, cmd
	}

	res := msg.Result
	m.appendMessages(res.UserMessage, res.BotMessage)
	m.suggestions.Show(res.Suggestions, m.prefs.Current().AutoSuggestions)
	if m.prefs.Current().SoundEnabled {
		m.player.Play()
	}
	return m, cmd
}

// triggerQuickAction prefills the input with the action's text and sends it.
func (m Model) triggerQuickAction(idx int) (Model, tea.Cmd) {
	if idx < 0 || idx >= len(m.quickActions) {
		return m, nil
	}
	m.input.SetValue(m.quickActions[idx].Text)
	return m.send(m.input.Value())
}

// selectSuggestion copies a chip into the input and hides the panel. It never
// sends.
func (m Model) selectSuggestion(text string) Model {
	m.input.SetValue(text)
	m.input.CursorEnd()
	m.suggestions.Hide()
	return m
}

// SelectSuggestion selects the chip at index i, if there is one.
func (m Model) SelectSuggestion(i int) Model {
	items := m.suggestions.Items()
	if !m.suggestions.Visible() || i < 0 || i >= len(items) {
		return m
	}
	return m.selectSuggestion(items[i])
}

func (m *Model) insertEmoji(e string) {
	if e == "" {
		return
	}
	m.input.InsertString(normalizeInput(e))
	m.emoji.Hide()
}

// runCommand handles the local slash commands. handled is false for
// anything unknown, which is then sent as a message.
func (m Model) runCommand(name, args string) (Model, tea.Cmd, bool) {
	switch name {
	case "attach":
		m.input.Reset()
		m.attach(args)
		return m, nil, true
	case "quick":
		m.input.Reset()
		texts := make([]string, 0, len(m.quickActions))
		for _, qa := range m.quickActions {
			texts = append(texts, qa.Text)
		}
		if len(texts) == 0 {
			m.bus.Info(MsgNoQuickActions)
			return m, nil, true
		}
		m.suggestions.Show(texts, true)
		return m, nil, true
	case "clear":
		m.input.Reset()
		m.confirm.Open(actionClear, "Clear chat", MsgClearPrompt)
		return m, nil, true
	case "export":
		m.input.Reset()
		next, cmd := m.exportTranscript()
		return next, cmd, true
	case "settings":
		m.input.Reset()
		m.settings.Toggle()
		return m, nil, true
	case "help":
		m.input.Reset()
		m.showHelp = true
		return m, nil, true
	}
	return m, nil, false
}

// attach acknowledges a file without uploading it.
func (m *Model) attach(path string) {
	if path == "" {
		m.bus.Info(MsgAttachHint)
		return
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		m.bus.Error("File not found: " + path)
		return
	}
	m.bus.Info(`File "` + filepath.Base(path) + `" selected. This feature is coming soon!`)
}

// =============================================================================
// DICTATION
// =============================================================================

func (m Model) toggleDictation() (Model, tea.Cmd) {
	if m.engine == nil {
		m.bus.Error(dictation.UnsupportedText)
		return m, nil
	}
	if m.dictationStarting {
		// Stopped once the engine reports it has started.
		m.stopRequested = true
		return m, nil
	}
	if m.isRecording {
		return m, stopDictationCmd(m.engine)
	}
	m.isRecording = true
	m.dictationStarting = true
	m.header.Status = components.StatusRecording
	return m, startDictationCmd(m.session.context(), m.engine)
}

func (m Model) handleDictationStarted(msg DictationStartedMsg) (Model, tea.Cmd) {
	stop := m.stopRequested
	m.dictationStarting = false
	m.stopRequested = false
	if msg.Err != nil {
		log.Warn().Err(msg.Err).Msg("dictation failed to start")
		m.isRecording = false
		m.header.Status = m.idleStatus()
		m.bus.Error("Voice recognition error: " + msg.Err.Error())
		return m, nil
	}
	wait := waitForDictation(m.session.context(), m.engine)
	if stop {
		return m, tea.Batch(wait, stopDictationCmd(m.engine))
	}
	return m, wait
}

func (m Model) handleDictationEvent(msg DictationEventMsg) (Model, tea.Cmd) {
	switch msg.Event.Type {
	case dictation.EventResult:
		m.input.SetValue(normalizeInput(msg.Event.Text))
		m.input.CursorEnd()
	case dictation.EventError:
		m.bus.Error("Voice recognition error: " + msg.Event.Err.Error())
	case dictation.EventEnd:
		m.isRecording = false
		m.header.Status = m.idleStatus()
		return m, nil
	}
	return m, waitForDictation(m.session.context(), m.engine)
}

func (m Model) idleStatus() components.Status {
	switch {
	case m.isTyping:
		return components.StatusTyping
	case m.isRecording:
		return components.StatusRecording
	default:
		return components.StatusOnline
	}
}

// =============================================================================
// EXPORT / CLEAR / COPY
// =============================================================================

func (m Model) exportTranscript() (Model, tea.Cmd) {
	if m.client == nil {
		return m, nil
	}
	return m, ExportCmd(m.session.context(), m.client, m.exportOpts, m.timeout)
}

func (m Model) handleExportResult(msg ExportResultMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		log.Warn().Err(msg.Err).Msg("export failed")
		m.bus.Error(exchange.MsgExport)
		return m, nil
	}
	log.Info().Str("path", msg.Path).Msg("chat exported")
	m.bus.Success(MsgExported + " Saved to " + msg.Path)
	return m, nil
}

func (m Model) clearTranscript() (Model, tea.Cmd) {
	if m.client == nil {
		return m, nil
	}
	return m, ClearCmd(m.session.context(), m.client, m.timeout)
}

// handleClearResult empties the transcript on success. A rejection changes
// nothing visible; a transport failure is reported.
func (m Model) handleClearResult(msg ClearResultMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		if exchange.IsRejected(msg.Err) {
			log.Info().Err(msg.Err).Msg("clear rejected by backend")
			return m, nil
		}
		log.Warn().Err(msg.Err).Msg("clear failed")
		m.bus.Error(exchange.MsgClear)
		return m, nil
	}
	m.transcript.Clear()
	m.suggestions.Hide()
	m.refreshTranscript()
	m.bus.Success(MsgCleared)
	return m, nil
}

func (m Model) copyLastReply() (Model, tea.Cmd) {
	last, ok := m.transcript.LastFrom(model.RoleCounterpart)
	if !ok || strings.TrimSpace(last.Text) == "" {
		m.bus.Warning(MsgNothingToCopy)
		return m, nil
	}
	return m, copyCmd(m.copyFn, components.StripTags(last.Text))
}

// =============================================================================
// SETTINGS
// =============================================================================

// changeSetting flips a toggle or steps the font size by dir, applies the
// result and saves it at once.
func (m Model) changeSetting(row components.SettingRow, dir int) Model {
	cur := m.prefs.Current()
	var (
		p   prefs.Preferences
		err error
	)
	switch row {
	case components.RowSound:
		p, err = m.prefs.SetSound(!cur.SoundEnabled)
	case components.RowDarkMode:
		p, err = m.prefs.SetDarkMode(!cur.DarkMode)
	case components.RowAutoSuggestions:
		p, err = m.prefs.SetAutoSuggestions(!cur.AutoSuggestions)
	case components.RowFontSize:
		next := cur.FontSize.Next()
		if dir < 0 {
			next = cur.FontSize.Prev()
		}
		p, err = m.prefs.SetFontSize(next)
	default:
		return m
	}
	if err != nil {
		log.Error().Err(err).Str("setting", row.Key()).Msg("failed to save preferences")
		m.bus.Error(MsgSettingsFailed)
	}

	m.applyPreferences(p)
	return m
}

// applyPreferences replays p onto every view element.
func (m *Model) applyPreferences(p prefs.Preferences) {
	m.theme.Apply(p)
	m.spinner.Style = m.theme.Typing
	m.header.SoundOn = p.SoundEnabled
	m.refreshTranscript()
}

// =============================================================================
// CONVERSATION RENDERER
// =============================================================================

// appendMessages adds msgs to the transcript in order and scrolls to the
// newest entry.
func (m *Model) appendMessages(msgs ...model.Message) {
	m.transcript.Append(msgs...)
	m.refreshTranscript()
}

// refreshTranscript re-renders the transcript into the viewport and scrolls
// to the bottom.
func (m *Model) refreshTranscript() {
	m.header.MessageCount = m.transcript.Len()
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}
