// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/healthmate-tui/internal/dictation"
	"github.com/jeranaias/healthmate-tui/internal/exchange"
	"github.com/jeranaias/healthmate-tui/internal/export"
	"github.com/jeranaias/healthmate-tui/internal/model"
	"github.com/jeranaias/healthmate-tui/internal/notify"
	"github.com/jeranaias/healthmate-tui/internal/prefs"
	"github.com/jeranaias/healthmate-tui/internal/sound"
	"github.com/jeranaias/healthmate-tui/internal/storage"
	"github.com/jeranaias/healthmate-tui/internal/ui/components"
	"github.com/jeranaias/healthmate-tui/internal/ui/styles"
)

// =============================================================================
// FAKES
// =============================================================================

type fakeExchanger struct {
	mu sync.Mutex

	sent       []string
	sendResult *exchange.SendResult
	sendErr    error

	exportResult *exchange.ExportResult
	exportErr    error
	exports      int

	clearErr error
	clears   int

	actions    []exchange.QuickAction
	actionsErr error
}

func (f *fakeExchanger) Send(ctx context.Context, text string) (*exchange.SendResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	return f.sendResult, nil
}

func (f *fakeExchanger) Export(ctx context.Context) (*exchange.ExportResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exports++
	return f.exportResult, f.exportErr
}

func (f *fakeExchanger) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	return f.clearErr
}

func (f *fakeExchanger) QuickActions(ctx context.Context) ([]exchange.QuickAction, error) {
	return f.actions, f.actionsErr
}

func (f *fakeExchanger) sentMessages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

// hungExchanger never answers a send; only the request context ends it.
type hungExchanger struct {
	*fakeExchanger
}

func (h hungExchanger) Send(ctx context.Context, text string) (*exchange.SendResult, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type fakeEngine struct {
	events   chan dictation.Event
	startErr error

	mu      sync.Mutex
	started int
	stopped int
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{events: make(chan dictation.Event, 4)}
}

func (e *fakeEngine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.started++
	return e.startErr
}

func (e *fakeEngine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopped++
	return nil
}

func (e *fakeEngine) Events() <-chan dictation.Event {
	return e.events
}

// =============================================================================
// HELPERS
// =============================================================================

func helloResult() *exchange.SendResult {
	return &exchange.SendResult{
		UserMessage: model.Message{Sender: "You", Text: "Hello", Timestamp: "10:00"},
		BotMessage:  model.Message{Sender: "Bot", Text: "Hi!", Timestamp: "10:00"},
		Suggestions: []string{"How are you?"},
	}
}

type harness struct {
	client *fakeExchanger
	store  *storage.MemoryStore
	prefs  *prefs.Manager
	opts   Options
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := storage.NewMemoryStore()
	h := &harness{
		client: &fakeExchanger{sendResult: helloResult()},
		store:  store,
		prefs:  prefs.NewManager(store),
	}
	h.opts = Options{
		Client:  h.client,
		Prefs:   h.prefs,
		Bus:     notify.NewBus(),
		Export:  &export.Options{Dir: t.TempDir()},
		Timeout: time.Second,
	}
	return h
}

func (h *harness) model() Model {
	theme := styles.NewTheme(io.Discard, false, prefs.FontMedium)
	m := New(theme, h.opts)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func press(t *testing.T, m Model, k tea.KeyType) (Model, tea.Cmd) {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: k})
}

func pressRune(t *testing.T, m Model, r rune) (Model, tea.Cmd) {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

// runCmd executes cmd and any batch it expands to, dropping commands that
// block (such as the notice listener).
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, runCmd(c)...)
			}
			return out
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(300 * time.Millisecond):
		return nil
	}
}

// find returns the first message of type T produced by cmd.
func find[T tea.Msg](t *testing.T, cmd tea.Cmd) T {
	t.Helper()
	for _, msg := range runCmd(cmd) {
		if v, ok := msg.(T); ok {
			return v
		}
	}
	var zero T
	t.Fatalf("no %T produced", zero)
	return zero
}

// drainNotices returns every notice published so far.
func drainNotices(m Model) []notify.Notice {
	var out []notify.Notice
	for {
		select {
		case n := <-m.notices:
			out = append(out, n)
		default:
			return out
		}
	}
}

// sendHello types Hello, presses enter and feeds the response back.
func sendHello(t *testing.T, m Model) Model {
	t.Helper()
	m = typeText(t, m, "Hello")
	m, cmd := press(t, m, tea.KeyEnter)
	res := find[SendResultMsg](t, cmd)
	m, _ = update(t, m, res)
	return m
}

// =============================================================================
// SEND TESTS
// =============================================================================

func TestSend_WhitespaceSendsNothing(t *testing.T) {
	h := newHarness(t)
	m := h.model()

	for _, input := range []string{"   ", "\t", " \t "} {
		m.SetInput(input)
		var cmd tea.Cmd
		m, cmd = press(t, m, tea.KeyEnter)
		assert.Nil(t, cmd, "input %q", input)
	}
	assert.Empty(t, h.client.sentMessages())
	assert.Empty(t, m.Transcript())
	assert.False(t, m.IsTyping())
	assert.False(t, m.SendEnabled())
}

func TestSend_SecondSendWhileInFlightIsNoop(t *testing.T) {
	h := newHarness(t)
	m := h.model()

	m = typeText(t, m, "Hello")
	m, first := press(t, m, tea.KeyEnter)
	require.NotNil(t, first)
	require.True(t, m.IsTyping())

	m = typeText(t, m, "Again")
	assert.False(t, m.SendEnabled(), "send affordance is off while in flight")
	m, second := press(t, m, tea.KeyEnter)
	assert.Nil(t, second)
	assert.Equal(t, "Again", m.InputValue(), "refused send leaves the input alone")

	find[SendResultMsg](t, first)
	assert.Equal(t, []string{"Hello"}, h.client.sentMessages())
}

func TestSend_HelloScenario(t *testing.T) {
	h := newHarness(t)
	m := h.model()

	m = typeText(t, m, "Hello")
	assert.True(t, m.SendEnabled())

	m, cmd := press(t, m, tea.KeyEnter)
	assert.Equal(t, "", m.InputValue(), "input clears immediately")
	assert.True(t, m.IsTyping(), "typing indicator shows")
	assert.Contains(t, m.View(), "is typing")

	res := find[SendResultMsg](t, cmd)
	m, _ = update(t, m, res)

	msgs := m.Transcript()
	require.Len(t, msgs, 2)
	assert.Equal(t, "You", msgs[0].Sender)
	assert.Equal(t, "Hello", msgs[0].Text)
	assert.Equal(t, "Bot", msgs[1].Sender)
	assert.Equal(t, "Hi!", msgs[1].Text)

	assert.True(t, m.SuggestionsVisible())
	assert.Equal(t, []string{"How are you?"}, m.Suggestions())
	assert.False(t, m.IsTyping())
	assert.NotContains(t, m.View(), "is typing")
	assert.Contains(t, m.View(), "How are you?")
}

func TestSend_TrimsBeforeSending(t *testing.T) {
	h := newHarness(t)
	m := h.model()
	m.SetInput("  Hello  ")
	_, cmd := press(t, m, tea.KeyEnter)
	find[SendResultMsg](t, cmd)
	assert.Equal(t, []string{"Hello"}, h.client.sentMessages())
}

func TestSend_FailureRestoresInteractiveState(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"transport", &exchange.ClientError{Type: exchange.ErrTypeTransport, Message: "dial"}, exchange.MsgTransport},
		{"rejected", &exchange.ClientError{Type: exchange.ErrTypeRejected, Message: "no"}, exchange.MsgRejected},
		{"unknown", errors.New("boom"), exchange.MsgTransport},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			h.client.sendErr = tc.err
			m := h.model()

			m = sendHello(t, m)
			assert.False(t, m.IsTyping())
			assert.Empty(t, m.Transcript(), "the outgoing message is lost")

			notices := drainNotices(m)
			require.Len(t, notices, 1)
			assert.Equal(t, notify.KindError, notices[0].Kind)
			assert.Equal(t, tc.want, notices[0].Text)

			// The user can retry straight away.
			h.client.sendErr = nil
			m = sendHello(t, m)
			assert.Len(t, m.Transcript(), 2)
		})
	}
}

func TestSend_HungRequestTimesOut(t *testing.T) {
	h := newHarness(t)
	h.opts.Client = hungExchanger{h.client}
	h.opts.Timeout = 20 * time.Millisecond
	m := h.model()

	m = typeText(t, m, "Hello")
	m, cmd := press(t, m, tea.KeyEnter)
	require.True(t, m.IsTyping())

	m, _ = update(t, m, find[SendResultMsg](t, cmd))
	assert.False(t, m.IsTyping())
	assert.Empty(t, m.Transcript())

	notices := drainNotices(m)
	require.Len(t, notices, 1)
	assert.Equal(t, exchange.MsgTransport, notices[0].Text)

	m, _ = update(t, m, NoticeMsg{Notice: notices[0]})
	toasts := m.Toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, notify.KindError, toasts[0].Kind)
	assert.Equal(t, exchange.MsgTransport, toasts[0].Message)

	m = typeText(t, m, "Again")
	assert.True(t, m.SendEnabled())
}

func TestSend_NewlineKeyInsertsInsteadOfSending(t *testing.T) {
	h := newHarness(t)
	m := h.model()

	m = typeText(t, m, "line one")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter, Alt: true})
	m = typeText(t, m, "line two")

	assert.Empty(t, h.client.sentMessages())
	for _, msg := range runCmd(cmd) {
		_, isResult := msg.(SendResultMsg)
		assert.False(t, isResult)
	}
	assert.Equal(t, "line one\nline two", m.InputValue())
}

// =============================================================================
// SUGGESTION TESTS
// =============================================================================

func TestSuggestions_HiddenOnSendAndStayHiddenOnEmptyList(t *testing.T) {
	h := newHarness(t)
	m := sendHello(t, h.model())
	require.True(t, m.SuggestionsVisible())

	h.client.sendResult = &exchange.SendResult{
		UserMessage: model.Message{Sender: "You", Text: "Hello"},
		BotMessage:  model.Message{Sender: "Bot", Text: "Again?"},
	}
	m = typeText(t, m, "Hello")
	m, cmd := press(t, m, tea.KeyEnter)
	assert.False(t, m.SuggestionsVisible(), "send hides the panel")

	m, _ = update(t, m, find[SendResultMsg](t, cmd))
	assert.False(t, m.SuggestionsVisible(), "an empty list does not reopen it")
	assert.Equal(t, []string{"How are you?"}, m.Suggestions(), "hidden chips are kept")
}

func TestSuggestions_SelectCopiesIntoInputWithoutSending(t *testing.T) {
	h := newHarness(t)
	h.client.sendResult.Suggestions = []string{"a", "b"}
	m := sendHello(t, h.model())

	m, _ = press(t, m, tea.KeyTab)
	m, _ = press(t, m, tea.KeyTab)
	m, cmd := press(t, m, tea.KeyEnter)

	assert.Nil(t, cmd)
	assert.Equal(t, "b", m.InputValue())
	assert.False(t, m.SuggestionsVisible())
	assert.True(t, m.SendEnabled())
	assert.Equal(t, []string{"Hello"}, h.client.sentMessages())
}

func TestSuggestions_EscLeavesChipSelection(t *testing.T) {
	h := newHarness(t)
	h.client.sendResult.Suggestions = []string{"a", "b"}
	m := sendHello(t, h.model())

	m, _ = press(t, m, tea.KeyTab)
	m, _ = press(t, m, tea.KeyEsc)
	assert.True(t, m.SuggestionsVisible())

	// With no chip highlighted, enter sends the typed text instead.
	m = typeText(t, m, "typed")
	_, cmd := press(t, m, tea.KeyEnter)
	find[SendResultMsg](t, cmd)
	assert.Equal(t, []string{"Hello", "typed"}, h.client.sentMessages())
}

func TestSuggestions_SelectSuggestionByIndex(t *testing.T) {
	h := newHarness(t)
	h.client.sendResult.Suggestions = []string{"a", "b"}
	m := sendHello(t, h.model())

	m = m.SelectSuggestion(1)
	assert.Equal(t, "b", m.InputValue())
	assert.False(t, m.SuggestionsVisible())

	m = m.SelectSuggestion(0)
	assert.Equal(t, "b", m.InputValue(), "hidden panel has nothing to select")
}

func TestSuggestions_DisabledPreferenceNeverShows(t *testing.T) {
	h := newHarness(t)
	_, err := h.prefs.SetAutoSuggestions(false)
	require.NoError(t, err)

	m := sendHello(t, h.model())
	assert.Len(t, m.Transcript(), 2)
	assert.False(t, m.SuggestionsVisible())
}

// =============================================================================
// CLEAR / EXPORT TESTS
// =============================================================================

func TestClear_ConfirmedClearsTranscript(t *testing.T) {
	h := newHarness(t)
	m := sendHello(t, h.model())
	require.True(t, m.SuggestionsVisible())

	m, cmd := press(t, m, tea.KeyCtrlL)
	assert.Nil(t, cmd, "nothing is sent before confirmation")
	assert.Contains(t, m.View(), MsgClearPrompt)

	m, cmd = pressRune(t, m, 'y')
	res := find[ClearResultMsg](t, cmd)
	m, _ = update(t, m, res)

	assert.Equal(t, 1, h.client.clears)
	assert.Empty(t, m.Transcript())
	assert.False(t, m.SuggestionsVisible())

	notices := drainNotices(m)
	require.Len(t, notices, 1)
	assert.Equal(t, notify.KindSuccess, notices[0].Kind)
	assert.Equal(t, MsgCleared, notices[0].Text)
}

func TestClear_DeclinedDoesNothing(t *testing.T) {
	h := newHarness(t)
	m := sendHello(t, h.model())

	m, _ = press(t, m, tea.KeyCtrlL)
	m, cmd := pressRune(t, m, 'n')
	assert.Nil(t, cmd)
	assert.NotContains(t, m.View(), MsgClearPrompt)

	m, _ = press(t, m, tea.KeyCtrlL)
	m, cmd = press(t, m, tea.KeyEsc)
	assert.Nil(t, cmd)

	assert.Equal(t, 0, h.client.clears)
	assert.Len(t, m.Transcript(), 2)
}

func TestClear_Failures(t *testing.T) {
	t.Run("rejected is silent", func(t *testing.T) {
		h := newHarness(t)
		h.client.clearErr = &exchange.ClientError{Type: exchange.ErrTypeRejected, Message: "no"}
		m := sendHello(t, h.model())

		m, _ = press(t, m, tea.KeyCtrlL)
		m, cmd := pressRune(t, m, 'y')
		m, _ = update(t, m, find[ClearResultMsg](t, cmd))

		assert.Len(t, m.Transcript(), 2)
		assert.Empty(t, drainNotices(m))
	})

	t.Run("transport is reported", func(t *testing.T) {
		h := newHarness(t)
		h.client.clearErr = &exchange.ClientError{Type: exchange.ErrTypeTransport, Message: "dial"}
		m := sendHello(t, h.model())

		m, _ = press(t, m, tea.KeyCtrlL)
		m, cmd := pressRune(t, m, 'y')
		m, _ = update(t, m, find[ClearResultMsg](t, cmd))

		assert.Len(t, m.Transcript(), 2)
		notices := drainNotices(m)
		require.Len(t, notices, 1)
		assert.Equal(t, exchange.MsgClear, notices[0].Text)
	})
}

func TestExport_WritesFileAndLeavesTranscript(t *testing.T) {
	h := newHarness(t)
	h.client.exportResult = &exchange.ExportResult{ExportText: "You: Hello\nBot: Hi!\n", Filename: "chat.txt"}
	m := sendHello(t, h.model())
	before := m.Transcript()

	m, cmd := press(t, m, tea.KeyCtrlX)
	res := find[ExportResultMsg](t, cmd)
	require.NoError(t, res.Err)
	assert.Equal(t, "chat.txt", filepath.Base(res.Path))
	assert.Equal(t, h.opts.Export.Dir, filepath.Dir(res.Path))

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, "You: Hello\nBot: Hi!\n", string(data))

	m, _ = update(t, m, res)
	assert.Equal(t, before, m.Transcript())

	notices := drainNotices(m)
	require.Len(t, notices, 1)
	assert.Equal(t, notify.KindSuccess, notices[0].Kind)
	assert.True(t, strings.HasPrefix(notices[0].Text, MsgExported))
}

func TestExport_FailureShowsError(t *testing.T) {
	h := newHarness(t)
	h.client.exportErr = &exchange.ClientError{Type: exchange.ErrTypeTransport, Message: "dial"}
	m := h.model()

	m, cmd := press(t, m, tea.KeyCtrlX)
	m, _ = update(t, m, find[ExportResultMsg](t, cmd))

	notices := drainNotices(m)
	require.Len(t, notices, 1)
	assert.Equal(t, notify.KindError, notices[0].Kind)
	assert.Equal(t, exchange.MsgExport, notices[0].Text)
}

// =============================================================================
// QUICK ACTION TESTS
// =============================================================================

func TestQuickAction_PrefillsAndSends(t *testing.T) {
	h := newHarness(t)
	h.opts.QuickActions = []exchange.QuickAction{
		{Text: "Check symptoms", Icon: "🔍"},
		{Text: "Medication info", Icon: "💊"},
	}
	m := h.model()

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}, Alt: true})
	require.NotNil(t, cmd)
	assert.True(t, m.IsTyping())
	find[SendResultMsg](t, cmd)
	assert.Equal(t, []string{"Medication info"}, h.client.sentMessages())

	// Out of range does nothing.
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'9'}, Alt: true})
	assert.Nil(t, cmd)
}

func TestQuickAction_BackendListReplacesConfigured(t *testing.T) {
	h := newHarness(t)
	h.opts.QuickActions = []exchange.QuickAction{{Text: "configured"}}
	m := h.model()

	m, _ = update(t, m, QuickActionsMsg{Err: errors.New("offline")})
	assert.Equal(t, "configured", m.QuickActions()[0].Text)

	m, _ = update(t, m, QuickActionsMsg{Actions: []exchange.QuickAction{{Text: "Health tips"}}})
	assert.Equal(t, "Health tips", m.QuickActions()[0].Text)
}

func TestQuickCommand_ShowsActionsAsChips(t *testing.T) {
	h := newHarness(t)
	h.opts.QuickActions = []exchange.QuickAction{{Text: "Health tips"}, {Text: "Nutrition guide"}}
	m := h.model()

	m.SetInput("/quick")
	m, _ = press(t, m, tea.KeyEnter)
	assert.Empty(t, h.client.sentMessages())
	assert.True(t, m.SuggestionsVisible())
	assert.Equal(t, []string{"Health tips", "Nutrition guide"}, m.Suggestions())
	assert.Equal(t, "", m.InputValue())
}

// =============================================================================
// DICTATION TESTS
// =============================================================================

func TestDictation_UnsupportedShowsNotice(t *testing.T) {
	h := newHarness(t)
	m := h.model()

	m, cmd := press(t, m, tea.KeyCtrlR)
	assert.Nil(t, cmd)
	assert.False(t, m.IsRecording())

	notices := drainNotices(m)
	require.Len(t, notices, 1)
	assert.Equal(t, notify.KindError, notices[0].Kind)
	assert.Equal(t, dictation.UnsupportedText, notices[0].Text)
}

func TestDictation_ResultReplacesInput(t *testing.T) {
	h := newHarness(t)
	engine := newFakeEngine()
	h.opts.Dictation = engine
	m := h.model()
	m = typeText(t, m, "old text")

	m, cmd := press(t, m, tea.KeyCtrlR)
	assert.True(t, m.IsRecording())
	m, cmd = update(t, m, find[DictationStartedMsg](t, cmd))

	engine.events <- dictation.Event{Type: dictation.EventResult, Text: "I have a headache"}
	m, cmd = update(t, m, find[DictationEventMsg](t, cmd))
	assert.Equal(t, "I have a headache", m.InputValue())
	assert.True(t, m.IsRecording())

	engine.events <- dictation.Event{Type: dictation.EventEnd}
	m, cmd = update(t, m, find[DictationEventMsg](t, cmd))
	assert.Nil(t, cmd)
	assert.False(t, m.IsRecording())
	assert.Equal(t, 1, engine.started)
}

func TestDictation_ToggleWhileActiveStops(t *testing.T) {
	h := newHarness(t)
	engine := newFakeEngine()
	h.opts.Dictation = engine
	m := h.model()

	m, cmd := press(t, m, tea.KeyCtrlR)
	m, _ = update(t, m, find[DictationStartedMsg](t, cmd))

	m, cmd = press(t, m, tea.KeyCtrlR)
	m, _ = update(t, m, find[DictationStoppedMsg](t, cmd))
	assert.Equal(t, 1, engine.stopped)
	assert.True(t, m.IsRecording(), "the mark clears on the end event")
}

func TestDictation_ToggleWhileStartingStopsAfterStart(t *testing.T) {
	h := newHarness(t)
	engine := newFakeEngine()
	h.opts.Dictation = engine
	m := h.model()

	m, startCmd := press(t, m, tea.KeyCtrlR)
	m, cmd := press(t, m, tea.KeyCtrlR)
	assert.Nil(t, cmd)
	assert.Zero(t, engine.stopped)

	m, cmd = update(t, m, find[DictationStartedMsg](t, startCmd))
	m, _ = update(t, m, find[DictationStoppedMsg](t, cmd))
	assert.Equal(t, 1, engine.started)
	assert.Equal(t, 1, engine.stopped)

	m, _ = update(t, m, DictationEventMsg{Event: dictation.Event{Type: dictation.EventEnd}})
	assert.False(t, m.IsRecording())

	// A later toggle starts a fresh session with no stop pending.
	m, cmd = press(t, m, tea.KeyCtrlR)
	m, cmd = update(t, m, find[DictationStartedMsg](t, cmd))
	assert.True(t, m.IsRecording())
	for _, msg := range runCmd(cmd) {
		_, stopped := msg.(DictationStoppedMsg)
		assert.False(t, stopped)
	}
	assert.Equal(t, 1, engine.stopped)
}

func TestDictation_ErrorThenEnd(t *testing.T) {
	h := newHarness(t)
	engine := newFakeEngine()
	h.opts.Dictation = engine
	m := h.model()

	m, cmd := press(t, m, tea.KeyCtrlR)
	m, cmd = update(t, m, find[DictationStartedMsg](t, cmd))

	engine.events <- dictation.Event{Type: dictation.EventError, Err: dictation.ErrNoSpeech}
	m, cmd = update(t, m, find[DictationEventMsg](t, cmd))
	engine.events <- dictation.Event{Type: dictation.EventEnd}
	m, _ = update(t, m, find[DictationEventMsg](t, cmd))

	assert.False(t, m.IsRecording())
	notices := drainNotices(m)
	require.Len(t, notices, 1)
	assert.Equal(t, notify.KindError, notices[0].Kind)
	assert.Contains(t, notices[0].Text, "no speech")
}

func TestDictation_StartFailureClearsMark(t *testing.T) {
	h := newHarness(t)
	engine := newFakeEngine()
	engine.startErr = errors.New("no microphone")
	h.opts.Dictation = engine
	m := h.model()

	m, cmd := press(t, m, tea.KeyCtrlR)
	m, _ = update(t, m, find[DictationStartedMsg](t, cmd))
	assert.False(t, m.IsRecording())
	assert.Len(t, drainNotices(m), 1)
}

// =============================================================================
// EMOJI / ATTACH / COPY TESTS
// =============================================================================

func TestEmoji_InsertsAtCursorAndHides(t *testing.T) {
	h := newHarness(t)
	m := h.model()
	m = typeText(t, m, "Hi ")

	m, _ = press(t, m, tea.KeyCtrlE)
	assert.True(t, m.emoji.Visible())
	m, _ = press(t, m, tea.KeyRight)
	m, _ = press(t, m, tea.KeyEnter)

	assert.Equal(t, "Hi 😢", m.InputValue())
	assert.False(t, m.emoji.Visible())
	assert.Empty(t, h.client.sentMessages(), "enter in the picker does not send")
}

func TestEmoji_EscAndTypingHide(t *testing.T) {
	h := newHarness(t)
	m := h.model()

	m, _ = press(t, m, tea.KeyCtrlE)
	m, _ = press(t, m, tea.KeyEsc)
	assert.False(t, m.emoji.Visible())

	m, _ = press(t, m, tea.KeyCtrlE)
	m = typeText(t, m, "x")
	assert.False(t, m.emoji.Visible())
	assert.Equal(t, "x", m.InputValue())
}

func TestAttach_AcknowledgesWithoutSending(t *testing.T) {
	h := newHarness(t)
	m := h.model()

	path := filepath.Join(t.TempDir(), "labs.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF"), 0o600))

	m, _ = press(t, m, tea.KeyCtrlO)
	assert.Equal(t, "/attach ", m.InputValue())
	drainNotices(m)

	m = typeText(t, m, path)
	m, _ = press(t, m, tea.KeyEnter)

	assert.Empty(t, h.client.sentMessages())
	notices := drainNotices(m)
	require.Len(t, notices, 1)
	assert.Equal(t, `File "labs.pdf" selected. This feature is coming soon!`, notices[0].Text)

	m.SetInput("/attach " + filepath.Join(t.TempDir(), "missing.pdf"))
	m, _ = press(t, m, tea.KeyEnter)
	notices = drainNotices(m)
	require.Len(t, notices, 1)
	assert.Equal(t, notify.KindError, notices[0].Kind)
}

func TestCopy_LastReply(t *testing.T) {
	h := newHarness(t)
	var copied string
	h.opts.Copy = func(s string) error {
		copied = s
		return nil
	}
	h.client.sendResult.BotMessage.Text = "Drink <strong>water</strong>"
	m := h.model()

	m, cmd := press(t, m, tea.KeyCtrlY)
	assert.Nil(t, cmd)
	notices := drainNotices(m)
	require.Len(t, notices, 1)
	assert.Equal(t, MsgNothingToCopy, notices[0].Text)

	m = sendHello(t, m)
	m, cmd = press(t, m, tea.KeyCtrlY)
	m, _ = update(t, m, find[CopyResultMsg](t, cmd))
	assert.Equal(t, "Drink water", copied)
	notices = drainNotices(m)
	require.Len(t, notices, 1)
	assert.Equal(t, MsgCopied, notices[0].Text)
}

// =============================================================================
// SETTINGS TESTS
// =============================================================================

func TestSettings_ChangesApplyAndPersist(t *testing.T) {
	h := newHarness(t)
	m := h.model()

	m, _ = press(t, m, tea.KeyCtrlS)
	require.True(t, m.settings.Visible())

	// Dark mode.
	m, _ = press(t, m, tea.KeyDown)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.True(t, m.Preferences().DarkMode)
	assert.True(t, m.theme.DarkMode)

	blob, ok, err := h.store.Get(prefs.StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, blob, `"darkMode":true`)

	// Font size steps up and back down.
	m, _ = press(t, m, tea.KeyDown)
	m, _ = press(t, m, tea.KeyDown)
	m, _ = press(t, m, tea.KeyRight)
	assert.Equal(t, prefs.FontLarge, m.Preferences().FontSize)
	assert.Equal(t, prefs.FontLarge, m.theme.FontSize)
	m, _ = press(t, m, tea.KeyLeft)
	assert.Equal(t, prefs.FontMedium, m.Preferences().FontSize)

	// A fresh manager over the same store sees the saved record.
	reloaded, err := prefs.NewManager(h.store).Load()
	require.NoError(t, err)
	assert.Equal(t, m.Preferences(), reloaded)

	m, _ = press(t, m, tea.KeyEsc)
	assert.False(t, m.settings.Visible())
}

func TestSettings_SoundOffSilencesTone(t *testing.T) {
	h := newHarness(t)
	var out strings.Builder
	h.opts.Sound = sound.NewPlayer(&out)
	m := h.model()

	m = sendHello(t, m)
	assert.Equal(t, "\a", out.String())

	_, err := h.prefs.SetSound(false)
	require.NoError(t, err)
	out.Reset()
	m = sendHello(t, m)
	assert.Empty(t, out.String())
	assert.Len(t, m.Transcript(), 4)
}

// =============================================================================
// NOTICE / VIEW TESTS
// =============================================================================

func TestNotices_BecomeToasts(t *testing.T) {
	h := newHarness(t)
	m := h.model()

	m, cmd := update(t, m, NoticeMsg{Notice: notify.Notice{Kind: notify.KindSuccess, Text: MsgCleared, At: time.Now()}})
	require.NotNil(t, cmd)
	require.Len(t, m.Toasts(), 1)
	assert.Contains(t, m.View(), MsgCleared)

	m, _ = update(t, m, NoticeMsg{Notice: notify.Notice{Kind: notify.KindError, Text: "second", At: time.Now()}})
	assert.Len(t, m.Toasts(), 2)

	m, _ = update(t, m, components.ToastTickMsg{Time: time.Now().Add(time.Minute)})
	assert.Empty(t, m.Toasts())
	assert.False(t, m.toastTicking)
}

func TestWaitForNotice_ReturnsNextNotice(t *testing.T) {
	bus := notify.NewBus()
	ch := bus.Subscribe()
	bus.Info("hello")

	msg := WaitForNotice(ch)()
	n, ok := msg.(NoticeMsg)
	require.True(t, ok)
	assert.Equal(t, "hello", n.Notice.Text)

	bus.Close()
	_, closed := WaitForNotice(ch)().(noticesClosedMsg)
	assert.True(t, closed)
}

func TestView_EmptyStateAndHelp(t *testing.T) {
	h := newHarness(t)
	m := h.model()
	assert.Contains(t, m.View(), "Dr. HealthMate")

	m, _ = press(t, m, tea.KeyF1)
	assert.Contains(t, m.View(), "Keyboard shortcuts")
	m, _ = press(t, m, tea.KeyEsc)
	assert.NotContains(t, m.View(), "Keyboard shortcuts")
}

func TestQuit_CancelsSession(t *testing.T) {
	h := newHarness(t)
	m := h.model()
	ctx := m.session.context()

	_, cmd := press(t, m, tea.KeyCtrlC)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Error(t, ctx.Err())
}
