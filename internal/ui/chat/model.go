// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

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
// OPTIONS
// =============================================================================

// Options wires a chat model to its collaborators. Only Client is required.
type Options struct {
	// Client talks to the backend.
	Client Exchanger

	// Prefs loads and saves preferences. Nil keeps them in memory.
	Prefs *prefs.Manager

	// Bus carries notices to the toast stack. Nil creates a private bus.
	Bus *notify.Bus

	// Dictation is the speech service. Nil means the capability is absent.
	Dictation dictation.Engine

	// Sound plays the notification tone. Nil is silent.
	Sound *sound.Player

	// Export says where exported transcripts are saved.
	Export *export.Options

	// QuickActions are used until, or instead of, the backend's list.
	QuickActions []exchange.QuickAction

	// RenderMarkdown renders bot replies through glamour.
	RenderMarkdown bool

	// Timeout bounds every backend request.
	Timeout time.Duration

	// Copy writes to the clipboard. Nil uses the system clipboard.
	Copy func(string) error

	// Context parents every request and dictation session.
	Context context.Context
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat screen. It holds a typed
// reference to every interactive element.
type Model struct {
	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// Collaborators
	client     Exchanger
	prefs      *prefs.Manager
	bus        *notify.Bus
	notices    <-chan notify.Notice
	engine     dictation.Engine
	player     *sound.Player
	exportOpts *export.Options
	copyFn     func(string) error
	timeout    time.Duration
	session    *cancelManager // Pointer so model copies share one context
	markdown   *components.MarkdownRenderer

	// Conversation
	transcript   *model.Transcript
	quickActions []exchange.QuickAction

	// UI session state
	isTyping          bool // A send is in flight
	isRecording       bool // A dictation session is active
	dictationStarting bool // Start has been issued but not answered
	stopRequested     bool // Stop pressed while starting
	toastTicking      bool // A ToastTickCmd is outstanding
	showHelp          bool

	// UI Components
	input       textarea.Model
	viewport    viewport.Model
	spinner     spinner.Model
	help        help.Model
	keyMap      KeyMap
	header      *components.Header
	statusBar   *components.StatusBar
	suggestions *components.SuggestionPanel
	emoji       *components.EmojiPicker
	settings    *components.SettingsPanel
	confirm     *components.ConfirmDialog
	toasts      *components.ToastManager
}

// New creates a chat model. The theme is brought in line with the current
// preferences.
func New(theme *styles.Theme, opts Options) Model {
	if opts.Prefs == nil {
		opts.Prefs = prefs.NewManager(storage.NewMemoryStore())
	}
	if opts.Bus == nil {
		opts.Bus = notify.NewBus()
	}
	if opts.Copy == nil {
		opts.Copy = copyToClipboard
	}
	if opts.Export == nil {
		opts.Export = export.DefaultOptions()
	}

	current := opts.Prefs.Current()
	theme.Apply(current)

	ta := textarea.New()
	ta.Placeholder = "Ask Dr. HealthMate about your health..."
	ta.Prompt = "┃ "
	ta.ShowLineNumbers = false
	ta.CharLimit = 2000
	ta.SetHeight(3)
	// enter is taken by send; the secondary modifier inserts a newline.
	km := DefaultKeyMap()
	ta.KeyMap.InsertNewline = km.Newline
	ta.Focus()

	vp := viewport.New(80, 20)
	vp.KeyMap = viewport.KeyMap{}

	sp := spinner.New()
	sp.Spinner = styles.TypingSpinner
	sp.Style = theme.Typing

	header := components.NewHeader(theme)
	header.SoundOn = current.SoundEnabled

	statusBar := components.NewStatusBar(theme)
	statusBar.Bindings = km.ShortHelp()

	m := Model{
		theme:        theme,
		client:       opts.Client,
		prefs:        opts.Prefs,
		bus:          opts.Bus,
		notices:      opts.Bus.Subscribe(),
		engine:       opts.Dictation,
		player:       opts.Sound,
		exportOpts:   opts.Export,
		copyFn:       opts.Copy,
		timeout:      opts.Timeout,
		session:      newCancelManager(opts.Context),
		transcript:   model.NewTranscript(),
		quickActions: opts.QuickActions,
		input:        ta,
		viewport:     vp,
		spinner:      sp,
		help:         help.New(),
		keyMap:       km,
		header:       header,
		statusBar:    statusBar,
		suggestions:  components.NewSuggestionPanel(theme),
		emoji:        components.NewEmojiPicker(theme),
		settings:     components.NewSettingsPanel(theme),
		confirm:      components.NewConfirmDialog(theme),
		toasts:       components.NewToastManager(),
	}
	if opts.RenderMarkdown {
		m.markdown = components.NewMarkdownRenderer()
	}
	m.refreshTranscript()
	return m
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts listening for notices, fetches the quick actions and plays the
// startup tone.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink, WaitForNotice(m.notices)}
	if m.client != nil {
		cmds = append(cmds, QuickActionsCmd(m.session.context(), m.client, m.timeout))
	}
	if m.prefs.Current().SoundEnabled && m.player != nil {
		player := m.player
		cmds = append(cmds, func() tea.Msg {
			player.Play()
			return nil
		})
	}
	return tea.Batch(cmds...)
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Transcript returns the rendered messages in order.
func (m Model) Transcript() []model.Message {
	return m.transcript.Messages()
}

// InputValue returns the text in the input field.
func (m Model) InputValue() string {
	return m.input.Value()
}

// SetInput replaces the input field's text.
func (m *Model) SetInput(s string) {
	m.input.SetValue(s)
}

// IsTyping reports whether a send is in flight.
func (m Model) IsTyping() bool {
	return m.isTyping
}

// IsRecording reports whether dictation is active.
func (m Model) IsRecording() bool {
	return m.isRecording
}

// SendEnabled reports whether the send affordance is active: the trimmed
// input is non-empty and no send is in flight.
func (m Model) SendEnabled() bool {
	return strings.TrimSpace(m.input.Value()) != "" && !m.isTyping
}

// SuggestionsVisible reports whether the suggestion panel is shown.
func (m Model) SuggestionsVisible() bool {
	return m.suggestions.Visible()
}

// Suggestions returns the stored suggestion chips.
func (m Model) Suggestions() []string {
	return m.suggestions.Items()
}

// Preferences returns the preferences in effect.
func (m Model) Preferences() prefs.Preferences {
	return m.prefs.Current()
}

// QuickActions returns the quick actions bound to alt+1..9.
func (m Model) QuickActions() []exchange.QuickAction {
	return m.quickActions
}

// Toasts returns the visible toasts, newest first.
func (m Model) Toasts() []components.Toast {
	return m.toasts.GetToasts()
}

// Close cancels outstanding requests and dictation.
func (m Model) Close() {
	m.session.stop()
}
