// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat command handler for the healthmate CLI.
//
// Command: chat
// Short:   Open the chat screen (default)
//
// Examples:
//   healthmate                 Open the chat screen
//   healthmate chat --plain    Line-based chat for simple terminals
//
// Interactive Commands (plain mode):
//   /help, /h           Show available commands
//   /quick [n]          List quick actions or send number n
//   /s n                Put suggestion number n in the next prompt
//   /settings [k v]     Show or change a preference
//   /export             Save the transcript to the download directory
//   /clear              Clear the chat history
//   /quit, /q           Exit chat
//   Ctrl+D              Exit chat

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/peterh/liner"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jeranaias/healthmate-tui/internal/config"
	"github.com/jeranaias/healthmate-tui/internal/dictation"
	"github.com/jeranaias/healthmate-tui/internal/exchange"
	"github.com/jeranaias/healthmate-tui/internal/export"
	"github.com/jeranaias/healthmate-tui/internal/model"
	"github.com/jeranaias/healthmate-tui/internal/notify"
	"github.com/jeranaias/healthmate-tui/internal/prefs"
	"github.com/jeranaias/healthmate-tui/internal/sound"
	"github.com/jeranaias/healthmate-tui/internal/ui/chat"
	"github.com/jeranaias/healthmate-tui/internal/ui/components"
	"github.com/jeranaias/healthmate-tui/internal/ui/styles"
)

const promptText = "you> "

func newChatCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Open the chat screen (default)",
		Long: `Open the full-screen chat. Press F1 inside for the keyboard shortcuts.

With --plain the chat runs line by line instead, which also works when
stdin is not a terminal.`,
		Example: `  healthmate chat
  healthmate chat --plain`,
		Args: cobra.NoArgs,
		RunE: a.runChat,
	}
	cmd.Flags().BoolVar(&a.opts.plain, "plain", false, "use the line-based chat instead of the full screen")
	return cmd
}

func (a *app) runChat(cmd *cobra.Command, _ []string) error {
	if a.opts.plain {
		return a.runPlain(cmd)
	}
	if !a.isTTY() {
		return &TTYRequiredError{Operation: "open the chat screen", Hint: "use --plain or healthmate ask"}
	}
	return a.runTUI(cmd)
}

// =============================================================================
// FULL SCREEN
// =============================================================================

func (a *app) runTUI(cmd *cobra.Command) error {
	ctx := cmd.Context()

	bus := notify.NewBus()
	defer bus.Close()

	m, err := a.newChatModel(ctx, os.Stdout, bus)
	if err != nil {
		return err
	}
	defer m.Close()

	prog := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := prog.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return NewCommandError("chat", "the chat screen stopped unexpectedly", err)
	}
	return nil
}

// newChatModel builds the chat screen from the saved preferences, falling
// back to the defaults when nothing is stored yet.
func (a *app) newChatModel(ctx context.Context, out io.Writer, bus *notify.Bus) (chat.Model, error) {
	mgr := a.preferencesOrDefaults()
	exportOpts, err := a.exportOptions("")
	if err != nil {
		return chat.Model{}, NewCommandError("chat", "could not resolve the download directory", err)
	}

	current := mgr.Current()
	theme := styles.NewTheme(out, current.DarkMode, current.FontSize)
	return chat.New(theme, chat.Options{
		Client:         a.newClient(),
		Prefs:          mgr,
		Bus:            bus,
		Dictation:      dictation.Detect(a.cfg.Dictation, nil),
		Sound:          sound.NewPlayer(a.bell),
		Export:         exportOpts,
		QuickActions:   a.quickActions(),
		RenderMarkdown: a.cfg.UI.RenderMarkdown,
		Timeout:        a.timeout(),
		Context:        ctx,
	}), nil
}

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for the plain chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a new ChatCLI with input history support.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}
	c := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	c.LoadHistory()
	return c
}

// LoadHistory loads command history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line with the given prompt. Non-empty input is added to
// the history.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	return c.ReadInputWithText(prompt, "")
}

// ReadInputWithText is ReadInput with the line pre-filled with text and the
// cursor at its end.
func (c *ChatCLI) ReadInputWithText(prompt, text string) (string, error) {
	var (
		input string
		err   error
	)
	if text == "" {
		input, err = c.line.Prompt(prompt)
	} else {
		input, err = c.line.PromptWithSuggestion(prompt, text, -1)
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists command history to file, owner read/write only.
func (c *ChatCLI) SaveHistory() {
	if err := os.MkdirAll(filepath.Dir(c.historyFile), 0700); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and closes the liner.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// PLAIN CHAT
// =============================================================================

func (a *app) runPlain(cmd *cobra.Command) error {
	ctx := cmd.Context()

	mgr := a.preferencesOrDefaults()
	exportOpts, err := a.exportOptions("")
	if err != nil {
		return NewCommandError("chat", "could not resolve the download directory", err)
	}

	bus := notify.NewBus()
	defer bus.Close()

	input := NewChatCLI()
	defer input.Close()

	s := newPlainSession(plainOptions{
		Client:       a.newClient(),
		Prefs:        mgr,
		Bus:          bus,
		Sound:        sound.NewPlayer(a.bell),
		Export:       exportOpts,
		QuickActions: a.quickActions(),
		Timeout:      a.timeout(),
		Out:          cmd.OutOrStdout(),
		Width:        GetTerminalWidth(),
		Markdown:     a.cfg.UI.RenderMarkdown && IsStdoutTTY(),
		Confirm: func(question string) bool {
			answer, err := input.ReadInput(question + " [y/N]: ")
			return err == nil && isYes(answer)
		},
	})
	s.loadQuickActions(ctx)
	s.printWelcome()

	for ctx.Err() == nil {
		line, err := input.ReadInputWithText(promptText, s.takePending())
		if errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(s.out, DimStyle.Render("Type /quit or press Ctrl+D to leave."))
			continue
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Debug().Err(err).Msg("plain chat input closed")
			}
			break
		}
		if s.handle(ctx, line) {
			break
		}
	}
	fmt.Fprintln(s.out, DimStyle.Render("Goodbye."))
	return nil
}

// plainOptions wires a plain session. It mirrors chat.Options.
type plainOptions struct {
	Client       chat.Exchanger
	Prefs        *prefs.Manager
	Bus          *notify.Bus
	Sound        *sound.Player
	Export       *export.Options
	QuickActions []exchange.QuickAction
	Timeout      time.Duration
	Out          io.Writer
	Width        int
	Markdown     bool
	Confirm      func(question string) bool
}

// plainSession is the line-based chat. Notices published on the bus are
// printed after each command.
type plainSession struct {
	client      chat.Exchanger
	prefs       *prefs.Manager
	bus         *notify.Bus
	notices     <-chan notify.Notice
	player      *sound.Player
	export      *export.Options
	timeout     time.Duration
	out         io.Writer
	width       int
	markdown    *components.MarkdownRenderer
	confirm     func(question string) bool
	quick       []exchange.QuickAction
	suggestions []string
	pending     string // Text for the next prompt; set by picking a suggestion
}

func newPlainSession(opts plainOptions) *plainSession {
	s := &plainSession{
		client:  opts.Client,
		prefs:   opts.Prefs,
		bus:     opts.Bus,
		notices: opts.Bus.Subscribe(),
		player:  opts.Sound,
		export:  opts.Export,
		timeout: opts.Timeout,
		out:     opts.Out,
		width:   opts.Width,
		confirm: opts.Confirm,
		quick:   opts.QuickActions,
	}
	if s.width <= 0 {
		s.width = DefaultTerminalWidth
	}
	if opts.Markdown {
		s.markdown = components.NewMarkdownRenderer()
	}
	if s.confirm == nil {
		s.confirm = func(string) bool { return false }
	}
	return s
}

func (s *plainSession) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}

// loadQuickActions replaces the configured quick actions with the backend's
// list when it has one.
func (s *plainSession) loadQuickActions(ctx context.Context) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	actions, err := s.client.QuickActions(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("quick actions unavailable, using configured list")
		return
	}
	if len(actions) > 0 {
		s.quick = actions
	}
}

// handle runs one input line and reports whether the session should end.
func (s *plainSession) handle(ctx context.Context, line string) (quit bool) {
	defer s.flushNotices()

	text := strings.TrimSpace(line)
	if text == "" {
		return false
	}
	if !strings.HasPrefix(text, "/") {
		s.send(ctx, text)
		return false
	}

	fields := strings.Fields(text)
	name, args := strings.ToLower(strings.TrimPrefix(fields[0], "/")), fields[1:]
	switch name {
	case "quit", "q", "exit":
		return true
	case "help", "h", "?":
		s.printHelp()
	case "clear":
		s.clear(ctx)
	case "export":
		s.exportChat(ctx)
	case "quick":
		s.quickAction(ctx, args)
	case "s", "suggest":
		s.suggestion(args)
	case "settings":
		s.settings(args)
	default:
		// Not ours: the backend gets the text as written.
		s.send(ctx, text)
	}
	return false
}

// send performs one exchange and prints both messages.
func (s *plainSession) send(ctx context.Context, text string) {
	s.suggestions = nil
	fmt.Fprintln(s.out, DimStyle.Render("Dr. HealthMate is typing..."))

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	res, err := s.client.Send(ctx, text)
	if err != nil {
		log.Warn().Err(err).Str("type", exchange.TypeOf(err).String()).Msg("send failed")
		s.bus.Error(exchange.SendFailureText(err))
		return
	}

	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, s.render(res.UserMessage))
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, s.render(res.BotMessage))
	fmt.Fprintln(s.out)

	current := s.prefs.Current()
	if current.AutoSuggestions && len(res.Suggestions) > 0 {
		s.suggestions = res.Suggestions
		fmt.Fprintln(s.out, RenderSuggestions(s.suggestions))
	}
	if current.SoundEnabled {
		s.player.Play()
	}
}

func (s *plainSession) render(msg model.Message) string {
	header := RenderMessageHeader(msg)
	if s.markdown != nil && !msg.IsSelf() {
		return header + "\n" + s.markdown.Render(msg.Text, s.glamourStyle(), s.width)
	}
	return header + "\n" + WrapText(components.StripTags(msg.Text), s.width)
}

func (s *plainSession) glamourStyle() string {
	if s.prefs.Current().DarkMode {
		return "dark"
	}
	return "light"
}

func (s *plainSession) clear(ctx context.Context) {
	if !s.confirm(chat.MsgClearPrompt) {
		ShowCancellationMessage(s.out)
		return
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	err := s.client.Clear(ctx)
	switch {
	case err == nil:
		s.suggestions = nil
		s.bus.Success(chat.MsgCleared)
	case exchange.IsRejected(err):
		log.Info().Err(err).Msg("clear rejected by backend")
	default:
		log.Warn().Err(err).Msg("clear failed")
		s.bus.Error(exchange.MsgClear)
	}
}

func (s *plainSession) exportChat(ctx context.Context) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.client.Export(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("export failed")
		s.bus.Error(exchange.MsgExport)
		return
	}
	path, err := export.Save(res.ExportText, res.Filename, s.export)
	if err != nil {
		log.Warn().Err(err).Msg("export could not be saved")
		s.bus.Error(exchange.MsgExport)
		return
	}
	s.bus.Success(chat.MsgExported + " Saved to " + path)
}

// quickAction lists the quick actions, or sends the numbered one.
func (s *plainSession) quickAction(ctx context.Context, args []string) {
	if len(s.quick) == 0 {
		s.bus.Info(chat.MsgNoQuickActions)
		return
	}
	if len(args) == 0 {
		fmt.Fprintln(s.out, DimStyle.Render("Quick actions:"))
		for i, qa := range s.quick {
			fmt.Fprintf(s.out, "  %s %s %s\n", InfoStyle.Render(fmt.Sprintf("[%d]", i+1)), qa.Icon, qa.Text)
		}
		return
	}
	n, ok := pickIndex(args[0], len(s.quick))
	if !ok {
		s.bus.Warning(fmt.Sprintf("No quick action %s.", args[0]))
		return
	}
	s.send(ctx, s.quick[n].Text)
}

// suggestion puts the numbered chip from the last reply into the next prompt
// and hides the list. Nothing is sent until the user submits that line.
func (s *plainSession) suggestion(args []string) {
	if len(args) == 0 {
		if len(s.suggestions) > 0 {
			fmt.Fprintln(s.out, RenderSuggestions(s.suggestions))
		}
		return
	}
	n, ok := pickIndex(args[0], len(s.suggestions))
	if !ok {
		s.bus.Warning(fmt.Sprintf("No suggestion %s.", args[0]))
		return
	}
	s.pending = s.suggestions[n]
	s.suggestions = nil
	fmt.Fprintln(s.out, DimStyle.Render("Press enter to send, or edit first."))
}

// takePending returns the text waiting for the next prompt and forgets it.
func (s *plainSession) takePending() string {
	text := s.pending
	s.pending = ""
	return text
}

func (s *plainSession) settings(args []string) {
	switch {
	case len(args) == 0:
		printPreferences(s.out, s.prefs.Current())
	case len(args) == 1 && strings.EqualFold(args[0], "reset"):
		if _, err := s.prefs.Reset(); err != nil {
			log.Warn().Err(err).Msg("preferences reset not saved")
			s.bus.Error(chat.MsgSettingsFailed)
			return
		}
		s.bus.Success("Settings restored to defaults.")
	case len(args) == 2:
		p, err := s.prefs.Set(args[0], args[1])
		if err != nil {
			s.bus.Error(err.Error())
			return
		}
		value, _ := p.Get(args[0])
		s.bus.Success(fmt.Sprintf("%s is now %s.", args[0], value))
	default:
		s.bus.Warning("Usage: /settings [key value | reset]")
	}
}

func (s *plainSession) flushNotices() {
	for {
		select {
		case n, ok := <-s.notices:
			if !ok {
				return
			}
			fmt.Fprintln(s.out, RenderNotice(n))
		default:
			return
		}
	}
}

func (s *plainSession) printWelcome() {
	fmt.Fprintln(s.out, TitleStyle.Render("Dr. HealthMate")+" "+DimStyle.Render("Your personal health assistant"))
	fmt.Fprintln(s.out, DimStyle.Render("Type a message and press enter. /help lists commands, /quit leaves."))
	if len(s.quick) > 0 {
		labels := make([]string, len(s.quick))
		for i, qa := range s.quick {
			labels[i] = fmt.Sprintf("%d %s", i+1, qa.Text)
		}
		fmt.Fprintln(s.out, DimStyle.Render("Quick actions: "+strings.Join(labels, " · ")))
	}
	fmt.Fprintln(s.out)
}

func (s *plainSession) printHelp() {
	rows := [][2]string{
		{"/quick [n]", "list quick actions or send number n"},
		{"/s n", "put suggestion number n in the next prompt"},
		{"/settings [k v]", "show or change a preference"},
		{"/settings reset", "restore the default preferences"},
		{"/export", "save the transcript"},
		{"/clear", "clear the chat history"},
		{"/quit", "leave (or Ctrl+D)"},
	}
	for _, r := range rows {
		fmt.Fprintf(s.out, "  %s %s\n", RenderLabel(r[0]), r[1])
	}
}

// pickIndex parses a 1-based choice into an index below n.
func pickIndex(arg string, n int) (int, bool) {
	i, err := strconv.Atoi(arg)
	if err != nil || i < 1 || i > n {
		return 0, false
	}
	return i - 1, true
}

// printPreferences lists every preference, one per line.
func printPreferences(w io.Writer, p prefs.Preferences) {
	for _, key := range prefs.Keys {
		value, _ := p.Get(key)
		fmt.Fprintf(w, "%s%s\n", RenderLabel(key), ValueStyle.Render(value))
	}
}
