// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Root command, global flags and shared wiring for healthmate.
//
// Command: healthmate
// Short:   Chat with Dr. HealthMate from the terminal
//
// Global Flags:
//   --server URL       Backend base URL (overrides config)
//   --config PATH      Config file (default ~/.healthmate/config.toml)
//   --timeout DUR      Request timeout, e.g. 30s (overrides config)
//   --log-level LEVEL  debug, info, warn, error or disabled

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jeranaias/healthmate-tui/internal/config"
	"github.com/jeranaias/healthmate-tui/internal/exchange"
	"github.com/jeranaias/healthmate-tui/internal/export"
	"github.com/jeranaias/healthmate-tui/internal/logging"
	"github.com/jeranaias/healthmate-tui/internal/prefs"
	"github.com/jeranaias/healthmate-tui/internal/storage"
)

// Version information, set by main from build flags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// =============================================================================
// APPLICATION STATE
// =============================================================================

// rootOptions holds the global flags.
type rootOptions struct {
	server     string
	configPath string
	timeout    time.Duration
	logLevel   string
	plain      bool
}

// app carries what every command shares once the root has set it up.
type app struct {
	opts   rootOptions
	cfg    *config.Config
	closer io.Closer

	// isTTY reports whether stdin can be prompted
	isTTY func() bool
	// bell receives the notification tone; nil is silent
	bell io.Writer
}

func newApp() *app {
	return &app{isTTY: IsTTY, bell: os.Stdout}
}

// =============================================================================
// ROOT COMMAND
// =============================================================================

// NewRootCmd builds the healthmate command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(newApp())
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "healthmate",
		Short: "Chat with Dr. HealthMate from the terminal",
		Long: `healthmate is a terminal client for the Dr. HealthMate assistant.

Run without a command to open the chat screen. The one-shot commands
talk to the same backend and share the saved preferences.`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runChat,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.opts.server, "server", "", "backend base URL (overrides config)")
	pf.StringVar(&a.opts.configPath, "config", "", "config file (default ~/.healthmate/config.toml)")
	pf.DurationVar(&a.opts.timeout, "timeout", 0, "request timeout, e.g. 30s (overrides config)")
	pf.StringVar(&a.opts.logLevel, "log-level", "", "log level: debug, info, warn, error or disabled")
	root.Flags().BoolVar(&a.opts.plain, "plain", false, "use the line-based chat instead of the full screen")

	root.AddCommand(
		newChatCmd(a),
		newAskCmd(a),
		newExportCmd(a),
		newClearCmd(a),
		newSettingsCmd(a),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp()
	err := newRootCmd(a).ExecuteContext(ctx)
	a.teardown()
	if err != nil {
		DisplayError(os.Stderr, err)
		return GetExitCode(err)
	}
	return ExitSuccess
}

// =============================================================================
// SETUP
// =============================================================================

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return NewCommandError("config", err.Error(), err)
	}
	a.cfg = cfg
	a.initLogging(cmd)

	log.Debug().
		Str("command", cmd.CommandPath()).
		Str("server", cfg.Server.BaseURL).
		Dur("timeout", a.timeout()).
		Msg("healthmate starting")
	return nil
}

func (a *app) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if a.opts.configPath != "" {
		cfg, err = config.LoadFromPath(a.opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if a.opts.server != "" {
		cfg.Server.BaseURL = strings.TrimRight(a.opts.server, "/")
	}
	if a.opts.logLevel != "" {
		cfg.Log.Level = a.opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// initLogging sends interactive sessions to the log file, since the screen
// belongs to the chat. One-shot commands log warnings to stderr unless
// --log-level asks for more.
func (a *app) initLogging(cmd *cobra.Command) {
	if cmd.Name() == "chat" || !cmd.HasParent() {
		path, err := a.cfg.LogFile()
		if err == nil {
			a.closer, err = logging.OpenFile(path, a.cfg.Log.Level)
		}
		if err != nil {
			logging.Discard()
		}
		return
	}

	level := zerolog.WarnLevel
	if a.opts.logLevel != "" {
		level = logging.ParseLevel(a.opts.logLevel)
	}
	logging.InitLogger(cmd.ErrOrStderr(), level, true)
}

func (a *app) teardown() {
	if a.closer != nil {
		a.closer.Close()
		a.closer = nil
	}
}

// =============================================================================
// SHARED WIRING
// =============================================================================

// timeout is the per-request bound: --timeout, else the config.
func (a *app) timeout() time.Duration {
	if a.opts.timeout > 0 {
		return a.opts.timeout
	}
	return a.cfg.Timeout()
}

func (a *app) newClient() *exchange.Client {
	return exchange.NewClientWithConfig(&exchange.ClientConfig{
		BaseURL:   a.cfg.Server.BaseURL,
		Timeout:   a.timeout(),
		UserAgent: "healthmate-tui/" + Version,
	})
}

// preferences opens the persisted preferences. A missing record yields the
// defaults without writing them.
func (a *app) preferences() (*prefs.Manager, error) {
	path, err := storage.DefaultPath()
	if err != nil {
		return nil, err
	}
	store, err := storage.NewFileStore(path)
	if err != nil {
		return nil, err
	}

	mgr := prefs.NewManager(store)
	if _, err := mgr.Load(); err != nil {
		return nil, err
	}
	return mgr, nil
}

// preferencesOrDefaults is preferences for the chat sessions, which carry on
// with in-memory defaults when the store is unusable.
func (a *app) preferencesOrDefaults() *prefs.Manager {
	mgr, err := a.preferences()
	if err != nil {
		log.Warn().Err(err).Msg("preferences unavailable, using defaults")
		return prefs.NewManager(storage.NewMemoryStore())
	}
	return mgr
}

// exportOptions resolves where exports go; dir overrides the config.
func (a *app) exportOptions(dir string) (*export.Options, error) {
	if dir == "" {
		var err error
		if dir, err = a.cfg.DownloadDir(); err != nil {
			return nil, err
		}
	}
	return &export.Options{Dir: dir}, nil
}

func (a *app) quickActions() []exchange.QuickAction {
	actions := make([]exchange.QuickAction, 0, len(a.cfg.UI.QuickActions))
	for _, qa := range a.cfg.UI.QuickActions {
		actions = append(actions, exchange.QuickAction{Text: qa.Text, Icon: qa.Icon})
	}
	return actions
}

// withTimeout bounds ctx by the request timeout.
func (a *app) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d := a.timeout(); d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}

// =============================================================================
// VERSION
// =============================================================================

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "healthmate %s\n", Version)
			fmt.Fprintf(out, "  commit: %s\n", GitCommit)
			fmt.Fprintf(out, "  built:  %s\n", BuildDate)
			fmt.Fprintf(out, "  go:     %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}
}
