// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// settings_cmd.go - Preference management commands.
//
// Command: settings
// Short:   Show or change the saved preferences
//
// Examples:
//   healthmate settings                       List every preference
//   healthmate settings get fontSize          Print one preference
//   healthmate settings set darkMode true     Change a preference
//   healthmate settings reset                 Restore the defaults
//
// These are the same preferences the chat screen's settings panel edits.

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/healthmate-tui/internal/prefs"
)

func newSettingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the saved preferences",
		Long: "Show or change the saved preferences.\n\nKeys: " + strings.Join(prefs.Keys, ", ") +
			"\nfontSize takes small, medium, large or xlarge; the others take true or false.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mgr, err := a.settingsManager()
			if err != nil {
				return err
			}
			printPreferences(cmd.OutOrStdout(), mgr.Current())
			return nil
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get [KEY]",
			Short: "Print one preference, or all of them",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				mgr, err := a.settingsManager()
				if err != nil {
					return err
				}
				if len(args) == 0 {
					printPreferences(cmd.OutOrStdout(), mgr.Current())
					return nil
				}
				value, err := mgr.Current().Get(args[0])
				if err != nil {
					return &ValidationError{Field: "setting", Value: args[0], Reason: "unknown key", Example: "healthmate settings get fontSize"}
				}
				fmt.Fprintln(cmd.OutOrStdout(), value)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set KEY VALUE",
			Short: "Change one preference",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				mgr, err := a.settingsManager()
				if err != nil {
					return err
				}
				if _, err := prefs.Defaults().Get(args[0]); err != nil {
					return &ValidationError{Field: "setting", Value: args[0], Reason: "unknown key", Example: "healthmate settings set darkMode true"}
				}
				p, err := mgr.Set(args[0], args[1])
				if err != nil {
					return NewCommandError("settings", err.Error(), err)
				}
				value, _ := p.Get(args[0])
				fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", RenderLabel(args[0]), ValueStyle.Render(value))
				return nil
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Restore the default preferences",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				mgr, err := a.settingsManager()
				if err != nil {
					return err
				}
				p, err := mgr.Reset()
				if err != nil {
					return NewCommandError("settings", "failed to save settings", err)
				}
				printPreferences(cmd.OutOrStdout(), p)
				return nil
			},
		},
	)
	return cmd
}

func (a *app) settingsManager() (*prefs.Manager, error) {
	mgr, err := a.preferences()
	if err != nil {
		return nil, NewCommandError("settings", "could not open the preferences", err)
	}
	return mgr, nil
}
