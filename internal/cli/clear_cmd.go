// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// clear_cmd.go - Chat history clear command.
//
// Command: clear
// Short:   Clear the chat history on the server
//
// Examples:
//   healthmate clear         Ask first, then clear
//   healthmate clear --yes   Clear without asking (scripts)

package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jeranaias/healthmate-tui/internal/exchange"
	"github.com/jeranaias/healthmate-tui/internal/ui/chat"
)

func newClearCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear the chat history on the server",
		Long: `Clear the chat history on the server. You are asked to confirm unless
--yes is given; without a terminal on stdin --yes is required.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			confirmed, err := RequireConfirmation("clear the chat history", chat.MsgClearPrompt, ConfirmationOptions{
				ConfirmFlag: yes,
				CanPrompt:   a.isTTY(),
				In:          cmd.InOrStdin(),
				Out:         out,
			})
			if err != nil {
				return err
			}
			if !confirmed {
				ShowCancellationMessage(out)
				return nil
			}

			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()

			if err := a.newClient().Clear(ctx); err != nil {
				log.Debug().Err(err).Str("type", exchange.TypeOf(err).String()).Msg("clear failed")
				return NewCommandError("clear", exchange.MsgClear, err)
			}
			fmt.Fprintln(out, SuccessStyle.Render(chat.MsgCleared))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
