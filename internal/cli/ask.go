// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot question command for the healthmate CLI.
//
// Command: ask
// Short:   Ask one question and print the reply
//
// Examples:
//   healthmate ask "How much water should I drink?"
//   healthmate ask --json "What helps with a headache?"
//
// The exchange is the same one the chat screen makes, so it lands in the
// server-side history and shows up in later exports.

package cli

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jeranaias/healthmate-tui/internal/exchange"
	"github.com/jeranaias/healthmate-tui/internal/ui/components"
)

func newAskCmd(a *app) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "ask QUESTION...",
		Short: "Ask one question and print the reply",
		Example: `  healthmate ask "How much water should I drink?"
  healthmate ask --json "What helps with a headache?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAsk(cmd, strings.Join(args, " "), jsonOut)
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the exchange as JSON")
	return cmd
}

// askResult is the --json payload.
type askResult struct {
	UserMessage exchangeMessage `json:"user_message"`
	BotMessage  exchangeMessage `json:"bot_message"`
	Suggestions []string        `json:"suggestions"`
}

type exchangeMessage struct {
	Sender    string `json:"sender"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func (a *app) runAsk(cmd *cobra.Command, question string, jsonOut bool) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return &ValidationError{Field: "question", Reason: "must not be empty", Example: `healthmate ask "How much water should I drink?"`}
	}

	ctx, cancel := a.withTimeout(cmd.Context())
	defer cancel()

	res, err := a.newClient().Send(ctx, question)
	if err != nil {
		log.Debug().Err(err).Str("type", exchange.TypeOf(err).String()).Msg("ask failed")
		if jsonOut {
			NewJSONErrorResponse("ask", err).Print(cmd.OutOrStdout())
		}
		return NewCommandError("ask", exchange.SendFailureText(err), err)
	}

	out := cmd.OutOrStdout()
	if jsonOut {
		suggestions := res.Suggestions
		if suggestions == nil {
			suggestions = []string{}
		}
		return NewJSONResponse("ask", askResult{
			UserMessage: exchangeMessage{res.UserMessage.Sender, res.UserMessage.Text, res.UserMessage.Timestamp},
			BotMessage:  exchangeMessage{res.BotMessage.Sender, res.BotMessage.Text, res.BotMessage.Timestamp},
			Suggestions: suggestions,
		}).Print(out)
	}

	width := GetTerminalWidth()
	fmt.Fprintln(out, RenderMessageHeader(res.UserMessage))
	fmt.Fprintln(out, WrapText(components.StripTags(res.UserMessage.Text), width))
	fmt.Fprintln(out)
	fmt.Fprintln(out, RenderMessageHeader(res.BotMessage))
	fmt.Fprintln(out, WrapText(components.StripTags(res.BotMessage.Text), width))
	if len(res.Suggestions) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, RenderSuggestions(res.Suggestions))
	}
	return nil
}
