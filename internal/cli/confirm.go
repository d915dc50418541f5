// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// confirm.go - Confirmation handling for destructive CLI commands.
//
// One pattern for every command:
//   1. If --yes is present, proceed without prompting
//   2. If stdin is not a TTY, refuse (can't prompt)
//   3. Otherwise, ask and wait for y/N

package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ConfirmationOptions describes how a confirmation may be obtained.
type ConfirmationOptions struct {
	// ConfirmFlag indicates --yes was passed (skip the prompt)
	ConfirmFlag bool
	// CanPrompt indicates stdin is a terminal
	CanPrompt bool
	// In and Out carry the prompt
	In  io.Reader
	Out io.Writer
}

// RequireConfirmation checks that the user confirmed action. It returns
// false without error when the user declines, and a *TTYRequiredError when
// no prompt is possible and --yes is absent.
func RequireConfirmation(action, question string, opts ConfirmationOptions) (bool, error) {
	if opts.ConfirmFlag {
		return true, nil
	}
	if !opts.CanPrompt {
		return false, &TTYRequiredError{Operation: action, Hint: "pass --yes to skip the prompt"}
	}
	return PromptYesNo(opts.In, opts.Out, question)
}

// PromptYesNo asks question on out and reads one line from in. Only "y" and
// "yes" confirm.
func PromptYesNo(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N]: ", question)

	input, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && input == "" {
		if err == io.EOF {
			return false, nil
		}
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	return isYes(input), nil
}

func isYes(s string) bool {
	response := strings.ToLower(strings.TrimSpace(s))
	return response == "y" || response == "yes"
}

// ShowCancellationMessage reports a declined confirmation.
func ShowCancellationMessage(out io.Writer) {
	fmt.Fprintln(out, DimStyle.Render("Cancelled."))
}
