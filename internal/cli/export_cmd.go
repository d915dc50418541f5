// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// export_cmd.go - Transcript export command.
//
// Command: export
// Short:   Save the chat transcript to a file
//
// Examples:
//   healthmate export              Save to the configured download directory
//   healthmate export -o ./notes   Save to ./notes
//   healthmate export --open       Save, then open the file

package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jeranaias/healthmate-tui/internal/exchange"
	"github.com/jeranaias/healthmate-tui/internal/export"
	"github.com/jeranaias/healthmate-tui/internal/ui/chat"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		dir  string
		open bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Save the chat transcript to a file",
		Long: `Fetch the transcript from the server and save it under the name the
server suggests. An existing file is never replaced; a numbered name is
picked instead.`,
		Example: `  healthmate export
  healthmate export -o ./notes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := a.exportOptions(dir)
			if err != nil {
				return NewCommandError("export", "could not resolve the download directory", err)
			}
			opts.OpenAfterExport = open

			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()

			res, err := a.newClient().Export(ctx)
			if err != nil {
				log.Debug().Err(err).Msg("export failed")
				return NewCommandError("export", exchange.MsgExport, err)
			}
			path, err := export.Save(res.ExportText, res.Filename, opts)
			if err != nil {
				return NewCommandError("export", exchange.MsgExport, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", SuccessStyle.Render(chat.MsgExported), DimStyle.Render(path))
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "output", "o", "", "directory to save into (default: config download_dir)")
	cmd.Flags().BoolVar(&open, "open", false, "open the file after saving")
	return cmd
}
