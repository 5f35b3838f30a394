package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pointsheet/paddock/internal/standings"
	"github.com/pointsheet/paddock/pkg/jsonutil"
)

func (a *app) standingsCmd() *cobra.Command {
	var seriesID, format string
	cmd := &cobra.Command{
		Use:   "standings",
		Short: "Print championship standings for a series",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			table, err := standings.NewCalculator(store).Series(seriesID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case formatJSON:
				return jsonutil.Encode(out, table)
			case formatMarkdown, "":
				_, err := fmt.Fprint(out, standings.FormatMarkdown(table))
				return err
			default:
				return fmt.Errorf("unknown format %q (want %s or %s)", format, formatMarkdown, formatJSON)
			}
		},
	}
	cmd.Flags().StringVarP(&seriesID, "series", "s", "", "Series id (required)")
	cmd.Flags().StringVar(&format, "format", formatMarkdown, "Output format: markdown, json")
	_ = cmd.MarkFlagRequired("series")
	return cmd
}
