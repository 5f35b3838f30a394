package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pointsheet/paddock/internal/database"
	"github.com/pointsheet/paddock/pkg/timeutil"
)

func (a *app) seriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "series",
		Short: "Inspect championship series",
	}

	var status, format string
	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List series, optionally filtered by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := database.SeriesFilter{Limit: limit}
			if status != "" {
				if !database.IsStatus(status, database.SeriesNotStarted, database.SeriesStarted, database.SeriesClosed) {
					return fmt.Errorf("unknown status %q", status)
				}
				filter.Status = &status
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			series, err := store.QuerySeries(filter)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(series))
			for _, s := range series {
				rows = append(rows, []string{
					s.SeriesID, s.Title, s.Status,
					timeutil.FormatEventDate(s.StartsAt, "2 Jan 2006"),
					timeutil.FormatEventDate(s.EndsAt, "2 Jan 2006"),
				})
			}
			return emit(cmd.OutOrStdout(), format, series,
				[]string{"ID", "Title", "Status", "From", "To"}, rows)
		},
	}
	list.Flags().StringVar(&status, "status", "", "Filter by status: "+strings.Join(
		[]string{database.SeriesNotStarted, database.SeriesStarted, database.SeriesClosed}, ", "))
	list.Flags().IntVar(&limit, "limit", 0, "Maximum results (0 for all)")
	list.Flags().StringVar(&format, "format", formatTable, "Output format: table, json")

	var seriesID string
	setStatus := &cobra.Command{
		Use:   "status STATUS",
		Short: "Start, close or reset a series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.SetSeriesStatus(seriesID, args[0]); err != nil {
				return err
			}
			a.logger.Info("series status changed",
				zap.String("series", seriesID), zap.String("status", args[0]))
			fmt.Fprintf(cmd.OutOrStdout(), "Series %s is now %s\n", seriesID, args[0])
			return nil
		},
	}
	setStatus.Flags().StringVarP(&seriesID, "series", "s", "", "Series id")
	_ = setStatus.MarkFlagRequired("series")

	cmd.AddCommand(list, setStatus)
	return cmd
}
