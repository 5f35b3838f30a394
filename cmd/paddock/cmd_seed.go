package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pointsheet/paddock/internal/fixture"
)

func (a *app) seedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load drivers, series and events from a YAML fixture",
		Example: `  paddock seed --file league.yaml
  paddock seed --file league.yaml --db /tmp/demo.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			league, err := fixture.LoadFile(file)
			if err != nil {
				return err
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			sum, err := fixture.Apply(store, league, time.Now().UTC())
			if err != nil {
				return fmt.Errorf("seeding %s: %w", file, err)
			}
			a.logger.Info("fixture applied", zap.String("file", file), zap.Stringer("summary", sum))
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %s into %s\n", sum, store.Path())
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML fixture file (required)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
