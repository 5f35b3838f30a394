package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pointsheet/paddock/internal/config"
)

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the paddock config file",
	}

	var force bool
	var driver, team string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the current settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfgFile
			if path == "" {
				path = config.DefaultPath()
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			cfg := a.cfg
			if driver != "" {
				cfg.Team.DriverID = driver
			}
			if team != "" {
				cfg.Team.Name = team
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := config.Save(cfg, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	initCmd.Flags().StringVar(&driver, "driver", "", "Your driver id")
	initCmd.Flags().StringVar(&team, "team", "", "Team name shown in the dashboard")

	var format string
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := a.cfg
			rows := [][]string{
				{"database.path", c.Database.Path},
				{"log.path", c.Log.Path},
				{"log.level", c.Log.Level},
				{"team.name", c.Team.Name},
				{"team.driver_id", c.Team.DriverID},
				{"ui.default_tab", c.UI.DefaultTab},
				{"ui.date_format", c.UI.DateFormat},
				{"ui.mouse", fmt.Sprint(c.UI.Mouse)},
				{"ui.watch", fmt.Sprint(c.UI.Watch)},
			}
			return emit(cmd.OutOrStdout(), format, c, []string{"Key", "Value"}, rows)
		},
	}
	show.Flags().StringVar(&format, "format", formatTable, "Output format: table, json")

	cmd.AddCommand(initCmd, show)
	return cmd
}
