package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pointsheet/paddock/internal/tui"
	"github.com/pointsheet/paddock/internal/watch"
)

func (a *app) dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Open the team dashboard (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDashboard(cmd)
		},
	}
}

func (a *app) runDashboard(cmd *cobra.Command) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	model, err := tui.NewModel(store, tui.Options{
		TeamName:   a.cfg.Team.Name,
		DriverID:   a.cfg.Team.DriverID,
		DefaultTab: a.cfg.UI.DefaultTab,
		DateFormat: a.cfg.UI.DateFormat,
		Mouse:      a.cfg.UI.Mouse,
		Logger:     a.logger,
	})
	if err != nil {
		return err
	}

	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(cmd.Context())}
	if a.cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(model, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if a.cfg.UI.Watch && store.Path() != ":memory:" {
		w, err := watch.New(store.Path(), a.logger)
		if err != nil {
			a.logger.Warn("live reload disabled", zap.Error(err))
		} else {
			go func() {
				_ = w.Run(ctx, func() { p.Send(tui.ReloadMsg{}) })
			}()
		}
	}

	a.logger.Info("dashboard started",
		zap.String("driver", a.cfg.Team.DriverID),
		zap.String("tab", model.ActiveTab()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running dashboard: %w", err)
	}
	return nil
}
