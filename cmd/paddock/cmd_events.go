package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pointsheet/paddock/internal/database"
	"github.com/pointsheet/paddock/pkg/timeutil"
)

func (a *app) eventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect league events",
	}

	var available, upcoming bool
	var driver, seriesID, format string
	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List the calendar, or a driver's upcoming or available events",
		Example: `  paddock events list
  paddock events list --available
  paddock events list --upcoming --driver drv-ana --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if available && upcoming {
				return errors.New("--available and --upcoming are mutually exclusive")
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			now := time.Now().UTC()
			var events []*database.Event
			switch {
			case available || upcoming:
				id, err := a.driverID(driver)
				if err != nil {
					return err
				}
				if available {
					events, err = store.AvailableEvents(id, now)
				} else {
					events, err = store.UpcomingEvents(id, now)
				}
				if err != nil {
					return err
				}
			default:
				filter := database.EventFilter{Limit: limit}
				if seriesID != "" {
					filter.SeriesID = &seriesID
				}
				if events, err = store.QueryEvents(filter); err != nil {
					return err
				}
			}

			rows := make([][]string, 0, len(events))
			for _, ev := range events {
				rows = append(rows, []string{
					ev.EventID, ev.Title, ev.Track, ev.Status,
					timeutil.FormatEventDate(ev.StartsAt, a.cfg.UI.DateFormat),
					timeutil.FormatDuration(ev.Duration()),
					participants(ev),
				})
			}
			return emit(cmd.OutOrStdout(), format, events,
				[]string{"ID", "Title", "Track", "Status", "Starts", "Length", "Drivers"}, rows)
		},
	}
	list.Flags().BoolVar(&available, "available", false, "Open future events the driver has not joined")
	list.Flags().BoolVar(&upcoming, "upcoming", false, "Open or running events the driver joined")
	list.Flags().StringVar(&driver, "driver", "", "Driver id (default: team.driver_id)")
	list.Flags().StringVar(&seriesID, "series", "", "Only events of this series")
	list.Flags().IntVar(&limit, "limit", 50, "Maximum results for the calendar")
	list.Flags().StringVar(&format, "format", formatTable, "Output format: table, json")

	cmd.AddCommand(list)
	return cmd
}

func participants(ev *database.Event) string {
	if ev.MaxParticipants <= 0 {
		return fmt.Sprint(ev.Participants)
	}
	return fmt.Sprintf("%d/%d", ev.Participants, ev.MaxParticipants)
}

func (a *app) joinCmd() *cobra.Command {
	return a.registrationCmd("join", "Join an open event", true)
}

func (a *app) leaveCmd() *cobra.Command {
	return a.registrationCmd("leave", "Leave an event", false)
}

func (a *app) registrationCmd(use, short string, join bool) *cobra.Command {
	var eventID, driver string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.driverID(driver)
			if err != nil {
				return err
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			ev, err := store.GetEvent(eventID)
			if err != nil {
				return err
			}

			if join {
				err = store.JoinEvent(eventID, id, time.Now().UTC())
			} else {
				err = store.LeaveEvent(eventID, id)
			}
			if err != nil {
				return err
			}

			a.logger.Info("registration changed",
				zap.String("event", eventID), zap.String("driver", id), zap.Bool("joined", join))
			verb := "Joined"
			if !join {
				verb = "Left"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", verb, ev.Title, timeutil.FormatEventDate(ev.StartsAt, a.cfg.UI.DateFormat))
			return nil
		},
	}
	cmd.Flags().StringVarP(&eventID, "event", "e", "", "Event id (required)")
	cmd.Flags().StringVar(&driver, "driver", "", "Driver id (default: team.driver_id)")
	_ = cmd.MarkFlagRequired("event")
	return cmd
}
