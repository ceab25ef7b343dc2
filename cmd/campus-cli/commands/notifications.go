package commands

import (
	"fmt"
	"time"

	"icassist/lib/campus"
	"icassist/lib/timezone"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func notificationsCmd(a *app) *cobra.Command {
	var limit int
	var unread bool
	cmd := &cobra.Command{
		Use:   "notifications [--limit <n>] [--unread]",
		Short: "Lists notifications, newest first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			portal, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			notifications, err := portal.GetNotifications(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if unread {
				filtered := make([]campus.Notification, 0, len(notifications))
				for _, notification := range notifications {
					if !notification.Read {
						filtered = append(filtered, notification)
					}
				}
				notifications = filtered
			}

			return a.render(notifications, func(t table.Writer) {
				t.AppendHeader(table.Row{"ID", "Date", "Type", "Read", "Text"})
				for _, notification := range notifications {
					date := notification.TimestampText
					if notification.Timestamp > 0 {
						date = time.Unix(notification.Timestamp, 0).In(timezone.Location()).Format("2006-01-02 15:04")
					}
					t.AppendRow(table.Row{
						notification.ID,
						date,
						notification.Type.String(),
						notification.Read,
						notification.Text,
					})
				}
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "The most notifications to fetch, 200 if 0.")
	cmd.Flags().BoolVar(&unread, "unread", false, "Only list unread notifications.")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "count",
			Short: "Prints the number of unviewed notifications.",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				portal, err := a.session(cmd.Context())
				if err != nil {
					return err
				}
				count, err := portal.GetNotificationCount(cmd.Context())
				if err != nil {
					return err
				}
				return a.render(map[string]int{"unviewed": count}, func(t table.Writer) {
					t.AppendHeader(table.Row{"Unviewed"})
					t.AppendRow(table.Row{count})
				})
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Resets the unviewed count without marking notifications read.",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				portal, err := a.session(cmd.Context())
				if err != nil {
					return err
				}
				return portal.ResetNotificationCount(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "read-all",
			Short: "Marks every notification read.",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				portal, err := a.session(cmd.Context())
				if err != nil {
					return err
				}
				return portal.MarkAllNotificationsRead(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "toggle <id>",
			Short: "Flips the read state of a notification.",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				portal, err := a.session(cmd.Context())
				if err != nil {
					return err
				}
				notifications, err := portal.GetNotifications(cmd.Context(), 0)
				if err != nil {
					return err
				}
				for _, notification := range notifications {
					if notification.ID == args[0] {
						return notification.ToggleRead(cmd.Context())
					}
				}
				return fmt.Errorf("no notification with id '%s'", args[0])
			},
		},
	)
	return cmd
}
