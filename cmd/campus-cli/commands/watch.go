package commands

import (
	"context"
	"log/slog"
	"time"

	"icassist/lib/gradestore"
	"icassist/lib/telemetry"

	"github.com/spf13/cobra"
)

const report_watch_tick = "watch.tick"

// tick takes a snapshot and mails a digest when there are new notifications.
func (a *app) tick(ctx context.Context, store gradestore.Store, sendDigest bool) {
	snapshot, err := a.takeSnapshot(ctx, store)
	if err != nil {
		a.tel.ReportBroken(report_watch_tick, err)
		return
	}
	slog.Info("recorded snapshot", "courses", len(snapshot.Courses))

	portal, err := a.session(ctx)
	if err != nil {
		a.tel.ReportBroken(report_watch_tick, err)
		return
	}
	unviewed, err := portal.GetNotificationCount(ctx)
	if err != nil {
		a.tel.ReportBroken(report_watch_tick, err)
		return
	}
	a.tel.ReportCount("watch.unviewed-notifications", int64(unviewed))
	if !sendDigest || unviewed == 0 {
		return
	}

	d, err := a.buildDigest(ctx)
	if err != nil {
		a.tel.ReportBroken(report_watch_tick, err)
		return
	}
	err = a.sendDigest(ctx, d)
	if err != nil {
		a.tel.ReportBroken(report_watch_tick, err)
		return
	}
	err = portal.ResetNotificationCount(ctx)
	if err != nil {
		a.tel.ReportWarning(report_watch_tick, err)
	}
}

func watchCmd(a *app) *cobra.Command {
	var sendDigest bool
	cmd := &cobra.Command{
		Use:   "watch [--digest]",
		Short: "Records a snapshot every interval until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			interval, err := a.config.WatchInterval()
			if err != nil {
				return err
			}
			store, closeStore, err := a.store()
			if err != nil {
				return err
			}
			defer closeStore()

			ctx := cmd.Context()
			telemetry.InstrumentPerfStats(ctx, 0)

			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			slog.Info("watching", "interval", interval)
			for {
				a.tick(ctx, store, sendDigest)
				select {
				case <-ticker.C:
				case <-ctx.Done():
					return nil
				}
			}
		},
	}
	cmd.Flags().BoolVar(&sendDigest, "digest", false, "Mail a digest whenever there are unviewed notifications.")
	return cmd
}
