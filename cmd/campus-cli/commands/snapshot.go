package commands

import (
	"context"
	"errors"

	"icassist/lib/campus"
	"icassist/lib/gradestore"
	"icassist/lib/timezone"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var errNoTerms = errors.New("the school has no terms")

// takeSnapshot records the grades of the current term.
func (a *app) takeSnapshot(ctx context.Context, store gradestore.Store) (gradestore.UserSnapshot, error) {
	portal, err := a.session(ctx)
	if err != nil {
		return gradestore.UserSnapshot{}, err
	}
	terms, err := portal.GetTerms(ctx, a.school)
	if err != nil {
		return gradestore.UserSnapshot{}, err
	}
	now := timezone.Now()
	term, ok := campus.CurrentTerm(terms, now)
	if !ok {
		return gradestore.UserSnapshot{}, errNoTerms
	}

	snapshot := gradestore.Snapshot(a.config.StudentKey(), term.Courses)
	err = store.Push(ctx, gradestore.PushRequest{
		Time:  now,
		Users: []gradestore.UserSnapshot{snapshot},
	})
	if err != nil {
		return gradestore.UserSnapshot{}, err
	}
	return snapshot, nil
}

func snapshotCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Records today's grades of the current term in the grade store.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := a.store()
			if err != nil {
				return err
			}
			defer closeStore()

			snapshot, err := a.takeSnapshot(cmd.Context(), store)
			if err != nil {
				return err
			}
			return a.render(snapshot.Courses, func(t table.Writer) {
				t.AppendHeader(table.Row{"Course", "Grade", "%"})
				for _, course := range snapshot.Courses {
					t.AppendRow(table.Row{course.Course, course.Label, course.Value})
				}
			})
		},
	}
}

func historyCmd(a *app) *cobra.Command {
	var course string
	cmd := &cobra.Command{
		Use:   "history [--course <name>]",
		Short: "Prints the recorded grade snapshots.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := a.store()
			if err != nil {
				return err
			}
			defer closeStore()

			history, err := store.Pull(cmd.Context(), a.config.StudentKey())
			if err != nil {
				return err
			}
			if course != "" {
				filtered := []gradestore.CourseSnapshotSeries{}
				for _, series := range history {
					if series.Course == course {
						filtered = append(filtered, series)
					}
				}
				history = filtered
			}

			return a.render(history, func(t table.Writer) {
				t.AppendHeader(table.Row{"Course", "Date", "Grade", "%"})
				for _, series := range history {
					for _, snapshot := range series.Snapshots {
						t.AppendRow(table.Row{
							series.Course,
							snapshot.Time.Format("2006-01-02 15:04"),
							snapshot.Label,
							snapshot.Value,
						})
					}
					t.AppendSeparator()
				}
			})
		},
	}
	cmd.Flags().StringVar(&course, "course", "", "Only print the snapshots of a course.")
	return cmd
}
