package commands

import (
	"strings"

	"icassist/lib/campus"
	"icassist/lib/textutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func assignmentFlags(status campus.AssignmentStatus) string {
	var flags []string
	if status.Missing {
		flags = append(flags, "missing")
	}
	if status.Late {
		flags = append(flags, "late")
	}
	if status.TurnedIn {
		flags = append(flags, "turned in")
	}
	if status.Incomplete {
		flags = append(flags, "incomplete")
	}
	if status.Dropped {
		flags = append(flags, "dropped")
	}
	if status.Cheated {
		flags = append(flags, "cheated")
	}
	if status.NotGraded {
		flags = append(flags, "not graded")
	}
	return strings.Join(flags, ", ")
}

func assignmentsCmd(a *app) *cobra.Command {
	var missing bool
	var course string
	cmd := &cobra.Command{
		Use:   "assignments [--missing] [--course <name>]",
		Short: "Lists assignments with their scores and status.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			portal, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			assignments, err := portal.GetAssignments(cmd.Context(), a.school)
			if err != nil {
				return err
			}

			filtered := make([]campus.Assignment, 0, len(assignments))
			for _, assignment := range assignments {
				if missing && !assignment.Status.Missing {
					continue
				}
				if course != "" && !textutil.MatchName(assignment.CourseName, []string{textutil.NormalizeName(course)}) {
					continue
				}
				filtered = append(filtered, assignment)
			}

			return a.render(filtered, func(t table.Writer) {
				t.AppendHeader(table.Row{"Due", "Course", "Assignment", "Score", "%", "Max", "Status"})
				for _, assignment := range filtered {
					due := "-"
					if assignment.Dates.Due != nil {
						due = assignment.Dates.Due.Format("2006-01-02")
					}
					t.AppendRow(table.Row{
						due,
						assignment.CourseName,
						assignment.Name,
						assignment.Points.Score.String(),
						assignment.Points.Percentage.String(),
						formatFloat(assignment.Points.MaxPoints),
						assignmentFlags(assignment.Status),
					})
				}
			})
		},
	}
	cmd.Flags().BoolVar(&missing, "missing", false, "Only list missing assignments.")
	cmd.Flags().StringVar(&course, "course", "", "Only list the assignments of courses whose name contains this one.")
	return cmd
}
