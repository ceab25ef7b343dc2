package commands

import (
	"fmt"

	"icassist/lib/campus"
	"icassist/lib/timezone"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func courseGrade(course campus.Course) (string, string) {
	for _, grade := range course.Grades {
		if grade.Score == nil {
			continue
		}
		return orDash(grade.Score.Name), formatFloat(grade.Score.Percentage)
	}
	return "-", "-"
}

func courseTime(course campus.Course) string {
	if course.Time.Start == nil {
		return "-"
	}
	return fmt.Sprintf("%s-%s", *course.Time.Start, orDash(course.Time.End))
}

func termsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "terms",
		Short: "Lists the terms of the school with their courses.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			portal, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			terms, err := portal.GetTerms(cmd.Context(), a.school)
			if err != nil {
				return err
			}
			return a.render(terms, func(t table.Writer) {
				t.AppendHeader(table.Row{"ID", "Seq", "Term", "Start", "End", "Courses"})
				for _, term := range terms {
					t.AppendRow(table.Row{
						term.ID,
						term.Sequence,
						term.Name,
						formatDate(term.Start),
						formatDate(term.End),
						len(term.Courses),
					})
				}
			})
		},
	}
}

func coursesCmd(a *app) *cobra.Command {
	var current bool
	cmd := &cobra.Command{
		Use:   "courses [--current]",
		Short: "Lists the courses of every term with their grades.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			portal, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			terms, err := portal.GetTerms(cmd.Context(), a.school)
			if err != nil {
				return err
			}
			if current {
				term, ok := campus.CurrentTerm(terms, timezone.Now())
				if ok {
					terms = []campus.Term{term}
				}
			}
			courses := campus.Courses(terms)

			return a.render(courses, func(t table.Writer) {
				t.AppendHeader(table.Row{"Course", "Teacher", "Room", "Period", "Time", "Grade", "%"})
				for _, course := range courses {
					name := course.Name
					if course.Dropped {
						name += " (dropped)"
					}
					grade, percentage := courseGrade(course)
					t.AppendRow(table.Row{
						name,
						course.Teacher,
						course.Room,
						orDash(course.Time.Period),
						courseTime(course),
						grade,
						percentage,
					})
				}
			})
		},
	}
	cmd.Flags().BoolVar(&current, "current", false, "Only list the courses of the current term.")
	return cmd
}

func rosterCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "roster",
		Short: "Lists the schedule with the course and term of every entry.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			portal, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			roster, err := portal.GetRoster(cmd.Context(), a.school)
			if err != nil {
				return err
			}
			return a.render(roster, func(t table.Writer) {
				t.AppendHeader(table.Row{"Term", "Period", "Start", "End", "Course", "Teacher"})
				for _, item := range roster {
					t.AppendRow(table.Row{
						item.Term.Name,
						item.Period.Name,
						item.Period.Start,
						item.Period.End,
						item.Course.Name,
						item.Course.Teacher,
					})
				}
			})
		},
	}
}
