package digest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

func formatPercentage(value *float64) string {
	if value == nil {
		return "-"
	}
	return strconv.FormatFloat(*value, 'f', -1, 64) + "%"
}

func formatChange(value *float64) string {
	switch {
	case value == nil:
		return ""
	case *value > 0:
		return fmt.Sprintf("+%.2f", *value)
	case *value < 0:
		return fmt.Sprintf("%.2f", *value)
	}
	return "0"
}

func formatDue(due *time.Time) string {
	if due == nil {
		return "-"
	}
	return due.Format("Mon Jan 2")
}

func (d Digest) Subject() string {
	if d.Term == "" {
		return fmt.Sprintf("Campus digest for %s", d.Student)
	}
	return fmt.Sprintf("Campus digest for %s (%s)", d.Student, d.Term)
}

func (d Digest) tables() []table.Writer {
	var tables []table.Writer

	if len(d.Courses) > 0 {
		t := table.NewWriter()
		t.SetTitle("Grades")
		t.AppendHeader(table.Row{"Course", "Teacher", "Grade", "Percentage", "Change"})
		for _, course := range d.Courses {
			t.AppendRow(table.Row{
				course.Course,
				course.Teacher,
				course.Grade,
				formatPercentage(course.Percentage),
				formatChange(course.Change),
			})
		}
		tables = append(tables, t)
	}

	if len(d.Assignments) > 0 {
		t := table.NewWriter()
		t.SetTitle("Assignments")
		t.AppendHeader(table.Row{"Due", "Course", "Assignment", "Status"})
		for _, assignment := range d.Assignments {
			t.AppendRow(table.Row{
				formatDue(assignment.Due),
				assignment.Course,
				assignment.Name,
				string(assignment.Status),
			})
		}
		tables = append(tables, t)
	}

	if len(d.Notifications) > 0 {
		t := table.NewWriter()
		t.SetTitle("Unread notifications")
		t.AppendHeader(table.Row{"Date", "Type", "Text"})
		for _, notification := range d.Notifications {
			t.AppendRow(table.Row{
				notification.TimestampText,
				notification.Type.String(),
				notification.Text,
			})
		}
		tables = append(tables, t)
	}

	return tables
}

// Text renders the digest as plain text tables.
func (d Digest) Text() string {
	if d.Empty() {
		return "Nothing new.\n"
	}
	var out strings.Builder
	for _, t := range d.tables() {
		t.SetStyle(table.StyleRounded)
		out.WriteString(t.Render())
		out.WriteString("\n\n")
	}
	return out.String()
}

// HTML renders the digest as html tables.
func (d Digest) HTML() string {
	if d.Empty() {
		return "<p>Nothing new.</p>\n"
	}
	var out strings.Builder
	for _, t := range d.tables() {
		out.WriteString(t.RenderHTML())
		out.WriteString("\n")
	}
	return out.String()
}
