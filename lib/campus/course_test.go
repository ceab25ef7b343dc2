package campus

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"icassist/lib/platforms/infinitecampus"
	"icassist/lib/timezone"

	"github.com/stretchr/testify/require"
)

func rawCourse(id, name string, tasks int) infinitecampus.RawCourse {
	course := infinitecampus.RawCourse{
		CourseID:       flexString(id),
		SectionID:      flexString("s" + id),
		CourseName:     name,
		TeacherDisplay: "Rivera, Ana",
		RoomName:       "204",
		SchoolID:       flexString("12"),
		SchoolName:     "Lincoln High",
	}
	for i := 0; i < tasks; i++ {
		course.GradingTasks = append(course.GradingTasks, infinitecampus.RawGradingTask{
			TaskName: fmt.Sprintf("%s task %d", name, i),
			Score:    flexString(fmt.Sprint(70 + i)),
		})
	}
	return course
}

func TestNormalizeCourse(t *testing.T) {
	raw := rawCourse("9001", "AP Biology", 2)
	raw.Dropped = true
	raw.CourseNumber = "SCI301"

	lookup := RosterIndex{placements: map[string][]placement{
		"9001": {
			{CourseID: "9001", TermID: "101", Period: Period{Name: "3", Start: "10:05:00", End: "10:55:00"}},
			{CourseID: "9001", TermID: "102", Period: Period{Name: "4", Start: "11:00:00", End: "11:50:00"}},
		},
	}}

	course := NormalizeCourse(raw, "102", lookup)
	require.Equal(t, "9001", course.ID)
	require.Equal(t, "s9001", course.SectionID)
	require.Equal(t, "AP Biology", course.Name)
	require.Equal(t, "SCI301", course.Number)
	require.True(t, course.Dropped)
	require.Equal(t, School{Name: "Lincoln High", ID: "12"}, course.School)
	require.Equal(t, "11:00:00", *course.Time.Start)
	require.Equal(t, "11:50:00", *course.Time.End)
	require.Nil(t, course.Time.Period)
	require.Len(t, course.Grades, 2)
	require.Equal(t, "AP Biology task 0", course.Grades[0].Name)
	require.Equal(t, "AP Biology task 1", course.Grades[1].Name)

	// a term the roster doesn't list falls back to the first entry
	course = NormalizeCourse(raw, "999", lookup)
	require.Equal(t, "10:05:00", *course.Time.Start)

	unscheduled := NormalizeCourse(rawCourse("7", "Study Hall", 0), "101", lookup)
	require.Nil(t, unscheduled.Time.Start)
	require.Nil(t, unscheduled.Time.End)
	require.NotNil(t, unscheduled.Grades)
	require.Empty(t, unscheduled.Grades)

	require.Nil(t, NormalizeCourse(raw, "101", nil).Time.Start)
}

func TestNormalizeTermShape(t *testing.T) {
	for n := 0; n < 5; n++ {
		for m := 0; m < 4; m++ {
			raw := infinitecampus.RawTerm{
				TermID:    flexString("101"),
				TermName:  "Q1",
				TermSeq:   1,
				StartDate: "2024-08-20",
				EndDate:   "2024-10-18",
			}
			for i := 0; i < n; i++ {
				raw.Courses = append(raw.Courses, rawCourse(fmt.Sprint(i), fmt.Sprintf("course %d", i), m))
			}

			term := NormalizeTerm(raw, nil)
			require.Len(t, term.Courses, n)
			for i, course := range term.Courses {
				require.Equal(t, fmt.Sprintf("course %d", i), course.Name)
				require.Len(t, course.Grades, m)
				for j, grade := range course.Grades {
					require.Equal(t, fmt.Sprintf("course %d task %d", i, j), grade.Name)
				}
			}
		}
	}
}

func TestNormalizeTermDates(t *testing.T) {
	require.NoError(t, timezone.SetLocation("UTC"))

	raw := infinitecampus.RawTerm{
		TermID:    flexString("101"),
		TermName:  "Q1",
		TermSeq:   3,
		StartDate: "2024-08-20",
		EndDate:   "someday",
	}
	term, problems := NormalizeTermChecked(raw, nil)
	require.Equal(t, "101", term.ID)
	require.Equal(t, "Q1", term.Name)
	require.Equal(t, 3, term.Sequence)
	require.Equal(t, time.Date(2024, 8, 20, 0, 0, 0, 0, timezone.Location()), term.Start)
	require.True(t, term.End.IsZero())
	require.NotNil(t, term.Courses)
	require.Empty(t, term.Courses)

	require.Len(t, problems, 1)
	var dateErr *DateError
	require.True(t, errors.As(problems[0], &dateErr))
	require.Equal(t, "endDate", dateErr.Field)
	require.Equal(t, "someday", dateErr.Value)
}

func TestCurrentTerm(t *testing.T) {
	day := func(month time.Month, d int) time.Time {
		return time.Date(2024, month, d, 12, 0, 0, 0, time.UTC)
	}
	terms := []Term{
		{ID: "101", Start: day(8, 20), End: day(10, 18)},
		{ID: "102", Start: day(10, 21), End: day(12, 20)},
		{ID: "103", Start: day(1, 6).AddDate(1, 0, 0)},
	}

	cases := []struct {
		now      time.Time
		expected string
	}{
		{now: day(9, 1), expected: "101"},
		{now: day(10, 19), expected: "101"},
		{now: day(10, 20), expected: "101"},
		{now: day(11, 1), expected: "102"},
		{now: day(12, 28), expected: "102"},
		{now: day(1, 1), expected: "101"},
		{now: day(3, 1).AddDate(1, 0, 0), expected: "103"},
	}
	for _, test := range cases {
		term, ok := CurrentTerm(terms, test.now)
		require.True(t, ok)
		require.Equal(t, test.expected, term.ID, "at %s", test.now)
	}

	_, ok := CurrentTerm(nil, day(9, 1))
	require.False(t, ok)
}
