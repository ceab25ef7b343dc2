package infinitecampus

import (
	"testing"

	"icassist/lib/testutil"

	"github.com/stretchr/testify/require"
)

func TestDecodeGradesXML(t *testing.T) {
	schools, err := DecodeGradesXML(testutil.Fixture("grades.xml"))
	require.NoError(t, err)
	require.Len(t, schools, 2)

	high := schools[0]
	require.Equal(t, "12", high.SchoolID.Value)
	require.Equal(t, "Lincoln High", high.DisplayName)
	require.Len(t, high.Terms, 2)

	q1 := high.Terms[0]
	require.Equal(t, "101", q1.TermID.Value)
	require.Equal(t, 1, q1.TermSeq)
	require.Equal(t, "2024-08-20", q1.StartDate)
	require.Len(t, q1.Courses, 2)

	biology := q1.Courses[0]
	require.Equal(t, "9001", biology.CourseID.Value)
	require.Equal(t, "Lincoln High", biology.SchoolName)
	require.Equal(t, "12", biology.SchoolID.Value)
	require.False(t, biology.Dropped)
	require.Len(t, biology.GradingTasks, 2)

	task := biology.GradingTasks[0]
	require.Equal(t, NewFlexString("A-"), task.ProgressScore)
	require.Equal(t, NewFlexFloat(91.2), task.ProgressPercent)
	require.Equal(t, NewFlexFloat(500), task.ProgressTotalPoints)
	require.Equal(t, NewFlexFloat(88), task.Percent)
	require.Nil(t, task.Comments)

	final := biology.GradingTasks[1]
	require.False(t, final.Score.Valid)
	require.False(t, final.ProgressTotalPoints.Valid)

	english := q1.Courses[1].GradingTasks[0]
	require.NotNil(t, english.Comments)
	require.Equal(t, "", *english.Comments)

	require.True(t, schools[1].Terms[0].Courses[0].Dropped)
}

func TestDecodeRosterXML(t *testing.T) {
	roster, err := DecodeRosterXML(testutil.Fixture("roster.xml"))
	require.NoError(t, err)
	require.Len(t, roster, 4)

	require.Equal(t, "r1", roster[0].ObjectID)
	require.Equal(t, "9001", roster[0].CourseID.Value)
	require.Equal(t, "101", roster[0].TermID.Value)
	require.Equal(t, 3, *roster[0].PeriodSequence)
	require.Equal(t, "10:05:00", roster[0].StartTime)

	require.Nil(t, roster[3].PeriodSequence)
}

func TestDecodeXMLErrors(t *testing.T) {
	_, err := DecodeGradesXML([]byte("<html><body>not an outline"))
	require.Error(t, err)

	_, err = DecodeGradesXML([]byte(`<campusRelease><student><calendar><term seq="first"/></calendar></student></campusRelease>`))
	require.Error(t, err)

	_, err = DecodeRosterXML([]byte(`<campusRelease><schedule><section periodSeq="x"/></schedule></campusRelease>`))
	require.Error(t, err)

	schools, err := DecodeGradesXML([]byte(`<campusRelease><student></student></campusRelease>`))
	require.NoError(t, err)
	require.Empty(t, schools)
}
