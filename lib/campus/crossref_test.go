package campus

import (
	"errors"
	"testing"

	"icassist/lib/platforms/infinitecampus"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func rawSchool(id, name string, terms ...infinitecampus.RawTerm) infinitecampus.RawSchool {
	return infinitecampus.RawSchool{
		SchoolID:    flexString(id),
		DisplayName: name,
		Terms:       terms,
	}
}

func rawTerm(id string, seq int, courses ...infinitecampus.RawCourse) infinitecampus.RawTerm {
	return infinitecampus.RawTerm{
		TermID:   flexString(id),
		TermName: "T" + id,
		TermSeq:  seq,
		Courses:  courses,
	}
}

func TestSelectSchool(t *testing.T) {
	high := rawSchool("12", "Lincoln High", rawTerm("101", 1, rawCourse("1", "a", 0), rawCourse("2", "b", 0)))
	middle := rawSchool("14", "Lincoln Middle", rawTerm("201", 1, rawCourse("3", "c", 0)))

	_, _, err := SelectSchool(nil, "")
	require.ErrorIs(t, err, ErrNoSchools)

	index, warning, err := SelectSchool([]infinitecampus.RawSchool{high}, "")
	require.NoError(t, err)
	require.Equal(t, 0, index)
	require.Nil(t, warning)

	index, warning, err = SelectSchool([]infinitecampus.RawSchool{high, middle}, "")
	require.NoError(t, err)
	require.Equal(t, 0, index)
	require.NotNil(t, warning)
	require.Equal(t, "Lincoln High", warning.Chosen.Name)
	require.Equal(t, []SchoolInfo{
		{ID: "12", Name: "Lincoln High", Terms: 1, Courses: 2},
		{ID: "14", Name: "Lincoln Middle", Terms: 1, Courses: 1},
	}, warning.Available)
	require.Contains(t, warning.String(), "enrolled in 2 schools")

	index, warning, err = SelectSchool([]infinitecampus.RawSchool{high, middle}, "14")
	require.NoError(t, err)
	require.Equal(t, 1, index)
	require.Nil(t, warning)

	_, _, err = SelectSchool([]infinitecampus.RawSchool{high, middle}, "99")
	require.True(t, errors.Is(err, ErrUnknownSchool))
	require.Contains(t, err.Error(), "Lincoln Middle")
}

// "C1" sits at term 1, course 2
func crossRefFixture() []Term {
	school := rawSchool("12", "Lincoln High",
		rawTerm("101", 1, rawCourse("A1", "Art", 1)),
		rawTerm("102", 2, rawCourse("B1", "Band", 1), rawCourse("B2", "Chemistry", 1), rawCourse("C1", "Civics", 2)),
	)
	terms := make([]Term, 0, len(school.Terms))
	for _, raw := range school.Terms {
		terms = append(terms, NormalizeTerm(raw, nil))
	}
	return terms
}

func TestBuildCrossReference(t *testing.T) {
	terms := crossRefFixture()
	terms[0].Courses = append(terms[0].Courses, Course{ID: "C1", Name: "Civics"}, Course{Name: "no id"})

	index := BuildCrossReference(terms)
	require.Equal(t, []Location{{Term: 0, Course: 1}, {Term: 1, Course: 2}}, index["C1"])
	require.Equal(t, []Location{{Term: 1, Course: 0}}, index["B1"])
	require.NotContains(t, index, "")
}

func TestJoinRoster(t *testing.T) {
	terms := crossRefFixture()
	before := crossRefFixture()
	index := BuildCrossReference(terms)
	require.Equal(t, []Location{{Term: 1, Course: 2}}, index["C1"])

	roster := []infinitecampus.RawRosterItem{{
		CourseID:   flexString("C1"),
		PeriodName: "6",
		StartTime:  "14:00:00",
		EndTime:    "15:00:00",
	}}
	joined := JoinRoster(terms, index, roster)

	civics := joined[1].Courses[2]
	require.Equal(t, "14:00:00", *civics.Time.Start)
	require.Equal(t, "15:00:00", *civics.Time.End)
	require.Equal(t, "6", *civics.Time.Period)
	require.Len(t, civics.Grades, 2)

	// the input tree is not modified
	diff := cmp.Diff(before, terms)
	if diff != "" {
		t.Fatal(diff)
	}

	unmatched := JoinRoster(terms, index, []infinitecampus.RawRosterItem{{
		CourseID:   flexString("C99"),
		PeriodName: "1",
		StartTime:  "08:00:00",
	}})
	diff = cmp.Diff(before, unmatched)
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestJoinRosterPrefersPlacementTerm(t *testing.T) {
	terms := []Term{
		NormalizeTerm(rawTerm("101", 1, rawCourse("9001", "AP Biology", 1)), nil),
		NormalizeTerm(rawTerm("102", 2, rawCourse("9001", "AP Biology", 1)), nil),
	}
	seq := 4
	roster := []infinitecampus.RawRosterItem{{
		CourseID: flexString("9001"),
		TermID:   flexString("101"),
		SectionPlacements: []infinitecampus.RawPlacement{{
			PeriodName:     "4",
			PeriodSequence: &seq,
			StartTime:      "11:00:00",
			EndTime:        "11:50:00",
			Term:           &infinitecampus.RawPlacementTerm{TermID: flexString("102")},
		}},
	}}

	joined := JoinRoster(terms, BuildCrossReference(terms), roster)
	require.Nil(t, joined[0].Courses[0].Time.Start)
	require.Equal(t, "11:00:00", *joined[1].Courses[0].Time.Start)
	require.Equal(t, 4, *joined[1].Courses[0].Time.PeriodSequence)

	// a placement whose term is not in the tree goes to every term of the course
	roster[0].SectionPlacements[0].Term = &infinitecampus.RawPlacementTerm{TermID: flexString("S1")}
	joined = JoinRoster(terms, BuildCrossReference(terms), roster)
	require.Equal(t, "11:00:00", *joined[0].Courses[0].Time.Start)
	require.Equal(t, "11:00:00", *joined[1].Courses[0].Time.Start)
}
