package campus

import (
	"encoding/json"
	"testing"
	"time"

	"icassist/lib/platforms/infinitecampus"
	"icassist/lib/timezone"

	"github.com/stretchr/testify/require"
)

func assignmentTerms() TermList {
	return TermList{
		NormalizeTerm(rawTerm("101", 1, rawCourse("9001", "AP Biology", 1), rawCourse("9002", "English 10", 0)), nil),
		NormalizeTerm(rawTerm("102", 2, rawCourse("9001", "AP Biology", 0)), nil),
		NormalizeTerm(rawTerm("103", 3), nil),
	}
}

func TestAssignmentCourseMatch(t *testing.T) {
	terms := assignmentTerms()

	matched := NormalizeAssignment(infinitecampus.RawAssignment{
		AssignmentName: "Cell Lab",
		CourseName:     "AP Biology",
	}, terms)
	require.NotNil(t, matched.Course)
	require.Equal(t, terms[0].Courses[0], *matched.Course)

	unknown := NormalizeAssignment(infinitecampus.RawAssignment{
		AssignmentName: "Mystery",
		CourseName:     "Unknown Class",
	}, terms)
	require.Nil(t, unknown.Course)
	require.Equal(t, "Unknown Class", unknown.CourseName)

	// names must match exactly
	nearly := NormalizeAssignment(infinitecampus.RawAssignment{CourseName: "ap biology"}, terms)
	require.Nil(t, nearly.Course)
}

func TestAssignmentTerms(t *testing.T) {
	terms := assignmentTerms()

	assignment := NormalizeAssignment(infinitecampus.RawAssignment{
		TermIDs: []infinitecampus.FlexString{flexString("103"), flexString("101"), flexString("999")},
	}, terms)
	require.Len(t, assignment.Terms, 2)
	require.Equal(t, "101", assignment.Terms[0].ID)
	require.Equal(t, "103", assignment.Terms[1].ID)

	none := NormalizeAssignment(infinitecampus.RawAssignment{}, terms)
	require.NotNil(t, none.Terms)
	require.Empty(t, none.Terms)

	unresolved := NormalizeAssignment(infinitecampus.RawAssignment{CourseName: "AP Biology"}, nil)
	require.Nil(t, unresolved.Course)
	require.Empty(t, unresolved.Terms)
}

func TestAssignmentScores(t *testing.T) {
	cases := []struct {
		name       string
		score      infinitecampus.FlexString
		percentage infinitecampus.FlexString
		expected   AssignmentPoints
	}{
		{
			name:       "numeric text",
			score:      flexString("18"),
			percentage: flexString("90"),
			expected:   AssignmentPoints{Score: NumberScore(18), Percentage: NumberScore(90), MaxPoints: num(20)},
		},
		{
			name:       "letter grade",
			score:      flexString("B"),
			percentage: flexString(""),
			expected:   AssignmentPoints{Score: TextScore("B"), MaxPoints: num(20)},
		},
		{
			name:     "absent",
			expected: AssignmentPoints{MaxPoints: num(20)},
		},
	}

	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			assignment := NormalizeAssignment(infinitecampus.RawAssignment{
				Score:           test.score,
				ScorePercentage: test.percentage,
				TotalPoints:     flexFloat(20),
			}, nil)
			require.Equal(t, test.expected, assignment.Points)
		})
	}
}

func TestAssignmentFields(t *testing.T) {
	require.NoError(t, timezone.SetLocation("UTC"))

	assignment := NormalizeAssignment(infinitecampus.RawAssignment{
		AssignmentName: "Cell Lab",
		DueDate:        "2024-09-12T00:00:00",
		AssignedDate:   "",
		ModifiedDate:   "not a date",
		Comments:       flexString("see me"),
		Missing:        true,
		Cheated:        true,
		Dropped:        true,
		Incomplete:     true,
		TurnedIn:       true,
		NotGraded:      true,
		Late:           true,
	}, nil)

	require.Equal(t, "Cell Lab", assignment.Name)
	require.Equal(t, "see me", *assignment.Comments)
	require.Nil(t, assignment.Feedback)
	require.Equal(t, time.Date(2024, 9, 12, 0, 0, 0, 0, time.UTC), *assignment.Dates.Due)
	require.Nil(t, assignment.Dates.Assigned)
	require.Nil(t, assignment.Dates.LastModified)
	require.Equal(t, AssignmentStatus{
		Missing:    true,
		Cheated:    true,
		Dropped:    true,
		Incomplete: true,
		TurnedIn:   true,
		NotGraded:  true,
		Late:       true,
	}, assignment.Status)
}

func TestScoreValueJSON(t *testing.T) {
	out, err := json.Marshal(AssignmentPoints{Score: NumberScore(18.5), Percentage: TextScore("A")})
	require.NoError(t, err)
	require.JSONEq(t, `{"score":18.5,"percentage":"A"}`, string(out))

	var points AssignmentPoints
	err = json.Unmarshal([]byte(`{"score":"B+","percentage":null}`), &points)
	require.NoError(t, err)
	require.Equal(t, "B+", points.Score.String())
	require.True(t, points.Percentage.IsZero())

	require.Equal(t, "18.5", NumberScore(18.5).String())
}
