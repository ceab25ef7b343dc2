package campus

import (
	"fmt"
	"strings"

	"icassist/lib/platforms/infinitecampus"
)

// TermSource gives read access to terms that were already normalized.
type TermSource interface {
	Terms() []Term
}

// TermList is a TermSource over a slice.
type TermList []Term

func (l TermList) Terms() []Term {
	return l
}

func scoreValue(raw infinitecampus.FlexString) ScoreValue {
	if !raw.Valid {
		return ScoreValue{}
	}
	number := infinitecampus.ParseFlexFloat(raw.Value)
	if number.Valid {
		return NumberScore(number.Value)
	}
	if strings.TrimSpace(raw.Value) == "" {
		return ScoreValue{}
	}
	return TextScore(raw.Value)
}

// NormalizeAssignment resolves an assignment against the terms it belongs to and the
// course it is for. The assignment feed only carries the course name, so the course is
// the first one with exactly that name and stays nil if there is none.
func NormalizeAssignment(raw infinitecampus.RawAssignment, source TermSource) Assignment {
	return normalizeAssignment(raw, source, nil)
}

func normalizeAssignment(raw infinitecampus.RawAssignment, source TermSource, problems *[]error) Assignment {
	if problems == nil {
		problems = &[]error{}
	}
	record := fmt.Sprintf("assignment '%s'", raw.AssignmentName)

	assignment := Assignment{
		Name:       raw.AssignmentName,
		CourseName: raw.CourseName,
		Terms:      []Term{},
		Comments:   raw.Comments.Ptr(),
		Feedback:   raw.Feedback.Ptr(),
		Dates: AssignmentDates{
			Due:          parseOptionalDate(record, "dueDate", raw.DueDate, problems),
			Assigned:     parseOptionalDate(record, "assignedDate", raw.AssignedDate, problems),
			LastModified: parseOptionalDate(record, "modifiedDate", raw.ModifiedDate, problems),
		},
		Points: AssignmentPoints{
			Score:      scoreValue(raw.Score.Or(raw.ScorePoints)),
			Percentage: scoreValue(raw.ScorePercentage),
			MaxPoints:  raw.TotalPoints.Ptr(),
		},
		Status: AssignmentStatus{
			Missing:    raw.Missing,
			Cheated:    raw.Cheated,
			Dropped:    raw.Dropped,
			Incomplete: raw.Incomplete,
			TurnedIn:   raw.TurnedIn,
			NotGraded:  raw.NotGraded,
			Late:       raw.Late,
		},
	}
	if source == nil {
		return assignment
	}

	termIDs := make(map[string]bool, len(raw.TermIDs))
	for _, id := range raw.TermIDs {
		if id.Valid {
			termIDs[id.Value] = true
		}
	}

	terms := source.Terms()
	for _, term := range terms {
		if termIDs[term.ID] {
			assignment.Terms = append(assignment.Terms, term)
		}
	}
	for _, course := range Courses(terms) {
		if course.Name == raw.CourseName {
			matched := course
			assignment.Course = &matched
			break
		}
	}
	return assignment
}
