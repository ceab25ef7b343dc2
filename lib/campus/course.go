package campus

import (
	"fmt"
	"time"

	"icassist/lib/platforms/infinitecampus"
	"icassist/lib/timezone"
)

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// NormalizeCourse converts a course of the grades feed. The meeting window comes from
// the roster, a course the roster doesn't know keeps an unset window. lookup may be nil.
func NormalizeCourse(raw infinitecampus.RawCourse, termID string, lookup RosterLookup) Course {
	course := Course{
		ID:        raw.CourseID.Value,
		SectionID: raw.SectionID.Value,
		Name:      raw.CourseName,
		Number:    raw.CourseNumber,
		Teacher:   raw.TeacherDisplay,
		Room:      raw.RoomName,
		Dropped:   raw.Dropped,
		School: School{
			Name: raw.SchoolName,
			ID:   raw.SchoolID.Value,
		},
		Grades: make([]Grade, 0, len(raw.GradingTasks)),
	}
	if lookup != nil {
		period, ok := lookup.Placement(course.ID, termID)
		if ok {
			course.Time.Start = optional(period.Start)
			course.Time.End = optional(period.End)
		}
	}
	for _, task := range raw.GradingTasks {
		course.Grades = append(course.Grades, NormalizeGrade(task))
	}
	return course
}

// DateError is a date field that could not be parsed, the field is left zero.
type DateError struct {
	Record string
	Field  string
	Value  string
	Err    error
}

func (e *DateError) Error() string {
	return fmt.Sprintf("%s: %s: cannot parse '%s': %s", e.Record, e.Field, e.Value, e.Err.Error())
}

func (e *DateError) Unwrap() error {
	return e.Err
}

func parseDate(record, field, value string, problems *[]error) time.Time {
	parsed, err := timezone.ParseDate(value)
	if err != nil {
		*problems = append(*problems, &DateError{Record: record, Field: field, Value: value, Err: err})
		return time.Time{}
	}
	return parsed
}

func parseOptionalDate(record, field, value string, problems *[]error) *time.Time {
	if value == "" {
		return nil
	}
	parsed := parseDate(record, field, value, problems)
	if parsed.IsZero() {
		return nil
	}
	return &parsed
}

// NormalizeTerm converts a term of the grades feed with all of its courses. Dates that
// cannot be parsed are left zero.
func NormalizeTerm(raw infinitecampus.RawTerm, lookup RosterLookup) Term {
	term, _ := NormalizeTermChecked(raw, lookup)
	return term
}

// NormalizeTermChecked is NormalizeTerm that also returns the date fields it could not
// parse.
func NormalizeTermChecked(raw infinitecampus.RawTerm, lookup RosterLookup) (Term, []error) {
	var problems []error
	record := fmt.Sprintf("term '%s'", raw.TermName)

	term := Term{
		ID:       raw.TermID.Value,
		Name:     raw.TermName,
		Sequence: raw.TermSeq,
		Start:    parseDate(record, "startDate", raw.StartDate, &problems),
		End:      parseDate(record, "endDate", raw.EndDate, &problems),
		Courses:  make([]Course, 0, len(raw.Courses)),
	}
	for _, course := range raw.Courses {
		term.Courses = append(term.Courses, NormalizeCourse(course, term.ID, lookup))
	}
	return term, problems
}

// CurrentTerm returns the term now falls in. Between terms it returns the latest term
// that has already started, before the first term it returns the first one.
func CurrentTerm(terms []Term, now time.Time) (Term, bool) {
	if len(terms) == 0 {
		return Term{}, false
	}
	current := -1
	for i, term := range terms {
		if term.Start.IsZero() || term.Start.After(now) {
			continue
		}
		if !term.End.IsZero() && !now.After(term.End.AddDate(0, 0, 1)) {
			return term, true
		}
		if current < 0 || term.Start.After(terms[current].Start) {
			current = i
		}
	}
	if current < 0 {
		return terms[0], true
	}
	return terms[current], true
}
