package campus

import (
	"errors"
	"fmt"
	"strings"

	"icassist/lib/platforms/infinitecampus"
)

var (
	ErrNoSchools     = errors.New("the grades feed has no schools")
	ErrUnknownSchool = errors.New("unknown school id")
)

type SchoolInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Terms   int    `json:"terms"`
	Courses int    `json:"courses"`
}

func (s SchoolInfo) String() string {
	return fmt.Sprintf("%s (id %s, %d terms, %d courses)", s.Name, s.ID, s.Terms, s.Courses)
}

// MultiSchoolWarning is raised when the student is enrolled in more than one school and
// no school was chosen, the first school is used.
type MultiSchoolWarning struct {
	Chosen    SchoolInfo   `json:"chosen"`
	Available []SchoolInfo `json:"available"`
}

func (w MultiSchoolWarning) String() string {
	names := make([]string, len(w.Available))
	for i, school := range w.Available {
		names[i] = school.String()
	}
	return fmt.Sprintf(
		"enrolled in %d schools, defaulting to %s, specify a school id to pick one of: %s",
		len(w.Available), w.Chosen.Name, strings.Join(names, "; "),
	)
}

func schoolInfos(schools []infinitecampus.RawSchool) []SchoolInfo {
	infos := make([]SchoolInfo, len(schools))
	for i, school := range schools {
		courses := len(school.Courses)
		if courses == 0 {
			for _, term := range school.Terms {
				courses += len(term.Courses)
			}
		}
		infos[i] = SchoolInfo{
			ID:      school.SchoolID.Value,
			Name:    school.DisplayName,
			Terms:   len(school.Terms),
			Courses: courses,
		}
	}
	return infos
}

// SelectSchool returns the index of the school whose term tree is used. An empty
// schoolID picks the first school, with a warning when there was a choice to make.
func SelectSchool(schools []infinitecampus.RawSchool, schoolID string) (int, *MultiSchoolWarning, error) {
	if len(schools) == 0 {
		return 0, nil, ErrNoSchools
	}
	infos := schoolInfos(schools)

	if schoolID != "" {
		for i, info := range infos {
			if info.ID == schoolID {
				return i, nil, nil
			}
		}
		names := make([]string, len(infos))
		for i, info := range infos {
			names[i] = info.String()
		}
		return 0, nil, fmt.Errorf("%w '%s', choose one of: %s", ErrUnknownSchool, schoolID, strings.Join(names, "; "))
	}

	if len(schools) == 1 {
		return 0, nil, nil
	}
	return 0, &MultiSchoolWarning{Chosen: infos[0], Available: infos}, nil
}

// Location is the position of a course in a term tree.
type Location struct {
	Term   int
	Course int
}

// CrossReference maps a course id to every place the course appears in a term tree,
// a course that runs for several terms appears once per term.
type CrossReference map[string][]Location

func BuildCrossReference(terms []Term) CrossReference {
	index := CrossReference{}
	for ti, term := range terms {
		for ci, course := range term.Courses {
			if course.ID == "" {
				continue
			}
			index[course.ID] = append(index[course.ID], Location{Term: ti, Course: ci})
		}
	}
	return index
}

func copyTerms(terms []Term) []Term {
	out := make([]Term, len(terms))
	for i, term := range terms {
		out[i] = term
		out[i].Courses = make([]Course, len(term.Courses))
		copy(out[i].Courses, term.Courses)
	}
	return out
}

// JoinRoster returns a copy of terms with the period placement of every roster entry
// attached to its course. A placement goes to the locations in its own term when
// there are any, otherwise to every location of the course. Entries that match no
// course are skipped. terms is not modified.
func JoinRoster(terms []Term, index CrossReference, roster []infinitecampus.RawRosterItem) []Term {
	out := copyTerms(terms)
	for _, item := range roster {
		p := placementOf(item)
		locations := index[p.CourseID]
		if len(locations) == 0 {
			continue
		}

		inTerm := func(termID string) bool {
			for _, loc := range locations {
				if loc.Term < len(out) && out[loc.Term].ID == termID {
					return true
				}
			}
			return false
		}

		for _, loc := range locations {
			if loc.Term >= len(out) || loc.Course >= len(out[loc.Term].Courses) {
				continue
			}
			if !p.appliesTo(out[loc.Term].ID, inTerm) {
				continue
			}
			course := &out[loc.Term].Courses[loc.Course]
			course.Time = withPlacement(course.Time, p.Period)
		}
	}
	return out
}

func withPlacement(current CourseTime, period Period) CourseTime {
	next := current
	if period.Name != "" {
		next.Period = optional(period.Name)
	}
	if period.Sequence != nil {
		seq := *period.Sequence
		next.PeriodSequence = &seq
	}
	if period.Start != "" {
		next.Start = optional(period.Start)
	}
	if period.End != "" {
		next.End = optional(period.End)
	}
	return next
}
