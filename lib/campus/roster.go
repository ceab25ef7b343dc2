package campus

import (
	"icassist/lib/platforms/infinitecampus"
)

// placement is where and when a roster entry meets, flattened out of whichever
// shape the roster feed used.
type placement struct {
	CourseID string
	TermID   string
	Period   Period
}

func placementOf(item infinitecampus.RawRosterItem) placement {
	p := placement{
		CourseID: item.CourseID.Value,
		TermID:   item.TermID.Value,
		Period: Period{
			Name:     item.PeriodName,
			Sequence: item.PeriodSequence,
			Start:    item.StartTime,
			End:      item.EndTime,
		},
	}
	if p.Period.Sequence == nil {
		p.Period.Sequence = item.PeriodSequnce
	}
	if len(item.SectionPlacements) == 0 {
		return p
	}

	first := item.SectionPlacements[0]
	p.Period = Period{
		Name:     first.PeriodName,
		Sequence: first.PeriodSequence,
		Start:    first.StartTime,
		End:      first.EndTime,
	}
	if p.Period.Sequence == nil {
		p.Period.Sequence = item.PeriodSequence
	}
	if p.Period.Sequence == nil {
		p.Period.Sequence = item.PeriodSequnce
	}
	switch {
	case first.TermID.Valid:
		p.TermID = first.TermID.Value
	case first.Term != nil && first.Term.TermID.Valid:
		p.TermID = first.Term.TermID.Value
	}
	return p
}

// RosterLookup finds the placement of a course in a term.
type RosterLookup interface {
	Placement(courseID, termID string) (Period, bool)
}

// appliesTo reports whether the placement belongs to a course located in termID.
// inTerm reports whether the course also has a location in a given term. A placement
// scheduled in another term only applies when the course is absent from that term.
func (p placement) appliesTo(termID string, inTerm func(termID string) bool) bool {
	if p.TermID == "" || termID == "" || p.TermID == termID {
		return true
	}
	return !inTerm(p.TermID)
}

// RosterIndex is a RosterLookup over a roster feed.
type RosterIndex struct {
	placements map[string][]placement
	// course id -> ids of the terms the course is located in
	courseTerms map[string]map[string]bool
}

// NewRosterIndex indexes the roster by course id. terms are the grades feed terms the
// index is looked up for, they decide which placements from other terms apply.
func NewRosterIndex(roster []infinitecampus.RawRosterItem, terms []infinitecampus.RawTerm) RosterIndex {
	index := RosterIndex{
		placements:  map[string][]placement{},
		courseTerms: map[string]map[string]bool{},
	}
	for _, item := range roster {
		p := placementOf(item)
		if p.CourseID == "" {
			continue
		}
		index.placements[p.CourseID] = append(index.placements[p.CourseID], p)
	}
	for _, term := range terms {
		for _, course := range term.Courses {
			id := course.CourseID.Value
			if id == "" {
				continue
			}
			if index.courseTerms[id] == nil {
				index.courseTerms[id] = map[string]bool{}
			}
			index.courseTerms[id][term.TermID.Value] = true
		}
	}
	return index
}

// Placement prefers the entry scheduled in the given term, otherwise the first entry
// of the course in roster order that applies to the term.
func (r RosterIndex) Placement(courseID, termID string) (Period, bool) {
	inTerm := func(id string) bool {
		return r.courseTerms[courseID][id]
	}
	var fallback *placement
	for i, entry := range r.placements[courseID] {
		if !entry.appliesTo(termID, inTerm) {
			continue
		}
		if termID != "" && entry.TermID == termID {
			return entry.Period, true
		}
		if fallback == nil {
			fallback = &r.placements[courseID][i]
		}
	}
	if fallback == nil {
		return Period{}, false
	}
	return fallback.Period, true
}

func findTerm(terms []Term, id string) *Term {
	if id == "" {
		return nil
	}
	for i := range terms {
		if terms[i].ID == id {
			term := terms[i]
			return &term
		}
	}
	return nil
}

func findCourse(courses []Course, id string) *Course {
	if id == "" {
		return nil
	}
	for i := range courses {
		if courses[i].ID == id {
			course := courses[i]
			return &course
		}
	}
	return nil
}

// NormalizeRoster pairs every roster entry with its term and course. Entries whose term
// or course is not among terms are dropped.
func NormalizeRoster(roster []infinitecampus.RawRosterItem, terms []Term) []RosterItem {
	items := make([]RosterItem, 0, len(roster))
	for _, raw := range roster {
		p := placementOf(raw)

		term := findTerm(terms, raw.TermID.Value)
		if term == nil {
			term = findTerm(terms, p.TermID)
		}
		if term == nil {
			continue
		}
		course := findCourse(term.Courses, p.CourseID)
		if course == nil {
			course = findCourse(Courses(terms), p.CourseID)
		}
		if course == nil {
			continue
		}

		id := raw.ObjectID
		if id == "" {
			id = raw.SectionID.Value
		}
		items = append(items, RosterItem{
			ID:     id,
			Term:   term,
			Course: course,
			Period: p.Period,
		})
	}
	return items
}

// Courses flattens the courses of terms in term order.
func Courses(terms []Term) []Course {
	courses := []Course{}
	for _, term := range terms {
		courses = append(courses, term.Courses...)
	}
	return courses
}
