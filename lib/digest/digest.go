package digest

import (
	"sort"
	"time"

	"icassist/lib/campus"
	"icassist/lib/gradestore"
	"icassist/lib/timezone"
)

// UpcomingWindow is how far ahead unsubmitted assignments are listed.
const UpcomingWindow = 7 * 24 * time.Hour

type CourseLine struct {
	Course     string
	Teacher    string
	Grade      string
	Percentage *float64
	// Change is the difference to the latest snapshot taken before today.
	Change *float64
}

type AssignmentStatus string

const (
	StatusMissing AssignmentStatus = "missing"
	StatusLate    AssignmentStatus = "late"
	StatusDue     AssignmentStatus = "due"
)

type AssignmentLine struct {
	Course string
	Name   string
	Due    *time.Time
	Status AssignmentStatus
}

type Digest struct {
	Student       string
	Term          string
	Generated     time.Time
	Courses       []CourseLine
	Assignments   []AssignmentLine
	Notifications []campus.Notification
}

type Input struct {
	Student       string
	Term          campus.Term
	Assignments   []campus.Assignment
	Notifications []campus.Notification
	History       []gradestore.CourseSnapshotSeries
	Now           time.Time
}

func currentGrade(course campus.Course) (string, *float64) {
	for _, grade := range course.Grades {
		if grade.Score == nil {
			continue
		}
		var name string
		if grade.Score.Name != nil {
			name = *grade.Score.Name
		}
		return name, grade.Score.Percentage
	}
	return "", nil
}

func previousValue(history []gradestore.CourseSnapshotSeries, course string, before time.Time) (float64, bool) {
	for _, series := range history {
		if series.Course != course {
			continue
		}
		var found bool
		var value float64
		for _, snapshot := range series.Snapshots {
			if !snapshot.Time.Before(before) {
				break
			}
			value = snapshot.Value
			found = true
		}
		return value, found
	}
	return 0, false
}

func assignmentStatus(assignment campus.Assignment, now time.Time) (AssignmentStatus, bool) {
	switch {
	case assignment.Status.Missing:
		return StatusMissing, true
	case assignment.Status.Late:
		return StatusLate, true
	case assignment.Status.TurnedIn || assignment.Status.Dropped || assignment.Dates.Due == nil:
		return "", false
	case assignment.Dates.Due.After(now) && assignment.Dates.Due.Before(now.Add(UpcomingWindow)):
		return StatusDue, true
	}
	return "", false
}

// Build collects what a student should look at: the grades of the term, assignments
// that are missing, late or due soon, and unread notifications.
func Build(in Input) Digest {
	now := in.Now
	if now.IsZero() {
		now = timezone.Now()
	}
	today := timezone.StartOfDay(now)

	digest := Digest{
		Student:   in.Student,
		Term:      in.Term.Name,
		Generated: now,
	}

	for _, course := range in.Term.Courses {
		if course.Dropped {
			continue
		}
		line := CourseLine{Course: course.Name, Teacher: course.Teacher}
		line.Grade, line.Percentage = currentGrade(course)
		if line.Percentage != nil {
			previous, ok := previousValue(in.History, course.Name, today)
			if ok {
				change := *line.Percentage - previous
				line.Change = &change
			}
		}
		digest.Courses = append(digest.Courses, line)
	}

	for _, assignment := range in.Assignments {
		status, ok := assignmentStatus(assignment, now)
		if !ok {
			continue
		}
		digest.Assignments = append(digest.Assignments, AssignmentLine{
			Course: assignment.CourseName,
			Name:   assignment.Name,
			Due:    assignment.Dates.Due,
			Status: status,
		})
	}
	sort.SliceStable(digest.Assignments, func(i, j int) bool {
		a, b := digest.Assignments[i].Due, digest.Assignments[j].Due
		if a == nil || b == nil {
			return a != nil
		}
		return a.Before(*b)
	})

	for _, notification := range in.Notifications {
		if !notification.Read {
			digest.Notifications = append(digest.Notifications, notification)
		}
	}
	return digest
}

// Empty reports whether there is nothing to tell the student.
func (d Digest) Empty() bool {
	return len(d.Courses) == 0 && len(d.Assignments) == 0 && len(d.Notifications) == 0
}
