package gradestore

import (
	"icassist/lib/campus"
)

// courseValue picks the first grade of a course that has a percentage.
func courseValue(course campus.Course) (CourseSnapshot, bool) {
	for _, grade := range course.Grades {
		if grade.Score == nil || grade.Score.Percentage == nil {
			continue
		}
		snapshot := CourseSnapshot{
			Course: course.Name,
			Value:  *grade.Score.Percentage,
		}
		if grade.Score.Name != nil {
			snapshot.Label = *grade.Score.Name
		}
		return snapshot, true
	}
	return CourseSnapshot{}, false
}

// Snapshot builds the snapshot of a user from the courses of one term. Dropped courses
// and courses without a percentage are skipped.
func Snapshot(user string, courses []campus.Course) UserSnapshot {
	snapshot := UserSnapshot{User: user}
	seen := map[string]bool{}
	for _, course := range courses {
		if course.Dropped || seen[course.Name] {
			continue
		}
		value, ok := courseValue(course)
		if !ok {
			continue
		}
		seen[course.Name] = true
		snapshot.Courses = append(snapshot.Courses, value)
	}
	return snapshot
}
