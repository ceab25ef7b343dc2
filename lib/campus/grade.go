package campus

import (
	"strings"

	"icassist/lib/platforms/infinitecampus"
)

// nonEmpty treats an empty score label the same as a missing one.
func nonEmpty(f infinitecampus.FlexString) infinitecampus.FlexString {
	if strings.TrimSpace(f.Value) == "" {
		return infinitecampus.FlexString{}
	}
	return f
}

// NormalizeGrade converts a grading task into a Grade. Each score field prefers the
// progress variant and falls back to the plain one. A missing percentage is derived
// from a numeric score and the max points.
func NormalizeGrade(raw infinitecampus.RawGradingTask) Grade {
	grade := Grade{Name: raw.TaskName}
	if raw.Comments != nil {
		comments := *raw.Comments
		grade.Comments = &comments
	}

	name := nonEmpty(raw.ProgressScore).Or(nonEmpty(raw.Score))
	percentage := raw.ProgressPercentageValue().Or(raw.PlainPercentage())
	points := raw.ProgressPointsEarned.Or(raw.PointsEarned)
	maxPoints := raw.ProgressTotalPoints.Or(raw.TotalPoints)

	if !percentage.Valid && name.Valid && maxPoints.Valid && maxPoints.Value != 0 {
		score := infinitecampus.ParseFlexFloat(name.Value)
		if score.Valid {
			percentage = infinitecampus.NewFlexFloat(score.Value * 100 / maxPoints.Value)
		}
	}

	if !name.Valid && !percentage.Valid && !points.Valid && !maxPoints.Valid {
		return grade
	}
	grade.Score = &Score{
		Name:       name.Ptr(),
		Percentage: percentage.Ptr(),
		Points:     points.Ptr(),
		MaxPoints:  maxPoints.Ptr(),
	}
	return grade
}
