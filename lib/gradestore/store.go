package gradestore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"icassist/lib/telemetry"
	"icassist/lib/timezone"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("gradestore")

// Store keeps one grade snapshot per student course per day.
type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) Store {
	return Store{db: database}
}

type CourseSnapshot struct {
	Course string
	Value  float64
	// Label is the display grade at the time of the snapshot, ex. "A-".
	Label string
}

type UserSnapshot struct {
	User    string
	Courses []CourseSnapshot
}

type PushRequest struct {
	Time  time.Time
	Users []UserSnapshot
}

// Push records the snapshots of req. Snapshots the same users already have on the day
// of req.Time are replaced.
func (s Store) Push(ctx context.Context, req PushRequest) error {
	ctx, span := tracer.Start(ctx, "Store:Push")
	defer span.End()

	err := s.push(ctx, req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (s Store) push(ctx context.Context, req PushRequest) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	startOfToday := timezone.StartOfDay(req.Time)
	startOfTomorrow := startOfToday.AddDate(0, 0, 1)

	if len(req.Users) > 0 {
		args := []any{startOfToday.Unix(), startOfTomorrow.Unix()}
		placeholders := make([]string, len(req.Users))
		for i, user := range req.Users {
			placeholders[i] = "?"
			args = append(args, user.User)
		}
		_, err = tx.ExecContext(ctx, fmt.Sprintf(`
			delete from grade_snapshot
			where time >= ? and time < ?
			and student_course_id in (
				select id from student_course where student in (%s)
			)`, strings.Join(placeholders, ",")),
			args...,
		)
		if err != nil {
			return fmt.Errorf("clear snapshots: %w", err)
		}
	}

	for _, user := range req.Users {
		for _, course := range user.Courses {
			_, err := tx.ExecContext(
				ctx,
				"insert into student_course (student, course) values (?, ?) on conflict do nothing",
				user.User, course.Course,
			)
			if err != nil {
				return fmt.Errorf("create course '%s': %w", course.Course, err)
			}

			var id int64
			err = tx.QueryRowContext(
				ctx,
				"select id from student_course where student = ? and course = ?",
				user.User, course.Course,
			).Scan(&id)
			if err != nil {
				return fmt.Errorf("find course '%s': %w", course.Course, err)
			}

			var label any
			if course.Label != "" {
				label = course.Label
			}
			_, err = tx.ExecContext(
				ctx,
				"insert into grade_snapshot (student_course_id, time, value, label) values (?, ?, ?, ?)",
				id, req.Time.Unix(), course.Value, label,
			)
			if err != nil {
				return fmt.Errorf("create snapshot for '%s': %w", course.Course, err)
			}
		}
	}
	return tx.Commit()
}

type GradeSnapshot struct {
	Time  time.Time
	Value float64
	Label string
}

type CourseSnapshotSeries struct {
	Course    string
	Snapshots []GradeSnapshot
}

// Pull returns every snapshot of a user, grouped by course in course name order with
// the snapshots of each course in time order.
func (s Store) Pull(ctx context.Context, user string) ([]CourseSnapshotSeries, error) {
	ctx, span := tracer.Start(ctx, "Store:Pull")
	defer span.End()
	span.SetAttributes(attribute.String("user", user))

	rows, err := s.db.QueryContext(ctx, `
		select c.course, g.time, g.value, g.label
		from grade_snapshot g
		join student_course c on c.id = g.student_course_id
		where c.student = ?
		order by c.course, g.time`,
		user,
	)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer rows.Close()

	var courses []CourseSnapshotSeries
	for rows.Next() {
		var course string
		var unix int64
		var value float64
		var label sql.NullString
		err := rows.Scan(&course, &unix, &value, &label)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}

		if len(courses) == 0 || courses[len(courses)-1].Course != course {
			courses = append(courses, CourseSnapshotSeries{Course: course})
		}
		series := &courses[len(courses)-1]
		series.Snapshots = append(series.Snapshots, GradeSnapshot{
			Time:  time.Unix(unix, 0).In(timezone.Location()),
			Value: value,
			Label: label.String,
		})
	}
	err = rows.Err()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return courses, nil
}
