package campus

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"
)

type District struct {
	BaseURL string `json:"baseUrl"`
	AppName string `json:"appName"`
	Name    string `json:"name"`
	State   string `json:"state"`
}

type Term struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Sequence int       `json:"sequence"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Courses  []Course  `json:"courses"`
}

type School struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// CourseTime is when a course meets, fields stay nil until a roster entry provides them.
type CourseTime struct {
	Period         *string `json:"period,omitempty"`
	PeriodSequence *int    `json:"periodSequence,omitempty"`
	Start          *string `json:"start,omitempty"`
	End            *string `json:"end,omitempty"`
}

type Course struct {
	ID        string     `json:"id"`
	SectionID string     `json:"sectionId,omitempty"`
	Name      string     `json:"name"`
	Number    string     `json:"number,omitempty"`
	Teacher   string     `json:"teacher"`
	Room      string     `json:"room"`
	Dropped   bool       `json:"dropped"`
	School    School     `json:"school"`
	Time      CourseTime `json:"time"`
	Grades    []Grade    `json:"grades"`
}

// Score is nil on a Grade when the portal has no scoring data for it, a grade of zero
// has a Score with zero values.
type Score struct {
	// Name is the display form, a letter grade or a number as text.
	Name       *string  `json:"name,omitempty"`
	Percentage *float64 `json:"percentage,omitempty"`
	Points     *float64 `json:"points,omitempty"`
	MaxPoints  *float64 `json:"maxPoints,omitempty"`
}

type Grade struct {
	Name     string  `json:"name"`
	Comments *string `json:"comments,omitempty"`
	Score    *Score  `json:"score,omitempty"`
}

type Period struct {
	Name     string `json:"name"`
	Sequence *int   `json:"sequence,omitempty"`
	Start    string `json:"start"`
	End      string `json:"end"`
}

type RosterItem struct {
	ID     string  `json:"id"`
	Term   *Term   `json:"term"`
	Course *Course `json:"course"`
	Period Period  `json:"period"`
}

// ScoreValue is an assignment score, either a number or literal text such as a letter
// grade. Both fields are nil when there is no score.
type ScoreValue struct {
	Number *float64
	Text   *string
}

func NumberScore(value float64) ScoreValue {
	return ScoreValue{Number: &value}
}

func TextScore(value string) ScoreValue {
	return ScoreValue{Text: &value}
}

func (s ScoreValue) IsZero() bool {
	return s.Number == nil && s.Text == nil
}

func (s ScoreValue) String() string {
	switch {
	case s.Number != nil:
		return strconv.FormatFloat(*s.Number, 'f', -1, 64)
	case s.Text != nil:
		return *s.Text
	}
	return ""
}

func (s ScoreValue) MarshalJSON() ([]byte, error) {
	switch {
	case s.Number != nil:
		return json.Marshal(*s.Number)
	case s.Text != nil:
		return json.Marshal(*s.Text)
	}
	return []byte("null"), nil
}

func (s *ScoreValue) UnmarshalJSON(data []byte) error {
	*s = ScoreValue{}
	var value any
	err := json.Unmarshal(data, &value)
	if err != nil {
		return err
	}
	switch v := value.(type) {
	case float64:
		s.Number = &v
	case string:
		s.Text = &v
	}
	return nil
}

type AssignmentDates struct {
	Due          *time.Time `json:"due,omitempty"`
	Assigned     *time.Time `json:"assigned,omitempty"`
	LastModified *time.Time `json:"lastModified,omitempty"`
}

type AssignmentPoints struct {
	Score      ScoreValue `json:"score"`
	Percentage ScoreValue `json:"percentage"`
	MaxPoints  *float64   `json:"maxPoints,omitempty"`
}

type AssignmentStatus struct {
	Missing    bool `json:"missing"`
	Cheated    bool `json:"cheated"`
	Dropped    bool `json:"dropped"`
	Incomplete bool `json:"incomplete"`
	TurnedIn   bool `json:"turnedIn"`
	NotGraded  bool `json:"notGraded"`
	Late       bool `json:"late"`
}

type Assignment struct {
	Name       string           `json:"name"`
	CourseName string           `json:"courseName"`
	Terms      []Term           `json:"terms"`
	Course     *Course          `json:"course,omitempty"`
	Comments   *string          `json:"comments,omitempty"`
	Feedback   *string          `json:"feedback,omitempty"`
	Dates      AssignmentDates  `json:"dates"`
	Points     AssignmentPoints `json:"points"`
	Status     AssignmentStatus `json:"status"`
}

type NotificationType int

const (
	NotificationAttendance NotificationType = 2
	NotificationGrade      NotificationType = 3
	NotificationAssignment NotificationType = 4
)

func (t NotificationType) String() string {
	switch t {
	case NotificationAttendance:
		return "attendance"
	case NotificationGrade:
		return "grade"
	case NotificationAssignment:
		return "assignment"
	}
	return strconv.Itoa(int(t))
}

// Toggler flips the read state of a notification upstream.
type Toggler interface {
	ToggleRead(ctx context.Context, notificationID string) error
}

var ErrUnboundNotification = errors.New("notification is not bound to a session")

type Notification struct {
	ID            string           `json:"id"`
	Link          string           `json:"link"`
	Read          bool             `json:"read"`
	Text          string           `json:"text"`
	Timestamp     int64            `json:"timestamp"`
	TimestampText string           `json:"timestampText"`
	Type          NotificationType `json:"type"`

	toggler Toggler
}

// ToggleRead flips the read state of the notification upstream. The Notification
// itself is not changed, fetch the notifications again to see the new state.
func (n Notification) ToggleRead(ctx context.Context) error {
	if n.toggler == nil {
		return ErrUnboundNotification
	}
	return n.toggler.ToggleRead(ctx, n.ID)
}
