package infinitecampus

// the raw types mirror the portal's payloads field for field (minus what nothing reads).
// fields that are optional or change type between api generations use pointers,
// FlexString or FlexFloat so that "absent" survives decoding.

type RawDistrict struct {
	ID      FlexString `json:"id"`
	Name    string     `json:"district_name"`
	AppName string     `json:"district_app_name"`
	BaseURL string     `json:"district_baseurl"`
	State   string     `json:"state_code"`
}

type districtSearchResponse struct {
	Data  []RawDistrict `json:"data"`
	Error any           `json:"error"`
}

// RawSchool is one element of the grades feed, each school carries its own term tree.
type RawSchool struct {
	SchoolID    FlexString  `json:"schoolID"`
	DisplayName string      `json:"displayName"`
	Terms       []RawTerm   `json:"terms"`
	Courses     []RawCourse `json:"courses"`
}

type RawTerm struct {
	TermID           FlexString  `json:"termID"`
	TermName         string      `json:"termName"`
	TermScheduleID   FlexString  `json:"termScheduleID"`
	TermScheduleName string      `json:"termScheduleName"`
	TermSeq          int         `json:"termSeq"`
	StartDate        string      `json:"startDate"`
	EndDate          string      `json:"endDate"`
	Courses          []RawCourse `json:"courses"`
}

type RawCourse struct {
	ObjectID       string           `json:"_id"`
	CourseID       FlexString       `json:"courseID"`
	SectionID      FlexString       `json:"sectionID"`
	CourseName     string           `json:"courseName"`
	CourseNumber   string           `json:"courseNumber"`
	SectionNumber  string           `json:"sectionNumber"`
	SchoolID       FlexString       `json:"schoolID"`
	SchoolName     string           `json:"schoolName"`
	RoomName       string           `json:"roomName"`
	TeacherDisplay string           `json:"teacherDisplay"`
	Dropped        bool             `json:"dropped"`
	GradingTasks   []RawGradingTask `json:"gradingTasks"`
}

// RawGradingTask is one gradable component of a course. The portal has used both
// "percent" and "percentage" as the key of the percentage fields.
type RawGradingTask struct {
	TaskID   FlexString `json:"taskID"`
	TaskName string     `json:"taskName"`
	CourseID FlexString `json:"courseID"`
	TermID   FlexString `json:"termID"`
	Comments *string    `json:"comments"`

	Score        FlexString `json:"score"`
	Percent      FlexFloat  `json:"percent"`
	Percentage   FlexFloat  `json:"percentage"`
	PointsEarned FlexFloat  `json:"pointsEarned"`
	TotalPoints  FlexFloat  `json:"totalPoints"`

	ProgressScore        FlexString `json:"progressScore"`
	ProgressPercent      FlexFloat  `json:"progressPercent"`
	ProgressPercentage   FlexFloat  `json:"progressPercentage"`
	ProgressPointsEarned FlexFloat  `json:"progressPointsEarned"`
	ProgressTotalPoints  FlexFloat  `json:"progressTotalPoints"`
}

// PlainPercentage is the non-progress percentage under whichever key was sent.
func (g RawGradingTask) PlainPercentage() FlexFloat {
	return g.Percentage.Or(g.Percent)
}

// ProgressPercentageValue is the progress percentage under whichever key was sent.
func (g RawGradingTask) ProgressPercentageValue() FlexFloat {
	return g.ProgressPercentage.Or(g.ProgressPercent)
}

type RawPlacementTerm struct {
	TermID    FlexString `json:"termID"`
	TermName  string     `json:"termName"`
	Seq       int        `json:"seq"`
	StartDate string     `json:"startDate"`
	EndDate   string     `json:"endDate"`
}

// RawPlacement is the period/time a section meets in.
type RawPlacement struct {
	PeriodName     string            `json:"periodName"`
	PeriodSequence *int              `json:"periodSequence"`
	StartTime      string            `json:"startTime"`
	EndTime        string            `json:"endTime"`
	TermID         FlexString        `json:"termID"`
	Term           *RawPlacementTerm `json:"term"`
}

// RawRosterItem is one element of the roster feed. Older responses carry the placement
// inline, newer ones expand it into SectionPlacements.
type RawRosterItem struct {
	ObjectID       string     `json:"_id"`
	SectionID      FlexString `json:"sectionID"`
	CourseID       FlexString `json:"courseID"`
	CourseName     string     `json:"courseName"`
	CourseNumber   string     `json:"courseNumber"`
	TermID         FlexString `json:"termID"`
	TermName       string     `json:"termName"`
	TermSeq        int        `json:"termSeq"`
	TeacherDisplay string     `json:"teacherDisplay"`
	RoomName       string     `json:"roomName"`

	PeriodName     string `json:"periodName"`
	PeriodSequence *int   `json:"periodSequence"`
	// misspelled by the portal
	PeriodSequnce *int   `json:"periodSequnce"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`

	SectionPlacements []RawPlacement `json:"sectionPlacements"`
}

type RawAssignment struct {
	ObjectSectionID FlexString   `json:"objectSectionID"`
	SectionID       FlexString   `json:"sectionID"`
	TermIDs         []FlexString `json:"termIDs"`
	AssignmentName  string       `json:"assignmentName"`
	CourseName      string       `json:"courseName"`
	DueDate         string       `json:"dueDate"`
	AssignedDate    string       `json:"assignedDate"`
	ModifiedDate    string       `json:"modifiedDate"`

	ScoringType     string     `json:"scoringType"`
	Score           FlexString `json:"score"`
	ScorePoints     FlexString `json:"scorePoints"`
	ScorePercentage FlexString `json:"scorePercentage"`
	TotalPoints     FlexFloat  `json:"totalPoints"`

	Comments FlexString `json:"comments"`
	Feedback FlexString `json:"feedback"`

	Late       bool `json:"late"`
	Missing    bool `json:"missing"`
	Dropped    bool `json:"dropped"`
	Cheated    bool `json:"cheated"`
	Incomplete bool `json:"incomplete"`
	TurnedIn   bool `json:"turnedIn"`
	NotGraded  bool `json:"notGraded"`
}

// RawNotification is a prism notification, every field arrives as text.
type RawNotification struct {
	NotificationID     FlexString `json:"notificationID"`
	NotificationText   string     `json:"notificationText"`
	NotificationTypeID FlexString `json:"notificationTypeID"`
	CreationTimestamp  FlexString `json:"creationTimestamp"`
	DisplayedDate      string     `json:"displayedDate"`
	LinkURL            string     `json:"linkUrl"`
	LinkContext        string     `json:"linkContext"`
	Read               FlexString `json:"read"`
}

type notificationListResponse struct {
	Data struct {
		NotificationList struct {
			Notification OneOrMany[RawNotification] `json:"Notification"`
		} `json:"NotificationList"`
	} `json:"data"`
}

type notificationCountResponse struct {
	Data struct {
		RecentNotifications struct {
			Count FlexFloat `json:"count"`
		} `json:"RecentNotifications"`
	} `json:"data"`
}
