package infinitecampus

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// the legacy prism outline documents carry everything as attributes, an absent or
// empty attribute means the value is absent.

type xmlGradingTask struct {
	TaskID               *string `xml:"taskID,attr"`
	TaskName             string  `xml:"taskName,attr"`
	Comments             *string `xml:"comments,attr"`
	Score                *string `xml:"score,attr"`
	Percent              *string `xml:"percent,attr"`
	PointsEarned         *string `xml:"pointsEarned,attr"`
	TotalPoints          *string `xml:"totalPoints,attr"`
	ProgressScore        *string `xml:"progressScore,attr"`
	ProgressPercent      *string `xml:"progressPercent,attr"`
	ProgressPointsEarned *string `xml:"progressPointsEarned,attr"`
	ProgressTotalPoints  *string `xml:"progressTotalPoints,attr"`
}

type xmlCourse struct {
	ObjectID       string           `xml:"_id,attr"`
	CourseID       *string          `xml:"courseID,attr"`
	SectionID      *string          `xml:"sectionID,attr"`
	CourseName     string           `xml:"courseName,attr"`
	CourseNumber   string           `xml:"courseNumber,attr"`
	TeacherDisplay string           `xml:"teacherDisplay,attr"`
	RoomName       string           `xml:"roomName,attr"`
	Dropped        string           `xml:"dropped,attr"`
	GradingTasks   []xmlGradingTask `xml:"gradingTask"`
}

type xmlTerm struct {
	TermID    *string     `xml:"termID,attr"`
	TermName  string      `xml:"termName,attr"`
	Seq       string      `xml:"seq,attr"`
	StartDate string      `xml:"startDate,attr"`
	EndDate   string      `xml:"endDate,attr"`
	Courses   []xmlCourse `xml:"course"`
}

type xmlCalendar struct {
	SchoolID   *string   `xml:"schoolID,attr"`
	SchoolName string    `xml:"schoolName,attr"`
	Terms      []xmlTerm `xml:"term"`
}

type xmlGradesOutline struct {
	XMLName   xml.Name      `xml:"campusRelease"`
	Calendars []xmlCalendar `xml:"student>calendar"`
}

type xmlSection struct {
	ObjectID       string  `xml:"_id,attr"`
	SectionID      *string `xml:"sectionID,attr"`
	CourseID       *string `xml:"courseID,attr"`
	CourseName     string  `xml:"courseName,attr"`
	CourseNumber   string  `xml:"courseNumber,attr"`
	TermID         *string `xml:"termID,attr"`
	TermName       string  `xml:"termName,attr"`
	TermSeq        string  `xml:"termSeq,attr"`
	TeacherDisplay string  `xml:"teacherDisplay,attr"`
	RoomName       string  `xml:"roomName,attr"`
	PeriodName     string  `xml:"periodName,attr"`
	PeriodSeq      *string `xml:"periodSeq,attr"`
	StartTime      string  `xml:"startTime,attr"`
	EndTime        string  `xml:"endTime,attr"`
}

type xmlScheduleOutline struct {
	XMLName  xml.Name     `xml:"campusRelease"`
	Sections []xmlSection `xml:"schedule>section"`
}

func xmlString(attr *string) FlexString {
	if attr == nil || *attr == "" {
		return FlexString{}
	}
	return NewFlexString(*attr)
}

func xmlFloat(attr *string) FlexFloat {
	if attr == nil {
		return FlexFloat{}
	}
	return ParseFlexFloat(*attr)
}

func xmlInt(field, attr string) (int, error) {
	attr = strings.TrimSpace(attr)
	if attr == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(attr)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return value, nil
}

func xmlBool(attr string) bool {
	return strings.EqualFold(strings.TrimSpace(attr), "true")
}

func decodeXML(body []byte, out any) error {
	decoder := xml.NewDecoder(bytes.NewReader(body))
	// the outline is declared iso-8859-1 by some districts but is ascii in practice
	decoder.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}
	return decoder.Decode(out)
}

// DecodeGradesXML converts a legacy grades outline into the same raw records the json
// grades feed decodes into.
func DecodeGradesXML(body []byte) ([]RawSchool, error) {
	var outline xmlGradesOutline
	err := decodeXML(body, &outline)
	if err != nil {
		return nil, fmt.Errorf("decode grades outline: %w", err)
	}

	schools := make([]RawSchool, 0, len(outline.Calendars))
	for _, calendar := range outline.Calendars {
		school := RawSchool{
			SchoolID:    xmlString(calendar.SchoolID),
			DisplayName: calendar.SchoolName,
			Terms:       make([]RawTerm, 0, len(calendar.Terms)),
		}
		for _, term := range calendar.Terms {
			seq, err := xmlInt("term seq", term.Seq)
			if err != nil {
				return nil, fmt.Errorf("decode grades outline: %w", err)
			}
			rawTerm := RawTerm{
				TermID:    xmlString(term.TermID),
				TermName:  term.TermName,
				TermSeq:   seq,
				StartDate: term.StartDate,
				EndDate:   term.EndDate,
				Courses:   make([]RawCourse, 0, len(term.Courses)),
			}
			for _, course := range term.Courses {
				rawCourse := RawCourse{
					ObjectID:       course.ObjectID,
					CourseID:       xmlString(course.CourseID),
					SectionID:      xmlString(course.SectionID),
					CourseName:     course.CourseName,
					CourseNumber:   course.CourseNumber,
					SchoolID:       school.SchoolID,
					SchoolName:     school.DisplayName,
					TeacherDisplay: course.TeacherDisplay,
					RoomName:       course.RoomName,
					Dropped:        xmlBool(course.Dropped),
					GradingTasks:   make([]RawGradingTask, 0, len(course.GradingTasks)),
				}
				for _, task := range course.GradingTasks {
					rawCourse.GradingTasks = append(rawCourse.GradingTasks, RawGradingTask{
						TaskID:               xmlString(task.TaskID),
						TaskName:             task.TaskName,
						CourseID:             rawCourse.CourseID,
						TermID:               rawTerm.TermID,
						Comments:             task.Comments,
						Score:                xmlString(task.Score),
						Percent:              xmlFloat(task.Percent),
						PointsEarned:         xmlFloat(task.PointsEarned),
						TotalPoints:          xmlFloat(task.TotalPoints),
						ProgressScore:        xmlString(task.ProgressScore),
						ProgressPercent:      xmlFloat(task.ProgressPercent),
						ProgressPointsEarned: xmlFloat(task.ProgressPointsEarned),
						ProgressTotalPoints:  xmlFloat(task.ProgressTotalPoints),
					})
				}
				rawTerm.Courses = append(rawTerm.Courses, rawCourse)
			}
			school.Terms = append(school.Terms, rawTerm)
		}
		schools = append(schools, school)
	}
	return schools, nil
}

// DecodeRosterXML converts a legacy schedule outline into roster records.
func DecodeRosterXML(body []byte) ([]RawRosterItem, error) {
	var outline xmlScheduleOutline
	err := decodeXML(body, &outline)
	if err != nil {
		return nil, fmt.Errorf("decode schedule outline: %w", err)
	}

	roster := make([]RawRosterItem, 0, len(outline.Sections))
	for _, section := range outline.Sections {
		termSeq, err := xmlInt("term seq", section.TermSeq)
		if err != nil {
			return nil, fmt.Errorf("decode schedule outline: %w", err)
		}
		item := RawRosterItem{
			ObjectID:       section.ObjectID,
			SectionID:      xmlString(section.SectionID),
			CourseID:       xmlString(section.CourseID),
			CourseName:     section.CourseName,
			CourseNumber:   section.CourseNumber,
			TermID:         xmlString(section.TermID),
			TermName:       section.TermName,
			TermSeq:        termSeq,
			TeacherDisplay: section.TeacherDisplay,
			RoomName:       section.RoomName,
			PeriodName:     section.PeriodName,
			StartTime:      section.StartTime,
			EndTime:        section.EndTime,
		}
		if section.PeriodSeq != nil && *section.PeriodSeq != "" {
			periodSeq, err := xmlInt("period seq", *section.PeriodSeq)
			if err != nil {
				return nil, fmt.Errorf("decode schedule outline: %w", err)
			}
			item.PeriodSequence = &periodSeq
		}
		roster = append(roster, item)
	}
	return roster, nil
}
