package campus

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"icassist/lib/configutil"
	"icassist/lib/platforms/infinitecampus"
	"icassist/lib/telemetry"
	"icassist/lib/textutil"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("campus")

const (
	report_portal_select_school = "portal.select-school"
	report_portal_dates         = "portal.normalize-dates"
	report_portal_match_course  = "portal.match-assignment-course"
	report_portal_relogin       = "portal.relogin"
)

type Credentials struct {
	District string `json:"district" validate:"required"`
	State    string `json:"state" validate:"required,len=2"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type Options struct {
	Client infinitecampus.Options
	// Legacy reads grades and the roster from the xml outline api.
	Legacy bool
	// OnMultiSchool is called in addition to the telemetry warning.
	OnMultiSchool func(MultiSchoolWarning)
	Telemetry     telemetry.API
}

// Portal is a logged in session. It is safe for concurrent use.
type Portal struct {
	client   *infinitecampus.Client
	creds    Credentials
	district infinitecampus.RawDistrict
	opts     Options
	tel      telemetry.API

	lock       sync.Mutex
	generation int
}

// Login finds the district and logs into it.
func Login(ctx context.Context, creds Credentials, opts Options) (*Portal, error) {
	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	err := configutil.Validate(creds)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("invalid credentials: %w", err)
	}

	if opts.Client.Telemetry == nil {
		opts.Client.Telemetry = opts.Telemetry
	}
	client, err := infinitecampus.NewClient(opts.Client)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	districts, err := client.SearchDistrict(ctx, creds.District, creds.State)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	district := districts[0]
	span.SetAttributes(attribute.String("district", district.Name))

	_, err = client.Login(ctx, district, creds.Username, creds.Password)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return &Portal{
		client:   client,
		creds:    creds,
		district: district,
		opts:     opts,
		tel:      telemetry.NewScopedAPI("campus", opts.Telemetry),
	}, nil
}

func (p *Portal) District() District {
	return District{
		BaseURL: p.district.BaseURL,
		AppName: p.district.AppName,
		Name:    p.district.Name,
		State:   p.district.State,
	}
}

// Relogin runs the login handshake again with the same credentials.
func (p *Portal) Relogin(ctx context.Context) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.relogin(ctx)
}

func (p *Portal) relogin(ctx context.Context) error {
	_, err := p.client.Login(ctx, p.district, p.creds.Username, p.creds.Password)
	if err != nil {
		p.tel.ReportBroken(report_portal_relogin, err)
		return err
	}
	p.generation++
	return nil
}

func (p *Portal) currentGeneration() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.generation
}

// reloginAfter logs in again unless another caller already did so since generation.
func (p *Portal) reloginAfter(ctx context.Context, generation int) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.generation != generation {
		return nil
	}
	return p.relogin(ctx)
}

func sessionExpired(err error) bool {
	var status *infinitecampus.StatusError
	if errors.As(err, &status) {
		return status.Status == http.StatusUnauthorized
	}
	return false
}

// withSession runs fetch, logging in again and retrying once if the session expired.
func withSession[T any](ctx context.Context, p *Portal, fetch func(ctx context.Context) (T, error)) (T, error) {
	generation := p.currentGeneration()
	out, err := fetch(ctx)
	if err == nil || !sessionExpired(err) {
		return out, err
	}
	err = p.reloginAfter(ctx, generation)
	if err != nil {
		var zero T
		return zero, err
	}
	return fetch(ctx)
}

func (p *Portal) fetchGrades(ctx context.Context) ([]infinitecampus.RawSchool, error) {
	if p.opts.Legacy {
		return withSession(ctx, p, p.client.GetGradesXML)
	}
	return withSession(ctx, p, p.client.GetGrades)
}

func (p *Portal) fetchRoster(ctx context.Context) ([]infinitecampus.RawRosterItem, error) {
	if p.opts.Legacy {
		return withSession(ctx, p, p.client.GetRosterXML)
	}
	return withSession(ctx, p, p.client.GetRoster)
}

func (p *Portal) reportProblems(problems []error) {
	for _, problem := range problems {
		p.tel.ReportWarning(report_portal_dates, problem)
	}
}

// loadTerms fetches both feeds and builds the joined term tree of the selected school.
func (p *Portal) loadTerms(ctx context.Context, schoolID string) ([]Term, []infinitecampus.RawRosterItem, error) {
	ctx, span := tracer.Start(ctx, "Portal:loadTerms")
	defer span.End()

	roster, err := p.fetchRoster(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}
	schools, err := p.fetchGrades(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}

	index, warning, err := SelectSchool(schools, schoolID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}
	if warning != nil {
		p.tel.ReportWarning(report_portal_select_school, warning.String())
		if p.opts.OnMultiSchool != nil {
			p.opts.OnMultiSchool(*warning)
		}
	}
	school := schools[index]
	span.SetAttributes(attribute.String("school", school.DisplayName))

	lookup := NewRosterIndex(roster, school.Terms)
	terms := make([]Term, 0, len(school.Terms))
	for _, raw := range school.Terms {
		term, problems := NormalizeTermChecked(raw, lookup)
		p.reportProblems(problems)
		terms = append(terms, term)
	}

	joined := JoinRoster(terms, BuildCrossReference(terms), roster)
	return joined, roster, nil
}

// GetTerms returns the terms of a school with their courses and grades. An empty
// schoolID selects the first school.
func (p *Portal) GetTerms(ctx context.Context, schoolID string) ([]Term, error) {
	terms, _, err := p.loadTerms(ctx, schoolID)
	return terms, err
}

// GetCourses returns the courses of every term of a school in term order.
func (p *Portal) GetCourses(ctx context.Context, schoolID string) ([]Course, error) {
	terms, err := p.GetTerms(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	return Courses(terms), nil
}

func (p *Portal) GetRoster(ctx context.Context, schoolID string) ([]RosterItem, error) {
	terms, roster, err := p.loadTerms(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	return NormalizeRoster(roster, terms), nil
}

func (p *Portal) GetAssignments(ctx context.Context, schoolID string) ([]Assignment, error) {
	ctx, span := tracer.Start(ctx, "Portal:GetAssignments")
	defer span.End()

	terms, err := p.GetTerms(ctx, schoolID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	raw, err := withSession(ctx, p, p.client.GetAssignments)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	courses := Courses(terms)
	names := make([]string, len(courses))
	for i, course := range courses {
		names[i] = course.Name
	}

	source := TermList(terms)
	assignments := make([]Assignment, 0, len(raw))
	for _, record := range raw {
		var problems []error
		assignment := normalizeAssignment(record, source, &problems)
		p.reportProblems(problems)
		if assignment.Course == nil && record.CourseName != "" {
			suggestion, ok := textutil.Closest(record.CourseName, names)
			if ok {
				p.tel.ReportWarning(
					report_portal_match_course,
					fmt.Sprintf("no course named '%s', closest is '%s'", record.CourseName, suggestion.Name),
				)
			} else {
				p.tel.ReportWarning(report_portal_match_course, fmt.Sprintf("no course named '%s'", record.CourseName))
			}
		}
		assignments = append(assignments, assignment)
	}
	return assignments, nil
}

// GetNotifications returns up to limit notifications, a limit of 0 means
// infinitecampus.DefaultNotificationLimit.
func (p *Portal) GetNotifications(ctx context.Context, limit int) ([]Notification, error) {
	if limit == 0 {
		limit = infinitecampus.DefaultNotificationLimit
	}
	if limit < 0 {
		return nil, fmt.Errorf("notification limit must be positive, got %d", limit)
	}

	raw, err := withSession(ctx, p, func(ctx context.Context) ([]infinitecampus.RawNotification, error) {
		return p.client.GetNotifications(ctx, limit)
	})
	if err != nil {
		return nil, err
	}
	notifications := make([]Notification, len(raw))
	for i, record := range raw {
		notifications[i] = NormalizeNotification(record, p.district.BaseURL, sessionToggler{portal: p})
	}
	return notifications, nil
}

// sessionToggler toggles notifications with the same relogin and retry as other portal calls.
type sessionToggler struct {
	portal *Portal
}

func (t sessionToggler) ToggleRead(ctx context.Context, id string) error {
	_, err := withSession(ctx, t.portal, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, t.portal.client.ToggleRead(ctx, id)
	})
	return err
}

// GetNotificationCount returns the number of unviewed notifications.
func (p *Portal) GetNotificationCount(ctx context.Context) (int, error) {
	return withSession(ctx, p, p.client.CountUnviewedNotifications)
}

// ResetNotificationCount clears the unviewed count, the read state of individual
// notifications is unchanged.
func (p *Portal) ResetNotificationCount(ctx context.Context) error {
	_, err := withSession(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, p.client.UpdateLastViewed(ctx)
	})
	return err
}

func (p *Portal) MarkAllNotificationsRead(ctx context.Context) error {
	_, err := withSession(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, p.client.MarkAllRead(ctx)
	})
	return err
}
