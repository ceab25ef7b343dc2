package infinitecampus

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"icassist/lib/testutil"

	"github.com/stretchr/testify/require"
)

func loggedIn(t *testing.T) (*Client, *testutil.FakePortal) {
	portal := testutil.NewFakePortal(t)
	client := newTestClient(t, portal)
	_, err := client.Login(context.Background(), lincoln(portal), testutil.FakeUsername, testutil.FakePassword)
	require.NoError(t, err)
	return client, portal
}

func TestSearchDistrict(t *testing.T) {
	portal := testutil.NewFakePortal(t)
	client := newTestClient(t, portal)
	ctx := context.Background()

	districts, err := client.SearchDistrict(ctx, "Lincoln Unified", "IL")
	require.NoError(t, err)
	require.Len(t, districts, 1)
	require.Equal(t, testutil.FakeAppName, districts[0].AppName)
	require.Equal(t, portal.BaseURL(), districts[0].BaseURL)
	require.Equal(t, "1", districts[0].ID.Value)

	_, err = client.SearchDistrict(ctx, "Springfield", "IL")
	require.ErrorIs(t, err, ErrDistrictNotFound)

	notFound := httptest.NewServer(http.NotFoundHandler())
	defer notFound.Close()
	other, err := NewClient(Options{SearchURL: notFound.URL})
	require.NoError(t, err)
	_, err = other.SearchDistrict(ctx, "Lincoln", "IL")
	require.ErrorIs(t, err, ErrDistrictNotFound)
}

func TestGetGradesAndRoster(t *testing.T) {
	client, _ := loggedIn(t)
	ctx := context.Background()

	schools, err := client.GetGrades(ctx)
	require.NoError(t, err)
	require.Len(t, schools, 2)
	require.Equal(t, "12", schools[0].SchoolID.Value)
	require.Len(t, schools[0].Terms, 2)

	biology := schools[0].Terms[0].Courses[0]
	require.Equal(t, "9001", biology.CourseID.Value)
	task := biology.GradingTasks[0]
	require.Equal(t, "A-", task.ProgressScore.Value)
	require.Equal(t, NewFlexFloat(91.2), task.ProgressPercentageValue())
	require.Equal(t, NewFlexFloat(88), task.PlainPercentage())
	require.Nil(t, task.Comments)

	english := schools[0].Terms[0].Courses[1].GradingTasks[0]
	require.Equal(t, NewFlexFloat(100), english.ProgressTotalPoints)
	require.NotNil(t, english.Comments)
	require.Equal(t, "", *english.Comments)

	roster, err := client.GetRoster(ctx)
	require.NoError(t, err)
	require.Len(t, roster, 4)
	require.Len(t, roster[0].SectionPlacements, 1)
	require.Equal(t, 3, *roster[0].SectionPlacements[0].PeriodSequence)
	require.Equal(t, "102", roster[1].SectionPlacements[0].Term.TermID.Value)
	require.Nil(t, roster[2].PeriodSequence)
	require.Equal(t, 6, *roster[2].PeriodSequnce)
}

func TestGetAssignments(t *testing.T) {
	client, _ := loggedIn(t)

	assignments, err := client.GetAssignments(context.Background())
	require.NoError(t, err)
	require.Len(t, assignments, 3)
	require.Equal(t, []FlexString{NewFlexString("101"), NewFlexString("102")}, assignments[1].TermIDs)
	require.Equal(t, NewFlexFloat(50), assignments[1].TotalPoints)
	require.True(t, assignments[1].Late)
	require.False(t, assignments[2].Score.Valid)
}

func TestNotifications(t *testing.T) {
	client, portal := loggedIn(t)
	ctx := context.Background()

	notifications, err := client.GetNotifications(ctx, 25)
	require.NoError(t, err)
	require.Len(t, notifications, 3)
	require.Equal(t, "77", notifications[0].NotificationID.Value)
	require.Equal(t, []string{"25"}, portal.Limits())

	_, err = client.GetNotifications(ctx, 0)
	require.Error(t, err)

	count, err := client.CountUnviewedNotifications(ctx)
	require.NoError(t, err)
	require.Equal(t, 7, count)

	require.NoError(t, client.UpdateLastViewed(ctx))
	count, err = client.CountUnviewedNotifications(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, count)

	require.NoError(t, client.MarkAllRead(ctx))
	require.Equal(t, 1, portal.MarkedAllRead())

	require.NoError(t, client.ToggleRead(ctx, "78"))
	require.Equal(t, []string{"78"}, portal.Toggled())
	require.ErrorIs(t, client.ToggleRead(ctx, "5"), ErrNotificationNotFound)
	require.ErrorIs(t, client.ToggleRead(ctx, ""), ErrInvalidInput)
}

func TestLegacyOutline(t *testing.T) {
	client, _ := loggedIn(t)
	ctx := context.Background()

	schools, err := client.GetGradesXML(ctx)
	require.NoError(t, err)
	require.Len(t, schools, 2)

	roster, err := client.GetRosterXML(ctx)
	require.NoError(t, err)
	require.Len(t, roster, 4)
}

func TestExpiredSession(t *testing.T) {
	client, portal := loggedIn(t)
	portal.ExpireSession()

	_, err := client.GetGrades(context.Background())
	var status *StatusError
	require.True(t, errors.As(err, &status))
	require.Equal(t, http.StatusUnauthorized, status.Status)
}

func TestUnexpectedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/campus/verify.jsp" {
			http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "abc"})
			w.Write([]byte("success"))
			return
		}
		w.Write([]byte("<html><head><title>Campus</title></head><body>Session timed out</body></html>"))
	}))
	defer server.Close()

	client, err := NewClient(Options{SearchURL: server.URL})
	require.NoError(t, err)
	_, err = client.Login(context.Background(), RawDistrict{BaseURL: server.URL + "/campus/", AppName: "x"}, "a", "b")
	require.NoError(t, err)

	_, err = client.GetGrades(context.Background())
	var unexpected *UnexpectedResponseError
	require.True(t, errors.As(err, &unexpected))
	require.Equal(t, "get grades", unexpected.Operation)
	require.Equal(t, "Campus: Session timed out", unexpected.Summary)
}
