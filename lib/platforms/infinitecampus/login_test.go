package infinitecampus

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"icassist/lib/testutil"

	"github.com/stretchr/testify/require"
)

func TestClassifyLogin(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		err    error
	}{
		{name: "success", status: 200, body: "<AUTHENTICATION>success</AUTHENTICATION>"},
		{name: "password error", status: 200, body: "<AUTHENTICATION>password-error</AUTHENTICATION>", err: ErrBadCredentials},
		{name: "incorrect password page", status: 200, body: "<p>Incorrect Username and/or Password</p>", err: ErrBadCredentials},
		{name: "bad application", status: 200, body: "No Campus Application selected", err: ErrBadApplication},
		{name: "captcha", status: 200, body: "<AUTHENTICATION>captcha</AUTHENTICATION>", err: ErrCaptcha},
		{name: "recaptcha script on success page", status: 200, body: `<script src="reCAPTCHA.js"></script><AUTHENTICATION>success</AUTHENTICATION>`},
		{name: "markers are case sensitive", status: 200, body: "<AUTHENTICATION>success</AUTHENTICATION> PASSWORD-ERROR"},
		{name: "marker wins over success", status: 200, body: "success password-error", err: ErrBadCredentials},
	}

	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			err := ClassifyLogin(test.status, []byte(test.body))
			if test.err == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, test.err)
		})
	}

	t.Run("bad request", func(t *testing.T) {
		err := ClassifyLogin(http.StatusBadRequest, []byte("bad request"))
		var status *StatusError
		require.True(t, errors.As(err, &status))
		require.Equal(t, http.StatusBadRequest, status.Status)
	})

	t.Run("unknown page", func(t *testing.T) {
		err := ClassifyLogin(200, []byte("<html><head><title>Maintenance</title></head><body>Back soon</body></html>"))
		var unexpected *UnexpectedResponseError
		require.True(t, errors.As(err, &unexpected))
		require.Contains(t, unexpected.Body, "Back soon")
		require.Equal(t, "Maintenance: Back soon", unexpected.Summary)
	})
}

func newTestClient(t *testing.T, portal *testutil.FakePortal) *Client {
	client, err := NewClient(Options{SearchURL: portal.SearchURL(), RequestsPerSecond: 100})
	require.NoError(t, err)
	return client
}

func lincoln(portal *testutil.FakePortal) RawDistrict {
	return RawDistrict{
		Name:    testutil.FakeDistrict,
		AppName: testutil.FakeAppName,
		BaseURL: portal.BaseURL(),
		State:   testutil.FakeState,
	}
}

func TestLogin(t *testing.T) {
	cleanup := testutil.SetupTelemetry(t, "platforms/infinitecampus")
	defer cleanup()

	portal := testutil.NewFakePortal(t)
	client := newTestClient(t, portal)
	ctx := context.Background()

	_, ok := client.District()
	require.False(t, ok)
	_, err := client.GetGrades(ctx)
	require.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = client.Login(ctx, lincoln(portal), testutil.FakeUsername, "wrong")
	require.ErrorIs(t, err, ErrBadCredentials)

	_, err = client.Login(ctx, lincoln(portal), testutil.FakeCaptchaUsername, "wrong")
	require.ErrorIs(t, err, ErrCaptcha)

	wrongApp := lincoln(portal)
	wrongApp.AppName = "springfield"
	_, err = client.Login(ctx, wrongApp, testutil.FakeUsername, testutil.FakePassword)
	require.ErrorIs(t, err, ErrBadApplication)

	session, err := client.Login(ctx, lincoln(portal), testutil.FakeUsername, testutil.FakePassword)
	require.NoError(t, err)
	require.NotEmpty(t, session.Cookies)
	require.Equal(t, "JSESSIONID", session.Cookies[0].Name)
	require.Equal(t, testutil.FakeDistrict, session.District.Name)

	district, ok := client.District()
	require.True(t, ok)
	require.Equal(t, portal.BaseURL(), district.BaseURL)

	// a failed login keeps the district of the previous session
	_, err = client.Login(ctx, lincoln(portal), testutil.FakeUsername, "wrong")
	require.ErrorIs(t, err, ErrBadCredentials)
	district, ok = client.District()
	require.True(t, ok)
	require.Equal(t, testutil.FakeDistrict, district.Name)
}
