package infinitecampus

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

// markers the login endpoint puts in the response body, matched case-sensitively in order
var loginFailMarkers = []struct {
	text string
	err  error
}{
	{text: "password-error", err: ErrBadCredentials},
	{text: "Incorrect Username and/or Password", err: ErrBadCredentials},
	{text: "No Campus Application selected", err: ErrBadApplication},
	{text: "captcha", err: ErrCaptcha},
}

// ClassifyLogin maps the status and body of a verify.jsp response to nil on success or
// to one of the login errors.
func ClassifyLogin(status int, body []byte) error {
	text := string(body)
	for _, marker := range loginFailMarkers {
		if strings.Contains(text, marker.text) {
			return marker.err
		}
	}
	if status != http.StatusOK {
		return &StatusError{Operation: "login", Status: status, Body: text}
	}
	if strings.Contains(text, "success") {
		return nil
	}
	return unexpected("login", body, nil)
}

// Session is the state a successful login leaves behind.
type Session struct {
	District RawDistrict
	Cookies  []*http.Cookie
}

// Login authenticates against the district with a fresh set of cookies. Logins on the
// same client are serialized. The previous district stays in place until the login
// succeeds, so requests in flight fail with a 401 at worst.
func (c *Client) Login(ctx context.Context, district RawDistrict, username, password string) (Session, error) {
	ctx, span := tracer.Start(ctx, "client:Login")
	defer span.End()

	span.SetAttributes(
		attribute.String("district", district.Name),
		attribute.String("app_name", district.AppName),
	)

	c.loginLock.Lock()
	defer c.loginLock.Unlock()

	base, err := url.Parse(district.BaseURL)
	if err != nil {
		return Session{}, fail(span, fmt.Errorf("login: parse district base url: %w", err))
	}

	err = c.jar.reset()
	if err != nil {
		return Session{}, fail(span, err)
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"nonBrowser": "true",
			"username":   username,
			"password":   password,
			"appName":    district.AppName,
		}).
		Get(joinURL(district.BaseURL, "verify.jsp"))
	if err != nil {
		c.tel.ReportBroken(report_client_login, err)
		return Session{}, fail(span, fmt.Errorf("login: %w", err))
	}

	err = ClassifyLogin(res.StatusCode(), res.Body())
	if err != nil {
		return Session{}, fail(span, err)
	}

	cookies := c.jar.Cookies(base)
	if len(cookies) == 0 {
		cookies = res.Cookies()
	}
	if len(cookies) == 0 {
		c.tel.ReportBroken(report_client_login, "no session cookies")
		return Session{}, fail(span, unexpected("login", res.Body(), fmt.Errorf("no session cookies were set")))
	}

	c.lock.Lock()
	c.district = &district
	c.lock.Unlock()

	return Session{District: district, Cookies: cookies}, nil
}
