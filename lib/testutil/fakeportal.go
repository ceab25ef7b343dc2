package testutil

import (
	"embed"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

//go:embed testdata
var fixtures embed.FS

// Fixture returns one of the recorded portal responses under testdata/.
func Fixture(name string) []byte {
	contents, err := fixtures.ReadFile("testdata/" + name)
	if err != nil {
		panic(fmt.Sprintf("missing fixture %s: %s", name, err.Error()))
	}
	return contents
}

const (
	FakeDistrict = "Lincoln Unified"
	FakeState    = "IL"
	FakeAppName  = "lincoln"
	FakeUsername = "student"
	FakePassword = "hunter2"
	// FakeCaptchaUsername is always answered with a captcha challenge.
	FakeCaptchaUsername = "robot"
)

// FakePortal is an in-process Infinite Campus district serving the fixtures. The
// district lives under /campus/, the district search under /mobile/.
type FakePortal struct {
	Server *httptest.Server

	lock          sync.Mutex
	session       string
	logins        int
	expired       bool
	unviewed      int
	markedAllRead int
	toggled       []string
	limits        []string
}

func NewFakePortal(t testing.TB) *FakePortal {
	portal := &FakePortal{unviewed: 7}
	mux := http.NewServeMux()
	mux.HandleFunc("/mobile/searchDistrict", portal.searchDistrict)
	mux.HandleFunc("/campus/verify.jsp", portal.verify)
	mux.HandleFunc("/campus/resources/portal/grades", portal.authenticated(portal.serveFixture("grades.json")))
	mux.HandleFunc("/campus/resources/portal/roster", portal.authenticated(portal.roster))
	mux.HandleFunc("/campus/api/portal/assignment/listView", portal.authenticated(portal.serveFixture("assignments.json")))
	mux.HandleFunc("/campus/prism", portal.authenticated(portal.prism))
	portal.Server = httptest.NewServer(mux)
	t.Cleanup(portal.Server.Close)
	return portal
}

func (f *FakePortal) SearchURL() string {
	return f.Server.URL
}

func (f *FakePortal) BaseURL() string {
	return f.Server.URL + "/campus/"
}

// ExpireSession makes every request fail with 401 until the next login.
func (f *FakePortal) ExpireSession() {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.expired = true
}

func (f *FakePortal) Logins() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.logins
}

func (f *FakePortal) Unviewed() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.unviewed
}

func (f *FakePortal) MarkedAllRead() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.markedAllRead
}

func (f *FakePortal) Toggled() []string {
	f.lock.Lock()
	defer f.lock.Unlock()
	return append([]string(nil), f.toggled...)
}

// Limits are the limitCount values notifications were requested with.
func (f *FakePortal) Limits() []string {
	f.lock.Lock()
	defer f.lock.Unlock()
	return append([]string(nil), f.limits...)
}

func (f *FakePortal) searchDistrict(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if !strings.Contains(strings.ToLower(query.Get("query")), "lincoln") || query.Get("state") != FakeState {
		w.Write([]byte(`{"data":[],"error":"No results found"}`))
		return
	}
	fmt.Fprintf(
		w,
		`{"data":[{"id":1,"district_name":%q,"district_app_name":%q,"district_baseurl":%q,"state_code":%q}]}`,
		FakeDistrict, FakeAppName, f.BaseURL(), FakeState,
	)
}

func (f *FakePortal) verify(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	switch {
	case query.Get("nonBrowser") != "true":
		w.WriteHeader(http.StatusBadRequest)
		return
	case query.Get("username") == FakeCaptchaUsername:
		w.Write([]byte("<AUTHENTICATION>captcha</AUTHENTICATION>"))
		return
	case query.Get("appName") != FakeAppName:
		w.Write([]byte("<html><body>No Campus Application selected</body></html>"))
		return
	case query.Get("username") != FakeUsername || query.Get("password") != FakePassword:
		w.Write([]byte("<AUTHENTICATION>password-error</AUTHENTICATION>"))
		return
	}

	f.lock.Lock()
	f.logins++
	f.expired = false
	f.session = fmt.Sprintf("session-%d", f.logins)
	session := f.session
	f.lock.Unlock()

	http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: session, Path: "/campus"})
	w.Write([]byte("<AUTHENTICATION>success</AUTHENTICATION>"))
}

func (f *FakePortal) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("JSESSIONID")
		f.lock.Lock()
		ok := err == nil && f.session != "" && cookie.Value == f.session && !f.expired
		f.lock.Unlock()
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (f *FakePortal) serveFixture(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(name, ".xml") {
			w.Header().Set("content-type", "text/xml")
		} else {
			w.Header().Set("content-type", "application/json")
		}
		w.Write(Fixture(name))
	}
}

func (f *FakePortal) roster(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("_expand") != "{sectionPlacements-{term}}" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	f.serveFixture("roster.json")(w, r)
}

func (f *FakePortal) prism(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	switch query.Get("x") {
	case "portal.PortalOutline":
		switch query.Get("mode") {
		case "grades":
			f.serveFixture("grades.xml")(w, r)
		case "schedule":
			f.serveFixture("roster.xml")(w, r)
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	case "notifications.Notification-retrieve":
		f.lock.Lock()
		f.limits = append(f.limits, query.Get("limitCount"))
		f.lock.Unlock()
		f.serveFixture("notifications.json")(w, r)
	case "notifications.NotificationUser-countUnviewed":
		fmt.Fprintf(w, `{"data":{"RecentNotifications":{"count":"%d"}}}`, f.Unviewed())
	case "notifications.NotificationUser-updateLastViewed":
		f.lock.Lock()
		f.unviewed = 0
		f.lock.Unlock()
		w.Write([]byte(`{"data":{}}`))
	case "notifications.Notification-markAllRead":
		f.lock.Lock()
		f.markedAllRead++
		f.lock.Unlock()
		w.Write([]byte(`{"data":{}}`))
	case "notifications.Notification-toggleRead":
		id := query.Get("notificationID")
		switch id {
		case "":
			w.Write([]byte(`{"errors":[{"message":"invalid input"}]}`))
		case "77", "78", "79":
			f.lock.Lock()
			f.toggled = append(f.toggled, id)
			f.lock.Unlock()
			w.Write([]byte(`{"data":{}}`))
		default:
			w.Write([]byte(`{"errors":[{"message":"Cannot mark other user's notification as read or unread"}]}`))
		}
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}
