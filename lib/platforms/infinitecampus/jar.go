package infinitecampus

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
)

// sessionJar is the cookie jar installed on the http client once. Logins swap the inner
// jar instead of the jar of the http client, which requests read concurrently.
type sessionJar struct {
	lock  sync.RWMutex
	inner *cookiejar.Jar
}

func newSessionJar() (*sessionJar, error) {
	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &sessionJar{inner: inner}, nil
}

// reset drops every cookie.
func (j *sessionJar) reset() error {
	inner, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	j.lock.Lock()
	j.inner = inner
	j.lock.Unlock()
	return nil
}

func (j *sessionJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.lock.RLock()
	inner := j.inner
	j.lock.RUnlock()
	inner.SetCookies(u, cookies)
}

func (j *sessionJar) Cookies(u *url.URL) []*http.Cookie {
	j.lock.RLock()
	inner := j.inner
	j.lock.RUnlock()
	return inner.Cookies(u)
}
