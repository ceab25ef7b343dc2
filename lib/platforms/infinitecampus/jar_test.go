package infinitecampus

import (
	"net/http"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSessionJarReset(t *testing.T) {
	jar, err := newSessionJar()
	require.NoError(t, err)
	u, err := url.Parse("https://lincoln.example.com/campus/resources")
	require.NoError(t, err)

	jar.SetCookies(u, []*http.Cookie{{Name: "JSESSIONID", Value: "a", Path: "/campus"}})
	require.Len(t, jar.Cookies(u), 1)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			jar.Cookies(u)
		}()
		go func() {
			defer wg.Done()
			require.NoError(t, jar.reset())
		}()
	}
	wg.Wait()

	require.Empty(t, jar.Cookies(u))
}
