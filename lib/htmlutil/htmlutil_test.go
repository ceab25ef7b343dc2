package htmlutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		expected string
	}{
		{
			name: "html page",
			body: `<html><head><title>Campus Portal</title><script>var x = 1;</script></head>
<body><div class="error">
	Please  sign in
</div><p>again</p></body></html>`,
			expected: "Campus Portal: Please sign in again",
		},
		{
			name:     "xml marker",
			body:     `<AUTHENTICATION>maintenance</AUTHENTICATION>`,
			expected: "maintenance",
		},
		{
			name:     "plain text",
			body:     "  something\n\n went wrong ",
			expected: "something went wrong",
		},
	}

	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.expected, Summarize([]byte(test.body)))
		})
	}
}

func TestSummarizeTruncates(t *testing.T) {
	summary := Summarize([]byte(strings.Repeat("a", 2000)))
	require.Len(t, summary, maxSummaryLength+len("..."))
}
