package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "apbiology", NormalizeName("  AP  Biology\n"))
	require.Equal(t, NormalizeName("AP Biology"), NormalizeName("ap biology"))
}

func TestMatchName(t *testing.T) {
	require.True(t, MatchName("Homework Pass", []string{"homeworkpass"}))
	require.False(t, MatchName("Quiz 1", []string{"homeworkpass"}))
}

func TestClosest(t *testing.T) {
	suggestion, ok := Closest("AP Biolgy", []string{"English II", "AP Biology", "Chemistry"})
	require.True(t, ok)
	require.Equal(t, "AP Biology", suggestion.Name)
	require.Greater(t, suggestion.Similarity, 0.9)

	_, ok = Closest("AP Biology", nil)
	require.False(t, ok)
}
