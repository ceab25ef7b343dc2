package commands

import (
	"bytes"
	"testing"

	"icassist/lib/campus"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/stretchr/testify/require"
)

func TestToYAML(t *testing.T) {
	label := "A-"
	out, err := toYAML([]campus.Grade{
		{Name: "Quarter Grade", Score: &campus.Score{Name: &label}},
		{Name: "100"},
	})
	require.NoError(t, err)
	require.Equal(t, `- name: Quarter Grade
  score:
    name: A-
- name: "100"
`, string(out))
}

func TestRender(t *testing.T) {
	value := map[string]int{"unviewed": 3}
	fill := func(t table.Writer) {
		t.AppendHeader(table.Row{"Unviewed"})
		t.AppendRow(table.Row{3})
	}

	var out bytes.Buffer
	require.NoError(t, render(&out, formatJSON, value, fill))
	require.JSONEq(t, `{"unviewed":3}`, out.String())

	out.Reset()
	require.NoError(t, render(&out, formatYAML, value, fill))
	require.Equal(t, "unviewed: 3\n", out.String())

	out.Reset()
	require.NoError(t, render(&out, formatTable, value, fill))
	require.Contains(t, out.String(), "UNVIEWED")
	require.Contains(t, out.String(), "╭")

	require.Error(t, checkFormat("xml"))
	require.NoError(t, checkFormat(formatYAML))
}
