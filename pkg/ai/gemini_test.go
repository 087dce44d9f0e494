package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResponse = `{
	"topics": ["Work Projects", "Personal"],
	"calendar_events": [
		{"date": "2025-02-14", "time": "14:30", "title": "Dentist", "source_file": "todo.md"}
	],
	"notes": [
		{"topic": "Work Projects", "content": "Switch to PgBouncer", "tags": ["infra"], "source_file": "meeting_notes.md"}
	]
}`

func TestParseResultPlainJSON(t *testing.T) {
	result, err := ParseResult(sampleResponse)
	require.NoError(t, err)

	assert.Equal(t, []string{"Work Projects", "Personal"}, result.Topics)
	require.Len(t, result.Events, 1)
	assert.Equal(t, "2025-02-14", result.Events[0].Date)
	assert.Equal(t, "14:30", result.Events[0].Time)
	require.Len(t, result.Notes, 1)
	assert.Equal(t, "meeting_notes.md", result.Notes[0].SourceFile)
	assert.Equal(t, []string{"infra"}, result.Notes[0].Tags)
}

func TestParseResultStripsCodeFences(t *testing.T) {
	fenced := "```json\n" + sampleResponse + "\n```"
	result, err := ParseResult(fenced)
	require.NoError(t, err)
	assert.Len(t, result.Topics, 2)
}

func TestParseResultToleratesSurroundingProse(t *testing.T) {
	wrapped := "Here is the organized output you asked for:\n\n" + sampleResponse + "\n\nLet me know if you need anything else."
	result, err := ParseResult(wrapped)
	require.NoError(t, err)
	assert.Len(t, result.Notes, 1)
}

func TestParseResultRejectsNonJSON(t *testing.T) {
	_, err := ParseResult("I could not process these files.")
	assert.Error(t, err)
}

func TestParseResultEventWithoutTime(t *testing.T) {
	result, err := ParseResult(`{"topics":["t"],"calendar_events":[{"date":"2025-03-01","title":"Rent due","source_file":"expenses.csv"}],"notes":[]}`)
	require.NoError(t, err)
	require.Len(t, result.Events, 1)
	assert.Empty(t, result.Events[0].Time)
}
