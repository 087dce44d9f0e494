package calendar

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quangdv/declutter/pkg/ai"
)

var stamp = time.Date(2025, 2, 1, 9, 30, 0, 0, time.UTC)

func sampleEvents() []ai.Event {
	return []ai.Event{
		{Date: "2025-02-14", Time: "14:30", Title: "Dentist", Description: "Annual checkup", SourceFile: "todo.md"},
		{Date: "2025-03-01", Title: "Rent due", SourceFile: "expenses.csv"},
	}
}

func TestWriteProducesValidJCal(t *testing.T) {
	dir := t.TempDir()
	path, err := Write(dir, sampleEvents(), stamp)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var jcal []any
	require.NoError(t, json.Unmarshal(data, &jcal))
	require.Len(t, jcal, 3)
	assert.Equal(t, "vcalendar", jcal[0])

	// Timed events carry a date-time dtstart, all-day events a date.
	text := string(data)
	assert.Contains(t, text, "2025-02-14T14:30:00")
	assert.Contains(t, text, `"date-time"`)
	assert.Contains(t, text, `"2025-03-01"`)
	assert.Contains(t, text, "x-source-file")
}

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	_, err := Write(dir, sampleEvents(), stamp)
	require.NoError(t, err)

	events, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "Dentist", events[0].Title)
	assert.Equal(t, "2025-02-14", events[0].Date)
	assert.Equal(t, "14:30", events[0].Time)
	assert.Equal(t, "Annual checkup", events[0].Description)
	assert.Equal(t, "todo.md", events[0].SourceFile)

	assert.Equal(t, "Rent due", events[1].Title)
	assert.Equal(t, "2025-03-01", events[1].Date)
	assert.Empty(t, events[1].Time)
}

func TestWriteEmptyEvents(t *testing.T) {
	dir := t.TempDir()
	_, err := Write(dir, nil, stamp)
	require.NoError(t, err)

	events, err := Read(dir)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(t.TempDir())
	assert.Error(t, err)
}
