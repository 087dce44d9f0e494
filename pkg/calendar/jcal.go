// Package calendar serializes extracted events as jCal (RFC 7265) and reads
// the file back for vector-store rebuilds.
package calendar

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/quangdv/declutter/pkg/ai"
)

// SubDir is the calendar directory under the output root.
const SubDir = "calendar"

// FileName is the jCal output file.
const FileName = "events.json"

const prodID = "-//declutter//EN"

// Write serializes events to <outDir>/calendar/events.json in jCal form:
// ["vcalendar", [props], [["vevent", [props], []], ...]].
func Write(outDir string, events []ai.Event, now time.Time) (string, error) {
	dir := filepath.Join(outDir, SubDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create calendar dir: %w", err)
	}

	calProps := []any{
		[]any{"version", map[string]any{}, "text", "2.0"},
		[]any{"prodid", map[string]any{}, "text", prodID},
		[]any{"calscale", map[string]any{}, "text", "GREGORIAN"},
	}

	components := make([]any, 0, len(events))
	for i, ev := range events {
		components = append(components, buildVEvent(ev, i, now))
	}

	jcal := []any{"vcalendar", calProps, components}
	data, err := json.MarshalIndent(jcal, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal jcal: %w", err)
	}

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write calendar: %w", err)
	}
	return path, nil
}

func buildVEvent(ev ai.Event, index int, now time.Time) []any {
	dtValue := ev.Date
	dtType := "date"
	if ev.Time != "" {
		dtValue = fmt.Sprintf("%sT%s:00", ev.Date, ev.Time)
		dtType = "date-time"
	}

	title := ev.Title
	if title == "" {
		title = "Untitled"
	}

	props := []any{
		[]any{"uid", map[string]any{}, "text", fmt.Sprintf("event-%d-%s@declutter", index, ev.Date)},
		[]any{"summary", map[string]any{}, "text", title},
		[]any{"dtstart", map[string]any{}, dtType, dtValue},
	}
	if ev.Description != "" {
		props = append(props, []any{"description", map[string]any{}, "text", ev.Description})
	}
	if ev.SourceFile != "" {
		props = append(props, []any{"x-source-file", map[string]any{}, "text", ev.SourceFile})
	}
	props = append(props, []any{"dtstamp", map[string]any{}, "date-time", now.Format("2006-01-02T15:04:05")})

	return []any{"vevent", props, []any{}}
}

// Read parses <outDir>/calendar/events.json back into events.
func Read(outDir string) ([]ai.Event, error) {
	path := filepath.Join(outDir, SubDir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read calendar: %w", err)
	}

	var jcal []json.RawMessage
	if err := json.Unmarshal(data, &jcal); err != nil {
		return nil, fmt.Errorf("parse jcal: %w", err)
	}
	if len(jcal) < 3 {
		return nil, fmt.Errorf("parse jcal: expected [name, props, components]")
	}

	var components []json.RawMessage
	if err := json.Unmarshal(jcal[2], &components); err != nil {
		return nil, fmt.Errorf("parse jcal components: %w", err)
	}

	var events []ai.Event
	for _, raw := range components {
		var comp []json.RawMessage
		if err := json.Unmarshal(raw, &comp); err != nil || len(comp) < 2 {
			continue
		}
		var name string
		if err := json.Unmarshal(comp[0], &name); err != nil || name != "vevent" {
			continue
		}
		props, err := parseProps(comp[1])
		if err != nil {
			continue
		}

		ev := ai.Event{
			Title:       props["summary"],
			Description: props["description"],
			SourceFile:  props["x-source-file"],
		}
		ev.Date, ev.Time = splitDateTime(props["dtstart"])
		events = append(events, ev)
	}
	return events, nil
}

// parseProps flattens jCal property lists ([name, params, type, value]) into
// a name -> value map, keeping string values only.
func parseProps(raw json.RawMessage) (map[string]string, error) {
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, err
	}

	props := map[string]string{}
	for _, p := range list {
		var fields []json.RawMessage
		if err := json.Unmarshal(p, &fields); err != nil || len(fields) < 4 {
			continue
		}
		var name, value string
		if err := json.Unmarshal(fields[0], &name); err != nil {
			continue
		}
		if err := json.Unmarshal(fields[3], &value); err != nil {
			continue
		}
		props[name] = value
	}
	return props, nil
}

func splitDateTime(dtstart string) (date, clock string) {
	if len(dtstart) >= 16 && dtstart[10] == 'T' {
		return dtstart[:10], dtstart[11:16]
	}
	return dtstart, ""
}
