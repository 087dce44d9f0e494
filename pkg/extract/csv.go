package extract

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/agext/levenshtein"

	"github.com/quangdv/declutter/pkg/scan"
)

// noteColumnNames are the canonical headers that mark a human-commentary
// column. Headers within a small edit distance of a canonical name (e.g.
// "Notes ", "commnets") also qualify.
var noteColumnNames = []string{"notes", "note", "comments", "comment", "description"}

const noteColumnMaxDist = 2

// projectColumns keeps only the note-like columns of a CSV, one line per
// non-empty cell with the first column as row context. Files without a
// note-like column degrade to a header and row-count summary.
func projectColumns(f scan.File) (string, int, string) {
	r := csv.NewReader(bytes.NewReader(f.Content))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		text := fmt.Sprintf("[unreadable file: %s (malformed CSV: %v)]", f.Name, err)
		return text, 0, fmt.Sprintf("malformed CSV: %v", err)
	}
	if len(records) == 0 {
		return fmt.Sprintf("=== %s ===\n(empty CSV)", f.Name), 0, ""
	}

	headers := records[0]
	rows := records[1:]

	noteCols := noteColumnIndexes(headers)
	if len(noteCols) == 0 {
		// Fallback: structural summary rather than an error.
		var b strings.Builder
		fmt.Fprintf(&b, "=== %s ===\n", f.Name)
		fmt.Fprintf(&b, "(%d rows, no notes column found)\n", len(rows))
		fmt.Fprintf(&b, "Columns: %s", strings.Join(headers, ", "))
		return b.String(), 0, ""
	}

	var cells []string
	for _, row := range rows {
		context := ""
		if len(row) > 0 {
			context = row[0]
		}
		for _, col := range noteCols {
			if col >= len(row) {
				continue
			}
			value := strings.TrimSpace(row[col])
			if value == "" {
				continue
			}
			cells = append(cells, fmt.Sprintf("- [%s] %s", context, value))
		}
	}

	var b strings.Builder
	if len(cells) > 0 {
		fmt.Fprintf(&b, "=== Notes from %s ===\n", f.Name)
		fmt.Fprintf(&b, "(scanned %d rows, found %d notes)\n\n", len(rows), len(cells))
		b.WriteString(strings.Join(cells, "\n"))
	} else {
		fmt.Fprintf(&b, "=== %s ===\n", f.Name)
		fmt.Fprintf(&b, "(scanned %d rows, notes column empty)\n", len(rows))
		fmt.Fprintf(&b, "Columns: %s", strings.Join(headers, ", "))
	}
	return b.String(), len(cells), ""
}

func noteColumnIndexes(headers []string) []int {
	var cols []int
	for i, h := range headers {
		if isNoteColumn(h) {
			cols = append(cols, i)
		}
	}
	return cols
}

func isNoteColumn(header string) bool {
	h := strings.ToLower(strings.TrimSpace(header))
	for _, name := range noteColumnNames {
		if h == name {
			return true
		}
		// Fuzzy match scaled to header length so short unrelated words
		// ("roles", "date") cannot collide with the canonical names.
		maxDist := 1
		if len(h) >= 7 {
			maxDist = noteColumnMaxDist
		}
		if len(h) >= 5 && levenshtein.Distance(h, name, nil) <= maxDist {
			return true
		}
	}
	return false
}
