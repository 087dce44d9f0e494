package extract

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/quangdv/declutter/pkg/scan"
)

const (
	// maxEnumValues caps how many distinct values a field may have and still
	// be reported as a categorical enumeration.
	maxEnumValues = 10
	// maxSummaryKeys caps how many keys of an object are listed.
	maxSummaryKeys = 10
)

// errorCodeKeys are field names whose distinct values are always worth
// surfacing, whatever their cardinality.
var errorCodeKeys = map[string]bool{"code": true, "error": true, "error_code": true, "errorCode": true}

// summarizeJSON forwards the structure of a JSON payload, never its raw
// records: key collections, observed categorical values with counts, distinct
// error codes, and record counts.
func summarizeJSON(f scan.File) (string, int, string) {
	var data any
	if err := json.Unmarshal(f.Content, &data); err != nil {
		text := fmt.Sprintf("[unreadable file: %s (invalid JSON)]", f.Name)
		return text, 0, "invalid JSON"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "=== Structure of %s ===\n", f.Name)

	items := 0
	switch v := data.(type) {
	case map[string]any:
		keys := sortedKeys(v)
		fmt.Fprintf(&b, "Object with %d keys\n", len(v))
		fmt.Fprintf(&b, "Keys: %s\n", strings.Join(capKeys(keys), ", "))
		items = len(v)
		for _, k := range keys {
			if records, ok := v[k].([]any); ok {
				summarizeRecords(&b, k, records)
			}
		}
		summarizeScalars(&b, v)
	case []any:
		fmt.Fprintf(&b, "Array with %d items\n", len(v))
		items = len(v)
		summarizeRecords(&b, "items", v)
	default:
		fmt.Fprintf(&b, "Scalar value: %v\n", v)
		items = 1
	}

	if codes := collectErrorCodes(data); len(codes) > 0 {
		fmt.Fprintf(&b, "Error codes observed: %s\n", strings.Join(codes, ", "))
	}

	return strings.TrimRight(b.String(), "\n"), items, ""
}

// summarizeRecords reports an array of objects as a record set: the count,
// the field names, and the value distribution of low-cardinality string
// fields. Raw records are never emitted.
func summarizeRecords(b *strings.Builder, name string, records []any) {
	objects := 0
	fieldValues := map[string]map[string]int{}
	for _, rec := range records {
		obj, ok := rec.(map[string]any)
		if !ok {
			continue
		}
		objects++
		for k, v := range obj {
			s, ok := v.(string)
			if !ok {
				continue
			}
			if fieldValues[k] == nil {
				fieldValues[k] = map[string]int{}
			}
			fieldValues[k][s]++
		}
	}
	if objects == 0 {
		return
	}

	fmt.Fprintf(b, "%s: %d records\n", name, objects)

	fields := make([]string, 0, len(fieldValues))
	for k := range fieldValues {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	for _, field := range fields {
		values := fieldValues[field]
		if len(values) > maxEnumValues && !errorCodeKeys[field] {
			continue
		}
		distinct := make([]string, 0, len(values))
		for v := range values {
			distinct = append(distinct, v)
		}
		sort.Strings(distinct)
		parts := make([]string, len(distinct))
		for i, v := range distinct {
			parts[i] = fmt.Sprintf("%s (%d)", v, values[v])
		}
		fmt.Fprintf(b, "  %s: %s\n", field, strings.Join(parts, ", "))
	}
}

// summarizeScalars lists the top-level scalar string fields of an object,
// which usually carry metadata worth keeping (description, environment, ...).
func summarizeScalars(b *strings.Builder, obj map[string]any) {
	for _, k := range sortedKeys(obj) {
		if s, ok := obj[k].(string); ok {
			fmt.Fprintf(b, "%s: %s\n", k, s)
		}
	}
}

// collectErrorCodes walks the whole document for error-code fields.
func collectErrorCodes(data any) []string {
	seen := map[string]bool{}
	var walk func(any)
	walk = func(node any) {
		switch v := node.(type) {
		case map[string]any:
			for k, val := range v {
				if errorCodeKeys[k] {
					if s, ok := val.(string); ok {
						seen[s] = true
					}
				}
				walk(val)
			}
		case []any:
			for _, item := range v {
				walk(item)
			}
		}
	}
	walk(data)

	codes := make([]string, 0, len(seen))
	for c := range seen {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func capKeys(keys []string) []string {
	if len(keys) > maxSummaryKeys {
		return append(append([]string{}, keys[:maxSummaryKeys]...), "...")
	}
	return keys
}
