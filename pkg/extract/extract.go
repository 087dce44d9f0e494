package extract

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/quangdv/declutter/pkg/scan"
)

// Unit is the reduced, size-bounded textual representation of one source file.
type Unit struct {
	Path         string
	Name         string
	Kind         scan.Kind
	Text         string
	OriginalSize int64
	Size         int  // len(Text)
	Items        int  // matched lines / projected cells / summarized keys
	Truncated    bool // true when the ceiling forced an explicit cut
	Err          string
}

// Extract converts a source file into a Unit according to the policy.
// It is a pure function: the same file and policy always yield byte-identical
// output, and it never fails: malformed input degrades to a placeholder
// unit with an error annotation so one bad file cannot abort a batch.
func Extract(f scan.File, p Policy) Unit {
	u := Unit{
		Path:         f.Path,
		Name:         f.Name,
		Kind:         f.Kind,
		OriginalSize: f.Size,
	}

	strategy := p.strategyFor(f.Kind)

	if strategy != StrategySkipPlaceholder && len(f.Content) > 0 && !utf8.Valid(f.Content) {
		u.Err = "content is not valid UTF-8"
		u.Text = fmt.Sprintf("[unreadable file: %s (%s)]", f.Name, u.Err)
		u.Size = len(u.Text)
		return u
	}

	switch strategy {
	case StrategyMarkerFilter:
		u.Text, u.Items = filterByMarker(f, p)
	case StrategyColumnProjection:
		u.Text, u.Items, u.Err = projectColumns(f)
	case StrategyStructuralSummary:
		u.Text, u.Items, u.Err = summarizeJSON(f)
	case StrategySkipPlaceholder:
		u.Text = fmt.Sprintf("[image: %s]", f.Name)
	default: // keep-all
		if f.Kind == scan.KindCode && len(f.Content) > p.Ceiling {
			// Oversized code keeps only its annotations.
			u.Text, u.Items = filterByMarker(f, p)
		} else {
			u.Text = string(f.Content)
		}
	}

	// Keep-all output under the ceiling is the identity; everything else is
	// bounded. Truncation is always explicit.
	if len(u.Text) > p.Ceiling {
		u.Text, u.Truncated = truncate(u.Text, p.Ceiling)
	}
	u.Size = len(u.Text)
	return u
}

// filterByMarker scans line by line and keeps only lines with human signal:
// configured annotation markers, warning-or-worse severities, or follow-up
// phrasing. Kept lines stay verbatim and in original order, prefixed with
// their line number.
func filterByMarker(f scan.File, p Policy) (string, int) {
	matcher := newLineMatcher(p.Markers)

	lines := strings.Split(string(f.Content), "\n")
	var kept []string
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if matcher.matchAny(line) {
			kept = append(kept, fmt.Sprintf("Line %d: %s", i+1, strings.TrimSpace(line)))
		}
	}

	var b strings.Builder
	if len(kept) > 0 {
		fmt.Fprintf(&b, "=== Signal from %s ===\n", f.Name)
		fmt.Fprintf(&b, "(scanned %d lines, kept %d)\n\n", len(lines), len(kept))
		b.WriteString(strings.Join(kept, "\n"))
	} else {
		fmt.Fprintf(&b, "=== %s ===\n", f.Name)
		fmt.Fprintf(&b, "(scanned %d lines, no human comments, warnings, or errors found)", len(lines))
	}
	return b.String(), len(kept)
}

const truncationMarker = "\n... [truncated %d bytes]"

// truncate cuts text to the ceiling, appending an explicit marker that
// accounts for the removed bytes. The marker itself fits inside the ceiling.
func truncate(text string, ceiling int) (string, bool) {
	if len(text) <= ceiling {
		return text, false
	}
	// Size the cut against the widest possible marker, then report the
	// exact number of bytes removed; the final marker can only be shorter.
	widest := fmt.Sprintf(truncationMarker, len(text))
	cut := ceiling - len(widest)
	if cut < 0 {
		cut = 0
	}
	// Do not split a multi-byte rune at the cut point.
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + fmt.Sprintf(truncationMarker, len(text)-cut), true
}
