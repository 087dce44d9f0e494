package extract

import (
	"regexp"
	"strings"
)

// severityPattern matches bracketed log severities the way syslog-style
// output writes them. Matched case-insensitively, unlike annotation markers.
var severityPattern = regexp.MustCompile(`(?i)\[(WARN|ERROR|FATAL|CRITICAL)`)

// humanPhrasePattern catches human-written follow-up language that carries
// no explicit marker token.
var humanPhrasePattern = regexp.MustCompile(`(?i)(need to|don'?t forget|remember to|follow up|ask \w+|check with|waiting on|blocked by|should (be|have|fix|check|update)|unhandled)`)

// lineMatcher decides whether a single line carries human signal.
type lineMatcher struct {
	markers []string
}

func newLineMatcher(markers []string) lineMatcher {
	return lineMatcher{markers: markers}
}

// matchMarker reports whether the line contains one of the configured
// annotation markers. Markers are matched case-sensitively so that, say,
// "denoted" does not trip the NOTE marker via case folding tricks; the
// marker set itself is conventionally uppercase.
func (m lineMatcher) matchMarker(line string) bool {
	for _, marker := range m.markers {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}

// matchSeverity reports whether the line carries a warning-or-worse severity tag.
func (m lineMatcher) matchSeverity(line string) bool {
	return severityPattern.MatchString(line)
}

// matchHuman reports whether the line reads like a human note without a marker.
func (m lineMatcher) matchHuman(line string) bool {
	return humanPhrasePattern.MatchString(line)
}

// matchAny is the union used by the log filter.
func (m lineMatcher) matchAny(line string) bool {
	return m.matchMarker(line) || m.matchSeverity(line) || m.matchHuman(line)
}
