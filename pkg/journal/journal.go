// Package journal writes per-topic markdown journals and reads them back.
// The write and read sides agree on the format so the vector store can be
// rebuilt from journal files alone, without another model call.
package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/quangdv/declutter/pkg/ai"
)

// SubDir is the journal directory under the output root.
const SubDir = "journal"

// TopicFile reports the path of one generated topic file.
type TopicFile struct {
	Topic string
	Path  string
	Notes int
}

// Write groups notes by topic and writes one markdown file per topic under
// <outDir>/journal. The now parameter stamps the files; callers pass
// time.Now() outside tests.
func Write(outDir string, notes []ai.Note, now time.Time) ([]TopicFile, error) {
	dir := filepath.Join(outDir, SubDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}

	byTopic := map[string][]ai.Note{}
	for _, n := range notes {
		topic := n.Topic
		if topic == "" {
			topic = "uncategorized"
		}
		byTopic[topic] = append(byTopic[topic], n)
	}

	topics := make([]string, 0, len(byTopic))
	for t := range byTopic {
		topics = append(topics, t)
	}
	sort.Strings(topics)

	var files []TopicFile
	for _, topic := range topics {
		path := filepath.Join(dir, topic+".md")
		content := render(topic, byTopic[topic], now)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return nil, fmt.Errorf("write journal %s: %w", path, err)
		}
		files = append(files, TopicFile{Topic: topic, Path: path, Notes: len(byTopic[topic])})
	}
	return files, nil
}

func render(topic string, notes []ai.Note, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", titleCase(strings.ReplaceAll(topic, "_", " ")))
	fmt.Fprintf(&b, "*Generated on %s*\n\n---\n\n", now.Format("2006-01-02 15:04"))

	// Group by source file, preserving first-seen order.
	var sources []string
	bySource := map[string][]ai.Note{}
	for _, n := range notes {
		source := n.SourceFile
		if source == "" {
			source = "unknown"
		}
		if _, ok := bySource[source]; !ok {
			sources = append(sources, source)
		}
		bySource[source] = append(bySource[source], n)
	}

	for _, source := range sources {
		fmt.Fprintf(&b, "## From: %s\n\n", source)
		for _, n := range bySource[source] {
			fmt.Fprintf(&b, "- %s\n", n.Content)
			if len(n.Tags) > 0 {
				tags := make([]string, len(n.Tags))
				for i, t := range n.Tags {
					tags[i] = fmt.Sprintf("`#%s`", t)
				}
				fmt.Fprintf(&b, "  %s\n", strings.Join(tags, " "))
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// ReadDir parses every topic file under <outDir>/journal back into notes.
func ReadDir(outDir string) ([]ai.Note, error) {
	dir := filepath.Join(outDir, SubDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read journal dir: %w", err)
	}

	var notes []ai.Note
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		topic := strings.TrimSuffix(e.Name(), ".md")
		content, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read journal %s: %w", e.Name(), err)
		}
		notes = append(notes, parse(topic, string(content))...)
	}
	return notes, nil
}

// parse recovers notes from journal markdown: "## From:" headers set the
// source, "- " bullets carry content, indented backticked lines carry tags.
func parse(topic, content string) []ai.Note {
	var notes []ai.Note
	source := "unknown"

	for _, line := range strings.Split(content, "\n") {
		switch {
		case strings.HasPrefix(line, "## From:"):
			source = strings.TrimSpace(strings.TrimPrefix(line, "## From:"))
		case strings.HasPrefix(line, "- "):
			text := strings.TrimSpace(line[2:])
			if text != "" {
				notes = append(notes, ai.Note{Topic: topic, Content: text, SourceFile: source})
			}
		case strings.HasPrefix(line, "  `#") && len(notes) > 0:
			notes[len(notes)-1].Tags = parseTags(line)
		}
	}
	return notes
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func parseTags(line string) []string {
	var tags []string
	for _, field := range strings.Fields(line) {
		tag := strings.Trim(field, "`")
		tag = strings.TrimPrefix(tag, "#")
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
