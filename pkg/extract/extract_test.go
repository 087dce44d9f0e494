package extract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quangdv/declutter/pkg/scan"
)

func logFile(name string, content string) scan.File {
	return scan.File{
		Path:    "input/" + name,
		Name:    name,
		Kind:    scan.KindLog,
		Size:    int64(len(content)),
		Content: []byte(content),
	}
}

func TestMarkerFilterKeepsOnlyMarkedLines(t *testing.T) {
	marked := []string{
		"2025-01-02 12:00:01 #NOTE ask Priya about the staging cert",
		"2025-01-02 12:03:44 #TODO rotate the API keys before Friday",
		"2025-01-02 13:11:09 #NOTE need to re-run the failed batch",
		"2025-01-02 18:45:12 #TODO check with infra about disk alerts",
	}

	// Hundreds of KB of machine noise around 4 human comments.
	var b strings.Builder
	for i := 0; i < 10000; i++ {
		fmt.Fprintf(&b, "2025-01-02 12:00:%02d GET /api/v2/items 200 %dms\n", i%60, i%90)
		if i == 17 || i == 402 || i == 5100 || i == 9998 {
			b.WriteString(marked[0] + "\n")
			marked = append(marked[1:], marked[0])
		}
	}
	content := b.String()
	require.Greater(t, len(content), 400_000)

	u := Extract(logFile("api-test.log", content), DefaultPolicy())

	assert.Equal(t, 4, u.Items)
	assert.Less(t, u.Size, 1024)
	assert.False(t, u.Truncated)

	// Every marked line appears verbatim and in original order.
	lastIdx := -1
	for _, line := range []string{"ask Priya", "rotate the API keys", "re-run the failed batch", "check with infra"} {
		idx := strings.Index(u.Text, line)
		assert.Greater(t, idx, lastIdx, "line %q out of order", line)
		lastIdx = idx
	}

	// No machine line survives the filter.
	assert.NotContains(t, u.Text, "GET /api/v2/items")
}

func TestMarkerFilterKeepsSeverities(t *testing.T) {
	content := strings.Join([]string{
		"[INFO] service started",
		"[WARN] disk usage at 91%",
		"[info] heartbeat ok",
		"[ERROR] upstream timeout on /payments",
		"[FATAL] out of file descriptors",
		"[INFO] heartbeat ok",
	}, "\n")

	u := Extract(logFile("system_logs.txt", content), DefaultPolicy())

	assert.Equal(t, 3, u.Items)
	assert.Contains(t, u.Text, "disk usage at 91%")
	assert.Contains(t, u.Text, "upstream timeout")
	assert.Contains(t, u.Text, "out of file descriptors")
	assert.NotContains(t, u.Text, "heartbeat")
}

func TestMarkerFilterNoMatches(t *testing.T) {
	u := Extract(logFile("clean.log", "[INFO] a\n[INFO] b\n[INFO] c"), DefaultPolicy())
	assert.Equal(t, 0, u.Items)
	assert.Contains(t, u.Text, "no human comments")
}

func TestKeepAllIsIdentityUnderCeiling(t *testing.T) {
	content := "# Meeting notes\n\n- PgBouncer for pooling\n- Dentist Feb 20 10:30am\n"
	f := scan.File{Name: "notes.md", Kind: scan.KindNote, Size: int64(len(content)), Content: []byte(content)}

	u := Extract(f, DefaultPolicy())
	assert.Equal(t, content, u.Text)
	assert.False(t, u.Truncated)
	assert.Empty(t, u.Err)
}

func TestExtractionIsDeterministic(t *testing.T) {
	files := []scan.File{
		logFile("a.log", "[WARN] x\nnoise\n#TODO y\n"),
		{Name: "n.md", Kind: scan.KindNote, Content: []byte("hello\n")},
		{Name: "d.json", Kind: scan.KindJSON, Content: []byte(`{"users":[{"role":"admin"},{"role":"user"}]}`)},
	}
	p := DefaultPolicy()
	for _, f := range files {
		first := Extract(f, p)
		for i := 0; i < 3; i++ {
			assert.Equal(t, first, Extract(f, p), "extraction of %s not deterministic", f.Name)
		}
	}
}

func TestUnknownKindTruncatesExplicitly(t *testing.T) {
	content := strings.Repeat("abcdefghij", 1000)
	f := scan.File{Name: "blob.dat", Kind: scan.KindUnknown, Size: int64(len(content)), Content: []byte(content)}

	p := DefaultPolicy()
	u := Extract(f, p)

	assert.True(t, u.Truncated)
	assert.LessOrEqual(t, u.Size, p.Ceiling)
	assert.Contains(t, u.Text, "[truncated")
}

func TestOversizedCodeKeepsAnnotationsOnly(t *testing.T) {
	var b strings.Builder
	b.WriteString("# TODO: validate email format\n")
	for i := 0; i < 500; i++ {
		fmt.Fprintf(&b, "def handler_%d(req):\n    return respond(req, %d)\n", i, i)
	}
	b.WriteString("# FIXME: the rate limiter is broken behind a load balancer\n")

	f := scan.File{Name: "server.py", Kind: scan.KindCode, Size: int64(b.Len()), Content: []byte(b.String())}
	u := Extract(f, DefaultPolicy())

	assert.Equal(t, 2, u.Items)
	assert.Contains(t, u.Text, "validate email format")
	assert.Contains(t, u.Text, "rate limiter is broken")
	assert.NotContains(t, u.Text, "def handler_1(")
}

func TestSmallCodePassesThrough(t *testing.T) {
	content := "package main\n\nfunc main() {}\n"
	f := scan.File{Name: "main.go", Kind: scan.KindCode, Size: int64(len(content)), Content: []byte(content)}
	u := Extract(f, DefaultPolicy())
	assert.Equal(t, content, u.Text)
}

func TestImagePlaceholder(t *testing.T) {
	f := scan.File{Name: "whiteboard.png", Kind: scan.KindImage, Content: []byte{0x89, 0x50, 0x4e, 0x47}}
	u := Extract(f, DefaultPolicy())
	assert.Equal(t, "[image: whiteboard.png]", u.Text)
	assert.Empty(t, u.Err)
}

func TestInvalidUTF8YieldsPlaceholder(t *testing.T) {
	f := scan.File{Name: "weird.txt", Kind: scan.KindNote, Content: []byte{0xff, 0xfe, 0x00, 0x41}}
	u := Extract(f, DefaultPolicy())
	assert.NotEmpty(t, u.Err)
	assert.Contains(t, u.Text, "unreadable file")
}

func TestCeilingBoundsEveryStrategy(t *testing.T) {
	p := DefaultPolicy()
	p.Ceiling = 200

	big := strings.Repeat("#NOTE remember to water the plants\n", 500)
	u := Extract(logFile("huge.log", big), p)
	assert.LessOrEqual(t, u.Size, p.Ceiling)
	assert.True(t, u.Truncated)
}
