package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectKindByExtension(t *testing.T) {
	cases := map[string]Kind{
		"meeting_notes.md": KindNote,
		"todo.TXT":         KindNote,
		"api-test.log":     KindLog,
		"expenses.csv":     KindCSV,
		"export.json":      KindJSON,
		"server.py":        KindCode,
		"schema.sql":       KindCode,
		"whiteboard.png":   KindImage,
		"photo.JPG":        KindImage,
		"archive.tar.gz":   KindUnknown,
	}
	for name, want := range cases {
		assert.Equal(t, want, DetectKind(name, []byte("plain text")), "file %s", name)
	}
}

func TestTxtWithSeverityLinesIsALog(t *testing.T) {
	content := []byte("[INFO] boot\n[WARN] low disk\n[INFO] ready\n")
	assert.Equal(t, KindLog, DetectKind("system_logs.txt", content))

	prose := []byte("Dear diary,\ntoday I fixed the build.\n")
	assert.Equal(t, KindNote, DetectKind("diary.txt", prose))
}

func TestBinaryContentIsUnknown(t *testing.T) {
	assert.True(t, isLikelyBinary([]byte{0x7f, 0x45, 0x4c, 0x46, 0x00, 0x01}))
	assert.False(t, isLikelyBinary([]byte("just text\nwith lines\n")))
	assert.False(t, isLikelyBinary(nil))
}

func TestDirSkipsHiddenAndSortsByName(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "zeta.md"), []byte("z"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alpha.log"), []byte("[ERROR] x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".DS_Store"), []byte{0}, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))

	files, err := Dir(dir)
	require.NoError(t, err)

	require.Len(t, files, 2)
	assert.Equal(t, "alpha.log", files[0].Name)
	assert.Equal(t, KindLog, files[0].Kind)
	assert.Equal(t, "zeta.md", files[1].Name)
	assert.Equal(t, int64(1), files[1].Size)
}

func TestDirMissing(t *testing.T) {
	_, err := Dir(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
