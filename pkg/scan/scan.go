package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// File is one raw input artifact from the input directory.
type File struct {
	Path    string // absolute or caller-relative path
	Name    string // base name, used as the identifier in downstream output
	Kind    Kind
	Size    int64
	Content []byte
}

// Dir reads every regular file in dir (non-recursive, hidden files skipped)
// and returns them sorted by name so downstream ordering is deterministic.
func Dir(dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}

	var files []File
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		f, err := Read(path)
		if err != nil {
			// A single unreadable file must not abort the scan; the
			// extractor turns the empty-content file into a placeholder.
			f = File{Path: path, Name: e.Name(), Kind: KindUnknown}
		}
		files = append(files, f)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// Read loads a single file and classifies it.
func Read(path string) (File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read %s: %w", path, err)
	}
	return File{
		Path:    path,
		Name:    filepath.Base(path),
		Kind:    DetectKind(path, content),
		Size:    int64(len(content)),
		Content: content,
	}, nil
}
