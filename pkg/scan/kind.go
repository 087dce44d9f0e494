package scan

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Kind classifies a source file for extraction routing.
type Kind string

const (
	KindNote    Kind = "note"
	KindLog     Kind = "log"
	KindCSV     Kind = "csv"
	KindJSON    Kind = "json"
	KindCode    Kind = "code"
	KindImage   Kind = "image"
	KindUnknown Kind = "unknown"
)

var kindByExt = map[string]Kind{
	".md":   KindNote,
	".txt":  KindNote,
	".log":  KindLog,
	".csv":  KindCSV,
	".json": KindJSON,
	".py":   KindCode,
	".go":   KindCode,
	".ts":   KindCode,
	".tsx":  KindCode,
	".js":   KindCode,
	".sql":  KindCode,
	".jpg":  KindImage,
	".jpeg": KindImage,
	".png":  KindImage,
	".gif":  KindImage,
	".webp": KindImage,
}

// DetectKind classifies a file by extension, falling back to a content sniff
// for extensions we do not recognize.
func DetectKind(name string, content []byte) Kind {
	ext := strings.ToLower(filepath.Ext(name))
	if k, ok := kindByExt[ext]; ok {
		// system_logs.txt style files are logs despite the .txt extension:
		// a .txt file whose lines carry bracketed severity levels is a log.
		if k == KindNote && looksLikeLog(content) {
			return KindLog
		}
		return k
	}
	if isLikelyBinary(content) {
		return KindUnknown
	}
	return KindUnknown
}

// looksLikeLog reports whether the first lines of content follow a
// severity-tagged log shape ([INFO], [WARN], [ERROR], ...).
func looksLikeLog(content []byte) bool {
	lines := bytes.SplitN(content, []byte("\n"), 6)
	tagged := 0
	seen := 0
	for _, line := range lines {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		seen++
		upper := bytes.ToUpper(line)
		for _, tag := range [][]byte{[]byte("[INFO"), []byte("[DEBUG"), []byte("[WARN"), []byte("[ERROR"), []byte("[FATAL"), []byte("[CRITICAL"), []byte("[TRACE")} {
			if bytes.Contains(upper, tag) {
				tagged++
				break
			}
		}
	}
	return seen > 0 && tagged*2 > seen
}

// isLikelyBinary checks the first bytes for null bytes or a high ratio of
// non-printable characters.
func isLikelyBinary(content []byte) bool {
	sample := content
	if len(sample) > 512 {
		sample = sample[:512]
	}
	if len(sample) == 0 {
		return false
	}
	if bytes.ContainsRune(sample, 0) {
		return true
	}
	nonPrintable := 0
	for _, b := range sample {
		if !isPrintable(b) {
			nonPrintable++
		}
	}
	return float64(nonPrintable)/float64(len(sample)) > 0.3
}

func isPrintable(b byte) bool {
	return (b >= 32 && b <= 126) || b == '\n' || b == '\r' || b == '\t' || b >= 128
}
