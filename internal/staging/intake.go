package staging

import (
	"fmt"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Stat builds a RawFile for a path on disk. The MIME type is derived from the
// extension, which is what a browser would report for a picked file.
func Stat(path string) (RawFile, error) {
	path = expandHome(path)
	info, err := os.Stat(path)
	if err != nil {
		return RawFile{}, err
	}
	if info.IsDir() {
		return RawFile{}, fmt.Errorf("%s is a directory", path)
	}
	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if base, _, ok := strings.Cut(mimeType, ";"); ok {
		mimeType = strings.TrimSpace(base)
	}
	return RawFile{
		Name:     filepath.Base(path),
		Size:     info.Size(),
		MIMEType: mimeType,
		Path:     path,
	}, nil
}

// StatAll stats every path and returns the files it could read. Unreadable paths are
// reported in skipped so the caller can log them; they never abort the batch.
func StatAll(paths []string) (files []RawFile, skipped []error) {
	for _, path := range paths {
		raw, err := Stat(path)
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		files = append(files, raw)
	}
	return files, skipped
}

// ParsePaths splits text pasted into the terminal into file paths. Dragging files onto a
// terminal window pastes their paths, either shell-escaped ("My\ Photo.png"), quoted
// ('My Photo.png'), or as file:// URIs, separated by whitespace or newlines.
func ParsePaths(text string) []string {
	var (
		paths   []string
		current strings.Builder
		quote   rune
		escaped bool
		pending bool
	)
	flush := func() {
		if pending {
			if path := normalizePath(current.String()); path != "" {
				paths = append(paths, path)
			}
		}
		current.Reset()
		pending = false
	}
	for _, r := range text {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			pending = true
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			current.WriteRune(r)
		case r == '\'' || r == '"':
			quote = r
			pending = true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		default:
			current.WriteRune(r)
			pending = true
		}
	}
	flush()
	return paths
}

func normalizePath(value string) string {
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "file://") {
		parsed, err := url.Parse(value)
		if err != nil {
			return ""
		}
		value = parsed.Path
	}
	return expandHome(value)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
