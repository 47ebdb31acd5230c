// Package claimtext loads a claim's wording from a document on disk.
package claimtext

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/ledongthuc/pdf"
)

// MaxChars caps imported claims; anything longer is cut at a word boundary.
const MaxChars = 4000

var (
	extraneousWhitespace = regexp.MustCompile(`[ \t]+`)
	blankLines           = regexp.MustCompile(`\n{3,}`)
	extensions           = []string{".txt", ".md", ".text", ".pdf"}
)

// Extensions returns the file extensions Load accepts, for pickers.
func Extensions() []string {
	return append([]string(nil), extensions...)
}

// Supported reports whether Load understands the file's extension.
func Supported(path string) bool {
	return slices.Contains(extensions, strings.ToLower(filepath.Ext(path)))
}

// Load reads a plain-text, markdown, or PDF document and returns its normalised text.
func Load(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	var (
		text string
		err  error
	)
	switch {
	case !Supported(path):
		return "", fmt.Errorf("unsupported claim file %q: use .txt, .md, or .pdf", filepath.Base(path))
	case ext == ".pdf":
		text, err = pdfText(path)
	default:
		var data []byte
		data, err = os.ReadFile(path)
		text = string(data)
	}
	if err != nil {
		return "", err
	}
	text = Normalize(text)
	if text == "" {
		return "", fmt.Errorf("claim file %q has no text", filepath.Base(path))
	}
	return clip(text, MaxChars), nil
}

// Normalize trims the text, collapses runs of spaces, and keeps at most one blank line.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(extraneousWhitespace.ReplaceAllString(line, " "))
	}
	s = strings.Join(lines, "\n")
	s = blankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

func pdfText(path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	defer file.Close()

	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract pdf text: %w", err)
	}
	var builder strings.Builder
	if _, err := io.Copy(&builder, content); err != nil {
		return "", err
	}
	return builder.String(), nil
}

func clip(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	cut := string(runes[:limit])
	if idx := strings.LastIndexAny(cut, " \n"); idx > limit/2 {
		cut = cut[:idx]
	}
	return strings.TrimSpace(cut)
}
