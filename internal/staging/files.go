// Package staging holds the client-side file staging rules: which files may be
// attached to a claim, how new batches merge into the staged collection, and how
// single entries are removed.
package staging

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIndexOutOfRange is returned by RemoveAt for positions outside the collection.
var ErrIndexOutOfRange = errors.New("index out of range")

var (
	acceptedPrefixes   = []string{"image/", "audio/"}
	acceptedExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".mp3", ".wav", ".m4a", ".ogg"}
)

// RawFile is a candidate attachment as reported by the picker, a paste, or the drop folder.
type RawFile struct {
	Name     string
	Size     int64
	MIMEType string
	// Path locates the payload on disk; it is only opened when the claim is submitted.
	Path string
}

// StagedFile is a RawFile that passed Filter.
type StagedFile struct {
	RawFile
}

// SameAs reports whether two staged files are the same attachment for de-duplication.
// Identity is name plus size; content and MIME type are not compared.
func (f StagedFile) SameAs(other StagedFile) bool {
	return f.Name == other.Name && f.Size == other.Size
}

// Category returns the leading MIME component ("image", "audio"), or "file".
func (f StagedFile) Category() string {
	major, _, _ := strings.Cut(f.MIMEType, "/")
	if major == "" {
		return "file"
	}
	return major
}

// Collection is the ordered list of staged attachments.
type Collection []StagedFile

// TotalSize sums the byte size of every staged file.
func (c Collection) TotalSize() int64 {
	var total int64
	for _, f := range c {
		total += f.Size
	}
	return total
}

// Names lists file names in staging order.
func (c Collection) Names() []string {
	names := make([]string, 0, len(c))
	for _, f := range c {
		names = append(names, f.Name)
	}
	return names
}

// AcceptedExtensions returns the extension allow-list used by the picker and Filter.
func AcceptedExtensions() []string {
	return append([]string(nil), acceptedExtensions...)
}

// Accepts reports whether a single file would survive Filter.
func Accepts(f RawFile) bool {
	for _, prefix := range acceptedPrefixes {
		if strings.HasPrefix(f.MIMEType, prefix) {
			return true
		}
	}
	lower := strings.ToLower(f.Name)
	for _, ext := range acceptedExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Filter keeps image and audio files, by declared MIME type or by extension, in input order.
// Rejected files are dropped without error.
func Filter(candidates []RawFile) []StagedFile {
	valid := make([]StagedFile, 0, len(candidates))
	for _, candidate := range candidates {
		if Accepts(candidate) {
			valid = append(valid, StagedFile{RawFile: candidate})
		}
	}
	return valid
}

// Merge appends incoming files that do not match an existing entry by name and size.
// The existing order is kept and the result never shares storage with existing.
func Merge(existing Collection, incoming []StagedFile) Collection {
	merged := make(Collection, 0, len(existing)+len(incoming))
	merged = append(merged, existing...)
	for _, candidate := range incoming {
		if existing.contains(candidate) {
			continue
		}
		merged = append(merged, candidate)
	}
	return merged
}

// RemoveAt returns a copy of c without the element at index.
func RemoveAt(c Collection, index int) (Collection, error) {
	if index < 0 || index >= len(c) {
		return c, fmt.Errorf("remove staged file %d of %d: %w", index, len(c), ErrIndexOutOfRange)
	}
	out := make(Collection, 0, len(c)-1)
	out = append(out, c[:index]...)
	return append(out, c[index+1:]...), nil
}

func (c Collection) contains(f StagedFile) bool {
	for _, existing := range c {
		if existing.SameAs(f) {
			return true
		}
	}
	return false
}

// FormatKB renders a byte count the way the file list shows it, e.g. "12.5 KB".
func FormatKB(size int64) string {
	return fmt.Sprintf("%.1f KB", float64(size)/1024)
}
