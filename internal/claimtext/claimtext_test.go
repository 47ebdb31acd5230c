package claimtext

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadTextFile(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "claim.TXT", "  Drinking   bleach\tcures flu.\r\n\r\n\r\n\r\nShared on WhatsApp.  \n")
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := "Drinking bleach cures flu.\n\nShared on WhatsApp."
	if got != want {
		t.Fatalf("Load() = %q, want %q", got, want)
	}
}

func TestLoadRejectsUnsupportedAndEmpty(t *testing.T) {
	t.Parallel()

	if _, err := Load(writeFile(t, "photo.png", "png")); err == nil {
		t.Fatal("expected unsupported extension error")
	}
	if _, err := Load(writeFile(t, "blank.md", " \n\t\n")); err == nil {
		t.Fatal("expected empty file error")
	}
	if _, err := Load(writeFile(t, "broken.pdf", "not a pdf")); err == nil {
		t.Fatal("expected pdf parse error")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatal("expected missing file error")
	}
}

func TestLoadClipsLongClaims(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("word ", MaxChars)
	got, err := Load(writeFile(t, "long.md", long))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len([]rune(got)) > MaxChars {
		t.Fatalf("claim not clipped: %d chars", len([]rune(got)))
	}
	if strings.HasSuffix(got, " ") || !strings.HasSuffix(got, "word") {
		t.Fatalf("claim should end on a word boundary, got suffix %q", got[len(got)-8:])
	}
}

func TestSupported(t *testing.T) {
	t.Parallel()

	for path, want := range map[string]bool{"a.pdf": true, "b.md": true, "c.TXT": true, "d.docx": false, "e": false} {
		if got := Supported(path); got != want {
			t.Fatalf("Supported(%q) = %v, want %v", path, got, want)
		}
	}

	exts := Extensions()
	for _, ext := range exts {
		if !Supported("claim" + ext) {
			t.Fatalf("Extensions() lists %q but Supported rejects it", ext)
		}
	}
	exts[0] = ".exe"
	if Supported("claim.exe") {
		t.Fatal("Extensions() must return a copy")
	}
}
