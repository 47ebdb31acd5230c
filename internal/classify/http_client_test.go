package classify

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"go.uber.org/goleak"

	"github.com/csheth/mythchaser/internal/staging"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestClient(t *testing.T, endpoint string, httpClient *http.Client) Client {
	t.Helper()
	client, err := New(Config{Endpoint: endpoint, HTTPClient: httpClient})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client
}

func stageFile(t *testing.T, dir, name, mimeType, content string) staging.StagedFile {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return staging.StagedFile{RawFile: staging.RawFile{Name: name, Size: int64(len(content)), MIMEType: mimeType, Path: path}}
}

func TestSubmitPromptOnly(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/classify" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Errorf("missing request id header")
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		if got := r.MultipartForm.Value["prompt"]; len(got) != 1 || got[0] != "Is the earth flat?" {
			t.Errorf("prompt field = %#v", got)
		}
		if files := r.MultipartForm.File["files"]; len(files) != 0 {
			t.Errorf("expected no files field, got %d parts", len(files))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Success":{"Verdict":"myth","Explanation":"Scientific consensus..."}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL+"/", server.Client())
	result, err := client.Submit(context.Background(), "Is the earth flat?", nil)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if result.Kind != KindSuccess || result.Verdict != "myth" || result.Explanation != "Scientific consensus..." {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestSubmitStreamsStagedFiles(t *testing.T) {
	dir := t.TempDir()
	files := staging.Collection{
		stageFile(t, dir, "a.png", "image/png", "png-bytes"),
		stageFile(t, dir, `say "hi".wav`, "", "wav-bytes"),
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		parts := r.MultipartForm.File["files"]
		if len(parts) != 2 {
			t.Errorf("expected 2 file parts, got %d", len(parts))
			return
		}
		wantNames := []string{"a.png", `say "hi".wav`}
		wantBodies := []string{"png-bytes", "wav-bytes"}
		wantTypes := []string{"image/png", "application/octet-stream"}
		for i, part := range parts {
			if part.Filename != wantNames[i] {
				t.Errorf("part %d filename = %q, want %q", i, part.Filename, wantNames[i])
			}
			if got := part.Header.Get("Content-Type"); got != wantTypes[i] {
				t.Errorf("part %d content type = %q, want %q", i, got, wantTypes[i])
			}
			f, err := part.Open()
			if err != nil {
				t.Errorf("open part: %v", err)
				continue
			}
			data, _ := io.ReadAll(f)
			f.Close()
			if string(data) != wantBodies[i] {
				t.Errorf("part %d body = %q, want %q", i, data, wantBodies[i])
			}
		}
		_, _ = w.Write([]byte(`{"Success":"SCAM"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, server.Client())
	result, err := client.Submit(context.Background(), "Win a free phone", files)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if result.Kind != KindSuccess || result.Verdict != "SCAM" || result.Explanation != "" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestSubmitWhitespacePromptSendsNothing(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, server.Client())
	_, err := client.Submit(context.Background(), "   ", nil)
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if atomic.LoadInt32(&hits) != 0 {
		t.Fatalf("whitespace prompt reached the server")
	}
}

func TestSubmitNon2xxIsUploadFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"Success":{"Verdict":"FACT","Explanation":"ignored"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, server.Client())
	_, err := client.Submit(context.Background(), "claim", nil)
	var transport *TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if transport.Status != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", transport.Status)
	}
	if transport.Error() != "Upload failed" {
		t.Fatalf("message = %q, want Upload failed", transport.Error())
	}
}

func TestSubmitNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	httpClient := server.Client()
	server.Close()

	client := newTestClient(t, endpoint, httpClient)
	_, err := client.Submit(context.Background(), "claim", nil)
	var transport *TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if transport.Status != 0 || transport.Err == nil {
		t.Fatalf("expected network cause without status, got %+v", transport)
	}
}

func TestSubmitUndecodableBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>oops</html>`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, server.Client())
	_, err := client.Submit(context.Background(), "claim", nil)
	var transport *TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

func TestSubmitMissingAttachmentFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.Copy(io.Discard, r.Body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"Error":"unreachable"}`))
	}))
	defer server.Close()

	missing := staging.StagedFile{RawFile: staging.RawFile{Name: "gone.png", Size: 3, Path: filepath.Join(t.TempDir(), "gone.png")}}
	client := newTestClient(t, server.URL, server.Client())
	if _, err := client.Submit(context.Background(), "claim", staging.Collection{missing}); err == nil {
		t.Fatal("expected an error for a missing attachment")
	}
}

func TestNewRejectsBadEndpoints(t *testing.T) {
	for _, endpoint := range []string{"ftp://example.com", "http://", "::nope"} {
		if _, err := New(Config{Endpoint: endpoint}); err == nil {
			t.Fatalf("New(%q) should fail", endpoint)
		}
	}
	client, err := New(Config{})
	if err != nil {
		t.Fatalf("New() with defaults error = %v", err)
	}
	if client.Endpoint() != DefaultEndpoint {
		t.Fatalf("endpoint = %q, want %q", client.Endpoint(), DefaultEndpoint)
	}
}
