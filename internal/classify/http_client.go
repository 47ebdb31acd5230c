package classify

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/csheth/mythchaser/internal/staging"
)

const (
	promptField = "prompt"
	filesField  = "files"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

type httpClient struct {
	endpoint  string
	client    *http.Client
	logger    *zap.Logger
	userAgent string
}

func (c *httpClient) Endpoint() string {
	return c.endpoint
}

func (c *httpClient) Submit(ctx context.Context, prompt string, files staging.Collection) (Result, error) {
	if strings.TrimSpace(prompt) == "" {
		return Result{}, &ValidationError{Message: "Please enter a prompt."}
	}

	requestID := uuid.NewString()
	logger := c.logger.With(zap.String("request_id", requestID))

	body, contentType := streamForm(prompt, files)
	defer body.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+classifyPath, body)
	if err != nil {
		return Result{}, fmt.Errorf("build classify request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	started := time.Now()
	logger.Info("classify request", zap.Int("files", len(files)), zap.Int64("bytes", files.TotalSize()))

	resp, err := c.client.Do(req)
	if err != nil {
		logger.Warn("classify request failed", zap.Error(err), zap.Duration("duration", time.Since(started)))
		return Result{}, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		logger.Warn("classify rejected", zap.Int("status", resp.StatusCode), zap.Duration("duration", time.Since(started)))
		return Result{}, &TransportError{Status: resp.StatusCode}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, &TransportError{Status: resp.StatusCode, Err: err}
	}
	result, err := ParseResponse(raw)
	if err != nil {
		logger.Warn("classify response undecodable", zap.Error(err))
		return Result{}, &TransportError{Status: resp.StatusCode, Err: err}
	}
	logger.Info("classify response",
		zap.Int("status", resp.StatusCode),
		zap.Stringer("kind", result.Kind),
		zap.String("verdict", result.Verdict),
		zap.Duration("duration", time.Since(started)),
	)
	return result, nil
}

// streamForm encodes the multipart body on a goroutine so attachments are never
// buffered whole. Closing the returned reader stops the writer.
func streamForm(prompt string, files staging.Collection) (io.ReadCloser, string) {
	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)
	toSend := append(staging.Collection(nil), files...)
	go func() {
		pw.CloseWithError(writeForm(form, prompt, toSend))
	}()
	return pr, form.FormDataContentType()
}

func writeForm(form *multipart.Writer, prompt string, files staging.Collection) error {
	if err := form.WriteField(promptField, prompt); err != nil {
		return err
	}
	for _, file := range files {
		if err := writeFilePart(form, file); err != nil {
			return err
		}
	}
	return form.Close()
}

func writeFilePart(form *multipart.Writer, file staging.StagedFile) error {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, filesField, quoteEscaper.Replace(file.Name)))
	contentType := file.MIMEType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := form.CreatePart(header)
	if err != nil {
		return err
	}
	src, err := os.Open(file.Path)
	if err != nil {
		return fmt.Errorf("open %s: %w", file.Name, err)
	}
	defer src.Close()
	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("read %s: %w", file.Name, err)
	}
	return nil
}
