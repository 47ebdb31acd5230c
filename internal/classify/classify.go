// Package classify talks to the remote claim classification service.
package classify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/csheth/mythchaser/internal/staging"
)

// DefaultEndpoint is the service base URL used when nothing is configured.
const DefaultEndpoint = "http://localhost:8000"

const (
	classifyPath     = "/classify"
	defaultUserAgent = "mythchaser"
)

// Config describes how to build a classification client.
type Config struct {
	// Endpoint is the service base URL; "/classify" is appended.
	Endpoint string
	// Timeout bounds a whole request. Zero leaves timing to the caller's context.
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
	UserAgent  string
}

// Client submits a claim with its staged attachments and returns the mapped result.
// It does not guard against concurrent submissions; callers gate on their own in-flight state.
type Client interface {
	Submit(ctx context.Context, prompt string, files staging.Collection) (Result, error)
	Endpoint() string
}

// New validates cfg and returns an HTTP-backed Client.
func New(cfg Config) (Client, error) {
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid endpoint %q: scheme must be http or https", endpoint)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("invalid endpoint %q: missing host", endpoint)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &httpClient{
		endpoint:  endpoint,
		client:    pickHTTPClient(cfg.HTTPClient, cfg.Timeout),
		logger:    logger,
		userAgent: userAgent,
	}, nil
}

func pickHTTPClient(custom *http.Client, timeout time.Duration) *http.Client {
	if custom != nil {
		return custom
	}
	return &http.Client{Timeout: timeout}
}
