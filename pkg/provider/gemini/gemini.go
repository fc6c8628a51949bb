package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rhuss/healthchat/pkg/debug"
	"github.com/rhuss/healthchat/pkg/provider"
)

// maxResponseSize bounds the size of a decoded success body.
const maxResponseSize = 8 << 20

// Provider implements provider.Provider for the Gemini generateContent API.
type Provider struct {
	cfg    Config
	client *http.Client
}

// Ensure Provider implements provider.Provider at compile time.
var _ provider.Provider = (*Provider)(nil)

// New creates a new Provider with the given configuration.
// Returns an error if the configuration is invalid.
func New(cfg Config) (*Provider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("gemini: invalid BaseURL: %w", err)
	}

	// Normalize: remove trailing slash from base URL.
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{
			Timeout: cfg.Timeout,
		}
	}

	return &Provider{
		cfg:    cfg,
		client: client,
	}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return "gemini"
}

// Model returns the configured model identifier.
func (p *Provider) Model() string {
	return p.cfg.Model
}

// Endpoint returns the generateContent URL without credentials.
func (p *Provider) Endpoint() string {
	return fmt.Sprintf("%s/%s/models/%s:generateContent", p.cfg.BaseURL, p.cfg.APIVersion, p.cfg.Model)
}

// GenerateContent performs a non-streaming generateContent call.
func (p *Provider) GenerateContent(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	// Marshal request body.
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &provider.Error{Message: fmt.Sprintf("failed to marshal request: %s", err.Error()), Err: err}
	}

	// Build HTTP request. The key travels as a query parameter.
	endpoint := p.Endpoint()
	target := endpoint + "?key=" + url.QueryEscape(req.APIKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return nil, &provider.Error{Message: fmt.Sprintf("failed to create HTTP request: %s", err.Error()), Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	debug.Log(debug.Providers, "sending generateContent request",
		"url", endpoint,
		"model", p.cfg.Model,
		"contents", len(req.Contents),
	)
	debug.Raw(debug.Providers, "POST "+endpoint+"?key=REDACTED\n"+string(body))

	// Send request.
	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, mapNetworkError(err, req.APIKey)
	}
	defer httpResp.Body.Close()

	// Check for error status codes.
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, mapHTTPError(httpResp)
	}

	// Parse response.
	var resp provider.Response
	if err := json.NewDecoder(io.LimitReader(httpResp.Body, maxResponseSize)).Decode(&resp); err != nil {
		return nil, &provider.Error{
			StatusCode: httpResp.StatusCode,
			Message:    fmt.Sprintf("failed to parse provider response: %s", err.Error()),
			Err:        err,
		}
	}

	debug.Log(debug.Providers, "received generateContent response",
		"status", httpResp.StatusCode,
		"candidates", len(resp.Candidates),
	)

	return &resp, nil
}

// Close releases provider resources.
func (p *Provider) Close() error {
	p.client.CloseIdleConnections()
	return nil
}
