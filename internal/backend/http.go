package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ppiankov/credence/internal/model"
)

const (
	maxResponseBytes = 10 << 20
	maxErrorBody     = 512
)

// HTTPBackend forwards {url} to a remote scoring service and relays its answer
type HTTPBackend struct {
	client   Doer
	endpoint string
}

// NewHTTPBackend creates a backend that POSTs to endpoint
func NewHTTPBackend(client Doer, endpoint string) (*HTTPBackend, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse backend URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("backend URL must be absolute http(s): %q", endpoint)
	}

	return &HTTPBackend{
		client:   client,
		endpoint: endpoint,
	}, nil
}

// Name returns the backend kind
func (b *HTTPBackend) Name() string {
	return model.BackendHTTP
}

// Score posts the request and returns the body unchanged on a 2xx JSON answer
func (b *HTTPBackend) Score(ctx context.Context, req model.ScoreRequest) (json.RawMessage, error) {
	payload, err := json.Marshal(model.ScoreRequest{URL: req.URL})
	if err != nil {
		return nil, delegationError("encode request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, delegationError("create request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return nil, delegationError("post", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, delegationError("read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: truncate(strings.TrimSpace(string(body)), maxErrorBody)}
	}

	if !json.Valid(body) {
		return nil, delegationError("decode response", errors.New("body is not valid JSON"))
	}

	return json.RawMessage(body), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.ToValidUTF8(s[:n], "") + "..."
}
