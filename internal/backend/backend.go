// Package backend delegates scoring to an external service. Every failure
// matches ErrDelegation so callers can fall back to the local heuristic.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ppiankov/credence/internal/article"
	"github.com/ppiankov/credence/internal/model"
)

// ErrDelegation is matched by every backend failure
var ErrDelegation = errors.New("scoring backend delegation failed")

// Backend produces a complete score response for a request
type Backend interface {
	// Name identifies the backend kind in logs and health output
	Name() string

	// Score returns the response body, already valid JSON in the ScoreResponse shape
	Score(ctx context.Context, req model.ScoreRequest) (json.RawMessage, error)
}

// Doer performs HTTP requests; *http.Client satisfies it
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ArticleSource fetches and normalizes article pages
type ArticleSource interface {
	Fetch(ctx context.Context, rawURL string) (*article.Article, error)
}

// StatusError reports a non-2xx answer from the backend
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Body)
}

// Is makes errors.Is(err, ErrDelegation) true for any StatusError
func (e *StatusError) Is(target error) bool { return target == ErrDelegation }

func delegationError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDelegation, op, err)
}

// New creates the backend selected by cfg. It returns nil, nil when no
// backend is configured.
func New(cfg model.BackendConfig, client Doer, articles ArticleSource) (Backend, error) {
	kind := strings.ToLower(cfg.EffectiveKind())

	switch kind {
	case model.BackendHTTP:
		if client == nil {
			client = &http.Client{}
		}
		return NewHTTPBackend(client, cfg.URL)

	case model.BackendOpenAI:
		return NewOpenAIBackend(cfg, articles)

	case model.BackendNone:
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown backend kind: %s (supported: http, openai)", cfg.Kind)
	}
}
