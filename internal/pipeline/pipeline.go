// Package pipeline orchestrates one scoring request: delegate to the external
// backend when configured, otherwise (or on its failure) fetch the article and
// score it locally.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/ppiankov/credence/internal/article"
	"github.com/ppiankov/credence/internal/backend"
	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/score"
)

// ErrBadRequest is returned for a missing or malformed article URL
var ErrBadRequest = errors.New("bad request")

// Provenance of a response
const (
	ProvenanceExternal = "external"
	ProvenanceLocal    = "local-fallback"
)

// Model version tags
const (
	ModelVersionFallback = "heuristic-fallback"
	ModelVersionExternal = "python-external"
)

// Notes attached to locally scored responses
const (
	NoteNoBackend     = "No external scoring backend configured; used local heuristic."
	NoteBackendFailed = "External scoring backend unavailable; used local heuristic."
)

// Fetcher retrieves normalized article content
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*article.Article, error)
}

// Result is a complete scoring outcome. Exactly one of Raw and Response is set.
type Result struct {
	Raw        json.RawMessage      // External backend body, relayed unchanged
	Response   *model.ScoreResponse // Locally computed response
	Provenance string
}

// Body returns the JSON encoding of the result
func (r *Result) Body() ([]byte, error) {
	if r.Raw != nil {
		return r.Raw, nil
	}
	return json.Marshal(r.Response)
}

// Pipeline scores articles. It holds no per-request state and is safe for
// concurrent use.
type Pipeline struct {
	backend        backend.Backend
	fetcher        Fetcher
	engine         *score.Engine
	logger         *slog.Logger
	backendTimeout time.Duration
	fetchTimeout   time.Duration
}

// Option overrides a Pipeline collaborator
type Option func(*Pipeline)

// WithBackend replaces the configured backend; nil disables delegation
func WithBackend(b backend.Backend) Option {
	return func(p *Pipeline) { p.backend = b }
}

// WithFetcher replaces the article fetcher
func WithFetcher(f Fetcher) Option {
	return func(p *Pipeline) { p.fetcher = f }
}

// WithEngine replaces the metric engine
func WithEngine(e *score.Engine) Option {
	return func(p *Pipeline) { p.engine = e }
}

// WithLogger sets the logger used for delegation warnings
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// New creates a pipeline from cfg. The backend is chosen here, once, from
// cfg.Backend.
func New(cfg *model.Config, opts ...Option) (*Pipeline, error) {
	fetcher := article.NewFetcherFromConfig(cfg.HTTP, cfg.Cache)

	b, err := backend.New(cfg.Backend, nil, fetcher)
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	p := &Pipeline{
		backend:        b,
		fetcher:        fetcher,
		engine:         score.NewDefaultEngine(cfg.Lexicon),
		logger:         slog.Default(),
		backendTimeout: cfg.Backend.Timeout,
		fetchTimeout:   cfg.HTTP.Timeout,
	}

	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// BackendName reports the active backend kind, or "none"
func (p *Pipeline) BackendName() string {
	if p.backend == nil {
		return "none"
	}
	return p.backend.Name()
}

// Score produces a response for req
func (p *Pipeline) Score(ctx context.Context, req model.ScoreRequest) (*Result, error) {
	if err := validateURL(req.URL); err != nil {
		return nil, err
	}

	note := NoteNoBackend
	if p.backend != nil {
		raw, err := p.delegate(ctx, req)
		if err == nil {
			return &Result{Raw: raw, Provenance: ProvenanceExternal}, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		p.logger.Warn("scoring backend failed, using local heuristic",
			"backend", p.backend.Name(),
			"url", req.URL,
			"error", err)
		note = NoteBackendFailed
	}

	resp, err := p.scoreLocally(ctx, req.URL)
	if err != nil {
		return nil, err
	}
	resp.ModelVersion = ModelVersionFallback
	resp.Notes = note

	return &Result{Response: resp, Provenance: ProvenanceLocal}, nil
}

func (p *Pipeline) delegate(ctx context.Context, req model.ScoreRequest) (json.RawMessage, error) {
	if p.backendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.backendTimeout)
		defer cancel()
	}

	raw, err := p.backend.Score(ctx, req)
	if err != nil {
		return nil, err
	}
	return tagExternal(raw), nil
}

func (p *Pipeline) scoreLocally(ctx context.Context, rawURL string) (*model.ScoreResponse, error) {
	if p.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.fetchTimeout)
		defer cancel()
	}

	a, err := p.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("score %s: %w", rawURL, err)
	}

	metrics := p.engine.Evaluate(a.Text)
	return score.Aggregate(metrics).Response(rawURL, a.Title), nil
}

// tagExternal adds the external model version to a backend object that
// carries none. Anything else is relayed byte for byte.
func tagExternal(raw json.RawMessage) json.RawMessage {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return raw
	}
	if _, ok := fields["modelVersion"]; ok {
		return raw
	}

	fields["modelVersion"], _ = json.Marshal(ModelVersionExternal)
	tagged, err := json.Marshal(fields)
	if err != nil {
		return raw
	}
	return tagged
}

func validateURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("%w: missing 'url'", ErrBadRequest)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: invalid 'url': %v", ErrBadRequest, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: 'url' must be an absolute http or https URL", ErrBadRequest)
	}
	return nil
}
