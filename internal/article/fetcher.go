// Package article retrieves article markup over HTTP and reduces it to plain text.
package article

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ppiankov/credence/internal/cache"
	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/util"
	"golang.org/x/net/html/charset"
)

const maxRedirects = 10

var errDisallowed = errors.New("disallowed by robots.txt")

// Doer performs HTTP requests; *http.Client satisfies it
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Article is the normalized content of a fetched page
type Article struct {
	URL         string `json:"url"`
	FinalURL    string `json:"final_url"`
	Title       string `json:"title,omitempty"`
	Text        string `json:"text"`
	ContentType string `json:"content_type,omitempty"`
}

// Fetcher fetches article pages with browser-like headers
type Fetcher struct {
	client    Doer
	userAgent string
	maxBytes  int64
	cache     cache.Cache
	cacheTTL  time.Duration
	limiter   *util.Limiter
	robots    *util.RobotsChecker
}

// Option configures optional Fetcher behavior
type Option func(*Fetcher)

// WithCache serves repeated fetches of the same URL from c for ttl
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(f *Fetcher) {
		f.cache = c
		f.cacheTTL = ttl
	}
}

// WithLimiter paces requests per host
func WithLimiter(l *util.Limiter) Option {
	return func(f *Fetcher) { f.limiter = l }
}

// WithRobots refuses URLs disallowed by the host's robots.txt
func WithRobots(r *util.RobotsChecker) Option {
	return func(f *Fetcher) { f.robots = r }
}

// NewFetcher creates a Fetcher using client for all requests
func NewFetcher(client Doer, userAgent string, maxBytes int64, opts ...Option) *Fetcher {
	if userAgent == "" {
		userAgent = model.BrowserUserAgent
	}
	f := &Fetcher{
		client:    client,
		userAgent: userAgent,
		maxBytes:  maxBytes,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewFetcherFromConfig wires a Fetcher with the optional cache, limiter and robots checks
func NewFetcherFromConfig(httpCfg model.HTTPConfig, cacheCfg model.CacheConfig) *Fetcher {
	client := NewHTTPClient(httpCfg)
	userAgent := httpCfg.UserAgent
	if userAgent == "" {
		userAgent = model.BrowserUserAgent
	}

	var opts []Option
	if cacheCfg.Enabled {
		opts = append(opts, WithCache(cache.NewMemoryCache(cacheCfg.TTL, 2*cacheCfg.TTL), cacheCfg.TTL))
	}
	if httpCfg.RequestsPerSecond > 0 {
		opts = append(opts, WithLimiter(util.NewLimiter(httpCfg.RequestsPerSecond, httpCfg.Burst)))
	}
	if httpCfg.RespectRobots {
		opts = append(opts, WithRobots(util.NewRobotsChecker(client, userAgent)))
	}

	return NewFetcher(client, userAgent, httpCfg.MaxBodyBytes, opts...)
}

// NewHTTPClient builds the outbound client used for article fetches
func NewHTTPClient(cfg model.HTTPConfig) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy)
	if cfg.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for self-signed hosts
	}

	return &http.Client{
		Timeout:   cfg.Timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
}

// Fetch retrieves rawURL and returns its title and normalized text
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Article, error) {
	key := cache.CacheKey(rawURL)
	if f.cache != nil {
		if data, ok := f.cache.Get(key); ok {
			var a Article
			if err := json.Unmarshal(data, &a); err == nil {
				return &a, nil
			}
		}
	}

	if f.robots != nil {
		allowed, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, &FetchError{URL: rawURL, Err: err}
		}
		if !allowed {
			return nil, &FetchError{URL: rawURL, Err: errDisallowed}
		}
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, rawURL); err != nil {
			return nil, &FetchError{URL: rawURL, Err: fmt.Errorf("rate limit: %w", err)}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: fmt.Errorf("create request: %w", err)}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	var body io.Reader = resp.Body
	if f.maxBytes > 0 {
		body = io.LimitReader(resp.Body, f.maxBytes)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: fmt.Errorf("read body: %w", err)}
	}

	contentType := resp.Header.Get("Content-Type")
	markup := decode(raw, contentType)

	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	a := &Article{
		URL:         rawURL,
		FinalURL:    finalURL,
		Title:       ExtractTitle(markup),
		Text:        Normalize(markup),
		ContentType: contentType,
	}

	if f.cache != nil {
		if data, err := json.Marshal(a); err == nil {
			_ = f.cache.Set(key, data, f.cacheTTL)
		}
	}

	return a, nil
}

// decode converts the body to UTF-8 using the declared or sniffed charset
func decode(raw []byte, contentType string) string {
	r, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return string(raw)
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}
