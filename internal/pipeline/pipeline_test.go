package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/credence/internal/article"
	"github.com/ppiankov/credence/internal/backend"
	"github.com/ppiankov/credence/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	articleURL  = "https://news.example/study"
	articleText = "The study presents results from a benchmark dataset with significant findings. However, both sides were considered."
)

type fakeFetcher struct {
	calls int32
	err   error
}

func (f *fakeFetcher) Fetch(ctx context.Context, rawURL string) (*article.Article, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return nil, f.err
	}
	return &article.Article{URL: rawURL, FinalURL: rawURL, Title: "Benchmark Study", Text: articleText}, nil
}

type fakeBackend struct {
	raw   json.RawMessage
	err   error
	calls int32
}

func (b *fakeBackend) Name() string { return "fake" }

func (b *fakeBackend) Score(ctx context.Context, req model.ScoreRequest) (json.RawMessage, error) {
	atomic.AddInt32(&b.calls, 1)
	return b.raw, b.err
}

func newTestPipeline(t *testing.T, opts ...Option) *Pipeline {
	t.Helper()
	cfg := model.DefaultConfig()
	p, err := New(cfg, opts...)
	require.NoError(t, err)
	return p
}

func TestScore_NoBackend(t *testing.T) {
	fetcher := &fakeFetcher{}
	p := newTestPipeline(t, WithFetcher(fetcher))

	res, err := p.Score(context.Background(), model.ScoreRequest{URL: articleURL})
	require.NoError(t, err)

	assert.Equal(t, ProvenanceLocal, res.Provenance)
	assert.Nil(t, res.Raw)
	resp := res.Response
	require.NotNil(t, resp)

	assert.Equal(t, articleURL, resp.URL)
	assert.Equal(t, "Benchmark Study", resp.Title)
	assert.Len(t, resp.Categories, 11)
	assert.Equal(t, 65, resp.Total)
	require.NotNil(t, resp.RFProb)
	assert.InDelta(t, 0.61, *resp.RFProb, 1e-9)
	require.NotNil(t, resp.Classification)
	assert.True(t, *resp.Classification)
	assert.Equal(t, model.LabelTrue, resp.ClassificationLabel)
	assert.Equal(t, ModelVersionFallback, resp.ModelVersion)
	assert.Equal(t, NoteNoBackend, resp.Notes)
	assert.Equal(t, "none", p.BackendName())
}

func TestScore_BackendSuccess(t *testing.T) {
	body := json.RawMessage(`{"url":"https://news.example/study","total":90,"modelVersion":"rf-v3"}`)
	fetcher := &fakeFetcher{}
	b := &fakeBackend{raw: body}
	p := newTestPipeline(t, WithFetcher(fetcher), WithBackend(b))

	res, err := p.Score(context.Background(), model.ScoreRequest{URL: articleURL})
	require.NoError(t, err)

	assert.Equal(t, ProvenanceExternal, res.Provenance)
	assert.Equal(t, string(body), string(res.Raw))
	assert.Nil(t, res.Response)
	assert.Equal(t, int32(0), atomic.LoadInt32(&fetcher.calls), "no local fetch when the backend answers")
}

func TestScore_BackendWithoutModelVersion(t *testing.T) {
	b := &fakeBackend{raw: json.RawMessage(`{"url":"https://news.example/study","total":90}`)}
	p := newTestPipeline(t, WithFetcher(&fakeFetcher{}), WithBackend(b))

	res, err := p.Score(context.Background(), model.ScoreRequest{URL: articleURL})
	require.NoError(t, err)

	var resp model.ScoreResponse
	require.NoError(t, json.Unmarshal(res.Raw, &resp))
	assert.Equal(t, ModelVersionExternal, resp.ModelVersion)
	assert.Equal(t, 90, resp.Total)
}

func TestScore_BackendFailureFallsBack(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	b := &fakeBackend{err: &backend.StatusError{StatusCode: http.StatusServiceUnavailable}}
	p := newTestPipeline(t, WithFetcher(&fakeFetcher{}), WithBackend(b), WithLogger(logger))

	res, err := p.Score(context.Background(), model.ScoreRequest{URL: articleURL})
	require.NoError(t, err)

	assert.Equal(t, ProvenanceLocal, res.Provenance)
	assert.Equal(t, ModelVersionFallback, res.Response.ModelVersion)
	assert.Equal(t, NoteBackendFailed, res.Response.Notes)
	assert.Equal(t, 65, res.Response.Total)
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "backend=fake")
}

func TestScore_HTTPBackend503(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cfg := model.DefaultConfig()
	cfg.Backend.URL = server.URL
	p, err := New(cfg, WithFetcher(&fakeFetcher{}), WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	require.NoError(t, err)
	assert.Equal(t, model.BackendHTTP, p.BackendName())

	res, err := p.Score(context.Background(), model.ScoreRequest{URL: articleURL})
	require.NoError(t, err)
	assert.Equal(t, ModelVersionFallback, res.Response.ModelVersion)
	assert.NotEmpty(t, res.Response.Notes)
}

func TestScore_BackendTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	cfg := model.DefaultConfig()
	cfg.Backend.URL = server.URL
	cfg.Backend.Timeout = 50 * time.Millisecond
	p, err := New(cfg, WithFetcher(&fakeFetcher{}), WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	require.NoError(t, err)

	res, err := p.Score(context.Background(), model.ScoreRequest{URL: articleURL})
	require.NoError(t, err)
	assert.Equal(t, NoteBackendFailed, res.Response.Notes)
}

func TestScore_FetchFailure(t *testing.T) {
	fetcher := &fakeFetcher{err: &article.FetchError{URL: articleURL, StatusCode: http.StatusNotFound}}
	p := newTestPipeline(t, WithFetcher(fetcher))

	_, err := p.Score(context.Background(), model.ScoreRequest{URL: articleURL})
	require.Error(t, err)
	assert.ErrorIs(t, err, article.ErrFetchFailed)
	assert.False(t, errors.Is(err, ErrBadRequest))
}

func TestScore_BadRequest(t *testing.T) {
	fetcher := &fakeFetcher{}
	b := &fakeBackend{raw: json.RawMessage(`{}`)}
	p := newTestPipeline(t, WithFetcher(fetcher), WithBackend(b))

	for _, raw := range []string{"", "not a url", "/relative/path", "ftp://files.example/a", "mailto:editor@news.example", "http://"} {
		_, err := p.Score(context.Background(), model.ScoreRequest{URL: raw})
		assert.ErrorIs(t, err, ErrBadRequest, raw)
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&b.calls))
	assert.Equal(t, int32(0), atomic.LoadInt32(&fetcher.calls))
}

func TestScore_Idempotent(t *testing.T) {
	p := newTestPipeline(t, WithFetcher(&fakeFetcher{}))

	first, err := p.Score(context.Background(), model.ScoreRequest{URL: articleURL})
	require.NoError(t, err)
	second, err := p.Score(context.Background(), model.ScoreRequest{URL: articleURL})
	require.NoError(t, err)

	assert.Equal(t, first.Response, second.Response)
}

func TestNew_InvalidBackend(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Backend.Kind = "carrier-pigeon"

	_, err := New(cfg)
	assert.Error(t, err)
}

func TestResult_Body(t *testing.T) {
	raw := json.RawMessage(`{"total":1}`)
	body, err := (&Result{Raw: raw}).Body()
	require.NoError(t, err)
	assert.Equal(t, `{"total":1}`, string(body))

	body, err = (&Result{Response: &model.ScoreResponse{URL: "u", Categories: []model.ScoreCategory{}}}).Body()
	require.NoError(t, err)
	assert.JSONEq(t, `{"url":"u","categories":[],"total":0}`, string(body))
}

func TestTagExternal(t *testing.T) {
	assert.Equal(t, `[1,2]`, string(tagExternal(json.RawMessage(`[1,2]`))))
	assert.Equal(t, `{"modelVersion":"x"}`, string(tagExternal(json.RawMessage(`{"modelVersion":"x"}`))))
	assert.JSONEq(t, `{"total":3,"modelVersion":"python-external"}`, string(tagExternal(json.RawMessage(`{"total":3}`))))
}
