package worker

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/pipeline"
)

// Scorer scores a single article request
type Scorer interface {
	Score(ctx context.Context, req model.ScoreRequest) (*pipeline.Result, error)
}

// ScoreJob scores one URL
type ScoreJob struct {
	Index  int
	URL    string
	Scorer Scorer
}

// Execute executes the score job
func (j *ScoreJob) Execute(ctx context.Context) Result {
	res, err := j.Scorer.Score(ctx, model.ScoreRequest{URL: j.URL})
	return &ScoreResult{
		Index:  j.Index,
		URL:    j.URL,
		Result: res,
		Error:  err,
	}
}

// ScoreResult is the outcome for one URL of a batch
type ScoreResult struct {
	Index  int
	URL    string
	Result *pipeline.Result
	Error  error
}

// GetError returns the error from the score result
func (r *ScoreResult) GetError() error {
	return r.Error
}

// BatchProcessor scores multiple URLs concurrently
type BatchProcessor struct {
	scorer      Scorer
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(scorer Scorer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		scorer:      scorer,
		concurrency: concurrency,
	}
}

// ProcessURLs scores every URL and returns the results in input order.
// URLs not reached before ctx is done are reported with ctx's error.
func (b *BatchProcessor) ProcessURLs(ctx context.Context, urls []string) []*ScoreResult {
	if len(urls) == 0 {
		return []*ScoreResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()
	defer pool.Shutdown()

	go func() {
		defer pool.Close()
		for i, url := range urls {
			if !pool.Submit(&ScoreJob{Index: i, URL: url, Scorer: b.scorer}) {
				return
			}
		}
	}()

	results := make([]*ScoreResult, len(urls))
	for r := range pool.Results() {
		sr := r.(*ScoreResult)
		results[sr.Index] = sr
	}

	for i, r := range results {
		if r == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			results[i] = &ScoreResult{Index: i, URL: urls[i], Error: err}
		}
	}

	return results
}

// ReadURLsFromFile reads URLs from a file (one per line)
func ReadURLsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return ReadURLs(file)
}

// ReadURLs reads one URL per line, skipping blanks, # comments and duplicates
func ReadURLs(r io.Reader) ([]string, error) {
	var urls []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			urls = append(urls, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return urls, nil
}
