package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ppiankov/credence/internal/logging"
	"github.com/ppiankov/credence/internal/pipeline"
	"github.com/ppiankov/credence/internal/score"
	"github.com/ppiankov/credence/internal/worker"
)

const maxFilenameLen = 80

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Score multiple URLs from a file in parallel",
	Long: `Batch scores every URL listed in a file (one per line, # for comments).
Each URL is an independent request through the same pipeline as the API.

Example:
  credence batch urls.txt
  credence batch urls.txt --concurrency 8 --output-dir ./scores`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "", "write one JSON response per URL into this directory")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for the batch")
}

func runBatch(cmd *cobra.Command, args []string) error {
	urls, err := worker.ReadURLsFromFile(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := logging.New(cfg.Log.Level, logging.FormatCLI, os.Stderr)

	p, err := pipeline.New(cfg, pipeline.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}

	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	logger.Info("batch started", "urls", len(urls), "workers", concurrency, "backend", p.BackendName())
	results := worker.NewBatchProcessor(p, concurrency).ProcessURLs(ctx, urls)

	if outputDir != "" {
		for _, r := range results {
			if r.Error != nil {
				continue
			}
			if err := writeResult(outputDir, r); err != nil {
				logger.Error("write result", "url", r.URL, "error", err)
			}
		}
	}

	return renderBatch(cmd.OutOrStdout(), results)
}

// writeResult stores one response as <n>-<slug>.json
func writeResult(dir string, r *worker.ScoreResult) error {
	body, err := r.Result.Body()
	if err != nil {
		return err
	}

	name := score.Slug(r.URL)
	if len(name) > maxFilenameLen {
		name = name[:maxFilenameLen]
	}
	path := filepath.Join(dir, fmt.Sprintf("%03d-%s.json", r.Index+1, name))

	return os.WriteFile(path, body, 0644)
}

// renderBatch prints one row per URL and a success/failure summary
func renderBatch(w io.Writer, results []*worker.ScoreResult) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "URL", "Total", "Label", "Source"})

	red := color.New(color.FgRed).SprintFunc()

	var data [][]string
	failures := 0
	for _, r := range results {
		row := []string{strconv.Itoa(r.Index + 1), r.URL}
		if r.Error != nil {
			failures++
			row = append(row, "-", red("error"), red(r.Error.Error()))
			data = append(data, row)
			continue
		}

		total, label := "-", "-"
		if body, err := r.Result.Body(); err == nil {
			var resp struct {
				Total               int    `json:"total"`
				ClassificationLabel string `json:"classificationLabel"`
			}
			if json.Unmarshal(body, &resp) == nil {
				total = strconv.Itoa(resp.Total)
				label = resp.ClassificationLabel
			}
		}
		data = append(data, append(row, total, label, r.Result.Provenance))
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nScored: %d  Failed: %d  Total: %d\n", len(results)-failures, failures, len(results))
	return nil
}
