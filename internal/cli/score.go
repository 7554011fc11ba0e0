package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/credence/internal/logging"
	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/pipeline"
)

var (
	scoreFormat  string
	scoreTimeout time.Duration
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score <url>",
	Short: "Score a single article URL",
	Long: `Score runs the same pipeline as the HTTP API once and prints the result.

Example:
  credence score https://example.com/news/story
  credence score https://example.com/news/story --format json
  credence score https://example.com/news/story --backend-url http://localhost:8000/score`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringVarP(&scoreFormat, "format", "f", formatTable, "output format (table, json, yaml)")
	scoreCmd.Flags().DurationVar(&scoreTimeout, "timeout", time.Minute, "overall timeout")
	scoreCmd.Flags().Bool("cache", false, "cache fetched articles in memory")
	scoreCmd.Flags().Bool("respect-robots", false, "refuse URLs disallowed by robots.txt")
	_ = viper.BindPFlag("cache.enabled", scoreCmd.Flags().Lookup("cache"))
	_ = viper.BindPFlag("http.respect_robots", scoreCmd.Flags().Lookup("respect-robots"))
}

func runScore(cmd *cobra.Command, args []string) error {
	if err := validateFormat(scoreFormat); err != nil {
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

	ctx, cancel := context.WithTimeout(context.Background(), scoreTimeout)
	defer cancel()

	logger.Debug("scoring", "url", args[0], "backend", p.BackendName())
	result, err := p.Score(ctx, model.ScoreRequest{URL: args[0]})
	if err != nil {
		return fmt.Errorf("score failed: %w", err)
	}

	return render(cmd.OutOrStdout(), result, scoreFormat)
}
