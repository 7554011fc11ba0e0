package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/credence/internal/logging"
	"github.com/ppiankov/credence/internal/pipeline"
	"github.com/ppiankov/credence/internal/server"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the scoring HTTP API",
	Long: `Serve exposes the scoring pipeline over HTTP:

  POST /api/score   {"url": "<article url>"} -> score response
  GET  /healthz     liveness and active backend

Example:
  credence serve --addr :8080
  PYTHON_API_URL=http://localhost:8000/score credence serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", ":8080", "listen address")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := logging.SetDefault(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	gin.SetMode(gin.ReleaseMode)

	p, err := pipeline.New(cfg, pipeline.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}
	logger.Info("scoring pipeline ready", "backend", p.BackendName())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Run(ctx, cfg.Server, server.NewRouter(p, cfg.Server, logger), logger)
}
