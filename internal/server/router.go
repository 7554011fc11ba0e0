// Package server exposes the scoring pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ppiankov/credence/internal/article"
	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/pipeline"
)

const (
	headerRequestID  = "X-Request-ID"
	headerProvenance = "X-Score-Provenance"
	maxRequestBytes  = 1 << 20
)

// Caller-visible error messages
const (
	msgMissingURL  = "Missing 'url'"
	msgInvalidURL  = "Invalid 'url'"
	msgFetchFailed = "Failed to fetch article URL"
	msgUnexpected  = "Unexpected error"
)

// Scorer produces scoring results; *pipeline.Pipeline satisfies it
type Scorer interface {
	Score(ctx context.Context, req model.ScoreRequest) (*pipeline.Result, error)
	BackendName() string
}

type scoreBody struct {
	URL string `json:"url" binding:"required"`
}

type handler struct {
	scorer Scorer
	logger *slog.Logger
}

// NewRouter builds the gin engine serving the API
func NewRouter(scorer Scorer, cfg model.ServerConfig, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	router.Use(
		requestID(),
		requestLogger(logger),
		gin.CustomRecoveryWithWriter(io.Discard, recoverPanic(logger)),
		cors.New(corsConfig(cfg.AllowOrigins)),
	)

	h := &handler{scorer: scorer, logger: logger}
	router.GET("/healthz", h.health)

	api := router.Group("/api")
	api.POST("/score", h.score)

	return router
}

func (h *handler) score(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBytes)

	var body scoreBody
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, http.StatusBadRequest, msgMissingURL)
		return
	}

	res, err := h.scorer.Score(c.Request.Context(), model.ScoreRequest{URL: body.URL})
	switch {
	case errors.Is(err, pipeline.ErrBadRequest):
		writeError(c, http.StatusBadRequest, msgInvalidURL)
		return
	case errors.Is(err, article.ErrFetchFailed):
		h.logger.Warn("article fetch failed", "url", body.URL, "error", err, "request_id", c.GetString("request_id"))
		writeError(c, http.StatusBadGateway, msgFetchFailed)
		return
	case err != nil:
		h.logger.Error("score request failed", "url", body.URL, "error", err, "request_id", c.GetString("request_id"))
		writeError(c, http.StatusInternalServerError, msgUnexpected)
		return
	}

	out, err := res.Body()
	if err != nil {
		h.logger.Error("encode response", "error", err, "request_id", c.GetString("request_id"))
		writeError(c, http.StatusInternalServerError, msgUnexpected)
		return
	}

	c.Header(headerProvenance, res.Provenance)
	c.Data(http.StatusOK, "application/json; charset=utf-8", out)
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"backend": h.scorer.BackendName(),
	})
}

func writeError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// requestID tags every request and response with an id, reusing the caller's
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", c.GetString("request_id"))
	}
}

func recoverPanic(logger *slog.Logger) gin.RecoveryFunc {
	return func(c *gin.Context, recovered any) {
		logger.Error("panic in handler",
			"panic", recovered,
			"path", c.Request.URL.Path,
			"request_id", c.GetString("request_id"))
		writeError(c, http.StatusInternalServerError, msgUnexpected)
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", headerRequestID},
		ExposeHeaders: []string{"Content-Length", headerRequestID, headerProvenance},
		MaxAge:        12 * time.Hour,
	}

	all := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			all = true
		}
	}
	if all {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
