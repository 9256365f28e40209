// Package server exposes the export pipeline over HTTP: a JSON trigger
// endpoint, a health check, Prometheus exposition and a stats snapshot
// consumed by the monitor dashboard.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/docforge/internal/logging"
	"github.com/fyrsmithlabs/docforge/internal/workflow"
)

// Executor runs one export pipeline. Satisfied by *workflow.Controller.
type Executor interface {
	Execute(ctx context.Context, req workflow.Request) (*workflow.Result, error)
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
}

// Server serves the docforge HTTP API.
type Server struct {
	echo     *echo.Echo
	executor Executor
	stats    *Stats
	metrics  *Metrics
	logger   *logging.Logger
	config   Config
}

// New creates an HTTP server around an executor.
func New(executor Executor, logger *logging.Logger, cfg Config) (*Server, error) {
	if executor == nil {
		return nil, fmt.Errorf("executor is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:     e,
		executor: executor,
		stats:    NewStats(),
		metrics:  NewMetrics(),
		logger:   logger.Named("server"),
		config:   cfg,
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(s.requestLogger())
	e.Use(s.metrics.Middleware())

	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.echo.Group("/api/v1")
	v1.POST("/exports", s.handleExport)
	v1.GET("/stats", s.handleStats)
}

// requestLogger logs each request with its assigned request ID, which
// also flows into the pipeline's log context.
func (s *Server) requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			s.logger.Info(c.Request().Context(), "http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return err
		}
	}
}

// ExportRequest is the request body for POST /api/v1/exports.
type ExportRequest struct {
	Text        string `json:"text"`
	Instruction string `json:"instruction"`
	Name        string `json:"name,omitempty"`
	Preset      string `json:"preset,omitempty"`

	// Clean runs the conversational-wrapper cleaner over the text
	// before rendering. Meant for chat transcripts.
	Clean bool `json:"clean,omitempty"`
}

// ExportFailure is one recorded stage degradation.
type ExportFailure struct {
	Stage    string `json:"stage"`
	Kind     string `json:"kind"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// ExportResponse is the response body for POST /api/v1/exports.
type ExportResponse struct {
	RunID        string          `json:"run_id"`
	ArtifactPath string          `json:"artifact_path"`
	DocumentKind string          `json:"document_kind"`
	ExportIntent bool            `json:"export_intent"`
	Failures     []ExportFailure `json:"failures"`
	DurationMS   float64         `json:"duration_ms"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// handleExport runs one pipeline invocation. Only a render failure
// produces a non-200 answer; degraded stages are reported inline.
func (s *Server) handleExport(c echo.Context) error {
	var req ExportRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn(c.Request().Context(), "invalid export request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "text field is required")
	}
	if req.Instruction == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "instruction field is required")
	}

	ctx := c.Request().Context()
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		ctx = logging.WithRequestID(ctx, id)
	}

	start := time.Now()
	result, err := s.executor.Execute(ctx, workflow.Request{
		SourceText:  req.Text,
		Instruction: req.Instruction,
		CleanSource: req.Clean,
		Preset:      req.Preset,
		BaseName:    req.Name,
	})
	s.stats.Record(result, err)
	s.metrics.ObserveExport(result, err, time.Since(start))

	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError,
			fmt.Sprintf("export failed: %v", err))
	}

	return c.JSON(http.StatusOK, exportResponse(result))
}

func exportResponse(result *workflow.Result) ExportResponse {
	failures := make([]ExportFailure, 0, len(result.Failures))
	for _, f := range result.Failures {
		failures = append(failures, ExportFailure{
			Stage:    string(f.Stage),
			Kind:     string(f.Kind),
			Severity: string(f.Severity()),
			Message:  f.Error(),
		})
	}
	return ExportResponse{
		RunID:        result.RunID,
		ArtifactPath: result.ArtifactPath,
		DocumentKind: result.Kind.String(),
		ExportIntent: result.ExportIntent,
		Failures:     failures,
		DurationMS:   float64(result.Duration.Milliseconds()),
	}
}

func (s *Server) handleStats(c echo.Context) error {
	return c.JSON(http.StatusOK, s.stats.Snapshot())
}

// Start starts the HTTP server and blocks until Shutdown.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info(context.Background(), "starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "shutting down http server")
	return s.echo.Shutdown(ctx)
}
