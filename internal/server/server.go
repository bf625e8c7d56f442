// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes trend searches over HTTP: a blocking JSON endpoint,
// a WebSocket stream that pushes the series after every observation, and
// Prometheus metrics.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pdiddy/research-trends/internal/scale"
	"github.com/pdiddy/research-trends/internal/schedule"
	"github.com/pdiddy/research-trends/internal/trend"
	"github.com/pdiddy/research-trends/internal/validate"
)

const shutdownTimeout = 10 * time.Second

// Server routes trend requests to per-request or per-connection sessions
// sharing one scheduler.
type Server struct {
	sched   *schedule.Scheduler
	palette scale.Palette
	engine  *gin.Engine
}

// New builds the router and installs a logging OnError hook on sched.
// Query failures never fail a request.
func New(sched *schedule.Scheduler, palette scale.Palette) *Server {
	sched.OnError = func(qe *schedule.QueryError) {
		slog.Warn("count query failed", "year", qe.Year, "position", qe.Position, "kind", qe.Kind.String(), "error", qe.Err)
	}

	s := &Server{sched: sched, palette: palette}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/healthz", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	v1.GET("/trend", s.handleTrend)
	v1.GET("/trend/stream", s.handleStream)

	s.engine = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		slog.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.New().String()
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()

		slog.Info("request",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

// HealthResponse is returned by /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// WarningResponse carries a validation warning for the form.
type WarningResponse struct {
	Warning string `json:"warning"`
	Kind    string `json:"kind"`
}

func warningFor(err error) (WarningResponse, bool) {
	var ve *validate.ValidationError
	if !errors.As(err, &ve) {
		return WarningResponse{}, false
	}
	return WarningResponse{Warning: ve.Error(), Kind: ve.Kind.String()}, true
}

// handleTrend runs one search to completion and returns its report.
func (s *Server) handleTrend(c *gin.Context) {
	session := trend.NewSession(s.sched, s.palette)
	defer session.Close()

	run, err := session.Submit(c.Request.Context(), c.Query("start"), c.Query("finish"), c.Query("term"))
	if err != nil {
		if w, ok := warningFor(err); ok {
			c.JSON(http.StatusBadRequest, w)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, run.Wait())
}
