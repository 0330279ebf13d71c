// Package api serves the task snapshot and configuration over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/twiced-technology-gmbh/taskwatch/internal/config"
	"github.com/twiced-technology-gmbh/taskwatch/internal/poll"
)

const shutdownTimeout = 5 * time.Second

// Engine is the part of the poll engine the handlers use.
type Engine interface {
	Cycle() uint64
	Snapshot() poll.Snapshot
	Status() poll.Status
	Reset(dir string, interval time.Duration)
}

// ConfigStore persists the application config.
type ConfigStore interface {
	Load() config.Config
	Update(fn func(*config.Config) error) (config.Config, error)
}

// Options configures a Server.
type Options struct {
	Engine Engine
	Store  ConfigStore
	Logger *slog.Logger
	// Gatherer backs /metrics. Nil means prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
	// CORSOrigins lists the browser origins allowed to call the API.
	CORSOrigins []string
	// Now is the clock used for envelope timestamps.
	Now func() time.Time
}

// Server is the HTTP API.
type Server struct {
	engine Engine
	store  ConfigStore
	logger *slog.Logger
	now    func() time.Time
	router *gin.Engine
}

// New creates a Server with all routes registered.
func New(opts Options) *Server {
	s := &Server{
		engine: opts.Engine,
		store:  opts.Store,
		logger: opts.Logger,
		now:    opts.Now,
		router: gin.New(),
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.now == nil {
		s.now = time.Now
	}
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{config.DefaultCORSOrigin}
	}

	s.router.Use(s.requestLogger())
	s.router.Use(gin.CustomRecovery(s.recover))
	s.router.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}))

	api := s.router.Group("/api")
	{
		api.GET("/tasks", s.handleTasks)
		api.GET("/sequences", s.handleSequences)
		api.GET("/status", s.handleStatus)
		api.GET("/config", s.handleGetConfig)
		api.POST("/config/directory", s.handleSetDirectory)
	}
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	s.router.NoRoute(s.handleNotFound)

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("http server shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	}
}

// requestLogger logs each request at debug level, errors at warn.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelDebug
		if status >= http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		s.logger.Log(c.Request.Context(), level, "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start),
		)
	}
}
