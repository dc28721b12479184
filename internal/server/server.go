// Package server exposes catalog resolution over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	slogcontext "github.com/veqryn/slog-context"

	"bom-yield/internal/catalog"
	"bom-yield/internal/yield"
)

// Options configures a Server.
type Options struct {
	// DefaultBundle is resolved when a request names no bundle.
	DefaultBundle string
	// Strategy is used when a request names no strategy.
	Strategy yield.Strategy
	DevMode  bool
	Logger   *slog.Logger
}

// Server is the HTTP front end.
type Server struct {
	router  *gin.Engine
	source  Source
	opts    Options
	metrics *metrics
}

// New creates a server reading catalogs from src.
func New(src Source, opts Options) *Server {
	if !opts.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.DefaultBundle == "" {
		opts.DefaultBundle = "1"
	}

	s := &Server{
		router:  gin.New(),
		source:  src,
		opts:    opts,
		metrics: newMetrics(),
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(gin.Recovery(), s.requestLogger())

	s.router.GET("/maxBundles", s.handleMaxBundles)
	s.router.GET("/bundles", s.handleBundles)
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})))
}

// requestLogger stores a request-scoped logger in the request context.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		ctx := slogcontext.NewCtx(c.Request.Context(), s.opts.Logger)
		ctx = slogcontext.With(ctx, "method", c.Request.Method, "path", c.Request.URL.Path)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		slogcontext.FromCtx(ctx).Info("request",
			"status", c.Writer.Status(), "duration", time.Since(start))
	}
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		s.opts.Logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// statusFor maps resolution errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrUnknownTarget):
		return http.StatusNotFound
	case errors.Is(err, catalog.ErrCyclicDependency):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
