package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	slogcontext "github.com/veqryn/slog-context"

	"bom-yield/internal/catalog"
	"bom-yield/internal/yield"
)

// MaxBundlesResponse is the body of GET /maxBundles.
type MaxBundlesResponse struct {
	Bundle     string         `json:"bundle"`
	Strategy   yield.Strategy `json:"strategy"`
	MaxBundles int            `json:"maxBundles"`
	Warnings   []string       `json:"warnings,omitempty"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) strategy(c *gin.Context) (yield.Strategy, bool) {
	name := c.Query("strategy")
	if name == "" {
		return s.opts.Strategy, true
	}

	st, err := yield.ParseStrategy(name)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return st, false
	}

	return st, true
}

func (s *Server) handleMaxBundles(c *gin.Context) {
	st, ok := s.strategy(c)
	if !ok {
		return
	}

	bundle := c.DefaultQuery("bundle", s.opts.DefaultBundle)
	ctx := slogcontext.With(c.Request.Context(), "bundle", bundle, "strategy", st.String())
	start := time.Now()

	cat, _, err := s.source.LoadCatalog(ctx)
	if err != nil {
		s.fail(c, st, err)
		return
	}

	res, err := yield.New(cat, yield.WithStrategy(st)).Resolve(ctx, catalog.ID(bundle))
	s.metrics.resolutionDuration.WithLabelValues(st.String()).Observe(time.Since(start).Seconds())

	if err != nil {
		s.fail(c, st, err)
		return
	}

	s.observe(res)

	resp := MaxBundlesResponse{Bundle: bundle, Strategy: st, MaxBundles: res.Units}
	for _, w := range res.Diagnostics.Warnings {
		resp.Warnings = append(resp.Warnings, w.String())
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleBundles(c *gin.Context) {
	st, ok := s.strategy(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	start := time.Now()

	cat, _, err := s.source.LoadCatalog(ctx)
	if err != nil {
		s.fail(c, st, err)
		return
	}

	results, err := yield.MaxBuildableAll(ctx, cat, cat.BundleIDs(), yield.WithStrategy(st))
	s.metrics.resolutionDuration.WithLabelValues(st.String()).Observe(time.Since(start).Seconds())

	if err != nil {
		s.fail(c, st, err)
		return
	}

	for _, res := range results {
		s.observe(res)
	}

	summary := yield.Summarize(results)
	summary.Strategy = st

	c.JSON(http.StatusOK, summary)
}

func (s *Server) handleHealth(c *gin.Context) {
	if p, ok := s.source.(pinger); ok {
		if err := p.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) observe(res *yield.Result) {
	st := res.Strategy.String()

	s.metrics.resolutionsTotal.WithLabelValues(st, "ok").Inc()
	s.metrics.lastYield.WithLabelValues(string(res.Target), st).Set(float64(res.Units))

	for _, w := range res.Diagnostics.Warnings {
		s.metrics.warningsTotal.WithLabelValues(w.Code).Inc()
	}
}

func (s *Server) fail(c *gin.Context, st yield.Strategy, err error) {
	code := statusFor(err)

	s.metrics.resolutionsTotal.WithLabelValues(st.String(), strconv.Itoa(code)).Inc()
	slogcontext.FromCtx(c.Request.Context()).Error("resolution failed", "error", err, "status", code)

	c.JSON(code, ErrorResponse{Error: err.Error()})
}
