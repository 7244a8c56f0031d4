// Package server exposes the reports over HTTP with a small Plotly front end.
package server

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/hledger-lit/hledger-lit/internal/flow"
	"github.com/hledger-lit/hledger-lit/internal/hledger"
	"github.com/hledger-lit/hledger-lit/internal/render"
	"github.com/hledger-lit/hledger-lit/internal/report"
)

//go:embed index.html
var indexHTML []byte

// Service handles the HTTP endpoints. Every request regenerates its report.
type Service struct {
	reports *report.Service
	log     *log.Logger
	now     func() time.Time
}

// NewService creates a Service. A nil logger uses the package default.
func NewService(reports *report.Service, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{reports: reports, log: logger, now: time.Now}
}

// Router builds the gin engine with all routes registered.
func (s *Service) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/", s.HandleIndex)
	api := r.Group("/api")
	api.GET("/history", s.HandleHistory)
	api.GET("/treemap", s.HandleTreemap)
	api.GET("/flows/income-expenses", s.HandleIncomeExpenseFlows)
	api.GET("/flows/all", s.HandleAllFlows)
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Service) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("serving", "addr", "http://"+addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

func (s *Service) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"took", time.Since(start),
		)
	}
}

// HandleIndex serves the embedded page that draws the four charts.
func (s *Service) HandleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

// HandleHistory returns the historical series.
func (s *Service) HandleHistory(c *gin.Context) {
	r, ok := s.dateRange(c)
	if !ok {
		return
	}
	h, err := s.reports.History(c.Request.Context(), r)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, render.TimeSeries(h))
}

// HandleTreemap returns the expenses treemap.
func (s *Service) HandleTreemap(c *gin.Context) {
	r, ok := s.dateRange(c)
	if !ok {
		return
	}
	items, err := s.reports.ExpenseTreemap(c.Request.Context(), r)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, render.Treemap(items))
}

// HandleIncomeExpenseFlows returns the income/expense sankey.
func (s *Service) HandleIncomeExpenseFlows(c *gin.Context) {
	s.handleFlows(c, s.reports.IncomeExpenseFlows)
}

// HandleAllFlows returns the sankey of every category.
func (s *Service) HandleAllFlows(c *gin.Context) {
	s.handleFlows(c, s.reports.AllFlows)
}

func (s *Service) handleFlows(c *gin.Context, build func(context.Context, report.Range) (flow.Graph, error)) {
	r, ok := s.dateRange(c)
	if !ok {
		return
	}
	g, err := build(c.Request.Context(), r)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, render.Sankey(g))
}

// dateRange reads begin/end (YYYY-MM-DD). Missing values fall back to the default range.
func (s *Service) dateRange(c *gin.Context) (report.Range, bool) {
	r := report.DefaultRange(s.now())
	for _, p := range []struct {
		name string
		dst  *time.Time
	}{{"begin", &r.Begin}, {"end", &r.End}} {
		v := c.Query(p.name)
		if v == "" {
			continue
		}
		t, err := time.Parse(time.DateOnly, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s date %q, want YYYY-MM-DD", p.name, v), "kind": "request"})
			return report.Range{}, false
		}
		*p.dst = t
	}
	if err := r.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "request"})
		return report.Range{}, false
	}
	return r, true
}

// writeError maps the error kinds onto status codes.
func (s *Service) writeError(c *gin.Context, err error) {
	var missing *flow.MissingParentError
	switch {
	case errors.As(err, &missing):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   err.Error(),
			"kind":    "invariant",
			"account": missing.Account,
			"parent":  missing.Parent,
		})
	case errors.Is(err, hledger.ErrInvocation):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "kind": "invocation"})
	case errors.Is(err, hledger.ErrSchema):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "kind": "schema"})
	case errors.Is(err, report.ErrNoHistory):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "kind": "unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "kind": "internal"})
	}
	s.log.Error("report failed", "path", c.Request.URL.Path, "err", err)
}
