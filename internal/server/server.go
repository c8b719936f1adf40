// Package server exposes the string engine over HTTP using gin.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/ersonp/lexis/internal/domain/services"
	"github.com/ersonp/lexis/internal/infrastructure/telemetry"
)

const shutdownTimeout = 10 * time.Second

// Server holds the state for the REST API server.
type Server struct {
	strings  *services.StringService
	logger   *slog.Logger
	router   *gin.Engine
	registry *prometheus.Registry
	metrics  *Metrics
}

// NewServer creates a new Server instance.
func NewServer(service *services.StringService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := gin.New()
	// Match on the escaped path so a value containing "/" can be addressed
	// as %2F. gin would QueryUnescape params and turn "+" into a space, so
	// pathValue decodes them instead.
	r.UseRawPath = true
	r.UnescapePathValues = false

	s := &Server{
		strings:  service,
		logger:   logger,
		router:   r,
		registry: registry,
		metrics:  NewMetrics(registry),
	}

	r.Use(
		gin.Recovery(),
		requestID(),
		otelgin.Middleware(telemetry.ServiceName),
		instrument(s.metrics),
		requestLogger(logger),
	)
	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler serving all routes.
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
		s.logger.Info("starting server", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listening on %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleRoot)
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry})))
	s.router.NoRoute(s.handleNoRoute)

	// The API is served both at the root and under /api.
	s.registerStringRoutes(&s.router.RouterGroup)
	s.registerStringRoutes(s.router.Group("/api"))
}

func (s *Server) registerStringRoutes(g *gin.RouterGroup) {
	g.POST("/strings/", s.handleCreate)
	// Static segments take precedence over :value, so the strings "all"
	// and "filter-by-natural-language" are not addressable by path.
	g.GET("/strings/all/", s.handleList)
	g.GET("/strings/filter-by-natural-language/", s.handleNaturalLanguage)
	g.GET("/strings/:value/", s.handleGet)
	g.DELETE("/strings/:value/", s.handleDelete)
	g.DELETE("/strings/:value/delete/", s.handleDelete)
}

// Health check
func (s *Server) healthCheck(c *gin.Context) {
	c.Status(http.StatusOK)
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "String Analyzer API is running"})
}

func (s *Server) handleNoRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
}
