// Package server exposes the dispatch service over HTTP with gin.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/UnknownOlympus/meridian/internal/ingest"
	"github.com/UnknownOlympus/meridian/internal/metrics"
	"github.com/UnknownOlympus/meridian/internal/models"
	"github.com/UnknownOlympus/meridian/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dispatcher is the part of service.Service used by the handlers.
type Dispatcher interface {
	LoadSnapshot(ctx context.Context, customers, technicians ingest.Source) (*service.Snapshot, error)
	Matches(ctx context.Context, snap *service.Snapshot, speedKmh *float64) ([]models.MatchResult, error)
	Coverage(ctx context.Context, snap *service.Snapshot, technicianID string, radiusKm float64) (models.CoverageResult, error)
	Summary(snap *service.Snapshot) service.Summary
	Points(snap *service.Snapshot) models.MapView
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configures the HTTP handlers.
type Options struct {
	Customers   ingest.Source        // Customers is the default customer source.
	Technicians ingest.Source        // Technicians is the default technician source.
	Sheet       string               // Sheet is read from uploaded workbooks, the first one when empty.
	RadiusKm    float64              // RadiusKm is used when a coverage request has no radius_km.
	SpeedKmh    float64              // SpeedKmh is used when a match request has no speed_kmh.
	Timeout     time.Duration        // Timeout bounds the processing of one request.
	Health      Pinger               // Health is pinged by /healthz; nil means always healthy.
	Registry    *prometheus.Registry // Registry is served on /metrics.
	Metrics     *metrics.Metrics     // Metrics receives the request counters.
}

// Handler serves the dispatch API.
type Handler struct {
	log       *slog.Logger
	svc       Dispatcher
	opts      Options
	validator *requestValidator
}

// New creates a Handler.
func New(log *slog.Logger, svc Dispatcher, opts Options) *Handler {
	return &Handler{
		log:       log,
		svc:       svc,
		opts:      opts,
		validator: newRequestValidator(),
	}
}

// Router builds the gin engine with every route registered.
func (h *Handler) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.countRequests())

	router.GET("/healthz", h.healthz)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.opts.Registry, promhttp.HandlerOpts{})))

	api := router.Group("/api/v1")
	for _, method := range []string{http.MethodGet, http.MethodPost} {
		api.Handle(method, "/matches", h.matches)
		api.Handle(method, "/matches/export", h.exportMatches)
		api.Handle(method, "/coverage", h.coverage)
		api.Handle(method, "/summary", h.summary)
		api.Handle(method, "/points", h.points)
	}

	return router
}

// NewHTTPServer wraps the router in an http.Server with the timeouts used in production.
func NewHTTPServer(handler http.Handler, port int, requestTimeout time.Duration) *http.Server {
	const (
		readTimeout = 30 * time.Second
		slack       = 10 * time.Second
	)

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: readTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      requestTimeout + slack,
	}
}

func (h *Handler) countRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		h.opts.Metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

func (h *Handler) healthz(c *gin.Context) {
	ctx := c.Request.Context()
	h.log.DebugContext(ctx, "Performing health checks...")

	if h.opts.Health != nil {
		if err := h.opts.Health.Ping(ctx); err != nil {
			h.log.ErrorContext(ctx, "Health check failed", "error", err)
			c.String(http.StatusServiceUnavailable, "DB ping failed")
			return
		}
	}

	c.String(http.StatusOK, "OK")
}
