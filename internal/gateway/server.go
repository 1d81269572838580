// Package gateway exposes the trust-analysis pipeline over HTTP: a chi
// router wrapping the orchestrator with rate limiting, structured logging,
// and Prometheus metrics.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/reviewtrust/gateway/internal/config"
	"github.com/reviewtrust/gateway/internal/orchestrator"
	"github.com/reviewtrust/gateway/internal/ratelimiter"
	"github.com/rs/zerolog"
)

// Server wraps the chi router and its HTTP listener.
type Server struct {
	config       *config.Config
	router       *chi.Mux
	httpServer   *http.Server
	orchestrator *orchestrator.Orchestrator
	limiter      *ratelimiter.Limiter
	log          zerolog.Logger
	registry     *prometheus.Registry
	metrics      *metrics
}

// NewServer builds a Server wired to orch and limited by limiter.
func NewServer(cfg *config.Config, orch *orchestrator.Orchestrator, limiter *ratelimiter.Limiter, log zerolog.Logger) *Server {
	registry := prometheus.NewRegistry()
	s := &Server{
		config:       cfg,
		orchestrator: orch,
		limiter:      limiter,
		log:          log.With().Str("component", "gateway").Logger(),
		registry:     registry,
		metrics:      newMetrics(registry),
	}
	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.config.RequestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/", s.handleIndex)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.With(s.rateLimitMiddleware).Post("/analyze", s.handleAnalyze)

	s.router = r
}

// Start begins serving on the configured port. It blocks until the server
// stops, returning http.ErrServerClosed on a graceful Stop.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}
	s.log.Info().Str("addr", addr).Msg("starting gateway server")
	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts down the HTTP listener.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info().Msg("stopping gateway server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		duration := time.Since(start)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		s.metrics.requestsTotal.WithLabelValues(route, fmt.Sprint(ww.Status())).Inc()
		s.metrics.requestDuration.WithLabelValues(route).Observe(duration.Seconds())

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", duration).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request handled")
	})
}

func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := clientIdentity(r)
		if !s.limiter.Allow(identity) {
			s.respondError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIdentity(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}
