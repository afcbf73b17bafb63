package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dtroode/attestkeeper-server/internal/logger"
)

// DefaultMaxBodyBytes bounds the candidate content of a verify request.
const DefaultMaxBodyBytes = 25 << 20

// Options configures NewRouter.
type Options struct {
	Checks       map[string]HealthCheck
	Metrics      http.Handler
	MaxBodyBytes int64
	Timeout      time.Duration
}

// NewRouter mounts the public routes:
//
//	GET  /v1/attestations/{code}
//	POST /v1/attestations/{code}/verify
//	GET  /healthz
//	GET  /metrics
func NewRouter(verifier Verifier, opts Options, logger *logger.Logger) http.Handler {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	h := &handler{
		verifier:     verifier,
		checks:       opts.Checks,
		maxBodyBytes: opts.MaxBodyBytes,
		logger:       logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/healthz", h.healthz)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.Route("/v1/attestations/{code}", func(r chi.Router) {
		r.Use(middleware.Timeout(opts.Timeout))
		r.Get("/", h.lookup)
		r.Post("/verify", h.verify)
	})

	return r
}

func requestLogger(logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("HTTP request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()))
		})
	}
}
