package server

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/realm-quiz/internal/config"
	"github.com/gokatarajesh/realm-quiz/internal/question"
	"github.com/gokatarajesh/realm-quiz/internal/stats"
	httperrors "github.com/gokatarajesh/realm-quiz/pkg/http/errors"
)

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// Handlers groups the domain handlers mounted by the server.
type Handlers struct {
	Questions *question.HTTPHandler
	Stats     *stats.HTTPHandler
}

// NewHTTPServer wires base routes (health, readiness, metrics) and the API.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, gatherer prometheus.Gatherer, handlers Handlers, checks map[string]ReadinessCheck) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		for name, check := range checks {
			if err := check(ctx); err != nil {
				logger.Warn().Err(err).Str("check", name).Msg("readiness check failed")
				httperrors.RespondErrorWithDetails(w, http.StatusServiceUnavailable, httperrors.ErrCodeServiceUnavailable,
					"dependency not ready", map[string]any{"check": name})
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	})

	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	if handlers.Questions != nil {
		mux.HandleFunc("POST /v1/sessions", handlers.Questions.HandleCreateSession)
		mux.HandleFunc("GET /v1/realms/stats", handlers.Questions.HandleRealmStats)
		mux.HandleFunc("POST /v1/admin/cooldowns/reset", handlers.Questions.HandleResetCooldown)
	}

	if handlers.Stats != nil {
		mux.HandleFunc("POST /v1/players/{player}/results", handlers.Stats.HandleRecordResult)
		mux.HandleFunc("GET /v1/players/{player}/stats", handlers.Stats.HandleGet)
	}

	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           withLogger(mux, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// withLogger writes one debug line per request.
func withLogger(next http.Handler, logger zerolog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", time.Since(start)).
			Msg("http request")
	})
}
