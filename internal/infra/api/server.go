package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"nyc-subway-trivia/internal/infra/logging"
	"nyc-subway-trivia/internal/infra/metrics"
	"nyc-subway-trivia/internal/usecase"
)

// Server serves the game's read-only promo code endpoints.
type Server struct {
	codes usecase.CodeUseCase
	log   *zerolog.Logger
	now   func() time.Time
}

func NewServer(codes usecase.CodeUseCase, logger *zerolog.Logger) *Server {
	compLog := logger.With().Str("component", "api").Logger()
	return &Server{codes: codes, log: &compLog, now: time.Now}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/codes", s.handleGetCode)
		r.Get("/codes/active", s.handleListActive)
		r.Get("/shop-code", s.handleShopCode)
		r.Get("/prizes", s.handleGetPrize)
	})
	return r
}

// requestLogger tags each request with a trace id, logs it, and records
// latency under the matched route pattern.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		traceID := r.Header.Get("X-Request-ID")
		if traceID == "" {
			traceID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", traceID)
		ctx := logging.WithTraceID(r.Context(), traceID)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		metrics.ObserveHTTP(route, status, elapsed)
		logging.With(ctx, s.log).Debug().
			Str("method", r.Method).
			Str("route", route).
			Int("status", status).
			Dur("duration", elapsed).
			Msg("request")
	})
}
