package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/osse101/FlipResolver_Go/internal/database"
	"github.com/osse101/FlipResolver_Go/internal/flip"
	"github.com/osse101/FlipResolver_Go/internal/handler"
	"github.com/osse101/FlipResolver_Go/internal/logger"
	"github.com/osse101/FlipResolver_Go/internal/metrics"
)

// Config holds the HTTP-facing settings
type Config struct {
	Port           int
	APIKey         string
	TrustedProxies []string
	Version        string
	MaxBodyBytes   int64

	RateLimitRequests int
	RateLimitWindow   time.Duration
	AuthFailureAlert  int
}

type Server struct {
	httpServer *http.Server
}

// NewServer wires the router. dbPool may be nil when offers and composites live in memory.
func NewServer(cfg Config, dbPool database.Pool, flipService flip.Service) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           NewRouter(cfg, dbPool, flipService),
			ReadHeaderTimeout: DefaultReadHeaderTimeout * time.Second,
		},
	}
}

// NewRouter builds the chi router with the full middleware stack
func NewRouter(cfg Config, dbPool database.Pool, flipService flip.Service) http.Handler {
	r := chi.NewRouter()

	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}

	// Chi middleware executes in order defined (outermost to innermost)
	guard := NewClientGuard(GuardConfig{
		TrustedProxies:   cfg.TrustedProxies,
		Window:           cfg.RateLimitWindow,
		MaxRequests:      cfg.RateLimitRequests,
		AuthFailureAlert: cfg.AuthFailureAlert,
	})

	r.Use(SecurityHeadersMiddleware())
	r.Use(RateLimitMiddleware(guard))
	r.Use(AuthMiddleware(cfg.APIKey, guard))
	r.Use(BodyLimitMiddleware(maxBody))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(dbPool))
	r.Get("/version", handler.HandleVersion(cfg.Version))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/tax", handler.HandleTax())

		r.Route("/items/{itemID}", func(r chi.Router) {
			r.Get("/recipes", handler.HandleGetRecipes(flipService))
			r.Get("/composites", handler.HandleCompositeHistory(flipService))
		})

		r.Post("/feasibility", handler.HandleFeasibility(flipService))
		r.Post("/offers", handler.HandleRecordOffers(flipService))

		r.Route("/composites", func(r chi.Router) {
			r.Post("/", handler.HandleBuildComposite(flipService))
			r.Post("/max", handler.HandleBuildMax(flipService))
			r.Delete("/{id}", handler.HandleReleaseComposite(flipService))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Get("/catalog", handler.HandleCatalogStats(flipService))
			r.Post("/catalog/reload", handler.HandleReloadCatalog(flipService))
		})
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Probes and scrapes are not logged
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = logger.GenerateRequestID()
		}
		w.Header().Set(HeaderRequestID, requestID)

		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)
		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Start starts the server. It blocks until the server stops.
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	slog.Default().Info(LogMsgServerStopping)
	return s.httpServer.Shutdown(ctx)
}
