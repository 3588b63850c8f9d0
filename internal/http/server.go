// Package http exposes the ledger over a JSON API: the evaluated view, the
// record mutations, the activity log, the report export and the advisory
// category suggestion endpoint.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/srikolla28/trackfina/internal/advisor"
	"github.com/srikolla28/trackfina/internal/cache"
	"github.com/srikolla28/trackfina/internal/ledger"
	applog "github.com/srikolla28/trackfina/internal/log"
)

// Server wires the ledger and the advisory suggester behind an http.Server.
type Server struct {
	http.Server

	ledger    *ledger.Ledger
	debouncer *advisor.Debouncer
	logger    *applog.Logger

	rateLimiter *rateLimiter

	// chartCache holds rendered PNGs keyed by the filter configuration;
	// it is cleared on every mutation. suggestCache remembers advisory
	// answers per item name so repeated lookups skip the network.
	chartCache   cache.Cache[[]byte]
	suggestCache cache.Cache[string]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
// Suggest lookups are debounced over suggestQuiet so a typing burst of
// requests costs one upstream call. The suggester may be nil; the suggest
// endpoint then always answers 204.
func NewServer(addr string, led *ledger.Ledger, suggester advisor.Suggester, suggestQuiet time.Duration, logger *applog.Logger) *Server {
	mux := http.NewServeMux()

	chartCache := cache.NewLRUCache[[]byte](50, 5*time.Minute)
	suggestCache := cache.NewLRUCache[string](200, 30*time.Minute)

	s := &Server{
		ledger:       led,
		logger:       logger.WithComponent(applog.ComponentHTTP),
		rateLimiter:  newRateLimiter(),
		chartCache:   chartCache,
		suggestCache: suggestCache,
		cacheManager: cache.NewManager(),
	}
	if suggester != nil {
		s.debouncer = advisor.NewDebouncer(suggester, suggestQuiet)
	}
	s.Server = http.Server{
		Addr:    addr,
		Handler: applog.Middleware(s.logger)(applog.RequestIDMiddleware(requestIDFor)(mux)),
	}

	s.cacheManager.Register(chartCache)
	s.cacheManager.Register(suggestCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/view", s.withSecurityHeaders(s.handleView))
	mux.HandleFunc("POST /api/query", s.withSecurityHeaders(s.handleQuery))
	mux.HandleFunc("POST /api/purchases", s.withSecurityHeaders(s.handleCreatePurchase))
	mux.HandleFunc("PUT /api/purchases/{id}", s.withSecurityHeaders(s.handleUpdatePurchase))
	mux.HandleFunc("DELETE /api/purchases/{id}", s.withSecurityHeaders(s.handleDeletePurchase))
	mux.HandleFunc("GET /api/activities", s.withSecurityHeaders(s.handleActivities))
	mux.HandleFunc("GET /api/export", s.withSecurityHeaders(s.handleExport))
	mux.HandleFunc("GET /api/export/chart", s.withSecurityHeaders(s.handleExportChart))
	mux.HandleFunc("GET /api/suggest", s.withSecurityHeaders(s.handleSuggest))

	return s
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		if s.cacheManager != nil {
			s.cacheManager.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
		// Closed after the listener drains so in-flight suggest
		// requests still get their delivery.
		if s.debouncer != nil {
			s.debouncer.Close()
		}
	})
	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting and request
// logging. Mutating methods are rate limited per client IP.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ip := clientIP(r)

		// The request-id middleware already enriched the context logger.
		ctx := r.Context()
		reqLogger := applog.FromContext(ctx)

		reqLogger.InfoContext(ctx, "Request started",
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldClientIP, ip,
			applog.FieldUserAgent, r.Header.Get("User-Agent"))

		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
			if !s.rateLimiter.allow(ip) {
				reqLogger.WarnContext(ctx, "Rate limit exceeded",
					applog.FieldClientIP, ip,
					applog.FieldMethod, r.Method,
					applog.FieldPath, r.URL.Path)
				w.Header().Set("Retry-After", "60")
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		reqLogger.InfoContext(ctx, "Request completed",
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, rw.statusCode,
			applog.FieldDuration, time.Since(start).Milliseconds(),
			applog.FieldClientIP, ip)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
