package demo

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/veloxpay/payops/internal/admin"
)

// Server serves the demo admin API over HTTP.
type Server struct {
	token   string
	store   *Store
	logger  *slog.Logger
	router  chi.Router
	server  *http.Server
	limiter *rate.Limiter
}

// NewServer creates a demo server requiring the given bearer token.
// An empty token disables authentication.
func NewServer(token string, store *Store, logger *slog.Logger) *Server {
	s := &Server{
		token:  token,
		store:  store,
		logger: logger,
	}
	s.router = s.setupRouter()
	return s
}

// setupRouter configures the chi router with all routes and middleware.
func (s *Server) setupRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(s.loggerMiddleware)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	// One shared limiter for the whole API. The demo serves a single
	// operator on loopback, with limits generous enough that interactive
	// polling never trips them.
	s.limiter = rate.NewLimiter(50, 100)
	r.Use(s.throttleMiddleware)

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Get("/overview", s.handleOverview)

		r.Get("/users", s.handleListUsers)
		r.Get("/users/{id}", s.handleGetUser)
		r.Post("/users/bulk", s.handleBulk(admin.ResourceUsers))

		r.Get("/transactions", s.handleListTransactions)
		r.Get("/transactions/{id}", s.handleGetTransaction)
		r.Post("/transactions/bulk", s.handleBulk(admin.ResourceTransactions))

		r.Get("/services", s.handleListServices)
		r.Get("/services/{id}", s.handleGetService)
		r.Post("/services/bulk", s.handleBulk(admin.ResourceServices))

		r.Get("/settlements", s.handleListSettlements)
		r.Get("/settlements/{id}", s.handleGetSettlement)
		r.Post("/settlements/bulk", s.handleBulk(admin.ResourceSettlements))

		r.Post("/ledger/credit", s.handleLedger(true))
		r.Post("/ledger/debit", s.handleLedger(false))
	})

	return r
}

// Start begins listening on addr. It blocks until the server stops.
func (s *Server) Start(addr string) error {
	if s.token == "" {
		s.logger.Warn("demo server running without authentication")
	}

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	s.logger.Info("starting demo server", "addr", addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	s.logger.Info("shutting down demo server")
	return s.server.Shutdown(ctx)
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// loggerMiddleware logs HTTP requests.
func (s *Server) loggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", chimw.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

// throttleMiddleware rejects requests once the shared limiter runs dry,
// so a runaway poller cannot spin the fake backend.
func (s *Server) throttleMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, "rate_limit_exceeded", "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// authMiddleware validates the bearer token.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token == "" {
			next.ServeHTTP(w, r)
			return
		}

		auth := r.Header.Get("Authorization")
		if len(auth) > 7 && auth[:7] == "Bearer " {
			auth = auth[7:]
		}

		if subtle.ConstantTimeCompare([]byte(auth), []byte(s.token)) != 1 {
			s.logger.Warn("unauthorized request",
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)
			writeError(w, http.StatusUnauthorized, "unauthorized", "invalid or missing token")
			return
		}

		next.ServeHTTP(w, r)
	})
}
