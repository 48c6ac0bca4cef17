// internal/httpserver/server.go
//
// HTTP server wiring for the duotrigordle backend.
// Responsibilities:
//   - Router + middleware (request ids, logging, metrics, panic recovery, timeouts, JSON, CORS).
//   - Public endpoints: "/", "/health", "/metrics", puzzle previews and the daily leaderboard.
//   - Server-side play (optional auth): /game/* driven by game.Engine, saved in a store.SaveStore.
//   - Remote sync (require auth): /sync/save and /sync/stats backed by SQLite.
//   - Accounts: /auth/*.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled so cookies work cross-site.
//   - Guests play under an anonymous id cookie; only signed-in players get server history.
package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/robalobadob/duotrigordle/internal/config"
	"github.com/robalobadob/duotrigordle/internal/game"
	"github.com/robalobadob/duotrigordle/internal/store"
)

// Deps are the collaborators a Server needs.
type Deps struct {
	Config *config.Config
	Engine *game.Engine
	Saves  store.SaveStore
	DB     *store.DB
	Logger zerolog.Logger

	// Now defaults to time.Now.
	Now func() time.Time
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

// Server bundles the router with its stores and engine.
type Server struct {
	r          *chi.Mux
	cfg        *config.Config
	engine     *game.Engine
	saves      store.SaveStore
	db         *store.DB
	log        zerolog.Logger
	metrics    *metrics
	now        func() time.Time
	bcryptCost int

	authLimiter *rateLimiter
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	s := &Server{
		r:          chi.NewRouter(),
		cfg:        d.Config,
		engine:     d.Engine,
		saves:      d.Saves,
		db:         d.DB,
		log:        d.Logger.With().Str("component", "http").Logger(),
		metrics:    newMetrics(),
		now:        d.Now,
		bcryptCost: d.BcryptCost,

		authLimiter: newRateLimiter(d.Config.Auth.RatePerMinute),
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.bcryptCost == 0 {
		s.bcryptCost = bcrypt.DefaultCost
	}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(s.requestLogger)
	s.r.Use(s.metrics.instrument)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(s.cors)

	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service": "duotrigordle",
			"endpoints": []string{
				"/health", "/metrics", "/puzzle/daily", "/puzzle/{challenge}/{id}", "/daily/leaderboard",
				"POST /game/start", "POST /game/guess", "/auth/*", "/sync/*",
			},
		})
	})
	s.r.Get("/health", s.handleHealth)
	s.r.Method(http.MethodGet, "/metrics", s.metrics.handler())

	s.mountPuzzle()
	s.mountAuth()
	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth())
		s.mountGame(r)
	})
	s.r.Group(func(r chi.Router) {
		r.Use(s.requireAuth())
		s.mountSync(r)
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	return s
}

// Handler exposes the router (useful for tests and custom listeners).
func (s *Server) Handler() http.Handler { return s.r }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		s.log.Warn().Err(err).Msg("health: db ping failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false})
		return
	}
	targets, valid := s.engine.Generator().Tables().Stats()
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "targets": targets, "valid": valid})
}

// nowMs is the current time as a millisecond epoch, the unit sessions use.
func (s *Server) nowMs() int64 { return s.now().UnixMilli() }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.Server.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Expose-Headers", "X-Auth-Token")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs one line per request at debug level, warn for 5xx.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		ev := s.log.Debug()
		if ww.Status() >= http.StatusInternalServerError {
			ev = s.log.Warn()
		}
		ev.Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Str("request_id", chimw.GetReqID(r.Context())).
			Msg("request")
	})
}

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
