// internal/httpserver/server.go
//
// HTTP server wiring for the duel backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     access logs).
//   - Public endpoints: "/", "/health".
//   - Auth endpoints: /auth/*.
//   - Duel endpoints (require auth): mounted under /duel.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - The caller of every duel operation is the authenticated user; the
//     registry never sees unauthenticated ids.
//   - /duel/events is a WebSocket and lives outside the request timeout.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/duel-server/internal/auth"
	"github.com/robalobadob/wordle/apps/duel-server/internal/duel"
	"github.com/robalobadob/wordle/apps/duel-server/internal/history"
	"github.com/robalobadob/wordle/apps/duel-server/internal/notify"
)

// Deps are the collaborators a Server routes to.
type Deps struct {
	Duels   *duel.Registry
	Auth    *auth.Service
	History *history.Store
	Hub     *notify.Hub

	ClientOrigin   string        // CORS + WebSocket origin; defaults to http://localhost:5173
	RequestTimeout time.Duration // per-request bound for non-streaming routes; defaults to 10s
}

// Server bundles router and dependencies.
type Server struct {
	r *chi.Mux
	Deps
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	if d.ClientOrigin == "" {
		d.ClientOrigin = "http://localhost:5173"
	}
	if d.RequestTimeout <= 0 {
		d.RequestTimeout = 10 * time.Second
	}
	if d.Hub == nil {
		d.Hub = notify.NewHub(notify.DefaultBuffer)
	}
	s := &Server{r: chi.NewRouter(), Deps: d}

	// --- middleware ---
	s.r.Use(chimw.RequestID)               // add X-Request-ID
	s.r.Use(chimw.RealIP)                  // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger))   // request-scoped logger
	s.r.Use(hlog.AccessHandler(accessLog)) // one line per request
	s.r.Use(chimw.Recoverer)               // recover from panics
	s.r.Use(jsonContentType)               // default JSON responses
	s.r.Use(cors(d.ClientOrigin))          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"wordle-duel","endpoints":["/health","/auth/*","POST /duel/start","POST /duel/word","POST /duel/guess","POST /duel/reset","GET /duel/mine","GET /duel/history","GET /duel/events"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "duels": s.Duels.Len()})
	})

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(d.RequestTimeout)) // bound handler time
		s.mountAuthRoutes(r)
		s.mountDuel(r)
	})

	// Streaming: auth but no timeout.
	s.r.With(s.Auth.Require()).Get("/duel/events", s.handleEvents)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", r.URL.Path)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func accessLog(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("reqId", chimw.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
}

// ------------------------------ responses ----------------------------------

type errorRes struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorRes{Error: code, Message: msg})
}

// duelErrors maps registry errors to HTTP status and stable codes.
var duelErrors = []struct {
	err    error
	status int
	code   string
}{
	{duel.ErrInvalidPair, http.StatusBadRequest, "invalid_pair"},
	{duel.ErrDuplicateSession, http.StatusConflict, "duplicate_session"},
	{duel.ErrNoSessionForCaller, http.StatusNotFound, "no_session"},
	{duel.ErrNotSetter, http.StatusForbidden, "not_setter"},
	{duel.ErrSecretAlreadySet, http.StatusConflict, "secret_already_set"},
	{duel.ErrInvalidWord, http.StatusBadRequest, "invalid_word"},
	{duel.ErrNoGuessableSession, http.StatusNotFound, "no_guessable_session"},
}

// writeDuelError translates a registry error; anything unknown is a 500.
func writeDuelError(w http.ResponseWriter, r *http.Request, err error) {
	for _, e := range duelErrors {
		if errors.Is(err, e.err) {
			writeError(w, e.status, e.code, e.err.Error())
			return
		}
	}
	hlog.FromRequest(r).Error().Err(err).Msg("duel operation failed")
	writeError(w, http.StatusInternalServerError, "internal", "")
}

// decode reads a JSON body into v, answering 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", err.Error())
		return false
	}
	return true
}
