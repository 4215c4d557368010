package web

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"eventcal/internal/config"
	"eventcal/internal/engine"
	"eventcal/internal/feed"
	appLog "eventcal/internal/log"
	"eventcal/internal/schedule"
	"eventcal/internal/store"
	"eventcal/internal/timer"
)

// Server exposes the timer snapshots, the custom timer CRUD API and the
// iCalendar feed over HTTP.
type Server struct {
	cfg    *config.Config
	engine *engine.Engine
	store  *store.Store
	router chi.Router
}

// NewServer constructs a Server with all routes registered.
func NewServer(cfg *config.Config, eng *engine.Engine, st *store.Store) *Server {
	s := &Server{
		cfg:    cfg,
		engine: eng,
		store:  st,
		router: chi.NewRouter(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the http.Handler for this server, with basic auth
// wrapped around everything except /health when configured.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.router)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// Empty username or password counts as disabled.
	if s.cfg.BasicAuth.Username == "" || s.cfg.BasicAuth.Password == "" {
		return false
	}
	return true
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic
// Auth. /health stays open so liveness probes work unauthenticated.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="eventcal", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) registerRoutes() {
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/calendar.ics", s.handleCalendar)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/chips", s.handleChips)
		r.Get("/events", s.handleEvents)
		r.Get("/cycles", s.handleCycles)

		r.Route("/timers", func(r chi.Router) {
			r.Get("/", s.handleTimerList)
			r.Post("/", s.handleTimerCreate)
			r.Delete("/", s.handleTimerDeleteAll)
			r.Get("/{id}", s.handleTimerGet)
			r.Put("/{id}", s.handleTimerUpdate)
			r.Delete("/{id}", s.handleTimerDelete)
		})
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// chipsResponse is the JSON response shape for /api/chips.
type chipsResponse struct {
	Chips       []timer.Chip `json:"chips"`
	GeneratedAt time.Time    `json:"generated_at"`
}

func (s *Server) handleChips(w http.ResponseWriter, _ *http.Request) {
	snap := s.engine.Snapshot()
	writeJSON(w, http.StatusOK, chipsResponse{
		Chips:       snap.Chips,
		GeneratedAt: snap.GeneratedAt,
	})
}

// eventsResponse is the JSON response shape for /api/events.
type eventsResponse struct {
	Events      []timer.EventChip `json:"events"`
	GeneratedAt time.Time         `json:"generated_at"`
}

func (s *Server) handleEvents(w http.ResponseWriter, _ *http.Request) {
	snap := s.engine.Snapshot()
	writeJSON(w, http.StatusOK, eventsResponse{
		Events:      snap.Events,
		GeneratedAt: snap.GeneratedAt,
	})
}

func (s *Server) handleCycles(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Snapshot().Cycles)
}

// handleCalendar renders every recurring definition and pending event
// as an iCalendar document for external calendar subscriptions.
func (s *Server) handleCalendar(w http.ResponseWriter, _ *http.Request) {
	cal, err := feed.Build(s.engine.Definitions(), s.engine.Events(), time.Now().UTC())
	if err != nil {
		appLog.Error("calendar feed build failed", err)
		writeError(w, http.StatusInternalServerError, "failed to build calendar feed")
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(cal.Serialize()))
}

func (s *Server) handleTimerList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.List())
}

func (s *Server) handleTimerGet(w http.ResponseWriter, r *http.Request) {
	t, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleTimerCreate(w http.ResponseWriter, r *http.Request) {
	var in store.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	created, err := s.store.Create(in)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.engine.Refresh()
	appLog.Info("custom timer created", "id", created.ID, "kind", string(created.Kind))
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleTimerUpdate(w http.ResponseWriter, r *http.Request) {
	var in store.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	updated, err := s.store.Update(chi.URLParam(r, "id"), in)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.engine.Refresh()
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleTimerDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(id); err != nil {
		writeStoreError(w, err)
		return
	}
	s.engine.Refresh()
	appLog.Info("custom timer deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTimerDeleteAll(w http.ResponseWriter, _ *http.Request) {
	if err := s.store.DeleteAll(); err != nil {
		writeStoreError(w, err)
		return
	}
	s.engine.Refresh()
	appLog.Info("all custom timers deleted")
	w.WriteHeader(http.StatusNoContent)
}

// writeStoreError maps store errors onto HTTP status codes: missing
// timers are 404, anything a user can fix is 400, the rest is a 500
// (persistence failures).
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrLabelLength),
		errors.Is(err, store.ErrShortLabel),
		errors.Is(err, store.ErrSummaryLength),
		errors.Is(err, store.ErrTooManySlots),
		errors.Is(err, store.ErrMissingField),
		errors.Is(err, store.ErrUnknownKind):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		// Schedule validation failures come through as wrapped sentinel
		// errors from the schedule package; those are client errors too.
		if isScheduleError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		appLog.Error("custom timer store failure", err)
		writeError(w, http.StatusInternalServerError, "failed to persist custom timers")
	}
}

var scheduleErrors = []error{
	schedule.ErrUnknownType,
	schedule.ErrHourRange,
	schedule.ErrMinuteRange,
	schedule.ErrWeekdayRange,
	schedule.ErrNoTimes,
	schedule.ErrNoWeekdays,
	schedule.ErrWindowHours,
	schedule.ErrRangeOrder,
	schedule.ErrOverlappingSlot,
}

func isScheduleError(err error) bool {
	for _, sentinel := range scheduleErrors {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
