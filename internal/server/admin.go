package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/maloquacious/goobcms/internal/handle"
	"github.com/maloquacious/goobcms/internal/install"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// AdminHandler returns the admin routes. Everything except the metrics
// endpoint speaks JSON only.
func (s *Server) AdminHandler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Method(http.MethodGet, "/admin/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(jsonOnly)
		r.Get("/admin/status", s.status)
		r.Post("/admin/install", s.install)
		r.Get("/admin/handle", s.handle)
		r.Post("/admin/shutdown", s.shutdownHandler)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusNotFound, "not_found", "no such admin route")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", r.Method+" is not allowed here")
	})
	return r
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"version":   s.version,
		"time":      time.Now().UTC().Format(time.RFC3339),
		"installed": s.installed.Get(),
	}
	if s.store != nil {
		st, err := s.store.CheckState(r.Context())
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, "store_error", err.Error())
			return
		}
		resp["state"] = st.String()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) install(w http.ResponseWriter, r *http.Request) {
	if s.installer == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "unavailable", "installer is not configured")
		return
	}
	var in install.Inputs
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	rep, err := s.installer.Run(r.Context(), in)
	if err != nil {
		var ierr *install.Error
		switch {
		case errors.Is(err, install.ErrAlreadyInstalled):
			writeJSONError(w, http.StatusConflict, "already_installed", err.Error())
		case errors.As(err, &ierr):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
				"error":   "install_failed",
				"step":    ierr.Step,
				"message": ierr.Message,
			})
		default:
			s.log.Error("install: %v", err)
			writeJSONError(w, http.StatusInternalServerError, "internal_error", "install failed")
		}
		return
	}
	writeJSON(w, http.StatusCreated, rep)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("source")
	writeJSON(w, http.StatusOK, map[string]string{
		"source": source,
		"handle": handle.Generate(source),
	})
}

func (s *Server) shutdownHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "shutting down"})
	go func() {
		// give the response a moment to flush
		time.Sleep(200 * time.Millisecond)
		s.requestShutdown()
	}()
}

// jsonOnly enforces JSON-only contract for admin routes.
func jsonOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept := r.Header.Get("Accept")
		if !strings.Contains(accept, "application/json") && accept != "" && accept != "*/*" {
			writeJSONError(w, http.StatusNotAcceptable, "not_acceptable", "Accept must include application/json")
			return
		}
		if r.Method != http.MethodGet && !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
			writeJSONError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "Content-Type must be application/json")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]string{
		"error":   code,
		"message": msg,
	})
}
