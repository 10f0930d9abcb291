// Package handlers exposes the tracker over HTTP.
package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Lllllllleong/applicationtracker/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/oauth2"
)

// Handler serves the tracker API.
type Handler struct {
	tracker       *services.Tracker
	sync          *services.SyncFunction
	oauth         *oauth2.Config
	secureCookies bool
}

func New(tracker *services.Tracker, sync *services.SyncFunction, oauth *oauth2.Config, secureCookies bool) *Handler {
	return &Handler{
		tracker:       tracker,
		sync:          sync,
		oauth:         oauth,
		secureCookies: secureCookies,
	}
}

// NewFromBackend builds a Handler over an initialized backend.
func NewFromBackend(b *services.Backend) *Handler {
	return New(b.Tracker, b.Sync, b.OAuth, b.Config.CookieSecure)
}

// Routes returns the router with every endpoint mounted.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.handleHealth)
	r.Get("/api/oauth2callback", h.handleOAuth2Callback)

	r.Route("/api/applications", func(r chi.Router) {
		r.Get("/", h.handleListApplications)
		r.Post("/", h.handleCreateApplication)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.handleGetApplication)
			r.Patch("/", h.handleUpdateApplication)
			r.Delete("/", h.handleDeleteApplication)
			r.Post("/follow-up", h.handleFollowUp)
		})
	})
	r.Get("/api/stats", h.handleStats)

	r.Route("/api/gmail", func(r chi.Router) {
		r.Post("/connect", h.handleConnect)
		r.Get("/callback", h.handleCallback)
		r.Post("/disconnect", h.handleDisconnect)
		r.Get("/status", h.handleStatus)
		r.Post("/sync", h.handleSync)
	})
	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// accessLog writes one structured line per request.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("HTTP access",
			"requestId", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"latency", time.Since(start).String(),
			"remoteAddr", r.RemoteAddr,
		)
	})
}
