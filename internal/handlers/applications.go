package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Lllllllleong/applicationtracker/internal/models"
	"github.com/Lllllllleong/applicationtracker/internal/repository"
	"github.com/Lllllllleong/applicationtracker/internal/services"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) handleListApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.tracker.List(r.Context())
	if err != nil {
		slog.Error("Error fetching applications", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch applications")
		return
	}
	if apps == nil {
		apps = []models.Application{}
	}
	writeJSON(w, http.StatusOK, apps)
}

func (h *Handler) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	app, err := h.tracker.Get(r.Context(), id)
	if err != nil {
		h.mutationError(w, err, id, "Failed to fetch application")
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *Handler) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	var req models.CreateApplicationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		slog.Warn("Could not decode request body", "error", err)
		writeError(w, http.StatusBadRequest, "Bad Request: could not parse JSON")
		return
	}

	app, err := h.tracker.Create(r.Context(), &req)
	if err != nil {
		h.mutationError(w, err, "", "Failed to create application")
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

func (h *Handler) handleUpdateApplication(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req models.UpdateApplicationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		slog.Warn("Could not decode request body", "error", err, "applicationId", id)
		writeError(w, http.StatusBadRequest, "Bad Request: could not parse JSON")
		return
	}

	if err := h.tracker.Update(r.Context(), id, &req); err != nil {
		h.mutationError(w, err, id, "Failed to update application")
		return
	}
	writeJSON(w, http.StatusOK, models.SuccessResponse{Success: true})
}

func (h *Handler) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.tracker.Delete(r.Context(), id); err != nil {
		h.mutationError(w, err, id, "Failed to delete application")
		return
	}
	writeJSON(w, http.StatusOK, models.SuccessResponse{Success: true})
}

func (h *Handler) handleFollowUp(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.tracker.MarkFollowedUp(r.Context(), id); err != nil {
		h.mutationError(w, err, id, "Failed to mark follow-up")
		return
	}
	writeJSON(w, http.StatusOK, models.SuccessResponse{Success: true})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.tracker.Stats(r.Context())
	if err != nil {
		slog.Error("Error computing stats", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// mutationError maps service errors to responses; anything unexpected becomes
// a 500 carrying only the generic message.
func (h *Handler) mutationError(w http.ResponseWriter, err error, id, message string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "Application not found")
	case errors.Is(err, services.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error(message, "error", err, "applicationId", id)
		writeError(w, http.StatusInternalServerError, message)
	}
}
