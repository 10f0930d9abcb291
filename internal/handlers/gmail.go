package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Lllllllleong/applicationtracker/internal/mailbox"
	"github.com/Lllllllleong/applicationtracker/internal/models"
	"github.com/Lllllllleong/applicationtracker/internal/services"
	"github.com/google/uuid"
)

func (h *Handler) handleConnect(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	h.setCookie(w, stateCookie, state, stateMaxAge)
	writeJSON(w, http.StatusOK, models.ConnectResponse{AuthURL: mailbox.AuthURL(h.oauth, state)})
}

func (h *Handler) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if e := q.Get("error"); e != "" {
		slog.Warn("Gmail consent was not granted", "error", e)
		writeError(w, http.StatusBadRequest, "Gmail authorization was denied")
		return
	}
	code := q.Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "No authorization code provided")
		return
	}
	if want := cookieValue(r, stateCookie); want != "" && q.Get("state") != want {
		slog.Warn("OAuth state mismatch on Gmail callback")
		writeError(w, http.StatusBadRequest, "Invalid OAuth state")
		return
	}

	tok, err := mailbox.Exchange(r.Context(), h.oauth, code)
	if err != nil {
		slog.Error("Error handling Gmail callback", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to authenticate with Gmail")
		return
	}

	h.clearCookie(w, stateCookie)
	h.setTokenCookies(w, tok)
	slog.Info("Gmail connected.", "hasRefreshToken", tok.RefreshToken != "")
	http.Redirect(w, r, "/", http.StatusFound)
}

// handleOAuth2Callback forwards callbacks registered under the legacy
// redirect URI to the Gmail callback, keeping the query string.
func (h *Handler) handleOAuth2Callback(w http.ResponseWriter, r *http.Request) {
	target := "/api/gmail/callback"
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusTemporaryRedirect)
}

func (h *Handler) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	h.clearCookie(w, accessTokenCookie)
	h.clearCookie(w, refreshTokenCookie)
	writeJSON(w, http.StatusOK, models.SuccessResponse{Success: true})
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.StatusResponse{Connected: cookieValue(r, accessTokenCookie) != ""})
}

func (h *Handler) handleSync(w http.ResponseWriter, r *http.Request) {
	res, err := h.sync.Process(r.Context(), tokenFromRequest(r))
	if err != nil {
		if errors.Is(err, services.ErrNotConnected) {
			writeError(w, http.StatusUnauthorized, "Not authenticated with Gmail")
			return
		}
		slog.Error("Error syncing Gmail", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to sync Gmail")
		return
	}
	writeJSON(w, http.StatusOK, res)
}
