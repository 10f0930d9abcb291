package handlers

import (
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

const (
	accessTokenCookie  = "gmail_access_token"
	refreshTokenCookie = "gmail_refresh_token"
	stateCookie        = "gmail_oauth_state"

	accessTokenMaxAge  = time.Hour
	refreshTokenMaxAge = 30 * 24 * time.Hour
	stateMaxAge        = 10 * time.Minute
)

func (h *Handler) setCookie(w http.ResponseWriter, name, value string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// setTokenCookies stores the token pair. The refresh cookie is only replaced
// when Google returned a new refresh token.
func (h *Handler) setTokenCookies(w http.ResponseWriter, tok *oauth2.Token) {
	h.setCookie(w, accessTokenCookie, tok.AccessToken, accessTokenMaxAge)
	if tok.RefreshToken != "" {
		h.setCookie(w, refreshTokenCookie, tok.RefreshToken, refreshTokenMaxAge)
	}
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

// tokenFromRequest rebuilds the caller's token pair, or nil without an access token.
func tokenFromRequest(r *http.Request) *oauth2.Token {
	access := cookieValue(r, accessTokenCookie)
	if access == "" {
		return nil
	}
	return &oauth2.Token{
		AccessToken:  access,
		RefreshToken: cookieValue(r, refreshTokenCookie),
		TokenType:    "Bearer",
	}
}
