package handler

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/efreeman/world-war/api/internal/auth"
	"github.com/efreeman/world-war/api/internal/service"
)

// AuthHandler handles registration, password login, OAuth2 flows, and token
// refresh.
type AuthHandler struct {
	sessions *service.SessionService
	google   *auth.OAuthProvider
	jwtMgr   *auth.JWTManager
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(sessions *service.SessionService, google *auth.OAuthProvider, jwtMgr *auth.JWTManager) *AuthHandler {
	return &AuthHandler{sessions: sessions, google: google, jwtMgr: jwtMgr}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username    string `json:"username"`
		Password    string `json:"password"`
		DisplayName string `json:"display_name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.sessions.Register(r.Context(), req.Username, req.Password, req.DisplayName)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	tokens, err := h.jwtMgr.GenerateTokenPair(account.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate tokens")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"account": account, "tokens": tokens})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.sessions.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	tokens, err := h.jwtMgr.GenerateTokenPair(account.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate tokens")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"account": account, "tokens": tokens})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GoogleLogin redirects to Google's OAuth2 consent screen.
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	state := randomState()
	// In production, store state in a short-lived cookie or cache for CSRF protection
	url := h.google.LoginURL(state)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// GoogleCallback handles the OAuth2 callback from Google.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing code parameter")
		return
	}

	info, err := h.google.Exchange(r.Context(), code)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "oauth exchange failed: "+err.Error())
		return
	}

	account, err := h.sessions.LoginOAuth(r.Context(), h.google.Name(), info.ID, info.Name)
	if err != nil {
		log.Error().Err(err).Msg("Failed to log in Google user")
		writeServiceError(w, err)
		return
	}

	tokens, err := h.jwtMgr.GenerateTokenPair(account.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate tokens")
		return
	}
	writeJSON(w, http.StatusOK, tokens)
}

// RefreshToken exchanges a refresh token for a new token pair.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims, err := h.jwtMgr.ValidateToken(req.RefreshToken)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	tokens, err := h.jwtMgr.GenerateTokenPair(claims.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate tokens")
		return
	}
	writeJSON(w, http.StatusOK, tokens)
}

// DevLogin creates or logs in a test user without a password.
// Only available when DEV_MODE=true.
func (h *AuthHandler) DevLogin(w http.ResponseWriter, r *http.Request) {
	if os.Getenv("DEV_MODE") != "true" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "missing name parameter")
		return
	}

	account, err := h.sessions.LoginOAuth(r.Context(), "dev", "dev-"+name, name)
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("Failed to log in dev user")
		writeServiceError(w, err)
		return
	}

	tokens, err := h.jwtMgr.GenerateTokenPair(account.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate tokens")
		return
	}
	writeJSON(w, http.StatusOK, tokens)
}

func randomState() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}
