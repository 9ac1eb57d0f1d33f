package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/evenstad/julekalender/internal/logger"
	"github.com/evenstad/julekalender/internal/utils"
	"github.com/evenstad/julekalender/models"
)

const (
	// sessionCookieName carries the tenant id so a returning browser
	// recovers its session without re-deriving it from the credential.
	sessionCookieName = "julekalender-session"

	// sessionCookieMaxAge keeps the cookie alive across the whole year
	// until the next calendar season.
	sessionCookieMaxAge = 365 * 24 * time.Hour
)

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		http.Error(w, ErrMissingSessionID.Error(), statusFromError(ErrMissingSessionID))
		return
	}

	session, err := h.storages.Sessions.Get(r.Context(), sessionID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getSession").Msg("error reading session")
		http.Error(w, "error reading session", statusFromError(err))
		return
	}

	utils.WriteJSON(w, sessionResponse(session), http.StatusOK)
}

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.createSession").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		http.Error(w, ErrMissingSessionID.Error(), statusFromError(ErrMissingSessionID))
		return
	}

	session, err := h.storages.Sessions.Create(r.Context(), req.SessionID, models.DefaultDocument())
	if err != nil {
		log.Err(err).Str("func", "*Handler.createSession").Msg("error creating session")
		http.Error(w, "error creating session", statusFromError(err))
		return
	}

	h.setSessionCookie(w, r, req.SessionID)
	utils.WriteJSON(w, sessionResponse(session), http.StatusCreated)
}

func (h *Handler) deleteSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		http.Error(w, ErrMissingSessionID.Error(), statusFromError(ErrMissingSessionID))
		return
	}

	if err := h.storages.Sessions.Delete(r.Context(), sessionID); err != nil {
		log.Err(err).Str("func", "*Handler.deleteSession").Msg("error deleting session")
		http.Error(w, "error deleting session", statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.DeleteSessionResponse{SessionID: sessionID, Deleted: true}, http.StatusOK)
}

// setSessionCookie hands the tenant id back to the browser. The cookie
// stays readable by client code (not http-only) because the game reads
// it on boot to skip the password screen.
func (h *Handler) setSessionCookie(w http.ResponseWriter, r *http.Request, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(sessionCookieMaxAge.Seconds()),
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
		HttpOnly: false,
	})
}

func sessionResponse(s models.Session) models.SessionResponse {
	return models.SessionResponse{
		SessionID: s.SessionID,
		Document:  s.Document,
		Version:   s.Version,
		UpdatedAt: s.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
