package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/pacsforge/siteserver/pkg/session"
)

// ErrBadCredentials is returned by an Authenticator when the presented
// credentials do not match any known user.
var ErrBadCredentials = errors.New("invalid credentials")

// Authenticator verifies login credentials against an identity source and
// returns the identity fields of the session to register. Credential
// policy lives behind this interface; the handlers only care whether it
// succeeded.
type Authenticator interface {
	Authenticate(ctx context.Context, login, password string) (*session.Session, error)
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// LoginHandler handles POST /api/v1/login: verify credentials, register a
// fresh session, hand back its bearer token.
func LoginHandler(auth Authenticator, registry *session.Registry, tokens *session.TokenManager, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "malformed login request")
			return
		}
		if req.Login == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "login and password are required")
			return
		}

		s, err := auth.Authenticate(r.Context(), req.Login, req.Password)
		if err != nil {
			writeFailure(w, logger, err)
			return
		}

		s.ID = uuid.NewString()
		if err := registry.Register(s); err != nil {
			writeFailure(w, logger, err)
			return
		}
		token, err := tokens.Mint(s.ID)
		if err != nil {
			registry.Unregister(s.ID)
			writeFailure(w, logger, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"token":      token,
			"session_id": s.ID,
			"login":      s.Login,
			"site_id":    s.SiteID,
			"superuser":  s.Superuser,
		})
	}
}

// LogoutHandler handles POST /api/v1/logout for an authenticated session.
func LogoutHandler(registry *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := SessionFrom(r.Context())
		if s == nil {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		registry.Unregister(s.ID)
		writeJSON(w, http.StatusOK, map[string]any{"logged_out": true})
	}
}
