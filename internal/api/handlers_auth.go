package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/edakseva/grievance-server/internal/api/respond"
	"github.com/edakseva/grievance-server/internal/api/validate"
	"github.com/edakseva/grievance-server/internal/model"
	"github.com/edakseva/grievance-server/internal/session"
)

// AuthHandler handles login and logout.
type AuthHandler struct {
	sessions *session.Manager
	log      zerolog.Logger
}

func NewAuthHandler(mgr *session.Manager, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{sessions: mgr, log: log}
}

type loginRequest struct {
	Role     model.Role `json:"role"`
	ID       string     `json:"id"`
	Password string     `json:"password"`
}

type loginResponse struct {
	Session *model.UserSession `json:"session"`
	Token   string             `json:"token"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid request body")
		return
	}
	// Shape checks before credential evaluation so forms get field-level
	// messages rather than a generic rejection.
	if req.Role == model.RoleCitizen {
		if err := validate.CustomerID(req.ID); err != nil {
			respond.WriteBadRequest(w, err.Error())
			return
		}
		if err := validate.CitizenPassword(req.Password); err != nil {
			respond.WriteBadRequest(w, err.Error())
			return
		}
	}

	sess, token, err := h.sessions.Login(r.Context(), req.Role, req.ID, req.Password)
	if err != nil {
		h.log.Warn().Err(err).Str("role", string(req.Role)).Msg("login rejected")
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, loginResponse{Session: sess, Token: token})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context()); err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Current handles GET /api/auth/session
func (h *AuthHandler) Current(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Current(r.Context())
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, sess)
}
