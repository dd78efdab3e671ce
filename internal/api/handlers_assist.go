package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/edakseva/grievance-server/internal/analysis"
	"github.com/edakseva/grievance-server/internal/api/respond"
	"github.com/edakseva/grievance-server/internal/api/validate"
	"github.com/edakseva/grievance-server/internal/model"
	"github.com/edakseva/grievance-server/internal/orders"
	"github.com/edakseva/grievance-server/internal/store"
)

// AssistHandler covers the citizen-side extras: assistant chat, order lookup
// and display preferences.
type AssistHandler struct {
	provider analysis.Provider
	orders   orders.Directory
	store    store.Store
	log      zerolog.Logger
}

func NewAssistHandler(provider analysis.Provider, dir orders.Directory, s store.Store, log zerolog.Logger) *AssistHandler {
	return &AssistHandler{provider: provider, orders: dir, store: s, log: log}
}

type chatRequest struct {
	Message string           `json:"message"`
	History []model.ChatTurn `json:"history"`
}

// Chat handles POST /api/chat
// The assistant is stateless: callers resupply the full history every turn.
func (h *AssistHandler) Chat(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if sess == nil || sess.Role != model.RoleCitizen {
		respond.WriteError(w, http.StatusForbidden, "assistant chat requires a citizen session")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid request body")
		return
	}
	if err := validate.NonEmpty("message", req.Message); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	reply, err := h.provider.Chat(r.Context(), req.Message, req.History)
	if err != nil {
		h.log.Warn().Err(err).Msg("assistant chat failed")
		respond.WriteError(w, http.StatusBadGateway, "assistant is unavailable, please try again later")
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

// Orders handles GET /api/orders
func (h *AssistHandler) Orders(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if sess == nil {
		respond.WriteError(w, http.StatusUnauthorized, "login required")
		return
	}
	got, err := h.orders.OrdersFor(r.Context(), sess.CustomerID)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	if got == nil {
		got = []model.PostOrder{}
	}
	respond.WriteJSON(w, http.StatusOK, got)
}

// GetPrefs handles GET /api/prefs
func (h *AssistHandler) GetPrefs(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.Prefs().Get(r.Context())
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, p)
}

// PutPrefs handles PUT /api/prefs
func (h *AssistHandler) PutPrefs(w http.ResponseWriter, r *http.Request) {
	var req model.Prefs
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid request body")
		return
	}
	if err := validate.Language(req.Language); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := validate.DisplayScale(req.DisplayScale); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := h.store.Prefs().Put(r.Context(), &req); err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, &req)
}
