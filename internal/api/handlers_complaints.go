package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/edakseva/grievance-server/internal/api/respond"
	"github.com/edakseva/grievance-server/internal/api/validate"
	"github.com/edakseva/grievance-server/internal/lifecycle"
	"github.com/edakseva/grievance-server/internal/model"
)

// ComplaintHandler exposes the complaint lifecycle over HTTP.
type ComplaintHandler struct {
	ctrl *lifecycle.Controller
	log  zerolog.Logger
}

func NewComplaintHandler(ctrl *lifecycle.Controller, log zerolog.Logger) *ComplaintHandler {
	return &ComplaintHandler{ctrl: ctrl, log: log}
}

// List handles GET /api/complaints with optional source and tab filters.
func (h *ComplaintHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := lifecycle.ListFilter{
		Source: model.Source(r.URL.Query().Get("source")),
		Tab:    r.URL.Query().Get("tab"),
	}
	recs, err := h.ctrl.List(r.Context(), sessionFrom(r), filter)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	if recs == nil {
		recs = []*model.ComplaintRecord{}
	}
	respond.WriteJSON(w, http.StatusOK, recs)
}

// Get handles GET /api/complaints/{complaintId}
func (h *ComplaintHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.ctrl.Get(r.Context(), sessionFrom(r), mux.Vars(r)["complaintId"])
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, rec)
}

type submitRequest struct {
	Text    string     `json:"text"`
	Subject string     `json:"subject"`
	Type    model.Kind `json:"type"`
	OrderID string     `json:"orderId,omitempty"`
}

// Submit handles POST /api/complaints
func (h *ComplaintHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid request body")
		return
	}
	if err := validate.NonEmpty("text", req.Text); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := validate.NonEmpty("subject", req.Subject); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if req.Type == "" {
		req.Type = model.KindComplaint
	}

	rec, err := h.ctrl.SubmitPortalComplaint(r.Context(), sessionFrom(r), req.Text, req.Subject, req.Type, req.OrderID)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, rec)
}

type selectResponse struct {
	Record *model.ComplaintRecord `json:"record"`
	Stages []string               `json:"stages"`
}

// Select handles POST /api/complaints/{complaintId}/select
// The staged sequence runs to completion; the markers that fired are returned
// in order for progress display.
func (h *ComplaintHandler) Select(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["complaintId"]

	var stages []string
	rec, err := h.ctrl.Select(r.Context(), sessionFrom(r), id, func(s lifecycle.Stage) {
		stages = append(stages, s.String())
	})
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	if stages == nil {
		stages = []string{}
	}
	respond.WriteJSON(w, http.StatusOK, selectResponse{Record: rec, Stages: stages})
}

type draftRequest struct {
	Draft string `json:"draft"`
}

// UpdateDraft handles PUT /api/complaints/{complaintId}/draft
func (h *ComplaintHandler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["complaintId"]

	var req draftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid request body")
		return
	}
	rec, err := h.ctrl.EditDraft(r.Context(), sessionFrom(r), id, req.Draft)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, rec)
}

// Dispatch handles POST /api/complaints/{complaintId}/dispatch
func (h *ComplaintHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["complaintId"]

	rec, err := h.ctrl.Dispatch(r.Context(), sessionFrom(r), id)
	if err != nil {
		h.log.Warn().Err(err).Str("complaint_id", id).Msg("dispatch failed")
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, rec)
}

type syncResponse struct {
	Imported []*model.ComplaintRecord `json:"imported"`
	Count    int                      `json:"count"`
}

// Sync handles POST /api/sync
func (h *ComplaintHandler) Sync(w http.ResponseWriter, r *http.Request) {
	imported, err := h.ctrl.Sync(r.Context(), sessionFrom(r))
	if err != nil {
		h.log.Warn().Err(err).Msg("external sync failed")
		respond.WriteDomainError(w, err)
		return
	}
	if imported == nil {
		imported = []*model.ComplaintRecord{}
	}
	respond.WriteJSON(w, http.StatusOK, syncResponse{Imported: imported, Count: len(imported)})
}

// Stats handles GET /api/stats
func (h *ComplaintHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.ctrl.Stats(r.Context())
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, stats)
}
