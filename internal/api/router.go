package api

import (
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/edakseva/grievance-server/internal/analysis"
	"github.com/edakseva/grievance-server/internal/api/recovery"
	"github.com/edakseva/grievance-server/internal/lifecycle"
	"github.com/edakseva/grievance-server/internal/orders"
	"github.com/edakseva/grievance-server/internal/session"
	"github.com/edakseva/grievance-server/internal/store"
)

// Deps bundles everything the router needs.
type Deps struct {
	Store    store.Store
	Sessions *session.Manager
	Ctrl     *lifecycle.Controller
	Provider analysis.Provider
	Orders   orders.Directory
	Log      zerolog.Logger
}

// NewRouter creates the HTTP router with all API routes.
func NewRouter(d Deps) *mux.Router {
	router := mux.NewRouter()

	// Global middlewares
	router.Use(recovery.Middleware)

	authHandler := NewAuthHandler(d.Sessions, d.Log)
	complaintHandler := NewComplaintHandler(d.Ctrl, d.Log)
	assistHandler := NewAssistHandler(d.Provider, d.Orders, d.Store, d.Log)
	healthHandler := NewHealthHandler()

	// Health endpoint (unauthenticated)
	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")

	// Auth endpoints (unauthenticated)
	router.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")

	// Everything below requires a valid token.
	authed := router.PathPrefix("/api").Subrouter()
	authed.Use(AuthMiddleware(d.Sessions))

	authed.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST")
	authed.HandleFunc("/auth/session", authHandler.Current).Methods("GET")

	// Complaint lifecycle
	authed.HandleFunc("/complaints", complaintHandler.List).Methods("GET")
	authed.HandleFunc("/complaints", complaintHandler.Submit).Methods("POST")
	authed.HandleFunc("/complaints/{complaintId}", complaintHandler.Get).Methods("GET")
	authed.HandleFunc("/complaints/{complaintId}/select", complaintHandler.Select).Methods("POST")
	authed.HandleFunc("/complaints/{complaintId}/draft", complaintHandler.UpdateDraft).Methods("PUT")
	authed.HandleFunc("/complaints/{complaintId}/dispatch", complaintHandler.Dispatch).Methods("POST")
	authed.HandleFunc("/sync", complaintHandler.Sync).Methods("POST")
	authed.HandleFunc("/stats", complaintHandler.Stats).Methods("GET")

	// Citizen extras
	authed.HandleFunc("/chat", assistHandler.Chat).Methods("POST")
	authed.HandleFunc("/orders", assistHandler.Orders).Methods("GET")
	authed.HandleFunc("/prefs", assistHandler.GetPrefs).Methods("GET")
	authed.HandleFunc("/prefs", assistHandler.PutPrefs).Methods("PUT")

	return router
}
