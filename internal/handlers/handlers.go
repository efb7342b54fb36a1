package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"cloudunify-backend/internal/auth"
	"cloudunify-backend/internal/seed"
	"cloudunify-backend/internal/storage"
)

type Handler struct {
	store       *storage.Storage
	seeder      *seed.Seeder
	seedLimiter func(http.Handler) http.Handler
}

// New builds the HTTP handler set. seedLimiter is optional; when nil the
// seed routes run unthrottled.
func New(store *storage.Storage, seeder *seed.Seeder, seedLimiter func(http.Handler) http.Handler) *Handler {
	return &Handler{
		store:       store,
		seeder:      seeder,
		seedLimiter: seedLimiter,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	// Health
	r.Get("/", h.Health)
	r.Get("/health", h.Health)
	r.Get("/healthz", h.Health)

	// Entity listings
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware)
		r.Get("/v1/organizations", h.ListOrganizations)
		r.Get("/v1/users", h.ListUsers)
		r.Get("/v1/resources", h.ListResources)
	})

	// Seeding
	r.Route("/seed", func(r chi.Router) {
		if h.seedLimiter != nil {
			r.Use(h.seedLimiter)
		}
		r.Use(SeedGuard)
		r.Post("/", h.SeedAll)
		r.Post("/all", h.SeedAll)
		r.Get("/verify", h.SeedVerify)
		r.Post("/{entity}", h.SeedEntity)
	})
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"message":     "Service is healthy",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"environment": env,
	})
}

func (h *Handler) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.store.ListOrganizations(r.Context())
	if err != nil {
		http.Error(w, "Failed to list organizations", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, orgs)
}

// ListUsers filters by the orgId query parameter, defaulting to the token's
// organization when present.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	orgID := r.URL.Query().Get("orgId")
	if orgID == "" {
		if claims, ok := auth.ClaimsFromContext(r.Context()); ok && claims.OrganizationID != nil {
			orgID = *claims.OrganizationID
		}
	}

	users, err := h.store.ListUsers(r.Context(), orgID)
	if err != nil {
		http.Error(w, "Failed to list users", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *Handler) ListResources(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := storage.ResourceFilter{
		Provider: q.Get("provider"),
		Status:   q.Get("status"),
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		filter.Page = page
	}
	if pageSize, err := strconv.Atoi(q.Get("pageSize")); err == nil {
		filter.PageSize = pageSize
	}

	resources, err := h.store.ListResources(r.Context(), filter)
	if err != nil {
		http.Error(w, "Failed to list resources", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, resources)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
