package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"

	"cloudunify-backend/internal/models"
	"cloudunify-backend/internal/seed"
)

// SeedGuard enforces the X-Seed-Token header in production; all callers are
// accepted in other environments.
func SeedGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if os.Getenv("APP_ENV") != "production" {
			next.ServeHTTP(w, r)
			return
		}

		expected := os.Getenv("SEED_ADMIN_TOKEN")
		provided := r.Header.Get("X-Seed-Token")
		if expected == "" || provided == "" || provided != expected {
			writeJSON(w, http.StatusForbidden, map[string]any{
				"error": "Access denied. Provide valid X-Seed-Token header in production.",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SeedEntity handles POST /seed/{entity} with an optional JSON array body.
func (h *Handler) SeedEntity(w http.ResponseWriter, r *http.Request) {
	entity := chi.URLParam(r, "entity")
	if !seed.IsSupportedEntity(entity) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": "Entity must be one of " + strings.Join(seed.Entities, ", "),
		})
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var records []models.SeedRecord
	if len(body) > 0 {
		if err := json.Unmarshal(body, &records); err != nil {
			http.Error(w, "Request body must be a JSON array of records", http.StatusBadRequest)
			return
		}
	}

	result, err := h.seeder.Seed(r.Context(), entity, records)
	if err != nil {
		log.Printf("ERROR Seeding %s failed: %v", entity, err)
		http.Error(w, "Seeding failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// SeedAll handles POST /seed and POST /seed/all with an optional body of
// per-entity record arrays.
func (h *Handler) SeedAll(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var overrides seed.SeedAllBody
	if len(body) > 0 {
		if err := json.Unmarshal(body, &overrides); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}

	result, err := h.seeder.SeedAll(r.Context(), overrides)
	if err != nil {
		log.Printf("ERROR Seeding all entities failed: %v", err)
		http.Error(w, "Seeding failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// SeedVerify handles GET /seed/verify.
func (h *Handler) SeedVerify(w http.ResponseWriter, r *http.Request) {
	result, err := h.seeder.Verify(r.Context())
	if err != nil {
		log.Printf("ERROR Seed verification failed: %v", err)
		http.Error(w, "Verification failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
