package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ecooverlay/server/pkg/identity"
	"github.com/ecooverlay/server/pkg/logger"
	"github.com/ecooverlay/server/pkg/ratelimit"
	"github.com/ecooverlay/server/pkg/rbac"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// openapiHandler serves the machine-readable API description.
func openapiHandler() http.HandlerFunc {
	doc := map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":   "ecooverlay server",
			"version": "1.0.0",
		},
		"paths": map[string]any{
			"/api/health":         map[string]any{"get": map[string]any{"summary": "Health probe"}},
			"/api/user/flags":     map[string]any{"get": map[string]any{"summary": "Feature flags for the current user"}},
			"/api/scan":           map[string]any{"post": map[string]any{"summary": "Submit a product scan"}},
			"/api/export":         map[string]any{"post": map[string]any{"summary": "Export own data"}},
			"/api/admin/limits":   map[string]any{"get": map[string]any{"summary": "Active rate-limit tiers"}},
			"/api/webhooks/paddle": map[string]any{"post": map[string]any{"summary": "Paddle subscription webhook"}},
		},
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, doc)
	}
}

// flagsHandler returns the feature-flag bundle for the session user.
func flagsHandler(authz *rbac.Authorizer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := identity.UserID(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Authentication required"})
			return
		}
		flags, err := authz.FeatureFlags(r.Context(), userID)
		if err != nil {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "Forbidden"})
			return
		}
		writeJSON(w, http.StatusOK, flags)
	}
}

// scanHandler accepts a product scan submission.
func scanHandler(log *slog.Logger) http.HandlerFunc {
	type scanRequest struct {
		Barcode string `json:"barcode"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req scanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Barcode == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "barcode is required"})
			return
		}

		userID, _ := identity.UserID(r.Context())
		role, _ := rbac.GetRoleFromContext(r.Context())
		scanID := uuid.NewString()
		log.InfoContext(r.Context(), "scan accepted",
			logger.UserID(userID),
			logger.Role(role),
			slog.String("scan_id", scanID),
			slog.String("barcode", req.Barcode),
		)
		writeJSON(w, http.StatusAccepted, map[string]string{
			"id":      scanID,
			"barcode": req.Barcode,
			"status":  "queued",
		})
	}
}

// exportHandler acknowledges an export request.
func exportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusAccepted, map[string]string{
			"id":          uuid.NewString(),
			"status":      "queued",
			"requestedAt": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// limitsHandler exposes the active tier table and per-role API quotas to
// administrators.
func limitsHandler(tiers ratelimit.Tiers) http.HandlerFunc {
	type roleQuota struct {
		Requests int    `json:"requests"`
		Window   string `json:"window"`
	}
	roleQuotas := make(map[string]roleQuota, len(rbac.AllRoles()))
	for _, role := range rbac.AllRoles() {
		rl := rbac.RateLimitForRole(role)
		roleQuotas[string(role)] = roleQuota{
			Requests: rl.Requests,
			Window:   rl.Window.String(),
		}
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"tiers": tiers,
			"roles": roleQuotas,
		})
	}
}
