package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tablescout/tablescout/internal/middleware"
	"github.com/tablescout/tablescout/internal/user"
)

// PreferenceHandlers provides the per-user preference endpoints.
type PreferenceHandlers struct {
	store  user.PreferenceStore
	logger *slog.Logger
}

// NewPreferenceHandlers creates preference handlers.
func NewPreferenceHandlers(store user.PreferenceStore, logger *slog.Logger) *PreferenceHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &PreferenceHandlers{store: store, logger: logger}
}

// preferenceUserID extracts the user id from /users/{id}/preferences.
// Returns empty string when the path does not match.
func preferenceUserID(path string) string {
	rest := strings.TrimPrefix(path, "/users/")
	if rest == path {
		return ""
	}
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "preferences" {
		return ""
	}
	return parts[0]
}

// HandlePreferences routes /users/{id}/preferences: GET reads the
// stored record, PUT replaces it wholesale.
func (h *PreferenceHandlers) HandlePreferences(w http.ResponseWriter, r *http.Request) {
	userID := preferenceUserID(r.URL.Path)
	if userID == "" {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeNotFound)
		WriteError(w, ctx, http.StatusNotFound, ErrCodeNotFound, "Not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getPreferences(w, r, userID)
	case http.MethodPut:
		h.putPreferences(w, r, userID)
	default:
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeBadRequest)
		WriteError(w, ctx, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
	}
}

func (h *PreferenceHandlers) getPreferences(w http.ResponseWriter, r *http.Request, userID string) {
	pref, err := h.store.Get(r.Context(), userID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "preference lookup failed", "user_id", userID, "error", err)
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Lookup failed")
		return
	}
	if pref == nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeNotFound)
		WriteError(w, ctx, http.StatusNotFound, ErrCodeNotFound, "No preferences stored for user")
		return
	}
	writeJSON(w, r.Context(), http.StatusOK, pref)
}

// PreferenceRequest is the JSON body of PUT /users/{id}/preferences.
// The record replaces any existing one wholesale; omitted fields
// clear.
type PreferenceRequest struct {
	DietaryPreferences []string `json:"dietary_preferences"`
	FavoriteCategories []string `json:"favorite_categories"`
	PricePreference    *int     `json:"price_preference"`
	PreferredRadiusKm  *float64 `json:"preferred_radius_km"`
	LastLat            *float64 `json:"last_lat"`
	LastLng            *float64 `json:"last_lng"`
}

// Validate checks the request fields.
func (req *PreferenceRequest) Validate() string {
	if req.PricePreference != nil && (*req.PricePreference < 1 || *req.PricePreference > 4) {
		return "price_preference must be between 1 and 4"
	}
	if req.PreferredRadiusKm != nil && *req.PreferredRadiusKm <= 0 {
		return "preferred_radius_km must be positive"
	}
	if req.LastLat != nil && (*req.LastLat < -90 || *req.LastLat > 90) {
		return "last_lat must be between -90 and 90"
	}
	if req.LastLng != nil && (*req.LastLng < -180 || *req.LastLng > 180) {
		return "last_lng must be between -180 and 180"
	}
	return ""
}

func (h *PreferenceHandlers) putPreferences(w http.ResponseWriter, r *http.Request, userID string) {
	var req PreferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeBadRequest)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON body")
		return
	}

	if msg := req.Validate(); msg != "" {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, msg)
		return
	}

	pref := &user.Preference{
		UserID:             userID,
		DietaryPreferences: req.DietaryPreferences,
		FavoriteCategories: req.FavoriteCategories,
		PricePreference:    req.PricePreference,
		PreferredRadiusKm:  req.PreferredRadiusKm,
		LastLat:            req.LastLat,
		LastLng:            req.LastLng,
	}

	if err := h.store.Upsert(r.Context(), pref); err != nil {
		h.logger.ErrorContext(r.Context(), "preference upsert failed", "user_id", userID, "error", err)
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Upsert failed")
		return
	}

	writeJSON(w, r.Context(), http.StatusOK, pref)
}
