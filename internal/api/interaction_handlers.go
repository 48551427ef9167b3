package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tablescout/tablescout/internal/middleware"
	"github.com/tablescout/tablescout/internal/user"
)

// InteractionHandlers provides the interaction log endpoint.
type InteractionHandlers struct {
	store  user.InteractionStore
	logger *slog.Logger
}

// NewInteractionHandlers creates interaction handlers.
func NewInteractionHandlers(store user.InteractionStore, logger *slog.Logger) *InteractionHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &InteractionHandlers{store: store, logger: logger}
}

// InteractionRequest is the JSON body of POST /interactions.
type InteractionRequest struct {
	UserID       string `json:"user_id"`
	RestaurantID int64  `json:"restaurant_id"`
	Kind         string `json:"kind"`
}

// Record handles POST /interactions. The log is append-only; entries
// are never updated or deleted through the API.
func (h *InteractionHandlers) Record(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeBadRequest)
		WriteError(w, ctx, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	var req InteractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeBadRequest)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON body")
		return
	}

	req.UserID = strings.TrimSpace(req.UserID)
	if authID := middleware.GetUserID(r.Context()); authID != "" {
		req.UserID = authID
	}

	switch {
	case req.UserID == "":
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "user_id is required")
		return
	case req.RestaurantID <= 0:
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "restaurant_id is required")
		return
	}

	kind := user.InteractionKind(req.Kind)
	if !user.ValidKind(kind) {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInvalidInteraction)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeInvalidInteraction, "kind must be view, favorite or visit")
		return
	}

	in := &user.Interaction{
		UserID:       req.UserID,
		RestaurantID: req.RestaurantID,
		Kind:         kind,
	}
	if err := h.store.Append(r.Context(), in); err != nil {
		h.logger.ErrorContext(r.Context(), "interaction append failed", "user_id", req.UserID, "error", err)
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Append failed")
		return
	}

	writeJSON(w, r.Context(), http.StatusCreated, in)
}
