package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/tablescout/tablescout/internal/middleware"
	"github.com/tablescout/tablescout/internal/restaurant"
)

// SearchHandlers provides the restaurant search endpoint.
type SearchHandlers struct {
	searcher *restaurant.Searcher
	metrics  *middleware.Metrics
	logger   *slog.Logger
}

// NewSearchHandlers creates search handlers. metrics may be nil.
func NewSearchHandlers(searcher *restaurant.Searcher, metrics *middleware.Metrics, logger *slog.Logger) *SearchHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchHandlers{
		searcher: searcher,
		metrics:  metrics,
		logger:   logger,
	}
}

// SearchResponse is the JSON body of a successful search.
type SearchResponse struct {
	Restaurants []*restaurant.ScoredRestaurant `json:"restaurants"`
	Count       int                            `json:"count"`
}

// Search handles GET /restaurants.
//
// Query parameters: cuisine, minPrice, maxPrice, rating, lat, lng,
// radius, dietary (comma separated), userId, sortBy. All optional;
// malformed numeric values are ignored rather than rejected, except
// coordinates outside the valid range which return 400.
func (h *SearchHandlers) Search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeBadRequest)
		WriteError(w, ctx, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	filters := restaurant.ParseSearchFilters(r.URL.Query())

	if filters.Lat != nil && (*filters.Lat < -90 || *filters.Lat > 90) {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInvalidCoordinates)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeInvalidCoordinates, "lat must be between -90 and 90")
		return
	}
	if filters.Lng != nil && (*filters.Lng < -180 || *filters.Lng > 180) {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInvalidCoordinates)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeInvalidCoordinates, "lng must be between -180 and 180")
		return
	}

	ctx := r.Context()

	// A bearer-authenticated user id wins over the query parameter.
	if authID := middleware.GetUserID(ctx); authID != "" {
		filters.UserID = authID
	} else if filters.UserID != "" {
		ctx = middleware.SetUserID(ctx, filters.UserID)
		middleware.UpdateResponseContext(w, ctx)
	}

	results, err := h.searcher.Search(ctx, filters)
	if err != nil {
		h.logger.ErrorContext(ctx, "search failed", "error", err)
		ectx := middleware.SetErrorCode(ctx, ErrCodeInternal)
		WriteError(w, ectx, http.StatusInternalServerError, ErrCodeInternal, "Search failed")
		return
	}

	if h.metrics != nil {
		ranking := "anonymous"
		if filters.UserID != "" {
			ranking = "personalized"
		}
		h.metrics.ObserveSearchResults(ranking, len(results))
	}

	writeJSON(w, ctx, http.StatusOK, SearchResponse{
		Restaurants: results,
		Count:       len(results),
	})
}

// writeJSON writes a JSON response body with the given status.
func writeJSON(w http.ResponseWriter, ctx context.Context, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}
