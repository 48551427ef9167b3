package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/tablescout/tablescout/internal/middleware"
	"github.com/tablescout/tablescout/internal/restaurant"
)

// RestaurantHandlers provides restaurant CRUD endpoints.
type RestaurantHandlers struct {
	store  restaurant.Store
	logger *slog.Logger
}

// NewRestaurantHandlers creates restaurant handlers.
func NewRestaurantHandlers(store restaurant.Store, logger *slog.Logger) *RestaurantHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &RestaurantHandlers{store: store, logger: logger}
}

// HandleRestaurantByID handles GET /restaurants/{id}.
func (h *RestaurantHandlers) HandleRestaurantByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeBadRequest)
		WriteError(w, ctx, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	idStr := strings.TrimPrefix(r.URL.Path, "/restaurants/")
	if idStr == "" || strings.Contains(idStr, "/") {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeNotFound)
		WriteError(w, ctx, http.StatusNotFound, ErrCodeNotFound, "Not found")
		return
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeBadRequest)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeBadRequest, "Restaurant id must be an integer")
		return
	}

	rec, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "restaurant lookup failed", "id", id, "error", err)
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Lookup failed")
		return
	}
	if rec == nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeRestaurantNotFound)
		WriteError(w, ctx, http.StatusNotFound, ErrCodeRestaurantNotFound, "Restaurant not found")
		return
	}

	writeJSON(w, r.Context(), http.StatusOK, rec)
}

// CreateRestaurantRequest is the JSON body of POST /restaurants.
type CreateRestaurantRequest struct {
	Name           string   `json:"name"`
	Rating         float64  `json:"rating"`
	TotalReviews   int      `json:"total_reviews"`
	PriceLevel     int      `json:"price_level"`
	Categories     []string `json:"categories"`
	Address        string   `json:"address"`
	Lat            float64  `json:"lat"`
	Lng            float64  `json:"lng"`
	Reviews        []string `json:"reviews"`
	SentimentScore float64  `json:"sentiment_score"`
	PlaceURL       string   `json:"place_url"`
	DietaryOptions []string `json:"dietary_options"`
	PopularDishes  []string `json:"popular_dishes"`
	PeakHours      []string `json:"peak_hours"`
}

// Validate checks the request fields.
func (req *CreateRestaurantRequest) Validate() string {
	switch {
	case strings.TrimSpace(req.Name) == "":
		return "name is required"
	case req.Rating < 0 || req.Rating > 5:
		return "rating must be between 0 and 5"
	case req.PriceLevel < 1 || req.PriceLevel > 4:
		return "price_level must be between 1 and 4"
	case len(req.Categories) == 0:
		return "at least one category is required"
	case req.Lat < -90 || req.Lat > 90:
		return "lat must be between -90 and 90"
	case req.Lng < -180 || req.Lng > 180:
		return "lng must be between -180 and 180"
	case req.SentimentScore < -1 || req.SentimentScore > 1:
		return "sentiment_score must be between -1 and 1"
	case req.TotalReviews < 0:
		return "total_reviews must not be negative"
	}
	return ""
}

// CreateRestaurant handles POST /restaurants.
func (h *RestaurantHandlers) CreateRestaurant(w http.ResponseWriter, r *http.Request) {
	var req CreateRestaurantRequest
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

	rec := &restaurant.Restaurant{
		Name:           strings.TrimSpace(req.Name),
		Rating:         req.Rating,
		TotalReviews:   req.TotalReviews,
		PriceLevel:     req.PriceLevel,
		Categories:     req.Categories,
		Address:        req.Address,
		Lat:            req.Lat,
		Lng:            req.Lng,
		Reviews:        req.Reviews,
		SentimentScore: req.SentimentScore,
		PlaceURL:       req.PlaceURL,
		DietaryOptions: req.DietaryOptions,
		PopularDishes:  req.PopularDishes,
		PeakHours:      req.PeakHours,
	}

	if err := h.store.Insert(r.Context(), rec); err != nil {
		h.logger.ErrorContext(r.Context(), "restaurant insert failed", "error", err)
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Insert failed")
		return
	}

	writeJSON(w, r.Context(), http.StatusCreated, rec)
}

// HandleRestaurants routes /restaurants by method: GET runs search,
// POST creates a restaurant.
func (h *RestaurantHandlers) HandleRestaurants(search *SearchHandlers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			search.Search(w, r)
		case http.MethodPost:
			h.CreateRestaurant(w, r)
		default:
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeBadRequest)
			WriteError(w, ctx, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		}
	}
}
