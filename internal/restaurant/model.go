// Package restaurant provides the restaurant data model, the candidate
// filter, and the storage interfaces backing restaurant search.
package restaurant

import (
	"net/url"
	"strconv"
	"strings"
)

// MaxCandidates caps the number of rows the candidate filter returns.
// When more restaurants match, which 50 survive is decided by store
// iteration order; that order is arbitrary, not meaningful.
const MaxCandidates = 50

// Restaurant is a single restaurant record. Records are immutable for
// the duration of a query; the ranker never mutates the store.
type Restaurant struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Rating         float64  `json:"rating"`        // 0-5
	TotalReviews   int      `json:"total_reviews"` // >= 0
	PriceLevel     int      `json:"price_level"`   // 1-4
	Categories     []string `json:"categories"`    // non-empty cuisine labels
	Address        string   `json:"address"`
	Lat            float64  `json:"lat"`
	Lng            float64  `json:"lng"`
	Reviews        []string `json:"reviews"`
	SentimentScore float64  `json:"sentiment_score"` // -1.0..1.0
	PlaceURL       string   `json:"place_url"`
	DietaryOptions []string `json:"dietary_options,omitempty"`
	PopularDishes  []string `json:"popular_dishes,omitempty"`
	PeakHours      []string `json:"peak_hours,omitempty"`
}

// HasCategory reports whether the restaurant carries the given cuisine
// label. Comparison is case-insensitive on the whole label, not substring.
func (r *Restaurant) HasCategory(cuisine string) bool {
	for _, c := range r.Categories {
		if strings.EqualFold(c, cuisine) {
			return true
		}
	}
	return false
}

// SearchFilters describes one search request. Every field is optional;
// a nil pointer (or empty slice/string) means the corresponding
// predicate is simply not applied. There is no wildcard sentinel at
// this level: the HTTP layer maps "all" to a nil Cuisine.
type SearchFilters struct {
	Cuisine   *string
	MinPrice  *int     // 1-4
	MaxPrice  *int     // 1-4
	MinRating *float64 // 0-5
	Lat       *float64
	Lng       *float64
	RadiusKm  *float64
	Dietary   []string
	UserID    string
	SortBy    string // "rating", "price" or "distance"; advisory only
}

// HasOrigin reports whether both coordinates are present.
func (f *SearchFilters) HasOrigin() bool {
	return f.Lat != nil && f.Lng != nil
}

// HasProximity reports whether the proximity predicate and sub-score
// apply: radius plus both coordinates. A radius without an origin is
// skipped, not an error.
func (f *SearchFilters) HasProximity() bool {
	return f.HasOrigin() && f.RadiusKm != nil
}

// CuisineWildcard is the query-parameter value meaning "no cuisine
// filter". It is folded into an absent filter during parsing and never
// reaches predicate construction.
const CuisineWildcard = "all"

// ParseSearchFilters builds SearchFilters from request query parameters.
// Malformed numeric fields degrade to "filter absent"; parsing never
// fails.
func ParseSearchFilters(values url.Values) SearchFilters {
	var f SearchFilters

	if cuisine := strings.TrimSpace(values.Get("cuisine")); cuisine != "" && !strings.EqualFold(cuisine, CuisineWildcard) {
		f.Cuisine = &cuisine
	}

	f.MinPrice = parseIntParam(values.Get("minPrice"))
	f.MaxPrice = parseIntParam(values.Get("maxPrice"))
	f.MinRating = parseFloatParam(values.Get("rating"))
	f.Lat = parseFloatParam(values.Get("lat"))
	f.Lng = parseFloatParam(values.Get("lng"))
	f.RadiusKm = parseFloatParam(values.Get("radius"))

	if dietary := strings.TrimSpace(values.Get("dietary")); dietary != "" {
		for _, label := range strings.Split(dietary, ",") {
			label = strings.TrimSpace(label)
			if label != "" {
				f.Dietary = append(f.Dietary, label)
			}
		}
	}

	f.UserID = strings.TrimSpace(values.Get("userId"))

	switch sortBy := values.Get("sortBy"); sortBy {
	case "rating", "price", "distance":
		f.SortBy = sortBy
	}

	return f
}

// parseIntParam parses an integer query parameter. Empty or malformed
// input yields nil.
func parseIntParam(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// parseFloatParam parses a float query parameter. Empty or malformed
// input yields nil.
func parseFloatParam(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// ScoredRestaurant is a restaurant plus its transient ranking score.
// It exists only for the duration of a single search response and is
// never persisted. Score is approximately in [0,1]; the personalized
// branch can exceed 1.0 (see the ranking package).
type ScoredRestaurant struct {
	*Restaurant
	Score float64 `json:"score"`

	// DistanceKm is the exact haversine distance from the search
	// origin, present only when an origin was supplied.
	DistanceKm *float64 `json:"distance_km,omitempty"`

	// Cell is a coarse geohash of the restaurant location, used by the
	// client to cluster map markers.
	Cell string `json:"cell,omitempty"`
}
