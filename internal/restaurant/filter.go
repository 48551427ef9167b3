package restaurant

import (
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/tablescout/tablescout/internal/geo"
)

// Matches evaluates every active filter predicate against a single
// restaurant. Predicates whose inputs are absent are omitted, and all
// active predicates must hold (conjunction).
//
// The proximity predicate is the rectangular bounding-box
// approximation, not great-circle containment; candidates near the
// rectangle's corners may be admitted beyond the true radius. The
// ranker corrects for this with exact haversine scoring.
func Matches(f SearchFilters, r *Restaurant) bool {
	if f.Cuisine != nil && !r.HasCategory(*f.Cuisine) {
		return false
	}

	if f.MaxPrice != nil && r.PriceLevel > *f.MaxPrice {
		return false
	}
	if f.MinPrice != nil && r.PriceLevel < *f.MinPrice {
		return false
	}

	if f.MinRating != nil && r.Rating < *f.MinRating {
		return false
	}

	if len(f.Dietary) > 0 && !intersects(f.Dietary, r.DietaryOptions) {
		return false
	}

	if f.HasProximity() {
		box := geo.BoundingBox(*f.Lat, *f.Lng, *f.RadiusKm)
		if !box.Contains(r.Lat, r.Lng) {
			return false
		}
	}

	return true
}

// intersects reports whether the two label sets share at least one
// label, case-insensitively.
func intersects(requested, offered []string) bool {
	for _, want := range requested {
		for _, have := range offered {
			if strings.EqualFold(want, have) {
				return true
			}
		}
	}
	return false
}

// buildSearchQuery constructs the Postgres candidate query for the
// given filters. Conditions are accumulated only for predicates whose
// inputs are present, mirroring Matches. Rows are ordered by id before
// the LIMIT so that truncation is deterministic for tests; the order
// itself carries no meaning.
func buildSearchQuery(f SearchFilters) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`SELECT id, name, rating, total_reviews, price_level, categories, address,
		lat, lng, reviews, sentiment_score, place_url, dietary_options, popular_dishes, peak_hours
		FROM restaurants`)

	var conds []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if f.Cuisine != nil {
		// Categories are stored lowercased; exact label containment,
		// not substring.
		conds = append(conds, "categories @> ARRAY["+arg(strings.ToLower(*f.Cuisine))+"]::text[]")
	}
	if f.MaxPrice != nil {
		conds = append(conds, "price_level <= "+arg(*f.MaxPrice))
	}
	if f.MinPrice != nil {
		conds = append(conds, "price_level >= "+arg(*f.MinPrice))
	}
	if f.MinRating != nil {
		conds = append(conds, "rating >= "+arg(*f.MinRating))
	}
	if len(f.Dietary) > 0 {
		lowered := make([]string, len(f.Dietary))
		for i, d := range f.Dietary {
			lowered[i] = strings.ToLower(d)
		}
		conds = append(conds, "dietary_options && "+arg(pq.Array(lowered)))
	}
	if f.HasProximity() {
		box := geo.BoundingBox(*f.Lat, *f.Lng, *f.RadiusKm)
		conds = append(conds, "lat BETWEEN "+arg(box.MinLat)+" AND "+arg(box.MaxLat))
		conds = append(conds, "lng BETWEEN "+arg(box.MinLng)+" AND "+arg(box.MaxLng))
	}

	if len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}

	sb.WriteString(" ORDER BY id LIMIT ")
	sb.WriteString(arg(MaxCandidates))

	return sb.String(), args
}
