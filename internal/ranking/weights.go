package ranking

import (
	"strings"
)

// AnonymousResultCap is the maximum number of results returned on the
// anonymous ranking path. The personalized path returns every filtered
// candidate and is intentionally uncapped.
const AnonymousResultCap = 10

// RecentInteractionWindow is how many of a user's most recent
// interactions are consulted for the personalization bonus.
const RecentInteractionWindow = 20

// popularityPivot is the review count at which the popularity
// component saturates at 1.0.
const popularityPivot = 1000.0

// RatingScore normalizes a 0-5 star rating to [0, 1].
func RatingScore(rating float64) float64 {
	return clamp01(rating / 5.0)
}

// PriceScore normalizes a 1-4 price level to [0, 1], inverted so
// cheaper scores higher: level 1 -> 1.0, level 4 -> 0.25.
func PriceScore(priceLevel int) float64 {
	return clamp01(float64(5-priceLevel) / 4.0)
}

// SentimentScore maps a sentiment value in [-1, 1] to [0, 1].
func SentimentScore(sentiment float64) float64 {
	return clamp01((sentiment + 1.0) / 2.0)
}

// ProximityScore converts an exact haversine distance to [0, 1],
// linear in the search radius: 1.0 at the origin, 0 at or beyond the
// radius. Note this uses true great-circle distance even though the
// candidate filter admits by bounding box, so corner-admitted
// candidates simply score 0 here.
func ProximityScore(distanceKm, radiusKm float64) float64 {
	if radiusKm <= 0 {
		return 0
	}
	return clamp01(1.0 - distanceKm/radiusKm)
}

// PopularityScore converts a total review count to [0, 1], saturating
// at 1000 reviews.
func PopularityScore(totalReviews int) float64 {
	if totalReviews <= 0 {
		return 0
	}
	v := float64(totalReviews) / popularityPivot
	if v > 1 {
		return 1
	}
	return v
}

// SetFraction returns |requested ∩ offered| / |requested|, comparing
// labels case-insensitively. Returns 0 when requested is empty.
func SetFraction(requested, offered []string) float64 {
	if len(requested) == 0 {
		return 0
	}
	matched := 0
	for _, want := range requested {
		for _, have := range offered {
			if strings.EqualFold(want, have) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(requested))
}

// Weights defines the anonymous composite weights. The rating, price
// and sentiment weights together form the base (0.4 by default);
// proximity and dietary apply only when their inputs are present.
type Weights struct {
	Rating     float64 `json:"rating"`     // default 0.2
	Price      float64 `json:"price"`      // default 0.1
	Sentiment  float64 `json:"sentiment"`  // default 0.1
	Proximity  float64 `json:"proximity"`  // default 0.3
	Dietary    float64 `json:"dietary"`    // default 0.2
	Popularity float64 `json:"popularity"` // default 0.1
}

// PersonalWeights defines the personalization replacement score
// weights.
type PersonalWeights struct {
	Dietary       float64 `json:"dietary"`        // default 0.3
	Categories    float64 `json:"categories"`     // default 0.3
	PriceCeiling  float64 `json:"price_ceiling"`  // default 0.2
	FavoriteBonus float64 `json:"favorite_bonus"` // default 0.1 per favorite

	// ClampPersonal bounds the personalized score to 1.0. Off by
	// default: the unbounded interaction bonus is preserved observed
	// behavior, and this flag is the designated fix point.
	ClampPersonal bool `json:"clamp_personal"`
}

// Components holds the unweighted [0, 1] sub-scores of one restaurant
// for the anonymous composite. Proximity and Dietary carry presence
// flags because their absence omits the contribution rather than
// contributing zero-weighted noise.
type Components struct {
	Rating     float64
	Price      float64
	Sentiment  float64
	Popularity float64

	Proximity    float64
	HasProximity bool

	Dietary    float64
	HasDietary bool
}

// CompositeScore computes the anonymous weighted score:
//
//	base      = rating*0.2 + price*0.1 + sentiment*0.1
//	proximity = max(0, 1 - d/r) * 0.3        (only with origin+radius)
//	dietary   = matchFraction * 0.2          (only with requested set)
//	popularity= min(1, reviews/1000) * 0.1
//
// The result is in [0, 1].
func CompositeScore(c Components, w *Weights) float64 {
	score := c.Rating*w.Rating + c.Price*w.Price + c.Sentiment*w.Sentiment +
		c.Popularity*w.Popularity

	if c.HasProximity {
		score += c.Proximity * w.Proximity
	}
	if c.HasDietary {
		score += c.Dietary * w.Dietary
	}
	return score
}

// PersonalComponents holds the inputs to the personalization
// replacement score for one restaurant.
type PersonalComponents struct {
	DietaryFraction float64
	HasDietary      bool

	CategoryFraction float64
	HasCategories    bool

	WithinPriceCeiling bool
	HasPriceCeiling    bool

	// FavoriteCount is how many of the user's recent interactions
	// (most-recent RecentInteractionWindow) favorited this restaurant.
	FavoriteCount int
}

// PersonalScore computes the personalization score that replaces the
// anonymous composite when a stored preference record exists. The
// favorite-interaction term is unbounded unless ClampPersonal is set,
// so the returned value can exceed 1.0.
func PersonalScore(c PersonalComponents, w *PersonalWeights) float64 {
	var score float64

	if c.HasDietary {
		score += c.DietaryFraction * w.Dietary
	}
	if c.HasCategories {
		score += c.CategoryFraction * w.Categories
	}
	if c.HasPriceCeiling && c.WithinPriceCeiling {
		score += w.PriceCeiling
	}

	score += float64(c.FavoriteCount) * w.FavoriteBonus

	if w.ClampPersonal && score > 1.0 {
		return 1.0
	}
	return score
}

// clamp01 clamps v to the [0, 1] range.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
