package restaurant

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/tablescout/tablescout/internal/geo"
	"github.com/tablescout/tablescout/internal/ranking"
	"github.com/tablescout/tablescout/internal/user"
)

// Searcher turns a filter request into an ordered, size-capped result
// list: one candidate query against the store, then pure in-memory
// scoring. The store never scores; the ranking step never touches the
// store beyond the optional preference and interaction reads.
type Searcher struct {
	store        Store
	prefs        user.PreferenceStore
	interactions user.InteractionStore
	cal          *ranking.Calibration
	logger       *slog.Logger
}

// NewSearcher creates a Searcher. prefs and interactions may be nil,
// in which case every request takes the anonymous path.
func NewSearcher(store Store, prefs user.PreferenceStore, interactions user.InteractionStore, cal *ranking.Calibration, logger *slog.Logger) *Searcher {
	if cal == nil {
		cal = ranking.DefaultCalibration()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Searcher{
		store:        store,
		prefs:        prefs,
		interactions: interactions,
		cal:          cal,
		logger:       logger,
	}
}

// Search runs the candidate filter and ranks the result.
//
// Anonymous requests get the additive composite score, sorted
// descending (stable sort, so equal scores keep candidate order) and
// capped to the top 10. Requests carrying a user id with a stored
// preference record instead get the personalization replacement score
// and are returned uncapped, up to the 50-row filter cap. The
// asymmetry is deliberate; see the ranking package doc.
func (s *Searcher) Search(ctx context.Context, f SearchFilters) ([]*ScoredRestaurant, error) {
	candidates, err := s.store.Search(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("candidate filter: %w", err)
	}

	scored := make([]*ScoredRestaurant, 0, len(candidates))
	for _, r := range candidates {
		sr := &ScoredRestaurant{
			Restaurant: r,
			Cell:       geo.EncodeGeohash(r.Lat, r.Lng, geo.DefaultGeohashPrecision),
		}
		if f.HasOrigin() {
			d := geo.Haversine(*f.Lat, *f.Lng, r.Lat, r.Lng)
			sr.DistanceKm = &d
		}
		scored = append(scored, sr)
	}

	if f.UserID != "" && s.prefs != nil {
		pref, err := s.prefs.Get(ctx, f.UserID)
		if err != nil {
			return nil, fmt.Errorf("load preference: %w", err)
		}
		if pref != nil {
			return s.rankPersonal(ctx, f, scored, pref)
		}
		// Unknown user: no preference record, fall through to the
		// anonymous path.
	}

	return s.rankAnonymous(f, scored), nil
}

// rankAnonymous applies the additive composite score, caps to the top
// 10 and honors the advisory sort key.
func (s *Searcher) rankAnonymous(f SearchFilters, scored []*ScoredRestaurant) []*ScoredRestaurant {
	hasDietary := len(f.Dietary) > 0

	for _, sr := range scored {
		c := ranking.Components{
			Rating:     ranking.RatingScore(sr.Rating),
			Price:      ranking.PriceScore(sr.PriceLevel),
			Sentiment:  ranking.SentimentScore(sr.SentimentScore),
			Popularity: ranking.PopularityScore(sr.TotalReviews),
		}
		if f.HasProximity() && sr.DistanceKm != nil {
			c.Proximity = ranking.ProximityScore(*sr.DistanceKm, *f.RadiusKm)
			c.HasProximity = true
		}
		if hasDietary && len(sr.DietaryOptions) > 0 {
			c.Dietary = ranking.SetFraction(f.Dietary, sr.DietaryOptions)
			c.HasDietary = true
		}
		sr.Score = ranking.CompositeScore(c, &s.cal.Anonymous)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > ranking.AnonymousResultCap {
		scored = scored[:ranking.AnonymousResultCap]
	}

	applySortBy(f, scored)
	return scored
}

// rankPersonal applies the personalization replacement score. No cap
// beyond the candidate filter's 50 rows, and the advisory sort key is
// ignored on this branch.
func (s *Searcher) rankPersonal(ctx context.Context, f SearchFilters, scored []*ScoredRestaurant, pref *user.Preference) ([]*ScoredRestaurant, error) {
	favorites := make(map[int64]int)
	if s.interactions != nil {
		recent, err := s.interactions.RecentFor(ctx, f.UserID, ranking.RecentInteractionWindow)
		if err != nil {
			return nil, fmt.Errorf("load interactions: %w", err)
		}
		for _, in := range recent {
			if in.Kind == user.InteractionFavorite {
				favorites[in.RestaurantID]++
			}
		}
	}

	for _, sr := range scored {
		c := ranking.PersonalComponents{
			FavoriteCount: favorites[sr.ID],
		}
		if len(pref.DietaryPreferences) > 0 {
			c.DietaryFraction = ranking.SetFraction(pref.DietaryPreferences, sr.DietaryOptions)
			c.HasDietary = true
		}
		if len(pref.FavoriteCategories) > 0 {
			c.CategoryFraction = ranking.SetFraction(pref.FavoriteCategories, sr.Categories)
			c.HasCategories = true
		}
		if pref.PricePreference != nil {
			c.HasPriceCeiling = true
			c.WithinPriceCeiling = sr.PriceLevel <= *pref.PricePreference
		}
		sr.Score = ranking.PersonalScore(c, &s.cal.Personal)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored, nil
}

// applySortBy re-sorts ranked results by the advisory sort key. The
// key re-orders the already-capped result set; it never changes which
// restaurants are returned. Distance sorting needs an origin and is
// skipped without one.
func applySortBy(f SearchFilters, scored []*ScoredRestaurant) {
	switch f.SortBy {
	case "rating":
		sort.SliceStable(scored, func(i, j int) bool {
			return scored[i].Rating > scored[j].Rating
		})
	case "price":
		sort.SliceStable(scored, func(i, j int) bool {
			return scored[i].PriceLevel < scored[j].PriceLevel
		})
	case "distance":
		if !f.HasOrigin() {
			return
		}
		sort.SliceStable(scored, func(i, j int) bool {
			return *scored[i].DistanceKm < *scored[j].DistanceKm
		})
	}
}
