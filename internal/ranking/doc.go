// Package ranking provides the weighted scoring functions behind
// restaurant search, with calibration support for deploy-time tuning.
//
// Basic usage:
//
//	// Load calibration (typically at startup)
//	cal, err := ranking.LoadCalibration("configs/ranking.calibration.json")
//	if err != nil {
//		slog.Warn("using default ranking weights", "error", err)
//	}
//
//	// Anonymous composite score
//	c := ranking.Components{
//		Rating:       ranking.RatingScore(r.Rating),
//		Price:        ranking.PriceScore(r.PriceLevel),
//		Sentiment:    ranking.SentimentScore(r.SentimentScore),
//		Proximity:    ranking.ProximityScore(distanceKm, radiusKm),
//		HasProximity: true,
//		Popularity:   ranking.PopularityScore(r.TotalReviews),
//	}
//	score := ranking.CompositeScore(c, &cal.Anonymous)
//
// Two ranking branches exist and they are deliberately asymmetric:
//
// Anonymous: the additive weighted sum above, capped to the top
// AnonymousResultCap results. Scores stay in [0, 1].
//
// Personalized: when the requesting user has a stored preference
// record, PersonalScore REPLACES the composite score entirely. It is
// built from preference overlap plus a per-favorite interaction bonus
// that is unbounded by default, so personalized scores can exceed 1.0,
// and the result list is not capped. This divergence reproduces
// observed product behavior; clamp_personal in the calibration file is
// the switch that bounds the personalized score if that behavior is
// ever declared a bug.
//
// All component functions return values in [0, 1] before weighting and
// are pure; calibration is read once at startup.
package ranking
