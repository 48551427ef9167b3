package ranking

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRatingScore(t *testing.T) {
	tests := []struct {
		rating float64
		want   float64
	}{
		{0, 0},
		{2.5, 0.5},
		{5, 1},
		{6, 1},  // clamped
		{-1, 0}, // clamped
	}
	for _, tt := range tests {
		if got := RatingScore(tt.rating); !almostEqual(got, tt.want) {
			t.Errorf("RatingScore(%f) = %f, want %f", tt.rating, got, tt.want)
		}
	}
}

func TestPriceScore(t *testing.T) {
	tests := []struct {
		level int
		want  float64
	}{
		{1, 1.0},
		{2, 0.75},
		{3, 0.5},
		{4, 0.25},
	}
	for _, tt := range tests {
		if got := PriceScore(tt.level); !almostEqual(got, tt.want) {
			t.Errorf("PriceScore(%d) = %f, want %f", tt.level, got, tt.want)
		}
	}
}

func TestSentimentScore(t *testing.T) {
	tests := []struct {
		sentiment float64
		want      float64
	}{
		{-1, 0},
		{0, 0.5},
		{1, 1},
	}
	for _, tt := range tests {
		if got := SentimentScore(tt.sentiment); !almostEqual(got, tt.want) {
			t.Errorf("SentimentScore(%f) = %f, want %f", tt.sentiment, got, tt.want)
		}
	}
}

func TestProximityScore(t *testing.T) {
	tests := []struct {
		name     string
		distance float64
		radius   float64
		want     float64
	}{
		{"at origin", 0, 5, 1},
		{"half radius", 2.5, 5, 0.5},
		{"at radius", 5, 5, 0},
		{"beyond radius", 7, 5, 0},
		{"zero radius", 1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ProximityScore(tt.distance, tt.radius); !almostEqual(got, tt.want) {
				t.Errorf("ProximityScore(%f, %f) = %f, want %f", tt.distance, tt.radius, got, tt.want)
			}
		})
	}
}

func TestPopularityScore(t *testing.T) {
	tests := []struct {
		reviews int
		want    float64
	}{
		{0, 0},
		{-5, 0},
		{500, 0.5},
		{1000, 1},
		{5000, 1}, // saturates
	}
	for _, tt := range tests {
		if got := PopularityScore(tt.reviews); !almostEqual(got, tt.want) {
			t.Errorf("PopularityScore(%d) = %f, want %f", tt.reviews, got, tt.want)
		}
	}
}

func TestSetFraction(t *testing.T) {
	tests := []struct {
		name      string
		requested []string
		offered   []string
		want      float64
	}{
		{"empty requested", nil, []string{"vegan"}, 0},
		{"full match", []string{"vegan"}, []string{"vegan", "halal"}, 1},
		{"half match", []string{"vegan", "kosher"}, []string{"vegan"}, 0.5},
		{"no match", []string{"vegan"}, []string{"halal"}, 0},
		{"case insensitive", []string{"Vegan"}, []string{"VEGAN"}, 1},
		{"empty offered", []string{"vegan"}, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SetFraction(tt.requested, tt.offered); !almostEqual(got, tt.want) {
				t.Errorf("SetFraction(%v, %v) = %f, want %f", tt.requested, tt.offered, got, tt.want)
			}
		})
	}
}

func TestCompositeScoreFullComponents(t *testing.T) {
	w := &DefaultCalibration().Anonymous
	c := Components{
		Rating:       1,
		Price:        1,
		Sentiment:    1,
		Popularity:   1,
		Proximity:    1,
		HasProximity: true,
		Dietary:      1,
		HasDietary:   true,
	}
	if got := CompositeScore(c, w); !almostEqual(got, 1.0) {
		t.Errorf("full composite = %f, want 1.0", got)
	}
}

func TestCompositeScoreOmitsAbsentComponents(t *testing.T) {
	w := &DefaultCalibration().Anonymous
	c := Components{
		Rating:    1,
		Price:     1,
		Sentiment: 1,
		// Proximity and Dietary flagged absent even with values set:
		// absence omits the contribution entirely.
		Proximity: 1,
		Dietary:   1,
	}
	// rating 0.2 + price 0.1 + sentiment 0.1 = 0.4 base, no popularity.
	if got := CompositeScore(c, w); !almostEqual(got, 0.4) {
		t.Errorf("composite = %f, want 0.4", got)
	}
}

func TestPersonalScore(t *testing.T) {
	w := &DefaultCalibration().Personal

	t.Run("all preference components", func(t *testing.T) {
		c := PersonalComponents{
			DietaryFraction:    1,
			HasDietary:         true,
			CategoryFraction:   0.5,
			HasCategories:      true,
			WithinPriceCeiling: true,
			HasPriceCeiling:    true,
		}
		// 0.3 + 0.15 + 0.2 = 0.65
		if got := PersonalScore(c, w); !almostEqual(got, 0.65) {
			t.Errorf("score = %f, want 0.65", got)
		}
	})

	t.Run("price ceiling exceeded contributes nothing", func(t *testing.T) {
		c := PersonalComponents{HasPriceCeiling: true, WithinPriceCeiling: false}
		if got := PersonalScore(c, w); got != 0 {
			t.Errorf("score = %f, want 0", got)
		}
	})

	t.Run("favorite bonus unbounded by default", func(t *testing.T) {
		c := PersonalComponents{FavoriteCount: 12}
		if got := PersonalScore(c, w); !almostEqual(got, 1.2) {
			t.Errorf("score = %f, want 1.2", got)
		}
	})

	t.Run("clamp bounds the score", func(t *testing.T) {
		clamped := *w
		clamped.ClampPersonal = true
		c := PersonalComponents{FavoriteCount: 12}
		if got := PersonalScore(c, &clamped); !almostEqual(got, 1.0) {
			t.Errorf("score = %f, want 1.0 with clamp on", got)
		}
	})
}
