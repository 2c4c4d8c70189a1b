package moderation

import "math"

// Category is a harm category scored by the analyzer.
type Category string

const (
	HateSpeech Category = "hateSpeech"
	Harassment Category = "harassment"
	Threats    Category = "threats"
	Sexual     Category = "sexual"
	SelfHarm   Category = "selfHarm"
	Extremism  Category = "extremism"
	Profanity  Category = "profanity"
)

// Categories is the closed set of categories, in reporting order.
var Categories = []Category{
	HateSpeech,
	Harassment,
	Threats,
	Sexual,
	SelfHarm,
	Extremism,
	Profanity,
}

// Valid reports whether c belongs to the closed category set.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// CategoryScores maps every category to a normalized score in [0, 1].
type CategoryScores map[Category]float64

func newCategoryScores() CategoryScores {
	scores := make(CategoryScores, len(Categories))
	for _, c := range Categories {
		scores[c] = 0
	}
	return scores
}

// Get returns the score for c, zero when absent.
func (s CategoryScores) Get(c Category) float64 {
	return s[c]
}

// Max returns the highest scoring category and its score.
func (s CategoryScores) Max() (Category, float64) {
	var (
		best      Category
		bestScore float64
	)
	for _, c := range Categories {
		if v := s[c]; v > bestScore {
			best, bestScore = c, v
		}
	}
	return best, bestScore
}

// scorePrecision drops float noise from summed weights (0.4+0.3).
const scorePrecision = 1e9

func clampScore(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return math.Round(v*scorePrecision) / scorePrecision
}
