package moderation

import "strings"

// GroupMatch records how often a single pattern group matched.
type GroupMatch struct {
	Category Category `json:"category"`
	Group    string   `json:"group"`
	Count    int      `json:"count"`
}

// Analysis is the analyzer output consumed by the resolver.
type Analysis struct {
	Scores CategoryScores
	// MinorsSexualContent is set when any group carrying MinorsSignal matched.
	MinorsSexualContent bool
	Matches             []GroupMatch
}

// Analyzer scores text against every group of a PatternSet. It holds no
// mutable state.
type Analyzer struct {
	patterns *PatternSet
}

func NewAnalyzer(patterns *PatternSet) *Analyzer {
	if patterns == nil {
		patterns = DefaultPatternSet
	}
	return &Analyzer{patterns: patterns}
}

// Analyze computes the bounded score of every category for text.
func (a *Analyzer) Analyze(text string) Analysis {
	lower := strings.ToLower(text)
	normalized := lower
	if a.patterns.hasObfuscation {
		normalized = normalizeObfuscation(lower)
	}

	totals := make(map[Category]float64, len(Categories))
	result := Analysis{Scores: newCategoryScores()}

	for i := range a.patterns.groups {
		g := &a.patterns.groups[i]
		n := g.count(lower)
		if g.obfuscation && normalized != lower {
			if m := g.count(normalized); m > n {
				n = m
			}
		}
		if n == 0 {
			continue
		}
		totals[g.category] += float64(n) * g.weight
		result.Matches = append(result.Matches, GroupMatch{
			Category: g.category,
			Group:    g.name,
			Count:    n,
		})
		if g.signal == MinorsSignal {
			result.MinorsSexualContent = true
		}
	}

	words := len(strings.Fields(text))
	if words < 1 {
		words = 1
	}
	for category, total := range totals {
		if densityCategories[category] {
			total /= float64(words)
		}
		result.Scores[category] = clampScore(total)
	}
	return result
}
