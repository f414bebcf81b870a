package matching

import "github.com/denisok6893-rgb/property-recommender/internal/domain"

// fewResults is the analyzed-candidate count under which the search is
// reported as thin.
const fewResults = 5

// suggestions derives search hints from the result counts and the profile.
func suggestions(p domain.PreferenceProfile, analyzed, found int, narrowBand float64) []string {
	out := []string{}

	switch {
	case found == 0:
		out = append(out, "No properties match your criteria. Try widening your price, size or zone constraints.")
	case analyzed < fewResults:
		out = append(out, "Few properties match your criteria. Relaxing one constraint will show more options.")
	}

	c := p.Constraints
	if c.PriceMin != nil && c.PriceMax != nil && *c.PriceMax-*c.PriceMin < narrowBand {
		out = append(out, "Your price range is narrow. Widening it may surface more options.")
	}
	if len(c.ZonesInclude) == 1 {
		out = append(out, "Only one zone is selected. Consider adding neighbouring zones.")
	}
	return out
}
