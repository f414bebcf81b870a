package matching

import (
	"github.com/denisok6893-rgb/property-recommender/internal/domain"
	"github.com/denisok6893-rgb/property-recommender/internal/scoring"
)

// confidenceFields is the number of data points confidence is measured over.
// Location and size always count as known.
const confidenceFields = 8

// scoreCandidate runs every category scorer the profile asks for and
// aggregates the breakdown. Price, location and size are always scored;
// amenity and building categories only when their preference is supplied.
func scoreCandidate(c domain.Candidate, p domain.PreferenceProfile) domain.Recommendation {
	w := p.Weights
	breakdown := make([]domain.ScoreBreakdown, 0, 10)

	breakdown = append(breakdown,
		newBreakdown(domain.CategoryPrice, w.Price, scoring.Price(c.Price.Amount, c.Physical.UsableArea, p.Constraints)),
		newBreakdown(domain.CategoryLocation, w.Location, scoring.Location(c.Zone, p.Constraints)),
		newBreakdown(domain.CategorySize, w.Size, scoring.Size(c.Physical, p.Constraints)),
	)
	for _, cat := range domain.AmenityCategories {
		pref := p.Amenity(cat)
		if pref == nil {
			continue
		}
		breakdown = append(breakdown, newBreakdown(cat, w.For(cat), scoring.Distance(cat, *pref, c.Distances.For(cat))))
	}
	if p.Building != nil {
		breakdown = append(breakdown, newBreakdown(domain.CategoryBuilding, w.Building, scoring.Building(c.Building, *p.Building)))
	}

	rec := domain.Recommendation{
		Candidate:  c,
		TotalScore: Aggregate(breakdown),
		Confidence: Confidence(c),
		Breakdown:  breakdown,
	}
	Explain(&rec, p)
	return rec
}

func newBreakdown(cat domain.Category, weight float64, r scoring.Result) domain.ScoreBreakdown {
	return domain.ScoreBreakdown{
		Category:     cat,
		Score:        r.Score,
		Weight:       weight,
		Contribution: r.Score * weight,
		Explanation:  r.Explanation,
		Positives:    r.Positives,
		Negatives:    r.Negatives,
	}
}

// Aggregate sums the weighted contributions, clamped to 0..100.
func Aggregate(breakdown []domain.ScoreBreakdown) float64 {
	var total float64
	for _, b := range breakdown {
		total += b.Contribution
	}
	return scoring.Clamp(total, 0, 100)
}

// Confidence is the share of the eight expected data points present.
func Confidence(c domain.Candidate) float64 {
	known := 2 // location, size
	for _, ok := range []bool{
		c.Price.Amount.IsSet(),
		c.Distances.Transit.IsSet(),
		c.Distances.BasicEducation.IsSet(),
		c.Distances.Health.IsSet(),
		c.Distances.GreenSpace.IsSet(),
		c.Building.AnyKnown(),
	} {
		if ok {
			known++
		}
	}
	return float64(known) / confidenceFields
}
