package scoring

import (
	"fmt"
	"math"

	"github.com/denisok6893-rgb/property-recommender/internal/domain"
)

// Distance scores an amenity category from a signed importance and the
// measured distance to the nearest amenity.
//
// Positive importance attracts: 100 at the door, 50 at max_distance, falling
// to 0 at twice max_distance. Negative importance repels: 0 at the door,
// 100 from max_distance on. The deviation from 50 is then scaled by
// |importance|/10, so importance 0 is always 50.
func Distance(c domain.Category, pref domain.AmenityPreference, dist domain.Optional[float64]) Result {
	d, ok := dist.Get()
	if !ok {
		return Result{Score: Neutral}
	}
	limit := pref.MaxDistance
	if limit <= 0 {
		return Result{Score: Neutral}
	}
	d = math.Max(0, d)
	imp := pref.Importance
	noun := c.Noun()

	var (
		raw float64
		r   Result
	)
	switch {
	case imp > 0:
		if d <= limit {
			raw = 100 - (d/limit)*50
			r.Explanation = fmt.Sprintf("Nearest %s at %s", noun, meters(d))
			r.Positives = append(r.Positives, fmt.Sprintf("%s within %s", noun, meters(limit)))
		} else {
			raw = math.Max(0, 50-((d-limit)/limit)*50)
			r.Explanation = fmt.Sprintf("Nearest %s at %s, beyond %s", noun, meters(d), meters(limit))
			r.Negatives = append(r.Negatives, fmt.Sprintf("%s farther than %s", noun, meters(limit)))
		}
	case imp < 0:
		if d >= limit {
			raw = 100
			r.Explanation = fmt.Sprintf("No %s within %s, as requested", noun, meters(limit))
			r.Positives = append(r.Positives, fmt.Sprintf("no %s nearby, as requested", noun))
		} else {
			raw = (d / limit) * 100
			r.Explanation = fmt.Sprintf("Nearest %s at %s, closer than %s", noun, meters(d), meters(limit))
			r.Negatives = append(r.Negatives, fmt.Sprintf("%s closer than you want", noun))
		}
	default:
		raw = Neutral
		r.Explanation = fmt.Sprintf("Nearest %s at %s", noun, meters(d))
	}

	weight := math.Abs(float64(imp)) / 10
	r.Score = Neutral + (raw-Neutral)*weight
	return r.capped()
}

func meters(v float64) string {
	if v >= 1000 {
		return fmt.Sprintf("%.1fkm", v/1000)
	}
	return fmt.Sprintf("%.0fm", v)
}
