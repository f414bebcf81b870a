package scoring

import (
	"fmt"
	"strings"

	"github.com/denisok6893-rgb/property-recommender/internal/currency"
	"github.com/denisok6893-rgb/property-recommender/internal/domain"
)

// Price scores the position of a canonical price inside the buyer's range.
// The bottom of the range scores 100 and the top 0.
func Price(amount, usableArea domain.Optional[float64], c domain.HardConstraints) Result {
	price, ok := amount.Get()
	if !ok {
		return neutral("No price data available")
	}
	if c.PriceMax == nil {
		return neutral(fmt.Sprintf("Price %s, no budget given", currency.FormatCLP(price)))
	}

	lo := 0.0
	if c.PriceMin != nil {
		lo = *c.PriceMin
	}
	span := *c.PriceMax - lo
	if span <= 0 {
		return neutral(fmt.Sprintf("Price %s", currency.FormatCLP(price)))
	}

	var r Result
	r.Score = Clamp(100-((price-lo)/span)*100, 0, 100)

	label := currency.FormatCLP(price)
	switch {
	case r.Score >= 80:
		r.Explanation = fmt.Sprintf("Excellent price (%s)", label)
		r.Positives = append(r.Positives, "Price in the lower part of your budget")
	case r.Score >= 60:
		r.Explanation = fmt.Sprintf("Good price (%s)", label)
		r.Positives = append(r.Positives, "Price comfortably within budget")
	case r.Score >= 40:
		r.Explanation = fmt.Sprintf("Moderate price (%s)", label)
	default:
		r.Explanation = fmt.Sprintf("High price (%s)", label)
		r.Negatives = append(r.Negatives, "Price near the top of your budget")
	}

	if area, ok := usableArea.Get(); ok && area > 0 {
		r.Positives = append(r.Positives, fmt.Sprintf("%s per m²", currency.FormatCLP(price/area)))
	}
	return r.capped()
}

// Location scores zone membership: preferred zones 100, excluded zones 0.
func Location(zone string, c domain.HardConstraints) Result {
	if strings.TrimSpace(zone) == "" {
		return neutral("No zone data available")
	}
	switch {
	case containsFold(c.ZonesInclude, zone):
		return Result{
			Score:       100,
			Explanation: fmt.Sprintf("Located in %s, a preferred zone", zone),
			Positives:   []string{fmt.Sprintf("In preferred zone %s", zone)},
		}
	case containsFold(c.ZonesExclude, zone):
		return Result{
			Score:       0,
			Explanation: fmt.Sprintf("Located in %s, an excluded zone", zone),
			Negatives:   []string{fmt.Sprintf("In excluded zone %s", zone)},
		}
	default:
		return neutral(fmt.Sprintf("Located in %s", zone))
	}
}

// Size adds bonuses to a neutral base for each size constraint the
// candidate meets.
func Size(p domain.Physical, c domain.HardConstraints) Result {
	r := Result{Score: Neutral}

	if area, ok := p.UsableArea.Get(); ok {
		r.Explanation = fmt.Sprintf("%.0fm² usable area", area)
		if c.AreaMin != nil && area >= *c.AreaMin {
			r.Score += 25
			r.Positives = append(r.Positives, fmt.Sprintf("At least %.0fm²", *c.AreaMin))
		}
		if c.AreaMax != nil && area <= *c.AreaMax {
			r.Score += 25
		}
	} else {
		r.Explanation = "No size data available"
	}

	if beds, ok := p.Bedrooms.Get(); ok {
		if c.BedroomsMin != nil && beds >= *c.BedroomsMin {
			r.Score += 10
			r.Positives = append(r.Positives, fmt.Sprintf("%d bedrooms", beds))
		}
		if c.BedroomsMax != nil && beds <= *c.BedroomsMax {
			r.Score += 10
		}
	}
	if baths, ok := p.Bathrooms.Get(); ok && c.BathroomsMin != nil && baths >= *c.BathroomsMin {
		r.Score += 10
		r.Positives = append(r.Positives, fmt.Sprintf("%d bathrooms", baths))
	}
	if c.ParkingMin != nil {
		if parking, ok := p.Parking.Get(); ok {
			if parking >= *c.ParkingMin {
				r.Score += 10
				r.Positives = append(r.Positives, fmt.Sprintf("%d parking spaces", parking))
			} else {
				r.Negatives = append(r.Negatives, fmt.Sprintf("Only %d of %d parking spaces", parking, *c.ParkingMin))
			}
		}
	}
	return r.capped()
}

func containsFold(list []string, v string) bool {
	v = strings.TrimSpace(v)
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), v) {
			return true
		}
	}
	return false
}
