package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/denisok6893-rgb/property-recommender/internal/currency"
	"github.com/denisok6893-rgb/property-recommender/internal/domain"
)

// Floors assumed for the height ratio when the building height is unknown.
const referenceFloors = 20

// Building adds bounded bonuses and penalties per building attribute to a
// neutral base. A required terrace that is missing or too small is a fixed
// penalty.
func Building(b domain.Building, pref domain.BuildingPreference) Result {
	if !b.AnyKnown() {
		return neutral("No building data available")
	}

	r := Result{Score: Neutral}

	if ge, ok := b.CommonExpenses.Get(); ok && pref.CommonExpensesMax != nil {
		limit := *pref.CommonExpensesMax
		if ge <= limit {
			r.Score += 25 * (1 - ge/limit)
			r.Positives = append(r.Positives, fmt.Sprintf("Common expenses %s, within budget", currency.FormatCLP(ge)))
		} else {
			excess := (ge - limit) / limit
			r.Score -= math.Min(30, excess*50)
			r.Negatives = append(r.Negatives, fmt.Sprintf("Common expenses %s, above %s", currency.FormatCLP(ge), currency.FormatCLP(limit)))
		}
	}

	if floor, ok := b.Floor.Get(); ok {
		scoreFloor(&r, floor, b.Floors, pref)
	}

	if b.Orientation != "" && len(pref.PreferredOrientations) > 0 && pref.OrientationImportance > 0 {
		imp := float64(pref.OrientationImportance)
		if containsFold(pref.PreferredOrientations, b.Orientation) {
			r.Score += 20 * imp / 10
			r.Positives = append(r.Positives, fmt.Sprintf("%s orientation, as preferred", b.Orientation))
		} else if pref.OrientationImportance > 5 {
			r.Score -= 10
			r.Negatives = append(r.Negatives, fmt.Sprintf("%s orientation is not one you prefer", b.Orientation))
		}
	}

	scoreTerrace(&r, b.TerraceArea, pref)

	if pref.PreferredSubType != "" && pref.SubTypeImportance > 0 && strings.EqualFold(b.SubType, pref.PreferredSubType) {
		r.Score += 10 * float64(pref.SubTypeImportance) / 10
		r.Positives = append(r.Positives, fmt.Sprintf("Building type %s", b.SubType))
	}

	if units, ok := b.UnitsPerFloor.Get(); ok && pref.UnitsPerFloorMax != nil {
		if units <= *pref.UnitsPerFloorMax {
			r.Score += 10
			if units <= 2 {
				r.Positives = append(r.Positives, fmt.Sprintf("Only %d units per floor, high privacy", units))
			} else {
				r.Positives = append(r.Positives, fmt.Sprintf("%d units per floor", units))
			}
		} else {
			r.Score -= 10
			r.Negatives = append(r.Negatives, fmt.Sprintf("%d units per floor, above %d", units, *pref.UnitsPerFloorMax))
		}
	}

	r.Score = Clamp(r.Score, 0, 100)
	switch {
	case r.Score >= 80:
		r.Explanation = "Building matches your preferences very well"
	case r.Score >= 60:
		r.Explanation = "Building matches most of your preferences"
	case r.Score >= 40:
		r.Explanation = "Building partially matches your preferences"
	default:
		r.Explanation = "Building does not match your preferences"
	}
	return r.capped()
}

func scoreFloor(r *Result, floor int, floors domain.Optional[int], pref domain.BuildingPreference) {
	if (pref.FloorMin != nil && floor < *pref.FloorMin) || (pref.FloorMax != nil && floor > *pref.FloorMax) {
		r.Score -= 20
		r.Negatives = append(r.Negatives, fmt.Sprintf("Floor %d is outside your range", floor))
		return
	}

	imp := pref.HighFloorImportance
	if imp == 0 {
		return
	}
	height := referenceFloors
	if n, ok := floors.Get(); ok && n > 0 {
		height = n
	}
	ratio := Clamp(float64(floor)/float64(height), 0, 1)

	if imp > 0 {
		r.Score += ratio * 25 * float64(imp) / 10
		if ratio >= 0.5 {
			r.Positives = append(r.Positives, fmt.Sprintf("High floor (%d)", floor))
		}
		return
	}
	r.Score += math.Max(0, 25-ratio*25) * float64(-imp) / 10
	if ratio < 0.5 {
		r.Positives = append(r.Positives, fmt.Sprintf("Low floor (%d)", floor))
	}
}

func scoreTerrace(r *Result, area domain.Optional[float64], pref domain.BuildingPreference) {
	terrace, ok := area.Get()
	has := ok && terrace > 0

	if pref.TerraceRequired {
		minimum := 0.0
		if pref.TerraceMinArea != nil {
			minimum = *pref.TerraceMinArea
		}
		if has && terrace >= minimum {
			r.Score += 25
			r.Positives = append(r.Positives, fmt.Sprintf("Terrace of %.0fm²", terrace))
			return
		}
		r.Score -= 30
		if minimum > 0 {
			r.Negatives = append(r.Negatives, fmt.Sprintf("No terrace of at least %.0fm²", minimum))
		} else {
			r.Negatives = append(r.Negatives, "No terrace")
		}
		return
	}

	if has && pref.TerraceImportance > 0 {
		r.Score += math.Min(15, terrace/20*15) * float64(pref.TerraceImportance) / 10
		r.Positives = append(r.Positives, fmt.Sprintf("Terrace of %.0fm²", terrace))
	}
}
