package matching

import (
	"strings"

	"github.com/denisok6893-rgb/property-recommender/internal/domain"
)

// FilterReason names the hard constraint that removed a candidate.
type FilterReason string

const (
	ReasonPrice        FilterReason = "price"
	ReasonArea         FilterReason = "area"
	ReasonBedrooms     FilterReason = "bedrooms"
	ReasonBathrooms    FilterReason = "bathrooms"
	ReasonParking      FilterReason = "parking"
	ReasonZoneInclude  FilterReason = "zone_include"
	ReasonZoneExclude  FilterReason = "zone_exclude"
	ReasonPropertyType FilterReason = "property_type"
	ReasonSpatialGate  FilterReason = "spatial_gate"
)

// FilterResult is the outcome of applying hard constraints.
type FilterResult struct {
	Kept     []domain.Candidate
	Rejected map[FilterReason]int
}

// Filter applies hard constraints in a fixed order, then drops candidates
// farther than max_distance from any amenity whose importance is at least
// hardImportance. Unknown attributes and distances never disqualify.
func Filter(candidates []domain.Candidate, p domain.PreferenceProfile, hardImportance int) FilterResult {
	res := FilterResult{
		Kept:     make([]domain.Candidate, 0, len(candidates)),
		Rejected: make(map[FilterReason]int),
	}
	include := zoneSet(p.Constraints.ZonesInclude)
	exclude := zoneSet(p.Constraints.ZonesExclude)

	for _, c := range candidates {
		if reason, ok := rejectReason(c, p, include, exclude, hardImportance); ok {
			res.Rejected[reason]++
			continue
		}
		res.Kept = append(res.Kept, c)
	}
	return res
}

func rejectReason(c domain.Candidate, p domain.PreferenceProfile, include, exclude map[string]struct{}, hardImportance int) (FilterReason, bool) {
	hc := p.Constraints

	if price, ok := c.Price.Amount.Get(); ok {
		if (hc.PriceMin != nil && price < *hc.PriceMin) || (hc.PriceMax != nil && price > *hc.PriceMax) {
			return ReasonPrice, true
		}
	}
	if area, ok := c.Physical.UsableArea.Get(); ok {
		if (hc.AreaMin != nil && area < *hc.AreaMin) || (hc.AreaMax != nil && area > *hc.AreaMax) {
			return ReasonArea, true
		}
	}
	if beds, ok := c.Physical.Bedrooms.Get(); ok {
		if (hc.BedroomsMin != nil && beds < *hc.BedroomsMin) || (hc.BedroomsMax != nil && beds > *hc.BedroomsMax) {
			return ReasonBedrooms, true
		}
	}
	if baths, ok := c.Physical.Bathrooms.Get(); ok && hc.BathroomsMin != nil && baths < *hc.BathroomsMin {
		return ReasonBathrooms, true
	}
	if parking, ok := c.Physical.Parking.Get(); ok && hc.ParkingMin != nil && parking < *hc.ParkingMin {
		return ReasonParking, true
	}

	zone := normalizeZone(c.Zone)
	if len(include) > 0 {
		if _, ok := include[zone]; !ok {
			return ReasonZoneInclude, true
		}
	}
	if _, ok := exclude[zone]; ok {
		return ReasonZoneExclude, true
	}

	if t := strings.TrimSpace(hc.PropertyType); t != "" && !strings.EqualFold(t, strings.TrimSpace(c.PropertyType)) {
		return ReasonPropertyType, true
	}

	for _, cat := range domain.AmenityCategories {
		pref := p.Amenity(cat)
		if pref == nil || pref.Importance < hardImportance {
			continue
		}
		if d, ok := c.Distances.For(cat).Get(); ok && d > pref.MaxDistance {
			return ReasonSpatialGate, true
		}
	}
	return "", false
}

func normalizeZone(z string) string {
	return strings.ToLower(strings.TrimSpace(z))
}

func zoneSet(zones []string) map[string]struct{} {
	set := make(map[string]struct{}, len(zones))
	for _, z := range zones {
		if n := normalizeZone(z); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}
