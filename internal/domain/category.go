package domain

import "fmt"

// Category identifies one scored dimension of a candidate.
type Category int

const (
	CategoryPrice Category = iota
	CategoryLocation
	CategorySize
	CategoryTransport
	CategoryEducation
	CategoryHealth
	CategoryCommerce
	CategoryGreenSpace
	CategorySecurity
	CategoryBuilding
	CategorySatisfaction
)

// AmenityCategories are scored from a signed importance and a measured distance.
var AmenityCategories = []Category{
	CategoryTransport,
	CategoryEducation,
	CategoryHealth,
	CategoryCommerce,
	CategoryGreenSpace,
	CategorySecurity,
}

var categoryNames = map[Category]string{
	CategoryPrice:        "price",
	CategoryLocation:     "location",
	CategorySize:         "size",
	CategoryTransport:    "transport",
	CategoryEducation:    "education",
	CategoryHealth:       "health",
	CategoryCommerce:     "commerce",
	CategoryGreenSpace:   "green_space",
	CategorySecurity:     "security",
	CategoryBuilding:     "building",
	CategorySatisfaction: "satisfaction",
}

var categoryLabels = map[Category]string{
	CategoryPrice:        "Price",
	CategoryLocation:     "Location",
	CategorySize:         "Size",
	CategoryTransport:    "Transport",
	CategoryEducation:    "Education",
	CategoryHealth:       "Health",
	CategoryCommerce:     "Commerce",
	CategoryGreenSpace:   "Green space",
	CategorySecurity:     "Security",
	CategoryBuilding:     "Building",
	CategorySatisfaction: "Satisfaction",
}

var amenityNouns = map[Category]string{
	CategoryTransport:  "public transit",
	CategoryEducation:  "schools",
	CategoryHealth:     "health centers",
	CategoryCommerce:   "shops",
	CategoryGreenSpace: "green areas",
	CategorySecurity:   "police stations",
}

func (c Category) String() string {
	if n, ok := categoryNames[c]; ok {
		return n
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// Label is the display name used in explanations.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return c.String()
}

// Noun names the amenity an amenity category measures distance to.
func (c Category) Noun() string {
	if n, ok := amenityNouns[c]; ok {
		return n
	}
	return c.String()
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(b []byte) error {
	for k, v := range categoryNames {
		if v == string(b) {
			*c = k
			return nil
		}
	}
	return fmt.Errorf("unknown category %q", string(b))
}
