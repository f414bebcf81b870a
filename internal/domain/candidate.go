package domain

// GeoPoint is a WGS84 coordinate.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Money is an amount in a currency unit ("clp", "uf"). An empty unit means the
// source did not say.
type Money struct {
	Amount   Optional[float64] `json:"amount"`
	Currency string            `json:"currency,omitempty"`
}

type Physical struct {
	UsableArea Optional[float64] `json:"usable_area"`
	TotalArea  Optional[float64] `json:"total_area"`
	Bedrooms   Optional[int]     `json:"bedrooms"`
	Bathrooms  Optional[int]     `json:"bathrooms"`
	Parking    Optional[int]     `json:"parking"`
	Storage    Optional[int]     `json:"storage"`
}

type Building struct {
	CommonExpenses Optional[float64] `json:"common_expenses"`
	Floor          Optional[int]     `json:"floor"`
	Floors         Optional[int]     `json:"floors"`
	UnitsPerFloor  Optional[int]     `json:"units_per_floor"`
	Orientation    string            `json:"orientation,omitempty"`
	TerraceArea    Optional[float64] `json:"terrace_area"`
	SubType        string            `json:"sub_type,omitempty"`
}

// AnyKnown reports whether at least one building attribute is present.
func (b Building) AnyKnown() bool {
	return b.CommonExpenses.IsSet() ||
		b.Floor.IsSet() ||
		b.Floors.IsSet() ||
		b.UnitsPerFloor.IsSet() ||
		b.TerraceArea.IsSet() ||
		b.Orientation != "" ||
		b.SubType != ""
}

// Distances are minimum distances in meters to the nearest amenity of each kind.
type Distances struct {
	Transit         Optional[float64] `json:"transit"`
	BasicEducation  Optional[float64] `json:"basic_education"`
	HigherEducation Optional[float64] `json:"higher_education"`
	Health          Optional[float64] `json:"health"`
	Commerce        Optional[float64] `json:"commerce"`
	GreenSpace      Optional[float64] `json:"green_space"`
	Security        Optional[float64] `json:"security"`
}

// For returns the distance measured for an amenity category.
func (d Distances) For(c Category) Optional[float64] {
	switch c {
	case CategoryTransport:
		return d.Transit
	case CategoryEducation:
		return d.BasicEducation
	case CategoryHealth:
		return d.Health
	case CategoryCommerce:
		return d.Commerce
	case CategoryGreenSpace:
		return d.GreenSpace
	case CategorySecurity:
		return d.Security
	default:
		return None[float64]()
	}
}

// Candidate is a property offered for ranking. It is treated as read-only
// while a request is scored.
type Candidate struct {
	ID           string    `json:"id"`
	Title        string    `json:"title,omitempty"`
	Location     GeoPoint  `json:"location"`
	Zone         string    `json:"zone"`
	PropertyType string    `json:"property_type"`
	Price        Money     `json:"price"`
	Physical     Physical  `json:"physical"`
	Building     Building  `json:"building"`
	Distances    Distances `json:"distances"`
}
