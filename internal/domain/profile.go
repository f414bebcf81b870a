package domain

// PreferenceProfile is a buyer's hard constraints, signed amenity preferences
// and category weights. Nil amenity or building preferences are not scored.
type PreferenceProfile struct {
	Constraints HardConstraints `json:"constraints"`

	Transport  *AmenityPreference `json:"transport,omitempty"`
	Education  *AmenityPreference `json:"education,omitempty"`
	Health     *AmenityPreference `json:"health,omitempty"`
	Commerce   *AmenityPreference `json:"commerce,omitempty"`
	GreenSpace *AmenityPreference `json:"green_space,omitempty"`
	Security   *AmenityPreference `json:"security,omitempty"`

	Building *BuildingPreference `json:"building,omitempty"`

	Weights Weights `json:"weights"`
}

type HardConstraints struct {
	PriceMin     *float64 `json:"price_min,omitempty" validate:"omitempty,gt=0"`
	PriceMax     *float64 `json:"price_max,omitempty" validate:"omitempty,gt=0"`
	AreaMin      *float64 `json:"area_min,omitempty" validate:"omitempty,gt=0"`
	AreaMax      *float64 `json:"area_max,omitempty" validate:"omitempty,gt=0"`
	BedroomsMin  *int     `json:"bedrooms_min,omitempty" validate:"omitempty,gt=0"`
	BedroomsMax  *int     `json:"bedrooms_max,omitempty" validate:"omitempty,gt=0"`
	BathroomsMin *int     `json:"bathrooms_min,omitempty" validate:"omitempty,gt=0"`
	ParkingMin   *int     `json:"parking_min,omitempty" validate:"omitempty,gt=0"`

	ZonesInclude []string `json:"zones_include,omitempty"`
	ZonesExclude []string `json:"zones_exclude,omitempty"`
	PropertyType string   `json:"property_type,omitempty"`
}

// AmenityPreference is a signed importance in [-10,10] and the distance in
// meters at which the preference is considered satisfied.
type AmenityPreference struct {
	Importance  int     `json:"importance" validate:"min=-10,max=10"`
	MaxDistance float64 `json:"max_distance" validate:"gt=0"`
}

type BuildingPreference struct {
	CommonExpensesMax *float64 `json:"common_expenses_max,omitempty" validate:"omitempty,gt=0"`

	FloorMin            *int `json:"floor_min,omitempty" validate:"omitempty,gt=0"`
	FloorMax            *int `json:"floor_max,omitempty" validate:"omitempty,gt=0"`
	HighFloorImportance int  `json:"high_floor_importance" validate:"min=-10,max=10"`

	PreferredOrientations []string `json:"preferred_orientations,omitempty"`
	OrientationImportance int      `json:"orientation_importance" validate:"min=-10,max=10"`

	TerraceRequired   bool     `json:"terrace_required"`
	TerraceMinArea    *float64 `json:"terrace_min_area,omitempty" validate:"omitempty,gt=0"`
	TerraceImportance int      `json:"terrace_importance" validate:"min=-10,max=10"`

	PreferredSubType  string `json:"preferred_sub_type,omitempty"`
	SubTypeImportance int    `json:"sub_type_importance" validate:"min=-10,max=10"`

	UnitsPerFloorMax *int `json:"units_per_floor_max,omitempty" validate:"omitempty,gt=0"`
}

// Amenity returns the preference supplied for an amenity category, or nil.
func (p PreferenceProfile) Amenity(c Category) *AmenityPreference {
	switch c {
	case CategoryTransport:
		return p.Transport
	case CategoryEducation:
		return p.Education
	case CategoryHealth:
		return p.Health
	case CategoryCommerce:
		return p.Commerce
	case CategoryGreenSpace:
		return p.GreenSpace
	case CategorySecurity:
		return p.Security
	default:
		return nil
	}
}

// Weights holds one non-negative weight per weighted category.
type Weights struct {
	Price      float64 `json:"price" validate:"gte=0"`
	Location   float64 `json:"location" validate:"gte=0"`
	Size       float64 `json:"size" validate:"gte=0"`
	Transport  float64 `json:"transport" validate:"gte=0"`
	Education  float64 `json:"education" validate:"gte=0"`
	Health     float64 `json:"health" validate:"gte=0"`
	Commerce   float64 `json:"commerce" validate:"gte=0"`
	GreenSpace float64 `json:"green_space" validate:"gte=0"`
	Security   float64 `json:"security" validate:"gte=0"`
	Building   float64 `json:"building" validate:"gte=0"`
}

// DefaultWeights sums to 1.0.
func DefaultWeights() Weights {
	return Weights{
		Price:      0.20,
		Location:   0.12,
		Size:       0.08,
		Transport:  0.15,
		Education:  0.10,
		Health:     0.10,
		Commerce:   0.08,
		GreenSpace: 0.05,
		Security:   0,
		Building:   0.12,
	}
}

func (w Weights) For(c Category) float64 {
	switch c {
	case CategoryPrice:
		return w.Price
	case CategoryLocation:
		return w.Location
	case CategorySize:
		return w.Size
	case CategoryTransport:
		return w.Transport
	case CategoryEducation:
		return w.Education
	case CategoryHealth:
		return w.Health
	case CategoryCommerce:
		return w.Commerce
	case CategoryGreenSpace:
		return w.GreenSpace
	case CategorySecurity:
		return w.Security
	case CategoryBuilding:
		return w.Building
	default:
		return 0
	}
}

func (w Weights) Sum() float64 {
	return w.Price + w.Location + w.Size + w.Transport + w.Education +
		w.Health + w.Commerce + w.GreenSpace + w.Security + w.Building
}
