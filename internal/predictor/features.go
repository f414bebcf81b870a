package predictor

import (
	"math"
	"strings"

	"github.com/denisok6893-rgb/property-recommender/internal/domain"
)

// SchemaV1 is the feature layout the satisfaction model was trained on. The
// order of names is part of the contract: models read values by position.
const SchemaV1 = "v1"

// DefaultZones are the zones one-hot encoded by schema v1, in model order.
var DefaultZones = []string{"Estación Central", "La Reina", "Ñuñoa", "Santiago"}

var (
	v1Base = []string{
		"usable_area",
		"bedrooms",
		"bathrooms",
		"price_uf",
		"price_m2_uf",
		"m2_per_bedroom",
		"m2_per_occupant",
		"bath_bed_ratio",
		"total_rooms",
		"is_apartment",
		"is_house",
	}
	v1Distances = []string{
		"dist_transit",
		"dist_basic_education",
		"dist_higher_education",
		"dist_health",
		"dist_commerce",
		"dist_green_space",
		"dist_security",
	}
)

// UFConverter converts canonical CLP amounts to UF.
type UFConverter interface {
	CLPToUF(clp float64) float64
}

// FeatureVector is an ordered list of named model inputs.
type FeatureVector struct {
	Version string    `json:"schema_version"`
	Names   []string  `json:"names"`
	Values  []float64 `json:"features"`
}

// Get returns the value of a named feature.
func (fv FeatureVector) Get(name string) (float64, bool) {
	for i, n := range fv.Names {
		if n == name {
			return fv.Values[i], true
		}
	}
	return 0, false
}

// Schema builds feature vectors for one schema version.
type Schema struct {
	version string
	zones   []string
	names   []string
	uf      UFConverter
}

// NewSchemaV1 returns the v1 schema. Zones keep the given order; nil means
// DefaultZones.
func NewSchemaV1(zones []string, uf UFConverter) *Schema {
	if len(zones) == 0 {
		zones = DefaultZones
	}
	names := make([]string, 0, len(v1Base)+len(zones)+len(v1Distances))
	names = append(names, v1Base...)
	for _, z := range zones {
		names = append(names, "zone_"+z)
	}
	names = append(names, v1Distances...)

	return &Schema{
		version: SchemaV1,
		zones:   append([]string(nil), zones...),
		names:   names,
		uf:      uf,
	}
}

func (s *Schema) Version() string { return s.version }

// Names returns a copy of the ordered feature names.
func (s *Schema) Names() []string {
	return append([]string(nil), s.names...)
}

// Build encodes a candidate whose price is already in CLP. Unknown values
// encode as 0; ratios divide by at least 1.
func (s *Schema) Build(c domain.Candidate) FeatureVector {
	area := c.Physical.UsableArea.OrElse(0)
	beds := float64(c.Physical.Bedrooms.OrElse(0))
	baths := float64(c.Physical.Bathrooms.OrElse(0))

	priceUF := 0.0
	if clp, ok := c.Price.Amount.Get(); ok && s.uf != nil {
		priceUF = s.uf.CLPToUF(clp)
	}

	dorms := math.Max(1, beds)
	surface := math.Max(1, area)

	values := make([]float64, 0, len(s.names))
	values = append(values,
		area,
		beds,
		baths,
		priceUF,
		priceUF/surface,
		area/dorms,
		area/(dorms*2),
		baths/dorms,
		beds+baths,
		flag(isApartment(c.PropertyType)),
		flag(isHouse(c.PropertyType)),
	)
	for _, z := range s.zones {
		values = append(values, flag(strings.EqualFold(strings.TrimSpace(c.Zone), z)))
	}
	d := c.Distances
	for _, v := range []domain.Optional[float64]{
		d.Transit, d.BasicEducation, d.HigherEducation, d.Health, d.Commerce, d.GreenSpace, d.Security,
	} {
		values = append(values, v.OrElse(0))
	}

	return FeatureVector{Version: s.version, Names: s.Names(), Values: values}
}

func isApartment(t string) bool {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "apartment", "departamento", "flat":
		return true
	}
	return false
}

func isHouse(t string) bool {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "house", "casa":
		return true
	}
	return false
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
