package matching

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"

	"github.com/denisok6893-rgb/property-recommender/internal/domain"
	"github.com/denisok6893-rgb/property-recommender/internal/validation"
)

// Config tunes the recommendation pipeline.
type Config struct {
	// HardImportance is the amenity importance from which max_distance
	// becomes a hard cutoff instead of a scoring input.
	HardImportance int `koanf:"hard_importance" validate:"min=1,max=10"`

	// RerankWeight scales the 0..100 satisfaction score added to the total.
	RerankWeight float64 `koanf:"rerank_weight" validate:"gt=0,lte=1"`

	// RerankFactor times the limit is how many top candidates get a
	// satisfaction prediction.
	RerankFactor int `koanf:"rerank_factor" validate:"min=1"`

	DefaultLimit int `koanf:"default_limit" validate:"min=1"`
	MaxLimit     int `koanf:"max_limit" validate:"min=1,gtefield=DefaultLimit"`

	// Concurrency bounds parallel scoring and predictor calls.
	Concurrency int `koanf:"concurrency" validate:"min=1"`

	PredictorTimeout time.Duration `koanf:"predictor_timeout" validate:"gt=0"`

	// NarrowPriceBand is the canonical price span under which a price range
	// is reported as too narrow.
	NarrowPriceBand float64 `koanf:"narrow_price_band" validate:"gte=0"`
}

func DefaultConfig() Config {
	return Config{
		HardImportance:   7,
		RerankWeight:     0.30,
		RerankFactor:     2,
		DefaultLimit:     10,
		MaxLimit:         50,
		Concurrency:      8,
		PredictorTimeout: 2 * time.Second,
		NarrowPriceBand:  50_000_000,
	}
}

func (c Config) Validate() error {
	return validation.ValidateStruct(c)
}

// LoadWeightsFromFile loads default category weights from a JSON file,
// falling back to domain.DefaultWeights on read errors.
func LoadWeightsFromFile(path string) (domain.Weights, error) {
	w := domain.DefaultWeights()
	b, err := os.ReadFile(path)
	if err != nil {
		return w, fmt.Errorf("read weights file: %w", err)
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return domain.DefaultWeights(), fmt.Errorf("unmarshal weights: %w", err)
	}
	if err := validation.ValidateStruct(w); err != nil {
		return domain.DefaultWeights(), fmt.Errorf("invalid weights: %w", err)
	}
	return w, nil
}
