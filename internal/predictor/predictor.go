// Package predictor provides satisfaction predictors for the reranking stage
// and the versioned feature vector they consume.
package predictor

import (
	"context"
	"errors"
	"math"
)

var (
	// ErrUnavailable wraps every failure to reach a predictor.
	ErrUnavailable = errors.New("satisfaction predictor unavailable")

	// ErrInvalidPrediction is returned for values outside 0..10 or NaN.
	ErrInvalidPrediction = errors.New("invalid satisfaction prediction")
)

// Prediction is a satisfaction value on a 0..10 scale.
type Prediction struct {
	Value      float64 `json:"satisfaction"`
	Confidence float64 `json:"confidence"`
}

// Validate rejects values a model should never produce.
func (p Prediction) Validate() error {
	if math.IsNaN(p.Value) || p.Value < 0 || p.Value > 10 {
		return ErrInvalidPrediction
	}
	if math.IsNaN(p.Confidence) || p.Confidence < 0 || p.Confidence > 1 {
		return ErrInvalidPrediction
	}
	return nil
}

// Predictor estimates buyer satisfaction from a feature vector. Every call is
// independent; failures are reported, never retried.
type Predictor interface {
	Predict(ctx context.Context, fv FeatureVector) (Prediction, error)
}

// Func adapts a function to Predictor.
type Func func(ctx context.Context, fv FeatureVector) (Prediction, error)

func (f Func) Predict(ctx context.Context, fv FeatureVector) (Prediction, error) {
	return f(ctx, fv)
}

// Level labels a satisfaction value.
func Level(value float64) string {
	switch {
	case value >= 8:
		return "Excellent"
	case value >= 6:
		return "Good"
	case value >= 4:
		return "Fair"
	default:
		return "Low"
	}
}
