package predictor

import "context"

// Heuristic is a deterministic offline predictor. It rewards generous room
// sizes, bathrooms per bedroom and nearby transit and parks, and penalises
// expensive square meters.
type Heuristic struct{}

func (Heuristic) Predict(ctx context.Context, fv FeatureVector) (Prediction, error) {
	if err := ctx.Err(); err != nil {
		return Prediction{}, err
	}

	v := 5.0
	if m2, _ := fv.Get("m2_per_bedroom"); m2 >= 25 {
		v += 1.5
	}
	if ratio, _ := fv.Get("bath_bed_ratio"); ratio >= 0.5 {
		v++
	}
	if d, _ := fv.Get("dist_transit"); d > 0 && d <= 800 {
		v++
	}
	if d, _ := fv.Get("dist_green_space"); d > 0 && d <= 500 {
		v += 0.5
	}
	if p, _ := fv.Get("price_m2_uf"); p > 120 {
		v--
	}

	switch {
	case v < 0:
		v = 0
	case v > 10:
		v = 10
	}
	return Prediction{Value: v, Confidence: 0.5}, nil
}
