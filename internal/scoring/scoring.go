// Package scoring holds the per-category scorers. Every function is pure: it
// reads a candidate attribute and the matching preference and returns a 0..100
// score with explanation text. Unknown data scores neutral.
package scoring

import "math"

// Neutral is the score given when there is no data or no preference signal.
const Neutral = 50.0

// maxFactors caps the positive and negative factor lists of one category.
const maxFactors = 3

type Result struct {
	Score       float64
	Explanation string
	Positives   []string
	Negatives   []string
}

func neutral(explanation string) Result {
	return Result{Score: Neutral, Explanation: explanation}
}

func (r Result) capped() Result {
	r.Score = Clamp(r.Score, 0, 100)
	if len(r.Positives) > maxFactors {
		r.Positives = r.Positives[:maxFactors]
	}
	if len(r.Negatives) > maxFactors {
		r.Negatives = r.Negatives[:maxFactors]
	}
	return r
}

func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
