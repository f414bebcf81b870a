package matching

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/denisok6893-rgb/property-recommender/internal/domain"
	"github.com/denisok6893-rgb/property-recommender/internal/metrics"
	"github.com/denisok6893-rgb/property-recommender/internal/predictor"
	"github.com/denisok6893-rgb/property-recommender/internal/scoring"
)

const (
	strongSatisfaction = 7.0
	weakSatisfaction   = 4.0
)

// rerank asks the predictor about every recommendation concurrently and folds
// each answer into its total score. A failed call leaves that recommendation
// untouched and does not affect the others.
func (e *Engine) rerank(ctx context.Context, logger zerolog.Logger, recs []domain.Recommendation, profile domain.PreferenceProfile) {
	// plain Group: one failure must not cancel sibling calls
	var g errgroup.Group
	g.SetLimit(e.cfg.Concurrency)

	for i := range recs {
		g.Go(func() error {
			r := &recs[i]
			p, err := e.predict(ctx, r.Candidate)
			if err != nil {
				logger.Warn().Str("candidate_id", r.Candidate.ID).Err(err).Msg("satisfaction prediction failed, keeping base score")
				return nil
			}
			applySatisfaction(r, p, e.cfg.RerankWeight, profile)
			return nil
		})
	}
	_ = g.Wait()
}

func (e *Engine) predict(ctx context.Context, c domain.Candidate) (predictor.Prediction, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.PredictorTimeout)
	defer cancel()

	started := time.Now()
	p, err := e.predictor.Predict(ctx, e.schema.Build(c))
	if err == nil {
		err = p.Validate()
	}
	metrics.ObservePredictor(err, started)
	return p, err
}

// applySatisfaction adds (value/10×100)×weight to the total score and records
// the prediction as a synthetic breakdown entry.
func applySatisfaction(r *domain.Recommendation, p predictor.Prediction, weight float64, profile domain.PreferenceProfile) {
	score := p.Value / 10 * 100
	bonus := score * weight
	level := predictor.Level(p.Value)

	r.TotalScore = scoring.Clamp(r.TotalScore+bonus, 0, 100)
	r.Breakdown = append(r.Breakdown, domain.ScoreBreakdown{
		Category:     domain.CategorySatisfaction,
		Score:        score,
		Weight:       weight,
		Contribution: bonus,
		Explanation:  fmt.Sprintf("Predicted satisfaction %.1f/10 (%s)", p.Value, level),
	})
	r.Satisfaction = &domain.Satisfaction{Value: p.Value, Confidence: p.Confidence, Level: level}

	switch {
	case p.Value >= strongSatisfaction:
		addStrength(r, fmt.Sprintf("Satisfaction: high predicted satisfaction (%.1f/10)", p.Value))
	case p.Value < weakSatisfaction:
		addWeakness(r, fmt.Sprintf("Satisfaction: low predicted satisfaction (%.1f/10)", p.Value))
	}
	r.Summary = Summary(r.TotalScore, profile)
}
