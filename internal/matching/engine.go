// Package matching ranks candidates against a preference profile: hard
// filtering, per-category scoring, aggregation, explanation and a tiered
// rerank with an external satisfaction predictor.
package matching

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/denisok6893-rgb/property-recommender/internal/domain"
	"github.com/denisok6893-rgb/property-recommender/internal/metrics"
	"github.com/denisok6893-rgb/property-recommender/internal/predictor"
	"github.com/denisok6893-rgb/property-recommender/internal/validation"
)

// CandidateSource supplies candidates with distances already measured. The
// profile lets a source pre-filter; the engine re-applies every constraint.
type CandidateSource interface {
	Candidates(ctx context.Context, p domain.PreferenceProfile) ([]domain.Candidate, error)
}

// CurrencyNormalizer converts a listing price to the canonical unit.
type CurrencyNormalizer interface {
	ToCanonical(m domain.Money) domain.Money
}

// Dependencies are the engine's external collaborators. Predictor and Schema
// may be nil, in which case the rerank stage is skipped.
type Dependencies struct {
	Currency  CurrencyNormalizer
	Predictor predictor.Predictor
	Schema    *predictor.Schema
}

type Engine struct {
	cfg       Config
	currency  CurrencyNormalizer
	predictor predictor.Predictor
	schema    *predictor.Schema
	logger    zerolog.Logger
}

func NewEngine(cfg Config, deps Dependencies, logger zerolog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	if deps.Currency == nil {
		return nil, fmt.Errorf("currency normalizer is required")
	}
	if deps.Predictor != nil && deps.Schema == nil {
		return nil, fmt.Errorf("predictor requires a feature schema")
	}
	return &Engine{
		cfg:       cfg,
		currency:  deps.Currency,
		predictor: deps.Predictor,
		schema:    deps.Schema,
		logger:    logger.With().Str("component", "matching").Logger(),
	}, nil
}

func (e *Engine) Config() Config { return e.cfg }

type requestIDKey struct{}

// ContextWithRequestID tags a context so the engine logs and returns id.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

// Recommend validates the profile, filters and scores candidates, reranks the
// best 2×limit with the satisfaction predictor and returns the top limit.
// Only an invalid profile or a canceled context is an error.
func (e *Engine) Recommend(ctx context.Context, candidates []domain.Candidate, profile domain.PreferenceProfile, limit int) (domain.RecommendationResult, error) {
	started := time.Now()
	id := requestID(ctx)
	limit = e.normalizeLimit(limit)

	logger := e.logger.With().
		Str("request_id", id).
		Int("limit", limit).
		Int("candidates", len(candidates)).
		Logger()

	if err := validation.ValidateProfile(profile); err != nil {
		metrics.ObserveRecommend("invalid", started)
		logger.Debug().Err(err).Msg("profile rejected")
		return domain.RecommendationResult{}, err
	}

	canonical := make([]domain.Candidate, len(candidates))
	for i, c := range candidates {
		c.Price = e.currency.ToCanonical(c.Price)
		canonical[i] = c
	}

	filtered := Filter(canonical, profile, e.cfg.HardImportance)
	for reason, n := range filtered.Rejected {
		metrics.CandidatesFiltered.WithLabelValues(string(reason)).Add(float64(n))
	}

	recs, err := e.scoreAll(ctx, filtered.Kept, profile)
	if err != nil {
		metrics.ObserveRecommend("canceled", started)
		return domain.RecommendationResult{}, fmt.Errorf("score candidates: %w", err)
	}

	sortRecommendations(recs)
	recs = truncate(recs, limit*e.cfg.RerankFactor)

	if e.predictor != nil && len(recs) > 0 {
		e.rerank(ctx, logger, recs, profile)
		sortRecommendations(recs)
	}
	if err := ctx.Err(); err != nil {
		metrics.ObserveRecommend("canceled", started)
		return domain.RecommendationResult{}, fmt.Errorf("recommend: %w", err)
	}
	recs = truncate(recs, limit)

	result := domain.RecommendationResult{
		RequestID:       id,
		TotalCandidates: len(candidates),
		TotalAnalyzed:   len(filtered.Kept),
		TotalFound:      len(recs),
		Recommendations: recs,
		Suggestions:     suggestions(profile, len(filtered.Kept), len(recs), e.cfg.NarrowPriceBand),
	}

	metrics.ObserveRecommend("ok", started)
	logger.Info().
		Int("analyzed", result.TotalAnalyzed).
		Int("found", result.TotalFound).
		Dur("duration", time.Since(started)).
		Msg("recommendation complete")
	return result, nil
}

// RecommendFromSource fetches candidates from src, then calls Recommend.
func (e *Engine) RecommendFromSource(ctx context.Context, src CandidateSource, profile domain.PreferenceProfile, limit int) (domain.RecommendationResult, error) {
	if err := validation.ValidateProfile(profile); err != nil {
		return domain.RecommendationResult{}, err
	}
	candidates, err := src.Candidates(ctx, profile)
	if err != nil {
		return domain.RecommendationResult{}, fmt.Errorf("load candidates: %w", err)
	}
	return e.Recommend(ctx, candidates, profile, limit)
}

// scoreAll scores candidates with bounded parallelism. Each worker writes
// only its own slot; Wait is the barrier before sorting.
func (e *Engine) scoreAll(ctx context.Context, candidates []domain.Candidate, profile domain.PreferenceProfile) ([]domain.Recommendation, error) {
	recs := make([]domain.Recommendation, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Concurrency)
	for i := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			recs[i] = scoreCandidate(candidates[i], profile)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return recs, nil
}

func (e *Engine) normalizeLimit(limit int) int {
	if limit <= 0 {
		return e.cfg.DefaultLimit
	}
	if limit > e.cfg.MaxLimit {
		return e.cfg.MaxLimit
	}
	return limit
}

// sortRecommendations orders by total score, then confidence, then id, so
// equal inputs always rank the same way.
func sortRecommendations(recs []domain.Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		a, b := &recs[i], &recs[j]
		if a.TotalScore != b.TotalScore {
			return a.TotalScore > b.TotalScore
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		return a.Candidate.ID < b.Candidate.ID
	})
}

func truncate(recs []domain.Recommendation, n int) []domain.Recommendation {
	if len(recs) > n {
		return recs[:n]
	}
	return recs
}
