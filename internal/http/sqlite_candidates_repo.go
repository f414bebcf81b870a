package httpapi

import (
	"context"
	"strconv"

	"github.com/denisok6893-rgb/property-recommender/internal/domain"
	"github.com/denisok6893-rgb/property-recommender/internal/storage"
)

// SQLiteCandidatesRepo serves the candidate catalog from a SQLite store.
type SQLiteCandidatesRepo struct {
	Store *storage.SQLiteStore
}

func (r *SQLiteCandidatesRepo) List(ctx context.Context, p ListParams) ([]domain.Candidate, int, error) {
	// unparsable bounds are ignored rather than rejected
	minPrice, _ := strconv.ParseFloat(p.MinPrice, 64)
	maxPrice, _ := strconv.ParseFloat(p.MaxPrice, 64)

	return r.Store.ListCandidates(ctx, storage.ListFilter{
		Limit:    p.Limit,
		Offset:   p.Offset,
		Zone:     p.Zone,
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Sort:     p.Sort,
	})
}

func (r *SQLiteCandidatesRepo) Get(ctx context.Context, id string) (domain.Candidate, bool, error) {
	return r.Store.GetCandidate(ctx, id)
}

func (r *SQLiteCandidatesRepo) Create(ctx context.Context, c domain.Candidate) (domain.Candidate, error) {
	return r.Store.CreateCandidate(ctx, c)
}

func (r *SQLiteCandidatesRepo) Delete(ctx context.Context, id string) (bool, error) {
	return r.Store.DeleteCandidate(ctx, id)
}
