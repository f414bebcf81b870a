package storage

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/denisok6893-rgb/property-recommender/internal/domain"
)

// LoadCandidatesFromFile reads candidates from a JSON array file.
func LoadCandidatesFromFile(path string) ([]domain.Candidate, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read candidates file: %w", err)
	}

	var items []domain.Candidate
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("unmarshal candidates: %w", err)
	}
	return items, nil
}

// MemorySource serves a fixed candidate set, for example one loaded from a
// JSON file.
type MemorySource struct {
	items []domain.Candidate
}

func NewMemorySource(items []domain.Candidate) *MemorySource {
	return &MemorySource{items: items}
}

// Candidates returns a copy of every candidate; the engine applies the
// profile's constraints.
func (m *MemorySource) Candidates(ctx context.Context, _ domain.PreferenceProfile) ([]domain.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]domain.Candidate(nil), m.items...), nil
}
