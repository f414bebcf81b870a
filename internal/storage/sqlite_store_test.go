package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/denisok6893-rgb/property-recommender/internal/domain"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := OpenSQLite(filepath.Join(t.TempDir(), "candidates.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	if err := st.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	return st
}

func seedCandidates() []domain.Candidate {
	return []domain.Candidate{
		{
			ID: "c-1", Title: "Depto Ñuñoa", Zone: "Ñuñoa", PropertyType: "apartment",
			Price:    domain.Money{Amount: domain.Some(4500.0), Currency: "uf"},
			Physical: domain.Physical{UsableArea: domain.Some(60.0), Bedrooms: domain.Some(2)},
			Building: domain.Building{Floor: domain.Some(8), Orientation: "north"},
			Distances: domain.Distances{
				Transit: domain.Some(350.0),
			},
		},
		{
			ID: "c-2", Title: "Casa La Reina", Zone: "La Reina", PropertyType: "house",
			Price:    domain.Money{Amount: domain.Some(250_000_000.0), Currency: "clp"},
			Physical: domain.Physical{UsableArea: domain.Some(140.0), Bedrooms: domain.Some(4)},
		},
		{
			ID: "c-3", Title: "Depto Santiago", Zone: "Santiago", PropertyType: "apartment",
		},
	}
}

func TestSQLiteStore_RoundTripKeepsUnknowns(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := openTestStore(t)

	if err := st.UpsertMany(ctx, seedCandidates()); err != nil {
		t.Fatalf("UpsertMany: %v", err)
	}
	// seeding twice must not duplicate
	if err := st.UpsertMany(ctx, seedCandidates()); err != nil {
		t.Fatalf("UpsertMany again: %v", err)
	}
	n, err := st.CountCandidates(ctx)
	if err != nil {
		t.Fatalf("CountCandidates: %v", err)
	}
	if n != 3 {
		t.Fatalf("count=%d want=3", n)
	}

	c, ok, err := st.GetCandidate(ctx, "c-1")
	if err != nil || !ok {
		t.Fatalf("GetCandidate ok=%v err=%v", ok, err)
	}
	if v, _ := c.Price.Amount.Get(); v != 4500 || c.Price.Currency != "uf" {
		t.Fatalf("price=%v %q want=4500 uf", v, c.Price.Currency)
	}
	if v, _ := c.Building.Floor.Get(); v != 8 {
		t.Fatalf("floor=%d want=8", v)
	}
	if c.Physical.Bathrooms.IsSet() {
		t.Fatal("bathrooms should stay unknown")
	}
	if c.Distances.Health.IsSet() {
		t.Fatal("health distance should stay unknown")
	}

	bare, ok, err := st.GetCandidate(ctx, "c-3")
	if err != nil || !ok {
		t.Fatalf("GetCandidate ok=%v err=%v", ok, err)
	}
	if bare.Price.Amount.IsSet() {
		t.Fatal("price should stay unknown")
	}

	if _, ok, _ := st.GetCandidate(ctx, "missing"); ok {
		t.Fatal("missing candidate reported as found")
	}
}

func TestSQLiteStore_CandidatesPrefiltersZoneAndType(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := openTestStore(t)
	if err := st.UpsertMany(ctx, seedCandidates()); err != nil {
		t.Fatalf("UpsertMany: %v", err)
	}

	tests := []struct {
		name string
		c    domain.HardConstraints
		want []string
	}{
		{name: "no constraints", want: []string{"c-1", "c-2", "c-3"}},
		{name: "include is case insensitive", c: domain.HardConstraints{ZonesInclude: []string{"ÑUÑOA", " santiago "}}, want: []string{"c-1", "c-3"}},
		{name: "exclude", c: domain.HardConstraints{ZonesExclude: []string{"la reina"}}, want: []string{"c-1", "c-3"}},
		{name: "property type", c: domain.HardConstraints{PropertyType: "House"}, want: []string{"c-2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := st.Candidates(ctx, domain.PreferenceProfile{Constraints: tt.c})
			if err != nil {
				t.Fatalf("Candidates: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("len=%d want=%d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Fatalf("got[%d]=%q want=%q", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestSQLiteStore_ListCreateDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := openTestStore(t)
	if err := st.UpsertMany(ctx, seedCandidates()); err != nil {
		t.Fatalf("UpsertMany: %v", err)
	}

	created, err := st.CreateCandidate(ctx, domain.Candidate{
		Title: "Nuevo", Zone: "Santiago",
		Price: domain.Money{Amount: domain.Some(90_000_000.0), Currency: "clp"},
	})
	if err != nil {
		t.Fatalf("CreateCandidate: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}

	items, total, err := st.ListCandidates(ctx, ListFilter{Zone: "SANTIAGO", Sort: "price_desc", Limit: 10})
	if err != nil {
		t.Fatalf("ListCandidates: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("total=%d items=%d want=2", total, len(items))
	}
	// unknown price sorts last in descending order
	if items[0].ID != created.ID {
		t.Fatalf("first=%q want=%q", items[0].ID, created.ID)
	}

	_, total, err = st.ListCandidates(ctx, ListFilter{MinPrice: 100_000_000})
	if err != nil {
		t.Fatalf("ListCandidates: %v", err)
	}
	if total != 1 {
		t.Fatalf("total=%d want=1", total)
	}

	ok, err := st.DeleteCandidate(ctx, created.ID)
	if err != nil || !ok {
		t.Fatalf("DeleteCandidate ok=%v err=%v", ok, err)
	}
	ok, _ = st.DeleteCandidate(ctx, created.ID)
	if ok {
		t.Fatal("second delete reported success")
	}
}

func TestLoadCandidatesFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "candidates.json")
	body := `[{"id":"a","zone":"Ñuñoa","price":{"amount":4500,"currency":"uf"},"physical":{"bedrooms":2,"bathrooms":null}}]`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	items, err := LoadCandidatesFromFile(path)
	if err != nil {
		t.Fatalf("LoadCandidatesFromFile: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items=%d want=1", len(items))
	}
	if v, _ := items[0].Physical.Bedrooms.Get(); v != 2 {
		t.Fatalf("bedrooms=%d want=2", v)
	}
	if items[0].Physical.Bathrooms.IsSet() {
		t.Fatal("null bathrooms should be unknown")
	}

	src := NewMemorySource(items)
	got, err := src.Candidates(context.Background(), domain.PreferenceProfile{})
	if err != nil || len(got) != 1 {
		t.Fatalf("Candidates len=%d err=%v", len(got), err)
	}

	if _, err := LoadCandidatesFromFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
