package currency

import (
	"math"
	"testing"

	"github.com/denisok6893-rgb/property-recommender/internal/domain"
)

func TestDetectUnit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		amount float64
		unit   string
		want   string
	}{
		{4500, "uf", UF},
		{4500, "", UF},
		{4500, "undefined", UF},
		{4500, "CLP", CLP},
		{150_000_000, "uf", CLP},
		{150_000_000, "", CLP},
		{150_000_000, "clp", CLP},
	}
	for _, tt := range tests {
		if got := DetectUnit(tt.amount, tt.unit); got != tt.want {
			t.Errorf("DetectUnit(%v, %q)=%q want=%q", tt.amount, tt.unit, got, tt.want)
		}
	}
}

func TestNormalizer_ToCanonical(t *testing.T) {
	t.Parallel()
	n := NewNormalizer(0)

	got := n.ToCanonical(domain.Money{Amount: domain.Some(4000.0), Currency: "uf"})
	v, ok := got.Amount.Get()
	if !ok || v != 4000*DefaultUFRate || got.Currency != CLP {
		t.Fatalf("got=%v,%v,%q want=%v clp", v, ok, got.Currency, 4000*DefaultUFRate)
	}

	got = n.ToCanonical(domain.Money{Amount: domain.Some(120_000_000.0)})
	if v, _ := got.Amount.Get(); v != 120_000_000 {
		t.Fatalf("clp amount changed: %v", v)
	}

	got = n.ToCanonical(domain.Money{Currency: "uf"})
	if got.Amount.IsSet() {
		t.Fatalf("unknown amount became known")
	}
}

func TestNormalizer_FromCanonical(t *testing.T) {
	t.Parallel()
	n := NewNormalizer(40000)

	uf, err := n.FromCanonical(200_000_000, UF)
	if err != nil {
		t.Fatalf("FromCanonical: %v", err)
	}
	if math.Abs(uf-5000) > 1e-9 {
		t.Fatalf("uf=%v want=5000", uf)
	}
	if _, err := n.FromCanonical(1, "usd"); err == nil {
		t.Fatalf("expected error for unsupported unit")
	}
}

func TestFormatCLP(t *testing.T) {
	t.Parallel()
	if got := FormatCLP(150_000_000); got != "$150.000.000" {
		t.Fatalf("FormatCLP=%q", got)
	}
}
