// Package currency converts listing prices between UF and Chilean pesos.
// CLP is the canonical unit: every price the engine scores is in CLP.
package currency

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/denisok6893-rgb/property-recommender/internal/domain"
)

const (
	CLP = "clp"
	UF  = "uf"

	// DefaultUFRate is CLP per UF.
	DefaultUFRate = 37500.0

	// Amounts below this with no explicit CLP unit are read as UF. No
	// dwelling is listed under 10.000 pesos, and none over 10.000 UF is in
	// the catalogue.
	ufAmountCeiling = 10000.0
)

var printer = message.NewPrinter(language.MustParse("es-CL"))

// Normalizer converts prices with a fixed UF rate.
type Normalizer struct {
	ufRate float64
}

func NewNormalizer(ufRate float64) *Normalizer {
	if ufRate <= 0 {
		ufRate = DefaultUFRate
	}
	return &Normalizer{ufRate: ufRate}
}

func (n *Normalizer) Rate() float64 { return n.ufRate }

// DetectUnit resolves the unit of an amount. Listings often carry "uf" or no
// unit at all regardless of the real one, so the magnitude decides.
func DetectUnit(amount float64, unit string) string {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case CLP, "$", "peso", "pesos":
		return CLP
	case UF, "", "undefined", "none", "null":
		if amount < ufAmountCeiling {
			return UF
		}
		return CLP
	default:
		return CLP
	}
}

// ToCanonical returns the price in CLP. Unknown amounts stay unknown.
func (n *Normalizer) ToCanonical(m domain.Money) domain.Money {
	amount, ok := m.Amount.Get()
	if !ok {
		return domain.Money{Currency: CLP}
	}
	if DetectUnit(amount, m.Currency) == UF {
		amount = n.UFToCLP(amount)
	}
	return domain.Money{Amount: domain.Some(amount), Currency: CLP}
}

// FromCanonical converts a CLP amount to the display unit.
func (n *Normalizer) FromCanonical(clp float64, unit string) (float64, error) {
	switch strings.ToLower(unit) {
	case CLP, "":
		return clp, nil
	case UF:
		return n.CLPToUF(clp), nil
	default:
		return 0, fmt.Errorf("unsupported currency %q", unit)
	}
}

func (n *Normalizer) UFToCLP(uf float64) float64 { return uf * n.ufRate }

func (n *Normalizer) CLPToUF(clp float64) float64 { return clp / n.ufRate }

// FormatCLP renders an amount like "$150.000.000".
func FormatCLP(clp float64) string {
	return printer.Sprintf("$%d", int64(math.Round(clp)))
}

// FormatUF renders an amount like "4.500 UF".
func FormatUF(uf float64) string {
	return printer.Sprintf("%d UF", int64(math.Round(uf)))
}
