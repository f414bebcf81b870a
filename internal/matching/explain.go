package matching

import (
	"fmt"
	"math"
	"strings"

	"github.com/denisok6893-rgb/property-recommender/internal/domain"
)

const (
	maxNotes = 5

	strengthScore = 70
	weaknessScore = 40

	// Amenity preferences stronger than this are named in the summary.
	summaryImportance = 7

	// NoWeaknesses stands in for an empty weakness list.
	NoWeaknesses = "No significant weaknesses"
)

// Explain fills strengths, weaknesses and the summary of a scored
// recommendation.
func Explain(r *domain.Recommendation, p domain.PreferenceProfile) {
	var strengths, weaknesses []string
	for _, b := range r.Breakdown {
		if b.Explanation == "" {
			continue
		}
		note := b.Category.Label() + ": " + b.Explanation
		switch {
		case b.Score >= strengthScore:
			strengths = append(strengths, note)
		case b.Score < weaknessScore:
			weaknesses = append(weaknesses, note)
		}
	}
	r.Strengths = capNotes(strengths)
	r.Weaknesses = capNotes(weaknesses)
	if len(r.Weaknesses) == 0 {
		r.Weaknesses = []string{NoWeaknesses}
	}
	r.Summary = Summary(r.TotalScore, p)
}

// Summary gives a one-line verdict, naming the amenity preferences that
// weighed most.
func Summary(total float64, p domain.PreferenceProfile) string {
	var verdict string
	switch {
	case total >= 80:
		verdict = "Excellent option"
	case total >= 60:
		verdict = "Good option"
	case total >= 40:
		verdict = "Acceptable option"
	default:
		verdict = "Option with limitations"
	}

	var focus []string
	for _, cat := range domain.AmenityCategories {
		pref := p.Amenity(cat)
		if pref == nil || math.Abs(float64(pref.Importance)) <= summaryImportance {
			continue
		}
		if pref.Importance > 0 {
			focus = append(focus, "close to "+cat.Noun())
		} else {
			focus = append(focus, "away from "+cat.Noun())
		}
	}
	if len(focus) == 0 {
		return verdict
	}
	return fmt.Sprintf("%s, weighted towards being %s", verdict, strings.Join(focus, " and "))
}

func addStrength(r *domain.Recommendation, note string) {
	r.Strengths = capNotes(append([]string{note}, r.Strengths...))
}

func addWeakness(r *domain.Recommendation, note string) {
	if len(r.Weaknesses) == 1 && r.Weaknesses[0] == NoWeaknesses {
		r.Weaknesses = []string{note}
		return
	}
	r.Weaknesses = capNotes(append([]string{note}, r.Weaknesses...))
}

func capNotes(notes []string) []string {
	if notes == nil {
		return []string{}
	}
	if len(notes) > maxNotes {
		return notes[:maxNotes]
	}
	return notes
}
