package domain

// ScoreBreakdown is one category's contribution to a candidate's total score.
type ScoreBreakdown struct {
	Category     Category `json:"category"`
	Score        float64  `json:"score"`
	Weight       float64  `json:"weight"`
	Contribution float64  `json:"contribution"`
	Explanation  string   `json:"explanation,omitempty"`
	Positives    []string `json:"positives,omitempty"`
	Negatives    []string `json:"negatives,omitempty"`
}

// Satisfaction is an externally predicted satisfaction value on a 0..10 scale.
type Satisfaction struct {
	Value      float64 `json:"value"`
	Confidence float64 `json:"confidence"`
	Level      string  `json:"level"`
}

type Recommendation struct {
	Candidate    Candidate        `json:"candidate"`
	TotalScore   float64          `json:"total_score"`
	Confidence   float64          `json:"confidence"`
	Breakdown    []ScoreBreakdown `json:"breakdown"`
	Strengths    []string         `json:"strengths"`
	Weaknesses   []string         `json:"weaknesses"`
	Summary      string           `json:"summary"`
	Satisfaction *Satisfaction    `json:"satisfaction,omitempty"`
}

type RecommendationResult struct {
	RequestID       string           `json:"request_id"`
	TotalCandidates int              `json:"total_candidates"`
	TotalAnalyzed   int              `json:"total_analyzed"`
	TotalFound      int              `json:"total_found"`
	Recommendations []Recommendation `json:"recommendations"`
	Suggestions     []string         `json:"suggestions"`
}
