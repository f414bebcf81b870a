package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/denisok6893-rgb/property-recommender/internal/currency"
	"github.com/denisok6893-rgb/property-recommender/internal/matching"
)

func newTestEngine(t *testing.T) *matching.Engine {
	t.Helper()
	e, err := matching.NewEngine(matching.DefaultConfig(), matching.Dependencies{
		Currency: currency.NewNormalizer(0),
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func postRecommend(t *testing.T, ts *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+"/recommend", "application/json", bytes.NewReader([]byte(body)))
	if err != nil {
		t.Fatalf("POST /recommend: %v", err)
	}
	return resp
}

const inlineCandidates = `[
  {"id":"a","zone":"Ñuñoa","price":{"amount":150000000,"currency":"clp"},"physical":{"usable_area":70,"bedrooms":2}},
  {"id":"b","zone":"Ñuñoa","price":{"amount":400000000,"currency":"clp"}},
  {"id":"c","zone":"Santiago","price":{"amount":4000,"currency":"uf"}}
]`

func TestPOSTRecommend_InlineCandidates(t *testing.T) {
	t.Parallel()

	srv := NewServer(Options{Engine: newTestEngine(t), Logger: zerolog.Nop()})
	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	resp := postRecommend(t, ts, `{
	  "profile": {"constraints": {"price_min": 100000000, "price_max": 300000000}},
	  "limit": 5,
	  "candidates": `+inlineCandidates+`
	}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d want=200", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-Id") == "" {
		t.Fatal("missing X-Request-Id header")
	}

	var got struct {
		RequestID       string `json:"request_id"`
		TotalCandidates int    `json:"total_candidates"`
		TotalAnalyzed   int    `json:"total_analyzed"`
		TotalFound      int    `json:"total_found"`
		Recommendations []struct {
			Candidate struct {
				ID string `json:"id"`
			} `json:"candidate"`
			TotalScore float64 `json:"total_score"`
		} `json:"recommendations"`
		Suggestions []string `json:"suggestions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}

	// b is over budget; c is 4000 UF = 150M CLP and stays
	if got.TotalCandidates != 3 || got.TotalAnalyzed != 2 || got.TotalFound != 2 {
		t.Fatalf("totals=%d/%d/%d want=3/2/2", got.TotalCandidates, got.TotalAnalyzed, got.TotalFound)
	}
	if got.RequestID == "" {
		t.Fatal("empty request_id")
	}
	if got.Suggestions == nil {
		t.Fatal("suggestions must be a list")
	}
	for _, r := range got.Recommendations {
		if r.Candidate.ID == "b" {
			t.Fatal("over-budget candidate returned")
		}
		if r.TotalScore < 0 || r.TotalScore > 100 {
			t.Fatalf("total_score=%v out of range", r.TotalScore)
		}
	}
}

func TestPOSTRecommend_Errors(t *testing.T) {
	t.Parallel()

	srv := NewServer(Options{Engine: newTestEngine(t), Logger: zerolog.Nop()})
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)

	tests := []struct {
		name   string
		body   string
		status int
		field  string
	}{
		{
			name:   "weights do not sum to one",
			body:   `{"profile":{"weights":{"price":0.5}},"candidates":[]}`,
			status: http.StatusBadRequest,
			field:  "weights",
		},
		{
			name:   "negative bound",
			body:   `{"profile":{"constraints":{"price_min":-1}},"candidates":[]}`,
			status: http.StatusBadRequest,
			field:  "constraints.price_min",
		},
		{
			name:   "inverted range",
			body:   `{"profile":{"constraints":{"price_min":200,"price_max":100}},"candidates":[]}`,
			status: http.StatusBadRequest,
			field:  "constraints.price_max",
		},
		{
			name:   "malformed json",
			body:   `{"profile":`,
			status: http.StatusBadRequest,
		},
		{
			name:   "no candidates and no source",
			body:   `{"profile":{}}`,
			status: http.StatusServiceUnavailable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			resp := postRecommend(t, ts, tt.body)
			defer resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Fatalf("status=%d want=%d", resp.StatusCode, tt.status)
			}
			if tt.field == "" {
				return
			}
			var body map[string]string
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["field"] != tt.field {
				t.Fatalf("field=%q want=%q", body["field"], tt.field)
			}
		})
	}
}

func TestHealthAndMetrics(t *testing.T) {
	t.Parallel()

	srv := NewServer(Options{Engine: newTestEngine(t), Logger: zerolog.Nop()})
	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	for _, path := range []string{"/health", "/metrics"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s status=%d want=200", path, resp.StatusCode)
		}
	}

	resp, err := http.Get(ts.URL + "/candidates")
	if err != nil {
		t.Fatalf("GET /candidates: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotImplemented {
		t.Fatalf("GET /candidates without catalog status=%d want=501", resp.StatusCode)
	}
}
