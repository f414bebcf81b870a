package httpapi

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/denisok6893-rgb/property-recommender/internal/storage"
)

func newSQLiteServer(t *testing.T) *httptest.Server {
	t.Helper()

	st, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "candidates.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	if err := st.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}

	srv := NewServer(Options{
		Engine:  newTestEngine(t),
		Source:  st,
		Catalog: &SQLiteCandidatesRepo{Store: st},
		Logger:  zerolog.Nop(),
	})
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func TestGETCandidates_FiltersAndSort(t *testing.T) {
	t.Parallel()
	ts := newSQLiteServer(t)

	post := func(body string) string {
		resp, err := http.Post(ts.URL+"/candidates", "application/json", bytes.NewReader([]byte(body)))
		if err != nil {
			t.Fatalf("POST /candidates: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("POST /candidates status=%d", resp.StatusCode)
		}
		var created struct {
			ID string `json:"id"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return created.ID
	}

	post(`{"title":"A","zone":"Ñuñoa","price":{"amount":120000000,"currency":"clp"}}`)
	b := post(`{"title":"B","zone":"ñuñoa","price":{"amount":180000000,"currency":"clp"}}`)
	post(`{"title":"C","zone":"Santiago","price":{"amount":200000000,"currency":"clp"}}`)

	resp, err := http.Get(ts.URL + "/candidates?zone=" + url.QueryEscape("ÑUÑOA") + "&min_price=150000000&sort=price_desc&limit=20&offset=0")
	if err != nil {
		t.Fatalf("GET /candidates: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /candidates status=%d", resp.StatusCode)
	}

	var got struct {
		Total int `json:"total"`
		Items []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Total != 1 {
		t.Fatalf("total=%d want=1", got.Total)
	}
	if len(got.Items) != 1 || got.Items[0].ID != b {
		t.Fatalf("items=%+v want id=%q", got.Items, b)
	}
}

func TestCandidates_GetAndDelete(t *testing.T) {
	t.Parallel()
	ts := newSQLiteServer(t)

	resp, err := http.Post(ts.URL+"/candidates", "application/json",
		bytes.NewReader([]byte(`{"id":"x-1","zone":"Santiago"}`)))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/candidates/x-1")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET status=%d want=200", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/candidates/x-1", nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("DELETE status=%d want=200", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + "/candidates/x-1")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("GET after delete status=%d want=404", resp.StatusCode)
	}
}

func TestPOSTCandidates_RejectsMissingZone(t *testing.T) {
	t.Parallel()
	ts := newSQLiteServer(t)

	resp, err := http.Post(ts.URL+"/candidates", "application/json", bytes.NewReader([]byte(`{"title":"no zone"}`)))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status=%d want=400", resp.StatusCode)
	}
}

func TestPOSTRecommend_FromSQLiteSource(t *testing.T) {
	t.Parallel()
	ts := newSQLiteServer(t)

	for _, body := range []string{
		`{"id":"in","zone":"Ñuñoa","price":{"amount":150000000,"currency":"clp"}}`,
		`{"id":"out","zone":"Santiago","price":{"amount":150000000,"currency":"clp"}}`,
	} {
		resp, err := http.Post(ts.URL+"/candidates", "application/json", bytes.NewReader([]byte(body)))
		if err != nil {
			t.Fatalf("POST: %v", err)
		}
		resp.Body.Close()
	}

	resp, err := http.Post(ts.URL+"/recommend", "application/json",
		bytes.NewReader([]byte(`{"profile":{"constraints":{"zones_include":["ñuñoa"]}},"limit":5}`)))
	if err != nil {
		t.Fatalf("POST /recommend: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d want=200", resp.StatusCode)
	}

	var got struct {
		TotalFound      int `json:"total_found"`
		Recommendations []struct {
			Candidate struct {
				ID string `json:"id"`
			} `json:"candidate"`
		} `json:"recommendations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.TotalFound != 1 || got.Recommendations[0].Candidate.ID != "in" {
		t.Fatalf("got=%+v want only \"in\"", got)
	}
}
