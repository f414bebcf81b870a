package predictor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

func newTestClient(t *testing.T, h http.HandlerFunc, minRequests uint32) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	cfg := DefaultClientConfig()
	cfg.URL = ts.URL
	cfg.BreakerName = t.Name()
	cfg.BreakerMinRequests = minRequests
	c, err := NewClient(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestClient_Predict(t *testing.T) {
	t.Parallel()

	var got predictRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/predict" || r.Method != http.MethodPost {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"satisfaction": 8.2, "confidence": 0.9}`))
	}, 10)

	fv := FeatureVector{Version: SchemaV1, Names: []string{"usable_area"}, Values: []float64{80}}
	p, err := c.Predict(context.Background(), fv)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if p.Value != 8.2 || p.Confidence != 0.9 {
		t.Fatalf("prediction=%+v", p)
	}
	if got.SchemaVersion != SchemaV1 || len(got.Features) != 1 || got.Features[0] != 80 {
		t.Fatalf("request body=%+v", got)
	}
}

func TestClient_ServerErrorIsUnavailable(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}, 10)

	_, err := c.Predict(context.Background(), FeatureVector{})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err=%v want ErrUnavailable", err)
	}
}

func TestClient_InvalidValue(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"satisfaction": 14}`))
	}, 10)

	_, err := c.Predict(context.Background(), FeatureVector{})
	if !errors.Is(err, ErrInvalidPrediction) {
		t.Fatalf("err=%v want ErrInvalidPrediction", err)
	}
}

func TestClient_BreakerOpens(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}, 2)

	for i := 0; i < 2; i++ {
		if _, err := c.Predict(context.Background(), FeatureVector{}); err == nil {
			t.Fatalf("call %d: expected error", i)
		}
	}
	if c.State() != "open" {
		t.Fatalf("state=%q want=open", c.State())
	}

	_, err := c.Predict(context.Background(), FeatureVector{})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err=%v want ErrUnavailable", err)
	}
	if n := calls.Load(); n != 2 {
		t.Fatalf("server calls=%d want=2 (open circuit must not call out)", n)
	}
}

func TestNewClient_RequiresURL(t *testing.T) {
	t.Parallel()
	if _, err := NewClient(ClientConfig{}, zerolog.Nop()); err == nil {
		t.Fatalf("expected error for empty url")
	}
}
