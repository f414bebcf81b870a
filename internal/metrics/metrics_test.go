package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObservePredictor(t *testing.T) {
	t.Parallel()

	okBefore := testutil.ToFloat64(PredictorCalls.WithLabelValues("success"))
	failBefore := testutil.ToFloat64(PredictorCalls.WithLabelValues("failure"))

	ObservePredictor(nil, time.Now())
	ObservePredictor(errors.New("boom"), time.Now())
	ObservePredictor(errors.New("boom"), time.Now())

	if got := testutil.ToFloat64(PredictorCalls.WithLabelValues("success")) - okBefore; got != 1 {
		t.Fatalf("success delta=%v want=1", got)
	}
	if got := testutil.ToFloat64(PredictorCalls.WithLabelValues("failure")) - failBefore; got != 2 {
		t.Fatalf("failure delta=%v want=2", got)
	}
}

func TestObserveRecommend(t *testing.T) {
	t.Parallel()

	before := testutil.ToFloat64(RecommendRequests.WithLabelValues("invalid"))
	ObserveRecommend("invalid", time.Now())
	if got := testutil.ToFloat64(RecommendRequests.WithLabelValues("invalid")) - before; got != 1 {
		t.Fatalf("delta=%v want=1", got)
	}
}
