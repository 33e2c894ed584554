package obs_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/noah-isme/discount-api/internal/obs"
)

func TestHTTPMetricsLabels(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := obs.NewHTTPMetrics("discount", []float64{1, 10}, registry)
	handler := obs.HTTPObs{Metrics: metrics}.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	req = req.WithContext(obs.WithRoutePattern(req.Context(), "/health/ready"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", rr.Code)
	}

	total := testutil.ToFloat64(metrics.ReqTotal.WithLabelValues(http.MethodGet, "/health/ready", "204"))
	if total != 1 {
		t.Fatalf("expected counter to be 1, got %v", total)
	}
	if samples := testutil.CollectAndCount(metrics.ReqDur); samples == 0 {
		t.Fatal("expected histogram sample")
	}
	if val := testutil.ToFloat64(metrics.InFlight); val != 0 {
		t.Fatalf("expected no in-flight requests, got %v", val)
	}
}

func TestStatusRecorderDefaults(t *testing.T) {
	rr := httptest.NewRecorder()
	recorder := obs.NewStatusRecorder(rr)
	if recorder.Status() != http.StatusOK {
		t.Fatalf("expected default 200, got %d", recorder.Status())
	}
	n, err := recorder.Write([]byte("ok"))
	if err != nil || n != 2 {
		t.Fatalf("write failed: n=%d err=%v", n, err)
	}
	if recorder.BytesWritten() != 2 {
		t.Fatalf("expected 2 bytes recorded, got %d", recorder.BytesWritten())
	}
}

func TestParseBucketsCSV(t *testing.T) {
	got := obs.ParseBucketsCSV("10, 5, bogus, -1, 100")
	want := []float64{10, 5, 100}
	if len(got) != len(want) {
		t.Fatalf("unexpected buckets %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected buckets %v", got)
		}
	}
}
