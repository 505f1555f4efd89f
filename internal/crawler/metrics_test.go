package crawler

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics()
	atomic.AddUint64(&m.pagesFetched, 3)
	atomic.AddUint64(&m.duplicatesSkipped, 2)
	m.observeFetchLatency(30 * time.Millisecond)
	m.observeFetchLatency(3 * time.Second)
	m.observeFetchLatency(time.Minute)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		"crawler_up 1\n",
		"crawler_pages_fetched_total 3\n",
		"crawler_duplicates_skipped_total 2\n",
		"# TYPE crawler_fetch_latency_seconds histogram\n",
		"crawler_fetch_latency_seconds_bucket{le=\"0.05\"} 1\n",
		"crawler_fetch_latency_seconds_bucket{le=\"5.00\"} 2\n",
		"crawler_fetch_latency_seconds_bucket{le=\"+Inf\"} 3\n",
		"crawler_fetch_latency_seconds_count 3\n",
	} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("metrics output missing %q:\n%s", want, body)
		}
	}
}

func TestMetricsHandlerRejectsPost(t *testing.T) {
	rec := httptest.NewRecorder()
	NewMetrics().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/metrics", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
