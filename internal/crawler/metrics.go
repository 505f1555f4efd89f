package crawler

import (
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"
)

// Fetch latency buckets in seconds; +Inf is implicit.
var fetchLatencyBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10}

// Metrics counts crawl activity for one process and renders it as Prometheus text.
// A single Metrics is shared by every worker in a pool.
type Metrics struct {
	linksClaimed      uint64
	duplicatesSkipped uint64
	robotsDisallowed  uint64
	pagesFetched      uint64
	fetchFailures     uint64
	pagesExtracted    uint64
	linksDiscovered   uint64
	extractFailures   uint64
	storageErrors     uint64
	edgeFailures      uint64
	workersRunning    int64

	fetchLatency *histogram
}

// MetricsSnapshot is a point-in-time copy of the counters.
type MetricsSnapshot struct {
	LinksClaimed      uint64
	DuplicatesSkipped uint64
	RobotsDisallowed  uint64
	PagesFetched      uint64
	FetchFailures     uint64
	PagesExtracted    uint64
	LinksDiscovered   uint64
	ExtractFailures   uint64
	StorageErrors     uint64
	EdgeFailures      uint64
	WorkersRunning    int64
}

// NewMetrics returns zeroed metrics.
func NewMetrics() *Metrics {
	return &Metrics{fetchLatency: newHistogram(fetchLatencyBuckets)}
}

// Snapshot reads every counter.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		LinksClaimed:      atomic.LoadUint64(&m.linksClaimed),
		DuplicatesSkipped: atomic.LoadUint64(&m.duplicatesSkipped),
		RobotsDisallowed:  atomic.LoadUint64(&m.robotsDisallowed),
		PagesFetched:      atomic.LoadUint64(&m.pagesFetched),
		FetchFailures:     atomic.LoadUint64(&m.fetchFailures),
		PagesExtracted:    atomic.LoadUint64(&m.pagesExtracted),
		LinksDiscovered:   atomic.LoadUint64(&m.linksDiscovered),
		ExtractFailures:   atomic.LoadUint64(&m.extractFailures),
		StorageErrors:     atomic.LoadUint64(&m.storageErrors),
		EdgeFailures:      atomic.LoadUint64(&m.edgeFailures),
		WorkersRunning:    atomic.LoadInt64(&m.workersRunning),
	}
}

func (m *Metrics) observeFetchLatency(d time.Duration) {
	m.fetchLatency.observe(d)
}

// Handler serves the metrics on GET.
func (m *Metrics) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(m.render()))
	})
}

func (m *Metrics) render() string {
	s := m.Snapshot()
	var sb strings.Builder
	sb.WriteString("crawler_up 1\n")
	writeCounter(&sb, "crawler_links_claimed_total", "Links newly claimed in the visited set.", s.LinksClaimed)
	writeCounter(&sb, "crawler_duplicates_skipped_total", "Links dropped because another worker already claimed them.", s.DuplicatesSkipped)
	writeCounter(&sb, "crawler_robots_disallowed_total", "Links dropped by robots.txt.", s.RobotsDisallowed)
	writeCounter(&sb, "crawler_pages_fetched_total", "Pages pushed to the fetched queue.", s.PagesFetched)
	writeCounter(&sb, "crawler_fetch_failures_total", "Page fetches that failed.", s.FetchFailures)
	writeCounter(&sb, "crawler_pages_extracted_total", "Pages processed by extractors.", s.PagesExtracted)
	writeCounter(&sb, "crawler_links_discovered_total", "Child links pushed to the frontier.", s.LinksDiscovered)
	writeCounter(&sb, "crawler_extract_failures_total", "Pages dropped during extraction.", s.ExtractFailures)
	writeCounter(&sb, "crawler_storage_errors_total", "Failed operations against the shared collections.", s.StorageErrors)
	writeCounter(&sb, "crawler_edge_publish_failures_total", "Edge batches that could not be published.", s.EdgeFailures)
	sb.WriteString("# HELP crawler_workers_running Workers currently in their run loop.\n")
	sb.WriteString("# TYPE crawler_workers_running gauge\n")
	sb.WriteString(fmt.Sprintf("crawler_workers_running %d\n", s.WorkersRunning))
	sb.WriteString("# HELP crawler_fetch_latency_seconds Page fetch latency.\n")
	sb.WriteString("# TYPE crawler_fetch_latency_seconds histogram\n")
	m.fetchLatency.write(&sb, "crawler_fetch_latency_seconds", "%.2f")
	return sb.String()
}

func writeCounter(sb *strings.Builder, name, help string, value uint64) {
	sb.WriteString(fmt.Sprintf("# HELP %s %s\n# TYPE %s counter\n%s %d\n", name, help, name, name, value))
}

// histogram is a fixed-bucket Prometheus histogram updated with atomics.
type histogram struct {
	buckets []float64
	// counts has one slot per bucket plus the +Inf slot.
	counts []uint64
	sumNs  uint64
	count  uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{buckets: buckets, counts: make([]uint64, len(buckets)+1)}
}

func (h *histogram) observe(d time.Duration) {
	if d <= 0 {
		return
	}
	seconds := d.Seconds()
	idx := len(h.buckets)
	for i, bound := range h.buckets {
		if seconds <= bound {
			idx = i
			break
		}
	}
	atomic.AddUint64(&h.counts[idx], 1)
	atomic.AddUint64(&h.sumNs, uint64(d.Nanoseconds()))
	atomic.AddUint64(&h.count, 1)
}

// write renders buckets, +Inf, sum and count; leFmt formats bucket bounds.
func (h *histogram) write(sb *strings.Builder, name, leFmt string) {
	var cumulative uint64
	for i, bound := range h.buckets {
		cumulative += atomic.LoadUint64(&h.counts[i])
		sb.WriteString(fmt.Sprintf("%s_bucket{le=\"%s\"} %d\n", name, fmt.Sprintf(leFmt, bound), cumulative))
	}
	cumulative += atomic.LoadUint64(&h.counts[len(h.buckets)])
	sb.WriteString(fmt.Sprintf("%s_bucket{le=\"+Inf\"} %d\n", name, cumulative))
	sumSeconds := float64(atomic.LoadUint64(&h.sumNs)) / float64(time.Second)
	sb.WriteString(fmt.Sprintf("%s_sum %.6f\n", name, sumSeconds))
	sb.WriteString(fmt.Sprintf("%s_count %d\n", name, atomic.LoadUint64(&h.count)))
}
