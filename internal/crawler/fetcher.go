package crawler

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/html/charset"

	"depth-crawler/internal/models"
	"depth-crawler/internal/store"
	"depth-crawler/internal/urls"
)

// DefaultUserAgent identifies the crawler to sites and to robots.txt groups.
const DefaultUserAgent = "DepthCrawler/1.0 (+https://github.com/depth-crawler)"

// DefaultMaxBodyBytes caps how much of a page body is read.
const DefaultMaxBodyBytes = 5 << 20

const acceptHeader = "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5"

// Page HTTP timeouts so a hung site releases the worker.
const (
	pageConnectTimeout  = 10 * time.Second
	pageResponseTimeout = 20 * time.Second
)

// NewHTTPClient returns a client with connect and response-header timeouts and
// an overall request timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: pageConnectTimeout}).DialContext,
		ResponseHeaderTimeout: pageResponseTimeout,
		MaxIdleConnsPerHost:   4,
	}
	return &http.Client{Transport: transport, Timeout: timeout}
}

// FetcherConfig tunes page retrieval.
type FetcherConfig struct {
	UserAgent    string
	MaxBodyBytes int64
}

// Fetcher claims a link in the visited set, checks robots.txt, downloads the
// page and hands it to the fetched queue.
type Fetcher struct {
	visited store.VisitedSet
	fetched store.FetchedQueue
	robots  RobotsChecker
	client  *http.Client
	cfg     FetcherConfig
	metrics *Metrics
	logger  zerolog.Logger
}

// NewFetcher wires a Fetcher. A nil client falls back to NewHTTPClient(30s).
func NewFetcher(visited store.VisitedSet, fetched store.FetchedQueue, robots RobotsChecker, client *http.Client, cfg FetcherConfig, metrics *Metrics, logger zerolog.Logger) *Fetcher {
	if client == nil {
		client = NewHTTPClient(30 * time.Second)
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Fetcher{
		visited: visited,
		fetched: fetched,
		robots:  robots,
		client:  client,
		cfg:     cfg,
		metrics: metrics,
		logger:  logger.With().Str("component", "fetcher").Logger(),
	}
}

// Process handles one frontier link. Duplicates and disallowed links are dropped
// silently; the link stays claimed either way and is never retried.
func (f *Fetcher) Process(ctx context.Context, link models.Link) error {
	address, err := urls.Normalize(link.Address)
	if err != nil {
		atomic.AddUint64(&f.metrics.fetchFailures, 1)
		return fmt.Errorf("normalize %q: %w", link.Address, err)
	}

	added, err := f.visited.AddIfNotPresent(ctx, address)
	if err != nil {
		return fmt.Errorf("claim %s: %w", address, err)
	}
	if !added {
		atomic.AddUint64(&f.metrics.duplicatesSkipped, 1)
		f.logger.Debug().Str("url", address).Int("depth", link.Depth).Msg("already visited")
		return nil
	}
	atomic.AddUint64(&f.metrics.linksClaimed, 1)

	if f.robots != nil && !f.robots.Allowed(ctx, address) {
		atomic.AddUint64(&f.metrics.robotsDisallowed, 1)
		f.logger.Debug().Str("url", address).Int("depth", link.Depth).Msg("disallowed by robots.txt")
		return nil
	}

	start := time.Now()
	html, err := f.Fetch(ctx, address)
	f.metrics.observeFetchLatency(time.Since(start))
	if err != nil {
		atomic.AddUint64(&f.metrics.fetchFailures, 1)
		return fmt.Errorf("fetch %s depth=%d: %w", address, link.Depth, err)
	}

	page := models.Page{Link: models.Link{Address: address, Depth: link.Depth}, HTML: html}
	if err := f.fetched.Push(ctx, page); err != nil {
		return fmt.Errorf("push page %s: %w", address, err)
	}
	atomic.AddUint64(&f.metrics.pagesFetched, 1)
	f.logger.Info().Str("url", address).Int("depth", link.Depth).Int("bytes", len(html)).Msg("page fetched")
	return nil
}

// Fetch GETs address and returns the body decoded to UTF-8. Non-2xx responses
// and non-HTML content types are errors.
func (f *Fetcher) Fetch(ctx context.Context, address string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, address, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", acceptHeader)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(strings.ToLower(contentType), "html") {
		return "", fmt.Errorf("%w: %s", ErrNotHTML, contentType)
	}

	reader, err := charset.NewReader(io.LimitReader(resp.Body, f.cfg.MaxBodyBytes), contentType)
	if err != nil {
		return "", fmt.Errorf("decode body: %w", err)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
