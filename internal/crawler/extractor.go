package crawler

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"

	"depth-crawler/internal/models"
	"depth-crawler/internal/parser"
	"depth-crawler/internal/store"
	"depth-crawler/internal/urls"
)

// ExtractorConfig tunes link extraction.
type ExtractorConfig struct {
	MaxDepth int
	// Filter decides which resolved anchors may be followed. Nil means urls.Default().
	Filter urls.Predicate
	// Edges, when set, receives one edge per pushed child link.
	Edges EdgePublisher
	RunID string
}

// Extractor turns fetched pages into child links on the frontier.
type Extractor struct {
	frontier store.FrontierQueue
	visited  store.VisitedSet
	cfg      ExtractorConfig
	metrics  *Metrics
	logger   zerolog.Logger
}

// NewExtractor wires an Extractor.
func NewExtractor(frontier store.FrontierQueue, visited store.VisitedSet, cfg ExtractorConfig, metrics *Metrics, logger zerolog.Logger) *Extractor {
	if cfg.Filter == nil {
		cfg.Filter = urls.Default()
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Extractor{
		frontier: frontier,
		visited:  visited,
		cfg:      cfg,
		metrics:  metrics,
		logger:   logger.With().Str("component", "extractor").Logger(),
	}
}

// Process extracts the child links of page and pushes them to the frontier.
func (e *Extractor) Process(ctx context.Context, page models.Page) error {
	links, err := e.Extract(ctx, page)
	if err != nil {
		atomic.AddUint64(&e.metrics.extractFailures, 1)
		return fmt.Errorf("extract %s depth=%d: %w", page.Link.Address, page.Link.Depth, err)
	}
	atomic.AddUint64(&e.metrics.pagesExtracted, 1)
	if len(links) == 0 {
		return nil
	}

	for i, link := range links {
		if err := e.frontier.Push(ctx, link); err != nil {
			atomic.AddUint64(&e.metrics.linksDiscovered, uint64(i))
			return fmt.Errorf("push link %s: %w", link.Address, err)
		}
	}
	atomic.AddUint64(&e.metrics.linksDiscovered, uint64(len(links)))
	e.logger.Info().Str("url", page.Link.Address).Int("depth", page.Link.Depth).Int("links", len(links)).Msg("links extracted")

	e.publishEdges(ctx, page, links)
	return nil
}

// Extract returns the child links of page in document order. Pages at or past
// the depth limit yield nothing. A visited-set failure drops the whole page.
func (e *Extractor) Extract(ctx context.Context, page models.Page) ([]models.Link, error) {
	if page.Link.Depth >= e.cfg.MaxDepth {
		return nil, nil
	}

	anchors, err := parser.Anchors(page.HTML, page.Link.Address)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	self, err := urls.Normalize(page.Link.Address)
	if err != nil {
		self = strings.TrimSpace(page.Link.Address)
	}

	seen := make(map[string]struct{}, len(anchors))
	var links []models.Link
	for _, href := range anchors {
		if !e.cfg.Filter(href) {
			continue
		}
		address, err := urls.Normalize(href)
		if err != nil || address == self {
			continue
		}
		if _, dup := seen[address]; dup {
			continue
		}
		seen[address] = struct{}{}

		present, err := e.visited.IsPresent(ctx, address)
		if err != nil {
			return nil, err
		}
		if present {
			continue
		}
		links = append(links, page.Link.Child(address))
	}
	return links, nil
}

func (e *Extractor) publishEdges(ctx context.Context, page models.Page, links []models.Link) {
	if e.cfg.Edges == nil {
		return
	}
	from, err := urls.Normalize(page.Link.Address)
	if err != nil {
		from = page.Link.Address
	}
	edges := make([]models.Edge, 0, len(links))
	for _, link := range links {
		edges = append(edges, models.Edge{RunID: e.cfg.RunID, From: from, To: link.Address, Depth: link.Depth})
	}
	if err := e.cfg.Edges.PublishEdges(ctx, edges...); err != nil {
		atomic.AddUint64(&e.metrics.edgeFailures, 1)
		e.logger.Warn().Err(err).Str("url", from).Int("edges", len(edges)).Msg("edge publish failed")
	}
}
