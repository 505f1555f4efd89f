package crawler

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"depth-crawler/internal/models"
	"depth-crawler/internal/store"
	"depth-crawler/internal/urls"
)

// Collections bundles the three shared collections every worker coordinates through.
type Collections struct {
	Frontier store.FrontierQueue
	Fetched  store.FetchedQueue
	Visited  store.VisitedSet
}

// PoolConfig is the immutable crawl configuration a pool is built with.
type PoolConfig struct {
	Fetchers   int
	Extractors int
	MaxDepth   int
	Worker     WorkerConfig
	Filter     urls.Predicate
	HTTPClient *http.Client
	Fetch      FetcherConfig
	Edges      EdgePublisher
	RunID      string
}

// Pool owns the fetcher and extractor workers of one process.
type Pool struct {
	cfg        PoolConfig
	fetcher    *Fetcher
	extractor  *Extractor
	collection Collections
	metrics    *Metrics
	logger     zerolog.Logger

	mu         sync.Mutex
	started    bool
	fetchers   []*Worker[models.Link]
	extractors []*Worker[models.Page]
}

// NewPool builds a pool whose workers share cols, robots and cfg.
func NewPool(cols Collections, robots RobotsChecker, cfg PoolConfig, metrics *Metrics, logger zerolog.Logger) *Pool {
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Pool{
		cfg:        cfg,
		collection: cols,
		metrics:    metrics,
		logger:     logger.With().Str("component", "pool").Logger(),
		fetcher:    NewFetcher(cols.Visited, cols.Fetched, robots, cfg.HTTPClient, cfg.Fetch, metrics, logger),
		extractor: NewExtractor(cols.Frontier, cols.Visited, ExtractorConfig{
			MaxDepth: cfg.MaxDepth,
			Filter:   cfg.Filter,
			Edges:    cfg.Edges,
			RunID:    cfg.RunID,
		}, metrics, logger),
	}
}

// Start launches every worker. Workers keep running until Shutdown or until ctx
// is cancelled.
func (p *Pool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return ErrPoolStarted
	}
	p.started = true

	for i := 0; i < p.cfg.Fetchers; i++ {
		w := NewWorker[models.Link](fmt.Sprintf("fetcher-%d", i), p.collection.Frontier, p.fetcher.Process, p.cfg.Worker, p.metrics, p.logger)
		p.fetchers = append(p.fetchers, w)
	}
	for i := 0; i < p.cfg.Extractors; i++ {
		w := NewWorker[models.Page](fmt.Sprintf("extractor-%d", i), p.collection.Fetched, p.extractor.Process, p.cfg.Worker, p.metrics, p.logger)
		p.extractors = append(p.extractors, w)
	}
	for _, w := range p.fetchers {
		if err := w.Start(ctx); err != nil {
			return err
		}
	}
	for _, w := range p.extractors {
		if err := w.Start(ctx); err != nil {
			return err
		}
	}
	p.logger.Info().Int("fetchers", p.cfg.Fetchers).Int("extractors", p.cfg.Extractors).Int("max_depth", p.cfg.MaxDepth).Msg("pool started")
	return nil
}

// Shutdown stops every fetcher, then every extractor, waiting for each worker to
// reach Stopped before moving on.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	fetchers := append([]*Worker[models.Link](nil), p.fetchers...)
	extractors := append([]*Worker[models.Page](nil), p.extractors...)
	p.mu.Unlock()

	for _, w := range fetchers {
		w.Stop()
	}
	for _, w := range extractors {
		w.Stop()
	}
	p.logger.Info().Msg("pool stopped")
}

// Run starts the pool, waits for ctx to end and then shuts down in order.
// Workers are detached from ctx so the ordered Shutdown decides when they stop.
func (p *Pool) Run(ctx context.Context) error {
	if err := p.Start(context.WithoutCancel(ctx)); err != nil {
		p.Shutdown()
		return err
	}
	<-ctx.Done()
	p.Shutdown()
	return nil
}

// States returns the state of every worker, fetchers first.
func (p *Pool) States() []State {
	p.mu.Lock()
	defer p.mu.Unlock()
	states := make([]State, 0, len(p.fetchers)+len(p.extractors))
	for _, w := range p.fetchers {
		states = append(states, w.State())
	}
	for _, w := range p.extractors {
		states = append(states, w.State())
	}
	return states
}

// Metrics returns the counters shared by the pool's workers.
func (p *Pool) Metrics() *Metrics {
	return p.metrics
}
