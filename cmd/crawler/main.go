package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"depth-crawler/internal/config"
	"depth-crawler/internal/crawler"
	"depth-crawler/internal/kafka"
	"depth-crawler/internal/models"
	"depth-crawler/internal/robots"
	"depth-crawler/internal/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "crawler",
		Short:        "Run fetcher and extractor workers against the shared crawl collections",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := config.NewViper(cmd.Flags())
			if err != nil {
				return err
			}
			cfg, err := config.Load(v)
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			logger, closer, err := config.NewLogger(cfg.Log, os.Stderr)
			if err != nil {
				return err
			}
			defer closer.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer a.close()
			return a.run(ctx)
		},
	}
	config.RegisterCrawlFlags(cmd.Flags())
	return cmd
}

// app holds the wired components of one crawler process.
type app struct {
	cfg     config.Config
	logger  zerolog.Logger
	cols    crawler.Collections
	status  store.StatusStore
	edges   crawler.EdgePublisher
	metrics *crawler.Metrics
	closers []func() error
}

func newApp(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*app, error) {
	if cfg.RunID == "" {
		cfg.RunID = uuid.NewString()
	}
	a := &app{
		cfg:     cfg,
		logger:  logger.With().Str("run_id", cfg.RunID).Logger(),
		metrics: crawler.NewMetrics(),
	}

	switch cfg.Backend {
	case config.BackendMemory:
		a.cols = crawler.Collections{
			Frontier: store.NewMemoryFrontier(),
			Fetched:  store.NewMemoryFetched(),
			Visited:  store.NewMemoryVisitedSet(),
		}
		a.status = store.NewMemoryStatusStore()
	case config.BackendRedis:
		client := store.NewRedisClient(store.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Fetchers + cfg.Extractors + 4,
		})
		a.closers = append(a.closers, client.Close)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := client.Ping(pingCtx).Err(); err != nil {
			a.logger.Error().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable, workers will keep retrying")
		}
		cancel()
		a.cols = crawler.Collections{
			Frontier: store.NewRedisFrontier(client, cfg.Redis.Prefix),
			Fetched:  store.NewRedisFetched(client, cfg.Redis.Prefix),
			Visited:  store.NewRedisVisitedSet(client, cfg.Redis.Prefix),
		}
		a.status = store.NewRedisStatusStore(client, cfg.Redis.Prefix, cfg.Redis.StatusTTL)
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	if cfg.Kafka.EdgesTopic != "" {
		publisher := kafka.NewEdgePublisher(cfg.Kafka.Broker, cfg.Kafka.EdgesTopic)
		a.closers = append(a.closers, publisher.Close)
		a.edges = publisher
		a.logger.Info().Str("broker", cfg.Kafka.Broker).Str("topic", cfg.Kafka.EdgesTopic).Msg("publishing link edges")
	}
	return a, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Error().Err(err).Msg("close failed")
		}
	}
}

// run seeds the crawl, runs the pool until ctx ends and records the run status.
func (a *app) run(ctx context.Context) error {
	cfg := a.cfg
	if err := crawler.Bootstrap(ctx, a.cols, cfg.Seed, cfg.Reset); err != nil {
		a.logger.Error().Err(err).Str("seed", cfg.Seed).Msg("bootstrap failed")
	}

	now := time.Now().UTC()
	status := models.CrawlStatus{
		RunID:     cfg.RunID,
		SeedURL:   cfg.Seed,
		MaxDepth:  cfg.MaxDepth,
		Status:    models.StatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}
	a.setStatus(ctx, status)

	httpClient := crawler.NewHTTPClient(cfg.HTTPTimeout)
	pool := crawler.NewPool(a.cols, robots.NewChecker(httpClient, cfg.UserAgent, a.logger), crawler.PoolConfig{
		Fetchers:   cfg.Fetchers,
		Extractors: cfg.Extractors,
		MaxDepth:   cfg.MaxDepth,
		Worker:     crawler.WorkerConfig{PollTimeout: cfg.QueueTimeout, IdleBackoff: cfg.IdleBackoff},
		HTTPClient: httpClient,
		Fetch:      crawler.FetcherConfig{UserAgent: cfg.UserAgent, MaxBodyBytes: cfg.MaxBodyBytes},
		Edges:      a.edges,
		RunID:      cfg.RunID,
	}, a.metrics, a.logger)

	a.logger.Info().
		Str("seed", cfg.Seed).
		Int("max_depth", cfg.MaxDepth).
		Str("backend", cfg.Backend).
		Msg("crawl starting")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return pool.Run(gctx)
	})
	if cfg.MetricsAddr != "" {
		g.Go(func() error {
			return serveMetrics(gctx, cfg.MetricsAddr, a.metrics.Handler(), a.logger)
		})
	}
	err := g.Wait()

	status.Status = models.StatusStopped
	status.UpdatedAt = time.Now().UTC()
	statusCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	a.setStatus(statusCtx, status)
	cancel()

	s := a.metrics.Snapshot()
	a.logger.Info().
		Uint64("pages_fetched", s.PagesFetched).
		Uint64("links_discovered", s.LinksDiscovered).
		Uint64("fetch_failures", s.FetchFailures).
		Uint64("storage_errors", s.StorageErrors).
		Msg("crawl stopped")
	return err
}

func (a *app) setStatus(ctx context.Context, status models.CrawlStatus) {
	if err := a.status.SetStatus(ctx, status); err != nil {
		a.logger.Error().Err(err).Str("status", status.Status).Msg("status update failed")
	}
}

func metricsMux(metrics http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// serveMetrics runs the metrics server until ctx ends.
func serveMetrics(ctx context.Context, addr string, metrics http.Handler, logger zerolog.Logger) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           metricsMux(metrics),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("metrics listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("metrics shutdown error")
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	}
}
