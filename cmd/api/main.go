package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"depth-crawler/internal/config"
	"depth-crawler/internal/models"
	"depth-crawler/internal/store"
	"depth-crawler/internal/urls"
)

type server struct {
	frontier store.FrontierQueue
	store    store.StatusStore
	logger   zerolog.Logger

	submitted uint64
	rejected  uint64
	failed    uint64
}

func newServer(frontier store.FrontierQueue, statusStore store.StatusStore, logger zerolog.Logger) *server {
	return &server{
		frontier: frontier,
		store:    statusStore,
		logger:   logger,
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "api",
		Short:        "HTTP API for submitting seeds to a running crawl and reading run status",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := config.NewViper(cmd.Flags())
			if err != nil {
				return err
			}
			logger, closer, err := config.NewLogger(config.LoadLog(v), os.Stderr)
			if err != nil {
				return err
			}
			defer closer.Close()

			redisCfg := config.LoadRedis(v)
			client := store.NewRedisClient(store.RedisOptions{Addr: redisCfg.Addr, Password: redisCfg.Password, DB: redisCfg.DB})
			defer func() {
				if err := client.Close(); err != nil {
					logger.Error().Err(err).Msg("failed to close redis client")
				}
			}()

			srv := newServer(
				store.NewRedisFrontier(client, redisCfg.Prefix),
				store.NewRedisStatusStore(client, redisCfg.Prefix, redisCfg.StatusTTL),
				logger,
			)
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return srv.listen(ctx, v.GetString("addr"))
		},
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	config.RegisterRedisFlags(cmd.Flags())
	config.RegisterLogFlags(cmd.Flags())
	return cmd
}

func (s *server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/crawl", s.handleCrawl)
	mux.HandleFunc("/crawl/", s.handleCrawlStatus)
	mux.HandleFunc("/metrics", s.handleMetrics)
	return mux
}

func (s *server) listen(ctx context.Context, addr string) error {
	httpServer := &http.Server{Addr: addr, Handler: s.routes(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error().Err(err).Msg("api shutdown error")
		}
	}()

	s.logger.Info().Str("addr", addr).Msg("api listening")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// handleCrawl pushes an extra depth-0 link into the running crawl's frontier.
//
// Method: POST
// Path:   /crawl?url=...
// Example:
//
//	curl -X POST "http://localhost:8080/crawl?url=https://example.com/"
func (s *server) handleCrawl(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	raw := strings.TrimSpace(r.URL.Query().Get("url"))
	if raw == "" {
		atomic.AddUint64(&s.rejected, 1)
		http.Error(w, "missing url", http.StatusBadRequest)
		return
	}
	address, err := urls.Normalize(raw)
	if err != nil || !urls.WellFormed(address) {
		atomic.AddUint64(&s.rejected, 1)
		http.Error(w, "url must be an absolute http(s) URL", http.StatusBadRequest)
		return
	}

	link := models.Link{Address: address, Depth: 0}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := s.frontier.Push(ctx, link); err != nil {
		atomic.AddUint64(&s.failed, 1)
		s.logger.Error().Err(err).Str("url", address).Msg("failed to enqueue seed")
		http.Error(w, "failed to enqueue link", http.StatusBadGateway)
		return
	}

	atomic.AddUint64(&s.submitted, 1)
	s.logger.Info().Str("url", address).Msg("seed enqueued")
	writeJSON(w, link, http.StatusAccepted)
}

// handleCrawlStatus returns the status a crawler process recorded for its run.
//
// Method: GET
// Path:   /crawl/{runID}
// Example:
//
//	curl "http://localhost:8080/crawl/4b0f3c1e-5d1a-4a8e-9f61-0c2d9e7b1a11"
func (s *server) handleCrawlStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	runID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/crawl/"), "/")
	if runID == "" {
		http.Error(w, "missing run id", http.StatusBadRequest)
		return
	}

	status, ok, err := s.store.GetStatus(r.Context(), runID)
	if err != nil {
		s.logger.Error().Err(err).Str("run_id", runID).Msg("failed to load status")
		http.Error(w, "failed to load status", http.StatusBadGateway)
		return
	}
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	writeJSON(w, status, http.StatusOK)
}

// handleMetrics exposes a minimal Prometheus-compatible endpoint.
//
// Method: GET
// Path:   /metrics
func (s *server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(fmt.Sprintf(
		"crawler_api_up 1\n"+
			"crawler_api_seeds_submitted_total %d\n"+
			"crawler_api_seeds_rejected_total %d\n"+
			"crawler_api_seeds_failed_total %d\n",
		atomic.LoadUint64(&s.submitted),
		atomic.LoadUint64(&s.rejected),
		atomic.LoadUint64(&s.failed),
	)))
}

func writeJSON(w http.ResponseWriter, payload any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
