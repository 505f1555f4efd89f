package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"depth-crawler/internal/config"
)

// Seeds is the JSON file format listing crawl roots.
type Seeds struct {
	Seeds []string `json:"seeds"`
}

var errNoSeeds = errors.New("seed file has no seeds")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Submit seed URLs from a JSON file to the crawl API",
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

			accepted, err := run(cmd.Context(), v.GetString("file"), v.GetString("api"), v.GetInt("concurrency"), nil, logger)
			if err != nil {
				return err
			}
			logger.Info().Int64("accepted", accepted).Msg("seeds submitted")
			return nil
		},
	}
	cmd.Flags().String("file", "seeds.json", "path to JSON file with seeds")
	cmd.Flags().String("api", "http://localhost:8080", "crawl API base URL")
	cmd.Flags().Int("concurrency", 4, "concurrent submissions")
	config.RegisterLogFlags(cmd.Flags())
	return cmd
}

// run submits every seed in path to apiBase and returns how many were accepted.
// Rejected seeds are logged; only setup failures are returned as errors.
// A nil client gets a 30s timeout.
func run(ctx context.Context, path, apiBase string, concurrency int, client *http.Client, logger zerolog.Logger) (int64, error) {
	seeds, err := loadSeeds(path)
	if err != nil {
		return 0, err
	}
	base, err := url.Parse(apiBase)
	if err != nil {
		return 0, fmt.Errorf("parse api base: %w", err)
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if concurrency < 1 {
		concurrency = 1
	}

	var accepted atomic.Int64
	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, seed := range seeds.Seeds {
		i, seed := i, seed
		g.Go(func() error {
			if err := submitSeed(ctx, client, base, seed); err != nil {
				logger.Warn().Err(err).Int("index", i).Str("seed", seed).Msg("seed rejected")
				return nil
			}
			accepted.Add(1)
			logger.Debug().Int("index", i).Str("seed", seed).Msg("seed accepted")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return accepted.Load(), err
	}
	return accepted.Load(), ctx.Err()
}

func loadSeeds(path string) (Seeds, error) {
	var seeds Seeds
	data, err := os.ReadFile(path)
	if err != nil {
		return seeds, err
	}
	if err := json.Unmarshal(data, &seeds); err != nil {
		return seeds, fmt.Errorf("decode %s: %w", path, err)
	}
	if len(seeds.Seeds) == 0 {
		return seeds, errNoSeeds
	}
	return seeds, nil
}

func submitSeed(ctx context.Context, client *http.Client, base *url.URL, seed string) error {
	u := *base
	u.Path = "/crawl"
	u.RawQuery = url.Values{"url": {seed}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
