package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/spf13/cobra"

	"depth-crawler/internal/config"
	"depth-crawler/internal/store"
)

// check is one named dependency probe.
type check struct {
	name  string
	probe func(ctx context.Context) (string, error)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "healthcheck",
		Short:        "Verify the crawler can reach Redis and Kafka",
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

			var checks []check
			if !v.GetBool("skip-redis") {
				redisCfg := config.LoadRedis(v)
				client := store.NewRedisClient(store.RedisOptions{Addr: redisCfg.Addr, Password: redisCfg.Password, DB: redisCfg.DB})
				defer client.Close()
				checks = append(checks, check{name: "redis", probe: redisProbe(client, redisCfg.Addr)})
			}
			if !v.GetBool("skip-kafka") {
				checks = append(checks, check{name: "kafka", probe: kafkaProbe(config.LoadKafka(v).Broker)})
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), v.GetDuration("timeout"))
			defer cancel()
			return runChecks(ctx, checks, logger)
		},
	}
	cmd.Flags().Duration("timeout", 5*time.Second, "overall probe timeout")
	cmd.Flags().Bool("skip-redis", false, "do not probe Redis")
	cmd.Flags().Bool("skip-kafka", false, "do not probe Kafka")
	config.RegisterRedisFlags(cmd.Flags())
	config.RegisterKafkaFlags(cmd.Flags())
	config.RegisterLogFlags(cmd.Flags())
	return cmd
}

// runChecks runs every probe and joins the failures.
func runChecks(ctx context.Context, checks []check, logger zerolog.Logger) error {
	var errs []error
	for _, c := range checks {
		detail, err := c.probe(ctx)
		if err != nil {
			logger.Error().Err(err).Str("check", c.name).Msg("unhealthy")
			errs = append(errs, fmt.Errorf("%s: %w", c.name, err))
			continue
		}
		logger.Info().Str("check", c.name).Str("detail", detail).Msg("healthy")
	}
	return errors.Join(errs...)
}

func redisProbe(client store.RedisClient, addr string) func(context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		if err := client.Ping(ctx).Err(); err != nil {
			return "", err
		}
		return "connected to Redis at " + addr, nil
	}
}

func kafkaProbe(broker string) func(context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		conn, err := kafka.DialContext(ctx, "tcp", broker)
		if err != nil {
			return "", fmt.Errorf("connect to %s: %w", broker, err)
		}
		defer conn.Close()

		partitions, err := conn.ReadPartitions()
		if err != nil {
			return "", fmt.Errorf("read metadata: %w", err)
		}
		return fmt.Sprintf("connected to Kafka at %s (%d partitions)", broker, len(partitions)), nil
	}
}
