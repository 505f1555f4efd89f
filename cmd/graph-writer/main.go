package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/spf13/cobra"

	"depth-crawler/internal/config"
	"depth-crawler/internal/graph"
	"depth-crawler/internal/kafka"
	"depth-crawler/internal/models"
)

const defaultEdgesTopic = "crawler.graph.edges"

type edgeWriter interface {
	WriteEdge(ctx context.Context, edge models.Edge) error
}

// consumer moves edge events from Kafka into the graph store.
type consumer struct {
	reader kafka.MessageReader
	writer edgeWriter
	logger zerolog.Logger

	received uint64
	written  uint64
	failed   uint64
	invalid  uint64
}

func newConsumer(reader kafka.MessageReader, writer edgeWriter, logger zerolog.Logger) *consumer {
	return &consumer{reader: reader, writer: writer, logger: logger}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "graph-writer",
		Short:        "Write crawl link edges from Kafka into Neo4j",
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

			kafkaCfg := config.LoadKafka(v)
			if kafkaCfg.EdgesTopic == "" {
				kafkaCfg.EdgesTopic = defaultEdgesTopic
			}

			driver, err := graph.NewDriver(v.GetString("neo4j-uri"), v.GetString("neo4j-user"), v.GetString("neo4j-password"))
			if err != nil {
				return fmt.Errorf("neo4j driver: %w", err)
			}
			defer func() {
				if err := driver.Close(context.Background()); err != nil {
					logger.Error().Err(err).Msg("neo4j close error")
				}
			}()

			reader := kafkago.NewReader(kafkago.ReaderConfig{
				Brokers: []string{kafkaCfg.Broker},
				Topic:   kafkaCfg.EdgesTopic,
				GroupID: v.GetString("kafka-group"),
			})
			defer func() {
				if err := reader.Close(); err != nil {
					logger.Error().Err(err).Msg("edges reader close error")
				}
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			c := newConsumer(reader, graph.NewWriter(driver, logger), logger)
			if addr := v.GetString(config.KeyMetricsAddr); addr != "" {
				startMetricsServer(ctx, addr, c, logger)
			}
			logger.Info().Str("topic", kafkaCfg.EdgesTopic).Str("broker", kafkaCfg.Broker).Msg("graph writer consuming")
			c.run(ctx)
			return nil
		},
	}
	cmd.Flags().String("kafka-group", "crawler-graph-writer", "consumer group id")
	cmd.Flags().String("neo4j-uri", "neo4j://localhost:7687", "Neo4j URI")
	cmd.Flags().String("neo4j-user", "neo4j", "Neo4j user")
	cmd.Flags().String("neo4j-password", "neo4j", "Neo4j password")
	cmd.Flags().String(config.KeyMetricsAddr, ":9091", "metrics listen address (empty disables)")
	config.RegisterKafkaFlags(cmd.Flags())
	config.RegisterLogFlags(cmd.Flags())
	return cmd
}

func startMetricsServer(ctx context.Context, addr string, c *consumer, logger zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", c.handleMetrics)

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("metrics shutdown error")
		}
	}()

	go func() {
		logger.Info().Str("addr", addr).Msg("metrics listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics server error")
		}
	}()
}

func (c *consumer) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	w.WriteHeader(http.StatusOK)
	body := fmt.Sprintf(
		"crawler_graph_writer_up 1\n"+
			"crawler_graph_writer_edges_received_total %d\n"+
			"crawler_graph_writer_edges_written_total %d\n"+
			"crawler_graph_writer_edges_failed_total %d\n"+
			"crawler_graph_writer_edges_invalid_total %d\n",
		atomic.LoadUint64(&c.received),
		atomic.LoadUint64(&c.written),
		atomic.LoadUint64(&c.failed),
		atomic.LoadUint64(&c.invalid),
	)
	_, _ = w.Write([]byte(body))
}

// run consumes until ctx ends. Undecodable messages are committed and skipped;
// failed writes are left uncommitted so the group redelivers them.
func (c *consumer) run(ctx context.Context) {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error().Err(err).Msg("edges fetch error")
			time.Sleep(500 * time.Millisecond)
			continue
		}

		atomic.AddUint64(&c.received, 1)
		var edge models.Edge
		if err := json.Unmarshal(msg.Value, &edge); err != nil {
			atomic.AddUint64(&c.invalid, 1)
			c.logger.Warn().Err(err).Int64("offset", msg.Offset).Msg("invalid edge payload")
			c.commit(ctx, msg)
			continue
		}
		if err := c.writer.WriteEdge(ctx, edge); err != nil {
			atomic.AddUint64(&c.failed, 1)
			c.logger.Error().Err(err).Str("from", edge.From).Str("to", edge.To).Msg("edge write error")
			continue
		}
		atomic.AddUint64(&c.written, 1)
		c.commit(ctx, msg)
	}
}

func (c *consumer) commit(ctx context.Context, msg kafkago.Message) {
	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		c.logger.Error().Err(err).Int64("offset", msg.Offset).Msg("edges commit error")
	}
}
