package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"depth-crawler/internal/models"
)

// MessageReader abstracts kafka.Reader.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// MessageWriter abstracts kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// EdgePublisher writes link-graph edges discovered during extraction to a topic.
type EdgePublisher struct {
	writer MessageWriter
}

// NewEdgePublisher creates a publisher for the given broker and topic.
func NewEdgePublisher(broker, topic string) *EdgePublisher {
	return &EdgePublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(broker),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: false,
		},
	}
}

// NewEdgePublisherWithWriter builds a publisher using a custom writer (tests).
func NewEdgePublisherWithWriter(writer MessageWriter) *EdgePublisher {
	return &EdgePublisher{writer: writer}
}

// Close shuts down the underlying writer.
func (p *EdgePublisher) Close() error {
	return p.writer.Close()
}

// PublishEdges writes all edges in one batch. Messages are keyed by the parent
// URL so the edges of one page land on one partition.
func (p *EdgePublisher) PublishEdges(ctx context.Context, edges ...models.Edge) error {
	if len(edges) == 0 {
		return nil
	}
	now := time.Now().UTC()
	msgs := make([]kafka.Message, 0, len(edges))
	for _, edge := range edges {
		payload, err := json.Marshal(edge)
		if err != nil {
			return err
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(edge.From),
			Value: payload,
			Time:  now,
		})
	}
	return p.writer.WriteMessages(ctx, msgs...)
}
