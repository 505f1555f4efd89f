package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog"

	"depth-crawler/internal/models"
)

// edgeQuery merges both pages and the LINKS_TO relationship for one run.
// A page's depth is the depth at which it was first discovered.
const edgeQuery = "MERGE (from:Page {url: $from}) " +
	"MERGE (to:Page {url: $to}) " +
	"ON CREATE SET to.depth = $depth " +
	"MERGE (from)-[r:LINKS_TO {run_id: $run_id}]->(to)"

// Writer stores the crawl link graph in Neo4j.
type Writer struct {
	driver DriverSessioner
	logger zerolog.Logger
}

// NewWriter returns a Writer using driver for sessions.
func NewWriter(driver DriverSessioner, logger zerolog.Logger) *Writer {
	return &Writer{driver: driver, logger: logger}
}

// WriteEdge merges edge into the graph. Edges missing an endpoint are ignored.
func (w *Writer) WriteEdge(ctx context.Context, edge models.Edge) error {
	if edge.From == "" || edge.To == "" {
		return nil
	}
	query, params := BuildEdgeQuery(edge)
	return w.runWrite(ctx, query, params)
}

func (w *Writer) runWrite(ctx context.Context, query string, params map[string]any) error {
	session := w.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer func() {
		if err := session.Close(ctx); err != nil {
			w.logger.Warn().Err(err).Msg("neo4j session close error")
		}
	}()

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, query, params)
		return nil, err
	})
	return err
}

// BuildEdgeQuery returns the Cypher statement and parameters for edge.
func BuildEdgeQuery(edge models.Edge) (string, map[string]any) {
	params := map[string]any{
		"from":   edge.From,
		"to":     edge.To,
		"depth":  edge.Depth,
		"run_id": edge.RunID,
	}
	return edgeQuery, params
}
