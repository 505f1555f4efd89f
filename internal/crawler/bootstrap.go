package crawler

import (
	"context"
	"fmt"

	"depth-crawler/internal/models"
)

// Bootstrap prepares the shared collections for a run: when reset is set all
// three are cleared, then seed is pushed to the frontier at depth 0.
func Bootstrap(ctx context.Context, cols Collections, seed string, reset bool) error {
	if reset {
		if err := cols.Frontier.Clear(ctx); err != nil {
			return fmt.Errorf("clear frontier: %w", err)
		}
		if err := cols.Fetched.Clear(ctx); err != nil {
			return fmt.Errorf("clear fetched: %w", err)
		}
		if err := cols.Visited.Clear(ctx); err != nil {
			return fmt.Errorf("clear visited: %w", err)
		}
	}
	if err := cols.Frontier.Push(ctx, models.Link{Address: seed, Depth: 0}); err != nil {
		return fmt.Errorf("push seed: %w", err)
	}
	return nil
}
