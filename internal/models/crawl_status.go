package models

import "time"

// Crawl run states recorded in the status store.
const (
	StatusRunning = "running"
	StatusStopped = "stopped"
)

// CrawlStatus tracks the state of one crawl run.
type CrawlStatus struct {
	RunID     string    `json:"run_id"`
	SeedURL   string    `json:"seed_url"`
	MaxDepth  int       `json:"max_depth"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
