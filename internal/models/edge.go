package models

// Edge records that the page at From linked to To during a crawl run.
// Depth is the depth of the child link.
type Edge struct {
	RunID string `json:"run_id"`
	From  string `json:"from"`
	To    string `json:"to"`
	Depth int    `json:"depth"`
}
