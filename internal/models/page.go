package models

// Page is a fetched Link paired with its raw HTML, waiting for link extraction.
type Page struct {
	Link Link   `json:"link"`
	HTML string `json:"html"`
}
