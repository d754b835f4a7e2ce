// Package domain defines the core types shared across the scan pipeline.
package domain

import "time"

// AnalysisResult is the structured judgment returned by an AI provider.
// ProductName is the required field; a result without it is invalid.
type AnalysisResult struct {
	ProductName           string   `json:"product_name" db:"product_name"`
	Price                 *float64 `json:"price" db:"price"`
	Currency              string   `json:"currency" db:"currency"`
	BuyLinkFound          bool     `json:"buy_link_found" db:"buy_link_found"`
	Summary               string   `json:"summary" db:"summary"`
	AgentReadabilityScore int      `json:"agent_readability_score" db:"agent_readability_score"`
}

// ScanRecord is a persisted scan result, keyed uniquely by normalized URL.
type ScanRecord struct {
	URL string `json:"url" db:"url"`
	AnalysisResult
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ScanSummary is the trimmed projection returned by the recent/top listings.
type ScanSummary struct {
	URL                   string `json:"url" db:"url"`
	ProductName           string `json:"product_name" db:"product_name"`
	AgentReadabilityScore int    `json:"agent_readability_score" db:"agent_readability_score"`
}
