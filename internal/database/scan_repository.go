package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/agentscan/internal/domain"
)

// ScanRepositoryInterface defines the persistence contract for scan records.
type ScanRepositoryInterface interface {
	GetFresh(ctx context.Context, url string, cutoff time.Time) (*domain.ScanRecord, error)
	Upsert(ctx context.Context, url string, result *domain.AnalysisResult) (*domain.ScanRecord, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.ScanSummary, error)
	ListTop(ctx context.Context, limit int) ([]*domain.ScanSummary, error)
}

// ScanRepository handles database operations for scan records.
type ScanRepository struct {
	db *sqlx.DB
}

// NewScanRepository creates a new scan repository.
func NewScanRepository(db *sqlx.DB) *ScanRepository {
	return &ScanRepository{db: db}
}

// GetFresh retrieves the record for url if it was updated after cutoff.
// Returns (nil, nil) when no fresh record exists.
func (r *ScanRepository) GetFresh(
	ctx context.Context,
	url string,
	cutoff time.Time,
) (*domain.ScanRecord, error) {
	var record domain.ScanRecord
	query := `
		SELECT url, product_name, price, currency, buy_link_found,
		       summary, agent_readability_score, updated_at
		FROM scans
		WHERE url = $1 AND updated_at > $2
	`

	err := r.db.GetContext(ctx, &record, query, url, cutoff)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get scan: %w", err)
	}

	return &record, nil
}

// Upsert writes the latest result for url, last-write-wins on conflict.
// There is at most one record per URL.
func (r *ScanRepository) Upsert(
	ctx context.Context,
	url string,
	result *domain.AnalysisResult,
) (*domain.ScanRecord, error) {
	var record domain.ScanRecord
	query := `
		INSERT INTO scans (url, product_name, price, currency, buy_link_found,
		                   summary, agent_readability_score, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (url) DO UPDATE SET
			product_name = EXCLUDED.product_name,
			price = EXCLUDED.price,
			currency = EXCLUDED.currency,
			buy_link_found = EXCLUDED.buy_link_found,
			summary = EXCLUDED.summary,
			agent_readability_score = EXCLUDED.agent_readability_score,
			updated_at = EXCLUDED.updated_at
		RETURNING url, product_name, price, currency, buy_link_found,
		          summary, agent_readability_score, updated_at
	`

	err := r.db.GetContext(
		ctx,
		&record,
		query,
		url,
		result.ProductName,
		result.Price,
		result.Currency,
		result.BuyLinkFound,
		result.Summary,
		result.AgentReadabilityScore,
		time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert scan: %w", err)
	}

	return &record, nil
}

// ListRecent returns the most recently updated scans, newest first.
func (r *ScanRepository) ListRecent(ctx context.Context, limit int) ([]*domain.ScanSummary, error) {
	query := `
		SELECT url, product_name, agent_readability_score
		FROM scans
		ORDER BY updated_at DESC
		LIMIT $1
	`

	return r.listSummaries(ctx, query, limit)
}

// ListTop returns the highest-scoring scans, best first.
func (r *ScanRepository) ListTop(ctx context.Context, limit int) ([]*domain.ScanSummary, error) {
	query := `
		SELECT url, product_name, agent_readability_score
		FROM scans
		ORDER BY agent_readability_score DESC
		LIMIT $1
	`

	return r.listSummaries(ctx, query, limit)
}

// listSummaries runs a summary query with a limit argument.
func (r *ScanRepository) listSummaries(
	ctx context.Context,
	query string,
	limit int,
) ([]*domain.ScanSummary, error) {
	var summaries []*domain.ScanSummary

	err := r.db.SelectContext(ctx, &summaries, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}

	if summaries == nil {
		summaries = []*domain.ScanSummary{}
	}

	return summaries, nil
}
