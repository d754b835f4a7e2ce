package scanner

import (
	"context"
	"fmt"
	"time"

	"github.com/jonesrussell/agentscan/internal/analysis"
	"github.com/jonesrussell/agentscan/internal/database"
	"github.com/jonesrussell/agentscan/internal/domain"
	"github.com/jonesrussell/agentscan/internal/extractor"
	"github.com/jonesrussell/agentscan/internal/logger"
)

// FreshnessWindow is the interval within which a prior scan result is
// reused instead of recomputed.
const FreshnessWindow = 4 * time.Hour

// PageFetcher fetches a single page. Satisfied by *fetcher.Fetcher.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (html, finalURL string, err error)
}

// SubpageCrawler folds sub-page content into extra context text.
type SubpageCrawler interface {
	Crawl(ctx context.Context, links []string) string
}

// Analyzer produces a validated analysis from assembled page content.
type Analyzer interface {
	Analyze(ctx context.Context, pageContent string) (*domain.AnalysisResult, error)
}

// Service runs one scan per call. Each scan is an independent, stateless
// execution; the only shared resource is the external store.
type Service struct {
	fetcher  PageFetcher
	subpages SubpageCrawler
	analyzer Analyzer
	repo     database.ScanRepositoryInterface
	log      logger.Interface
}

// NewService creates a scan service.
func NewService(
	f PageFetcher,
	subpages SubpageCrawler,
	analyzer Analyzer,
	repo database.ScanRepositoryInterface,
	log logger.Interface,
) *Service {
	return &Service{
		fetcher:  f,
		subpages: subpages,
		analyzer: analyzer,
		repo:     repo,
		log:      log.WithComponent("scanner"),
	}
}

// Scan normalizes rawURL, returns a fresh cached record when one exists,
// and otherwise runs the full pipeline and persists the result.
//
// Error mapping for callers: ErrEmptyURL/ErrInvalidURL are client errors,
// *FetchFailedError means the target site could not be fetched, and
// analysis.ErrProvidersExhausted means every provider attempt failed.
func (s *Service) Scan(ctx context.Context, rawURL string) (*domain.ScanRecord, error) {
	targetURL, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	if cached := s.lookupFresh(ctx, targetURL); cached != nil {
		s.log.Info("returning cached result", "url", targetURL, "updated_at", cached.UpdatedAt)
		return cached, nil
	}

	s.log.Info("no recent cache found, performing fresh scan", "url", targetURL)

	html, finalURL, fetchErr := s.fetcher.Fetch(ctx, targetURL)
	if fetchErr != nil {
		s.log.Error("main page fetch failed", "url", targetURL, "error", fetchErr.Error())
		return nil, &FetchFailedError{Err: fetchErr}
	}

	page, extractErr := extractor.Extract(html, targetURL)
	if extractErr != nil {
		return nil, fmt.Errorf("extract page: %w", extractErr)
	}

	s.log.Debug("extraction complete",
		"url", targetURL,
		"final_url", finalURL,
		"title", page.Title,
		"pricing_elements", len(page.PricingElements),
		"buy_buttons", len(page.BuyButtons),
		"relevant_links", len(page.RelevantLinks),
	)

	subpageText := s.subpages.Crawl(ctx, page.RelevantLinks)

	prompt := analysis.BuildPrompt(page, subpageText)

	result, analyzeErr := s.analyzer.Analyze(ctx, prompt)
	if analyzeErr != nil {
		return nil, analyzeErr
	}

	return s.persist(ctx, targetURL, result), nil
}

// lookupFresh returns the cached record for url when it is inside the
// freshness window. Store errors are logged and treated as a cache miss.
func (s *Service) lookupFresh(ctx context.Context, url string) *domain.ScanRecord {
	cutoff := time.Now().UTC().Add(-FreshnessWindow)

	record, err := s.repo.GetFresh(ctx, url, cutoff)
	if err != nil {
		s.log.Warn("cache lookup failed, proceeding with fresh scan", "url", url, "error", err.Error())
		return nil
	}

	return record
}

// persist upserts the result. A store failure is logged only; the caller
// still receives the in-memory result.
func (s *Service) persist(
	ctx context.Context,
	url string,
	result *domain.AnalysisResult,
) *domain.ScanRecord {
	record, err := s.repo.Upsert(ctx, url, result)
	if err != nil {
		s.log.Error("failed to persist scan result", "url", url, "error", err.Error())
		return &domain.ScanRecord{
			URL:            url,
			AnalysisResult: *result,
			UpdatedAt:      time.Now().UTC(),
		}
	}

	return record
}
