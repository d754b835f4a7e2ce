// Package subpage crawls a bounded set of commerce-relevant sub-pages.
package subpage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/agentscan/internal/extractor"
	"github.com/jonesrussell/agentscan/internal/logger"
)

// subpagePricingSelector is the narrow price slice pulled from each sub-page.
const subpagePricingSelector = `[class*="price"], [id*="price"], [class*="pricing"]`

// maxBodyChars caps the body text carried per sub-page.
const maxBodyChars = 5000

// PageFetcher fetches a single page. Satisfied by *fetcher.Fetcher.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (html, finalURL string, err error)
}

// Config configures the crawler.
type Config struct {
	MaxPages int
	Timeout  time.Duration
}

// Crawler visits up to MaxPages candidate links, tolerating per-link
// failures. Sub-page problems never abort the surrounding scan.
type Crawler struct {
	fetcher  PageFetcher
	maxPages int
	timeout  time.Duration
	log      logger.Interface
}

// New creates a sub-page crawler.
func New(f PageFetcher, cfg Config, log logger.Interface) *Crawler {
	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = 3
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Crawler{
		fetcher:  f,
		maxPages: maxPages,
		timeout:  timeout,
		log:      log,
	}
}

// Crawl fetches the first MaxPages links in order and folds each success
// into a labeled text block. Failed links are logged and skipped; the
// output preserves the input link order with no gap markers.
func (c *Crawler) Crawl(ctx context.Context, links []string) string {
	var sb strings.Builder

	count := len(links)
	if count > c.maxPages {
		count = c.maxPages
	}

	for i := 0; i < count; i++ {
		link := links[i]
		block, err := c.fetchOne(ctx, link)
		if err != nil {
			c.log.Warn("sub-page fetch failed", "url", link, "error", err.Error())
			continue
		}
		sb.WriteString(block)
	}

	return sb.String()
}

// fetchOne fetches a single sub-page under the per-link timeout and renders
// its labeled block.
func (c *Crawler) fetchOne(ctx context.Context, link string) (string, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	html, _, err := c.fetcher.Fetch(fetchCtx, link)
	if err != nil {
		return "", err
	}

	doc, parseErr := goquery.NewDocumentFromReader(strings.NewReader(html))
	if parseErr != nil {
		return "", fmt.Errorf("parse html: %w", parseErr)
	}

	pricing := doc.Find(subpagePricingSelector).Text()
	body := truncate(extractor.CollapseWhitespace(doc.Find("body").Text()), maxBodyChars)

	c.log.Debug("sub-page scraped", "url", link, "body_chars", len(body))

	return fmt.Sprintf("\n\nSub-page (%s): %s %s", link, pricing, body), nil
}

// truncate cuts text to at most n runes.
func truncate(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
