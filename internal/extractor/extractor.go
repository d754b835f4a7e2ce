// Package extractor pulls commerce-relevant features out of raw HTML.
package extractor

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/agentscan/internal/domain"
)

// headingDelimiter joins heading texts within a level.
const headingDelimiter = " | "

// maxBuyButtonTextLen drops call-to-action labels that are whole paragraphs.
const maxBuyButtonTextLen = 100

// priceSelectors are tried in order; matched elements still need price-like
// text before they count.
var priceSelectors = []string{
	`[class*="price"]`, `[id*="price"]`, `[class*="pricing"]`, `[id*="pricing"]`,
	`[itemprop="price"]`, `[itemscope][itemtype*="Offer"]`, `[data-price]`,
	`.cost`, `.amount`, `.fee`, `.rate`, `[class*="plan"]`, `[id*="plan"]`,
	`[class*="tier"]`, `[id*="tier"]`, `table`, `.package`, `.subscription`,
}

// buyButtonSelectors match buttons and button-like purchase links.
var buyButtonSelectors = []string{
	`button`, `a[href*="buy"]`, `a[href*="cart"]`, `a[href*="checkout"]`,
	`a[href*="purchase"]`, `[class*="cta"]`, `[id*="cta"]`,
	`[class*="buy"]`, `[class*="cart"]`, `[class*="checkout"]`,
	`input[type="submit"]`, `[role="button"]`,
}

// linkKeywords select candidate sub-pages by href or anchor text.
var linkKeywords = []string{"pricing", "price", "buy", "shop", "product", "plans"}

var (
	currencyRe   = regexp.MustCompile(`[$€£¥₹]`)
	decimalRe    = regexp.MustCompile(`\d+[.,]\d+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Extract parses HTML and returns the page's feature bundle. baseURL is the
// page's own URL; candidate links are resolved against its origin.
func Extract(html, baseURL string) (*domain.ExtractedPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	page := &domain.ExtractedPage{
		URL:             baseURL,
		Title:           strings.TrimSpace(doc.Find("title").First().Text()),
		MetaDescription: metaContent(doc, `meta[name="description"]`),
		MetaKeywords:    metaContent(doc, `meta[name="keywords"]`),
		OGTitle:         metaContent(doc, `meta[property="og:title"]`),
		OGDescription:   metaContent(doc, `meta[property="og:description"]`),
		Headings: domain.Headings{
			H1: joinHeadings(doc, "h1"),
			H2: joinHeadings(doc, "h2"),
			H3: joinHeadings(doc, "h3"),
		},
		StructuredData:  extractStructuredData(doc),
		PricingElements: extractPricingElements(doc),
		BuyButtons:      extractBuyButtons(doc),
		RelevantLinks:   extractRelevantLinks(doc, baseURL),
		BodyText:        CollapseWhitespace(doc.Find("body").Text()),
	}

	return page, nil
}

// metaContent returns the trimmed content attribute of the first match.
func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).Attr("content")
	return strings.TrimSpace(content)
}

// joinHeadings collects the trimmed texts of all headings at one level.
// No headings yields an empty string.
func joinHeadings(doc *goquery.Document, tag string) string {
	var texts []string
	doc.Find(tag).Each(func(_ int, sel *goquery.Selection) {
		texts = append(texts, strings.TrimSpace(sel.Text()))
	})
	return strings.Join(texts, headingDelimiter)
}

// extractStructuredData concatenates every parseable JSON-LD block.
// A block that fails to parse is skipped; the rest are kept.
func extractStructuredData(doc *goquery.Document) string {
	var sb strings.Builder
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		var parsed any
		if err := json.Unmarshal([]byte(sel.Text()), &parsed); err != nil {
			return
		}
		normalized, err := json.Marshal(parsed)
		if err != nil {
			return
		}
		sb.Write(normalized)
		sb.WriteString(" ")
	})
	return sb.String()
}

// extractPricingElements returns the texts of elements that sit under a
// price-like selector and contain a currency symbol, a decimal number, or a
// pricing keyword.
func extractPricingElements(doc *goquery.Document) []string {
	var pricing []string
	for _, selector := range priceSelectors {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			text := strings.TrimSpace(sel.Text())
			if text == "" {
				return
			}
			if hasPricingSignal(text) {
				pricing = append(pricing, text)
			}
		})
	}
	return pricing
}

// hasPricingSignal reports whether text looks like it carries a price.
func hasPricingSignal(text string) bool {
	return currencyRe.MatchString(text) ||
		decimalRe.MatchString(text) ||
		strings.Contains(text, "price") ||
		strings.Contains(text, "month") ||
		strings.Contains(text, "year")
}

// extractBuyButtons returns "label [href]" entries for CTA elements with a
// short non-empty label. href may be empty for plain buttons.
func extractBuyButtons(doc *goquery.Document) []string {
	var buttons []string
	for _, selector := range buyButtonSelectors {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			text := strings.TrimSpace(sel.Text())
			if text == "" || len(text) >= maxBuyButtonTextLen {
				return
			}
			href, _ := sel.Attr("href")
			buttons = append(buttons, fmt.Sprintf("%s [%s]", text, href))
		})
	}
	return buttons
}

// extractRelevantLinks returns same-hostname absolute URLs whose href or
// lowercased anchor text mentions a commerce keyword, deduplicated in
// first-seen order. Links resolve against the page's origin.
func extractRelevantLinks(doc *goquery.Document, baseURL string) []string {
	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil
	}
	origin := &url.URL{Scheme: base.Scheme, Host: base.Host}

	seen := make(map[string]struct{})
	var links []string

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href == "" {
			return
		}
		text := strings.ToLower(strings.TrimSpace(sel.Text()))

		if !matchesLinkKeyword(href, text) {
			return
		}

		parsed, parseErr := url.Parse(href)
		if parseErr != nil {
			return
		}
		resolved := origin.ResolveReference(parsed)
		if resolved.Hostname() != base.Hostname() {
			return
		}

		full := resolved.String()
		if _, dup := seen[full]; dup {
			return
		}
		seen[full] = struct{}{}
		links = append(links, full)
	})

	return links
}

// matchesLinkKeyword reports whether the href or anchor text mentions any
// commerce-intent keyword.
func matchesLinkKeyword(href, lowerText string) bool {
	for _, kw := range linkKeywords {
		if strings.Contains(href, kw) || strings.Contains(lowerText, kw) {
			return true
		}
	}
	return false
}

// CollapseWhitespace folds all whitespace runs into single spaces.
func CollapseWhitespace(text string) string {
	return whitespaceRe.ReplaceAllString(text, " ")
}
