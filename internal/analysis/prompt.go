// Package analysis sends extracted page features to AI providers and
// validates their structured judgment.
package analysis

import (
	"fmt"
	"strings"

	"github.com/jonesrussell/agentscan/internal/domain"
)

// Truncation limits applied when serializing the page for the prompt.
const (
	maxStructuredDataChars = 2000
	maxPricingElements     = 50
	maxBuyButtons          = 30
)

// systemPrompt is the fixed instruction contract. The downstream UI depends
// on the exact field set, so treat changes here as a breaking change.
const systemPrompt = `You are an AI Agent with the task of purchasing a product or service from a website. You must be EXTREMELY THOROUGH.

INSTRUCTIONS:
1. Extract 'product_name': The main product, service, or company name (REQUIRED)
2. Extract 'price': Look for ANY pricing information - numbers with currency symbols ($, €, £, ¥, ₹, etc.), pricing tables, subscription costs, monthly/yearly rates. Extract the FIRST clear price you find as a number only (e.g., 99.99, 1200, 49). Return null ONLY if absolutely no pricing exists anywhere.
3. Extract 'currency': Detect the currency from the pricing. Return the 3-letter ISO code:
   - $ or USD or dollars → "USD"
   - € or EUR or euros → "EUR"
   - £ or GBP or pounds → "GBP"
   - ¥ or JPY or yen → "JPY"
   - ₹ or INR or rupees → "INR"
   - AUD, CAD, CHF, CNY, etc. → use the 3-letter code
   If no currency detected, return "USD" as default.
4. Set 'buy_link_found': Return "true" if you can see:
   - Buy buttons, "Add to Cart", "Purchase", "Checkout" buttons
   - Clear pricing tables with plan options
   - Contact/Demo buttons for enterprise products
   - Any clear path to purchase or pricing inquiry
   Return "false" ONLY if there's absolutely no way to buy or inquire about pricing.
5. Write 'summary': Describe what the product/service is and what pricing you found
6. Calculate 'agent_readability_score':
   - 90-100: Perfect - clear product, visible pricing, obvious buy button
   - 70-89: Good - product clear, pricing visible but may require scrolling
   - 50-69: Fair - product clear, pricing exists but hard to find
   - 30-49: Poor - pricing hidden or unclear
   - 0-29: Very Poor - no pricing or very difficult to find

RETURN ONLY VALID JSON with fields: product_name, price, currency, buy_link_found, summary, agent_readability_score`

// BuildPrompt renders the extracted page plus sub-page text into the single
// analysis blob sent alongside the instruction contract.
func BuildPrompt(page *domain.ExtractedPage, subpageText string) string {
	prompt := fmt.Sprintf(`
WEBSITE ANALYSIS FOR: %s

META DATA:
Title: %s
Description: %s
Keywords: %s
OG Title: %s
OG Description: %s

HEADINGS:
H1: %s
H2: %s
H3: %s

STRUCTURED DATA (JSON-LD):
%s

PRICING ELEMENTS FOUND (%d elements):
%s

BUY BUTTONS/CTAs FOUND (%d buttons):
%s

FULL PAGE CONTENT:
%s

%s
`,
		page.URL,
		page.Title,
		page.MetaDescription,
		page.MetaKeywords,
		page.OGTitle,
		page.OGDescription,
		page.Headings.H1,
		page.Headings.H2,
		page.Headings.H3,
		truncateChars(page.StructuredData, maxStructuredDataChars),
		len(page.PricingElements),
		strings.Join(head(page.PricingElements, maxPricingElements), " | "),
		len(page.BuyButtons),
		strings.Join(head(page.BuyButtons, maxBuyButtons), " | "),
		page.BodyText,
		subpageText,
	)

	return strings.TrimSpace(prompt)
}

// head returns at most n leading entries of items.
func head(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

// truncateChars cuts text to at most n runes.
func truncateChars(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
