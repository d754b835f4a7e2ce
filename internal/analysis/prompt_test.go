package analysis_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/agentscan/internal/analysis"
	"github.com/jonesrussell/agentscan/internal/domain"
)

func TestBuildPrompt_Sections(t *testing.T) {
	t.Parallel()

	page := &domain.ExtractedPage{
		URL:             "https://example.com/",
		Title:           "Widget Store",
		MetaDescription: "Widgets for everyone",
		Headings: domain.Headings{
			H1: "Welcome",
			H2: "Pricing | Features",
		},
		StructuredData:  `{"@type":"Product"}`,
		PricingElements: []string{"$19.99", "$49.99/mo"},
		BuyButtons:      []string{"Add to Cart []"},
		BodyText:        "Widgets are great",
	}

	prompt := analysis.BuildPrompt(page, "\n\nSub-page (https://example.com/pricing): plans")

	assert.True(t, strings.HasPrefix(prompt, "WEBSITE ANALYSIS FOR: https://example.com/"))
	assert.Contains(t, prompt, "Title: Widget Store")
	assert.Contains(t, prompt, "H2: Pricing | Features")
	assert.Contains(t, prompt, "PRICING ELEMENTS FOUND (2 elements):\n$19.99 | $49.99/mo")
	assert.Contains(t, prompt, "BUY BUTTONS/CTAs FOUND (1 buttons):\nAdd to Cart []")
	assert.Contains(t, prompt, "Sub-page (https://example.com/pricing): plans")
}

func TestBuildPrompt_TruncatesLists(t *testing.T) {
	t.Parallel()

	pricing := make([]string, 60)
	for i := range pricing {
		pricing[i] = fmt.Sprintf("price-%d", i)
	}
	buttons := make([]string, 40)
	for i := range buttons {
		buttons[i] = fmt.Sprintf("button-%d", i)
	}

	page := &domain.ExtractedPage{
		URL:             "https://example.com/",
		PricingElements: pricing,
		BuyButtons:      buttons,
	}

	prompt := analysis.BuildPrompt(page, "")

	// The counts report the full list, the rendered list is capped.
	assert.Contains(t, prompt, "PRICING ELEMENTS FOUND (60 elements):")
	assert.Contains(t, prompt, "price-49")
	assert.NotContains(t, prompt, "price-50")

	assert.Contains(t, prompt, "BUY BUTTONS/CTAs FOUND (40 buttons):")
	assert.Contains(t, prompt, "button-29")
	assert.NotContains(t, prompt, "button-30")
}

func TestBuildPrompt_TruncatesStructuredData(t *testing.T) {
	t.Parallel()

	page := &domain.ExtractedPage{
		URL:            "https://example.com/",
		StructuredData: strings.Repeat("a", 2500),
	}

	prompt := analysis.BuildPrompt(page, "")

	assert.Contains(t, prompt, strings.Repeat("a", 2000))
	assert.NotContains(t, prompt, strings.Repeat("a", 2001))
}
