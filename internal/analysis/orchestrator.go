package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/jonesrussell/agentscan/internal/domain"
	"github.com/jonesrussell/agentscan/internal/logger"
)

// ErrProvidersExhausted is returned when every configured attempt across
// every provider has failed to produce a validated result.
var ErrProvidersExhausted = errors.New("all provider attempts failed")

// defaultCurrency is applied when the provider omits or mangles the code.
const defaultCurrency = "USD"

// Score bounds for agent_readability_score.
const (
	minScore = 0
	maxScore = 100
)

// Orchestrator tries an ordered list of providers and their model variants
// until one yields a response that satisfies the output contract.
type Orchestrator struct {
	providers []Provider
	log       logger.Interface
}

// NewOrchestrator creates an orchestrator over the given providers. Order
// matters: earlier providers and earlier models are preferred.
func NewOrchestrator(providers []Provider, log logger.Interface) *Orchestrator {
	return &Orchestrator{
		providers: providers,
		log:       log.WithComponent("analysis"),
	}
}

// rawResult mirrors the provider's JSON output before validation.
// buy_link_found is left loose because providers return bool or string.
type rawResult struct {
	ProductName           string   `json:"product_name"`
	Price                 *float64 `json:"price"`
	Currency              string   `json:"currency"`
	BuyLinkFound          any      `json:"buy_link_found"`
	Summary               string   `json:"summary"`
	AgentReadabilityScore int      `json:"agent_readability_score"`
}

// Analyze sends the assembled page content through the fallback chain and
// returns the first validated result. Every attempt failure — transient or
// not — advances the chain; only full exhaustion is an error.
func (o *Orchestrator) Analyze(ctx context.Context, pageContent string) (*domain.AnalysisResult, error) {
	for _, provider := range o.providers {
		for _, model := range provider.Models() {
			result, ok := o.tryAttempt(ctx, provider, model, pageContent)
			if ok {
				return result, nil
			}

			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
		}
	}

	o.log.Error("all provider attempts failed or returned invalid data")

	return nil, ErrProvidersExhausted
}

// tryAttempt runs a single provider+model attempt. A false return means the
// chain should continue with the next attempt.
func (o *Orchestrator) tryAttempt(
	ctx context.Context,
	provider Provider,
	model string,
	pageContent string,
) (*domain.AnalysisResult, bool) {
	log := o.log.With("provider", provider.Name(), "model", model)
	log.Debug("trying provider attempt")

	text, err := provider.Generate(ctx, model, systemPrompt, pageContent)
	if err != nil {
		if isTransientError(err) {
			log.Warn("provider overloaded or rate limited, trying next attempt", "error", err.Error())
		} else {
			log.Error("provider call failed, trying next attempt", "error", err.Error())
		}
		return nil, false
	}

	raw, parseErr := parseResultJSON(text)
	if parseErr != nil {
		log.Error("failed to parse provider JSON, trying next attempt", "error", parseErr.Error())
		return nil, false
	}

	if raw.ProductName == "" {
		log.Warn("provider returned no product_name, trying next attempt")
		return nil, false
	}

	log.Info("analysis succeeded")

	return normalizeResult(raw), true
}

// parseResultJSON strips an optional markdown code fence and parses the
// provider output against the result schema.
func parseResultJSON(text string) (*rawResult, error) {
	cleaned := stripCodeFence(text)

	var raw rawResult
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, err
	}

	return &raw, nil
}

// stripCodeFence removes a leading/trailing markdown code fence, accepting
// fences tagged "json" or untagged.
func stripCodeFence(text string) string {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
	} else {
		cleaned = strings.TrimPrefix(cleaned, "```")
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")

	return strings.TrimSpace(cleaned)
}

// normalizeResult applies the output-contract defaults: currency must be a
// 3-letter code (else USD), buy_link_found is true only for boolean true or
// the string "true", and the score is clamped to [0, 100].
func normalizeResult(raw *rawResult) *domain.AnalysisResult {
	return &domain.AnalysisResult{
		ProductName:           raw.ProductName,
		Price:                 raw.Price,
		Currency:              normalizeCurrency(raw.Currency),
		BuyLinkFound:          coerceBuyLinkFound(raw.BuyLinkFound),
		Summary:               raw.Summary,
		AgentReadabilityScore: clampScore(raw.AgentReadabilityScore),
	}
}

// normalizeCurrency uppercases a 3-letter code and falls back to USD.
func normalizeCurrency(currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return defaultCurrency
	}
	for _, r := range currency {
		if r < 'A' || r > 'Z' {
			return defaultCurrency
		}
	}
	return currency
}

// coerceBuyLinkFound accepts boolean true and the string "true"; everything
// else is false.
func coerceBuyLinkFound(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return v == "true"
	default:
		return false
	}
}

// clampScore bounds the readability score to [0, 100].
func clampScore(score int) int {
	if score < minScore {
		return minScore
	}
	if score > maxScore {
		return maxScore
	}
	return score
}
