package analysis

import (
	"context"
	"strings"
)

// Provider is a single AI backend able to serve one or more model variants.
type Provider interface {
	// Name identifies the provider in logs.
	Name() string
	// Models lists the model variants to try, in preference order.
	Models() []string
	// Generate runs one text completion and returns the raw response text.
	Generate(ctx context.Context, model, system, user string) (string, error)
}

// transientSignals mark provider errors caused by quota exhaustion, rate
// limiting, or temporary overload.
var transientSignals = []string{"quota", "429", "503", "overloaded", "rate limit"}

// isTransientError reports whether the error text carries a transient signal.
func isTransientError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, signal := range transientSignals {
		if strings.Contains(msg, signal) {
			return true
		}
	}
	return false
}
