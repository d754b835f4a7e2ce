package scanner

import (
	"errors"
	"fmt"

	"github.com/jonesrussell/agentscan/internal/fetcher"
)

// FetchFailedError reports a failed main-page fetch. The message carries the
// upstream status line or the network cause, and is surfaced to the caller.
type FetchFailedError struct {
	Err error
}

// Error renders the user-facing fetch failure message.
func (e *FetchFailedError) Error() string {
	var statusErr *fetcher.HTTPStatusError
	if errors.As(e.Err, &statusErr) {
		return fmt.Sprintf("Failed to fetch URL: %s", statusErr.Error())
	}
	return fmt.Sprintf("Network error while fetching URL: %s", e.Err.Error())
}

// Unwrap returns the underlying fetch error.
func (e *FetchFailedError) Unwrap() error {
	return e.Err
}
