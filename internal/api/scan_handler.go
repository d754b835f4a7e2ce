package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/agentscan/internal/analysis"
	"github.com/jonesrussell/agentscan/internal/domain"
	"github.com/jonesrussell/agentscan/internal/scanner"
)

// listLimit is the number of entries returned by the scan listings.
const listLimit = 10

// overloadedMessage is shown when every provider attempt has failed.
const overloadedMessage = "Our systems are currently overloaded with high demand. " +
	"Please try again in a few moments."

// ScanService runs one scan per call. Satisfied by *scanner.Service.
type ScanService interface {
	Scan(ctx context.Context, rawURL string) (*domain.ScanRecord, error)
}

// ScanLister reads scan listings. Satisfied by *database.ScanRepository.
type ScanLister interface {
	ListRecent(ctx context.Context, limit int) ([]*domain.ScanSummary, error)
	ListTop(ctx context.Context, limit int) ([]*domain.ScanSummary, error)
}

// ProviderStatus reports which AI providers are configured, for /health.
type ProviderStatus struct {
	Gemini bool `json:"gemini"`
	OpenAI bool `json:"openai"`
}

// ScanHandler handles scan-related HTTP requests.
type ScanHandler struct {
	service   ScanService
	lister    ScanLister
	providers ProviderStatus
}

// NewScanHandler creates a new scan handler.
func NewScanHandler(service ScanService, lister ScanLister, providers ProviderStatus) *ScanHandler {
	return &ScanHandler{
		service:   service,
		lister:    lister,
		providers: providers,
	}
}

// ScanRequest is the POST /scan request body.
type ScanRequest struct {
	URL string `json:"url"`
}

// Scan handles POST /scan.
func (h *ScanHandler) Scan(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL is required"})
		return
	}

	record, err := h.service.Scan(c.Request.Context(), req.URL)
	if err != nil {
		h.writeScanError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// writeScanError maps pipeline errors onto HTTP responses.
func (h *ScanHandler) writeScanError(c *gin.Context, err error) {
	var fetchErr *scanner.FetchFailedError

	switch {
	case errors.Is(err, scanner.ErrEmptyURL), errors.Is(err, scanner.ErrInvalidURL):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &fetchErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": fetchErr.Error()})
	case errors.Is(err, analysis.ErrProvidersExhausted):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": overloadedMessage,
			"code":  "SYSTEM_OVERLOADED",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// RecentScans handles GET /recent-scans.
func (h *ScanHandler) RecentScans(c *gin.Context) {
	scans, err := h.lister.ListRecent(c.Request.Context(), listLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recent scans"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"scans": scans})
}

// TopScans handles GET /top-scans.
func (h *ScanHandler) TopScans(c *gin.Context) {
	scans, err := h.lister.ListTop(c.Request.Context(), listLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch top scans"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"scans": scans})
}

// Health handles GET /health. It reports which providers are configured
// without exposing any secrets.
func (h *ScanHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"providers": h.providers,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
