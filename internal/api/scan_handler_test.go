package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/agentscan/internal/analysis"
	"github.com/jonesrussell/agentscan/internal/api"
	"github.com/jonesrussell/agentscan/internal/domain"
	"github.com/jonesrussell/agentscan/internal/fetcher"
	"github.com/jonesrussell/agentscan/internal/scanner"
)

type mockScanService struct {
	scanFunc func(ctx context.Context, rawURL string) (*domain.ScanRecord, error)
}

func (m *mockScanService) Scan(ctx context.Context, rawURL string) (*domain.ScanRecord, error) {
	if m.scanFunc != nil {
		return m.scanFunc(ctx, rawURL)
	}
	return &domain.ScanRecord{
		URL: rawURL,
		AnalysisResult: domain.AnalysisResult{
			ProductName:           "Widget",
			Currency:              "USD",
			AgentReadabilityScore: 80,
		},
		UpdatedAt: time.Now().UTC(),
	}, nil
}

type mockLister struct {
	recentFunc func(ctx context.Context, limit int) ([]*domain.ScanSummary, error)
	topFunc    func(ctx context.Context, limit int) ([]*domain.ScanSummary, error)
}

func (m *mockLister) ListRecent(ctx context.Context, limit int) ([]*domain.ScanSummary, error) {
	if m.recentFunc != nil {
		return m.recentFunc(ctx, limit)
	}
	return []*domain.ScanSummary{}, nil
}

func (m *mockLister) ListTop(ctx context.Context, limit int) ([]*domain.ScanSummary, error) {
	if m.topFunc != nil {
		return m.topFunc(ctx, limit)
	}
	return []*domain.ScanSummary{}, nil
}

func setupTestRouter(t *testing.T, handler *api.ScanHandler) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/health", handler.Health)
	router.POST("/scan", handler.Scan)
	router.GET("/recent-scans", handler.RecentScans)
	router.GET("/top-scans", handler.TopScans)

	return router
}

func postScan(t *testing.T, router *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()

	bodyJSON, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, err := http.NewRequestWithContext(
		context.Background(), http.MethodPost, "/scan", bytes.NewBuffer(bodyJSON))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)
	return w
}

func getPath(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, path, http.NoBody)
	require.NoError(t, err)

	router.ServeHTTP(w, req)
	return w
}

func TestScanHandler_Scan_Success(t *testing.T) {
	handler := api.NewScanHandler(&mockScanService{}, &mockLister{}, api.ProviderStatus{})
	router := setupTestRouter(t, handler)

	w := postScan(t, router, map[string]any{"url": "https://example.com"})

	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	var record domain.ScanRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
	assert.Equal(t, "Widget", record.ProductName)
	assert.Equal(t, 80, record.AgentReadabilityScore)
}

func TestScanHandler_Scan_MissingURL(t *testing.T) {
	handler := api.NewScanHandler(&mockScanService{}, &mockLister{}, api.ProviderStatus{})
	router := setupTestRouter(t, handler)

	for name, body := range map[string]any{
		"empty object": map[string]any{},
		"empty url":    map[string]any{"url": ""},
	} {
		t.Run(name, func(t *testing.T) {
			w := postScan(t, router, body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "URL is required")
		})
	}
}

func TestScanHandler_Scan_InvalidURL(t *testing.T) {
	svc := &mockScanService{
		scanFunc: func(_ context.Context, _ string) (*domain.ScanRecord, error) {
			return nil, scanner.ErrInvalidURL
		},
	}
	handler := api.NewScanHandler(svc, &mockLister{}, api.ProviderStatus{})
	router := setupTestRouter(t, handler)

	w := postScan(t, router, map[string]any{"url": "not a url"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid URL")
}

func TestScanHandler_Scan_FetchFailure(t *testing.T) {
	svc := &mockScanService{
		scanFunc: func(_ context.Context, _ string) (*domain.ScanRecord, error) {
			return nil, &scanner.FetchFailedError{Err: &fetcher.HTTPStatusError{Status: 404}}
		},
	}
	handler := api.NewScanHandler(svc, &mockLister{}, api.ProviderStatus{})
	router := setupTestRouter(t, handler)

	w := postScan(t, router, map[string]any{"url": "https://example.com/missing"})

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to fetch URL: 404 Not Found")
}

func TestScanHandler_Scan_ProvidersExhausted(t *testing.T) {
	svc := &mockScanService{
		scanFunc: func(_ context.Context, _ string) (*domain.ScanRecord, error) {
			return nil, analysis.ErrProvidersExhausted
		},
	}
	handler := api.NewScanHandler(svc, &mockLister{}, api.ProviderStatus{})
	router := setupTestRouter(t, handler)

	w := postScan(t, router, map[string]any{"url": "https://example.com"})

	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "SYSTEM_OVERLOADED", resp["code"])
	assert.Contains(t, resp["error"], "overloaded")
}

func TestScanHandler_Scan_InternalError(t *testing.T) {
	svc := &mockScanService{
		scanFunc: func(_ context.Context, _ string) (*domain.ScanRecord, error) {
			return nil, errors.New("extract page: unexpected failure")
		},
	}
	handler := api.NewScanHandler(svc, &mockLister{}, api.ProviderStatus{})
	router := setupTestRouter(t, handler)

	w := postScan(t, router, map[string]any{"url": "https://example.com"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestScanHandler_RecentScans(t *testing.T) {
	lister := &mockLister{
		recentFunc: func(_ context.Context, limit int) ([]*domain.ScanSummary, error) {
			assert.Equal(t, 10, limit)
			return []*domain.ScanSummary{
				{URL: "https://a.example.com/", ProductName: "Alpha", AgentReadabilityScore: 70},
			}, nil
		},
	}
	handler := api.NewScanHandler(&mockScanService{}, lister, api.ProviderStatus{})
	router := setupTestRouter(t, handler)

	w := getPath(t, router, "/recent-scans")

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Scans []*domain.ScanSummary `json:"scans"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Scans, 1)
	assert.Equal(t, "Alpha", resp.Scans[0].ProductName)
}

func TestScanHandler_TopScans_Error(t *testing.T) {
	lister := &mockLister{
		topFunc: func(_ context.Context, _ int) ([]*domain.ScanSummary, error) {
			return nil, errors.New("store down")
		},
	}
	handler := api.NewScanHandler(&mockScanService{}, lister, api.ProviderStatus{})
	router := setupTestRouter(t, handler)

	w := getPath(t, router, "/top-scans")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to fetch top scans")
}

func TestScanHandler_Health(t *testing.T) {
	handler := api.NewScanHandler(
		&mockScanService{}, &mockLister{}, api.ProviderStatus{Gemini: true, OpenAI: false})
	router := setupTestRouter(t, handler)

	w := getPath(t, router, "/health")

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status    string             `json:"status"`
		Providers api.ProviderStatus `json:"providers"`
		Timestamp string             `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Providers.Gemini)
	assert.False(t, resp.Providers.OpenAI)
	assert.NotEmpty(t, resp.Timestamp)
}
