// Package bootstrap wires the scan pipeline from configuration.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/agentscan/internal/analysis"
	"github.com/jonesrussell/agentscan/internal/api"
	"github.com/jonesrussell/agentscan/internal/config"
	"github.com/jonesrussell/agentscan/internal/database"
	"github.com/jonesrussell/agentscan/internal/fetcher"
	"github.com/jonesrussell/agentscan/internal/logger"
	"github.com/jonesrussell/agentscan/internal/scanner"
	"github.com/jonesrussell/agentscan/internal/subpage"
)

// App holds the assembled application dependencies.
type App struct {
	DB        *sqlx.DB
	Repo      *database.ScanRepository
	Service   *scanner.Service
	Providers api.ProviderStatus
}

// New connects to the store and builds the scan service with explicit
// client instances, so commands and tests share one wiring path.
func New(cfg *config.Config, log logger.Interface) (*App, error) {
	db, err := database.NewPostgresConnection(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if schemaErr := database.EnsureSchema(context.Background(), db); schemaErr != nil {
		db.Close()
		return nil, schemaErr
	}

	repo := database.NewScanRepository(db)

	pageFetcher := fetcher.New(fetcher.Config{
		UserAgent:      cfg.Scanner.UserAgent,
		RequestTimeout: cfg.Scanner.RequestTimeout,
		RateLimitRPS:   cfg.Scanner.RateLimitRPS,
		RateLimitBurst: cfg.Scanner.RateLimitBurst,
	}, log)

	subpages := subpage.New(pageFetcher, subpage.Config{
		MaxPages: cfg.Scanner.MaxSubpages,
		Timeout:  cfg.Scanner.SubpageTimeout,
	}, log)

	providers, status := buildProviders(cfg)
	orchestrator := analysis.NewOrchestrator(providers, log)

	service := scanner.NewService(pageFetcher, subpages, orchestrator, repo, log)

	return &App{
		DB:        db,
		Repo:      repo,
		Service:   service,
		Providers: status,
	}, nil
}

// Close releases held resources.
func (a *App) Close() error {
	return a.DB.Close()
}

// buildProviders constructs the fallback chain from configuration, in
// preference order: Gemini model variants first, then OpenAI.
func buildProviders(cfg *config.Config) ([]analysis.Provider, api.ProviderStatus) {
	var providers []analysis.Provider
	var status api.ProviderStatus

	if cfg.Providers.Gemini.APIKey != "" {
		providers = append(providers,
			analysis.NewGeminiClient(cfg.Providers.Gemini.APIKey, cfg.Providers.Gemini.Models))
		status.Gemini = true
	}

	if cfg.Providers.OpenAI.APIKey != "" {
		providers = append(providers,
			analysis.NewOpenAIClient(cfg.Providers.OpenAI.APIKey, cfg.Providers.OpenAI.Model))
		status.OpenAI = true
	}

	return providers, status
}
