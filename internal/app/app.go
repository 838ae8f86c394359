// Package app wires configuration, clients, cache, and services into one
// application container.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jcnlabs/folio/internal/cache"
	"github.com/jcnlabs/folio/internal/clients/warehouse"
	"github.com/jcnlabs/folio/internal/clients/yahoo"
	"github.com/jcnlabs/folio/internal/common"
	"github.com/jcnlabs/folio/internal/interfaces"
	"github.com/jcnlabs/folio/internal/services/allocation"
	"github.com/jcnlabs/folio/internal/services/benchmark"
	"github.com/jcnlabs/folio/internal/services/fundamentals"
	"github.com/jcnlabs/folio/internal/services/history"
	"github.com/jcnlabs/folio/internal/services/performance"
)

// App holds all application dependencies
type App struct {
	Config *common.Config
	Logger *common.Logger
	Cache  *cache.Store

	Warehouse interfaces.WarehouseClient
	Quotes    interfaces.QuoteClient

	Performance  interfaces.PerformanceService
	Allocation   interfaces.AllocationService
	Benchmark    interfaces.BenchmarkService
	Fundamentals interfaces.FundamentalsService
	History      interfaces.HistoryService

	StartupTime time.Time

	warmCancel context.CancelFunc
}

// NewApp creates and wires the application. The warehouse token is required:
// without it every historical lookup would fail, so a missing token aborts
// startup instead of degrading every request.
func NewApp(configPath string) (*App, error) {
	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(config.Logging.Level)

	token, err := common.ResolveWarehouseToken()
	if err != nil {
		return nil, err
	}

	wh, err := warehouse.NewClient(config.Warehouse, token,
		warehouse.WithLogger(logger),
		warehouse.WithTimeout(config.Warehouse.GetTimeout()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create warehouse client: %w", err)
	}

	// Connectivity is probed once at startup. A cold warehouse is worth a
	// warning, not an abort: requests degrade per-symbol until it recovers.
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := wh.Ping(pingCtx); err != nil {
		logger.Warn().Err(err).Msg("Warehouse ping failed at startup")
	}
	cancel()

	quotes := yahoo.NewClient(
		yahoo.WithBaseURL(config.Quote.BaseURL),
		yahoo.WithLogger(logger),
		yahoo.WithTimeout(config.Quote.GetTimeout()),
		yahoo.WithRateLimit(config.Quote.RateLimit),
	)

	store := cache.New()

	perf := performance.NewService(wh, quotes, store, config.Portfolio, logger)

	a := &App{
		Config:       config,
		Logger:       logger,
		Cache:        store,
		Warehouse:    wh,
		Quotes:       quotes,
		Performance:  perf,
		Allocation:   allocation.NewService(perf, logger),
		Benchmark:    benchmark.NewService(perf, wh, config.Portfolio.BenchmarkSymbol, logger),
		Fundamentals: fundamentals.NewService(wh, logger),
		History:      history.NewService(wh, logger),
		StartupTime:  time.Now(),
	}

	logger.Info().
		Str("environment", config.Environment).
		Str("warehouse", config.Warehouse.Host).
		Int("symbols", len(config.Symbols)).
		Msg("Application initialized")

	return a, nil
}

// Close releases application resources
func (a *App) Close() error {
	if a.warmCancel != nil {
		a.warmCancel()
	}
	if a.Warehouse != nil {
		if err := a.Warehouse.Close(); err != nil {
			return fmt.Errorf("failed to close warehouse client: %w", err)
		}
	}
	return nil
}
