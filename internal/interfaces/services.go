// Package interfaces defines service contracts for Folio
package interfaces

import (
	"context"
	"errors"

	"github.com/jcnlabs/folio/internal/models"
)

// ErrInvalidInput marks a malformed request (empty or over-long holdings
// list, blank symbol, non-positive cost basis, negative shares). Surfaced to
// the caller as a 400; never retried.
var ErrInvalidInput = errors.New("invalid input")

// PerformanceService aggregates a holdings list into per-position metrics
// plus portfolio-relative percentages.
type PerformanceService interface {
	// GetPortfolioPerformance resolves every holding (concurrently, cache-aware)
	// and returns one fully-populated record per holding in input order.
	// Per-symbol upstream failures degrade to zero-valued fields.
	GetPortfolioPerformance(ctx context.Context, holdings []models.Holding) (*models.PerformanceReport, error)

	// WarmCache pre-resolves historical facts for the given symbols so the
	// first dashboard load avoids the warehouse fan-out.
	WarmCache(ctx context.Context, symbols []string)
}

// AllocationService builds the dashboard's allocation pie datasets.
type AllocationService interface {
	GetPortfolioAllocation(ctx context.Context, holdings []models.Holding) (*models.AllocationReport, error)
}

// BenchmarkService compares portfolio daily performance to the benchmark index.
type BenchmarkService interface {
	CompareToBenchmark(ctx context.Context, holdings []models.Holding) (*models.BenchmarkReport, error)
}

// FundamentalsService retrieves the latest fundamental scores per symbol.
type FundamentalsService interface {
	GetLatestScores(ctx context.Context, symbols []string) (*models.FundamentalsReport, error)
}

// HistoryService serves the price-history and weekly-trends series.
type HistoryService interface {
	GetDailyHistory(ctx context.Context, symbols []string) (*models.HistoryReport, error)
	GetWeeklyTrends(ctx context.Context, symbols []string) (*models.TrendsReport, error)
}
