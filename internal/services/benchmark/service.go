// Package benchmark compares portfolio daily performance against the index
// proxy held in the warehouse.
package benchmark

import (
	"context"
	"errors"
	"time"

	"github.com/jcnlabs/folio/internal/common"
	"github.com/jcnlabs/folio/internal/interfaces"
	"github.com/jcnlabs/folio/internal/models"
)

// Service implements the BenchmarkService interface
type Service struct {
	performance interfaces.PerformanceService
	warehouse   interfaces.WarehouseClient
	symbol      string
	logger      *common.Logger
	now         func() time.Time
}

// NewService creates a new benchmark service
func NewService(performance interfaces.PerformanceService, warehouse interfaces.WarehouseClient, symbol string, logger *common.Logger) *Service {
	if symbol == "" {
		symbol = "SPY"
	}
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		performance: performance,
		warehouse:   warehouse,
		symbol:      models.NormalizeSymbol(symbol),
		logger:      logger,
		now:         time.Now,
	}
}

// CompareToBenchmark estimates the portfolio's daily move as the value-weighted
// sum of per-position daily changes and subtracts the benchmark's own daily
// move. A benchmark without warehouse coverage degrades to zero benchmark
// fields rather than failing the comparison.
func (s *Service) CompareToBenchmark(ctx context.Context, holdings []models.Holding) (*models.BenchmarkReport, error) {
	perf, err := s.performance.GetPortfolioPerformance(ctx, holdings)
	if err != nil {
		return nil, err
	}

	report := &models.BenchmarkReport{
		BenchmarkSymbol: s.symbol,
		LastUpdated:     s.now(),
	}

	for _, pos := range perf.Data {
		report.PortfolioDailyChangePct += pos.DailyChangePct * pos.PortfolioPct / 100
	}

	latest, previous, err := s.warehouse.GetLastTwoCloses(ctx, models.WarehouseSymbol(s.symbol))
	if err != nil {
		if !errors.Is(err, interfaces.ErrNoData) {
			s.logger.Warn().Err(err).Str("symbol", s.symbol).Msg("Benchmark close lookup failed")
		}
		report.DailyAlphaPct = report.PortfolioDailyChangePct
		return report, nil
	}

	report.BenchmarkDailyChangePct = models.PercentChange(latest.Close, previous.Close)
	report.BenchmarkDate = latest.Date.Format("2006-01-02")
	report.DailyAlphaPct = report.PortfolioDailyChangePct - report.BenchmarkDailyChangePct

	return report, nil
}

// Ensure Service implements BenchmarkService
var _ interfaces.BenchmarkService = (*Service)(nil)
