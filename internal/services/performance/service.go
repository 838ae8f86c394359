// Package performance implements the portfolio aggregation pipeline: cached
// historical facts joined with live prices, fanned out per holding.
package performance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jcnlabs/folio/internal/cache"
	"github.com/jcnlabs/folio/internal/common"
	"github.com/jcnlabs/folio/internal/interfaces"
	"github.com/jcnlabs/folio/internal/models"
)

// Service implements the PerformanceService interface
type Service struct {
	warehouse interfaces.WarehouseClient
	quotes    interfaces.QuoteClient
	store     *cache.Store
	cfg       common.PortfolioConfig
	logger    *common.Logger
	now       func() time.Time // injectable clock for testing
}

// NewService creates a new performance service
func NewService(warehouse interfaces.WarehouseClient, quotes interfaces.QuoteClient, store *cache.Store, cfg common.PortfolioConfig, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		warehouse: warehouse,
		quotes:    quotes,
		store:     store,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// SetClock replaces the service clock. Tests only.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// validateHoldings rejects malformed input before any upstream work starts.
func (s *Service) validateHoldings(holdings []models.Holding) error {
	if len(holdings) == 0 {
		return fmt.Errorf("holdings list is empty: %w", interfaces.ErrInvalidInput)
	}
	if limit := s.cfg.MaxHoldings; limit > 0 && len(holdings) > limit {
		return fmt.Errorf("holdings list exceeds %d entries: %w", limit, interfaces.ErrInvalidInput)
	}
	for i, h := range holdings {
		if strings.TrimSpace(h.Symbol) == "" {
			return fmt.Errorf("holding %d has a blank symbol: %w", i, interfaces.ErrInvalidInput)
		}
		if h.CostBasis <= 0 {
			return fmt.Errorf("holding %s has non-positive cost basis: %w", h.Symbol, interfaces.ErrInvalidInput)
		}
		if h.Shares < 0 {
			return fmt.Errorf("holding %s has negative shares: %w", h.Symbol, interfaces.ErrInvalidInput)
		}
	}
	return nil
}

// GetPortfolioPerformance resolves every holding concurrently and returns one
// record per holding, in input order. Per-symbol upstream failures degrade to
// zero-valued fields and never fail the whole report.
func (s *Service) GetPortfolioPerformance(ctx context.Context, holdings []models.Holding) (*models.PerformanceReport, error) {
	if err := s.validateHoldings(holdings); err != nil {
		return nil, err
	}

	start := s.now()

	// Each worker owns exactly one slot, so no synchronization is needed on
	// the results slice itself.
	results := make([]models.PositionPerformance, len(holdings))
	cached := make([]bool, len(holdings))

	var wg sync.WaitGroup
	for i, h := range holdings {
		wg.Add(1)
		go func(i int, h models.Holding) {
			defer wg.Done()
			results[i], cached[i] = s.resolvePosition(ctx, h)
		}(i, h)
	}
	wg.Wait()

	report := &models.PerformanceReport{
		Data:        results,
		LastUpdated: s.now(),
		Source:      models.SourceCache,
	}

	for i := range results {
		report.TotalValue += results[i].PortfolioValue
		if !cached[i] {
			report.Source = models.SourceLive
		}
	}

	// Portfolio-relative share needs the final total, so it is a second pass.
	if report.TotalValue > 0 {
		for i := range report.Data {
			report.Data[i].PortfolioPct = report.Data[i].PortfolioValue / report.TotalValue * 100
		}
	}

	s.logger.Debug().
		Int("holdings", len(holdings)).
		Float64("total_value", report.TotalValue).
		Str("source", report.Source).
		Dur("elapsed", s.now().Sub(start)).
		Msg("Portfolio performance aggregated")

	return report, nil
}

// resolvePosition builds the full record for one holding. The bool result is
// true when both the facts and the price came from cache.
func (s *Service) resolvePosition(ctx context.Context, h models.Holding) (models.PositionPerformance, bool) {
	symbol := models.NormalizeSymbol(h.Symbol)

	facts, factsCached := s.historicalFacts(ctx, symbol)
	price, priceCached := s.livePrice(ctx, symbol, facts)

	pos := models.PositionPerformance{
		Ticker:           symbol,
		SecurityName:     facts.DisplayName,
		CostBasis:        h.CostBasis,
		CurrentPrice:     price,
		Shares:           h.Shares,
		PortfolioValue:   price * float64(h.Shares),
		DailyChangePct:   facts.DailyChangePct,
		YTDPct:           facts.YTDPct,
		YoYPct:           facts.YoYPct,
		PortfolioGainPct: models.PercentChange(price, h.CostBasis),
		PctBelow52wkHigh: facts.PctBelow52wkHigh,
		ChannelRangePct:  facts.ChannelRangePct,
		Week52High:       facts.Week52High,
		Week52Low:        facts.Week52Low,
		Sector:           facts.Sector,
		Industry:         facts.Industry,
	}

	return pos, factsCached && priceCached
}

// historicalFacts returns the symbol's cached warehouse facts, fetching and
// caching them on a miss. Warehouse failures yield fallback facts which are
// NOT cached, so the next request retries.
func (s *Service) historicalFacts(ctx context.Context, symbol string) (models.HistoricalFacts, bool) {
	key := cache.Key(cache.CategoryHistorical, symbol)

	if v, ok := s.store.Get(key, s.cfg.GetHistoricalTTL()); ok {
		if facts, ok := v.(models.HistoricalFacts); ok {
			return facts, true
		}
	}

	row, err := s.warehouse.GetDailyMetrics(ctx, models.WarehouseSymbol(symbol))
	if err != nil {
		if errors.Is(err, interfaces.ErrNoData) {
			s.logger.Debug().Str("symbol", symbol).Msg("No warehouse coverage for symbol")
		} else {
			s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Warehouse lookup failed")
		}
		return models.FallbackFacts(symbol), false
	}

	facts := models.FactsFromDailyRow(symbol, row)
	s.store.Set(key, facts)

	return facts, false
}

// livePrice returns the symbol's cached live price, fetching and caching it on
// a miss. Quote failures fall back to the last-known close from the facts,
// uncached.
func (s *Service) livePrice(ctx context.Context, symbol string, facts models.HistoricalFacts) (float64, bool) {
	key := cache.Key(cache.CategoryPrice, symbol)

	if v, ok := s.store.Get(key, s.cfg.GetLivePriceTTL()); ok {
		if price, ok := v.(float64); ok {
			return price, true
		}
	}

	price, err := s.quotes.GetLivePrice(ctx, symbol)
	if err != nil {
		if errors.Is(err, interfaces.ErrNoData) {
			s.logger.Debug().Str("symbol", symbol).Msg("No live quote for symbol")
		} else {
			s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Live quote failed")
		}
		return facts.Close, false
	}

	s.store.Set(key, price)

	return price, false
}

// WarmCache pre-resolves historical facts for the given symbols so the first
// dashboard load avoids the warehouse fan-out. Errors only degrade later
// requests to cache misses, so they are logged and dropped.
func (s *Service) WarmCache(ctx context.Context, symbols []string) {
	if len(symbols) == 0 {
		return
	}

	start := s.now()

	var wg sync.WaitGroup
	for _, symbol := range symbols {
		symbol := models.NormalizeSymbol(symbol)
		if symbol == "" {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.historicalFacts(ctx, symbol)
		}()
	}
	wg.Wait()

	s.logger.Info().
		Int("symbols", len(symbols)).
		Dur("elapsed", s.now().Sub(start)).
		Msg("Cache warm completed")
}

// Ensure Service implements PerformanceService
var _ interfaces.PerformanceService = (*Service)(nil)
