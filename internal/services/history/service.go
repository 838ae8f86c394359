// Package history serves the long-range price series behind the dashboard's
// history and trends charts.
package history

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jcnlabs/folio/internal/common"
	"github.com/jcnlabs/folio/internal/interfaces"
	"github.com/jcnlabs/folio/internal/models"
)

// Chart lookback windows.
const (
	dailyLookbackYears  = 20
	weeklyLookbackYears = 8
)

// Service implements the HistoryService interface
type Service struct {
	warehouse interfaces.WarehouseClient
	logger    *common.Logger
	now       func() time.Time
}

// NewService creates a new history service
func NewService(warehouse interfaces.WarehouseClient, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		warehouse: warehouse,
		logger:    logger,
		now:       time.Now,
	}
}

// SetClock replaces the service clock. Tests only.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

func normalizeSymbols(symbols []string) ([]string, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("symbols list is empty: %w", interfaces.ErrInvalidInput)
	}
	out := make([]string, 0, len(symbols))
	for i, sym := range symbols {
		if strings.TrimSpace(sym) == "" {
			return nil, fmt.Errorf("symbol %d is blank: %w", i, interfaces.ErrInvalidInput)
		}
		out = append(out, models.NormalizeSymbol(sym))
	}
	return out, nil
}

// GetDailyHistory retrieves the 20-year daily close series for each symbol.
// A symbol whose lookup fails maps to an empty series rather than failing the
// whole report.
func (s *Service) GetDailyHistory(ctx context.Context, symbols []string) (*models.HistoryReport, error) {
	normalized, err := normalizeSymbols(symbols)
	if err != nil {
		return nil, err
	}

	to := s.now()
	from := to.AddDate(-dailyLookbackYears, 0, 0)

	report := &models.HistoryReport{
		Data:        make(map[string][]models.ClosePoint, len(normalized)),
		StartDate:   from.Format("2006-01-02"),
		EndDate:     to.Format("2006-01-02"),
		Symbols:     normalized,
		LastUpdated: to,
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, sym := range normalized {
		wg.Add(1)
		go func(sym string) {
			defer wg.Done()
			points, err := s.warehouse.GetDailyCloses(ctx, models.WarehouseSymbol(sym), from, to)
			if err != nil {
				s.logger.Warn().Err(err).Str("symbol", sym).Msg("Daily close series lookup failed")
				points = nil
			}
			if points == nil {
				points = []models.ClosePoint{}
			}
			mu.Lock()
			report.Data[sym] = points
			mu.Unlock()
		}(sym)
	}
	wg.Wait()

	return report, nil
}

// GetWeeklyTrends retrieves the 8-year weekly OHLC series for each symbol,
// with the same per-symbol degradation as GetDailyHistory.
func (s *Service) GetWeeklyTrends(ctx context.Context, symbols []string) (*models.TrendsReport, error) {
	normalized, err := normalizeSymbols(symbols)
	if err != nil {
		return nil, err
	}

	to := s.now()
	from := to.AddDate(-weeklyLookbackYears, 0, 0)

	report := &models.TrendsReport{
		Data:        make(map[string][]models.WeeklyBar, len(normalized)),
		StartDate:   from.Format("2006-01-02"),
		EndDate:     to.Format("2006-01-02"),
		Symbols:     normalized,
		LastUpdated: to,
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, sym := range normalized {
		wg.Add(1)
		go func(sym string) {
			defer wg.Done()
			bars, err := s.warehouse.GetWeeklyOHLC(ctx, models.WarehouseSymbol(sym), from, to)
			if err != nil {
				s.logger.Warn().Err(err).Str("symbol", sym).Msg("Weekly OHLC lookup failed")
				bars = nil
			}
			if bars == nil {
				bars = []models.WeeklyBar{}
			}
			mu.Lock()
			report.Data[sym] = bars
			mu.Unlock()
		}(sym)
	}
	wg.Wait()

	return report, nil
}

// Ensure Service implements HistoryService
var _ interfaces.HistoryService = (*Service)(nil)
