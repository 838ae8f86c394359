// Package fundamentals serves the latest warehouse score rows per symbol.
package fundamentals

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jcnlabs/folio/internal/common"
	"github.com/jcnlabs/folio/internal/interfaces"
	"github.com/jcnlabs/folio/internal/models"
)

// ScoreColumns lists the score dimensions in dashboard display order.
var ScoreColumns = []string{"value", "growth", "financial_strength", "quality", "momentum"}

// Service implements the FundamentalsService interface
type Service struct {
	warehouse interfaces.WarehouseClient
	logger    *common.Logger
	now       func() time.Time
}

// NewService creates a new fundamentals service
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

// GetLatestScores retrieves the latest fundamental score row for each symbol,
// in input order. Symbols without score rows yield nil-score entries so the
// dashboard renders blanks rather than zeros.
func (s *Service) GetLatestScores(ctx context.Context, symbols []string) (*models.FundamentalsReport, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("symbols list is empty: %w", interfaces.ErrInvalidInput)
	}

	normalized := make([]string, 0, len(symbols))
	suffixed := make([]string, 0, len(symbols))
	for i, sym := range symbols {
		if strings.TrimSpace(sym) == "" {
			return nil, fmt.Errorf("symbol %d is blank: %w", i, interfaces.ErrInvalidInput)
		}
		normalized = append(normalized, models.NormalizeSymbol(sym))
		suffixed = append(suffixed, models.WarehouseSymbol(sym))
	}

	scores, err := s.warehouse.GetLatestScores(ctx, suffixed)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve scores: %w", err)
	}

	report := &models.FundamentalsReport{
		Data:         make([]models.ScoreRow, len(normalized)),
		ScoreColumns: ScoreColumns,
		LastUpdated:  s.now(),
	}

	for i, sym := range normalized {
		if row, ok := scores[sym]; ok {
			report.Data[i] = row
			continue
		}
		report.Data[i] = models.ScoreRow{Symbol: sym}
	}

	return report, nil
}

// Ensure Service implements FundamentalsService
var _ interfaces.FundamentalsService = (*Service)(nil)
