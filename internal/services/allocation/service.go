// Package allocation derives the dashboard pie datasets from aggregated
// portfolio performance.
package allocation

import (
	"context"
	"sort"
	"time"

	"github.com/jcnlabs/folio/internal/common"
	"github.com/jcnlabs/folio/internal/interfaces"
	"github.com/jcnlabs/folio/internal/models"
)

// Service implements the AllocationService interface
type Service struct {
	performance interfaces.PerformanceService
	logger      *common.Logger
	now         func() time.Time
}

// NewService creates a new allocation service
func NewService(performance interfaces.PerformanceService, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		performance: performance,
		logger:      logger,
		now:         time.Now,
	}
}

// GetPortfolioAllocation aggregates the portfolio's market value into the
// company, category, sector, and industry pie datasets. Slices are ordered
// largest first. Positions without classification ("N/A") are excluded from
// the sector and industry pies but always counted in the company pie.
func (s *Service) GetPortfolioAllocation(ctx context.Context, holdings []models.Holding) (*models.AllocationReport, error) {
	perf, err := s.performance.GetPortfolioPerformance(ctx, holdings)
	if err != nil {
		return nil, err
	}

	report := &models.AllocationReport{
		Company:     make([]models.AllocationItem, 0, len(perf.Data)),
		Sector:      []models.AllocationItem{},
		Industry:    []models.AllocationItem{},
		LastUpdated: s.now(),
	}

	sectors := make(map[string]float64)
	industries := make(map[string]float64)

	for _, pos := range perf.Data {
		report.Company = append(report.Company, models.AllocationItem{
			Name:   pos.SecurityName,
			Ticker: pos.Ticker,
			Value:  pos.PortfolioPct,
		})
		if pos.Sector != "" && pos.Sector != "N/A" {
			sectors[pos.Sector] += pos.PortfolioPct
		}
		if pos.Industry != "" && pos.Industry != "N/A" {
			industries[pos.Industry] += pos.PortfolioPct
		}
	}

	report.Sector = sortedItems(sectors)
	report.Industry = sortedItems(industries)
	sort.SliceStable(report.Company, func(i, j int) bool {
		return report.Company[i].Value > report.Company[j].Value
	})

	// TODO: split by style box once market cap and valuation columns land in
	// the warehouse daily-metrics table.
	report.Category = []models.AllocationItem{{Name: "Large Growth", Value: 100}}

	return report, nil
}

// sortedItems converts an aggregation map to pie slices, largest first with
// name as the tiebreaker for stable output.
func sortedItems(values map[string]float64) []models.AllocationItem {
	items := make([]models.AllocationItem, 0, len(values))
	for name, value := range values {
		items = append(items, models.AllocationItem{Name: name, Value: value})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Value != items[j].Value {
			return items[i].Value > items[j].Value
		}
		return items[i].Name < items[j].Name
	})
	return items
}

// Ensure Service implements AllocationService
var _ interfaces.AllocationService = (*Service)(nil)
