package performance

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcnlabs/folio/internal/cache"
	"github.com/jcnlabs/folio/internal/common"
	"github.com/jcnlabs/folio/internal/interfaces"
	"github.com/jcnlabs/folio/internal/models"
)

// mockWarehouse serves canned daily-metrics rows keyed by the
// exchange-qualified symbol and counts lookups per symbol.
type mockWarehouse struct {
	mu    sync.Mutex
	rows  map[string]*models.DailyMetricsRow
	calls map[string]int
	err   error
}

func newMockWarehouse() *mockWarehouse {
	return &mockWarehouse{
		rows:  make(map[string]*models.DailyMetricsRow),
		calls: make(map[string]int),
	}
}

func (m *mockWarehouse) GetDailyMetrics(_ context.Context, symbol string) (*models.DailyMetricsRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[symbol]++
	if m.err != nil {
		return nil, m.err
	}
	row, ok := m.rows[symbol]
	if !ok {
		return nil, fmt.Errorf("daily metrics for %s: %w", symbol, interfaces.ErrNoData)
	}
	return row, nil
}

func (m *mockWarehouse) callCount(symbol string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[symbol]
}

func (m *mockWarehouse) GetLastTwoCloses(context.Context, string) (models.ClosePoint, models.ClosePoint, error) {
	return models.ClosePoint{}, models.ClosePoint{}, interfaces.ErrNoData
}

func (m *mockWarehouse) GetDailyCloses(context.Context, string, time.Time, time.Time) ([]models.ClosePoint, error) {
	return nil, nil
}

func (m *mockWarehouse) GetWeeklyOHLC(context.Context, string, time.Time, time.Time) ([]models.WeeklyBar, error) {
	return nil, nil
}

func (m *mockWarehouse) GetLatestScores(context.Context, []string) (map[string]models.ScoreRow, error) {
	return map[string]models.ScoreRow{}, nil
}

func (m *mockWarehouse) Ping(context.Context) error { return nil }
func (m *mockWarehouse) Close() error               { return nil }

// mockQuote serves canned prices and counts lookups per symbol.
type mockQuote struct {
	mu     sync.Mutex
	prices map[string]float64
	calls  map[string]int
	err    error
}

func newMockQuote() *mockQuote {
	return &mockQuote{
		prices: make(map[string]float64),
		calls:  make(map[string]int),
	}
}

func (m *mockQuote) GetLivePrice(_ context.Context, symbol string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[symbol]++
	if m.err != nil {
		return 0, m.err
	}
	price, ok := m.prices[symbol]
	if !ok {
		return 0, fmt.Errorf("quote for %s: %w", symbol, interfaces.ErrNoData)
	}
	return price, nil
}

func (m *mockQuote) callCount(symbol string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[symbol]
}

func aaplRow() *models.DailyMetricsRow {
	return &models.DailyMetricsRow{
		Symbol:         "AAPL.US",
		Date:           time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		Close:          174.00,
		PrevClose:      170.00,
		YearStartPrice: 150.00,
		YearAgoPrice:   140.00,
		High52Week:     190.00,
		Low52Week:      130.00,
		Name:           "Apple Inc",
		Sector:         "Technology",
		Industry:       "Consumer Electronics",
	}
}

func msftRow() *models.DailyMetricsRow {
	return &models.DailyMetricsRow{
		Symbol:         "MSFT.US",
		Date:           time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		Close:          308.00,
		PrevClose:      305.00,
		YearStartPrice: 280.00,
		YearAgoPrice:   250.00,
		High52Week:     330.00,
		Low52Week:      240.00,
		Name:           "Microsoft Corporation",
		Sector:         "Technology",
		Industry:       "Software",
	}
}

func newTestService(wh *mockWarehouse, q *mockQuote) (*Service, *cache.Store) {
	store := cache.New()
	cfg := common.NewDefaultConfig().Portfolio
	svc := NewService(wh, q, store, cfg, common.NewSilentLogger())
	return svc, store
}

func TestGetPortfolioPerformance(t *testing.T) {
	wh := newMockWarehouse()
	wh.rows["AAPL.US"] = aaplRow()
	wh.rows["MSFT.US"] = msftRow()

	q := newMockQuote()
	q.prices["AAPL"] = 175.50
	q.prices["MSFT"] = 310.00

	svc, _ := newTestService(wh, q)

	holdings := []models.Holding{
		{Symbol: "AAPL", CostBasis: 150, Shares: 100},
		{Symbol: "MSFT", CostBasis: 300, Shares: 50},
	}

	report, err := svc.GetPortfolioPerformance(context.Background(), holdings)
	require.NoError(t, err)
	require.Len(t, report.Data, 2)

	assert.InDelta(t, 33050.00, report.TotalValue, 0.001)
	assert.Equal(t, models.SourceLive, report.Source)

	aapl := report.Data[0]
	assert.Equal(t, "AAPL", aapl.Ticker)
	assert.Equal(t, "Apple Inc", aapl.SecurityName)
	assert.Equal(t, 175.50, aapl.CurrentPrice)
	assert.InDelta(t, 17550.00, aapl.PortfolioValue, 0.001)
	assert.InDelta(t, 53.1014, aapl.PortfolioPct, 0.001)
	assert.InDelta(t, 17.00, aapl.PortfolioGainPct, 0.001)
	// Historical metrics derive from the warehouse close, not the live price.
	assert.InDelta(t, (174.0-170.0)/170.0*100, aapl.DailyChangePct, 0.0001)
	assert.InDelta(t, 16.0, aapl.YTDPct, 0.001)
	assert.InDelta(t, (190.0-174.0)/190.0*100, aapl.PctBelow52wkHigh, 0.0001)
	assert.InDelta(t, (174.0-130.0)/(190.0-130.0)*100, aapl.ChannelRangePct, 0.0001)
	assert.Equal(t, "Technology", aapl.Sector)

	msft := report.Data[1]
	assert.Equal(t, "MSFT", msft.Ticker)
	assert.InDelta(t, 15500.00, msft.PortfolioValue, 0.001)
	assert.InDelta(t, 46.8986, msft.PortfolioPct, 0.001)
	assert.InDelta(t, 3.3333, msft.PortfolioGainPct, 0.001)
}

func TestGetPortfolioPerformanceInvalidInput(t *testing.T) {
	svc, _ := newTestService(newMockWarehouse(), newMockQuote())
	ctx := context.Background()

	tests := []struct {
		name     string
		holdings []models.Holding
	}{
		{"empty list", nil},
		{"blank symbol", []models.Holding{{Symbol: "  ", CostBasis: 100, Shares: 1}}},
		{"zero cost basis", []models.Holding{{Symbol: "AAPL", CostBasis: 0, Shares: 1}}},
		{"negative cost basis", []models.Holding{{Symbol: "AAPL", CostBasis: -5, Shares: 1}}},
		{"negative shares", []models.Holding{{Symbol: "AAPL", CostBasis: 100, Shares: -1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetPortfolioPerformance(ctx, tt.holdings)
			require.Error(t, err)
			assert.True(t, errors.Is(err, interfaces.ErrInvalidInput))
		})
	}
}

func TestGetPortfolioPerformanceTooManyHoldings(t *testing.T) {
	svc, _ := newTestService(newMockWarehouse(), newMockQuote())

	holdings := make([]models.Holding, 31)
	for i := range holdings {
		holdings[i] = models.Holding{Symbol: fmt.Sprintf("SYM%d", i), CostBasis: 10, Shares: 1}
	}

	_, err := svc.GetPortfolioPerformance(context.Background(), holdings)
	require.Error(t, err)
	assert.True(t, errors.Is(err, interfaces.ErrInvalidInput))
}

func TestGetPortfolioPerformancePreservesOrder(t *testing.T) {
	wh := newMockWarehouse()
	q := newMockQuote()

	symbols := []string{"GOOG", "AMZN", "NVDA", "META", "TSLA", "NFLX", "AMD", "INTC"}
	holdings := make([]models.Holding, len(symbols))
	for i, sym := range symbols {
		row := aaplRow()
		row.Symbol = sym + ".US"
		row.Name = sym + " Inc"
		wh.rows[sym+".US"] = row
		q.prices[sym] = float64(100 + i)
		holdings[i] = models.Holding{Symbol: sym, CostBasis: 50, Shares: 10}
	}

	svc, _ := newTestService(wh, q)

	report, err := svc.GetPortfolioPerformance(context.Background(), holdings)
	require.NoError(t, err)
	require.Len(t, report.Data, len(symbols))

	for i, sym := range symbols {
		assert.Equal(t, sym, report.Data[i].Ticker)
		assert.Equal(t, float64(100+i), report.Data[i].CurrentPrice)
	}
}

func TestGetPortfolioPerformanceFallbackIsolation(t *testing.T) {
	wh := newMockWarehouse()
	wh.rows["AAPL.US"] = aaplRow()
	// GHOST has no warehouse row and no quote.

	q := newMockQuote()
	q.prices["AAPL"] = 175.50

	svc, _ := newTestService(wh, q)

	holdings := []models.Holding{
		{Symbol: "AAPL", CostBasis: 150, Shares: 100},
		{Symbol: "GHOST", CostBasis: 10, Shares: 5},
	}

	report, err := svc.GetPortfolioPerformance(context.Background(), holdings)
	require.NoError(t, err)
	require.Len(t, report.Data, 2)

	ghost := report.Data[1]
	assert.Equal(t, "GHOST", ghost.Ticker)
	assert.Equal(t, "GHOST", ghost.SecurityName)
	assert.Equal(t, 0.0, ghost.CurrentPrice)
	assert.Equal(t, 0.0, ghost.PortfolioValue)
	assert.Equal(t, 0.0, ghost.PortfolioPct)
	assert.Equal(t, 0.0, ghost.DailyChangePct)
	assert.Equal(t, "N/A", ghost.Sector)

	// The healthy position is unaffected and owns the whole portfolio.
	assert.InDelta(t, 17550.00, report.TotalValue, 0.001)
	assert.InDelta(t, 100.0, report.Data[0].PortfolioPct, 0.001)
}

func TestGetPortfolioPerformanceQuoteFallsBackToClose(t *testing.T) {
	wh := newMockWarehouse()
	wh.rows["AAPL.US"] = aaplRow()

	q := newMockQuote() // no prices: every quote lookup misses

	svc, _ := newTestService(wh, q)

	report, err := svc.GetPortfolioPerformance(context.Background(), []models.Holding{
		{Symbol: "AAPL", CostBasis: 150, Shares: 100},
	})
	require.NoError(t, err)

	// Last-known close stands in for the live price.
	assert.Equal(t, 174.00, report.Data[0].CurrentPrice)
	assert.InDelta(t, 17400.00, report.Data[0].PortfolioValue, 0.001)
	assert.InDelta(t, 16.0, report.Data[0].PortfolioGainPct, 0.001)
}

func TestGetPortfolioPerformanceZeroTotalValue(t *testing.T) {
	// No warehouse rows and no quotes: every value is zero and the
	// portfolio-share pass must not divide by zero.
	svc, _ := newTestService(newMockWarehouse(), newMockQuote())

	report, err := svc.GetPortfolioPerformance(context.Background(), []models.Holding{
		{Symbol: "GHOST", CostBasis: 10, Shares: 5},
		{Symbol: "SPECTER", CostBasis: 20, Shares: 2},
	})
	require.NoError(t, err)

	assert.Equal(t, 0.0, report.TotalValue)
	for _, pos := range report.Data {
		assert.Equal(t, 0.0, pos.PortfolioPct)
	}
}

func TestGetPortfolioPerformanceCacheTTLs(t *testing.T) {
	wh := newMockWarehouse()
	wh.rows["AAPL.US"] = aaplRow()

	q := newMockQuote()
	q.prices["AAPL"] = 175.50

	svc, store := newTestService(wh, q)

	current := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return current }
	store.SetClock(clock)
	svc.SetClock(clock)

	holdings := []models.Holding{{Symbol: "AAPL", CostBasis: 150, Shares: 100}}
	ctx := context.Background()

	report, err := svc.GetPortfolioPerformance(ctx, holdings)
	require.NoError(t, err)
	assert.Equal(t, models.SourceLive, report.Source)
	assert.Equal(t, 1, wh.callCount("AAPL.US"))
	assert.Equal(t, 1, q.callCount("AAPL"))

	// Within both TTLs: fully cache-served, no upstream traffic.
	current = current.Add(2 * time.Minute)
	report, err = svc.GetPortfolioPerformance(ctx, holdings)
	require.NoError(t, err)
	assert.Equal(t, models.SourceCache, report.Source)
	assert.Equal(t, 1, wh.callCount("AAPL.US"))
	assert.Equal(t, 1, q.callCount("AAPL"))

	// Past the price TTL but inside the historical TTL: only the quote refreshes.
	current = current.Add(6 * time.Minute)
	report, err = svc.GetPortfolioPerformance(ctx, holdings)
	require.NoError(t, err)
	assert.Equal(t, models.SourceLive, report.Source)
	assert.Equal(t, 1, wh.callCount("AAPL.US"))
	assert.Equal(t, 2, q.callCount("AAPL"))

	// Past the historical TTL: both refresh.
	current = current.Add(25 * time.Hour)
	_, err = svc.GetPortfolioPerformance(ctx, holdings)
	require.NoError(t, err)
	assert.Equal(t, 2, wh.callCount("AAPL.US"))
	assert.Equal(t, 3, q.callCount("AAPL"))
}

func TestGetPortfolioPerformanceFallbackNotCached(t *testing.T) {
	wh := newMockWarehouse()
	q := newMockQuote()
	svc, _ := newTestService(wh, q)

	holdings := []models.Holding{{Symbol: "GHOST", CostBasis: 10, Shares: 1}}
	ctx := context.Background()

	_, err := svc.GetPortfolioPerformance(ctx, holdings)
	require.NoError(t, err)
	assert.Equal(t, 1, wh.callCount("GHOST.US"))

	// Fallback facts were not cached, so the warehouse is retried.
	_, err = svc.GetPortfolioPerformance(ctx, holdings)
	require.NoError(t, err)
	assert.Equal(t, 2, wh.callCount("GHOST.US"))

	// Once coverage appears the next request succeeds and caches.
	row := aaplRow()
	row.Symbol = "GHOST.US"
	wh.rows["GHOST.US"] = row

	report, err := svc.GetPortfolioPerformance(ctx, holdings)
	require.NoError(t, err)
	assert.Equal(t, 3, wh.callCount("GHOST.US"))
	assert.Equal(t, "Apple Inc", report.Data[0].SecurityName)

	_, err = svc.GetPortfolioPerformance(ctx, holdings)
	require.NoError(t, err)
	assert.Equal(t, 3, wh.callCount("GHOST.US"))
}

func TestWarmCache(t *testing.T) {
	wh := newMockWarehouse()
	wh.rows["AAPL.US"] = aaplRow()
	wh.rows["MSFT.US"] = msftRow()

	q := newMockQuote()
	q.prices["AAPL"] = 175.50
	q.prices["MSFT"] = 310.00

	svc, _ := newTestService(wh, q)

	svc.WarmCache(context.Background(), []string{"AAPL", "msft.us", ""})
	assert.Equal(t, 1, wh.callCount("AAPL.US"))
	assert.Equal(t, 1, wh.callCount("MSFT.US"))

	// A subsequent aggregation hits only the quote provider.
	_, err := svc.GetPortfolioPerformance(context.Background(), []models.Holding{
		{Symbol: "AAPL", CostBasis: 150, Shares: 100},
		{Symbol: "MSFT", CostBasis: 300, Shares: 50},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, wh.callCount("AAPL.US"))
	assert.Equal(t, 1, wh.callCount("MSFT.US"))
	assert.Equal(t, 1, q.callCount("AAPL"))
	assert.Equal(t, 1, q.callCount("MSFT"))
}

func TestGetPortfolioPerformanceConcurrentRequests(t *testing.T) {
	wh := newMockWarehouse()
	wh.rows["AAPL.US"] = aaplRow()
	q := newMockQuote()
	q.prices["AAPL"] = 175.50

	svc, _ := newTestService(wh, q)

	holdings := []models.Holding{{Symbol: "AAPL", CostBasis: 150, Shares: 100}}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			report, err := svc.GetPortfolioPerformance(context.Background(), holdings)
			assert.NoError(t, err)
			assert.InDelta(t, 17550.00, report.TotalValue, 0.001)
		}()
	}
	wg.Wait()
}
