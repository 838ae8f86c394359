package models

import "time"

// DailyMetricsRow is the most recent row of the warehouse daily-metrics
// series for one symbol: latest close plus the pre-computed reference prices
// the dashboard metrics derive from.
type DailyMetricsRow struct {
	Symbol         string
	Date           time.Time
	Close          float64
	PrevClose      float64
	YearStartPrice float64
	YearAgoPrice   float64 // 252 trading bars prior
	High52Week     float64 // rolling 252-bar high
	Low52Week      float64 // rolling 252-bar low
	Name           string
	Sector         string
	Industry       string
}

// HistoricalFacts is the cache-scoped, price-independent view of a symbol's
// warehouse data. Percentage fields are computed against the row's own latest
// close so the 24h TTL stays sound regardless of intraday price movement.
type HistoricalFacts struct {
	DisplayName      string
	Close            float64 // latest end-of-day close; live-price fallback
	DailyChangePct   float64
	YTDPct           float64
	YoYPct           float64
	PctBelow52wkHigh float64
	ChannelRangePct  float64
	Week52High       float64
	Week52Low        float64
	Sector           string
	Industry         string
}

// FallbackFacts returns the zero-valued facts substituted when the warehouse
// has no data for a symbol. The symbol itself stands in for the display name.
func FallbackFacts(symbol string) HistoricalFacts {
	return HistoricalFacts{
		DisplayName: NormalizeSymbol(symbol),
		Sector:      "N/A",
		Industry:    "N/A",
	}
}

// PercentChange computes (current - base) / base * 100 with the convention
// that a zero base yields 0 rather than NaN or Inf.
func PercentChange(current, base float64) float64 {
	if base == 0 {
		return 0
	}
	return (current - base) / base * 100
}

// FactsFromDailyRow maps a warehouse row to cacheable historical facts.
// Missing inputs (zero values) always degrade to zero-valued percentages.
func FactsFromDailyRow(symbol string, row *DailyMetricsRow) HistoricalFacts {
	facts := FallbackFacts(symbol)
	if row == nil {
		return facts
	}

	if row.Name != "" {
		facts.DisplayName = row.Name
	}
	if row.Sector != "" {
		facts.Sector = row.Sector
	}
	if row.Industry != "" {
		facts.Industry = row.Industry
	}

	facts.Close = row.Close
	facts.Week52High = row.High52Week
	facts.Week52Low = row.Low52Week

	facts.DailyChangePct = PercentChange(row.Close, row.PrevClose)
	facts.YTDPct = PercentChange(row.Close, row.YearStartPrice)
	facts.YoYPct = PercentChange(row.Close, row.YearAgoPrice)

	if row.High52Week > 0 {
		facts.PctBelow52wkHigh = (row.High52Week - row.Close) / row.High52Week * 100
	}
	if row.High52Week > row.Low52Week {
		facts.ChannelRangePct = (row.Close - row.Low52Week) / (row.High52Week - row.Low52Week) * 100
	}

	return facts
}

// ClosePoint is a single dated close in a price series.
type ClosePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// WeeklyBar is one weekly OHLC bucket for the trends grid.
type WeeklyBar struct {
	WeekStart time.Time `json:"week_start"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
}

// HistoryReport maps symbols to their daily close series.
type HistoryReport struct {
	Data        map[string][]ClosePoint `json:"data"`
	StartDate   string                  `json:"start_date"`
	EndDate     string                  `json:"end_date"`
	Symbols     []string                `json:"symbols"`
	LastUpdated time.Time               `json:"last_updated"`
}

// TrendsReport maps symbols to their weekly OHLC series.
type TrendsReport struct {
	Data        map[string][]WeeklyBar `json:"data"`
	StartDate   string                 `json:"start_date"`
	EndDate     string                 `json:"end_date"`
	Symbols     []string               `json:"symbols"`
	LastUpdated time.Time              `json:"last_updated"`
}
