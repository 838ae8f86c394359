// Package models defines data structures for Folio
package models

import (
	"strings"
	"time"
)

// WarehouseSuffix is appended to tickers when querying the analytical
// warehouse, whose symbol column stores the exchange-qualified form.
const WarehouseSuffix = ".US"

// NormalizeSymbol returns the canonical ticker form used throughout Folio:
// trimmed, upper-cased, without the warehouse exchange suffix.
func NormalizeSymbol(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	return strings.TrimSuffix(s, WarehouseSuffix)
}

// WarehouseSymbol returns the exchange-qualified ticker the warehouse expects
// (e.g. "AAPL.US").
func WarehouseSymbol(symbol string) string {
	return NormalizeSymbol(symbol) + WarehouseSuffix
}

// Holding is one portfolio line item as submitted by the dashboard.
type Holding struct {
	Symbol    string  `json:"symbol"`
	CostBasis float64 `json:"cost_basis"`
	Shares    int     `json:"shares"`
}

// PositionPerformance combines a holding with its historical facts and live
// price. Every numeric field is always populated — unavailable upstream data
// degrades to zero values, never to missing fields.
type PositionPerformance struct {
	Ticker           string  `json:"ticker"`
	SecurityName     string  `json:"security_name"`
	CostBasis        float64 `json:"cost_basis"`
	CurrentPrice     float64 `json:"current_price"`
	Shares           int     `json:"shares"`
	PortfolioValue   float64 `json:"portfolio_value"`
	PortfolioPct     float64 `json:"portfolio_pct"`
	DailyChangePct   float64 `json:"daily_change_pct"`
	YTDPct           float64 `json:"ytd_pct"`
	YoYPct           float64 `json:"yoy_pct"`
	PortfolioGainPct float64 `json:"portfolio_gain_pct"`
	PctBelow52wkHigh float64 `json:"pct_below_52wk_high"`
	ChannelRangePct  float64 `json:"channel_range_pct"`
	Week52High       float64 `json:"week_52_high"`
	Week52Low        float64 `json:"week_52_low"`
	Sector           string  `json:"sector"`
	Industry         string  `json:"industry"`
}

// PerformanceReport is the full aggregation result for one holdings list.
// Data order always matches the submitted holdings order.
type PerformanceReport struct {
	Data        []PositionPerformance `json:"data"`
	TotalValue  float64               `json:"total_value"`
	LastUpdated time.Time             `json:"last_updated"`
	Source      string                `json:"source"` // "cache" when fully cache-served, else "live"
}

// Report sources
const (
	SourceCache = "cache"
	SourceLive  = "live"
)

// AllocationItem is a single slice of an allocation pie chart.
type AllocationItem struct {
	Name   string  `json:"name"`
	Ticker string  `json:"ticker,omitempty"`
	Value  float64 `json:"value"` // percent of portfolio market value
}

// AllocationReport holds the four pie datasets the dashboard renders.
type AllocationReport struct {
	Company     []AllocationItem `json:"company"`
	Category    []AllocationItem `json:"category"`
	Sector      []AllocationItem `json:"sector"`
	Industry    []AllocationItem `json:"industry"`
	LastUpdated time.Time        `json:"last_updated"`
}

// BenchmarkReport compares the portfolio's estimated daily move against the
// benchmark index proxy.
type BenchmarkReport struct {
	PortfolioDailyChangePct float64   `json:"portfolio_daily_change_pct"`
	BenchmarkDailyChangePct float64   `json:"benchmark_daily_change_pct"`
	DailyAlphaPct           float64   `json:"daily_alpha_pct"`
	BenchmarkSymbol         string    `json:"benchmark_symbol"`
	BenchmarkDate           string    `json:"benchmark_date"` // trading date of the latest benchmark close
	LastUpdated             time.Time `json:"last_updated"`
}

// ScoreRow is the latest fundamental score set for one symbol. Nil pointers
// mean the symbol has no row in the corresponding scores table — unlike
// performance metrics, scores are rendered as blanks rather than zeros.
type ScoreRow struct {
	Symbol            string   `json:"symbol"`
	Value             *float64 `json:"value"`
	Growth            *float64 `json:"growth"`
	FinancialStrength *float64 `json:"financial_strength"`
	Quality           *float64 `json:"quality"`
	Momentum          *float64 `json:"momentum"`
}

// FundamentalsReport lists score rows in submitted symbol order.
type FundamentalsReport struct {
	Data         []ScoreRow `json:"data"`
	ScoreColumns []string   `json:"score_columns"`
	LastUpdated  time.Time  `json:"last_updated"`
}
