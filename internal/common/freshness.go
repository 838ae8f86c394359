// Package common provides shared utilities for Folio
package common

import "time"

// Freshness TTLs for cached upstream data
const (
	// FreshnessHistoricalFacts covers warehouse-derived facts. The upstream
	// tables refresh roughly once per trading day.
	FreshnessHistoricalFacts = 24 * time.Hour

	// FreshnessLivePrice balances dashboard freshness against quote-provider
	// rate limits.
	FreshnessLivePrice = 5 * time.Minute
)
