package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSymbol(t *testing.T) {
	assert.Equal(t, "AAPL", NormalizeSymbol("aapl"))
	assert.Equal(t, "AAPL", NormalizeSymbol(" AAPL.US "))
	assert.Equal(t, "BRK-B", NormalizeSymbol("brk-b"))
	assert.Equal(t, "", NormalizeSymbol("  "))
}

func TestWarehouseSymbol(t *testing.T) {
	assert.Equal(t, "AAPL.US", WarehouseSymbol("aapl"))
	// Already-suffixed input is not doubled.
	assert.Equal(t, "AAPL.US", WarehouseSymbol("AAPL.US"))
}

func TestPercentChange(t *testing.T) {
	assert.InDelta(t, 17.0, PercentChange(175.50, 150.00), 0.0001)
	assert.InDelta(t, -10.0, PercentChange(90, 100), 0.0001)
	assert.Equal(t, 0.0, PercentChange(175.50, 0))
}

func TestFactsFromDailyRow(t *testing.T) {
	row := &DailyMetricsRow{
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

	facts := FactsFromDailyRow("AAPL", row)

	assert.Equal(t, "Apple Inc", facts.DisplayName)
	assert.Equal(t, 174.00, facts.Close)
	assert.InDelta(t, (174.0-170.0)/170.0*100, facts.DailyChangePct, 0.0001)
	assert.InDelta(t, 16.0, facts.YTDPct, 0.0001)
	assert.InDelta(t, (174.0-140.0)/140.0*100, facts.YoYPct, 0.0001)
	assert.InDelta(t, (190.0-174.0)/190.0*100, facts.PctBelow52wkHigh, 0.0001)
	assert.InDelta(t, (174.0-130.0)/(190.0-130.0)*100, facts.ChannelRangePct, 0.0001)
	assert.Equal(t, 190.00, facts.Week52High)
	assert.Equal(t, "Technology", facts.Sector)
}

func TestFactsFromDailyRowZeroDenominators(t *testing.T) {
	row := &DailyMetricsRow{
		Symbol: "NEWIPO.US",
		Close:  25.00,
		// No reference prices yet: every denominator is zero.
	}

	facts := FactsFromDailyRow("NEWIPO", row)

	assert.Equal(t, 25.00, facts.Close)
	assert.Equal(t, 0.0, facts.DailyChangePct)
	assert.Equal(t, 0.0, facts.YTDPct)
	assert.Equal(t, 0.0, facts.YoYPct)
	assert.Equal(t, 0.0, facts.PctBelow52wkHigh)
	assert.Equal(t, 0.0, facts.ChannelRangePct)
	// Missing names degrade to the symbol and "N/A" classification.
	assert.Equal(t, "NEWIPO", facts.DisplayName)
	assert.Equal(t, "N/A", facts.Sector)
}

func TestFactsFromDailyRowFlatChannel(t *testing.T) {
	row := &DailyMetricsRow{
		Symbol:     "FLAT.US",
		Close:      10.00,
		High52Week: 10.00,
		Low52Week:  10.00,
	}

	facts := FactsFromDailyRow("FLAT", row)

	// high == low: channel position is undefined and reported as zero.
	assert.Equal(t, 0.0, facts.ChannelRangePct)
	assert.Equal(t, 0.0, facts.PctBelow52wkHigh)
}

func TestFallbackFacts(t *testing.T) {
	facts := FallbackFacts("ghost.us")

	assert.Equal(t, "GHOST", facts.DisplayName)
	assert.Equal(t, 0.0, facts.Close)
	assert.Equal(t, "N/A", facts.Sector)
	assert.Equal(t, "N/A", facts.Industry)
}
