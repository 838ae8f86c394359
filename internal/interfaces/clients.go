// Package interfaces defines service contracts for Folio
package interfaces

import (
	"context"
	"errors"
	"time"

	"github.com/jcnlabs/folio/internal/models"
)

// ErrNoData marks the legitimate "symbol not covered" outcome from either
// external collaborator. Callers treat it as a fallback case, not a failure.
var ErrNoData = errors.New("no data for symbol")

// WarehouseClient provides access to the analytical warehouse.
// All symbols are passed in the exchange-qualified form (models.WarehouseSymbol).
type WarehouseClient interface {
	// GetDailyMetrics retrieves the most recent daily-metrics row for a symbol.
	// Returns ErrNoData when the symbol has no rows.
	GetDailyMetrics(ctx context.Context, symbol string) (*models.DailyMetricsRow, error)

	// GetLastTwoCloses retrieves the two most recent closes for a symbol,
	// latest first. Returns ErrNoData when fewer than two rows exist.
	GetLastTwoCloses(ctx context.Context, symbol string) (latest, previous models.ClosePoint, err error)

	// GetDailyCloses retrieves the daily close series in ascending date order.
	GetDailyCloses(ctx context.Context, symbol string, from, to time.Time) ([]models.ClosePoint, error)

	// GetWeeklyOHLC retrieves weekly OHLC buckets in ascending week order.
	GetWeeklyOHLC(ctx context.Context, symbol string, from, to time.Time) ([]models.WeeklyBar, error)

	// GetLatestScores retrieves the latest fundamental score row per symbol.
	// Symbols absent from the result simply have no score rows.
	GetLatestScores(ctx context.Context, symbols []string) (map[string]models.ScoreRow, error)

	// Ping verifies connectivity.
	Ping(ctx context.Context) error

	// Close releases the connection pool.
	Close() error
}

// QuoteClient provides the latest traded price for a symbol in its natural
// (unsuffixed) form. Returns ErrNoData for delisted or unknown symbols.
type QuoteClient interface {
	GetLivePrice(ctx context.Context, symbol string) (float64, error)
}
