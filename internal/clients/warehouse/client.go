// Package warehouse provides a client for the analytical SQL warehouse
// holding the daily-metrics, daily-bars, and score tables.
package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"github.com/lib/pq"

	"github.com/jcnlabs/folio/internal/common"
	"github.com/jcnlabs/folio/internal/interfaces"
	"github.com/jcnlabs/folio/internal/models"
)

// Client implements the WarehouseClient interface over database/sql.
type Client struct {
	db      *sql.DB
	timeout time.Duration
	logger  *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout sets the per-query timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// buildDSN assembles the warehouse connection string. The token is the
// password component and is URL-escaped, never logged.
func buildDSN(cfg common.WarehouseConfig, token string) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, token),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   "/" + cfg.Database,
	}
	q := url.Values{}
	if cfg.SSLMode != "" {
		q.Set("sslmode", cfg.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// NewClient opens a connection pool to the warehouse. The pool is lazy: no
// network round-trip happens until the first query (or Ping).
func NewClient(cfg common.WarehouseConfig, token string, opts ...ClientOption) (*Client, error) {
	dsn := buildDSN(cfg, token)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open warehouse connection: %w", err)
	}

	// Serverless-style workload: few concurrent queries, short bursts.
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	c := &Client{
		db:      db,
		timeout: cfg.GetTimeout(),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// withTimeout bounds a query context with the client timeout.
func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

// GetDailyMetrics retrieves the most recent daily-metrics row for a symbol.
func (c *Client) GetDailyMetrics(ctx context.Context, symbol string) (*models.DailyMetricsRow, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	const query = `
		SELECT symbol, date, close, prev_close, year_start_price, year_ago_price,
		       high_252d, low_252d, name, sector, industry
		FROM daily_metrics
		WHERE symbol = $1
		ORDER BY date DESC
		LIMIT 1`

	var (
		row                                            models.DailyMetricsRow
		prevClose, yearStart, yearAgo, high252, low252 sql.NullFloat64
		name, sector, industry                         sql.NullString
	)

	err := c.db.QueryRowContext(ctx, query, symbol).Scan(
		&row.Symbol, &row.Date, &row.Close,
		&prevClose, &yearStart, &yearAgo, &high252, &low252,
		&name, &sector, &industry,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("daily metrics for %s: %w", symbol, interfaces.ErrNoData)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query daily metrics for %s: %w", symbol, err)
	}

	row.PrevClose = prevClose.Float64
	row.YearStartPrice = yearStart.Float64
	row.YearAgoPrice = yearAgo.Float64
	row.High52Week = high252.Float64
	row.Low52Week = low252.Float64
	row.Name = name.String
	row.Sector = sector.String
	row.Industry = industry.String

	c.logger.Debug().Str("symbol", symbol).Time("date", row.Date).Msg("Warehouse daily metrics fetched")

	return &row, nil
}

// GetLastTwoCloses retrieves the two most recent closes, latest first.
func (c *Client) GetLastTwoCloses(ctx context.Context, symbol string) (models.ClosePoint, models.ClosePoint, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	const query = `
		SELECT date, close
		FROM daily_bars
		WHERE symbol = $1
		ORDER BY date DESC
		LIMIT 2`

	rows, err := c.db.QueryContext(ctx, query, symbol)
	if err != nil {
		return models.ClosePoint{}, models.ClosePoint{}, fmt.Errorf("failed to query closes for %s: %w", symbol, err)
	}
	defer rows.Close()

	var points []models.ClosePoint
	for rows.Next() {
		var p models.ClosePoint
		if err := rows.Scan(&p.Date, &p.Close); err != nil {
			return models.ClosePoint{}, models.ClosePoint{}, fmt.Errorf("failed to scan close row: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return models.ClosePoint{}, models.ClosePoint{}, fmt.Errorf("close rows for %s: %w", symbol, err)
	}

	if len(points) < 2 {
		return models.ClosePoint{}, models.ClosePoint{}, fmt.Errorf("closes for %s: %w", symbol, interfaces.ErrNoData)
	}

	return points[0], points[1], nil
}

// GetDailyCloses retrieves the daily close series in ascending date order.
func (c *Client) GetDailyCloses(ctx context.Context, symbol string, from, to time.Time) ([]models.ClosePoint, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	const query = `
		SELECT date, close
		FROM daily_bars
		WHERE symbol = $1 AND date BETWEEN $2 AND $3
		ORDER BY date ASC`

	rows, err := c.db.QueryContext(ctx, query, symbol, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query close series for %s: %w", symbol, err)
	}
	defer rows.Close()

	var points []models.ClosePoint
	for rows.Next() {
		var p models.ClosePoint
		if err := rows.Scan(&p.Date, &p.Close); err != nil {
			return nil, fmt.Errorf("failed to scan close row: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// GetWeeklyOHLC retrieves weekly OHLC buckets in ascending week order.
func (c *Client) GetWeeklyOHLC(ctx context.Context, symbol string, from, to time.Time) ([]models.WeeklyBar, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	const query = `
		SELECT date_trunc('week', date)::date AS week_start,
		       (array_agg(open ORDER BY date ASC))[1]   AS open,
		       max(high)                                AS high,
		       min(low)                                 AS low,
		       (array_agg(close ORDER BY date DESC))[1] AS close
		FROM daily_bars
		WHERE symbol = $1 AND date BETWEEN $2 AND $3
		GROUP BY week_start
		ORDER BY week_start ASC`

	rows, err := c.db.QueryContext(ctx, query, symbol, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query weekly OHLC for %s: %w", symbol, err)
	}
	defer rows.Close()

	var bars []models.WeeklyBar
	for rows.Next() {
		var b models.WeeklyBar
		if err := rows.Scan(&b.WeekStart, &b.Open, &b.High, &b.Low, &b.Close); err != nil {
			return nil, fmt.Errorf("failed to scan weekly bar: %w", err)
		}
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

// GetLatestScores retrieves the latest fundamental score row per symbol.
func (c *Client) GetLatestScores(ctx context.Context, symbols []string) (map[string]models.ScoreRow, error) {
	if len(symbols) == 0 {
		return map[string]models.ScoreRow{}, nil
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	const query = `
		SELECT DISTINCT ON (symbol)
		       symbol, value_score, growth_score, fs_score, quality_score, momentum_score
		FROM fundamental_scores
		WHERE symbol = ANY($1)
		ORDER BY symbol, as_of_date DESC`

	rows, err := c.db.QueryContext(ctx, query, pq.Array(symbols))
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	defer rows.Close()

	result := make(map[string]models.ScoreRow, len(symbols))
	for rows.Next() {
		var (
			symbol                          string
			value, growth, fs, quality, mom sql.NullFloat64
		)
		if err := rows.Scan(&symbol, &value, &growth, &fs, &quality, &mom); err != nil {
			return nil, fmt.Errorf("failed to scan score row: %w", err)
		}
		key := models.NormalizeSymbol(symbol)
		result[key] = models.ScoreRow{
			Symbol:            key,
			Value:             nullableFloat(value),
			Growth:            nullableFloat(growth),
			FinancialStrength: nullableFloat(fs),
			Quality:           nullableFloat(quality),
			Momentum:          nullableFloat(mom),
		}
	}
	return result, rows.Err()
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

// Ping verifies warehouse connectivity.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return c.db.PingContext(ctx)
}

// Close releases the connection pool.
func (c *Client) Close() error {
	return c.db.Close()
}

// Ensure Client implements WarehouseClient
var _ interfaces.WarehouseClient = (*Client)(nil)
