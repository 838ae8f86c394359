// Package yahoo provides the live quote client backed by the Yahoo Finance
// chart endpoint.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/jcnlabs/folio/internal/common"
	"github.com/jcnlabs/folio/internal/interfaces"
	"github.com/jcnlabs/folio/internal/models"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// Quote endpoints are unauthenticated but fussy about clients without a UA.
const userAgent = "Mozilla/5.0 (compatible; folio/1.0)"

// Client implements the QuoteClient interface for Yahoo Finance
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *common.Logger
}

// ClientOption is a functional option for configuring the client
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL (used for testing)
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithRateLimit sets the rate limit in requests per second
func WithRateLimit(rps int) ClientOption {
	return func(c *Client) {
		c.rateLimiter = rate.NewLimiter(rate.Limit(rps), rps)
	}
}

// NewClient creates a new Yahoo Finance quote client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(5), 5),
		logger:      common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an error response from the quote provider
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("yahoo API error (status %d): %s", e.StatusCode, e.Message)
}

// chartResponse mirrors the subset of the chart payload the client reads.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// GetLivePrice retrieves the latest traded price for a symbol. Returns
// interfaces.ErrNoData for unknown or delisted symbols.
func (c *Client) GetLivePrice(ctx context.Context, symbol string) (float64, error) {
	sym := models.NormalizeSymbol(symbol)

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	url := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d", c.baseURL, sym)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("quote request for %s failed: %w", sym, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return 0, fmt.Errorf("quote for %s: %w", sym, interfaces.ErrNoData)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, &APIError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	var payload chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("failed to decode quote response for %s: %w", sym, err)
	}

	if payload.Chart.Error != nil {
		c.logger.Debug().
			Str("symbol", sym).
			Str("code", payload.Chart.Error.Code).
			Msg("Quote provider returned error payload")
		return 0, fmt.Errorf("quote for %s: %w", sym, interfaces.ErrNoData)
	}

	if len(payload.Chart.Result) == 0 {
		return 0, fmt.Errorf("quote for %s: %w", sym, interfaces.ErrNoData)
	}

	price := payload.Chart.Result[0].Meta.RegularMarketPrice
	if price <= 0 {
		return 0, fmt.Errorf("quote for %s: %w", sym, interfaces.ErrNoData)
	}

	c.logger.Debug().Str("symbol", sym).Float64("price", price).Msg("Live quote fetched")

	return price, nil
}

// Ensure Client implements QuoteClient
var _ interfaces.QuoteClient = (*Client)(nil)
