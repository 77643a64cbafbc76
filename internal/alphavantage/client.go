// Package alphavantage provides a client for the Alpha Vantage API
package alphavantage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/market-mcp/internal/common"
)

const (
	DefaultBaseURL   = "https://www.alphavantage.co"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second; free tier is far lower per minute
)

// Client performs Alpha Vantage query-API requests. Each operation issues a
// single GET against /query with a function code and returns a typed result;
// "field absent" is converted into a typed NoDataError in exactly one place
// per operation.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Alpha Vantage client. An empty apiKey is allowed;
// every request re-checks it and fails with ErrMissingAPIKey before any
// network call.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// get performs a rate-limited GET for one function code and returns the body.
func (c *Client) get(ctx context.Context, function string, params url.Values) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("function", function)
	params.Set("apikey", c.apiKey)

	reqURL := fmt.Sprintf("%s/query?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("function", function).Str("symbol", params.Get("symbol")).Msg("Alpha Vantage API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
			Function:   function,
			Symbol:     params.Get("symbol"),
		}
	}

	return body, nil
}

// GlobalQuote retrieves a real-time quote for one symbol.
// A response without a price field is a NoDataError.
func (c *Client) GlobalQuote(ctx context.Context, symbol string) (*Quote, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	body, err := c.get(ctx, "GLOBAL_QUOTE", params)
	if err != nil {
		return nil, err
	}

	var env globalQuoteEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to decode quote response: %w", err)
	}

	if env.Quote.Price == "" {
		return nil, &NoDataError{Function: "GLOBAL_QUOTE", Symbol: symbol, Detail: env.detail()}
	}

	price, err := strconv.ParseFloat(env.Quote.Price, 64)
	if err != nil {
		return nil, fmt.Errorf("unparseable price %q for %s: %w", env.Quote.Price, symbol, err)
	}

	return &Quote{
		Symbol:           env.Quote.Symbol,
		Price:            price,
		Change:           float64(env.Quote.Change),
		ChangePercent:    env.Quote.ChangePercent,
		PreviousClose:    float64(env.Quote.PreviousClose),
		Volume:           int64(env.Quote.Volume),
		LatestTradingDay: env.Quote.LatestTradingDay,
	}, nil
}

// NewsSentiment retrieves the news feed for a ticker list. An empty feed is
// a valid outcome, returned as an empty slice with no error.
func (c *Client) NewsSentiment(ctx context.Context, tickers string) ([]NewsArticle, error) {
	params := url.Values{}
	params.Set("tickers", tickers)

	body, err := c.get(ctx, "NEWS_SENTIMENT", params)
	if err != nil {
		return nil, err
	}

	var env newsEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to decode news response: %w", err)
	}

	return env.Feed, nil
}

// CompanyOverview retrieves company fundamentals for one symbol.
// A response without a Name is a NoDataError.
func (c *Client) CompanyOverview(ctx context.Context, symbol string) (*CompanyOverview, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	body, err := c.get(ctx, "OVERVIEW", params)
	if err != nil {
		return nil, err
	}

	var overview CompanyOverview
	if err := json.Unmarshal(body, &overview); err != nil {
		return nil, fmt.Errorf("failed to decode overview response: %w", err)
	}

	if overview.Name == "" {
		return nil, &NoDataError{Function: "OVERVIEW", Symbol: symbol, Detail: overview.detail()}
	}

	return &overview, nil
}

// DividendHistory retrieves dividend payments for one symbol, newest first.
// An empty history is a valid outcome, returned as an empty slice.
func (c *Client) DividendHistory(ctx context.Context, symbol string) ([]Dividend, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	body, err := c.get(ctx, "DIVIDEND_HISTORY", params)
	if err != nil {
		return nil, err
	}

	var env dividendEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to decode dividend response: %w", err)
	}

	return env.Historical, nil
}

// Intraday retrieves the intraday time series for one symbol at the given
// interval (e.g. "5min"). Bars are returned in provider order, which Alpha
// Vantage emits newest first. A missing series mapping is a NoDataError.
func (c *Client) Intraday(ctx context.Context, symbol, interval string) ([]IntradayBar, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("interval", interval)

	body, err := c.get(ctx, "TIME_SERIES_INTRADAY", params)
	if err != nil {
		return nil, err
	}

	bars, found, err := parseIntradaySeries(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode intraday response: %w", err)
	}
	if !found {
		var status providerStatus
		_ = json.Unmarshal(body, &status)
		return nil, &NoDataError{Function: "TIME_SERIES_INTRADAY", Symbol: symbol, Detail: status.detail()}
	}

	return bars, nil
}

// parseIntradaySeries walks the response token stream so that the series
// object's key order — the provider's ordering — survives decoding; a plain
// map would scramble it.
func parseIntradaySeries(body []byte) ([]IntradayBar, bool, error) {
	dec := json.NewDecoder(bytes.NewReader(body))

	tok, err := dec.Token()
	if err != nil {
		return nil, false, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, false, fmt.Errorf("expected JSON object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, false, err
		}
		key, _ := keyTok.(string)

		if !strings.HasPrefix(key, "Time Series") {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, false, err
			}
			continue
		}

		tok, err := dec.Token()
		if err != nil {
			return nil, false, err
		}
		if delim, ok := tok.(json.Delim); !ok || delim != '{' {
			return nil, false, fmt.Errorf("expected series object, got %v", tok)
		}

		var bars []IntradayBar
		for dec.More() {
			tsTok, err := dec.Token()
			if err != nil {
				return nil, false, err
			}
			ts, _ := tsTok.(string)

			var raw intradayBarJSON
			if err := dec.Decode(&raw); err != nil {
				return nil, false, err
			}
			bars = append(bars, IntradayBar{
				Timestamp: ts,
				Open:      float64(raw.Open),
				High:      float64(raw.High),
				Low:       float64(raw.Low),
				Close:     float64(raw.Close),
				Volume:    int64(raw.Volume),
			})
		}
		if _, err := dec.Token(); err != nil { // closing brace
			return nil, false, err
		}
		return bars, true, nil
	}

	return nil, false, nil
}

// ExchangeRate retrieves the realtime exchange rate between two currencies.
// A missing rate object is a NoDataError.
func (c *Client) ExchangeRate(ctx context.Context, from, to string) (*ExchangeRate, error) {
	params := url.Values{}
	params.Set("from_currency", from)
	params.Set("to_currency", to)

	body, err := c.get(ctx, "CURRENCY_EXCHANGE_RATE", params)
	if err != nil {
		return nil, err
	}

	var env exchangeRateEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to decode exchange rate response: %w", err)
	}

	if env.Rate.Rate == "" {
		return nil, &NoDataError{
			Function: "CURRENCY_EXCHANGE_RATE",
			Symbol:   fmt.Sprintf("%s/%s", from, to),
			Detail:   env.detail(),
		}
	}

	rateVal, err := strconv.ParseFloat(env.Rate.Rate, 64)
	if err != nil {
		return nil, fmt.Errorf("unparseable exchange rate %q: %w", env.Rate.Rate, err)
	}

	return &ExchangeRate{
		FromCode:      env.Rate.FromCode,
		FromName:      env.Rate.FromName,
		ToCode:        env.Rate.ToCode,
		ToName:        env.Rate.ToName,
		Rate:          rateVal,
		LastRefreshed: env.Rate.LastRefreshed,
	}, nil
}
