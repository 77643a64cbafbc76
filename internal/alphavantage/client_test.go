package alphavantage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-key", WithBaseURL(srv.URL))
}

func TestGlobalQuote_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query", r.URL.Path)
		assert.Equal(t, "GLOBAL_QUOTE", r.URL.Query().Get("function"))
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))

		fmt.Fprint(w, `{
			"Global Quote": {
				"01. symbol": "AAPL",
				"05. price": "189.3000",
				"06. volume": "52164542",
				"07. latest trading day": "2026-08-24",
				"08. previous close": "188.1000",
				"09. change": "1.2000",
				"10. change percent": "0.6380%"
			}
		}`)
	})

	quote, err := client.GlobalQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", quote.Symbol)
	assert.InDelta(t, 189.30, quote.Price, 0.0001)
	assert.InDelta(t, 1.20, quote.Change, 0.0001)
	assert.Equal(t, "0.6380%", quote.ChangePercent)
	assert.Equal(t, int64(52164542), quote.Volume)
}

func TestGlobalQuote_NoData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Global Quote": {}}`)
	})

	_, err := client.GlobalQuote(context.Background(), "NOSUCH")
	require.Error(t, err)
	assert.True(t, IsNoData(err))

	var nde *NoDataError
	require.ErrorAs(t, err, &nde)
	assert.Equal(t, "NOSUCH", nde.Symbol)
	assert.Equal(t, "GLOBAL_QUOTE", nde.Function)
}

func TestGlobalQuote_RateLimitNoteSurfacesInError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Note": "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`)
	})

	_, err := client.GlobalQuote(context.Background(), "AAPL")
	require.Error(t, err)
	assert.True(t, IsNoData(err))
	assert.Contains(t, err.Error(), "rate limit")
}

func TestGlobalQuote_MissingAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should reach the server without an API key")
	}))
	defer srv.Close()

	client := NewClient("", WithBaseURL(srv.URL))
	_, err := client.GlobalQuote(context.Background(), "AAPL")
	assert.True(t, errors.Is(err, ErrMissingAPIKey))
}

func TestGlobalQuote_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	})

	_, err := client.GlobalQuote(context.Background(), "AAPL")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "GLOBAL_QUOTE", apiErr.Function)
	assert.Equal(t, "AAPL", apiErr.Symbol)
}

func TestNewsSentiment_EmptyFeedIsNotAnError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "NEWS_SENTIMENT", r.URL.Query().Get("function"))
		assert.Equal(t, "AAPL", r.URL.Query().Get("tickers"))
		fmt.Fprint(w, `{"items": "0", "feed": []}`)
	})

	articles, err := client.NewsSentiment(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestNewsSentiment_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"feed": [
			{"title": "Apple ships something", "url": "https://example.com/a", "source": "Example"},
			{"title": "Apple ships something else", "url": "https://example.com/b", "source": "Example"}
		]}`)
	})

	articles, err := client.NewsSentiment(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Equal(t, "Apple ships something", articles[0].Title)
	assert.Equal(t, "https://example.com/a", articles[0].URL)
}

func TestCompanyOverview_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "OVERVIEW", r.URL.Query().Get("function"))
		fmt.Fprint(w, `{
			"Symbol": "AAPL",
			"Name": "Apple Inc",
			"Sector": "TECHNOLOGY",
			"Industry": "ELECTRONIC COMPUTERS",
			"Description": "Apple Inc. designs and sells consumer electronics."
		}`)
	})

	overview, err := client.CompanyOverview(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc", overview.Name)
	assert.Equal(t, "TECHNOLOGY", overview.Sector)
	assert.Equal(t, "ELECTRONIC COMPUTERS", overview.Industry)
}

func TestCompanyOverview_NoData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	})

	_, err := client.CompanyOverview(context.Background(), "NOSUCH")
	require.Error(t, err)
	assert.True(t, IsNoData(err))
}

func TestDividendHistory_StringAmounts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "DIVIDEND_HISTORY", r.URL.Query().Get("function"))
		fmt.Fprint(w, `{"historical": [
			{"date": "2026-08-10", "dividend": "0.25"},
			{"date": "2026-05-10", "dividend": 0.24}
		]}`)
	})

	dividends, err := client.DividendHistory(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Len(t, dividends, 2)
	assert.Equal(t, "2026-08-10", dividends[0].Date)
	assert.InDelta(t, 0.25, dividends[0].AmountValue(), 0.0001)
	assert.InDelta(t, 0.24, dividends[1].AmountValue(), 0.0001)
}

func TestDividendHistory_Empty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"historical": []}`)
	})

	dividends, err := client.DividendHistory(context.Background(), "NEWCO")
	require.NoError(t, err)
	assert.Empty(t, dividends)
}

// intradayFixture returns a TIME_SERIES_INTRADAY body with n bars ordered
// newest first, the order Alpha Vantage emits.
func intradayFixture(n int) string {
	body := `{"Meta Data": {"2. Symbol": "TSLA", "4. Interval": "5min"}, "Time Series (5min)": {`
	for i := 0; i < n; i++ {
		if i > 0 {
			body += ","
		}
		minute := 55 - i*5
		body += fmt.Sprintf(`"2026-08-24 19:%02d:00": {"1. open": "%d.10", "2. high": "%d.50", "3. low": "%d.00", "4. close": "%d.30", "5. volume": "1000"}`,
			minute, 200+i, 200+i, 200+i, 200+i)
	}
	return body + `}}`
}

func TestIntraday_PreservesProviderOrder(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "TIME_SERIES_INTRADAY", r.URL.Query().Get("function"))
		assert.Equal(t, "5min", r.URL.Query().Get("interval"))
		fmt.Fprint(w, intradayFixture(10))
	})

	bars, err := client.Intraday(context.Background(), "TSLA", "5min")
	require.NoError(t, err)
	require.Len(t, bars, 10)

	// Provider order (newest first) must survive decoding
	assert.Equal(t, "2026-08-24 19:55:00", bars[0].Timestamp)
	assert.Equal(t, "2026-08-24 19:50:00", bars[1].Timestamp)
	assert.Equal(t, "2026-08-24 19:10:00", bars[9].Timestamp)
	assert.InDelta(t, 200.10, bars[0].Open, 0.0001)
	assert.InDelta(t, 200.30, bars[0].Close, 0.0001)
}

func TestIntraday_MissingSeries(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Error Message": "Invalid API call."}`)
	})

	_, err := client.Intraday(context.Background(), "NOSUCH", "5min")
	require.Error(t, err)
	assert.True(t, IsNoData(err))
	assert.Contains(t, err.Error(), "Invalid API call")
}

func TestExchangeRate_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "CURRENCY_EXCHANGE_RATE", r.URL.Query().Get("function"))
		assert.Equal(t, "USD", r.URL.Query().Get("from_currency"))
		assert.Equal(t, "AUD", r.URL.Query().Get("to_currency"))
		fmt.Fprint(w, `{
			"Realtime Currency Exchange Rate": {
				"1. From_Currency Code": "USD",
				"2. From_Currency Name": "United States Dollar",
				"3. To_Currency Code": "AUD",
				"4. To_Currency Name": "Australian Dollar",
				"5. Exchange Rate": "1.55210000",
				"6. Last Refreshed": "2026-08-24 22:00:01",
				"7. Time Zone": "UTC"
			}
		}`)
	})

	exRate, err := client.ExchangeRate(context.Background(), "USD", "AUD")
	require.NoError(t, err)
	assert.Equal(t, "USD", exRate.FromCode)
	assert.Equal(t, "AUD", exRate.ToCode)
	assert.InDelta(t, 1.5521, exRate.Rate, 0.0001)
	assert.Equal(t, "2026-08-24 22:00:01", exRate.LastRefreshed)
}

func TestExchangeRate_NoData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	})

	_, err := client.ExchangeRate(context.Background(), "XXX", "YYY")
	require.Error(t, err)
	assert.True(t, IsNoData(err))
}
