package alphavantage

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// flexFloat64 handles JSON values that may be either a number or a string.
// Alpha Vantage serializes most numeric fields as strings.
type flexFloat64 float64

func (f *flexFloat64) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexFloat64(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" || s == "N/A" || s == "None" {
			*f = 0
			return nil
		}
		num, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat64(num)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into float64", string(data))
}

// providerStatus captures the out-of-band fields Alpha Vantage uses for
// errors and rate-limit notices on otherwise-200 responses.
type providerStatus struct {
	Note         string `json:"Note"`
	Information  string `json:"Information"`
	ErrorMessage string `json:"Error Message"`
}

// detail returns the first non-empty provider message, if any.
func (s providerStatus) detail() string {
	switch {
	case s.ErrorMessage != "":
		return s.ErrorMessage
	case s.Note != "":
		return s.Note
	case s.Information != "":
		return s.Information
	}
	return ""
}

// Quote is a real-time global quote for one symbol.
type Quote struct {
	Symbol           string
	Price            float64
	Change           float64
	ChangePercent    string
	PreviousClose    float64
	Volume           int64
	LatestTradingDay string
}

// globalQuoteEnvelope is the GLOBAL_QUOTE wire shape.
type globalQuoteEnvelope struct {
	providerStatus
	Quote globalQuoteJSON `json:"Global Quote"`
}

type globalQuoteJSON struct {
	Symbol           string      `json:"01. symbol"`
	Price            string      `json:"05. price"`
	Volume           flexFloat64 `json:"06. volume"`
	LatestTradingDay string      `json:"07. latest trading day"`
	PreviousClose    flexFloat64 `json:"08. previous close"`
	Change           flexFloat64 `json:"09. change"`
	ChangePercent    string      `json:"10. change percent"`
}

// NewsArticle is one entry in a NEWS_SENTIMENT feed.
type NewsArticle struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	TimePublished string `json:"time_published"`
	Source        string `json:"source"`
	Summary       string `json:"summary"`
}

type newsEnvelope struct {
	providerStatus
	Feed []NewsArticle `json:"feed"`
}

// CompanyOverview is the OVERVIEW response. An empty Name means no data.
type CompanyOverview struct {
	providerStatus
	Symbol      string `json:"Symbol"`
	Name        string `json:"Name"`
	Sector      string `json:"Sector"`
	Industry    string `json:"Industry"`
	Description string `json:"Description"`
	Exchange    string `json:"Exchange"`
	Currency    string `json:"Currency"`
}

// Dividend is one entry in a DIVIDEND_HISTORY response, newest first.
type Dividend struct {
	Date   string      `json:"date"`
	Amount flexFloat64 `json:"dividend"`
}

// AmountValue returns the dividend amount as a plain float64.
func (d Dividend) AmountValue() float64 {
	return float64(d.Amount)
}

type dividendEnvelope struct {
	providerStatus
	Historical []Dividend `json:"historical"`
}

// IntradayBar is one timestamped entry of a TIME_SERIES_INTRADAY response.
// Bars are kept in provider-returned order (newest first).
type IntradayBar struct {
	Timestamp string
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
}

type intradayBarJSON struct {
	Open   flexFloat64 `json:"1. open"`
	High   flexFloat64 `json:"2. high"`
	Low    flexFloat64 `json:"3. low"`
	Close  flexFloat64 `json:"4. close"`
	Volume flexFloat64 `json:"5. volume"`
}

// ExchangeRate is the CURRENCY_EXCHANGE_RATE response payload.
type ExchangeRate struct {
	FromCode      string
	FromName      string
	ToCode        string
	ToName        string
	Rate          float64
	LastRefreshed string
}

type exchangeRateEnvelope struct {
	providerStatus
	Rate exchangeRateJSON `json:"Realtime Currency Exchange Rate"`
}

type exchangeRateJSON struct {
	FromCode      string `json:"1. From_Currency Code"`
	FromName      string `json:"2. From_Currency Name"`
	ToCode        string `json:"3. To_Currency Code"`
	ToName        string `json:"4. To_Currency Name"`
	Rate          string `json:"5. Exchange Rate"`
	LastRefreshed string `json:"6. Last Refreshed"`
	TimeZone      string `json:"7. Time Zone"`
}
