package alphavantage

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey is returned before any network activity when the client
// was constructed without an API key. Every call re-checks so that tool
// invocations fail individually rather than the process failing at startup.
var ErrMissingAPIKey = errors.New("alpha vantage API key not configured (set ALPHAVANTAGE_API_KEY)")

// APIError represents a failed upstream request (non-200 status or similar).
type APIError struct {
	StatusCode int
	Message    string
	Function   string
	Symbol     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("alpha vantage request failed: %s (status: %d, function: %s, symbol: %s)",
		e.Message, e.StatusCode, e.Function, e.Symbol)
}

// NoDataError indicates a well-formed response that lacks the expected data
// fields for the requested operation. Detail carries the provider's own
// explanation when one was supplied (rate-limit notes arrive this way, as a
// 200 response with no data).
type NoDataError struct {
	Function string
	Symbol   string
	Detail   string
}

func (e *NoDataError) Error() string {
	msg := fmt.Sprintf("no data found for %s (function: %s)", e.Symbol, e.Function)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// IsNoData reports whether err is a NoDataError.
func IsNoData(err error) bool {
	var nde *NoDataError
	return errors.As(err, &nde)
}
