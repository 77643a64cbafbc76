package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/market-mcp/internal/alphavantage"
	"github.com/bobmcallan/market-mcp/internal/common"
)

// --- Helpers ---

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

// invocationLogger returns a logger tagged with a fresh correlation ID so a
// single tool invocation can be traced through the client and writers.
func invocationLogger(logger *common.Logger, tool string) *common.Logger {
	l := logger.WithCorrelationId(uuid.New().String())
	l.Debug().Str("tool", tool).Msg("Tool invocation")
	return l
}

// credentialError is the user-facing message for a missing API key.
func credentialError() *mcp.CallToolResult {
	return errorResult("Error: ALPHAVANTAGE_API_KEY environment variable is not set. Set it and retry.")
}

// toFloat coerces a decoded JSON value into a float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// --- Handlers ---

func handleGetVersion() server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := fmt.Sprintf("Market MCP Server\nVersion: %s\nStatus: OK", common.GetFullVersion())
		return textResult(result), nil
	}
}

func handleGetStockPrice(client *alphavantage.Client, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		symbol, err := request.RequireString("symbol")
		if err != nil || symbol == "" {
			return errorResult("Error: symbol parameter is required"), nil
		}

		log := invocationLogger(logger, "get_stock_price")

		quote, err := client.GlobalQuote(ctx, symbol)
		if err != nil {
			if errors.Is(err, alphavantage.ErrMissingAPIKey) {
				return credentialError(), nil
			}
			log.Error().Err(err).Str("symbol", symbol).Msg("Quote fetch failed")
			return errorResult(fmt.Sprintf("Error fetching price for %s: %v", symbol, err)), nil
		}

		return textResult(formatQuote(quote)), nil
	}
}

func handleGetStockNews(client *alphavantage.Client, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tickers, err := request.RequireString("tickers")
		if err != nil || tickers == "" {
			return errorResult("Error: tickers parameter is required"), nil
		}

		log := invocationLogger(logger, "get_stock_news")

		articles, err := client.NewsSentiment(ctx, tickers)
		if err != nil {
			if errors.Is(err, alphavantage.ErrMissingAPIKey) {
				return credentialError(), nil
			}
			log.Error().Err(err).Str("tickers", tickers).Msg("News fetch failed")
			return errorResult(fmt.Sprintf("Error fetching news for %s: %v", tickers, err)), nil
		}

		// An empty feed is a valid answer, not a failure
		if len(articles) == 0 {
			return textResult(fmt.Sprintf("No news articles found for %s.", tickers)), nil
		}

		return textResult(formatNews(tickers, articles)), nil
	}
}

func handleGetCompanyOverview(client *alphavantage.Client, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		symbol, err := request.RequireString("symbol")
		if err != nil || symbol == "" {
			return errorResult("Error: symbol parameter is required"), nil
		}

		log := invocationLogger(logger, "get_company_overview")

		overview, err := client.CompanyOverview(ctx, symbol)
		if err != nil {
			if errors.Is(err, alphavantage.ErrMissingAPIKey) {
				return credentialError(), nil
			}
			log.Error().Err(err).Str("symbol", symbol).Msg("Overview fetch failed")
			return errorResult(fmt.Sprintf("Error fetching overview for %s: %v", symbol, err)), nil
		}

		return textResult(formatOverview(overview)), nil
	}
}

func handleGetDividendHistory(client *alphavantage.Client, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		symbol, err := request.RequireString("symbol")
		if err != nil || symbol == "" {
			return errorResult("Error: symbol parameter is required"), nil
		}

		log := invocationLogger(logger, "get_dividend_history")

		dividends, err := client.DividendHistory(ctx, symbol)
		if err != nil {
			if errors.Is(err, alphavantage.ErrMissingAPIKey) {
				return credentialError(), nil
			}
			log.Error().Err(err).Str("symbol", symbol).Msg("Dividend fetch failed")
			return errorResult(fmt.Sprintf("Error fetching dividends for %s: %v", symbol, err)), nil
		}

		// No dividends is a valid answer, not a failure
		if len(dividends) == 0 {
			return textResult(fmt.Sprintf("No dividend history found for %s.", symbol)), nil
		}

		return textResult(formatDividends(symbol, dividends)), nil
	}
}

func handleGetIntraday(client *alphavantage.Client, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		symbol, err := request.RequireString("symbol")
		if err != nil || symbol == "" {
			return errorResult("Error: symbol parameter is required"), nil
		}

		log := invocationLogger(logger, "get_intraday")

		bars, err := client.Intraday(ctx, symbol, "5min")
		if err != nil {
			if errors.Is(err, alphavantage.ErrMissingAPIKey) {
				return credentialError(), nil
			}
			log.Error().Err(err).Str("symbol", symbol).Msg("Intraday fetch failed")
			return errorResult(fmt.Sprintf("Error fetching intraday data for %s: %v", symbol, err)), nil
		}

		return textResult(formatIntraday(symbol, bars)), nil
	}
}

func handleConvertCurrency(client *alphavantage.Client, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		amount, err := request.RequireFloat("amount")
		if err != nil {
			return errorResult("Error: amount parameter is required and must be a number"), nil
		}
		from, err := request.RequireString("from")
		if err != nil || from == "" {
			return errorResult("Error: from parameter is required"), nil
		}
		to, err := request.RequireString("to")
		if err != nil || to == "" {
			return errorResult("Error: to parameter is required"), nil
		}

		log := invocationLogger(logger, "convert_currency")

		exRate, err := client.ExchangeRate(ctx, from, to)
		if err != nil {
			if errors.Is(err, alphavantage.ErrMissingAPIKey) {
				return credentialError(), nil
			}
			log.Error().Err(err).Str("from", from).Str("to", to).Msg("Exchange rate fetch failed")
			return errorResult(fmt.Sprintf("Error fetching exchange rate %s/%s: %v", from, to, err)), nil
		}

		return textResult(formatConversion(amount, exRate)), nil
	}
}

// holdingValuation is one successfully priced line of a portfolio valuation.
type holdingValuation struct {
	Symbol string
	Shares float64
	Price  float64
	Value  float64
}

func handleCalculatePortfolioValue(client *alphavantage.Client, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		rawHoldings, ok := request.GetArguments()["holdings"].([]any)
		if !ok || len(rawHoldings) == 0 {
			return errorResult("Error: holdings parameter is required"), nil
		}

		log := invocationLogger(logger, "calculate_portfolio_value")

		// Skip-and-continue fold: a malformed holding, a failed fetch, or a
		// missing price drops that holding from both the lines and the total.
		// The running total stays unrounded; display rounding happens once in
		// the formatter. Fetches are sequential, one per holding.
		var valued []holdingValuation
		total := 0.0
		skipped := 0

		for _, raw := range rawHoldings {
			item, ok := raw.(map[string]any)
			if !ok {
				skipped++
				continue
			}
			symbol, _ := item["symbol"].(string)
			shares, sharesOK := toFloat(item["shares"])
			if symbol == "" || !sharesOK {
				skipped++
				continue
			}

			quote, err := client.GlobalQuote(ctx, symbol)
			if err != nil {
				// A missing credential fails every holding the same way;
				// surface it instead of valuing an empty portfolio.
				if errors.Is(err, alphavantage.ErrMissingAPIKey) {
					return credentialError(), nil
				}
				log.Warn().Err(err).Str("symbol", symbol).Msg("Holding skipped")
				skipped++
				continue
			}

			value := quote.Price * shares
			total += value
			valued = append(valued, holdingValuation{
				Symbol: symbol,
				Shares: shares,
				Price:  quote.Price,
				Value:  value,
			})
		}

		log.Debug().Int("valued", len(valued)).Int("skipped", skipped).Msg("Portfolio valuation complete")
		return textResult(formatPortfolioValuation(valued, total)), nil
	}
}
