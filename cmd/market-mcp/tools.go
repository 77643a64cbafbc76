package main

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/market-mcp/internal/alphavantage"
	"github.com/bobmcallan/market-mcp/internal/common"
)

// registerTools registers all MCP tools on the server, wiring each to a
// handler that queries Alpha Vantage directly.
func registerTools(s *server.MCPServer, client *alphavantage.Client, logger *common.Logger) {
	s.AddTool(createGetVersionTool(), handleGetVersion())
	s.AddTool(createGetStockPriceTool(), handleGetStockPrice(client, logger))
	s.AddTool(createGetStockNewsTool(), handleGetStockNews(client, logger))
	s.AddTool(createGetCompanyOverviewTool(), handleGetCompanyOverview(client, logger))
	s.AddTool(createGetDividendHistoryTool(), handleGetDividendHistory(client, logger))
	s.AddTool(createGetIntradayTool(), handleGetIntraday(client, logger))
	s.AddTool(createConvertCurrencyTool(), handleConvertCurrency(client, logger))
	s.AddTool(createCalculatePortfolioValueTool(), handleCalculatePortfolioValue(client, logger))
}

// --- Tool definitions ---

func createGetVersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get the Market MCP server version and status. Use this to verify connectivity."),
	)
}

func createGetStockPriceTool() mcp.Tool {
	return mcp.NewTool("get_stock_price",
		mcp.WithDescription("Get the current price, change, and change percentage for a stock symbol."),
		mcp.WithString("symbol", mcp.Required(), mcp.Description("Stock ticker symbol (e.g., 'AAPL', 'MSFT')")),
	)
}

func createGetStockNewsTool() mcp.Tool {
	return mcp.NewTool("get_stock_news",
		mcp.WithDescription("Get recent news headlines for one or more tickers. Returns up to 3 articles with titles and links."),
		mcp.WithString("tickers", mcp.Required(), mcp.Description("Comma-separated ticker symbols (e.g., 'AAPL' or 'AAPL,MSFT')")),
	)
}

func createGetCompanyOverviewTool() mcp.Tool {
	return mcp.NewTool("get_company_overview",
		mcp.WithDescription("Get company fundamentals: name, sector, industry, and a short business description."),
		mcp.WithString("symbol", mcp.Required(), mcp.Description("Stock ticker symbol (e.g., 'AAPL')")),
	)
}

func createGetDividendHistoryTool() mcp.Tool {
	return mcp.NewTool("get_dividend_history",
		mcp.WithDescription("Get the most recent dividend payments for a stock. Returns up to 3 entries with dates and amounts."),
		mcp.WithString("symbol", mcp.Required(), mcp.Description("Stock ticker symbol (e.g., 'KO')")),
	)
}

func createGetIntradayTool() mcp.Tool {
	return mcp.NewTool("get_intraday",
		mcp.WithDescription("Get recent 5-minute intraday prices for a stock. Returns the 3 most recent bars with open and close."),
		mcp.WithString("symbol", mcp.Required(), mcp.Description("Stock ticker symbol (e.g., 'TSLA')")),
	)
}

func createConvertCurrencyTool() mcp.Tool {
	return mcp.NewTool("convert_currency",
		mcp.WithDescription("Convert an amount between two currencies using the realtime exchange rate."),
		mcp.WithNumber("amount", mcp.Required(), mcp.Description("Amount to convert (e.g., 100)")),
		mcp.WithString("from", mcp.Required(), mcp.Description("Source currency code (e.g., 'USD')")),
		mcp.WithString("to", mcp.Required(), mcp.Description("Target currency code (e.g., 'AUD')")),
	)
}

func createCalculatePortfolioValueTool() mcp.Tool {
	return mcp.NewTool("calculate_portfolio_value",
		mcp.WithDescription("Value a list of holdings at current market prices. Holdings that cannot be priced are skipped; the total covers the rest."),
		mcp.WithArray("holdings", mcp.Required(),
			mcp.Description("List of holdings, each with a symbol and share count"),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"symbol": map[string]any{"type": "string", "description": "Stock ticker symbol"},
					"shares": map[string]any{"type": "number", "description": "Number of shares held"},
				},
				"required": []string{"symbol", "shares"},
			}),
		),
	)
}
