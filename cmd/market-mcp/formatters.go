package main

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/market-mcp/internal/alphavantage"
	"github.com/bobmcallan/market-mcp/internal/common"
)

// maxItems bounds list output (news articles, dividends, intraday bars).
const maxItems = 3

// descriptionLimit bounds the company description length in characters.
const descriptionLimit = 300

// formatQuote formats a global quote as markdown
func formatQuote(q *alphavantage.Quote) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s\n\n", q.Symbol))
	sb.WriteString(fmt.Sprintf("**Price:** $%.2f\n", q.Price))
	sb.WriteString(fmt.Sprintf("**Change:** %s (%s)\n", common.FormatSignedMoney(q.Change), q.ChangePercent))
	if q.PreviousClose > 0 {
		sb.WriteString(fmt.Sprintf("**Previous Close:** $%.2f\n", q.PreviousClose))
	}
	if q.Volume > 0 {
		sb.WriteString(fmt.Sprintf("**Volume:** %d\n", q.Volume))
	}
	if q.LatestTradingDay != "" {
		sb.WriteString(fmt.Sprintf("**Latest Trading Day:** %s\n", q.LatestTradingDay))
	}

	return sb.String()
}

// formatNews formats a news feed as markdown, capped at maxItems articles
func formatNews(tickers string, articles []alphavantage.NewsArticle) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# News: %s\n\n", tickers))

	count := len(articles)
	if count > maxItems {
		count = maxItems
	}
	for i := 0; i < count; i++ {
		a := articles[i]
		sb.WriteString(fmt.Sprintf("%d. **%s**\n", i+1, a.Title))
		if a.Source != "" {
			sb.WriteString(fmt.Sprintf("   %s\n", a.Source))
		}
		sb.WriteString(fmt.Sprintf("   %s\n", a.URL))
	}

	return sb.String()
}

// formatOverview formats company fundamentals as markdown. The description
// is truncated to descriptionLimit characters.
func formatOverview(o *alphavantage.CompanyOverview) string {
	var sb strings.Builder

	if o.Symbol != "" {
		sb.WriteString(fmt.Sprintf("# %s (%s)\n\n", o.Name, o.Symbol))
	} else {
		sb.WriteString(fmt.Sprintf("# %s\n\n", o.Name))
	}
	sb.WriteString(fmt.Sprintf("**Sector:** %s\n", o.Sector))
	sb.WriteString(fmt.Sprintf("**Industry:** %s\n\n", o.Industry))
	sb.WriteString(common.Truncate(o.Description, descriptionLimit))
	sb.WriteString("\n")

	return sb.String()
}

// formatDividends formats dividend history as markdown, capped at maxItems
// most recent entries (provider order is newest first)
func formatDividends(symbol string, dividends []alphavantage.Dividend) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Dividend History: %s\n\n", symbol))

	count := len(dividends)
	if count > maxItems {
		count = maxItems
	}
	for i := 0; i < count; i++ {
		d := dividends[i]
		sb.WriteString(fmt.Sprintf("- %s: $%.2f\n", d.Date, d.AmountValue()))
	}

	return sb.String()
}

// formatIntraday formats intraday bars as markdown, capped at the maxItems
// most recent bars in provider-returned order
func formatIntraday(symbol string, bars []alphavantage.IntradayBar) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Intraday (5min): %s\n\n", symbol))

	count := len(bars)
	if count > maxItems {
		count = maxItems
	}
	for i := 0; i < count; i++ {
		b := bars[i]
		sb.WriteString(fmt.Sprintf("- %s: open $%.2f, close $%.2f\n", b.Timestamp, b.Open, b.Close))
	}

	return sb.String()
}

// formatConversion formats a currency conversion result as markdown
func formatConversion(amount float64, r *alphavantage.ExchangeRate) string {
	var sb strings.Builder

	converted := amount * r.Rate

	sb.WriteString("# Currency Conversion\n\n")
	sb.WriteString(fmt.Sprintf("**%.2f %s = %.2f %s**\n\n", amount, r.FromCode, converted, r.ToCode))
	sb.WriteString(fmt.Sprintf("**Rate:** %.4f\n", r.Rate))
	sb.WriteString(fmt.Sprintf("**Last Refreshed:** %s\n", r.LastRefreshed))

	return sb.String()
}

// formatPortfolioValuation formats per-holding valuation lines and the total.
// Values arrive unrounded; each money figure is rounded once here.
func formatPortfolioValuation(valued []holdingValuation, total float64) string {
	if len(valued) == 0 {
		return "No holdings could be valued."
	}

	var sb strings.Builder

	sb.WriteString("# Portfolio Valuation\n\n")
	for _, hv := range valued {
		sb.WriteString(fmt.Sprintf("- %s: %g shares @ %s = %s\n",
			hv.Symbol, hv.Shares, common.FormatMoney(hv.Price), common.FormatMoney(hv.Value)))
	}
	sb.WriteString(fmt.Sprintf("\n**Total:** %s\n", common.FormatMoney(total)))

	return sb.String()
}
