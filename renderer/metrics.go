package renderer

import (
	"fmt"
	"strings"

	portfolio "github.com/calw20/BNB-Portfolio-Manager"
)

// MetricsMarkdown renders the daily metric series of one security.
func MetricsMarkdown(security string, method portfolio.MatchingMethod, series []portfolio.Metrics) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Daily Metrics for %s\n\n", security)
	fmt.Fprintf(&b, "Method: %s\n\n", method)

	fmt.Fprintln(&b, "| Date | Close | Shares | Cost Basis | Market Value | Daily P&L | Daily % | Realized | Unrealized | Return % |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|---:|---:|---:|")
	for _, m := range series {
		close := "n/a"
		if m.PriceKnown {
			close = m.ClosePrice.String()
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			m.Date,
			close,
			m.TotalSharesOwned,
			m.CostBasis,
			m.MarketValue,
			m.DailyPL.SignedString(),
			signedPct(m.DailyPLPct),
			m.RealisedPL.SignedString(),
			m.UnrealisedPL.SignedString(),
			signedPct(m.TotalReturnPct),
		)
	}
	return b.String()
}
