package renderer

import (
	"fmt"
	"strings"

	portfolio "github.com/calw20/BNB-Portfolio-Manager"
)

// SummaryMarkdown renders the current state of every holding plus the
// portfolio aggregate.
func SummaryMarkdown(on portfolio.Date, method portfolio.MatchingMethod, results []portfolio.SecurityResult, total []portfolio.PortfolioMetrics) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Portfolio Summary on %s\n\n", on)
	fmt.Fprintf(&b, "Method: %s\n\n", method)

	fmt.Fprintln(&b, "| Security | Shares | Avg Cost | Cost Basis | Market Value | Dividends | Realized | Unrealized | Return % |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|---:|---:|")
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(&b, "| %s | error: %v | | | | | | | |\n", r.Security, r.Err)
			continue
		}
		if len(r.Series) == 0 {
			continue
		}
		m := r.Series[len(r.Series)-1]
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			r.Security,
			m.TotalSharesOwned,
			m.WeightedAvgPurchasePrice,
			m.CostBasis,
			m.MarketValue,
			m.TotalCashDividend,
			m.RealisedPL.SignedString(),
			m.UnrealisedPL.SignedString(),
			signedPct(m.TotalReturnPct),
		)
	}

	if len(total) > 0 {
		p := total[len(total)-1]
		fmt.Fprintf(&b, "| **Total** | | | **%s** | **%s** | **%s** | **%s** | **%s** | **%s** |\n",
			p.CostBasis,
			p.MarketValue,
			p.CashDividends,
			p.RealisedPL.SignedString(),
			p.UnrealisedPL.SignedString(),
			signedPct(p.TotalReturnPct),
		)
	}
	return b.String()
}
