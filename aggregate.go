package portfolio

import (
	"slices"
	"sync"
)

// SecurityResult carries the outcome of one security's series computation.
// A failing security reports its error here instead of aborting the batch.
type SecurityResult struct {
	Security string
	Series   []Metrics
	Err      error
}

// ComputeAll computes the metric series of every security in the ledger, one
// goroutine per security. Results are returned in ticker order. Errors are
// isolated per security: a corrupt history yields a SecurityResult with Err
// set (and the partial series computed before the failure), never a panic or
// a dropped sibling.
func ComputeAll(ledger *Ledger, market *Market, method MatchingMethod) []SecurityResult {
	tickers := slices.Collect(ledger.Securities())
	results := make([]SecurityResult, len(tickers))

	var wg sync.WaitGroup
	for i, ticker := range tickers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			series, err := SecuritySeries(ledger, market, ticker, method)
			results[i] = SecurityResult{Security: ticker, Series: series, Err: err}
		}()
	}
	wg.Wait()
	return results
}

// PortfolioMetrics is a per-date snapshot aggregated across all securities.
type PortfolioMetrics struct {
	Date Date `json:"date"`

	MarketValue  Money `json:"market_value"`
	CostBasis    Money `json:"cost_basis"`
	RealisedPL   Money `json:"realised_pl"`
	UnrealisedPL Money `json:"unrealised_pl"`

	CashDividends Money `json:"total_cash_dividend"`
	BuyValue      Money `json:"cumulative_buy_value"`
	SellValue     Money `json:"cumulative_sell_value"`

	DailyPL        Money    `json:"daily_pl"`
	DailyPLPct     *Percent `json:"daily_pl_pct"`
	TotalReturn    Money    `json:"total_return"`
	TotalReturnPct *Percent `json:"total_return_pct"`
}

// PortfolioSeries reduces per-security series into one portfolio-level series
// over the union of their dates. Securities that failed to compute are
// skipped; the caller decides what to do with their errors.
//
// The portfolio return percentage is money-weighted: total return over the
// capital ever contributed, not a compounded daily product.
func PortfolioSeries(results []SecurityResult) []PortfolioMetrics {
	// Collect the union of dates across all successful series.
	seen := make(map[Date]bool)
	var days []Date
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		for _, m := range r.Series {
			if !seen[m.Date] {
				seen[m.Date] = true
				days = append(days, m.Date)
			}
		}
	}
	slices.SortFunc(days, Date.Compare)

	// One cursor per security, advanced as-of each portfolio date.
	type cursor struct {
		series []Metrics
		next   int
	}
	cursors := make([]*cursor, 0, len(results))
	var invested Money
	for _, r := range results {
		if r.Err != nil || len(r.Series) == 0 {
			continue
		}
		cursors = append(cursors, &cursor{series: r.Series})
	}

	out := make([]PortfolioMetrics, 0, len(days))
	var prevMV Money
	for di, day := range days {
		var p PortfolioMetrics
		p.Date = day
		invested = Money{}
		for _, c := range cursors {
			for c.next < len(c.series) && !c.series[c.next].Date.After(day) {
				c.next++
			}
			if c.next == 0 {
				continue // security's history starts later
			}
			m := c.series[c.next-1]
			p.MarketValue = p.MarketValue.Add(m.MarketValue)
			p.CostBasis = p.CostBasis.Add(m.CostBasis)
			p.RealisedPL = p.RealisedPL.Add(m.RealisedPL)
			p.UnrealisedPL = p.UnrealisedPL.Add(m.UnrealisedPL)
			p.CashDividends = p.CashDividends.Add(m.TotalCashDividend)
			p.BuyValue = p.BuyValue.Add(m.CumulativeBuyValue)
			p.SellValue = p.SellValue.Add(m.CumulativeSellValue)
			if m.Date == day {
				p.DailyPL = p.DailyPL.Add(m.DailyPL)
			}
			invested = invested.Add(m.ContributedCapital)
		}

		if di > 0 && prevMV.IsPositive() {
			p.DailyPLPct = pct(p.DailyPL.AsFloat() / prevMV.AsFloat() * 100)
		}
		prevMV = p.MarketValue

		p.TotalReturn = p.RealisedPL.Add(p.UnrealisedPL).Add(p.CashDividends)
		if invested.IsPositive() {
			p.TotalReturnPct = pct(p.TotalReturn.AsFloat() / invested.AsFloat() * 100)
		}
		out = append(out, p)
	}
	return out
}
