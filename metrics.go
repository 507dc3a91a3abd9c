package portfolio

import (
	"fmt"
	"slices"
	"strings"
)

// Metrics is a per-security, per-date snapshot of holdings, cost basis and
// performance. One record is produced for every date carrying a price
// observation or a transaction, so a series replays the complete daily
// history of a security.
type Metrics struct {
	Date     Date   `json:"date"`
	Security string `json:"security"`

	ClosePrice Money `json:"close_price"`
	PriceKnown bool  `json:"price_known"` // false while no price observation exists yet

	DRPFlag    bool   `json:"drp_flag"`    // true when a reinvestment happened on this date
	SplitRatio string `json:"split_ratio"` // ratio applied on this date ("2:1"), empty otherwise

	CumulativeSplitRatio Quantity `json:"cumulative_split_ratio"`

	TransactionType          string   `json:"transaction_type,omitempty"` // commands applied on this date
	TransactionQuantityDelta Quantity `json:"transaction_quantity_delta"` // net share change caused by this date's transactions

	TotalBoughtQuantity    Quantity `json:"total_bought_quantity"`
	TotalSoldQuantity      Quantity `json:"total_sold_quantity"`
	NetTransactionQuantity Quantity `json:"net_transaction_quantity"`
	TotalSharesOwned       Quantity `json:"total_shares_owned"`

	WeightedAvgPurchasePrice Money `json:"weighted_avg_purchase_price"`
	WeightedAvgSalePrice     Money `json:"weighted_avg_sale_price"`
	CumulativeBuyValue       Money `json:"cumulative_buy_value"`
	CumulativeSellValue      Money `json:"cumulative_sell_value"`
	ContributedCapital       Money `json:"contributed_capital"` // cash paid in from outside, reinvestments excluded

	CostBasis Money `json:"cost_basis"`

	CashDividend      Money    `json:"cash_dividend"`
	TotalCashDividend Money    `json:"total_cash_dividend"`
	DRPShare          Quantity `json:"drp_share"`
	TotalDRPShare     Quantity `json:"total_drp_share"`

	MarketValue Money `json:"market_value"`

	DailyPL             Money    `json:"daily_pl"`
	DailyPLPct          *Percent `json:"daily_pl_pct"`
	RealisedPL          Money    `json:"realised_pl"`
	UnrealisedPL        Money    `json:"unrealised_pl"`
	TotalReturn         Money    `json:"total_return"`
	TotalReturnPct      *Percent `json:"total_return_pct"`
	CumulativeReturnPct *Percent `json:"cumulative_return_pct"`
}

// pct returns a Percent pointer for a defined percentage value. Undefined
// percentages (zero denominators) stay nil and marshal to JSON null.
func pct(f float64) *Percent {
	p := Percent(f)
	return &p
}

// SecuritySeries replays one security's transactions against its price
// history and returns one Metrics record per date, in chronological order.
// The series covers the union of transaction dates and price observation
// dates, from the first transaction onwards.
//
// When the replay fails mid-history (an oversell, an invalid split), the
// records computed so far are returned together with the error.
func SecuritySeries(ledger *Ledger, market *Market, security string, method MatchingMethod) ([]Metrics, error) {
	// Group the security's transactions by date.
	byDate := make(map[Date][]Transaction)
	var days []Date
	for tx := range ledger.SecurityTransactions(security, NewDate(9999, 12, 31)) {
		d := tx.When()
		if _, seen := byDate[d]; !seen {
			days = append(days, d)
		}
		byDate[d] = append(byDate[d], tx)
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("security %s has no transactions", security)
	}
	slices.SortFunc(days, Date.Compare)
	start := days[0]

	// Union with the price observation dates from the start of the history.
	if h := market.Get(security); h != nil {
		for day := range h.Dates() {
			if day.Before(start) {
				continue
			}
			if _, seen := byDate[day]; !seen {
				byDate[day] = nil
				days = append(days, day)
			}
		}
		slices.SortFunc(days, Date.Compare)
	}

	book := newSecurityBook(security, ledger.Currency(), method)
	series := make([]Metrics, 0, len(days))

	var prevMV Money
	var prevMVKnown bool
	var flowBuys, flowSells, flowDividends Money // cash flows since the last valuation
	compound := 1.0                              // running product of (1 + daily return)

	for _, day := range days {
		var (
			dayTypes    []string
			dayDividend Money
			dayDRPShare Quantity
			daySplit    string
			dayDelta    Quantity
			dayBuys     Money // cash purchases settled today, DRP excluded
			daySells    Money
			drpToday    bool
		)

		sharesBefore := book.Shares()
		for _, tx := range byDate[day] {
			if err := book.apply(tx); err != nil {
				return series, err
			}
			dayTypes = append(dayTypes, string(tx.What()))
			switch v := tx.(type) {
			case Buy:
				dayBuys = dayBuys.Add(v.Cost())
			case Sell:
				daySells = daySells.Add(v.Proceeds())
			case CashDividend:
				dayDividend = dayDividend.Add(v.Amount)
			case ReinvestDividend:
				dayDRPShare = dayDRPShare.Add(v.Shares())
				drpToday = true
			case Split:
				daySplit = fmt.Sprintf("%d:%d", v.Numerator, v.Denominator)
			}
		}
		dayDelta = book.Shares().Sub(sharesBefore)
		flowBuys = flowBuys.Add(dayBuys)
		flowSells = flowSells.Add(daySells)
		flowDividends = flowDividends.Add(dayDividend)

		shares := book.Shares()
		costBasis := book.CostBasis()

		close, priceKnown := market.PriceAsOf(security, day)
		var marketValue Money
		if priceKnown {
			marketValue = close.Mul(shares)
		} else {
			close = M(0, ledger.Currency())
			marketValue = M(0, ledger.Currency())
		}

		unrealised := M(0, ledger.Currency())
		if priceKnown {
			unrealised = marketValue.Sub(costBasis)
		}

		// Daily profit: change in market value corrected for the cash that
		// crossed the boundary since the last valuation. Sales and dividends
		// came out, purchases went in. A reinvested dividend is a dividend
		// immediately spent on shares, so it cancels out and appears in
		// neither term. Flows on unpriced days carry over to the next priced
		// day, so a purchase made before the first price observation is not
		// booked as a one-day profit.
		var dailyPL Money
		var dailyPLPct *Percent
		if priceKnown {
			dailyPL = marketValue.Sub(prevMV).Add(flowSells).Add(flowDividends).Sub(flowBuys)
			flowBuys, flowSells, flowDividends = Money{}, Money{}, Money{}
			if prevMVKnown && prevMV.IsPositive() {
				ret := dailyPL.AsFloat() / prevMV.AsFloat()
				dailyPLPct = pct(ret * 100)
				compound *= 1 + ret
			}
			prevMV = marketValue
			prevMVKnown = true
		}

		totalReturn := book.realized.Add(unrealised).Add(book.cashDividends)
		var totalReturnPct *Percent
		if book.invested.IsPositive() {
			totalReturnPct = pct(totalReturn.AsFloat() / book.invested.AsFloat() * 100)
		}
		var cumulativeReturnPct *Percent
		if prevMVKnown {
			cumulativeReturnPct = pct((compound - 1) * 100)
		}

		// Average cost of the open position: cost basis over shares owned, so
		// a split rescales it and a sell removes the matched lots' share.
		wap := book.WeightedAvgCost()
		was := M(0, ledger.Currency())
		if book.totalSold.IsPositive() {
			was = book.sellValue.Div(book.totalSold)
		}

		series = append(series, Metrics{
			Date:                     day,
			Security:                 security,
			ClosePrice:               close,
			PriceKnown:               priceKnown,
			DRPFlag:                  drpToday,
			SplitRatio:               daySplit,
			CumulativeSplitRatio:     book.CumulativeSplitRatio(),
			TransactionType:          strings.Join(dayTypes, ","),
			TransactionQuantityDelta: dayDelta,
			TotalBoughtQuantity:      book.totalBought,
			TotalSoldQuantity:        book.totalSold,
			NetTransactionQuantity:   book.NetShares(),
			TotalSharesOwned:         shares,
			WeightedAvgPurchasePrice: wap,
			WeightedAvgSalePrice:     was,
			CumulativeBuyValue:       book.buyValue,
			CumulativeSellValue:      book.sellValue,
			ContributedCapital:       book.invested,
			CostBasis:                costBasis,
			CashDividend:             dayDividend,
			TotalCashDividend:        book.cashDividends,
			DRPShare:                 dayDRPShare,
			TotalDRPShare:            book.drpShares,
			MarketValue:              marketValue,
			DailyPL:                  dailyPL,
			DailyPLPct:               dailyPLPct,
			RealisedPL:               book.realized,
			UnrealisedPL:             unrealised,
			TotalReturn:              totalReturn,
			TotalReturnPct:           totalReturnPct,
			CumulativeReturnPct:      cumulativeReturnPct,
		})
	}
	return series, nil
}

// Snapshot returns the last record of a security's series, the state of the
// holding today.
func Snapshot(ledger *Ledger, market *Market, security string, method MatchingMethod) (Metrics, error) {
	series, err := SecuritySeries(ledger, market, security, method)
	if err != nil {
		return Metrics{}, err
	}
	if len(series) == 0 {
		return Metrics{}, fmt.Errorf("security %s has no history", security)
	}
	return series[len(series)-1], nil
}
