package portfolio

import (
	"errors"
	"testing"
	"time"
)

// bhpFixture builds a small ledger and market: buy 100 @ 30, price moves to
// 33, a dividend, a sale of 40 @ 35.
func bhpFixture() (*Ledger, *Market) {
	ledger := NewLedger("AUD")
	ledger.Append(
		NewBuy(NewDate(2025, time.January, 10), "", "BHP", Q(100), AUD(30)),
		NewCashDividend(NewDate(2025, time.January, 14), "", "BHP", AUD(120)),
		NewSell(NewDate(2025, time.January, 16), "", "BHP", Q(40), AUD(35)),
	)
	market := NewMarket()
	market.Add("BHP", NewDate(2025, time.January, 10), AUD(30))
	market.Add("BHP", NewDate(2025, time.January, 13), AUD(33))
	market.Add("BHP", NewDate(2025, time.January, 16), AUD(35))
	return ledger, market
}

func TestSecuritySeries(t *testing.T) {
	ledger, market := bhpFixture()
	series, err := SecuritySeries(ledger, market, "BHP", FIFO)
	if err != nil {
		t.Fatalf("SecuritySeries() error = %v", err)
	}

	// 2025-01-10, 13, 14, 16.
	if len(series) != 4 {
		t.Fatalf("len(series) = %d, want 4", len(series))
	}

	day0 := series[0]
	if !day0.TotalSharesOwned.Equal(Q(100)) || !day0.CostBasis.Equal(AUD(3000)) {
		t.Errorf("day0 = %s shares, basis %s; want 100 shares, basis 3000", day0.TotalSharesOwned, day0.CostBasis)
	}
	if !day0.MarketValue.Equal(AUD(3000)) {
		t.Errorf("day0 MarketValue = %s, want 3000", day0.MarketValue)
	}

	day1 := series[1] // price 33, no transaction
	if want := AUD(300); !day1.DailyPL.Equal(want) {
		t.Errorf("day1 DailyPL = %s, want %s", day1.DailyPL, want)
	}
	if day1.DailyPLPct == nil || !day1.DailyPLPct.Equal(Percent(10)) {
		t.Errorf("day1 DailyPLPct = %v, want 10%%", day1.DailyPLPct)
	}
	if want := AUD(300); !day1.UnrealisedPL.Equal(want) {
		t.Errorf("day1 UnrealisedPL = %s, want %s", day1.UnrealisedPL, want)
	}

	day2 := series[2] // dividend day, price still 33
	if want := AUD(120); !day2.CashDividend.Equal(want) {
		t.Errorf("day2 CashDividend = %s, want %s", day2.CashDividend, want)
	}
	// Market value unchanged, the dividend is the day's whole profit.
	if want := AUD(120); !day2.DailyPL.Equal(want) {
		t.Errorf("day2 DailyPL = %s, want %s", day2.DailyPL, want)
	}

	day3 := series[3] // sell 40 @ 35
	if want := Q(60); !day3.TotalSharesOwned.Equal(want) {
		t.Errorf("day3 TotalSharesOwned = %s, want %s", day3.TotalSharesOwned, want)
	}
	// FIFO: cost removed 40*30=1200, proceeds 1400, realized 200.
	if want := AUD(200); !day3.RealisedPL.Equal(want) {
		t.Errorf("day3 RealisedPL = %s, want %s", day3.RealisedPL, want)
	}
	if want := AUD(1800); !day3.CostBasis.Equal(want) {
		t.Errorf("day3 CostBasis = %s, want %s", day3.CostBasis, want)
	}
	// MV 60*35=2100; unrealized 2100-1800=300.
	if want := AUD(300); !day3.UnrealisedPL.Equal(want) {
		t.Errorf("day3 UnrealisedPL = %s, want %s", day3.UnrealisedPL, want)
	}
	// total return = 200 + 300 + 120 dividends = 620 over 3000 invested.
	if want := AUD(620); !day3.TotalReturn.Equal(want) {
		t.Errorf("day3 TotalReturn = %s, want %s", day3.TotalReturn, want)
	}
	if day3.TotalReturnPct == nil || !day3.TotalReturnPct.Equal(Percent(620.0/3000*100)) {
		t.Errorf("day3 TotalReturnPct = %v, want %.4f", day3.TotalReturnPct, 620.0/3000*100)
	}
}

func TestSecuritySeries_SplitRescalesAvgPurchasePrice(t *testing.T) {
	// A 2-for-1 split doubles the shares and leaves the cost basis
	// untouched, so the average purchase price halves.
	ledger := NewLedger("AUD")
	ledger.Append(
		NewBuy(NewDate(2025, time.January, 10), "", "BHP", Q(100), AUD(10)),
		NewSplit(NewDate(2025, time.January, 20), "BHP", 2, 1),
	)
	market := NewMarket()
	market.Add("BHP", NewDate(2025, time.January, 10), AUD(10))
	market.Add("BHP", NewDate(2025, time.January, 20), AUD(5))

	series, err := SecuritySeries(ledger, market, "BHP", FIFO)
	if err != nil {
		t.Fatalf("SecuritySeries() error = %v", err)
	}

	before, after := series[0], series[len(series)-1]
	if want := AUD(10); !before.WeightedAvgPurchasePrice.Equal(want) {
		t.Errorf("WeightedAvgPurchasePrice before split = %s, want %s", before.WeightedAvgPurchasePrice, want)
	}
	if want := Q(200); !after.TotalSharesOwned.Equal(want) {
		t.Errorf("TotalSharesOwned after split = %s, want %s", after.TotalSharesOwned, want)
	}
	if want := AUD(1000); !after.CostBasis.Equal(want) {
		t.Errorf("CostBasis after split = %s, want %s", after.CostBasis, want)
	}
	if want := AUD(5); !after.WeightedAvgPurchasePrice.Equal(want) {
		t.Errorf("WeightedAvgPurchasePrice after split = %s, want %s", after.WeightedAvgPurchasePrice, want)
	}
	// The split moved no money: no profit, no loss.
	if want := AUD(0); !after.UnrealisedPL.Equal(want) {
		t.Errorf("UnrealisedPL after split = %s, want %s", after.UnrealisedPL, want)
	}
	if want := AUD(0); !after.DailyPL.Equal(want) {
		t.Errorf("DailyPL after split = %s, want %s", after.DailyPL, want)
	}
}

func TestSecuritySeries_SellRemovesMatchedLotsFromAvgPurchasePrice(t *testing.T) {
	// FIFO consumes the 100 @ 10 lot and 20 of the 50 @ 12 lot, leaving
	// 30 @ 12: the average purchase price is the open position's, 12.
	ledger := NewLedger("AUD")
	ledger.Append(
		NewBuy(NewDate(2024, time.January, 1), "", "BHP", Q(100), AUD(10)),
		NewBuy(NewDate(2024, time.January, 10), "", "BHP", Q(50), AUD(12)),
		NewSell(NewDate(2024, time.February, 1), "", "BHP", Q(120), AUD(15)),
	)
	market := NewMarket()
	market.Add("BHP", NewDate(2024, time.February, 1), AUD(15))

	series, err := SecuritySeries(ledger, market, "BHP", FIFO)
	if err != nil {
		t.Fatalf("SecuritySeries() error = %v", err)
	}
	last := series[len(series)-1]
	if want := AUD(360); !last.CostBasis.Equal(want) {
		t.Errorf("CostBasis = %s, want %s", last.CostBasis, want)
	}
	if want := AUD(12); !last.WeightedAvgPurchasePrice.Equal(want) {
		t.Errorf("WeightedAvgPurchasePrice = %s, want %s", last.WeightedAvgPurchasePrice, want)
	}
}

func TestSecuritySeries_FirstDayPctUndefined(t *testing.T) {
	ledger, market := bhpFixture()
	series, err := SecuritySeries(ledger, market, "BHP", FIFO)
	if err != nil {
		t.Fatalf("SecuritySeries() error = %v", err)
	}
	if series[0].DailyPLPct != nil {
		t.Errorf("day0 DailyPLPct = %v, want nil (no prior market value)", series[0].DailyPLPct)
	}
}

func TestSecuritySeries_NoPriceYet(t *testing.T) {
	ledger := NewLedger("AUD")
	ledger.Append(NewBuy(NewDate(2025, time.January, 10), "", "BHP", Q(100), AUD(30)))
	market := NewMarket() // no prices at all

	series, err := SecuritySeries(ledger, market, "BHP", FIFO)
	if err != nil {
		t.Fatalf("SecuritySeries() error = %v", err)
	}
	if len(series) != 1 {
		t.Fatalf("len(series) = %d, want 1", len(series))
	}
	m := series[0]
	if m.PriceKnown {
		t.Error("PriceKnown = true, want false")
	}
	if m.DailyPLPct != nil || m.CumulativeReturnPct != nil {
		t.Errorf("pct fields = %v, %v; want nil without a price", m.DailyPLPct, m.CumulativeReturnPct)
	}
	// Cost basis is still tracked without prices.
	if want := AUD(3000); !m.CostBasis.Equal(want) {
		t.Errorf("CostBasis = %s, want %s", m.CostBasis, want)
	}
}

func TestSecuritySeries_TransactionsBeforeFirstPrice(t *testing.T) {
	// The purchase settles before any price observation exists. Its cost
	// carries over to the first valuation, which is therefore not a profit.
	ledger := NewLedger("AUD")
	ledger.Append(NewBuy(NewDate(2025, time.January, 10), "", "BHP", Q(100), AUD(30)))
	market := NewMarket()
	market.Add("BHP", NewDate(2025, time.January, 13), AUD(30))
	market.Add("BHP", NewDate(2025, time.January, 16), AUD(33))

	series, err := SecuritySeries(ledger, market, "BHP", FIFO)
	if err != nil {
		t.Fatalf("SecuritySeries() error = %v", err)
	}
	if len(series) != 3 {
		t.Fatalf("len(series) = %d, want 3", len(series))
	}

	firstPriced := series[1] // 2025-01-13, flat at the purchase price
	if want := AUD(0); !firstPriced.DailyPL.Equal(want) {
		t.Errorf("first valuation DailyPL = %s, want %s", firstPriced.DailyPL, want)
	}
	if firstPriced.DailyPLPct != nil {
		t.Errorf("first valuation DailyPLPct = %v, want nil", firstPriced.DailyPLPct)
	}

	next := series[2] // 2025-01-16, price moved 30 -> 33
	if want := AUD(300); !next.DailyPL.Equal(want) {
		t.Errorf("DailyPL = %s, want %s", next.DailyPL, want)
	}
	if next.DailyPLPct == nil || !next.DailyPLPct.Equal(Percent(10)) {
		t.Errorf("DailyPLPct = %v, want 10%%", next.DailyPLPct)
	}
}

func TestSecuritySeries_ZeroBasisReturnUndefined(t *testing.T) {
	// A DRP-only holding has no contributed capital: return pct undefined.
	ledger := NewLedger("AUD")
	ledger.Append(NewReinvestDividend(NewDate(2025, time.January, 10), "", "BHP", AUD(100), AUD(10)))
	market := NewMarket()
	market.Add("BHP", NewDate(2025, time.January, 10), AUD(10))

	series, err := SecuritySeries(ledger, market, "BHP", FIFO)
	if err != nil {
		t.Fatalf("SecuritySeries() error = %v", err)
	}
	m := series[len(series)-1]
	if m.TotalReturnPct != nil {
		t.Errorf("TotalReturnPct = %v, want nil on zero contributed capital", m.TotalReturnPct)
	}
}

func TestSecuritySeries_OversellReturnsPartialSeries(t *testing.T) {
	ledger := NewLedger("AUD")
	// Append skips validation here, building a deliberately broken history.
	ledger.Append(
		NewBuy(NewDate(2025, time.January, 10), "", "BHP", Q(10), AUD(5)),
		NewSell(NewDate(2025, time.January, 20), "", "BHP", Q(20), AUD(6)),
	)
	market := NewMarket()
	market.Add("BHP", NewDate(2025, time.January, 10), AUD(5))

	series, err := SecuritySeries(ledger, market, "BHP", FIFO)

	var oversell *OversellError
	if !errors.As(err, &oversell) {
		t.Fatalf("SecuritySeries() error = %v, want *OversellError", err)
	}
	if len(series) != 1 {
		t.Errorf("len(series) = %d, want 1 record before the failure", len(series))
	}
}

func TestSecuritySeries_MethodChangesRealized(t *testing.T) {
	ledger := NewLedger("AUD")
	ledger.Append(
		NewBuy(NewDate(2024, time.January, 1), "", "BHP", Q(100), AUD(10)),
		NewBuy(NewDate(2024, time.January, 10), "", "BHP", Q(50), AUD(12)),
		NewSell(NewDate(2024, time.February, 1), "", "BHP", Q(120), AUD(15)),
	)
	market := NewMarket()
	market.Add("BHP", NewDate(2024, time.February, 1), AUD(15))

	want := map[MatchingMethod]Money{
		FIFO: AUD(560),
		LIFO: AUD(500),
		HIFO: AUD(500), // highest cost first consumes the 12s then 10s, same as LIFO here
	}
	for method, wantRealized := range want {
		series, err := SecuritySeries(ledger, market, "BHP", method)
		if err != nil {
			t.Fatalf("SecuritySeries(%s) error = %v", method, err)
		}
		got := series[len(series)-1].RealisedPL
		if !got.Equal(wantRealized) {
			t.Errorf("RealisedPL(%s) = %s, want %s", method, got, wantRealized)
		}
	}
}

func TestSnapshot(t *testing.T) {
	ledger, market := bhpFixture()
	snap, err := Snapshot(ledger, market, "BHP", FIFO)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if got, want := snap.Date, NewDate(2025, time.January, 16); got != want {
		t.Errorf("Date = %s, want %s", got, want)
	}
}
