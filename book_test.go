package portfolio

import (
	"errors"
	"testing"
	"time"
)

func TestSecurityBook_SplitInvariance(t *testing.T) {
	b := newSecurityBook("BHP", "AUD", FIFO)
	if err := b.apply(NewBuy(NewDate(2025, time.January, 10), "", "BHP", Q(100), AUD(30))); err != nil {
		t.Fatalf("apply(buy) error = %v", err)
	}

	basisBefore := b.CostBasis()
	wapBefore := b.WeightedAvgCost()

	if err := b.apply(NewSplit(NewDate(2025, time.February, 1), "BHP", 2, 1)); err != nil {
		t.Fatalf("apply(split) error = %v", err)
	}

	if want := Q(200); !b.Shares().Equal(want) {
		t.Errorf("Shares() = %s, want %s", b.Shares(), want)
	}
	if !b.CostBasis().Equal(basisBefore) {
		t.Errorf("CostBasis() = %s, want unchanged %s", b.CostBasis(), basisBefore)
	}
	if want := wapBefore.Div(Q(2)); !b.WeightedAvgCost().Equal(want) {
		t.Errorf("WeightedAvgCost() = %s, want %s", b.WeightedAvgCost(), want)
	}
	if want := Q(2); !b.CumulativeSplitRatio().Equal(want) {
		t.Errorf("CumulativeSplitRatio() = %s, want %s", b.CumulativeSplitRatio(), want)
	}
}

func TestSecurityBook_ReverseSplitFraction(t *testing.T) {
	b := newSecurityBook("BHP", "AUD", FIFO)
	if err := b.apply(NewBuy(NewDate(2025, time.January, 10), "", "BHP", Q(3), AUD(10))); err != nil {
		t.Fatalf("apply(buy) error = %v", err)
	}
	if err := b.apply(NewSplit(NewDate(2025, time.February, 1), "BHP", 1, 2)); err != nil {
		t.Fatalf("apply(split) error = %v", err)
	}

	// 3 shares halve to exactly 1.5; nothing is rounded.
	if want := Q(1.5); !b.Shares().Equal(want) {
		t.Errorf("Shares() = %s, want %s", b.Shares(), want)
	}
	if want := AUD(30); !b.CostBasis().Equal(want) {
		t.Errorf("CostBasis() = %s, want %s", b.CostBasis(), want)
	}
}

func TestSecurityBook_CumulativeSplitRatio(t *testing.T) {
	b := newSecurityBook("BHP", "AUD", FIFO)
	b.apply(NewBuy(NewDate(2025, time.January, 10), "", "BHP", Q(8), AUD(10)))
	b.apply(NewSplit(NewDate(2025, time.February, 1), "BHP", 2, 1))
	b.apply(NewSplit(NewDate(2025, time.March, 1), "BHP", 1, 4))

	if want := Q(0.5); !b.CumulativeSplitRatio().Equal(want) {
		t.Errorf("CumulativeSplitRatio() = %s, want %s", b.CumulativeSplitRatio(), want)
	}
	if want := Q(4); !b.Shares().Equal(want) {
		t.Errorf("Shares() = %s, want %s", b.Shares(), want)
	}
}

func TestSecurityBook_DRPOpensLot(t *testing.T) {
	b := newSecurityBook("BHP", "AUD", FIFO)
	b.apply(NewBuy(NewDate(2025, time.January, 10), "", "BHP", Q(100), AUD(10)))

	// 100 reinvested at 8 issues exactly 12.5 shares.
	if err := b.apply(NewReinvestDividend(NewDate(2025, time.February, 1), "", "BHP", AUD(100), AUD(8))); err != nil {
		t.Fatalf("apply(reinvest) error = %v", err)
	}

	if want := Q(112.5); !b.Shares().Equal(want) {
		t.Errorf("Shares() = %s, want %s", b.Shares(), want)
	}
	if want := AUD(1100); !b.CostBasis().Equal(want) {
		t.Errorf("CostBasis() = %s, want %s", b.CostBasis(), want)
	}
	if want := Q(12.5); !b.drpShares.Equal(want) {
		t.Errorf("drpShares = %s, want %s", b.drpShares, want)
	}
	// DRP shares are not contributed capital.
	if want := AUD(1000); !b.invested.Equal(want) {
		t.Errorf("invested = %s, want %s", b.invested, want)
	}
}

func TestSecurityBook_CashDividendLeavesBasisAlone(t *testing.T) {
	b := newSecurityBook("BHP", "AUD", FIFO)
	b.apply(NewBuy(NewDate(2025, time.January, 10), "", "BHP", Q(100), AUD(10)))
	b.apply(NewCashDividend(NewDate(2025, time.February, 1), "", "BHP", AUD(50)))

	if want := AUD(1000); !b.CostBasis().Equal(want) {
		t.Errorf("CostBasis() = %s, want %s", b.CostBasis(), want)
	}
	if want := AUD(50); !b.cashDividends.Equal(want) {
		t.Errorf("cashDividends = %s, want %s", b.cashDividends, want)
	}
	if !b.realized.IsZero() {
		t.Errorf("realized = %s, want 0", b.realized)
	}
}

func TestSecurityBook_Oversell(t *testing.T) {
	b := newSecurityBook("BHP", "AUD", FIFO)
	b.apply(NewBuy(NewDate(2025, time.January, 10), "", "BHP", Q(10), AUD(5)))

	err := b.apply(NewSell(NewDate(2025, time.February, 1), "", "BHP", Q(20), AUD(6)))

	var oversell *OversellError
	if !errors.As(err, &oversell) {
		t.Fatalf("apply(sell) error = %v, want *OversellError", err)
	}
	if !oversell.Available.Equal(Q(10)) || !oversell.Requested.Equal(Q(20)) {
		t.Errorf("OversellError = %+v, want available 10 requested 20", oversell)
	}
	// The position is untouched by the failed sale.
	if want := Q(10); !b.Shares().Equal(want) {
		t.Errorf("Shares() = %s, want %s", b.Shares(), want)
	}
}

func TestSecurityBook_OutOfOrder(t *testing.T) {
	b := newSecurityBook("BHP", "AUD", FIFO)
	b.apply(NewBuy(NewDate(2025, time.March, 1), "", "BHP", Q(10), AUD(5)))

	err := b.apply(NewBuy(NewDate(2025, time.January, 1), "", "BHP", Q(10), AUD(5)))

	var outOfOrder *OutOfOrderError
	if !errors.As(err, &outOfOrder) {
		t.Fatalf("apply(buy) error = %v, want *OutOfOrderError", err)
	}
}

func TestSecurityBook_InvalidSplitRatio(t *testing.T) {
	b := newSecurityBook("BHP", "AUD", FIFO)
	b.apply(NewBuy(NewDate(2025, time.January, 10), "", "BHP", Q(10), AUD(5)))

	err := b.apply(Split{
		secCmd:      secCmd{baseCmd: baseCmd{Command: CmdSplit, Date: NewDate(2025, time.February, 1)}, Security: "BHP"},
		Numerator:   0,
		Denominator: 1,
	})

	var invalid *InvalidSplitRatioError
	if !errors.As(err, &invalid) {
		t.Fatalf("apply(split) error = %v, want *InvalidSplitRatioError", err)
	}
}

func TestSecurityBook_SharesConservation(t *testing.T) {
	b := newSecurityBook("BHP", "AUD", HIFO)
	b.apply(NewBuy(NewDate(2025, time.January, 10), "", "BHP", Q(100), AUD(10)))
	b.apply(NewBuy(NewDate(2025, time.February, 10), "", "BHP", Q(50), AUD(12)))
	b.apply(NewReinvestDividend(NewDate(2025, time.March, 1), "", "BHP", AUD(60), AUD(12)))
	b.apply(NewSell(NewDate(2025, time.April, 1), "", "BHP", Q(80), AUD(15)))

	// Open lots plus sold shares must equal everything bought plus DRP issues.
	got := b.Shares().Add(b.totalSold)
	want := b.totalBought
	if !got.Equal(want) {
		t.Errorf("shares conservation: open+sold = %s, bought = %s", got, want)
	}
}

func TestSecurityBook_MethodInsensitiveWhenCostsEqual(t *testing.T) {
	for _, method := range Methods() {
		t.Run(method.String(), func(t *testing.T) {
			b := newSecurityBook("BHP", "AUD", method)
			b.apply(NewBuy(NewDate(2025, time.January, 10), "", "BHP", Q(100), AUD(10)))
			b.apply(NewBuy(NewDate(2025, time.February, 10), "", "BHP", Q(100), AUD(10)))
			if err := b.apply(NewSell(NewDate(2025, time.March, 1), "", "BHP", Q(150), AUD(12))); err != nil {
				t.Fatalf("apply(sell) error = %v", err)
			}

			// All lots share a unit cost of 10, so every method realizes the same.
			if want := AUD(300); !b.realized.Equal(want) {
				t.Errorf("realized = %s, want %s", b.realized, want)
			}
		})
	}
}
