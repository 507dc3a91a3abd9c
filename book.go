package portfolio

// securityBook replays one security's transactions in chronological order and
// maintains its open lots and running totals. It is the building block behind
// positions, cost basis, realized gains and the metrics series.
type securityBook struct {
	security string
	currency string
	method   MatchingMethod

	open lots
	seq  int  // next lot sequence number
	last Date // date of the last applied transaction

	realized      Money    // cumulative realized profit and loss
	cashDividends Money    // cumulative cash dividends received
	drpDividends  Money    // cumulative dividends taken as shares
	drpShares     Quantity // cumulative shares issued by reinvestments

	totalBought Quantity // cumulative shares bought (including DRP shares)
	totalSold   Quantity // cumulative shares sold
	buyValue    Money    // cumulative cost of purchases (including DRP)
	sellValue   Money    // cumulative proceeds of sales
	invested    Money    // capital paid in from outside (purchases only, DRP excluded)

	splitNum int64 // cumulative split ratio numerator
	splitDen int64 // cumulative split ratio denominator
}

func newSecurityBook(security, currency string, method MatchingMethod) *securityBook {
	return &securityBook{
		security: security,
		currency: currency,
		method:   method,
		splitNum: 1,
		splitDen: 1,
	}
}

// apply advances the book by one transaction. Transactions must be applied in
// chronological order; an out-of-order transaction is rejected.
func (b *securityBook) apply(tx Transaction) error {
	if tx.When().Before(b.last) {
		return &OutOfOrderError{Security: b.security, Date: tx.When(), Last: b.last}
	}
	b.last = tx.When()

	switch v := tx.(type) {
	case Buy:
		b.openLot(v.Date, v.Quantity, v.Cost(), originPurchase)
		b.invested = b.invested.Add(v.Cost())

	case Sell:
		available := b.open.totalQuantity()
		if available.LessThan(v.Quantity) {
			return &OversellError{Security: b.security, Date: v.Date, Requested: v.Quantity, Available: available}
		}
		costRemoved, _ := b.open.sell(v.Quantity, b.method)
		b.realized = b.realized.Add(v.Proceeds().Sub(costRemoved))
		b.totalSold = b.totalSold.Add(v.Quantity)
		b.sellValue = b.sellValue.Add(v.Proceeds())

	case CashDividend:
		b.cashDividends = b.cashDividends.Add(v.Amount)

	case ReinvestDividend:
		shares := v.Shares()
		b.openLot(v.Date, shares, v.Amount, originDRP)
		b.drpDividends = b.drpDividends.Add(v.Amount)
		b.drpShares = b.drpShares.Add(shares)

	case Split:
		if v.Numerator <= 0 || v.Denominator <= 0 {
			return &InvalidSplitRatioError{Security: b.security, Date: v.Date, Numerator: v.Numerator, Denominator: v.Denominator}
		}
		b.open.scale(v.Numerator, v.Denominator)
		b.splitNum *= v.Numerator
		b.splitDen *= v.Denominator
	}
	return nil
}

func (b *securityBook) openLot(day Date, quantity Quantity, cost Money, origin lotOrigin) {
	b.open = append(b.open, lot{Date: day, Quantity: quantity, Cost: cost, Origin: origin, seq: b.seq})
	b.seq++
	b.totalBought = b.totalBought.Add(quantity)
	b.buyValue = b.buyValue.Add(cost)
}

// Shares returns the current position.
func (b *securityBook) Shares() Quantity { return b.open.totalQuantity() }

// CostBasis returns the total cost of the open lots.
func (b *securityBook) CostBasis() Money { return b.open.totalCost() }

// WeightedAvgCost returns the average cost per share of the open lots, or
// zero when the position is empty.
func (b *securityBook) WeightedAvgCost() Money {
	shares := b.Shares()
	if shares.IsZero() {
		return M(0, b.currency)
	}
	return b.CostBasis().Div(shares)
}

// NetShares returns the shares bought minus the shares sold, ignoring splits.
func (b *securityBook) NetShares() Quantity { return b.totalBought.Sub(b.totalSold) }

// CumulativeSplitRatio returns the product of all split ratios applied so far.
func (b *securityBook) CumulativeSplitRatio() Quantity {
	return Q(b.splitNum).Div(Q(b.splitDen))
}
