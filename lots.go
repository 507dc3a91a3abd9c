package portfolio

import (
	"sort"
)

// lotOrigin records how a lot was opened.
type lotOrigin int

const (
	originPurchase lotOrigin = iota // opened by a buy
	originDRP                       // opened by a dividend reinvestment
)

// lot represents a single parcel of a security acquired on one date, used for
// cost basis calculations. Cost is the total cost of the lot, not the unit
// price, so that split adjustments preserve the invested amount exactly.
type lot struct {
	Date     Date
	Quantity Quantity
	Cost     Money // Total cost of the lot (quantity * price)
	Origin   lotOrigin
	seq      int // insertion order, breaks ties between same-day lots
}

// UnitCost returns the per-share cost of the lot.
func (l lot) UnitCost() Money {
	if l.Quantity.IsZero() {
		return M(0, l.Cost.Currency())
	}
	return l.Cost.Div(l.Quantity)
}

type lots []lot

// ordered returns the indices of the open lots in the order they should be
// consumed by a sale under the given matching method. FIFO consumes the
// oldest lot first, LIFO the newest, and HIFO the most expensive per share.
// Under HIFO, lots with an equal unit cost are consumed oldest first.
func (l lots) ordered(method MatchingMethod) []int {
	indices := make([]int, len(l))
	for i := range l {
		indices[i] = i
	}
	switch method {
	case LIFO:
		sort.SliceStable(indices, func(a, b int) bool {
			la, lb := l[indices[a]], l[indices[b]]
			if la.Date != lb.Date {
				return lb.Date.Before(la.Date)
			}
			return la.seq > lb.seq
		})
	case HIFO:
		sort.SliceStable(indices, func(a, b int) bool {
			la, lb := l[indices[a]], l[indices[b]]
			ca, cb := la.UnitCost(), lb.UnitCost()
			if !ca.Equal(cb) {
				return ca.GreaterThan(cb)
			}
			if la.Date != lb.Date {
				return la.Date.Before(lb.Date)
			}
			return la.seq < lb.seq
		})
	default: // FIFO: lots are kept in acquisition order already.
	}
	return indices
}

// sell consumes quantity shares from the open lots in the order selected by
// method. It returns the total cost removed from the lots and any quantity
// that could not be matched (zero unless the position is oversold).
// Partially consumed lots keep a cost proportional to their remaining shares.
func (l *lots) sell(quantity Quantity, method MatchingMethod) (costRemoved Money, unsold Quantity) {
	open := *l
	for _, i := range open.ordered(method) {
		if !quantity.IsPositive() {
			break
		}
		current := &open[i]
		if current.Quantity.GreaterThan(quantity) {
			// Partial sale from this lot
			costOfSoldPortion := current.Cost.Mul(quantity).Div(current.Quantity)
			current.Quantity = current.Quantity.Sub(quantity)
			current.Cost = current.Cost.Sub(costOfSoldPortion)
			costRemoved = costRemoved.Add(costOfSoldPortion)
			quantity = Q(0)
		} else {
			// Full sale of this lot
			costRemoved = costRemoved.Add(current.Cost)
			quantity = quantity.Sub(current.Quantity)
			current.Quantity = Q(0)
			current.Cost = M(0, current.Cost.Currency())
		}
	}

	// Drop exhausted lots, preserving acquisition order.
	remaining := open[:0]
	for _, currentLot := range open {
		if currentLot.Quantity.IsPositive() {
			remaining = append(remaining, currentLot)
		}
	}
	*l = remaining
	return costRemoved, quantity
}

// scale multiplies every open lot's quantity by num/den, as a stock split
// does. Lot costs are left untouched: a split changes the share count, never
// the invested amount.
func (l lots) scale(num, den int64) {
	ratio := Q(num).Div(Q(den))
	for i := range l {
		l[i].Quantity = l[i].Quantity.Mul(ratio)
	}
}

// totalQuantity returns the number of shares across all open lots.
func (l lots) totalQuantity() Quantity {
	var total Quantity
	for _, currentLot := range l {
		total = total.Add(currentLot.Quantity)
	}
	return total
}

// totalCost returns the cost basis of all open lots.
func (l lots) totalCost() Money {
	var total Money
	for _, currentLot := range l {
		total = total.Add(currentLot.Cost)
	}
	return total
}
