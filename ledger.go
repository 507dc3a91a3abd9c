package portfolio

import (
	"iter"
	"slices"
	"sort"
)

// Ledger is the central data structure of the application: an append-only,
// chronologically sorted record of all transactions. It is the single source
// of truth from which every position, cost basis and performance figure is
// replayed.
type Ledger struct {
	currency     string // reporting currency, used to fill transactions recorded without one
	transactions []Transaction
	tickers      map[string]bool // index of securities seen in the ledger
}

// NewLedger creates an empty ledger with the given reporting currency.
func NewLedger(currency string) *Ledger {
	return &Ledger{
		currency:     currency,
		transactions: make([]Transaction, 0),
		tickers:      make(map[string]bool),
	}
}

// Currency returns the ledger's reporting currency.
func (l *Ledger) Currency() string { return l.currency }

// SetCurrency sets the ledger's reporting currency once. A currency already
// set is never overwritten.
func (l *Ledger) SetCurrency(currency string) {
	if l.currency == "" {
		l.currency = currency
	}
}

// Validate checks a transaction against the current ledger state, applying
// quick fixes (missing date, missing currency, sell-all quantity) and
// returning the fixed transaction. The ledger itself is not modified.
func (l *Ledger) Validate(tx Transaction) (Transaction, error) {
	return tx.Validate(l)
}

// Append adds transactions to the ledger, maintaining chronological order.
func (l *Ledger) Append(txs ...Transaction) {
	for _, tx := range txs {
		l.transactions = append(l.transactions, tx)
		if ticker := tx.Ticker(); ticker != "" {
			l.tickers[ticker] = true
		}
		// Learn the reporting currency from the first priced transaction.
		if l.currency == "" {
			switch v := tx.(type) {
			case Buy:
				l.currency = v.Price.Currency()
			case Sell:
				l.currency = v.Price.Currency()
			case CashDividend:
				l.currency = v.Amount.Currency()
			case ReinvestDividend:
				l.currency = v.Amount.Currency()
			}
		}
	}
	l.stableSort()
}

// Transactions returns an iterator over all transactions in chronological
// order, optionally restricted by filters (a transaction is yielded when every
// filter accepts it).
func (l *Ledger) Transactions(filters ...func(Transaction) bool) iter.Seq2[int, Transaction] {
	// The returned iterator preserves the original order of transactions in the ledger.
	return func(yield func(int, Transaction) bool) {
	next:
		for i, tx := range l.transactions {
			for _, filter := range filters {
				if !filter(tx) {
					continue next
				}
			}
			if !yield(i, tx) {
				return
			}
		}
	}
}

// BySecurity returns a filter accepting transactions on the given ticker.
func BySecurity(ticker string) func(Transaction) bool {
	return func(tx Transaction) bool {
		return tx.Ticker() == ticker
	}
}

// Before returns a filter accepting transactions on or before the given date.
func Before(on Date) func(Transaction) bool {
	return func(tx Transaction) bool {
		return !tx.When().After(on)
	}
}

// SecurityTransactions returns an iterator over the transactions for a single
// security, on or before max, in chronological order.
func (l *Ledger) SecurityTransactions(ticker string, max Date) iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
		for _, tx := range l.Transactions(BySecurity(ticker), Before(max)) {
			if !yield(tx) {
				return
			}
		}
	}
}

// Securities returns an iterator over the tickers seen in the ledger, in
// lexical order.
func (l *Ledger) Securities() iter.Seq[string] {
	tickers := make([]string, 0, len(l.tickers))
	for ticker := range l.tickers {
		tickers = append(tickers, ticker)
	}
	slices.Sort(tickers)
	return slices.Values(tickers)
}

// Position computes the number of shares of a security held on a given date
// by replaying its transactions. Splits are applied to the running position.
func (l *Ledger) Position(ticker string, on Date) Quantity {
	var pos Quantity
	for tx := range l.SecurityTransactions(ticker, on) {
		switch v := tx.(type) {
		case Buy:
			pos = pos.Add(v.Quantity)
		case Sell:
			pos = pos.Sub(v.Quantity)
		case ReinvestDividend:
			pos = pos.Add(v.Shares())
		case Split:
			if v.Numerator > 0 && v.Denominator > 0 {
				pos = pos.Mul(Q(v.Numerator)).Div(Q(v.Denominator))
			}
		}
	}
	return pos
}

// stableSort sorts the ledger by transaction date. The sort is stable, meaning
// transactions on the same day maintain their original relative order.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.transactions, func(i, j int) bool {
		return l.transactions[i].When().Before(l.transactions[j].When())
	})
}

// OldestTransactionDate returns the date of the earliest transaction in the
// ledger, or the zero date if the ledger is empty.
func (l *Ledger) OldestTransactionDate() Date {
	if len(l.transactions) == 0 {
		return Date{}
	}
	return l.transactions[0].When()
}

// NewestTransactionDate returns the date of the latest transaction in the
// ledger, or the zero date if the ledger is empty.
func (l *Ledger) NewestTransactionDate() Date {
	if len(l.transactions) == 0 {
		return Date{}
	}
	return l.transactions[len(l.transactions)-1].When()
}
