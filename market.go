package portfolio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"slices"
	"sort"

	"github.com/shopspring/decimal"
)

// Market holds daily closing prices for a set of securities. Prices are kept
// per security as a date-sorted history, so that valuations can ask for the
// latest price on or before any date.
type Market struct {
	histories map[string]*PriceHistory
}

// NewMarket returns a new empty market data collection.
func NewMarket() *Market {
	return &Market{histories: make(map[string]*PriceHistory)}
}

// Has reports whether the market holds any price for the ticker.
func (m *Market) Has(ticker string) bool {
	_, ok := m.histories[ticker]
	return ok
}

// Get returns the price history for a ticker, or nil if none is known.
func (m *Market) Get(ticker string) *PriceHistory { return m.histories[ticker] }

// Add records a closing price for a security on a day, replacing any price
// already recorded for that day.
func (m *Market) Add(ticker string, day Date, price Money) {
	h, ok := m.histories[ticker]
	if !ok {
		h = &PriceHistory{}
		m.histories[ticker] = h
	}
	h.Add(day, price)
}

// PriceAsOf returns the latest known price for the ticker on or before the
// given day. It returns false when no price that old exists.
func (m *Market) PriceAsOf(ticker string, on Date) (Money, bool) {
	h, ok := m.histories[ticker]
	if !ok {
		return Money{}, false
	}
	return h.AsOf(on)
}

// Securities returns an iterator over the tickers with known prices, in
// lexical order.
func (m *Market) Securities() iter.Seq[string] {
	tickers := make([]string, 0, len(m.histories))
	for ticker := range m.histories {
		tickers = append(tickers, ticker)
	}
	slices.Sort(tickers)
	return slices.Values(tickers)
}

// PriceHistory is a date-sorted series of closing prices for one security.
type PriceHistory struct {
	days   []Date
	prices []Money
}

// Add inserts a price keeping the history sorted by date. A price already
// recorded on the same day is replaced.
func (h *PriceHistory) Add(day Date, price Money) {
	i := sort.Search(len(h.days), func(i int) bool { return !h.days[i].Before(day) })
	if i < len(h.days) && h.days[i] == day {
		h.prices[i] = price
		return
	}
	h.days = slices.Insert(h.days, i, day)
	h.prices = slices.Insert(h.prices, i, price)
}

// AsOf returns the latest price on or before day, and false when the history
// starts after day.
func (h *PriceHistory) AsOf(day Date) (Money, bool) {
	i := sort.Search(len(h.days), func(i int) bool { return h.days[i].After(day) })
	if i == 0 {
		return Money{}, false
	}
	return h.prices[i-1], true
}

// Len returns the number of recorded prices.
func (h *PriceHistory) Len() int { return len(h.days) }

// Oldest returns the first recorded date, or the zero date when empty.
func (h *PriceHistory) Oldest() Date {
	if len(h.days) == 0 {
		return Date{}
	}
	return h.days[0]
}

// Newest returns the last recorded date, or the zero date when empty.
func (h *PriceHistory) Newest() Date {
	if len(h.days) == 0 {
		return Date{}
	}
	return h.days[len(h.days)-1]
}

// Dates returns an iterator over the recorded dates and prices in
// chronological order.
func (h *PriceHistory) Dates() iter.Seq2[Date, Money] {
	return func(yield func(Date, Money) bool) {
		for i, day := range h.days {
			if !yield(day, h.prices[i]) {
				return
			}
		}
	}
}

// pricePoint is the JSONL line format of the market file.
type pricePoint struct {
	Security string          `json:"security"`
	Date     Date            `json:"date"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency,omitempty"`
}

// DecodeMarket decodes a market price database from a stream of JSONL data.
func DecodeMarket(r io.Reader) (*Market, error) {
	market := NewMarket()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}
		var p pricePoint
		if err := json.Unmarshal(lineBytes, &p); err != nil {
			return nil, fmt.Errorf("could not decode price line %q: %w", string(lineBytes), err)
		}
		market.Add(p.Security, p.Date, M(p.Price, p.Currency))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return market, nil
}

// EncodeMarket persists the market price database to an io.Writer in JSONL
// format, sorted by security then date for canonical output.
func EncodeMarket(w io.Writer, market *Market) error {
	decimal.MarshalJSONWithoutQuotes = true
	for ticker := range market.Securities() {
		for day, price := range market.Get(ticker).Dates() {
			var jw jsonObjectWriter
			jw.Append("security", ticker)
			jw.Append("date", day)
			jw.Append("price", price.value)
			jw.Optional("currency", price.Currency())
			data, err := jw.MarshalJSON()
			if err != nil {
				return err
			}
			if _, err := w.Write(append(data, '\n')); err != nil {
				return fmt.Errorf("failed to write price: %w", err)
			}
		}
	}
	return nil
}
