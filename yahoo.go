package portfolio

import (
	"fmt"
	"log"
	"net/url"

	"github.com/PaesslerAG/jsonpath"
)

/*
	Yahoo chart API response, trimmed to the parts we read:
	{
	    "chart": {
	        "result": [
	            {
	                "meta": { "currency": "AUD", "symbol": "BHP.AX" },
	                "timestamp": [ 1704067200, ... ],
	                "indicators": {
	                    "quote": [ { "close": [ 45.12, ... ] } ]
	                }
	            }
	        ],
	        "error": null
	    }
	}
*/

const yahooChartURL = "https://query1.finance.yahoo.com/v8/finance/chart/"

// YahooDailyHistory fetches the daily closing price history of a symbol from
// the Yahoo chart API over the given date range, inclusive.
func YahooDailyHistory(symbol string, span Range) (*PriceHistory, string, error) {
	addr := yahooChartURL + url.PathEscape(symbol) +
		fmt.Sprintf("?period1=%d&period2=%d&interval=1d&events=history", span.From.Unix(), span.To.Add(1).Unix())

	var jobj interface{}
	if err := jwget(daily(), addr, &jobj); err != nil {
		return nil, "", fmt.Errorf("error fetching %q: %w", symbol, err)
	}

	currency, _ := yahooString(jobj, "$.chart.result[0].meta.currency")

	timestamps, err := yahooFloats(jobj, "$.chart.result[0].timestamp")
	if err != nil {
		return nil, "", fmt.Errorf("error parsing %q: %w", symbol, err)
	}
	closes, err := yahooFloats(jobj, "$.chart.result[0].indicators.quote[0].close")
	if err != nil {
		return nil, "", fmt.Errorf("error parsing %q: %w", symbol, err)
	}
	if len(timestamps) != len(closes) {
		return nil, "", fmt.Errorf("error parsing %q: %d timestamps for %d closes", symbol, len(timestamps), len(closes))
	}

	history := &PriceHistory{}
	for i := range closes {
		if closes[i] == nil || timestamps[i] == nil {
			continue // market holiday, yahoo reports null
		}
		day := DateOfUnix(int64(*timestamps[i]))
		if !span.Contains(day) {
			continue // yahoo pads the requested period with extra candles
		}
		history.Add(day, M(*closes[i], currency))
	}
	return history, currency, nil
}

// FetchMarket pulls the daily closing prices of every security in the ledger
// into the market, from each security's first transaction to the given date.
// Failures are logged and skipped so one unknown symbol never aborts a fetch.
func FetchMarket(ledger *Ledger, market *Market, to Date) error {
	var failed int
	for ticker := range ledger.Securities() {
		from := ledger.OldestTransactionDate()
		for tx := range ledger.SecurityTransactions(ticker, to) {
			from = tx.When()
			break
		}
		history, _, err := YahooDailyHistory(ticker, NewRange(from, to))
		if err != nil {
			log.Printf("fetch %s: %v", ticker, err)
			failed++
			continue
		}
		for day, price := range history.Dates() {
			market.Add(ticker, day, price)
		}
		log.Printf("fetch %s: %d prices", ticker, history.Len())
	}
	if failed > 0 {
		return fmt.Errorf("%d securities failed to fetch", failed)
	}
	return nil
}

// yahooString reads a single string at a jsonpath.
func yahooString(jobj interface{}, path string) (string, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return "", fmt.Errorf("error parsing %q: %w", path, err)
	}
	s, ok := jval.(string)
	if !ok {
		return "", fmt.Errorf("error parsing %q: not a string: %v", path, jval)
	}
	return s, nil
}

// yahooFloats reads an array of nullable numbers at a jsonpath.
func yahooFloats(jobj interface{}, path string) ([]*float64, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("error parsing %q: %w", path, err)
	}
	jlist, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("error parsing %q: not a list: %v", path, jval)
	}
	out := make([]*float64, 0, len(jlist))
	for _, v := range jlist {
		if f, ok := v.(float64); ok {
			out = append(out, &f)
		} else {
			out = append(out, nil) // null close on a non-trading day
		}
	}
	return out, nil
}
