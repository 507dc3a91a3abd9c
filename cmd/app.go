// Package cmd implements the CLI application to manage a portfolio ledger and
// report on its performance.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	portfolio "github.com/calw20/BNB-Portfolio-Manager"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&buyCmd{}, "transactions")
	c.Register(&sellCmd{}, "transactions")
	c.Register(&dividendCmd{}, "transactions")
	c.Register(&splitCmd{}, "transactions")
	c.Register(&fmtCmd{}, "transactions")

	c.Register(&fetchCmd{}, "market data")

	c.Register(&metricsCmd{}, "reports")
	c.Register(&summaryCmd{}, "reports")
	c.Register(&gainsCmd{}, "reports")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var ledgerFile = flag.String("ledger-file", "transactions.jsonl", "Path to the ledger file containing transactions (JSONL format)")
var marketFile = flag.String("market-file", "prices.jsonl", "Path to the market price file (JSONL format)")
var defaultCurrency = flag.String("currency", "AUD", "Reporting currency for transactions recorded without one")
var methodName = flag.String("method", "fifo", "Lot matching method: fifo, lifo or hifo")

// DecodeLedger reads the app ledger file.
func DecodeLedger() (*portfolio.Ledger, error) {
	f, err := os.Open(*ledgerFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Println("warning, ledger does not exist, starting from an empty one")
		return portfolio.NewLedger(*defaultCurrency), nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open ledger file %q: %w", *ledgerFile, err)
	}
	defer f.Close()
	ledger, err := portfolio.DecodeLedger(f)
	if err != nil {
		return nil, fmt.Errorf("cannot decode ledger file %q: %w", *ledgerFile, err)
	}
	ledger.SetCurrency(*defaultCurrency)
	return ledger, nil
}

// DecodeMarket reads the app market price file.
func DecodeMarket() (*portfolio.Market, error) {
	f, err := os.Open(*marketFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Println("warning, market file does not exist, starting from an empty one")
		return portfolio.NewMarket(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open market file %q: %w", *marketFile, err)
	}
	defer f.Close()
	market, err := portfolio.DecodeMarket(f)
	if err != nil {
		return nil, fmt.Errorf("cannot decode market file %q: %w", *marketFile, err)
	}
	return market, nil
}

// SaveMarket persists the market price file.
func SaveMarket(market *portfolio.Market) error {
	f, err := os.Create(*marketFile)
	if err != nil {
		return fmt.Errorf("cannot create market file %q: %w", *marketFile, err)
	}
	defer f.Close()
	return portfolio.EncodeMarket(f, market)
}

// Method parses the lot matching method flag.
func Method() (portfolio.MatchingMethod, error) {
	return portfolio.ParseMatchingMethod(*methodName)
}

// appendTransaction validates a transaction against the current ledger and
// appends it to the app ledger file.
func appendTransaction(tx portfolio.Transaction) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	tx, err = ledger.Validate(tx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid transaction: %v\n", err)
		return subcommands.ExitFailure
	}

	// Open the file in append mode, creating it if it doesn't exist.
	f, err := os.OpenFile(*ledgerFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger file %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}
	defer f.Close()

	if err := portfolio.EncodeTransaction(f, tx); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing to ledger file %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Successfully appended transaction to %s\n", *ledgerFile)
	return subcommands.ExitSuccess
}
