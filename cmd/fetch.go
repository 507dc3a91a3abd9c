package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	portfolio "github.com/calw20/BNB-Portfolio-Manager"
	"github.com/google/subcommands"
)

type fetchCmd struct {
	date string
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "fetch daily closing prices for all held securities" }
func (*fetchCmd) Usage() string {
	return `fetch [-d <date>]

  Pulls the daily closing price history of every security in the ledger from
  Yahoo, from its first transaction up to the given date, and stores it in
  the market file.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", portfolio.Today().String(), "Fetch prices up to this date (YYYY-MM-DD)")
}

func (c *fetchCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	to, err := portfolio.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	market, err := DecodeMarket()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	fetchErr := portfolio.FetchMarket(ledger, market, to)
	if err := SaveMarket(market); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if fetchErr != nil {
		fmt.Fprintln(os.Stderr, fetchErr)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
