package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	portfolio "github.com/calw20/BNB-Portfolio-Manager"
	"github.com/calw20/BNB-Portfolio-Manager/renderer"
	"github.com/google/subcommands"
)

type summaryCmd struct{}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "current state of every holding and the portfolio total" }
func (*summaryCmd) Usage() string {
	return `summary [-method <method>]

  Computes every security in parallel and prints the latest snapshot of each
  holding, plus the portfolio aggregate.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {}

func (c *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	method, err := Method()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	results := portfolio.ComputeAll(ledger, market, method)
	total := portfolio.PortfolioSeries(results)

	printMarkdown(renderer.SummaryMarkdown(portfolio.Today(), method, results, total))

	// Failing securities are reported in the table; the exit code still
	// reflects that something went wrong.
	for _, r := range results {
		if r.Err != nil {
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}
