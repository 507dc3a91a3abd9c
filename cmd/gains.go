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

type gainsCmd struct{}

func (*gainsCmd) Name() string     { return "gains" }
func (*gainsCmd) Synopsis() string { return "realized and unrealized gains under every matching method" }
func (*gainsCmd) Usage() string {
	return `gains

  Replays the ledger once per lot matching method (FIFO, LIFO, HIFO) and
  prints realized and unrealized gains per security side by side.
`
}

func (c *gainsCmd) SetFlags(f *flag.FlagSet) {}

func (c *gainsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	byMethod := make(map[portfolio.MatchingMethod][]portfolio.SecurityResult)
	for _, method := range portfolio.Methods() {
		byMethod[method] = portfolio.ComputeAll(ledger, market, method)
	}

	printMarkdown(renderer.GainsMarkdown(portfolio.Today(), byMethod))
	return subcommands.ExitSuccess
}
