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

type metricsCmd struct {
	security string
	tail     int
}

func (*metricsCmd) Name() string     { return "metrics" }
func (*metricsCmd) Synopsis() string { return "daily metric series for one security" }
func (*metricsCmd) Usage() string {
	return `metrics -s <security> [-tail <n>] [-method <method>]

  Replays a security's history against its price series and prints one row
  per day: position, cost basis, market value, daily and total performance.
`
}

func (c *metricsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.security, "s", "", "Security ticker")
	f.IntVar(&c.tail, "tail", 0, "Show only the last N rows")
}

func (c *metricsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.security == "" {
		f.Usage()
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
	method, err := Method()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	series, err := portfolio.SecuritySeries(ledger, market, c.security, method)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing metrics for %s: %v\n", c.security, err)
		return subcommands.ExitFailure
	}
	if c.tail > 0 && len(series) > c.tail {
		series = series[len(series)-c.tail:]
	}

	printMarkdown(renderer.MetricsMarkdown(c.security, method, series))
	return subcommands.ExitSuccess
}
