package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	portfolio "github.com/calw20/BNB-Portfolio-Manager"
	"github.com/google/subcommands"
)

// --- Buy Command ---

type buyCmd struct {
	date     string
	security string
	quantity string
	price    float64
	memo     string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "purchase shares to open or add to a position" }
func (*buyCmd) Usage() string {
	return `buy -d <date> -s <security> -q <quantity> -p <price> [-m <memo>]

  Purchases shares of a security at a unit price, opening a new lot.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", portfolio.Today().String(), "Transaction date (YYYY-MM-DD)")
	f.StringVar(&c.security, "s", "", "Security ticker")
	f.StringVar(&c.quantity, "q", "", "Number of shares (decimal)")
	f.Float64Var(&c.price, "p", 0, "Price per share")
	f.StringVar(&c.memo, "m", "", "An optional rationale or note for the transaction")
}

func (c *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.security == "" || c.quantity == "" || c.price <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, err := portfolio.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	quantity, err := portfolio.ParseQuantity(c.quantity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing quantity: %v\n", err)
		return subcommands.ExitUsageError
	}

	tx := portfolio.NewBuy(day, c.memo, c.security, quantity, portfolio.M(c.price, *defaultCurrency))
	return appendTransaction(tx)
}

// --- Sell Command ---

type sellCmd struct {
	date     string
	security string
	quantity string
	price    float64
	memo     string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell shares to trim or close a position" }
func (*sellCmd) Usage() string {
	return `sell -d <date> -s <security> [-q <quantity>] -p <price> [-m <memo>]

  Sells shares of a security. If the quantity is missing, all shares are sold.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", portfolio.Today().String(), "Transaction date (YYYY-MM-DD)")
	f.StringVar(&c.security, "s", "", "Security ticker")
	f.StringVar(&c.quantity, "q", "", "Number of shares (decimal), if missing all shares are sold")
	f.Float64Var(&c.price, "p", 0, "Price per share")
	f.StringVar(&c.memo, "m", "", "An optional rationale or note for the transaction")
}

func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.security == "" || c.price <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, err := portfolio.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	quantity := portfolio.Q(0) // zero means sell all, resolved at validation
	if c.quantity != "" {
		quantity, err = portfolio.ParseQuantity(c.quantity)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing quantity: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	tx := portfolio.NewSell(day, c.memo, c.security, quantity, portfolio.M(c.price, *defaultCurrency))
	return appendTransaction(tx)
}

// --- Dividend Command ---

type dividendCmd struct {
	date     string
	security string
	amount   float64
	reinvest bool
	price    float64
	memo     string
}

func (*dividendCmd) Name() string     { return "dividend" }
func (*dividendCmd) Synopsis() string { return "record a cash or reinvested dividend" }
func (*dividendCmd) Usage() string {
	return `dividend -d <date> -s <security> -a <amount> [-reinvest -p <price>] [-m <memo>]

  Records a dividend payment. With -reinvest, the amount buys shares at the
  given price instead of being received as cash.
`
}

func (c *dividendCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", portfolio.Today().String(), "Transaction date (YYYY-MM-DD)")
	f.StringVar(&c.security, "s", "", "Security ticker")
	f.Float64Var(&c.amount, "a", 0, "Total dividend amount")
	f.BoolVar(&c.reinvest, "reinvest", false, "Reinvest the dividend into new shares")
	f.Float64Var(&c.price, "p", 0, "Reinvestment price per share (with -reinvest)")
	f.StringVar(&c.memo, "m", "", "An optional rationale or note for the transaction")
}

func (c *dividendCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.security == "" || c.amount <= 0 || (c.reinvest && c.price <= 0) {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, err := portfolio.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	var tx portfolio.Transaction
	if c.reinvest {
		tx = portfolio.NewReinvestDividend(day, c.memo, c.security,
			portfolio.M(c.amount, *defaultCurrency), portfolio.M(c.price, *defaultCurrency))
	} else {
		tx = portfolio.NewCashDividend(day, c.memo, c.security, portfolio.M(c.amount, *defaultCurrency))
	}
	return appendTransaction(tx)
}

// --- Split Command ---

type splitCmd struct {
	date     string
	security string
	num      int64
	den      int64
}

func (*splitCmd) Name() string     { return "split" }
func (*splitCmd) Synopsis() string { return "record a stock split or reverse split" }
func (*splitCmd) Usage() string {
	return `split -d <date> -s <security> -num <n> [-den <d>]

  Records a stock split of ratio n:d. A 2-for-1 split is -num 2, a 1-for-10
  reverse split is -num 1 -den 10.
`
}

func (c *splitCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", portfolio.Today().String(), "Transaction date (YYYY-MM-DD)")
	f.StringVar(&c.security, "s", "", "Security ticker")
	f.Int64Var(&c.num, "num", 0, "Split ratio numerator")
	f.Int64Var(&c.den, "den", 1, "Split ratio denominator")
}

func (c *splitCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.security == "" || c.num <= 0 || c.den <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, err := portfolio.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	return appendTransaction(portfolio.NewSplit(day, c.security, c.num, c.den))
}
