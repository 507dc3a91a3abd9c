package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"

	portfolio "github.com/calw20/BNB-Portfolio-Manager"
	"github.com/google/subcommands"
)

type fmtCmd struct {
	write bool
}

func (*fmtCmd) Name() string     { return "fmt" }
func (*fmtCmd) Synopsis() string { return "re-encode the ledger in canonical form" }
func (*fmtCmd) Usage() string {
	return `fmt [-w]

  Decodes the ledger, sorts it by date and re-encodes it with stable field
  order. Prints to stdout unless -w rewrites the ledger file in place.
`
}

func (c *fmtCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.write, "w", false, "Write the result back to the ledger file")
}

func (c *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	var buf bytes.Buffer
	if err := portfolio.EncodeLedger(&buf, ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	if !c.write {
		fmt.Print(buf.String())
		return subcommands.ExitSuccess
	}
	if err := os.WriteFile(*ledgerFile, buf.Bytes(), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing ledger file %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Rewrote %s\n", *ledgerFile)
	return subcommands.ExitSuccess
}
