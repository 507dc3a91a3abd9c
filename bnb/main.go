// Command bnb tracks an investment portfolio: a JSONL transaction ledger,
// daily market prices, and cost basis and performance reports.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/calw20/BNB-Portfolio-Manager/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// Shell completion, a no-op outside of a completion request.
	completion()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func completion() {
	files := map[string]complete.Predictor{
		"ledger-file": predict.Files("*.jsonl"),
		"market-file": predict.Files("*.jsonl"),
	}
	tx := &complete.Command{Flags: map[string]complete.Predictor{
		"d": predict.Nothing,
		"s": predict.Nothing,
		"q": predict.Nothing,
		"p": predict.Nothing,
		"m": predict.Nothing,
	}}
	bnb := &complete.Command{
		Flags: files,
		Sub: map[string]*complete.Command{
			"buy":      tx,
			"sell":     tx,
			"dividend": tx,
			"split":    {},
			"fetch":    {},
			"metrics":  tx,
			"summary":  {},
			"gains":    {},
			"fmt":      {},
		},
	}
	bnb.Complete("bnb")
}
