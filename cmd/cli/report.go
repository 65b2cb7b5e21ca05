package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dvloznov/card-campaign-analytics/internal/analytics"
	"github.com/dvloznov/card-campaign-analytics/internal/campaign"
	"github.com/dvloznov/card-campaign-analytics/internal/config"
	"github.com/dvloznov/card-campaign-analytics/internal/logger"
	"github.com/dvloznov/card-campaign-analytics/internal/renderer"
	"github.com/google/subcommands"
)

type reportCmd struct {
	source   config.Source
	top      int
	style    string
	raw      bool
	logLevel string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "display the campaign performance report" }
func (*reportCmd) Usage() string {
	return `cli report [-data-source <kind>] [-top n] [-style dark|light|notty] [-raw]

  Loads the dataset from the selected source and prints the campaign
  performance report. -raw prints the markdown source.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	config.RegisterSourceFlags(f, config.OSGetenv, &c.source)
	f.IntVar(&c.top, "top", renderer.DefaultTopCustomers, "Number of top customers to list")
	f.StringVar(&c.style, "style", "dark", "Terminal style")
	f.BoolVar(&c.raw, "raw", false, "Print markdown without terminal rendering")
	f.StringVar(&c.logLevel, "log-level", "warn", "Log level")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	log := logger.NewWithLevel(c.logLevel)

	src, closeSource, err := config.OpenSource(ctx, c.source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	defer closeSource()

	engine, err := analytics.Load(ctx, src, campaign.Default())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	log.Debug().Int("transactions", engine.Len()).Str("source", src.Name()).Msg("Dataset loaded")

	md := renderer.ReportMarkdown(engine, c.top)
	if c.raw {
		fmt.Print(md)
		return subcommands.ExitSuccess
	}

	out, err := renderer.Terminal(md, c.style)
	if err != nil {
		log.Warn().Err(err).Msg("Terminal rendering failed, printing markdown")
		out = md
	}
	fmt.Print(out)
	return subcommands.ExitSuccess
}
