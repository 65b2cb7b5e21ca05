package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dvloznov/card-campaign-analytics/internal/campaign"
	"github.com/dvloznov/card-campaign-analytics/internal/queries"
	"github.com/google/subcommands"
)

type queriesCmd struct {
	name string
}

func (*queriesCmd) Name() string     { return "queries" }
func (*queriesCmd) Synopsis() string { return "print the warehouse SQL catalog" }
func (*queriesCmd) Usage() string {
	return `cli queries [-name <query>]

  Prints every catalog query, or only the named one, rendered for the
  default campaign.
`
}

func (c *queriesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Print only this query ("+strings.Join(queries.Names(), ", ")+")")
}

func (c *queriesCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if err := printQueries(os.Stdout, c.name); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return subcommands.ExitSuccess
}

func printQueries(w io.Writer, name string) error {
	catalog := queries.Render(campaign.Default())
	if name != "" {
		sql, ok := catalog[name]
		if !ok {
			return fmt.Errorf("unknown query %q", name)
		}
		_, err := fmt.Fprintln(w, strings.TrimSpace(sql))
		return err
	}
	for _, n := range queries.Names() {
		if _, err := fmt.Fprintf(w, "-- %s\n%s\n\n", n, strings.TrimSpace(catalog[n])); err != nil {
			return err
		}
	}
	return nil
}
