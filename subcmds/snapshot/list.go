// Copyright (c) 2025 BVK Chaitanya

package snapshot

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/bvk/tradedash/store"
	"github.com/bvk/tradedash/subcmds/cmdutil"
	"github.com/visvasity/cli"
)

type List struct {
	cmdutil.DBFlags
}

func (c *List) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("list", flag.ContinueOnError)
	c.DBFlags.SetFlags(fset)
	return "list", fset, cli.CmdFunc(c.run)
}

func (c *List) run(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("this command takes no arguments")
	}
	db, closer, err := c.DBFlags.GetDatabase(ctx)
	if err != nil {
		return err
	}
	defer closer()

	snaps, err := store.New(db).List(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cli.Stdout(ctx), 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "ID\tName\tBenchmark\tInterval\tPrices\tCreated At\t\n")
	for _, s := range snaps {
		interval := ""
		if s.Interval != nil {
			interval = s.Interval.String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t\n", s.ID, s.Name, s.Benchmark.ID, interval, len(s.Prices), s.CreatedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}

func (c *List) Purpose() string {
	return "Prints all saved snapshots"
}
